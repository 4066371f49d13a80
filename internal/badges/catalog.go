package badges

import (
	"github.com/shopspring/decimal"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
)

// Badge codes known to the catalog.
const (
	CodeFirstGreen  = "FIRST_GREEN"
	CodeSaved5      = "SAVED_5"
	CodeSaved20     = "SAVED_20"
	CodeSaved50     = "SAVED_50"
	CodeSaved100    = "SAVED_100"
	CodeTreePlanter = "TREE_PLANTER"
	CodeStreak3     = "STREAK_3"
)

// CatalogDefinitions returns the canonical badge catalog. Seeding upserts by
// code, so edits here propagate on the next seed pass without duplicating
// rows.
func CatalogDefinitions() []models.Badge {
	return []models.Badge{
		{
			Code:          CodeFirstGreen,
			Name:          "First Green Purchase",
			Description:   "Saved carbon on an order for the first time.",
			Icon:          "🌱",
			ConditionType: enums.BadgeConditionFirstOrder,
			ThresholdKg:   decimal.Zero,
		},
		{
			Code:          CodeSaved5,
			Name:          "Carbon Saver",
			Description:   "Saved 5 kg of CO2e in total.",
			Icon:          "♻️",
			ConditionType: enums.BadgeConditionTotalSaved,
			ThresholdKg:   decimal.NewFromInt(5),
		},
		{
			Code:          CodeSaved20,
			Name:          "Eco Warrior",
			Description:   "Saved 20 kg of CO2e in total.",
			Icon:          "🌍",
			ConditionType: enums.BadgeConditionTotalSaved,
			ThresholdKg:   decimal.NewFromInt(20),
		},
		{
			Code:          CodeSaved50,
			Name:          "Climate Champion",
			Description:   "Saved 50 kg of CO2e in total.",
			Icon:          "🏆",
			ConditionType: enums.BadgeConditionTotalSaved,
			ThresholdKg:   decimal.NewFromInt(50),
		},
		{
			Code:          CodeSaved100,
			Name:          "Planet Guardian",
			Description:   "Saved 100 kg of CO2e in total.",
			Icon:          "🌟",
			ConditionType: enums.BadgeConditionTotalSaved,
			ThresholdKg:   decimal.NewFromInt(100),
		},
		{
			Code:          CodeTreePlanter,
			Name:          "Tree Planter",
			Description:   "Saved as much CO2e as a tree absorbs in a year.",
			Icon:          "🌳",
			ConditionType: enums.BadgeConditionTotalSaved,
			// one tree-year of absorption
			ThresholdKg: decimal.RequireFromString("21.77"),
		},
		{
			Code:          CodeStreak3,
			Name:          "Green Streak",
			Description:   "Three low-impact orders in a row.",
			Icon:          "🔥",
			ConditionType: enums.BadgeConditionStreak,
			ThresholdKg:   decimal.NewFromInt(3),
		},
	}
}
