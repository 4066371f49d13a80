package story

import (
	"github.com/shopspring/decimal"
)

// Equivalence converts kilograms of CO2e into a tangible unit.
type Equivalence struct {
	Unit         string
	Label        string
	CO2PerUnitKg decimal.Decimal
}

// Equivalent is one converted figure in an impact story.
type Equivalent struct {
	Unit   string          `json:"unit"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Story is the rendered impact narrative for a user.
type Story struct {
	StoryText       string          `json:"story_text"`
	Equivalents     []Equivalent    `json:"equivalents"`
	NextMilestoneKg decimal.Decimal `json:"next_milestone_kg"`
	ProgressPct     decimal.Decimal `json:"progress_pct"`
}

// equivalences holds the fixed conversion table. Amounts below minVisible
// units are dropped from the story rather than shown as noise.
var equivalences = []Equivalence{
	{Unit: "tree_years", Label: "years of CO2 absorbed by a tree", CO2PerUnitKg: decimal.RequireFromString("21.77")},
	{Unit: "car_miles", Label: "miles not driven by car", CO2PerUnitKg: decimal.RequireFromString("0.404")},
	{Unit: "led_hours", Label: "hours of LED bulb use", CO2PerUnitKg: decimal.RequireFromString("0.00004")},
	{Unit: "phone_charges", Label: "smartphone charges", CO2PerUnitKg: decimal.RequireFromString("0.00841")},
	{Unit: "plant_meals", Label: "plant-based meals instead of beef", CO2PerUnitKg: decimal.RequireFromString("2.0")},
}

var minVisible = decimal.RequireFromString("0.1")

// milestones is the fixed saved-kg ladder; past the last rung the next
// target is fixed at 1000.
var milestones = []decimal.Decimal{
	decimal.NewFromInt(5),
	decimal.NewFromInt(10),
	decimal.NewFromInt(20),
	decimal.NewFromInt(50),
	decimal.NewFromInt(100),
	decimal.NewFromInt(200),
	decimal.NewFromInt(500),
}

var milestoneFallback = decimal.NewFromInt(1000)

// Generate builds the impact story for a lifetime saved total.
func Generate(totalSavedKg decimal.Decimal) Story {
	if totalSavedKg.IsNegative() {
		totalSavedKg = decimal.Zero
	}

	next := NextMilestone(totalSavedKg)
	progress := decimal.Zero
	if next.GreaterThan(decimal.Zero) {
		progress = totalSavedKg.Div(next).Mul(decimal.NewFromInt(100)).Round(1)
	}
	if progress.GreaterThan(decimal.NewFromInt(100)) {
		progress = decimal.NewFromInt(100)
	}

	return Story{
		StoryText:       narrative(totalSavedKg),
		Equivalents:     Equivalents(totalSavedKg),
		NextMilestoneKg: next,
		ProgressPct:     progress,
	}
}

// Equivalents converts a saved total through the fixed table, dropping
// entries too small to mean anything.
func Equivalents(totalSavedKg decimal.Decimal) []Equivalent {
	result := []Equivalent{}
	if totalSavedKg.LessThanOrEqual(decimal.Zero) {
		return result
	}
	for _, eq := range equivalences {
		amount := totalSavedKg.Div(eq.CO2PerUnitKg).Round(1)
		if amount.LessThan(minVisible) {
			continue
		}
		result = append(result, Equivalent{
			Unit:   eq.Unit,
			Label:  eq.Label,
			Amount: amount,
		})
	}
	return result
}

// NextMilestone returns the first ladder rung above the saved total.
func NextMilestone(totalSavedKg decimal.Decimal) decimal.Decimal {
	for _, m := range milestones {
		if totalSavedKg.LessThan(m) {
			return m
		}
	}
	return milestoneFallback
}

func narrative(totalSavedKg decimal.Decimal) string {
	saved := totalSavedKg.StringFixed(1)
	switch {
	case totalSavedKg.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return "You're a climate hero! You've saved " + saved + " kg of CO2e through your choices."
	case totalSavedKg.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return "Outstanding! " + saved + " kg of CO2e saved and counting."
	case totalSavedKg.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return "Great work! You've saved " + saved + " kg of CO2e with greener picks."
	case totalSavedKg.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return "You're off to a solid start: " + saved + " kg of CO2e saved."
	default:
		return "Every choice counts. You've saved " + saved + " kg of CO2e so far."
	}
}
