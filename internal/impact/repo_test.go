package impact

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

func setupImpactTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  paid INTEGER NOT NULL DEFAULT 0,
  transaction_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderImpacts := `
CREATE TABLE IF NOT EXISTS order_impacts (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  carbon_kg NUMERIC NOT NULL,
  baseline_kg NUMERIC NOT NULL,
  saved_kg NUMERIC NOT NULL,
  created_at DATETIME,
  CONSTRAINT uq_order_impacts_order UNIQUE (order_id)
);`
	userImpacts := `
CREATE TABLE IF NOT EXISTS user_impacts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total_carbon_kg NUMERIC NOT NULL DEFAULT 0,
  total_saved_kg NUMERIC NOT NULL DEFAULT 0,
  total_orders INTEGER NOT NULL DEFAULT 0,
  current_month_carbon_kg NUMERIC NOT NULL DEFAULT 0,
  month_budget_kg NUMERIC NOT NULL DEFAULT 0,
  low_impact_streak INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderImpacts).Error)
	require.NoError(t, db.Exec(userImpacts).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID *uuid.UUID, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    "processing",
		Paid:      true,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestEnsureUserImpactIsIdempotent(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.EnsureUserImpact(ctx, userID))
	require.NoError(t, repo.EnsureUserImpact(ctx, userID))

	var count int64
	require.NoError(t, db.Model(&models.UserImpact{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	impact, err := repo.FindUserImpact(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, impact)
	assert.Equal(t, 0, impact.TotalOrders)
	assert.True(t, impact.TotalCarbonKg.IsZero())
}

func TestApplyOrderTotalsAccumulates(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.EnsureUserImpact(ctx, userID))

	require.NoError(t, repo.ApplyOrderTotals(ctx, userID, dec("10.50"), dec("2.25")))
	require.NoError(t, repo.ApplyOrderTotals(ctx, userID, dec("4.50"), dec("1.75")))

	impact, err := repo.FindUserImpact(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, impact.TotalOrders)
	assert.True(t, impact.TotalCarbonKg.Equal(dec("15")), "carbon %s", impact.TotalCarbonKg)
	assert.True(t, impact.TotalSavedKg.Equal(dec("4")), "saved %s", impact.TotalSavedKg)
	assert.True(t, impact.CurrentMonthCarbonKg.Equal(dec("15")))
	assert.Equal(t, 2, impact.LowImpactStreak)
}

func TestApplyOrderTotalsStreakResetsOnZeroSavings(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.EnsureUserImpact(ctx, userID))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.ApplyOrderTotals(ctx, userID, dec("1"), dec("1")))
	}
	impact, err := repo.FindUserImpact(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, impact.LowImpactStreak)

	require.NoError(t, repo.ApplyOrderTotals(ctx, userID, dec("1"), decimal.Zero))
	impact, err = repo.FindUserImpact(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, impact.LowImpactStreak, "zero-savings order resets the streak")
	assert.Equal(t, 4, impact.TotalOrders, "counters keep growing through a reset")

	require.NoError(t, repo.ApplyOrderTotals(ctx, userID, dec("1"), dec("0.5")))
	impact, err = repo.FindUserImpact(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, impact.LowImpactStreak)
}

func TestApplyOrderTotalsMissingRowErrors(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)

	err := repo.ApplyOrderTotals(context.Background(), uuid.New(), dec("1"), dec("1"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResetMonthCarbonZeroesOnlyTheMonthCounter(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.EnsureUserImpact(ctx, userID))
	require.NoError(t, repo.ApplyOrderTotals(ctx, userID, dec("12.5"), dec("3")))

	require.NoError(t, repo.ResetMonthCarbon(ctx, userID))

	impact, err := repo.FindUserImpact(ctx, userID)
	require.NoError(t, err)
	assert.True(t, impact.CurrentMonthCarbonKg.IsZero())
	assert.True(t, impact.TotalCarbonKg.Equal(dec("12.5")), "lifetime totals survive the rollover")
	assert.True(t, impact.TotalSavedKg.Equal(dec("3")))
	assert.Equal(t, 1, impact.TotalOrders)
	assert.Equal(t, 1, impact.LowImpactStreak)
}

func TestFindImpactsWithMonthCarbonSkipsIdleUsers(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := uuid.New()
	idle := uuid.New()
	require.NoError(t, repo.EnsureUserImpact(ctx, active))
	require.NoError(t, repo.EnsureUserImpact(ctx, idle))
	require.NoError(t, repo.ApplyOrderTotals(ctx, active, dec("7"), decimal.Zero))

	rows, err := repo.FindImpactsWithMonthCarbon(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active, rows[0].UserID)
	assert.True(t, rows[0].CurrentMonthCarbonKg.Equal(dec("7")))
}

func TestCreateOrderImpactEnforcesOnePerOrder(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, nil, time.Now())
	first := &models.OrderImpact{
		ID:         uuid.New(),
		OrderID:    order.ID,
		CarbonKg:   dec("5"),
		BaselineKg: dec("6"),
		SavedKg:    dec("1"),
	}
	require.NoError(t, repo.CreateOrderImpact(ctx, first))

	dup := &models.OrderImpact{
		ID:         uuid.New(),
		OrderID:    order.ID,
		CarbonKg:   dec("9"),
		BaselineKg: dec("9"),
		SavedKg:    dec("0"),
	}
	assert.Error(t, repo.CreateOrderImpact(ctx, dup))

	stored, err := repo.FindOrderImpact(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.CarbonKg.Equal(dec("5")), "first write wins")
}

func TestRecentOrderCarbonsNewestFirst(t *testing.T) {
	db := setupImpactTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().Add(-time.Hour)
	for i, kg := range []string{"10", "20", "30", "40"} {
		order := seedOrder(t, db, &userID, base.Add(time.Duration(i)*time.Minute))
		impact := &models.OrderImpact{
			ID:         uuid.New(),
			OrderID:    order.ID,
			CarbonKg:   dec(kg),
			BaselineKg: dec(kg),
			SavedKg:    decimal.Zero,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.CreateOrderImpact(ctx, impact))
	}

	// another user's history stays out of the window
	other := uuid.New()
	otherOrder := seedOrder(t, db, &other, time.Now())
	require.NoError(t, repo.CreateOrderImpact(ctx, &models.OrderImpact{
		ID:         uuid.New(),
		OrderID:    otherOrder.ID,
		CarbonKg:   dec("99"),
		BaselineKg: dec("99"),
		SavedKg:    decimal.Zero,
	}))

	values, err := repo.RecentOrderCarbons(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.True(t, values[0].Equal(dec("40")))
	assert.True(t, values[1].Equal(dec("30")))
	assert.True(t, values[2].Equal(dec("20")))
}
