package projection

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	carbons []decimal.Decimal
	window  int
}

func (s *stubHistory) RecentOrderCarbons(ctx context.Context, userID uuid.UUID, window int) ([]decimal.Decimal, error) {
	s.window = window
	if len(s.carbons) > window {
		return s.carbons[:window], nil
	}
	return s.carbons, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProjectScenarioLinearExtrapolation(t *testing.T) {
	history := &stubHistory{carbons: []decimal.Decimal{dec("10"), dec("20"), dec("30")}}
	svc, err := NewService(history, 3)
	require.NoError(t, err)

	projection, err := svc.ProjectScenario(context.Background(), uuid.New(), ScenarioInput{
		SwapFraction: 0.5,
		SavingRatio:  0.4,
		Months:       6,
	})
	require.NoError(t, err)

	// base 20, reduction 0.2, projected 16
	assert.True(t, projection.BaseMonthlyKg.Equal(dec("20")), "base %s", projection.BaseMonthlyKg)
	assert.True(t, projection.ReductionFactor.Equal(dec("0.2")))
	assert.True(t, projection.ProjectedMonthlyKg.Equal(dec("16")))
	assert.True(t, projection.TotalBaseKg.Equal(dec("120")))
	assert.True(t, projection.TotalProjectedKg.Equal(dec("96")))
	assert.True(t, projection.TotalSavedKg.Equal(dec("24")))
	assert.Equal(t, 3, history.window)
}

func TestProjectScenarioReductionCappedAtOne(t *testing.T) {
	history := &stubHistory{carbons: []decimal.Decimal{dec("10")}}
	svc, err := NewService(history, 3)
	require.NoError(t, err)

	projection, err := svc.ProjectScenario(context.Background(), uuid.New(), ScenarioInput{
		SwapFraction: 1,
		SavingRatio:  5,
		Months:       2,
	})
	require.NoError(t, err)

	assert.True(t, projection.ReductionFactor.Equal(dec("1")))
	assert.True(t, projection.ProjectedMonthlyKg.IsZero())
	assert.True(t, projection.TotalSavedKg.Equal(dec("20")))
}

func TestProjectScenarioNoHistoryIsAllZero(t *testing.T) {
	svc, err := NewService(&stubHistory{}, 3)
	require.NoError(t, err)

	projection, err := svc.ProjectScenario(context.Background(), uuid.New(), ScenarioInput{
		SwapFraction: 0.3,
		SavingRatio:  0.5,
		Months:       12,
	})
	require.NoError(t, err)

	assert.True(t, projection.BaseMonthlyKg.IsZero())
	assert.True(t, projection.TotalBaseKg.IsZero())
	assert.True(t, projection.TotalSavedKg.IsZero())
}

func TestProjectScenarioValidation(t *testing.T) {
	svc, err := NewService(&stubHistory{}, 3)
	require.NoError(t, err)
	ctx := context.Background()
	userID := uuid.New()

	_, err = svc.ProjectScenario(ctx, userID, ScenarioInput{SwapFraction: 1.2, SavingRatio: 0.5, Months: 3})
	assert.Error(t, err, "swap fraction above one")

	_, err = svc.ProjectScenario(ctx, userID, ScenarioInput{SwapFraction: -0.1, SavingRatio: 0.5, Months: 3})
	assert.Error(t, err, "negative swap fraction")

	_, err = svc.ProjectScenario(ctx, userID, ScenarioInput{SwapFraction: 0.5, SavingRatio: -1, Months: 3})
	assert.Error(t, err, "negative saving ratio")

	_, err = svc.ProjectScenario(ctx, userID, ScenarioInput{SwapFraction: 0.5, SavingRatio: 0.5, Months: 0})
	assert.Error(t, err, "zero months")

	_, err = svc.ProjectScenario(ctx, uuid.Nil, ScenarioInput{SwapFraction: 0.5, SavingRatio: 0.5, Months: 3})
	assert.Error(t, err, "missing user")
}

func TestNewServiceDefaultsWindow(t *testing.T) {
	history := &stubHistory{carbons: []decimal.Decimal{dec("4")}}
	svc, err := NewService(history, 0)
	require.NoError(t, err)

	_, err = svc.ProjectScenario(context.Background(), uuid.New(), ScenarioInput{
		SwapFraction: 0.5,
		SavingRatio:  0.5,
		Months:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow, history.window)
}
