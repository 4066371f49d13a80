package story

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNextMilestoneLadder(t *testing.T) {
	tests := []struct {
		saved string
		want  string
	}{
		{"0", "5"},
		{"4.99", "5"},
		{"5", "10"},
		{"19", "20"},
		{"20", "50"},
		{"499", "500"},
		{"500", "1000"},
		{"2000", "1000"},
	}
	for _, tt := range tests {
		got := NextMilestone(dec(tt.saved))
		assert.True(t, got.Equal(dec(tt.want)), "saved %s: got %s want %s", tt.saved, got, tt.want)
	}
}

func TestEquivalentsSuppressTinyAmounts(t *testing.T) {
	// 1 kg saved: ~0.05 tree-years is suppressed, miles/charges/LED survive
	equivalents := Equivalents(dec("1"))

	units := map[string]decimal.Decimal{}
	for _, eq := range equivalents {
		units[eq.Unit] = eq.Amount
	}

	_, hasTreeYears := units["tree_years"]
	assert.False(t, hasTreeYears, "sub-0.1 amounts should be dropped")

	carMiles, ok := units["car_miles"]
	require.True(t, ok)
	assert.True(t, carMiles.Equal(dec("2.5")), "got %s", carMiles)

	charges, ok := units["phone_charges"]
	require.True(t, ok)
	assert.True(t, charges.Equal(dec("118.9")), "got %s", charges)
}

func TestEquivalentsZeroSavedIsEmpty(t *testing.T) {
	assert.Empty(t, Equivalents(decimal.Zero))
	assert.Empty(t, Equivalents(dec("-3")))
}

func TestGenerateNarrativeTiers(t *testing.T) {
	tests := []struct {
		saved    string
		fragment string
	}{
		{"150", "climate hero"},
		{"100", "climate hero"},
		{"50", "Outstanding"},
		{"20", "Great work"},
		{"5", "solid start"},
		{"1", "Every choice counts"},
		{"0", "Every choice counts"},
	}
	for _, tt := range tests {
		story := Generate(dec(tt.saved))
		assert.True(t, strings.Contains(story.StoryText, tt.fragment),
			"saved %s: %q should contain %q", tt.saved, story.StoryText, tt.fragment)
	}
}

func TestGenerateProgress(t *testing.T) {
	story := Generate(dec("2.5"))
	assert.True(t, story.NextMilestoneKg.Equal(dec("5")))
	assert.True(t, story.ProgressPct.Equal(dec("50")), "got %s", story.ProgressPct)

	story = Generate(decimal.Zero)
	assert.True(t, story.ProgressPct.IsZero())
	assert.Empty(t, story.Equivalents)
}

type stubImpacts struct {
	impact *models.UserImpact
}

func (s *stubImpacts) UserImpact(ctx context.Context, userID uuid.UUID) (*models.UserImpact, error) {
	return s.impact, nil
}

func TestServiceGenerateImpactStory(t *testing.T) {
	svc, err := NewService(&stubImpacts{impact: &models.UserImpact{
		TotalSavedKg: dec("25"),
	}})
	require.NoError(t, err)

	story, err := svc.GenerateImpactStory(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Contains(t, story.StoryText, "Great work")
	assert.True(t, story.NextMilestoneKg.Equal(dec("50")))
	assert.NotEmpty(t, story.Equivalents)
}

func TestServiceGenerateImpactStoryNoHistory(t *testing.T) {
	svc, err := NewService(&stubImpacts{})
	require.NoError(t, err)

	story, err := svc.GenerateImpactStory(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Contains(t, story.StoryText, "Every choice counts")
	assert.Empty(t, story.Equivalents)
}
