package projection

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/tareqmahmood/greenshop-backend/pkg/errors"
)

// DefaultWindow is how many recent orders feed the monthly base estimate.
const DefaultWindow = 3

type historySource interface {
	RecentOrderCarbons(ctx context.Context, userID uuid.UUID, window int) ([]decimal.Decimal, error)
}

// ScenarioInput is the hypothetical the caller wants projected: swap this
// fraction of purchases to options that save this ratio, over this horizon.
type ScenarioInput struct {
	SwapFraction float64 `json:"swap_fraction" validate:"gte=0,lte=1"`
	SavingRatio  float64 `json:"saving_ratio" validate:"gte=0"`
	Months       int     `json:"months" validate:"gt=0,lte=120"`
}

// Projection is the linear what-if extrapolation. Nothing here is persisted.
type Projection struct {
	BaseMonthlyKg      decimal.Decimal `json:"base_monthly_kg"`
	ProjectedMonthlyKg decimal.Decimal `json:"projected_monthly_kg"`
	ReductionFactor    decimal.Decimal `json:"reduction_factor"`
	TotalBaseKg        decimal.Decimal `json:"total_base_kg"`
	TotalProjectedKg   decimal.Decimal `json:"total_projected_kg"`
	TotalSavedKg       decimal.Decimal `json:"total_saved_kg"`
	Months             int             `json:"months"`
}

// Service runs stateless what-if projections over a user's recent orders.
type Service interface {
	ProjectScenario(ctx context.Context, userID uuid.UUID, input ScenarioInput) (*Projection, error)
}

type service struct {
	history  historySource
	window   int
	validate *validator.Validate
}

// NewService wires the projection dependencies. window <= 0 falls back to
// DefaultWindow.
func NewService(history historySource, window int) (Service, error) {
	if history == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order history source required")
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &service{
		history:  history,
		window:   window,
		validate: validator.New(),
	}, nil
}

// ProjectScenario estimates the user's monthly carbon from their recent
// orders, applies the hypothetical swap, and extrapolates linearly. A user
// with no order history projects to all zeros rather than failing.
func (s *service) ProjectScenario(ctx context.Context, userID uuid.UUID, input ScenarioInput) (*Projection, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scenario")
	}

	recent, err := s.history.RecentOrderCarbons(ctx, userID, s.window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent order carbons")
	}

	baseMonthly := decimal.Zero
	if len(recent) > 0 {
		total := decimal.Zero
		for _, kg := range recent {
			total = total.Add(kg)
		}
		baseMonthly = total.Div(decimal.NewFromInt(int64(len(recent))))
	}

	reduction := decimal.NewFromFloat(input.SwapFraction).Mul(decimal.NewFromFloat(input.SavingRatio))
	if reduction.GreaterThan(decimal.NewFromInt(1)) {
		reduction = decimal.NewFromInt(1)
	}

	projectedMonthly := baseMonthly.Mul(decimal.NewFromInt(1).Sub(reduction))
	months := decimal.NewFromInt(int64(input.Months))
	totalBase := baseMonthly.Mul(months)
	totalProjected := projectedMonthly.Mul(months)
	totalSaved := totalBase.Sub(totalProjected)
	if totalSaved.IsNegative() {
		totalSaved = decimal.Zero
	}

	return &Projection{
		BaseMonthlyKg:      baseMonthly,
		ProjectedMonthlyKg: projectedMonthly,
		ReductionFactor:    reduction,
		TotalBaseKg:        totalBase,
		TotalProjectedKg:   totalProjected,
		TotalSavedKg:       totalSaved,
		Months:             input.Months,
	}, nil
}
