package budget

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
	pkgerrors "github.com/tareqmahmood/greenshop-backend/pkg/errors"
)

// Fixed classification thresholds: at or under 70% of budget is green, at or
// under 100% is amber, anything over is red.
var (
	greenCeiling = decimal.RequireFromString("0.70")
	amberCeiling = decimal.RequireFromString("1.00")
)

// Service classifies monthly carbon spend against the user's budget.
type Service interface {
	Status(ctx context.Context, userID uuid.UUID) (enums.BudgetStatus, error)
	UpdateBudget(ctx context.Context, userID uuid.UUID, budgetKg decimal.Decimal) error
}

type service struct {
	repo Repository
}

// NewService wires the budget dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "budget repository required")
	}
	return &service{repo: repo}, nil
}

// Status returns unset when no budget is configured (or the user has no
// accumulator row yet), otherwise classifies the month's carbon against the
// budget.
func (s *service) Status(ctx context.Context, userID uuid.UUID) (enums.BudgetStatus, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	impact, err := s.repo.FindUserImpact(ctx, userID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user impact")
	}
	if impact == nil {
		return enums.BudgetStatusUnset, nil
	}
	return Classify(impact.CurrentMonthCarbonKg, impact.MonthBudgetKg), nil
}

// Classify applies the fixed thresholds to a month's carbon and budget.
func Classify(currentMonthKg, budgetKg decimal.Decimal) enums.BudgetStatus {
	if budgetKg.LessThanOrEqual(decimal.Zero) {
		return enums.BudgetStatusUnset
	}
	ratio := currentMonthKg.Div(budgetKg)
	switch {
	case ratio.LessThanOrEqual(greenCeiling):
		return enums.BudgetStatusGreen
	case ratio.LessThanOrEqual(amberCeiling):
		return enums.BudgetStatusAmber
	default:
		return enums.BudgetStatusRed
	}
}

// UpdateBudget stores a new monthly budget for the user, creating the
// accumulator row when needed. A zero budget turns classification off.
func (s *service) UpdateBudget(ctx context.Context, userID uuid.UUID, budgetKg decimal.Decimal) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if budgetKg.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "budget must not be negative")
	}
	if err := s.repo.SetMonthBudget(ctx, userID, budgetKg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set month budget")
	}
	return nil
}
