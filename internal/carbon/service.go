package carbon

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	pkgerrors "github.com/tareqmahmood/greenshop-backend/pkg/errors"
)

// Service exposes the footprint fallback chain and the category baseline.
// Both degrade to zero when data is missing; neither caches anything.
type Service interface {
	EffectiveCarbon(product *models.Product) decimal.Decimal
	CategoryBaseline(ctx context.Context, categoryID uuid.UUID) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService wires the carbon metrics dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "carbon repository required")
	}
	return &service{repo: repo}, nil
}

// EffectiveCarbon resolves a product's footprint: the explicit value wins,
// then the category default, then zero. The product's Category association
// must already be loaded for the default to apply.
func (s *service) EffectiveCarbon(product *models.Product) decimal.Decimal {
	return EffectiveCarbon(product)
}

// EffectiveCarbon is the package-level fallback chain, usable without a
// repository when the caller already holds a loaded product.
func EffectiveCarbon(product *models.Product) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	if product.CarbonFootprintKg.Valid {
		return product.CarbonFootprintKg.Decimal
	}
	if product.Category != nil {
		return product.Category.DefaultEmissionFactorKg
	}
	return decimal.Zero
}

// CategoryBaseline returns the mean effective carbon across every product in
// the category, unavailable products included. An empty or unknown category
// yields exact zero. The mean is recomputed on every call so it tracks
// catalog changes.
func (s *service) CategoryBaseline(ctx context.Context, categoryID uuid.UUID) (decimal.Decimal, error) {
	if categoryID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	category, err := s.repo.FindCategory(ctx, categoryID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if category == nil {
		return decimal.Zero, nil
	}

	products, err := s.repo.FindProductsByCategory(ctx, categoryID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category products")
	}
	return BaselineOf(category, products), nil
}

// BaselineOf computes the category mean over an already-loaded product set.
func BaselineOf(category *models.Category, products []models.Product) decimal.Decimal {
	if category == nil || len(products) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for i := range products {
		p := products[i]
		if p.Category == nil {
			p.Category = category
		}
		total = total.Add(EffectiveCarbon(&p))
	}
	return total.Div(decimal.NewFromInt(int64(len(products))))
}
