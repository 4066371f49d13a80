package alternatives

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tareqmahmood/greenshop-backend/internal/carbon"
	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	pkgerrors "github.com/tareqmahmood/greenshop-backend/pkg/errors"
)

// Suggestion pairs a candidate product with its effective carbon and the
// saving against the product it would replace.
type Suggestion struct {
	Product  models.Product  `json:"product"`
	CarbonKg decimal.Decimal `json:"carbon_kg"`
	SavedKg  decimal.Decimal `json:"saved_kg"`
	SavedPct decimal.Decimal `json:"saved_pct"`
}

// Service suggests lower-carbon swaps within a product's category.
type Service interface {
	GreenerAlternative(ctx context.Context, productID uuid.UUID) (*Suggestion, error)
	SwapLadder(ctx context.Context, productID uuid.UUID, limit int) ([]Suggestion, error)
}

type service struct {
	catalog carbon.Repository
}

// NewService wires the alternatives dependencies.
func NewService(catalog carbon.Repository) (Service, error) {
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{catalog: catalog}, nil
}

// GreenerAlternative returns the lowest-carbon in-stock product from the
// same category that beats the given product's effective carbon, or nil
// when nothing greener exists.
func (s *service) GreenerAlternative(ctx context.Context, productID uuid.UUID) (*Suggestion, error) {
	ladder, err := s.SwapLadder(ctx, productID, 1)
	if err != nil {
		return nil, err
	}
	if len(ladder) == 0 {
		return nil, nil
	}
	return &ladder[0], nil
}

// SwapLadder returns up to limit greener in-category swaps, best savings
// first. Unavailable products are excluded as suggestions even though they
// still count toward the category baseline elsewhere.
func (s *service) SwapLadder(ctx context.Context, productID uuid.UUID, limit int) ([]Suggestion, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if limit <= 0 {
		limit = 5
	}

	product, err := s.catalog.FindProductWithCategory(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	current := carbon.EffectiveCarbon(product)
	siblings, err := s.catalog.FindProductsByCategory(ctx, product.CategoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category products")
	}

	suggestions := []Suggestion{}
	for i := range siblings {
		candidate := siblings[i]
		if candidate.ID == product.ID || !candidate.Available {
			continue
		}
		if candidate.Category == nil {
			candidate.Category = product.Category
		}
		kg := carbon.EffectiveCarbon(&candidate)
		if kg.GreaterThanOrEqual(current) {
			continue
		}
		saved := current.Sub(kg)
		pct := decimal.Zero
		if current.GreaterThan(decimal.Zero) {
			pct = saved.Div(current).Mul(decimal.NewFromInt(100)).Round(1)
		}
		suggestions = append(suggestions, Suggestion{
			Product:  candidate,
			CarbonKg: kg,
			SavedKg:  saved,
			SavedPct: pct,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if !suggestions[i].CarbonKg.Equal(suggestions[j].CarbonKg) {
			return suggestions[i].CarbonKg.LessThan(suggestions[j].CarbonKg)
		}
		// Equal-carbon candidates order by id so the ladder is stable
		// across calls.
		return suggestions[i].Product.ID.String() < suggestions[j].Product.ID.String()
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}
