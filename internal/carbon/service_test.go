package carbon

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

type stubCarbonRepo struct {
	category *models.Category
	products []models.Product
}

func (s *stubCarbonRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCarbonRepo) FindCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	if s.category == nil || s.category.ID != categoryID {
		return nil, nil
	}
	return s.category, nil
}

func (s *stubCarbonRepo) FindProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubCarbonRepo) FindProductWithCategory(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == productID {
			p := s.products[i]
			p.Category = s.category
			return &p, nil
		}
	}
	return nil, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEffectiveCarbonFallbackChain(t *testing.T) {
	category := &models.Category{
		ID:                      uuid.New(),
		DefaultEmissionFactorKg: dec("4.5"),
	}

	explicit := &models.Product{
		CarbonFootprintKg: decimal.NewNullDecimal(dec("10")),
		Category:          category,
	}
	assert.True(t, EffectiveCarbon(explicit).Equal(dec("10")))

	fromCategory := &models.Product{Category: category}
	assert.True(t, EffectiveCarbon(fromCategory).Equal(dec("4.5")))

	bare := &models.Product{}
	assert.True(t, EffectiveCarbon(bare).IsZero())

	assert.True(t, EffectiveCarbon(nil).IsZero())
}

func TestCategoryBaselineMeansEffectiveCarbon(t *testing.T) {
	categoryID := uuid.New()
	category := &models.Category{
		ID:                      categoryID,
		DefaultEmissionFactorKg: dec("6"),
	}
	repo := &stubCarbonRepo{
		category: category,
		products: []models.Product{
			{ID: uuid.New(), CategoryID: categoryID, CarbonFootprintKg: decimal.NewNullDecimal(dec("10"))},
			{ID: uuid.New(), CategoryID: categoryID},
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	baseline, err := svc.CategoryBaseline(context.Background(), categoryID)
	require.NoError(t, err)
	assert.True(t, baseline.Equal(dec("8")), "got %s", baseline)
}

func TestCategoryBaselineShiftsWithCatalog(t *testing.T) {
	categoryID := uuid.New()
	category := &models.Category{
		ID:                      categoryID,
		DefaultEmissionFactorKg: dec("6"),
	}
	repo := &stubCarbonRepo{
		category: category,
		products: []models.Product{
			{ID: uuid.New(), CategoryID: categoryID, CarbonFootprintKg: decimal.NewNullDecimal(dec("10"))},
			{ID: uuid.New(), CategoryID: categoryID},
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	baseline, err := svc.CategoryBaseline(context.Background(), categoryID)
	require.NoError(t, err)
	assert.True(t, baseline.Equal(dec("8")))

	// a low-carbon product joins the category and the mean drops
	repo.products = append(repo.products, models.Product{
		ID:                uuid.New(),
		CategoryID:        categoryID,
		CarbonFootprintKg: decimal.NewNullDecimal(dec("2")),
	})

	baseline, err = svc.CategoryBaseline(context.Background(), categoryID)
	require.NoError(t, err)
	assert.True(t, baseline.Equal(dec("6")), "got %s", baseline)
}

func TestCategoryBaselineEmptyCategoryIsZero(t *testing.T) {
	categoryID := uuid.New()
	repo := &stubCarbonRepo{
		category: &models.Category{ID: categoryID, DefaultEmissionFactorKg: dec("3")},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	baseline, err := svc.CategoryBaseline(context.Background(), categoryID)
	require.NoError(t, err)
	assert.True(t, baseline.IsZero())
}

func TestCategoryBaselineUnknownCategoryIsZero(t *testing.T) {
	repo := &stubCarbonRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	baseline, err := svc.CategoryBaseline(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, baseline.IsZero())
}

func TestCategoryBaselineRequiresCategoryID(t *testing.T) {
	svc, err := NewService(&stubCarbonRepo{})
	require.NoError(t, err)

	_, err = svc.CategoryBaseline(context.Background(), uuid.Nil)
	assert.Error(t, err)
}
