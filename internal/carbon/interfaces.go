package carbon

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

// Repository defines catalog reads needed for carbon math.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error)
	FindProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	FindProductWithCategory(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}
