package story

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	pkgerrors "github.com/tareqmahmood/greenshop-backend/pkg/errors"
)

type impactSource interface {
	UserImpact(ctx context.Context, userID uuid.UUID) (*models.UserImpact, error)
}

// Service renders impact stories from the user's accumulator.
type Service interface {
	GenerateImpactStory(ctx context.Context, userID uuid.UUID) (*Story, error)
}

type service struct {
	impacts impactSource
}

// NewService wires the story dependencies.
func NewService(impacts impactSource) (Service, error) {
	if impacts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "impact source required")
	}
	return &service{impacts: impacts}, nil
}

// GenerateImpactStory builds the narrative for a user. A user with no
// recorded impact gets the zero story rather than an error.
func (s *service) GenerateImpactStory(ctx context.Context, userID uuid.UUID) (*Story, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	impact, err := s.impacts.UserImpact(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user impact")
	}

	totalSaved := decimal.Zero
	if impact != nil {
		totalSaved = impact.TotalSavedKg
	}
	story := Generate(totalSaved)
	return &story, nil
}
