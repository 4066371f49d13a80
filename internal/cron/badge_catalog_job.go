package cron

import (
	"context"
	"fmt"

	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
)

type badgeCatalogSeeder interface {
	EnsureCatalog(ctx context.Context) error
}

type BadgeCatalogJobParams struct {
	Logger *logger.Logger
	Badges badgeCatalogSeeder
}

// NewBadgeCatalogJob re-seeds the badge catalog on every cycle. Upserting by
// code keeps edited names and thresholds in sync without touching awards.
func NewBadgeCatalogJob(params BadgeCatalogJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Badges == nil {
		return nil, fmt.Errorf("badge service required")
	}
	return &badgeCatalogJob{logg: params.Logger, badges: params.Badges}, nil
}

type badgeCatalogJob struct {
	logg   *logger.Logger
	badges badgeCatalogSeeder
}

func (j *badgeCatalogJob) Name() string { return "badge-catalog-seed" }

func (j *badgeCatalogJob) Run(ctx context.Context) error {
	if err := j.badges.EnsureCatalog(ctx); err != nil {
		return fmt.Errorf("badge catalog seed: %w", err)
	}
	j.logg.Info(ctx, "badge catalog seeded")
	return nil
}
