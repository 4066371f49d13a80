package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
)

type fakeBadgeSeeder struct {
	calls int
	err   error
}

func (f *fakeBadgeSeeder) EnsureCatalog(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestBadgeCatalogJobSeedsCatalog(t *testing.T) {
	seeder := &fakeBadgeSeeder{}
	job, err := NewBadgeCatalogJob(BadgeCatalogJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Badges: seeder,
	})
	if err != nil {
		t.Fatalf("NewBadgeCatalogJob: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seeder.calls != 1 {
		t.Fatalf("expected one seed call, got %d", seeder.calls)
	}
}

func TestBadgeCatalogJobPropagatesErrors(t *testing.T) {
	seeder := &fakeBadgeSeeder{err: errors.New("boom")}
	job, err := NewBadgeCatalogJob(BadgeCatalogJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Badges: seeder,
	})
	if err != nil {
		t.Fatalf("NewBadgeCatalogJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
