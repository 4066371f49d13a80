package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/internal/impact"
	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox"
)

type fakeRolloverRepo struct {
	impact.Repository

	rows     []models.UserImpact
	fetches  int
	resets   []uuid.UUID
	resetErr map[uuid.UUID]error
}

func (f *fakeRolloverRepo) WithTx(tx *gorm.DB) impact.Repository { return f }

func (f *fakeRolloverRepo) FindImpactsWithMonthCarbon(ctx context.Context, limit int) ([]models.UserImpact, error) {
	f.fetches++
	remaining := []models.UserImpact{}
	for _, row := range f.rows {
		if row.CurrentMonthCarbonKg.GreaterThan(decimal.Zero) {
			remaining = append(remaining, row)
		}
	}
	if limit > 0 && len(remaining) > limit {
		remaining = remaining[:limit]
	}
	return remaining, nil
}

func (f *fakeRolloverRepo) ResetMonthCarbon(ctx context.Context, userID uuid.UUID) error {
	if err := f.resetErr[userID]; err != nil {
		return err
	}
	f.resets = append(f.resets, userID)
	for i := range f.rows {
		if f.rows[i].UserID == userID {
			f.rows[i].CurrentMonthCarbonKg = decimal.Zero
		}
	}
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeEmitter struct {
	events []outbox.DomainEvent
}

func (f *fakeEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

func monthDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func newRolloverJob(t *testing.T, repo *fakeRolloverRepo, emitter *fakeEmitter) *monthRolloverJob {
	t.Helper()
	params := MonthRolloverJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		DB:         fakeTxRunner{},
		Repository: repo,
	}
	if emitter != nil {
		params.Outbox = emitter
	}
	jobIface, err := NewMonthRolloverJob(params)
	if err != nil {
		t.Fatalf("NewMonthRolloverJob: %v", err)
	}
	return jobIface.(*monthRolloverJob)
}

func TestMonthRolloverResetsEveryActiveUser(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	repo := &fakeRolloverRepo{rows: []models.UserImpact{
		{UserID: userA, CurrentMonthCarbonKg: monthDec(t, "14.20")},
		{UserID: userB, CurrentMonthCarbonKg: monthDec(t, "3.10")},
		{UserID: uuid.New(), CurrentMonthCarbonKg: decimal.Zero},
	}}
	emitter := &fakeEmitter{}
	job := newRolloverJob(t, repo, emitter)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.resets) != 2 {
		t.Fatalf("expected 2 resets, got %d", len(repo.resets))
	}
	if len(emitter.events) != 2 {
		t.Fatalf("expected 2 rollover events, got %d", len(emitter.events))
	}
	for _, event := range emitter.events {
		if event.EventType != enums.EventMonthRolledOver {
			t.Fatalf("unexpected event type %s", event.EventType)
		}
		if event.AggregateType != enums.AggregateUserImpact {
			t.Fatalf("unexpected aggregate type %s", event.AggregateType)
		}
		if !event.OccurredAt.Equal(now) {
			t.Fatalf("expected occurred at %s, got %s", now, event.OccurredAt)
		}
	}
}

func TestMonthRolloverContinuesPastFailures(t *testing.T) {
	bad := uuid.New()
	good := uuid.New()
	repo := &fakeRolloverRepo{
		rows: []models.UserImpact{
			{UserID: bad, CurrentMonthCarbonKg: monthDec(t, "9.00")},
			{UserID: good, CurrentMonthCarbonKg: monthDec(t, "2.00")},
		},
		resetErr: map[uuid.UUID]error{bad: errors.New("deadlock")},
	}
	job := newRolloverJob(t, repo, nil)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error for the failed user")
	}
	if len(repo.resets) != 1 || repo.resets[0] != good {
		t.Fatalf("expected the healthy user to roll over, got %v", repo.resets)
	}
}

func TestMonthRolloverNoActiveUsers(t *testing.T) {
	repo := &fakeRolloverRepo{rows: []models.UserImpact{
		{UserID: uuid.New(), CurrentMonthCarbonKg: decimal.Zero},
	}}
	job := newRolloverJob(t, repo, nil)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.resets) != 0 {
		t.Fatalf("expected no resets, got %d", len(repo.resets))
	}
	if repo.fetches != 1 {
		t.Fatalf("expected a single fetch, got %d", repo.fetches)
	}
}
