package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
)

type fakeNotificationStore struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeNotificationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func newNotificationCleanupJob(t *testing.T, store *fakeNotificationStore) *notificationCleanupJob {
	t.Helper()
	jobIface, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	return jobIface.(*notificationCleanupJob)
}

func TestNotificationCleanupJobDeletesExpiredNotifications(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	store := &fakeNotificationStore{deletedRows: 42}
	job := newNotificationCleanupJob(t, store)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-notificationRetentionDays * 24 * time.Hour)
	if !store.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, store.lastCutoff)
	}
	if store.called != 1 {
		t.Fatalf("expected store called once, got %d", store.called)
	}
}

func TestNotificationCleanupJobPropagatesErrors(t *testing.T) {
	store := &fakeNotificationStore{err: errors.New("boom")}
	job := newNotificationCleanupJob(t, store)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
