package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
)

type fakeOutboxStore struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
}

func (f *fakeOutboxStore) DeletePublishedBefore(cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func TestOutboxRetentionJobUsesConfiguredRetention(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeOutboxStore{deletedRows: 7}
	jobIface, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "cron-test"}),
		Store:     store,
		Retention: 7,
	})
	if err != nil {
		t.Fatalf("NewOutboxRetentionJob: %v", err)
	}
	job := jobIface.(*outboxRetentionJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := now.UTC().Add(-7 * 24 * time.Hour)
	if !store.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, store.lastCutoff)
	}
}

func TestOutboxRetentionJobPropagatesErrors(t *testing.T) {
	store := &fakeOutboxStore{err: errors.New("boom")}
	jobIface, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("NewOutboxRetentionJob: %v", err)
	}
	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
