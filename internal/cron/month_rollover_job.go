package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/internal/impact"
	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox/payloads"
)

const defaultRolloverBatch = 500

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type MonthRolloverJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository impact.Repository
	Outbox     outboxEmitter
	Batch      int
}

// NewMonthRolloverJob builds the job that zeroes every user's current-month
// carbon counter. Registration is gated by configuration; deployments that
// want the counter to accumulate forever simply never register it.
func NewMonthRolloverJob(params MonthRolloverJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("impact repository required")
	}
	batch := params.Batch
	if batch <= 0 {
		batch = defaultRolloverBatch
	}
	return &monthRolloverJob{
		logg:   params.Logger,
		db:     params.DB,
		repo:   params.Repository,
		outbox: params.Outbox,
		batch:  batch,
		now:    time.Now,
	}, nil
}

type monthRolloverJob struct {
	logg   *logger.Logger
	db     txRunner
	repo   impact.Repository
	outbox outboxEmitter
	batch  int
	now    func() time.Time
}

func (j *monthRolloverJob) Name() string { return "month-rollover" }

// Run resets current_month_carbon_kg per user in its own transaction so one
// bad row cannot block the rest of the sweep. Each reset emits a rollover
// event through the outbox in the same transaction.
func (j *monthRolloverJob) Run(ctx context.Context) error {
	rolledAt := j.now().UTC()
	var rolled int
	var errs error

	for {
		rows, err := j.repo.FindImpactsWithMonthCarbon(ctx, j.batch)
		if err != nil {
			return fmt.Errorf("load month carbon rows: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		batchRolled := 0
		for i := range rows {
			row := rows[i]
			err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
				if err := j.repo.WithTx(tx).ResetMonthCarbon(ctx, row.UserID); err != nil {
					return err
				}
				if j.outbox == nil {
					return nil
				}
				return j.outbox.Emit(ctx, tx, outbox.DomainEvent{
					EventType:     enums.EventMonthRolledOver,
					AggregateType: enums.AggregateUserImpact,
					AggregateID:   row.UserID,
					Version:       1,
					OccurredAt:    rolledAt,
					Data: payloads.MonthRolledOverEvent{
						UserID:       row.UserID,
						PreviousKg:   row.CurrentMonthCarbonKg,
						RolledOverAt: rolledAt,
					},
				})
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("roll over user %s: %w", row.UserID, err))
				continue
			}
			rolled++
			batchRolled++
		}

		if len(rows) < j.batch {
			break
		}
		// Failed rows stay above zero and would be re-fetched forever.
		if batchRolled == 0 {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"users_rolled": rolled,
		"failures":     len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "month rollover sweep complete")
	return errs
}
