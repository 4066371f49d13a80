package impact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/internal/badges"
	"github.com/tareqmahmood/greenshop-backend/internal/carbon"
	dbpkg "github.com/tareqmahmood/greenshop-backend/pkg/db"
	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
	pkgerrors "github.com/tareqmahmood/greenshop-backend/pkg/errors"
	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
	"github.com/tareqmahmood/greenshop-backend/pkg/metrics"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox/payloads"
)

// kg values round to two places at persistence, matching the column scale.
const persistScale = 2

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type badgeEvaluator interface {
	EvaluateAndAward(ctx context.Context, userID uuid.UUID, state *models.UserImpact, lastOrderSaved decimal.Decimal) []badges.AwardOutcome
}

type notificationCreator interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
}

// Computation holds the three order-level carbon figures before persistence.
type Computation struct {
	CarbonKg   decimal.Decimal
	BaselineKg decimal.Decimal
	SavedKg    decimal.Decimal
}

// RecordResult reports what RecordOrderImpact did: the impact row (new or
// pre-existing), whether this call created it, and any badge outcomes from
// the evaluation it triggered.
type RecordResult struct {
	Impact  *models.OrderImpact
	Created bool
	Awards  []badges.AwardOutcome
}

// Service is the order impact calculator and user impact accumulator.
type Service interface {
	ComputeOrderImpact(ctx context.Context, order *models.Order) (*Computation, error)
	RecordOrderImpact(ctx context.Context, orderID uuid.UUID) (*RecordResult, error)
	UserImpact(ctx context.Context, userID uuid.UUID) (*models.UserImpact, error)
	RecentOrderCarbons(ctx context.Context, userID uuid.UUID, window int) ([]decimal.Decimal, error)
}

type service struct {
	repo          Repository
	carbon        carbon.Service
	tx            txRunner
	outbox        outboxPublisher
	badges        badgeEvaluator
	notifications notificationCreator
	metrics       *metrics.ImpactMetrics
	logg          *logger.Logger
}

// NewService wires the impact engine. Outbox, badges, notifications, and
// metrics are optional side channels; repo, carbon, and tx are not.
func NewService(
	repo Repository,
	carbonSvc carbon.Service,
	tx txRunner,
	ob outboxPublisher,
	evaluator badgeEvaluator,
	notifications notificationCreator,
	m *metrics.ImpactMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "impact repository required")
	}
	if carbonSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "carbon service required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:          repo,
		carbon:        carbonSvc,
		tx:            tx,
		outbox:        ob,
		badges:        evaluator,
		notifications: notifications,
		metrics:       m,
		logg:          logg,
	}, nil
}

// ComputeOrderImpact walks the order's lines accumulating effective carbon
// and category baseline, each weighted by quantity, then derives the
// non-negative saved delta. All arithmetic stays in exact decimal; nothing
// is rounded here.
func (s *service) ComputeOrderImpact(ctx context.Context, order *models.Order) (*Computation, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}

	carbonTotal := decimal.Zero
	baselineTotal := decimal.Zero
	baselines := map[uuid.UUID]decimal.Decimal{}

	for i := range order.Lines {
		line := order.Lines[i]
		qty := decimal.NewFromInt(int64(line.Quantity))

		carbonTotal = carbonTotal.Add(carbon.EffectiveCarbon(line.Product).Mul(qty))

		if line.Product == nil {
			continue
		}
		baseline, ok := baselines[line.Product.CategoryID]
		if !ok {
			var err error
			baseline, err = s.carbon.CategoryBaseline(ctx, line.Product.CategoryID)
			if err != nil {
				return nil, err
			}
			baselines[line.Product.CategoryID] = baseline
		}
		baselineTotal = baselineTotal.Add(baseline.Mul(qty))
	}

	saved := baselineTotal.Sub(carbonTotal)
	if saved.IsNegative() {
		saved = decimal.Zero
	}

	return &Computation{
		CarbonKg:   carbonTotal,
		BaselineKg: baselineTotal,
		SavedKg:    saved,
	}, nil
}

var errImpactAlreadyRecorded = errors.New("impact already recorded")

// RecordOrderImpact is the order-paid entry point. It is idempotent: a
// second call for the same order returns the stored row untouched, with no
// recomputation and no accumulator update. On first call it persists the
// OrderImpact, folds the totals into the user's accumulator inside the same
// transaction, and then runs badge evaluation on the fresh state. Orders
// without a user (guest checkout) get an impact row but touch nothing else.
func (s *service) RecordOrderImpact(ctx context.Context, orderID uuid.UUID) (*RecordResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, orderID.String())
	}

	existing, err := s.repo.FindOrderImpact(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order impact")
	}
	if existing != nil {
		s.metrics.IncImpactRecorded("duplicate")
		return &RecordResult{Impact: existing, Created: false}, nil
	}

	order, err := s.repo.FindOrderWithLines(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	comp, err := s.ComputeOrderImpact(ctx, order)
	if err != nil {
		return nil, err
	}

	impact := &models.OrderImpact{
		OrderID:    orderID,
		CarbonKg:   comp.CarbonKg.Round(persistScale),
		BaselineKg: comp.BaselineKg.Round(persistScale),
		SavedKg:    comp.SavedKg.Round(persistScale),
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.CreateOrderImpact(ctx, impact); err != nil {
			if dbpkg.IsUniqueViolation(err, "uq_order_impacts_order") {
				return errImpactAlreadyRecorded
			}
			return err
		}

		if order.UserID != nil {
			if err := repo.EnsureUserImpact(ctx, *order.UserID); err != nil {
				return err
			}
			if err := repo.ApplyOrderTotals(ctx, *order.UserID, impact.CarbonKg, impact.SavedKg); err != nil {
				return err
			}
		}

		if s.outbox != nil {
			event := outbox.DomainEvent{
				EventType:     enums.EventImpactRecorded,
				AggregateType: enums.AggregateOrder,
				AggregateID:   orderID,
				Version:       1,
				Data: payloads.ImpactRecordedEvent{
					OrderID:    orderID,
					UserID:     order.UserID,
					CarbonKg:   impact.CarbonKg,
					BaselineKg: impact.BaselineKg,
					SavedKg:    impact.SavedKg,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}

		if s.notifications != nil && order.UserID != nil && impact.SavedKg.GreaterThan(decimal.Zero) {
			notification := &models.Notification{
				UserID:  *order.UserID,
				Type:    enums.NotificationSustainability,
				Title:   "Your order saved carbon",
				Message: fmt.Sprintf("This order came in %s kg CO2e under the category average.", impact.SavedKg.StringFixed(persistScale)),
			}
			if err := s.notifications.CreateInTx(ctx, tx, notification); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, errImpactAlreadyRecorded) {
			// lost the race to a concurrent paid event for the same order
			stored, err := s.repo.FindOrderImpact(ctx, orderID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order impact")
			}
			s.metrics.IncImpactRecorded("duplicate")
			return &RecordResult{Impact: stored, Created: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "record order impact")
	}

	s.metrics.IncImpactRecorded("created")
	s.metrics.AddSavedKg(impact.SavedKg.InexactFloat64())
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"carbon_kg":   impact.CarbonKg.String(),
			"baseline_kg": impact.BaselineKg.String(),
			"saved_kg":    impact.SavedKg.String(),
		})
		s.logg.Info(logCtx, "order impact recorded")
	}

	result := &RecordResult{Impact: impact, Created: true}
	if order.UserID != nil && s.badges != nil {
		fresh, err := s.repo.FindUserImpact(ctx, *order.UserID)
		if err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "load user impact for badges", err)
			}
		} else if fresh != nil {
			result.Awards = s.badges.EvaluateAndAward(ctx, *order.UserID, fresh, impact.SavedKg)
		}
	}
	return result, nil
}

func (s *service) UserImpact(ctx context.Context, userID uuid.UUID) (*models.UserImpact, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	impact, err := s.repo.FindUserImpact(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user impact")
	}
	return impact, nil
}

func (s *service) RecentOrderCarbons(ctx context.Context, userID uuid.UUID, window int) ([]decimal.Decimal, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if window <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window must be positive")
	}
	values, err := s.repo.RecentOrderCarbons(ctx, userID, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent order carbons")
	}
	return values, nil
}
