package impact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/tareqmahmood/greenshop-backend/internal/impact"
	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
	"github.com/tareqmahmood/greenshop-backend/pkg/metrics"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox/payloads"
)

const impactConsumerName = "impact-worker"

type impactRecorder interface {
	RecordOrderImpact(ctx context.Context, orderID uuid.UUID) (*impact.RecordResult, error)
}

type budgetChecker interface {
	Status(ctx context.Context, userID uuid.UUID) (enums.BudgetStatus, error)
}

type notificationCreator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Service consumes order_paid events from Pub/Sub and records the order's
// carbon impact exactly once, honoring Redis idempotency.
type Service struct {
	subscription *gcppubsub.Subscriber
	recorder     impactRecorder
	budgets      budgetChecker
	notifier     notificationCreator
	manager      idempotencyChecker
	metrics      *metrics.ImpactMetrics
	logg         *logger.Logger
}

// NewService creates the impact consumer. Budget alerts are optional; the
// rest of the dependencies are required.
func NewService(
	subscription *gcppubsub.Subscriber,
	recorder impactRecorder,
	budgets budgetChecker,
	notifier notificationCreator,
	manager idempotencyChecker,
	impactMetrics *metrics.ImpactMetrics,
	logg *logger.Logger,
) (*Service, error) {
	if subscription == nil {
		return nil, errors.New("orders subscription is required")
	}
	if recorder == nil {
		return nil, errors.New("impact recorder is required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	return &Service{
		subscription: subscription,
		recorder:     recorder,
		budgets:      budgets,
		notifier:     notifier,
		manager:      manager,
		metrics:      impactMetrics,
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run starts consuming order messages until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if s.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (s *Service) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		s.logg.Warn(logCtx, "invalid payload envelope")
		s.metrics.IncConsumerFailure("decode")
		return processResult{}
	}

	eventType, err := enums.ParseOutboxEventType(strings.TrimSpace(msg.Attributes["event_type"]))
	if err != nil {
		s.logg.Warn(logCtx, "unknown event type attribute")
		return processResult{}
	}
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})
	if eventType != enums.EventOrderPaid {
		s.logg.Info(logCtx, "event not handled by impact consumer")
		return processResult{}
	}

	eventID, err := uuid.Parse(strings.TrimSpace(envelope.EventID))
	if err != nil {
		s.logg.Warn(logCtx, "invalid event id")
		return processResult{}
	}

	already, err := s.manager.CheckAndMarkProcessed(logCtx, impactConsumerName, eventID)
	if err != nil {
		s.logg.Error(logCtx, "idempotency check failed", err)
		s.metrics.IncConsumerFailure("idempotency")
		return processResult{nack: true}
	}
	if already {
		s.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	if err := s.handle(logCtx, envelope); err != nil {
		s.logg.Error(logCtx, "record order impact failed", err)
		s.metrics.IncConsumerFailure("record")
		_ = s.manager.Delete(logCtx, impactConsumerName, eventID)
		return processResult{nack: true}
	}

	return processResult{}
}

func (s *Service) handle(ctx context.Context, envelope outbox.PayloadEnvelope) error {
	var event payloads.OrderPaidEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		return fmt.Errorf("decode order paid payload: %w", err)
	}
	if event.OrderID == uuid.Nil {
		return errors.New("order id missing")
	}

	result, err := s.recorder.RecordOrderImpact(ctx, event.OrderID)
	if err != nil {
		return err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": event.OrderID,
		"created":  result.Created,
	})
	s.logg.Info(logCtx, "order impact recorded")

	if result.Created && event.UserID != nil {
		s.maybeAlertBudget(logCtx, *event.UserID)
	}
	return nil
}

// maybeAlertBudget notifies the user when this order pushed the month over
// budget. Best effort: failures are logged and never fail the message.
func (s *Service) maybeAlertBudget(ctx context.Context, userID uuid.UUID) {
	if s.budgets == nil || s.notifier == nil {
		return
	}

	status, err := s.budgets.Status(ctx, userID)
	if err != nil {
		s.logg.Error(ctx, "budget status check failed", err)
		s.metrics.IncConsumerFailure("budget_alert")
		return
	}
	if status != enums.BudgetStatusRed {
		return
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    enums.NotificationBudgetAlert,
		Title:   "Monthly carbon budget exceeded",
		Message: fmt.Sprintf("Your orders this month (%s) have passed your carbon budget. Browse greener swaps to get back on track.", time.Now().UTC().Format("January 2006")),
	}
	if err := s.notifier.Create(ctx, notification); err != nil {
		s.logg.Error(ctx, "budget alert notification failed", err)
		s.metrics.IncConsumerFailure("budget_alert")
	}
}
