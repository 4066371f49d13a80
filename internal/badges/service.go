package badges

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
	pkgerrors "github.com/tareqmahmood/greenshop-backend/pkg/errors"
	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
	"github.com/tareqmahmood/greenshop-backend/pkg/metrics"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type notificationCreator interface {
	CreateInTx(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
}

// AwardOutcome reports one badge decision from an evaluation pass. Err is set
// when the award attempt failed; the evaluation keeps going regardless.
type AwardOutcome struct {
	Code    string
	Awarded bool
	Err     error
}

// Service seeds the badge catalog and awards badges off fresh impact state.
type Service interface {
	EnsureCatalog(ctx context.Context) error
	EvaluateAndAward(ctx context.Context, userID uuid.UUID, state *models.UserImpact, lastOrderSaved decimal.Decimal) []AwardOutcome
	ListUserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error)
}

type service struct {
	repo          Repository
	tx            txRunner
	outbox        outboxPublisher
	notifications notificationCreator
	metrics       *metrics.ImpactMetrics
	logg          *logger.Logger
}

// NewService wires badge dependencies. Outbox, notifications, and metrics are
// optional side channels.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, notifications notificationCreator, m *metrics.ImpactMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "badges repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:          repo,
		tx:            tx,
		outbox:        ob,
		notifications: notifications,
		metrics:       m,
		logg:          logg,
	}, nil
}

// EnsureCatalog upserts every canonical badge by code. Safe to run on every
// worker start and from the cron seed job.
func (s *service) EnsureCatalog(ctx context.Context) error {
	definitions := CatalogDefinitions()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for i := range definitions {
			badge := definitions[i]
			if err := repo.UpsertBadge(ctx, &badge); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed badge "+badge.Code)
			}
		}
		return nil
	})
}

// EvaluateAndAward checks every badge rule against the supplied state and
// grants whichever badges newly apply. Rules are independent: one pass can
// award several badges, and higher TOTAL_SAVED tiers are checked first so a
// user jumping past a lower tier still collects it. Failures are reported in
// the outcomes but never propagate; badge evaluation must not fail the
// order-completion flow that triggered it.
func (s *service) EvaluateAndAward(ctx context.Context, userID uuid.UUID, state *models.UserImpact, lastOrderSaved decimal.Decimal) []AwardOutcome {
	if userID == uuid.Nil || state == nil {
		return nil
	}

	catalog, err := s.repo.FindAllBadges(ctx)
	if err != nil {
		s.logError(ctx, err, "load badge catalog")
		return []AwardOutcome{{Err: err}}
	}
	held, err := s.repo.FindHeldBadgeCodes(ctx, userID)
	if err != nil {
		s.logError(ctx, err, "load held badges")
		return []AwardOutcome{{Err: err}}
	}

	// highest thresholds first within each condition type
	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].ThresholdKg.GreaterThan(catalog[j].ThresholdKg)
	})

	outcomes := make([]AwardOutcome, 0, len(catalog))
	for i := range catalog {
		badge := catalog[i]
		if held[badge.Code] {
			continue
		}
		if !qualifies(&badge, state, lastOrderSaved) {
			continue
		}
		outcome := s.award(ctx, userID, &badge)
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func qualifies(badge *models.Badge, state *models.UserImpact, lastOrderSaved decimal.Decimal) bool {
	switch badge.ConditionType {
	case enums.BadgeConditionFirstOrder:
		return lastOrderSaved.GreaterThan(decimal.Zero)
	case enums.BadgeConditionTotalSaved:
		return state.TotalSavedKg.GreaterThanOrEqual(badge.ThresholdKg)
	case enums.BadgeConditionStreak:
		return decimal.NewFromInt(int64(state.LowImpactStreak)).GreaterThanOrEqual(badge.ThresholdKg)
	default:
		return false
	}
}

func (s *service) award(ctx context.Context, userID uuid.UUID, badge *models.Badge) AwardOutcome {
	outcome := AwardOutcome{Code: badge.Code}
	earnedAt := time.Now().UTC()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateUserBadge(ctx, &models.UserBadge{
			UserID:   userID,
			BadgeID:  badge.ID,
			EarnedAt: earnedAt,
		})
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		outcome.Awarded = true

		if s.outbox != nil {
			event := outbox.DomainEvent{
				EventType:     enums.EventBadgeAwarded,
				AggregateType: enums.AggregateBadge,
				AggregateID:   badge.ID,
				Version:       1,
				Data: payloads.BadgeAwardedEvent{
					UserID:    userID,
					BadgeID:   badge.ID,
					BadgeCode: badge.Code,
					EarnedAt:  earnedAt,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		if s.notifications != nil {
			notification := &models.Notification{
				UserID:  userID,
				Type:    enums.NotificationBadgeEarned,
				Title:   "New badge: " + badge.Name,
				Message: badge.Description,
			}
			if err := s.notifications.CreateInTx(ctx, tx, notification); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		outcome.Awarded = false
		outcome.Err = err
		s.logError(ctx, err, "award badge "+badge.Code)
		return outcome
	}
	if outcome.Awarded {
		s.metrics.IncBadgeAwarded(badge.Code)
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"user_id": userID.String(),
				"badge":   badge.Code,
			})
			s.logg.Info(logCtx, "badge awarded")
		}
	}
	return outcome
}

func (s *service) ListUserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.FindUserBadges(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user badges")
	}
	return rows, nil
}

func (s *service) logError(ctx context.Context, err error, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg, err)
}
