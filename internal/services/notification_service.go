package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cultivation-service/internal/event"
	"cultivation-service/internal/models"
	"cultivation-service/internal/repository"
)

type INotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	GetPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, req models.UpdateNotificationPreferencesRequest) (*models.NotificationPreferences, error)
}

type NotificationService struct {
	notificationRepo repository.INotificationRepository
	preferencesRepo  repository.INotificationPreferencesRepository
}

func NewNotificationService(
	notificationRepo repository.INotificationRepository,
	preferencesRepo repository.INotificationPreferencesRepository,
) INotificationService {
	return &NotificationService{notificationRepo: notificationRepo, preferencesRepo: preferencesRepo}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	nid, err := parseID("notification id", id)
	if err != nil {
		return err
	}
	return s.notificationRepo.MarkRead(ctx, nid, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// GetPreferences stores and returns the defaults the first time a user asks.
func (s *NotificationService) GetPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, error) {
	p, err := s.preferencesRepo.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	defaults := models.DefaultNotificationPreferences(userID)
	if err := s.preferencesRepo.Upsert(ctx, &defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, userID string, req models.UpdateNotificationPreferencesRequest) (*models.NotificationPreferences, error) {
	p, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setBool(&p.Reminders, req.Reminders)
	setBool(&p.Alerts, req.Alerts)
	setBool(&p.Achievements, req.Achievements)
	setBool(&p.Marketing, req.Marketing)
	setBool(&p.PushEnabled, req.PushEnabled)
	setBool(&p.EmailEnabled, req.EmailEnabled)

	for _, h := range []*int{req.QuietHoursStart, req.QuietHoursEnd} {
		if h != nil && (*h < 0 || *h > 23) {
			return nil, badRequest("quiet hours must be between 0 and 23")
		}
	}
	if req.QuietHoursStart != nil {
		p.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		p.QuietHoursEnd = *req.QuietHoursEnd
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || *req.Timezone == "" {
			return nil, badRequest("unknown timezone %q", *req.Timezone)
		}
		p.Timezone = *req.Timezone
	}

	if err := s.preferencesRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ============================================================================
// RULES
// ============================================================================

type INotificationRulesService interface {
	ActiveCultivations(ctx context.Context) ([]models.Cultivation, error)
	EvaluateCultivation(ctx context.Context, c *models.Cultivation, now time.Time) (int, error)
}

type NotificationRulesService struct {
	rules            []NotificationRule
	eventRepo        repository.IEventRepository
	cultivationRepo  repository.ICultivationRepository
	notificationRepo repository.INotificationRepository
	preferencesRepo  repository.INotificationPreferencesRepository
	cooldowns        repository.ICooldownRepository
	publisher        event.Publisher
}

// NewNotificationRulesService accepts a nil publisher; notifications are then
// stored without a push event.
func NewNotificationRulesService(
	rules []NotificationRule,
	cultivationRepo repository.ICultivationRepository,
	eventRepo repository.IEventRepository,
	notificationRepo repository.INotificationRepository,
	preferencesRepo repository.INotificationPreferencesRepository,
	cooldowns repository.ICooldownRepository,
	publisher event.Publisher,
) INotificationRulesService {
	return &NotificationRulesService{
		rules:            rules,
		cultivationRepo:  cultivationRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		preferencesRepo:  preferencesRepo,
		cooldowns:        cooldowns,
		publisher:        publisher,
	}
}

func (s *NotificationRulesService) ActiveCultivations(ctx context.Context) ([]models.Cultivation, error) {
	return s.cultivationRepo.ListActive(ctx)
}

// EvaluateCultivation runs every rule against one cultivation and returns the
// number of notifications created. Types the owner switched off are skipped;
// push is withheld when the owner disabled it or is in quiet hours.
func (s *NotificationRulesService) EvaluateCultivation(ctx context.Context, c *models.Cultivation, now time.Time) (int, error) {
	latest, err := s.eventRepo.LatestByType(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	env, err := s.eventRepo.LatestEnvironment(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	rc, err := BuildRuleContext(c, latest, env, now)
	if err != nil {
		return 0, err
	}

	hits := EvaluateRules(s.rules, rc)
	if len(hits) == 0 {
		return 0, nil
	}
	prefs := s.preferencesFor(ctx, c.UserID)

	sent := 0
	for _, hit := range hits {
		n := hit.Notification
		if prefs != nil && !prefs.Allows(n.Type) {
			slog.Debug("Notification type disabled by user", "rule_id", hit.Rule.ID, "user_id", c.UserID, "type", n.Type)
			continue
		}

		ok, err := s.cooldowns.Acquire(ctx, hit.Rule.ID, c.ID.String(), hit.Rule.Cooldown)
		if err != nil {
			return sent, err
		}
		if !ok {
			continue
		}

		if err := s.notificationRepo.Create(ctx, &n); err != nil {
			if relErr := s.cooldowns.Release(ctx, hit.Rule.ID, c.ID.String()); relErr != nil {
				slog.Warn("Failed to release cooldown", "rule_id", hit.Rule.ID, "cultivation_id", c.ID, "error", relErr)
			}
			return sent, err
		}
		sent++

		slog.Info("Notification rule triggered",
			"rule_id", hit.Rule.ID,
			"cultivation_id", c.ID,
			"user_id", c.UserID)

		if s.publisher == nil || (prefs != nil && !prefs.ShouldPush(now)) {
			continue
		}
		if err := s.publisher.PublishNotification(ctx, event.FromNotification(n)); err != nil {
			slog.Warn("Failed to publish notification", "notification_id", n.ID, "error", err)
		}
	}
	return sent, nil
}

// preferencesFor returns nil when the user has no saved preferences or they
// cannot be loaded; everything is then delivered.
func (s *NotificationRulesService) preferencesFor(ctx context.Context, userID string) *models.NotificationPreferences {
	if s.preferencesRepo == nil {
		return nil
	}
	p, err := s.preferencesRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Failed to load notification preferences", "user_id", userID, "error", err)
		}
		return nil
	}
	return p
}
