package services

import (
	"context"
	"log/slog"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/repository"
)

const (
	dashboardCultivationLimit = 100
	dashboardRecentEvents     = 10
	// Environment readings are looked up among this many of the newest events.
	dashboardEnvironmentScan = 50
)

type IDashboardService interface {
	Summary(ctx context.Context, userID string) (*models.DashboardSummary, error)
}

type DashboardService struct {
	cultivationRepo repository.ICultivationRepository
	eventRepo       repository.IEventRepository
	now             func() time.Time
}

func NewDashboardService(cultivationRepo repository.ICultivationRepository, eventRepo repository.IEventRepository) IDashboardService {
	return &DashboardService{cultivationRepo: cultivationRepo, eventRepo: eventRepo, now: time.Now}
}

func (s *DashboardService) Summary(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	cultivations, err := s.cultivationRepo.ListByUser(ctx, userID, dashboardCultivationLimit, 0)
	if err != nil {
		return nil, err
	}
	total, err := s.eventRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.eventRepo.ListRecentByUser(ctx, userID, dashboardEnvironmentScan)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &models.DashboardSummary{
		Stats:        models.DashboardStats{TotalCultivations: len(cultivations), TotalEvents: total},
		Cultivations: make([]models.DashboardCultivation, 0, len(cultivations)),
		RecentEvents: recent[:min(len(recent), dashboardRecentEvents)],
	}

	var last time.Time
	for i := range cultivations {
		c := &cultivations[i]
		if c.Status == models.CultivationActive {
			summary.Stats.ActiveCultivations++
		}
		if c.UpdatedAt.After(last) {
			last = c.UpdatedAt
		}

		item := models.DashboardCultivation{Cultivation: *c}
		if report, err := BuildStatusReport(c, now); err != nil {
			slog.Warn("Failed to compute cultivation phase", "cultivation_id", c.ID, "error", err)
		} else {
			item.CurrentPhase = report.Phase.Phase
			item.DaysSinceStart = report.Phase.DaysSinceStart
		}
		summary.Cultivations = append(summary.Cultivations, item)
	}

	// recent is newest first, so the first reading found is the latest.
	for i := range recent {
		if env := recent[i].Environment(); env != nil {
			summary.Environment = env
			break
		}
	}
	if len(recent) > 0 && recent[0].EventDate.After(last) {
		last = recent[0].EventDate
	}
	if !last.IsZero() {
		summary.Stats.LastUpdate = &last
	}
	return summary, nil
}
