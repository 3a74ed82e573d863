package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cultivation-service/internal/ai/gemini"
	"cultivation-service/internal/models"
	"cultivation-service/internal/repository"
)

const recentEventsInPrompt = 10

type IAnalysisService interface {
	AnalyzeCultivation(ctx context.Context, userID string, req models.CultivationAnalysisRequest) (*models.AnalysisResult, error)
	AnalyzeImage(ctx context.Context, userID string, req models.VisionAnalysisRequest) (*models.VisionResult, error)
}

type AnalysisService struct {
	cultivationRepo repository.ICultivationRepository
	eventRepo       repository.IEventRepository
	ai              gemini.Generator
	cache           repository.IAnalysisCacheRepository
	cacheTTL        time.Duration
	now             func() time.Time
}

// NewAnalysisService accepts a nil ai generator or cache; without a generator
// every call fails with ErrAIUnavailable.
func NewAnalysisService(
	cultivationRepo repository.ICultivationRepository,
	eventRepo repository.IEventRepository,
	ai gemini.Generator,
	cache repository.IAnalysisCacheRepository,
	cacheTTL time.Duration,
) IAnalysisService {
	return &AnalysisService{
		cultivationRepo: cultivationRepo,
		eventRepo:       eventRepo,
		ai:              ai,
		cache:           cache,
		cacheTTL:        cacheTTL,
		now:             time.Now,
	}
}

func (s *AnalysisService) AnalyzeCultivation(ctx context.Context, userID string, req models.CultivationAnalysisRequest) (*models.AnalysisResult, error) {
	if s.ai == nil {
		return nil, ErrAIUnavailable
	}

	data := make(map[string]any, len(req.Data)+2)
	for k, v := range req.Data {
		data[k] = v
	}
	if req.CultivationID != nil {
		c, err := loadOwned(ctx, s.cultivationRepo, userID, *req.CultivationID)
		if err != nil {
			return nil, err
		}
		report, err := BuildStatusReport(c, s.now())
		if err != nil {
			return nil, err
		}
		events, err := s.eventRepo.ListByCultivation(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if len(events) > recentEventsInPrompt {
			events = events[len(events)-recentEventsInPrompt:]
		}
		data["cultivo"] = report
		data["eventos_recentes"] = events
	}
	if len(data) == 0 && req.Question == "" {
		return nil, badRequest("provide a cultivation, data or a question")
	}

	prompt, err := gemini.BuildCultivationAnalysisPrompt(data, req.Question)
	if err != nil {
		return nil, err
	}

	key := repository.AnalysisCacheKey(userID, prompt)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			cached.Cached = true
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Analysis cache read failed", "error", err)
		}
	}

	resp, err := s.ai.GenerateJSON(ctx, prompt, nil)
	if err != nil {
		return nil, errors.Join(ErrAIUnavailable, err)
	}

	result := AnalysisFromMap(resp)
	result.GeneratedAt = s.now()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			slog.Warn("Analysis cache write failed", "error", err)
		}
	}
	return result, nil
}

func (s *AnalysisService) AnalyzeImage(ctx context.Context, userID string, req models.VisionAnalysisRequest) (*models.VisionResult, error) {
	if s.ai == nil {
		return nil, ErrAIUnavailable
	}

	img, err := DecodeImage(req.Image)
	if err != nil {
		return nil, err
	}

	var lines []string
	if req.CultivationID != nil {
		c, err := loadOwned(ctx, s.cultivationRepo, userID, *req.CultivationID)
		if err != nil {
			return nil, err
		}
		report, err := BuildStatusReport(c, s.now())
		if err != nil {
			return nil, err
		}
		lines = visionContext(c, report)
	}

	resp, err := s.ai.GenerateJSON(ctx, gemini.BuildVisionPrompt(lines, req.Prompt), []gemini.ImagePart{
		{MIMEType: img.MIMEType, Data: img.Data},
	})
	if err != nil {
		return nil, errors.Join(ErrAIUnavailable, err)
	}
	return VisionFromMap(resp), nil
}

func visionContext(c *models.Cultivation, report *models.CultivationStatusReport) []string {
	lines := []string{
		fmt.Sprintf("Tipo de planta: %s", c.PlantType),
		fmt.Sprintf("Variedade: %s", c.SeedStrain),
		fmt.Sprintf("Fase atual: %s (dia %d da fase, dia %d do ciclo)",
			report.Phase.Phase, report.Phase.DaysInCurrentPhase, report.Phase.DaysSinceStart),
	}
	if c.GeneticsName != nil {
		lines = append(lines, fmt.Sprintf("Genética: %s", *c.GeneticsName))
	}
	if c.HasSevereProblems {
		lines = append(lines, "O cultivador já registrou problemas graves")
	}
	return lines
}

// AnalysisFromMap reads the model's JSON reply. Missing fields stay empty.
func AnalysisFromMap(m map[string]any) *models.AnalysisResult {
	analysis, _ := m["analysis"].(string)
	return &models.AnalysisResult{
		Analysis:        analysis,
		Recommendations: stringList(m["recommendations"]),
		Anomalies:       stringList(m["anomalies"]),
		Model:           "gemini",
	}
}

func VisionFromMap(m map[string]any) *models.VisionResult {
	r := &models.VisionResult{
		Issues:          stringList(m["issues"]),
		Recommendations: stringList(m["recommendations"]),
	}
	r.Description, _ = m["description"].(string)
	r.HealthStatus, _ = m["health_status"].(string)
	r.EstimatedPhase, _ = m["estimated_phase"].(string)
	return r
}

func stringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
