package handlers

import (
	"net/http"
	"time"

	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/calculator"
	"cultivation-service/internal/genetics"
	"cultivation-service/internal/models"
	"cultivation-service/internal/phase"
	"cultivation-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// CalculatorHandler serves the stateless endpoints: cost calculators, the
// phase engine and the genetics catalogue.
type CalculatorHandler struct {
	now func() time.Time
}

func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{now: time.Now}
}

func (h *CalculatorHandler) RegisterRoutes(router *gin.Engine) {
	public := router.Group("/cultivation/public/api/v1")
	{
		public.GET("/ping", h.Ping)

		public.POST("/calculator", h.Calculate)
		public.POST("/calculator/adaptive", h.CalculateAdaptive)

		public.POST("/phase", h.Phase)
		public.POST("/phase/harvest", h.Harvest)
		public.POST("/phase/efficiency", h.Efficiency)

		public.GET("/genetics", h.ListGenetics)
		public.GET("/genetics/:name", h.GetGenetics)
		public.GET("/genetics/:name/cycle-config", h.GeneticsCycleConfig)

		public.GET("/presets", h.ListPresets)
		public.GET("/cycle-config/default/:plant_type", h.DefaultCycleConfig)
		public.POST("/cycle-config/validate", h.ValidateCycleConfig)
	}
}

func (h *CalculatorHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *CalculatorHandler) Calculate(c *gin.Context) {
	var req models.CalculateRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(calculator.CalculateResults(req.Setup, req.Cycle, req.Market)))
}

type adaptiveResponse struct {
	adaptive.Result
	Cycle    adaptive.CycleParams `json:"cycle"`
	Warnings []string             `json:"warnings"`
}

func (h *CalculatorHandler) CalculateAdaptive(c *gin.Context) {
	var req models.AdaptiveCalculateRequest
	if !bindJSON(c, &req) {
		return
	}

	cycle := genetics.ApplyGeneticsPreset(req.Cycle)
	result, err := adaptive.CalculateAdaptiveResults(req.Setup, cycle, req.Market)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(adaptiveResponse{
		Result:   result,
		Cycle:    cycle,
		Warnings: genetics.ValidateCycleConfig(cycle).Warnings,
	}))
}

func (h *CalculatorHandler) reference(req models.PhaseRequest) (start, now time.Time) {
	now = h.now()
	if req.Now != nil {
		now = *req.Now
	}
	start = req.StartDate
	if start.IsZero() {
		start = now
	}
	return start, now
}

type phaseResponse struct {
	phase.PhaseInfo
	ShouldStartFlowering bool `json:"should_start_flowering"`
}

func (h *CalculatorHandler) Phase(c *gin.Context) {
	var req models.PhaseRequest
	if !bindJSON(c, &req) {
		return
	}

	start, now := h.reference(req)
	info, err := phase.CalculateCultivationPhase(start, req.PlantType, req.Overrides, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(phaseResponse{
		PhaseInfo:            info,
		ShouldStartFlowering: phase.ShouldTransitionToFlowering(info, req.PlantType, false),
	}))
}

func (h *CalculatorHandler) Harvest(c *gin.Context) {
	var req models.PhaseRequest
	if !bindJSON(c, &req) {
		return
	}

	start, _ := h.reference(req)
	schedule, err := phase.PredictHarvestSchedule(start, req.PlantType, req.Overrides)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(schedule))
}

func (h *CalculatorHandler) Efficiency(c *gin.Context) {
	var req models.EfficiencyRequest
	if !bindJSON(c, &req) {
		return
	}

	start, now := h.reference(req.PhaseRequest)
	info, err := phase.CalculateCultivationPhase(start, req.PlantType, req.Overrides, now)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics, err := phase.CalculateCycleEfficiency(info, req.PlantType, req.ExpectedYieldG, req.ActualYieldG)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"phase":      info,
		"efficiency": metrics,
	}))
}

func (h *CalculatorHandler) ListGenetics(c *gin.Context) {
	strains := genetics.List()
	c.JSON(http.StatusOK, utils.CreateListResponse(strains, len(strains)))
}

type geneticsResponse struct {
	genetics.Strain
	TimelineOverrides *phase.Overrides `json:"timeline_overrides,omitempty"`
}

func (h *CalculatorHandler) GetGenetics(c *gin.Context) {
	strain, ok := genetics.Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("NOT_FOUND", "genetics not found"))
		return
	}

	overrides, _ := genetics.TimelineOverrides(strain.Key)
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(geneticsResponse{
		Strain:            strain,
		TimelineOverrides: overrides,
	}))
}

func (h *CalculatorHandler) GeneticsCycleConfig(c *gin.Context) {
	strain, ok := genetics.Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("NOT_FOUND", "genetics not found"))
		return
	}

	cfg, err := genetics.CycleConfigFromGenetics(strain.Key, strain.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(cfg))
}

func (h *CalculatorHandler) ListPresets(c *gin.Context) {
	presets := genetics.Presets()
	c.JSON(http.StatusOK, utils.CreateListResponse(presets, len(presets)))
}

func (h *CalculatorHandler) DefaultCycleConfig(c *gin.Context) {
	pt, err := phase.ParsePlantType(c.Param("plant_type"))
	if err != nil {
		respondError(c, err)
		return
	}

	cfg, err := genetics.DefaultCycleConfig(pt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(cfg))
}

func (h *CalculatorHandler) ValidateCycleConfig(c *gin.Context) {
	var cycle adaptive.CycleParams
	if !bindJSON(c, &cycle) {
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(genetics.ValidateCycleConfig(cycle)))
}
