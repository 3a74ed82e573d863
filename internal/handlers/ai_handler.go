package handlers

import (
	"net/http"

	"cultivation-service/internal/models"
	"cultivation-service/internal/services"
	"cultivation-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	analysisService services.IAnalysisService
}

func NewAIHandler(analysisService services.IAnalysisService) *AIHandler {
	return &AIHandler{analysisService: analysisService}
}

func (h *AIHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	ai := router.Group("/cultivation/protected/api/v1/ai", auth)
	{
		ai.POST("/cultivation-analysis", BodySizeLimit(maxJSONBodyBytes), h.AnalyzeCultivation)
		ai.POST("/vision", BodySizeLimit(maxImageBodyBytes), h.AnalyzeImage)
	}
}

func (h *AIHandler) AnalyzeCultivation(c *gin.Context) {
	var req models.CultivationAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.analysisService.AnalyzeCultivation(c.Request.Context(), UserIDFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(result))
}

func (h *AIHandler) AnalyzeImage(c *gin.Context) {
	var req models.VisionAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.analysisService.AnalyzeImage(c.Request.Context(), UserIDFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(result))
}
