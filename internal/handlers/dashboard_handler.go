package handlers

import (
	"net/http"

	"cultivation-service/internal/services"
	"cultivation-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.IDashboardService
}

func NewDashboardHandler(dashboardService services.IDashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/cultivation/protected/api/v1/dashboard", auth, h.GetDashboard)
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), UserIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(summary))
}
