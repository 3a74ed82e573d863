package handlers

import (
	"net/http"

	"cultivation-service/internal/models"
	"cultivation-service/internal/services"
	"cultivation-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.INotificationService
}

func NewNotificationHandler(notificationService services.INotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	notifications := router.Group("/cultivation/protected/api/v1/notifications", auth)
	{
		notifications.GET("", h.ListNotifications)
		notifications.PATCH("/:id/read", h.MarkRead)
		notifications.POST("/mark-all-read", h.MarkAllRead)
		notifications.GET("/preferences", h.GetPreferences)
		notifications.PUT("/preferences", h.UpdatePreferences)
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	limit, err := utils.GetQueryParamAsInt(c, "limit", 0)
	if err != nil || limit > maxListLimit {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "limit must be between 0 and 100"))
		return
	}
	unreadOnly := utils.GetQueryParamAsBool(c, "unread", false)

	notifications, err := h.notificationService.List(c.Request.Context(), UserIDFrom(c), unreadOnly, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateListResponse(notifications, len(notifications)))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.notificationService.MarkRead(c.Request.Context(), UserIDFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"id": id, "is_read": true}))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), UserIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"updated": updated}))
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.notificationService.GetPreferences(c.Request.Context(), UserIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(prefs))
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var req models.UpdateNotificationPreferencesRequest
	if !bindJSON(c, &req) {
		return
	}

	prefs, err := h.notificationService.UpdatePreferences(c.Request.Context(), UserIDFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(prefs))
}
