package handlers

import (
	"net/http"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/services"
	"cultivation-service/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type CultivationHandler struct {
	cultivationService services.ICultivationService
	eventService       services.IEventService
	imageService       services.IImageService
}

func NewCultivationHandler(
	cultivationService services.ICultivationService,
	eventService services.IEventService,
	imageService services.IImageService,
) *CultivationHandler {
	return &CultivationHandler{
		cultivationService: cultivationService,
		eventService:       eventService,
		imageService:       imageService,
	}
}

func (h *CultivationHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	protected := router.Group("/cultivation/protected/api/v1", auth)
	{
		cultivations := protected.Group("/cultivations")
		{
			cultivations.POST("", h.CreateCultivation)
			cultivations.GET("", h.ListCultivations)
			cultivations.GET("/:id", h.GetCultivation)
			cultivations.PATCH("/:id", h.UpdateCultivation)
			cultivations.DELETE("/:id", h.DeleteCultivation)
			cultivations.GET("/:id/status", h.CultivationStatus)

			cultivations.POST("/:id/events", h.CreateEvent)
			cultivations.GET("/:id/events", h.ListEvents)
		}

		protected.DELETE("/events/:id", h.DeleteEvent)
		protected.GET("/events/:id/images", h.ListEventImages)
		protected.POST("/images", BodySizeLimit(maxImageBodyBytes), h.UploadImage)
	}
}

func (h *CultivationHandler) CreateCultivation(c *gin.Context) {
	var req models.CreateCultivationRequest
	if !bindJSON(c, &req) {
		return
	}

	cultivation, err := h.cultivationService.Create(c.Request.Context(), UserIDFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(cultivation))
}

func (h *CultivationHandler) ListCultivations(c *gin.Context) {
	limit, err := utils.GetQueryParamAsInt(c, "limit", defaultListLimit)
	if err != nil || limit == 0 || limit > maxListLimit {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "limit must be between 1 and 100"))
		return
	}
	offset, err := utils.GetQueryParamAsInt(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", err.Error()))
		return
	}

	cultivations, err := h.cultivationService.List(c.Request.Context(), UserIDFrom(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateListResponse(cultivations, len(cultivations)))
}

func (h *CultivationHandler) GetCultivation(c *gin.Context) {
	cultivation, err := h.cultivationService.Get(c.Request.Context(), UserIDFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(cultivation))
}

func (h *CultivationHandler) UpdateCultivation(c *gin.Context) {
	var req models.UpdateCultivationRequest
	if !bindJSON(c, &req) {
		return
	}

	cultivation, err := h.cultivationService.Update(c.Request.Context(), UserIDFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(cultivation))
}

func (h *CultivationHandler) DeleteCultivation(c *gin.Context) {
	id := c.Param("id")
	if err := h.cultivationService.Delete(c.Request.Context(), UserIDFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"id": id, "deleted": true}))
}

// CultivationStatus accepts an optional RFC 3339 "at" query to evaluate the
// cultivation at another point in time.
func (h *CultivationHandler) CultivationStatus(c *gin.Context) {
	now := time.Now()
	if raw := c.Query("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "at must be an RFC 3339 timestamp"))
			return
		}
		now = at
	}

	report, err := h.cultivationService.Status(c.Request.Context(), UserIDFrom(c), c.Param("id"), now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(report))
}

func (h *CultivationHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), UserIDFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(event))
}

func (h *CultivationHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context(), UserIDFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateListResponse(events, len(events)))
}

func (h *CultivationHandler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if err := h.eventService.Delete(c.Request.Context(), UserIDFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"id": id, "deleted": true}))
}

func (h *CultivationHandler) UploadImage(c *gin.Context) {
	var req models.UploadImageRequest
	if !bindJSON(c, &req) {
		return
	}

	image, err := h.imageService.Upload(c.Request.Context(), UserIDFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(image))
}

func (h *CultivationHandler) ListEventImages(c *gin.Context) {
	images, err := h.imageService.ListByEvent(c.Request.Context(), UserIDFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateListResponse(images, len(images)))
}
