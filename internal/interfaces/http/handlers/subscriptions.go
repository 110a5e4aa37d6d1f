package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/interfaces/http/middleware"
)

type SubscriptionHandler struct {
	service *services.SubscriptionService
}

func NewSubscriptionHandler(service *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

type createSubscriptionRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req createSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req.PriceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	result, err := h.service.Cancel(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	result, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SubscriptionHandler) Sync(c *gin.Context) {
	result, err := h.service.SyncStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SubscriptionHandler) SyncAll(c *gin.Context) {
	report, err := h.service.SyncAll(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
