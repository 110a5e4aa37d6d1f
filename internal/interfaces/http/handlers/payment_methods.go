package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/interfaces/http/middleware"
)

type PaymentMethodHandler struct {
	service        *services.PaymentMethodService
	publishableKey string
}

func NewPaymentMethodHandler(service *services.PaymentMethodService, publishableKey string) *PaymentMethodHandler {
	return &PaymentMethodHandler{service: service, publishableKey: publishableKey}
}

type registerPaymentMethodRequest struct {
	CustomerID      string `json:"customer_id" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	IsDefault       *bool  `json:"is_default"`
}

func (h *PaymentMethodHandler) Register(c *gin.Context) {
	var req registerPaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.service.Register(c.Request.Context(), req.CustomerID, req.PaymentMethodID, middleware.UserID(c), req.IsDefault)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *PaymentMethodHandler) List(c *gin.Context) {
	methods, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

type setDefaultRequest struct {
	CustomerID      string `json:"customer_id" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

func (h *PaymentMethodHandler) SetDefault(c *gin.Context) {
	var req setDefaultRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.SetDefault(c.Request.Context(), req.CustomerID, req.PaymentMethodID, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "default updated"})
}

func (h *PaymentMethodHandler) Remove(c *gin.Context) {
	paymentMethodID := c.Param("id")
	if err := h.service.Remove(c.Request.Context(), paymentMethodID, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *PaymentMethodHandler) MarkUsed(c *gin.Context) {
	paymentMethodID := c.Param("id")
	if err := h.service.MarkUsed(c.Request.Context(), paymentMethodID, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "marked"})
}

type repairRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

func (h *PaymentMethodHandler) Repair(c *gin.Context) {
	var req repairRequest
	if !bindJSON(c, &req) {
		return
	}

	fixed, err := h.service.RepairAttachments(c.Request.Context(), req.CustomerID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fixed": fixed})
}

type customerRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

func (h *PaymentMethodHandler) GetOrCreateCustomer(c *gin.Context) {
	var req customerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.service.GetOrCreateCustomer(c.Request.Context(), req.Email, req.Name, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// ListProcessor serves the processor's view of a customer's methods, for
// diagnosing drift against the local mirror.
func (h *PaymentMethodHandler) ListProcessor(c *gin.Context) {
	methods, err := h.service.ListProcessorMethods(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

type setupIntentRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

func (h *PaymentMethodHandler) CreateSetupIntent(c *gin.Context) {
	var req setupIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	intent, err := h.service.CreateSetupIntent(c.Request.Context(), req.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"setup_intent_id": intent.ID,
		"client_secret":   intent.ClientSecret,
	})
}

// PublishableKey hands the client the key it needs to drive the processor's
// browser SDK.
func (h *PaymentMethodHandler) PublishableKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishable_key": h.publishableKey})
}
