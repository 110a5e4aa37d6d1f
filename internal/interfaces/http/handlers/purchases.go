package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/interfaces/http/middleware"
)

type PurchaseHandler struct {
	service *services.PurchaseService
}

func NewPurchaseHandler(service *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

type createIntentRequest struct {
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Currency   string `json:"currency" binding:"required"`
	CustomerID string `json:"customer_id"`
	PriceID    string `json:"price_id"`
}

func (h *PurchaseHandler) CreatePaymentIntent(c *gin.Context) {
	var req createIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.CreatePaymentIntent(c.Request.Context(), req.Amount, req.Currency, req.CustomerID, req.PriceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type chargeRequest struct {
	Amount          int64  `json:"amount" binding:"required,gt=0"`
	Currency        string `json:"currency" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	PriceID         string `json:"price_id"`
}

func (h *PurchaseHandler) ChargeStoredMethod(c *gin.Context) {
	var req chargeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.ChargeStoredMethod(c.Request.Context(), middleware.UserID(c), req.Amount, req.Currency, req.PaymentMethodID, req.PriceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PurchaseHandler) VerifyPaymentIntent(c *gin.Context) {
	result, err := h.service.VerifyPaymentIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type completePurchaseRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

func (h *PurchaseHandler) Complete(c *gin.Context) {
	var req completePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.service.CompletePurchase(c.Request.Context(), middleware.UserID(c), req.PaymentIntentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

type recordPurchaseRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	PriceID         string `json:"price_id" binding:"required"`
	AmountPaid      int64  `json:"amount_paid" binding:"required,gt=0"`
	Currency        string `json:"currency" binding:"required"`
}

func (h *PurchaseHandler) Record(c *gin.Context) {
	var req recordPurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.service.RecordPurchase(c.Request.Context(), middleware.UserID(c), req.PaymentIntentID, req.PriceID, req.AmountPaid, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *PurchaseHandler) List(c *gin.Context) {
	purchases, err := h.service.ListPurchases(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
