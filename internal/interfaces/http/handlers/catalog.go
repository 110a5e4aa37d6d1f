package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Packages(c *gin.Context) {
	packages, err := h.service.PackagesWithPrices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

func (h *CatalogHandler) Plans(c *gin.Context) {
	plans, err := h.service.PlansWithPrices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

type provisionProductRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	TokenAmount int64                `json:"token_amount"`
	Prices      []services.PriceSpec `json:"prices"`
}

func (h *CatalogHandler) ProvisionProduct(c *gin.Context) {
	var req provisionProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.ProvisionProduct(c.Request.Context(), req.Name, req.Description, req.TokenAmount, req.Prices)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) Product(c *gin.Context) {
	product, err := h.service.ProductWithPrices(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type syncPricesRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (h *CatalogHandler) SyncPrices(c *gin.Context) {
	var req syncPricesRequest
	if !bindJSON(c, &req) {
		return
	}

	synced, err := h.service.SyncProcessorPrices(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": synced})
}
