package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
)

type StoreHandler struct {
	service *services.StoreService
}

func NewStoreHandler(service *services.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.service.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func (h *StoreHandler) Get(c *gin.Context) {
	data, err := h.service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

type setStoreRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

func (h *StoreHandler) Set(c *gin.Context) {
	var req setStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.Set(c.Param("id"), req.Data); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *StoreHandler) Metadata(c *gin.Context) {
	meta, err := h.service.Metadata(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
