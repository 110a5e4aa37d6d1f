package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/interfaces/http/middleware"
)

type ContractorHandler struct {
	service *services.ContractorService
}

func NewContractorHandler(service *services.ContractorService) *ContractorHandler {
	return &ContractorHandler{service: service}
}

func (h *ContractorHandler) Onboard(c *gin.Context) {
	var form models.ContractorKYCForm
	if !bindJSON(c, &form) {
		return
	}

	contractor, err := h.service.Onboard(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contractor)
}

func (h *ContractorHandler) Get(c *gin.Context) {
	contractor, err := h.service.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}

func (h *ContractorHandler) SaveKYCForm(c *gin.Context) {
	var form models.ContractorKYCForm
	if !bindJSON(c, &form) {
		return
	}

	if err := h.service.SaveKYCForm(c.Request.Context(), middleware.UserID(c), form); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *ContractorHandler) LoadKYCForm(c *gin.Context) {
	form, err := h.service.LoadKYCForm(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}
