package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/interfaces/http/middleware"
)

type ProfileHandler struct {
	service *services.ProfileService
}

func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var update models.ProfileUpdate
	if !bindJSON(c, &update) {
		return
	}

	profile, err := h.service.Create(c.Request.Context(), middleware.UserID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var update models.ProfileUpdate
	if !bindJSON(c, &update) {
		return
	}

	profile, err := h.service.Update(c.Request.Context(), middleware.UserID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UsernameAvailable(c *gin.Context) {
	username := c.Query("username")
	available, err := h.service.IsUsernameAvailable(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "available": available})
}
