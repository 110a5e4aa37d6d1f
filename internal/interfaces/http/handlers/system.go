package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
	"github.com/simonbeirouti/aura/internal/migrations"
)

// SystemHandler serves health and diagnostics routes.
type SystemHandler struct {
	sessions   *services.SessionService
	tracker    *migrations.Tracker
	backendURL string
}

func NewSystemHandler(sessions *services.SessionService, tracker *migrations.Tracker, backendURL string) *SystemHandler {
	return &SystemHandler{sessions: sessions, tracker: tracker, backendURL: backendURL}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "aura",
		"time":    time.Now(),
	})
}

// Status reports whether the backend is configured and a session exists,
// without exposing credentials.
func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"backend_configured": h.backendURL != "",
		"has_session":        h.sessions.HasSession(),
	})
}

func (h *SystemHandler) MigrationStatus(c *gin.Context) {
	status, err := h.tracker.Status()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *SystemHandler) MarkMigrationApplied(c *gin.Context) {
	if err := h.tracker.MarkApplied(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "applied"})
}

func (h *SystemHandler) ResetMigrations(c *gin.Context) {
	if err := h.tracker.Reset(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
