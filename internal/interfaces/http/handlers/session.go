package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simonbeirouti/aura/internal/domain/services"
)

// SessionHandler manages the locally persisted auth session. These routes
// sit outside the auth middleware: storing a session is how the client
// becomes authenticated in the first place.
type SessionHandler struct {
	service *services.SessionService
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type storeSessionRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *SessionHandler) Store(c *gin.Context) {
	var req storeSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.Store(req.AccessToken, req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}

func (h *SessionHandler) Get(c *gin.Context) {
	tokens, err := h.service.Tokens()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *SessionHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}

func (h *SessionHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
