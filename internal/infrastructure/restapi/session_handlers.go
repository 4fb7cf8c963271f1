package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/infrastructure/session"
)

// SessionOpenRequest is the request body for opening a session.
type SessionOpenRequest struct {
	UserHandle     string `json:"userHandle" binding:"required"`
	PrimaryAddress string `json:"primaryAddress" binding:"required"`
	SigningSeed    string `json:"signingSeed"`
}

// SessionHandler is the hook the authentication collaborator calls to manage
// the session cache: insert on login, evict on logout.
type SessionHandler struct {
	store  *session.Store
	logger port.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store *session.Store, l port.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: l,
	}
}

// OpenHandler handles POST /api/v1/sessions.
func (h *SessionHandler) OpenHandler(c *gin.Context) {
	var req SessionOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	h.store.Put(port.Session{
		UserHandle: req.UserHandle,
		PrimaryAddress: entity.Address{
			Chain: entity.ChainXRPL,
			Value: req.PrimaryAddress,
		},
		SigningSeed: req.SigningSeed,
	})
	h.logger.Info("Session opened", "handle", req.UserHandle)
	c.JSON(http.StatusCreated, gin.H{"status_message": "Session opened."})
}

// CloseHandler handles DELETE /api/v1/sessions/:handle.
func (h *SessionHandler) CloseHandler(c *gin.Context) {
	handle := c.Param("handle")
	h.store.Evict(handle)
	h.logger.Info("Session closed", "handle", handle)
	c.JSON(http.StatusOK, gin.H{"status_message": "Session closed."})
}
