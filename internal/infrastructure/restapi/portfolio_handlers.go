package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/app/service"
	"wallet_engine/internal/domain/entity"
)

// APISnapshotResponse is the envelope for the portfolio snapshot endpoint.
type APISnapshotResponse struct {
	Data struct {
		Snapshot *entity.PortfolioSnapshot `json:"snapshot"`
	} `json:"data"`
	ServiceErrors []entity.AssetError `json:"service_errors,omitempty"`
	StatusMessage string              `json:"status_message"`
}

// PortfolioHandler serves portfolio snapshot requests.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	logger           port.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, l port.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		logger:           l,
	}
}

// GetSnapshotHandler handles GET /api/v1/portfolio/:handle.
func (h *PortfolioHandler) GetSnapshotHandler(c *gin.Context) {
	ctx := c.Request.Context()
	handle := c.Param("handle")

	snapshot, err := h.portfolioService.GetPortfolioSnapshot(ctx, handle)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active session for user"})
			return
		}
		h.logger.Error("Portfolio snapshot failed", "handle", handle, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build portfolio snapshot"})
		return
	}

	response := APISnapshotResponse{
		ServiceErrors: snapshot.Errors,
	}
	response.Data.Snapshot = snapshot

	switch {
	case snapshot.Incomplete && len(snapshot.Errors) > 0:
		response.StatusMessage = "Snapshot retrieved. Some sources failed, totals cover priced assets only."
	case snapshot.Incomplete:
		response.StatusMessage = "Snapshot retrieved. Some assets could not be priced."
	default:
		response.StatusMessage = "Snapshot retrieved successfully."
	}

	c.JSON(http.StatusOK, response)
}
