package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/app/service"
	"wallet_engine/internal/domain/entity"
)

// TrustlineRemovalRequest is the request body for the sell-and-remove endpoint.
type TrustlineRemovalRequest struct {
	UserHandle  string  `json:"userHandle" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Issuer      string  `json:"issuer" binding:"required"`
	SlippagePct float64 `json:"slippagePct"`
}

// APILifecycleResponse is the envelope for the sell-and-remove endpoint.
type APILifecycleResponse struct {
	Data struct {
		Result entity.TrustlineLifecycleResult `json:"result"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// TrustlineHandler serves trustline lifecycle requests.
type TrustlineHandler struct {
	lifecycleService port.TrustlineLifecycleService
	logger           port.Logger
}

// NewTrustlineHandler creates a new TrustlineHandler.
func NewTrustlineHandler(ls port.TrustlineLifecycleService, l port.Logger) *TrustlineHandler {
	return &TrustlineHandler{
		lifecycleService: ls,
		logger:           l,
	}
}

// RemoveHandler handles POST /api/v1/trustlines/remove.
//
// The two-phase operation reports partial progress in the result body, so a
// failure after a successful sell still returns 200 with the reached phase,
// the sell hash and the error. Only precondition failures map to 4xx.
func (h *TrustlineHandler) RemoveHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var req TrustlineRemovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result := h.lifecycleService.SellAllAndRemoveTrustline(ctx, req.UserHandle, req.Currency, req.Issuer, req.SlippagePct)

	switch result.Err {
	case service.ErrNoSession.Error():
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session for user"})
		return
	case service.ErrNoSigningKey.Error():
		c.JSON(http.StatusForbidden, gin.H{"error": "session has no signing key"})
		return
	}

	if result.Failed() {
		h.logger.Warn("Trustline lifecycle did not complete",
			"handle", req.UserHandle, "currency", req.Currency, "issuer", req.Issuer,
			"phase", string(result.Phase), "error", result.Err)
	}

	response := APILifecycleResponse{}
	response.Data.Result = result

	switch {
	case result.Failed() && result.Phase == entity.PhaseSold:
		response.StatusMessage = "Balance sold but trustline removal failed. Manual cleanup may be required."
	case result.Failed():
		response.StatusMessage = "Trustline removal did not complete: " + result.Err
	default:
		response.StatusMessage = "Trustline sold and removed successfully."
	}

	c.JSON(http.StatusOK, response)
}
