package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_engine/internal/app/service"
	"wallet_engine/internal/domain/entity"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

type stubPortfolioService struct {
	snapshot *entity.PortfolioSnapshot
	err      error
}

func (s *stubPortfolioService) GetPortfolioSnapshot(ctx context.Context, handle string) (*entity.PortfolioSnapshot, error) {
	return s.snapshot, s.err
}

type stubLifecycleService struct {
	result entity.TrustlineLifecycleResult
}

func (s *stubLifecycleService) SellAllAndRemoveTrustline(ctx context.Context, handle, currency, issuer string, slippagePct float64) entity.TrustlineLifecycleResult {
	return s.result
}

func portfolioRouter(svc *stubPortfolioService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewPortfolioHandler(svc, noopLogger{})
	router.GET("/api/v1/portfolio/:handle", handler.GetSnapshotHandler)
	return router
}

func trustlineRouter(svc *stubLifecycleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewTrustlineHandler(svc, noopLogger{})
	router.POST("/api/v1/trustlines/remove", handler.RemoveHandler)
	return router
}

func TestGetSnapshotHandler_OK(t *testing.T) {
	router := portfolioRouter(&stubPortfolioService{snapshot: &entity.PortfolioSnapshot{
		UserHandle: "alice",
		TotalUSD:   decimal.RequireFromString("65.9"),
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/alice", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp APISnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Data.Snapshot.UserHandle)
	assert.Equal(t, "Snapshot retrieved successfully.", resp.StatusMessage)
}

func TestGetSnapshotHandler_IncompleteMessage(t *testing.T) {
	router := portfolioRouter(&stubPortfolioService{snapshot: &entity.PortfolioSnapshot{
		UserHandle: "alice",
		Incomplete: true,
		Errors: []entity.AssetError{
			{Address: "rA", Chain: entity.ChainXRPL, Stage: "nfts_by_owner", Message: "indexer down"},
		},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/alice", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp APISnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.ServiceErrors, 1)
	assert.Contains(t, resp.StatusMessage, "Some sources failed")
}

func TestGetSnapshotHandler_NoSession(t *testing.T) {
	router := portfolioRouter(&stubPortfolioService{err: service.ErrNoSession})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/nobody", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveHandler_InvalidBody(t *testing.T) {
	router := trustlineRouter(&stubLifecycleService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trustlines/remove", strings.NewReader(`{"currency":"SOLO"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveHandler_NoSession(t *testing.T) {
	router := trustlineRouter(&stubLifecycleService{result: entity.TrustlineLifecycleResult{
		Phase: entity.PhaseNone,
		Err:   service.ErrNoSession.Error(),
	}})

	w := httptest.NewRecorder()
	body := `{"userHandle":"nobody","currency":"SOLO","issuer":"rIssuer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trustlines/remove", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveHandler_PartialFailure(t *testing.T) {
	router := trustlineRouter(&stubLifecycleService{result: entity.TrustlineLifecycleResult{
		Phase:      entity.PhaseSold,
		SellTxHash: "S1",
		Err:        "trustline removal failed after sell: tecNO_PERMISSION",
	}})

	w := httptest.NewRecorder()
	body := `{"userHandle":"alice","currency":"SOLO","issuer":"rIssuer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trustlines/remove", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp APILifecycleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entity.PhaseSold, resp.Data.Result.Phase)
	assert.Equal(t, "S1", resp.Data.Result.SellTxHash)
	assert.Contains(t, resp.StatusMessage, "Manual cleanup")
}

func TestRemoveHandler_Success(t *testing.T) {
	router := trustlineRouter(&stubLifecycleService{result: entity.TrustlineLifecycleResult{
		Phase:        entity.PhaseRemoved,
		SellTxHash:   "S1",
		RemoveTxHash: "R1",
	}})

	w := httptest.NewRecorder()
	body := `{"userHandle":"alice","currency":"SOLO","issuer":"rIssuer","slippagePct":6}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trustlines/remove", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp APILifecycleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entity.PhaseRemoved, resp.Data.Result.Phase)
	assert.Equal(t, "Trustline sold and removed successfully.", resp.StatusMessage)
}
