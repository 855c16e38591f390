package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tradetracker/internal/api/repository"
	"tradetracker/internal/api/service"
	"tradetracker/pkg/auth"
	"tradetracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full authenticated API surface onto in-memory
// repositories with two known tokens.
func newTestServer() *echo.Echo {
	log := logger.NewNop()

	tradeRepo := repository.NewMemoryTradeRepository()
	profileRepo := repository.NewMemoryProfileRepository()
	returnRepo := repository.NewMemoryMonthlyReturnRepository()
	balanceRepo := repository.NewMemoryMonthlyBalanceRepository()
	feesRepo := repository.NewMemoryFeesConfigRepository()
	userRepo := repository.NewMemoryUserRepository()

	verifier := &auth.StaticVerifier{Tokens: map[string]*auth.Identity{
		"alice-token": {UserID: "alice", Email: "alice@example.com", Name: "Alice"},
		"bob-token":   {UserID: "bob", Email: "bob@example.com", Name: "Bob"},
	}}

	tradeSvc := service.NewTradeService(tradeRepo, profileRepo, nil, log)
	metricsSvc := service.NewMetricsService(tradeRepo, nil, log)
	profileSvc := service.NewProfileService(profileRepo, log)
	monthlySvc := service.NewMonthlyService(returnRepo, balanceRepo, log)
	feesSvc := service.NewFeesService(feesRepo, log)

	e := echo.New()
	NewHealthHandler().RegisterRoutes(e)

	api := e.Group("", AuthMiddleware(verifier, userRepo, log))
	NewTradeHandler(tradeSvc, log).RegisterRoutes(api)
	NewMetricsHandler(metricsSvc, log).RegisterRoutes(api)
	NewProfileHandler(profileSvc, log).RegisterRoutes(api)
	NewMonthlyHandler(monthlySvc, log).RegisterRoutes(api)
	NewFeesHandler(feesSvc, log).RegisterRoutes(api)
	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsUnauthenticated(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestMissingOrInvalidToken(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodGet, "/trades/alice", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/trades/alice", "wrong-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnerMismatchIsForbidden(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodGet, "/trades/alice", "bob-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/metrics/alice", "bob-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/profile/alice", "bob-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTradeLifecycleOverHTTP(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/add-trade", "alice-token",
		`{"ticker":"aapl","date":"2025-06-15","buy_price":100,"shares":10,"risk":2,"status":"open"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var added struct {
		TradeID string `json:"trade_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	require.NotEmpty(t, added.TradeID)

	// Bob cannot touch Alice's trade.
	rec = doJSON(e, http.MethodDelete, "/trades/"+added.TradeID, "bob-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/exit-trade/alice", "alice-token",
		`{"ticker":"AAPL","shares_to_exit":4,"sell_price":120,"notes":"trim"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "remaining_trade_id")

	rec = doJSON(e, http.MethodGet, "/trades/alice", "alice-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Trades []json.RawMessage `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Trades, 2)

	rec = doJSON(e, http.MethodGet, "/metrics/alice", "alice-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "profit_factor")
}

func TestValidationFailuresMapTo422(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/add-trade", "alice-token",
		`{"ticker":"aapl","shares":10,"risk":2,"status":"open"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "buy price")

	rec = doJSON(e, http.MethodPost, "/exit-trade/alice", "alice-token",
		`{"ticker":"GONE","shares_to_exit":1,"sell_price":10}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodGet, "/profile/alice/account-balance", "alice-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "10000")

	rec = doJSON(e, http.MethodPut, "/profile/alice", "alice-token",
		`{"account_balance":25000,"currency":"USD","risk_tolerance":1.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/profile/alice/account-balance", "alice-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "25000")
}

func TestFeesConfigDefaults(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodGet, "/fees-config/alice", "alice-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "brokerage_percentage")

	rec = doJSON(e, http.MethodPost, "/fees-config/alice", "alice-token",
		`{"brokerage_percentage":50}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMonthlyReturnUpsertOverHTTP(t *testing.T) {
	e := newTestServer()

	body := `{"month":"2025-06-01","start_cap":10000,"close_cap":11000}`
	rec := doJSON(e, http.MethodPost, "/monthly-returns/alice", "alice-token", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/monthly-returns/alice", "alice-token", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/monthly-returns/alice", "alice-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		MonthlyReturns []json.RawMessage `json:"monthly_returns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.MonthlyReturns, 1)
}
