package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/config"
	"github.com/ByteToHex/vrf-lottery-backend/internal/handlers"
	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	"github.com/ByteToHex/vrf-lottery-backend/internal/repositories/memory"
	"github.com/ByteToHex/vrf-lottery-backend/internal/services"
	"github.com/ByteToHex/vrf-lottery-backend/pkg/oracle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "routes-test-secret"
	selfHex      = "0x0000000000000000000000000000000000000200"
	oracleHex    = "0x0000000000000000000000000000000000000100"
	tokenHex     = "0x0000000000000000000000000000000000000300"
	ownerHex     = "0x0000000000000000000000000000000000000001"
	alice        = "0x00000000000000000000000000000000000000a1"
	bobAddr      = "0x00000000000000000000000000000000000000b2"
	testPassword = "correct-horse"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *services.LedgerServiceImpl) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Server.AllowedHosts = []string{"localhost"}
	cfg.JWT.Secret = testSecret
	cfg.JWT.ExpiresIn = 3600

	ledger := services.NewLedgerService("Lottery Reward Token", "LRT", 18, big.NewInt(1_000_000_000), common.HexToAddress(ownerHex), memory.NewMintRepository())
	require.NoError(t, ledger.SetAuthorizedMinter(ctx, common.HexToAddress(selfHex)))

	lottery := services.NewLotteryService(services.LotteryParams{
		SelfAddress:          common.HexToAddress(selfHex),
		OracleAddress:        common.HexToAddress(oracleHex),
		RewardToken:          common.HexToAddress(tokenHex),
		EntryFee:             big.NewInt(500000),
		IntervalSeconds:      4 * 3600,
		CallbackGasLimit:     100000,
		RequestConfirmations: 3,
		NumWords:             1,
	}, oracle.NewMock(big.NewInt(1000)), ledger, memory.NewRequestRepository())

	adminRepo := memory.NewAdminUserRepository()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, adminRepo.Create(ctx, &models.AdminUser{
		Email:    "ops@example.com",
		Password: string(hashed),
		Role:     "admin",
	}))
	auth := services.NewAuthService(adminRepo, testSecret, 3600)

	router := SetupRouter(cfg, HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(auth),
		LotteryHandler: handlers.NewLotteryHandler(lottery),
		LedgerHandler:  handlers.NewLedgerHandler(ledger),
	})
	return router, ledger
}

func doJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := doJSON(router, http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPut, "/api/v1/admin/lottery/entry-fee", gin.H{"fee": "1000"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPut, "/api/v1/admin/lottery/entry-fee", gin.H{"fee": "1000"}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A token signed with the wrong key must be rejected
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "x", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	w = doJSON(router, http.MethodPut, "/api/v1/admin/lottery/entry-fee", gin.H{"fee": "1000"}, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "ops@example.com", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAdminRoutesWithToken(t *testing.T) {
	router, _ := setupTestRouter(t)
	token := loginToken(t, router)

	w := doJSON(router, http.MethodPut, "/api/v1/admin/lottery/entry-fee", gin.H{"fee": "750000"}, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/lottery", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var info models.RoundInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "750000", info.EntryFee)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := setupTestRouter(t)
	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "ops@example.com", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLotteryCycleOverHTTP(t *testing.T) {
	router, ledger := setupTestRouter(t)

	// Two participants pay the exact fee
	for _, addr := range []string{alice, bobAddr} {
		w := doJSON(router, http.MethodPost, "/api/v1/lottery/participate", gin.H{
			"address": addr, "amount": "500000",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	// A duplicate entry conflicts
	w := doJSON(router, http.MethodPost, "/api/v1/lottery/participate", gin.H{
		"address": alice, "amount": "500000",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// A wrong fee is unprocessable
	w = doJSON(router, http.MethodPost, "/api/v1/lottery/participate", gin.H{
		"address": "0x00000000000000000000000000000000000000c3", "amount": "1",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Anyone may request the draw
	w = doJSON(router, http.MethodPost, "/api/v1/lottery/draw", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var drawResp struct {
		RequestID uint64 `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drawResp))
	require.Equal(t, uint64(1), drawResp.RequestID)

	// A spoofed oracle callback is forbidden
	w = doJSON(router, http.MethodPost, "/api/v1/oracle/callback", gin.H{
		"caller": alice, "requestId": drawResp.RequestID, "randomValues": []string{"5"},
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The real oracle callback settles the round: 5 mod 2 == 1, second wins
	w = doJSON(router, http.MethodPost, "/api/v1/oracle/callback", gin.H{
		"caller": oracleHex, "requestId": drawResp.RequestID, "randomValues": []string{"5"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var result models.DrawResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, common.HexToAddress(bobAddr).Hex(), result.Winner)
	assert.Equal(t, "1000000", result.Reward)

	// Replay is a conflict
	w = doJSON(router, http.MethodPost, "/api/v1/oracle/callback", gin.H{
		"caller": oracleHex, "requestId": drawResp.RequestID, "randomValues": []string{"5"},
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// The reward is visible through the ledger endpoints
	w = doJSON(router, http.MethodGet, "/api/v1/ledger/balances/"+bobAddr, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var balance struct {
		Balance string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, "1000000", balance.Balance)
	assert.Equal(t, "1000000", ledger.Info(context.Background()).TotalSupply)
}

func TestRequestStatusEndpoints(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/lottery/requests/42", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/lottery/requests/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/lottery/participants/0", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
