package integration

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	httpHandler "gyro-ledger/internal/adapter/http/handler"
	"gyro-ledger/internal/adapter/http/middleware"
	redisStorage "gyro-ledger/internal/adapter/storage/redis"
	"gyro-ledger/internal/service"
	"gyro-ledger/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack with in-memory repos connected
// via miniredis. This exercises the real HTTP layer, middleware, handlers,
// services, and Redis stores end-to-end.

const (
	ownerAddr    = "GOWNERUJZDEGXDNCF32EPF3DHODZDOCIS2JHTLGMXGEDN73U55XTPLPF"
	treasuryAddr = "GTREAST7V4SEH2KVJ72CEUVW75EFR6EDT4SYWB5WKH7DNSIPZZ7FK4ZR"
	aliceAddr    = "GALICEI3R2WYOJFLJOOA7LQSAJ2XUID5ZZZZG6ZDMEN4KHVDGAJGXBEN"
	bravoAddr    = "GBRAVOYJQWX6HH7566TFJGVQ6KBNXJBTFQXKWOVOMPZOM7WBBR6QMW4W"
	charlieAddr  = "GCHARLXFOGO6MVN6A6WFHYM6L3VFZ5ZFKKIBJ5J6WJIBAGI3MNBQNSPU"
)

var nonceSeq atomic.Int64

type testApp struct {
	server      *httptest.Server
	redis       *miniredis.Miniredis
	ownerSecret string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	// Redis stores
	dedupCache := redisStorage.NewDedupCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)

	// Core services with real implementations
	encSvc, err := service.NewAESEncryptionService("test-passphrase", "test-salt-16byte")
	require.NoError(t, err)
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 24*time.Hour, "test-issuer")

	// In-memory repos
	registryRepo := newInMemoryRegistryRepo()
	balanceRepo := newInMemoryBalanceRepo()
	txRepo := newInMemoryTransactionRepo()
	stateRepo := newInMemoryStateRepo()
	transactor := newInMemoryTransactor()

	// Business services
	log := logger.New("debug", false)
	registrySvc := service.NewRegistryService(registryRepo, encSvc, log)
	ledgerSvc := service.NewLedgerService(registryRepo, balanceRepo, txRepo, stateRepo, dedupCache, transactor, treasuryAddr, log)
	sessionSvc := service.NewSessionService(registryRepo, tokenSvc)

	ownerSecret, err := registrySvc.EnsureOwner(context.Background(), ownerAddr)
	require.NoError(t, err)
	require.NotEmpty(t, ownerSecret)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		RegistrySvc:  registrySvc,
		LedgerSvc:    ledgerSvc,
		SessionSvc:   sessionSvc,
		RegistryRepo: registryRepo,
		EncSvc:       encSvc,
		SigSvc:       sigSvc,
		NonceStore:   nonceStore,
		TokenSvc:     tokenSvc,
		Logger:       log,
	})

	server := httptest.NewServer(router)

	return &testApp{
		server:      server,
		redis:       mr,
		ownerSecret: ownerSecret,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

// --- Helpers ---

// signedDo sends an HMAC-signed request on behalf of account.
func (a *testApp) signedDo(t *testing.T, account, secret, method, path string, body interface{}) *http.Response {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	timestamp := time.Now().Unix()
	nonce := fmt.Sprintf("nonce-%d-%d", nonceSeq.Add(1), time.Now().UnixNano())

	canonical := fmt.Sprintf("%s|%s|%d|%s|%s", method, path, timestamp, nonce, string(raw))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	signature := hex.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequest(method, a.server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderAccount, account)
	req.Header.Set(middleware.HeaderSignature, signature)
	req.Header.Set(middleware.HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	req.Header.Set(middleware.HeaderNonce, nonce)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (a *testApp) jwtGet(t *testing.T, token, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", string(raw))
	return out
}

func dataOf(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "no data object in %v", body)
	return data
}

// registerUser registers an account and returns its plaintext secret.
func registerUser(t *testing.T, app *testApp, account string) string {
	t.Helper()
	raw, _ := json.Marshal(map[string]string{"account": account})
	resp, err := http.Post(app.server.URL+"/api/v1/registry/users", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := dataOf(t, resp)
	return data["secret"].(string)
}

// setupUser registers the account and its zero balances.
func setupUser(t *testing.T, app *testApp, account string) string {
	t.Helper()
	secret := registerUser(t, app, account)
	resp := app.signedDo(t, account, secret, http.MethodPost, "/api/v1/ledger/balances", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	return secret
}

// fundUser pushes amount into account via an owner-approved treasury deposit.
func fundUser(t *testing.T, app *testApp, account string, amount int64, txID string) {
	t.Helper()
	resp := app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/admin/liquidity", map[string]interface{}{
		"asset_type": "USDC",
		"amount":     amount,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/ledger/approve", map[string]interface{}{
		"admin":      ownerAddr,
		"user":       account,
		"asset_type": "USDC",
		"amount":     amount,
		"date":       "2026-08-28",
		"tx_id":      txID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func sessionToken(t *testing.T, app *testApp, account, secret string) string {
	t.Helper()
	resp := app.signedDo(t, account, secret, http.MethodPost, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataOf(t, resp)
	return data["token"].(string)
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_RegisterUser(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	secret := registerUser(t, app, aliceAddr)
	assert.Len(t, secret, 64)

	// Second registration of the same account is rejected.
	raw, _ := json.Marshal(map[string]string{"account": aliceAddr})
	resp, err := http.Post(app.server.URL+"/api/v1/registry/users", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestIntegration_SessionAndBalanceRead(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	secret := setupUser(t, app, aliceAddr)
	token := sessionToken(t, app, aliceAddr, secret)

	resp := app.jwtGet(t, token, "/api/v1/ledger/balances/USDC")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataOf(t, resp)
	assert.Equal(t, float64(0), data["amount"])
	assert.Equal(t, "USDC", data["asset_type"])
}

func TestIntegration_BalanceRead_NotRegistered(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	// Registered account, but no balance entry yet.
	secret := registerUser(t, app, aliceAddr)
	token := sessionToken(t, app, aliceAddr, secret)

	resp := app.jwtGet(t, token, "/api/v1/ledger/balances/USDC")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIntegration_DepositAndTransferFlow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	bravoSecret := setupUser(t, app, bravoAddr)
	fundUser(t, app, aliceAddr, 500_000, "FUND-ALICE-1")

	// Alice pays Bravo.
	resp := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", map[string]interface{}{
		"from":       aliceAddr,
		"to":         bravoAddr,
		"asset_type": "USDC",
		"amount":     int64(200_000),
		"date":       "2026-08-28",
		"tx_id":      "PAY-001",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	aliceToken := sessionToken(t, app, aliceAddr, aliceSecret)
	bravoToken := sessionToken(t, app, bravoAddr, bravoSecret)

	respA := app.jwtGet(t, aliceToken, "/api/v1/ledger/balances/USDC")
	assert.Equal(t, float64(300_000), dataOf(t, respA)["amount"])

	respB := app.jwtGet(t, bravoToken, "/api/v1/ledger/balances/USDC")
	assert.Equal(t, float64(200_000), dataOf(t, respB)["amount"])

	// Histories: alice has the deposit and the transfer, bravo only the transfer.
	respHA := app.jwtGet(t, aliceToken, "/api/v1/ledger/transactions")
	assert.Equal(t, float64(2), dataOf(t, respHA)["total"])

	respHB := app.jwtGet(t, bravoToken, "/api/v1/ledger/transactions")
	dataHB := dataOf(t, respHB)
	assert.Equal(t, float64(1), dataHB["total"])
	items := dataHB["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, "PAY-001", first["tx_id"])
	assert.Equal(t, "TRANSFER", first["transaction_type"])

	// Lookup by tx_id from either side.
	respTx := app.jwtGet(t, bravoToken, "/api/v1/ledger/transactions/PAY-001")
	assert.Equal(t, http.StatusOK, respTx.StatusCode)
	assert.Equal(t, aliceAddr, dataOf(t, respTx)["from"])
}

func TestIntegration_Transfer_InsufficientBalance(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	setupUser(t, app, bravoAddr)
	fundUser(t, app, aliceAddr, 100, "FUND-ALICE-2")

	resp := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", map[string]interface{}{
		"from":       aliceAddr,
		"to":         bravoAddr,
		"asset_type": "USDC",
		"amount":     int64(101),
		"date":       "2026-08-28",
		"tx_id":      "PAY-TOO-BIG",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "LGR_002")
}

func TestIntegration_Transfer_EmptyTxID(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	setupUser(t, app, bravoAddr)
	fundUser(t, app, aliceAddr, 100, "FUND-ALICE-EMPTY")

	resp := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", map[string]interface{}{
		"from":       aliceAddr,
		"to":         bravoAddr,
		"asset_type": "USDC",
		"amount":     int64(10),
		"date":       "2026-08-28",
		"tx_id":      "",
	})
	defer resp.Body.Close()

	// The empty identifier is a ledger rule, not a request-shape failure.
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "LGR_007")
	assert.NotContains(t, string(raw), "VAL_001")
}

func TestIntegration_AdminReadsAnyAccount(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	setupUser(t, app, bravoAddr)
	fundUser(t, app, aliceAddr, 250, "FUND-ALICE-READ")

	// The owner holds no USDC balance of its own but may inspect alice's.
	ownerToken := sessionToken(t, app, ownerAddr, app.ownerSecret)
	resp := app.jwtGet(t, ownerToken, "/api/v1/ledger/balances/USDC?account="+aliceAddr)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataOf(t, resp)
	assert.Equal(t, aliceAddr, data["account"])
	assert.Equal(t, float64(250), data["amount"])

	histResp := app.jwtGet(t, ownerToken, "/api/v1/ledger/transactions?account="+aliceAddr)
	assert.Equal(t, http.StatusOK, histResp.StatusCode)
	assert.Equal(t, float64(1), dataOf(t, histResp)["total"])

	// A regular account cannot turn the same knob on someone else.
	aliceToken := sessionToken(t, app, aliceAddr, aliceSecret)
	denied := app.jwtGet(t, aliceToken, "/api/v1/ledger/balances/USDC?account="+bravoAddr)
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	rawDenied, _ := io.ReadAll(denied.Body)
	denied.Body.Close()
	assert.Contains(t, string(rawDenied), "REG_001")
}

func TestIntegration_Transfer_DuplicateTxID(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	setupUser(t, app, bravoAddr)
	fundUser(t, app, aliceAddr, 1000, "FUND-ALICE-3")

	body := map[string]interface{}{
		"from":       aliceAddr,
		"to":         bravoAddr,
		"asset_type": "USDC",
		"amount":     int64(10),
		"date":       "2026-08-28",
		"tx_id":      "PAY-ONCE",
	}

	resp := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp2 := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", body)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)

	// Exactly one debit happened.
	token := sessionToken(t, app, aliceAddr, aliceSecret)
	respBal := app.jwtGet(t, token, "/api/v1/ledger/balances/USDC")
	assert.Equal(t, float64(990), dataOf(t, respBal)["amount"])
}

func TestIntegration_SelfTransfer_NetsZero(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	fundUser(t, app, aliceAddr, 750, "FUND-ALICE-4")

	resp := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", map[string]interface{}{
		"from":       aliceAddr,
		"to":         aliceAddr,
		"asset_type": "USDC",
		"amount":     int64(300),
		"date":       "2026-08-28",
		"tx_id":      "SELF-001",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	token := sessionToken(t, app, aliceAddr, aliceSecret)
	respBal := app.jwtGet(t, token, "/api/v1/ledger/balances/USDC")
	assert.Equal(t, float64(750), dataOf(t, respBal)["amount"])

	respTx := app.jwtGet(t, token, "/api/v1/ledger/transactions/SELF-001")
	assert.Equal(t, http.StatusOK, respTx.StatusCode)
}

func TestIntegration_Withdraw(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	fundUser(t, app, aliceAddr, 500, "FUND-ALICE-5")

	resp := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/withdraw", map[string]interface{}{
		"user":       aliceAddr,
		"asset_type": "USDC",
		"amount":     int64(200),
		"date":       "2026-08-28",
		"tx_id":      "WD-001",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	token := sessionToken(t, app, aliceAddr, aliceSecret)
	respBal := app.jwtGet(t, token, "/api/v1/ledger/balances/USDC")
	assert.Equal(t, float64(300), dataOf(t, respBal)["amount"])

	// The withdrawal shows up as a transfer to the treasury sink.
	respTx := app.jwtGet(t, token, "/api/v1/ledger/transactions/WD-001")
	data := dataOf(t, respTx)
	assert.Equal(t, "TRANSFER", data["transaction_type"])
	assert.Equal(t, treasuryAddr, data["to"])
}

func TestIntegration_ActingAccountMismatch(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	setupUser(t, app, aliceAddr)
	bravoSecret := setupUser(t, app, bravoAddr)

	// Bravo signs a transfer naming Alice as sender.
	resp := app.signedDo(t, bravoAddr, bravoSecret, http.MethodPost, "/api/v1/ledger/transfer", map[string]interface{}{
		"from":       aliceAddr,
		"to":         bravoAddr,
		"asset_type": "USDC",
		"amount":     int64(10),
		"date":       "2026-08-28",
		"tx_id":      "FORGED-001",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "SEC_005")
}

func TestIntegration_AdminApprove_RequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	setupUser(t, app, aliceAddr)
	bravoSecret := setupUser(t, app, bravoAddr)

	resp := app.signedDo(t, bravoAddr, bravoSecret, http.MethodPost, "/api/v1/ledger/approve", map[string]interface{}{
		"admin":      bravoAddr,
		"user":       aliceAddr,
		"asset_type": "USDC",
		"amount":     int64(100),
		"date":       "2026-08-28",
		"tx_id":      "AP-NOPE",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "REG_001")
}

func TestIntegration_AdminApprove_InsufficientLiquidity(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	setupUser(t, app, aliceAddr)

	// Treasury never funded.
	resp := app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/ledger/approve", map[string]interface{}{
		"admin":      ownerAddr,
		"user":       aliceAddr,
		"asset_type": "USDC",
		"amount":     int64(100),
		"date":       "2026-08-28",
		"tx_id":      "AP-DRY",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "LGR_005")
}

func TestIntegration_PromotedAdminCanApprove(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	setupUser(t, app, aliceAddr)
	bravoSecret := setupUser(t, app, bravoAddr)

	// Owner promotes Bravo.
	resp := app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/registry/admins", map[string]interface{}{
		"admin": bravoAddr,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/admin/liquidity", map[string]interface{}{
		"asset_type": "USDC",
		"amount":     int64(1000),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Bravo approves a deposit to Alice.
	resp = app.signedDo(t, bravoAddr, bravoSecret, http.MethodPost, "/api/v1/ledger/approve", map[string]interface{}{
		"admin":      bravoAddr,
		"user":       aliceAddr,
		"asset_type": "USDC",
		"amount":     int64(400),
		"date":       "2026-08-28",
		"tx_id":      "AP-BRAVO-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(400), dataOf(t, resp)["amount"])
}

func TestIntegration_PauseBlocksWrites(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)
	setupUser(t, app, bravoAddr)
	fundUser(t, app, aliceAddr, 500, "FUND-ALICE-6")

	resp := app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/admin/pause", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Writes are rejected while paused.
	resp = app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", map[string]interface{}{
		"from":       aliceAddr,
		"to":         bravoAddr,
		"asset_type": "USDC",
		"amount":     int64(10),
		"date":       "2026-08-28",
		"tx_id":      "PAY-PAUSED",
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "LGR_004")

	// Reads still work.
	token := sessionToken(t, app, aliceAddr, aliceSecret)
	respBal := app.jwtGet(t, token, "/api/v1/ledger/balances/USDC")
	assert.Equal(t, http.StatusOK, respBal.StatusCode)
	respBal.Body.Close()

	// Restocking the fund stays possible while paused.
	resp = app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/admin/liquidity", map[string]interface{}{
		"asset_type": "USDC",
		"amount":     int64(100),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Resume and retry.
	resp = app.signedDo(t, ownerAddr, app.ownerSecret, http.MethodPost, "/api/v1/admin/resume", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/ledger/transfer", map[string]interface{}{
		"from":       aliceAddr,
		"to":         bravoAddr,
		"asset_type": "USDC",
		"amount":     int64(10),
		"date":       "2026-08-28",
		"tx_id":      "PAY-RESUMED",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_Pause_NotOwner(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	aliceSecret := setupUser(t, app, aliceAddr)

	resp := app.signedDo(t, aliceAddr, aliceSecret, http.MethodPost, "/api/v1/admin/pause", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIntegration_EmptyHistory(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	secret := setupUser(t, app, aliceAddr)
	token := sessionToken(t, app, aliceAddr, secret)

	resp := app.jwtGet(t, token, "/api/v1/ledger/transactions")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), dataOf(t, resp)["total"])
}

func TestIntegration_HMAC_MissingHeaders(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Post(app.server.URL+"/api/v1/ledger/transfer", "application/json", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_HMAC_WrongSecret(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	setupUser(t, app, aliceAddr)

	// Sign with a wrong secret.
	resp := app.signedDo(t, aliceAddr, "not-the-secret", http.MethodPost, "/api/v1/ledger/balances", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "SEC_002")
}

func TestIntegration_JWT_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/ledger/transactions", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
