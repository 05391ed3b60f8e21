package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"backend/config"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a pooled second connection would see its own empty :memory: db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db

	// no Gemini key: the insight path must run entirely on the fallback
	return SetupRouter(&config.Settings{
		Port:        "8080",
		GeminiModel: "gemini-1.5-flash",
		Currency:    "Indian Rupees (INR)",
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	rr := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": "hunter22", "full_name": "Test User",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": "hunter22",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("login response %s: %v", rr.Body.String(), err)
	}
	return out.Token
}

func createDevice(t *testing.T, r *gin.Engine, token string) uint {
	t.Helper()
	rr := doJSON(t, r, http.MethodPost, "/devices", token, gin.H{
		"name": "Ceiling Fan", "category": "electric", "rating": 1.5, "unit": "kW",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create device: %d %s", rr.Code, rr.Body.String())
	}
	var dev struct {
		ID uint `json:"ID"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &dev); err != nil || dev.ID == 0 {
		t.Fatalf("device response %s: %v", rr.Body.String(), err)
	}
	return dev.ID
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := setupTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/devices"},
		{http.MethodGet, "/insights"},
		{http.MethodGet, "/user/profile"},
		{http.MethodPost, "/chat"},
	} {
		rr := doJSON(t, r, route.method, route.path, "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", route.method, route.path, rr.Code)
		}
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := setupTestRouter(t)
	registerAndLogin(t, r, "dup@example.com")

	rr := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": "dup@example.com", "password": "other", "full_name": "Other",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("duplicate register = %d, want 400", rr.Code)
	}
}

func TestUsageEndpoints(t *testing.T) {
	r := setupTestRouter(t)
	token := registerAndLogin(t, r, "usage@example.com")
	deviceID := createDevice(t, r, token)

	// PUT today's usage -> 200
	rr := doJSON(t, r, http.MethodPut, fmt.Sprintf("/devices/%d/usage", deviceID), token, gin.H{"hours_used": 4.0})
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT usage: %d %s", rr.Code, rr.Body.String())
	}

	// POST explicit date -> 201
	rr = doJSON(t, r, http.MethodPost, fmt.Sprintf("/devices/%d/usage", deviceID), token, gin.H{
		"date": "2026-08-20", "hours_used": 2.5,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST usage: %d %s", rr.Code, rr.Body.String())
	}

	// invalid payloads -> 400, no write
	rr = doJSON(t, r, http.MethodPut, fmt.Sprintf("/devices/%d/usage", deviceID), token, gin.H{"hours_used": -3.0})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("negative hours = %d, want 400", rr.Code)
	}
	rr = doJSON(t, r, http.MethodPost, fmt.Sprintf("/devices/%d/usage", deviceID), token, gin.H{
		"date": "20/08/2026", "hours_used": 1.0,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed date = %d, want 400", rr.Code)
	}

	// unknown device id -> 404
	rr = doJSON(t, r, http.MethodPut, "/devices/9999/usage", token, gin.H{"hours_used": 1.0})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown device = %d, want 404", rr.Code)
	}

	// dense 7-day map
	rr = doJSON(t, r, http.MethodGet, fmt.Sprintf("/devices/%d/usage", deviceID), token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET usage: %d %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Usage []struct {
			Date  string  `json:"date"`
			Hours float64 `json:"hours"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Usage) != 7 {
		t.Errorf("usage map has %d days, want 7", len(out.Usage))
	}
}

func TestOwnershipHidesForeignDevices(t *testing.T) {
	r := setupTestRouter(t)
	ownerToken := registerAndLogin(t, r, "owner@example.com")
	intruderToken := registerAndLogin(t, r, "intruder@example.com")
	deviceID := createDevice(t, r, ownerToken)

	rr := doJSON(t, r, http.MethodPut, fmt.Sprintf("/devices/%d/usage", deviceID), intruderToken, gin.H{"hours_used": 1.0})
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign device write = %d, want 404", rr.Code)
	}

	rr = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/devices/%d", deviceID), intruderToken, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign device delete = %d, want 404", rr.Code)
	}
}

func TestInsightsEndpointFallsBack(t *testing.T) {
	r := setupTestRouter(t)
	token := registerAndLogin(t, r, "insights@example.com")
	deviceID := createDevice(t, r, token)

	rr := doJSON(t, r, http.MethodPut, fmt.Sprintf("/devices/%d/usage", deviceID), token, gin.H{"hours_used": 4.0})
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT usage: %d", rr.Code)
	}

	rr = doJSON(t, r, http.MethodGet, "/insights", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET insights: %d %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Success  bool   `json:"success"`
		Insights string `json:"insights"`
		Source   string `json:"source"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Source != "fallback" || out.Insights == "" {
		t.Errorf("insights = %+v, want success with non-empty fallback report", out)
	}
}

func TestChatEndpointWithoutBackend(t *testing.T) {
	r := setupTestRouter(t)
	token := registerAndLogin(t, r, "chat@example.com")

	rr := doJSON(t, r, http.MethodPost, "/chat", token, gin.H{"message": "help me save power"})
	if rr.Code != http.StatusOK {
		t.Fatalf("chat: %d %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil || out.Response == "" {
		t.Errorf("chat response %s: %v", rr.Body.String(), err)
	}

	rr = doJSON(t, r, http.MethodPost, "/chat", token, gin.H{"message": ""})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty message = %d, want 400", rr.Code)
	}
}
