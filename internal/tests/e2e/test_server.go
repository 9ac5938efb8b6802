// Package e2e boots the whole service against SQLite and miniredis and
// drives it over HTTP.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/internal/app"
	"github.com/you/foodauth/internal/config"
	"github.com/you/foodauth/internal/logging"
)

// TestServer wraps the HTTP test server with E2E testing capabilities
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	Redis     *miniredis.Miniredis
	SMS       *SMSGateway
	Client    *http.Client
}

// NewTestServer builds a fresh service with its own database, Redis and
// SMS gateway. Everything is torn down with t.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	sms := NewSMSGateway(t)

	cfg := &config.Config{
		Port:          "0",
		GinMode:       gin.TestMode,
		DBDriver:      config.DriverSQLite,
		DSN:           fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		RedisAddr:     mr.Addr(),
		JWTSecret:     "e2e-secret-0123456789",
		JWTIssuer:     "foodauth",
		AccessTTL:     time.Hour,
		OTP_TTL:       5 * time.Minute,
		OTP_Length:    6,
		OTP_Store:     config.StoreRedis,
		SMSProvider:   config.SMSHTTP,
		SMSGatewayURL: sms.URL(),
		SMSAPIKey:     "gateway-key",
		SMSSenderID:   "foodauth",
		SMSTimeout:    5 * time.Second,
		BcryptCost:    4,
		LogLevel:      "error",
		LogFormat:     "json",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	c, err := app.NewContainer(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("failed to build container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	router, err := c.Router()
	if err != nil {
		t.Fatalf("failed to build router: %v", err)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:    server,
		Container: c,
		Redis:     mr,
		SMS:       sms,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Response is a decoded JSON reply
type Response struct {
	Status int
	Body   map[string]interface{}
}

// Data returns body["data"] as an object
func (r *Response) Data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

// Do sends a JSON request. token may be empty.
func (s *TestServer) Do(t *testing.T, method, path, token string, body interface{}) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := &Response{Status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out.Body); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, raw, err)
		}
	}
	return out
}
