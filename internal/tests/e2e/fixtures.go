package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/you/foodauth/internal/app"
)

// SMSGateway is a fake HTTP SMS provider that records every message
type SMSGateway struct {
	server *httptest.Server

	mu       sync.Mutex
	messages []GatewayMessage
	fail     bool
}

type GatewayMessage struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
	Auth    string `json:"-"`
}

func NewSMSGateway(t *testing.T) *SMSGateway {
	t.Helper()
	g := &SMSGateway{}
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.server.Close)
	return g
}

func (g *SMSGateway) URL() string { return g.server.URL + "/messages" }

// Fail makes the gateway answer 503
func (g *SMSGateway) Fail(fail bool) {
	g.mu.Lock()
	g.fail = fail
	g.mu.Unlock()
}

func (g *SMSGateway) handle(w http.ResponseWriter, r *http.Request) {
	var msg GatewayMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg.Auth = r.Header.Get("Authorization")

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	g.messages = append(g.messages, msg)
	w.WriteHeader(http.StatusAccepted)
}

// Messages returns a copy of what was delivered
func (g *SMSGateway) Messages() []GatewayMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GatewayMessage(nil), g.messages...)
}

var codePattern = regexp.MustCompile(`Your OTP is ([0-9]+)\.`)

// LastCode extracts the code from the latest message sent to phone
func (g *SMSGateway) LastCode(phone string) string {
	msgs := g.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].To != phone {
			continue
		}
		if m := codePattern.FindStringSubmatch(msgs[i].Message); m != nil {
			return m[1]
		}
	}
	return ""
}

// Register creates a user through the API and fails the test otherwise
func (s *TestServer) Register(t *testing.T, username, email, password, phone string) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{"username": username, "email": email, "password": password}
	if phone != "" {
		body["phone_number"] = phone
	}
	resp := s.Do(t, http.MethodPost, "/auth/register", "", body)
	if resp.Status != http.StatusOK {
		t.Fatalf("register %s: status %d body %v", username, resp.Status, resp.Body)
	}
	return resp.Data()
}

// Login returns an access token for username
func (s *TestServer) Login(t *testing.T, username, password string) string {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	if resp.Status != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", username, resp.Status, resp.Body)
	}
	token, _ := resp.Data()["access_token"].(string)
	return token
}

// CreateAdmin bootstraps an administrator the way authctl does and logs in
func (s *TestServer) CreateAdmin(t *testing.T) string {
	t.Helper()
	_, _, err := app.EnsureAdmin(context.Background(), s.Container.UserRepo, s.Container.PasswordSvc, app.AdminAccount{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return s.Login(t, "admin", "admin123")
}
