package e2e

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bobPhone = "+15550003333"

func TestOTPLoginFlow(t *testing.T) {
	s := NewTestServer(t)
	s.Register(t, "bob", "b@x.com", "s3cret!", bobPhone)

	resp := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone_number": bobPhone})
	require.Equal(t, http.StatusOK, resp.Status, resp.Body)
	assert.Equal(t, true, resp.Body["ok"])

	msgs := s.SMS.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Bearer gateway-key", msgs[0].Auth)
	assert.Equal(t, "foodauth", msgs[0].From)

	ttl := s.Redis.TTL("otp:" + bobPhone)
	assert.True(t, ttl > 0 && ttl <= 5*time.Minute, "ttl %s", ttl)

	code := s.SMS.LastCode(bobPhone)
	require.Len(t, code, 6)

	resp = s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": bobPhone, "otp": code})
	require.Equal(t, http.StatusOK, resp.Status, resp.Body)
	token, _ := resp.Data()["access_token"].(string)
	require.NotEmpty(t, token)

	// the token is bound to the phone and still resolves to bob
	resp = s.Do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "bob", resp.Data()["username"])

	// codes are single use
	resp = s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": bobPhone, "otp": code})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.False(t, s.Redis.Exists("otp:"+bobPhone))
}

func TestOTPExpiry(t *testing.T) {
	s := NewTestServer(t)
	s.Register(t, "bob", "b@x.com", "s3cret!", bobPhone)

	resp := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone_number": bobPhone})
	require.Equal(t, http.StatusOK, resp.Status)
	code := s.SMS.LastCode(bobPhone)

	s.Redis.FastForward(6 * time.Minute)

	resp = s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": bobPhone, "otp": code})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestOTPUnknownPhone(t *testing.T) {
	s := NewTestServer(t)

	resp := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone_number": "+15559990000"})
	require.Equal(t, http.StatusOK, resp.Status)
	code := s.SMS.LastCode("+15559990000")

	resp = s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": "+15559990000", "otp": code})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestOTPInvalidPhone(t *testing.T) {
	s := NewTestServer(t)
	resp := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone_number": "call me"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Empty(t, s.SMS.Messages())
}

func TestOTPDeliveryFailureIsLenientByDefault(t *testing.T) {
	s := NewTestServer(t)
	s.SMS.Fail(true)

	resp := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone_number": bobPhone})
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, s.Redis.Exists("otp:"+bobPhone))
}
