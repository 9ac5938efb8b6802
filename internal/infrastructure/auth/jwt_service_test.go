package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/foodauth/domain"
)

func TestJWTService_RoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("test-secret", "foodauth", time.Hour, WithClock(func() time.Time { return now }))

	tok, err := svc.Issue(domain.Subject{Kind: domain.SubjectUsername, Value: "alice"}, 0)
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectUsername, claims.Subject.Kind)
	assert.Equal(t, "alice", claims.Subject.Value)
	assert.True(t, now.Add(time.Hour).Equal(claims.ExpiresAt))
	assert.True(t, now.Equal(claims.IssuedAt))
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_PhoneSubject(t *testing.T) {
	svc := NewJWTService("test-secret", "foodauth", time.Hour)

	tok, err := svc.Issue(domain.Subject{Kind: domain.SubjectPhone, Value: "+15550001111"}, time.Minute)
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.Subject{Kind: domain.SubjectPhone, Value: "+15550001111"}, claims.Subject)
}

func TestJWTService_UniqueIDs(t *testing.T) {
	svc := NewJWTService("test-secret", "foodauth", time.Hour)
	sub := domain.Subject{Kind: domain.SubjectUsername, Value: "alice"}

	a, err := svc.Issue(sub, 0)
	require.NoError(t, err)
	b, err := svc.Issue(sub, 0)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "foodauth", time.Hour)

	tok, err := svc.Issue(domain.Subject{Kind: domain.SubjectUsername, Value: "alice"}, -time.Second)
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_ExpiresWithClock(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	svc := NewJWTService("test-secret", "", time.Minute, WithClock(func() time.Time { return clock() }))

	tok, err := svc.Issue(domain.Subject{Kind: domain.SubjectUsername, Value: "bob"}, 0)
	require.NoError(t, err)

	clock = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_Invalid(t *testing.T) {
	svc := NewJWTService("test-secret", "foodauth", time.Hour)
	other := NewJWTService("other-secret", "foodauth", time.Hour)
	sub := domain.Subject{Kind: domain.SubjectUsername, Value: "alice"}

	foreign, err := other.Issue(sub, 0)
	require.NoError(t, err)

	good, err := svc.Issue(sub, 0)
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	wrongIssuer, err := NewJWTService("test-secret", "someone-else", time.Hour).Issue(sub, 0)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "alice",
		"iss": "foodauth",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	otherAlg, err := hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "iss": "foodauth"})
	withoutExp, err := noExp.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badKind := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "alice",
		"sub_kind": "email",
		"iss":      "foodauth",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	withBadKind, err := badKind.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong key", foreign},
		{"tampered signature", tampered},
		{"wrong issuer", wrongIssuer},
		{"alg none", unsigned},
		{"hs512", otherAlg},
		{"missing exp", withoutExp},
		{"unknown subject kind", withBadKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestJWTService_LegacySubjectDefaultsToUsername(t *testing.T) {
	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok, err := legacy.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := NewJWTService("test-secret", "", time.Hour).Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectUsername, claims.Subject.Kind)
}

func TestJWTService_EmptySubject(t *testing.T) {
	_, err := NewJWTService("s", "", time.Hour).Issue(domain.Subject{}, 0)
	assert.Error(t, err)
}
