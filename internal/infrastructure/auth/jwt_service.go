package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/you/foodauth/domain"
)

// accessClaims is the signed payload. sub_kind is absent on tokens minted
// before phone logins existed; those subjects are usernames.
type accessClaims struct {
	SubjectKind string `json:"sub_kind,omitempty"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService with HS256 tokens
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

type JWTOption func(*JWTServiceImpl)

// WithClock replaces time.Now for issuing and validating
func WithClock(now func() time.Time) JWTOption {
	return func(j *JWTServiceImpl) { j.now = now }
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, accessTTL time.Duration, opts ...JWTOption) domain.TokenService {
	j := &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		accessTTL: accessTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// DefaultTTL implements domain.TokenService
func (j *JWTServiceImpl) DefaultTTL() time.Duration {
	return j.accessTTL
}

// Issue implements domain.TokenService. A zero ttl means the default; a
// negative one yields an already expired token.
func (j *JWTServiceImpl) Issue(subject domain.Subject, ttl time.Duration) (string, error) {
	if subject.Value == "" {
		return "", errors.New("token subject is empty")
	}
	if ttl == 0 {
		ttl = j.accessTTL
	}

	now := j.now()
	claims := accessClaims{
		SubjectKind: string(subject.Kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.Value,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Verify implements domain.TokenService
func (j *JWTServiceImpl) Verify(tokenString string) (*domain.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	kind := domain.SubjectKind(claims.SubjectKind)
	switch kind {
	case domain.SubjectUsername, domain.SubjectPhone:
	case "":
		kind = domain.SubjectUsername
	default:
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		Subject: domain.Subject{Kind: kind, Value: claims.Subject},
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	out.ExpiresAt = claims.ExpiresAt.Time
	return out, nil
}
