package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const defaultTokenTTL = time.Hour

// MsgInvalidToken is returned for every verification failure, expiry included.
const MsgInvalidToken = "Token is not valid"

var errMissingSecret = errors.New("token signing secret is not configured")

// tokenClaims is the JWT payload.
type tokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 bearer tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customizes a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec builds a codec for the given secret and token lifetime.
func NewCodec(secret string, ttl time.Duration, opts ...CodecOption) *Codec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	c := &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the lifetime of issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the subject and returns it with the claims it carries.
func (c *Codec) Issue(subjectID, email string, role domain.Role) (string, Claims, error) {
	if len(c.secret) == 0 {
		return "", Claims{}, apperrors.NewInternalError(errMissingSecret)
	}

	issuedAt := c.now().UTC().Truncate(time.Second)
	claims := Claims{
		SubjectID: subjectID,
		Email:     email,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(c.ttl),
	}

	payload := &tokenClaims{
		ID:    subjectID,
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, apperrors.NewInternalError(err)
	}
	return signed, claims, nil
}

// Verify checks the signature and validity window of a token and decodes its claims.
func (c *Codec) Verify(token string) (Claims, error) {
	if token == "" || len(c.secret) == 0 {
		return Claims{}, apperrors.NewUnauthorized(MsgInvalidToken)
	}

	payload := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, payload, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, apperrors.NewUnauthorized(MsgInvalidToken)
	}

	role, ok := domain.ParseRole(payload.Role)
	if !ok || payload.ID == "" || payload.IssuedAt == nil {
		return Claims{}, apperrors.NewUnauthorized(MsgInvalidToken)
	}

	return Claims{
		SubjectID: payload.ID,
		Email:     payload.Email,
		Role:      role,
		IssuedAt:  payload.IssuedAt.Time.UTC(),
		ExpiresAt: payload.ExpiresAt.Time.UTC(),
	}, nil
}
