package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const testSecret = "test-secret-key-for-unit-tests"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func assertInvalidToken(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.KindUnauthenticated, de.Kind)
	assert.Equal(t, MsgInvalidToken, de.Message)
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		role := role
		t.Run(string(role), func(t *testing.T) {
			t.Parallel()

			codec := NewCodec(testSecret, 30*time.Minute)
			token, issued, err := codec.Issue("u1", "u1@example.com", role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			assert.True(t, issued.ExpiresAt.After(issued.IssuedAt))
			assert.Equal(t, 30*time.Minute, issued.ExpiresAt.Sub(issued.IssuedAt))

			verified, err := codec.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, issued, verified)
		})
	}
}

func TestCodecPayloadShape(t *testing.T) {
	t.Parallel()

	codec := NewCodec(testSecret, time.Hour)
	token, _, err := codec.Issue("u1", "u1@example.com", domain.RoleUser)
	require.NoError(t, err)

	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Method.Alg())

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "u1", claims["id"])
	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, "u1@example.com", claims["email"])
	assert.Equal(t, "USER", claims["role"])
}

func TestCodecRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewCodec("other-secret", time.Hour).Issue("u1", "u1@example.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewCodec(testSecret, time.Hour).Verify(token)
	assertInvalidToken(t, err)
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewCodec(testSecret, time.Minute, WithClock(fixedClock(issuedAt)))
	token, _, err := issuer.Issue("u1", "u1@example.com", domain.RoleUser)
	require.NoError(t, err)

	later := NewCodec(testSecret, time.Minute, WithClock(fixedClock(issuedAt.Add(2*time.Minute))))
	_, err = later.Verify(token)
	assertInvalidToken(t, err)

	// An expired token and a forged one are indistinguishable to the caller.
	_, forgedErr := NewCodec("forged", time.Minute).Verify(token)
	assert.Equal(t, apperrors.ToDomainError(forgedErr).Message, apperrors.ToDomainError(err).Message)
}

func TestCodecRejectsMalformedTokens(t *testing.T) {
	t.Parallel()

	codec := NewCodec(testSecret, time.Hour)
	valid, _, err := codec.Issue("u1", "u1@example.com", domain.RoleUser)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id": "u1", "role": "ADMIN", "iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id": "u1", "role": "ADMIN", "iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"tampered":       parts[0] + "." + parts[1] + "x." + parts[2],
		"bad signature":  parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2])),
		"alg none":       noneToken,
		"other hmac alg": hs512,
	}
	for name, token := range cases {
		token := token
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := codec.Verify(token)
			assertInvalidToken(t, err)
		})
	}
}

func TestCodecRejectsUnknownRoleAndMissingSubject(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}
	codec := NewCodec(testSecret, time.Hour)

	_, err := codec.Verify(sign(jwt.MapClaims{"id": "u1", "role": "ROOT", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix()}))
	assertInvalidToken(t, err)

	_, err = codec.Verify(sign(jwt.MapClaims{"role": "USER", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix()}))
	assertInvalidToken(t, err)

	_, err = codec.Verify(sign(jwt.MapClaims{"id": "u1", "role": "USER", "iat": now.Unix()}))
	assertInvalidToken(t, err)
}

func TestCodecIssueWithoutSecret(t *testing.T) {
	t.Parallel()

	_, _, err := NewCodec("", time.Hour).Issue("u1", "u1@example.com", domain.RoleUser)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInternal))

	_, err = NewCodec("", time.Hour).Verify("anything")
	assertInvalidToken(t, err)
}

func TestNewCodecDefaultsTTL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, time.Hour, NewCodec(testSecret, 0).TTL())
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("testPassword123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "testPassword123", hash)
	assert.True(t, PasswordMatches(hash, "testPassword123"))
	assert.False(t, PasswordMatches(hash, "wrongPassword"))
	assert.False(t, PasswordMatches("not-a-bcrypt-hash", "testPassword123"))
}
