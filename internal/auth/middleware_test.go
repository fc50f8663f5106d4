package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

func newTestApp(codec *Codec) (*fiber.App, *int) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status, body := apperrors.Render(err, false)
			return c.Status(status).JSON(body)
		},
	})
	reached := 0
	ok := func(c *fiber.Ctx) error {
		reached++
		identity, _ := IdentityFromContext(c)
		return c.JSON(fiber.Map{"success": true, "subject": identity.SubjectID})
	}
	gate := NewIdentityGate(codec)

	app.Get("/any", gate.Handle, RequireRole(), ok)
	app.Get("/admin", gate.Handle, RequireRole(domain.RoleAdmin), ok)
	app.Delete("/users/:id", gate.Handle, RequireRole(domain.RoleUser, domain.RoleAdmin), RequireSelf("id", "delete"), ok)
	app.Get("/misordered", RequireRole(), ok)
	app.Get("/misordered-self/:id", RequireSelf("id", "update"), ok)
	return app, &reached
}

func doRequest(t *testing.T, app *fiber.App, method, target, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func issue(t *testing.T, codec *Codec, id string, role domain.Role) string {
	t.Helper()
	token, _, err := codec.Issue(id, id+"@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestIdentityGate(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)
	foreign := NewCodec("another-secret", time.Hour)
	expired := NewCodec(testSecret, time.Minute, WithClock(fixedClock(time.Now().Add(-time.Hour))))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantError: MsgNoToken},
		{name: "missing scheme", header: issue(t, codec, "u1", domain.RoleUser)[len("Bearer "):], wantStatus: http.StatusUnauthorized, wantError: MsgNoToken},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantError: MsgNoToken},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized, wantError: MsgInvalidToken},
		{name: "foreign secret", header: issue(t, foreign, "u1", domain.RoleUser), wantStatus: http.StatusUnauthorized, wantError: MsgInvalidToken},
		{name: "expired", header: issue(t, expired, "u1", domain.RoleUser), wantStatus: http.StatusUnauthorized, wantError: MsgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, reached := newTestApp(codec)
			status, body := doRequest(t, app, http.MethodGet, "/any", tt.header)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.Zero(t, *reached, "downstream handler must not run")
		})
	}

	t.Run("valid token attaches identity", func(t *testing.T) {
		app, reached := newTestApp(codec)
		status, body := doRequest(t, app, http.MethodGet, "/any", issue(t, codec, "u1", domain.RoleUser))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "u1", body["subject"])
		assert.Equal(t, 1, *reached)
	})
}

func TestRequireRole(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	t.Run("user denied admin route", func(t *testing.T) {
		app, reached := newTestApp(codec)
		status, body := doRequest(t, app, http.MethodGet, "/admin", issue(t, codec, "u1", domain.RoleUser))
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, apperrors.MsgForbidden, body["error"])
		assert.Zero(t, *reached)
	})

	t.Run("admin allowed", func(t *testing.T) {
		app, _ := newTestApp(codec)
		status, _ := doRequest(t, app, http.MethodGet, "/admin", issue(t, codec, "a1", domain.RoleAdmin))
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("gate without identity", func(t *testing.T) {
		app, reached := newTestApp(codec)
		status, body := doRequest(t, app, http.MethodGet, "/misordered", issue(t, codec, "u1", domain.RoleUser))
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, MsgNoIdentity, body["error"])
		assert.Zero(t, *reached)
	})
}

func TestRequireSelf(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	t.Run("other subject forbidden", func(t *testing.T) {
		app, reached := newTestApp(codec)
		status, body := doRequest(t, app, http.MethodDelete, "/users/u2", issue(t, codec, "u1", domain.RoleUser))
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "You are not authorized to delete this user", body["error"])
		assert.Zero(t, *reached)
	})

	t.Run("admin role does not bypass ownership", func(t *testing.T) {
		app, _ := newTestApp(codec)
		status, _ := doRequest(t, app, http.MethodDelete, "/users/u2", issue(t, codec, "a1", domain.RoleAdmin))
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("own record passes", func(t *testing.T) {
		app, reached := newTestApp(codec)
		status, _ := doRequest(t, app, http.MethodDelete, "/users/u1", issue(t, codec, "u1", domain.RoleUser))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 1, *reached)
	})

	t.Run("gate without identity", func(t *testing.T) {
		app, _ := newTestApp(codec)
		status, body := doRequest(t, app, http.MethodGet, "/misordered-self/u1", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, MsgNoIdentity, body["error"])
	})
}

func TestIdentityHasRole(t *testing.T) {
	identity := &Identity{Claims: Claims{SubjectID: "u1", Role: domain.RoleUser}}
	assert.True(t, identity.HasRole(domain.RoleAdmin, domain.RoleUser))
	assert.False(t, identity.HasRole(domain.RoleAdmin))
	assert.False(t, identity.HasRole())
}
