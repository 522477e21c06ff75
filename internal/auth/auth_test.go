package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/repository"
	apperrors "github.com/scentwork/partner-console/pkg/util"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	token, expiresAt, err := tm.GenerateToken("amb_1", domain.RoleAmbassador)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "amb_1", claims.SubjectID)
	assert.Equal(t, domain.RoleAmbassador, claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.GenerateToken("admin_1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("other", 1).ParseToken(token)
	assert.Error(t, err)

	expired := NewTokenManager("secret", 1)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ParseToken(token)
	assert.Error(t, err)

	_, _, err = tm.GenerateToken("x", "OWNER")
	assert.Error(t, err)
	_, _, err = tm.GenerateToken("", domain.RoleAdmin)
	assert.Error(t, err)
}

func newTestApp(t *testing.T) (*fiber.App, *TokenManager) {
	t.Helper()
	ambassadors := repository.NewAmbassadorRepository()
	require.NoError(t, ambassadors.Create(context.Background(), &domain.Ambassador{ID: "amb_1", Name: "Sarah"}))
	tokens := NewTokenManager("secret", 5)

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).SendString(de.Code)
	}})
	mw := NewAuthMiddleware(tokens, ambassadors)
	app.Get("/ambassadors/:id", mw.Handle, RequireSelfOrAdmin("id"), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(string(principal.Role))
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, tokens
}

func doGet(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware_Access(t *testing.T) {
	app, tokens := newTestApp(t)
	ambToken, _, err := tokens.GenerateToken("amb_1", domain.RoleAmbassador)
	require.NoError(t, err)
	adminToken, _, err := tokens.GenerateToken("admin_1", domain.RoleAdmin)
	require.NoError(t, err)
	ghostToken, _, err := tokens.GenerateToken("ghost", domain.RoleAmbassador)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, doGet(t, app, "/ambassadors/amb_1", ""))
	assert.Equal(t, fiber.StatusUnauthorized, doGet(t, app, "/ambassadors/amb_1", "garbage"))
	assert.Equal(t, fiber.StatusUnauthorized, doGet(t, app, "/ambassadors/ghost", ghostToken))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/ambassadors/amb_1", ambToken))
	assert.Equal(t, fiber.StatusForbidden, doGet(t, app, "/ambassadors/amb_2", ambToken))
	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/ambassadors/amb_2", adminToken))
	assert.Equal(t, fiber.StatusForbidden, doGet(t, app, "/admin", ambToken))
	assert.Equal(t, fiber.StatusNoContent, doGet(t, app, "/admin", adminToken))
}
