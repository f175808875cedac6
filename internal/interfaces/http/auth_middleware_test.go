package http_test

import (
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	apphttp "github.com/dquispe/tienda-pos/internal/interfaces/http"
	"github.com/dquispe/tienda-pos/pkg/jwt"
)

const (
	testJWTSecret = "secreto-de-prueba"
	testUserID    = "user-1"
	testStoreID   = "store-1"
)

// buildTestApp arma una app mínima con una ruta protegida que devuelve los
// Locals que el middleware extrajo, y una ruta solo para ADMIN.
func buildTestApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("", apphttp.AuthMiddleware(testJWTSecret))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"store_id": apphttp.GetStoreID(c),
			"role":     apphttp.GetRole(c),
		})
	})
	protected.Get("/solo-admin", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testJWTSecret, testUserID, testStoreID, role, "tienda-pos", 5)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, bearer string) *nethttp.Response {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_SinTokenRechaza(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/whoami", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalidoRechaza(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/whoami", "no-es-un-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaAjenaRechaza(t *testing.T) {
	app := buildTestApp()
	token, err := jwt.Generate("otro-secreto", testUserID, testStoreID, entity.RoleAdmin, "tienda-pos", 5)
	require.NoError(t, err)
	resp := doRequest(t, app, "/whoami", token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenValidoPropagaLocals(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/whoami", tokenForRole(t, entity.RoleVendedor))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), testUserID)
	assert.Contains(t, string(body), testStoreID)
	assert.Contains(t, string(body), entity.RoleVendedor)
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/solo-admin", tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorNoAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/solo-admin", tokenForRole(t, entity.RoleVendedor))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
