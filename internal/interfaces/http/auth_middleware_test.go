package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-pyme/internal/application/tenancy"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	apphttp "github.com/jhoicas/gestion-pyme/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/gestion-pyme/pkg/jwt"
	"github.com/jhoicas/gestion-pyme/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "gestion-pyme-test"
	testExpMin    = 60
)

// withScope simula TenantMiddleware: deja un scope fijo con el rol indicado ("" = sin empresa).
func withScope(role entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := tenancy.Scope{Principal: apphttp.GetPrincipal(c)}
		if role != "" {
			scope.Company = &entity.Company{ID: testCompanyID, Name: "Acme", Active: true}
			scope.Membership = &entity.Membership{UserID: testUserID, CompanyID: testCompanyID, Role: role, Active: true}
		}
		c.Locals(apphttp.LocalScope, scope)
		return c.Next()
	}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar el principal
//   - un scope fijo con el rol de la membresía
//   - RequireRole para autorizar el acceso
func buildTestApp(memberRole entity.Role, allowedRoles ...entity.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		withScope(memberRole),
		apphttp.RequireCompany(),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

func bearer(t *testing.T, superAdmin bool) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, superAdmin, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole / RequireCompany
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", bearer(t, false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_PermisoIncluyeVariosRoles(t *testing.T) {
	app := buildTestApp(entity.RoleOperator, entity.RolesWith(entity.PermWrite)...)
	resp := doRequest(t, app, "/protected", bearer(t, false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "operator puede escribir")
}

func TestRequireRole_ViewerBloqueadoEnEscritura(t *testing.T) {
	app := buildTestApp(entity.RoleViewer, entity.RolesWith(entity.PermWrite)...)
	resp := doRequest(t, app, "/protected", bearer(t, false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_OperatorNoAprueba(t *testing.T) {
	app := buildTestApp(entity.RoleOperator, entity.RolesWith(entity.PermApprove)...)
	resp := doRequest(t, app, "/protected", bearer(t, false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireCompany_SinEmpresa(t *testing.T) {
	app := buildTestApp("", entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", bearer(t, false))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NO_COMPANY")
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_FirmaDeOtroSecreto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", testUserID, false, testIssuer, testExpMin)
	require.NoError(t, err)
	app := buildTestApp(entity.RoleAdmin, entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		p := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{
			"user_id":     apphttp.GetUserID(c),
			"super_admin": p.SuperAdmin,
			"company_id":  apphttp.GetCompanyID(c),
		})
	})

	resp := doRequest(t, app, "/me", bearer(t, true))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, true, body["super_admin"])
	assert.Equal(t, "", body["company_id"], "la empresa no viaja en el token")
}

func TestRequireSuperAdmin(t *testing.T) {
	app := fiber.New()
	app.Get("/admin/x", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireSuperAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp := doRequest(t, app, "/admin/x", bearer(t, false))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "/admin/x", bearer(t, true))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, false, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.False(t, claims.SuperAdmin)
	assert.Equal(t, testIssuer, claims.Issuer)
}
