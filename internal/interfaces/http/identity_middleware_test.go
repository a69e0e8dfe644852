package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/tenant"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testEmail     = "asociacion@example.com"
	testName      = "Asociación de Prueba"
	testIssuer    = "almacen-api-test"
	testExpMin    = 60
)

// memTenantRepo stub mínimo para observar la creación perezosa.
type memTenantRepo struct {
	tenants map[string]*entity.Tenant
}

func (r *memTenantRepo) GetByEmail(_ context.Context, email string) (*entity.Tenant, error) {
	return r.tenants[email], nil
}

func (r *memTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.tenants[t.Email] = t
	return nil
}

// buildTestApp construye una aplicación Fiber mínima con el middleware de
// identidad y un handler que expone los locals cargados.
func buildTestApp(repo *memTenantRepo) *fiber.App {
	app := fiber.New()
	resolver := tenant.NewResolver(repo)
	app.Get("/protected",
		apphttp.IdentityMiddleware(testJWTSecret, resolver),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"email": apphttp.GetEmail(c),
				"name":  apphttp.GetName(c),
			})
		},
	)
	return app
}

func tokenFor(t *testing.T, email, name string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, email, name, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests IdentityMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestIdentityMiddleware_ExtraeClaims(t *testing.T) {
	repo := &memTenantRepo{tenants: map[string]*entity.Tenant{}}
	app := buildTestApp(repo)

	resp := doRequest(t, app, tokenFor(t, testEmail, testName))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testEmail, body["email"])
	assert.Equal(t, testName, body["name"])
}

// El primer request autenticado de un email desconocido crea su tenant.
func TestIdentityMiddleware_CreaTenantPerezosamente(t *testing.T) {
	repo := &memTenantRepo{tenants: map[string]*entity.Tenant{}}
	app := buildTestApp(repo)

	resp := doRequest(t, app, tokenFor(t, testEmail, testName))
	resp.Body.Close()

	created, ok := repo.tenants[testEmail]
	require.True(t, ok, "el tenant debe quedar registrado tras el primer request")
	assert.Equal(t, testName, created.Name)
}

func TestIdentityMiddleware_SegundoRequest_NoRecrea(t *testing.T) {
	repo := &memTenantRepo{tenants: map[string]*entity.Tenant{}}
	app := buildTestApp(repo)

	resp := doRequest(t, app, tokenFor(t, testEmail, testName))
	resp.Body.Close()
	firstID := repo.tenants[testEmail].ID

	resp = doRequest(t, app, tokenFor(t, testEmail, "Nombre Distinto"))
	resp.Body.Close()

	assert.Equal(t, firstID, repo.tenants[testEmail].ID, "el tenant existente no se recrea")
	assert.Equal(t, testName, repo.tenants[testEmail].Name)
}

func TestIdentityMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(&memTenantRepo{tenants: map[string]*entity.Tenant{}})
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIdentityMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(&memTenantRepo{tenants: map[string]*entity.Tenant{}})
	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIdentityMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(&memTenantRepo{tenants: map[string]*entity.Tenant{}})
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmail, testName, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	email, name, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testEmail, email)
	assert.Equal(t, testName, name)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testEmail, testName, testIssuer, -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testEmail, testName, testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
