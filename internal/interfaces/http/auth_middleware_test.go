package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comanda-api/internal/application/dto"
	apphttp "github.com/jhoicas/Comanda-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Comanda-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "comanda-api-test"
	testExpMin    = 60
)

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por grupo de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_PermisosPorRol(t *testing.T) {
	app := buildAPI()

	cases := []struct {
		method, path, role string
		forbidden          bool
	}{
		// catálogo: lectura para todo el personal, escritura solo admin
		{http.MethodGet, "/api/products", "mesero", false},
		{http.MethodGet, "/api/products", "bartender", false},
		{http.MethodPost, "/api/products", "mesero", true},
		{http.MethodPost, "/api/products", "bartender", true},
		{http.MethodPost, "/api/products", "admin", false},
		{http.MethodPut, "/api/products/p1", "bartender", true},
		{http.MethodDelete, "/api/products/p1", "mesero", true},
		{http.MethodDelete, "/api/products/p1", "admin", false},

		// inventario: admin y barra
		{http.MethodGet, "/api/inventory/low-stock", "mesero", true},
		{http.MethodGet, "/api/inventory/low-stock", "bartender", false},
		{http.MethodGet, "/api/inventory/low-stock", "admin", false},
		{http.MethodPost, "/api/inventory/products/p1/adjust", "mesero", true},
		{http.MethodPost, "/api/inventory/products/p1/adjust", "bartender", false},
		{http.MethodPut, "/api/inventory/products/p1/level", "mesero", true},
		{http.MethodGet, "/api/inventory/products/p1/movements", "mesero", true},

		// pedidos: todo el personal
		{http.MethodGet, "/api/orders", "mesero", false},
		{http.MethodGet, "/api/orders", "bartender", false},
		{http.MethodPatch, "/api/orders/o1/status", "mesero", false},

		// rol desconocido
		{http.MethodGet, "/api/orders", "cliente", true},
		{http.MethodGet, "/api/products", "cliente", true},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path+" "+tc.role, func(t *testing.T) {
			status := call(t, app, tc.method, tc.path, bearer(t, testTenantID, tc.role), nil, nil)
			if tc.forbidden {
				assert.Equal(t, http.StatusForbidden, status)
				return
			}
			assert.NotEqual(t, http.StatusForbidden, status)
			assert.NotEqual(t, http.StatusUnauthorized, status)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos del middleware
// ──────────────────────────────────────────────────────────────────────────────

func signed(t *testing.T, claims pkgjwt.Claims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := buildAPI()
	future := gojwt.NewNumericDate(time.Now().Add(time.Hour))

	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, "admin", testIssuer, -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secreto", testUserID, testTenantID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name, auth string
		status     int
		code       string
	}{
		{"sin header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token basura", "Bearer no-es-un-jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + otherSecret, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"sin tenant", signed(t, pkgjwt.Claims{
			RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: future},
			UserID:           testUserID, Role: "admin",
		}), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"sin rol", signed(t, pkgjwt.Claims{
			RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: future},
			UserID:           testUserID, TenantID: testTenantID,
		}), http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body dto.ErrorResponse
			status := call(t, app, http.MethodGet, "/api/orders", tc.auth, nil, &body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestAuthMiddleware_BearerSinDistinguirMayusculas(t *testing.T) {
	app := buildAPI()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, "mesero", testIssuer, testExpMin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/orders", "bearer "+tok, nil, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Locals que consumen los handlers
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaTenantUsuarioYRol(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"tenant_id": apphttp.GetTenantID(c),
			"user_id":   apphttp.GetUserID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	var got map[string]string
	status := call(t, app, http.MethodGet, "/whoami", bearer(t, "bar-centro", "bartender"), nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bar-centro", got["tenant_id"])
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, "bartender", got["role"])
}

func TestAuthMiddleware_TenantDelTokenAislaDatos(t *testing.T) {
	app := buildAPI()
	p := createProduct(t, app, "Fernet", "12.00", 4)

	// el mismo id con un token de otro local es otro universo
	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products", bearer(t, otherTenantID, "admin"), nil, &list))
	assert.Empty(t, list.Items)
	assert.Equal(t, http.StatusNotFound,
		call(t, app, http.MethodGet, "/api/inventory/products/"+p.ID+"/movements", bearer(t, otherTenantID, "bartender"), nil, nil))
}
