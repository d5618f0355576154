package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func serveWithAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *domain.Principal) {
	t.Helper()

	var got *domain.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := GetPrincipal(r.Context()); ok {
			got = &p
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	Auth(testSecret, nopLogger{})(next).ServeHTTP(rec, req)
	return rec, got
}

func TestAuth_ValidToken(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   domain.Principal
	}{
		{"numeric sub", jwt.MapClaims{"sub": 7, "role": "client"}, domain.Principal{ID: 7, Role: domain.RoleClient}},
		{"string sub", jwt.MapClaims{"sub": "12", "role": "designer"}, domain.Principal{ID: 12, Role: domain.RoleDesigner}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signToken(t, jwt.SigningMethodHS256, testSecret, tt.claims)
			rec, got := serveWithAuth(t, "Bearer "+token)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header func(t *testing.T) string
	}{
		{"missing header", func(*testing.T) string { return "" }},
		{"not bearer", func(*testing.T) string { return "Basic abc" }},
		{"garbage", func(*testing.T) string { return "Bearer not-a-jwt" }},
		{"wrong secret", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, "other", jwt.MapClaims{"sub": 7, "role": "client"})
		}},
		{"wrong algorithm", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"sub": 7, "role": "client"})
		}},
		{"unknown role", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": 7, "role": "admin"})
		}},
		{"missing sub", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"role": "client"})
		}},
		{"fractional sub", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": 7.5, "role": "client"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, got := serveWithAuth(t, tt.header(t))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, got)
			assert.Contains(t, rec.Body.String(), `"UNAUTHORIZED"`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RequireRole(domain.RoleManager)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/blackouts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(WithPrincipal(req.Context(), domain.Principal{ID: 1, Role: domain.RoleClient}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = req.WithContext(WithPrincipal(req.Context(), domain.Principal{ID: 1, Role: domain.RoleManager}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
