package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	Configure("middleware-test-secret", time.Hour)
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "driver")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "driver", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenRejects(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredStr, err := expired.SignedString(secret)
	require.NoError(t, err)

	otherAlg := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1, Role: "admin"})
	otherAlgStr, err := otherAlg.SignedString(secret)
	require.NoError(t, err)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Role: "admin"})
	wrongKeyStr, err := wrongKey.SignedString([]byte("not-the-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":   expiredStr,
		"other alg": otherAlgStr,
		"wrong key": wrongKeyStr,
		"garbage":   "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken(tok)
			assert.Error(t, err)
		})
	}
}

func newProtectedRouter() *gin.Engine {
	r := gin.New()
	handler := func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "ok": ok})
	}
	r.GET("/any", RequireAuth(), handler)
	r.GET("/admin", RequireAuthWithRole("admin"), handler)
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newProtectedRouter()
	token, err := GenerateToken(7, "driver")
	require.NoError(t, err)

	w := doGet(r, "/any", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/any", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, w.Body.String())

	w = doGet(r, "/any", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"ok":true}`, w.Body.String())
}

func TestRequireAuthWithRole(t *testing.T) {
	r := newProtectedRouter()
	driverToken, err := GenerateToken(7, "driver")
	require.NoError(t, err)
	adminToken, err := GenerateToken(1, "admin")
	require.NoError(t, err)

	w := doGet(r, "/admin", driverToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Insufficient permissions"}`, w.Body.String())

	w = doGet(r, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnableCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := EnableCORS(next)

	req := httptest.NewRequest(http.MethodOptions, "/admin/shifts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
