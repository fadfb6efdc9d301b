package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/utils"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/t", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetUint(utils.CtxUserID),
			"role":      c.GetString(utils.CtxRole),
			"branch_id": c.GetUint(utils.CtxBranchID),
		})
	})...)
	return r
}

func get(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetJWTSecret("middleware-secret")
	token, err := utils.GenerateToken(7, utils.RoleChef, 3, time.Hour)
	require.NoError(t, err)
	r := newEngine(AuthMiddleware())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/t", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/t", token).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/t", "Bearer garbage").Code)

	w := get(r, "/t", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"chef","branch_id":3}`, w.Body.String())
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	utils.SetJWTSecret("middleware-secret")
	token, err := utils.GenerateToken(7, utils.RoleChef, 3, -time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(newEngine(AuthMiddleware()), "/t", "Bearer "+token).Code)
}

func TestWebSocketAuthMiddlewareReadsQueryToken(t *testing.T) {
	utils.SetJWTSecret("middleware-secret")
	token, err := utils.GenerateToken(2, utils.RoleStaff, 1, time.Hour)
	require.NoError(t, err)
	r := newEngine(WebSocketAuthMiddleware())

	assert.Equal(t, http.StatusUnauthorized, get(r, "/t", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/t?token=bad", "").Code)

	w := get(r, "/t?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":2,"role":"staff","branch_id":1}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(utils.CtxRole, role)
			}
		}
	}

	tests := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{utils.RoleChef, http.StatusOK},
		{utils.RoleAdmin, http.StatusOK},
		{utils.RoleStaff, http.StatusForbidden},
		{"guest", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r := newEngine(withRole(tt.role), RequireRole(utils.RoleChef))
			assert.Equal(t, tt.want, get(r, "/t", "").Code)
		})
	}
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterForgetsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Minute)
	rl.Allow("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(NewRateLimiter(0.001, 1).RateLimit())

	assert.Equal(t, http.StatusOK, get(r, "/t", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/t", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddlewares("https://dash.example.com"))
	r.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/t", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
