package middleware

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(ctx context.Context, c *app.RequestContext) {
	c.String(http.StatusOK, "ok")
}

func newEngine(middlewares ...app.HandlerFunc) *route.Engine {
	engine := route.NewEngine(config.NewOptions(nil))
	engine.Use(middlewares...)
	return engine
}

func TestGlobalErrorHandler_RecoversPanic(t *testing.T) {
	engine := newEngine(GlobalErrorHandlerMiddleware())
	engine.GET("/panic", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "partial")
		panic("boom")
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "partial")
	assert.Contains(t, w.Body.String(), `"code":300001`)
}

func TestCors_Preflight(t *testing.T) {
	engine := newEngine(CorsMiddleware())
	engine.GET("/x", okHandler)

	w := ut.PerformRequest(engine, http.MethodOptions, "/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, DefaultAllowOrigin, string(w.Header().Peek("Access-Control-Allow-Origin")))
	assert.Contains(t, string(w.Header().Peek("Access-Control-Allow-Headers")), RequestIDHeader)
}

func TestJWTAndAdmin(t *testing.T) {
	jwt, err := jwtauth.NewJWT("middleware-test", "1h", "2h")
	require.NoError(t, err)
	jwtauth.Init(jwt)

	engine := newEngine(JWTMiddleware())
	engine.GET("/me", okHandler)
	engine.GET("/admin", AdminMiddleware(), okHandler)

	admin, err := jwt.GenerateToken(1, "admin", jwtauth.RoleAdmin)
	require.NoError(t, err)
	leader, err := jwt.GenerateToken(2, "leader", "leader")
	require.NoError(t, err)

	bearer := func(token string) ut.Header {
		return ut.Header{Key: "Authorization", Value: "Bearer " + token}
	}

	assert.Equal(t, http.StatusUnauthorized, ut.PerformRequest(engine, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ut.PerformRequest(engine, http.MethodGet, "/me", nil, bearer("garbage")).Code)
	assert.Equal(t, http.StatusUnauthorized, ut.PerformRequest(engine, http.MethodGet, "/me", nil, bearer(admin.RefreshToken)).Code,
		"refresh tokens are not access tokens")
	assert.Equal(t, http.StatusOK, ut.PerformRequest(engine, http.MethodGet, "/me", nil, bearer(leader.AccessToken)).Code)

	assert.Equal(t, http.StatusForbidden, ut.PerformRequest(engine, http.MethodGet, "/admin", nil, bearer(leader.AccessToken)).Code)
	assert.Equal(t, http.StatusOK, ut.PerformRequest(engine, http.MethodGet, "/admin", nil, bearer(admin.AccessToken)).Code)
}

func TestJSONBody(t *testing.T) {
	engine := newEngine(JSONBodyMiddleware())
	engine.POST("/x", okHandler)

	body := func(s string) *ut.Body {
		return &ut.Body{Body: bytes.NewBufferString(s), Len: len(s)}
	}

	w := ut.PerformRequest(engine, http.MethodPost, "/x", body("name=a"), ut.Header{Key: "Content-Type", Value: "text/plain"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ut.PerformRequest(engine, http.MethodPost, "/x", body(`{"a":1}`), ut.Header{Key: "Content-Type", Value: "application/json; charset=utf-8"})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusOK, ut.PerformRequest(engine, http.MethodPost, "/x", nil).Code)
}

func TestLogMiddleware_SetsRequestID(t *testing.T) {
	engine := newEngine(LogMiddleware())
	engine.GET("/x", okHandler)

	w := ut.PerformRequest(engine, http.MethodGet, "/x", nil)
	assert.NotEmpty(t, string(w.Header().Peek(RequestIDHeader)))

	w = ut.PerformRequest(engine, http.MethodGet, "/x", nil, ut.Header{Key: RequestIDHeader, Value: "req-1"})
	assert.Equal(t, "req-1", string(w.Header().Peek(RequestIDHeader)))
}
