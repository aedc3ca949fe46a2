package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maskoff-server/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(tokens *token.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(tokens))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": UserID(c)})
	})
	return router
}

func protectedRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	tokens := token.NewEngine("test-secret", time.Hour)
	router := authRouter(tokens)

	signed, err := tokens.Generate("u1", "alice")
	require.NoError(t, err)

	w := protectedRequest(router, "Bearer "+signed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestAuthMiddlewareRejectsBadHeaders(t *testing.T) {
	tokens := token.NewEngine("test-secret", time.Hour)
	router := authRouter(tokens)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-token"} {
		w := protectedRequest(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareReportsExpiry(t *testing.T) {
	expired := token.NewEngine("test-secret", -time.Minute)
	router := authRouter(token.NewEngine("test-secret", time.Hour))

	signed, err := expired.Generate("u1", "alice")
	require.NoError(t, err)

	w := protectedRequest(router, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}
