package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("SECRET_KEY", "test-secret-key")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func authedRouter(t *testing.T, middleware gin.HandlerFunc) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.Use(middleware)
	router.GET("/whoami", func(c *gin.Context) {
		userId, ok := CurrentUserId(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userId})
	})
	return router
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := CreateAccessToken(7)
	require.Nil(t, err)

	router := authedRouter(t, JWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 7}`, w.Body.String())
}

func TestJWTRejectsMissingOrBadToken(t *testing.T) {
	router := authedRouter(t, JWT())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTIgnoresSpoofedSubHeader(t *testing.T) {
	token, err := CreateAccessToken(7)
	require.Nil(t, err)

	router := authedRouter(t, JWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("sub", "999")
	router.ServeHTTP(w, req)

	assert.JSONEq(t, `{"user_id": 7}`, w.Body.String())
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	router := authedRouter(t, OptionalJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("sub", "999") // spoof attempt, must be stripped
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous": true}`, w.Body.String())
}
