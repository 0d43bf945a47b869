package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-be/internal/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-for-middleware-tests-00"

func newGuardedRouter(t *testing.T, reached *bool, gotID *string) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/protected", AuthMiddleware(jwt.NewJWTService(testSecret, 0)), func(c *gin.Context) {
		*reached = true
		*gotID, _ = UserID(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	var reached bool
	var gotID string
	r := newGuardedRouter(t, &reached, &gotID)

	tok, err := jwt.NewJWTService(testSecret, 0).GenerateToken("user-42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.Equal(t, "user-42", gotID)
}

func TestAuthMiddleware_RejectsUniformly(t *testing.T) {
	otherTok, err := jwt.NewJWTService("some-other-secret-some-other-secret", 0).GenerateToken("u")
	require.NoError(t, err)

	headers := map[string]string{
		"missing":       "",
		"no scheme":     "abc.def.ghi",
		"wrong scheme":  "Basic dXNlcjpwYXNz",
		"lower bearer":  "bearer abc",
		"empty token":   "Bearer ",
		"garbage token": "Bearer not-a-jwt",
		"wrong secret":  "Bearer " + otherTok,
	}
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			var reached bool
			var gotID string
			r := newGuardedRouter(t, &reached, &gotID)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"message":"Not authorized"}`, w.Body.String())
			assert.False(t, reached)
		})
	}
}

func TestUserID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)
}
