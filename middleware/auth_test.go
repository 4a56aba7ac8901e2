package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ieltsprep/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubValidator map[string]uint

func (v stubValidator) ValidateToken(token string) (*services.Claims, error) {
	if id, ok := v[token]; ok {
		return &services.Claims{UserID: id}, nil
	}
	return nil, errors.New("bad token")
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(stubValidator{"good": 42}))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id")})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
		{"bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		authRouter().ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code, "header %q", tc.header)
		if tc.status == http.StatusOK {
			assert.JSONEq(t, `{"user_id":42}`, w.Body.String())
		}
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("  Bearer   abc "))
	assert.Empty(t, BearerToken("Bearer "))
	assert.Empty(t, BearerToken("Basic abc"))
}
