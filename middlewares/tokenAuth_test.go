package middlewares

import (
	"CogniCare/models"
	"CogniCare/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T, roles ...string) *gin.Engine {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("/").Use(TokenAuthMiddleware())
	if len(roles) > 0 {
		group = group.Use(RoleAuthMiddleware(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		caller, err := ExtractCallerFromContext(c.Request.Context())
		require.NoError(t, err)
		c.JSON(200, gin.H{"id": caller.ID, "role": caller.Role, "email": caller.Email})
	})
	return router
}

func issueToken(t *testing.T, role string) string {
	token, err := utils.GenerateAccessToken("42", role, "Sami", "sami@example.com")
	require.NoError(t, err)
	return token
}

func TestTokenAuthMiddlewareAcceptsHeaderToken(t *testing.T) {
	router := newAuthTestRouter(t)
	token := issueToken(t, models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Access-Token", token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	assert.Contains(t, rec.Body.String(), `"email":"sami@example.com"`)
}

func TestTokenAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	router := newAuthTestRouter(t)
	token := issueToken(t, models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/whoami?accessToken="+token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Access-Token", "not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleAuthMiddlewareEnforcesRoles(t *testing.T) {
	router := newAuthTestRouter(t, models.RoleAdmin, models.RoleClinicalStaff)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Access-Token", issueToken(t, models.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Access-Token", issueToken(t, models.RoleClinicalStaff))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
