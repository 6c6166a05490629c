package middlewares

import (
	"CogniCare/models"
	"CogniCare/utils"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKey defines a custom context key type to store user details in the context.
type contextKey string

const (
	// Key used to store the authenticated caller in the context
	callerKey contextKey = "caller"
)

// TokenAuthMiddleware validates the token and stores the caller identity in
// the request context. The token is read from the X-Access-Token header, with
// the accessToken query parameter as a fallback.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("X-Access-Token"))
		if token == "" {
			token = c.DefaultQuery("accessToken", "")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token", "errorAr": "رمز الوصول مفقود"})
			c.Abort()
			return
		}

		// Validate the token and extract claims.
		claims, err := utils.ValidateToken(token, models.RoleAdmin, models.RoleClinicalStaff, models.RoleUser)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "errorAr": "رمز غير صالح"})
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "errorAr": "رمز غير صالح"})
			c.Abort()
			return
		}

		caller := models.Caller{
			ID:    userID,
			Role:  claims.Role,
			Name:  claims.Name,
			Email: claims.Email,
		}
		ctx := context.WithValue(c.Request.Context(), callerKey, caller)
		c.Request = c.Request.WithContext(ctx)

		// Continue to the next middleware/handler.
		c.Next()
	}
}

// RoleAuthMiddleware restricts access to callers holding one of the given roles.
func RoleAuthMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := ExtractCallerFromContext(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Caller not found in context", "errorAr": "لم يتم العثور على هوية المستخدم"})
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if caller.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient privileges", "errorAr": "ممنوع: صلاحيات غير كافية"})
		c.Abort()
	}
}

// ExtractCallerFromContext retrieves the authenticated caller from the context.
func ExtractCallerFromContext(ctx context.Context) (models.Caller, error) {
	caller, ok := ctx.Value(callerKey).(models.Caller)
	if !ok {
		return models.Caller{}, errors.New("caller not found in context")
	}
	return caller, nil
}
