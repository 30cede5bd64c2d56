package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/furnix/furnix-api/internal/model"
	"github.com/furnix/furnix-api/internal/token"
)

const (
	ctxUserID    = "userID"
	ctxUserRole  = "userRole"
	ctxUserEmail = "userEmail"
)

// AuthRequired verifies the bearer access token and attaches the caller's
// identity to the request context. Missing header, missing token and failed
// verification all produce the same 401.
func AuthRequired(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// AuthOptional attaches the identity when a valid bearer token is present
// and lets the request through either way.
func AuthOptional(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, tokens); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetUserRole(c)
		if role != string(model.RoleAdmin) && role != string(model.RoleSuperAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, tokens *token.Manager) (token.Claims, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return token.Claims{}, false
	}
	claims, err := tokens.VerifyAccess(header[7:])
	if err != nil {
		return token.Claims{}, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims token.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUserRole, claims.Role)
	c.Set(ctxUserEmail, claims.Email)
}

func GetUserID(c *gin.Context) string {
	id, _ := c.Get(ctxUserID)
	s, _ := id.(string)
	return s
}

func GetUserRole(c *gin.Context) string {
	role, _ := c.Get(ctxUserRole)
	s, _ := role.(string)
	return s
}

func GetUserEmail(c *gin.Context) string {
	email, _ := c.Get(ctxUserEmail)
	s, _ := email.(string)
	return s
}
