package middleware

import (
	"net/http"
	"os"
	"strings"

	"expensems/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // development fallback, never for production
	}
	return []byte(secret)
}

// parseToken extracts and validates the JWT from the Authorization header,
// falling back to the access_token cookie. Returns the claims or writes a
// 401 and returns false.
func parseToken(c *gin.Context) (jwt.MapClaims, bool) {
	var tokenString string

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortError(c, http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'")
			return nil, false
		}
		tokenString = parts[1]
	} else if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		tokenString = cookie
	} else {
		response.AbortError(c, http.StatusUnauthorized, "Authorization is missing")
		return nil, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		response.AbortError(c, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		response.AbortError(c, http.StatusUnauthorized, "Invalid token claims")
		return nil, false
	}
	return claims, true
}

// RequireAuth validates the JWT and stores userID/userRole in the context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}
		c.Set("userID", claims["sub"])
		c.Set("userRole", claims["role"])
		c.Next()
	}
}

// RequireRole validates the JWT and checks that the user's role is in the
// allowedRoles list.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok {
			response.AbortError(c, http.StatusForbidden, "Role not found in token")
			return
		}

		roleAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				roleAllowed = true
				break
			}
		}
		if !roleAllowed {
			response.AbortError(c, http.StatusForbidden, "Access denied: insufficient permissions")
			return
		}

		c.Set("userID", claims["sub"])
		c.Set("userRole", userRole)
		c.Next()
	}
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) string {
	id, _ := c.Get("userID")
	s, _ := id.(string)
	return s
}
