package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"anoa.com/alumninetwork/internal/entity"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	secret   string
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		secret:   secret,
	}
}

// RequireAuth validates the bearer token and loads the caller. Deactivated accounts are
// rejected even while their token is still valid.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "authorization required")
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})
		if err != nil || !token.Valid {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token claims")
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token subject")
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "user not found")
			return
		}
		if !user.IsActive {
			abort(c, http.StatusForbidden, "forbidden", "account is pending approval")
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user_role", user.Role)
		c.Set("user", user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "user not authenticated")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "forbidden", "insufficient role")
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(entity.RoleAdmin)
}

// CurrentRole returns the role RequireAuth stored for this request.
func CurrentRole(c *gin.Context) (entity.Role, bool) {
	v, exists := c.Get("user_role")
	if !exists {
		return 0, false
	}
	role, ok := v.(entity.Role)
	return role, ok
}

func abort(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message})
}
