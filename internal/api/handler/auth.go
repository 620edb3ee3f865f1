package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwt "github.com/golang-jwt/jwt/v5"
)

const callerContextKey = "caller"

// Caller is the authenticated principal extracted from the bearer token
// issued by the identity provider.
type Caller struct {
	UserID   string
	Username string
	Roles    []string
}

// IsConsultant reports whether the caller acts in the consultant role.
func (c Caller) IsConsultant() bool {
	for _, r := range c.Roles {
		if r == "consultant" {
			return true
		}
	}
	return false
}

// AuthRequired validates the bearer token and stores the caller on the
// request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		caller, err := h.parseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(callerContextKey, caller)
		c.Next()
	}
}

func (h *Handler) parseToken(tokenString string) (Caller, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return Caller{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, jwt.ErrTokenInvalidClaims
	}

	caller := Caller{}
	if sub, ok := claims["sub"].(string); ok {
		caller.UserID = sub
	}
	if username, ok := claims["preferred_username"].(string); ok {
		caller.Username = username
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if role, ok := r.(string); ok {
				caller.Roles = append(caller.Roles, role)
			}
		}
	}
	return caller, nil
}

func callerFrom(c *gin.Context) Caller {
	if v, ok := c.Get(callerContextKey); ok {
		if caller, ok := v.(Caller); ok {
			return caller
		}
	}
	return Caller{}
}
