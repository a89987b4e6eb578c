package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/callwatch/callwatch/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// JWTAuth validates the bearer token issued at login and puts the user id on
// the context under "user_id".
func JWTAuth() gin.HandlerFunc {
	secret := os.Getenv("JWT_SECRET")

	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "JWT_SECRET is not set",
			})
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing subject",
			})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}
