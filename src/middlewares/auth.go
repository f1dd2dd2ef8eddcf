package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"exobooking/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func abortUnauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   types.ErrUnauthorized.Code,
		"message": types.ErrUnauthorized.Message,
	})
}

// AdminAuth accepts HS256 bearer tokens signed with secret whose role is admin.
func AdminAuth(secret []byte) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		bearerToken := ctx.Request.Header.Get("Authorization")
		if !strings.HasPrefix(bearerToken, "Bearer ") || len(secret) == 0 {
			abortUnauthorized(ctx)
			return
		}
		reqToken := strings.TrimSpace(strings.TrimPrefix(bearerToken, "Bearer "))
		if reqToken == "" {
			abortUnauthorized(ctx)
			return
		}
		claims := &types.Claims{}
		tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			if !errors.Is(err, jwt.ErrTokenExpired) {
				log.Printf("token error: %s\n", err.Error())
			}
			abortUnauthorized(ctx)
			return
		}
		if !tkn.Valid || !claims.IsAdmin() {
			abortUnauthorized(ctx)
			return
		}

		ctx.Set("username", claims.Username)
		ctx.Set("role", claims.Role)
		ctx.Set("sub", claims.Subject)
		ctx.Next()
	}
}
