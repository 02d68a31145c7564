package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

const (
	// ContextUsernameKey stores the authenticated officer's username.
	ContextUsernameKey = "username"
	// ContextNameKey stores the officer's display name.
	ContextNameKey = "name"
	// ContextTokenKey stores the raw bearer token for logout blacklisting.
	ContextTokenKey = "token"
)

// AuthRequired ensures the request carries a valid attendance-officer JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims.Role != utils.RoleAttendanceOfficer {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextNameKey, claims.Name)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}
