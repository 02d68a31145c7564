package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/middleware"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

const officerTokenTTL = 8 * time.Hour

// AuthController handles attendance-officer login/logout. There is a single
// config-backed officer account; employees never authenticate, they are
// identified by employee ID on the issuance form.
type AuthController struct{}

// NewAuthController creates a new controller instance.
func NewAuthController() *AuthController { return &AuthController{} }

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the officer credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "username and password are required")
		return
	}

	cfg := config.Get()
	if req.Username != cfg.AdminUsername || !utils.CheckPassword(cfg.AdminPasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(cfg.AdminUsername, cfg.AdminName, officerTokenTTL)
	if err != nil {
		utils.Sugar.Errorf("token generation failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"name":  cfg.AdminName,
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token != "" {
		claims, err := utils.ParseToken(token)
		if err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Verify confirms the presented token is still valid; the scanner page calls
// it on load before allowing redemptions.
func (a *AuthController) Verify(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"username": ctx.GetString(middleware.ContextUsernameKey),
		"name":     ctx.GetString(middleware.ContextNameKey),
	})
}
