package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/service"
	"github.com/dungeonlive/dungeon-backend/internal/session"
)

// withoutPasswordHash убирает хеш пароля из результата перед отдачей наружу.
func withoutPasswordHash(result *service.AuthResult) *service.AuthResult {
	sanitized := result.Account.Sanitized()
	result.Account = &sanitized
	return result
}

// AuthHandler маршруты регистрации и входа.
type AuthHandler struct {
	svc       *service.AuthService
	directory *session.Directory
}

func NewAuthHandler(svc *service.AuthService, directory *session.Directory) *AuthHandler {
	return &AuthHandler{svc: svc, directory: directory}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email        string `json:"email" binding:"required"`
		Password     string `json:"password" binding:"required"`
		Username     string `json:"username" binding:"required"`
		Role         string `json:"role" binding:"required"`
		ReferralCode string `json:"referral_code"`
		CryptoWallet string `json:"crypto_wallet"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Username:     req.Username,
		Role:         req.Role,
		ReferralCode: req.ReferralCode,
		CryptoWallet: req.CryptoWallet,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, withoutPasswordHash(result))
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withoutPasswordHash(result))
}

// Refresh POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withoutPasswordHash(result))
}

// Me GET /profile — действующая личность из справочника сессий.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	account, err := h.directory.CurrentIdentity(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account.Sanitized())
}
