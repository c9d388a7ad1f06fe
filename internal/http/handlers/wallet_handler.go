package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// WalletHandler кошелёк: баланс, пакеты токенов, пополнение.
type WalletHandler struct {
	svc    *service.WalletService
	ledger *ledger.Ledger
}

func NewWalletHandler(svc *service.WalletService, l *ledger.Ledger) *WalletHandler {
	return &WalletHandler{svc: svc, ledger: l}
}

// Balance GET /wallet/balance
func (h *WalletHandler) Balance(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Packages GET /wallet/packages
func (h *WalletHandler) Packages(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Packages())
}

// TopUp POST /wallet/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		PackageID string `json:"package_id" binding:"required"`
		Method    string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.TopUp(c.Request.Context(), userID, req.PackageID, req.Method)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
