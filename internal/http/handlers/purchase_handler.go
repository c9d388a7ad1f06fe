package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/service"
	"github.com/dungeonlive/dungeon-backend/internal/ws"
)

// PurchaseHandler платные действия фаната: подписки, разблокировки,
// чаевые, покупки, действия в комнате.
type PurchaseHandler struct {
	svc *service.PurchaseService
	hub *ws.Hub
}

func NewPurchaseHandler(svc *service.PurchaseService, hub *ws.Hub) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, hub: hub}
}

// respondSettle единый формат ответа на расчёт: нехватка баланса — это
// 402, а не ошибка сервера.
func respondSettle(c *gin.Context, result *ledger.SettleResult, err error) {
	if err != nil {
		c.Error(err)
		return
	}
	if !result.Success {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"success": false,
			"balance": result.PayerBalance,
			"error":   "недостаточно токенов",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Subscribe POST /performers/:id/subscribe
func (h *PurchaseHandler) Subscribe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Subscribe(c.Request.Context(), userID, performerID)
	respondSettle(c, result, err)
}

// UnlockStream POST /performers/:id/unlock
func (h *PurchaseHandler) UnlockStream(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.UnlockStream(c.Request.Context(), userID, performerID)
	respondSettle(c, result, err)
}

// UnlockContent POST /performers/:id/content/:contentId/unlock
func (h *PurchaseHandler) UnlockContent(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, _ := common.RequireParam(c, "id")
	contentID, err := common.RequireParam(c, "contentId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.UnlockContent(c.Request.Context(), userID, performerID, contentID)
	respondSettle(c, result, err)
}

// Tip POST /performers/:id/tip
func (h *PurchaseHandler) Tip(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Tip(c.Request.Context(), userID, performerID, req.Amount)
	if err == nil && result.Success && h.hub != nil {
		_ = h.hub.BroadcastToRoom(performerID, ws.EventTip, gin.H{
			"user_id": userID,
			"amount":  req.Amount,
		})
	}
	respondSettle(c, result, err)
}

// BuyMerch POST /performers/:id/merch/:merchId/buy
func (h *PurchaseHandler) BuyMerch(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, _ := common.RequireParam(c, "id")
	merchID, err := common.RequireParam(c, "merchId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.BuyMerch(c.Request.Context(), userID, performerID, merchID)
	respondSettle(c, result, err)
}

// RoomAction POST /performers/:id/room-action
func (h *PurchaseHandler) RoomAction(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.RoomAction(c.Request.Context(), userID, performerID, req.Action)
	respondSettle(c, result, err)
}

// PlayGame POST /performers/:id/games/:gameId/play
func (h *PurchaseHandler) PlayGame(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, _ := common.RequireParam(c, "id")
	gameID, err := common.RequireParam(c, "gameId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.PlayGame(c.Request.Context(), userID, performerID, gameID)
	respondSettle(c, result, err)
}

// TriggerToy POST /performers/:id/toy/:controlId
func (h *PurchaseHandler) TriggerToy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	performerID, _ := common.RequireParam(c, "id")
	controlID, err := common.RequireParam(c, "controlId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.TriggerToy(c.Request.Context(), userID, performerID, controlID)
	respondSettle(c, result, err)
}
