package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/validation"
)

// WithdrawalHandler заявки моделей на вывод заработка.
type WithdrawalHandler struct {
	ledger *ledger.Ledger
}

func NewWithdrawalHandler(l *ledger.Ledger) *WithdrawalHandler {
	return &WithdrawalHandler{ledger: l}
}

// Create POST /withdrawals
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		AmountTokens int64  `json:"amount_tokens" binding:"required,gt=0"`
		Method       string `json:"method" binding:"required"`
		Details      string `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateLength("реквизиты", req.Details, 0, validation.MaxWithdrawalDetailsLen); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.ledger.RequestWithdrawal(c.Request.Context(), userID, req.AmountTokens, req.Method, req.Details)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// ListMy GET /withdrawals — заявки текущей модели, свежие первыми.
func (h *WithdrawalHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	withdrawals, err := h.ledger.WithdrawalsByPerformer(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// ListAll GET /admin/withdrawals
func (h *WithdrawalHandler) ListAll(c *gin.Context) {
	if c.Query("status") == "pending" {
		withdrawals, err := h.ledger.PendingWithdrawals(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, withdrawals)
		return
	}

	withdrawals, err := h.ledger.ListWithdrawals(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// Approve POST /admin/withdrawals/:id/approve
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	requestID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.ledger.ApproveWithdrawal(c.Request.Context(), requestID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Reject POST /admin/withdrawals/:id/reject
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	requestID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.ledger.RejectWithdrawal(c.Request.Context(), requestID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}
