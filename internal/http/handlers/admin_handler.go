package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// AdminHandler дашборд администратора.
type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// sanitizeAccounts убирает хеши паролей из списка аккаунтов для ответа API.
func sanitizeAccounts(accounts []models.Account) []models.Account {
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Sanitized())
	}
	return out
}

// GrantTokens POST /admin/grants/tokens
func (h *AdminHandler) GrantTokens(c *gin.Context) {
	var req struct {
		AccountID string `json:"account_id" binding:"required"`
		Amount    int64  `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	balance, err := h.svc.GrantTokens(c.Request.Context(), req.AccountID, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GrantSubscription POST /admin/grants/subscription
func (h *AdminHandler) GrantSubscription(c *gin.Context) {
	var req struct {
		FanID       string `json:"fan_id" binding:"required"`
		PerformerID string `json:"performer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.GrantSubscription(c.Request.Context(), req.FanID, req.PerformerID); err != nil {
		c.Error(err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "подписка выдана", nil)
}

// ApproveModel POST /admin/models/:id/approve
func (h *AdminHandler) ApproveModel(c *gin.Context) {
	accountID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.ApproveModel(c.Request.Context(), accountID); err != nil {
		c.Error(err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "модель верифицирована", nil)
}

// PendingModels GET /admin/models/pending
func (h *AdminHandler) PendingModels(c *gin.Context) {
	accounts, err := h.svc.PendingModels(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sanitizeAccounts(accounts))
}

// ListFans GET /admin/fans
func (h *AdminHandler) ListFans(c *gin.Context) {
	fans, err := h.svc.ListFans(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sanitizeAccounts(fans))
}

// LogViolation POST /admin/violations
func (h *AdminHandler) LogViolation(c *gin.Context) {
	var req struct {
		PerformerID   string `json:"performer_id"`
		PerformerName string `json:"performer_name"`
		Type          string `json:"type" binding:"required"`
		Details       string `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	err := h.svc.LogViolation(c.Request.Context(), models.Violation{
		PerformerID:   req.PerformerID,
		PerformerName: req.PerformerName,
		Type:          req.Type,
		Details:       req.Details,
	})
	if err != nil {
		c.Error(err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, "нарушение зафиксировано", nil)
}

// ListViolations GET /admin/violations
func (h *AdminHandler) ListViolations(c *gin.Context) {
	violations, err := h.svc.Violations(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, violations)
}

// Notifications GET /notifications
func (h *AdminHandler) Notifications(c *gin.Context) {
	notifications, err := h.svc.Notifications(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}
