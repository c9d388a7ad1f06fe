package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// MessageHandler личные сообщения и рассылки.
type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Threads GET /messages/threads
func (h *MessageHandler) Threads(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	threads, err := h.svc.Threads(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// History GET /messages/:otherId
func (h *MessageHandler) History(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	otherID, err := common.RequireParam(c, "otherId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	history, err := h.svc.History(c.Request.Context(), userID, otherID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// Send POST /messages/:otherId
func (h *MessageHandler) Send(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	otherID, err := common.RequireParam(c, "otherId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Text        string `json:"text" binding:"required"`
		UnlockPrice int64  `json:"unlock_price"`
		MediaURL    string `json:"media_url"`
		MediaType   string `json:"media_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), userID, otherID, req.Text, req.UnlockPrice, req.MediaURL, req.MediaType)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Unlock POST /messages/:otherId/unlock/:messageId
func (h *MessageHandler) Unlock(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	messageID, err := common.RequireParam(c, "messageId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Unlock(c.Request.Context(), userID, messageID)
	respondSettle(c, result, err)
}

// CreateCampaign POST /campaigns
func (h *MessageHandler) CreateCampaign(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Text        string `json:"text" binding:"required"`
		MediaURL    string `json:"media_url"`
		UnlockPrice int64  `json:"unlock_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	campaign, err := h.svc.CreateCampaign(c.Request.Context(), userID, req.Text, req.MediaURL, req.UnlockPrice)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// MyCampaigns GET /campaigns/my
func (h *MessageHandler) MyCampaigns(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	campaigns, err := h.svc.CampaignsByPerformer(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}
