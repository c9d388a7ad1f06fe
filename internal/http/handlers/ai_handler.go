package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/ai"
	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/service"
	"github.com/dungeonlive/dungeon-backend/internal/ws"
)

// AIHandler AI-функции: персонажи-боты, ко-пилот модели, перевод, теги.
type AIHandler struct {
	client  *ai.Client
	catalog *service.CatalogService
	hub     *ws.Hub
}

func NewAIHandler(client *ai.Client, catalog *service.CatalogService, hub *ws.Hub) *AIHandler {
	return &AIHandler{client: client, catalog: catalog, hub: hub}
}

// PersonaReply POST /ai/performers/:id/reply — ответ AI-модели в чате.
func (h *AIHandler) PersonaReply(c *gin.Context) {
	performerID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Message string   `json:"message" binding:"required"`
		History []string `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	performer, err := h.catalog.Get(c.Request.Context(), performerID)
	if err != nil {
		c.Error(err)
		return
	}
	if !performer.IsAI {
		common.RespondBadRequest(c, "модель не управляется AI")
		return
	}

	reply := h.client.PersonaReply(c.Request.Context(), performer.Name, performer.Description, req.Message, req.History)

	if h.hub != nil {
		_ = h.hub.BroadcastToRoom(performerID, ws.EventChat, gin.H{
			"user_id":  performerID,
			"username": performer.Name,
			"text":     reply,
		})
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// CoPilot POST /ai/copilot — совет модели по её комнате.
func (h *AIHandler) CoPilot(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		History []string `json:"history" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	viewers := 0
	if h.hub != nil {
		viewers = h.hub.Viewers(userID)
	}

	advice := h.client.CoPilot(c.Request.Context(), req.History, viewers)
	c.JSON(http.StatusOK, advice)
}

// Translate POST /ai/translate
func (h *AIHandler) Translate(c *gin.Context) {
	var req struct {
		Text       string `json:"text" binding:"required"`
		TargetLang string `json:"target_lang" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	translated := h.client.Translate(c.Request.Context(), req.Text, req.TargetLang)
	c.JSON(http.StatusOK, gin.H{"translated": translated})
}

// ContentTags POST /ai/tags
func (h *AIHandler) ContentTags(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	tags := h.client.ContentTags(c.Request.Context(), req.Description)
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// WatermarkID POST /ai/watermark
func (h *AIHandler) WatermarkID(c *gin.Context) {
	var req struct {
		ModelName string `json:"model_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"watermark_id": h.client.WatermarkID(c.Request.Context(), req.ModelName)})
}
