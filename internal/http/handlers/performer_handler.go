package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// PerformerHandler витрина моделей и редактирование карточек.
type PerformerHandler struct {
	svc *service.CatalogService
}

func NewPerformerHandler(svc *service.CatalogService) *PerformerHandler {
	return &PerformerHandler{svc: svc}
}

// List GET /performers
func (h *PerformerHandler) List(c *gin.Context) {
	filter := service.CatalogFilter{
		Tag:     c.Query("tag"),
		Country: c.Query("country"),
		Status:  c.Query("status"),
		Query:   c.Query("q"),
	}

	performers, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, performers)
}

// Get GET /performers/:id
func (h *PerformerHandler) Get(c *gin.Context) {
	performerID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	performer, err := h.svc.Get(c.Request.Context(), performerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, performer)
}

// Update PUT /performers/:id
func (h *PerformerHandler) Update(c *gin.Context) {
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

	var upd service.PerformerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	role, _ := common.CurrentUserRole(c)
	performer, err := h.svc.Update(c.Request.Context(), userID, performerID, upd, role == models.RoleAdmin)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, performer)
}
