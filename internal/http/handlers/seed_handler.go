package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// SeedHandler наполняет документ демо-данными (только development).
type SeedHandler struct {
	svc *service.SeedService
}

func NewSeedHandler(svc *service.SeedService) *SeedHandler {
	return &SeedHandler{svc: svc}
}

// Seed обрабатывает POST /seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	if err := h.svc.Seed(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "демо-данные загружены"})
}
