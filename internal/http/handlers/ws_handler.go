package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dungeonlive/dungeon-backend/internal/service"
	"github.com/dungeonlive/dungeon-backend/internal/session"
	"github.com/dungeonlive/dungeon-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений с комнатами.
type WSHandler struct {
	hub          *ws.Hub
	tokenManager *service.TokenManager
	directory    *session.Directory
	upgrader     websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager, directory *session.Directory) *WSHandler {
	return &WSHandler{
		hub:          hub,
		tokenManager: tokens,
		directory:    directory,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle обслуживает GET /ws/rooms/:id?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	roomID := c.Param("id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "комната обязательна"})
		return
	}

	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access токен обязателен"})
		return
	}

	userID, _, err := h.tokenManager.ParseAccess(rawToken)
	if err != nil || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "невалидный access токен"})
		return
	}

	account, err := h.directory.CurrentIdentity(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "аккаунт не найден"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	client := ws.NewClient(conn, h.hub, roomID, account.ID, account.Username)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
