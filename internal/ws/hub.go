// Package ws чат комнат трансляций поверх WebSocket. Хаб раскладывает
// клиентов по комнатам (id модели) и рассылает события чата, чаевых и
// целей всем зрителям комнаты.
package ws

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
)

// Типы событий комнаты
const (
	EventChat    = "CHAT"
	EventTip     = "TIP"
	EventGoal    = "GOAL_PROGRESS"
	EventSystem  = "SYSTEM"
	EventViewers = "VIEWERS"
)

// Hub управляет всеми WebSocket клиентами, сгруппированными по комнатам.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	roomID  string
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.roomID, msg.payload)
		}
	}
}

// Register добавляет клиента в комнату.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToRoom отправляет событие всем зрителям комнаты.
// Поле "type" содержит имя события, "data" — полезную нагрузку.
func (h *Hub) BroadcastToRoom(roomID, event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	h.broadcast <- message{roomID: roomID, payload: raw}
	return nil
}

// Viewers возвращает число подключённых зрителей комнаты.
func (h *Hub) Viewers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[client.roomID]; !ok {
		h.rooms[client.roomID] = make(map[*Client]struct{})
	}
	h.rooms[client.roomID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[client.roomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, client.roomID)
		}
	}
}

func (h *Hub) send(roomID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: закрываем асинхронно, чтобы не держать хаб.
			go func(c *Client) {
				defer func() {
					if r := recover(); r != nil {
						fmt.Printf("ws: client close panic recovered: %v\n%s\n", r, debug.Stack())
					}
				}()
				c.Close()
			}(client)
		}
	}
}
