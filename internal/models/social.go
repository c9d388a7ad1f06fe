package models

import "time"

// Статусы кастомных заказов
const (
	OrderStatusPending   = "PENDING"
	OrderStatusAccepted  = "ACCEPTED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusRejected  = "REJECTED"
)

// CustomOrder заказ фаната на персональный контент.
type CustomOrder struct {
	ID          string    `json:"id"`
	FanID       string    `json:"fan_id"`
	FanName     string    `json:"fan_name"`
	PerformerID string    `json:"performer_id"`
	Type        string    `json:"type"` // VIDEO | PHOTO | AUDIO
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Price       int64     `json:"price,omitempty"`
	DeliveryURL string    `json:"delivery_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FeedPost пост в ленте модели.
type FeedPost struct {
	ID          string    `json:"id"`
	PerformerID string    `json:"performer_id"`
	Caption     string    `json:"caption"`
	Type        string    `json:"type"` // IMAGE | VIDEO | TEXT
	MediaURL    string    `json:"media_url,omitempty"`
	IsLocked    bool      `json:"is_locked"`
	UnlockPrice int64     `json:"unlock_price,omitempty"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
}

// DirectMessage личное сообщение между участниками.
type DirectMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	ReceiverID  string    `json:"receiver_id"`
	Text        string    `json:"text"`
	IsLocked    bool      `json:"is_locked,omitempty"`
	UnlockPrice int64     `json:"unlock_price,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	MediaType   string    `json:"media_type,omitempty"`
	IsRead      bool      `json:"is_read"`
	IsCampaign  bool      `json:"is_campaign,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageThread агрегированный диалог для списка сообщений.
type MessageThread struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar,omitempty"`
	Role        string    `json:"role"`
	LastMessage string    `json:"last_message"`
	UnreadCount int       `json:"unread_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// Campaign массовая рассылка модели с платной разблокировкой.
type Campaign struct {
	ID          string    `json:"id"`
	PerformerID string    `json:"performer_id"`
	Text        string    `json:"text"`
	MediaURL    string    `json:"media_url,omitempty"`
	UnlockPrice int64     `json:"unlock_price"`
	SentTo      int       `json:"sent_to"`
	Revenue     int64     `json:"revenue"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification уведомление в общей ленте.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"` // INFO | SECURITY | PAYOUT
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Violation запись о нарушении безопасности.
type Violation struct {
	ID            string    `json:"id"`
	PerformerID   string    `json:"performer_id,omitempty"`
	PerformerName string    `json:"performer_name,omitempty"`
	Type          string    `json:"type"`
	Details       string    `json:"details,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
