package models

// Статусы трансляции модели
const (
	PerformerStatusLive    = "LIVE"
	PerformerStatusOffline = "OFFLINE"
	PerformerStatusPrivate = "PRIVATE"
	PerformerStatusBanned  = "BANNED"
)

// ValidPerformerStatuses список валидных статусов трансляции
var ValidPerformerStatuses = map[string]struct{}{
	PerformerStatusLive:    {},
	PerformerStatusOffline: {},
	PerformerStatusPrivate: {},
	PerformerStatusBanned:  {},
}

// ContentItem элемент платного контента модели.
type ContentItem struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // IMAGE | VIDEO
	URL      string `json:"url"`
	IsLocked bool   `json:"is_locked"`
	Price    int64  `json:"price"`
	Title    string `json:"title"`
	AlbumID  string `json:"album_id,omitempty"`
}

// MerchItem товар в магазине модели.
type MerchItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image,omitempty"`
	Type  string `json:"type"` // PHYSICAL | DIGITAL
	Stock *int   `json:"stock,omitempty"`
}

// TipMenuItem позиция тип-меню в комнате.
type TipMenuItem struct {
	Label string `json:"label"`
	Price int64  `json:"price"`
}

// ToyControl настроенный паттерн вибрации игрушки.
type ToyControl struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Duration  int    `json:"duration"`  // секунды
	Intensity int    `json:"intensity"` // 0-20
	Price     int64  `json:"price"`
	Icon      string `json:"icon,omitempty"`
}

// RoomGame интерактивная игра в комнате (колесо, кости).
type RoomGame struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // WHEEL | DICE
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
}

// TipGoal текущая цель по типам в комнате.
type TipGoal struct {
	Label         string `json:"label"`
	TargetAmount  int64  `json:"target_amount"`
	CurrentAmount int64  `json:"current_amount"`
}

// BannedViewer запись о бане зрителя в комнате.
type BannedViewer struct {
	UserID string `json:"user_id"`
	Until  int64  `json:"until"` // unix millis
}

// Performer описывает модель и её финансовое состояние.
// EarningsBalance — накопленная доля модели от транзакций (70%),
// уменьшается только через эскроу заявки на вывод.
type Performer struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Tags              []string       `json:"tags"`
	Viewers           int            `json:"viewers"`
	Thumbnail         string         `json:"thumbnail,omitempty"`
	Status            string         `json:"status"`
	Description       string         `json:"description,omitempty"`
	IsAI              bool           `json:"is_ai"`
	Country           string         `json:"country,omitempty"`
	HideCountry       bool           `json:"hide_country,omitempty"`
	SubscriptionPrice int64          `json:"subscription_price"`
	UnlockPrice       int64          `json:"unlock_price"`
	PrivateRoomPrice  int64          `json:"private_room_price"`
	SpyPrice          int64          `json:"spy_price"`
	KickPrice         int64          `json:"kick_price"`
	Rating            float64        `json:"rating"`
	RatingCount       int            `json:"rating_count"`
	EarningsBalance   int64          `json:"earnings"`
	Content           []ContentItem  `json:"content"`
	Merch             []MerchItem    `json:"merch"`
	Games             []RoomGame     `json:"games"`
	TipMenu           []TipMenuItem  `json:"tip_menu,omitempty"`
	ToyConnected      bool           `json:"toy_connected"`
	ToyControls       []ToyControl   `json:"toy_controls,omitempty"`
	CurrentTipGoal    *TipGoal       `json:"current_tip_goal,omitempty"`
	BlockedRegions    []string       `json:"blocked_regions"`
	BannedUsers       []BannedViewer `json:"banned_users"`
	WatermarkEnabled  bool           `json:"watermark_enabled,omitempty"`
	WatermarkText     string         `json:"watermark_text,omitempty"`
	SafetyScore       int            `json:"safety_score,omitempty"`
}

// ContentByID ищет элемент контента модели.
func (p *Performer) ContentByID(id string) *ContentItem {
	for i := range p.Content {
		if p.Content[i].ID == id {
			return &p.Content[i]
		}
	}
	return nil
}

// MerchByID ищет товар модели.
func (p *Performer) MerchByID(id string) *MerchItem {
	for i := range p.Merch {
		if p.Merch[i].ID == id {
			return &p.Merch[i]
		}
	}
	return nil
}
