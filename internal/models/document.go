package models

// TreasuryAccountID id выделенного казначейского аккаунта платформы.
// Он получает 30% каждой транзакции. Создаётся при инициализации документа,
// ровно один; поиск "первого попавшегося админа" не используется.
const TreasuryAccountID = "platform-treasury"

// Document корневой документ состояния платформы. Хранилище оперирует
// им целиком: каждый read-mutate-write цикл сериализует весь документ.
type Document struct {
	TreasuryID    string              `json:"treasury_id"`
	Users         []Account           `json:"users"`
	Performers    []Performer         `json:"performers"`
	Posts         []FeedPost          `json:"posts"`
	Messages      []DirectMessage     `json:"messages"`
	Campaigns     []Campaign          `json:"campaigns"`
	Orders        []CustomOrder       `json:"orders"`
	Notifications []Notification      `json:"notifications"`
	Violations    []Violation         `json:"violations"`
	Withdrawals   []WithdrawalRequest `json:"withdrawals"`
}

// UserByID возвращает аккаунт по id или nil.
func (d *Document) UserByID(id string) *Account {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// UserByEmail возвращает аккаунт по email или username, как в форме входа.
func (d *Document) UserByEmail(email string) *Account {
	for i := range d.Users {
		if d.Users[i].Email == email || d.Users[i].Username == email {
			return &d.Users[i]
		}
	}
	return nil
}

// PerformerByID возвращает модель по id или nil.
func (d *Document) PerformerByID(id string) *Performer {
	for i := range d.Performers {
		if d.Performers[i].ID == id {
			return &d.Performers[i]
		}
	}
	return nil
}

// OrderByID возвращает кастомный заказ по id или nil.
func (d *Document) OrderByID(id string) *CustomOrder {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return &d.Orders[i]
		}
	}
	return nil
}

// WithdrawalByID возвращает заявку на вывод по id или nil.
func (d *Document) WithdrawalByID(id string) *WithdrawalRequest {
	for i := range d.Withdrawals {
		if d.Withdrawals[i].ID == id {
			return &d.Withdrawals[i]
		}
	}
	return nil
}

// Treasury возвращает казначейский аккаунт или nil, если документ повреждён.
func (d *Document) Treasury() *Account {
	if d.TreasuryID == "" {
		return nil
	}
	return d.UserByID(d.TreasuryID)
}
