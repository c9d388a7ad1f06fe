package models

import "time"

// Роли пользователей платформы
const (
	RoleGuest = "GUEST"
	RoleFan   = "FAN"
	RoleModel = "MODEL"
	RoleAdmin = "ADMIN"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleGuest: {},
	RoleFan:   {},
	RoleModel: {},
	RoleAdmin: {},
}

// AccountSettings настройки аккаунта.
type AccountSettings struct {
	AutoTranslate     bool   `json:"auto_translate"`
	PreferredLanguage string `json:"preferred_language"`
	GeoNotifications  bool   `json:"geo_notifications"`
	EmailFrequency    string `json:"email_frequency"`
}

// Account описывает участника платформы и его кошелёк в токенах.
// TokenBalance никогда не уходит в минус: операция, которая сделала бы
// баланс отрицательным, обязана завершиться неудачей без побочных эффектов.
type Account struct {
	ID               string           `json:"id"`
	Username         string           `json:"username"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"password_hash,omitempty"`
	Role             string           `json:"role"`
	TokenBalance     int64            `json:"tokens"`
	IsVerified       bool             `json:"is_verified"`
	Subscriptions    []string         `json:"subscriptions"`
	Favorites        []string         `json:"favorites"`
	Following        []string         `json:"following"`
	UnlockedStreams  []string         `json:"unlocked_streams"`
	UnlockedContent  []string         `json:"unlocked_content"`
	UnlockedPosts    []string         `json:"unlocked_posts,omitempty"`
	UnlockedMessages []string         `json:"unlocked_messages,omitempty"`
	PurchasedMerch   []string         `json:"purchased_merch"`
	CryptoWallet     string           `json:"crypto_wallet,omitempty"`
	ReferralCode     string           `json:"referral_code,omitempty"`
	ReferredBy       string           `json:"referred_by,omitempty"`
	ReferralEarnings int64            `json:"referral_earnings"`
	ReferralCount    int              `json:"referral_count"`
	Settings         *AccountSettings `json:"settings,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	LastLoginAt      *time.Time       `json:"last_login_at,omitempty"`
}

// Sanitized возвращает копию аккаунта без хеша пароля. Документ хранит
// хеш как есть; в ответы API аккаунт попадает только через эту копию.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}

// HasSubscription проверяет активную подписку на модель.
func (a *Account) HasSubscription(performerID string) bool {
	return containsString(a.Subscriptions, performerID)
}

// HasUnlocked проверяет, разблокирован ли контент с данным id.
func (a *Account) HasUnlocked(list []string, id string) bool {
	return containsString(list, id)
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
