package models

import "time"

// Виды списаний: каждая трата токенов проходит через общий расчёт 70/30.
const (
	ChargeKindSubscription  = "subscription"
	ChargeKindContentUnlock = "content-unlock"
	ChargeKindTip           = "tip"
	ChargeKindMerch         = "merch-purchase"
	ChargeKindRoomAction    = "room-action"
	ChargeKindPostUnlock    = "post-unlock"
	ChargeKindMessageUnlock = "message-unlock"
	ChargeKindGame          = "game"
	ChargeKindToy           = "toy"
	ChargeKindCustomOrder   = "custom-order"
)

// ValidChargeKinds список валидных видов списаний
var ValidChargeKinds = map[string]struct{}{
	ChargeKindSubscription:  {},
	ChargeKindContentUnlock: {},
	ChargeKindTip:           {},
	ChargeKindMerch:         {},
	ChargeKindRoomAction:    {},
	ChargeKindPostUnlock:    {},
	ChargeKindMessageUnlock: {},
	ChargeKindGame:          {},
	ChargeKindToy:           {},
	ChargeKindCustomOrder:   {},
}

// Статусы заявок на вывод
const (
	WithdrawalStatusPending  = "PENDING"
	WithdrawalStatusApproved = "APPROVED"
	WithdrawalStatusRejected = "REJECTED"
)

// WithdrawalRequest заявка модели на вывод заработанных токенов.
// Токены списываются с earnings в момент создания (эскроу): APPROVED
// баланс не меняет, REJECTED возвращает токены обратно.
type WithdrawalRequest struct {
	ID            string     `json:"id"`
	PerformerID   string     `json:"performer_id"`
	PerformerName string     `json:"performer_name"`
	AmountTokens  int64      `json:"amount_tokens"`
	AmountUSD     float64    `json:"amount_usd"`
	Status        string     `json:"status"`
	Method        string     `json:"method"`
	Details       string     `json:"details"`
	RequestedAt   time.Time  `json:"requested_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// TokenPackage пакет токенов для пополнения кошелька.
type TokenPackage struct {
	ID       string  `json:"id"`
	Tokens   int64   `json:"tokens"`
	PriceUSD float64 `json:"price_usd"`
	Popular  bool    `json:"popular,omitempty"`
}

// Способы оплаты пополнения (симулируемые шлюзы)
const (
	PaymentMethodCard        = "CARD"
	PaymentMethodMobileMoney = "MOBILE_MONEY"
	PaymentMethodCrypto      = "CRYPTO"
)

// TokenPackages доступные пакеты пополнения.
var TokenPackages = []TokenPackage{
	{ID: "pack-100", Tokens: 100, PriceUSD: 4.99},
	{ID: "pack-500", Tokens: 500, PriceUSD: 19.99, Popular: true},
	{ID: "pack-1000", Tokens: 1000, PriceUSD: 34.99},
	{ID: "pack-5000", Tokens: 5000, PriceUSD: 149.99},
}
