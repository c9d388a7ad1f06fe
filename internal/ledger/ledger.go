// Package ledger реализует токеновый гроссбух платформы: перевод токенов
// между аккаунтами с фиксированным сплитом 70/30 и машину состояний заявок
// на вывод. Каждая операция — атомарный цикл над документом состояния.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
)

var (
	ErrAccountNotFound   = errors.New("аккаунт не найден")
	ErrPerformerNotFound = errors.New("модель не найдена")
	ErrTreasuryMissing   = errors.New("казначейский аккаунт платформы отсутствует")
	ErrInvalidAmount     = errors.New("сумма должна быть положительной")
	ErrInvalidChargeKind = errors.New("неизвестный вид списания")
)

// PrivilegeChecker отвечает, обладает ли аккаунт привилегией обхода
// гроссбуха. Единственная точка проверки: по вызовам она не размазывается.
type PrivilegeChecker interface {
	IsPrivileged(accountID string) bool
}

// Config внешние константы гроссбуха.
type Config struct {
	// PayeeShareRatio доля модели в каждой транзакции (0.70).
	PayeeShareRatio float64
	// MinWithdrawalTokens минимальный порог вывода в токенах.
	MinWithdrawalTokens int64
	// TokenPayoutRate курс токена к доллару для отображения выплат.
	TokenPayoutRate float64
}

// SettleResult итог перевода. Success=false означает нехватку баланса —
// это ожидаемое состояние, а не ошибка: вызывающий предлагает пополнение.
type SettleResult struct {
	Success       bool  `json:"success"`
	PayerBalance  int64 `json:"payer_balance"`
	PayeeShare    int64 `json:"payee_share,omitempty"`
	PlatformShare int64 `json:"platform_share,omitempty"`
}

// Ledger исполняет денежные операции над документом состояния.
type Ledger struct {
	state *repository.StateRepository
	priv  PrivilegeChecker
	cfg   Config
}

// New создаёт гроссбух. priv может быть nil, тогда привилегия
// определяется только ролью аккаунта в документе.
func New(state *repository.StateRepository, priv PrivilegeChecker, cfg Config) *Ledger {
	return &Ledger{state: state, priv: priv, cfg: cfg}
}

// Split делит сумму на долю модели и долю платформы. Доля модели
// округляется вверх, чтобы она никогда не теряла токен на округлении;
// остаток округления достаётся платформе. Сумма долей всегда равна amount.
func Split(amount int64, ratio float64) (payeeShare, platformShare int64) {
	payeeShare = int64(math.Ceil(float64(amount) * ratio))
	platformShare = amount - payeeShare
	return payeeShare, platformShare
}

// Settle переводит amount токенов от payer к payee с раскладкой 70/30.
// Привилегированный плательщик проходит бесплатно и без мутаций. При
// нехватке баланса возвращается Success=false и документ не меняется.
func (l *Ledger) Settle(ctx context.Context, payerID, payeeID string, amount int64, kind string) (*SettleResult, error) {
	return l.SettleWith(ctx, payerID, payeeID, amount, kind, nil)
}

// SettleWith делает то же, что Settle, и дополнительно выполняет apply
// внутри того же цикла над документом — уже после движения балансов.
// Так покупка и выдача права (подписка, разблокировка, списание остатка
// товара) применяются или откатываются вместе. Ошибка apply отменяет всё.
func (l *Ledger) SettleWith(ctx context.Context, payerID, payeeID string, amount int64, kind string, apply func(doc *models.Document) error) (*SettleResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, ok := models.ValidChargeKinds[kind]; !ok {
		return nil, fmt.Errorf("ledger: %w: %s", ErrInvalidChargeKind, kind)
	}

	result := &SettleResult{}

	// Привилегия проверяется один раз до обращения к документу:
	// мастер-админ существует только в сессии.
	if l.priv != nil && l.priv.IsPrivileged(payerID) {
		result.Success = true
		return result, nil
	}

	err := l.state.Update(ctx, func(doc *models.Document) (bool, error) {
		payer := doc.UserByID(payerID)
		if payer == nil {
			return false, fmt.Errorf("ledger: плательщик %s: %w", payerID, ErrAccountNotFound)
		}

		if payer.Role == models.RoleAdmin {
			result.Success = true
			result.PayerBalance = payer.TokenBalance
			// Админ платит ноль, но права покупки всё равно получает.
			if apply != nil {
				if err := apply(doc); err != nil {
					return false, err
				}
				return true, nil
			}
			return false, nil
		}

		if payer.TokenBalance < amount {
			result.Success = false
			result.PayerBalance = payer.TokenBalance
			return false, nil
		}

		treasury := doc.Treasury()
		if treasury == nil {
			return false, ErrTreasuryMissing
		}

		payeeShare, platformShare := Split(amount, l.cfg.PayeeShareRatio)

		payer.TokenBalance -= amount
		// Отсутствующий получатель долю не получает; платформа свою
		// долю получает всегда — поведение исходной системы.
		if payee := doc.PerformerByID(payeeID); payee != nil {
			payee.EarningsBalance += payeeShare
		}
		treasury.TokenBalance += platformShare

		if apply != nil {
			if err := apply(doc); err != nil {
				return false, err
			}
		}

		result.Success = true
		result.PayerBalance = payer.TokenBalance
		result.PayeeShare = payeeShare
		result.PlatformShare = platformShare
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Credit начисляет amount токенов аккаунту без дебета и без сплита:
// пополнение кошелька, админские гранты, реферальные бонусы.
func (l *Ledger) Credit(ctx context.Context, accountID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := l.state.Update(ctx, func(doc *models.Document) (bool, error) {
		account := doc.UserByID(accountID)
		if account == nil {
			return false, fmt.Errorf("ledger: аккаунт %s: %w", accountID, ErrAccountNotFound)
		}
		account.TokenBalance += amount
		balance = account.TokenBalance
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// View даёт читающий доступ к документу состояния без сохранения.
func (l *Ledger) View(ctx context.Context, fn func(doc *models.Document) error) error {
	return l.state.View(ctx, fn)
}

// Balance возвращает текущий баланс аккаунта.
func (l *Ledger) Balance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := l.state.View(ctx, func(doc *models.Document) error {
		account := doc.UserByID(accountID)
		if account == nil {
			return fmt.Errorf("ledger: аккаунт %s: %w", accountID, ErrAccountNotFound)
		}
		balance = account.TokenBalance
		return nil
	})
	return balance, err
}
