package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dungeonlive/dungeon-backend/internal/models"
)

var (
	ErrInsufficientEarnings   = errors.New("недостаточно заработанных токенов")
	ErrBelowMinimumBalance    = errors.New("заработок ниже минимального порога вывода")
	ErrBelowMinimumRequest    = errors.New("сумма заявки ниже минимального порога вывода")
	ErrWithdrawalNotFound     = errors.New("заявка на вывод не найдена")
	ErrInvalidStateTransition = errors.New("заявка уже обработана")
)

// RequestWithdrawal создаёт заявку модели на вывод. Токены списываются
// с earnings немедленно (эскроу), до одобрения. Новая заявка встаёт в
// начало списка: порядок "свежие первыми" — наблюдаемый контракт.
func (l *Ledger) RequestWithdrawal(ctx context.Context, performerID string, amountTokens int64, method, details string) (*models.WithdrawalRequest, error) {
	if amountTokens <= 0 {
		return nil, ErrInvalidAmount
	}

	var created models.WithdrawalRequest
	err := l.state.Update(ctx, func(doc *models.Document) (bool, error) {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return false, fmt.Errorf("ledger: модель %s: %w", performerID, ErrPerformerNotFound)
		}

		if performer.EarningsBalance < amountTokens {
			return false, ErrInsufficientEarnings
		}
		// Порог проверяется по балансу и по сумме независимо.
		if performer.EarningsBalance < l.cfg.MinWithdrawalTokens {
			return false, fmt.Errorf("ledger: %w (минимум %d токенов)", ErrBelowMinimumBalance, l.cfg.MinWithdrawalTokens)
		}
		if amountTokens < l.cfg.MinWithdrawalTokens {
			return false, fmt.Errorf("ledger: %w (минимум %d токенов)", ErrBelowMinimumRequest, l.cfg.MinWithdrawalTokens)
		}

		performer.EarningsBalance -= amountTokens

		created = models.WithdrawalRequest{
			ID:            "wd-" + uuid.NewString(),
			PerformerID:   performer.ID,
			PerformerName: performer.Name,
			AmountTokens:  amountTokens,
			AmountUSD:     float64(amountTokens) * l.cfg.TokenPayoutRate,
			Status:        models.WithdrawalStatusPending,
			Method:        method,
			Details:       details,
			RequestedAt:   time.Now(),
		}
		doc.Withdrawals = append([]models.WithdrawalRequest{created}, doc.Withdrawals...)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ApproveWithdrawal переводит заявку в терминальный статус APPROVED.
// Баланс не меняется: токены уже списаны при создании заявки.
func (l *Ledger) ApproveWithdrawal(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	var updated models.WithdrawalRequest
	err := l.state.Update(ctx, func(doc *models.Document) (bool, error) {
		req := doc.WithdrawalByID(requestID)
		if req == nil {
			return false, fmt.Errorf("ledger: заявка %s: %w", requestID, ErrWithdrawalNotFound)
		}
		if req.Status != models.WithdrawalStatusPending {
			return false, fmt.Errorf("ledger: заявка %s в статусе %s: %w", requestID, req.Status, ErrInvalidStateTransition)
		}

		now := time.Now()
		req.Status = models.WithdrawalStatusApproved
		req.ProcessedAt = &now
		updated = *req
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RejectWithdrawal переводит заявку в терминальный статус REJECTED и
// возвращает эскроу-токены на earnings модели.
func (l *Ledger) RejectWithdrawal(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	var updated models.WithdrawalRequest
	err := l.state.Update(ctx, func(doc *models.Document) (bool, error) {
		req := doc.WithdrawalByID(requestID)
		if req == nil {
			return false, fmt.Errorf("ledger: заявка %s: %w", requestID, ErrWithdrawalNotFound)
		}
		if req.Status != models.WithdrawalStatusPending {
			return false, fmt.Errorf("ledger: заявка %s в статусе %s: %w", requestID, req.Status, ErrInvalidStateTransition)
		}

		now := time.Now()
		req.Status = models.WithdrawalStatusRejected
		req.ProcessedAt = &now

		if performer := doc.PerformerByID(req.PerformerID); performer != nil {
			performer.EarningsBalance += req.AmountTokens
		}

		updated = *req
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListWithdrawals возвращает все заявки, свежие первыми.
func (l *Ledger) ListWithdrawals(ctx context.Context) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	err := l.state.View(ctx, func(doc *models.Document) error {
		out = append(out, doc.Withdrawals...)
		return nil
	})
	return out, err
}

// PendingWithdrawals возвращает очередь заявок на обработку.
func (l *Ledger) PendingWithdrawals(ctx context.Context) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	err := l.state.View(ctx, func(doc *models.Document) error {
		for _, w := range doc.Withdrawals {
			if w.Status == models.WithdrawalStatusPending {
				out = append(out, w)
			}
		}
		return nil
	})
	return out, err
}

// WithdrawalsByPerformer возвращает заявки конкретной модели.
func (l *Ledger) WithdrawalsByPerformer(ctx context.Context, performerID string) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	err := l.state.View(ctx, func(doc *models.Document) error {
		for _, w := range doc.Withdrawals {
			if w.PerformerID == performerID {
				out = append(out, w)
			}
		}
		return nil
	})
	return out, err
}
