package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeonlive/dungeon-backend/internal/models"
)

func TestRequestWithdrawal_EscrowsTokensImmediately(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 5000)

	req, err := l.RequestWithdrawal(context.Background(), "model-1", 3000, "BANK", "IBAN DE00")
	require.NoError(t, err)

	assert.Equal(t, models.WithdrawalStatusPending, req.Status)
	assert.Equal(t, int64(3000), req.AmountTokens)
	assert.InDelta(t, 150.0, req.AmountUSD, 0.001)
	assert.Equal(t, "Mistress", req.PerformerName)
	assert.Nil(t, req.ProcessedAt)

	// Токены ушли в эскроу сразу, до одобрения.
	assert.Equal(t, int64(2000), performerEarnings(t, state, "model-1"))
}

func TestRequestWithdrawal_BalanceBelowThreshold(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 1999)

	_, err := l.RequestWithdrawal(context.Background(), "model-1", 1999, "BANK", "")
	assert.ErrorIs(t, err, ErrBelowMinimumBalance)
	assert.Equal(t, int64(1999), performerEarnings(t, state, "model-1"))
}

func TestRequestWithdrawal_AmountBelowThreshold(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 5000)

	// Порог применяется к сумме заявки независимо от баланса.
	_, err := l.RequestWithdrawal(context.Background(), "model-1", 1500, "BANK", "")
	assert.ErrorIs(t, err, ErrBelowMinimumRequest)
	assert.Equal(t, int64(5000), performerEarnings(t, state, "model-1"))
}

func TestRequestWithdrawal_InsufficientEarnings(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 2500)

	_, err := l.RequestWithdrawal(context.Background(), "model-1", 3000, "BANK", "")
	assert.ErrorIs(t, err, ErrInsufficientEarnings)
}

func TestRequestWithdrawal_InvalidAmount(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 5000)

	_, err := l.RequestWithdrawal(context.Background(), "model-1", 0, "BANK", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRequestWithdrawal_PerformerNotFound(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.RequestWithdrawal(context.Background(), "ghost", 3000, "BANK", "")
	assert.ErrorIs(t, err, ErrPerformerNotFound)
}

func TestApproveWithdrawal_DoesNotTouchBalance(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 5000)

	req, err := l.RequestWithdrawal(context.Background(), "model-1", 3000, "BANK", "")
	require.NoError(t, err)

	approved, err := l.ApproveWithdrawal(context.Background(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)
	assert.Equal(t, int64(2000), performerEarnings(t, state, "model-1"))
}

func TestApproveWithdrawal_TerminalStateIsFinal(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 5000)

	req, err := l.RequestWithdrawal(context.Background(), "model-1", 3000, "BANK", "")
	require.NoError(t, err)

	_, err = l.ApproveWithdrawal(context.Background(), req.ID)
	require.NoError(t, err)

	_, err = l.ApproveWithdrawal(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	_, err = l.RejectWithdrawal(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	// Повторные попытки не вернули и не списали токены.
	assert.Equal(t, int64(2000), performerEarnings(t, state, "model-1"))
}

func TestRejectWithdrawal_RefundsEscrow(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 5000)

	req, err := l.RequestWithdrawal(context.Background(), "model-1", 3000, "BANK", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), performerEarnings(t, state, "model-1"))

	rejected, err := l.RejectWithdrawal(context.Background(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, models.WithdrawalStatusRejected, rejected.Status)
	assert.Equal(t, int64(5000), performerEarnings(t, state, "model-1"))
}

func TestWithdrawals_NewestFirst(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 10000)

	first, err := l.RequestWithdrawal(context.Background(), "model-1", 2000, "BANK", "")
	require.NoError(t, err)
	second, err := l.RequestWithdrawal(context.Background(), "model-1", 3000, "CRYPTO", "")
	require.NoError(t, err)

	list, err := l.ListWithdrawals(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestPendingWithdrawals_FiltersProcessed(t *testing.T) {
	l, state := newTestLedger(t)
	seedFanAndPerformer(t, state, 0, 10000)

	first, err := l.RequestWithdrawal(context.Background(), "model-1", 2000, "BANK", "")
	require.NoError(t, err)
	second, err := l.RequestWithdrawal(context.Background(), "model-1", 3000, "BANK", "")
	require.NoError(t, err)

	_, err = l.ApproveWithdrawal(context.Background(), first.ID)
	require.NoError(t, err)

	pending, err := l.PendingWithdrawals(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestWithdrawalsByPerformer(t *testing.T) {
	l, state := newTestLedger(t)
	err := state.Update(context.Background(), func(doc *models.Document) (bool, error) {
		doc.Performers = append(doc.Performers,
			models.Performer{ID: "model-1", Name: "Mistress", EarningsBalance: 5000},
			models.Performer{ID: "model-2", Name: "Raven", EarningsBalance: 5000},
		)
		return true, nil
	})
	require.NoError(t, err)

	_, err = l.RequestWithdrawal(context.Background(), "model-1", 2000, "BANK", "")
	require.NoError(t, err)
	_, err = l.RequestWithdrawal(context.Background(), "model-2", 2000, "BANK", "")
	require.NoError(t, err)

	mine, err := l.WithdrawalsByPerformer(context.Background(), "model-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "model-1", mine[0].PerformerID)
}
