package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/session"
	"github.com/dungeonlive/dungeon-backend/internal/store"
)

func newTestOrderService(t *testing.T, fanBalance int64) (*OrderService, *repository.StateRepository) {
	t.Helper()
	state := repository.NewStateRepository(store.NewMemoryStore(), "test_db")
	directory := session.NewDirectory(state, "admin@test.local")
	l := ledger.New(state, directory, ledger.Config{
		PayeeShareRatio:     0.70,
		MinWithdrawalTokens: 2000,
		TokenPayoutRate:     0.05,
	})

	err := state.Update(context.Background(), func(doc *models.Document) (bool, error) {
		doc.Users = append(doc.Users, models.Account{
			ID:           "fan-1",
			Username:     "fanboy",
			Role:         models.RoleFan,
			TokenBalance: fanBalance,
		})
		doc.Performers = append(doc.Performers, models.Performer{ID: "model-1", Name: "Mistress"})
		return true, nil
	})
	require.NoError(t, err)

	return NewOrderService(state, l), state
}

func TestOrderService_CreateDoesNotChargeTokens(t *testing.T) {
	svc, state := newTestOrderService(t, 100)

	order, err := svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "custom clip please")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "fanboy", order.FanName)
	assert.Equal(t, int64(0), order.Price)

	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.Equal(t, int64(100), doc.UserByID("fan-1").TokenBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderService_CreateValidation(t *testing.T) {
	svc, _ := newTestOrderService(t, 100)

	_, err := svc.Create(context.Background(), "fan-1", "model-1", "SCULPTURE", "desc")
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "")
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), "fan-1", "ghost", "VIDEO", "desc")
	assert.Error(t, err)
}

func TestOrderService_AcceptChargesFanAndSetsPrice(t *testing.T) {
	svc, state := newTestOrderService(t, 100)

	order, err := svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "custom clip")
	require.NoError(t, err)

	result, err := svc.Accept(context.Background(), "model-1", order.ID, 60)
	require.NoError(t, err)
	assert.True(t, result.Success)

	err = state.View(context.Background(), func(doc *models.Document) error {
		stored := doc.OrderByID(order.ID)
		assert.Equal(t, models.OrderStatusAccepted, stored.Status)
		assert.Equal(t, int64(60), stored.Price)
		assert.Equal(t, int64(40), doc.UserByID("fan-1").TokenBalance)
		assert.Equal(t, int64(42), doc.PerformerByID("model-1").EarningsBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderService_AcceptInsufficientBalanceKeepsOrderPending(t *testing.T) {
	svc, state := newTestOrderService(t, 10)

	order, err := svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "custom clip")
	require.NoError(t, err)

	result, err := svc.Accept(context.Background(), "model-1", order.ID, 60)
	require.NoError(t, err)
	assert.False(t, result.Success)

	err = state.View(context.Background(), func(doc *models.Document) error {
		stored := doc.OrderByID(order.ID)
		assert.Equal(t, models.OrderStatusPending, stored.Status)
		assert.Equal(t, int64(0), stored.Price)
		assert.Equal(t, int64(10), doc.UserByID("fan-1").TokenBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderService_AcceptOnlyByOwningPerformer(t *testing.T) {
	svc, _ := newTestOrderService(t, 100)

	order, err := svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "custom clip")
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), "model-2", order.ID, 60)
	assert.Error(t, err)

	_, err = svc.Accept(context.Background(), "model-1", order.ID, 0)
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestOrderService_CompleteRequiresAcceptedStatus(t *testing.T) {
	svc, state := newTestOrderService(t, 100)

	order, err := svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "custom clip")
	require.NoError(t, err)

	// PENDING -> COMPLETED запрещён.
	err = svc.Complete(context.Background(), "model-1", order.ID, "https://cdn/clip.mp4")
	assert.Error(t, err)

	_, err = svc.Accept(context.Background(), "model-1", order.ID, 60)
	require.NoError(t, err)

	err = svc.Complete(context.Background(), "model-1", order.ID, "https://cdn/clip.mp4")
	require.NoError(t, err)

	err = state.View(context.Background(), func(doc *models.Document) error {
		stored := doc.OrderByID(order.ID)
		assert.Equal(t, models.OrderStatusCompleted, stored.Status)
		assert.Equal(t, "https://cdn/clip.mp4", stored.DeliveryURL)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderService_RejectPendingOrder(t *testing.T) {
	svc, state := newTestOrderService(t, 100)

	order, err := svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "custom clip")
	require.NoError(t, err)

	err = svc.Reject(context.Background(), "model-1", order.ID)
	require.NoError(t, err)

	// Повторная обработка невозможна, баланс фаната не тронут.
	err = svc.Reject(context.Background(), "model-1", order.ID)
	assert.Error(t, err)

	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.Equal(t, models.OrderStatusRejected, doc.OrderByID(order.ID).Status)
		assert.Equal(t, int64(100), doc.UserByID("fan-1").TokenBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderService_Listing(t *testing.T) {
	svc, _ := newTestOrderService(t, 100)

	first, err := svc.Create(context.Background(), "fan-1", "model-1", "VIDEO", "first")
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "fan-1", "model-1", "PHOTO", "second")
	require.NoError(t, err)

	byFan, err := svc.ListByFan(context.Background(), "fan-1")
	require.NoError(t, err)
	require.Len(t, byFan, 2)
	assert.Equal(t, second.ID, byFan[0].ID)
	assert.Equal(t, first.ID, byFan[1].ID)

	byPerformer, err := svc.ListByPerformer(context.Background(), "model-1")
	require.NoError(t, err)
	assert.Len(t, byPerformer, 2)
}
