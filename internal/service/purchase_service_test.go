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

func newTestPurchaseService(t *testing.T) (*PurchaseService, *repository.StateRepository) {
	t.Helper()
	state := repository.NewStateRepository(store.NewMemoryStore(), "test_db")
	directory := session.NewDirectory(state, "admin@test.local")
	l := ledger.New(state, directory, ledger.Config{
		PayeeShareRatio:     0.70,
		MinWithdrawalTokens: 2000,
		TokenPayoutRate:     0.05,
	})
	return NewPurchaseService(l), state
}

func seedPurchaseFixtures(t *testing.T, state *repository.StateRepository, fanBalance int64) {
	t.Helper()
	err := state.Update(context.Background(), func(doc *models.Document) (bool, error) {
		doc.Users = append(doc.Users, models.Account{
			ID:           "fan-1",
			Username:     "fan",
			Role:         models.RoleFan,
			TokenBalance: fanBalance,
		})
		doc.Performers = append(doc.Performers, models.Performer{
			ID:                "model-1",
			Name:              "Mistress",
			SubscriptionPrice: 50,
			UnlockPrice:       10,
			PrivateRoomPrice:  100,
			SpyPrice:          25,
			KickPrice:         100,
			CurrentTipGoal:    &models.TipGoal{Label: "new whip", TargetAmount: 1000},
			Content: []models.ContentItem{
				{ID: "c1", Title: "clip", Price: 30},
			},
			Merch: []models.MerchItem{
				{ID: "m1", Name: "mug", Price: 40, Stock: intPtr(1)},
			},
		})
		return true, nil
	})
	require.NoError(t, err)
}

func TestPurchaseService_SubscribeGrantsEntitlement(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 100)

	result, err := svc.Subscribe(context.Background(), "fan-1", "model-1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(50), result.PayerBalance)

	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.True(t, doc.UserByID("fan-1").HasSubscription("model-1"))
		assert.Equal(t, int64(35), doc.PerformerByID("model-1").EarningsBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestPurchaseService_SubscribeInsufficientBalance(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 10)

	result, err := svc.Subscribe(context.Background(), "fan-1", "model-1")
	require.NoError(t, err)
	assert.False(t, result.Success)

	err = state.View(context.Background(), func(doc *models.Document) error {
		fan := doc.UserByID("fan-1")
		assert.Equal(t, int64(10), fan.TokenBalance)
		assert.False(t, fan.HasSubscription("model-1"))
		return nil
	})
	require.NoError(t, err)
}

func TestPurchaseService_SubscribeUnknownPerformer(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 100)

	_, err := svc.Subscribe(context.Background(), "fan-1", "ghost")
	assert.Error(t, err)
}

func TestPurchaseService_TipMovesGoalProgress(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 100)

	result, err := svc.Tip(context.Background(), "fan-1", "model-1", 60)
	require.NoError(t, err)
	assert.True(t, result.Success)

	err = state.View(context.Background(), func(doc *models.Document) error {
		performer := doc.PerformerByID("model-1")
		assert.Equal(t, int64(60), performer.CurrentTipGoal.CurrentAmount)
		assert.Equal(t, int64(42), performer.EarningsBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestPurchaseService_TipInvalidAmount(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 100)

	_, err := svc.Tip(context.Background(), "fan-1", "model-1", 0)
	assert.Error(t, err)
}

func TestPurchaseService_UnlockContent(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 100)

	result, err := svc.UnlockContent(context.Background(), "fan-1", "model-1", "c1")
	require.NoError(t, err)
	assert.True(t, result.Success)

	err = state.View(context.Background(), func(doc *models.Document) error {
		fan := doc.UserByID("fan-1")
		assert.True(t, fan.HasUnlocked(fan.UnlockedContent, "c1"))
		assert.Equal(t, int64(70), fan.TokenBalance)
		return nil
	})
	require.NoError(t, err)

	_, err = svc.UnlockContent(context.Background(), "fan-1", "model-1", "nope")
	assert.Error(t, err)
}

func TestPurchaseService_BuyMerchDecrementsStock(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 100)

	result, err := svc.BuyMerch(context.Background(), "fan-1", "model-1", "m1")
	require.NoError(t, err)
	assert.True(t, result.Success)

	err = state.View(context.Background(), func(doc *models.Document) error {
		item := doc.PerformerByID("model-1").MerchByID("m1")
		require.NotNil(t, item.Stock)
		assert.Equal(t, 0, *item.Stock)
		return nil
	})
	require.NoError(t, err)

	// Второй экземпляр купить нельзя: склад пуст.
	_, err = svc.BuyMerch(context.Background(), "fan-1", "model-1", "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "товар закончился")
}

func TestPurchaseService_RoomActionPrices(t *testing.T) {
	svc, state := newTestPurchaseService(t)
	seedPurchaseFixtures(t, state, 200)

	result, err := svc.RoomAction(context.Background(), "fan-1", "model-1", RoomActionSpy)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(175), result.PayerBalance)

	_, err = svc.RoomAction(context.Background(), "fan-1", "model-1", "DANCE")
	assert.Error(t, err)
}
