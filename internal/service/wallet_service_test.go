package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/session"
	"github.com/dungeonlive/dungeon-backend/internal/store"
)

type failingGateway struct{}

func (failingGateway) Charge(ctx context.Context, accountID, method string, amountUSD float64) error {
	return errors.New("card declined")
}

func newTestWalletService(t *testing.T, gateway PaymentGateway) (*WalletService, *repository.StateRepository) {
	t.Helper()
	state := repository.NewStateRepository(store.NewMemoryStore(), "test_db")
	directory := session.NewDirectory(state, "admin@test.local")
	l := ledger.New(state, directory, ledger.Config{
		PayeeShareRatio:     0.70,
		MinWithdrawalTokens: 2000,
		TokenPayoutRate:     0.05,
	})

	err := state.Update(context.Background(), func(doc *models.Document) (bool, error) {
		doc.Users = append(doc.Users, models.Account{ID: "fan-1", Role: models.RoleFan, TokenBalance: 50})
		return true, nil
	})
	require.NoError(t, err)

	return NewWalletService(l, gateway, 0.05), state
}

func TestWalletService_TopUpCreditsPackage(t *testing.T) {
	svc, _ := newTestWalletService(t, SimulatedGateway{})

	result, err := svc.TopUp(context.Background(), "fan-1", "pack-500", models.PaymentMethodCard)
	require.NoError(t, err)

	assert.Equal(t, int64(500), result.Credited)
	assert.Equal(t, int64(550), result.Balance)
}

func TestWalletService_TopUpUnknownPackage(t *testing.T) {
	svc, _ := newTestWalletService(t, SimulatedGateway{})

	_, err := svc.TopUp(context.Background(), "fan-1", "pack-999", models.PaymentMethodCard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "пакет токенов не найден")
}

func TestWalletService_TopUpUnknownMethod(t *testing.T) {
	svc, _ := newTestWalletService(t, SimulatedGateway{})

	_, err := svc.TopUp(context.Background(), "fan-1", "pack-500", "BARTER")
	assert.Error(t, err)
}

func TestWalletService_TopUpGatewayDeclined(t *testing.T) {
	svc, state := newTestWalletService(t, failingGateway{})

	_, err := svc.TopUp(context.Background(), "fan-1", "pack-500", models.PaymentMethodCard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "платёж отклонён")

	// Баланс не изменился: без подтверждения шлюза токены не начисляются.
	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.Equal(t, int64(50), doc.UserByID("fan-1").TokenBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestWalletService_Packages(t *testing.T) {
	svc, _ := newTestWalletService(t, SimulatedGateway{})

	packages := svc.Packages()
	assert.NotEmpty(t, packages)
}

func TestWalletService_TokensToUSD(t *testing.T) {
	svc, _ := newTestWalletService(t, SimulatedGateway{})

	assert.InDelta(t, 100.0, svc.TokensToUSD(2000), 0.001)
}
