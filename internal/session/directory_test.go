package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/store"
)

func newTestDirectory(t *testing.T) (*Directory, *repository.StateRepository) {
	t.Helper()
	state := repository.NewStateRepository(store.NewMemoryStore(), "test_db")
	return NewDirectory(state, "admin@test.local"), state
}

func TestCurrentIdentity_MasterIsCachedNotStored(t *testing.T) {
	directory, state := newTestDirectory(t)

	account, err := directory.CurrentIdentity(context.Background(), MasterAdminID)
	require.NoError(t, err)

	assert.Equal(t, MasterAdminID, account.ID)
	assert.Equal(t, models.RoleAdmin, account.Role)
	assert.Equal(t, "admin@test.local", account.Email)
	assert.Equal(t, int64(999999999), account.TokenBalance)

	// В документе мастер-админа нет: его личность живёт только в сессии.
	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.Nil(t, doc.UserByID(MasterAdminID))
		return nil
	})
	require.NoError(t, err)
}

func TestCurrentIdentity_RegularAccountIsReRead(t *testing.T) {
	directory, state := newTestDirectory(t)

	err := state.Update(context.Background(), func(doc *models.Document) (bool, error) {
		doc.Users = append(doc.Users, models.Account{
			ID:           "fan-1",
			Username:     "fan",
			Role:         models.RoleFan,
			TokenBalance: 100,
		})
		return true, nil
	})
	require.NoError(t, err)

	account, err := directory.CurrentIdentity(context.Background(), "fan-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.TokenBalance)

	// Следующий запрос видит результат прошедшей операции.
	err = state.Update(context.Background(), func(doc *models.Document) (bool, error) {
		doc.UserByID("fan-1").TokenBalance = 40
		return true, nil
	})
	require.NoError(t, err)

	account, err = directory.CurrentIdentity(context.Background(), "fan-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), account.TokenBalance)
}

func TestCurrentIdentity_ReturnsCopy(t *testing.T) {
	directory, state := newTestDirectory(t)

	err := state.Update(context.Background(), func(doc *models.Document) (bool, error) {
		doc.Users = append(doc.Users, models.Account{ID: "fan-1", TokenBalance: 100})
		return true, nil
	})
	require.NoError(t, err)

	account, err := directory.CurrentIdentity(context.Background(), "fan-1")
	require.NoError(t, err)
	account.TokenBalance = 0

	reread, err := directory.CurrentIdentity(context.Background(), "fan-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), reread.TokenBalance)
}

func TestCurrentIdentity_NotFound(t *testing.T) {
	directory, _ := newTestDirectory(t)

	_, err := directory.CurrentIdentity(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrIdentityNotFound)

	_, err = directory.CurrentIdentity(context.Background(), "")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestIsPrivileged(t *testing.T) {
	directory, _ := newTestDirectory(t)

	assert.True(t, directory.IsPrivileged(MasterAdminID))
	assert.False(t, directory.IsPrivileged("fan-1"))
	assert.False(t, directory.IsPrivileged(""))
}
