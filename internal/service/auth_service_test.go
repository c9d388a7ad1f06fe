package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/session"
	"github.com/dungeonlive/dungeon-backend/internal/store"
)

func newTestAuthService(t *testing.T) (*AuthService, *repository.StateRepository) {
	t.Helper()
	state := repository.NewStateRepository(store.NewMemoryStore(), "test_db")
	directory := session.NewDirectory(state, "admin@test.local")
	tokens := NewTokenManager("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 720*time.Hour)
	return NewAuthService(state, directory, tokens, "admin@test.local", "masterkey"), state
}

func TestAuthService_RegisterFan(t *testing.T) {
	svc, state := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "fan@test.local",
		Password: "Str0ngPass!",
		Username: "fanboy",
		Role:     models.RoleFan,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleFan, result.Account.Role)
	assert.Equal(t, int64(StarterTokensFan), result.Account.TokenBalance)
	assert.True(t, result.Account.IsVerified)
	assert.NotEmpty(t, result.Account.ReferralCode)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)

	// Карточка перформера фанату не заводится.
	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.Nil(t, doc.PerformerByID(result.Account.ID))
		return nil
	})
	require.NoError(t, err)
}

func TestAuthService_RegisterModelCreatesPerformerCard(t *testing.T) {
	svc, state := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "model@test.local",
		Password: "Str0ngPass!",
		Username: "mistress",
		Role:     models.RoleModel,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Account.TokenBalance)
	assert.False(t, result.Account.IsVerified)

	err = state.View(context.Background(), func(doc *models.Document) error {
		performer := doc.PerformerByID(result.Account.ID)
		require.NotNil(t, performer)
		assert.Equal(t, "mistress", performer.Name)
		assert.Equal(t, models.PerformerStatusOffline, performer.Status)
		assert.Equal(t, int64(0), performer.EarningsBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	in := RegisterInput{
		Email:    "fan@test.local",
		Password: "Str0ngPass!",
		Username: "fanboy",
		Role:     models.RoleFan,
	}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	in.Username = "otherfan"
	_, err = svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email уже зарегистрирован")
}

func TestAuthService_RegisterInvalidRole(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "fan@test.local",
		Password: "Str0ngPass!",
		Username: "fanboy",
		Role:     models.RoleAdmin,
	})
	assert.Error(t, err)
}

func TestAuthService_ReferralBonusGoesToInviter(t *testing.T) {
	svc, state := newTestAuthService(t)

	inviter, err := svc.Register(context.Background(), RegisterInput{
		Email:    "inviter@test.local",
		Password: "Str0ngPass!",
		Username: "inviter",
		Role:     models.RoleFan,
	})
	require.NoError(t, err)

	invited, err := svc.Register(context.Background(), RegisterInput{
		Email:        "invited@test.local",
		Password:     "Str0ngPass!",
		Username:     "invited",
		Role:         models.RoleFan,
		ReferralCode: inviter.Account.ReferralCode,
	})
	require.NoError(t, err)
	assert.Equal(t, inviter.Account.ID, invited.Account.ReferredBy)

	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.Equal(t, 1, doc.UserByID(inviter.Account.ID).ReferralCount)
		return nil
	})
	require.NoError(t, err)
}

func TestAuthService_PasswordHashSurvivesDocumentRoundTrip(t *testing.T) {
	svc, state := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email:    "fan@test.local",
		Password: "Str0ngPass!",
		Username: "fanboy",
		Role:     models.RoleFan,
	})
	require.NoError(t, err)

	// Хеш должен пережить сериализацию документа: иначе вход невозможен.
	err = state.View(context.Background(), func(doc *models.Document) error {
		stored := doc.UserByID(registered.Account.ID)
		require.NotNil(t, stored)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Str0ngPass!")))
		return nil
	})
	require.NoError(t, err)
}

func TestAuthService_LoginSuccess(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "fan@test.local",
		Password: "Str0ngPass!",
		Username: "fanboy",
		Role:     models.RoleFan,
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "fan@test.local", "Str0ngPass!")
	require.NoError(t, err)
	assert.Equal(t, "fanboy", result.Account.Username)
	assert.NotNil(t, result.Account.LastLoginAt)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "fan@test.local",
		Password: "Str0ngPass!",
		Username: "fanboy",
		Role:     models.RoleFan,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "fan@test.local", "wrong")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ghost@test.local", "Str0ngPass!")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_MasterAdminLoginSkipsDocument(t *testing.T) {
	svc, state := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "admin@test.local", "masterkey")
	require.NoError(t, err)

	assert.Equal(t, session.MasterAdminID, result.Account.ID)
	assert.Equal(t, models.RoleAdmin, result.Account.Role)

	err = state.View(context.Background(), func(doc *models.Document) error {
		assert.Nil(t, doc.UserByID(session.MasterAdminID))
		return nil
	})
	require.NoError(t, err)
}

func TestAuthService_RefreshRotatesPair(t *testing.T) {
	svc, _ := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email:    "fan@test.local",
		Password: "Str0ngPass!",
		Username: "fanboy",
		Role:     models.RoleFan,
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), registered.TokenPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, refreshed.Account.ID)

	_, err = svc.Refresh(context.Background(), "garbage-token")
	assert.Error(t, err)
}
