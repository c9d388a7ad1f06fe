package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/session"
	"github.com/dungeonlive/dungeon-backend/internal/validation"
)

// StarterTokensFan стартовый баланс нового фаната.
const StarterTokensFan = 100

// AuthService инкапсулирует регистрацию и аутентификацию.
type AuthService struct {
	state        *repository.StateRepository
	directory    *session.Directory
	tokenManager *TokenManager

	masterEmail    string
	masterPassword string
}

// RegisterInput данные пользователя при регистрации.
type RegisterInput struct {
	Email        string
	Password     string
	Username     string
	Role         string // FAN | MODEL
	ReferralCode string
	CryptoWallet string
}

// AuthResult итог регистрации или входа.
type AuthResult struct {
	Account   *models.Account `json:"account"`
	TokenPair *TokenPair      `json:"tokens"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(state *repository.StateRepository, directory *session.Directory, tokenManager *TokenManager, masterEmail, masterPassword string) *AuthService {
	return &AuthService{
		state:          state,
		directory:      directory,
		tokenManager:   tokenManager,
		masterEmail:    masterEmail,
		masterPassword: masterPassword,
	}
}

// Register создаёт аккаунт фаната или модели. Для модели сразу заводится
// карточка перформера в статусе OFFLINE, неверифицированная до одобрения
// админом. Фанат получает стартовые токены, реферал — бонус с кода.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Role != models.RoleFan && in.Role != models.RoleModel {
		return nil, apperror.New(apperror.ErrCodeValidation, "роль должна быть FAN или MODEL")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	var account models.Account
	err = s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if doc.UserByEmail(email) != nil {
			return false, apperror.New(apperror.ErrCodeConflict, "email уже зарегистрирован")
		}

		var startTokens int64
		if in.Role == models.RoleFan {
			startTokens = StarterTokensFan
		}

		account = models.Account{
			ID:              strings.ToLower(in.Role) + "-" + uuid.NewString(),
			Username:        in.Username,
			Email:           email,
			PasswordHash:    string(passHash),
			Role:            in.Role,
			TokenBalance:    startTokens,
			IsVerified:      in.Role == models.RoleFan,
			Subscriptions:   []string{},
			Favorites:       []string{},
			Following:       []string{},
			UnlockedStreams: []string{},
			UnlockedContent: []string{},
			PurchasedMerch:  []string{},
			CryptoWallet:    in.CryptoWallet,
			ReferralCode:    newReferralCode(),
			CreatedAt:       time.Now(),
		}

		// Реферальный код даёт бонус пригласившему, не новичку.
		if in.ReferralCode != "" {
			for i := range doc.Users {
				if doc.Users[i].ReferralCode == in.ReferralCode {
					account.ReferredBy = doc.Users[i].ID
					doc.Users[i].ReferralCount++
					break
				}
			}
		}

		doc.Users = append(doc.Users, account)

		if in.Role == models.RoleModel {
			doc.Performers = append(doc.Performers, models.Performer{
				ID:                account.ID,
				Name:              in.Username,
				Tags:              []string{"New"},
				Status:            models.PerformerStatusOffline,
				Description:       "New creator",
				SubscriptionPrice: 50,
				UnlockPrice:       10,
				PrivateRoomPrice:  100,
				SpyPrice:          25,
				KickPrice:         100,
				Rating:            5.0,
				Content:           []models.ContentItem{},
				Merch:             []models.MerchItem{},
				Games:             []models.RoomGame{},
				BlockedRegions:    []string{},
				BannedUsers:       []models.BannedViewer{},
				Country:           "Unknown",
				SafetyScore:       100,
			})
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.tokenManager.GeneratePair(&account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: &account, TokenPair: pair}, nil
}

// Login аутентифицирует по email (или username) и паролю. Учётные данные
// мастер-админа проверяются до обращения к документу: его аккаунт
// существует только в сессии.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == s.masterEmail && password == s.masterPassword {
		master := s.directory.Master()
		pair, err := s.tokenManager.GeneratePair(&master)
		if err != nil {
			return nil, err
		}
		return &AuthResult{Account: &master, TokenPair: pair}, nil
	}

	var account models.Account
	err := s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		found := doc.UserByEmail(strings.ToLower(strings.TrimSpace(email)))
		if found == nil {
			return false, apperror.ErrInvalidCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
			return false, apperror.ErrInvalidCredentials
		}

		now := time.Now()
		found.LastLoginAt = &now
		account = *found
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.tokenManager.GeneratePair(&account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: &account, TokenPair: pair}, nil
}

// Refresh обменивает refresh токен на новую пару.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	accountID, _, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "токен невалиден")
	}

	account, err := s.directory.CurrentIdentity(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "аккаунт не найден")
	}

	pair, err := s.tokenManager.GeneratePair(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, TokenPair: pair}, nil
}

// newReferralCode генерирует короткий код вида DGN-XXXXXX.
func newReferralCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "DGN-" + id[:6]
}
