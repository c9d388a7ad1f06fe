package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dungeonlive/dungeon-backend/internal/models"
)

var ErrInvalidToken = errors.New("токен невалиден")

// TokenPair хранит пару access/refresh токенов.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    time.Duration `json:"expires_in"`
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GeneratePair выпускает новую пару токенов для аккаунта.
func (m *TokenManager) GeneratePair(account *models.Account) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := m.createToken(account, now.Add(m.accessTTL), m.accessSecret)
	if err != nil {
		return nil, err
	}
	refreshToken, err := m.createToken(account, now.Add(m.refreshTTL), m.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    m.accessTTL,
	}, nil
}

// ParseAccess проверяет access токен и возвращает id и роль аккаунта.
func (m *TokenManager) ParseAccess(raw string) (string, string, error) {
	return m.parse(raw, m.accessSecret)
}

// ParseRefresh проверяет refresh токен и возвращает id и роль аккаунта.
func (m *TokenManager) ParseRefresh(raw string) (string, string, error) {
	return m.parse(raw, m.refreshSecret)
}

func (m *TokenManager) createToken(account *models.Account, expiresAt time.Time, secret []byte) (string, error) {
	c := claims{
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token: не удалось подписать токен: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) parse(raw string, secret []byte) (string, string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: неожиданный метод подписи %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid || c.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return c.Subject, c.Role, nil
}
