package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_PasswordHashPersistsButSanitizedOmitsIt(t *testing.T) {
	account := Account{
		ID:           "fan-1",
		Username:     "fanboy",
		PasswordHash: "$2a$10$hash",
		Role:         RoleFan,
	}

	// В документ хеш сериализуется: по нему проходит проверка пароля.
	raw, err := json.Marshal(account)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "password_hash")

	var restored Account
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, "$2a$10$hash", restored.PasswordHash)

	// Наружу аккаунт уходит только без хеша.
	sanitized, err := json.Marshal(account.Sanitized())
	require.NoError(t, err)
	assert.NotContains(t, string(sanitized), "password_hash")
	assert.Equal(t, "$2a$10$hash", account.PasswordHash)
}
