// Package session отвечает на вопрос "кто сейчас действует" и хранит
// единственное особое правило платформы: мастер-админ существует только
// в сессии и гроссбух его не касается.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
)

var ErrIdentityNotFound = errors.New("личность не найдена")

// MasterAdminID фиксированный id мастер-админа. В документ он не
// записывается: его кэшированная копия в сессии авторитетна.
const MasterAdminID = "MASTER-ADMIN"

// Directory разрешает действующую личность по данным сессии.
type Directory struct {
	state  *repository.StateRepository
	master models.Account
}

// NewDirectory создаёт справочник сессий. masterEmail используется при
// входе мастер-админа; его аккаунт синтезируется, а не читается из документа.
func NewDirectory(state *repository.StateRepository, masterEmail string) *Directory {
	return &Directory{
		state: state,
		master: models.Account{
			ID:           MasterAdminID,
			Username:     "MASTER",
			Email:        masterEmail,
			Role:         models.RoleAdmin,
			TokenBalance: 999999999,
			CreatedAt:    time.Now(),
		},
	}
}

// Master возвращает копию кэшированной личности мастер-админа.
func (d *Directory) Master() models.Account {
	return d.master
}

// IsPrivileged сообщает, обходит ли аккаунт проверки гроссбуха.
func (d *Directory) IsPrivileged(accountID string) bool {
	return accountID == MasterAdminID
}

// CurrentIdentity возвращает действующую личность. Для мастер-админа
// авторитетна кэшированная копия — его баланс осмысленно не меняется.
// Для остальных аккаунт перечитывается из документа, чтобы следующий
// запрос видел результат предыдущих операций, а не устаревшую сессию.
func (d *Directory) CurrentIdentity(ctx context.Context, accountID string) (*models.Account, error) {
	if accountID == "" {
		return nil, ErrIdentityNotFound
	}
	if d.IsPrivileged(accountID) {
		master := d.master
		return &master, nil
	}

	var found *models.Account
	err := d.state.View(ctx, func(doc *models.Document) error {
		if account := doc.UserByID(accountID); account != nil {
			copied := *account
			found = &copied
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("session: аккаунт %s: %w", accountID, ErrIdentityNotFound)
	}
	return found, nil
}
