// Package repository содержит слой доступа к документу состояния платформы.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/store"
)

// StateRepository владеет циклом read-mutate-write над единственным
// документом. Мьютекс гарантирует одного писателя внутри процесса:
// внешнее хранилище никаких транзакций не предоставляет.
type StateRepository struct {
	mu    sync.Mutex
	store store.KeyValueStore
	key   string
}

// NewStateRepository создаёт репозиторий над key-value хранилищем.
func NewStateRepository(kv store.KeyValueStore, key string) *StateRepository {
	return &StateRepository{store: kv, key: key}
}

// View читает актуальный документ и выполняет fn без сохранения.
// Мутации внутри fn наружу не попадут.
func (r *StateRepository) View(ctx context.Context, fn func(doc *models.Document) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update выполняет полный цикл: читает документ, передаёт его fn и,
// если fn вернула commit=true без ошибки, сериализует документ обратно
// целиком. При ошибке или commit=false хранилище не меняется — операция
// либо применяется вся, либо не применяется вовсе.
func (r *StateRepository) Update(ctx context.Context, fn func(doc *models.Document) (commit bool, err error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	commit, err := fn(doc)
	if err != nil {
		return err
	}
	if !commit {
		return nil
	}
	return r.save(ctx, doc)
}

// load читает документ, при первом обращении создаёт его с казначейским
// аккаунтом. Документ без казначейства считается повреждённым и чинится
// на месте.
func (r *StateRepository) load(ctx context.Context) (*models.Document, error) {
	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("repository: не удалось прочитать документ: %w", err)
	}

	if !found {
		doc := bootstrapDocument()
		if err := r.save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("repository: документ повреждён: %w", err)
	}

	if doc.Treasury() == nil {
		attachTreasury(&doc)
	}
	return &doc, nil
}

func (r *StateRepository) save(ctx context.Context, doc *models.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("repository: не удалось сериализовать документ: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		return fmt.Errorf("repository: не удалось сохранить документ: %w", err)
	}
	return nil
}

func bootstrapDocument() *models.Document {
	doc := &models.Document{
		Users:         []models.Account{},
		Performers:    []models.Performer{},
		Posts:         []models.FeedPost{},
		Messages:      []models.DirectMessage{},
		Campaigns:     []models.Campaign{},
		Orders:        []models.CustomOrder{},
		Notifications: []models.Notification{},
		Violations:    []models.Violation{},
		Withdrawals:   []models.WithdrawalRequest{},
	}
	attachTreasury(doc)
	return doc
}

// attachTreasury добавляет выделенный казначейский аккаунт платформы.
func attachTreasury(doc *models.Document) {
	doc.TreasuryID = models.TreasuryAccountID
	if doc.UserByID(models.TreasuryAccountID) != nil {
		return
	}
	doc.Users = append(doc.Users, models.Account{
		ID:        models.TreasuryAccountID,
		Username:  "platform",
		Role:      models.RoleAdmin,
		CreatedAt: time.Now(),
	})
}
