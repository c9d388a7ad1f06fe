package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/logger"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
)

// AdminService операции дашборда администратора: гранты, верификация
// моделей, журнал нарушений.
type AdminService struct {
	state  *repository.StateRepository
	ledger *ledger.Ledger
}

// NewAdminService создаёт сервис администратора.
func NewAdminService(state *repository.StateRepository, l *ledger.Ledger) *AdminService {
	return &AdminService{state: state, ledger: l}
}

// GrantTokens начисляет токены аккаунту напрямую, минуя расчёт 70/30:
// чистый кредит без дебета, для промо-грантов.
func (s *AdminService) GrantTokens(ctx context.Context, accountID string, amount int64) (int64, error) {
	balance, err := s.ledger.Credit(ctx, accountID, amount)
	if err != nil {
		return 0, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"account": accountID,
			"amount":  amount,
		}).Info("admin token grant")
	}
	return balance, nil
}

// GrantSubscription выдаёт фанату подписку без оплаты.
func (s *AdminService) GrantSubscription(ctx context.Context, fanID, performerID string) error {
	return s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		fan := doc.UserByID(fanID)
		if fan == nil {
			return false, apperror.ErrUserNotFound
		}
		if doc.PerformerByID(performerID) == nil {
			return false, apperror.ErrPerformerNotFound
		}
		if fan.HasSubscription(performerID) {
			return false, nil
		}
		fan.Subscriptions = append(fan.Subscriptions, performerID)
		return true, nil
	})
}

// ApproveModel подтверждает верификацию модели.
func (s *AdminService) ApproveModel(ctx context.Context, accountID string) error {
	return s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		user := doc.UserByID(accountID)
		if user == nil || user.Role != models.RoleModel {
			return false, apperror.New(apperror.ErrCodeNotFound, "модель на верификации не найдена")
		}
		if user.IsVerified {
			return false, nil
		}
		user.IsVerified = true
		return true, nil
	})
}

// PendingModels возвращает модели, ожидающие верификации.
func (s *AdminService) PendingModels(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, u := range doc.Users {
			if u.Role == models.RoleModel && !u.IsVerified {
				out = append(out, u)
			}
		}
		return nil
	})
	return out, err
}

// ListFans возвращает аккаунты фанатов для дашборда.
func (s *AdminService) ListFans(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, u := range doc.Users {
			if u.Role == models.RoleFan {
				out = append(out, u)
			}
		}
		return nil
	})
	return out, err
}

// LogViolation фиксирует нарушение и кладёт уведомление безопасности
// в начало ленты.
func (s *AdminService) LogViolation(ctx context.Context, v models.Violation) error {
	if v.ID == "" {
		v.ID = "v-" + uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	return s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		doc.Violations = append([]models.Violation{v}, doc.Violations...)
		doc.Notifications = append([]models.Notification{{
			ID:        "n-" + uuid.NewString(),
			Title:     fmt.Sprintf("SECURITY ALERT: %s", v.Type),
			Message:   fmt.Sprintf("User %s flagged. %s", v.PerformerName, v.Details),
			Type:      "SECURITY",
			CreatedAt: time.Now(),
		}}, doc.Notifications...)
		return true, nil
	})
}

// Violations возвращает журнал нарушений, свежие первыми.
func (s *AdminService) Violations(ctx context.Context) ([]models.Violation, error) {
	var out []models.Violation
	err := s.state.View(ctx, func(doc *models.Document) error {
		out = append(out, doc.Violations...)
		return nil
	})
	return out, err
}

// Notifications возвращает общую ленту уведомлений.
func (s *AdminService) Notifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	err := s.state.View(ctx, func(doc *models.Document) error {
		out = append(out, doc.Notifications...)
		return nil
	})
	return out, err
}
