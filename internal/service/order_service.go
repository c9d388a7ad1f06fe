package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/validation"
)

// OrderService кастомные заказы фанатов: создание, назначение цены
// моделью, оплата при принятии, доставка.
type OrderService struct {
	state  *repository.StateRepository
	ledger *ledger.Ledger
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(state *repository.StateRepository, l *ledger.Ledger) *OrderService {
	return &OrderService{state: state, ledger: l}
}

// Create регистрирует заказ фаната. Цена назначается моделью позже,
// при принятии; токены на этом шаге не списываются.
func (s *OrderService) Create(ctx context.Context, fanID, performerID, orderType, description string) (*models.CustomOrder, error) {
	if err := validation.ValidateLength("описание заказа", description, 1, validation.MaxOrderDescriptionLen); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	switch orderType {
	case "VIDEO", "PHOTO", "AUDIO":
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный тип заказа")
	}

	order := models.CustomOrder{
		ID:          "ord-" + uuid.NewString(),
		FanID:       fanID,
		PerformerID: performerID,
		Type:        orderType,
		Description: description,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Now(),
	}

	err := s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		fan := doc.UserByID(fanID)
		if fan == nil {
			return false, apperror.ErrUserNotFound
		}
		if doc.PerformerByID(performerID) == nil {
			return false, apperror.ErrPerformerNotFound
		}
		order.FanName = fan.Username
		doc.Orders = append([]models.CustomOrder{order}, doc.Orders...)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Accept принимает заказ и назначает цену. Оплата проходит через общий
// расчёт 70/30 в том же цикле, что и смена статуса: если у фаната не
// хватает токенов, заказ остаётся в PENDING.
func (s *OrderService) Accept(ctx context.Context, actorID, orderID string, price int64) (*ledger.SettleResult, error) {
	if price <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	var fanID, performerID string
	err := s.state.View(ctx, func(doc *models.Document) error {
		order := doc.OrderByID(orderID)
		if order == nil {
			return apperror.ErrOrderNotFound
		}
		if order.Status != models.OrderStatusPending {
			return apperror.New(apperror.ErrCodeBadRequest, "заказ уже обработан")
		}
		if order.PerformerID != actorID {
			return apperror.ErrForbidden
		}
		fanID = order.FanID
		performerID = order.PerformerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ledger.SettleWith(ctx, fanID, performerID, price, models.ChargeKindCustomOrder, func(doc *models.Document) error {
		order := doc.OrderByID(orderID)
		if order == nil {
			return apperror.ErrOrderNotFound
		}
		order.Status = models.OrderStatusAccepted
		order.Price = price
		return nil
	})
}

// Complete закрывает принятый заказ и прикладывает ссылку на результат.
func (s *OrderService) Complete(ctx context.Context, actorID, orderID, deliveryURL string) error {
	return s.transition(ctx, actorID, orderID, models.OrderStatusAccepted, models.OrderStatusCompleted, deliveryURL)
}

// Reject отклоняет ожидающий заказ. Токены не двигались, возвращать нечего.
func (s *OrderService) Reject(ctx context.Context, actorID, orderID string) error {
	return s.transition(ctx, actorID, orderID, models.OrderStatusPending, models.OrderStatusRejected, "")
}

func (s *OrderService) transition(ctx context.Context, actorID, orderID, from, to, deliveryURL string) error {
	return s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		order := doc.OrderByID(orderID)
		if order == nil {
			return false, apperror.ErrOrderNotFound
		}
		if order.PerformerID != actorID {
			return false, apperror.ErrForbidden
		}
		if order.Status != from {
			return false, apperror.New(apperror.ErrCodeBadRequest, "недопустимый переход статуса заказа")
		}
		order.Status = to
		if deliveryURL != "" {
			order.DeliveryURL = deliveryURL
		}
		return true, nil
	})
}

// ListByFan возвращает заказы фаната, свежие первыми.
func (s *OrderService) ListByFan(ctx context.Context, fanID string) ([]models.CustomOrder, error) {
	return s.list(ctx, func(o models.CustomOrder) bool { return o.FanID == fanID })
}

// ListByPerformer возвращает заказы модели, свежие первыми.
func (s *OrderService) ListByPerformer(ctx context.Context, performerID string) ([]models.CustomOrder, error) {
	return s.list(ctx, func(o models.CustomOrder) bool { return o.PerformerID == performerID })
}

func (s *OrderService) list(ctx context.Context, match func(models.CustomOrder) bool) ([]models.CustomOrder, error) {
	var out []models.CustomOrder
	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, o := range doc.Orders {
			if match(o) {
				out = append(out, o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
