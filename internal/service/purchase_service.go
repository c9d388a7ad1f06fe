package service

import (
	"context"
	"fmt"

	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/validation"
)

// PurchaseService превращает намерения фаната (подписаться, разблокировать,
// чаевые, купить) в вызовы гроссбуха с нужным видом списания и выдачу прав.
type PurchaseService struct {
	ledger *ledger.Ledger
}

// NewPurchaseService создаёт сервис покупок.
func NewPurchaseService(l *ledger.Ledger) *PurchaseService {
	return &PurchaseService{ledger: l}
}

// Subscribe оформляет подписку на модель по её текущей цене.
func (s *PurchaseService) Subscribe(ctx context.Context, fanID, performerID string) (*ledger.SettleResult, error) {
	price, err := s.performerPrice(ctx, performerID, func(p *models.Performer) int64 { return p.SubscriptionPrice })
	if err != nil {
		return nil, err
	}

	return s.ledger.SettleWith(ctx, fanID, performerID, price, models.ChargeKindSubscription, func(doc *models.Document) error {
		fan := doc.UserByID(fanID)
		if fan == nil {
			return nil // мастер-админ: право не персистится
		}
		if !fan.HasSubscription(performerID) {
			fan.Subscriptions = append(fan.Subscriptions, performerID)
		}
		return nil
	})
}

// UnlockStream открывает доступ к платному стриму модели.
func (s *PurchaseService) UnlockStream(ctx context.Context, fanID, performerID string) (*ledger.SettleResult, error) {
	price, err := s.performerPrice(ctx, performerID, func(p *models.Performer) int64 { return p.UnlockPrice })
	if err != nil {
		return nil, err
	}

	return s.ledger.SettleWith(ctx, fanID, performerID, price, models.ChargeKindRoomAction, func(doc *models.Document) error {
		if fan := doc.UserByID(fanID); fan != nil && !fan.HasUnlocked(fan.UnlockedStreams, performerID) {
			fan.UnlockedStreams = append(fan.UnlockedStreams, performerID)
		}
		return nil
	})
}

// UnlockContent покупает элемент контента модели по его цене.
func (s *PurchaseService) UnlockContent(ctx context.Context, fanID, performerID, contentID string) (*ledger.SettleResult, error) {
	var price int64
	err := s.ledgerView(ctx, func(doc *models.Document) error {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return apperror.ErrPerformerNotFound
		}
		item := performer.ContentByID(contentID)
		if item == nil {
			return apperror.New(apperror.ErrCodeNotFound, "контент не найден")
		}
		price = item.Price
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ledger.SettleWith(ctx, fanID, performerID, price, models.ChargeKindContentUnlock, func(doc *models.Document) error {
		if fan := doc.UserByID(fanID); fan != nil && !fan.HasUnlocked(fan.UnlockedContent, contentID) {
			fan.UnlockedContent = append(fan.UnlockedContent, contentID)
		}
		return nil
	})
}

// UnlockPost разблокирует платный пост из ленты.
func (s *PurchaseService) UnlockPost(ctx context.Context, fanID, postID string) (*ledger.SettleResult, error) {
	var performerID string
	var price int64
	err := s.ledgerView(ctx, func(doc *models.Document) error {
		for i := range doc.Posts {
			if doc.Posts[i].ID == postID {
				if !doc.Posts[i].IsLocked {
					return apperror.New(apperror.ErrCodeBadRequest, "пост не заблокирован")
				}
				performerID = doc.Posts[i].PerformerID
				price = doc.Posts[i].UnlockPrice
				return nil
			}
		}
		return apperror.New(apperror.ErrCodeNotFound, "пост не найден")
	})
	if err != nil {
		return nil, err
	}

	return s.ledger.SettleWith(ctx, fanID, performerID, price, models.ChargeKindPostUnlock, func(doc *models.Document) error {
		if fan := doc.UserByID(fanID); fan != nil && !fan.HasUnlocked(fan.UnlockedPosts, postID) {
			fan.UnlockedPosts = append(fan.UnlockedPosts, postID)
		}
		return nil
	})
}

// Tip отправляет чаевые в комнату модели и двигает её текущую цель.
func (s *PurchaseService) Tip(ctx context.Context, fanID, performerID string, amount int64) (*ledger.SettleResult, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	return s.ledger.SettleWith(ctx, fanID, performerID, amount, models.ChargeKindTip, func(doc *models.Document) error {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return apperror.ErrPerformerNotFound
		}
		if performer.CurrentTipGoal != nil {
			performer.CurrentTipGoal.CurrentAmount += amount
		}
		return nil
	})
}

// BuyMerch покупает товар модели, списывая остаток на складе.
func (s *PurchaseService) BuyMerch(ctx context.Context, fanID, performerID, merchID string) (*ledger.SettleResult, error) {
	var price int64
	err := s.ledgerView(ctx, func(doc *models.Document) error {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return apperror.ErrPerformerNotFound
		}
		item := performer.MerchByID(merchID)
		if item == nil {
			return apperror.New(apperror.ErrCodeNotFound, "товар не найден")
		}
		if item.Stock != nil && *item.Stock <= 0 {
			return apperror.New(apperror.ErrCodeConflict, "товар закончился")
		}
		price = item.Price
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ledger.SettleWith(ctx, fanID, performerID, price, models.ChargeKindMerch, func(doc *models.Document) error {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return apperror.ErrPerformerNotFound
		}
		item := performer.MerchByID(merchID)
		if item == nil {
			return apperror.New(apperror.ErrCodeNotFound, "товар не найден")
		}
		if item.Stock != nil {
			if *item.Stock <= 0 {
				return apperror.New(apperror.ErrCodeConflict, "товар закончился")
			}
			*item.Stock--
		}
		if fan := doc.UserByID(fanID); fan != nil {
			fan.PurchasedMerch = append(fan.PurchasedMerch, merchID)
		}
		return nil
	})
}

// Виды действий в комнате
const (
	RoomActionPrivate = "PRIVATE"
	RoomActionSpy     = "SPY"
	RoomActionKick    = "KICK"
)

// RoomAction оплачивает приват, подглядывание или кик по прайсу модели.
func (s *PurchaseService) RoomAction(ctx context.Context, fanID, performerID, action string) (*ledger.SettleResult, error) {
	price, err := s.performerPrice(ctx, performerID, func(p *models.Performer) int64 {
		switch action {
		case RoomActionPrivate:
			return p.PrivateRoomPrice
		case RoomActionSpy:
			return p.SpyPrice
		case RoomActionKick:
			return p.KickPrice
		default:
			return 0
		}
	})
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, apperror.New(apperror.ErrCodeBadRequest, fmt.Sprintf("неизвестное действие %q", action))
	}

	return s.ledger.Settle(ctx, fanID, performerID, price, models.ChargeKindRoomAction)
}

// PlayGame оплачивает раунд игры в комнате (колесо, кости).
func (s *PurchaseService) PlayGame(ctx context.Context, fanID, performerID, gameID string) (*ledger.SettleResult, error) {
	var price int64
	err := s.ledgerView(ctx, func(doc *models.Document) error {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return apperror.ErrPerformerNotFound
		}
		for _, g := range performer.Games {
			if g.ID == gameID {
				price = g.Price
				return nil
			}
		}
		return apperror.New(apperror.ErrCodeNotFound, "игра не найдена")
	})
	if err != nil {
		return nil, err
	}
	return s.ledger.Settle(ctx, fanID, performerID, price, models.ChargeKindGame)
}

// TriggerToy оплачивает паттерн вибрации подключенной игрушки.
func (s *PurchaseService) TriggerToy(ctx context.Context, fanID, performerID, controlID string) (*ledger.SettleResult, error) {
	var price int64
	err := s.ledgerView(ctx, func(doc *models.Document) error {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return apperror.ErrPerformerNotFound
		}
		if !performer.ToyConnected {
			return apperror.New(apperror.ErrCodeConflict, "игрушка не подключена")
		}
		for _, t := range performer.ToyControls {
			if t.ID == controlID {
				price = t.Price
				return nil
			}
		}
		return apperror.New(apperror.ErrCodeNotFound, "паттерн не найден")
	})
	if err != nil {
		return nil, err
	}
	return s.ledger.Settle(ctx, fanID, performerID, price, models.ChargeKindToy)
}

func (s *PurchaseService) performerPrice(ctx context.Context, performerID string, pick func(*models.Performer) int64) (int64, error) {
	var price int64
	err := s.ledgerView(ctx, func(doc *models.Document) error {
		performer := doc.PerformerByID(performerID)
		if performer == nil {
			return apperror.ErrPerformerNotFound
		}
		price = pick(performer)
		return nil
	})
	return price, err
}

func (s *PurchaseService) ledgerView(ctx context.Context, fn func(doc *models.Document) error) error {
	return s.ledger.View(ctx, fn)
}
