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

// MessageService личные сообщения, треды и массовые рассылки моделей.
type MessageService struct {
	state  *repository.StateRepository
	ledger *ledger.Ledger
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(state *repository.StateRepository, l *ledger.Ledger) *MessageService {
	return &MessageService{state: state, ledger: l}
}

// Send отправляет личное сообщение; модель может приложить платный
// контент с ценой разблокировки.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, text string, unlockPrice int64, mediaURL, mediaType string) (*models.DirectMessage, error) {
	if err := validation.ValidateLength("сообщение", text, 1, validation.MaxMessageLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	msg := models.DirectMessage{
		ID:          "msg-" + uuid.NewString(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Text:        text,
		IsLocked:    unlockPrice > 0,
		UnlockPrice: unlockPrice,
		MediaURL:    mediaURL,
		MediaType:   mediaType,
		CreatedAt:   time.Now(),
	}

	err := s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		doc.Messages = append(doc.Messages, msg)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// History возвращает переписку двух участников, включая рассылки модели,
// по возрастанию времени.
func (s *MessageService) History(ctx context.Context, userID, otherID string) ([]models.DirectMessage, error) {
	var out []models.DirectMessage
	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, m := range doc.Messages {
			if (m.SenderID == userID && m.ReceiverID == otherID) ||
				(m.SenderID == otherID && m.ReceiverID == userID) {
				out = append(out, m)
			}
		}
		for _, c := range doc.Campaigns {
			if c.PerformerID == otherID {
				out = append(out, campaignMessage(c, userID))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Threads агрегирует диалоги пользователя, свежие первыми. Фанату также
// показываются рассылки моделей, на которых он подписан.
func (s *MessageService) Threads(ctx context.Context, userID string) ([]models.MessageThread, error) {
	var all []models.DirectMessage
	byOther := map[string]*models.MessageThread{}
	var order []string

	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, m := range doc.Messages {
			if m.SenderID == userID || m.ReceiverID == userID {
				all = append(all, m)
			}
		}

		user := doc.UserByID(userID)
		if user != nil && user.Role == models.RoleFan {
			for _, subID := range user.Subscriptions {
				for _, c := range doc.Campaigns {
					if c.PerformerID == subID {
						all = append(all, campaignMessage(c, userID))
					}
				}
			}
		}

		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

		for _, m := range all {
			otherID := m.SenderID
			if otherID == userID {
				otherID = m.ReceiverID
			}

			thread, ok := byOther[otherID]
			if !ok {
				name, avatar, role := resolveParticipant(doc, otherID)
				lastMessage := m.Text
				if m.IsLocked {
					lastMessage = "🔒 Content Locked"
				}
				thread = &models.MessageThread{
					ID:          otherID,
					Name:        name,
					Avatar:      avatar,
					Role:        role,
					LastMessage: lastMessage,
					Timestamp:   m.CreatedAt,
				}
				byOther[otherID] = thread
				order = append(order, otherID)
			}
			if !m.IsRead && m.ReceiverID == userID {
				thread.UnreadCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	threads := make([]models.MessageThread, 0, len(order))
	for _, id := range order {
		threads = append(threads, *byOther[id])
	}
	return threads, nil
}

// Unlock покупает доступ к платному сообщению через общий расчёт 70/30.
func (s *MessageService) Unlock(ctx context.Context, userID, messageID string) (*ledger.SettleResult, error) {
	var performerID string
	var price int64
	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, m := range doc.Messages {
			if m.ID == messageID {
				if !m.IsLocked {
					return apperror.New(apperror.ErrCodeBadRequest, "сообщение не заблокировано")
				}
				performerID = m.SenderID
				price = m.UnlockPrice
				return nil
			}
		}
		// Рассылки разблокируются по id кампании.
		for _, c := range doc.Campaigns {
			if c.ID == messageID {
				performerID = c.PerformerID
				price = c.UnlockPrice
				return nil
			}
		}
		return apperror.New(apperror.ErrCodeNotFound, "сообщение не найдено")
	})
	if err != nil {
		return nil, err
	}

	return s.ledger.SettleWith(ctx, userID, performerID, price, models.ChargeKindMessageUnlock, func(doc *models.Document) error {
		if fan := doc.UserByID(userID); fan != nil && !fan.HasUnlocked(fan.UnlockedMessages, messageID) {
			fan.UnlockedMessages = append(fan.UnlockedMessages, messageID)
		}
		for i := range doc.Campaigns {
			if doc.Campaigns[i].ID == messageID {
				doc.Campaigns[i].Revenue += price
			}
		}
		return nil
	})
}

// CreateCampaign создаёт массовую рассылку модели её подписчикам.
func (s *MessageService) CreateCampaign(ctx context.Context, performerID, text, mediaURL string, unlockPrice int64) (*models.Campaign, error) {
	if err := validation.ValidateLength("текст рассылки", text, 1, validation.MaxMessageLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	campaign := models.Campaign{
		ID:          "camp-" + uuid.NewString(),
		PerformerID: performerID,
		Text:        text,
		MediaURL:    mediaURL,
		UnlockPrice: unlockPrice,
		CreatedAt:   time.Now(),
	}

	err := s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		if doc.PerformerByID(performerID) == nil {
			return false, apperror.ErrPerformerNotFound
		}
		for _, u := range doc.Users {
			if u.HasSubscription(performerID) {
				campaign.SentTo++
			}
		}
		doc.Campaigns = append(doc.Campaigns, campaign)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// CampaignsByPerformer возвращает рассылки модели, свежие первыми.
func (s *MessageService) CampaignsByPerformer(ctx context.Context, performerID string) ([]models.Campaign, error) {
	var out []models.Campaign
	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, c := range doc.Campaigns {
			if c.PerformerID == performerID {
				out = append(out, c)
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

func campaignMessage(c models.Campaign, receiverID string) models.DirectMessage {
	return models.DirectMessage{
		ID:          c.ID,
		SenderID:    c.PerformerID,
		ReceiverID:  receiverID,
		Text:        c.Text,
		IsLocked:    true,
		UnlockPrice: c.UnlockPrice,
		MediaURL:    c.MediaURL,
		IsCampaign:  true,
		CreatedAt:   c.CreatedAt,
	}
}

func resolveParticipant(doc *models.Document, id string) (name, avatar, role string) {
	if p := doc.PerformerByID(id); p != nil {
		return p.Name, p.Thumbnail, models.RoleModel
	}
	if u := doc.UserByID(id); u != nil {
		return u.Username, "", u.Role
	}
	return "Unknown", "", models.RoleFan
}
