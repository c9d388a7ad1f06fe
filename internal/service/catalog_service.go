package service

import (
	"context"
	"sort"
	"strings"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
)

// CatalogFilter параметры выборки каталога моделей.
type CatalogFilter struct {
	Tag     string
	Country string
	Status  string
	Query   string
}

// PerformerUpdate редактируемые моделью поля её карточки.
type PerformerUpdate struct {
	Description       *string              `json:"description,omitempty"`
	Status            *string              `json:"status,omitempty"`
	SubscriptionPrice *int64               `json:"subscription_price,omitempty"`
	UnlockPrice       *int64               `json:"unlock_price,omitempty"`
	PrivateRoomPrice  *int64               `json:"private_room_price,omitempty"`
	SpyPrice          *int64               `json:"spy_price,omitempty"`
	KickPrice         *int64               `json:"kick_price,omitempty"`
	Tags              []string             `json:"tags,omitempty"`
	TipMenu           []models.TipMenuItem `json:"tip_menu,omitempty"`
	ToyConnected      *bool                `json:"toy_connected,omitempty"`
	ToyControls       []models.ToyControl  `json:"toy_controls,omitempty"`
	CurrentTipGoal    *models.TipGoal      `json:"current_tip_goal,omitempty"`
	HideCountry       *bool                `json:"hide_country,omitempty"`
	WatermarkEnabled  *bool                `json:"watermark_enabled,omitempty"`
	WatermarkText     *string              `json:"watermark_text,omitempty"`
}

// CatalogService отвечает за витрину моделей и редактирование карточек.
type CatalogService struct {
	state *repository.StateRepository
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(state *repository.StateRepository) *CatalogService {
	return &CatalogService{state: state}
}

// List возвращает модели по фильтру; LIVE показываются первыми,
// внутри группы — по числу зрителей.
func (s *CatalogService) List(ctx context.Context, filter CatalogFilter) ([]models.Performer, error) {
	var out []models.Performer
	err := s.state.View(ctx, func(doc *models.Document) error {
		for _, p := range doc.Performers {
			if p.Status == models.PerformerStatusBanned {
				continue
			}
			if !matchesFilter(&p, filter) {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		li := out[i].Status == models.PerformerStatusLive
		lj := out[j].Status == models.PerformerStatusLive
		if li != lj {
			return li
		}
		return out[i].Viewers > out[j].Viewers
	})
	return out, nil
}

// Get возвращает карточку модели.
func (s *CatalogService) Get(ctx context.Context, performerID string) (*models.Performer, error) {
	var found *models.Performer
	err := s.state.View(ctx, func(doc *models.Document) error {
		if p := doc.PerformerByID(performerID); p != nil {
			copied := *p
			found = &copied
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperror.ErrPerformerNotFound
	}
	return found, nil
}

// Update применяет частичное обновление карточки. actorID должен
// совпадать с моделью: чужие карточки редактирует только админ.
func (s *CatalogService) Update(ctx context.Context, actorID, performerID string, upd PerformerUpdate, isAdmin bool) (*models.Performer, error) {
	if actorID != performerID && !isAdmin {
		return nil, apperror.ErrForbidden
	}
	if upd.Status != nil {
		if _, ok := models.ValidPerformerStatuses[*upd.Status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный статус трансляции")
		}
	}

	var updated models.Performer
	err := s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		p := doc.PerformerByID(performerID)
		if p == nil {
			return false, apperror.ErrPerformerNotFound
		}

		applyPerformerUpdate(p, upd)
		updated = *p
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func applyPerformerUpdate(p *models.Performer, upd PerformerUpdate) {
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.SubscriptionPrice != nil {
		p.SubscriptionPrice = *upd.SubscriptionPrice
	}
	if upd.UnlockPrice != nil {
		p.UnlockPrice = *upd.UnlockPrice
	}
	if upd.PrivateRoomPrice != nil {
		p.PrivateRoomPrice = *upd.PrivateRoomPrice
	}
	if upd.SpyPrice != nil {
		p.SpyPrice = *upd.SpyPrice
	}
	if upd.KickPrice != nil {
		p.KickPrice = *upd.KickPrice
	}
	if upd.Tags != nil {
		p.Tags = upd.Tags
	}
	if upd.TipMenu != nil {
		p.TipMenu = upd.TipMenu
	}
	if upd.ToyConnected != nil {
		p.ToyConnected = *upd.ToyConnected
	}
	if upd.ToyControls != nil {
		p.ToyControls = upd.ToyControls
	}
	if upd.CurrentTipGoal != nil {
		p.CurrentTipGoal = upd.CurrentTipGoal
	}
	if upd.HideCountry != nil {
		p.HideCountry = *upd.HideCountry
	}
	if upd.WatermarkEnabled != nil {
		p.WatermarkEnabled = *upd.WatermarkEnabled
	}
	if upd.WatermarkText != nil {
		p.WatermarkText = *upd.WatermarkText
	}
}

func matchesFilter(p *models.Performer, filter CatalogFilter) bool {
	if filter.Status != "" && p.Status != filter.Status {
		return false
	}
	if filter.Country != "" && !strings.EqualFold(p.Country, filter.Country) {
		return false
	}
	if filter.Tag != "" {
		found := false
		for _, tag := range p.Tags {
			if strings.EqualFold(tag, filter.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}
