package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/validation"
)

// FeedService лента постов моделей.
type FeedService struct {
	state *repository.StateRepository
}

// NewFeedService создаёт сервис ленты.
func NewFeedService(state *repository.StateRepository) *FeedService {
	return &FeedService{state: state}
}

// CreatePost публикует пост модели.
func (s *FeedService) CreatePost(ctx context.Context, performerID, caption, postType, mediaURL string, unlockPrice int64) (*models.FeedPost, error) {
	if err := validation.ValidateLength("подпись поста", caption, 0, validation.MaxBioLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	switch postType {
	case "IMAGE", "VIDEO", "TEXT":
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный тип поста")
	}

	post := models.FeedPost{
		ID:          "post-" + uuid.NewString(),
		PerformerID: performerID,
		Caption:     caption,
		Type:        postType,
		MediaURL:    mediaURL,
		IsLocked:    unlockPrice > 0,
		UnlockPrice: unlockPrice,
		CreatedAt:   time.Now(),
	}

	err := s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		if doc.PerformerByID(performerID) == nil {
			return false, apperror.ErrPerformerNotFound
		}
		doc.Posts = append([]models.FeedPost{post}, doc.Posts...)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Feed возвращает ленту для пользователя, свежие первыми. У заблокированных
// постов без купленного доступа media_url скрывается.
func (s *FeedService) Feed(ctx context.Context, viewerID, performerID string) ([]models.FeedPost, error) {
	var out []models.FeedPost
	err := s.state.View(ctx, func(doc *models.Document) error {
		viewer := doc.UserByID(viewerID)
		for _, p := range doc.Posts {
			if performerID != "" && p.PerformerID != performerID {
				continue
			}
			if p.IsLocked && !canSeePost(viewer, p) {
				p.MediaURL = ""
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// LikePost увеличивает счётчик лайков поста.
func (s *FeedService) LikePost(ctx context.Context, postID string) (int, error) {
	var likes int
	err := s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		for i := range doc.Posts {
			if doc.Posts[i].ID == postID {
				doc.Posts[i].Likes++
				likes = doc.Posts[i].Likes
				return true, nil
			}
		}
		return false, apperror.New(apperror.ErrCodeNotFound, "пост не найден")
	})
	return likes, err
}

func canSeePost(viewer *models.Account, p models.FeedPost) bool {
	if viewer == nil {
		return false
	}
	if viewer.Role == models.RoleAdmin || viewer.ID == p.PerformerID {
		return true
	}
	return viewer.HasUnlocked(viewer.UnlockedPosts, p.ID) || viewer.HasSubscription(p.PerformerID)
}
