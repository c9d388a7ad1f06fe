package service

import (
	"context"
	"time"

	"github.com/dungeonlive/dungeon-backend/internal/logger"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
)

// SeedService наполняет пустой документ демо-данными для разработки.
// В production не подключается.
type SeedService struct {
	state *repository.StateRepository
}

// NewSeedService создаёт сервис демо-данных.
func NewSeedService(state *repository.StateRepository) *SeedService {
	return &SeedService{state: state}
}

func intPtr(v int) *int { return &v }

var defaultTipMenu = []models.TipMenuItem{
	{Label: "Blow Kiss", Price: 25},
	{Label: "Flash", Price: 100},
	{Label: "Spank", Price: 50},
	{Label: "Oil Up", Price: 200},
	{Label: "Say Name", Price: 50},
	{Label: "Feet Show", Price: 75},
}

// Seed добавляет демо-моделей и посты, если документ ещё пуст.
// Повторный вызов ничего не делает.
func (s *SeedService) Seed(ctx context.Context) error {
	return s.state.Update(ctx, func(doc *models.Document) (bool, error) {
		if len(doc.Performers) > 0 {
			return false, nil
		}

		doc.Performers = demoPerformers()
		doc.Posts = demoPosts()

		if logger.Log != nil {
			logger.Log.WithField("performers", len(doc.Performers)).Info("demo data seeded")
		}
		return true, nil
	})
}

func demoPerformers() []models.Performer {
	return []models.Performer{
		{
			ID:                "1",
			Name:              "Mistress Vayda",
			Tags:              []string{"Domme", "Latex", "Boots"},
			Viewers:           1240,
			Thumbnail:         "https://picsum.photos/seed/vayda/400/600",
			Status:            models.PerformerStatusLive,
			Description:       "Kneel before your queen. Interactive toys enabled.",
			IsAI:              true,
			Country:           "Germany",
			SubscriptionPrice: 50,
			UnlockPrice:       25,
			PrivateRoomPrice:  150,
			SpyPrice:          25,
			KickPrice:         200,
			Rating:            4.9,
			RatingCount:       320,
			EarningsBalance:   2500,
			Content: []models.ContentItem{
				{ID: "c1", Type: "IMAGE", URL: "https://picsum.photos/seed/c1/400/600", IsLocked: true, Price: 50, Title: "Latex Shine"},
				{ID: "c2", Type: "VIDEO", URL: "https://picsum.photos/seed/c2/400/600", IsLocked: true, Price: 100, Title: "Worship Session"},
			},
			Merch: []models.MerchItem{
				{ID: "m1", Name: "Worn Panties", Price: 500, Image: "https://picsum.photos/seed/panties/200", Type: "PHYSICAL", Stock: intPtr(1)},
				{ID: "m2", Name: "Custom Video", Price: 1000, Image: "https://picsum.photos/seed/vid/200", Type: "DIGITAL"},
			},
			Games: []models.RoomGame{
				{ID: "g1", Type: "WHEEL", Title: "Wheel of Pain", Description: "Spin to decide my punishment", Price: 50},
			},
			TipMenu:      defaultTipMenu,
			ToyConnected: true,
			ToyControls: []models.ToyControl{
				{ID: "t1", Label: "Low Vibe", Duration: 5, Intensity: 5, Price: 25, Icon: "ZAP"},
				{ID: "t2", Label: "Pulse", Duration: 10, Intensity: 10, Price: 50, Icon: "PULSE"},
				{ID: "t3", Label: "MAX", Duration: 15, Intensity: 20, Price: 100, Icon: "EXPLOSION"},
			},
			WatermarkEnabled: true,
			WatermarkText:    "DGN-VAYDA-SECURE",
		},
		{
			ID:                "2",
			Name:              "Lady Raven",
			Tags:              []string{"Goth", "Feet", "Tattoo"},
			Viewers:           850,
			Thumbnail:         "https://picsum.photos/seed/raven/400/600",
			Status:            models.PerformerStatusLive,
			Description:       "Dark fantasies and deep conversations.",
			Country:           "USA",
			SubscriptionPrice: 30,
			UnlockPrice:       15,
			PrivateRoomPrice:  100,
			SpyPrice:          20,
			KickPrice:         100,
			Rating:            4.7,
			RatingCount:       150,
			TipMenu:           defaultTipMenu,
		},
		{
			ID:                "3",
			Name:              "Kitsune VR",
			Tags:              []string{"Anime", "Cosplay", "Gaming"},
			Viewers:           2100,
			Thumbnail:         "https://picsum.photos/seed/kitsune/400/600",
			Status:            models.PerformerStatusPrivate,
			Description:       "VR ready streams. Join me in the metaverse.",
			IsAI:              true,
			Country:           "Japan",
			SubscriptionPrice: 75,
			UnlockPrice:       30,
			PrivateRoomPrice:  200,
			SpyPrice:          50,
			KickPrice:         500,
			Rating:            5.0,
			RatingCount:       500,
			BlockedRegions:    []string{"North America"},
			ToyConnected:      true,
			TipMenu:           defaultTipMenu,
			WatermarkEnabled:  true,
			WatermarkText:     "DGN-KITSUNE-VR",
		},
		{
			ID:                "4",
			Name:              "Goddess Iza",
			Tags:              []string{"BBW", "Worship", "Humiliation"},
			Viewers:           450,
			Thumbnail:         "https://picsum.photos/seed/iza/400/600",
			Status:            models.PerformerStatusOffline,
			Description:       "Pay tribute.",
			Country:           "Brazil",
			SubscriptionPrice: 40,
			UnlockPrice:       20,
			PrivateRoomPrice:  120,
			SpyPrice:          20,
			KickPrice:         150,
			Rating:            4.8,
			RatingCount:       200,
			TipMenu:           defaultTipMenu,
		},
	}
}

func demoPosts() []models.FeedPost {
	now := time.Now()
	return []models.FeedPost{
		{
			ID:          "fp1",
			PerformerID: "1",
			Caption:     "New latex set just dropped 🖤 Unlock to see the full shine.",
			Type:        "IMAGE",
			MediaURL:    "https://picsum.photos/seed/latex/600/600",
			IsLocked:    true,
			UnlockPrice: 25,
			Likes:       120,
			CreatedAt:   now.Add(-time.Hour),
		},
		{
			ID:          "fp2",
			PerformerID: "3",
			Caption:     "Going live in 1 hour! Get your headsets ready.",
			Type:        "TEXT",
			Likes:       890,
			CreatedAt:   now.Add(-2 * time.Hour),
		},
	}
}
