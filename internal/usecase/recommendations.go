package usecase

import "github.com/GoArmGo/EntertainLit/internal/domain"

// CuratedRecommender выдаёт фиксированные подборки: одну для новичков,
// другую для пользователей с историей. Содержимое истории не учитывается.
type CuratedRecommender struct {
	coldStart   []domain.Recommendation
	withHistory []domain.Recommendation
}

func NewCuratedRecommender() *CuratedRecommender {
	return &CuratedRecommender{
		coldStart: []domain.Recommendation{
			{
				ID:          "rec-1",
				Title:       "The Bear",
				Category:    "tv",
				Description: "A young chef from the fine dining world returns to Chicago to run his family's sandwich shop.",
				Reason:      "Popular comedy-drama that's perfect for getting started",
			},
			{
				ID:          "rec-2",
				Title:       "Dune",
				Category:    "books",
				Description: "Epic science fiction novel about politics, religion, and power on a desert planet.",
				Reason:      "Essential sci-fi reading that's influenced countless other works",
			},
			{
				ID:          "rec-3",
				Title:       "Everything Everywhere All at Once",
				Category:    "movies",
				Description: "A multiverse adventure about family, identity, and everything bagels.",
				Reason:      "Award-winning film that blends humor with profound themes",
			},
		},
		withHistory: []domain.Recommendation{
			{
				ID:          "rec-4",
				Title:       "House of the Dragon",
				Category:    "tv",
				Description: "Prequel to Game of Thrones following the Targaryen civil war.",
				Reason:      "Based on your viewing history, you might enjoy this epic fantasy series",
			},
			{
				ID:          "rec-5",
				Title:       "Project Hail Mary",
				Category:    "books",
				Description: "A lone astronaut must save humanity in this sci-fi thriller.",
				Reason:      "Perfect follow-up to your recent reading preferences",
			},
			{
				ID:          "rec-6",
				Title:       "The Banshees of Inisherin",
				Category:    "movies",
				Description: "Dark comedy about friendship on a remote Irish island.",
				Reason:      "Matches your taste for character-driven stories",
			},
		},
	}
}

// Recommend возвращает копию подходящей подборки.
func (r *CuratedRecommender) Recommend(logs []domain.ConsumptionLog) []domain.Recommendation {
	set := r.withHistory
	if len(logs) == 0 {
		set = r.coldStart
	}
	out := make([]domain.Recommendation, len(set))
	copy(out, set)
	return out
}
