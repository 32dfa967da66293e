package badges

type Kind string

const (
	KindRating = Kind("rating")
	KindClick  = Kind("click")
)

type Badge struct {
	Kind        Kind   `json:"-"`
	Threshold   int    `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ratingBadges and clickBadges are ordered by ascending threshold; the
// evaluators depend on that order.
var ratingBadges = []Badge{
	{Kind: KindRating, Threshold: 1, Name: "Duck Starter", Description: "Rated your first duck!", Image: "assets/badges/badge-1.png"},
	{Kind: KindRating, Threshold: 10, Name: "Duck Enthusiast", Description: "Rated 10 ducks!", Image: "assets/badges/badge-2.png"},
	{Kind: KindRating, Threshold: 25, Name: "Duck Master", Description: "Rated 25 ducks!", Image: "assets/badges/badge-3.png"},
	{Kind: KindRating, Threshold: 50, Name: "Duck Legend", Description: "Rated 50 ducks!", Image: "assets/badges/badge-4.png"},
}

var clickBadges = []Badge{
	{Kind: KindClick, Threshold: 1, Name: "Duck Clicker", Description: "Clicked your first duck!", Image: "assets/badges/badge-4.png"},
	{Kind: KindClick, Threshold: 50, Name: "Duck Whisperer", Description: "Clicked ducks 50 times!", Image: "assets/badges/badge-5.png"},
	{Kind: KindClick, Threshold: 100, Name: "Quack Master", Description: "Clicked ducks 100 times!", Image: "assets/badges/badge-6.png"},
	{Kind: KindClick, Threshold: 1000, Name: "Quack Legend", Description: "Clicked ducks 1000 times!", Image: "assets/badges/badge-7.png"},
}

// All returns the full catalog, rating badges first.
func All() []Badge {
	out := make([]Badge, 0, len(ratingBadges)+len(clickBadges))
	out = append(out, ratingBadges...)
	out = append(out, clickBadges...)
	return out
}

// EvaluateRating returns the badge a session earns for having rated
// distinctCount different ducks, or nil. Badges are scanned in ascending
// threshold order and the first unearned one whose threshold is met wins, so
// a single event awards at most one badge even when several thresholds are
// crossed in one jump. A badge already in earned is never re-awarded.
func EvaluateRating(distinctCount int, earned map[string]bool) *Badge {
	return firstUnearned(ratingBadges, distinctCount, earned)
}

// EvaluateClicks is the click-count counterpart of EvaluateRating, scanning
// the click milestone family {1, 50, 100, 1000}.
func EvaluateClicks(clickCount int, earned map[string]bool) *Badge {
	return firstUnearned(clickBadges, clickCount, earned)
}

func firstUnearned(family []Badge, count int, earned map[string]bool) *Badge {
	for i := range family {
		b := &family[i]
		if count < b.Threshold {
			break
		}
		if earned[b.Name] {
			continue
		}
		awarded := *b
		return &awarded
	}
	return nil
}
