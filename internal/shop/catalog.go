package shop

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Category    string `json:"category"`
}

// Catalog returns the full static item list. Cosmetics only; nothing here
// affects gameplay.
func Catalog() []Item {
	return []Item{
		{ID: "top_hat", Name: "Top Hat", Description: "A dapper top hat for your duck", Price: 50, Category: "hat"},
		{ID: "pirate_hat", Name: "Pirate Hat", Description: "Yarr! A pirate hat with feather", Price: 75, Category: "hat"},
		{ID: "crown", Name: "Royal Crown", Description: "Fit for duck royalty", Price: 200, Category: "hat"},
		{ID: "wizard_hat", Name: "Wizard Hat", Description: "Channel your inner duck wizard", Price: 150, Category: "hat"},

		{ID: "pond_theme", Name: "Pond Theme", Description: "A serene pond backdrop", Price: 100, Category: "theme"},
		{ID: "sunset_theme", Name: "Sunset Theme", Description: "Golden hour for golden ducks", Price: 120, Category: "theme"},
		{ID: "night_theme", Name: "Night Theme", Description: "Ducks after dark", Price: 120, Category: "theme"},

		{ID: "deep_quack", Name: "Deep Quack", Description: "A booming bass quack", Price: 60, Category: "sound"},
		{ID: "squeaky_quack", Name: "Squeaky Quack", Description: "An adorable squeak", Price: 60, Category: "sound"},
		{ID: "echo_quack", Name: "Echo Quack", Description: "Quack... quack... quack...", Price: 90, Category: "sound"},

		{ID: "sparkle_trail", Name: "Sparkle Trail", Description: "Sparkles follow your clicks", Price: 80, Category: "effect"},
		{ID: "rainbow_confetti", Name: "Rainbow Confetti", Description: "Extra colorful rating confetti", Price: 110, Category: "effect"},
		{ID: "golden_glow", Name: "Golden Glow", Description: "Your duck glows with importance", Price: 250, Category: "effect"},
	}
}

// Find returns the catalog item with the given id, or nil.
func Find(id string) *Item {
	for _, item := range Catalog() {
		if item.ID == id {
			return &item
		}
	}
	return nil
}
