package domain

import "strings"

// Rarity is a character tier. Values arrive from the service in any case.
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// rarityRank orders known tiers; unknown tiers rank 0.
var rarityRank = map[Rarity]int{
	RarityCommon:    1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
}

// ParseRarity normalizes a rarity case-insensitively. Unknown values are kept
// upper-cased so they still render.
func ParseRarity(s string) Rarity {
	return Rarity(strings.ToUpper(strings.TrimSpace(s)))
}

// Known reports whether r is one of the defined tiers.
func (r Rarity) Known() bool {
	_, ok := rarityRank[ParseRarity(string(r))]
	return ok
}

// Rank returns the tier ordinal (higher is rarer), 0 for unknown tiers.
func (r Rarity) Rank() int {
	return rarityRank[ParseRarity(string(r))]
}

// Class is the lower-case form used for styling keys.
func (r Rarity) Class() string {
	return strings.ToLower(string(ParseRarity(string(r))))
}

// CharacterPoolEntry is one character definition in the lobby pool.
// Weight is a display-only percentage.
type CharacterPoolEntry struct {
	CharID   string  `json:"charId"`
	Name     string  `json:"name"`
	Rarity   Rarity  `json:"rarity"`
	Weight   float64 `json:"weight"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// placeholderImageBase serves generated stand-in art for entries without an image.
const placeholderImageBase = "https://via.placeholder.com/150/000000/FFFFFF?text="

// PlaceholderImage returns imageURL, or a generated placeholder keyed by charID.
func PlaceholderImage(imageURL, charID string) string {
	if imageURL != "" {
		return imageURL
	}
	return placeholderImageBase + charID
}
