package devserver

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/naveenspark/gacha/pkg/domain"
)

// Pool is the set of characters the service draws from.
type Pool []domain.CharacterPoolEntry

type poolFile struct {
	Characters []poolEntry `yaml:"characters"`
}

type poolEntry struct {
	CharID   string  `yaml:"charId"`
	Name     string  `yaml:"name"`
	Rarity   string  `yaml:"rarity"`
	Weight   float64 `yaml:"weight"`
	ImageURL string  `yaml:"imageUrl"`
}

// DefaultPool is used when no pool file is configured.
func DefaultPool() Pool {
	return Pool{
		{CharID: "c001", Name: "Seraphine", Rarity: domain.RarityLegendary, Weight: 1},
		{CharID: "c002", Name: "Kael", Rarity: domain.RarityEpic, Weight: 4},
		{CharID: "c003", Name: "Mira", Rarity: domain.RarityEpic, Weight: 4},
		{CharID: "c004", Name: "Tobin", Rarity: domain.RarityRare, Weight: 15},
		{CharID: "c005", Name: "Lyra", Rarity: domain.RarityRare, Weight: 15},
		{CharID: "c006", Name: "Grunt", Rarity: domain.RarityCommon, Weight: 30},
		{CharID: "c007", Name: "Pip", Rarity: domain.RarityCommon, Weight: 31},
	}
}

// LoadPool reads a YAML pool file. An empty path returns DefaultPool.
func LoadPool(path string) (Pool, error) {
	if path == "" {
		return DefaultPool(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool %s: %w", path, err)
	}
	var f poolFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse pool %s: %w", path, err)
	}
	p := make(Pool, len(f.Characters))
	for i, e := range f.Characters {
		p[i] = domain.CharacterPoolEntry{
			CharID:   e.CharID,
			Name:     e.Name,
			Rarity:   domain.ParseRarity(e.Rarity),
			Weight:   e.Weight,
			ImageURL: e.ImageURL,
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("pool %s: %w", path, err)
	}
	return p, nil
}

// Validate checks ids are unique and every weight is positive.
func (p Pool) Validate() error {
	if len(p) == 0 {
		return errors.New("pool is empty")
	}
	seen := make(map[string]bool, len(p))
	for i, e := range p {
		switch {
		case e.CharID == "":
			return fmt.Errorf("entry %d: missing charId", i)
		case seen[e.CharID]:
			return fmt.Errorf("entry %d: duplicate charId %q", i, e.CharID)
		case e.Weight <= 0:
			return fmt.Errorf("entry %q: weight must be positive, got %v", e.CharID, e.Weight)
		case !e.Rarity.Known():
			return fmt.Errorf("entry %q: unknown rarity %q", e.CharID, e.Rarity)
		}
		seen[e.CharID] = true
	}
	return nil
}

// Pick draws one entry with probability proportional to its weight.
func (p Pool) Pick(rng RandomSource) domain.CharacterPoolEntry {
	var total float64
	for _, e := range p {
		total += e.Weight
	}
	x := rng.Float64() * total
	for _, e := range p {
		if x < e.Weight {
			return e
		}
		x -= e.Weight
	}
	return p[len(p)-1]
}
