package board

import (
	_ "embed"
	"encoding/json"
	"errors"

	"github.com/DedS3t/monopoly-server/app/models"
)

//go:embed cards.json
var cardsJSON []byte

// Intner is the slice of *rand.Rand the decks need.
type Intner interface {
	Intn(n int) int
}

func LoadDecks() (models.Decks, error) {
	return ParseDecks(cardsJSON)
}

func ParseDecks(raw []byte) (models.Decks, error) {
	var decks models.Decks
	if err := json.Unmarshal(raw, &decks); err != nil {
		return models.Decks{}, err
	}
	if len(decks.Chance) == 0 || len(decks.CommunityChest) == 0 {
		return models.Decks{}, errors.New("deck table is missing chance or community chest entries")
	}
	return decks, nil
}

// MustLoadDecks panics on a broken embedded table, which can only happen at build time.
func MustLoadDecks() models.Decks {
	decks, err := LoadDecks()
	if err != nil {
		panic(err)
	}
	return decks
}

// Draw picks one card uniformly from the chance or community chest deck.
// Cards are drawn with replacement.
func Draw(decks models.Decks, isChance bool, r Intner) models.Card {
	deck := decks.CommunityChest
	if isChance {
		deck = decks.Chance
	}
	return deck[r.Intn(len(deck))]
}
