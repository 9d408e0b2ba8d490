package room

import (
	"errors"
	"fmt"

	"github.com/DedS3t/monopoly-server/app/models"
)

// TradeCoordinator executes bilateral exchanges between two players of a
// room. Either the whole offer applies or nothing does.
type TradeCoordinator struct {
	mode    models.GameMode
	clients *ClientRegistry
}

func NewTradeCoordinator(mode models.GameMode, clients *ClientRegistry) *TradeCoordinator {
	return &TradeCoordinator{mode: mode, clients: clients}
}

// Submit validates offer and applies it. Each side hands over its pledged
// balance and the holdings it lists, and receives the counterpart's.
func (tc *TradeCoordinator) Submit(offer models.TradeOffer) (models.TradeResultPayload, error) {
	if !tc.mode.AllowDeals {
		return models.TradeResultPayload{}, ErrTradingDisabled
	}
	turn, ok := tc.clients.Lookup(offer.TurnPlayer.Id)
	if !ok {
		return models.TradeResultPayload{}, fmt.Errorf("turn player %q: %w", offer.TurnPlayer.Id, ErrUnresolvedParticipant)
	}
	against, ok := tc.clients.Lookup(offer.AgainstPlayer.Id)
	if !ok {
		return models.TradeResultPayload{}, fmt.Errorf("against player %q: %w", offer.AgainstPlayer.Id, ErrUnresolvedParticipant)
	}
	if turn == against {
		return models.TradeResultPayload{}, fmt.Errorf("%s: %w", offer.TurnPlayer.Id, ErrSelfTrade)
	}

	turnGives, err := surrendered(turn.Player, offer.TurnPlayer.Prop)
	if err != nil {
		return models.TradeResultPayload{}, err
	}
	againstGives, err := surrendered(against.Player, offer.AgainstPlayer.Prop)
	if err != nil {
		return models.TradeResultPayload{}, err
	}

	// Validation is complete; nothing below can fail.
	for _, pos := range turnGives {
		h, _ := turn.Player.TakeHolding(pos)
		against.Player.GiveHolding(h)
	}
	for _, pos := range againstGives {
		h, _ := against.Player.TakeHolding(pos)
		turn.Player.GiveHolding(h)
	}

	turn.Player.Balance += offer.AgainstPlayer.Balance - offer.TurnPlayer.Balance
	against.Player.Balance += offer.TurnPlayer.Balance - offer.AgainstPlayer.Balance

	return models.TradeResultPayload{
		Snapshots: []models.PlayerDto{turn.Player.Snapshot(), against.Player.Snapshot()},
		Action:    fmt.Sprintf("%s done a trade with %s", turn.Player.Name, against.Player.Name),
	}, nil
}

// Relay checks that negotiation traffic may be forwarded at all.
func (tc *TradeCoordinator) Relay() error {
	if !tc.mode.AllowDeals {
		return ErrTradingDisabled
	}
	return nil
}

// surrendered returns the distinct positions listed in props, failing if
// p does not own any of them.
func surrendered(p *models.Player, props []models.PropertyHolding) ([]int, error) {
	seen := make(map[int]bool, len(props))
	positions := make([]int, 0, len(props))
	for _, h := range props {
		if seen[h.Posistion] {
			continue
		}
		seen[h.Posistion] = true
		if !p.Owns(h.Posistion) {
			return nil, fmt.Errorf("%s does not hold position %d: %w", p.Id, h.Posistion, ErrUnownedHolding)
		}
		positions = append(positions, h.Posistion)
	}
	return positions, nil
}

// rejectable errors are answered to the submitter; the rest are silent.
func rejectable(err error) bool {
	return errors.Is(err, ErrUnownedHolding) || errors.Is(err, ErrSelfTrade)
}
