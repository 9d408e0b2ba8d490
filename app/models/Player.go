package models

import (
	"encoding/json"
	"fmt"
)

const BoardSize = 40

var colorMap = []string{
	"#E0115F",
	"#4169e1",
	"#50C878",
	"#FFC000",
	"#FF7F50",
	"#6C22C9",
}

// PropertyHolding is one owned board square. Position is its identity: a
// player can never hold the same square twice.
type PropertyHolding struct {
	Posistion int    `json:"posistion"`
	Count     Level  `json:"count"`
	Group     string `json:"group"`
	Rent      *int   `json:"rent,omitempty"`
	Morgage   *bool  `json:"morgage,omitempty"`
}

// Level is the improvement level of a holding: 0-4 houses or a hotel.
type Level struct {
	Houses int
	Hotel  bool
}

func (l Level) MarshalJSON() ([]byte, error) {
	if l.Hotel {
		return []byte(`"h"`), nil
	}
	return json.Marshal(l.Houses)
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "h" {
			return fmt.Errorf("invalid improvement level %q", s)
		}
		*l = Level{Hotel: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*l = Level{Houses: n}
	return nil
}

// Player is the mutable game state bound to one connection.
type Player struct {
	Id                 string            `json:"id"`
	Name               string            `json:"name"`
	Ord                int               `json:"ord"`
	Position           int               `json:"position"`
	Balance            int               `json:"balance"`
	Properties         []PropertyHolding `json:"properties"`
	IsInJail           bool              `json:"isInJail"`
	JailTurnsRemaining int               `json:"jailTurnsRemaining"`
	GetoutCards        int               `json:"getoutCards"`
}

func NewPlayer(id, name string, startingCash int) *Player {
	return &Player{
		Id:         id,
		Name:       name,
		Ord:        -1,
		Balance:    startingCash,
		Properties: []PropertyHolding{},
	}
}

// Solvent reports whether the player still takes part in turn rotation.
func (p *Player) Solvent() bool {
	return p.Balance > 0
}

func (p *Player) Color() string {
	if p.Ord >= 0 && p.Ord < len(colorMap) {
		return colorMap[p.Ord]
	}
	return ""
}

// Owns reports whether the player holds the square at pos.
func (p *Player) Owns(pos int) bool {
	return p.holdingIndex(pos) >= 0
}

func (p *Player) holdingIndex(pos int) int {
	for i, h := range p.Properties {
		if h.Posistion == pos {
			return i
		}
	}
	return -1
}

// TakeHolding removes the holding at pos and returns it.
func (p *Player) TakeHolding(pos int) (PropertyHolding, bool) {
	i := p.holdingIndex(pos)
	if i < 0 {
		return PropertyHolding{}, false
	}
	h := p.Properties[i]
	p.Properties = append(p.Properties[:i:i], p.Properties[i+1:]...)
	return h, true
}

// GiveHolding adds h, replacing any holding already keyed on the same position.
func (p *Player) GiveHolding(h PropertyHolding) {
	if i := p.holdingIndex(h.Posistion); i >= 0 {
		p.Properties[i] = h
		return
	}
	p.Properties = append(p.Properties, h)
}

// Merge copies the client-reported fields of a snapshot into p. Identity,
// name and turn order stay server-owned.
func (p *Player) Merge(s PlayerDto) {
	p.Position = ((s.Position % BoardSize) + BoardSize) % BoardSize
	p.Balance = s.Balance
	p.IsInJail = s.IsInJail
	p.JailTurnsRemaining = s.JailTurnsRemaining
	p.GetoutCards = s.GetoutCards

	props := make([]PropertyHolding, 0, len(s.Properties))
	seen := make(map[int]bool, len(s.Properties))
	for _, h := range s.Properties {
		if seen[h.Posistion] {
			continue
		}
		seen[h.Posistion] = true
		props = append(props, h)
	}
	p.Properties = props
}

// Snapshot returns a deep copy suitable for broadcasting.
func (p *Player) Snapshot() PlayerDto {
	props := make([]PropertyHolding, len(p.Properties))
	copy(props, p.Properties)
	return PlayerDto{
		Id:                 p.Id,
		Name:               p.Name,
		Ord:                p.Ord,
		Color:              p.Color(),
		Position:           p.Position,
		Balance:            p.Balance,
		Properties:         props,
		IsInJail:           p.IsInJail,
		JailTurnsRemaining: p.JailTurnsRemaining,
		GetoutCards:        p.GetoutCards,
	}
}

type PlayerDto struct {
	Id                 string            `json:"id"`
	Name               string            `json:"name"`
	Ord                int               `json:"ord"`
	Color              string            `json:"color,omitempty"`
	Position           int               `json:"position"`
	Balance            int               `json:"balance"`
	Properties         []PropertyHolding `json:"properties"`
	IsInJail           bool              `json:"isInJail"`
	JailTurnsRemaining int               `json:"jailTurnsRemaining"`
	GetoutCards        int               `json:"getoutCards"`
}
