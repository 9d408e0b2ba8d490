package models

import "time"

const (
	WinningLastStanding     = "last-standing"
	WinningMonopols         = "monopols"
	WinningMonopolsAndTrain = "monopols & trains"
)

// GameMode is the ruleset a room is created with. It is never mutated.
type GameMode struct {
	Name            string `json:"name"`
	AllowDeals      bool   `json:"allowDeals"`
	WinningMode     string `json:"winningMode"`
	StartingCash    int    `json:"startingCash"`
	MortgageAllowed bool   `json:"mortgageAllowed"`
	TurnTimer       int    `json:"turnTimer,omitempty"` // seconds, 0 disables
}

func (m GameMode) TurnDuration() time.Duration {
	return time.Duration(m.TurnTimer) * time.Second
}

var Modes = []GameMode{
	{
		Name:            "Classic",
		AllowDeals:      true,
		WinningMode:     WinningLastStanding,
		StartingCash:    1500,
		MortgageAllowed: true,
	},
	{
		Name:         "Monopol",
		WinningMode:  WinningMonopolsAndTrain,
		StartingCash: 1500,
	},
	{
		Name:         "Run-Down",
		WinningMode:  WinningLastStanding,
		StartingCash: 1500,
		TurnTimer:    30,
	},
}

// ModeByName falls back to Classic for unknown names.
func ModeByName(name string) GameMode {
	for _, m := range Modes {
		if m.Name == name {
			return m
		}
	}
	return Modes[0]
}

// RoomSummary is the lobby listing entry for a room.
type RoomSummary struct {
	Id       string `json:"id"`
	Instance string `json:"instance"`
	Status   string `json:"status"`
	Size     int    `json:"size"`
	MaxSize  int    `json:"maxSize"`
	Host     string `json:"host"`
	Mode     string `json:"mode"`
}

type VerifyGameDto struct {
	Code string `query:"code"`
}
