package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelJSON(t *testing.T) {
	var h PropertyHolding
	require.NoError(t, json.Unmarshal([]byte(`{"posistion": 39, "count": "h", "group": "darkblue"}`), &h))
	assert.Equal(t, Level{Hotel: true}, h.Count)

	require.NoError(t, json.Unmarshal([]byte(`{"posistion": 1, "count": 3, "group": "brown"}`), &h))
	assert.Equal(t, Level{Houses: 3}, h.Count)

	assert.Error(t, json.Unmarshal([]byte(`{"count": "x"}`), &h))

	b, err := json.Marshal(Level{Hotel: true})
	require.NoError(t, err)
	assert.Equal(t, `"h"`, string(b))
	b, err = json.Marshal(Level{Houses: 2})
	require.NoError(t, err)
	assert.Equal(t, `2`, string(b))
}

func TestPlayerHoldings(t *testing.T) {
	p := NewPlayer("a", "alice", 1500)
	assert.Equal(t, -1, p.Ord)
	assert.True(t, p.Solvent())

	p.GiveHolding(PropertyHolding{Posistion: 1, Group: "brown"})
	p.GiveHolding(PropertyHolding{Posistion: 3, Group: "brown"})
	p.GiveHolding(PropertyHolding{Posistion: 1, Group: "brown", Count: Level{Houses: 1}})
	assert.Len(t, p.Properties, 2)
	assert.True(t, p.Owns(1))

	h, ok := p.TakeHolding(1)
	require.True(t, ok)
	assert.Equal(t, 1, h.Count.Houses)
	assert.False(t, p.Owns(1))

	_, ok = p.TakeHolding(1)
	assert.False(t, ok)

	p.Balance = 0
	assert.False(t, p.Solvent())
}

func TestPlayerMergeKeepsServerFields(t *testing.T) {
	p := NewPlayer("a", "alice", 1500)
	p.Ord = 2

	p.Merge(PlayerDto{
		Id:         "b",
		Name:       "mallory",
		Ord:        0,
		Position:   -1,
		Balance:    -50,
		IsInJail:   true,
		Properties: []PropertyHolding{{Posistion: 5}, {Posistion: 5}},
	})

	assert.Equal(t, "a", p.Id)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, 2, p.Ord)
	assert.Equal(t, 39, p.Position)
	assert.Equal(t, -50, p.Balance)
	assert.True(t, p.IsInJail)
	assert.Len(t, p.Properties, 1)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	p := NewPlayer("a", "alice", 1500)
	p.Ord = 0
	p.GiveHolding(PropertyHolding{Posistion: 1})

	s := p.Snapshot()
	s.Properties[0].Posistion = 9
	assert.Equal(t, 1, p.Properties[0].Posistion)
	assert.Equal(t, colorMap[0], s.Color)
}

func TestModeByName(t *testing.T) {
	assert.Equal(t, "Monopol", ModeByName("Monopol").Name)
	assert.False(t, ModeByName("Monopol").AllowDeals)
	assert.Equal(t, "Classic", ModeByName("unknown").Name)
	assert.Equal(t, 30, int(ModeByName("Run-Down").TurnDuration().Seconds()))
}
