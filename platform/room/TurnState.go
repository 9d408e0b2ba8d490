package room

import (
	"sort"
	"time"
)

// Intner is satisfied by *rand.Rand.
type Intner interface {
	Intn(n int) int
}

// TurnState holds the frozen turn order and the current token. An empty
// token means nobody may act.
type TurnState struct {
	order []string
	token string

	timer      *time.Timer
	generation uint64
}

// Shuffle fixes the order as a uniform permutation of ids. ids is permuted
// in place.
func (t *TurnState) Shuffle(ids []string, r Intner) []string {
	for i := len(ids) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	t.order = ids
	return t.Order()
}

func (t *TurnState) Order() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *TurnState) Holder() string {
	return t.token
}

func (t *TurnState) IsHolder(id string) bool {
	return t.token != "" && t.token == id
}

func (t *TurnState) SetHolder(id string) {
	t.token = id
}

// Next computes who takes the token after from, without changing it.
// Candidates are the solvent registered players ordered by ord. When
// departing is set, from is treated as already gone.
func (t *TurnState) Next(clients *ClientRegistry, from string, departing bool) string {
	fromOrd := -1
	fromSolvent := false
	if c, ok := clients.Lookup(from); ok {
		fromOrd = c.Player.Ord
		fromSolvent = c.Player.Solvent()
	}

	var solvent []*ClientInfo
	clients.ForEach(func(id string, c *ClientInfo) {
		if id != from && c.Player.Solvent() && c.Player.Ord >= 0 {
			solvent = append(solvent, c)
		}
	})
	if len(solvent) == 0 {
		if !departing && fromSolvent {
			return from
		}
		return ""
	}
	sort.Slice(solvent, func(i, j int) bool {
		return solvent[i].Player.Ord < solvent[j].Player.Ord
	})
	for _, c := range solvent {
		if c.Player.Ord > fromOrd {
			return c.Player.Id
		}
	}
	return solvent[0].Player.Id
}

// arm restarts the turn deadline for the current token. Every call bumps
// the generation so a stale expiry can tell it lost the race.
func (t *TurnState) arm(d time.Duration, expire func(gen uint64)) {
	t.stop()
	if d <= 0 || t.token == "" {
		return
	}
	gen := t.generation
	t.timer = time.AfterFunc(d, func() { expire(gen) })
}

func (t *TurnState) stop() {
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *TurnState) current(gen uint64) bool {
	return gen == t.generation
}
