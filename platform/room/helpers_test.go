package room

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sync"
	"testing"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/platform/board"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	event string
	msg   string
}

type fakeConn struct {
	id string

	mu   sync.Mutex
	sent []emitted
}

func newConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Emit(event string, v ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := ""
	if len(v) > 0 {
		msg = fmt.Sprint(v[0])
	}
	c.sent = append(c.sent, emitted{event: event, msg: msg})
}

func (c *fakeConn) count(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.sent {
		if e.event == event {
			n++
		}
	}
	return n
}

// last decodes the most recent payload sent for event into v.
func (c *fakeConn) last(t *testing.T, event string, v interface{}) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if c.sent[i].event == event {
			require.NoError(t, json.Unmarshal([]byte(c.sent[i].msg), v))
			return
		}
	}
	t.Fatalf("%s never received %q", c.id, event)
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}

// keepOrder never swaps during a shuffle and always rolls a six.
type keepOrder struct{}

func (keepOrder) Intn(n int) int { return n - 1 }

// alwaysZero swaps every element with the first one.
type alwaysZero struct{}

func (alwaysZero) Intn(int) int { return 0 }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(ioutil.Discard)
	return l
}

func newTestSession(t *testing.T, capacity int, mode models.GameMode) *Session {
	t.Helper()
	return NewSession("R1", capacity, mode, board.MustLoadDecks(), keepOrder{}, quietLogger())
}

// startGame joins every conn and readies them. With keepOrder the turn
// order equals the join order.
func startGame(t *testing.T, s *Session, conns ...*fakeConn) {
	t.Helper()
	for _, c := range conns {
		require.NoError(t, s.Join(c, c.id))
	}
	for _, c := range conns {
		require.NoError(t, s.SetReady(c.id, true))
	}
	require.Equal(t, Active, s.State())
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func player(t *testing.T, s *Session, id string) *models.Player {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients.Lookup(id)
	require.True(t, ok, "%s not registered", id)
	return c.Player
}

func holding(pos int, group string) models.PropertyHolding {
	return models.PropertyHolding{Posistion: pos, Group: group}
}
