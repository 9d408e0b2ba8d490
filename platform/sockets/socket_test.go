package socket

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/platform/board"
	"github.com/DedS3t/monopoly-server/platform/room"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id  string
	ctx interface{}

	mu     sync.Mutex
	events []string
}

func (c *fakeConn) ID() string               { return c.id }
func (c *fakeConn) Context() interface{}     { return c.ctx }
func (c *fakeConn) SetContext(v interface{}) { c.ctx = v }

func (c *fakeConn) Emit(event string, _ ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *fakeConn) count(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e == event {
			n++
		}
	}
	return n
}

func newTestServer(t *testing.T) (*Server, *room.Registry) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	rooms := room.NewRegistry(room.Options{Decks: board.MustLoadDecks(), DefaultMode: "Classic", Logger: log})
	s, err := NewServer(rooms, log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, rooms
}

func TestJoinSetsRoomContext(t *testing.T) {
	s, rooms := newTestServer(t)
	a := &fakeConn{id: "A", ctx: ""}

	assert.True(t, s.join(a, `{"name": "alice", "roomId": "R1", "maxSize": 2}`))
	assert.Equal(t, "R1", roomOf(a))
	assert.Equal(t, 1, a.count(models.OutJoined))

	sess, ok := rooms.Lookup("R1")
	require.True(t, ok)
	assert.Equal(t, 1, sess.Summary().Size)
}

func TestJoinMalformed(t *testing.T) {
	s, rooms := newTestServer(t)
	a := &fakeConn{id: "A", ctx: ""}

	assert.False(t, s.join(a, `{"roomId": `))
	assert.Equal(t, 1, a.count(models.OutJoinFailed))
	assert.Equal(t, 0, rooms.Len())
}

func TestJoinFullRoomKeepsNoContext(t *testing.T) {
	s, _ := newTestServer(t)
	a, b, c := &fakeConn{id: "A", ctx: ""}, &fakeConn{id: "B", ctx: ""}, &fakeConn{id: "C", ctx: ""}

	require.True(t, s.join(a, `{"roomId": "R1", "maxSize": 2}`))
	require.True(t, s.join(b, `{"roomId": "R1"}`))
	assert.False(t, s.join(c, `{"roomId": "R1"}`))
	assert.Equal(t, "", roomOf(c))
	assert.Equal(t, 1, c.count(models.OutLobbyFull))
}

func TestJoinSwitchesRooms(t *testing.T) {
	s, rooms := newTestServer(t)
	a, b := &fakeConn{id: "A", ctx: ""}, &fakeConn{id: "B", ctx: ""}

	require.True(t, s.join(a, `{"roomId": "R1"}`))
	require.True(t, s.join(b, `{"roomId": "R1"}`))
	require.True(t, s.join(b, `{"roomId": "R2"}`))

	r1, _ := rooms.Lookup("R1")
	assert.Equal(t, 1, r1.Summary().Size)
	assert.Equal(t, "R2", roomOf(b))
}

func TestDispatchAndDisconnect(t *testing.T) {
	s, rooms := newTestServer(t)
	a, b := &fakeConn{id: "A", ctx: ""}, &fakeConn{id: "B", ctx: ""}
	require.True(t, s.join(a, `{"roomId": "R1", "maxSize": 2}`))
	require.True(t, s.join(b, `{"roomId": "R1"}`))

	s.dispatch(a, models.EventReady, `{"ready": true}`)
	s.dispatch(b, models.EventReady, `{"ready": true}`)
	assert.Equal(t, 1, a.count(models.OutStartGame))

	s.dispatch(a, models.EventRollDice, "")
	assert.Equal(t, 1, b.count(models.OutDiceResult))

	s.disconnect(a, "transport close")
	assert.Equal(t, "", roomOf(a))
	assert.Equal(t, 1, b.count(models.OutDisconnectedPlayer))

	s.disconnect(b, "transport close")
	assert.Equal(t, 0, rooms.Len())
}

func TestDispatchBeforeJoinIsIgnored(t *testing.T) {
	s, _ := newTestServer(t)
	a := &fakeConn{id: "A"}

	s.dispatch(a, models.EventRollDice, "")
	s.disconnect(a, "client namespace disconnect")
	assert.Empty(t, a.events)
}

func TestLeaveClearsContext(t *testing.T) {
	s, rooms := newTestServer(t)
	a, b := &fakeConn{id: "A", ctx: ""}, &fakeConn{id: "B", ctx: ""}
	require.True(t, s.join(a, `{"roomId": "R1"}`))
	require.True(t, s.join(b, `{"roomId": "R1"}`))

	s.dispatch(a, models.EventLeave, `{"roomId": "R1"}`)
	assert.Equal(t, "", roomOf(a))
	assert.Equal(t, 1, b.count(models.OutRoomCanceled))
	assert.Equal(t, 0, rooms.Len())
}

func TestHandlerAppliesCORS(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/socket.io/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
