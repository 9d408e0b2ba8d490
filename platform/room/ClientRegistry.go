package room

import (
	"encoding/json"

	"github.com/DedS3t/monopoly-server/app/models"
)

// Conn is the part of a socket.io connection a room talks to.
type Conn interface {
	ID() string
	Emit(event string, v ...interface{})
}

type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClientInfo binds one connection to its player state.
type ClientInfo struct {
	Conn   Conn
	Player *models.Player
	Ready  bool
	Cursor Cursor
}

// ClientRegistry maps connection ids to clients of one room. Iteration
// follows insertion order. It does no locking of its own; the owning
// session serializes access.
type ClientRegistry struct {
	ids     []string
	clients map[string]*ClientInfo
}

func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{clients: make(map[string]*ClientInfo)}
}

// Register adds info under id. A re-registration overwrites the previous
// entry and keeps its original position.
func (r *ClientRegistry) Register(id string, info *ClientInfo) {
	if _, ok := r.clients[id]; !ok {
		r.ids = append(r.ids, id)
	}
	r.clients[id] = info
}

func (r *ClientRegistry) Lookup(id string) (*ClientInfo, bool) {
	c, ok := r.clients[id]
	return c, ok
}

// Remove reports whether id was present.
func (r *ClientRegistry) Remove(id string) bool {
	if _, ok := r.clients[id]; !ok {
		return false
	}
	delete(r.clients, id)
	for i, v := range r.ids {
		if v == id {
			r.ids = append(r.ids[:i:i], r.ids[i+1:]...)
			break
		}
	}
	return true
}

func (r *ClientRegistry) ForEach(visit func(id string, c *ClientInfo)) {
	for _, id := range r.ids {
		visit(id, r.clients[id])
	}
}

func (r *ClientRegistry) Len() int {
	return len(r.ids)
}

// Ids returns a copy of the registered ids in insertion order.
func (r *ClientRegistry) Ids() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *ClientRegistry) Snapshots() []models.PlayerDto {
	out := make([]models.PlayerDto, 0, len(r.ids))
	r.ForEach(func(_ string, c *ClientInfo) {
		out = append(out, c.Player.Snapshot())
	})
	return out
}

func (r *ClientRegistry) BroadcastAll(event string, payload interface{}) {
	msg, ok := encode(payload)
	r.ForEach(func(_ string, c *ClientInfo) {
		send(c.Conn, event, msg, ok)
	})
}

// BroadcastExcept sends to everyone but the author of a change.
func (r *ClientRegistry) BroadcastExcept(except, event string, payload interface{}) {
	msg, ok := encode(payload)
	r.ForEach(func(id string, c *ClientInfo) {
		if id != except {
			send(c.Conn, event, msg, ok)
		}
	})
}

func (r *ClientRegistry) Emit(id, event string, payload interface{}) bool {
	c, ok := r.clients[id]
	if !ok {
		return false
	}
	msg, hasMsg := encode(payload)
	send(c.Conn, event, msg, hasMsg)
	return true
}

// emitTo sends to a connection that may not be registered.
func emitTo(conn Conn, event string, payload interface{}) {
	msg, ok := encode(payload)
	send(conn, event, msg, ok)
}

func encode(payload interface{}) (string, bool) {
	if payload == nil {
		return "", false
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func send(conn Conn, event, msg string, hasMsg bool) {
	if conn == nil {
		return
	}
	if hasMsg {
		conn.Emit(event, msg)
		return
	}
	conn.Emit(event)
}
