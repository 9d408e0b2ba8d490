package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/sirupsen/logrus"
)

// Listener is told about every room whose lobby summary may have changed.
type Listener interface {
	RoomChanged(summary models.RoomSummary)
	RoomRemoved(summary models.RoomSummary)
}

type Options struct {
	Decks       models.Decks
	DefaultMode string
	Logger      logrus.FieldLogger
	Listener    Listener
	// NewRand returns the shuffle and dice source for a new room.
	NewRand func() Intner
}

// Registry maps room ids to live sessions. Lock order is registry then
// session; the registry lock is never taken while a session lock is held.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Session

	decks       models.Decks
	defaultMode string
	log         logrus.FieldLogger
	listener    Listener
	newRand     func() Intner
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{
		rooms:       make(map[string]*Session),
		decks:       opts.Decks,
		defaultMode: opts.DefaultMode,
		log:         opts.Logger,
		listener:    opts.Listener,
		newRand:     opts.NewRand,
	}
	if r.log == nil {
		r.log = logrus.StandardLogger()
	}
	if r.newRand == nil {
		r.newRand = func() Intner {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return r
}

// Join puts conn into the room named by dto, creating the room if needed.
// A room that ended between lookup and join is replaced once.
func (r *Registry) Join(conn Conn, dto models.JoinDto) (*Session, error) {
	if dto.RoomId == "" {
		return nil, fmt.Errorf("%w: join without room id", ErrMalformedPayload)
	}
	for attempt := 0; attempt < 2; attempt++ {
		s := r.acquire(dto)
		err := s.Join(conn, dto.Name)
		if errors.Is(err, ErrRoomEnded) {
			r.evict(s)
			continue
		}
		r.settle(s)
		r.logOutcome(dto.RoomId, conn.ID(), models.EventJoin, err)
		return s, err
	}
	return nil, ErrRoomEnded
}

func (r *Registry) acquire(dto models.JoinDto) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rooms[dto.RoomId]
	if ok && !s.Ended() {
		return s
	}
	mode := dto.Mode
	if mode == "" {
		mode = r.defaultMode
	}
	s = NewSession(dto.RoomId, dto.MaxSize, models.ModeByName(mode), r.decks, r.newRand(), r.log)
	r.rooms[dto.RoomId] = s
	return s
}

// Dispatch routes one event from conn to its room.
func (r *Registry) Dispatch(roomID string, conn Conn, event, payload string) error {
	s, ok := r.Lookup(roomID)
	if !ok {
		err := fmt.Errorf("%s: %w", roomID, ErrRoomNotFound)
		r.logOutcome(roomID, conn.ID(), event, err)
		return err
	}
	err := s.Handle(conn, event, payload)
	r.settle(s)
	r.logOutcome(roomID, conn.ID(), event, err)
	return err
}

// Disconnect removes a dropped connection from its room, if it had one.
func (r *Registry) Disconnect(roomID, connID string) {
	s, ok := r.Lookup(roomID)
	if !ok {
		return
	}
	s.Disconnect(connID)
	r.settle(s)
}

func (r *Registry) Lookup(roomID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rooms[roomID]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) Summaries() []models.RoomSummary {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.rooms))
	for _, s := range r.rooms {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	out := make([]models.RoomSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	return out
}

func (r *Registry) settle(s *Session) {
	if s.Ended() {
		r.evict(s)
		return
	}
	if r.listener != nil {
		r.listener.RoomChanged(s.Summary())
	}
}

// evict drops s only if it is still the live entry for its id, so a
// replacement room with the same key survives.
func (r *Registry) evict(s *Session) {
	r.mu.Lock()
	cur, ok := r.rooms[s.ID()]
	removed := ok && cur == s
	if removed {
		delete(r.rooms, s.ID())
	}
	r.mu.Unlock()

	if removed {
		r.log.WithFields(logrus.Fields{"room": s.ID(), "instance": s.Instance()}).Info("room evicted")
		if r.listener != nil {
			r.listener.RoomRemoved(s.Summary())
		}
	}
}

// logOutcome logs rejected events. Expected no-ops go to debug, anything
// else to warn.
func (r *Registry) logOutcome(roomID, connID, event string, err error) {
	if err == nil {
		return
	}
	entry := r.log.WithFields(logrus.Fields{"room": roomID, "conn": connID, "event": event})
	switch {
	case errors.Is(err, ErrNotTurnHolder),
		errors.Is(err, ErrUnresolvedParticipant),
		errors.Is(err, ErrTradingDisabled),
		errors.Is(err, ErrNotActive),
		errors.Is(err, ErrGameStarted),
		errors.Is(err, ErrLobbyFull):
		entry.WithError(err).Debug("event ignored")
	default:
		entry.WithError(err).Warn("event rejected")
	}
}
