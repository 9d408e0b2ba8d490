package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-server/app/models"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

const (
	MinCapacity = 2
	MaxCapacity = 6
)

type State int

const (
	Empty State = iota
	Forming
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Forming:
		return "forming"
	case Active:
		return "active"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session is one room: its clients, its turn state and its lifecycle. All
// exported methods serialize on the session mutex, timer expiries included.
type Session struct {
	mu sync.Mutex

	id       string
	instance string
	capacity int
	host     string
	mode     models.GameMode
	state    State

	clients *ClientRegistry
	turn    TurnState
	trades  *TradeCoordinator

	rand     Intner
	decks    models.Decks
	draws    int
	gameOver bool

	now func() time.Time
	log logrus.FieldLogger
}

// NewSession creates an empty room. Capacities outside 2..6 fall back to 6.
func NewSession(id string, capacity int, mode models.GameMode, decks models.Decks, r Intner, log logrus.FieldLogger) *Session {
	if capacity < MinCapacity || capacity > MaxCapacity {
		capacity = MaxCapacity
	}
	instance := uuid.NewV4().String()
	clients := NewClientRegistry()
	return &Session{
		id:       id,
		instance: instance,
		capacity: capacity,
		mode:     mode,
		clients:  clients,
		trades:   NewTradeCoordinator(mode, clients),
		rand:     r,
		decks:    decks,
		now:      time.Now,
		log:      log.WithFields(logrus.Fields{"room": id, "instance": instance}),
	}
}

func (s *Session) ID() string       { return s.id }
func (s *Session) Instance() string { return s.instance }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Ended() bool {
	return s.State() == Ended
}

func (s *Session) Holder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn.Holder()
}

func (s *Session) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn.Order()
}

func (s *Session) Summary() models.RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary()
}

func (s *Session) summary() models.RoomSummary {
	return models.RoomSummary{
		Id:       s.id,
		Instance: s.instance,
		Status:   s.state.String(),
		Size:     s.clients.Len(),
		MaxSize:  s.capacity,
		Host:     s.host,
		Mode:     s.mode.Name,
	}
}

// Join registers conn as a player. The first joiner becomes host. A full
// room answers lobbyFull to the joiner only and changes nothing.
func (s *Session) Join(conn Conn, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Ended:
		return ErrRoomEnded
	case Active:
		emitTo(conn, models.OutJoinFailed, models.ReasonPayload{Reason: ErrGameStarted.Error()})
		return ErrGameStarted
	}

	id := conn.ID()
	if _, rejoin := s.clients.Lookup(id); !rejoin && s.clients.Len() >= s.capacity {
		emitTo(conn, models.OutLobbyFull, models.ReasonPayload{Reason: ErrLobbyFull.Error()})
		return fmt.Errorf("%s at capacity %d: %w", s.id, s.capacity, ErrLobbyFull)
	}

	if s.state == Empty {
		s.state = Forming
		s.host = id
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", s.clients.Len()+1)
	}
	s.clients.Register(id, &ClientInfo{
		Conn:   conn,
		Player: models.NewPlayer(id, name, s.mode.StartingCash),
	})
	s.log.WithFields(logrus.Fields{"conn": id, "size": s.clients.Len()}).Info("player joined")

	emitTo(conn, models.OutJoined, models.JoinedPayload{
		RoomId:   s.id,
		Id:       id,
		Host:     s.host,
		Capacity: s.capacity,
		Mode:     s.mode,
	})
	s.clients.BroadcastAll(models.OutPlayerJoined, models.PlayersPayload{Players: s.clients.Snapshots()})
	return nil
}

// SetReady records readiness and starts the game once every client is
// ready and at least two are present.
func (s *Session) SetReady(id string, ready bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setReady(id, ready)
}

func (s *Session) setReady(id string, ready bool) error {
	if s.state != Forming {
		return ErrGameStarted
	}
	c, ok := s.clients.Lookup(id)
	if !ok {
		return fmt.Errorf("ready from %s: %w", id, ErrUnresolvedParticipant)
	}
	c.Ready = ready
	s.clients.BroadcastAll(models.OutReadyState, models.ReadyPayload{Id: id, Ready: ready})

	if s.clients.Len() < MinCapacity {
		return nil
	}
	all := true
	s.clients.ForEach(func(_ string, c *ClientInfo) {
		all = all && c.Ready
	})
	if all {
		s.activate()
	}
	return nil
}

func (s *Session) activate() {
	order := s.turn.Shuffle(s.clients.Ids(), s.rand)
	for i, id := range order {
		c, _ := s.clients.Lookup(id)
		c.Player.Ord = i
	}
	s.turn.SetHolder(order[0])
	s.state = Active
	s.log.WithField("order", order).Info("game started")

	s.clients.BroadcastAll(models.OutStartGame, models.StartGamePayload{
		Order:   order,
		Players: s.clients.Snapshots(),
		Mode:    s.mode,
	})
	s.armTimer()
}

// Leave handles an explicit leave. The host leaving a forming room cancels
// it for everyone.
func (s *Session) Leave(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leave(id)
}

func (s *Session) leave(id string) error {
	if s.state == Forming && id == s.host {
		return s.hostCancel()
	}
	s.remove(id)
	return nil
}

// Disconnect removes id after a transport drop. Unlike Leave it never
// cancels the room; a departing host hands the role to the next member.
func (s *Session) Disconnect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id)
}

func (s *Session) HostCancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostCancel()
}

func (s *Session) hostCancel() error {
	if s.state != Forming {
		return fmt.Errorf("cancel in %s: %w", s.state, ErrGameStarted)
	}
	s.clients.BroadcastExcept(s.host, models.OutRoomCanceled, models.ReasonPayload{Reason: "host left"})
	s.clients = NewClientRegistry()
	s.end()
	s.log.Info("room canceled by host")
	return nil
}

// remove is idempotent. The next holder is computed while the leaver is
// still registered so its ord anchors the rotation.
func (s *Session) remove(id string) {
	if _, ok := s.clients.Lookup(id); !ok {
		return
	}

	next := s.turn.Holder()
	advanced := s.state == Active && s.turn.IsHolder(id)
	if advanced {
		next = s.turn.Next(s.clients, id, true)
	}
	s.clients.Remove(id)
	s.log.WithFields(logrus.Fields{"conn": id, "size": s.clients.Len()}).Info("player left")

	if s.clients.Len() == 0 {
		s.turn.SetHolder("")
		s.end()
		return
	}

	if s.state == Forming && id == s.host {
		s.host = s.clients.Ids()[0]
	}
	if advanced {
		s.turn.SetHolder(next)
		s.armTimer()
	}
	s.clients.BroadcastAll(models.OutDisconnectedPlayer, models.DisconnectedPayload{Id: id, NextHolder: next})
	if s.state == Active {
		s.checkLastStanding()
	}
}

func (s *Session) end() {
	s.state = Ended
	s.turn.stop()
}

// advanceFrom passes the token on from the current holder and re-arms
// the deadline.
func (s *Session) advanceFrom(from string) string {
	next := s.turn.Next(s.clients, from, false)
	s.turn.SetHolder(next)
	s.armTimer()
	return next
}

func (s *Session) armTimer() {
	if s.gameOver {
		s.turn.stop()
		return
	}
	s.turn.arm(s.mode.TurnDuration(), s.expire)
}

// expire runs when a holder sat on the token past the mode's turn timer.
func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.turn.current(gen) || s.state != Active {
		return
	}
	from := s.turn.Holder()
	payload := models.TurnFinishedPayload{
		From:        from,
		WinningMode: s.mode.WinningMode,
		Reason:      "timeout",
	}
	if c, ok := s.clients.Lookup(from); ok {
		payload.Player = c.Player.Snapshot()
	}
	payload.TurnId = s.advanceFrom(from)
	s.log.WithFields(logrus.Fields{"conn": from, "next": payload.TurnId}).Info("turn timed out")

	s.clients.BroadcastAll(models.OutTurnFinished, payload)
	s.checkLastStanding()
}

// checkLastStanding announces the winner once when a last-standing game is
// down to one solvent player.
func (s *Session) checkLastStanding() {
	if s.gameOver || s.mode.WinningMode != models.WinningLastStanding {
		return
	}
	var solvent []string
	s.clients.ForEach(func(id string, c *ClientInfo) {
		if c.Player.Solvent() {
			solvent = append(solvent, id)
		}
	})
	if len(solvent) != 1 {
		return
	}
	s.gameOver = true
	s.turn.stop()
	s.log.WithField("winner", solvent[0]).Info("game over")
	s.clients.BroadcastAll(models.OutGameOver, models.GameOverPayload{
		Winner:      solvent[0],
		WinningMode: s.mode.WinningMode,
	})
}
