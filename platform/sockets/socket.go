package socket

import (
	"encoding/json"
	"net/http"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/platform/room"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// conn is what the adapter needs from a socket.io connection. The
// connection context carries the id of the room it joined.
type conn interface {
	room.Conn
	Context() interface{}
	SetContext(v interface{})
}

// payloadless events carry no argument on the wire.
var payloadless = []string{models.EventRollDice, models.EventTrade}

var withPayload = []string{
	models.EventReady,
	models.EventLeave,
	models.EventDrawCard,
	models.EventPay,
	models.EventCursorMove,
	models.EventChat,
	models.EventUnjail,
	models.EventFinishTurn,
	models.EventPlayerUpdate,
	models.EventSubmitTrade,
	models.EventTradeUpdate,
	models.EventCancelTrade,
}

type Server struct {
	io    *socketio.Server
	rooms *room.Registry
	log   logrus.FieldLogger
}

func NewServer(rooms *room.Registry, log logrus.FieldLogger) (*Server, error) {
	io, err := socketio.NewServer(nil)
	if err != nil {
		return nil, err
	}
	s := &Server{io: io, rooms: rooms, log: log.WithField("component", "socket")}

	io.OnConnect("/", func(c socketio.Conn) error {
		c.SetContext("")
		s.log.WithField("conn", c.ID()).Debug("connected")
		return nil
	})

	io.OnEvent("/", models.EventJoin, func(c socketio.Conn, msg string) {
		if s.join(c, msg) {
			c.LeaveAll()
			c.Join(roomOf(c))
		}
	})

	for _, event := range payloadless {
		event := event
		io.OnEvent("/", event, func(c socketio.Conn) {
			s.dispatch(c, event, "")
		})
	}
	for _, event := range withPayload {
		event := event
		io.OnEvent("/", event, func(c socketio.Conn, msg string) {
			s.dispatch(c, event, msg)
		})
	}

	io.OnError("/", func(c socketio.Conn, e error) {
		entry := s.log.WithError(e)
		if c != nil {
			entry = entry.WithField("conn", c.ID())
		}
		entry.Warn("socket error")
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		s.disconnect(c, reason)
		c.LeaveAll()
	})
	return s, nil
}

// Handler mounts socket.io under /socket.io/ behind the CORS policy.
func (s *Server) Handler(allowed []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowCredentials: true,
	})
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io)
	return c.Handler(mux)
}

func (s *Server) Serve() error {
	return s.io.Serve()
}

func (s *Server) Close() error {
	return s.io.Close()
}

func roomOf(c conn) string {
	id, _ := c.Context().(string)
	return id
}

// join moves c into the requested room, leaving any room it was in.
func (s *Server) join(c conn, msg string) bool {
	var dto models.JoinDto
	if err := json.Unmarshal([]byte(msg), &dto); err != nil {
		s.log.WithError(err).WithField("conn", c.ID()).Warn("bad join payload")
		c.Emit(models.OutJoinFailed, `{"reason":"malformed join"}`)
		return false
	}
	if prev := roomOf(c); prev != "" && prev != dto.RoomId {
		s.rooms.Disconnect(prev, c.ID())
		c.SetContext("")
	}
	if _, err := s.rooms.Join(c, dto); err != nil {
		return false
	}
	c.SetContext(dto.RoomId)
	return true
}

func (s *Server) dispatch(c conn, event, msg string) {
	id := roomOf(c)
	if id == "" {
		s.log.WithFields(logrus.Fields{"conn": c.ID(), "event": event}).Debug("event before join")
		return
	}
	_ = s.rooms.Dispatch(id, c, event, msg)
	if event == models.EventLeave {
		c.SetContext("")
	}
}

func (s *Server) disconnect(c conn, reason string) {
	id := roomOf(c)
	s.log.WithFields(logrus.Fields{"conn": c.ID(), "room": id, "reason": reason}).Debug("disconnected")
	if id != "" {
		s.rooms.Disconnect(id, c.ID())
		c.SetContext("")
	}
}
