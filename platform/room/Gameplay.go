package room

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/platform/board"
	"github.com/sirupsen/logrus"
)

type handler func(s *Session, c *ClientInfo, payload string) error

type route struct {
	handle     handler
	activeOnly bool
}

var routes = map[string]route{
	models.EventReady:        {handle: (*Session).onReady},
	models.EventLeave:        {handle: (*Session).onLeave},
	models.EventRollDice:     {handle: (*Session).onRollDice, activeOnly: true},
	models.EventDrawCard:     {handle: (*Session).onDrawCard, activeOnly: true},
	models.EventPay:          {handle: (*Session).onPay, activeOnly: true},
	models.EventCursorMove:   {handle: (*Session).onCursorMove, activeOnly: true},
	models.EventChat:         {handle: (*Session).onChat, activeOnly: true},
	models.EventUnjail:       {handle: (*Session).onUnjail, activeOnly: true},
	models.EventFinishTurn:   {handle: (*Session).onFinishTurn, activeOnly: true},
	models.EventPlayerUpdate: {handle: (*Session).onPlayerUpdate, activeOnly: true},
	models.EventTrade:        {handle: (*Session).onTrade, activeOnly: true},
	models.EventSubmitTrade:  {handle: (*Session).onSubmitTrade, activeOnly: true},
	models.EventTradeUpdate:  {handle: (*Session).onTradeUpdate, activeOnly: true},
	models.EventCancelTrade:  {handle: (*Session).onCancelTrade, activeOnly: true},
}

// Handles reports whether event is routed to a session.
func Handles(event string) bool {
	_, ok := routes[event]
	return ok
}

// Handle runs one inbound event to completion under the session lock. A
// panicking handler is turned into an error so the room keeps serving.
func (s *Session) Handle(conn Conn, event, payload string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{"conn": conn.ID(), "event": event}).Errorf("handler panic: %v", r)
			err = fmt.Errorf("%s handler panicked: %v", event, r)
		}
	}()

	rt, ok := routes[event]
	if !ok {
		return fmt.Errorf("%q: %w", event, ErrUnknownEvent)
	}
	if rt.activeOnly && s.state != Active {
		return fmt.Errorf("%s in %s: %w", event, s.state, ErrNotActive)
	}
	c, ok := s.clients.Lookup(conn.ID())
	if !ok {
		return fmt.Errorf("%s from %s: %w", event, conn.ID(), ErrUnresolvedParticipant)
	}
	return rt.handle(s, c, payload)
}

func decode(payload string, v interface{}) error {
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

func (s *Session) onReady(c *ClientInfo, payload string) error {
	ready := true
	if payload != "" {
		var dto models.ReadyDto
		if err := decode(payload, &dto); err != nil {
			return err
		}
		if dto.Ready != nil {
			ready = *dto.Ready
		}
	}
	return s.setReady(c.Player.Id, ready)
}

func (s *Session) onLeave(c *ClientInfo, _ string) error {
	return s.leave(c.Player.Id)
}

func (s *Session) onRollDice(c *ClientInfo, _ string) error {
	first := s.rand.Intn(6) + 1
	second := s.rand.Intn(6) + 1
	c.Player.Position = (c.Player.Position + first + second) % models.BoardSize
	s.log.WithFields(logrus.Fields{"conn": c.Player.Id, "dice": []int{first, second}}).Debug("rolled")

	s.clients.BroadcastAll(models.OutDiceResult, models.DicePayload{
		Dice:     [2]int{first, second},
		Position: c.Player.Position,
		From:     c.Player.Id,
		TurnId:   s.turn.Holder(),
	})
	return nil
}

func (s *Session) onDrawCard(_ *ClientInfo, payload string) error {
	var dto models.DrawCardDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	s.draws++
	s.clients.BroadcastAll(models.OutCardResult, models.CardPayload{
		Card:       board.Draw(s.decks, dto.IsChance, s.rand),
		IsChance:   dto.IsChance,
		Rolls:      dto.DrawCount,
		DrawNumber: s.draws,
		TurnId:     s.turn.Holder(),
	})
	return nil
}

func (s *Session) onPay(_ *ClientInfo, payload string) error {
	var dto models.PayDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	to, ok := s.clients.Lookup(dto.To)
	if !ok {
		return fmt.Errorf("pay to %s: %w", dto.To, ErrUnresolvedParticipant)
	}
	from, ok := s.clients.Lookup(dto.From)
	if !ok {
		return fmt.Errorf("pay from %s: %w", dto.From, ErrUnresolvedParticipant)
	}
	to.Player.Balance += dto.Amount
	from.Player.Balance -= dto.Amount

	s.clients.BroadcastAll(models.OutBalanceUpdate, models.BalancePayload{
		PlayerId:   dto.To,
		Animation:  "recieveMoney",
		Additional: []string{dto.From},
		Snapshots:  []models.PlayerDto{to.Player.Snapshot(), from.Player.Snapshot()},
	})
	return nil
}

func (s *Session) onCursorMove(c *ClientInfo, payload string) error {
	var dto models.CursorDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	c.Cursor = Cursor{X: dto.X, Y: dto.Y}
	s.clients.BroadcastExcept(c.Player.Id, models.OutCursorUpdate, models.CursorPayload{
		Id: c.Player.Id,
		X:  dto.X,
		Y:  dto.Y,
	})
	return nil
}

func (s *Session) onChat(_ *ClientInfo, payload string) error {
	var dto models.HistoryDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	if dto.Time == "" {
		dto.Time = s.now().Format(time.RFC3339)
	}
	s.clients.BroadcastAll(models.OutChat, dto)
	return nil
}

func (s *Session) onUnjail(c *ClientInfo, payload string) error {
	var dto models.UnjailDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	if dto.Option != "card" && dto.Option != "pay" {
		return fmt.Errorf("%w: unjail option %q", ErrMalformedPayload, dto.Option)
	}
	s.clients.BroadcastAll(models.OutUnjailDeclared, models.UnjailPayload{
		To:     c.Player.Id,
		Option: dto.Option,
	})
	return nil
}

// onFinishTurn merges the sender's reported state and, only if the sender
// holds the token, passes it on.
func (s *Session) onFinishTurn(c *ClientInfo, payload string) error {
	var dto models.FinishTurnDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	c.Player.Merge(dto.Player)
	if !s.turn.IsHolder(c.Player.Id) {
		return fmt.Errorf("finish turn from %s: %w", c.Player.Id, ErrNotTurnHolder)
	}

	next := s.advanceFrom(c.Player.Id)
	s.clients.BroadcastAll(models.OutTurnFinished, models.TurnFinishedPayload{
		From:        c.Player.Id,
		TurnId:      next,
		Player:      c.Player.Snapshot(),
		WinningMode: s.mode.WinningMode,
	})
	s.checkLastStanding()
	return nil
}

func (s *Session) onPlayerUpdate(_ *ClientInfo, payload string) error {
	var dto models.PlayerUpdateDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	target, ok := s.clients.Lookup(dto.PlayerId)
	if !ok {
		return fmt.Errorf("update of %s: %w", dto.PlayerId, ErrUnresolvedParticipant)
	}
	target.Player.Merge(dto.Player)
	s.clients.BroadcastExcept(dto.PlayerId, models.OutPlayerUpdated, models.PlayerUpdateDto{
		PlayerId: dto.PlayerId,
		Player:   target.Player.Snapshot(),
	})
	return nil
}

func (s *Session) onTrade(_ *ClientInfo, _ string) error {
	if err := s.trades.Relay(); err != nil {
		return err
	}
	s.clients.BroadcastAll(models.OutTradeOpened, struct{}{})
	return nil
}

func (s *Session) onSubmitTrade(c *ClientInfo, payload string) error {
	var dto models.TradeDto
	if err := decode(payload, &dto); err != nil {
		return err
	}
	result, err := s.trades.Submit(dto.Offer)
	if err != nil {
		if rejectable(err) {
			s.clients.Emit(c.Player.Id, models.OutTradeRejected, models.ReasonPayload{Reason: err.Error()})
		}
		return err
	}
	s.log.WithField("conn", c.Player.Id).Info(result.Action)
	s.clients.BroadcastAll(models.OutTradeResult, result)
	return nil
}

func (s *Session) onTradeUpdate(_ *ClientInfo, payload string) error {
	return s.relayOffer(models.OutTradeNegotiation, payload)
}

func (s *Session) onCancelTrade(_ *ClientInfo, payload string) error {
	return s.relayOffer(models.OutTradeCanceled, payload)
}

func (s *Session) relayOffer(event, payload string) error {
	if err := s.trades.Relay(); err != nil {
		return err
	}
	dto := models.TradeDto{}
	if payload != "" {
		if err := decode(payload, &dto); err != nil {
			return err
		}
	}
	s.clients.BroadcastAll(event, dto)
	return nil
}
