package room

import "errors"

var (
	ErrLobbyFull             = errors.New("lobby full")
	ErrGameStarted           = errors.New("game already started")
	ErrRoomEnded             = errors.New("room ended")
	ErrRoomNotFound          = errors.New("room not found")
	ErrNotActive             = errors.New("room is not active")
	ErrNotTurnHolder         = errors.New("sender does not hold the turn")
	ErrUnresolvedParticipant = errors.New("participant not in room")
	ErrTradingDisabled       = errors.New("trading disabled by game mode")
	ErrUnownedHolding        = errors.New("holding not owned by its claimed side")
	ErrSelfTrade             = errors.New("both trade sides are the same player")
	ErrMalformedPayload      = errors.New("malformed payload")
	ErrUnknownEvent          = errors.New("unknown event")
)
