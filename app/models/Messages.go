package models

// Inbound socket.io events.
const (
	EventJoin         = "join"
	EventReady        = "ready"
	EventLeave        = "leave"
	EventRollDice     = "rollDice"
	EventDrawCard     = "drawCard"
	EventPay          = "pay"
	EventCursorMove   = "cursorMove"
	EventChat         = "chat"
	EventUnjail       = "unjail"
	EventFinishTurn   = "finishTurn"
	EventPlayerUpdate = "playerUpdate"
	EventTrade        = "trade"
	EventSubmitTrade  = "submitTrade"
	EventTradeUpdate  = "tradeUpdate"
	EventCancelTrade  = "cancelTrade"
)

// Outbound events.
const (
	OutJoined             = "joined"
	OutJoinFailed         = "joinFailed"
	OutLobbyFull          = "lobbyFull"
	OutPlayerJoined       = "playerJoined"
	OutReadyState         = "readyState"
	OutStartGame          = "startGame"
	OutRoomCanceled       = "roomCanceled"
	OutDiceResult         = "diceResult"
	OutCardResult         = "cardResult"
	OutBalanceUpdate      = "balanceUpdate"
	OutCursorUpdate       = "cursorUpdate"
	OutChat               = "chat"
	OutUnjailDeclared     = "unjailDeclared"
	OutTurnFinished       = "turnFinished"
	OutPlayerUpdated      = "playerUpdated"
	OutTradeOpened        = "tradeOpened"
	OutTradeResult        = "tradeResult"
	OutTradeRejected      = "tradeRejected"
	OutTradeNegotiation   = "tradeNegotiation"
	OutTradeCanceled      = "tradeCanceled"
	OutDisconnectedPlayer = "disconnectedPlayer"
	OutGameOver           = "gameOver"
)

type JoinDto struct {
	Name    string `json:"name"`
	RoomId  string `json:"roomId"`
	MaxSize int    `json:"maxSize"`
	Mode    string `json:"mode"`
}

type ReadyDto struct {
	Ready *bool `json:"ready"`
}

type LeaveDto struct {
	RoomId string `json:"roomId"`
}

type DrawCardDto struct {
	IsChance  bool `json:"isChance"`
	DrawCount int  `json:"drawCount"`
}

type PayDto struct {
	Amount int    `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type CursorDto struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type HistoryDto struct {
	Time   string `json:"time"`
	Action string `json:"action"`
}

type UnjailDto struct {
	Option string `json:"option"`
}

type FinishTurnDto struct {
	Player PlayerDto `json:"player"`
}

type PlayerUpdateDto struct {
	PlayerId string    `json:"playerId"`
	Player   PlayerDto `json:"player"`
}

// TradeSide is one party's pledge: the cash it hands over and the holdings
// it surrenders.
type TradeSide struct {
	Id      string            `json:"id"`
	Balance int               `json:"balance"`
	Prop    []PropertyHolding `json:"prop"`
}

type TradeOffer struct {
	TurnPlayer    TradeSide `json:"turnPlayer"`
	AgainstPlayer TradeSide `json:"againstPlayer"`
}

type TradeDto struct {
	Offer TradeOffer `json:"offer"`
}

type JoinedPayload struct {
	RoomId   string   `json:"roomId"`
	Id       string   `json:"id"`
	Host     string   `json:"host"`
	Capacity int      `json:"capacity"`
	Mode     GameMode `json:"mode"`
}

type ReasonPayload struct {
	Reason string `json:"reason"`
}

type PlayersPayload struct {
	Players []PlayerDto `json:"players"`
}

type ReadyPayload struct {
	Id    string `json:"id"`
	Ready bool   `json:"ready"`
}

type StartGamePayload struct {
	Order   []string    `json:"order"`
	Players []PlayerDto `json:"players"`
	Mode    GameMode    `json:"mode"`
}

type DicePayload struct {
	Dice     [2]int `json:"dice"`
	Position int    `json:"position"`
	From     string `json:"from"`
	TurnId   string `json:"turnId"`
}

type CardPayload struct {
	Card       Card   `json:"card"`
	IsChance   bool   `json:"isChance"`
	Rolls      int    `json:"rolls"`
	DrawNumber int    `json:"drawNumber"`
	TurnId     string `json:"turnId"`
}

type BalancePayload struct {
	PlayerId   string      `json:"playerId"`
	Animation  string      `json:"animation"`
	Additional []string    `json:"additional_props"`
	Snapshots  []PlayerDto `json:"pJson"`
}

type CursorPayload struct {
	Id string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type UnjailPayload struct {
	To     string `json:"to"`
	Option string `json:"option"`
}

type TurnFinishedPayload struct {
	From        string    `json:"from"`
	TurnId      string    `json:"turnId"`
	Player      PlayerDto `json:"pJson"`
	WinningMode string    `json:"WinningMode"`
	Reason      string    `json:"reason,omitempty"`
}

type TradeResultPayload struct {
	Snapshots []PlayerDto `json:"pJsons"`
	Action    string      `json:"action"`
}

type DisconnectedPayload struct {
	Id         string `json:"id"`
	NextHolder string `json:"turnId"`
}

type GameOverPayload struct {
	Winner      string `json:"winner"`
	WinningMode string `json:"winningMode"`
}
