package models

// Card is one chance or community chest entry.
type Card struct {
	Title   string `json:"title"`
	Action  string `json:"action"` // "addfunds", "removefunds", "move", "jail", "getout", ...
	TileId  string `json:"tileid,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Count   int    `json:"count,omitempty"`
	Subtext string `json:"subtext,omitempty"`
}

type Decks struct {
	Chance         []Card `json:"chance"`
	CommunityChest []Card `json:"communitychest"`
}
