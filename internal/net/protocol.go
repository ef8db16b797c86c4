package net

// Message types for the JSON protocol over TCP.

const (
	MsgNotify     = "notify"
	MsgChooseMove = "choose_move"
	MsgGameOver   = "game_over"
	MsgJoin       = "join"
	MsgMove       = "move"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_move"
	State    *StateView   `json:"state,omitempty"`
	Choices  []ChoiceView `json:"choices,omitempty"`
	Targets  []TargetView `json:"targets,omitempty"`
	Rejected string       `json:"rejected,omitempty"`

	// For "game_over"
	Result *ResultView `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Round   int    `json:"round"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Row     string `json:"row,omitempty"`
	Details string `json:"details"`
}

// ChoiceView is a playable hand card.
type ChoiceView struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Strength    int      `json:"strength"`
	Effect      string   `json:"effect,omitempty"`
	Rows        []string `json:"rows"`
	NeedsTarget bool     `json:"needs_target,omitempty"`
}

// TargetView is an opposing board card a Burn may hit.
type TargetView struct {
	Row      string `json:"row"`
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Strength int    `json:"strength"`
}

// CardView describes a card on the board or in hand.
type CardView struct {
	Name     string `json:"name"`
	Strength int    `json:"strength"`
	Row      string `json:"row,omitempty"`
	Effect   string `json:"effect,omitempty"`
}

// RowView is one scored row of a half-board.
type RowView struct {
	Row   string     `json:"row"`
	Score int        `json:"score"`
	Cards []CardView `json:"cards"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You      PlayerView `json:"you"`
	Opponent PlayerView `json:"opponent"`
	Round    int        `json:"round"`
	Seat     string     `json:"seat"` // "top" or "bottom"
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Name           string     `json:"name"`
	HandCount      int        `json:"hand_count"`
	Hand           []CardView `json:"hand,omitempty"` // only for "you"
	Rows           []RowView  `json:"rows"`           // SUPPORT, WISE, FRONT
	DeckCount      int        `json:"deck_count"`
	GraveyardCount int        `json:"graveyard_count"`
	Passed         bool       `json:"passed"`
	RowsWon        int        `json:"rows_won"`
	RoundsWon      int        `json:"rounds_won"`
}

// ResultView is the final outcome of a match.
type ResultView struct {
	TopName      string `json:"top_name"`
	BottomName   string `json:"bottom_name"`
	TopWon       bool   `json:"top_won"`
	BottomWon    bool   `json:"bottom_won"`
	TopRounds    int    `json:"top_rounds"`
	BottomRounds int    `json:"bottom_rounds"`
	Summary      string `json:"summary"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "move"
	Pass        bool   `json:"pass,omitempty"`
	Index       int    `json:"index,omitempty"`
	Row         string `json:"row,omitempty"`
	TargetRow   string `json:"target_row,omitempty"` // empty means no target
	TargetIndex int    `json:"target_index,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int    `json:"deck_number,omitempty"`
	Name       string `json:"name,omitempty"`
}
