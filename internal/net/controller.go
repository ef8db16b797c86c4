package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/peterkuimelis/rowclash/internal/game"
	"github.com/peterkuimelis/rowclash/internal/log"
)

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	seat game.Seat
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, seat game.Seat) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
		seat: seat,
	}
}

// ReadJoin reads the client's join handshake. It must be called before the
// match starts so no buffered input is lost between decoders.
func (nc *NetworkController) ReadJoin() (ClientMessage, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	msg, err := nc.recv()
	if err != nil {
		return msg, fmt.Errorf("read join message: %w", err)
	}
	if msg.Type != MsgJoin {
		return msg, fmt.Errorf("expected %q message, got %q", MsgJoin, msg.Type)
	}
	return msg, nil
}

// BuildStateView creates a StateView from the perspective of the given seat.
func BuildStateView(b *game.Board, seat game.Seat) *StateView {
	sv := &StateView{
		Round:    b.Round(),
		Seat:     seat.String(),
		You:      buildPlayerView(b, seat),
		Opponent: buildPlayerView(b, seat.Opponent()),
	}
	// Hand contents (visible to you)
	for _, c := range b.Hand(seat) {
		sv.You.Hand = append(sv.You.Hand, CardToView(c))
	}
	return sv
}

func buildPlayerView(b *game.Board, seat game.Seat) PlayerView {
	p := b.Player(seat)
	pv := PlayerView{
		Name:           p.Name,
		HandCount:      p.HandCount(),
		DeckCount:      p.DeckCount(),
		GraveyardCount: len(p.Graveyard),
		Passed:         p.Passed,
		RowsWon:        p.CurrentRowsWon,
		RoundsWon:      p.RoundsWon,
	}
	rows := game.ScoredRows
	sort.Slice(rows[:], func(i, j int) bool { return rows[i].SortPriority() > rows[j].SortPriority() })
	for _, row := range rows {
		rv := RowView{Row: row.String(), Score: b.RowScore(seat, row), Cards: []CardView{}}
		for _, c := range p.HalfBoard[row] {
			rv.Cards = append(rv.Cards, CardToView(c))
		}
		pv.Rows = append(pv.Rows, rv)
	}
	return pv
}

// CardToView converts a card for display.
func CardToView(c game.Card) CardView {
	cv := CardView{Name: c.Name, Strength: c.Strength, Row: c.Restriction().String()}
	if c.IsEffect() {
		cv.Effect = c.Effect.String()
	}
	return cv
}

// BuildChoices lists the seat's playable hand cards with their legal rows.
func BuildChoices(b *game.Board, seat game.Seat) []ChoiceView {
	hand := b.Hand(seat)
	var views []ChoiceView
	for _, i := range b.ValidChoices(seat) {
		c := hand[i]
		cv := ChoiceView{
			Index:       i,
			Name:        c.Name,
			Strength:    c.Strength,
			Rows:        []string{},
			NeedsTarget: c.Effect.NeedsTarget(),
		}
		if c.IsEffect() {
			cv.Effect = c.Effect.String()
		}
		for _, row := range b.ValidRows(seat, i) {
			cv.Rows = append(cv.Rows, row.String())
		}
		views = append(views, cv)
	}
	return views
}

// BuildTargets lists the opposing cards a Burn played by seat may hit.
func BuildTargets(b *game.Board, seat game.Seat) []TargetView {
	opp := b.HalfBoard(seat.Opponent())
	var views []TargetView
	for _, slot := range b.BurnTargets(seat) {
		c := opp[slot.Row][slot.Index]
		views = append(views, TargetView{Row: slot.Row.String(), Index: slot.Index, Name: c.Name, Strength: c.Strength})
	}
	return views
}

// EventToView converts a game event for the wire.
func EventToView(e log.GameEvent) *EventView {
	return &EventView{
		Round:   e.Round,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Row:     e.Row,
		Details: e.Details,
	}
}

// BuildResultView summarizes a finished match.
func BuildResultView(b *game.Board, res game.MatchResult) *ResultView {
	rv := &ResultView{
		TopName:      b.PlayerName(game.Top),
		BottomName:   b.PlayerName(game.Bottom),
		TopWon:       res.TopWon,
		BottomWon:    res.BottomWon,
		TopRounds:    res.TopRounds,
		BottomRounds: res.BottomRounds,
	}
	switch {
	case res.TurnLimit:
		rv.Summary = fmt.Sprintf("Draw - turn limit reached after %d turns", res.Turns)
	case res.Draw():
		rv.Summary = fmt.Sprintf("Draw (%d-%d)", res.TopRounds, res.BottomRounds)
	case res.TopWon:
		rv.Summary = fmt.Sprintf("%s wins (%d-%d)", rv.TopName, res.TopRounds, res.BottomRounds)
	default:
		rv.Summary = fmt.Sprintf("%s wins (%d-%d)", rv.BottomName, res.BottomRounds, res.TopRounds)
	}
	return rv
}

// MoveFromMessage converts a client move message to a game move.
func MoveFromMessage(msg ClientMessage) (game.Move, error) {
	if msg.Type != MsgMove {
		return game.Move{}, fmt.Errorf("expected %q message, got %q", MsgMove, msg.Type)
	}
	if msg.Pass {
		return game.PassMove(), nil
	}
	row, err := game.ParseRow(msg.Row)
	if err != nil {
		return game.Move{}, err
	}
	play := game.Play{HandIndex: msg.Index, Row: row}
	if msg.TargetRow != "" {
		targetRow, err := game.ParseRow(msg.TargetRow)
		if err != nil {
			return game.Move{}, fmt.Errorf("target: %w", err)
		}
		play.Target = &game.Slot{Row: targetRow, Index: msg.TargetIndex}
	}
	return game.PlayMove(play), nil
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseMove implements game.PlayerController. Malformed moves are re-asked
// without consuming one of the player's attempts.
func (nc *NetworkController) ChooseMove(ctx context.Context, req game.MoveRequest) (game.Move, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	rejected := req.Rejected
	for {
		if err := ctx.Err(); err != nil {
			return game.Move{}, err
		}
		msg := ServerMessage{
			Type:     MsgChooseMove,
			State:    BuildStateView(req.Board, req.Seat),
			Choices:  BuildChoices(req.Board, req.Seat),
			Targets:  BuildTargets(req.Board, req.Seat),
			Rejected: rejected,
		}
		if err := nc.send(msg); err != nil {
			return game.Move{}, fmt.Errorf("send choose_move: %w", err)
		}

		resp, err := nc.recv()
		if err != nil {
			return game.Move{}, fmt.Errorf("recv move: %w", err)
		}
		move, err := MoveFromMessage(resp)
		if err != nil {
			rejected = err.Error()
			continue
		}
		return move, nil
	}
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(result *ResultView) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgGameOver, Result: result})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgNotify, Event: EventToView(event)})
}
