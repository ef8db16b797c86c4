package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   io.Reader
	out  io.Writer
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int, name string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: deckNumber, Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")

	client := &Client{conn: conn, in: os.Stdin}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	if c.out == nil {
		c.out = os.Stdout
	}
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseMove:
			c.renderState(msg.State)
			if msg.Rejected != "" {
				fmt.Fprintf(c.out, "Rejected: %s\n", msg.Rejected)
			}
			c.renderChoices(msg.Choices, msg.Targets)
			move, err := c.readMove(reader, msg.Choices, msg.Targets)
			if err != nil {
				return err
			}
			if err := enc.Encode(move); err != nil {
				return fmt.Errorf("send move: %w", err)
			}

		case MsgGameOver:
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			if msg.Result != nil {
				fmt.Fprintln(c.out, msg.Result.Summary)
			}
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	kind := ev.Type
	for len(kind) < 16 {
		kind += " "
	}
	fmt.Fprintf(c.out, "R%-2d %s| %s\n", ev.Round, kind, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(c.out, "║  %s  Rounds: %d  Hand: %d  Deck: %d  Graveyard: %d%s\n",
		opp.Name, opp.RoundsWon, opp.HandCount, opp.DeckCount, opp.GraveyardCount, passedTag(opp.Passed))
	for _, row := range opp.Rows {
		fmt.Fprintf(c.out, "║  %s\n", formatRow(row))
	}

	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")

	// Own rows mirror the opponent's, nearest the divider first
	you := sv.You
	for i := len(you.Rows) - 1; i >= 0; i-- {
		fmt.Fprintf(c.out, "║  %s\n", formatRow(you.Rows[i]))
	}
	fmt.Fprintf(c.out, "║  %s  Rounds: %d  Hand: %d  Deck: %d  Graveyard: %d%s\n",
		you.Name, you.RoundsWon, you.HandCount, you.DeckCount, you.GraveyardCount, passedTag(you.Passed))
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	fmt.Fprintf(c.out, "Round %d | Rows won: you %d, opponent %d\n", sv.Round, you.RowsWon, opp.RowsWon)
}

func passedTag(passed bool) string {
	if passed {
		return "  [PASSED]"
	}
	return ""
}

func formatRow(rv RowView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s %3d ", rv.Row, rv.Score)
	for _, cv := range rv.Cards {
		fmt.Fprintf(&sb, "[%s %d] ", cv.Name, cv.Strength)
	}
	return sb.String()
}

func (c *Client) renderChoices(choices []ChoiceView, targets []TargetView) {
	fmt.Fprintln(c.out, "\nHand:")
	for _, ch := range choices {
		desc := fmt.Sprintf("%s (Str %d)", ch.Name, ch.Strength)
		if ch.Effect != "" {
			desc = fmt.Sprintf("%s [%s]", ch.Name, ch.Effect)
		}
		fmt.Fprintf(c.out, "  %d) %-22s %s\n", ch.Index+1, desc, strings.Join(ch.Rows, "/"))
	}
	if len(targets) > 0 {
		fmt.Fprintln(c.out, "Burn targets:")
		for i, t := range targets {
			fmt.Fprintf(c.out, "  t%d) %s %d in %s\n", i+1, t.Name, t.Strength, t.Row)
		}
	}
	fmt.Fprintln(c.out, "Enter: <card> [row] | <card> t<target> | pass")
}

func (c *Client) readMove(reader *bufio.Reader, choices []ChoiceView, targets []TargetView) (ClientMessage, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return ClientMessage{}, fmt.Errorf("read input: %w", err)
		}
		move, perr := ParseMoveInput(line, choices, targets)
		if perr != nil {
			fmt.Fprintln(c.out, perr)
			if err != nil {
				return ClientMessage{}, fmt.Errorf("read input: %w", err)
			}
			continue
		}
		return move, nil
	}
}

// ParseMoveInput parses a REPL line into a move message. Card and target
// numbers are 1-based as displayed.
func ParseMoveInput(line string, choices []ChoiceView, targets []TargetView) (ClientMessage, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ClientMessage{}, errors.New("enter a card number or pass")
	}
	if fields[0] == "p" || fields[0] == "pass" {
		return ClientMessage{Type: MsgMove, Pass: true}, nil
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 || n > len(choices) {
		return ClientMessage{}, fmt.Errorf("card number must be between 1 and %d", len(choices))
	}
	choice := choices[n-1]
	msg := ClientMessage{Type: MsgMove, Index: choice.Index}

	if len(fields) > 1 {
		arg := fields[1]
		if strings.HasPrefix(arg, "t") {
			tn, err := strconv.Atoi(arg[1:])
			if err != nil || tn < 1 || tn > len(targets) {
				return ClientMessage{}, fmt.Errorf("target must be between t1 and t%d", len(targets))
			}
			t := targets[tn-1]
			msg.TargetRow = t.Row
			msg.TargetIndex = t.Index
		} else {
			msg.Row = strings.ToUpper(arg)
		}
	}
	if choice.NeedsTarget && msg.TargetRow == "" && len(targets) > 0 {
		return ClientMessage{}, fmt.Errorf("%s needs a target (t1-t%d)", choice.Name, len(targets))
	}
	return msg, nil
}
