package net

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/peterkuimelis/rowclash/internal/game"
	"github.com/peterkuimelis/rowclash/internal/log"
)

// Server hosts a match between the local player (top) and one TCP client
// (bottom).
type Server struct {
	DeckFile    string
	Port        string
	HostDeck    int // host's deck number (1-indexed)
	HostName    string
	Seed        int64
	InitialHand int
	RoundDraw   int
	Output      io.Writer // event log output; nil means stdout

	// OnGameOver, if set, is called with the finished match before the
	// result is sent to the players.
	OnGameOver func(ctx context.Context, m *game.Match, res game.MatchResult) error
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for opponent on port %s...\n", s.Port)

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Opponent connected from %s\n", conn.RemoteAddr())

	// Player top = host, player bottom = joiner
	joinerCtrl := NewNetworkController(conn, game.Bottom)
	joinMsg, err := joinerCtrl.ReadJoin()
	if err != nil {
		return err
	}
	joinerDeck := joinMsg.DeckNumber
	if joinerDeck == 0 {
		joinerDeck = 2
	}
	joinerName := joinMsg.Name
	if joinerName == "" {
		joinerName = "Guest"
	}

	fmt.Printf("Opponent chose deck %d\n", joinerDeck)

	// Load decks
	hostDeckName, hostCards, err := game.DeckByNumber(s.DeckFile, s.HostDeck)
	if err != nil {
		return fmt.Errorf("load host deck: %w", err)
	}
	joinerDeckName, joinerCards, err := game.DeckByNumber(s.DeckFile, joinerDeck)
	if err != nil {
		return fmt.Errorf("load joiner deck: %w", err)
	}

	fmt.Printf("Host: %s (%d cards, strength %d)\n", hostDeckName, len(hostCards), game.DeckStrength(hostCards))
	fmt.Printf("Joiner: %s (%d cards, strength %d)\n", joinerDeckName, len(joinerCards), game.DeckStrength(joinerCards))

	// Create a pipe for the host's local connection
	hostConn, hostServerConn := net.Pipe()
	defer hostConn.Close()
	defer hostServerConn.Close()
	hostCtrl := NewNetworkController(hostServerConn, game.Top)

	hostName := s.HostName
	if hostName == "" {
		hostName = "Host"
	}
	out := s.Output
	if out == nil {
		out = os.Stdout
	}
	match := game.NewMatch(game.MatchConfig{
		TopName:         hostName,
		BottomName:      joinerName,
		TopDeck:         hostCards,
		BottomDeck:      joinerCards,
		Logger:          log.NewTextLogger(out),
		Seed:            s.Seed,
		InitialHandSize: s.InitialHand,
		RoundDrawSize:   s.RoundDraw,
	}, hostCtrl, joinerCtrl)

	// Run the host's local REPL in a goroutine
	errCh := make(chan error, 2)
	go func() {
		client := &Client{conn: hostConn, in: os.Stdin}
		errCh <- client.RunREPL(ctx)
	}()

	// Run the match
	go func() {
		errCh <- s.runMatch(ctx, match, hostCtrl, joinerCtrl)
	}()

	// Wait for either the match or the REPL to finish
	return <-errCh
}

func (s *Server) runMatch(ctx context.Context, match *game.Match, ctrls ...*NetworkController) error {
	res, err := match.Run(ctx)
	if err != nil {
		return fmt.Errorf("match error: %w", err)
	}
	if s.OnGameOver != nil {
		if err := s.OnGameOver(ctx, match, res); err != nil {
			fmt.Fprintf(os.Stderr, "record match: %v\n", err)
		}
	}

	// Send game_over to both players
	result := BuildResultView(match.Board, res)
	for _, c := range ctrls {
		_ = c.SendGameOver(result)
	}
	return nil
}
