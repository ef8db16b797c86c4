package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/peterkuimelis/rowclash/internal/config"
	"github.com/peterkuimelis/rowclash/internal/game"
	"github.com/peterkuimelis/rowclash/internal/log"
	rcnet "github.com/peterkuimelis/rowclash/internal/net"
	"github.com/peterkuimelis/rowclash/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "host":
		err = runHost(ctx, cfg, logger, os.Args[2:])
	case "join":
		err = runJoin(ctx, cfg, os.Args[2:])
	case "sim":
		err = runSim(ctx, cfg, logger, os.Args[2:])
	case "config":
		err = cfg.Encode(os.Stdout)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configPath() string {
	if p := os.Getenv("ROWCLASH_CONFIG"); p != "" {
		return p
	}
	return "rowclash.toml"
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  rowclash-cli host [--deck N] [--port P] [--decks FILE] [--name NAME] [--seed S]")
	fmt.Println("  rowclash-cli join [--deck N] [--addr ADDR] [--name NAME]")
	fmt.Println("  rowclash-cli sim  [--games N] [--top N] [--bottom N] [--seed S] [--log]")
	fmt.Println("  rowclash-cli config")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a game server and play as top")
	fmt.Println("  join    Connect to a game server and play as bottom")
	fmt.Println("  sim     Play random bots against each other and record the results")
	fmt.Println("  config  Print the effective configuration")
	fmt.Println()
	fmt.Println("Settings come from rowclash.toml (or $ROWCLASH_CONFIG) and ROWCLASH_* variables.")
}

// openStore opens the match history, or returns nil when it is disabled.
func openStore(ctx context.Context, cfg *config.Config, enabled bool) (*store.Store, error) {
	if !enabled || cfg.DBPath == "" {
		return nil, nil
	}
	return store.Open(ctx, store.Config{Path: cfg.DBPath})
}

func runHost(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from decks.yaml)")
	port := fs.String("port", cfg.Port, "TCP port to listen on")
	decksFile := fs.String("decks", cfg.Decks, "path to decks file")
	name := fs.String("name", "Host", "your player name")
	seed := fs.Int64("seed", cfg.Seed, "match seed (0 = from clock)")
	record := fs.Bool("record", true, "save the finished match to the database")
	fs.Parse(args)

	srv := &rcnet.Server{
		DeckFile:    *decksFile,
		Port:        *port,
		HostDeck:    *deck,
		HostName:    *name,
		Seed:        *seed,
		InitialHand: cfg.InitialHand,
		RoundDraw:   cfg.RoundDraw,
	}

	st, err := openStore(ctx, cfg, *record)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		srv.OnGameOver = st.Recorder(logger)
	}

	return srv.Run(ctx)
}

func runJoin(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 2, "deck number to use (from decks.yaml)")
	addr := fs.String("addr", "localhost:"+cfg.Port, "server address to connect to")
	name := fs.String("name", "Guest", "your player name")
	fs.Parse(args)

	return rcnet.Connect(ctx, *addr, *deck, *name)
}

func runSim(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	games := fs.Int("games", 10, "number of matches to play")
	topDeck := fs.Int("top", 1, "deck number for the top bot")
	bottomDeck := fs.Int("bottom", 2, "deck number for the bottom bot")
	decksFile := fs.String("decks", cfg.Decks, "path to decks file")
	seed := fs.Int64("seed", cfg.Seed, "base seed; match i uses seed+i (0 = from clock)")
	showLog := fs.Bool("log", false, "print every match's event log")
	record := fs.Bool("record", true, "save each match to the database")
	fs.Parse(args)

	topName, topCards, err := game.DeckByNumber(*decksFile, *topDeck)
	if err != nil {
		return fmt.Errorf("load top deck: %w", err)
	}
	bottomName, bottomCards, err := game.DeckByNumber(*decksFile, *bottomDeck)
	if err != nil {
		return fmt.Errorf("load bottom deck: %w", err)
	}

	st, err := openStore(ctx, cfg, *record)
	if err != nil {
		return err
	}
	var recordMatch func(context.Context, *game.Match, game.MatchResult) error
	if st != nil {
		defer st.Close()
		recordMatch = st.Recorder(logger)
	}

	base := *seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	var topWins, bottomWins, draws int
	for i := 0; i < *games; i++ {
		matchSeed := base + int64(i)
		mlog := log.NewMemoryLogger()
		m := game.NewMatch(game.MatchConfig{
			TopName:         topName,
			BottomName:      bottomName,
			TopDeck:         topCards,
			BottomDeck:      bottomCards,
			Logger:          mlog,
			Seed:            matchSeed,
			InitialHandSize: cfg.InitialHand,
			RoundDrawSize:   cfg.RoundDraw,
		}, game.NewRandomController(matchSeed+1), game.NewRandomController(matchSeed+2))

		res, err := m.Run(ctx)
		if err != nil {
			return fmt.Errorf("match %d: %w", i+1, err)
		}
		switch {
		case res.Draw():
			draws++
		case res.TopWon:
			topWins++
		default:
			bottomWins++
		}
		logger.Debug("match finished", "match", i+1, "seed", res.Seed,
			"top_rounds", res.TopRounds, "bottom_rounds", res.BottomRounds, "turns", res.Turns)
		if *showLog {
			fmt.Printf("=== Match %d (seed %d) ===\n%s\n", i+1, res.Seed, log.FormatAll(mlog.Events()))
		}
		if recordMatch != nil {
			if err := recordMatch(ctx, m, res); err != nil {
				return err
			}
		}
	}

	fmt.Printf("%d matches: %s %d, %s %d, draws %d\n", *games, topName, topWins, bottomName, bottomWins, draws)
	return nil
}
