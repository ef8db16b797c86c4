package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/rowclash/internal/config"
	"github.com/peterkuimelis/rowclash/internal/store"
	"github.com/peterkuimelis/rowclash/internal/web"
)

func main() {
	configFile := flag.String("config", "rowclash.toml", "path to config TOML file")
	port := flag.String("port", "", "HTTP port to listen on (overrides config)")
	decksFile := flag.String("decks", "", "path to decks YAML file (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.WebPort = *port
	}
	if *decksFile != "" {
		cfg.Decks = *decksFile
	}
	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var matches web.MatchStore
	if cfg.DBPath != "" {
		st, err := store.Open(ctx, store.Config{Path: cfg.DBPath})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		matches = st
	}

	srv := web.NewServer(cfg.Decks, matches, logger)

	addr := ":" + cfg.WebPort
	logger.Info("rowclash web UI listening", "url", "http://localhost"+addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
