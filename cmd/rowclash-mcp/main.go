package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/rowclash/internal/config"
	rcmcp "github.com/peterkuimelis/rowclash/internal/mcp"
	"github.com/peterkuimelis/rowclash/internal/store"
)

func main() {
	configFile := flag.String("config", "rowclash.toml", "path to config TOML file")
	decks := flag.String("decks", "", "path to decks YAML file (overrides config)")
	port := flag.String("port", "", "TCP port for human player connection (overrides config)")
	record := flag.Bool("record", true, "save finished matches to the database")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *decks != "" {
		cfg.Decks = *decks
	}
	if *port != "" {
		cfg.Port = *port
	}
	// stdout carries the MCP protocol, so logs go to stderr
	logger := cfg.NewLogger(os.Stderr)

	rcmcp.SetDecksFile(cfg.Decks)
	rcmcp.SetPort(cfg.Port)

	if *record && cfg.DBPath != "" {
		st, err := store.Open(context.Background(), store.Config{Path: cfg.DBPath})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		rcmcp.SetRecorder(st.Recorder(logger))
	}

	s := server.NewMCPServer("rowclash", "1.0.0")
	rcmcp.RegisterTools(s)

	logger.Info("rowclash MCP server ready", "decks", cfg.Decks, "port", cfg.Port)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
