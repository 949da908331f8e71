package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/quillsearch/search-agent/internal/setup"
	logsetup "github.com/quillsearch/search-agent/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	query := flag.String("q", "", "The question to answer")
	conversationID := flag.String("conversation", "", "Existing conversation id to continue")
	maxResults := flag.Int("n", 0, "Upper bound on aggregated results (0 uses the configured default)")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: ask -q '<question>' [-conversation <id>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Logger = logsetup.New(os.Getenv("LOG_LEVEL"))

	if err := run(*query, *conversationID, *maxResults); err != nil {
		log.Error().Err(err).Msg("ask failed")
		os.Exit(1)
	}
}

func run(query, conversationID string, maxResults int) error {
	_ = godotenv.Load()

	logger := log.Logger
	ctx := context.Background()

	cfg := setup.LoadConfig()
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	deps, err := setup.Wire(ctx, cfg, nil, &logger)
	if err != nil {
		return err
	}

	response, err := deps.Orchestrator.HandleSearch(ctx, query, conversationID)
	if err != nil {
		return err
	}

	fmt.Println(response.Answer)
	if len(response.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range response.Sources {
			fmt.Printf("  - %s\n", source)
		}
	}
	fmt.Printf("\nConversation: %s\n", response.ConversationID)
	return nil
}
