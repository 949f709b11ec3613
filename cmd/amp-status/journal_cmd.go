package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/asheshgoplani/amp-status/internal/config"
	"github.com/asheshgoplani/amp-status/internal/journal"
	"github.com/asheshgoplani/amp-status/internal/render"
)

// handleJournal prints recent completed-session summaries.
func handleJournal(args []string) {
	fs := flag.NewFlagSet("journal", flag.ExitOnError)
	n := fs.Int("n", 10, "Number of recent sessions to show")

	fs.Usage = func() {
		fmt.Println("Usage: amp-status journal [-n N]")
		fmt.Println()
		fmt.Println("Print recent session summaries from the journal.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	dir, err := config.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "amp-status: %v\n", err)
		os.Exit(1)
	}

	dbPath := filepath.Join(dir, "journal.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No journal yet. Enable it with [journal] enabled = true in config.toml.")
		return
	}

	j, err := journal.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "amp-status: %v\n", err)
		os.Exit(1)
	}
	defer j.Close()

	entries, err := j.Recent(*n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "amp-status: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No sessions recorded yet.")
		return
	}

	fmt.Printf("%-17s %-9s %-14s %-6s %s\n", "STARTED", "DURATION", "TOKENS", "TURNS", "OUTCOME")
	for _, e := range entries {
		tokens := fmt.Sprintf("%s↑ %s↓", render.FormatTokens(e.TokensIn), render.FormatTokens(e.TokensOut))
		fmt.Printf("%-17s %-9s %-14s %-6d %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04"),
			render.FormatElapsed(time.Duration(e.DurationSecs)*time.Second),
			tokens,
			e.Turns,
			e.Outcome,
		)
	}
	fmt.Printf("\nTotal: %d sessions\n", len(entries))
}

// handleInitConfig writes an example config.toml if none exists.
func handleInitConfig() {
	created, err := config.CreateExample()
	if err != nil {
		fmt.Fprintf(os.Stderr, "amp-status: %v\n", err)
		os.Exit(1)
	}

	path, _ := config.Path()
	if created {
		fmt.Printf("Wrote example config: %s\n", path)
	} else {
		fmt.Printf("Config already exists: %s\n", path)
	}
}
