package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/asheshgoplani/amp-status/internal/config"
)

const Version = "0.3.0"

func init() {
	initColorProfile()
}

// initColorProfile configures the lipgloss color profile from the
// environment. NO_COLOR wins over everything, then an explicit
// AMP_STATUS_COLOR override, then terminal capability detection.
func initColorProfile() {
	if config.NoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	// AMP_STATUS_COLOR: truecolor, 256, 16, none
	if colorEnv := os.Getenv("AMP_STATUS_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	term := os.Getenv("TERM")
	trueColorTerms := []string{
		"xterm-256color",
		"screen-256color",
		"tmux-256color",
		"xterm-direct",
		"alacritty",
		"kitty",
		"wezterm",
	}
	for _, t := range trueColorTerms {
		if strings.Contains(term, t) || term == t {
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		}
	}

	// ANSI256 works in SSH, basic terminals, and older emulators.
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	args := os.Args[1:]

	cmd := "run"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "version", "--version", "-v":
		fmt.Printf("amp-status v%s\n", Version)
	case "help", "--help", "-h":
		printHelp()
	case "run":
		os.Exit(runIndicator(false))
	case "hook-handler":
		os.Exit(runIndicator(true))
	case "journal":
		handleJournal(args)
	case "init-config":
		handleInitConfig()
	default:
		fmt.Fprintf(os.Stderr, "amp-status: unknown command %q\n\n", cmd)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: amp-status [command]")
	fmt.Println()
	fmt.Println("Live status indicator for Amplifier agent sessions.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run            Watch the events directory and render the status line (default)")
	fmt.Println("  hook-handler   Read NDJSON events from stdin instead of the events directory")
	fmt.Println("  journal        Print recent session summaries (-n N, default 10)")
	fmt.Println("  init-config    Write an example config.toml if none exists")
	fmt.Println("  version        Print the version")
	fmt.Println("  help           Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  AMP_STATUS_DIR        Data directory (default ~/.amp-status)")
	fmt.Println("  AMP_STATUS_COLOR      Color override: truecolor, 256, 16, none")
	fmt.Println("  AMP_STATUS_DEBUG      Write debug logs to <dir>/debug.log")
	fmt.Println("  AMPLIFIER_NO_STATUS   Disable the status line entirely")
	fmt.Println("  NO_COLOR              Disable colors")
}
