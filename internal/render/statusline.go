package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI sequences for status line management.
const (
	ansiSaveCursor    = "\x1b[s"
	ansiRestoreCursor = "\x1b[u"
	ansiClearLine     = "\x1b[2K"
	ansiCol1          = "\x1b[1G"
	ansiMoveBottom    = "\x1b[999;1H" // row clamps to the last terminal row
	ansiCursorUp      = "\x1b[1A"
)

// StatusLine manages one continuously overwritten line in the terminal's
// status region. position "bottom" pins the line to the last row with cursor
// save/restore; "inline" rewrites the current line. Content arrives already
// sized to the terminal; the writer itself never measures it, since styled
// strings carry escape bytes that would skew any width math here. After a
// stream error the writer goes dark permanently: a vanished terminal must
// never take the session down with it.
type StatusLine struct {
	w        io.Writer
	position string
	visible  bool
	last     string
	failed   bool
}

// NewStatusLine creates a status line writing to w.
func NewStatusLine(w io.Writer, position string) *StatusLine {
	return &StatusLine{w: w, position: position}
}

// Show makes the status line visible, reserving a row for bottom position.
func (s *StatusLine) Show() {
	if s.visible {
		return
	}
	s.visible = true
	if s.position == "bottom" {
		s.write("\n")
	}
}

// Hide clears the status line and reclaims its row.
func (s *StatusLine) Hide() {
	if !s.visible {
		return
	}
	s.visible = false
	s.last = ""
	s.write(ansiClearLine + ansiCol1)
	if s.position == "bottom" {
		s.write(ansiCursorUp)
	}
}

// Update redraws the line when content changed since the last write.
// Returns the write error for the caller to log; the line stops drawing
// after the first failure either way.
func (s *StatusLine) Update(content string) error {
	if !s.visible || s.failed {
		return nil
	}
	if content == s.last {
		return nil
	}
	s.last = content

	if s.position == "bottom" {
		return s.write(ansiSaveCursor + ansiMoveBottom + ansiClearLine + content + ansiRestoreCursor)
	}
	return s.write(ansiCol1 + ansiClearLine + content)
}

func (s *StatusLine) write(text string) error {
	if s.failed {
		return nil
	}
	if _, err := io.WriteString(s.w, text); err != nil {
		s.failed = true
		return fmt.Errorf("status line write: %w", err)
	}
	return nil
}

// SupportsStatusLine reports whether f is a terminal capable of hosting the
// status line.
func SupportsStatusLine(f *os.File) bool {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// TerminalWidth returns the width of the terminal behind f, or fallback.
func TerminalWidth(f *os.File, fallback int) int {
	if f == nil {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
