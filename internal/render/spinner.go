package render

// Spinner frame sets. "dots" is the 10-frame Braille cycle used by default;
// the rest are selectable via [indicator] spinner.
var spinnerSets = map[string][]string{
	"dots":     {"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	"line":     {"|", "/", "-", "\\"},
	"bounce":   {"⠁", "⠂", "⠄", "⡀", "⢀", "⠠", "⠐", "⠈"},
	"grow":     {"⣀", "⣄", "⣤", "⣦", "⣶", "⣷", "⣿", "⣾", "⣼", "⣸"},
	"ellipsis": {"   ", ".  ", ".. ", "..."},
}

const defaultSpinner = "dots"

// streamingFrames animate a level bar while the LLM response is streaming.
var streamingFrames = []string{
	"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█", "▇", "▆", "▅", "▄", "▃", "▂",
}

// Status glyphs.
const (
	glyphDone     = "✓"
	glyphError    = "✗"
	glyphWarn     = "⚠"
	glyphDelegate = "→"
	separator     = " │ "
)

// Frames returns the named spinner frame set, falling back to the default
// for unknown names.
func Frames(name string) []string {
	if frames, ok := spinnerSets[name]; ok {
		return frames
	}
	return spinnerSets[defaultSpinner]
}
