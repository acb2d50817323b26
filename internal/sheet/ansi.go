package sheet

import "fmt"

// ANSI escape codes used by the text renderer.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red          = "\033[31m"
	Yellow       = "\033[33m"
	Cyan         = "\033[36m"
	White        = "\033[37m"
	BrightRed    = "\033[91m"
	BrightYellow = "\033[93m"
	BrightWhite  = "\033[97m"
)

// painter applies ANSI styling only when enabled.
type painter struct {
	enabled bool
}

// Colorize wraps text with color and a reset suffix.
//
// Postcondition: Returns text unchanged when the painter is disabled.
func (p painter) Colorize(color, text string) string {
	if !p.enabled {
		return text
	}
	return color + text + Reset
}

// Colorf is Colorize over a formatted string.
func (p painter) Colorf(color, format string, args ...interface{}) string {
	return p.Colorize(color, fmt.Sprintf(format, args...))
}

// StripANSI removes SGR escape sequences (\033[ followed by digits or ';'
// and a final 'm'). Anything else, including an unterminated sequence, is
// left untouched.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] == ';' || (s[j] >= '0' && s[j] <= '9')) {
				j++
			}
			if j < len(s) && s[j] == 'm' {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}
