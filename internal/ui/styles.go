package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (Moonlight #8fa8c8): Highlights, paths, interactive elements
// - Muted (gray): Secondary info, line numbers
// - No colored success/error/warning - use unicode symbols only

var (
	// Accent style for file paths, section titles, interactive elements
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#8fa8c8"))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#8fa8c8")).Bold(true)
)

var accentColor string

// ConfigureTheme sets the accent color used for Accent/AccentBold and
// markdown heading rendering. An empty value, "none", "off", "default", or
// an unrecognized value restores the default accent and disables the
// markdown accent override.
func ConfigureTheme(raw string) {
	color, ok := normalizeAccentColor(raw)
	if !ok {
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#8fa8c8"))
		AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#8fa8c8")).Bold(true)
		accentColor = ""
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the currently configured accent color, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// normalizeAccentColor validates a config accent value: either a 0-255 ANSI
// code or a 3- or 6-digit hex color, expanding 3-digit hex to 6.
func normalizeAccentColor(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	switch strings.ToLower(value) {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(value, "#") {
		hex := value[1:]
		switch len(hex) {
		case 3:
			expanded := make([]byte, 0, 6)
			for _, c := range []byte(hex) {
				if !isHexDigit(c) {
					return "", false
				}
				expanded = append(expanded, c, c)
			}
			return "#" + string(expanded), true
		case 6:
			for _, c := range []byte(hex) {
				if !isHexDigit(c) {
					return "", false
				}
			}
			return value, true
		default:
			return "", false
		}
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return value, true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
