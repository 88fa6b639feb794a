package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft purple #A78BFA, configurable): highlights, selectors
// - Muted (gray): secondary info, durations, hints
// - Pass/fail coloring is reserved for gate status only

const defaultAccent = "#A78BFA"

var (
	// Accent style for selectors, paths, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// Pass style for passing gates
	Pass = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))

	// Fail style for failing gates
	Fail = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)

	accentColor = defaultAccent
)

var accentPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|\d{1,3})$`)

// ConfigureTheme applies a configured accent color. Accepts ANSI codes
// ("0" to "255") or hex colors ("#RRGGBB"); anything else keeps the
// default.
func ConfigureTheme(accent string) {
	accent = strings.TrimSpace(accent)
	if accent == "" || !accentPattern.MatchString(accent) {
		return
	}
	accentColor = accent
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accent))
}

// AccentColor returns the active accent color.
func AccentColor() string {
	return accentColor
}
