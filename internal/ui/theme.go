package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the styles every renderer pulls from.
type Theme struct {
	Name string

	Logo    lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style

	Input    lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Border
	BorderFG lipgloss.TerminalColor

	SymOK, SymFail, SymItem string
}

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

var current = classic()

// SetTheme switches the package-wide theme. Unknown names fall back to
// classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

// Current returns the active theme.
func Current() Theme { return current }

func classic() Theme {
	return Theme{
		Name:     "classic",
		Logo:     lipgloss.NewStyle().Bold(true),
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Input:    lipgloss.NewStyle().Background(lipgloss.Color("#f2f2f2")).Foreground(lipgloss.Color("#000000")).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Border:   lipgloss.RoundedBorder(),
		BorderFG: lipgloss.Color("8"),
		SymOK:    "✔", SymFail: "✖", SymItem: "•",
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Logo = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ee5566"))
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.BorderFG = lipgloss.Color("13")
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:     "mono",
		Logo:     plain,
		Title:    plain,
		Muted:    plain,
		Accent:   plain,
		Success:  plain,
		Warn:     plain,
		Error:    plain,
		Input:    plain,
		Selected: plain,
		Border:   lipgloss.NormalBorder(),
		BorderFG: lipgloss.NoColor{},
		SymOK:    "ok", SymFail: "x", SymItem: "-",
	}
}
