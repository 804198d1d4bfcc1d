package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	cRed    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
	cGreen  = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"}
	cYellow = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD75F"}
	cCyan   = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#5FD7FF"}
	cGray   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
)

// Styles holds every lipgloss style the command line output uses, bound to
// one renderer so color decisions follow the destination writer.
type Styles struct {
	OldVersion lipgloss.Style
	NewVersion lipgloss.Style
	Crate      lipgloss.Style
	Header     lipgloss.Style
	Rule       lipgloss.Style

	Spinner lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// ColorProfile maps a color mode onto a termenv profile for w.
func ColorProfile(mode string, w io.Writer) termenv.Profile {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return termenv.ANSI256
	default:
		return termenv.NewOutput(w).EnvColorProfile()
	}
}

// NewStyles builds the style set for output written to w.
func NewStyles(w io.Writer, mode string) Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(ColorProfile(mode, w))
	return Styles{
		OldVersion: r.NewStyle().Foreground(cRed),
		NewVersion: r.NewStyle().Foreground(cGreen),
		Crate:      r.NewStyle().Bold(true),
		Header:     r.NewStyle().Bold(true),
		Rule:       r.NewStyle().Foreground(cGray),
		Spinner:    r.NewStyle().Foreground(cCyan),
		Success:    r.NewStyle().Foreground(cGreen).Bold(true),
		Failure:    r.NewStyle().Foreground(cRed).Bold(true),
		Warning:    r.NewStyle().Foreground(cYellow).Bold(true),
		Muted:      r.NewStyle().Foreground(cGray),
	}
}

func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" || style == "dark" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
