// Package tui is the terminal front-end: the profile setup wizard, then the
// dashboard with workout, meal, posture and progress panels.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#22D3EE") // cyan
	colorAccent  = lipgloss.Color("#A855F7") // purple
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#E5E7EB")
	colorError   = lipgloss.Color("#F87171")
	colorSuccess = lipgloss.Color("#4ADE80")
	colorSparkle = lipgloss.Color("#FDE68A")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	Button      lipgloss.Style
	ButtonFocus lipgloss.Style
	Selected    lipgloss.Style
	Sparkle     lipgloss.Style
}

// DefaultStyles returns the dark theme used by the coach.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Subtitle:  lipgloss.NewStyle().Foreground(colorAccent),
		Label:     lipgloss.NewStyle().Foreground(colorText).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Error:     lipgloss.NewStyle().Foreground(colorError),
		Success:   lipgloss.NewStyle().Foreground(colorSuccess),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),
		CardTitle: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Button: lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(colorMuted).
			Padding(0, 1),
		ButtonFocus: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F172A")).
			Background(colorPrimary).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		Sparkle:  lipgloss.NewStyle().Foreground(colorSparkle),
	}
}

// RenderButton renders a clickable label; focused buttons are highlighted.
func (s Styles) RenderButton(label string, focused bool) string {
	if focused {
		return s.ButtonFocus.Render(label)
	}
	return s.Button.Render(label)
}

// RenderCard draws a titled bordered panel. width <= 0 lets the content size it.
func (s Styles) RenderCard(title, body string, width int) string {
	style := s.Card
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(s.CardTitle.Render(title) + "\n" + body)
}

// RenderSelect shows every option with the current one marked, e.g.
// "‹ Male | [Female] | Other ›".
func (s Styles) RenderSelect(options []string, current string, focused bool) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if o == current {
			parts[i] = s.Selected.Render("[" + o + "]")
		} else {
			parts[i] = s.Muted.Render(o)
		}
	}
	out := strings.Join(parts, " | ")
	if focused {
		return "‹ " + out + " ›"
	}
	return "  " + out
}

// RenderCheckbox renders a toggle item.
func (s Styles) RenderCheckbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = s.Selected.Render("[x]")
	}
	line := box + " " + label
	if focused {
		return s.Title.Render("›") + " " + line
	}
	return "  " + line
}
