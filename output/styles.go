// Package output provides terminal styling helpers shared by the CLI and
// the telemetry report.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles bundles the lipgloss styles used for terminal output.
type Styles struct {
	success lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	path    lipgloss.Style
	warning lipgloss.Style
	dim     lipgloss.Style
	keyword lipgloss.Style
}

// NewStyles creates the default style set.
func NewStyles() *Styles {
	return &Styles{
		success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"}),
		err:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}),
		info:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"}),
		path:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"}),
		warning: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FFAF00", Dark: "#FFAF00"}),
		dim:     lipgloss.NewStyle().Faint(true),
		keyword: lipgloss.NewStyle().Bold(true),
	}
}

// Success returns a styled success string.
func (s *Styles) Success(text string) string { return s.success.Render(text) }

// Error returns a styled error string.
func (s *Styles) Error(text string) string { return s.err.Render(text) }

// Info returns a styled informational string.
func (s *Styles) Info(text string) string { return s.info.Render(text) }

// Path returns a styled file path.
func (s *Styles) Path(text string) string { return s.path.Render(text) }

// Warning returns a styled warning string.
func (s *Styles) Warning(text string) string { return s.warning.Render(text) }

// Dim returns dimmed text for secondary information.
func (s *Styles) Dim(text string) string { return s.dim.Render(text) }

// Keyword returns bolded text.
func (s *Styles) Keyword(text string) string { return s.keyword.Render(text) }

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
