package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// palette styles command output. Styling is only applied when writing to a
// terminal so piped output stays plain.
type palette struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	plain   bool
}

func newPalette(w io.Writer) *palette {
	p := &palette{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		plain:   true,
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.plain = false
	}
	return p
}

func (p *palette) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p *palette) Title(text string) string   { return p.render(p.title, text) }
func (p *palette) Muted(text string) string   { return p.render(p.muted, text) }
func (p *palette) OK(text string) string      { return p.render(p.ok, text) }
func (p *palette) Warning(text string) string { return p.render(p.warning, text) }
func (p *palette) Failure(text string) string { return p.render(p.failure, text) }
