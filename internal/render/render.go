// Package render prints a single answer for non-interactive use.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"

	"lexbot/internal/citation"
	"lexbot/internal/session"
)

// DefaultWidth is the wrap width for plain output.
const DefaultWidth = 80

// Options controls answer output.
type Options struct {
	// Width wraps text; 0 uses DefaultWidth.
	Width int
	// Markdown renders the answer with glamour instead of plain wrapping.
	Markdown bool
	// AllSources expands the additional sources.
	AllSources bool
	// ExcerptLimit truncates source excerpts; 0 uses the citation default.
	ExcerptLimit int
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Answer writes m with its sources to w.
func Answer(w io.Writer, m session.Message, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	body := wordwrap.String(m.Content, width)
	if opts.Markdown {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		if body, err = r.Render(m.Content); err != nil {
			return fmt.Errorf("render answer: %w", err)
		}
		body = strings.TrimRight(body, "\n")
	}
	if _, err := fmt.Fprintln(w, body); err != nil {
		return err
	}

	panel := citation.NewPanel(m, opts.ExcerptLimit)
	if panel.Empty() {
		return nil
	}
	if opts.AllSources {
		panel.Expand()
	}

	var sb strings.Builder
	if docs := panel.Documents(); len(docs) > 0 {
		fmt.Fprintf(&sb, "\nFuentes consultadas: %s\n", strings.Join(docs, ", "))
	}
	fmt.Fprintf(&sb, "\nFuentes verificadas (%d)\n", panel.Total())
	for _, src := range panel.Visible() {
		sb.WriteString(indent(wordwrap.String(`"`+src.Content+`"`, width-2), "  "))
		fmt.Fprintf(&sb, "\n  📄 %s\n", src.Document)
	}
	if n := panel.HiddenCount(); n > 0 {
		fmt.Fprintf(&sb, "\n(%s: usa --all-sources)\n", panel.ToggleLabel())
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
