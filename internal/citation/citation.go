// Package citation holds the display rules for the sources attached to an
// assistant message: the first source is always visible, the rest sit behind
// a user-toggled expansion that starts collapsed, and every excerpt is cut
// at a fixed length.
package citation

import (
	"fmt"
	"unicode/utf8"

	"lexbot/internal/session"
)

const (
	// DefaultExcerptLimit is the excerpt length, in characters, shown before
	// truncation.
	DefaultExcerptLimit = 300

	// Ellipsis marks a truncated excerpt.
	Ellipsis = "..."
)

// Truncate cuts text to limit characters and appends Ellipsis when it was
// longer. A non-positive limit disables truncation.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	r := []rune(text)
	return string(r[:limit]) + Ellipsis
}

// Panel is the view state of one message's sources. It holds copies; the
// message it was built from is never modified.
type Panel struct {
	sources   []session.Source
	documents []string
	expanded  bool
	limit     int
}

// NewPanel builds a collapsed panel for m.
func NewPanel(m session.Message, limit int) Panel {
	if limit == 0 {
		limit = DefaultExcerptLimit
	}
	return Panel{
		sources:   append([]session.Source(nil), m.Sources...),
		documents: append([]string(nil), m.DocumentsConsulted...),
		limit:     limit,
	}
}

// Empty reports whether there is nothing to cite.
func (p Panel) Empty() bool { return len(p.sources) == 0 }

// Total is the number of sources.
func (p Panel) Total() int { return len(p.sources) }

// Expanded reports whether the additional sources are shown.
func (p Panel) Expanded() bool { return p.expanded }

// CanExpand reports whether there is anything behind the toggle.
func (p Panel) CanExpand() bool { return len(p.sources) > 1 }

// Toggle flips the expansion.
func (p *Panel) Toggle() { p.expanded = !p.expanded }

// Expand shows the additional sources.
func (p *Panel) Expand() { p.expanded = true }

// Collapse hides the additional sources.
func (p *Panel) Collapse() { p.expanded = false }

// Documents returns the consulted document names.
func (p Panel) Documents() []string {
	return append([]string(nil), p.documents...)
}

// Visible returns the sources to display, excerpts truncated. Expanded
// items are truncated the same way as the primary one.
func (p Panel) Visible() []session.Source {
	if len(p.sources) == 0 {
		return nil
	}
	n := 1
	if p.expanded {
		n = len(p.sources)
	}
	out := make([]session.Source, n)
	for i := 0; i < n; i++ {
		out[i] = session.Source{
			Content:  Truncate(p.sources[i].Content, p.limit),
			Document: p.sources[i].Document,
		}
	}
	return out
}

// HiddenCount is the number of sources behind the toggle.
func (p Panel) HiddenCount() int {
	if p.expanded || len(p.sources) <= 1 {
		return 0
	}
	return len(p.sources) - 1
}

// ToggleLabel is the caption of the expand/collapse control, or "" when
// there is a single source.
func (p Panel) ToggleLabel() string {
	extra := len(p.sources) - 1
	if extra < 1 {
		return ""
	}
	verb := "Ver"
	if p.expanded {
		verb = "Ocultar"
	}
	if extra == 1 {
		return verb + " 1 fuente adicional"
	}
	return fmt.Sprintf("%s %d fuentes adicionales", verb, extra)
}

// Expansions remembers which messages have their sources expanded, keyed by
// message ID. The zero value is ready to use.
type Expansions struct {
	open map[string]bool
}

// Toggle flips the expansion of message id.
func (e *Expansions) Toggle(id string) {
	if e.open == nil {
		e.open = make(map[string]bool)
	}
	if e.open[id] {
		delete(e.open, id)
		return
	}
	e.open[id] = true
}

// IsExpanded reports whether message id is expanded.
func (e *Expansions) IsExpanded(id string) bool {
	return e.open[id]
}

// Panel builds the panel for m with the remembered expansion applied.
func (e *Expansions) Panel(m session.Message, limit int) Panel {
	p := NewPanel(m, limit)
	if e.IsExpanded(m.ID) {
		p.Expand()
	}
	return p
}
