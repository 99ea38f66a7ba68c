package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Aman-CERP/storefront/internal/health"
)

// StatusRenderer displays storage health.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:    out,
		styles: GetStyles(noColor),
	}
}

// Line renders the one-line status footer.
func (r *StatusRenderer) Line(s health.Snapshot) string {
	storage := r.styles.Success.Render("storage works")
	if !s.Writable {
		storage = r.styles.Error.Render("storage disabled")
	}
	sep := r.styles.Dim.Render(" • ")
	return storage + sep +
		fmt.Sprintf("%d favorites", s.FavoritesCount) + sep +
		fmt.Sprintf("theme: %s", s.Theme)
}

// Render displays a snapshot in detail.
func (r *StatusRenderer) Render(s health.Snapshot) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Storage Status"))

	state := r.styles.Success.Render("writable")
	if !s.Writable {
		state = r.styles.Error.Render("disabled")
	}
	_, _ = fmt.Fprintf(r.out, "  Storage:    %s\n", state)
	_, _ = fmt.Fprintf(r.out, "  Favorites:  %d\n", s.FavoritesCount)
	_, _ = fmt.Fprintf(r.out, "  Theme:      %s\n", s.Theme)
	if !s.CheckedAt.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Checked:    %s\n", formatTime(s.CheckedAt))
	}
	return nil
}

// RenderJSON outputs a snapshot as JSON.
func (r *StatusRenderer) RenderJSON(s health.Snapshot) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// formatTime formats a time for display.
func formatTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	default:
		return t.Format("2006-01-02 15:04")
	}
}
