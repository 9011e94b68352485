// Package desktop mirrors reminders as operating system notifications.
package desktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/render"
	"github.com/colonyops/callbell/pkg/executil"
)

// Title is the heading of every reminder notification.
const Title = "Call due soon"

// Renderer sends a desktop notification for each shown reminder. The
// notification daemon owns its lifetime, so BeginClose and Remove do nothing.
type Renderer struct {
	exec    executil.Executor
	command string
	logger  zerolog.Logger
}

// New returns a Renderer that runs command (notify-send or osascript).
func New(exec executil.Executor, command string, logger zerolog.Logger) *Renderer {
	return &Renderer{exec: exec, command: command, logger: logger}
}

// Show sends the notification without waiting for the notifier to exit.
func (r *Renderer) Show(n reminder.Notification) {
	args := r.args(n.Record)
	if err := r.exec.Start(context.Background(), r.command, args...); err != nil {
		r.logger.Warn().Err(err).Str("display_id", n.DisplayID).Msg("desktop notification failed")
	}
}

func (r *Renderer) BeginClose(string) {}

func (r *Renderer) Remove(string) {}

func (r *Renderer) args(rec reminder.Record) []string {
	if r.command == "osascript" {
		script := fmt.Sprintf("display notification %s with title %s sound name \"default\"",
			appleString(plainBody(rec)), appleString(Title))
		return []string{"-e", script}
	}
	// notify-send bodies accept markup, so payload text is escaped.
	return []string{"--app-name=callbell", "--urgency=critical", Title, Body(rec)}
}

// Body renders the escaped markup body for a record.
func Body(rec reminder.Record) string {
	var sb strings.Builder
	if rec.Comment != "" {
		sb.WriteString("<b>" + render.EscapeHTML(rec.Comment) + "</b>\n")
	}
	sb.WriteString(render.EscapeHTML(rec.Phone))
	if rec.ScheduledAt != "" {
		sb.WriteString("\nTime: " + render.EscapeHTML(rec.ScheduledAt))
	}
	if rec.CallType != "" {
		sb.WriteString(" · " + render.EscapeHTML(rec.CallType))
	}
	return sb.String()
}

func plainBody(rec reminder.Record) string {
	parts := []string{render.Terminal(rec.Comment), render.Terminal(rec.Phone), render.Terminal(rec.ScheduledAt)}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}

// appleString quotes s as an AppleScript string literal.
func appleString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
