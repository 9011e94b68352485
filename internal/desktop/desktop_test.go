package desktop

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/pkg/executil"
)

func TestBody_EscapesMarkup(t *testing.T) {
	body := Body(reminder.Record{
		Comment:     `<script>alert("x")</script> & 'co'`,
		Phone:       "8<999>",
		ScheduledAt: "14:30",
	})

	assert.Contains(t, body, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt; &amp; &#039;co&#039;")
	assert.Contains(t, body, "8&lt;999&gt;")
	assert.NotContains(t, body, "<script>")
}

func TestRenderer_NotifySend(t *testing.T) {
	exec := &executil.RecordingExecutor{}
	r := New(exec, "notify-send", zerolog.Nop())

	r.Show(reminder.Notification{DisplayID: "notif-1", Record: reminder.Record{Phone: "79991234567", Comment: "a&b"}})

	cmds := exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "notify-send", cmds[0].Cmd)
	assert.True(t, cmds[0].Start)
	assert.Equal(t, Title, cmds[0].Args[2])
	assert.Contains(t, cmds[0].Args[3], "a&amp;b")
}

func TestRenderer_Osascript(t *testing.T) {
	exec := &executil.RecordingExecutor{}
	r := New(exec, "osascript", zerolog.Nop())

	r.Show(reminder.Notification{Record: reminder.Record{Phone: "7999", Comment: `say "hi"`}})

	cmds := exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "-e", cmds[0].Args[0])
	assert.Contains(t, cmds[0].Args[1], `display notification "say \"hi\" · 7999"`)
}

func TestRenderer_ErrorsAreSwallowed(t *testing.T) {
	exec := &executil.RecordingExecutor{Errors: map[string]error{"notify-send": errors.New("no dbus")}}
	r := New(exec, "notify-send", zerolog.Nop())

	assert.NotPanics(t, func() {
		r.Show(reminder.Notification{})
		r.BeginClose("unknown")
		r.Remove("unknown")
	})
}
