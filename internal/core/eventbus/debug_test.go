package eventbus_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/callbell/internal/core/eventbus"
	"github.com/colonyops/callbell/internal/core/eventbus/testbus"
	"github.com/colonyops/callbell/internal/core/settings"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	var out syncBuffer
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.New(&out).Level(zerolog.DebugLevel))

	tb.SubscribeCallsChanged(func(eventbus.CallsChangedPayload) {})
	tb.PublishCallsChanged(eventbus.CallsChangedPayload{CallID: "1", Reason: "postpone"})
	tb.PublishSettingsUpdated(eventbus.SettingsUpdatedPayload{Settings: settings.Defaults()})
	tb.PublishTrackingChanged(eventbus.TrackingChangedPayload{CallID: "1"})

	tb.AssertPublished(t, eventbus.EventTrackingChanged)

	logs := out.String()
	assert.Contains(t, logs, "subscriber registered")
	assert.Contains(t, logs, "event fired")
	assert.Contains(t, logs, `"event":"tracking.changed"`)
}
