package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs bus activity. Publishes and subscriptions log at
// debug level, drops at warn and subscriber panics at error.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.Observe(Observer{
		Published: func(event Event) {
			logger.Debug().Str("event", string(event)).Msg("event fired")
		},
		Subscribed: func(event Event) {
			logger.Debug().Str("event", string(event)).Msg("subscriber registered")
		},
		Dropped: func(event Event) {
			logger.Warn().Str("event", string(event)).Msg("event dropped: buffer full")
		},
		Panicked: func(event Event, recovered any) {
			logger.Error().
				Str("event", string(event)).
				Str("panic", fmt.Sprint(recovered)).
				Msg("subscriber panicked")
		},
	})
}
