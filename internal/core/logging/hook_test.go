package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "call and display id",
			setupCtx: func() context.Context {
				return WithNotification(context.Background(), "17", "notif-abc")
			},
			wantKeys: []string{"call_id", "display_id"},
		},
		{
			name: "only call_id",
			setupCtx: func() context.Context {
				return WithCallID(context.Background(), "17")
			},
			wantKeys:  []string{"call_id"},
			wantEmpty: []string{"display_id"},
		},
		{
			name: "only display_id",
			setupCtx: func() context.Context {
				return WithDisplayID(context.Background(), "notif-abc")
			},
			wantKeys:  []string{"display_id"},
			wantEmpty: []string{"call_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"call_id", "display_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
