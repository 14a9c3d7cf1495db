package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Action
		wantErr error
	}{
		{
			name: "no action",
			raw:  `{"response":"hi","timestamp":"2025-01-01T00:00:00Z"}`,
		},
		{
			name: "null action",
			raw:  `{"response":"hi","action":null}`,
		},
		{
			name: "flattened navigate",
			raw:  `{"response":"Going","action":"navigate","page":"actors","message":"Opening actors"}`,
			want: Navigate{Page: "actors", Message: "Opening actors"},
		},
		{
			name: "nested navigate",
			raw:  `{"response":"Done","action":{"action":"navigate","page":"actors"}}`,
			want: Navigate{Page: "actors"},
		},
		{
			name: "nested with type key",
			raw:  `{"response":"Done","action":{"type":"open_actor","actor_id":"a1"}}`,
			want: OpenActor{ActorID: "a1"},
		},
		{
			name: "view run",
			raw:  `{"action":"view_run","page":"runs"}`,
			want: ViewRun{Page: "runs"},
		},
		{
			name: "fill and run",
			raw:  `{"action":"fill_and_run","run_id":"1234567890","message":"Starting"}`,
			want: FillAndRun{RunID: "1234567890", Message: "Starting"},
		},
		{
			name: "export defaults to json",
			raw:  `{"action":"export","run_id":"abc123"}`,
			want: Export{RunID: "abc123", Format: "json"},
		},
		{
			name: "export csv",
			raw:  `{"action":{"action":"export","run_id":"abc123","format":"CSV"}}`,
			want: Export{RunID: "abc123", Format: "csv"},
		},
		{
			name:    "unknown kind",
			raw:     `{"action":"self_destruct"}`,
			wantErr: ErrUnknownAction,
		},
		{
			name:    "missing run id",
			raw:     `{"action":"export"}`,
			wantErr: ErrInvalidAction,
		},
		{
			name:    "malformed action",
			raw:     `{"action":42}`,
			wantErr: ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAction_Empty(t *testing.T) {
	got, err := ParseAction(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
