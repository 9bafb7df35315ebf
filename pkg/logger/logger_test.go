package logger

import (
	"errors"
	"log/slog"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want int
	}{
		{name: "empty", args: nil, want: 0},
		{name: "bare error", args: []any{errors.New("boom")}, want: 1},
		{name: "key value", args: []any{"lead_id", "abc"}, want: 2},
		{name: "dangling string", args: []any{"only"}, want: 1},
		{name: "attr", args: []any{slog.Int("n", 1)}, want: 1},
		{name: "mixed", args: []any{errors.New("boom"), "slot", "quiz"}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.args)
			if len(got) != tt.want {
				t.Fatalf("normalize(%v) len = %d, want %d", tt.args, len(got), tt.want)
			}
		})
	}
}
