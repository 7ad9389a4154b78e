package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/etnz/inflation/config"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       config.LogConfig
		wantDebug bool
	}{
		{"console info", config.LogConfig{Level: "info", Encoding: "console"}, false},
		{"json debug", config.LogConfig{Level: "DEBUG", Encoding: "json", Sampling: true}, true},
		{"unknown level falls back to info", config.LogConfig{Level: "verbose"}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(tc.cfg)
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if got := log.Core().Enabled(zapcore.DebugLevel); got != tc.wantDebug {
				t.Errorf("New().Core().Enabled(debug) = %v, want %v", got, tc.wantDebug)
			}
		})
	}
}
