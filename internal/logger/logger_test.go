package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_IsNop(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("expected a non-nil logger before Init")
	}
	l.Log.Info("discarded")
}

func TestInit_Levels(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"Info", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			l := New()
			if err := l.Init(tc.in); err != nil {
				t.Fatalf("Init(%q): %v", tc.in, err)
			}
			if !l.Log.Core().Enabled(tc.want) {
				t.Errorf("level %v not enabled for %q", tc.want, tc.in)
			}
			if tc.want > zapcore.DebugLevel && l.Log.Core().Enabled(tc.want-1) {
				t.Errorf("level below %v enabled for %q", tc.want, tc.in)
			}
		})
	}
}

func TestInit_BadLevel(t *testing.T) {
	l := New()
	if err := l.Init("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
