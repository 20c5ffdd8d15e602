package xlog_test

import (
	"testing"

	"github.com/omeyang/ndckit/pkg/observability/xlog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{"DEBUG", xlog.LevelDebug, false},
		{"info", xlog.LevelInfo, false},
		{"warn", xlog.LevelWarn, false},
		{"warning", xlog.LevelWarn, false},
		{"error", xlog.LevelError, false},
		{"  Error  ", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
		{"", xlog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level xlog.Level
		want  string
	}{
		{xlog.LevelDebug, "DEBUG"},
		{xlog.LevelInfo, "INFO"},
		{xlog.LevelWarn, "WARN"},
		{xlog.LevelError, "ERROR"},
		{xlog.LevelInfo + 2, "INFO+2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_TextMarshaling(t *testing.T) {
	data, err := xlog.LevelWarn.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error: %v", err)
	}
	if string(data) != "WARN" {
		t.Errorf("MarshalText() = %q, want WARN", data)
	}

	var l xlog.Level
	if err := l.UnmarshalText([]byte("error")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if l != xlog.LevelError {
		t.Errorf("UnmarshalText(error) = %v, want LevelError", l)
	}

	if err := l.UnmarshalText([]byte("nonsense")); err == nil {
		t.Error("UnmarshalText(nonsense) should fail")
	}
}
