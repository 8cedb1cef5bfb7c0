// SPDX-License-Identifier: MIT
package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level LogLevel
		ok    bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"Warning", LevelWarn, true},
		{" error ", LevelError, true},
		{"fatal", LevelFatal, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, ok := ParseLevel(tt.in)
			if level != tt.level || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = (%s, %v), want (%s, %v)", tt.in, level, ok, tt.level, tt.ok)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	prev := GetLevel()
	defer SetLevel(prev)

	SetLevel(LevelWarn)
	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below WARN were written: %q", out)
	}
	if !strings.Contains(out, "[WARN]  shown 3") {
		t.Errorf("warning missing or misformatted: %q", out)
	}
	if !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("error missing or misformatted: %q", out)
	}
}

func TestLevelString(t *testing.T) {
	if got := LogLevel(42).String(); got != "UNKNOWN" {
		t.Errorf("unknown level String() = %q, want UNKNOWN", got)
	}
}

func TestEvery(t *testing.T) {
	clock := time.Unix(100, 0)
	e := NewEvery(time.Second)
	e.now = func() time.Time { return clock }

	if !e.Allow() {
		t.Fatal("first message suppressed")
	}
	if e.Allow() {
		t.Error("second message inside the interval allowed")
	}
	clock = clock.Add(999 * time.Millisecond)
	if e.Allow() {
		t.Error("message before the interval elapsed allowed")
	}
	clock = clock.Add(time.Millisecond)
	if !e.Allow() {
		t.Error("message after the interval suppressed")
	}
}

func TestEveryWarnf(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	e := NewEvery(time.Hour)
	for i := range 5 {
		e.Warnf("dropped %d", i)
	}
	if n := strings.Count(buf.String(), "dropped"); n != 1 {
		t.Errorf("logged %d messages, want 1: %q", n, buf.String())
	}
}
