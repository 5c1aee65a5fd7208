package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// restoreDefault 测试结束后恢复进程级默认 logger
func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { SetDefault(prev) })
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"trace", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"  Warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) expected error, got nil", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetOutputWithLevel_FiltersBelowLevel(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	SetOutputWithLevel(&buf, slog.LevelWarn)

	Debug("debug line")
	Info("info line")
	Warn("warn line")
	Error("error line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("output contains filtered levels: %q", out)
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Errorf("output missing warn/error lines: %q", out)
	}
}

func TestLazyLogger_CarriesComponent(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	SetOutputWithLevel(&buf, slog.LevelDebug)

	l := Logger("core/swarm")
	l.Info("会话已建立", "peer", "8Kxq2vNp")

	out := buf.String()
	if !strings.Contains(out, "component=core/swarm") {
		t.Errorf("output missing component attribute: %q", out)
	}
	if !strings.Contains(out, "peer=8Kxq2vNp") {
		t.Errorf("output missing key-value pair: %q", out)
	}
}

func TestLazyLogger_FollowsOutputSwitch(t *testing.T) {
	restoreDefault(t)

	l := Logger("test")

	var first bytes.Buffer
	SetOutputWithLevel(&first, slog.LevelInfo)
	l.Info("one")

	var second bytes.Buffer
	SetOutputWithLevel(&second, slog.LevelInfo)
	l.Info("two")

	if !strings.Contains(first.String(), "one") || strings.Contains(first.String(), "two") {
		t.Errorf("first output = %q", first.String())
	}
	if !strings.Contains(second.String(), "two") || strings.Contains(second.String(), "one") {
		t.Errorf("second output = %q", second.String())
	}
}

func TestLazyLogger_WithReturnsBoundLogger(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	SetOutputWithLevel(&buf, slog.LevelInfo)

	bound := Logger("discovery").With("table", "main")
	bound.Info("refresh done", "buckets", 3)

	out := buf.String()
	for _, want := range []string{"component=discovery", "table=main", "buckets=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestNew_DefaultsToStderrFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)
	l.Info("standalone")

	if !strings.Contains(buf.String(), "standalone") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSetLevel_KeepsStderr(t *testing.T) {
	restoreDefault(t)

	// 仅验证级别生效；stderr 本身不便捕获
	SetLevel(slog.LevelError)
	ctx := context.Background()
	if slog.Default().Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be disabled after SetLevel(error)")
	}
	if !slog.Default().Enabled(ctx, slog.LevelError) {
		t.Error("error should stay enabled")
	}
}
