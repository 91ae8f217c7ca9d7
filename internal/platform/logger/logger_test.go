package logger

import (
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"":        Info,
		"INFO":    Info,
		"warning": Warn,
		"error":   Error,
		"weird":   Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Fatalf("expected json format")
	}
	if ParseFormat("anything") != FormatText {
		t.Fatalf("expected text format by default")
	}
}

func TestToZapFields_SkipsEmptyKeys_AndNamesErrors(t *testing.T) {
	fields := toZapFields(map[string]any{
		"":      "ignored",
		"err":   errors.New("boom"),
		"count": 3,
	})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With(map[string]any{"module": "test"})
	l.Info("hello", map[string]any{"k": "v"})
	l.Error("bad", nil)
	if Zap(l) == nil {
		t.Fatalf("expected underlying zap logger")
	}
}
