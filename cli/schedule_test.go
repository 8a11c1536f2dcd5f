package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"backup-tool/style"
)

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{style.NewLogger(&buf, style.WithLevel(style.LevelDebug))}

	l.Info("start", "entry", 1, "dangling")
	l.Error(errors.New("boom"), "panic", "job", "backup")

	got := buf.String()
	for _, want := range []string{
		"[DEBUG] cron: start entry=1 dangling\n",
		"[ERROR] cron: panic: boom job=backup\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}
