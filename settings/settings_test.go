package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"backup-tool/style"
)

func TestPath(t *testing.T) {
	got := Path("/home/pi")
	want := filepath.Join("/home/pi", ".config", "backup_tool.conf")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestReadDefault_MissingFileFallsBack(t *testing.T) {
	var logs bytes.Buffer
	s := New(t.TempDir(), style.NewLogger(&logs))

	if got := s.ReadDefault(); got != DefaultTarget {
		t.Fatalf("got %q want %q", got, DefaultTarget)
	}
	if !strings.Contains(logs.String(), "[WARNING]") {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestReadDefault_EmptyFileFallsBack(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "")

	s := New(home, style.NewLogger(&bytes.Buffer{}))
	if got := s.ReadDefault(); got != DefaultTarget {
		t.Fatalf("got %q want %q", got, DefaultTarget)
	}
}

func TestReadDefault_FirstLineWithoutNewline(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "/mnt/usb/backups\nignored\n")

	s := New(home, style.NewLogger(&bytes.Buffer{}))
	if got := s.ReadDefault(); got != "/mnt/usb/backups" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteDefault_CreatesDirAndRoundTrips(t *testing.T) {
	home := t.TempDir()
	s := New(home, style.NewLogger(&bytes.Buffer{}))

	if err := s.WriteDefault("/srv/one"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.WriteDefault("/srv/two with space"); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(Path(home))
	if err != nil {
		t.Fatal(err)
	}
	got := []string{s.ReadDefault(), string(data)}
	want := []string{"/srv/two with space", "/srv/two with space\n"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("read value and file content mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDefault_ConfigDirIsAFile(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, ".config"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	s := New(home, style.NewLogger(&bytes.Buffer{}))
	if err := s.WriteDefault("/srv/x"); err == nil {
		t.Fatalf("expected error when .config is a regular file")
	}
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	path := Path(home)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
