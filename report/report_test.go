package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"backup-tool/copytree"
)

func TestNew(t *testing.T) {
	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	finished := started.Add(1500 * time.Millisecond)
	res := copytree.Result{
		Dirs:     3,
		Files:    7,
		Bytes:    1234,
		Skipped:  []string{"/src/link"},
		Failures: []copytree.Failure{{Path: "/src/locked", Err: errors.New("permission denied")}},
	}

	r := New("/src", "/dst/Backup 2024-01-02 03-04-05", started, finished, res)
	want := Report{
		Source:      "/src",
		Destination: "/dst/Backup 2024-01-02 03-04-05",
		Started:     started,
		Finished:    finished,
		Elapsed:     "1.5s",
		Directories: 3,
		Files:       7,
		Bytes:       1234,
		Skipped:     []string{"/src/link"},
		Failed:      []Failure{{Path: "/src/locked", Error: "permission denied"}},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if r.OK() {
		t.Fatalf("report with failures must not be OK")
	}
}

func TestWrite(t *testing.T) {
	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := New("/src", "/dst", started, started.Add(time.Second), copytree.Result{Dirs: 1, Files: 2, Bytes: 10})
	path := filepath.Join(t.TempDir(), "report.yaml")

	if err := Write(path, r); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"source: /src\n", "files: 2\n", "bytes: 10\n", "elapsed: 1s\n"} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "failed:") || strings.Contains(text, "skipped:") {
		t.Fatalf("empty lists should be omitted:\n%s", text)
	}

	back, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r, back); diff != "" {
		t.Fatalf("round trip mismatch (-wrote +read):\n%s", diff)
	}
	if !back.OK() {
		t.Fatalf("read back report is not OK: %+v", back)
	}
}

func TestWrite_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.yaml")
	if err := Write(path, Report{}); err == nil {
		t.Fatalf("expected error")
	}
}
