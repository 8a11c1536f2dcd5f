package diskspace

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"10mb", 10 * MB},
		{"10MB", 10 * MB},
		{" 2gb ", 2 * GB},
		{"0gb", 0},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%q: got %d want %d", c.in, got, c.want)
		}
	}
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "10", "10kb", "mb", "-1gb", "1.5gb", "99999999999999999999gb"} {
		if _, err := ParseSize(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		0:            "0mb",
		512 * MB:     "512mb",
		GB:           "1.0gb",
		GB + GB/2:    "1.5gb",
		10*GB + 1024: "10.0gb",
	}
	for in, want := range cases {
		if got := FormatBytes(in); got != want {
			t.Fatalf("FormatBytes(%d) = %q want %q", in, got, want)
		}
	}
}

func TestFree(t *testing.T) {
	n, err := Free(t.TempDir())
	if errors.Is(err, ErrUnsupported) {
		t.Skip(err)
	}
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Logf("temp dir reports zero free bytes")
	}
}

func TestFree_MissingPath(t *testing.T) {
	_, err := Free(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatalf("expected error")
	}
}
