// Package backupdir names, creates and prunes timestamped backup
// directories such as "Backup 2024-05-01 13-45-09".
package backupdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	Prefix = "Backup "
	Layout = "2006-01-02 15-04-05"

	// MaxPath mirrors Linux PATH_MAX, terminating NUL included.
	MaxPath = 4096
)

var (
	ErrPathTooLong = errors.New("path is too long")
	ErrTimestamp   = errors.New("failed to format timestamp")
)

// Name returns the directory name for a backup started at t.
func Name(t time.Time) (string, error) {
	if y := t.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("%w: year %d", ErrTimestamp, y)
	}
	return Prefix + t.Format(Layout), nil
}

// Path joins base and the timestamped name for t.
func Path(base string, t time.Time) (string, error) {
	name, err := Name(t)
	if err != nil {
		return "", err
	}
	p := filepath.Join(base, name)
	if len(p) >= MaxPath {
		return "", fmt.Errorf("%w: %d bytes", ErrPathTooLong, len(p))
	}
	return p, nil
}

// Create makes the timestamped directory for t under base and returns its
// path. base itself must already exist. A directory left by another run in
// the same second is reused.
func Create(base string, t time.Time) (string, error) {
	p, err := Path(base, t)
	if err != nil {
		return "", err
	}
	if err := os.Mkdir(p, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			if info, statErr := os.Stat(p); statErr == nil && info.IsDir() {
				return p, nil
			}
		}
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	return p, nil
}

// Parse extracts the timestamp from a backup directory name.
func Parse(name string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, Prefix)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, rest, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// List returns the timestamped backup directories under base, oldest first.
func List(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := Parse(entry.Name()); ok {
			dirs = append(dirs, filepath.Join(base, entry.Name()))
		}
	}

	// The layout is zero padded, so name order is chronological order.
	sort.Strings(dirs)
	return dirs, nil
}

// Prune removes the oldest backups under base so that at most keep remain.
// It returns the removed paths, stopping at the first removal error.
func Prune(base string, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("backups to keep must be 1 or greater, got %d", keep)
	}

	dirs, err := List(base)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	if len(dirs) <= keep {
		return nil, nil
	}

	var removed []string
	for _, dir := range dirs[:len(dirs)-keep] {
		if err := os.RemoveAll(dir); err != nil {
			return removed, fmt.Errorf("removing old backup %s: %w", dir, err)
		}
		removed = append(removed, dir)
	}
	return removed, nil
}
