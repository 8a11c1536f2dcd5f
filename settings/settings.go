// Package settings persists the default backup target directory in a
// single-line file under the user's config directory.
package settings

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"backup-tool/style"
)

const (
	DefaultTarget = "/media/pi/piBackup"
	FileName      = "backup_tool.conf"
)

// Path returns the config file location for the given home directory.
func Path(home string) string {
	return filepath.Join(home, ".config", FileName)
}

// Store reads and writes the default target for one home directory.
type Store struct {
	home string
	log  *style.Logger
}

func New(home string, log *style.Logger) *Store {
	return &Store{home: home, log: log}
}

// Path returns the config file this store uses.
func (s *Store) Path() string {
	return Path(s.home)
}

// ReadDefault returns the stored target, or DefaultTarget when the file is
// missing, unreadable or empty. Only the first line counts.
func (s *Store) ReadDefault() string {
	path := s.Path()
	s.log.Debug("Reading config file: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Debug("Cannot read config file: %v", err)
		s.log.Warn("Config file not found or empty. Using default target directory.")
		return DefaultTarget
	}

	line, _, _ := bytes.Cut(data, []byte("\n"))
	target := strings.TrimSuffix(string(line), "\r")
	if target == "" {
		s.log.Warn("Config file not found or empty. Using default target directory.")
		return DefaultTarget
	}

	s.log.Debug("Default target directory read: %s", target)
	return target
}

// WriteDefault makes sure the config directory exists and overwrites the
// config file with target.
func (s *Store) WriteDefault(target string) error {
	path := s.Path()
	dir := filepath.Dir(path)

	s.log.Debug("Ensuring config directory exists: %s", dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	s.log.Debug("Writing new default directory to config file: %s", path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("updating default backup directory: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, target); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing config file: %w", err)
	}

	s.log.Debug("Config file updated successfully.")
	return nil
}
