// Package report writes a YAML summary of one backup run.
package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"backup-tool/copytree"
)

type Report struct {
	Source      string    `yaml:"source"`
	Destination string    `yaml:"destination"`
	Started     time.Time `yaml:"started"`
	Finished    time.Time `yaml:"finished"`
	Elapsed     string    `yaml:"elapsed"`
	Directories int       `yaml:"directories"`
	Files       int       `yaml:"files"`
	Bytes       int64     `yaml:"bytes"`
	Skipped     []string  `yaml:"skipped,omitempty"`
	Failed      []Failure `yaml:"failed,omitempty"`
}

type Failure struct {
	Path  string `yaml:"path"`
	Error string `yaml:"error"`
}

// New builds a report from a finished copy.
func New(src, dst string, started, finished time.Time, res copytree.Result) Report {
	r := Report{
		Source:      src,
		Destination: dst,
		Started:     started,
		Finished:    finished,
		Elapsed:     finished.Sub(started).Round(time.Millisecond).String(),
		Directories: res.Dirs,
		Files:       res.Files,
		Bytes:       res.Bytes,
		Skipped:     res.Skipped,
	}
	for _, f := range res.Failures {
		r.Failed = append(r.Failed, Failure{Path: f.Path, Error: f.Err.Error()})
	}
	return r
}

// OK reports whether every entry was copied.
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// Write stores r as YAML at path, replacing any previous file.
func Write(path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (Report, error) {
	var r Report
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("reading report: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parsing report: %w", err)
	}
	return r, nil
}
