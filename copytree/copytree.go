// Package copytree copies a directory tree of regular files and
// directories, carrying permission bits over to the copies.
package copytree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"backup-tool/style"
)

const bufferSize = 32 * 1024

// Permission bits applied to copied files.
const permBits = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// Failure is an entry that could not be copied.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result summarizes one CopyTree call.
type Result struct {
	Dirs     int
	Files    int
	Bytes    int64
	Skipped  []string
	Failures []Failure
}

// Copier copies trees. The zero value copies everything without logging.
type Copier struct {
	Log *style.Logger

	// Include, when non-empty, limits regular files to those matching one
	// of the patterns. Exclude drops matching files and directories.
	Include []string
	Exclude []string
}

// tree is the state of one CopyTree call.
type tree struct {
	res Result

	// root is dst itself; it is never copied when it lies inside src.
	root fs.FileInfo
}

// CopyTree copies src into dst, creating dst if needed. Failures below the
// top level are logged, recorded in the result and do not stop the copy.
// The returned error is non-nil only when src cannot be read or dst cannot
// be created.
func (c *Copier) CopyTree(src, dst string) (Result, error) {
	var t tree
	if err := c.copyDir(src, dst, "", &t); err != nil {
		return t.res, err
	}
	return t.res, nil
}

func (c *Copier) copyDir(src, dst, rel string, t *tree) error {
	res := &t.res

	entries, err := os.ReadDir(src)
	if err != nil {
		c.Log.Error("Could not open directory: %s: %v", src, err)
		return fmt.Errorf("opening source directory: %w", err)
	}
	c.Log.Debug("Opened source directory: %s", src)

	if err := os.Mkdir(dst, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
		c.Log.Error("Could not create destination directory: %s: %v", dst, err)
		return fmt.Errorf("creating destination directory: %w", err)
	}
	c.Log.Debug("Destination directory created or already exists: %s", dst)
	res.Dirs++
	if rel == "" {
		if info, err := os.Stat(dst); err == nil {
			t.root = info
		}
	}

	for _, entry := range entries {
		name := entry.Name()
		srcPath := filepath.Join(src, name)
		dstPath := filepath.Join(dst, name)
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}

		info, err := os.Lstat(srcPath)
		if err != nil {
			c.Log.Warn("Could not stat entry: %s: %v", srcPath, err)
			res.Failures = append(res.Failures, Failure{Path: srcPath, Err: err})
			continue
		}

		switch mode := info.Mode(); {
		case mode.IsDir():
			if t.root != nil && os.SameFile(info, t.root) {
				c.Log.Warn("Skipped backup destination inside source: %s", srcPath)
				res.Skipped = append(res.Skipped, srcPath)
				continue
			}
			if matchAny(c.Exclude, relPath) {
				c.Log.Debug("Excluded directory: %s", srcPath)
				continue
			}
			c.Log.Debug("Found directory: %s", srcPath)
			if err := c.copyDir(srcPath, dstPath, relPath, t); err != nil {
				res.Failures = append(res.Failures, Failure{Path: srcPath, Err: err})
			}

		case mode.IsRegular():
			if !c.includeFile(relPath) {
				c.Log.Debug("Excluded file: %s", srcPath)
				continue
			}
			c.Log.Debug("Found file: %s", srcPath)
			n, err := c.copyFile(srcPath, dstPath, info.Mode())
			res.Bytes += n
			if err != nil {
				res.Failures = append(res.Failures, Failure{Path: srcPath, Err: err})
				continue
			}
			res.Files++

		default:
			c.Log.Warn("Skipped unknown entry type: %s (%s)", srcPath, describe(mode))
			res.Skipped = append(res.Skipped, srcPath)
		}
	}

	c.Log.Debug("Finished processing directory: %s", src)
	return nil
}

// copyFile copies one regular file and applies mode's permission bits to
// the copy. It returns the number of bytes written.
func (c *Copier) copyFile(src, dst string, mode fs.FileMode) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		c.Log.Error("Could not open source file: %s: %v", src, err)
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		c.Log.Error("Could not open destination file: %s: %v", dst, err)
		return 0, fmt.Errorf("creating destination file: %w", err)
	}
	defer destFile.Close()

	w := bufio.NewWriterSize(destFile, bufferSize)
	n, err := io.Copy(w, bufio.NewReaderSize(srcFile, bufferSize))
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		c.Log.Error("Write error occurred while copying file: %s -> %s: %v", src, dst, err)
		return n, fmt.Errorf("copying file contents: %w", err)
	}
	if err := destFile.Close(); err != nil {
		c.Log.Error("Could not close destination file: %s: %v", dst, err)
		return n, fmt.Errorf("closing destination file: %w", err)
	}
	c.Log.Debug("File copy completed: %s -> %s", src, dst)

	if err := os.Chmod(dst, mode&permBits); err != nil {
		c.Log.Warn("Permissions not set correctly for: %s: %v", dst, err)
		return n, fmt.Errorf("setting file permissions: %w", err)
	}
	c.Log.Debug("Permissions set successfully for: %s", dst)
	return n, nil
}

func (c *Copier) includeFile(rel string) bool {
	if matchAny(c.Exclude, rel) {
		return false
	}
	return len(c.Include) == 0 || matchAny(c.Include, rel)
}

// matchAny reports whether rel (slash separated, relative to the copy root)
// matches one of the patterns by full path, base name or directory prefix.
func matchAny(patterns []string, rel string) bool {
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
		if strings.HasPrefix(rel, pattern+"/") {
			return true
		}
	}
	return false
}

func describe(mode fs.FileMode) string {
	switch {
	case mode&fs.ModeSymlink != 0:
		return "symlink"
	case mode&fs.ModeNamedPipe != 0:
		return "named pipe"
	case mode&fs.ModeSocket != 0:
		return "socket"
	case mode&fs.ModeCharDevice != 0:
		return "character device"
	case mode&fs.ModeDevice != 0:
		return "device"
	default:
		return mode.Type().String()
	}
}
