// Package diskspace reports free space on the filesystem holding a path
// and parses human readable sizes such as "500mb" or "2gb".
package diskspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MB = 1024 * 1024
	GB = 1024 * 1024 * 1024
)

var ErrUnsupported = errors.New("free space lookup is not supported on this platform")

// Free returns the bytes available to the calling user on the filesystem
// that holds path.
func Free(path string) (uint64, error) {
	n, err := freeSpace(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get free space for %s: %w", path, err)
	}
	return n, nil
}

// FormatBytes converts a size in bytes to a human-readable string in MB or GB.
func FormatBytes(bytes uint64) string {
	if bytes < GB {
		return fmt.Sprintf("%dmb", bytes/MB)
	}
	return fmt.Sprintf("%.1fgb", float64(bytes)/float64(GB))
}

// ParseSize parses a size that ends with "mb" or "gb".
func ParseSize(size string) (uint64, error) {
	size = strings.ToLower(strings.TrimSpace(size))

	var multiplier uint64
	var value string

	switch {
	case strings.HasSuffix(size, "mb"):
		multiplier = MB
		value = strings.TrimSuffix(size, "mb")
	case strings.HasSuffix(size, "gb"):
		multiplier = GB
		value = strings.TrimSuffix(size, "gb")
	default:
		return 0, fmt.Errorf("invalid size %q: must end with 'mb' or 'gb'", size)
	}

	num, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	if num > ^uint64(0)/multiplier {
		return 0, fmt.Errorf("invalid size %q: too large", size)
	}
	return num * multiplier, nil
}
