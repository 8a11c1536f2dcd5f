//go:build linux || darwin || freebsd

package diskspace

import "golang.org/x/sys/unix"

func freeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	// Bsize is signed on some platforms.
	return uint64(stat.Bsize) * uint64(stat.Bavail), nil
}
