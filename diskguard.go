package limlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// DiskGuard is an optional supplement that keeps a log directory within a
// total-size budget and a minimum-free-space budget by deleting the oldest
// files in the directory (by modification time) before rotated backups
// would otherwise be pruned by count or age. It never touches the currently
// active log file; other file names are not checked against the backup
// naming scheme, so any other regular file in the directory may be removed.
// It runs strictly before
// a rotation decides how many backups to keep, freeing headroom that
// count/age pruning alone might not reach in time on a nearly-full disk.
type DiskGuard struct {
	MaxTotalSizeBytes int64 // 0 disables the total-size budget
	MinFreeBytes      int64 // 0 disables the free-space floor
}

// Ensure computes how many bytes dir is over its total-size budget or under
// its free-space floor and frees at least that many by removing the oldest
// regular files in dir, whatever their names, skipping activeFile.
func (g *DiskGuard) Ensure(dir, activeFile string) error {
	if g.MaxTotalSizeBytes == 0 && g.MinFreeBytes == 0 {
		return nil
	}

	free, err := diskFreeBytes(dir)
	if err != nil {
		return err
	}

	dirSize, err := dirSizeBytes(dir)
	if err != nil {
		return err
	}

	var required int64
	if g.MinFreeBytes > 0 && free < g.MinFreeBytes {
		required = g.MinFreeBytes - free
	}
	if g.MaxTotalSizeBytes > 0 && dirSize > g.MaxTotalSizeBytes {
		if exceeded := dirSize - g.MaxTotalSizeBytes; exceeded > required {
			required = exceeded
		}
	}
	if required <= 0 {
		return nil
	}

	return freeOldest(dir, activeFile, required)
}

func diskFreeBytes(dir string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", dir, err)
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}

func dirSizeBytes(dir string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func freeOldest(dir, activeFile string, required int64) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type candidate struct {
		name    string
		modTime int64
		size    int64
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == filepath.Base(activeFile) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{entry.Name(), info.ModTime().UnixNano(), info.Size()})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime < candidates[j].modTime })

	var freed int64
	for _, c := range candidates {
		if freed >= required {
			break
		}
		if err := os.Remove(filepath.Join(dir, c.name)); err != nil {
			fmt.Fprintf(os.Stderr, "limlog: disk guard failed to remove %s: %v\n", c.name, err)
			continue
		}
		freed += c.size
	}
	if freed < required {
		return fmt.Errorf("limlog: disk guard freed %d of %d required bytes in %s", freed, required, dir)
	}
	return nil
}
