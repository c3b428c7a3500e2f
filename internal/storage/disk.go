package storage

import (
	"os"
)

// sidecarSuffixes are the files SQLite keeps next to the main database in WAL mode.
var sidecarSuffixes = []string{"", "-wal", "-shm", "-journal"}

// DatabaseSize returns the on-disk footprint of the SQLite database at dbPath,
// including its WAL and shared-memory files. Files that do not exist count as 0.
func DatabaseSize(dbPath string) (int64, error) {
	if dbPath == "" {
		return 0, nil
	}
	var total int64
	for _, suffix := range sidecarSuffixes {
		info, err := os.Stat(dbPath + suffix)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if info.IsDir() {
			continue
		}
		total += info.Size()
	}
	return total, nil
}
