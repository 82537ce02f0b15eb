package metrics

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// SysHealth is a snapshot of process memory and of the coach's stored data.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	DatabaseSize string
	ProfileFiles int
	ProfileSize  string
}

// GetSysHealth reads runtime stats, the size of the SQLite database at dbPath
// (write-ahead log included) and the profile records kept under profileDir.
// Missing paths count as empty.
func GetSysHealth(dbPath, profileDir string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	files, size := profileUsage(profileDir)
	return SysHealth{
		AllocMB:      m.Alloc >> 20,
		SysMB:        m.Sys >> 20,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DatabaseSize: formatBytes(fileSize(dbPath) + fileSize(dbPath+"-wal")),
		ProfileFiles: files,
		ProfileSize:  formatBytes(size),
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0
	}
	return info.Size()
}

// profileUsage counts the JSON records written by the file profile store.
func profileUsage(dir string) (int, int64) {
	var files int
	var size int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files++
		size += info.Size()
		return nil
	})
	return files, size
}

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

func formatBytes(n int64) string {
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[i])
}
