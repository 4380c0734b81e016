package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-pull-condenser/internal/util"
)

// FightFileExt is the extension of fight table files.
const FightFileExt = ".json"

// FileScanner finds fight table files under a directory
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// IsFightFile reports whether path names a fight table file.
func IsFightFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.ToLower(base), FightFileExt) && !strings.HasPrefix(base, ".")
}

// Scan walks the directory and returns every fight table file, sorted by path.
// Unreadable entries are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug("start scanning directory", util.F("dir", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug("skip path", util.F("path", path), util.F("error", err.Error()))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if IsFightFile(path) {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)

	util.LogDebug("file scan completed",
		util.F("duration", time.Since(start).String()),
		util.F("dirs", dirCount),
		util.F("files", totalCount),
		util.F("fight_files", len(files)),
	)

	return files, err
}

// Expand turns a mix of files and directories into a list of fight table files.
// Files named explicitly are kept whatever their extension.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := NewFileScanner(p).Scan()
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
