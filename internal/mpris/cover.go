//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

// coverNames lists common album art base names in priority order.
var coverNames = []string{"cover", "folder", "album", "front"}

var coverExts = []string{".jpg", ".jpeg", ".png"}

// FindAlbumArt looks for album art next to the track, ignoring case.
// Returns the path to the art file, or empty string if not found.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	best, bestRank := "", len(coverNames)*len(coverExts)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if r := coverRank(e.Name()); r < bestRank {
			best, bestRank = e.Name(), r
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(dir, best)
}

// coverRank orders art files by name first, then extension; non-art files
// rank last.
func coverRank(name string) int {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	base := strings.TrimSuffix(lower, ext)
	for i, n := range coverNames {
		if n != base {
			continue
		}
		for j, x := range coverExts {
			if x == ext {
				return i*len(coverExts) + j
			}
		}
	}
	return len(coverNames) * len(coverExts)
}
