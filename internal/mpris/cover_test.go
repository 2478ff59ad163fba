//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("fake"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindAlbumArt(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"cover", []string{"cover.jpg", "track.mp3"}, "cover.jpg"},
		{"not found", []string{"track.mp3", "notes.txt"}, ""},
		{"case insensitive", []string{"Folder.PNG"}, "Folder.PNG"},
		{"cover before folder", []string{"folder.jpg", "cover.png"}, "cover.png"},
		{"jpg before png", []string{"front.png", "front.jpg"}, "front.jpg"},
		{"other image ignored", []string{"scan.jpg", "album.jpeg"}, "album.jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)

			got := FindAlbumArt(filepath.Join(dir, "track.mp3"))

			want := ""
			if tt.want != "" {
				want = filepath.Join(dir, tt.want)
			}
			if got != want {
				t.Errorf("FindAlbumArt() = %q, want %q", got, want)
			}
		})
	}
}

func TestFindAlbumArt_MissingDir(t *testing.T) {
	if got := FindAlbumArt("/nonexistent/dir/track.mp3"); got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty", got)
	}
}
