package library

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tideline/internal/playlist"
)

var testFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// writeWAV writes d of silence to dir/name and returns its path.
func writeWAV(t *testing.T, dir, name string, d time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, wav.Encode(f, beep.Silence(testFormat.SampleRate.N(d)), testFormat))
	return path
}

func TestReadTrack_FallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir, "01 Intro.wav", 2*time.Second)

	tr, err := ReadTrack(path)

	require.NoError(t, err)
	assert.Equal(t, "01 Intro", tr.Title)
	assert.Equal(t, path, tr.Path)
	assert.Equal(t, TrackID(path), tr.ID)
	assert.InDelta(t, (2 * time.Second).Seconds(), tr.Duration.Seconds(), 0.01)
}

func TestReadTrack_Undecodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.flac")
	require.NoError(t, os.WriteFile(path, []byte("definitely not flac"), 0o600))

	_, err := ReadTrack(path)

	assert.Error(t, err)
}

func TestTrackID_Stable(t *testing.T) {
	a := TrackID("/music/a.flac")

	assert.Equal(t, a, TrackID("/music/a.flac"))
	assert.NotEqual(t, a, TrackID("/music/b.flac"))
	assert.Len(t, a, 36)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "b/2.wav", time.Second)
	writeWAV(t, dir, "a/1.wav", time.Second)
	writeWAV(t, dir, "b/1.wav", time.Second)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "broken.flac"), []byte("nope"), 0o600))

	var calls atomic.Int32
	var last Progress
	tracks, err := Scan(context.Background(), dir, WithWorkers(2), WithProgress(func(p Progress) {
		calls.Add(1)
		last = p
	}))

	require.NoError(t, err)
	var rel []string
	for _, tr := range tracks {
		r, err := filepath.Rel(dir, tr.Path)
		require.NoError(t, err)
		rel = append(rel, r)
	}
	assert.Equal(t, []string{"a/1.wav", "b/1.wav", "b/2.wav"}, rel)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 4, last.Total)
}

func TestScan_MissingFolder(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}

func TestScan_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "a.wav", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, dir)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareTracks(t *testing.T) {
	tracks := []playlist.Track{
		{Path: "/a", Artist: "alpha", Album: "Y", TrackNumber: 1},
		{Path: "/b", Artist: "Alpha", Album: "y", TrackNumber: 2},
		{Path: "/c", Artist: "Alpha", Album: "y", TrackNumber: 2},
		{Path: "/z", Artist: "beta", Album: "x", TrackNumber: 1},
	}

	for i := range tracks {
		for j := range tracks {
			got := compareTracks(tracks[i], tracks[j])
			switch {
			case i < j:
				assert.Negative(t, got, "%d vs %d", i, j)
			case i > j:
				assert.Positive(t, got, "%d vs %d", i, j)
			}
		}
	}
}
