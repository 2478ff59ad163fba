// Package library turns a music folder into playable tracks.
package library

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tideline/internal/playlist"
	"github.com/llehouerou/tideline/internal/session"
)

const defaultWorkers = 8

// Progress reports how far a scan has come.
type Progress struct {
	Current     int
	Total       int
	CurrentFile string
}

// Option configures Scan.
type Option func(*scanner)

func WithLogger(l zerolog.Logger) Option {
	return func(s *scanner) { s.log = l }
}

func WithWorkers(n int) Option {
	return func(s *scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithProgress installs a callback invoked after each file is processed.
// It is called from a single goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(s *scanner) { s.progress = fn }
}

type scanner struct {
	log      zerolog.Logger
	workers  int
	progress func(Progress)
}

// Scan walks root and returns every decodable audio file as a track, sorted
// by artist, album, track number and path. Files that cannot be decoded are
// skipped.
func Scan(ctx context.Context, root string, opts ...Option) ([]playlist.Track, error) {
	s := scanner{log: zerolog.Nop(), workers: defaultWorkers}
	for _, opt := range opts {
		opt(&s)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", root)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.Wrap(err, "library folder")
	}

	paths, err := discoverFiles(ctx, abs)
	if err != nil {
		return nil, err
	}
	tracks := s.processFiles(ctx, paths)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(tracks, compareTracks)
	s.log.Info().Str("folder", abs).Int("tracks", len(tracks)).Int("files", len(paths)).Msg("library scanned")
	return tracks, nil
}

// discoverFiles walks root and returns the audio files found.
func discoverFiles(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Skip any walk errors - intentionally continuing to scan other paths
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() || !session.IsAudioFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk library folder")
	}
	return files, nil
}

// processFiles reads every file on a pool of workers.
func (s scanner) processFiles(ctx context.Context, paths []string) []playlist.Track {
	total := len(paths)
	var processed atomic.Int64

	workCh := make(chan string)
	resultCh := make(chan playlist.Track, s.workers)

	var wg sync.WaitGroup
	for range s.workers {
		wg.Go(func() {
			for path := range workCh {
				t, err := ReadTrack(path)
				processed.Add(1)
				if err != nil {
					s.log.Debug().Err(err).Str("path", path).Msg("skipping file")
					continue
				}
				resultCh <- t
			}
		})
	}

	go func() {
		defer close(workCh)
		for _, p := range paths {
			select {
			case workCh <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	tracks := make([]playlist.Track, 0, total)
	for t := range resultCh {
		tracks = append(tracks, t)
		if s.progress != nil {
			s.progress(Progress{Current: int(processed.Load()), Total: total, CurrentFile: t.Path})
		}
	}
	return tracks
}

// ReadTrack builds a track from the file at path. Missing tags fall back to
// the file name; a file that cannot be decoded is an error.
func ReadTrack(path string) (playlist.Track, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return playlist.Track{}, err
	}
	d, err := session.Duration(abs)
	if err != nil {
		return playlist.Track{}, err
	}

	t := playlist.Track{
		ID:       TrackID(abs),
		Path:     abs,
		Duration: d,
	}
	if m, err := readTags(abs); err == nil {
		t.Title = strings.TrimSpace(m.Title())
		t.Artist = strings.TrimSpace(cmp.Or(m.Artist(), m.AlbumArtist()))
		t.Album = strings.TrimSpace(m.Album())
		t.TrackNumber, _ = m.Track()
	}
	if t.Title == "" {
		t.Title = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return t, nil
}

func readTags(path string) (tag.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tag.ReadFrom(f)
}

// TrackID derives a stable identity from an absolute path.
func TrackID(absPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+absPath)).String()
}

func compareTracks(a, b playlist.Track) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(a.Artist), strings.ToLower(b.Artist)),
		strings.Compare(strings.ToLower(a.Album), strings.ToLower(b.Album)),
		cmp.Compare(a.TrackNumber, b.TrackNumber),
		strings.Compare(a.Path, b.Path),
	)
}
