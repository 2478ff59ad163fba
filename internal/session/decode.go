package session

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extOPUS = ".opus"
	extM4A  = ".m4a"
	extMP4  = ".mp4"
)

// ErrUnsupportedFormat is returned when no decoder handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported format")

// IsAudioFile reports whether path has an extension the engine can decode.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG, extOPUS, extM4A, extMP4:
		return true
	}
	return false
}

// fileStream closes the decoder and its backing file together.
type fileStream struct {
	beep.StreamSeekCloser
	f *os.File
}

func (s fileStream) Close() error {
	err := s.StreamSeekCloser.Close()
	_ = s.f.Close()
	return err
}

// Decode opens uri (a path or file:// URI) and returns a seekable stream.
func Decode(uri string) (beep.StreamSeekCloser, beep.Format, error) {
	path := strings.TrimPrefix(uri, "file://")
	ext := strings.ToLower(filepath.Ext(path))
	if !IsAudioFile(path) {
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "open audio file")
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case extMP3:
		streamer, format, err = decodeMP3(f)
	case extFLAC:
		streamer, format, err = flac.Decode(f)
	case extWAV:
		streamer, format, err = wav.Decode(f)
	case extOGG:
		if isOpus(f) {
			streamer, format, err = decodeOpus(f)
		} else {
			streamer, format, err = vorbis.Decode(f)
		}
	case extOPUS:
		streamer, format, err = decodeOpus(f)
	case extM4A, extMP4:
		streamer, format, err = decodeM4A(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.Wrapf(err, "decode %s", filepath.Base(path))
	}
	return fileStream{StreamSeekCloser: streamer, f: f}, format, nil
}

// isOpus reports whether the Ogg file r carries Opus rather than Vorbis.
// The identification packet sits in the first page. r is rewound.
func isOpus(r io.ReadSeeker) bool {
	var head [oggHeaderLen + 255 + 8]byte
	n, _ := io.ReadFull(r, head[:])
	_, _ = r.Seek(0, io.SeekStart)
	return bytes.Contains(head[:n], []byte("OpusHead"))
}

// Duration decodes just enough of the file to report its length.
func Duration(path string) (time.Duration, error) {
	streamer, format, err := Decode(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}
