package session

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// mp3Stream adapts llehouerou/go-mp3 to beep.StreamSeekCloser. It gives
// sample-accurate seeks, which beep's own mp3 package does not.
type mp3Stream struct {
	dec *mp3.Decoder
	buf []byte
	err error
}

// decodeMP3 does not take ownership of r; the caller closes the file.
func decodeMP3(r io.Reader) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, beep.Format{}, err
	}
	rate := dec.SampleRate()
	if rate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2, // decoder output is always stereo
		Precision:   2,
	}
	return &mp3Stream{dec: dec, buf: make([]byte, 8192)}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	// 16-bit stereo: 4 bytes per frame
	need := len(samples) * 4
	if len(s.buf) < need {
		s.buf = make([]byte, need)
	}
	read, err := io.ReadFull(s.dec, s.buf[:need])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}
	frames := read / 4
	if frames == 0 {
		return 0, false
	}
	for i := range frames {
		off := i * 4
		left := int16(binary.LittleEndian.Uint16(s.buf[off:]))    //nolint:gosec // pcm sample
		right := int16(binary.LittleEndian.Uint16(s.buf[off+2:])) //nolint:gosec // pcm sample
		samples[i][0] = float64(left) / 32768
		samples[i][1] = float64(right) / 32768
	}
	return frames, true
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return int(max(s.dec.SampleCount(), 0))
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

func (s *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return errors.Wrapf(err, "mp3 seek to %d", p)
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error { return nil }
