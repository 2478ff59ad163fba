package session

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	faad2 "github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// alacFrameSize is the ALAC default frames per packet.
const alacFrameSize = 4096

// m4aStream decodes the samples of an MP4 container with AAC or ALAC.
type m4aStream struct {
	box      *m4a.Reader
	codec    m4a.CodecType
	rate     int
	channels int
	bits     int
	length   int
	next     int // index of the next container sample
	err      error

	aac  *faad2.Decoder
	alac *alac.Alac

	pcm    [][2]float64
	pcmPos int
}

// decodeM4A does not take ownership of r; the caller closes the file.
func decodeM4A(r io.ReadSeeker) (beep.StreamSeekCloser, beep.Format, error) {
	box, err := m4a.Open(r)
	if err != nil {
		return nil, beep.Format{}, err
	}
	rate := int(box.SampleRate())
	if rate == 0 {
		return nil, beep.Format{}, errors.New("m4a: invalid sample rate")
	}

	s := &m4aStream{
		box:      box,
		codec:    box.Codec(),
		rate:     rate,
		channels: int(box.Channels()),
		bits:     int(box.SampleSize()),
		length:   int(box.Duration().Seconds() * float64(rate)),
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2, // mono is duplicated
		Precision:   2,
	}

	switch s.codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, errors.Wrap(err, "aac decoder")
		}
		if err := dec.Init(ctx, box.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, errors.Wrap(err, "aac decoder config")
		}
		s.aac = dec
	case m4a.CodecALAC:
		if s.bits == 24 {
			format.Precision = 3
		}
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  rate,
			SampleSize:  s.bits,
			NumChannels: s.channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, errors.Wrap(err, "alac decoder")
		}
		s.alac = dec
	default:
		return nil, beep.Format{}, errors.Wrap(ErrUnsupportedFormat, "m4a codec")
	}
	return s, format, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if s.pcmPos < len(s.pcm) {
			c := copy(samples[n:], s.pcm[s.pcmPos:])
			n += c
			s.pcmPos += c
			continue
		}
		if s.next >= s.box.SampleCount() {
			return n, n > 0
		}
		data, err := s.box.ReadSample(s.next)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.next++
		if err := s.decode(data); err != nil {
			s.err = err
			return n, n > 0
		}
	}
	return n, true
}

// decode turns one container sample into buffered stereo frames.
func (s *m4aStream) decode(data []byte) error {
	s.pcmPos = 0
	if s.aac != nil {
		pcm, err := s.aac.Decode(context.Background(), data)
		if err != nil {
			return err
		}
		s.pcm = int16Frames(pcm, s.channels)
		return nil
	}
	raw := s.alac.Decode(data)
	if s.bits == 24 {
		s.pcm = int24Frames(raw, s.channels)
	} else {
		s.pcm = int16LEFrames(raw, s.channels)
	}
	return nil
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.length }

func (s *m4aStream) Position() int {
	return int(s.box.SampleTime(s.next).Seconds() * float64(s.rate))
}

func (s *m4aStream) Seek(p int) error {
	p = min(max(p, 0), s.length)
	pos := time.Duration(float64(p) / float64(s.rate) * float64(time.Second))
	s.next = s.box.SeekToTime(pos)
	s.pcm = nil
	s.pcmPos = 0
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return nil
}

// int16Frames converts interleaved 16-bit samples to stereo frames.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		left := float64(pcm[i*channels]) / 32768
		right := left
		if channels > 1 {
			right = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

// int16LEFrames converts little-endian 16-bit PCM bytes to stereo frames.
func int16LEFrames(data []byte, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}
	stride := 2 * channels
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		off := i * stride
		left := float64(int16(uint16(data[off])|uint16(data[off+1])<<8)) / 32768 //nolint:gosec // pcm sample
		right := left
		if channels > 1 {
			right = float64(int16(uint16(data[off+2])|uint16(data[off+3])<<8)) / 32768 //nolint:gosec // pcm sample
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

// int24Frames converts little-endian 24-bit PCM bytes to stereo frames.
func int24Frames(data []byte, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}
	stride := 3 * channels
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		off := i * stride
		left := float64(int24(data[off:])) / (1 << 23)
		right := left
		if channels > 1 {
			right = float64(int24(data[off+3:])) / (1 << 23)
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

func int24(b []byte) int32 {
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	return v
}
