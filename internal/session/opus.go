package session

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/jj11hh/opus"
)

const (
	opusSampleRate = 48000
	// opusMaxFrame is the longest Opus frame, 120 ms at 48 kHz.
	opusMaxFrame = 5760
	// opusPreRoll is decoded and dropped before a seek target so the decoder
	// has converged.
	opusPreRoll = 3840
)

// opusStream decodes an Ogg Opus file.
type opusStream struct {
	ogg      *oggReader
	dec      *opus.Decoder
	channels int
	preSkip  int64
	length   int
	pos      int
	drop     int64 // decoded samples still to discard
	buf      []float32
	pcm      []float32
	err      error
}

// decodeOpus does not take ownership of r; the caller closes the file.
func decodeOpus(r io.ReadSeeker) (beep.StreamSeekCloser, beep.Format, error) {
	ogg := newOggReader(r)
	head, err := ogg.Packet()
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "opus header")
	}
	if len(head) < 19 || !bytes.HasPrefix(head, []byte("OpusHead")) {
		return nil, beep.Format{}, errors.Wrap(ErrUnsupportedFormat, "not an Opus stream")
	}
	channels := int(head[9])
	if channels < 1 || channels > 2 {
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "opus with %d channels", channels)
	}
	// comment header
	if _, err := ogg.Packet(); err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "opus tags")
	}
	if err := ogg.MarkStart(); err != nil {
		return nil, beep.Format{}, err
	}
	last, err := ogg.LastGranule()
	if err != nil {
		return nil, beep.Format{}, err
	}

	dec, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "opus decoder")
	}
	preSkip := int64(binary.LittleEndian.Uint16(head[10:12]))
	s := &opusStream{
		ogg:      ogg,
		dec:      dec,
		channels: channels,
		preSkip:  preSkip,
		length:   int(max(last-preSkip, 0)),
		drop:     preSkip,
		buf:      make([]float32, opusMaxFrame*channels),
	}
	format := beep.Format{
		SampleRate:  opusSampleRate,
		NumChannels: 2, // mono is duplicated
		Precision:   2,
	}
	return s, format, nil
}

func (s *opusStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if len(s.pcm) > 0 {
			left := float64(s.pcm[0])
			right := left
			if s.channels == 2 {
				right = float64(s.pcm[1])
			}
			s.pcm = s.pcm[s.channels:]
			if s.drop > 0 {
				s.drop--
				continue
			}
			samples[n] = [2]float64{left, right}
			n++
			s.pos++
			continue
		}
		pkt, err := s.ogg.Packet()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.err = err
			}
			return n, n > 0
		}
		frames, err := s.dec.DecodeFloat32(pkt, s.buf)
		if err != nil {
			// a corrupt packet is skipped; the decoder conceals it
			continue
		}
		s.pcm = s.buf[:frames*s.channels]
	}
	return n, true
}

func (s *opusStream) Err() error { return s.err }

func (s *opusStream) Len() int { return s.length }

func (s *opusStream) Position() int { return s.pos }

func (s *opusStream) Seek(p int) error {
	p = min(max(p, 0), s.length)
	target := int64(p) + s.preSkip
	start, err := s.ogg.SeekGranule(max(target-opusPreRoll, 0))
	if err != nil {
		return err
	}
	s.pcm = nil
	s.drop = target - start
	s.pos = p
	s.err = nil
	return nil
}

func (s *opusStream) Close() error { return nil }
