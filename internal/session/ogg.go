package session

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

const (
	oggHeaderLen     = 27
	oggFlagContinued = 0x01
)

var errOggCapture = errors.New("ogg: invalid capture pattern")

type oggPageHeader struct {
	flags    byte
	granule  int64
	segments []byte
}

func (h oggPageHeader) bodyLen() int64 {
	var n int64
	for _, s := range h.segments {
		n += int64(s)
	}
	return n
}

func readOggPageHeader(r io.Reader) (oggPageHeader, error) {
	var buf [oggHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return oggPageHeader{}, err
	}
	if !bytes.Equal(buf[:4], []byte("OggS")) {
		return oggPageHeader{}, errOggCapture
	}
	if buf[4] != 0 {
		return oggPageHeader{}, errors.Newf("ogg: unsupported version %d", buf[4])
	}
	h := oggPageHeader{
		flags:    buf[5],
		granule:  int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // granule is signed on the wire
		segments: make([]byte, buf[26]),
	}
	if _, err := io.ReadFull(r, h.segments); err != nil {
		return oggPageHeader{}, err
	}
	return h, nil
}

// oggReader splits a single logical Ogg stream into packets.
type oggReader struct {
	r       io.ReadSeeker
	start   int64 // offset of the first audio page
	page    oggPageHeader
	body    []byte
	seg     int // next segment of the current page
	off     int // byte offset of that segment in body
	partial []byte
	skipCon bool // drop the continued packet at the next page start
}

func newOggReader(r io.ReadSeeker) *oggReader {
	return &oggReader{r: r}
}

// nextPage loads the following page.
func (o *oggReader) nextPage() error {
	h, err := readOggPageHeader(o.r)
	if err != nil {
		return err
	}
	body := make([]byte, h.bodyLen())
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}
	o.page, o.body, o.seg, o.off = h, body, 0, 0
	if o.skipCon && h.flags&oggFlagContinued == 0 {
		o.skipCon = false
	}
	return nil
}

// Packet returns the next complete packet, reading pages as needed.
func (o *oggReader) Packet() ([]byte, error) {
	for {
		if o.seg >= len(o.page.segments) {
			if err := o.nextPage(); err != nil {
				return nil, err
			}
			continue
		}
		size := int(o.page.segments[o.seg])
		o.partial = append(o.partial, o.body[o.off:o.off+size]...)
		o.seg++
		o.off += size
		if size == 255 {
			continue
		}
		pkt := o.partial
		o.partial = nil
		if o.skipCon {
			o.skipCon = false
			continue
		}
		return pkt, nil
	}
}

// MarkStart records the current position as the first audio page. Call it
// once the header packets have been read.
func (o *oggReader) MarkStart() error {
	pos, err := o.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	o.start = pos
	return nil
}

// LastGranule walks the page headers from the audio start and returns the
// granule position of the last page. The read position is restored.
func (o *oggReader) LastGranule() (int64, error) {
	back, err := o.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	defer func() { _, _ = o.r.Seek(back, io.SeekStart) }()

	if _, err := o.r.Seek(o.start, io.SeekStart); err != nil {
		return 0, err
	}
	var last int64
	for {
		h, err := readOggPageHeader(o.r)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return last, nil
		}
		if err != nil {
			return 0, err
		}
		if h.granule >= 0 {
			last = h.granule
		}
		if _, err := o.r.Seek(h.bodyLen(), io.SeekCurrent); err != nil {
			return 0, err
		}
	}
}

// SeekGranule positions the reader on the last audio page starting at or
// before granule, and returns the granule position at that page's start.
func (o *oggReader) SeekGranule(granule int64) (int64, error) {
	if _, err := o.r.Seek(o.start, io.SeekStart); err != nil {
		return 0, err
	}
	var (
		pageAt  = o.start
		startAt int64
		prev    int64
	)
	for {
		at, err := o.r.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		h, err := readOggPageHeader(o.r)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if prev > granule {
			break
		}
		pageAt, startAt = at, prev
		if h.granule >= 0 {
			prev = h.granule
		}
		if _, err := o.r.Seek(h.bodyLen(), io.SeekCurrent); err != nil {
			return 0, err
		}
	}
	if _, err := o.r.Seek(pageAt, io.SeekStart); err != nil {
		return 0, err
	}
	o.page, o.body, o.seg, o.off = oggPageHeader{}, nil, 0, 0
	o.partial = nil
	o.skipCon = true
	return startAt, nil
}
