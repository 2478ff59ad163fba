package session

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage builds one Ogg page holding packets. A packet whose length is a
// multiple of 255 is left open and continues on the next page.
func oggPage(flags byte, granule int64, packets ...[]byte) []byte {
	var segs, body []byte
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			segs = append(segs, 255)
			n -= 255
		}
		if len(p)%255 != 0 || len(p) == 0 {
			segs = append(segs, byte(n))
		}
		body = append(body, p...)
	}
	page := make([]byte, oggHeaderLen, oggHeaderLen+len(segs)+len(body))
	copy(page, "OggS")
	page[5] = flags
	binary.LittleEndian.PutUint64(page[6:14], uint64(granule)) //nolint:gosec // test data
	page[26] = byte(len(segs))
	page = append(page, segs...)
	return append(page, body...)
}

func opusHead(channels byte, preSkip uint16) []byte {
	head := make([]byte, 19)
	copy(head, "OpusHead")
	head[8] = 1
	head[9] = channels
	binary.LittleEndian.PutUint16(head[10:12], preSkip)
	binary.LittleEndian.PutUint32(head[12:16], 44100)
	return head
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.mp3", true},
		{"a.FLAC", true},
		{"a.wav", true},
		{"a.ogg", true},
		{"a.opus", true},
		{"a.m4a", true},
		{"a.mp4", true},
		{"cover.jpg", false},
		{"notes", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAudioFile(tt.path))
		})
	}
}

func TestIsOpus(t *testing.T) {
	opusFile := bytes.NewReader(oggPage(0x02, 0, opusHead(2, 312)))
	vorbisFile := bytes.NewReader(oggPage(0x02, 0, append([]byte{0x01}, "vorbis"...)))

	assert.True(t, isOpus(opusFile))
	assert.False(t, isOpus(vorbisFile))

	pos, err := opusFile.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos, "sniffing rewinds")
}

func TestOggReader_PacketsAcrossPages(t *testing.T) {
	long := bytes.Repeat([]byte{7}, 255)
	var file []byte
	file = append(file, oggPage(0x02, 0, []byte("first"))...)
	file = append(file, oggPage(0, -1, long)...)
	file = append(file, oggPage(oggFlagContinued, 100, []byte("tail"), []byte("next"))...)

	r := newOggReader(bytes.NewReader(file))

	p, err := r.Packet()
	require.NoError(t, err)
	assert.Equal(t, "first", string(p))

	p, err = r.Packet()
	require.NoError(t, err)
	assert.Equal(t, append(bytes.Clone(long), "tail"...), p)

	p, err = r.Packet()
	require.NoError(t, err)
	assert.Equal(t, "next", string(p))

	_, err = r.Packet()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOggReader_BadCapturePattern(t *testing.T) {
	page := oggPage(0, 0, []byte("x"))
	copy(page, "Nope")

	_, err := newOggReader(bytes.NewReader(page)).Packet()

	assert.ErrorIs(t, err, errOggCapture)
}

func TestOggReader_GranuleSeeking(t *testing.T) {
	var file []byte
	file = append(file, oggPage(0x02, 0, []byte("head"))...)
	file = append(file, oggPage(0, 1000, []byte("p1"))...)
	file = append(file, oggPage(0, 2000, []byte("p2"))...)
	file = append(file, oggPage(0, 3000, []byte("p3"))...)

	r := newOggReader(bytes.NewReader(file))
	_, err := r.Packet()
	require.NoError(t, err)
	require.NoError(t, r.MarkStart())

	last, err := r.LastGranule()
	require.NoError(t, err)
	assert.Equal(t, int64(3000), last)

	p, err := r.Packet()
	require.NoError(t, err)
	assert.Equal(t, "p1", string(p), "LastGranule restores the read position")

	start, err := r.SeekGranule(2500)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), start)
	p, err = r.Packet()
	require.NoError(t, err)
	assert.Equal(t, "p3", string(p))

	start, err = r.SeekGranule(0)
	require.NoError(t, err)
	assert.Zero(t, start)
	p, err = r.Packet()
	require.NoError(t, err)
	assert.Equal(t, "p1", string(p))
}

func TestDecodeOpus_HeaderOnly(t *testing.T) {
	var file []byte
	file = append(file, oggPage(0x02, 0, opusHead(2, 312))...)
	file = append(file, oggPage(0, 0, []byte("OpusTags"))...)

	s, format, err := decodeOpus(bytes.NewReader(file))
	require.NoError(t, err)

	assert.Equal(t, 48000, int(format.SampleRate))
	assert.Equal(t, 2, format.NumChannels)
	assert.Zero(t, s.Len())
	n, ok := s.Stream(make([][2]float64, 16))
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.NoError(t, s.Err())
}

func TestDecodeOpus_Rejects(t *testing.T) {
	tests := []struct {
		name string
		head []byte
	}{
		{"vorbis stream", append([]byte{0x01}, "vorbis-identification"...)},
		{"surround", opusHead(6, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := append(oggPage(0x02, 0, tt.head), oggPage(0, 0, []byte("tags"))...)

			_, _, err := decodeOpus(bytes.NewReader(file))

			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestDecode_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("hello"))

	_, _, err := Decode(path)

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_CorruptContainers(t *testing.T) {
	for _, name := range []string{"broken.m4a", "broken.opus"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, []byte("definitely not audio"))

			_, _, err := Decode("file://" + path)

			assert.Error(t, err)
		})
	}
}

func TestPCMFrames(t *testing.T) {
	t.Run("int16 mono duplicates", func(t *testing.T) {
		frames := int16Frames([]int16{16384, -32768}, 1)
		assert.Equal(t, [][2]float64{{0.5, 0.5}, {-1, -1}}, frames)
	})
	t.Run("int16 little-endian stereo", func(t *testing.T) {
		frames := int16LEFrames([]byte{0x00, 0x40, 0x00, 0xC0}, 2)
		assert.Equal(t, [][2]float64{{0.5, -0.5}}, frames)
	})
	t.Run("int24 sign extension", func(t *testing.T) {
		frames := int24Frames([]byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0}, 2)
		assert.Equal(t, [][2]float64{{0.5, -0.5}}, frames)
	})
	t.Run("no channels", func(t *testing.T) {
		assert.Nil(t, int16Frames([]int16{1, 2}, 0))
	})
}
