package isodump

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderWalk(t *testing.T) {
	w := NewWriter(make([]byte, 512))
	w.WriteFtyp([4]byte{'i', 's', 'o', 'm'}, 512, [][4]byte{{'i', 's', 'o', 'm'}, {'a', 'v', 'c', '1'}})
	w.StartBox(TypeMoov)
	w.WriteMvhd(1000, 60000, 2)
	w.EndBox()

	r := NewReader(w.Bytes())

	require.True(t, r.Next())
	assert.Equal(t, TypeFtyp, r.Type())
	assert.Equal(t, uint64(24), r.Size())
	assert.Equal(t, 0, r.Offset())
	assert.Equal(t, 8, r.HeaderSize())
	assert.Len(t, r.Data(), 16)
	assert.Len(t, r.RawBox(), 24)
	assert.Equal(t, 0, r.Depth())

	require.True(t, r.Next())
	assert.Equal(t, TypeMoov, r.Type())
	assert.Equal(t, 24, r.Offset())

	r.Enter()
	assert.Equal(t, 1, r.Depth())
	require.True(t, r.Next())
	assert.Equal(t, TypeMvhd, r.Type())
	// Full box: version and flags are consumed by the header
	assert.Equal(t, uint8(0), r.Version())
	assert.Equal(t, uint32(0), r.Flags())
	assert.Equal(t, 12, r.HeaderSize())
	assert.False(t, r.Next())
	r.Exit()

	assert.Equal(t, 0, r.Depth())
	assert.False(t, r.Next())
}

func TestReaderLargeSize(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	buf := make([]byte, 0, 24)
	buf = append(buf, 0, 0, 0, 1) // size == 1 selects the 64-bit field
	buf = append(buf, 'm', 'd', 'a', 't')
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 24)
	buf = append(buf, payload...)

	r := NewReader(buf)
	require.True(t, r.Next())
	assert.Equal(t, TypeMdat, r.Type())
	assert.Equal(t, uint64(24), r.Size())
	assert.Equal(t, 16, r.HeaderSize())
	assert.Equal(t, payload, r.Data())
}

func TestReaderSizeZeroExtendsToEnd(t *testing.T) {
	buf := append([]byte{0, 0, 0, 0, 'f', 'r', 'e', 'e'}, make([]byte, 32)...)
	r := NewReader(buf)
	require.True(t, r.Next())
	assert.Equal(t, TypeFree, r.Type())
	assert.Equal(t, uint64(40), r.Size())
	assert.Len(t, r.Data(), 32)
	assert.False(t, r.Next())
}

func TestReaderUserType(t *testing.T) {
	ext := uuid.MustParse("8974dbce-7be7-4c51-84f9-7148f9882554")
	w := NewWriter(make([]byte, 64))
	w.StartUUIDBox(ext)
	w.putBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	w.EndBox()

	r := NewReader(w.Bytes())
	require.True(t, r.Next())
	assert.Equal(t, TypeUUID, r.Type())
	assert.Equal(t, ext, r.UserType())
	assert.Equal(t, 24, r.HeaderSize())
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, r.Data())

	// UserType resets on ordinary boxes.
	r = NewReader([]byte{0, 0, 0, 8, 'f', 'r', 'e', 'e'})
	require.True(t, r.Next())
	assert.Equal(t, uuid.UUID{}, r.UserType())
}

func TestReaderMalformed(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"short header", []byte{0, 0, 0, 8, 'f', 'r'}},
		{"size overruns buffer", []byte{0, 0, 0, 99, 'f', 'r', 'e', 'e'}},
		{"size below header size", []byte{0, 0, 0, 4, 'a', 'b', 'c', 'd'}},
		{"large size below header size", append([]byte{0, 0, 0, 1, 'm', 'd', 'a', 't'}, 0, 0, 0, 0, 0, 0, 0, 8)},
		{"full box too short for version", []byte{0, 0, 0, 10, 'm', 'v', 'h', 'd', 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.buf)
			assert.False(t, r.Next())
		})
	}
}

func TestReaderEntryCountSkip(t *testing.T) {
	w := NewWriter(make([]byte, 256))
	w.StartFullBox(TypeDref, 0, 0)
	w.putUint32(2)
	w.StartFullBox(TypeUrl, 0, 1)
	w.EndBox()
	w.StartFullBox(TypeUrl, 0, 1)
	w.EndBox()
	w.EndBox()

	r := NewReader(w.Bytes())
	require.True(t, r.Next())
	assert.Equal(t, uint32(2), r.EntryCount())

	r.Enter()
	r.Skip(4)
	var kids int
	for r.Next() {
		assert.Equal(t, TypeUrl, r.Type())
		assert.Equal(t, uint32(1), r.Flags())
		kids++
	}
	r.Exit()
	assert.Equal(t, 2, kids)
}

func TestWriterNesting(t *testing.T) {
	w := NewWriter(make([]byte, 256))
	w.StartBox(TypeMoov)
	w.StartBox(TypeTrak)
	w.EndBox()
	w.EndBox()

	// Sizes backpatch from the inside out.
	buf := w.Bytes()
	require.Equal(t, 16, len(buf))
	assert.Equal(t, uint32(16), be.Uint32(buf[0:]))
	assert.Equal(t, uint32(8), be.Uint32(buf[8:]))

	w.Reset()
	assert.Equal(t, 0, w.Len())
}
