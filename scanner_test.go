package isodump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner(t *testing.T) {
	data := buildMovie()
	sc := NewScanner(bytes.NewReader(data))

	var entries []ScanEntry
	for sc.Next() {
		entries = append(entries, sc.Entry())
	}
	require.NoError(t, sc.Err())
	require.Len(t, entries, 3)

	assert.Equal(t, TypeFtyp, entries[0].Type)
	assert.Equal(t, int64(0), entries[0].Offset)
	assert.Equal(t, int64(24), entries[0].Size)
	assert.Equal(t, 8, entries[0].HeaderSize)
	assert.Equal(t, int64(16), entries[0].DataSize())

	assert.Equal(t, TypeMoov, entries[1].Type)
	assert.Equal(t, int64(24), entries[1].Offset)

	assert.Equal(t, TypeMdat, entries[2].Type)
	assert.Equal(t, entries[1].Offset+entries[1].Size, entries[2].Offset)
	assert.Equal(t, int64(len(data)), entries[2].Offset+entries[2].Size)
}

func TestScannerReadBody(t *testing.T) {
	data := buildMovie()
	sc := NewScanner(bytes.NewReader(data))

	require.True(t, sc.Next()) // ftyp
	e := sc.Entry()
	got := make([]byte, e.DataSize())
	require.NoError(t, sc.ReadBody(got))
	assert.Equal(t, data[8:24], got)

	full := make([]byte, e.Size)
	require.NoError(t, sc.ReadBox(full))
	assert.Equal(t, data[:24], full)

	// Reads restore the position; iteration continues unharmed.
	require.True(t, sc.Next())
	assert.Equal(t, TypeMoov, sc.Entry().Type)
	require.True(t, sc.Next())
	assert.Equal(t, TypeMdat, sc.Entry().Type)
	assert.False(t, sc.Next())
	assert.NoError(t, sc.Err())
}

func TestScannerLargeSize(t *testing.T) {
	buf := make([]byte, 0, 40)
	buf = append(buf, 0, 0, 0, 1)
	buf = append(buf, 'm', 'd', 'a', 't')
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 40)
	buf = append(buf, make([]byte, 24)...)

	sc := NewScanner(bytes.NewReader(buf))
	require.True(t, sc.Next())
	e := sc.Entry()
	assert.Equal(t, int64(40), e.Size)
	assert.Equal(t, 16, e.HeaderSize)
	assert.Equal(t, int64(24), e.DataSize())
	assert.False(t, sc.Next())
}

func TestScannerSizeZero(t *testing.T) {
	w := NewWriter(make([]byte, 64))
	w.WriteFtyp([4]byte{'i', 's', 'o', 'm'}, 0, nil)
	buf := append(w.Bytes(), 0, 0, 0, 0, 'm', 'd', 'a', 't')
	buf = append(buf, make([]byte, 100)...)

	sc := NewScanner(bytes.NewReader(buf))
	require.True(t, sc.Next())
	require.True(t, sc.Next())
	e := sc.Entry()
	assert.Equal(t, TypeMdat, e.Type)
	assert.Equal(t, int64(108), e.Size)
	assert.False(t, sc.Next())
	assert.NoError(t, sc.Err())
}

func TestScannerEmpty(t *testing.T) {
	sc := NewScanner(bytes.NewReader(nil))
	assert.False(t, sc.Next())
	assert.NoError(t, sc.Err())
}

func TestScannerBadSize(t *testing.T) {
	w := NewWriter(make([]byte, 64))
	w.WriteFtyp([4]byte{'i', 's', 'o', 'm'}, 0, nil)
	// Declared size smaller than the header it was read from.
	buf := append(w.Bytes(), 0, 0, 0, 4, 'f', 'r', 'e', 'e')

	sc := NewScanner(bytes.NewReader(buf))
	require.True(t, sc.Next())
	assert.Equal(t, TypeFtyp, sc.Entry().Type)
	assert.False(t, sc.Next())
	require.Error(t, sc.Err())
	assert.Contains(t, sc.Err().Error(), "offset 16")
}
