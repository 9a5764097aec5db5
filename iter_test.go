package isodump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// beBytes packs values as consecutive big-endian uint32 fields.
func beBytes(vals ...uint32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		be.PutUint32(buf[i*4:], v)
	}
	return buf
}

func collectStts(it SttsIter) []SttsEntry {
	var out []SttsEntry
	for {
		e, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

func TestSttsIter(t *testing.T) {
	// count, then {sample_count, sample_delta} pairs
	it := NewSttsIter(beBytes(2, 2880, 1024, 1, 512))
	assert.Equal(t, uint32(2), it.Count())
	entries := collectStts(it)
	require.Len(t, entries, 2)
	assert.Equal(t, SttsEntry{SampleCount: 2880, SampleDelta: 1024}, entries[0])
	assert.Equal(t, SttsEntry{SampleCount: 1, SampleDelta: 512}, entries[1])
}

func TestSttsIterTruncated(t *testing.T) {
	// count claims 3 entries, data holds one
	it := NewSttsIter(beBytes(3, 100, 10))
	assert.Equal(t, uint32(3), it.Count())
	assert.Len(t, collectStts(it), 1)

	it = NewSttsIter(nil)
	assert.Equal(t, uint32(0), it.Count())
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestCttsIterSignedOffset(t *testing.T) {
	it := NewCttsIter(beBytes(2, 5, 0xFFFFFFFF, 1, 3000))
	e, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, CttsEntry{SampleCount: 5, Offset: -1}, e)
	e, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, CttsEntry{SampleCount: 1, Offset: 3000}, e)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestStscIter(t *testing.T) {
	it := NewStscIter(beBytes(2, 1, 20, 1, 9, 15, 1))
	e, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, StscEntry{FirstChunk: 1, SamplesPerChunk: 20, SampleDescriptionIndex: 1}, e)
	e, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, StscEntry{FirstChunk: 9, SamplesPerChunk: 15, SampleDescriptionIndex: 1}, e)
}

func TestStszIter(t *testing.T) {
	t.Run("constant size", func(t *testing.T) {
		it := NewStszIter(beBytes(100, 3))
		assert.Equal(t, uint32(100), it.SampleSize())
		assert.Equal(t, uint32(3), it.Count())
		for i := 0; i < 3; i++ {
			size, ok := it.Next()
			require.True(t, ok)
			assert.Equal(t, uint32(100), size)
		}
		_, ok := it.Next()
		assert.False(t, ok)
	})

	t.Run("per-sample sizes", func(t *testing.T) {
		it := NewStszIter(beBytes(0, 2, 10, 20))
		size, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, uint32(10), size)
		size, ok = it.Next()
		require.True(t, ok)
		assert.Equal(t, uint32(20), size)
	})
}

func TestUint32Iter(t *testing.T) {
	it := NewUint32Iter(beBytes(2, 4096, 8192))
	assert.Equal(t, uint32(2), it.Count())
	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, uint32(4096), v)
	v, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, uint32(8192), v)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestCo64Iter(t *testing.T) {
	data := beBytes(1)
	buf := make([]byte, 8)
	be.PutUint64(buf, 1<<40)
	it := NewCo64Iter(append(data, buf...))
	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(1<<40), v)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestElstIterRoundTrip(t *testing.T) {
	t.Run("version 0", func(t *testing.T) {
		want := []ElstEntry{
			{Duration: 900, MediaTime: -1, MediaRate: 1},
			{Duration: 100, MediaTime: 2048, MediaRate: 1},
		}
		w := NewWriter(make([]byte, 128))
		w.WriteElst(want)

		r := NewReader(w.Bytes())
		require.True(t, r.Next())
		assert.Equal(t, uint8(0), r.Version())

		it := NewElstIter(r.Data(), r.Version())
		require.Equal(t, uint32(2), it.Count())
		for _, wantEntry := range want {
			e, ok := it.Next()
			require.True(t, ok)
			assert.Equal(t, wantEntry, e)
		}
	})

	t.Run("version 1 for wide durations", func(t *testing.T) {
		want := []ElstEntry{{Duration: uint64(uint32Max) + 1, MediaTime: 0, MediaRate: 1}}
		w := NewWriter(make([]byte, 128))
		w.WriteElst(want)

		r := NewReader(w.Bytes())
		require.True(t, r.Next())
		assert.Equal(t, uint8(1), r.Version())

		it := NewElstIter(r.Data(), r.Version())
		e, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, want[0], e)
	})
}

func TestTrunIterRoundTrip(t *testing.T) {
	flags := uint32(TrunDataOffsetPresent | TrunSampleDurationPresent |
		TrunSampleSizePresent | TrunSampleCompositionTimeOffsetPresent)
	want := []TrunEntry{
		{Duration: 1024, Size: 100, CTSOffset: 2048},
		{Duration: 1024, Size: 200, CTSOffset: 0},
	}
	w := NewWriter(make([]byte, 128))
	w.WriteTrun(flags, -16, want)

	r := NewReader(w.Bytes())
	require.True(t, r.Next())
	assert.Equal(t, flags, r.Flags())

	it := NewTrunIter(r.Data(), r.Flags())
	assert.Equal(t, uint32(2), it.Count())
	assert.Equal(t, int32(-16), it.DataOffset())
	for _, wantEntry := range want {
		e, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, wantEntry, e)
	}
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestTrunIterFirstSampleFlags(t *testing.T) {
	data := beBytes(1, 0x02000000, 1024) // count, first flags, one duration
	it := NewTrunIter(data, TrunFirstSampleFlagsPresent|TrunSampleDurationPresent)
	assert.Equal(t, uint32(0x02000000), it.FirstSampleFlags())
	e, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, uint32(1024), e.Duration)
}

func TestTrunIterTruncatedHeader(t *testing.T) {
	// Data offset flag set but field missing
	it := NewTrunIter(beBytes(4), TrunDataOffsetPresent)
	assert.Equal(t, uint32(0), it.Count())
	_, ok := it.Next()
	assert.False(t, ok)
}
