package isodump

import (
	"encoding/binary"
	"math"
)

var be = binary.BigEndian

const uint32Max = math.MaxUint32

// SttsIter iterates over time-to-sample entries in an stts box.
type SttsIter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewSttsIter creates an iterator from stts box data.
func NewSttsIter(data []byte) SttsIter {
	if len(data) < 4 {
		return SttsIter{}
	}
	return SttsIter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *SttsIter) Count() uint32 { return it.count }

// Next returns the next entry. Returns false when done.
func (it *SttsIter) Next() (SttsEntry, bool) {
	if it.index >= it.count {
		return SttsEntry{}, false
	}
	offset := 4 + int(it.index)*8
	if offset+8 > len(it.buf) {
		return SttsEntry{}, false
	}
	e := SttsEntry{
		SampleCount: be.Uint32(it.buf[offset:]),
		SampleDelta: be.Uint32(it.buf[offset+4:]),
	}
	it.index++
	return e, true
}

// CttsIter iterates over composition offset entries in a ctts box.
type CttsIter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewCttsIter creates an iterator from ctts box data. Offsets are stored
// raw; version 1 readers reinterpret them as signed.
func NewCttsIter(data []byte) CttsIter {
	if len(data) < 4 {
		return CttsIter{}
	}
	return CttsIter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *CttsIter) Count() uint32 { return it.count }

// Next returns the next entry. Returns false when done.
func (it *CttsIter) Next() (CttsEntry, bool) {
	if it.index >= it.count {
		return CttsEntry{}, false
	}
	offset := 4 + int(it.index)*8
	if offset+8 > len(it.buf) {
		return CttsEntry{}, false
	}
	e := CttsEntry{
		SampleCount: be.Uint32(it.buf[offset:]),
		Offset:      int32(be.Uint32(it.buf[offset+4:])),
	}
	it.index++
	return e, true
}

// StscIter iterates over sample-to-chunk entries in an stsc box.
type StscIter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewStscIter creates an iterator from stsc box data.
func NewStscIter(data []byte) StscIter {
	if len(data) < 4 {
		return StscIter{}
	}
	return StscIter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *StscIter) Count() uint32 { return it.count }

// Next returns the next entry. Returns false when done.
func (it *StscIter) Next() (StscEntry, bool) {
	if it.index >= it.count {
		return StscEntry{}, false
	}
	offset := 4 + int(it.index)*12
	if offset+12 > len(it.buf) {
		return StscEntry{}, false
	}
	e := StscEntry{
		FirstChunk:             be.Uint32(it.buf[offset:]),
		SamplesPerChunk:        be.Uint32(it.buf[offset+4:]),
		SampleDescriptionIndex: be.Uint32(it.buf[offset+8:]),
	}
	it.index++
	return e, true
}

// StszIter iterates over sample sizes in an stsz box.
type StszIter struct {
	buf        []byte
	sampleSize uint32
	count      uint32
	index      uint32
}

// NewStszIter creates an iterator from stsz box data.
func NewStszIter(data []byte) StszIter {
	if len(data) < 8 {
		return StszIter{}
	}
	return StszIter{
		buf:        data,
		sampleSize: be.Uint32(data[0:4]),
		count:      be.Uint32(data[4:8]),
	}
}

// SampleSize returns the constant sample size, or 0 when sizes vary.
func (it *StszIter) SampleSize() uint32 { return it.sampleSize }

// Count returns the total number of samples.
func (it *StszIter) Count() uint32 { return it.count }

// Next returns the next sample size. Returns (0, false) when done.
func (it *StszIter) Next() (uint32, bool) {
	if it.index >= it.count {
		return 0, false
	}
	var size uint32
	if it.sampleSize != 0 {
		size = it.sampleSize
	} else {
		offset := 8 + int(it.index)*4
		if offset+4 > len(it.buf) {
			return 0, false
		}
		size = be.Uint32(it.buf[offset:])
	}
	it.index++
	return size, true
}

// Co64Iter iterates over uint64 chunk offsets in a co64 box.
type Co64Iter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewCo64Iter creates an iterator from co64 box data.
func NewCo64Iter(data []byte) Co64Iter {
	if len(data) < 4 {
		return Co64Iter{}
	}
	return Co64Iter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *Co64Iter) Count() uint32 { return it.count }

// Next returns the next chunk offset. Returns (0, false) when done.
func (it *Co64Iter) Next() (uint64, bool) {
	if it.index >= it.count {
		return 0, false
	}
	offset := 4 + int(it.index)*8
	if offset+8 > len(it.buf) {
		return 0, false
	}
	v := be.Uint64(it.buf[offset:])
	it.index++
	return v, true
}

// Uint32Iter iterates over uint32 entries (stco, stss).
type Uint32Iter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewUint32Iter creates an iterator from box data containing a count + uint32 entries.
func NewUint32Iter(data []byte) Uint32Iter {
	if len(data) < 4 {
		return Uint32Iter{}
	}
	return Uint32Iter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *Uint32Iter) Count() uint32 { return it.count }

// Next returns the next entry. Returns (0, false) when done.
func (it *Uint32Iter) Next() (uint32, bool) {
	if it.index >= it.count {
		return 0, false
	}
	offset := 4 + int(it.index)*4
	if offset+4 > len(it.buf) {
		return 0, false
	}
	v := be.Uint32(it.buf[offset:])
	it.index++
	return v, true
}

// ElstIter iterates over edit list entries in an elst box. The fractional
// part of the media rate is discarded.
type ElstIter struct {
	buf     []byte
	count   uint32
	index   uint32
	version uint8
}

// NewElstIter creates an iterator from elst box data with the given version.
func NewElstIter(data []byte, version uint8) ElstIter {
	if len(data) < 4 {
		return ElstIter{}
	}
	return ElstIter{
		buf:     data,
		count:   be.Uint32(data[0:4]),
		version: version,
	}
}

// Count returns the total number of entries.
func (it *ElstIter) Count() uint32 { return it.count }

// Next returns the next entry. Returns false when done.
func (it *ElstIter) Next() (ElstEntry, bool) {
	if it.index >= it.count {
		return ElstEntry{}, false
	}
	var e ElstEntry
	if it.version == 1 {
		stride := 20
		offset := 4 + int(it.index)*stride
		if offset+stride > len(it.buf) {
			return ElstEntry{}, false
		}
		e.Duration = be.Uint64(it.buf[offset:])
		e.MediaTime = int64(be.Uint64(it.buf[offset+8:]))
		e.MediaRate = be.Uint16(it.buf[offset+16:])
	} else {
		stride := 12
		offset := 4 + int(it.index)*stride
		if offset+stride > len(it.buf) {
			return ElstEntry{}, false
		}
		e.Duration = uint64(be.Uint32(it.buf[offset:]))
		e.MediaTime = int64(int32(be.Uint32(it.buf[offset+4:])))
		e.MediaRate = be.Uint16(it.buf[offset+8:])
	}
	it.index++
	return e, true
}

// Trun flags.
const (
	TrunDataOffsetPresent                  = 0x000001
	TrunFirstSampleFlagsPresent            = 0x000004
	TrunSampleDurationPresent              = 0x000100
	TrunSampleSizePresent                  = 0x000200
	TrunSampleFlagsPresent                 = 0x000400
	TrunSampleCompositionTimeOffsetPresent = 0x000800
)

// Tfhd flags (Track Fragment Header Box).
const (
	TfhdBaseDataOffsetPresent         = 0x000001
	TfhdSampleDescriptionIndexPresent = 0x000002
	TfhdDefaultSampleDurationPresent  = 0x000008
	TfhdDefaultSampleSizePresent      = 0x000010
	TfhdDefaultSampleFlagsPresent     = 0x000020
	TfhdDurationIsEmpty               = 0x010000
	TfhdDefaultBaseIsMoof             = 0x020000
)

// TrunIter iterates over trun sample entries.
type TrunIter struct {
	buf              []byte
	flags            uint32
	count            uint32
	index            uint32
	dataOffset       int32
	firstSampleFlags uint32
	stride           int
	entriesStart     int
}

// NewTrunIter creates an iterator from trun box data with the given flags.
func NewTrunIter(data []byte, flags uint32) TrunIter {
	if len(data) < 4 {
		return TrunIter{}
	}
	it := TrunIter{
		buf:   data,
		flags: flags,
		count: be.Uint32(data[0:4]),
	}
	ptr := 4
	if flags&TrunDataOffsetPresent != 0 {
		if ptr+4 > len(data) {
			return TrunIter{}
		}
		it.dataOffset = int32(be.Uint32(data[ptr:]))
		ptr += 4
	}
	if flags&TrunFirstSampleFlagsPresent != 0 {
		if ptr+4 > len(data) {
			return TrunIter{}
		}
		it.firstSampleFlags = be.Uint32(data[ptr:])
		ptr += 4
	}
	it.entriesStart = ptr

	if flags&TrunSampleDurationPresent != 0 {
		it.stride += 4
	}
	if flags&TrunSampleSizePresent != 0 {
		it.stride += 4
	}
	if flags&TrunSampleFlagsPresent != 0 {
		it.stride += 4
	}
	if flags&TrunSampleCompositionTimeOffsetPresent != 0 {
		it.stride += 4
	}
	return it
}

// Count returns the total number of samples.
func (it *TrunIter) Count() uint32 { return it.count }

// DataOffset returns the trun data offset.
func (it *TrunIter) DataOffset() int32 { return it.dataOffset }

// FirstSampleFlags returns the first sample flags, if present.
func (it *TrunIter) FirstSampleFlags() uint32 { return it.firstSampleFlags }

// Next returns the next sample entry. Returns false when done.
func (it *TrunIter) Next() (TrunEntry, bool) {
	if it.index >= it.count {
		return TrunEntry{}, false
	}
	offset := it.entriesStart + int(it.index)*it.stride
	if offset+it.stride > len(it.buf) {
		return TrunEntry{}, false
	}
	var e TrunEntry
	p := offset
	if it.flags&TrunSampleDurationPresent != 0 {
		e.Duration = be.Uint32(it.buf[p:])
		p += 4
	}
	if it.flags&TrunSampleSizePresent != 0 {
		e.Size = be.Uint32(it.buf[p:])
		p += 4
	}
	if it.flags&TrunSampleFlagsPresent != 0 {
		e.Flags = be.Uint32(it.buf[p:])
		p += 4
	}
	if it.flags&TrunSampleCompositionTimeOffsetPresent != 0 {
		e.CTSOffset = be.Uint32(it.buf[p:])
	}
	it.index++
	return e, true
}
