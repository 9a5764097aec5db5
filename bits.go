package isodump

// bitReader reads MSB-first bit fields out of a sample group entry payload.
// Reads never touch memory past the end of data: once a read would overrun,
// the cursor goes short and every further read returns zero.
type bitReader struct {
	data  []byte
	pos   int // absolute bit position
	short bool
}

func (r *bitReader) bits(n uint) uint32 {
	if r.short || r.pos+int(n) > len(r.data)*8 {
		r.short = true
		return 0
	}
	var v uint32
	for i := uint(0); i < n; i++ {
		v = v<<1 | uint32(r.data[r.pos>>3]>>(7-uint(r.pos)&7)&1)
		r.pos++
	}
	return v
}

func (r *bitReader) u16() uint16 {
	return uint16(r.bits(16))
}

// ok reports whether every read so far stayed within the data.
func (r *bitReader) ok() bool {
	return !r.short
}
