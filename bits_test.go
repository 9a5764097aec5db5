package isodump

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitReader(t *testing.T) {
	t.Run("msb first within a byte", func(t *testing.T) {
		r := bitReader{data: []byte{0xB3}} // 1011 0011
		assert.Equal(t, uint32(1), r.bits(1))
		assert.Equal(t, uint32(0x3), r.bits(3))
		assert.Equal(t, uint32(0x3), r.bits(4))
		assert.True(t, r.ok())
	})

	t.Run("fields spanning byte boundaries", func(t *testing.T) {
		r := bitReader{data: []byte{0xFF, 0x00, 0xAA}}
		assert.Equal(t, uint32(0xF), r.bits(4))
		assert.Equal(t, uint32(0xF0), r.bits(8))
		assert.Equal(t, uint32(0x0AA), r.bits(12))
		assert.True(t, r.ok())
	})

	t.Run("u16", func(t *testing.T) {
		r := bitReader{data: []byte{0x12, 0x34}}
		assert.Equal(t, uint16(0x1234), r.u16())
		assert.True(t, r.ok())
	})

	t.Run("overrun latches short", func(t *testing.T) {
		r := bitReader{data: []byte{0xFF}}
		assert.Equal(t, uint32(0x3F), r.bits(6))
		assert.Equal(t, uint32(0), r.bits(4)) // only 2 bits left
		assert.False(t, r.ok())
		// Everything after the overrun reads zero.
		assert.Equal(t, uint32(0), r.bits(1))
	})

	t.Run("empty data", func(t *testing.T) {
		r := bitReader{}
		assert.Equal(t, uint32(0), r.bits(1))
		assert.False(t, r.ok())
	})
}
