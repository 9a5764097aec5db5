package isodump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dumpEntry(t *testing.T, fn func(*trace, []byte), data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	tr := newTrace(&buf)
	fn(tr, data)
	require.NoError(t, tr.flush())
	return buf.String()
}

func TestTrifDump(t *testing.T) {
	// ID 258, tileGroup 1, independent 2, full_picture 1, no dependencies,
	// 1024x768. Exactly 56 bits.
	full := []byte{0x01, 0x02, 0xD0, 0x04, 0x00, 0x03, 0x00}

	t.Run("full picture region", func(t *testing.T) {
		s := dumpEntry(t, trifDump, full)
		assert.Contains(t, s, `ID="258"`)
		assert.Contains(t, s, `tileGroup="1"`)
		assert.Contains(t, s, `independent="2"`)
		assert.Contains(t, s, `full_picture="1"`)
		assert.Contains(t, s, `filter_disabled="0"`)
		assert.Contains(t, s, `w="1024"`)
		assert.Contains(t, s, `h="768"`)
		assert.NotContains(t, s, `x=`)
		assert.NotContains(t, s, "ERROR")
	})

	t.Run("dependency list", func(t *testing.T) {
		// Same region with has_dependency_list set and one tileID.
		s := dumpEntry(t, trifDump, []byte{
			0x01, 0x02, 0xD4, 0x04, 0x00, 0x03, 0x00,
			0x00, 0x01, 0x00, 0x07,
		})
		assert.Contains(t, s, `ID="258"`)
		assert.Contains(t, s, `tileID="7"`)
		assert.Contains(t, s, "</TileRegionGroupEntry>")
		assert.NotContains(t, s, "ERROR")
	})

	t.Run("truncated payload", func(t *testing.T) {
		s := dumpEntry(t, trifDump, full[:6])
		assert.Contains(t, s, "<!--ERROR: Truncated Sample Group Entry-->")
	})

	t.Run("schema placeholder", func(t *testing.T) {
		s := dumpEntry(t, trifDump, nil)
		assert.Contains(t, s, `ID=""`)
		assert.Contains(t, s, `tileID=""`)
		assert.NotContains(t, s, "ERROR")
	})
}

func TestNalmDump(t *testing.T) {
	// rle 0, 8-bit count of 2, group IDs 10 and 20. Exactly 48 bits.
	full := []byte{0x00, 0x02, 0x00, 0x0A, 0x00, 0x14}

	t.Run("explicit map", func(t *testing.T) {
		s := dumpEntry(t, nalmDump, full)
		assert.Contains(t, s, `rle="0"`)
		assert.Contains(t, s, `large_size="0"`)
		assert.Contains(t, s, `groupID="10"`)
		assert.Contains(t, s, `groupID="20"`)
		assert.NotContains(t, s, "NALU_startNumber")
		assert.NotContains(t, s, "ERROR")
	})

	t.Run("run length coded", func(t *testing.T) {
		s := dumpEntry(t, nalmDump, []byte{0x01, 0x01, 0x05, 0x00, 0x0A})
		assert.Contains(t, s, `rle="1"`)
		assert.Contains(t, s, `NALU_startNumber="5"`)
		assert.Contains(t, s, `groupID="10"`)
		assert.NotContains(t, s, "ERROR")
	})

	t.Run("truncated payload", func(t *testing.T) {
		s := dumpEntry(t, nalmDump, full[:5])
		assert.Contains(t, s, "<!--ERROR: Truncated Sample Group Entry-->")
	})

	t.Run("schema placeholder", func(t *testing.T) {
		s := dumpEntry(t, nalmDump, nil)
		assert.Contains(t, s, `NALU_startNumber=""`)
		assert.Contains(t, s, `groupID=""`)
		assert.NotContains(t, s, "ERROR")
	})
}
