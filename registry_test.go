package isodump

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchTable(t *testing.T) {
	n := NumSupportedBoxes()
	require.Greater(t, n, 150)

	// Entry 0 is the internal unknown handler.
	assert.Equal(t, TypeUnkn, SupportedBoxType(0))

	// The table opens with the track reference kinds.
	info := SupportedBoxInfo(1)
	assert.Equal(t, TypeReft, info.Type)
	assert.Equal(t, RefMpod, info.Variant)

	// Every listed type resolves to a renderer.
	for i := 0; i < n; i++ {
		_, ok := renderers[SupportedBoxType(i)]
		assert.True(t, ok, "no renderer for %s", SupportedBoxType(i))
	}
}

func TestRendererResolutionFirstWins(t *testing.T) {
	// sgpd appears once as the primary entry and again per grouping type;
	// repeated registration must not displace the first renderer.
	var count int
	for i := 0; i < NumSupportedBoxes(); i++ {
		if SupportedBoxType(i) == TypeSgpd {
			count++
		}
	}
	assert.Greater(t, count, 1)
	assert.NotNil(t, renderers[TypeSgpd])
}

func TestDumpSupportedBoxAll(t *testing.T) {
	for i := 0; i < NumSupportedBoxes(); i++ {
		var buf bytes.Buffer
		require.NoError(t, DumpSupportedBox(&buf, i), "entry %d (%s)", i, SupportedBoxType(i))
		out := buf.String()
		require.NotEmpty(t, out, "entry %d (%s)", i, SupportedBoxType(i))
		assert.True(t, strings.HasPrefix(out, "<"), "entry %d: %q", i, out)
		assert.True(t, strings.HasSuffix(out, "\n"), "entry %d: %q", i, out)
		// Schema boxes are synthesized without data.
		assert.Contains(t, out, "Size=\"0\"")
		// Variant entries surface their discriminator in the output.
		if v := SupportedBoxInfo(i).Variant; v != (BoxType{}) {
			assert.Contains(t, out, v.String(), "entry %d (%s)", i, SupportedBoxType(i))
		}
	}
}

func TestDumpSupportedBoxSeeding(t *testing.T) {
	find := func(typ BoxType, variant BoxType) int {
		for i := 0; i < NumSupportedBoxes(); i++ {
			info := SupportedBoxInfo(i)
			if info.Type == typ && info.Variant == variant {
				return i
			}
		}
		t.Fatalf("no table entry for %s/%s", typ, variant)
		return -1
	}

	t.Run("version seeds from the table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DumpSupportedBox(&buf, find(TypeMvhd, BoxType{})))
		assert.Contains(t, buf.String(), "Version=\"1\"")
	})

	t.Run("reference kind becomes the wire type", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DumpSupportedBox(&buf, find(TypeReft, RefCdsc)))
		assert.Contains(t, buf.String(), "Type=\"cdsc\"")
	})

	t.Run("grouping type seeds sgpd", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DumpSupportedBox(&buf, find(TypeSgpd, GroupRoll)))
		assert.Contains(t, buf.String(), "grouping_type=\"roll\"")
	})

	t.Run("trun schema shows conditional attributes", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DumpSupportedBox(&buf, find(TypeTrun, BoxType{})))
		out := buf.String()
		assert.Contains(t, out, "<TrackRunBox")
		assert.Contains(t, out, "DataOffset=\"0\"")
		assert.Contains(t, out, "<FirstSampleFlags")
	})
}

func TestDumpSupportedBoxRange(t *testing.T) {
	assert.ErrorIs(t, DumpSupportedBox(io.Discard, -1), ErrBoxIndex)
	assert.ErrorIs(t, DumpSupportedBox(io.Discard, NumSupportedBoxes()), ErrBoxIndex)
}
