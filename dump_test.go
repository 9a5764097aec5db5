package isodump

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dumpString(t *testing.T, name string, boxes []*Box) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, name, boxes))
	return buf.String()
}

func TestDumpMovie(t *testing.T) {
	boxes, err := Parse(buildMovie())
	require.NoError(t, err)
	out := dumpString(t, "movie.mp4", boxes)

	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!--MP4Box dump trace-->\n"))
	assert.Contains(t, out, "<IsoMediaFile xmlns=\"urn:mpeg:isobmff:schema:file:2016\" Name=\"movie.mp4\">")
	assert.True(t, strings.HasSuffix(out, "</IsoMediaFile>\n"))

	for _, want := range []string{
		"<FileTypeBox", "MajorBrand=\"isom\"",
		"<MovieBox", "<MovieHeaderBox", "TimeScale=\"1000\"",
		"<TrackBox", "<TrackHeaderBox", "TrackID=\"1\"",
		"<MediaBox", "<HandlerBox", "hdlrType=\"soun\"", "Name=\"SoundHandler\"",
		"<MPEGAudioSampleDescriptionBox", "SampleRate=\"48000\"",
		"<TimeToSampleBox", "<SampleSizeBox", "<ChunkOffsetBox",
		"<MediaDataBox", "dataSize=\"16\"",
	} {
		assert.Contains(t, out, want)
	}

	// Every opened container closes.
	for _, name := range []string{"IsoMediaFile", "MovieBox", "TrackBox", "MediaBox", "MediaInformationBox"} {
		opens := strings.Count(out, "<"+name)
		closes := strings.Count(out, "</"+name+">")
		assert.Equal(t, opens, closes, "unbalanced %s", name)
	}

	// No diagnostics on a clean file.
	assert.NotContains(t, out, "<!--ERROR")
}

func TestDumpTopLevelDiagnostics(t *testing.T) {
	out := dumpString(t, "bad.mp4", []*Box{
		nil,
		{Type: TypeMvhd, Size: 12, Body: &MvhdBody{}},
	})
	assert.Contains(t, out, "<!--ERROR: NULL Box Found-->")
	assert.Contains(t, out, "<!--ERROR: Invalid Top-level Box Found (\"mvhd\")-->")
	// The offending box still dumps after the diagnostic.
	assert.Contains(t, out, "<MovieHeaderBox")
}

func TestDumpMissingMandatoryChild(t *testing.T) {
	w := NewWriter(make([]byte, 256))
	w.StartBox(TypeMoov)
	w.StartBox(TypeTrak)
	w.StartBox(TypeMdia)
	w.StartBox(TypeMinf)
	w.StartBox(TypeStbl)
	w.WriteStco(nil)
	w.EndBox()
	w.EndBox()
	w.EndBox()
	w.EndBox()
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	out := dumpString(t, "gaps.mp4", boxes)
	assert.Contains(t, out, "<!--ERROR: NULL Box Found, expecting stsd -->")
	assert.Contains(t, out, "<!--ERROR: NULL Box Found, expecting stts -->")
	assert.Contains(t, out, "<ChunkOffsetBox")
}

func TestDumpUnknownBox(t *testing.T) {
	buf := append([]byte{0, 0, 0, 12, 'w', 'i', 'd', 'e'}, 0, 0, 0, 0)
	boxes, err := Parse(buf)
	require.NoError(t, err)
	out := dumpString(t, "u.mp4", boxes)
	assert.Contains(t, out, "<UnknownBox Size=\"12\" Type=\"wide\">")
	assert.Contains(t, out, "</UnknownBox>")
}

func TestDumpUnregisteredType(t *testing.T) {
	// Hand-built tree with a type the dispatch table does not know. The
	// node reports inline and its siblings still render.
	boxes := []*Box{
		{Type: TypeFtyp, Size: 16, Body: &FtypBody{MajorBrand: BoxType{'i', 's', 'o', 'm'}}},
		{Type: BoxType{'z', 'z', 'z', 'z'}, Size: 8},
		{Type: TypeFree, Size: 8, Body: &FreeBody{}},
	}
	out := dumpString(t, "odd.mp4", boxes)
	assert.Contains(t, out, "<!--ERROR: Unregistered Box Found (\"zzzz\")-->")
	assert.Contains(t, out, "<FileTypeBox")
	assert.Contains(t, out, "<FreeSpaceBox")
}

func TestDumpEscapesAttributes(t *testing.T) {
	w := NewWriter(make([]byte, 256))
	w.StartBox(TypeMoov)
	w.StartBox(TypeTrak)
	w.StartBox(TypeMdia)
	w.WriteHdlr([4]byte{'v', 'i', 'd', 'e'}, "a<b>&\"c'")
	w.EndBox()
	w.EndBox()
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	out := dumpString(t, "esc.mp4", boxes)
	assert.Contains(t, out, "Name=\"a&lt;b&gt;&amp;&quot;c&apos;\"")
}

func TestDumpLargeSize(t *testing.T) {
	b := &Box{Type: TypeMdat, Size: 5 << 30, Body: &MdatBody{DataSize: 5<<30 - 8}}
	out := dumpString(t, "big.mp4", []*Box{b})
	assert.Contains(t, out, "LargeSize=\"5368709120\"")
	assert.NotContains(t, out, " Size=\"")
}

func TestDumpUUIDIdentity(t *testing.T) {
	w := NewWriter(make([]byte, 64))
	w.StartUUIDBox(UUIDTfxd)
	w.putUint32(1 << 24) // version 1, no flags
	w.putUint64(90000)   // fragment absolute time
	w.putUint64(180000)  // fragment duration
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	out := dumpString(t, "piff.mp4", boxes)
	assert.Contains(t, out, "UUID=\"{6D1D9B05-42D544E6-80E2141D-AFF757B2}\"")
	assert.Contains(t, out, "AbsoluteTime=\"90000\"")
	assert.Contains(t, out, "FragmentDuration=\"180000\"")
}

func TestDumpUUIDWithoutDedicatedLayout(t *testing.T) {
	// tfrf is in the published extension catalog but carries no dedicated
	// layout, so it dumps as a raw uuid box.
	w := NewWriter(make([]byte, 64))
	w.StartUUIDBox(UUIDTfrf)
	w.putBytes([]byte{0, 0, 0, 0, 1})
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	out := dumpString(t, "live.mp4", boxes)
	assert.Contains(t, out, "<UnknownUUIDBox")
	assert.Contains(t, out, "UUID=\"{D4807EF2-CA394695-8E5426CB-9E46A79F}\"")
	assert.NotContains(t, out, "<!--ERROR")
}

func TestDumpSampleGroups(t *testing.T) {
	w := NewWriter(make([]byte, 512))
	w.StartBox(TypeMoov)
	w.StartBox(TypeTrak)
	w.StartBox(TypeMdia)
	w.StartBox(TypeMinf)
	w.StartBox(TypeStbl)
	w.WriteSgpdRoll([]int16{-2})
	w.WriteSbgp(GroupRoll, []SbgpEntry{{SampleCount: 30, GroupDescriptionIndex: 1}})
	w.EndBox()
	w.EndBox()
	w.EndBox()
	w.EndBox()
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	out := dumpString(t, "groups.mp4", boxes)
	assert.Contains(t, out, `grouping_type="roll"`)
	assert.Contains(t, out, `default_length="2"`)
	assert.Contains(t, out, `<RollRecoveryEntry roll_distance="-2"/>`)
	assert.Contains(t, out, `<SampleGroupBoxEntry sample_count="30" group_description_index="1"/>`)
}

func TestDumpItemProperties(t *testing.T) {
	w := NewWriter(make([]byte, 512))
	w.StartFullBox(TypeMeta, 0, 0)
	w.StartBox(TypeIprp)
	w.StartBox(TypeIpco)
	w.StartFullBox(TypeIspe, 0, 0)
	w.putUint32(1280)
	w.putUint32(720)
	w.EndBox()
	w.StartBox(TypeColr)
	w.putBytes([]byte("nclx"))
	w.putUint16(9)  // BT.2020 primaries
	w.putUint16(16) // PQ transfer
	w.putUint16(9)
	w.putUint8(0x80) // full range
	w.EndBox()
	w.StartBox(TypeIrot)
	w.putUint8(3)
	w.EndBox()
	w.StartFullBox(TypePixi, 0, 0)
	w.putUint8(3)
	w.putBytes([]byte{10, 10, 10})
	w.EndBox()
	w.StartFullBox(TypeRloc, 0, 0)
	w.putUint32(64)
	w.putUint32(32)
	w.EndBox()
	w.EndBox() // ipco
	w.StartFullBox(TypeIpma, 0, 0)
	w.putUint32(1)
	w.putUint16(7)   // item 7, version 0
	w.putUint8(2)    // two associations
	w.putUint8(0x81) // essential, property 1
	w.putUint8(0x02) // property 2
	w.EndBox()
	w.EndBox() // iprp
	w.EndBox() // meta

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	out := dumpString(t, "image.heic", boxes)

	for _, want := range []string{
		"<ItemPropertiesBox",
		"<ItemPropertyContainerBox",
		`image_width="1280" image_height="720"`,
		`colour_type="nclx" colour_primaries="9" transfer_characteristics="16" matrix_coefficients="9" full_range_flag="1"`,
		`<ImageRotationBox Size="9" Type="irot" Version="0" Flags="0x0" angle="270">`,
		`num_channels="3" bits_per_channel="10, 10, 10"`,
		`horizontal_offset="64" vertical_offset="32"`,
		`entry_count="1"`,
		`<AssociationEntry item_ID="7" association_count="2">`,
		`<Property index="1" essential="1"/>`,
		`<Property index="2" essential="0"/>`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "<!--ERROR")
}

func TestDumpIdempotent(t *testing.T) {
	boxes, err := Parse(buildMovie())
	require.NoError(t, err)
	first := dumpString(t, "movie.mp4", boxes)
	second := dumpString(t, "movie.mp4", boxes)
	assert.Equal(t, first, second)
}

func TestDumpReferenceIdentity(t *testing.T) {
	b := &Box{Type: TypeReft, Size: 16, Body: &TrackRefBody{Kind: RefCdsc, TrackIDs: []uint32{2, 3}}}

	var buf bytes.Buffer
	tr := newTrace(&buf)
	dumpBox(tr, b)
	require.NoError(t, tr.flush())

	// The reference kind shows as the displayed type; the node keeps its
	// wire identity.
	assert.Contains(t, buf.String(), `<TrackReferenceTypeBox Size="16" Type="cdsc" Tracks=" 2 3">`)
	assert.Equal(t, TypeReft, b.Type)

	// A zero kind means the entry is not rendered at all.
	b.Body = &TrackRefBody{}
	buf.Reset()
	tr = newTrace(&buf)
	dumpBox(tr, b)
	require.NoError(t, tr.flush())
	assert.Empty(t, buf.String())
	assert.Equal(t, TypeReft, b.Type)
}

func TestDumpPlaceholderParity(t *testing.T) {
	render := func(b *Box) string {
		var buf bytes.Buffer
		tr := newTrace(&buf)
		dumpBox(tr, b)
		require.NoError(t, tr.flush())
		return buf.String()
	}

	filled := render(&Box{Type: TypeStts, Size: 32, Body: &SttsBody{Entries: []SttsEntry{
		{SampleDelta: 1024, SampleCount: 10},
		{SampleDelta: 512, SampleCount: 2},
	}}})
	assert.Equal(t, 2, strings.Count(filled, "<TimeToSampleEntry"))
	assert.Contains(t, filled, `SampleDelta="1024"`)
	assert.NotContains(t, filled, `SampleDelta=""`)

	// Size zero renders the schema form: one empty row, same element and
	// attribute names.
	schema := render(&Box{Type: TypeStts, Size: 0})
	assert.Equal(t, 1, strings.Count(schema, "<TimeToSampleEntry"))
	assert.Contains(t, schema, `<TimeToSampleEntry SampleDelta="" SampleCount=""/>`)
}

func TestDumpSlotOrder(t *testing.T) {
	stbl := &Box{Type: TypeStbl, Size: 108, Body: &StblBody{
		Stsd: &Box{Type: TypeStsd, Size: 16},
		Stts: &Box{Type: TypeStts, Size: 0},
		Stsc: &Box{Type: TypeStsc, Size: 28, Body: &StscBody{Entries: []StscEntry{
			{FirstChunk: 1, SamplesPerChunk: 4, SampleDescriptionIndex: 1},
		}}},
		Stsz: &Box{Type: TypeStsz, Size: 20, Body: &StszBody{SampleCount: 4, SampleSize: 100}},
		Stco: &Box{Type: TypeStco, Size: 20, Body: &StcoBody{Offsets: []uint32{48}}},
	}, Other: []*Box{
		{Type: TypeFree, Size: 8, Body: &FreeBody{}},
	}}

	var buf bytes.Buffer
	tr := newTrace(&buf)
	dumpBox(tr, stbl)
	require.NoError(t, tr.flush())
	out := buf.String()

	// Named slots in declaration order, the size-zero slot as a placeholder,
	// then the unclaimed child, then the container close.
	marks := []string{
		"<SampleDescriptionBox",
		`<TimeToSampleEntry SampleDelta="" SampleCount=""/>`,
		"<SampleToChunkBox",
		"<SampleSizeBox",
		"<ChunkOffsetBox",
		"<FreeSpaceBox",
		"</SampleTableBox>",
	}
	last := -1
	for _, m := range marks {
		i := strings.Index(out, m)
		require.GreaterOrEqual(t, i, 0, "missing %q in:\n%s", m, out)
		assert.Greater(t, i, last, "%q out of order in:\n%s", m, out)
		last = i
	}
	assert.NotContains(t, out, "NULL Box")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

func TestDumpWriterError(t *testing.T) {
	err := Dump(failWriter{}, "x.mp4", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink closed")
}
