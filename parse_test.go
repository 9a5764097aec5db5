package isodump

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMovie writes an unfragmented file with one AAC track: ftyp, then
// moov > trak > mdia > minf > stbl with the usual sample tables, then a
// small mdat.
func buildMovie() []byte {
	w := NewWriter(make([]byte, 4096))
	w.WriteFtyp([4]byte{'i', 's', 'o', 'm'}, 512, [][4]byte{{'i', 's', 'o', 'm'}, {'m', 'p', '4', '2'}})

	w.StartBox(TypeMoov)
	w.WriteMvhd(1000, 60000, 2)
	w.StartBox(TypeTrak)
	w.WriteTkhd(7, 1, 60000, 0, 0)
	w.StartBox(TypeMdia)
	w.WriteMdhd(48000, 48000*60, 0x55C4) // und
	w.WriteHdlr([4]byte{'s', 'o', 'u', 'n'}, "SoundHandler")
	w.StartBox(TypeMinf)
	w.WriteSmhd()
	w.StartBox(TypeDinf)
	w.WriteDref()
	w.EndBox()
	w.StartBox(TypeStbl)
	w.StartFullBox(TypeStsd, 0, 0)
	w.putUint32(1)
	w.StartBox(TypeMp4a)
	w.WriteAudioSampleEntry(1, 2, 16, 48000<<16)
	w.StartFullBox(TypeEsds, 0, 0)
	w.putBytes(aacDescriptorChain())
	w.EndBox()
	w.EndBox() // mp4a
	w.EndBox() // stsd
	w.WriteStts([]SttsEntry{{SampleCount: 2812, SampleDelta: 1024}})
	w.WriteStsc([]StscEntry{{FirstChunk: 1, SamplesPerChunk: 20, SampleDescriptionIndex: 1}})
	w.WriteStsz(0, []uint32{100, 200, 300})
	w.WriteStco([]uint32{4096, 8192})
	w.EndBox() // stbl
	w.EndBox() // minf
	w.EndBox() // mdia
	w.EndBox() // trak
	w.EndBox() // moov

	w.StartBox(TypeMdat)
	w.putBytes(bytes.Repeat([]byte{0xAB}, 16))
	w.EndBox()
	return w.Bytes()
}

func TestParseMovie(t *testing.T) {
	boxes, err := Parse(buildMovie())
	require.NoError(t, err)
	require.Len(t, boxes, 3)

	ftyp := body[FtypBody](boxes[0])
	assert.Equal(t, TypeFtyp, boxes[0].Type)
	assert.Equal(t, BoxType{'i', 's', 'o', 'm'}, ftyp.MajorBrand)
	assert.Equal(t, uint32(512), ftyp.MinorVersion)
	assert.Len(t, ftyp.Brands, 2)

	moov := body[MoovBody](boxes[1])
	require.NotNil(t, moov.Mvhd)
	mvhd := body[MvhdBody](moov.Mvhd)
	assert.Equal(t, uint32(1000), mvhd.TimeScale)
	assert.Equal(t, uint64(60000), mvhd.Duration)
	assert.Equal(t, uint32(2), mvhd.NextTrackID)

	require.Len(t, moov.Traks, 1)
	trak := body[TrakBody](moov.Traks[0])
	require.NotNil(t, trak.Tkhd)
	assert.Equal(t, uint32(7), trak.Tkhd.Flags)
	assert.Equal(t, uint32(1), body[TkhdBody](trak.Tkhd).TrackID)

	require.NotNil(t, trak.Mdia)
	mdia := body[MdiaBody](trak.Mdia)
	require.NotNil(t, mdia.Mdhd)
	assert.Equal(t, uint32(48000), body[MdhdBody](mdia.Mdhd).TimeScale)
	assert.Equal(t, uint16(0x55C4), body[MdhdBody](mdia.Mdhd).Language)
	require.NotNil(t, mdia.Hdlr)
	hdlr := body[HdlrBody](mdia.Hdlr)
	assert.Equal(t, BoxType{'s', 'o', 'u', 'n'}, hdlr.HandlerType)
	assert.Equal(t, "SoundHandler", hdlr.Name)

	require.NotNil(t, mdia.Minf)
	minf := body[MinfBody](mdia.Minf)
	require.NotNil(t, minf.InfoHeader)
	assert.Equal(t, TypeSmhd, minf.InfoHeader.Type)
	require.NotNil(t, minf.Dinf)
	dref := body[DinfBody](minf.Dinf).Dref
	require.NotNil(t, dref)
	require.Len(t, dref.Other, 1)
	assert.Equal(t, TypeUrl, dref.Other[0].Type)
	assert.Equal(t, uint32(1), dref.Other[0].Flags) // self-contained

	stbl := body[StblBody](minf.Stbl)
	require.NotNil(t, stbl.Stsd)
	require.Len(t, stbl.Stsd.Other, 1)
	entry := stbl.Stsd.Other[0]
	assert.Equal(t, TypeMp4a, entry.Type)
	mp4a := body[Mp4aBody](entry)
	assert.Equal(t, uint16(2), mp4a.Channels)
	assert.Equal(t, uint16(16), mp4a.BitsPerSample)
	assert.Equal(t, uint32(48000), mp4a.SampleRate>>16)
	require.NotNil(t, mp4a.Esd)
	esd, ok := mp4a.Esd.Body.(*EsdsBody)
	require.True(t, ok)
	assert.Equal(t, uint8(0x40), esd.ObjectTypeIndication)

	require.NotNil(t, stbl.Stts)
	assert.Equal(t, []SttsEntry{{SampleCount: 2812, SampleDelta: 1024}}, body[SttsBody](stbl.Stts).Entries)
	require.NotNil(t, stbl.Stsz)
	assert.Equal(t, []uint32{100, 200, 300}, body[StszBody](stbl.Stsz).Sizes)
	require.NotNil(t, stbl.Stco)
	assert.Equal(t, []uint32{4096, 8192}, body[StcoBody](stbl.Stco).Offsets)

	assert.Equal(t, uint64(16), body[MdatBody](boxes[2]).DataSize)
}

func TestParseFragmentedStream(t *testing.T) {
	w := NewWriter(make([]byte, 1024))
	w.WriteStyp([4]byte{'m', 's', 'd', 'h'}, 0, nil)
	w.WriteSidx(1, 90000, 0, 44, []SidxEntry{
		{ReferencedSize: 1000, SubsegDuration: 90000, StartsWithSAP: true, SAPType: 1},
		{ReferenceType: true, ReferencedSize: 500, SubsegDuration: 45000},
	})
	w.StartBox(TypeMoof)
	w.WriteMfhd(4)
	w.StartBox(TypeTraf)
	w.WriteTfhd(TfhdDefaultBaseIsMoof, 1)
	w.WriteTfdt(90000)
	w.WriteTrun(TrunDataOffsetPresent|TrunSampleDurationPresent|TrunSampleSizePresent, 120,
		[]TrunEntry{{Duration: 1024, Size: 100}, {Duration: 1024, Size: 200}})
	w.EndBox()
	w.EndBox()
	w.StartBox(TypeMdat)
	w.putBytes(make([]byte, 300))
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	require.Len(t, boxes, 4)

	sidx := body[SidxBody](boxes[1])
	assert.Equal(t, uint32(1), sidx.ReferenceID)
	assert.Equal(t, uint32(90000), sidx.TimeScale)
	assert.Equal(t, uint64(44), sidx.FirstOffset)
	require.Len(t, sidx.References, 2)
	assert.Equal(t, uint8(0), sidx.References[0].ReferenceType)
	assert.Equal(t, uint32(1000), sidx.References[0].ReferenceSize)
	assert.Equal(t, uint8(1), sidx.References[0].StartsWithSAP)
	assert.Equal(t, uint8(1), sidx.References[0].SAPType)
	assert.Equal(t, uint8(1), sidx.References[1].ReferenceType)
	assert.Equal(t, uint32(500), sidx.References[1].ReferenceSize)

	moof := body[MoofBody](boxes[2])
	require.NotNil(t, moof.Mfhd)
	assert.Equal(t, uint32(4), body[MfhdBody](moof.Mfhd).SequenceNumber)
	require.Len(t, moof.Trafs, 1)

	traf := body[TrafBody](moof.Trafs[0])
	require.NotNil(t, traf.Tfhd)
	assert.Equal(t, uint32(TfhdDefaultBaseIsMoof), traf.Tfhd.Flags)
	assert.Equal(t, uint32(1), body[TfhdBody](traf.Tfhd).TrackID)
	require.NotNil(t, traf.Tfdt)
	assert.Equal(t, uint64(90000), body[TfdtBody](traf.Tfdt).BaseMediaDecodeTime)
	require.Len(t, traf.Truns, 1)

	trun := body[TrunBody](traf.Truns[0])
	assert.Equal(t, uint32(2), trun.SampleCount)
	assert.Equal(t, int32(120), trun.DataOffset)
	require.Len(t, trun.Entries, 2)
	assert.Equal(t, TrunEntry{Duration: 1024, Size: 200}, trun.Entries[1])
}

func TestParseUnknownBox(t *testing.T) {
	buf := append([]byte{0, 0, 0, 16, 'w', 'i', 'd', 'e'}, []byte{1, 2, 3, 4, 5, 6, 7, 8}...)
	boxes, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, TypeUnkn, boxes[0].Type)
	u := body[UnknownBody](boxes[0])
	assert.Equal(t, BoxType{'w', 'i', 'd', 'e'}, u.Original)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, u.Data)
}

func TestParseMalformed(t *testing.T) {
	w := NewWriter(make([]byte, 64))
	w.StartBox(TypeFree)
	w.putBytes(make([]byte, 8))
	w.EndBox()
	buf := append(w.Bytes(), 0, 0, 0, 99, 'j', 'u', 'n', 'k')

	boxes, err := Parse(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 16")
	require.Len(t, boxes, 1)
	assert.Equal(t, TypeFree, boxes[0].Type)

	// A size below the header size is malformed from the first byte.
	_, err = Parse([]byte{0, 0, 0, 4, 'a', 'b', 'c', 'd'})
	assert.Error(t, err)
}

func TestParseTruncatedPayload(t *testing.T) {
	// mvhd with only 4 bytes of payload after version and flags
	buf := []byte{0, 0, 0, 16, 'm', 'v', 'h', 'd', 0, 0, 0, 0, 0, 0, 0, 99}
	boxes, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	mvhd := body[MvhdBody](boxes[0])
	assert.Equal(t, uint64(99), mvhd.CreationTime)
	assert.Zero(t, mvhd.TimeScale)
}

func TestParseGenericSampleEntry(t *testing.T) {
	w := NewWriter(make([]byte, 1024))
	w.StartBox(TypeMoov)
	w.StartBox(TypeTrak)
	w.StartBox(TypeMdia)
	w.WriteHdlr([4]byte{'s', 'o', 'u', 'n'}, "sound")
	w.StartBox(TypeMinf)
	w.StartBox(TypeStbl)
	w.StartFullBox(TypeStsd, 0, 0)
	w.putUint32(1)
	w.StartBox(BoxType{'l', 'p', 'c', 'm'}) // not a known coding type
	w.WriteAudioSampleEntry(1, 2, 16, 44100<<16)
	w.EndBox()
	w.EndBox() // stsd
	w.EndBox() // stbl
	w.EndBox() // minf
	w.EndBox() // mdia
	w.EndBox() // trak
	w.EndBox() // moov

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	trak := body[TrakBody](body[MoovBody](boxes[0]).Traks[0])
	stbl := body[StblBody](body[MinfBody](body[MdiaBody](trak.Mdia).Minf).Stbl)
	require.Len(t, stbl.Stsd.Other, 1)

	entry := stbl.Stsd.Other[0]
	assert.Equal(t, TypeGnra, entry.Type)
	gnra := body[GnraBody](entry)
	assert.Equal(t, BoxType{'l', 'p', 'c', 'm'}, gnra.EntryType)
	assert.Equal(t, uint16(1), gnra.DataReferenceIndex)
	assert.Equal(t, uint16(2), gnra.ChannelCount)
}

func TestParseProtectionContext(t *testing.T) {
	kid := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	w := NewWriter(make([]byte, 512))
	w.StartFullBox(TypeTenc, 0, 0)
	w.putUint8(0) // reserved
	w.putUint8(0)
	w.putUint8(1)  // default_isProtected
	w.putUint8(16) // default_Per_Sample_IV_Size
	w.putBytes(kid[:])
	w.EndBox()
	w.StartFullBox(TypeSenc, 0, 0)
	w.putUint32(1)
	iv := bytes.Repeat([]byte{0x5A}, 16)
	w.putBytes(iv)
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	tenc := body[TencBody](boxes[0])
	assert.Equal(t, uint32(1), tenc.IsProtected)
	assert.Equal(t, uint8(16), tenc.PerSampleIVSize)
	assert.Equal(t, kid, [16]byte(tenc.KID))

	// senc picks up the tenc IV size
	senc := body[SencBody](boxes[1])
	require.Len(t, senc.Samples, 1)
	assert.Equal(t, iv, senc.Samples[0].IV[:])
}

func TestParseSencDefaults(t *testing.T) {
	// Without a preceding tenc the IV size falls back to 8.
	w := NewWriter(make([]byte, 256))
	w.StartFullBox(TypeSenc, 0, 2) // subsamples present
	w.putUint32(1)
	w.putBytes(bytes.Repeat([]byte{0x11}, 8))
	w.putUint16(2) // subsample count
	w.putUint16(10)
	w.putUint32(90)
	w.putUint16(5)
	w.putUint32(45)
	w.EndBox()

	boxes, err := Parse(w.Bytes())
	require.NoError(t, err)
	senc := body[SencBody](boxes[0])
	require.Len(t, senc.Samples, 1)
	s := senc.Samples[0]
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 8), s.IV[:8])
	assert.Equal(t, [8]byte{}, [8]byte(s.IV[8:]))
	require.Len(t, s.Subsamples, 2)
	assert.Equal(t, SencSubsample{ClearBytes: 10, EncryptedBytes: 90}, s.Subsamples[0])
	assert.Equal(t, SencSubsample{ClearBytes: 5, EncryptedBytes: 45}, s.Subsamples[1])
}

func TestParseStream(t *testing.T) {
	data := buildMovie()
	boxes, err := ParseStream(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	assert.Equal(t, TypeFtyp, boxes[0].Type)
	assert.Equal(t, TypeMoov, boxes[1].Type)

	// mdat stays unread; only its size is recorded.
	assert.Equal(t, TypeMdat, boxes[2].Type)
	assert.Equal(t, uint64(16), body[MdatBody](boxes[2]).DataSize)

	// The streamed tree matches the in-memory parse.
	direct, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, body[MoovBody](direct[1]).Traks[0].Size, body[MoovBody](boxes[1]).Traks[0].Size)
}

func TestParseStreamTruncated(t *testing.T) {
	data := buildMovie()
	// Cut the stream inside the moov payload.
	_, err := ParseStream(bytes.NewReader(data[:40]))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "movie.mp4")
	require.NoError(t, os.WriteFile(name, buildMovie(), 0o644))

	boxes, err := ParseFile(name)
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	assert.Equal(t, TypeMoov, boxes[1].Type)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
}
