// Package isodump implements decoding of ISO Base Media File Format (ISOBMFF)
// boxes and an XML trace dump of the resulting box tree, in the style of the
// MPEG file-format reference traces.
package isodump

import "github.com/google/uuid"

// BoxType is a 4-byte box type identifier.
type BoxType [4]byte

// String renders the type as four characters, substituting '.' for bytes
// outside the printable ASCII range.
func (t BoxType) String() string {
	var s [4]byte
	for i, c := range t {
		if c >= 0x20 && c <= 0x7e {
			s[i] = c
		} else {
			s[i] = '.'
		}
	}
	return string(s[:])
}

// makeBoxType converts a big-endian numeric code to a box type.
func makeBoxType(v uint32) BoxType {
	return BoxType{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// Known box types.
var (
	TypeFtyp = BoxType{'f', 't', 'y', 'p'}
	TypeStyp = BoxType{'s', 't', 'y', 'p'} // Segment type box (used in fragmented MP4)
	TypeMoov = BoxType{'m', 'o', 'o', 'v'}
	TypeMvhd = BoxType{'m', 'v', 'h', 'd'}
	TypeIods = BoxType{'i', 'o', 'd', 's'}
	TypeTrak = BoxType{'t', 'r', 'a', 'k'}
	TypeTkhd = BoxType{'t', 'k', 'h', 'd'}
	TypeTref = BoxType{'t', 'r', 'e', 'f'}
	TypeTrgr = BoxType{'t', 'r', 'g', 'r'}
	TypeEdts = BoxType{'e', 'd', 't', 's'}
	TypeElst = BoxType{'e', 'l', 's', 't'}
	TypeMdia = BoxType{'m', 'd', 'i', 'a'}
	TypeMdhd = BoxType{'m', 'd', 'h', 'd'}
	TypeHdlr = BoxType{'h', 'd', 'l', 'r'}
	TypeElng = BoxType{'e', 'l', 'n', 'g'}
	TypeMinf = BoxType{'m', 'i', 'n', 'f'}
	TypeVmhd = BoxType{'v', 'm', 'h', 'd'}
	TypeSmhd = BoxType{'s', 'm', 'h', 'd'}
	TypeHmhd = BoxType{'h', 'm', 'h', 'd'}
	TypeSthd = BoxType{'s', 't', 'h', 'd'}
	TypeNmhd = BoxType{'n', 'm', 'h', 'd'}
	TypeOdhd = BoxType{'o', 'd', 'h', 'd'}
	TypeCrhd = BoxType{'c', 'r', 'h', 'd'}
	TypeSdhd = BoxType{'s', 'd', 'h', 'd'}
	TypeDinf = BoxType{'d', 'i', 'n', 'f'}
	TypeDref = BoxType{'d', 'r', 'e', 'f'}
	TypeUrl  = BoxType{'u', 'r', 'l', ' '}
	TypeUrn  = BoxType{'u', 'r', 'n', ' '}
	TypeStbl = BoxType{'s', 't', 'b', 'l'}
	TypeStsd = BoxType{'s', 't', 's', 'd'}
	TypeStts = BoxType{'s', 't', 't', 's'}
	TypeCtts = BoxType{'c', 't', 't', 's'}
	TypeCslg = BoxType{'c', 's', 'l', 'g'}
	TypeStsc = BoxType{'s', 't', 's', 'c'}
	TypeStsz = BoxType{'s', 't', 's', 'z'}
	TypeStz2 = BoxType{'s', 't', 'z', '2'}
	TypeStco = BoxType{'s', 't', 'c', 'o'}
	TypeCo64 = BoxType{'c', 'o', '6', '4'}
	TypeStss = BoxType{'s', 't', 's', 's'}
	TypeStsh = BoxType{'s', 't', 's', 'h'}
	TypePadb = BoxType{'p', 'a', 'd', 'b'}
	TypeStdp = BoxType{'s', 't', 'd', 'p'}
	TypeSdtp = BoxType{'s', 'd', 't', 'p'}
	TypeSbgp = BoxType{'s', 'b', 'g', 'p'}
	TypeSgpd = BoxType{'s', 'g', 'p', 'd'}
	TypeSubs = BoxType{'s', 'u', 'b', 's'}
	TypeSaiz = BoxType{'s', 'a', 'i', 'z'}
	TypeSaio = BoxType{'s', 'a', 'i', 'o'}
	TypeUdta = BoxType{'u', 'd', 't', 'a'}
	TypeCprt = BoxType{'c', 'p', 'r', 't'}
	TypeKind = BoxType{'k', 'i', 'n', 'd'}
	TypeTsel = BoxType{'t', 's', 'e', 'l'}
	TypeChpl = BoxType{'c', 'h', 'p', 'l'}
	TypePdin = BoxType{'p', 'd', 'i', 'n'}
	// Fragmented movie boxes
	TypeMvex = BoxType{'m', 'v', 'e', 'x'}
	TypeMehd = BoxType{'m', 'e', 'h', 'd'}
	TypeTrex = BoxType{'t', 'r', 'e', 'x'}
	TypeTrep = BoxType{'t', 'r', 'e', 'p'}
	TypeLeva = BoxType{'l', 'e', 'v', 'a'}
	TypeMoof = BoxType{'m', 'o', 'o', 'f'}
	TypeMfhd = BoxType{'m', 'f', 'h', 'd'}
	TypeTraf = BoxType{'t', 'r', 'a', 'f'}
	TypeTfhd = BoxType{'t', 'f', 'h', 'd'}
	TypeTfdt = BoxType{'t', 'f', 'd', 't'}
	TypeTrun = BoxType{'t', 'r', 'u', 'n'}
	TypeMfra = BoxType{'m', 'f', 'r', 'a'}
	TypeTfra = BoxType{'t', 'f', 'r', 'a'}
	TypeSidx = BoxType{'s', 'i', 'd', 'x'} // Segment index box
	TypeSsix = BoxType{'s', 's', 'i', 'x'}
	TypePcrb = BoxType{'p', 'c', 'r', 'b'}
	TypePrft = BoxType{'p', 'r', 'f', 't'}
	// Metadata boxes
	TypeMeta = BoxType{'m', 'e', 't', 'a'}
	TypeXml  = BoxType{'x', 'm', 'l', ' '}
	TypeBxml = BoxType{'b', 'x', 'm', 'l'}
	TypeIloc = BoxType{'i', 'l', 'o', 'c'}
	TypePitm = BoxType{'p', 'i', 't', 'm'}
	TypeIpro = BoxType{'i', 'p', 'r', 'o'}
	TypeInfe = BoxType{'i', 'n', 'f', 'e'}
	TypeIinf = BoxType{'i', 'i', 'n', 'f'}
	TypeIref = BoxType{'i', 'r', 'e', 'f'}
	// Image file format boxes (item properties and entity groups)
	TypeIprp = BoxType{'i', 'p', 'r', 'p'}
	TypeIpco = BoxType{'i', 'p', 'c', 'o'}
	TypeIpma = BoxType{'i', 'p', 'm', 'a'}
	TypeIspe = BoxType{'i', 's', 'p', 'e'}
	TypeColr = BoxType{'c', 'o', 'l', 'r'}
	TypePixi = BoxType{'p', 'i', 'x', 'i'}
	TypeRloc = BoxType{'r', 'l', 'o', 'c'}
	TypeIrot = BoxType{'i', 'r', 'o', 't'}
	TypeGrpl = BoxType{'g', 'r', 'p', 'l'}
	// Data boxes
	TypeMdat = BoxType{'m', 'd', 'a', 't'}
	TypeFree = BoxType{'f', 'r', 'e', 'e'}
	TypeSkip = BoxType{'s', 'k', 'i', 'p'}
	// Sample entry boxes
	TypeMp4s = BoxType{'m', 'p', '4', 's'}
	TypeMp4v = BoxType{'m', 'p', '4', 'v'}
	TypeMp4a = BoxType{'m', 'p', '4', 'a'}
	TypeAvc1 = BoxType{'a', 'v', 'c', '1'}
	TypeAvc2 = BoxType{'a', 'v', 'c', '2'}
	TypeAvc3 = BoxType{'a', 'v', 'c', '3'}
	TypeAvc4 = BoxType{'a', 'v', 'c', '4'}
	TypeSvc1 = BoxType{'s', 'v', 'c', '1'}
	TypeHvc1 = BoxType{'h', 'v', 'c', '1'}
	TypeHev1 = BoxType{'h', 'e', 'v', '1'}
	TypeHvc2 = BoxType{'h', 'v', 'c', '2'}
	TypeHev2 = BoxType{'h', 'e', 'v', '2'}
	TypeLhv1 = BoxType{'l', 'h', 'v', '1'}
	TypeLhe1 = BoxType{'l', 'h', 'e', '1'}
	TypeHvt1 = BoxType{'h', 'v', 't', '1'}
	TypeAvcC = BoxType{'a', 'v', 'c', 'C'}
	TypeSvcC = BoxType{'s', 'v', 'c', 'C'}
	TypeBtrt = BoxType{'b', 't', 'r', 't'} // MPEG-4 Bit rate box
	TypePasp = BoxType{'p', 'a', 's', 'p'} // Pixel aspect ratio box
	TypeEsds = BoxType{'e', 's', 'd', 's'}
	// Generic sample entries, used when the coding type is not understood
	TypeGnrm = BoxType{'g', 'n', 'r', 'm'}
	TypeGnrv = BoxType{'g', 'n', 'r', 'v'}
	TypeGnra = BoxType{'g', 'n', 'r', 'a'}
	// Protected stream boxes
	TypeSinf = BoxType{'s', 'i', 'n', 'f'}
	TypeFrma = BoxType{'f', 'r', 'm', 'a'}
	TypeSchm = BoxType{'s', 'c', 'h', 'm'}
	TypeSchi = BoxType{'s', 'c', 'h', 'i'}
	TypeEnca = BoxType{'e', 'n', 'c', 'a'}
	TypeEncv = BoxType{'e', 'n', 'c', 'v'}
	TypeEncs = BoxType{'e', 'n', 'c', 's'}
	TypePssh = BoxType{'p', 's', 's', 'h'}
	TypeTenc = BoxType{'t', 'e', 'n', 'c'}
	TypeSenc = BoxType{'s', 'e', 'n', 'c'}
	// Internal holder types; the original identity is kept on the body
	TypeReft = BoxType{'r', 'e', 'f', 't'} // track reference entry
	TypeRefi = BoxType{'r', 'e', 'f', 'i'} // item reference entry
	TypeTrgt = BoxType{'t', 'r', 'g', 't'} // track group entry
	TypeUnkn = BoxType{'u', 'n', 'k', 'n'}
	TypeUUID = BoxType{'u', 'u', 'i', 'd'}
	TypeVoid = BoxType{'v', 'o', 'i', 'd'}
)

// Track reference kinds, carried as the wire type of tref children.
var (
	RefHint = BoxType{'h', 'i', 'n', 't'}
	RefCdsc = BoxType{'c', 'd', 's', 'c'}
	RefMpod = BoxType{'m', 'p', 'o', 'd'}
	RefDpnd = BoxType{'d', 'p', 'n', 'd'}
	RefSync = BoxType{'s', 'y', 'n', 'c'}
	RefIpir = BoxType{'i', 'p', 'i', 'r'}
	RefChap = BoxType{'c', 'h', 'a', 'p'}
	RefBase = BoxType{'b', 'a', 's', 'e'}
	RefScal = BoxType{'s', 'c', 'a', 'l'}
	RefTbas = BoxType{'t', 'b', 'a', 's'}
	RefSabt = BoxType{'s', 'a', 'b', 't'}
	RefOref = BoxType{'o', 'r', 'e', 'f'}
	RefFont = BoxType{'f', 'o', 'n', 't'}
	RefHind = BoxType{'h', 'i', 'n', 'd'}
	RefVdep = BoxType{'v', 'd', 'e', 'p'}
	RefVplx = BoxType{'v', 'p', 'l', 'x'}
	RefSubt = BoxType{'s', 'u', 'b', 't'}
)

// Sample group grouping types with dedicated description entries.
var (
	GroupRoll = BoxType{'r', 'o', 'l', 'l'}
	GroupRap  = BoxType{'r', 'a', 'p', ' '}
	GroupSeig = BoxType{'s', 'e', 'i', 'g'}
	GroupOinf = BoxType{'o', 'i', 'n', 'f'}
	GroupLinf = BoxType{'l', 'i', 'n', 'f'}
	GroupTrif = BoxType{'t', 'r', 'i', 'f'}
	GroupNalm = BoxType{'n', 'a', 'l', 'm'}
	GroupMsrc = BoxType{'m', 's', 'r', 'c'} // track group kind, not a sample group
)

// Extended types of the uuid boxes defined by PIFF and Smooth Streaming.
var (
	UUIDTenc = uuid.MustParse("8974dbce-7be7-4c51-84f9-7148f9882554")
	UUIDPsec = uuid.MustParse("a2394f52-5a9b-4f14-a244-6c427c648df4")
	UUIDPssh = uuid.MustParse("d08a4f18-10f3-4a82-b6c8-32d8aba183d3")
	UUIDTfxd = uuid.MustParse("6d1d9b05-42d5-44e6-80e2-141daff757b2")
	UUIDTfrf = uuid.MustParse("d4807ef2-ca39-4695-8e54-26cb9e46a79f")
)

// IsFullBox returns true if the box type has version and flags fields.
func IsFullBox(t BoxType) bool {
	switch t {
	case TypeMvhd, TypeTkhd, TypeMdhd, TypeHdlr,
		TypeVmhd, TypeSmhd, TypeHmhd, TypeNmhd,
		TypeSthd, TypeOdhd, TypeCrhd, TypeSdhd,
		TypeDref, TypeUrl, TypeUrn, TypeStsd,
		TypeStts, TypeCtts, TypeStsc, TypeStsz,
		TypeStz2, TypeStco, TypeCo64, TypeStss,
		TypeStsh, TypeStdp, TypeSdtp, TypePadb,
		TypeElst, TypeMeta, TypeEsds, TypeIods,
		TypeMehd, TypeTrex, TypeTrep, TypeMfhd,
		TypeTfhd, TypeTfdt, TypeTrun, TypeTfra,
		TypeSbgp, TypeSgpd, TypeSaiz, TypeSaio,
		TypeCslg, TypeSidx, TypeSsix, TypeLeva,
		TypeSubs, TypeCprt, TypeKind, TypeTsel,
		TypeElng, TypeChpl, TypePdin, TypePrft,
		TypeXml, TypeBxml, TypeIloc, TypePitm,
		TypeInfe, TypeIinf, TypeIref, TypePssh,
		TypeTenc, TypeSchm, TypeSenc, TypeTrgt,
		TypeIpma, TypeIspe, TypePixi, TypeRloc:
		return true
	}
	return false
}

// IsContainerBox returns true if the box type is a container that holds child boxes.
func IsContainerBox(t BoxType) bool {
	switch t {
	case TypeMoov, TypeTrak, TypeEdts, TypeMdia,
		TypeMinf, TypeDinf, TypeStbl, TypeUdta,
		TypeMvex, TypeMoof, TypeTraf, TypeMfra,
		TypeTref, TypeTrgr, TypeSinf, TypeSchi,
		TypeIpro, TypeIprp, TypeIpco, TypeGrpl:
		return true
	}
	return false
}

// IsSampleEntry returns true for coding types decoded as sample description
// entries (children of stsd).
func IsSampleEntry(t BoxType) bool {
	switch t {
	case TypeMp4s, TypeMp4v, TypeMp4a,
		TypeAvc1, TypeAvc2, TypeAvc3, TypeAvc4,
		TypeSvc1, TypeHvc1, TypeHev1, TypeHvc2,
		TypeHev2, TypeLhv1, TypeLhe1, TypeHvt1,
		TypeEnca, TypeEncv, TypeEncs:
		return true
	}
	return false
}

// Box is a decoded box tree node. Size is the total on-wire size of the box
// including its header; size zero marks a box synthesized without data, which
// renders in schema mode. UserType carries the extended type of uuid boxes.
// Body holds the decoded payload, one struct per box family; container bodies
// keep their well-known children in named slots. Other collects children that
// no slot claims, dumped after the named content.
type Box struct {
	Type     BoxType
	UserType uuid.UUID
	Size     uint64
	Version  uint8
	Flags    uint32
	Body     any
	Other    []*Box
}

// body returns the typed payload of b, or a zero value when the payload is
// absent or of a different shape, so renderers never branch on nil.
func body[T any](b *Box) *T {
	if p, ok := b.Body.(*T); ok && p != nil {
		return p
	}
	return new(T)
}
