package isodump

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Parse decodes data as a sequence of top-level boxes. Decoding is lenient:
// truncated payloads degrade to partial bodies and unrecognized types are
// preserved verbatim, so the dump can report the damage inline. A top-level
// box that overruns the stream ends the parse with an error alongside the
// boxes decoded before it.
func Parse(data []byte) ([]*Box, error) {
	var (
		p     parser
		boxes []*Box
	)
	r := NewReader(data)
	end := 0
	for r.Next() {
		boxes = append(boxes, p.box(&r))
		end = r.Offset() + int(r.Size())
	}
	if end < len(data) {
		return boxes, fmt.Errorf("isodump: malformed box at offset %d", end)
	}
	return boxes, nil
}

// ParseFile decodes the named file into a box tree.
func ParseFile(name string) ([]*Box, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseStream(f)
}

// ParseStream decodes top-level boxes from rs, reading one box at a time.
// Media data payloads are never loaded: an mdat contributes only its size.
func ParseStream(rs io.ReadSeeker) ([]*Box, error) {
	var (
		p     parser
		boxes []*Box
	)
	sc := NewScanner(rs)
	for sc.Next() {
		e := sc.Entry()
		if e.Type == TypeMdat {
			boxes = append(boxes, &Box{
				Type: TypeMdat,
				Size: uint64(e.Size),
				Body: &MdatBody{DataSize: uint64(e.DataSize())},
			})
			continue
		}
		buf := make([]byte, e.Size)
		if err := sc.ReadBox(buf); err != nil {
			return boxes, err
		}
		r := NewReader(buf)
		if r.Next() {
			boxes = append(boxes, p.box(&r))
		}
	}
	return boxes, sc.Err()
}

// parser carries cross-box context while building the tree.
type parser struct {
	handler BoxType // media handler of the enclosing track
	ivSize  uint8   // per-sample IV size from the most recent tenc
}

// payload is a byte cursor over box data. Reads past the end return zero
// values and latch the short flag, so a truncated box decodes to a partial
// body instead of failing.
type payload struct {
	data  []byte
	pos   int
	short bool
}

func newPayload(data []byte) *payload { return &payload{data: data} }

func (p *payload) ok() bool       { return !p.short }
func (p *payload) remaining() int { return len(p.data) - p.pos }

func (p *payload) skip(n int) {
	if p.remaining() < n {
		p.pos = len(p.data)
		p.short = true
		return
	}
	p.pos += n
}

func (p *payload) u8() uint8 {
	if p.remaining() < 1 {
		p.short = true
		return 0
	}
	v := p.data[p.pos]
	p.pos++
	return v
}

func (p *payload) u16() uint16 {
	if p.remaining() < 2 {
		p.short = true
		return 0
	}
	v := be.Uint16(p.data[p.pos:])
	p.pos += 2
	return v
}

func (p *payload) u24() uint32 {
	if p.remaining() < 3 {
		p.short = true
		return 0
	}
	v := uint32(p.data[p.pos])<<16 | uint32(p.data[p.pos+1])<<8 | uint32(p.data[p.pos+2])
	p.pos += 3
	return v
}

func (p *payload) u32() uint32 {
	if p.remaining() < 4 {
		p.short = true
		return 0
	}
	v := be.Uint32(p.data[p.pos:])
	p.pos += 4
	return v
}

func (p *payload) u64() uint64 {
	if p.remaining() < 8 {
		p.short = true
		return 0
	}
	v := be.Uint64(p.data[p.pos:])
	p.pos += 8
	return v
}

// uint reads a big-endian unsigned integer of n bytes, n between 0 and 8.
func (p *payload) uint(n int) uint64 {
	var v uint64
	for ; n > 0; n-- {
		v = v<<8 | uint64(p.u8())
	}
	return v
}

// bytes returns the next n bytes without copying. The slice points into the
// parsed buffer.
func (p *payload) bytes(n int) []byte {
	if n < 0 || p.remaining() < n {
		p.short = true
		return nil
	}
	v := p.data[p.pos : p.pos+n]
	p.pos += n
	return v
}

// rest returns everything from the cursor to the end of the payload.
func (p *payload) rest() []byte {
	v := p.data[p.pos:]
	p.pos = len(p.data)
	return v
}

func (p *payload) boxType() BoxType {
	var t BoxType
	copy(t[:], p.bytes(4))
	return t
}

func (p *payload) uuidVal() uuid.UUID {
	var u uuid.UUID
	copy(u[:], p.bytes(16))
	return u
}

// cstr reads a NUL-terminated string, or the rest of the payload when no
// terminator is present.
func (p *payload) cstr() string {
	rest := p.data[p.pos:]
	for i, c := range rest {
		if c == 0 {
			p.pos += i + 1
			return string(rest[:i])
		}
	}
	p.pos = len(p.data)
	return string(rest)
}

// sliceCap bounds a wire-declared entry count by the bytes actually
// available, so a damaged count cannot force a huge allocation.
func sliceCap(count uint32, stride, avail int) int {
	n := int(count)
	if stride > 0 && n > avail/stride {
		n = avail / stride
	}
	if n < 0 {
		n = 0
	}
	return n
}

// enter begins child iteration when nesting depth allows.
func enter(r *Reader) bool {
	if r.Depth() >= maxDepth {
		return false
	}
	r.Enter()
	return true
}

// Media handler types that select the generic sample entry shape.
var (
	handlerVide = BoxType{'v', 'i', 'd', 'e'}
	handlerSoun = BoxType{'s', 'o', 'u', 'n'}
)

// Item types with a MIME payload description in infe version 2.
var (
	itemMime = BoxType{'m', 'i', 'm', 'e'}
	itemURI  = BoxType{'u', 'r', 'i', ' '}
)

// box decodes the box the reader is positioned on, recursing into
// containers. Children that no body slot claims end up in Box.Other.
func (p *parser) box(r *Reader) *Box {
	b := &Box{
		Type:     r.Type(),
		UserType: r.UserType(),
		Size:     r.Size(),
		Version:  r.Version(),
		Flags:    r.Flags(),
	}

	switch b.Type {
	case TypeMoov:
		p.moov(r, b)
	case TypeTrak:
		prev := p.handler
		p.handler = BoxType{}
		p.trak(r, b)
		p.handler = prev
	case TypeEdts:
		v := &EdtsBody{}
		for _, c := range p.children(r) {
			if c.Type == TypeElst && v.Elst == nil {
				v.Elst = c
			} else {
				b.Other = append(b.Other, c)
			}
		}
		b.Body = v
	case TypeMdia:
		p.mdia(r, b)
	case TypeMinf:
		p.minf(r, b)
	case TypeDinf:
		v := &DinfBody{}
		for _, c := range p.children(r) {
			if c.Type == TypeDref && v.Dref == nil {
				v.Dref = c
			} else {
				b.Other = append(b.Other, c)
			}
		}
		b.Body = v
	case TypeStbl:
		p.stbl(r, b)
	case TypeUdta:
		b.Body = &UdtaBody{Children: p.children(r)}
	case TypeMvex:
		p.mvex(r, b)
	case TypeMoof:
		p.moof(r, b)
	case TypeTraf:
		p.traf(r, b)
	case TypeMfra:
		v := &MfraBody{}
		for _, c := range p.children(r) {
			if c.Type == TypeTfra {
				v.Tfras = append(v.Tfras, c)
			} else {
				b.Other = append(b.Other, c)
			}
		}
		b.Body = v
	case TypeMeta:
		p.meta(r, b)
	case TypeSinf:
		p.sinf(r, b)
	case TypeSchi:
		v := &SchiBody{}
		for _, c := range p.children(r) {
			if c.Type == TypeTenc && v.Tenc == nil {
				v.Tenc = c
			} else {
				b.Other = append(b.Other, c)
			}
		}
		b.Body = v
	case TypeIpro:
		v := &IproBody{}
		for _, c := range p.children(r) {
			if c.Type == TypeSinf {
				v.Sinfs = append(v.Sinfs, c)
			} else {
				b.Other = append(b.Other, c)
			}
		}
		b.Body = v
	case TypeIprp:
		v := &IprpBody{}
		for _, c := range p.children(r) {
			if c.Type == TypeIpco && v.Ipco == nil {
				v.Ipco = c
			} else {
				b.Other = append(b.Other, c)
			}
		}
		b.Body = v
	case TypeIpco, TypeGrpl:
		b.Other = p.children(r)

	case TypeTref:
		p.tref(r, b)
	case TypeTrgr:
		p.trgr(r, b)
	case TypeIref:
		p.iref(r, b)
	case TypeIinf:
		p.iinf(r, b)
	case TypeStsd:
		p.stsd(r, b)
	case TypeDref:
		if enter(r) {
			r.Skip(4)
			for r.Next() {
				b.Other = append(b.Other, p.box(r))
			}
			r.Exit()
		}

	case TypeMp4v, TypeAvc1, TypeAvc2, TypeAvc3, TypeAvc4,
		TypeSvc1, TypeHvc1, TypeHev1, TypeHvc2, TypeHev2,
		TypeLhv1, TypeLhe1, TypeHvt1, TypeEncv:
		p.visualEntry(r, b)
	case TypeMp4a, TypeEnca:
		p.audioEntry(r, b)
	case TypeMp4s, TypeEncs:
		p.systemEntry(r, b)

	case TypeFtyp, TypeStyp:
		b.Body = parseFtyp(newPayload(r.Data()))
	case TypeMvhd:
		b.Body = parseMvhd(newPayload(r.Data()), b.Version)
	case TypeMdhd:
		b.Body = parseMdhd(newPayload(r.Data()), b.Version)
	case TypeTkhd:
		b.Body = parseTkhd(newPayload(r.Data()), b.Version)
	case TypeVmhd, TypeSmhd, TypeNmhd, TypeSthd, TypeOdhd, TypeCrhd, TypeSdhd:
		// header-only boxes with no dumped payload
	case TypeHmhd:
		pl := newPayload(r.Data())
		b.Body = &HmhdBody{
			MaxPDUSize: uint32(pl.u16()),
			AvgPDUSize: uint32(pl.u16()),
			MaxBitrate: pl.u32(),
			AvgBitrate: pl.u32(),
		}
	case TypeHdlr:
		v := parseHdlr(newPayload(r.Data()))
		p.handler = v.HandlerType
		b.Body = v
	case TypeElng:
		pl := newPayload(r.Data())
		b.Body = &ElngBody{Language: pl.cstr()}
	case TypeUrl:
		v := &UrlBody{}
		if pl := newPayload(r.Data()); pl.remaining() > 0 {
			v.Location = pl.cstr()
		}
		b.Body = v
	case TypeUrn:
		pl := newPayload(r.Data())
		v := &UrnBody{Name: pl.cstr()}
		if pl.remaining() > 0 {
			v.Location = pl.cstr()
		}
		b.Body = v
	case TypeCprt:
		pl := newPayload(r.Data())
		b.Body = &CprtBody{Language: pl.u16(), Notice: pl.cstr()}
	case TypeKind:
		pl := newPayload(r.Data())
		b.Body = &KindBody{SchemeURI: pl.cstr(), Value: pl.cstr()}
	case TypeTsel:
		b.Body = parseTsel(newPayload(r.Data()))
	case TypeChpl:
		b.Body = parseChpl(newPayload(r.Data()))
	case TypePdin:
		b.Body = parsePdin(newPayload(r.Data()))
	case TypeIods:
		b.Body = &IodsBody{Data: r.Data()}
	case TypePrft:
		pl := newPayload(r.Data())
		v := &PrftBody{RefTrackID: pl.u32(), NTP: pl.u64()}
		if b.Version == 0 {
			v.Timestamp = uint64(pl.u32())
		} else {
			v.Timestamp = pl.u64()
		}
		b.Body = v
	case TypeFree, TypeSkip:
		b.Body = &FreeBody{Data: r.Data()}
	case TypeMdat:
		b.Body = &MdatBody{DataSize: uint64(len(r.Data()))}

	case TypeElst:
		it := NewElstIter(r.Data(), b.Version)
		stride := 12
		if b.Version == 1 {
			stride = 20
		}
		v := &ElstBody{Entries: make([]ElstEntry, 0, sliceCap(it.Count(), stride, len(r.Data())-4))}
		for {
			e, ok := it.Next()
			if !ok {
				break
			}
			v.Entries = append(v.Entries, e)
		}
		b.Body = v
	case TypeStts:
		it := NewSttsIter(r.Data())
		v := &SttsBody{Entries: make([]SttsEntry, 0, sliceCap(it.Count(), 8, len(r.Data())-4))}
		for {
			e, ok := it.Next()
			if !ok {
				break
			}
			v.Entries = append(v.Entries, e)
		}
		b.Body = v
	case TypeCtts:
		it := NewCttsIter(r.Data())
		v := &CttsBody{Entries: make([]CttsEntry, 0, sliceCap(it.Count(), 8, len(r.Data())-4))}
		for {
			e, ok := it.Next()
			if !ok {
				break
			}
			v.Entries = append(v.Entries, e)
		}
		b.Body = v
	case TypeCslg:
		b.Body = parseCslg(newPayload(r.Data()), b.Version)
	case TypeStsh:
		b.Body = parseStsh(newPayload(r.Data()))
	case TypeStsc:
		it := NewStscIter(r.Data())
		v := &StscBody{Entries: make([]StscEntry, 0, sliceCap(it.Count(), 12, len(r.Data())-4))}
		for {
			e, ok := it.Next()
			if !ok {
				break
			}
			v.Entries = append(v.Entries, e)
		}
		b.Body = v
	case TypeStsz, TypeStz2:
		b.Body = parseStsz(b.Type, newPayload(r.Data()))
	case TypeStco:
		v := &StcoBody{}
		if data := r.Data(); len(data) >= 4 {
			it := NewUint32Iter(data)
			offs := make([]uint32, 0, sliceCap(it.Count(), 4, len(data)-4))
			for {
				o, ok := it.Next()
				if !ok {
					break
				}
				offs = append(offs, o)
			}
			v.Offsets = offs
		}
		b.Body = v
	case TypeCo64:
		v := &Co64Body{}
		if data := r.Data(); len(data) >= 4 {
			it := NewCo64Iter(data)
			offs := make([]uint64, 0, sliceCap(it.Count(), 8, len(data)-4))
			for {
				o, ok := it.Next()
				if !ok {
					break
				}
				offs = append(offs, o)
			}
			v.Offsets = offs
		}
		b.Body = v
	case TypeStss:
		v := &StssBody{}
		if data := r.Data(); len(data) >= 4 {
			it := NewUint32Iter(data)
			nums := make([]uint32, 0, sliceCap(it.Count(), 4, len(data)-4))
			for {
				n, ok := it.Next()
				if !ok {
					break
				}
				nums = append(nums, n)
			}
			v.SampleNumbers = nums
		}
		b.Body = v
	case TypeStdp:
		pl := newPayload(r.Data())
		prios := make([]uint16, 0, pl.remaining()/2)
		for pl.remaining() >= 2 {
			prios = append(prios, pl.u16())
		}
		b.Body = &StdpBody{Priorities: prios}
	case TypeSdtp:
		data := r.Data()
		b.Body = &SdtpBody{SampleCount: uint32(len(data)), SampleInfo: data}
	case TypePadb:
		b.Body = parsePadb(newPayload(r.Data()))
	case TypeSubs:
		b.Body = parseSubs(newPayload(r.Data()), b.Version)
	case TypeSbgp:
		b.Body = parseSbgp(newPayload(r.Data()), b.Version)
	case TypeSgpd:
		b.Body = parseSgpd(newPayload(r.Data()), b.Version)
	case TypeSaiz:
		b.Body = parseSaiz(newPayload(r.Data()), b.Flags)
	case TypeSaio:
		b.Body = parseSaio(newPayload(r.Data()), b.Version, b.Flags)

	case TypeMehd:
		pl := newPayload(r.Data())
		v := &MehdBody{}
		if b.Version == 1 {
			v.FragmentDuration = pl.u64()
		} else {
			v.FragmentDuration = uint64(pl.u32())
		}
		b.Body = v
	case TypeTrex:
		pl := newPayload(r.Data())
		b.Body = &TrexBody{
			TrackID:                pl.u32(),
			SampleDescriptionIndex: pl.u32(),
			SampleDuration:         pl.u32(),
			SampleSize:             pl.u32(),
			SampleFlags:            pl.u32(),
		}
	case TypeTrep:
		pl := newPayload(r.Data())
		b.Body = &TrepBody{TrackID: pl.u32()}
		if enter(r) {
			r.Skip(4)
			for r.Next() {
				b.Other = append(b.Other, p.box(r))
			}
			r.Exit()
		}
	case TypeLeva:
		b.Body = parseLeva(newPayload(r.Data()))
	case TypeMfhd:
		pl := newPayload(r.Data())
		b.Body = &MfhdBody{SequenceNumber: pl.u32()}
	case TypeTfhd:
		b.Body = parseTfhd(newPayload(r.Data()), b.Flags)
	case TypeTfdt:
		pl := newPayload(r.Data())
		v := &TfdtBody{}
		if b.Version == 1 {
			v.BaseMediaDecodeTime = pl.u64()
		} else {
			v.BaseMediaDecodeTime = uint64(pl.u32())
		}
		b.Body = v
	case TypeTrun:
		it := NewTrunIter(r.Data(), b.Flags)
		v := &TrunBody{
			SampleCount:      it.Count(),
			DataOffset:       it.DataOffset(),
			FirstSampleFlags: it.FirstSampleFlags(),
		}
		perSample := uint32(TrunSampleDurationPresent | TrunSampleSizePresent |
			TrunSampleFlagsPresent | TrunSampleCompositionTimeOffsetPresent)
		if b.Flags&perSample != 0 {
			for {
				e, ok := it.Next()
				if !ok {
					break
				}
				v.Entries = append(v.Entries, e)
			}
		}
		b.Body = v
	case TypeTfra:
		b.Body = parseTfra(newPayload(r.Data()), b.Version)
	case TypeSidx:
		b.Body = parseSidx(newPayload(r.Data()), b.Version)
	case TypeSsix:
		b.Body = parseSsix(newPayload(r.Data()))
	case TypePcrb:
		b.Body = parsePcrb(newPayload(r.Data()))

	case TypeXml:
		b.Body = &XmlBody{XML: string(r.Data())}
	case TypeBxml:
		b.Body = &BxmlBody{Data: r.Data()}
	case TypeIloc:
		b.Body = parseIloc(newPayload(r.Data()), b.Version)
	case TypePitm:
		pl := newPayload(r.Data())
		v := &PitmBody{}
		if b.Version == 0 {
			v.ItemID = uint32(pl.u16())
		} else {
			v.ItemID = pl.u32()
		}
		b.Body = v
	case TypeInfe:
		b.Body = parseInfe(newPayload(r.Data()), b.Version)
	case TypeIspe:
		pl := newPayload(r.Data())
		b.Body = &IspeBody{ImageWidth: pl.u32(), ImageHeight: pl.u32()}
	case TypeColr:
		pl := newPayload(r.Data())
		b.Body = &ColrBody{
			ColourType:              pl.boxType(),
			ColourPrimaries:         pl.u16(),
			TransferCharacteristics: pl.u16(),
			MatrixCoefficients:      pl.u16(),
			FullRangeFlag:           pl.u8() >> 7,
		}
	case TypePixi:
		pl := newPayload(r.Data())
		n := int(pl.u8())
		v := &PixiBody{BitsPerChannel: make([]uint8, 0, sliceCap(uint32(n), 1, pl.remaining()))}
		for i := 0; i < n; i++ {
			c := pl.u8()
			if !pl.ok() {
				break
			}
			v.BitsPerChannel = append(v.BitsPerChannel, c)
		}
		b.Body = v
	case TypeRloc:
		pl := newPayload(r.Data())
		b.Body = &RlocBody{HorizontalOffset: pl.u32(), VerticalOffset: pl.u32()}
	case TypeIrot:
		pl := newPayload(r.Data())
		b.Body = &IrotBody{Angle: pl.u8() & 0x3}
	case TypeIpma:
		b.Body = parseIpma(newPayload(r.Data()), b.Version, b.Flags)

	case TypeFrma:
		pl := newPayload(r.Data())
		b.Body = &FrmaBody{DataFormat: pl.boxType()}
	case TypeSchm:
		pl := newPayload(r.Data())
		v := &SchmBody{SchemeType: pl.boxType(), SchemeVersion: pl.u32()}
		if b.Flags&1 != 0 {
			v.SchemeURI = pl.cstr()
		}
		b.Body = v
	case TypePssh:
		b.Body = parsePssh(newPayload(r.Data()), b.Version)
	case TypeTenc:
		b.Body = p.tenc(newPayload(r.Data()), b.Version)
	case TypeSenc:
		pl := newPayload(r.Data())
		count := pl.u32()
		b.Body = &SencBody{Samples: p.sencSamples(pl, count, 0, b.Flags)}

	case TypeEsds:
		if esd, err := ParseESDescriptor(r.Data()); err == nil {
			b.Body = esd
		}
	case TypeAvcC, TypeSvcC:
		if v := parseAvcC(newPayload(r.Data()), b.Type == TypeSvcC); v != nil {
			b.Body = v
		}
	case TypeBtrt:
		pl := newPayload(r.Data())
		b.Body = &BtrtBody{
			BufferSizeDB: pl.u32(),
			MaxBitrate:   pl.u32(),
			AvgBitrate:   pl.u32(),
		}
	case TypePasp:
		pl := newPayload(r.Data())
		b.Body = &PaspBody{HSpacing: pl.u32(), VSpacing: pl.u32()}

	case TypeUUID:
		p.uuidBox(r, b)

	default:
		b.Type = TypeUnkn
		b.Body = &UnknownBody{Original: r.Type(), Data: r.Data()}
	}
	return b
}

// children parses every child of the current container in wire order.
func (p *parser) children(r *Reader) []*Box {
	if !enter(r) {
		return nil
	}
	var kids []*Box
	for r.Next() {
		kids = append(kids, p.box(r))
	}
	r.Exit()
	return kids
}

// claim stores c in slot if empty, otherwise appends it to the parent's
// overflow list.
func claim(parent *Box, slot **Box, c *Box) {
	if *slot == nil {
		*slot = c
	} else {
		parent.Other = append(parent.Other, c)
	}
}

func (p *parser) moov(r *Reader, b *Box) {
	v := &MoovBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeIods:
			claim(b, &v.Iods, c)
		case TypeMeta:
			claim(b, &v.Meta, c)
		case TypeMvhd:
			claim(b, &v.Mvhd, c)
		case TypeMvex:
			claim(b, &v.Mvex, c)
		case TypeTrak:
			v.Traks = append(v.Traks, c)
		case TypeUdta:
			claim(b, &v.Udta, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) trak(r *Reader, b *Box) {
	v := &TrakBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeTkhd:
			claim(b, &v.Tkhd, c)
		case TypeTref:
			claim(b, &v.Tref, c)
		case TypeMeta:
			claim(b, &v.Meta, c)
		case TypeEdts:
			claim(b, &v.Edts, c)
		case TypeMdia:
			claim(b, &v.Mdia, c)
		case TypeTrgr:
			claim(b, &v.Trgr, c)
		case TypeUdta:
			claim(b, &v.Udta, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) mdia(r *Reader, b *Box) {
	v := &MdiaBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeMdhd:
			claim(b, &v.Mdhd, c)
		case TypeHdlr:
			claim(b, &v.Hdlr, c)
		case TypeMinf:
			claim(b, &v.Minf, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) minf(r *Reader, b *Box) {
	v := &MinfBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeVmhd, TypeSmhd, TypeHmhd, TypeNmhd,
			TypeSthd, TypeOdhd, TypeCrhd, TypeSdhd:
			claim(b, &v.InfoHeader, c)
		case TypeDinf:
			claim(b, &v.Dinf, c)
		case TypeStbl:
			claim(b, &v.Stbl, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) stbl(r *Reader, b *Box) {
	v := &StblBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeStsd:
			claim(b, &v.Stsd, c)
		case TypeStts:
			claim(b, &v.Stts, c)
		case TypeCtts:
			claim(b, &v.Ctts, c)
		case TypeCslg:
			claim(b, &v.Cslg, c)
		case TypeStss:
			claim(b, &v.Stss, c)
		case TypeStsh:
			claim(b, &v.Stsh, c)
		case TypeStsc:
			claim(b, &v.Stsc, c)
		case TypeStsz, TypeStz2:
			claim(b, &v.Stsz, c)
		case TypeStco, TypeCo64:
			claim(b, &v.Stco, c)
		case TypeStdp:
			claim(b, &v.Stdp, c)
		case TypeSdtp:
			claim(b, &v.Sdtp, c)
		case TypePadb:
			claim(b, &v.Padb, c)
		case TypeSubs:
			v.Subs = append(v.Subs, c)
		case TypeSgpd:
			v.Sgpd = append(v.Sgpd, c)
		case TypeSbgp:
			v.Sbgp = append(v.Sbgp, c)
		case TypeSaiz:
			v.Saiz = append(v.Saiz, c)
		case TypeSaio:
			v.Saio = append(v.Saio, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) mvex(r *Reader, b *Box) {
	v := &MvexBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeMehd:
			claim(b, &v.Mehd, c)
		case TypeTrex:
			v.Trexs = append(v.Trexs, c)
		case TypeTrep:
			v.Treps = append(v.Treps, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) moof(r *Reader, b *Box) {
	v := &MoofBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeMfhd:
			claim(b, &v.Mfhd, c)
		case TypeTraf:
			v.Trafs = append(v.Trafs, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) traf(r *Reader, b *Box) {
	v := &TrafBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeTfhd:
			claim(b, &v.Tfhd, c)
		case TypeSdtp:
			claim(b, &v.Sdtp, c)
		case TypeTfdt:
			claim(b, &v.Tfdt, c)
		case TypeSubs:
			v.Subs = append(v.Subs, c)
		case TypeSgpd:
			v.Sgpd = append(v.Sgpd, c)
		case TypeSbgp:
			v.Sbgp = append(v.Sbgp, c)
		case TypeTrun:
			v.Truns = append(v.Truns, c)
		case TypeSaiz:
			v.Saiz = append(v.Saiz, c)
		case TypeSaio:
			v.Saio = append(v.Saio, c)
		case TypeSenc:
			claim(b, &v.Senc, c)
		case TypeUUID:
			if c.UserType == UUIDPsec && v.PiffPsec == nil {
				v.PiffPsec = c
			} else {
				b.Other = append(b.Other, c)
			}
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) meta(r *Reader, b *Box) {
	v := &MetaBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeHdlr:
			claim(b, &v.Hdlr, c)
		case TypePitm:
			claim(b, &v.Pitm, c)
		case TypeDinf:
			claim(b, &v.Dinf, c)
		case TypeIloc:
			claim(b, &v.Iloc, c)
		case TypeIpro:
			claim(b, &v.Ipro, c)
		case TypeIinf:
			claim(b, &v.Iinf, c)
		case TypeIref:
			claim(b, &v.Iref, c)
		case TypeIprp:
			claim(b, &v.Iprp, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

func (p *parser) sinf(r *Reader, b *Box) {
	v := &SinfBody{}
	for _, c := range p.children(r) {
		switch c.Type {
		case TypeFrma:
			claim(b, &v.Frma, c)
		case TypeSchm:
			claim(b, &v.Schm, c)
		case TypeSchi:
			claim(b, &v.Schi, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	b.Body = v
}

// tref children are reference lists whose wire type names the reference
// kind; they are rehomed under the internal reft type.
func (p *parser) tref(r *Reader, b *Box) {
	if !enter(r) {
		return
	}
	for r.Next() {
		pl := newPayload(r.Data())
		ids := make([]uint32, 0, pl.remaining()/4)
		for pl.remaining() >= 4 {
			ids = append(ids, pl.u32())
		}
		b.Other = append(b.Other, &Box{
			Type: TypeReft,
			Size: r.Size(),
			Body: &TrackRefBody{Kind: r.Type(), TrackIDs: ids},
		})
	}
	r.Exit()
}

// trgr children carry their version and flags in the payload since the
// reader only knows the wire type, not that it is a full box.
func (p *parser) trgr(r *Reader, b *Box) {
	v := &TrgrBody{}
	if enter(r) {
		for r.Next() {
			pl := newPayload(r.Data())
			c := &Box{Type: TypeTrgt, Size: r.Size()}
			c.Version = pl.u8()
			c.Flags = pl.u24()
			c.Body = &TrackGroupBody{Kind: r.Type(), GroupID: pl.u32()}
			v.Groups = append(v.Groups, c)
		}
		r.Exit()
	}
	b.Body = v
}

func (p *parser) iref(r *Reader, b *Box) {
	v := &IrefBody{}
	if enter(r) {
		for r.Next() {
			pl := newPayload(r.Data())
			rb := &ItemRefBody{Kind: r.Type()}
			var count int
			if b.Version == 0 {
				rb.FromItemID = uint32(pl.u16())
				count = int(pl.u16())
			} else {
				rb.FromItemID = pl.u32()
				count = int(pl.u16())
			}
			for i := 0; i < count && pl.ok(); i++ {
				var id uint32
				if b.Version == 0 {
					id = uint32(pl.u16())
				} else {
					id = pl.u32()
				}
				if !pl.ok() {
					break
				}
				rb.ToItemIDs = append(rb.ToItemIDs, id)
			}
			v.References = append(v.References, &Box{Type: TypeRefi, Size: r.Size(), Body: rb})
		}
		r.Exit()
	}
	b.Body = v
}

func (p *parser) iinf(r *Reader, b *Box) {
	v := &IinfBody{}
	if enter(r) {
		if b.Version == 0 {
			r.Skip(2)
		} else {
			r.Skip(4)
		}
		for r.Next() {
			c := p.box(r)
			if c.Type == TypeInfe {
				v.Items = append(v.Items, c)
			} else {
				b.Other = append(b.Other, c)
			}
		}
		r.Exit()
	}
	b.Body = v
}

// stsd children are sample entries. Recognized coding types decode to their
// own shapes; everything else becomes a generic entry picked by the track
// handler.
func (p *parser) stsd(r *Reader, b *Box) {
	if !enter(r) {
		return
	}
	r.Skip(4)
	for r.Next() {
		if IsSampleEntry(r.Type()) {
			b.Other = append(b.Other, p.box(r))
		} else {
			b.Other = append(b.Other, p.genericEntry(r))
		}
	}
	r.Exit()
}

func (p *parser) genericEntry(r *Reader) *Box {
	b := &Box{Size: r.Size()}
	pl := newPayload(r.Data())
	pl.skip(6)
	dri := pl.u16()
	switch p.handler {
	case handlerVide:
		b.Type = TypeGnrv
		v := &GnrvBody{EntryType: r.Type(), DataReferenceIndex: dri}
		v.Version = pl.u16()
		v.Revision = pl.u16()
		v.Vendor = pl.u32()
		v.TemporalQuality = pl.u32()
		v.SpatialQuality = pl.u32()
		v.Width = pl.u16()
		v.Height = pl.u16()
		v.HorizRes = pl.u32()
		v.VertRes = pl.u32()
		pl.skip(4)
		pl.skip(2) // frame count
		v.CompressorName = compressorName(pl.bytes(32))
		v.BitDepth = pl.u16()
		b.Body = v
	case handlerSoun:
		b.Type = TypeGnra
		v := &GnraBody{EntryType: r.Type(), DataReferenceIndex: dri}
		v.Version = pl.u16()
		v.Revision = pl.u16()
		v.Vendor = pl.u32()
		v.ChannelCount = pl.u16()
		v.BitsPerSample = pl.u16()
		pl.skip(4) // compression id, packet size
		v.SampleRate = pl.u32()
		b.Body = v
	default:
		b.Type = TypeGnrm
		b.Body = &GnrmBody{EntryType: r.Type(), DataReferenceIndex: dri, Data: pl.rest()}
	}
	return b
}

func (p *parser) visualEntry(r *Reader, b *Box) {
	v := &Mp4vBody{}
	pl := newPayload(r.Data())
	pl.skip(6)
	v.DataReferenceIndex = pl.u16()
	pl.skip(16) // pre_defined and reserved
	v.Width = pl.u16()
	v.Height = pl.u16()
	v.HorizRes = pl.u32()
	v.VertRes = pl.u32()
	pl.skip(4)
	pl.skip(2) // frame count
	v.CompressorName = compressorName(pl.bytes(32))
	v.BitDepth = pl.u16()
	b.Body = v
	if !enter(r) {
		return
	}
	r.Skip(78)
	for r.Next() {
		c := p.box(r)
		switch c.Type {
		case TypeEsds:
			claim(b, &v.Esd, c)
		case TypeAvcC:
			claim(b, &v.AvcC, c)
		case TypeSvcC:
			claim(b, &v.SvcC, c)
		case TypePasp:
			claim(b, &v.Pasp, c)
		case TypeSinf:
			v.Protections = append(v.Protections, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	r.Exit()
}

func (p *parser) audioEntry(r *Reader, b *Box) {
	v := &Mp4aBody{}
	pl := newPayload(r.Data())
	pl.skip(6)
	v.DataReferenceIndex = pl.u16()
	qtVersion := pl.u16()
	pl.skip(6)
	v.Channels = pl.u16()
	v.BitsPerSample = pl.u16()
	pl.skip(4) // compression id, packet size
	v.SampleRate = pl.u32()
	b.Body = v
	hdr := 28
	// QuickTime sound descriptions prepend extra fields before child boxes
	if qtVersion == 1 {
		hdr += 16
	} else if qtVersion == 2 {
		hdr += 36
	}
	if !enter(r) {
		return
	}
	r.Skip(hdr)
	for r.Next() {
		c := p.box(r)
		switch c.Type {
		case TypeEsds:
			claim(b, &v.Esd, c)
		case TypeSinf:
			v.Protections = append(v.Protections, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	r.Exit()
}

func (p *parser) systemEntry(r *Reader, b *Box) {
	v := &Mp4sBody{}
	pl := newPayload(r.Data())
	pl.skip(6)
	v.DataReferenceIndex = pl.u16()
	b.Body = v
	if !enter(r) {
		return
	}
	r.Skip(8)
	for r.Next() {
		c := p.box(r)
		switch c.Type {
		case TypeEsds:
			claim(b, &v.Esd, c)
		case TypeSinf:
			v.Protections = append(v.Protections, c)
		default:
			b.Other = append(b.Other, c)
		}
	}
	r.Exit()
}

// compressorName strips the Pascal length prefix of the 32-byte compressor
// field and drops trailing control bytes some writers leave behind.
func compressorName(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	n := int(raw[0])
	if n > len(raw)-1 {
		n = len(raw) - 1
	}
	name := raw[1 : 1+n]
	for len(name) > 0 && name[len(name)-1] < 0x20 {
		name = name[:len(name)-1]
	}
	return string(name)
}

func parseFtyp(pl *payload) *FtypBody {
	v := &FtypBody{MajorBrand: pl.boxType(), MinorVersion: pl.u32()}
	v.Brands = make([]BoxType, 0, pl.remaining()/4)
	for pl.remaining() >= 4 {
		v.Brands = append(v.Brands, pl.boxType())
	}
	return v
}

func parseMvhd(pl *payload, version uint8) *MvhdBody {
	v := &MvhdBody{}
	if version == 1 {
		v.CreationTime = pl.u64()
		v.ModificationTime = pl.u64()
		v.TimeScale = pl.u32()
		v.Duration = pl.u64()
	} else {
		v.CreationTime = uint64(pl.u32())
		v.ModificationTime = uint64(pl.u32())
		v.TimeScale = pl.u32()
		v.Duration = uint64(pl.u32())
	}
	pl.skip(76) // rate, volume, reserved, matrix, pre_defined
	v.NextTrackID = pl.u32()
	return v
}

func parseMdhd(pl *payload, version uint8) *MdhdBody {
	v := &MdhdBody{}
	if version == 1 {
		v.CreationTime = pl.u64()
		v.ModificationTime = pl.u64()
		v.TimeScale = pl.u32()
		v.Duration = pl.u64()
	} else {
		v.CreationTime = uint64(pl.u32())
		v.ModificationTime = uint64(pl.u32())
		v.TimeScale = pl.u32()
		v.Duration = uint64(pl.u32())
	}
	v.Language = pl.u16()
	return v
}

func parseTkhd(pl *payload, version uint8) *TkhdBody {
	v := &TkhdBody{}
	if version == 1 {
		v.CreationTime = pl.u64()
		v.ModificationTime = pl.u64()
		v.TrackID = pl.u32()
		pl.skip(4)
		v.Duration = pl.u64()
	} else {
		v.CreationTime = uint64(pl.u32())
		v.ModificationTime = uint64(pl.u32())
		v.TrackID = pl.u32()
		pl.skip(4)
		v.Duration = uint64(pl.u32())
	}
	pl.skip(8)
	v.Layer = int16(pl.u16())
	v.AlternateGroup = int16(pl.u16())
	v.Volume = pl.u16()
	pl.skip(2)
	for i := range v.Matrix {
		v.Matrix[i] = pl.u32()
	}
	v.Width = pl.u32()
	v.Height = pl.u32()
	return v
}

func parseHdlr(pl *payload) *HdlrBody {
	v := &HdlrBody{}
	v.Reserved1 = pl.u32()
	v.HandlerType = pl.boxType()
	copy(v.Reserved2[:], pl.bytes(12))
	name := pl.rest()
	if n := len(name); n > 0 && name[n-1] == 0 {
		name = name[:n-1]
	}
	v.Name = string(name)
	return v
}

func parseTsel(pl *payload) *TselBody {
	v := &TselBody{SwitchGroup: pl.u32()}
	v.Criteria = make([]BoxType, 0, pl.remaining()/4)
	for pl.remaining() >= 4 {
		v.Criteria = append(v.Criteria, pl.boxType())
	}
	return v
}

func parseChpl(pl *payload) *ChplBody {
	pl.skip(4) // reserved
	count := int(pl.u8())
	v := &ChplBody{Entries: make([]ChplEntry, 0, count)}
	for i := 0; i < count; i++ {
		var e ChplEntry
		e.StartTime = pl.u64()
		e.Name = string(pl.bytes(int(pl.u8())))
		if !pl.ok() {
			break
		}
		v.Entries = append(v.Entries, e)
	}
	return v
}

func parsePdin(pl *payload) *PdinBody {
	v := &PdinBody{Entries: make([]PdinEntry, 0, pl.remaining()/8)}
	for pl.remaining() >= 8 {
		v.Entries = append(v.Entries, PdinEntry{Rate: pl.u32(), EstimatedTime: pl.u32()})
	}
	return v
}

func parseCslg(pl *payload, version uint8) *CslgBody {
	v := &CslgBody{}
	if version == 0 {
		v.CompositionToDTSShift = int32(pl.u32())
		v.LeastDecodeToDisplayDelta = int32(pl.u32())
		v.GreatestDecodeToDisplayDelta = int32(pl.u32())
		v.CompositionStartTime = int32(pl.u32())
		v.CompositionEndTime = int32(pl.u32())
	} else {
		v.CompositionToDTSShift = int32(pl.u64())
		v.LeastDecodeToDisplayDelta = int32(pl.u64())
		v.GreatestDecodeToDisplayDelta = int32(pl.u64())
		v.CompositionStartTime = int32(pl.u64())
		v.CompositionEndTime = int32(pl.u64())
	}
	return v
}

func parseStsh(pl *payload) *StshBody {
	count := pl.u32()
	v := &StshBody{Entries: make([]StshEntry, 0, sliceCap(count, 8, pl.remaining()))}
	for i := uint32(0); i < count; i++ {
		e := StshEntry{ShadowedSample: pl.u32(), SyncSample: pl.u32()}
		if !pl.ok() {
			break
		}
		v.Entries = append(v.Entries, e)
	}
	return v
}

func parseStsz(typ BoxType, pl *payload) *StszBody {
	v := &StszBody{}
	if typ == TypeStz2 {
		pl.skip(3)
		v.SampleSize = uint32(pl.u8())
		v.SampleCount = pl.u32()
		if !pl.ok() {
			return v
		}
		switch v.SampleSize {
		case 4:
			sizes := make([]uint32, 0, sliceCap(v.SampleCount, 1, pl.remaining()*2))
			for i := uint32(0); i < v.SampleCount; i += 2 {
				b := pl.u8()
				if !pl.ok() {
					break
				}
				sizes = append(sizes, uint32(b>>4))
				if i+1 < v.SampleCount {
					sizes = append(sizes, uint32(b&0xF))
				}
			}
			v.Sizes = sizes
		case 8:
			sizes := make([]uint32, 0, sliceCap(v.SampleCount, 1, pl.remaining()))
			for i := uint32(0); i < v.SampleCount; i++ {
				s := pl.u8()
				if !pl.ok() {
					break
				}
				sizes = append(sizes, uint32(s))
			}
			v.Sizes = sizes
		case 16:
			sizes := make([]uint32, 0, sliceCap(v.SampleCount, 2, pl.remaining()))
			for i := uint32(0); i < v.SampleCount; i++ {
				s := pl.u16()
				if !pl.ok() {
					break
				}
				sizes = append(sizes, uint32(s))
			}
			v.Sizes = sizes
		}
		return v
	}
	v.SampleSize = pl.u32()
	v.SampleCount = pl.u32()
	if !pl.ok() {
		return v
	}
	if v.SampleSize == 0 {
		sizes := make([]uint32, 0, sliceCap(v.SampleCount, 4, pl.remaining()))
		for i := uint32(0); i < v.SampleCount; i++ {
			s := pl.u32()
			if !pl.ok() {
				break
			}
			sizes = append(sizes, s)
		}
		v.Sizes = sizes
	}
	return v
}

func parsePadb(pl *payload) *PadbBody {
	count := pl.u32()
	v := &PadbBody{SampleCount: count}
	bits := make([]uint8, 0, sliceCap(count, 1, pl.remaining()*2))
	for i := uint32(0); i < count; i += 2 {
		b := pl.u8()
		if !pl.ok() {
			break
		}
		bits = append(bits, b&7)
		if i+1 < count {
			bits = append(bits, b>>4&7)
		}
	}
	v.PadBits = bits
	return v
}

func parseSubs(pl *payload, version uint8) *SubsBody {
	count := pl.u32()
	v := &SubsBody{Entries: make([]SubsEntry, 0, sliceCap(count, 6, pl.remaining()))}
	for i := uint32(0); i < count && pl.ok(); i++ {
		e := SubsEntry{SampleDelta: pl.u32()}
		n := int(pl.u16())
		for j := 0; j < n && pl.ok(); j++ {
			var s Subsample
			if version == 1 {
				s.Size = pl.u32()
			} else {
				s.Size = uint32(pl.u16())
			}
			s.Priority = pl.u8()
			s.Discardable = pl.u8()
			s.Reserved = pl.u32()
			if !pl.ok() {
				break
			}
			e.Subsamples = append(e.Subsamples, s)
		}
		if !pl.ok() {
			break
		}
		v.Entries = append(v.Entries, e)
	}
	return v
}

func parseSbgp(pl *payload, version uint8) *SbgpBody {
	v := &SbgpBody{GroupingType: pl.boxType()}
	if version == 1 {
		v.GroupingTypeParameter = pl.u32()
	}
	count := pl.u32()
	v.Entries = make([]SbgpEntry, 0, sliceCap(count, 8, pl.remaining()))
	for i := uint32(0); i < count; i++ {
		e := SbgpEntry{SampleCount: pl.u32(), GroupDescriptionIndex: pl.u32()}
		if !pl.ok() {
			break
		}
		v.Entries = append(v.Entries, e)
	}
	return v
}

func parseSgpd(pl *payload, version uint8) *SgpdBody {
	v := &SgpdBody{GroupingType: pl.boxType()}
	if version >= 1 {
		v.DefaultLength = pl.u32()
	}
	if version >= 2 {
		v.DefaultGroupIndex = pl.u32()
	}
	count := pl.u32()
	if !pl.ok() {
		return v
	}
	v.Entries = make([]any, 0, sliceCap(count, 1, pl.remaining()))
	for i := uint32(0); i < count && pl.remaining() > 0; i++ {
		length := int(v.DefaultLength)
		if version >= 1 && v.DefaultLength == 0 {
			length = int(pl.u32())
		}
		entry := parseGroupEntry(v.GroupingType, pl, length)
		if entry == nil || !pl.ok() {
			break
		}
		v.Entries = append(v.Entries, entry)
	}
	return v
}

// parseGroupEntry decodes one sample group description. Structured grouping
// types self-delimit; anything else consumes the declared length, or the
// rest of the payload when no length is known.
func parseGroupEntry(typ BoxType, pl *payload, length int) any {
	switch typ {
	case GroupRoll:
		return &RollRecoveryEntry{RollDistance: int16(pl.u16())}
	case GroupRap:
		v := pl.u8()
		return &VisualRandomAccessEntry{
			NumLeadingSamplesKnown: v&0x80 != 0,
			NumLeadingSamples:      v & 0x7F,
		}
	case GroupSeig:
		e := &SeigEntry{}
		pl.skip(2) // reserved, pattern block sizes
		e.IsProtected = uint32(pl.u8())
		e.PerSampleIVSize = pl.u8()
		e.KID = pl.uuidVal()
		if e.IsProtected == 1 && e.PerSampleIVSize == 0 {
			n := int(pl.u8())
			e.ConstantIVSize = uint8(n)
			e.ConstantIV = pl.bytes(n)
		}
		return e
	case GroupOinf:
		return parseOinf(pl)
	case GroupLinf:
		return parseLinf(pl)
	}
	var data []byte
	if length > 0 {
		data = pl.bytes(length)
		if data == nil {
			return nil
		}
	} else {
		data = pl.rest()
	}
	return &RawGroupEntry{Data: data}
}

func parseOinf(pl *payload) *OinfEntry {
	v := &OinfEntry{ScalabilityMask: pl.u16()}
	count := int(pl.u8() & 0x3F)
	v.ProfileTierLevels = make([]ProfileTierLevel, 0, count)
	for i := 0; i < count && pl.ok(); i++ {
		var ptl ProfileTierLevel
		b := pl.u8()
		ptl.GeneralProfileSpace = b >> 6
		ptl.GeneralTierFlag = b >> 5 & 1
		ptl.GeneralProfileIDC = b & 0x1F
		ptl.GeneralProfileCompatibilityFlags = pl.u32()
		ptl.GeneralConstraintIndicatorFlags = pl.uint(6)
		pl.skip(1) // general_level_idc
		if !pl.ok() {
			break
		}
		v.ProfileTierLevels = append(v.ProfileTierLevels, ptl)
	}
	opCount := pl.u16()
	v.OperatingPoints = make([]OperatingPoint, 0, sliceCap(uint32(opCount), 13, pl.remaining()))
	for i := 0; i < int(opCount) && pl.ok(); i++ {
		var op OperatingPoint
		op.OutputLayerSetIdx = pl.u16()
		op.MaxTemporalID = pl.u8()
		op.LayerCount = pl.u8()
		pl.skip(2 * int(op.LayerCount)) // ptl index and layer flags
		op.MinPicWidth = pl.u16()
		op.MinPicHeight = pl.u16()
		op.MaxPicWidth = pl.u16()
		op.MaxPicHeight = pl.u16()
		b := pl.u8()
		op.MaxChromaFormat = b >> 6
		op.MaxBitDepth = (b>>3)&7 + 8
		op.FrameRateInfoFlag = b&2 != 0
		op.BitRateInfoFlag = b&1 != 0
		if op.FrameRateInfoFlag {
			op.AvgFrameRate = pl.u16()
			op.ConstantFrameRate = pl.u8() & 3
		}
		if op.BitRateInfoFlag {
			op.MaxBitRate = pl.u32()
			op.AvgBitRate = pl.u32()
		}
		if !pl.ok() {
			break
		}
		v.OperatingPoints = append(v.OperatingPoints, op)
	}
	depCount := int(pl.u8())
	v.DependencyLayers = make([]DependencyLayer, 0, sliceCap(uint32(depCount), 2, pl.remaining()))
	for i := 0; i < depCount && pl.ok(); i++ {
		var dep DependencyLayer
		dep.DependentLayerID = pl.u8()
		n := int(pl.u8())
		for j := 0; j < n && pl.ok(); j++ {
			dep.DependentOnLayerIDs = append(dep.DependentOnLayerIDs, pl.u8())
		}
		for j := 0; j < 16; j++ {
			if v.ScalabilityMask&(1<<uint(j)) != 0 {
				dep.DimensionIdentifiers[j] = pl.u8()
			}
		}
		if !pl.ok() {
			break
		}
		v.DependencyLayers = append(v.DependencyLayers, dep)
	}
	return v
}

func parseLinf(pl *payload) *LinfEntry {
	br := bitReader{data: pl.data[pl.pos:]}
	br.bits(2)
	count := int(br.bits(6))
	v := &LinfEntry{Layers: make([]LayerInfoItem, 0, count)}
	for i := 0; i < count; i++ {
		var li LayerInfoItem
		br.bits(4)
		li.LayerID = uint8(br.bits(6))
		li.MinTemporalID = uint8(br.bits(3))
		li.MaxTemporalID = uint8(br.bits(3))
		br.bits(1)
		li.SubLayerPresenceFlags = uint8(br.bits(7))
		if !br.ok() {
			break
		}
		v.Layers = append(v.Layers, li)
	}
	pl.skip(1 + 3*count)
	return v
}

func parseSaiz(pl *payload, flags uint32) *SaizBody {
	v := &SaizBody{}
	if flags&1 != 0 {
		v.AuxInfoType = pl.u32()
		v.AuxInfoTypeParameter = pl.u32()
	}
	v.DefaultSampleInfoSize = pl.u8()
	v.SampleCount = pl.u32()
	if v.DefaultSampleInfoSize == 0 {
		sizes := make([]uint8, 0, sliceCap(v.SampleCount, 1, pl.remaining()))
		for i := uint32(0); i < v.SampleCount; i++ {
			s := pl.u8()
			if !pl.ok() {
				break
			}
			sizes = append(sizes, s)
		}
		v.Sizes = sizes
	}
	return v
}

func parseSaio(pl *payload, version uint8, flags uint32) *SaioBody {
	v := &SaioBody{}
	if flags&1 != 0 {
		v.AuxInfoType = pl.u32()
		v.AuxInfoTypeParameter = pl.u32()
	}
	count := pl.u32()
	stride := 4
	if version != 0 {
		stride = 8
	}
	v.Offsets = make([]uint64, 0, sliceCap(count, stride, pl.remaining()))
	for i := uint32(0); i < count; i++ {
		var off uint64
		if version == 0 {
			off = uint64(pl.u32())
		} else {
			off = pl.u64()
		}
		if !pl.ok() {
			break
		}
		v.Offsets = append(v.Offsets, off)
	}
	return v
}

func parseLeva(pl *payload) *LevaBody {
	count := int(pl.u8())
	v := &LevaBody{Levels: make([]LevaLevel, 0, count)}
	for i := 0; i < count && pl.ok(); i++ {
		var lv LevaLevel
		lv.TrackID = pl.u32()
		b := pl.u8()
		lv.PaddingFlag = b&0x80 != 0
		lv.AssignmentType = b & 0x7F
		switch lv.AssignmentType {
		case 0:
			lv.GroupingType = pl.u32()
		case 1:
			lv.GroupingType = pl.u32()
			lv.GroupingTypeParameter = pl.u32()
		case 4:
			lv.SubTrackID = pl.u32()
		}
		if !pl.ok() {
			break
		}
		v.Levels = append(v.Levels, lv)
	}
	return v
}

func parseTfhd(pl *payload, flags uint32) *TfhdBody {
	v := &TfhdBody{TrackID: pl.u32()}
	if flags&TfhdBaseDataOffsetPresent != 0 {
		v.BaseDataOffset = pl.u64()
	}
	if flags&TfhdSampleDescriptionIndexPresent != 0 {
		v.SampleDescriptionIndex = pl.u32()
	}
	if flags&TfhdDefaultSampleDurationPresent != 0 {
		v.DefaultSampleDuration = pl.u32()
	}
	if flags&TfhdDefaultSampleSizePresent != 0 {
		v.DefaultSampleSize = pl.u32()
	}
	if flags&TfhdDefaultSampleFlagsPresent != 0 {
		v.DefaultSampleFlags = pl.u32()
	}
	return v
}

func parseTfra(pl *payload, version uint8) *TfraBody {
	v := &TfraBody{TrackID: pl.u32()}
	sizes := pl.u32()
	lenTraf := int(sizes>>4&3) + 1
	lenTrun := int(sizes>>2&3) + 1
	lenSample := int(sizes&3) + 1
	count := pl.u32()
	stride := 8 + lenTraf + lenTrun + lenSample
	if version == 1 {
		stride += 8
	}
	v.Entries = make([]TfraEntry, 0, sliceCap(count, stride, pl.remaining()))
	for i := uint32(0); i < count; i++ {
		var e TfraEntry
		if version == 1 {
			e.Time = pl.u64()
			e.MoofOffset = pl.u64()
		} else {
			e.Time = uint64(pl.u32())
			e.MoofOffset = uint64(pl.u32())
		}
		e.TrafNumber = uint32(pl.uint(lenTraf))
		e.TrunNumber = uint32(pl.uint(lenTrun))
		e.SampleNumber = uint32(pl.uint(lenSample))
		if !pl.ok() {
			break
		}
		v.Entries = append(v.Entries, e)
	}
	return v
}

func parseSidx(pl *payload, version uint8) *SidxBody {
	v := &SidxBody{ReferenceID: pl.u32(), TimeScale: pl.u32()}
	if version == 0 {
		v.EarliestPresentationTime = uint64(pl.u32())
		v.FirstOffset = uint64(pl.u32())
	} else {
		v.EarliestPresentationTime = pl.u64()
		v.FirstOffset = pl.u64()
	}
	pl.skip(2)
	count := pl.u16()
	v.References = make([]SidxRef, 0, sliceCap(uint32(count), 12, pl.remaining()))
	for i := 0; i < int(count); i++ {
		var ref SidxRef
		w := pl.u32()
		ref.ReferenceType = uint8(w >> 31)
		ref.ReferenceSize = w & 0x7FFFFFFF
		ref.SubsegmentDuration = pl.u32()
		w = pl.u32()
		ref.StartsWithSAP = uint8(w >> 31)
		ref.SAPType = uint8(w >> 28 & 7)
		ref.SAPDeltaTime = w & 0x0FFFFFFF
		if !pl.ok() {
			break
		}
		v.References = append(v.References, ref)
	}
	return v
}

func parseSsix(pl *payload) *SsixBody {
	count := pl.u32()
	v := &SsixBody{Subsegments: make([]SsixSubsegment, 0, sliceCap(count, 4, pl.remaining()))}
	for i := uint32(0); i < count && pl.ok(); i++ {
		var sub SsixSubsegment
		n := pl.u32()
		sub.Ranges = make([]SsixRange, 0, sliceCap(n, 4, pl.remaining()))
		for j := uint32(0); j < n; j++ {
			rg := SsixRange{Level: pl.u8(), Size: pl.u24()}
			if !pl.ok() {
				break
			}
			sub.Ranges = append(sub.Ranges, rg)
		}
		if !pl.ok() {
			break
		}
		v.Subsegments = append(v.Subsegments, sub)
	}
	return v
}

func parsePcrb(pl *payload) *PcrbBody {
	count := pl.u32()
	v := &PcrbBody{PCRs: make([]uint64, 0, sliceCap(count, 6, pl.remaining()))}
	for i := uint32(0); i < count; i++ {
		hi := uint64(pl.u32())
		lo := uint64(pl.u16())
		if !pl.ok() {
			break
		}
		v.PCRs = append(v.PCRs, hi<<10|lo>>6)
	}
	return v
}

func parseIloc(pl *payload, version uint8) *IlocBody {
	v := &IlocBody{}
	b := pl.u8()
	v.OffsetSize = b >> 4
	v.LengthSize = b & 0xF
	b = pl.u8()
	v.BaseOffsetSize = b >> 4
	if version == 1 || version == 2 {
		v.IndexSize = b & 0xF
	}
	var count uint32
	if version == 2 {
		count = pl.u32()
	} else {
		count = uint32(pl.u16())
	}
	v.Items = make([]IlocItem, 0, sliceCap(count, 8, pl.remaining()))
	for i := uint32(0); i < count && pl.ok(); i++ {
		var it IlocItem
		if version == 2 {
			it.ItemID = pl.u32()
		} else {
			it.ItemID = uint32(pl.u16())
		}
		if version == 1 || version == 2 {
			it.ConstructionMethod = uint8(pl.u16() & 0xF)
		}
		it.DataReferenceIndex = pl.u16()
		it.BaseOffset = pl.uint(int(v.BaseOffsetSize))
		extents := int(pl.u16())
		it.Extents = make([]IlocExtent, 0, extents)
		for j := 0; j < extents && pl.ok(); j++ {
			var ext IlocExtent
			if (version == 1 || version == 2) && v.IndexSize > 0 {
				ext.Index = pl.uint(int(v.IndexSize))
			}
			ext.Offset = pl.uint(int(v.OffsetSize))
			ext.Length = pl.uint(int(v.LengthSize))
			if !pl.ok() {
				break
			}
			it.Extents = append(it.Extents, ext)
		}
		if !pl.ok() {
			break
		}
		v.Items = append(v.Items, it)
	}
	return v
}

func parseInfe(pl *payload, version uint8) *InfeBody {
	v := &InfeBody{}
	if version < 2 {
		v.ItemID = uint32(pl.u16())
		v.ItemProtectionIndex = pl.u16()
		v.ItemName = pl.cstr()
		v.ContentType = pl.cstr()
		if pl.remaining() > 0 {
			v.ContentEncoding = pl.cstr()
		}
		return v
	}
	if version == 2 {
		v.ItemID = uint32(pl.u16())
	} else {
		v.ItemID = pl.u32()
	}
	v.ItemProtectionIndex = pl.u16()
	v.ItemType = pl.u32()
	v.ItemName = pl.cstr()
	switch makeBoxType(v.ItemType) {
	case itemMime:
		v.ContentType = pl.cstr()
		if pl.remaining() > 0 {
			v.ContentEncoding = pl.cstr()
		}
	case itemURI:
		v.ContentType = pl.cstr()
	}
	return v
}

func parseIpma(pl *payload, version uint8, flags uint32) *IpmaBody {
	count := pl.u32()
	v := &IpmaBody{Entries: make([]IpmaEntry, 0, sliceCap(count, 3, pl.remaining()))}
	for i := uint32(0); i < count && pl.ok(); i++ {
		var e IpmaEntry
		if version == 0 {
			e.ItemID = uint32(pl.u16())
		} else {
			e.ItemID = pl.u32()
		}
		n := int(pl.u8())
		e.Associations = make([]IpmaAssociation, 0, n)
		for j := 0; j < n; j++ {
			var a IpmaAssociation
			if flags&1 != 0 {
				w := pl.u16()
				a.Essential = uint8(w >> 15)
				a.Index = w & 0x7FFF
			} else {
				w := pl.u8()
				a.Essential = w >> 7
				a.Index = uint16(w & 0x7F)
			}
			if !pl.ok() {
				break
			}
			e.Associations = append(e.Associations, a)
		}
		if !pl.ok() {
			break
		}
		v.Entries = append(v.Entries, e)
	}
	return v
}

func parsePssh(pl *payload, version uint8) *PsshBody {
	v := &PsshBody{SystemID: pl.uuidVal()}
	if version > 0 {
		count := pl.u32()
		v.KIDs = make([]uuid.UUID, 0, sliceCap(count, 16, pl.remaining()))
		for i := uint32(0); i < count; i++ {
			kid := pl.uuidVal()
			if !pl.ok() {
				break
			}
			v.KIDs = append(v.KIDs, kid)
		}
	}
	size := int(pl.u32())
	if pl.ok() && size <= pl.remaining() {
		v.Data = pl.bytes(size)
	}
	return v
}

func (p *parser) tenc(pl *payload, version uint8) *TencBody {
	v := &TencBody{}
	pl.skip(1) // reserved
	if version == 0 {
		pl.skip(1)
	} else {
		b := pl.u8()
		v.CryptByteBlock = b >> 4
		v.SkipByteBlock = b & 0xF
	}
	v.IsProtected = uint32(pl.u8())
	v.PerSampleIVSize = pl.u8()
	v.KID = pl.uuidVal()
	if v.IsProtected == 1 && v.PerSampleIVSize == 0 {
		n := int(pl.u8())
		v.ConstantIVSize = uint8(n)
		v.ConstantIV = pl.bytes(n)
	}
	if v.PerSampleIVSize > 0 && v.PerSampleIVSize <= 16 {
		p.ivSize = v.PerSampleIVSize
	}
	return v
}

// sencSamples decodes sample encryption entries shared by senc and the PIFF
// psec box. The IV size comes from the box when given, otherwise from the
// most recent tenc, defaulting to the PIFF size of 8.
func (p *parser) sencSamples(pl *payload, count uint32, ivSize int, flags uint32) []SencSample {
	if ivSize <= 0 || ivSize > 16 {
		ivSize = int(p.ivSize)
		if ivSize <= 0 || ivSize > 16 {
			ivSize = 8
		}
	}
	samples := make([]SencSample, 0, sliceCap(count, ivSize, pl.remaining()))
	for i := uint32(0); i < count; i++ {
		var s SencSample
		copy(s.IV[:], pl.bytes(ivSize))
		if flags&2 != 0 {
			n := int(pl.u16())
			for j := 0; j < n && pl.ok(); j++ {
				sub := SencSubsample{ClearBytes: pl.u16(), EncryptedBytes: pl.u32()}
				if !pl.ok() {
					break
				}
				s.Subsamples = append(s.Subsamples, sub)
			}
		}
		if !pl.ok() {
			break
		}
		samples = append(samples, s)
	}
	return samples
}

// uuidBox routes extended-type boxes to the PIFF payloads. The version and
// flags sit at the start of the payload since uuid is not a full box at the
// reader level.
func (p *parser) uuidBox(r *Reader, b *Box) {
	pl := newPayload(r.Data())
	switch b.UserType {
	case UUIDTenc:
		b.Version = pl.u8()
		b.Flags = pl.u24()
		v := &PiffTencBody{AlgorithmID: pl.u24(), IVSize: pl.u8(), KID: pl.uuidVal()}
		if v.IVSize > 0 && v.IVSize <= 16 {
			p.ivSize = v.IVSize
		}
		b.Body = v
	case UUIDPsec:
		b.Version = pl.u8()
		b.Flags = pl.u24()
		v := &PiffPsecBody{}
		ivSize := 0
		if b.Flags&1 != 0 {
			v.AlgorithmID = pl.u24()
			v.IVSize = pl.u8()
			v.KID = pl.uuidVal()
			ivSize = int(v.IVSize)
		}
		count := pl.u32()
		v.Samples = p.sencSamples(pl, count, ivSize, b.Flags)
		b.Body = v
	case UUIDPssh:
		b.Version = pl.u8()
		b.Flags = pl.u24()
		v := &PiffPsshBody{SystemID: pl.uuidVal()}
		size := int(pl.u32())
		if pl.ok() && size <= pl.remaining() {
			v.Data = pl.bytes(size)
		}
		b.Body = v
	case UUIDTfxd:
		b.Version = pl.u8()
		b.Flags = pl.u24()
		v := &TfxdBody{}
		if b.Version == 1 {
			v.AbsoluteTime = pl.u64()
			v.Duration = pl.u64()
		} else {
			v.AbsoluteTime = uint64(pl.u32())
			v.Duration = uint64(pl.u32())
		}
		b.Body = v
	default:
		b.Body = &UnknownBody{Data: pl.rest()}
	}
}

func parseAvcC(pl *payload, svc bool) *AvcCBody {
	if pl.remaining() < 6 {
		return nil
	}
	v := &AvcCBody{}
	v.ConfigurationVersion = pl.u8()
	v.AVCProfileIndication = pl.u8()
	v.ProfileCompatibility = pl.u8()
	v.AVCLevelIndication = pl.u8()
	b := pl.u8()
	if svc {
		v.CompleteRepresentation = b >> 7
	}
	v.NALUnitSize = b&3 + 1
	count := int(pl.u8() & 0x1F)
	for i := 0; i < count && pl.ok(); i++ {
		sps := pl.bytes(int(pl.u16()))
		if sps == nil {
			break
		}
		v.SPS = append(v.SPS, sps)
	}
	count = int(pl.u8())
	for i := 0; i < count && pl.ok(); i++ {
		pps := pl.bytes(int(pl.u16()))
		if pps == nil {
			break
		}
		v.PPS = append(v.PPS, pps)
	}
	if !svc && isRextProfile(v.AVCProfileIndication) && pl.remaining() >= 4 {
		v.ChromaFormat = pl.u8() & 3
		v.LumaBitDepth = pl.u8()&7 + 8
		v.ChromaBitDepth = pl.u8()&7 + 8
		count = int(pl.u8())
		for i := 0; i < count && pl.ok(); i++ {
			ext := pl.bytes(int(pl.u16()))
			if ext == nil {
				break
			}
			v.SPSExt = append(v.SPSExt, ext)
		}
	}
	return v
}
