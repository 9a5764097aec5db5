package isodump

// renderFunc writes one box and its children to the trace.
type renderFunc func(tr *trace, b *Box)

// boxDef is one entry of the dispatch table. alt carries a secondary
// identity (track/item reference kind, track group type or sample grouping
// type) used when synthesizing schema boxes; maxVersion and flags seed the
// synthesized full box so that every optional field shows up.
type boxDef struct {
	typ        BoxType
	render     renderFunc
	alt        BoxType
	maxVersion uint8
	flags      uint32
}

// boxDefs lists every box the dumper understands. Order matters: resolution
// takes the first entry for a given type, later entries with the same type
// exist only for schema enumeration.
var boxDefs = []boxDef{
	{typ: TypeUnkn, render: renderUnknown},

	{typ: TypeReft, render: renderTrackRefType, alt: RefMpod},
	{typ: TypeReft, render: renderTrackRefType, alt: RefDpnd},
	{typ: TypeReft, render: renderTrackRefType, alt: RefSync},
	{typ: TypeReft, render: renderTrackRefType, alt: RefIpir},
	{typ: TypeReft, render: renderTrackRefType, alt: RefCdsc},
	{typ: TypeReft, render: renderTrackRefType, alt: RefHint},
	{typ: TypeReft, render: renderTrackRefType, alt: RefChap},
	{typ: TypeReft, render: renderTrackRefType, alt: RefBase},
	{typ: TypeReft, render: renderTrackRefType, alt: RefScal},
	{typ: TypeReft, render: renderTrackRefType, alt: RefTbas},
	{typ: TypeReft, render: renderTrackRefType, alt: RefSabt},
	{typ: TypeReft, render: renderTrackRefType, alt: RefOref},
	{typ: TypeReft, render: renderTrackRefType, alt: RefFont},
	{typ: TypeReft, render: renderTrackRefType, alt: RefHind},
	{typ: TypeReft, render: renderTrackRefType, alt: RefVdep},
	{typ: TypeReft, render: renderTrackRefType, alt: RefVplx},
	{typ: TypeReft, render: renderTrackRefType, alt: RefSubt},

	{typ: TypeRefi, render: renderItemRefType, alt: RefTbas},
	{typ: TypeRefi, render: renderItemRefType, alt: TypeIloc},

	{typ: TypeFree, render: renderFree},
	{typ: TypeSkip, render: renderFree},
	{typ: TypeMdat, render: renderMdat},
	{typ: TypeMoov, render: renderMoov},
	{typ: TypeMvhd, render: renderMvhd, maxVersion: 1},
	{typ: TypeMdhd, render: renderMdhd, maxVersion: 1},
	{typ: TypeVmhd, render: renderVmhd},
	{typ: TypeSmhd, render: renderSmhd},
	{typ: TypeHmhd, render: renderHmhd},
	// the same header box serves all MPEG-4 systems streams
	{typ: TypeOdhd, render: renderNmhd},
	{typ: TypeCrhd, render: renderNmhd},
	{typ: TypeSdhd, render: renderNmhd},
	{typ: TypeNmhd, render: renderNmhd},
	{typ: TypeSthd, render: renderNmhd},
	{typ: TypeStbl, render: renderStbl},
	{typ: TypeDinf, render: renderDinf},
	{typ: TypeUrl, render: renderURL},
	{typ: TypeUrn, render: renderURN},
	{typ: TypeCprt, render: renderCprt, maxVersion: 1},
	{typ: TypeKind, render: renderKind},
	{typ: TypeHdlr, render: renderHdlr},
	{typ: TypeIods, render: renderIods},
	{typ: TypeTrak, render: renderTrak},
	{typ: TypeMp4s, render: renderMp4s},
	{typ: TypeMp4v, render: renderMp4v},
	{typ: TypeMp4a, render: renderMp4a},
	{typ: TypeGnrm, render: renderGnrm},
	{typ: TypeGnrv, render: renderGnrv},
	{typ: TypeGnra, render: renderGnra},
	{typ: TypeEdts, render: renderEdts},
	{typ: TypeUdta, render: renderUdta},
	{typ: TypeDref, render: renderDref},
	{typ: TypeStsd, render: renderStsd},
	{typ: TypeStts, render: renderStts},
	{typ: TypeCtts, render: renderCtts, maxVersion: 1},
	{typ: TypeCslg, render: renderCslg, maxVersion: 1},
	{typ: TypeStsh, render: renderStsh},
	{typ: TypeElst, render: renderElst, maxVersion: 1},
	{typ: TypeStsc, render: renderStsc},
	{typ: TypeStz2, render: renderStsz},
	{typ: TypeStsz, render: renderStsz},
	{typ: TypeStco, render: renderStco},
	{typ: TypeStss, render: renderStss},
	{typ: TypeStdp, render: renderStdp},
	{typ: TypeSdtp, render: renderSdtp},
	{typ: TypeCo64, render: renderCo64},
	{typ: TypeEsds, render: renderEsds},
	{typ: TypeMinf, render: renderMinf},
	{typ: TypeTkhd, render: renderTkhd, maxVersion: 1},
	{typ: TypeTref, render: renderTref},
	{typ: TypeMdia, render: renderMdia},
	{typ: TypeMfra, render: renderMfra},
	{typ: TypeTfra, render: renderTfra, maxVersion: 1},
	{typ: TypeElng, render: renderElng},
	{typ: TypeChpl, render: renderChpl},
	{typ: TypePdin, render: renderPdin},
	{typ: TypeSbgp, render: renderSbgp, maxVersion: 1},
	{typ: TypeSgpd, render: renderSgpd, maxVersion: 2},

	{typ: TypeSgpd, render: renderSgpd, alt: GroupRoll},
	{typ: TypeSgpd, render: renderSgpd, alt: GroupSeig},
	{typ: TypeSgpd, render: renderSgpd, alt: GroupOinf},
	{typ: TypeSgpd, render: renderSgpd, alt: GroupLinf},
	{typ: TypeSgpd, render: renderSgpd, alt: GroupTrif},
	{typ: TypeSgpd, render: renderSgpd, alt: GroupNalm},

	{typ: TypeSaiz, render: renderSaiz},
	{typ: TypeSaiz, render: renderSaiz, flags: 1},
	{typ: TypeSaio, render: renderSaio},
	{typ: TypeSaio, render: renderSaio, flags: 1},

	{typ: TypeFtyp, render: renderFtyp},
	{typ: TypeStyp, render: renderFtyp},
	{typ: TypePadb, render: renderPadb},

	{typ: TypeMvex, render: renderMvex},
	{typ: TypeMehd, render: renderMehd, maxVersion: 1},
	{typ: TypeTrex, render: renderTrex},
	{typ: TypeTrep, render: renderTrep},
	{typ: TypeMoof, render: renderMoof},
	{typ: TypeMfhd, render: renderMfhd},
	{typ: TypeTraf, render: renderTraf},
	// fragment headers and runs are dumped with all flags on
	{typ: TypeTfhd, render: renderTfhd, flags: TfhdBaseDataOffsetPresent |
		TfhdSampleDescriptionIndexPresent | TfhdDefaultSampleDurationPresent |
		TfhdDefaultSampleSizePresent | TfhdDefaultSampleFlagsPresent |
		TfhdDurationIsEmpty | TfhdDefaultBaseIsMoof},
	{typ: TypeTrun, render: renderTrun, flags: TrunDataOffsetPresent |
		TrunFirstSampleFlagsPresent | TrunSampleDurationPresent |
		TrunSampleSizePresent | TrunSampleFlagsPresent |
		TrunSampleCompositionTimeOffsetPresent},
	{typ: TypeTfdt, render: renderTfdt, maxVersion: 1},

	{typ: TypeSubs, render: renderSubs, maxVersion: 1},
	{typ: TypeTrgr, render: renderTrgr},
	{typ: TypeTrgt, render: renderTrackGroupType, alt: GroupMsrc},
	{typ: TypeVoid, render: renderVoid},
	{typ: TypeAvcC, render: renderAvcC},
	{typ: TypeSvcC, render: renderAvcC},
	{typ: TypeBtrt, render: renderBtrt},
	{typ: TypeAvc1, render: renderMp4v},
	{typ: TypeAvc2, render: renderMp4v},
	{typ: TypeAvc3, render: renderMp4v},
	{typ: TypeAvc4, render: renderMp4v},
	{typ: TypeSvc1, render: renderMp4v},
	{typ: TypeHvc1, render: renderMp4v},
	{typ: TypeHev1, render: renderMp4v},
	{typ: TypeHvc2, render: renderMp4v},
	{typ: TypeHev2, render: renderMp4v},
	{typ: TypeLhv1, render: renderMp4v},
	{typ: TypeLhe1, render: renderMp4v},
	{typ: TypeHvt1, render: renderMp4v},
	{typ: TypePasp, render: renderPasp},

	{typ: TypePssh, render: renderPssh},
	{typ: TypeTenc, render: renderTenc},

	{typ: TypeMeta, render: renderMeta},
	{typ: TypeXml, render: renderXML},
	{typ: TypeBxml, render: renderBxml},
	{typ: TypeIloc, render: renderIloc, maxVersion: 2},
	{typ: TypePitm, render: renderPitm, maxVersion: 1},
	{typ: TypeIpro, render: renderIpro},
	{typ: TypeInfe, render: renderInfe, maxVersion: 1},
	{typ: TypeInfe, render: renderInfe, maxVersion: 2},
	{typ: TypeIinf, render: renderIinf, maxVersion: 1},
	{typ: TypeIref, render: renderIref, maxVersion: 1},
	{typ: TypeSinf, render: renderSinf},
	{typ: TypeFrma, render: renderFrma},
	{typ: TypeSchm, render: renderSchm, flags: 1},
	{typ: TypeSchi, render: renderSchi},
	{typ: TypeEnca, render: renderMp4a},
	{typ: TypeEncv, render: renderMp4v},
	{typ: TypeEncs, render: renderMp4s},
	{typ: TypePrft, render: renderPrft, maxVersion: 1},

	{typ: TypeTsel, render: renderTsel},
	{typ: TypeSidx, render: renderSidx, maxVersion: 1},
	{typ: TypeSsix, render: renderSsix},
	{typ: TypeLeva, render: renderLeva},
	{typ: TypePcrb, render: renderPcrb},
	{typ: TypeSenc, render: renderSenc},
	{typ: TypeUUID, render: renderUUIDBox},

	{typ: TypeIspe, render: renderIspe},
	{typ: TypeColr, render: renderColr},
	{typ: TypePixi, render: renderPixi},
	{typ: TypeRloc, render: renderRloc},
	{typ: TypeIrot, render: renderIrot},
	{typ: TypeIpco, render: renderIpco},
	{typ: TypeIprp, render: renderIprp},
	{typ: TypeIpma, render: renderIpma},
	{typ: TypeGrpl, render: renderGrpl},
}

// renderers resolves a box type to its renderer. Built once from boxDefs;
// the first entry for a type wins.
var renderers map[BoxType]renderFunc

func init() {
	renderers = make(map[BoxType]renderFunc, len(boxDefs))
	for _, d := range boxDefs {
		if _, ok := renderers[d.typ]; !ok {
			renderers[d.typ] = d.render
		}
	}
}

// NumSupportedBoxes returns the number of entries in the dispatch table.
func NumSupportedBoxes() int {
	return len(boxDefs)
}

// SupportedBoxType returns the primary box type of table entry i.
func SupportedBoxType(i int) BoxType {
	return boxDefs[i].typ
}

// SupportedBox describes one dispatch table entry for tooling.
type SupportedBox struct {
	Type       BoxType
	Variant    BoxType // reference kind, group type or grouping type; zero otherwise
	MaxVersion uint8
	Flags      uint32
}

// SupportedBoxInfo returns a copy of dispatch table entry i.
func SupportedBoxInfo(i int) SupportedBox {
	d := boxDefs[i]
	return SupportedBox{Type: d.typ, Variant: d.alt, MaxVersion: d.maxVersion, Flags: d.flags}
}
