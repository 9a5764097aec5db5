package isodump

// Movie-level containers and the media headers.

func renderMoov(tr *trace, b *Box) {
	openBox(tr, b, "MovieBox")
	tr.end()
	p := body[MoovBody](b)
	dumpOptional(tr, p.Iods)
	dumpOptional(tr, p.Meta)
	if b.Size > 0 {
		dumpExpected(tr, p.Mvhd, TypeMvhd)
	}
	dumpOptional(tr, p.Mvex)
	dumpList(tr, p.Traks)
	dumpOptional(tr, p.Udta)
	closeBox(tr, b, "MovieBox")
}

func renderTrak(tr *trace, b *Box) {
	openBox(tr, b, "TrackBox")
	tr.end()
	p := body[TrakBody](b)
	if p.Tkhd != nil {
		dumpBox(tr, p.Tkhd)
	} else if b.Size > 0 {
		tr.comment("<!--INVALID FILE: Missing Track Header-->")
	}
	dumpOptional(tr, p.Tref)
	dumpOptional(tr, p.Meta)
	dumpOptional(tr, p.Edts)
	dumpOptional(tr, p.Mdia)
	dumpOptional(tr, p.Trgr)
	dumpOptional(tr, p.Udta)
	closeBox(tr, b, "TrackBox")
}

func renderEdts(tr *trace, b *Box) {
	openBox(tr, b, "EditBox")
	tr.end()
	if b.Size > 0 {
		dumpExpected(tr, body[EdtsBody](b).Elst, TypeElst)
	}
	closeBox(tr, b, "EditBox")
}

func renderMdia(tr *trace, b *Box) {
	openBox(tr, b, "MediaBox")
	tr.end()
	p := body[MdiaBody](b)
	if b.Size > 0 {
		dumpExpected(tr, p.Mdhd, TypeMdhd)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Hdlr, TypeHdlr)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Minf, TypeMinf)
	}
	closeBox(tr, b, "MediaBox")
}

func renderMinf(tr *trace, b *Box) {
	openBox(tr, b, "MediaInformationBox")
	tr.end()
	p := body[MinfBody](b)
	if b.Size > 0 {
		dumpExpected(tr, p.InfoHeader, TypeNmhd)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Dinf, TypeDinf)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Stbl, TypeStbl)
	}
	closeBox(tr, b, "MediaInformationBox")
}

func renderDinf(tr *trace, b *Box) {
	openBox(tr, b, "DataInformationBox")
	tr.end()
	if b.Size > 0 {
		dumpExpected(tr, body[DinfBody](b).Dref, TypeDref)
	}
	closeBox(tr, b, "DataInformationBox")
}

func renderStbl(tr *trace, b *Box) {
	openBox(tr, b, "SampleTableBox")
	tr.end()
	p := body[StblBody](b)
	if b.Size > 0 {
		dumpExpected(tr, p.Stsd, TypeStsd)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Stts, TypeStts)
	}
	dumpOptional(tr, p.Ctts)
	dumpOptional(tr, p.Cslg)
	dumpOptional(tr, p.Stss)
	dumpOptional(tr, p.Stsh)
	if b.Size > 0 {
		dumpExpected(tr, p.Stsc, TypeStsc)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Stsz, TypeStsz)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Stco, TypeStco)
	}
	dumpOptional(tr, p.Stdp)
	dumpOptional(tr, p.Sdtp)
	dumpOptional(tr, p.Padb)
	dumpList(tr, p.Subs)
	dumpList(tr, p.Sgpd)
	dumpList(tr, p.Sbgp)
	dumpList(tr, p.Saiz)
	dumpList(tr, p.Saio)
	closeBox(tr, b, "SampleTableBox")
}

func renderUdta(tr *trace, b *Box) {
	openBox(tr, b, "UserDataBox")
	tr.end()
	dumpList(tr, body[UdtaBody](b).Children)
	closeBox(tr, b, "UserDataBox")
}

func renderTref(tr *trace, b *Box) {
	openBox(tr, b, "TrackReferenceBox")
	tr.end()
	closeBox(tr, b, "TrackReferenceBox")
}

func renderTrgr(tr *trace, b *Box) {
	openBox(tr, b, "TrackGroupBox")
	tr.end()
	dumpList(tr, body[TrgrBody](b).Groups)
	closeBox(tr, b, "TrackGroupBox")
}

func renderMvhd(tr *trace, b *Box) {
	openBox(tr, b, "MovieHeaderBox")
	fullBoxAttrs(tr, b)
	p := body[MvhdBody](b)
	tr.attrf("CreationTime", "%d", int64(p.CreationTime))
	tr.attrf("ModificationTime", "%d", int64(p.ModificationTime))
	tr.attrf("TimeScale", "%d", p.TimeScale)
	tr.attrf("Duration", "%d", int64(p.Duration))
	tr.attrf("NextTrackID", "%d", p.NextTrackID)
	tr.end()
	closeBox(tr, b, "MovieHeaderBox")
}

func renderMdhd(tr *trace, b *Box) {
	openBox(tr, b, "MediaHeaderBox")
	fullBoxAttrs(tr, b)
	p := body[MdhdBody](b)
	tr.attrf("CreationTime", "%d", int64(p.CreationTime))
	tr.attrf("ModificationTime", "%d", int64(p.ModificationTime))
	tr.attrf("TimeScale", "%d", p.TimeScale)
	tr.attrf("Duration", "%d", int64(p.Duration))
	tr.attrf("LanguageCode", "%s", langCode(p.Language))
	tr.end()
	closeBox(tr, b, "MediaHeaderBox")
}

// langCode unpacks an ISO 639-2/T language code into its three letters.
func langCode(packed uint16) string {
	return string([]byte{
		0x60 + byte(packed>>10&0x1f),
		0x60 + byte(packed>>5&0x1f),
		0x60 + byte(packed&0x1f),
	})
}

func renderTkhd(tr *trace, b *Box) {
	openBox(tr, b, "TrackHeaderBox")
	fullBoxAttrs(tr, b)
	p := body[TkhdBody](b)
	tr.attrf("CreationTime", "%d", int64(p.CreationTime))
	tr.attrf("ModificationTime", "%d", int64(p.ModificationTime))
	tr.attrf("TrackID", "%d", p.TrackID)
	tr.attrf("Duration", "%d", int64(p.Duration))
	if p.AlternateGroup != 0 {
		tr.attrf("AlternateGroupID", "%d", p.AlternateGroup)
	}
	if p.Volume != 0 {
		tr.attrf("Volume", "%.2f", float64(p.Volume)/256)
	} else if p.Width != 0 || p.Height != 0 {
		tr.attrf("Width", "%.2f", float64(p.Width)/65536)
		tr.attrf("Height", "%.2f", float64(p.Height)/65536)
		if p.Layer != 0 {
			tr.attrf("Layer", "%d", p.Layer)
		}
	}
	tr.end()
	if p.Width != 0 || p.Height != 0 {
		tr.start("Matrix")
		tr.attrf("m11", "0x%.8x", p.Matrix[0])
		tr.attrf("m12", "0x%.8x", p.Matrix[1])
		tr.attrf("m13", "0x%.8x", p.Matrix[2])
		tr.attrf("m21", "0x%.8x", p.Matrix[3])
		tr.attrf("m22", "0x%.8x", p.Matrix[4])
		tr.attrf("m23", "0x%.8x", p.Matrix[5])
		tr.attrf("m31", "0x%.8x", p.Matrix[6])
		tr.attrf("m32", "0x%.8x", p.Matrix[7])
		tr.attrf("m33", "0x%.8x", p.Matrix[8])
		tr.selfEnd()
	}
	closeBox(tr, b, "TrackHeaderBox")
}

func renderVmhd(tr *trace, b *Box) {
	openBox(tr, b, "VideoMediaHeaderBox")
	fullBoxAttrs(tr, b)
	tr.end()
	closeBox(tr, b, "VideoMediaHeaderBox")
}

func renderSmhd(tr *trace, b *Box) {
	openBox(tr, b, "SoundMediaHeaderBox")
	fullBoxAttrs(tr, b)
	tr.end()
	closeBox(tr, b, "SoundMediaHeaderBox")
}

func renderHmhd(tr *trace, b *Box) {
	openBox(tr, b, "HintMediaHeaderBox")
	fullBoxAttrs(tr, b)
	p := body[HmhdBody](b)
	tr.attrf("MaximumPDUSize", "%d", p.MaxPDUSize)
	tr.attrf("AveragePDUSize", "%d", p.AvgPDUSize)
	tr.attrf("MaxBitRate", "%d", p.MaxBitrate)
	tr.attrf("AverageBitRate", "%d", p.AvgBitrate)
	tr.end()
	closeBox(tr, b, "HintMediaHeaderBox")
}

// renderNmhd also serves the odhd, crhd, sdhd and sthd aliases.
func renderNmhd(tr *trace, b *Box) {
	openBox(tr, b, "MPEGMediaHeaderBox")
	fullBoxAttrs(tr, b)
	tr.end()
	closeBox(tr, b, "MPEGMediaHeaderBox")
}

func renderHdlr(tr *trace, b *Box) {
	openBox(tr, b, "HandlerBox")
	fullBoxAttrs(tr, b)
	p := body[HdlrBody](b)
	tr.attrf("hdlrType", "%s", p.HandlerType)
	// some writers store the name as a Pascal string
	if len(p.Name) > 0 && int(p.Name[0]) == len(p.Name)-1 {
		tr.attr("Name", p.Name[1:])
	} else {
		tr.attr("Name", p.Name)
	}
	tr.attrf("reserved1", "%d", p.Reserved1)
	tr.attrData("reserved2", p.Reserved2[:])
	tr.end()
	closeBox(tr, b, "HandlerBox")
}

func renderElng(tr *trace, b *Box) {
	openBox(tr, b, "ExtendedLanguageBox")
	tr.attr("LanguageCode", body[ElngBody](b).Language)
	tr.end()
	closeBox(tr, b, "ExtendedLanguageBox")
}
