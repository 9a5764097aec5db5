package isodump

// Movie fragments, segment indexing and random access.

// Sample flag field extractors shared by the trex, tfhd and trun dumps.
// Sync is stored inverted on the wire (sample_is_non_sync_sample).
func fragLeading(f uint32) uint32     { return f >> 26 & 0x3 }
func fragDependsOn(f uint32) uint32   { return f >> 24 & 0x3 }
func fragDependedOn(f uint32) uint32  { return f >> 22 & 0x3 }
func fragRedundancy(f uint32) uint32  { return f >> 20 & 0x3 }
func fragPadding(f uint32) uint32     { return f >> 17 & 0x7 }
func fragSync(f uint32) uint32        { return 1 - (f >> 16 & 0x1) }
func fragDegradation(f uint32) uint32 { return f & 0xFFFF }

func sampleFlagsEl(tr *trace, name string, f uint32) {
	tr.start(name)
	tr.attrf("IsLeading", "%d", fragLeading(f))
	tr.attrf("SampleDependsOn", "%d", fragDependsOn(f))
	tr.attrf("SampleIsDependedOn", "%d", fragDependedOn(f))
	tr.attrf("SampleHasRedundancy", "%d", fragRedundancy(f))
	tr.attrf("SamplePadding", "%d", fragPadding(f))
	tr.attrf("SampleSync", "%d", fragSync(f))
	tr.attrf("SampleDegradationPriority", "%d", fragDegradation(f))
	tr.selfEnd()
}

func fragFlagsAttrs(tr *trace, f uint32) {
	tr.attrf("SamplePadding", "%d", fragPadding(f))
	tr.attrf("Sync", "%d", fragSync(f))
	tr.attrf("DegradationPriority", "%d", fragDegradation(f))
	tr.attrf("IsLeading", "%d", fragLeading(f))
	tr.attrf("DependsOn", "%d", fragDependsOn(f))
	tr.attrf("IsDependedOn", "%d", fragDependedOn(f))
	tr.attrf("HasRedundancy", "%d", fragRedundancy(f))
}

func renderMvex(tr *trace, b *Box) {
	openBox(tr, b, "MovieExtendsBox")
	tr.end()
	p := body[MvexBody](b)
	dumpOptional(tr, p.Mehd)
	dumpList(tr, p.Trexs)
	dumpList(tr, p.Treps)
	closeBox(tr, b, "MovieExtendsBox")
}

func renderMehd(tr *trace, b *Box) {
	openBox(tr, b, "MovieExtendsHeaderBox")
	fullBoxAttrs(tr, b)
	tr.attrf("fragmentDuration", "%d", int64(body[MehdBody](b).FragmentDuration))
	tr.end()
	closeBox(tr, b, "MovieExtendsHeaderBox")
}

func renderTrex(tr *trace, b *Box) {
	openBox(tr, b, "TrackExtendsBox")
	fullBoxAttrs(tr, b)
	p := body[TrexBody](b)
	tr.attrf("TrackID", "%d", p.TrackID)
	tr.attrf("SampleDescriptionIndex", "%d", p.SampleDescriptionIndex)
	tr.attrf("SampleDuration", "%d", p.SampleDuration)
	tr.attrf("SampleSize", "%d", p.SampleSize)
	tr.end()
	sampleFlagsEl(tr, "DefaultSampleFlags", p.SampleFlags)
	closeBox(tr, b, "TrackExtendsBox")
}

func renderTrep(tr *trace, b *Box) {
	openBox(tr, b, "TrackExtensionPropertiesBox")
	fullBoxAttrs(tr, b)
	tr.attrf("TrackID", "%d", body[TrepBody](b).TrackID)
	tr.end()
	closeBox(tr, b, "TrackExtensionPropertiesBox")
}

func renderMoof(tr *trace, b *Box) {
	openBox(tr, b, "MovieFragmentBox")
	p := body[MoofBody](b)
	tr.attrf("TrackFragments", "%d", len(p.Trafs))
	tr.end()
	dumpOptional(tr, p.Mfhd)
	dumpList(tr, p.Trafs)
	closeBox(tr, b, "MovieFragmentBox")
}

func renderMfhd(tr *trace, b *Box) {
	openBox(tr, b, "MovieFragmentHeaderBox")
	fullBoxAttrs(tr, b)
	tr.attrf("FragmentSequenceNumber", "%d", body[MfhdBody](b).SequenceNumber)
	tr.end()
	closeBox(tr, b, "MovieFragmentHeaderBox")
}

func renderTraf(tr *trace, b *Box) {
	openBox(tr, b, "TrackFragmentBox")
	tr.end()
	p := body[TrafBody](b)
	dumpOptional(tr, p.Tfhd)
	dumpOptional(tr, p.Sdtp)
	dumpOptional(tr, p.Tfdt)
	dumpList(tr, p.Subs)
	dumpList(tr, p.Sgpd)
	dumpList(tr, p.Sbgp)
	dumpList(tr, p.Truns)
	dumpList(tr, p.Saiz)
	dumpList(tr, p.Saio)
	dumpOptional(tr, p.PiffPsec)
	dumpOptional(tr, p.Senc)
	closeBox(tr, b, "TrackFragmentBox")
}

func renderTfhd(tr *trace, b *Box) {
	openBox(tr, b, "TrackFragmentHeaderBox")
	fullBoxAttrs(tr, b)
	p := body[TfhdBody](b)
	tr.attrf("TrackID", "%d", p.TrackID)
	if b.Flags&TfhdBaseDataOffsetPresent != 0 {
		tr.attrf("BaseDataOffset", "%d", p.BaseDataOffset)
	} else if b.Flags&TfhdDefaultBaseIsMoof != 0 {
		tr.attr("BaseDataOffset", "moof")
	} else {
		tr.attr("BaseDataOffset", "moof-or-previous-traf")
	}
	if b.Flags&TfhdSampleDescriptionIndexPresent != 0 {
		tr.attrf("SampleDescriptionIndex", "%d", p.SampleDescriptionIndex)
	}
	if b.Flags&TfhdDefaultSampleDurationPresent != 0 {
		tr.attrf("SampleDuration", "%d", p.DefaultSampleDuration)
	}
	if b.Flags&TfhdDefaultSampleSizePresent != 0 {
		tr.attrf("SampleSize", "%d", p.DefaultSampleSize)
	}
	if b.Flags&TfhdDefaultSampleFlagsPresent != 0 {
		fragFlagsAttrs(tr, p.DefaultSampleFlags)
	}
	tr.end()
	closeBox(tr, b, "TrackFragmentHeaderBox")
}

func renderTrun(tr *trace, b *Box) {
	openBox(tr, b, "TrackRunBox")
	fullBoxAttrs(tr, b)
	p := body[TrunBody](b)
	tr.attrf("SampleCount", "%d", p.SampleCount)
	if b.Flags&TrunDataOffsetPresent != 0 {
		tr.attrf("DataOffset", "%d", p.DataOffset)
	}
	tr.end()
	if b.Flags&TrunFirstSampleFlagsPresent != 0 {
		sampleFlagsEl(tr, "FirstSampleFlags", p.FirstSampleFlags)
	}
	perSample := uint32(TrunSampleDurationPresent | TrunSampleSizePresent |
		TrunSampleCompositionTimeOffsetPresent | TrunSampleFlagsPresent)
	if b.Flags&perSample != 0 {
		for _, ent := range p.Entries {
			tr.start("TrackRunEntry")
			if b.Flags&TrunSampleDurationPresent != 0 {
				tr.attrf("Duration", "%d", ent.Duration)
			}
			if b.Flags&TrunSampleSizePresent != 0 {
				tr.attrf("Size", "%d", ent.Size)
			}
			if b.Flags&TrunSampleCompositionTimeOffsetPresent != 0 {
				if b.Version == 0 {
					tr.attrf("CTSOffset", "%d", ent.CTSOffset)
				} else {
					tr.attrf("CTSOffset", "%d", int32(ent.CTSOffset))
				}
			}
			if b.Flags&TrunSampleFlagsPresent != 0 {
				fragFlagsAttrs(tr, ent.Flags)
			}
			tr.selfEnd()
		}
	} else if b.Size > 0 {
		tr.comment("<!-- all default values used -->")
	} else {
		tr.start("TrackRunEntry")
		tr.attr("Duration", "")
		tr.attr("Size", "")
		tr.attr("CTSOffset", "")
		fragFlagsAttrs(tr, 0)
		tr.selfEnd()
	}
	closeBox(tr, b, "TrackRunBox")
}

func renderTfdt(tr *trace, b *Box) {
	openBox(tr, b, "TrackFragmentBaseMediaDecodeTimeBox")
	fullBoxAttrs(tr, b)
	tr.attrf("baseMediaDecodeTime", "%d", int64(body[TfdtBody](b).BaseMediaDecodeTime))
	tr.end()
	closeBox(tr, b, "TrackFragmentBaseMediaDecodeTimeBox")
}

func renderMfra(tr *trace, b *Box) {
	openBox(tr, b, "MovieFragmentRandomAccessBox")
	tr.end()
	for _, t := range body[MfraBody](b).Tfras {
		dumpExpected(tr, t, TypeTfra)
	}
	closeBox(tr, b, "MovieFragmentRandomAccessBox")
}

func renderTfra(tr *trace, b *Box) {
	openBox(tr, b, "TrackFragmentRandomAccessBox")
	p := body[TfraBody](b)
	tr.attrf("TrackId", "%d", p.TrackID)
	tr.attrf("number_of_entries", "%d", len(p.Entries))
	tr.end()
	for _, e := range p.Entries {
		tr.start("RandomAccessEntry")
		tr.attrf("time", "%d", e.Time)
		tr.attrf("moof_offset", "%d", e.MoofOffset)
		tr.attrf("traf", "%d", e.TrafNumber)
		tr.attrf("trun", "%d", e.TrunNumber)
		tr.attrf("sample", "%d", e.SampleNumber)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("RandomAccessEntry")
		tr.attr("time", "")
		tr.attr("moof_offset", "")
		tr.attr("traf", "")
		tr.attr("trun", "")
		tr.attr("sample", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "TrackFragmentRandomAccessBox")
}

func renderSidx(tr *trace, b *Box) {
	openBox(tr, b, "SegmentIndexBox")
	p := body[SidxBody](b)
	tr.attrf("reference_ID", "%d", p.ReferenceID)
	tr.attrf("timescale", "%d", p.TimeScale)
	tr.attrf("earliest_presentation_time", "%d", int64(p.EarliestPresentationTime))
	tr.attrf("first_offset", "%d", int64(p.FirstOffset))
	fullBoxAttrs(tr, b)
	tr.end()
	for _, r := range p.References {
		tr.start("Reference")
		tr.attrf("type", "%d", r.ReferenceType)
		tr.attrf("size", "%d", r.ReferenceSize)
		tr.attrf("duration", "%d", r.SubsegmentDuration)
		tr.attrf("startsWithSAP", "%d", r.StartsWithSAP)
		tr.attrf("SAP_type", "%d", r.SAPType)
		tr.attrf("SAPDeltaTime", "%d", r.SAPDeltaTime)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("Reference")
		tr.attr("type", "")
		tr.attr("size", "")
		tr.attr("duration", "")
		tr.attr("startsWithSAP", "")
		tr.attr("SAP_type", "")
		tr.attr("SAPDeltaTime", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "SegmentIndexBox")
}

func renderSsix(tr *trace, b *Box) {
	openBox(tr, b, "SubsegmentIndexBox")
	fullBoxAttrs(tr, b)
	p := body[SsixBody](b)
	tr.attrf("subsegment_count", "%d", len(p.Subsegments))
	tr.end()
	for _, sub := range p.Subsegments {
		tr.start("Subsegment")
		tr.attrf("range_count", "%d", len(sub.Ranges))
		tr.end()
		for _, r := range sub.Ranges {
			tr.start("Range")
			tr.attrf("level", "%d", r.Level)
			tr.attrf("range_size", "%d", r.Size)
			tr.selfEnd()
		}
		tr.closeTag("Subsegment")
	}
	if b.Size == 0 {
		tr.start("Subsegment")
		tr.attr("range_count", "")
		tr.end()
		tr.start("Range")
		tr.attr("level", "")
		tr.attr("range_size", "")
		tr.selfEnd()
		tr.closeTag("Subsegment")
	}
	closeBox(tr, b, "SubsegmentIndexBox")
}

func renderLeva(tr *trace, b *Box) {
	openBox(tr, b, "LevelAssignmentBox")
	fullBoxAttrs(tr, b)
	p := body[LevaBody](b)
	tr.attrf("level_count", "%d", len(p.Levels))
	tr.end()
	for _, lvl := range p.Levels {
		tr.start("Assignement")
		tr.attrf("track_id", "%d", lvl.TrackID)
		tr.attrf("padding_flag", "%d", btoi(lvl.PaddingFlag))
		tr.attrf("assignement_type", "%d", lvl.AssignmentType)
		tr.attrf("grouping_type", "%d", lvl.GroupingType)
		tr.attrf("grouping_type_parameter", "%d", lvl.GroupingTypeParameter)
		tr.attrf("sub_track_id", "%d", lvl.SubTrackID)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("Assignement")
		tr.attr("track_id", "")
		tr.attr("padding_flag", "")
		tr.attr("assignement_type", "")
		tr.attr("grouping_type", "")
		tr.attr("grouping_type_parameter", "")
		tr.attr("sub_track_id", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "LevelAssignmentBox")
}

func renderPcrb(tr *trace, b *Box) {
	openBox(tr, b, "MPEG2TSPCRInfoBox")
	p := body[PcrbBody](b)
	tr.attrf("subsegment_count", "%d", len(p.PCRs))
	tr.end()
	for _, pcr := range p.PCRs {
		tr.start("PCRInfo")
		tr.attrf("PCR", "%d", pcr)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("PCRInfo")
		tr.attr("PCR", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "MPEG2TSPCRInfoBox")
}

func renderSubs(tr *trace, b *Box) {
	openBox(tr, b, "SubSampleInformationBox")
	p := body[SubsBody](b)
	tr.attrf("EntryCount", "%d", len(p.Entries))
	tr.end()
	for _, e := range p.Entries {
		tr.start("SampleEntry")
		tr.attrf("SampleDelta", "%d", e.SampleDelta)
		tr.attrf("SubSampleCount", "%d", len(e.Subsamples))
		tr.end()
		for _, s := range e.Subsamples {
			tr.start("SubSample")
			tr.attrf("Size", "%d", s.Size)
			tr.attrf("Priority", "%d", s.Priority)
			tr.attrf("Discardable", "%d", s.Discardable)
			tr.attrf("Reserved", "%08X", s.Reserved)
			tr.selfEnd()
		}
		tr.closeTag("SampleEntry")
	}
	if b.Size == 0 {
		tr.start("SampleEntry")
		tr.attr("SampleDelta", "")
		tr.attr("SubSampleCount", "")
		tr.end()
		tr.start("SubSample")
		tr.attr("Size", "")
		tr.attr("Priority", "")
		tr.attr("Discardable", "")
		tr.attr("Reserved", "")
		tr.selfEnd()
		tr.closeTag("SampleEntry")
	}
	closeBox(tr, b, "SubSampleInformationBox")
}
