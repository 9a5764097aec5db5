package isodump

// Sample tables and sample descriptions.

func renderDref(tr *trace, b *Box) {
	openBox(tr, b, "DataReferenceBox")
	fullBoxAttrs(tr, b)
	tr.end()
	closeBox(tr, b, "DataReferenceBox")
}

func renderStsd(tr *trace, b *Box) {
	openBox(tr, b, "SampleDescriptionBox")
	fullBoxAttrs(tr, b)
	tr.end()
	closeBox(tr, b, "SampleDescriptionBox")
}

func renderStts(tr *trace, b *Box) {
	openBox(tr, b, "TimeToSampleBox")
	fullBoxAttrs(tr, b)
	p := body[SttsBody](b)
	tr.attrf("EntryCount", "%d", len(p.Entries))
	tr.end()
	var samples uint64
	for _, e := range p.Entries {
		tr.start("TimeToSampleEntry")
		tr.attrf("SampleDelta", "%d", e.SampleDelta)
		tr.attrf("SampleCount", "%d", e.SampleCount)
		tr.selfEnd()
		samples += uint64(e.SampleCount)
	}
	if b.Size > 0 {
		tr.comment("<!-- counted %d samples in STTS entries -->", samples)
	} else {
		tr.start("TimeToSampleEntry")
		tr.attr("SampleDelta", "")
		tr.attr("SampleCount", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "TimeToSampleBox")
}

func renderCtts(tr *trace, b *Box) {
	openBox(tr, b, "CompositionOffsetBox")
	fullBoxAttrs(tr, b)
	p := body[CttsBody](b)
	tr.attrf("EntryCount", "%d", len(p.Entries))
	tr.end()
	var samples uint64
	for _, e := range p.Entries {
		tr.start("CompositionOffsetEntry")
		tr.attrf("CompositionOffset", "%d", e.Offset)
		tr.attrf("SampleCount", "%d", e.SampleCount)
		tr.selfEnd()
		samples += uint64(e.SampleCount)
	}
	if b.Size > 0 {
		tr.comment("<!-- counted %d samples in CTTS entries -->", samples)
	} else {
		tr.start("CompositionOffsetEntry")
		tr.attr("CompositionOffset", "")
		tr.attr("SampleCount", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "CompositionOffsetBox")
}

func renderCslg(tr *trace, b *Box) {
	openBox(tr, b, "CompositionToDecodeBox")
	fullBoxAttrs(tr, b)
	p := body[CslgBody](b)
	tr.attrf("compositionToDTSShift", "%d", p.CompositionToDTSShift)
	tr.attrf("leastDecodeToDisplayDelta", "%d", p.LeastDecodeToDisplayDelta)
	tr.attrf("compositionStartTime", "%d", p.CompositionStartTime)
	tr.attrf("compositionEndTime", "%d", p.CompositionEndTime)
	tr.end()
	closeBox(tr, b, "CompositionToDecodeBox")
}

func renderStsh(tr *trace, b *Box) {
	openBox(tr, b, "SyncShadowBox")
	fullBoxAttrs(tr, b)
	p := body[StshBody](b)
	tr.attrf("EntryCount", "%d", len(p.Entries))
	tr.end()
	for _, e := range p.Entries {
		tr.start("SyncShadowEntry")
		tr.attrf("ShadowedSample", "%d", e.ShadowedSample)
		tr.attrf("SyncSample", "%d", e.SyncSample)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("SyncShadowEntry")
		tr.attr("ShadowedSample", "")
		tr.attr("SyncSample", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "SyncShadowBox")
}

func renderElst(tr *trace, b *Box) {
	openBox(tr, b, "EditListBox")
	fullBoxAttrs(tr, b)
	p := body[ElstBody](b)
	tr.attrf("EntryCount", "%d", len(p.Entries))
	tr.end()
	for _, e := range p.Entries {
		tr.start("EditListEntry")
		tr.attrf("Duration", "%d", int64(e.Duration))
		tr.attrf("MediaTime", "%d", e.MediaTime)
		tr.attrf("MediaRate", "%d", e.MediaRate)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("EditListEntry")
		tr.attr("Duration", "")
		tr.attr("MediaTime", "")
		tr.attr("MediaRate", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "EditListBox")
}

func renderStsc(tr *trace, b *Box) {
	openBox(tr, b, "SampleToChunkBox")
	fullBoxAttrs(tr, b)
	p := body[StscBody](b)
	tr.attrf("EntryCount", "%d", len(p.Entries))
	tr.end()
	var samples uint64
	for i, e := range p.Entries {
		tr.start("SampleToChunkEntry")
		tr.attrf("FirstChunk", "%d", e.FirstChunk)
		tr.attrf("SamplesPerChunk", "%d", e.SamplesPerChunk)
		tr.attrf("SampleDescriptionIndex", "%d", e.SampleDescriptionIndex)
		tr.selfEnd()
		if i+1 < len(p.Entries) {
			samples += uint64(p.Entries[i+1].FirstChunk-e.FirstChunk) * uint64(e.SamplesPerChunk)
		} else {
			samples += uint64(e.SamplesPerChunk)
		}
	}
	if b.Size > 0 {
		tr.comment("<!-- counted %d samples in STSC entries (could be less than sample count) -->", samples)
	} else {
		tr.start("SampleToChunkEntry")
		tr.attr("FirstChunk", "")
		tr.attr("SamplesPerChunk", "")
		tr.attr("SampleDescriptionIndex", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "SampleToChunkBox")
}

func renderStsz(tr *trace, b *Box) {
	name := "SampleSizeBox"
	if b.Type == TypeStz2 {
		name = "CompactSampleSizeBox"
	}
	openBox(tr, b, name)
	fullBoxAttrs(tr, b)
	p := body[StszBody](b)
	tr.attrf("SampleCount", "%d", p.SampleCount)
	if b.Type == TypeStz2 {
		tr.attrf("SampleSizeBits", "%d", p.SampleSize)
	} else if p.SampleSize != 0 {
		tr.attrf("ConstantSampleSize", "%d", p.SampleSize)
	}
	tr.end()
	if b.Type == TypeStz2 || p.SampleSize == 0 {
		if p.Sizes == nil && b.Size > 0 {
			tr.comment("<!--WARNING: No Sample Size indications-->")
		} else {
			for _, size := range p.Sizes {
				tr.start("SampleSizeEntry")
				tr.attrf("Size", "%d", size)
				tr.selfEnd()
			}
		}
	}
	if b.Size == 0 {
		tr.start("SampleSizeEntry")
		tr.attr("Size", "")
		tr.selfEnd()
	}
	closeBox(tr, b, name)
}

func renderStco(tr *trace, b *Box) {
	openBox(tr, b, "ChunkOffsetBox")
	fullBoxAttrs(tr, b)
	p := body[StcoBody](b)
	tr.attrf("EntryCount", "%d", len(p.Offsets))
	tr.end()
	if p.Offsets == nil && b.Size > 0 {
		tr.comment("<!--Warning: No Chunk Offsets indications-->")
	} else {
		for _, off := range p.Offsets {
			tr.start("ChunkEntry")
			tr.attrf("offset", "%d", off)
			tr.selfEnd()
		}
	}
	if b.Size == 0 {
		tr.start("ChunkEntry")
		tr.attr("offset", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "ChunkOffsetBox")
}

func renderCo64(tr *trace, b *Box) {
	openBox(tr, b, "ChunkLargeOffsetBox")
	fullBoxAttrs(tr, b)
	p := body[Co64Body](b)
	tr.attrf("EntryCount", "%d", len(p.Offsets))
	tr.end()
	if p.Offsets == nil && b.Size > 0 {
		// MP4Box emits this one unterminated; keep it byte-identical.
		tr.comment("<!-- Warning: No Chunk Offsets indications/>")
	} else {
		for _, off := range p.Offsets {
			tr.start("ChunkOffsetEntry")
			tr.attrf("offset", "%d", off)
			tr.selfEnd()
		}
	}
	if b.Size == 0 {
		tr.start("ChunkOffsetEntry")
		tr.attr("offset", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "ChunkLargeOffsetBox")
}

func renderStss(tr *trace, b *Box) {
	openBox(tr, b, "SyncSampleBox")
	fullBoxAttrs(tr, b)
	p := body[StssBody](b)
	tr.attrf("EntryCount", "%d", len(p.SampleNumbers))
	tr.end()
	if p.SampleNumbers == nil && b.Size > 0 {
		tr.comment("<!--Warning: No Key Frames indications-->")
	} else {
		for _, n := range p.SampleNumbers {
			tr.start("SyncSampleEntry")
			tr.attrf("sampleNumber", "%d", n)
			tr.selfEnd()
		}
	}
	if b.Size == 0 {
		tr.start("SyncSampleEntry")
		tr.attr("sampleNumber", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "SyncSampleBox")
}

func renderStdp(tr *trace, b *Box) {
	openBox(tr, b, "DegradationPriorityBox")
	fullBoxAttrs(tr, b)
	p := body[StdpBody](b)
	tr.attrf("EntryCount", "%d", len(p.Priorities))
	tr.end()
	if p.Priorities == nil && b.Size > 0 {
		tr.comment("<!--Warning: No Degradation Priority indications-->")
	} else {
		for _, prio := range p.Priorities {
			tr.start("DegradationPriorityEntry")
			tr.attrf("DegradationPriority", "%d", prio)
			tr.selfEnd()
		}
	}
	if b.Size == 0 {
		tr.start("DegradationPriorityEntry")
		tr.attr("DegradationPriority", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "DegradationPriorityBox")
}

// sdtpFlagName maps the two-bit dependency fields of an sdtp entry.
var sdtpFlagName = [4]string{"unknown", "yes", "no", "RESERVED"}

func renderSdtp(tr *trace, b *Box) {
	openBox(tr, b, "SampleDependencyTypeBox")
	fullBoxAttrs(tr, b)
	p := body[SdtpBody](b)
	tr.attrf("SampleCount", "%d", p.SampleCount)
	tr.end()
	if p.SampleInfo == nil && b.Size > 0 {
		tr.comment("<!--Warning: No sample dependencies indications-->")
	} else {
		for _, f := range p.SampleInfo {
			tr.start("SampleDependencyEntry")
			tr.attr("dependsOnOther", sdtpFlagName[f>>4&3])
			tr.attr("dependedOn", sdtpFlagName[f>>2&3])
			tr.attr("hasRedundancy", sdtpFlagName[f&3])
			tr.selfEnd()
		}
	}
	if b.Size == 0 {
		tr.start("SampleDependencyEntry")
		tr.attr("dependsOnOther", "unknown|yes|no|RESERVED")
		tr.attr("dependedOn", "unknown|yes|no|RESERVED")
		tr.attr("hasRedundancy", "unknown|yes|no|RESERVED")
		tr.selfEnd()
	}
	closeBox(tr, b, "SampleDependencyTypeBox")
}

func renderPadb(tr *trace, b *Box) {
	openBox(tr, b, "PaddingBitsBox")
	p := body[PadbBody](b)
	tr.attrf("EntryCount", "%d", p.SampleCount)
	tr.end()
	for _, bits := range p.PadBits {
		tr.start("PaddingBitsEntry")
		tr.attrf("PaddingBits", "%d", bits)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("PaddingBitsEntry")
		tr.attr("PaddingBits", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "PaddingBitsBox")
}

func renderMp4s(tr *trace, b *Box) {
	openBox(tr, b, "MPEGSystemsSampleDescriptionBox")
	p := body[Mp4sBody](b)
	tr.attrf("DataReferenceIndex", "%d", p.DataReferenceIndex)
	tr.end()
	if p.Esd != nil {
		dumpBox(tr, p.Esd)
	} else if b.Size > 0 {
		tr.comment("<!--INVALID MP4 FILE: ESDBox not present in MPEG Sample Description or corrupted-->")
	}
	if b.Type == TypeEncs {
		dumpList(tr, p.Protections)
	}
	closeBox(tr, b, "MPEGSystemsSampleDescriptionBox")
}

func renderMp4v(tr *trace, b *Box) {
	p := body[Mp4vBody](b)
	name := "MPEGVisualSampleDescriptionBox"
	if p.AvcC != nil {
		name = "AVCSampleEntryBox"
	}
	openBox(tr, b, name)
	tr.attrf("DataReferenceIndex", "%d", p.DataReferenceIndex)
	tr.attrf("Width", "%d", p.Width)
	tr.attrf("Height", "%d", p.Height)
	tr.attrf("XDPI", "%d", p.HorizRes)
	tr.attrf("YDPI", "%d", p.VertRes)
	tr.attrf("BitDepth", "%d", p.BitDepth)
	if p.CompressorName != "" {
		tr.attr("CompressorName", p.CompressorName)
	}
	tr.end()
	if p.Esd != nil {
		dumpBox(tr, p.Esd)
	} else {
		dumpOptional(tr, p.AvcC)
		dumpOptional(tr, p.SvcC)
	}
	if b.Type == TypeEncv {
		dumpList(tr, p.Protections)
	}
	dumpOptional(tr, p.Pasp)
	closeBox(tr, b, name)
}

func renderMp4a(tr *trace, b *Box) {
	openBox(tr, b, "MPEGAudioSampleDescriptionBox")
	p := body[Mp4aBody](b)
	tr.attrf("DataReferenceIndex", "%d", p.DataReferenceIndex)
	tr.attrf("SampleRate", "%d", p.SampleRate>>16)
	tr.attrf("Channels", "%d", p.Channels)
	tr.attrf("BitsPerSample", "%d", p.BitsPerSample)
	tr.end()
	if p.Esd != nil {
		dumpBox(tr, p.Esd)
	} else if b.Size > 0 {
		tr.comment("<!--INVALID MP4 FILE: ESDBox not present in MPEG Sample Description or corrupted-->")
	}
	if b.Type == TypeEnca {
		dumpList(tr, p.Protections)
	}
	closeBox(tr, b, "MPEGAudioSampleDescriptionBox")
}

func renderGnrm(tr *trace, b *Box) {
	p := body[GnrmBody](b)
	typ := p.EntryType
	if typ == (BoxType{}) {
		typ = b.Type
	}
	openBoxAs(tr, b, "SampleDescriptionBox", typ)
	tr.attrf("DataReferenceIndex", "%d", p.DataReferenceIndex)
	tr.attrf("ExtensionDataSize", "%d", len(p.Data))
	tr.end()
	closeBox(tr, b, "SampleDescriptionBox")
}

func renderGnrv(tr *trace, b *Box) {
	p := body[GnrvBody](b)
	typ := p.EntryType
	if typ == (BoxType{}) {
		typ = b.Type
	}
	openBoxAs(tr, b, "VisualSampleDescriptionBox", typ)
	tr.attrf("DataReferenceIndex", "%d", p.DataReferenceIndex)
	tr.attrf("Version", "%d", p.Version)
	tr.attrf("Revision", "%d", p.Revision)
	tr.attrf("Vendor", "%d", p.Vendor)
	tr.attrf("TemporalQuality", "%d", p.TemporalQuality)
	tr.attrf("SpacialQuality", "%d", p.SpatialQuality)
	tr.attrf("Width", "%d", p.Width)
	tr.attrf("Height", "%d", p.Height)
	tr.attrf("HorizontalResolution", "%d", p.HorizRes)
	tr.attrf("VerticalResolution", "%d", p.VertRes)
	tr.attr("CompressorName", p.CompressorName)
	tr.attrf("BitDepth", "%d", p.BitDepth)
	tr.end()
	closeBox(tr, b, "VisualSampleDescriptionBox")
}

func renderGnra(tr *trace, b *Box) {
	p := body[GnraBody](b)
	typ := p.EntryType
	if typ == (BoxType{}) {
		typ = b.Type
	}
	openBoxAs(tr, b, "AudioSampleDescriptionBox", typ)
	tr.attrf("DataReferenceIndex", "%d", p.DataReferenceIndex)
	tr.attrf("Version", "%d", p.Version)
	tr.attrf("Revision", "%d", p.Revision)
	tr.attrf("Vendor", "%d", p.Vendor)
	tr.attrf("ChannelCount", "%d", p.ChannelCount)
	tr.attrf("BitsPerSample", "%d", p.BitsPerSample)
	tr.attrf("Samplerate", "%d", p.SampleRate>>16)
	tr.end()
	closeBox(tr, b, "AudioSampleDescriptionBox")
}

func renderEsds(tr *trace, b *Box) {
	openBox(tr, b, "MPEG4ESDescriptorBox")
	fullBoxAttrs(tr, b)
	tr.end()
	if p, ok := b.Body.(*EsdsBody); ok && p != nil {
		tr.start("ES_Descriptor")
		tr.attrf("ES_ID", "%d", p.ESID)
		tr.attrf("streamType", "%d", p.StreamType)
		tr.attrf("objectTypeIndication", "%d", p.ObjectTypeIndication)
		tr.attrf("bufferSizeDB", "%d", p.BufferSizeDB)
		tr.attrf("maxBitrate", "%d", p.MaxBitrate)
		tr.attrf("avgBitrate", "%d", p.AvgBitrate)
		if len(p.DecoderSpecificInfo) > 0 {
			tr.attrData("decoderSpecificInfo", p.DecoderSpecificInfo)
		}
		tr.selfEnd()
	} else if b.Size > 0 {
		tr.comment("<!--INVALID MP4 FILE: ESD not present in MPEG Sample Description or corrupted-->")
	}
	closeBox(tr, b, "MPEG4ESDescriptorBox")
}

// rext profiles carry extended chroma and bit depth fields in avcC.
func isRextProfile(profile uint8) bool {
	switch profile {
	case 100, 110, 122, 244, 44, 83, 86, 118, 128, 138, 139, 134:
		return true
	}
	return false
}

func chromaFormatName(format uint8) string {
	switch format {
	case 0:
		return "monochrome"
	case 1:
		return "YUV 4:2:0"
	case 2:
		return "YUV 4:2:2"
	case 3:
		return "YUV 4:4:4"
	}
	return "unknown"
}

func renderAvcC(tr *trace, b *Box) {
	prefix := "AVC"
	if b.Type == TypeSvcC {
		prefix = "SVC"
	}
	boxName := prefix + "ConfigurationBox"
	recName := prefix + "DecoderConfigurationRecord"
	openBox(tr, b, boxName)
	tr.end()
	p, ok := b.Body.(*AvcCBody)
	if !ok || p == nil {
		if b.Size > 0 {
			tr.start(recName)
			tr.end()
			tr.comment("<!-- INVALID AVC ENTRY : no AVC/SVC config record -->")
			tr.closeTag(recName)
		} else {
			tr.start(recName)
			tr.attr("configurationVersion", "")
			tr.attr("AVCProfileIndication", "")
			tr.attr("profile_compatibility", "")
			tr.attr("AVCLevelIndication", "")
			tr.attr("nal_unit_size", "")
			tr.attr("complete_representation", "")
			tr.attr("chroma_format", "")
			tr.attr("luma_bit_depth", "")
			tr.attr("chroma_bit_depth", "")
			tr.end()
			tr.start("SequenceParameterSet")
			tr.attr("size", "")
			tr.attr("content", "")
			tr.selfEnd()
			tr.start("PictureParameterSet")
			tr.attr("size", "")
			tr.attr("content", "")
			tr.selfEnd()
			tr.start("SequenceParameterSetExtensions")
			tr.attr("size", "")
			tr.attr("content", "")
			tr.selfEnd()
			tr.closeTag(recName)
		}
		closeBox(tr, b, boxName)
		return
	}
	tr.start(recName)
	tr.attrf("configurationVersion", "%d", p.ConfigurationVersion)
	tr.attrf("AVCProfileIndication", "%d", p.AVCProfileIndication)
	tr.attrf("profile_compatibility", "%d", p.ProfileCompatibility)
	tr.attrf("AVCLevelIndication", "%d", p.AVCLevelIndication)
	tr.attrf("nal_unit_size", "%d", p.NALUnitSize)
	if b.Type == TypeSvcC {
		tr.attrf("complete_representation", "%d", p.CompleteRepresentation)
	}
	if b.Type == TypeAvcC && isRextProfile(p.AVCProfileIndication) {
		tr.attr("chroma_format", chromaFormatName(p.ChromaFormat))
		tr.attrf("luma_bit_depth", "%d", p.LumaBitDepth)
		tr.attrf("chroma_bit_depth", "%d", p.ChromaBitDepth)
	}
	tr.end()
	for _, sps := range p.SPS {
		tr.start("SequenceParameterSet")
		tr.attrf("size", "%d", len(sps))
		tr.attrData("content", sps)
		tr.selfEnd()
	}
	for _, pps := range p.PPS {
		tr.start("PictureParameterSet")
		tr.attrf("size", "%d", len(pps))
		tr.attrData("content", pps)
		tr.selfEnd()
	}
	for _, ext := range p.SPSExt {
		tr.start("SequenceParameterSetExtensions")
		tr.attrf("size", "%d", len(ext))
		tr.attrData("content", ext)
		tr.selfEnd()
	}
	tr.closeTag(recName)
	closeBox(tr, b, boxName)
}

func renderBtrt(tr *trace, b *Box) {
	openBox(tr, b, "BitRateBox")
	p := body[BtrtBody](b)
	tr.attrf("BufferSizeDB", "%d", p.BufferSizeDB)
	tr.attrf("avgBitRate", "%d", p.AvgBitrate)
	tr.attrf("maxBitRate", "%d", p.MaxBitrate)
	tr.end()
	closeBox(tr, b, "BitRateBox")
}

func renderPasp(tr *trace, b *Box) {
	openBox(tr, b, "PixelAspectRatioBox")
	p := body[PaspBody](b)
	tr.attrf("hSpacing", "%d", p.HSpacing)
	tr.attrf("vSpacing", "%d", p.VSpacing)
	tr.end()
	closeBox(tr, b, "PixelAspectRatioBox")
}
