package isodump

// Sample groups and sample auxiliary information.

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// shortEntryErr reports a bit decode that ran out of payload. Short reads
// latch in the reader, so one check at the end of each exit path covers the
// whole decode.
func shortEntryErr(tr *trace, br *bitReader) {
	if !br.ok() {
		tr.comment("<!--ERROR: Truncated Sample Group Entry-->")
	}
}

func renderSbgp(tr *trace, b *Box) {
	openBox(tr, b, "SampleGroupBox")
	fullBoxAttrs(tr, b)
	p := body[SbgpBody](b)
	tr.attrf("grouping_type", "%s", p.GroupingType)
	if b.Version == 1 {
		if isAlnum(byte(p.GroupingTypeParameter & 0xFF)) {
			tr.attrf("grouping_type_parameter", "%s", makeBoxType(p.GroupingTypeParameter))
		} else {
			tr.attrf("grouping_type_parameter", "%d", p.GroupingTypeParameter)
		}
	}
	tr.end()
	for _, e := range p.Entries {
		tr.start("SampleGroupBoxEntry")
		tr.attrf("sample_count", "%d", e.SampleCount)
		tr.attrf("group_description_index", "%d", e.GroupDescriptionIndex)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("SampleGroupBoxEntry")
		tr.attr("sample_count", "")
		tr.attr("group_description_index", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "SampleGroupBox")
}

func renderSgpd(tr *trace, b *Box) {
	openBox(tr, b, "SampleGroupDescriptionBox")
	fullBoxAttrs(tr, b)
	p := body[SgpdBody](b)
	tr.attrf("grouping_type", "%s", p.GroupingType)
	if b.Version == 1 {
		tr.attrf("default_length", "%d", p.DefaultLength)
	}
	if b.Version >= 2 && p.DefaultGroupIndex != 0 {
		tr.attrf("default_group_index", "%d", p.DefaultGroupIndex)
	}
	tr.end()
	for _, entry := range p.Entries {
		switch e := entry.(type) {
		case *RollRecoveryEntry:
			tr.start("RollRecoveryEntry")
			tr.attrf("roll_distance", "%d", e.RollDistance)
			tr.selfEnd()
		case *VisualRandomAccessEntry:
			tr.start("VisualRandomAccessEntry")
			if e.NumLeadingSamplesKnown {
				tr.attr("num_leading_samples_known", "yes")
				tr.attrf("num_leading_samples", "%d", e.NumLeadingSamples)
			} else {
				tr.attr("num_leading_samples_known", "no")
			}
			tr.selfEnd()
		case *SeigEntry:
			tr.start("CENCSampleEncryptionGroupEntry")
			tr.attrf("IsEncrypted", "%d", e.IsProtected)
			tr.attrf("IV_size", "%d", e.PerSampleIVSize)
			tr.attrHex("KID", e.KID[:])
			if e.IsProtected == 1 && e.PerSampleIVSize == 0 {
				tr.attrf("constant_IV_size", "%d", e.ConstantIVSize)
				tr.attrHex("constant_IV", e.ConstantIV)
			}
			tr.selfEnd()
		case *OinfEntry:
			oinfDump(tr, e)
		case *LinfEntry:
			linfDump(tr, e)
		case *RawGroupEntry:
			switch p.GroupingType {
			case GroupTrif:
				trifDump(tr, e.Data)
			case GroupNalm:
				nalmDump(tr, e.Data)
			default:
				tr.start("DefaultSampleGroupDescriptionEntry")
				tr.attrf("size", "%d", len(e.Data))
				tr.attrData("data", e.Data)
				tr.selfEnd()
			}
		}
	}
	if b.Size == 0 {
		switch p.GroupingType {
		case GroupRoll:
			tr.start("RollRecoveryEntry")
			tr.attr("roll_distance", "")
			tr.selfEnd()
		case GroupRap:
			tr.start("VisualRandomAccessEntry")
			tr.attr("num_leading_samples_known", "yes|no")
			tr.attr("num_leading_samples", "")
			tr.selfEnd()
		case GroupSeig:
			tr.start("CENCSampleEncryptionGroupEntry")
			tr.attr("IsEncrypted", "")
			tr.attr("IV_size", "")
			tr.attr("KID", "")
			tr.attr("constant_IV_size", "")
			tr.attr("constant_IV", "")
			tr.selfEnd()
		case GroupOinf:
			oinfDump(tr, nil)
		case GroupLinf:
			linfDump(tr, nil)
		case GroupTrif:
			trifDump(tr, nil)
		case GroupNalm:
			nalmDump(tr, nil)
		default:
			tr.start("DefaultSampleGroupDescriptionEntry")
			tr.attr("size", "")
			tr.attr("data", "")
			tr.selfEnd()
		}
	}
	closeBox(tr, b, "SampleGroupDescriptionBox")
}

func scalabilityMaskName(mask uint16) string {
	switch mask {
	case 2:
		return "Multiview"
	case 4:
		return "Spatial scalability"
	case 8:
		return "Auxilary"
	}
	return "unknown"
}

func oinfDump(tr *trace, e *OinfEntry) {
	if e == nil {
		tr.start("OperatingPointsInformation")
		tr.attr("scalability_mask", "Multiview|Spatial scalability|Auxilary|unknown")
		tr.attr("num_profile_tier_level", "")
		tr.attr("num_operating_points", "")
		tr.attr("dependency_layers", "")
		tr.end()
		tr.writeByte(' ')
		tr.start("ProfileTierLevel")
		tr.attr("general_profile_space", "")
		tr.attr("general_tier_flag", "")
		tr.attr("general_profile_idc", "")
		tr.attr("general_profile_compatibility_flags", "")
		tr.attr("general_constraint_indicator_flags", "")
		tr.selfEnd()
		tr.start("OperatingPoint")
		tr.attr("output_layer_set_idx", "")
		tr.attr("max_temporal_id", "")
		tr.attr("layer_count", "")
		tr.attr("minPicWidth", "")
		tr.attr("minPicHeight", "")
		tr.attr("maxPicWidth", "")
		tr.attr("maxPicHeight", "")
		tr.attr("maxChromaFormat", "")
		tr.attr("maxBitDepth", "")
		tr.attr("frame_rate_info_flag", "")
		tr.attr("bit_rate_info_flag", "")
		tr.attr("avgFrameRate", "")
		tr.attr("constantFrameRate", "")
		tr.attr("maxBitRate", "")
		tr.attr("avgBitRate", "")
		tr.selfEnd()
		tr.start("Layer")
		tr.attr("dependent_layerID", "")
		tr.attr("num_layers_dependent_on", "")
		tr.attr("dependent_on_layerID", "")
		tr.attr("dimension_identifier", "")
		tr.selfEnd()
		tr.closeTag("OperatingPointsInformation")
		return
	}
	tr.start("OperatingPointsInformation")
	tr.attrf("scalability_mask", "%d (%s)", e.ScalabilityMask, scalabilityMaskName(e.ScalabilityMask))
	tr.attrf("num_profile_tier_level", "%d", len(e.ProfileTierLevels))
	tr.attrf("num_operating_points", "%d", len(e.OperatingPoints))
	tr.attrf("dependency_layers", "%d", len(e.DependencyLayers))
	tr.end()
	for _, ptl := range e.ProfileTierLevels {
		tr.writeByte(' ')
		tr.start("ProfileTierLevel")
		tr.attrf("general_profile_space", "%d", ptl.GeneralProfileSpace)
		tr.attrf("general_tier_flag", "%d", ptl.GeneralTierFlag)
		tr.attrf("general_profile_idc", "%d", ptl.GeneralProfileIDC)
		tr.attrf("general_profile_compatibility_flags", "%d", ptl.GeneralProfileCompatibilityFlags)
		tr.attrf("general_constraint_indicator_flags", "%d", ptl.GeneralConstraintIndicatorFlags)
		tr.selfEnd()
	}
	for _, op := range e.OperatingPoints {
		tr.start("OperatingPoint")
		tr.attrf("output_layer_set_idx", "%d", op.OutputLayerSetIdx)
		tr.attrf("max_temporal_id", "%d", op.MaxTemporalID)
		tr.attrf("layer_count", "%d", op.LayerCount)
		tr.attrf("minPicWidth", "%d", op.MinPicWidth)
		tr.attrf("minPicHeight", "%d", op.MinPicHeight)
		tr.attrf("maxPicWidth", "%d", op.MaxPicWidth)
		tr.attrf("maxPicHeight", "%d", op.MaxPicHeight)
		tr.attrf("maxChromaFormat", "%d", op.MaxChromaFormat)
		tr.attrf("maxBitDepth", "%d", op.MaxBitDepth)
		tr.attrf("frame_rate_info_flag", "%d", btoi(op.FrameRateInfoFlag))
		tr.attrf("bit_rate_info_flag", "%d", btoi(op.BitRateInfoFlag))
		if op.FrameRateInfoFlag {
			tr.attrf("avgFrameRate", "%d", op.AvgFrameRate)
			tr.attrf("constantFrameRate", "%d", op.ConstantFrameRate)
		}
		if op.BitRateInfoFlag {
			tr.attrf("maxBitRate", "%d", op.MaxBitRate)
			tr.attrf("avgBitRate", "%d", op.AvgBitRate)
		}
		tr.selfEnd()
	}
	for _, dep := range e.DependencyLayers {
		tr.start("Layer")
		tr.attrf("dependent_layerID", "%d", dep.DependentLayerID)
		tr.attrf("num_layers_dependent_on", "%d", len(dep.DependentOnLayerIDs))
		if len(dep.DependentOnLayerIDs) > 0 {
			tr.writeString(` dependent_on_layerID="`)
			for _, id := range dep.DependentOnLayerIDs {
				tr.printf("%d ", id)
			}
			tr.writeByte('"')
		}
		tr.writeString(` dimension_identifier="`)
		for j := 0; j < 16; j++ {
			if e.ScalabilityMask&(1<<uint(j)) != 0 {
				tr.printf("%d ", dep.DimensionIdentifiers[j])
			}
		}
		tr.writeByte('"')
		tr.selfEnd()
	}
	tr.closeTag("OperatingPointsInformation")
}

func linfDump(tr *trace, e *LinfEntry) {
	if e == nil {
		tr.start("LayerInformation")
		tr.attr("num_layers", "")
		tr.end()
		tr.start("LayerInfoItem")
		tr.attr("layer_id", "")
		tr.attr("min_temporalId", "")
		tr.attr("max_temporalId", "")
		tr.attr("sub_layer_presence_flags", "")
		tr.selfEnd()
		tr.closeTag("LayerInformation")
		return
	}
	tr.start("LayerInformation")
	tr.attrf("num_layers", "%d", len(e.Layers))
	tr.end()
	for _, li := range e.Layers {
		tr.start("LayerInfoItem")
		tr.attrf("layer_id", "%d", li.LayerID)
		tr.attrf("min_temporalId", "%d", li.MinTemporalID)
		tr.attrf("max_temporalId", "%d", li.MaxTemporalID)
		tr.attrf("sub_layer_presence_flags", "%d", li.SubLayerPresenceFlags)
		tr.selfEnd()
	}
	tr.closeTag("LayerInformation")
}

// trifDump decodes a tile region group entry from its raw payload. A nil
// payload emits the schema skeleton instead.
func trifDump(tr *trace, data []byte) {
	if data == nil {
		tr.start("TileRegionGroupEntry")
		tr.attr("ID", "")
		tr.attr("tileGroup", "")
		tr.attr("independent", "")
		tr.attr("full_picture", "")
		tr.attr("filter_disabled", "")
		tr.attr("x", "")
		tr.attr("y", "")
		tr.attr("w", "")
		tr.attr("h", "")
		tr.end()
		tr.start("TileRegionDependency")
		tr.attr("tileID", "")
		tr.selfEnd()
		tr.closeTag("TileRegionGroupEntry")
		return
	}
	br := bitReader{data: data}
	tr.start("TileRegionGroupEntry")
	tr.attrf("ID", "%d", br.u16())
	tileGroup := br.bits(1)
	tr.attrf("tileGroup", "%d", tileGroup)
	if tileGroup == 0 {
		tr.selfEnd()
		shortEntryErr(tr, &br)
		return
	}
	independent := br.bits(2)
	fullPicture := br.bits(1)
	filterDisabled := br.bits(1)
	hasDep := br.bits(1)
	br.bits(2)
	tr.attrf("independent", "%d", independent)
	tr.attrf("full_picture", "%d", fullPicture)
	tr.attrf("filter_disabled", "%d", filterDisabled)
	if fullPicture == 0 {
		tr.attrf("x", "%d", br.u16())
		tr.attrf("y", "%d", br.u16())
	}
	tr.attrf("w", "%d", br.u16())
	tr.attrf("h", "%d", br.u16())
	if hasDep == 0 {
		tr.selfEnd()
		shortEntryErr(tr, &br)
		return
	}
	count := br.u16()
	tr.end()
	for ; count > 0; count-- {
		tr.start("TileRegionDependency")
		tr.attrf("tileID", "%d", br.u16())
		tr.selfEnd()
	}
	tr.closeTag("TileRegionGroupEntry")
	shortEntryErr(tr, &br)
}

// nalmDump decodes a NAL unit map entry from its raw payload. A nil payload
// emits the schema skeleton instead.
func nalmDump(tr *trace, data []byte) {
	if data == nil {
		tr.start("NALUMap")
		tr.attr("rle", "")
		tr.attr("large_size", "")
		tr.end()
		tr.start("NALUMapEntry")
		tr.attr("NALU_startNumber", "")
		tr.attr("groupID", "")
		tr.selfEnd()
		tr.closeTag("NALUMap")
		return
	}
	br := bitReader{data: data}
	br.bits(6)
	largeSize := br.bits(1)
	rle := br.bits(1)
	countBits := uint(8)
	if largeSize != 0 {
		countBits = 16
	}
	count := br.bits(countBits)
	tr.start("NALUMap")
	tr.attrf("rle", "%d", rle)
	tr.attrf("large_size", "%d", largeSize)
	tr.end()
	for ; count > 0; count-- {
		tr.start("NALUMapEntry")
		if rle != 0 {
			tr.attrf("NALU_startNumber", "%d", br.bits(countBits))
		}
		tr.attrf("groupID", "%d", br.u16())
		tr.selfEnd()
	}
	tr.closeTag("NALUMap")
	shortEntryErr(tr, &br)
}

func renderSaiz(tr *trace, b *Box) {
	openBox(tr, b, "SampleAuxiliaryInfoSizeBox")
	fullBoxAttrs(tr, b)
	p := body[SaizBody](b)
	tr.attrf("default_sample_info_size", "%d", p.DefaultSampleInfoSize)
	tr.attrf("sample_count", "%d", p.SampleCount)
	if b.Flags&1 != 0 {
		if isAlnum(byte(p.AuxInfoType >> 24)) {
			tr.attrf("aux_info_type", "%s", makeBoxType(p.AuxInfoType))
		} else {
			tr.attrf("aux_info_type", "%d", p.AuxInfoType)
		}
		tr.attrf("aux_info_type_parameter", "%d", p.AuxInfoTypeParameter)
	}
	tr.end()
	if p.DefaultSampleInfoSize == 0 {
		for _, size := range p.Sizes {
			tr.start("SAISize")
			tr.attrf("size", "%d", size)
			tr.selfEnd()
		}
	}
	if b.Size == 0 {
		tr.start("SAISize")
		tr.attr("size", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "SampleAuxiliaryInfoSizeBox")
}

func renderSaio(tr *trace, b *Box) {
	openBox(tr, b, "SampleAuxiliaryInfoOffsetBox")
	fullBoxAttrs(tr, b)
	p := body[SaioBody](b)
	tr.attrf("entry_count", "%d", len(p.Offsets))
	if b.Flags&1 != 0 {
		if isAlnum(byte(p.AuxInfoType >> 24)) {
			tr.attrf("aux_info_type", "%s", makeBoxType(p.AuxInfoType))
		} else {
			tr.attrf("aux_info_type", "%d", p.AuxInfoType)
		}
		tr.attrf("aux_info_type_parameter", "%d", p.AuxInfoTypeParameter)
	}
	tr.end()
	for _, off := range p.Offsets {
		tr.start("SAIChunkOffset")
		if b.Version == 0 {
			tr.attrf("offset", "%d", uint32(off))
		} else {
			tr.attrf("offset", "%d", int64(off))
		}
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("SAIChunkOffset")
		tr.attr("offset", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "SampleAuxiliaryInfoOffsetBox")
}
