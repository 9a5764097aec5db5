package isodump

// Meta boxes, item information, item properties and the typed reference
// boxes.

func renderMeta(tr *trace, b *Box) {
	openBox(tr, b, "MetaBox")
	fullBoxAttrs(tr, b)
	tr.end()
	p := body[MetaBody](b)
	dumpOptional(tr, p.Hdlr)
	dumpOptional(tr, p.Pitm)
	dumpOptional(tr, p.Dinf)
	dumpOptional(tr, p.Iloc)
	dumpOptional(tr, p.Ipro)
	dumpOptional(tr, p.Iinf)
	dumpOptional(tr, p.Iref)
	dumpOptional(tr, p.Iprp)
	closeBox(tr, b, "MetaBox")
}

func renderXML(tr *trace, b *Box) {
	openBox(tr, b, "XMLBox")
	fullBoxAttrs(tr, b)
	tr.end()
	tr.writeString("<![CDATA[\n")
	p := body[XmlBody](b)
	if len(p.XML) > 0 {
		tr.writeString(p.XML)
	}
	tr.writeString("]]>\n")
	closeBox(tr, b, "XMLBox")
}

func renderBxml(tr *trace, b *Box) {
	openBox(tr, b, "BinaryXMLBox")
	fullBoxAttrs(tr, b)
	tr.attrf("binarySize", "%d", len(body[BxmlBody](b).Data))
	tr.end()
	closeBox(tr, b, "BinaryXMLBox")
}

func renderPitm(tr *trace, b *Box) {
	openBox(tr, b, "PrimaryItemBox")
	fullBoxAttrs(tr, b)
	tr.attrf("item_ID", "%d", body[PitmBody](b).ItemID)
	tr.end()
	closeBox(tr, b, "PrimaryItemBox")
}

func renderIpro(tr *trace, b *Box) {
	openBox(tr, b, "ItemProtectionBox")
	fullBoxAttrs(tr, b)
	tr.end()
	dumpList(tr, body[IproBody](b).Sinfs)
	closeBox(tr, b, "ItemProtectionBox")
}

func renderInfe(tr *trace, b *Box) {
	openBox(tr, b, "ItemInfoEntryBox")
	fullBoxAttrs(tr, b)
	p := body[InfeBody](b)
	tr.attrf("item_ID", "%d", p.ItemID)
	tr.attrf("item_protection_index", "%d", p.ItemProtectionIndex)
	tr.attr("item_name", p.ItemName)
	tr.attr("content_type", p.ContentType)
	tr.attr("content_encoding", p.ContentEncoding)
	tr.attrf("item_type", "%s", makeBoxType(p.ItemType))
	tr.end()
	closeBox(tr, b, "ItemInfoEntryBox")
}

func renderIinf(tr *trace, b *Box) {
	openBox(tr, b, "ItemInfoBox")
	fullBoxAttrs(tr, b)
	tr.end()
	dumpList(tr, body[IinfBody](b).Items)
	closeBox(tr, b, "ItemInfoBox")
}

func renderIloc(tr *trace, b *Box) {
	openBox(tr, b, "ItemLocationBox")
	fullBoxAttrs(tr, b)
	p := body[IlocBody](b)
	tr.attrf("offset_size", "%d", p.OffsetSize)
	tr.attrf("length_size", "%d", p.LengthSize)
	tr.attrf("base_offset_size", "%d", p.BaseOffsetSize)
	tr.attrf("index_size", "%d", p.IndexSize)
	tr.end()
	for _, item := range p.Items {
		tr.start("ItemLocationEntry")
		tr.attrf("item_ID", "%d", item.ItemID)
		tr.attrf("data_reference_index", "%d", item.DataReferenceIndex)
		tr.attrf("base_offset", "%d", int64(item.BaseOffset))
		tr.attrf("construction_method", "%d", item.ConstructionMethod)
		tr.end()
		for _, ext := range item.Extents {
			tr.start("ItemExtentEntry")
			tr.attrf("extent_offset", "%d", int64(ext.Offset))
			tr.attrf("extent_length", "%d", int64(ext.Length))
			tr.attrf("extent_index", "%d", int64(ext.Index))
			tr.selfEnd()
		}
		tr.closeTag("ItemLocationEntry")
	}
	if b.Size == 0 {
		tr.start("ItemLocationEntry")
		tr.attr("item_ID", "")
		tr.attr("data_reference_index", "")
		tr.attr("base_offset", "")
		tr.attr("construction_method", "")
		tr.end()
		tr.start("ItemExtentEntry")
		tr.attr("extent_offset", "")
		tr.attr("extent_length", "")
		tr.attr("extent_index", "")
		tr.selfEnd()
		tr.closeTag("ItemLocationEntry")
	}
	closeBox(tr, b, "ItemLocationBox")
}

func renderIref(tr *trace, b *Box) {
	openBox(tr, b, "ItemReferenceBox")
	fullBoxAttrs(tr, b)
	tr.end()
	dumpList(tr, body[IrefBody](b).References)
	closeBox(tr, b, "ItemReferenceBox")
}

func renderIprp(tr *trace, b *Box) {
	openBox(tr, b, "ItemPropertiesBox")
	tr.end()
	dumpOptional(tr, body[IprpBody](b).Ipco)
	closeBox(tr, b, "ItemPropertiesBox")
}

func renderIpco(tr *trace, b *Box) {
	openBox(tr, b, "ItemPropertyContainerBox")
	tr.end()
	closeBox(tr, b, "ItemPropertyContainerBox")
}

func renderIspe(tr *trace, b *Box) {
	openBox(tr, b, "ImageSpatialExtentsPropertyBox")
	fullBoxAttrs(tr, b)
	p := body[IspeBody](b)
	tr.attrf("image_width", "%d", p.ImageWidth)
	tr.attrf("image_height", "%d", p.ImageHeight)
	tr.end()
	closeBox(tr, b, "ImageSpatialExtentsPropertyBox")
}

func renderColr(tr *trace, b *Box) {
	openBox(tr, b, "ColourInformationBox")
	fullBoxAttrs(tr, b)
	p := body[ColrBody](b)
	tr.attrf("colour_type", "%s", p.ColourType)
	tr.attrf("colour_primaries", "%d", p.ColourPrimaries)
	tr.attrf("transfer_characteristics", "%d", p.TransferCharacteristics)
	tr.attrf("matrix_coefficients", "%d", p.MatrixCoefficients)
	tr.attrf("full_range_flag", "%d", p.FullRangeFlag)
	tr.end()
	closeBox(tr, b, "ColourInformationBox")
}

func renderPixi(tr *trace, b *Box) {
	openBox(tr, b, "PixelInformationPropertyBox")
	fullBoxAttrs(tr, b)
	p := body[PixiBody](b)
	tr.attrf("num_channels", "%d", len(p.BitsPerChannel))
	tr.writeString(` bits_per_channel="`)
	for i, c := range p.BitsPerChannel {
		if i != 0 {
			tr.writeString(", ")
		}
		tr.printf("%d", c)
	}
	tr.writeByte('"')
	tr.end()
	closeBox(tr, b, "PixelInformationPropertyBox")
}

func renderRloc(tr *trace, b *Box) {
	openBox(tr, b, "RelativeLocationPropertyBox")
	fullBoxAttrs(tr, b)
	p := body[RlocBody](b)
	tr.attrf("horizontal_offset", "%d", p.HorizontalOffset)
	tr.attrf("vertical_offset", "%d", p.VerticalOffset)
	tr.end()
	closeBox(tr, b, "RelativeLocationPropertyBox")
}

func renderIrot(tr *trace, b *Box) {
	openBox(tr, b, "ImageRotationBox")
	fullBoxAttrs(tr, b)
	tr.attrf("angle", "%d", int(body[IrotBody](b).Angle)*90)
	tr.end()
	closeBox(tr, b, "ImageRotationBox")
}

func renderIpma(tr *trace, b *Box) {
	openBox(tr, b, "ItemPropertyAssociationBox")
	fullBoxAttrs(tr, b)
	p := body[IpmaBody](b)
	tr.attrf("entry_count", "%d", len(p.Entries))
	tr.end()
	for _, e := range p.Entries {
		tr.start("AssociationEntry")
		tr.attrf("item_ID", "%d", e.ItemID)
		tr.attrf("association_count", "%d", len(e.Associations))
		tr.end()
		for _, a := range e.Associations {
			tr.start("Property")
			tr.attrf("index", "%d", a.Index)
			tr.attrf("essential", "%d", a.Essential)
			tr.selfEnd()
		}
		tr.closeTag("AssociationEntry")
	}
	if b.Size == 0 {
		tr.start("AssociationEntry")
		tr.attr("item_ID", "")
		tr.attr("association_count", "")
		tr.end()
		tr.start("Property")
		tr.attr("index", "")
		tr.attr("essential", "")
		tr.selfEnd()
		tr.closeTag("AssociationEntry")
	}
	closeBox(tr, b, "ItemPropertyAssociationBox")
}

func renderGrpl(tr *trace, b *Box) {
	openBox(tr, b, "GroupListBox")
	tr.end()
	closeBox(tr, b, "GroupListBox")
}

// renderTrackRefType covers every track reference kind. A zero kind means
// the reference was never set and produces no output.
func renderTrackRefType(tr *trace, b *Box) {
	p := body[TrackRefBody](b)
	if p.Kind == (BoxType{}) {
		return
	}
	openBoxAs(tr, b, "TrackReferenceTypeBox", p.Kind)
	tr.writeString(` Tracks="`)
	for _, id := range p.TrackIDs {
		tr.printf(" %d", id)
	}
	tr.writeByte('"')
	tr.end()
	closeBox(tr, b, "TrackReferenceTypeBox")
}

func renderItemRefType(tr *trace, b *Box) {
	p := body[ItemRefBody](b)
	if p.Kind == (BoxType{}) {
		return
	}
	name := p.Kind.String() + "ItemReferenceBox"
	openBoxAs(tr, b, name, p.Kind)
	tr.attrf("from_item_id", "%d", p.FromItemID)
	tr.writeString(` to_item_ids="`)
	for _, id := range p.ToItemIDs {
		tr.printf(" %d", id)
	}
	tr.writeByte('"')
	tr.end()
	closeBox(tr, b, name)
}

func renderTrackGroupType(tr *trace, b *Box) {
	p := body[TrackGroupBody](b)
	openBoxAs(tr, b, "TrackGroupTypeBox", p.Kind)
	fullBoxAttrs(tr, b)
	tr.attrf("track_group_id", "%d", p.GroupID)
	tr.end()
	closeBox(tr, b, "TrackGroupTypeBox")
}
