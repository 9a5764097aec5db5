package isodump

import (
	"io"

	"go.uber.org/zap"
)

// Dump writes an XML trace of a box tree to w, one element per box, in the
// layout of the MPEG file-format reference traces. name labels the file in
// the document root element.
//
// Malformed structure never aborts the dump: problems are reported inline
// as XML comments and the dump continues. The returned error reflects only
// failures of the underlying writer.
func Dump(w io.Writer, name string, boxes []*Box) error {
	tr := newTrace(w)
	tr.writeString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	tr.writeString("<!--MP4Box dump trace-->\n")
	tr.printf("<IsoMediaFile xmlns=\"urn:mpeg:isobmff:schema:file:2016\" Name=\"%s\">\n", name)
	for _, b := range boxes {
		if b == nil {
			nullBoxErr(tr, BoxType{})
			continue
		}
		switch b.Type {
		case TypeFtyp, TypeMoov, TypeMdat, TypeFree, TypeMeta, TypeSkip,
			TypeMoof, TypeStyp, TypeSidx, TypeSsix, TypePcrb,
			TypeMfra, TypePrft, TypeUUID:
		default:
			badTopBoxErr(tr, b)
		}
		dumpBox(tr, b)
	}
	tr.writeString("</IsoMediaFile>\n")
	return tr.flush()
}

func nullBoxErr(tr *trace, expected BoxType) {
	if expected != (BoxType{}) {
		tr.comment("<!--ERROR: NULL Box Found, expecting %s -->", expected)
	} else {
		tr.comment("<!--ERROR: NULL Box Found-->")
	}
}

func badTopBoxErr(tr *trace, b *Box) {
	tr.comment("<!--ERROR: Invalid Top-level Box Found (\"%s\")-->", b.Type)
}

// dumpBox renders one box through the dispatch table. A type with no table
// entry is reported inline and skipped; that only happens for hand-built
// trees, since parsing maps unrecognized types to the unknown box.
func dumpBox(tr *trace, b *Box) {
	if b == nil {
		nullBoxErr(tr, BoxType{})
		return
	}
	if fn, ok := renderers[b.Type]; ok {
		fn(tr, b)
		return
	}
	tr.comment("<!--ERROR: Unregistered Box Found (\"%s\")-->", b.Type)
	zap.L().Warn("trying to dump unregistered box type",
		zap.String("type", b.Type.String()))
}

// dumpExpected renders b, or reports a missing mandatory child as expected.
func dumpExpected(tr *trace, b *Box, expected BoxType) {
	if b == nil {
		nullBoxErr(tr, expected)
		return
	}
	dumpBox(tr, b)
}

// dumpOptional renders b if present.
func dumpOptional(tr *trace, b *Box) {
	if b != nil {
		dumpBox(tr, b)
	}
}

// dumpList renders each box of a list in order.
func dumpList(tr *trace, boxes []*Box) {
	for _, b := range boxes {
		dumpBox(tr, b)
	}
}

// openBox writes the opening marker of b: element name, size and wire
// identity. The element is left open for the caller's attributes.
func openBox(tr *trace, b *Box, name string) {
	openBoxAs(tr, b, name, b.Type)
}

// openBoxAs is openBox with a display identity override, used by boxes whose
// registered type differs from the four-character code they carry on the
// wire (reference types, track groups, generic sample entries).
func openBoxAs(tr *trace, b *Box, name string, typ BoxType) {
	tr.start(name)
	if b.Size > uint32Max {
		tr.attrf("LargeSize", "%d", b.Size)
	} else {
		tr.attrf("Size", "%d", uint32(b.Size))
	}
	if b.Type == TypeUUID {
		tr.attrUUID(b.UserType)
	} else {
		tr.attrf("Type", "%s", typ)
	}
}

// fullBoxAttrs writes the version and flags attributes of a full box.
func fullBoxAttrs(tr *trace, b *Box) {
	tr.attrf("Version", "%d", b.Version)
	tr.attrf("Flags", "0x%X", b.Flags)
}

// closeBox dumps the unclaimed children of b and writes its closing tag.
func closeBox(tr *trace, b *Box, name string) {
	dumpList(tr, b.Other)
	tr.closeTag(name)
}

// renderUUIDBox routes a uuid box to its extended-type renderer. Types
// outside the known set dump as unknown uuid boxes.
func renderUUIDBox(tr *trace, b *Box) {
	switch b.UserType {
	case UUIDTenc:
		renderPiffTenc(tr, b)
	case UUIDPsec:
		renderPiffPsec(tr, b)
	case UUIDPssh:
		renderPiffPssh(tr, b)
	case UUIDTfxd:
		renderTfxd(tr, b)
	default:
		renderUnknownUUID(tr, b)
	}
}
