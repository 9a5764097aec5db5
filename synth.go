package isodump

import (
	"errors"
	"io"
)

// ErrBoxIndex reports a schema index outside the dispatch table.
var ErrBoxIndex = errors.New("isodump: box index out of range")

// DumpSupportedBox writes the schema rendering of dispatch table entry i.
// The box is synthesized empty with the entry's highest version and full
// flag mask, so every conditional attribute and one placeholder row per
// table appear in the output.
func DumpSupportedBox(w io.Writer, i int) error {
	if i < 0 || i >= len(boxDefs) {
		return ErrBoxIndex
	}
	def := boxDefs[i]
	b := &Box{
		Type:    def.typ,
		Version: def.maxVersion,
		Flags:   def.flags,
	}
	if def.alt != (BoxType{}) {
		switch def.typ {
		case TypeReft:
			b.Body = &TrackRefBody{Kind: def.alt}
		case TypeRefi:
			b.Body = &ItemRefBody{Kind: def.alt}
		case TypeTrgt:
			b.Body = &TrackGroupBody{Kind: def.alt}
		case TypeSgpd:
			b.Body = &SgpdBody{GroupingType: def.alt}
		}
	}
	tr := newTrace(w)
	def.render(tr, b)
	return tr.flush()
}
