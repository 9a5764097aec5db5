package isodump

import (
	"fmt"
	"strings"
	"time"
)

func renderFree(tr *trace, b *Box) {
	name := "FreeSpaceBox"
	if b.Type == TypeSkip {
		name = "SkipBox"
	}
	openBox(tr, b, name)
	tr.attrf("dataSize", "%d", len(body[FreeBody](b).Data))
	tr.selfEnd()
}

func renderMdat(tr *trace, b *Box) {
	openBox(tr, b, "MediaDataBox")
	tr.attrf("dataSize", "%d", int64(body[MdatBody](b).DataSize))
	tr.selfEnd()
}

func renderUnknown(tr *trace, b *Box) {
	openBoxAs(tr, b, "UnknownBox", body[UnknownBody](b).Original)
	tr.end()
	tr.closeTag("UnknownBox")
}

func renderUnknownUUID(tr *trace, b *Box) {
	openBox(tr, b, "UnknownUUIDBox")
	tr.end()
	tr.closeTag("UnknownUUIDBox")
}

func renderVoid(tr *trace, b *Box) {
	openBox(tr, b, "VoidBox")
	tr.end()
	tr.closeTag("VoidBox")
}

func renderFtyp(tr *trace, b *Box) {
	name := "FileTypeBox"
	if b.Type == TypeStyp {
		name = "SegmentTypeBox"
	}
	openBox(tr, b, name)
	p := body[FtypBody](b)
	tr.attrf("MajorBrand", "%s", p.MajorBrand)
	tr.attrf("MinorVersion", "%d", p.MinorVersion)
	tr.end()
	for _, brand := range p.Brands {
		tr.start("BrandEntry")
		tr.attrf("AlternateBrand", "%s", brand)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.start("BrandEntry")
		tr.attr("AlternateBrand", "4CC")
		tr.selfEnd()
	}
	closeBox(tr, b, name)
}

func renderURL(tr *trace, b *Box) {
	openBox(tr, b, "URLDataEntryBox")
	fullBoxAttrs(tr, b)
	p := body[UrlBody](b)
	if p.Location != "" {
		tr.attr("URL", p.Location)
		tr.end()
	} else {
		tr.end()
		if b.Size > 0 {
			if b.Flags&1 != 0 {
				tr.comment("<!--Data is contained in the movie file-->")
			} else {
				tr.comment("<!--ERROR: No location indicated-->")
			}
		}
	}
	closeBox(tr, b, "URLDataEntryBox")
}

func renderURN(tr *trace, b *Box) {
	openBox(tr, b, "URNDataEntryBox")
	fullBoxAttrs(tr, b)
	p := body[UrnBody](b)
	if p.Name != "" {
		tr.attr("URN", p.Name)
	}
	if p.Location != "" {
		tr.attr("URL", p.Location)
	}
	tr.end()
	closeBox(tr, b, "URNDataEntryBox")
}

func renderCprt(tr *trace, b *Box) {
	openBox(tr, b, "CopyrightBox")
	fullBoxAttrs(tr, b)
	p := body[CprtBody](b)
	tr.attrf("LanguageCode", "%s", langCode(p.Language))
	tr.attr("CopyrightNotice", p.Notice)
	tr.end()
	closeBox(tr, b, "CopyrightBox")
}

func renderKind(tr *trace, b *Box) {
	openBox(tr, b, "KindBox")
	fullBoxAttrs(tr, b)
	p := body[KindBody](b)
	tr.attr("schemeURI", p.SchemeURI)
	tr.attr("value", p.Value)
	tr.end()
	closeBox(tr, b, "KindBox")
}

func renderTsel(tr *trace, b *Box) {
	openBox(tr, b, "TrackSelectionBox")
	fullBoxAttrs(tr, b)
	p := body[TselBody](b)
	tr.attrf("switchGroup", "%d", p.SwitchGroup)
	codes := make([]string, len(p.Criteria))
	for i, c := range p.Criteria {
		codes[i] = c.String()
	}
	tr.attr("criteria", strings.Join(codes, ";"))
	tr.end()
	closeBox(tr, b, "TrackSelectionBox")
}

func renderChpl(tr *trace, b *Box) {
	openBox(tr, b, "ChapterListBox")
	fullBoxAttrs(tr, b)
	tr.end()
	p := body[ChplBody](b)
	if b.Size > 0 {
		for _, e := range p.Entries {
			tr.start("Chapter")
			tr.attr("name", e.Name)
			tr.attr("startTime", formatDuration(e.StartTime, 10000000))
			tr.selfEnd()
		}
	} else {
		tr.start("Chapter")
		tr.attr("name", "")
		tr.attr("startTime", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "ChapterListBox")
}

// formatDuration renders a duration in timescale units as HH:MM:SS.mmm.
func formatDuration(dur uint64, timescale uint32) string {
	ms := uint32(float64(int64(dur)) / float64(timescale) * 1000)
	h := ms / 3600000
	m := ms/60000 - h*60
	s := ms/1000 - h*3600 - m*60
	ms -= h*3600000 + m*60000 + s*1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func renderPdin(tr *trace, b *Box) {
	openBox(tr, b, "ProgressiveDownloadBox")
	fullBoxAttrs(tr, b)
	tr.end()
	p := body[PdinBody](b)
	if b.Size > 0 {
		for _, e := range p.Entries {
			tr.start("DownloadInfo")
			tr.attrf("rate", "%d", e.Rate)
			tr.attrf("estimatedTime", "%d", e.EstimatedTime)
			tr.selfEnd()
		}
	} else {
		tr.start("DownloadInfo")
		tr.attr("rate", "")
		tr.attr("estimatedTime", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "ProgressiveDownloadBox")
}

func renderIods(tr *trace, b *Box) {
	openBox(tr, b, "ObjectDescriptorBox")
	fullBoxAttrs(tr, b)
	tr.end()
	p := body[IodsBody](b)
	if len(p.Data) > 0 {
		tr.start("Descriptor")
		tr.attrf("size", "%d", len(p.Data))
		tr.attrData("value", p.Data)
		tr.selfEnd()
	} else if b.Size > 0 {
		tr.comment("<!--WARNING: Object Descriptor not present-->")
	}
	closeBox(tr, b, "ObjectDescriptorBox")
}

// ntpEpochOffset is the number of seconds between the NTP epoch (1900)
// and the Unix epoch (1970).
const ntpEpochOffset = 2208988800

func renderPrft(tr *trace, b *Box) {
	openBox(tr, b, "ProducerReferenceTimeBox")
	fullBoxAttrs(tr, b)
	p := body[PrftBody](b)
	tr.attrf("referenceTrackID", "%d", p.RefTrackID)
	tr.attrf("timestamp", "%d", p.Timestamp)
	tr.attrf("NTP", "%d", p.NTP)
	utc := time.Unix(int64(p.NTP>>32)-ntpEpochOffset, 0).UTC()
	frac := uint32(float64(p.NTP&0xFFFFFFFF) / 0xFFFFFFFF * 1000)
	tr.attrf("UTC", "%d-%02d-%02dT%02d:%02d:%02d.%03dZ",
		utc.Year(), int(utc.Month()), utc.Day(),
		utc.Hour(), utc.Minute(), utc.Second(), frac)
	tr.end()
	closeBox(tr, b, "ProducerReferenceTimeBox")
}
