package isodump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/uuid"
)

const hexUpper = "0123456789ABCDEF"

// trace accumulates the XML dump. Write errors stick: after the first
// failure every call is a no-op, and flush reports the error once.
type trace struct {
	w   *bufio.Writer
	err error
}

func newTrace(w io.Writer) *trace {
	return &trace{w: bufio.NewWriter(w)}
}

func (t *trace) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *trace) writeString(s string) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.WriteString(s)
}

func (t *trace) writeByte(b byte) {
	if t.err != nil {
		return
	}
	t.err = t.w.WriteByte(b)
}

// start opens an element. Attributes follow, then end, selfEnd or the box
// close path.
func (t *trace) start(name string) {
	t.writeString("<")
	t.writeString(name)
}

func (t *trace) end() {
	t.writeString(">\n")
}

func (t *trace) selfEnd() {
	t.writeString("/>\n")
}

func (t *trace) closeTag(name string) {
	t.writeString("</")
	t.writeString(name)
	t.writeString(">\n")
}

// attr writes a string attribute with XML escaping.
func (t *trace) attr(name, value string) {
	t.writeString(" ")
	t.writeString(name)
	t.writeString("=\"")
	t.escape(value)
	t.writeString("\"")
}

// attrf writes a formatted attribute without escaping, for numeric values.
func (t *trace) attrf(name, format string, args ...any) {
	if t.err != nil {
		return
	}
	t.printf(" "+name+"=\""+format+"\"", args...)
}

// attrHex writes data as a 0x-prefixed upper-case hex attribute.
func (t *trace) attrHex(name string, data []byte) {
	t.writeString(" ")
	t.writeString(name)
	t.writeString("=\"0x")
	t.hex(data)
	t.writeString("\"")
}

// attrData writes data as an octet-string data URL attribute.
func (t *trace) attrData(name string, data []byte) {
	t.writeString(" ")
	t.writeString(name)
	t.writeString("=\"data:application/octet-string,")
	t.hex(data)
	t.writeString("\"")
}

// attrUUID writes a 16-byte extended type in the brace-and-hyphen form used
// for uuid box identities.
func (t *trace) attrUUID(u uuid.UUID) {
	t.writeString(" UUID=\"{")
	for i, b := range u {
		t.writeByte(hexUpper[b>>4])
		t.writeByte(hexUpper[b&0xf])
		if i < 15 && i%4 == 3 {
			t.writeByte('-')
		}
	}
	t.writeString("}\"")
}

func (t *trace) hex(data []byte) {
	for _, b := range data {
		t.writeByte(hexUpper[b>>4])
		t.writeByte(hexUpper[b&0xf])
	}
}

func (t *trace) escape(s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			t.writeString("&apos;")
		case '"':
			t.writeString("&quot;")
		case '&':
			t.writeString("&amp;")
		case '>':
			t.writeString("&gt;")
		case '<':
			t.writeString("&lt;")
		default:
			t.writeByte(s[i])
		}
	}
}

// comment writes a full diagnostic line, typically an XML comment.
func (t *trace) comment(format string, args ...any) {
	t.printf(format+"\n", args...)
}

func (t *trace) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}
