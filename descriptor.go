package isodump

import (
	"errors"
	"strconv"
)

// MPEG-4 systems descriptor tags found inside the esds box.
const (
	tagESDescriptor        = 0x03
	tagDecoderConfig       = 0x04
	tagDecoderSpecificInfo = 0x05
)

var errDescriptor = errors.New("isodump: malformed ES descriptor")

// ParseESDescriptor decodes the descriptor chain of an esds box: the ES
// descriptor, the decoder configuration it carries, and the decoder
// specific info when present.
func ParseESDescriptor(data []byte) (*EsdsBody, error) {
	ptr, end := 0, len(data)

	// ESDescriptor (tag 0x03)
	if ptr >= end || data[ptr] != tagESDescriptor {
		return nil, errDescriptor
	}
	_, ptr = readDescriptorLength(data, ptr+1, end)
	if ptr < 0 || ptr+3 > end {
		return nil, errDescriptor
	}

	v := &EsdsBody{ESID: be.Uint16(data[ptr:])}
	flags := data[ptr+2]
	ptr += 3

	// Skip optional fields based on flags
	if flags&0x80 != 0 { // streamDependenceFlag
		ptr += 2
	}
	if flags&0x40 != 0 { // URL_Flag
		if ptr >= end {
			return nil, errDescriptor
		}
		ptr += 1 + int(data[ptr])
	}
	if flags&0x20 != 0 { // OCRstreamFlag
		ptr += 2
	}

	// DecoderConfigDescriptor (tag 0x04)
	if ptr >= end || data[ptr] != tagDecoderConfig {
		return nil, errDescriptor
	}
	_, ptr = readDescriptorLength(data, ptr+1, end)
	if ptr < 0 || ptr+13 > end {
		return nil, errDescriptor
	}

	v.ObjectTypeIndication = data[ptr]
	v.StreamType = data[ptr+1] >> 2
	v.BufferSizeDB = uint32(data[ptr+2])<<16 | uint32(data[ptr+3])<<8 | uint32(data[ptr+4])
	v.MaxBitrate = be.Uint32(data[ptr+5:])
	v.AvgBitrate = be.Uint32(data[ptr+9:])
	ptr += 13

	// DecoderSpecificInfo (tag 0x05), optional
	if ptr < end && data[ptr] == tagDecoderSpecificInfo {
		n, next := readDescriptorLength(data, ptr+1, end)
		if next >= 0 {
			if n > end-next {
				n = end - next
			}
			v.DecoderSpecificInfo = data[next : next+n]
		}
	}
	return v, nil
}

// ReadEsdsCodec extracts the MIME codec parameter from esds box data.
// It parses the MPEG-4 descriptor chain to find the OTI (Object Type
// Indication) and audio configuration. Returns a string like "40.2" for
// AAC-LC, or "" when the chain is damaged.
func ReadEsdsCodec(data []byte) string {
	esd, err := ParseESDescriptor(data)
	if err != nil || esd.ObjectTypeIndication == 0 {
		return ""
	}
	s := strconv.FormatUint(uint64(esd.ObjectTypeIndication), 16)
	if len(esd.DecoderSpecificInfo) > 0 {
		// Audio object type sits in the top five bits
		if cfg := esd.DecoderSpecificInfo[0] >> 3; cfg != 0 {
			return s + "." + strconv.Itoa(int(cfg))
		}
	}
	return s
}

// readDescriptorLength decodes the variable-length size field that follows
// every descriptor tag. It returns the payload length and the position
// after the field, or -1 when the field runs past end.
func readDescriptorLength(data []byte, ptr, end int) (int, int) {
	length := 0
	for ptr < end {
		b := data[ptr]
		ptr++
		length = length<<7 | int(b&0x7F)
		if b&0x80 == 0 {
			return length, ptr
		}
	}
	return 0, -1
}
