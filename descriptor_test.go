package isodump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aacDescriptorChain builds the esds payload of a typical AAC-LC track.
func aacDescriptorChain() []byte {
	return []byte{
		0x03, 26, // ES_Descriptor
		0x00, 0x01, // ES_ID
		0x00,     // no stream dependence, URL or OCR
		0x04, 17, // DecoderConfigDescriptor
		0x40,             // objectTypeIndication: MPEG-4 Audio
		0x15,             // streamType 5 (audio)
		0x00, 0x06, 0x00, // bufferSizeDB
		0x00, 0x01, 0xF4, 0x00, // maxBitrate 128000
		0x00, 0x01, 0x77, 0x00, // avgBitrate 96000
		0x05, 2, // DecoderSpecificInfo
		0x12, 0x10, // AAC-LC, 44100 Hz, stereo
	}
}

func TestParseESDescriptor(t *testing.T) {
	esd, err := ParseESDescriptor(aacDescriptorChain())
	require.NoError(t, err)
	assert.Equal(t, uint16(1), esd.ESID)
	assert.Equal(t, uint8(0x40), esd.ObjectTypeIndication)
	assert.Equal(t, uint8(5), esd.StreamType)
	assert.Equal(t, uint32(1536), esd.BufferSizeDB)
	assert.Equal(t, uint32(128000), esd.MaxBitrate)
	assert.Equal(t, uint32(96000), esd.AvgBitrate)
	assert.Equal(t, []byte{0x12, 0x10}, esd.DecoderSpecificInfo)
}

func TestParseESDescriptorOptionalFields(t *testing.T) {
	t.Run("stream dependence", func(t *testing.T) {
		data := []byte{
			0x03, 28,
			0x00, 0x02,
			0x80,       // streamDependenceFlag
			0x00, 0x01, // dependsOn_ES_ID
			0x04, 13,
			0x40, 0x15,
			0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
		}
		esd, err := ParseESDescriptor(data)
		require.NoError(t, err)
		assert.Equal(t, uint16(2), esd.ESID)
		assert.Equal(t, uint8(0x40), esd.ObjectTypeIndication)
	})

	t.Run("url string", func(t *testing.T) {
		data := []byte{
			0x03, 30,
			0x00, 0x03,
			0x40,               // URL_Flag
			3, 'u', 'r', 'l',   // URLlength + URLstring
			0x04, 13,
			0x6C, 0x11, // JPEG, visual stream
			0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
		}
		esd, err := ParseESDescriptor(data)
		require.NoError(t, err)
		assert.Equal(t, uint8(0x6C), esd.ObjectTypeIndication)
		assert.Equal(t, uint8(4), esd.StreamType)
	})

	t.Run("multi-byte descriptor length", func(t *testing.T) {
		chain := aacDescriptorChain()
		// Re-encode the outer length on two bytes: 0x80|0 then 26.
		data := append([]byte{0x03, 0x80, 26}, chain[2:]...)
		esd, err := ParseESDescriptor(data)
		require.NoError(t, err)
		assert.Equal(t, uint8(0x40), esd.ObjectTypeIndication)
	})
}

func TestParseESDescriptorMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"wrong outer tag", []byte{0x04, 3, 0x00, 0x01, 0x00}},
		{"missing decoder config", []byte{0x03, 3, 0x00, 0x01, 0x00}},
		{"truncated config body", []byte{0x03, 10, 0x00, 0x01, 0x00, 0x04, 13, 0x40, 0x15}},
		{"unterminated length field", []byte{0x03, 0x80, 0x80, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseESDescriptor(tt.data)
			assert.ErrorIs(t, err, errDescriptor)
		})
	}
}

func TestReadEsdsCodec(t *testing.T) {
	assert.Equal(t, "40.2", ReadEsdsCodec(aacDescriptorChain()))

	// No decoder specific info degrades to the bare OTI.
	noDSI := []byte{
		0x03, 22,
		0x00, 0x01,
		0x00,
		0x04, 13,
		0x40, 0x15,
		0x00, 0x06, 0x00,
		0x00, 0x01, 0xF4, 0x00,
		0x00, 0x01, 0x77, 0x00,
	}
	assert.Equal(t, "40", ReadEsdsCodec(noDSI))

	assert.Equal(t, "", ReadEsdsCodec(nil))
	assert.Equal(t, "", ReadEsdsCodec([]byte{0x07, 0x00}))
}
