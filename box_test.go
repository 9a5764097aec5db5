package isodump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  BoxType
		want string
	}{
		{"printable", TypeFtyp, "ftyp"},
		{"trailing space", TypeUrl, "url "},
		{"zero type", BoxType{}, "...."},
		{"mixed", BoxType{0x00, 'a', 0xff, 'z'}, ".a.z"},
		{"copyright sign", BoxType{0xa9, 'n', 'a', 'm'}, ".nam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestMakeBoxType(t *testing.T) {
	assert.Equal(t, TypeFtyp, makeBoxType(0x66747970))
	assert.Equal(t, BoxType{}, makeBoxType(0))
}

func TestBoxTypePredicates(t *testing.T) {
	assert.True(t, IsFullBox(TypeMvhd))
	assert.True(t, IsFullBox(TypeTrun))
	assert.False(t, IsFullBox(TypeFtyp))
	assert.False(t, IsFullBox(TypeMoov))
	assert.False(t, IsFullBox(TypeUUID))

	assert.True(t, IsContainerBox(TypeMoov))
	assert.True(t, IsContainerBox(TypeTraf))
	assert.False(t, IsContainerBox(TypeMvhd))
	assert.False(t, IsContainerBox(TypeMdat))

	assert.True(t, IsSampleEntry(TypeMp4a))
	assert.True(t, IsSampleEntry(TypeEncv))
	assert.False(t, IsSampleEntry(TypeAvcC))
	assert.False(t, IsSampleEntry(TypeStsd))
}

func TestBodyHelper(t *testing.T) {
	mvhd := &MvhdBody{TimeScale: 1000}
	b := &Box{Type: TypeMvhd, Body: mvhd}
	require.Same(t, mvhd, body[MvhdBody](b))

	// A missing or mismatched payload yields a usable zero value.
	assert.Zero(t, body[MvhdBody](&Box{Type: TypeMvhd}).TimeScale)
	assert.Zero(t, body[TkhdBody](b).TrackID)
	assert.NotNil(t, body[MvhdBody](&Box{Body: (*MvhdBody)(nil)}))
}
