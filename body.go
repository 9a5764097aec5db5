package isodump

import "github.com/google/uuid"

// Container payloads. Well-known children live in named slots so the dump
// can emit them in canonical order; everything else stays in Box.Other.

type MoovBody struct {
	Iods  *Box
	Meta  *Box
	Mvhd  *Box
	Mvex  *Box
	Traks []*Box
	Udta  *Box
}

type TrakBody struct {
	Tkhd *Box
	Tref *Box
	Meta *Box
	Edts *Box
	Mdia *Box
	Trgr *Box
	Udta *Box
}

type EdtsBody struct {
	Elst *Box
}

type MdiaBody struct {
	Mdhd *Box
	Hdlr *Box
	Minf *Box
}

type MinfBody struct {
	// InfoHeader is the media-specific header (vmhd, smhd, hmhd, nmhd or
	// one of its aliases).
	InfoHeader *Box
	Dinf       *Box
	Stbl       *Box
}

type DinfBody struct {
	Dref *Box
}

type StblBody struct {
	Stsd *Box
	Stts *Box
	Ctts *Box
	Cslg *Box
	Stss *Box
	Stsh *Box
	Stsc *Box
	Stsz *Box // stsz or stz2
	Stco *Box // stco or co64
	Stdp *Box
	Sdtp *Box
	Padb *Box
	Subs []*Box
	Sgpd []*Box
	Sbgp []*Box
	Saiz []*Box
	Saio []*Box
}

type MvexBody struct {
	Mehd  *Box
	Trexs []*Box
	Treps []*Box
}

type MoofBody struct {
	Mfhd  *Box
	Trafs []*Box
}

type TrafBody struct {
	Tfhd     *Box
	Sdtp     *Box
	Tfdt     *Box
	Subs     []*Box
	Sgpd     []*Box
	Sbgp     []*Box
	Truns    []*Box
	Saiz     []*Box
	Saio     []*Box
	PiffPsec *Box
	Senc     *Box
}

type MfraBody struct {
	Tfras []*Box
}

type UdtaBody struct {
	Children []*Box
}

type TrgrBody struct {
	Groups []*Box
}

type MetaBody struct {
	Hdlr *Box
	Pitm *Box
	Dinf *Box
	Iloc *Box
	Ipro *Box
	Iinf *Box
	Iref *Box
	Iprp *Box
}

type IproBody struct {
	Sinfs []*Box
}

type IinfBody struct {
	Items []*Box
}

type IrefBody struct {
	References []*Box
}

type SinfBody struct {
	Frma *Box
	Schm *Box
	Schi *Box
}

type SchiBody struct {
	Tenc *Box
}

// Leaf payloads.

// FtypBody covers ftyp and styp.
type FtypBody struct {
	MajorBrand   BoxType
	MinorVersion uint32
	Brands       []BoxType
}

type MvhdBody struct {
	CreationTime     uint64
	ModificationTime uint64
	TimeScale        uint32
	Duration         uint64
	NextTrackID      uint32
}

type MdhdBody struct {
	CreationTime     uint64
	ModificationTime uint64
	TimeScale        uint32
	Duration         uint64
	Language         uint16 // packed ISO 639-2/T code
}

type TkhdBody struct {
	CreationTime     uint64
	ModificationTime uint64
	TrackID          uint32
	Duration         uint64
	Layer            int16
	AlternateGroup   int16
	Volume           uint16 // 8.8 fixed point
	Width            uint32 // 16.16 fixed point
	Height           uint32 // 16.16 fixed point
	Matrix           [9]uint32
}

type HmhdBody struct {
	MaxPDUSize uint32
	AvgPDUSize uint32
	MaxBitrate uint32
	AvgBitrate uint32
}

type HdlrBody struct {
	HandlerType BoxType
	Name        string
	Reserved1   uint32
	Reserved2   [12]byte
}

type UrlBody struct {
	Location string
}

type UrnBody struct {
	Name     string
	Location string
}

type CprtBody struct {
	Language uint16 // packed ISO 639-2/T code
	Notice   string
}

type KindBody struct {
	SchemeURI string
	Value     string
}

type TselBody struct {
	SwitchGroup uint32
	Criteria    []BoxType
}

type ElngBody struct {
	Language string
}

type ChplEntry struct {
	StartTime uint64 // in 100ns units
	Name      string
}

type ChplBody struct {
	Entries []ChplEntry
}

type PdinEntry struct {
	Rate          uint32
	EstimatedTime uint32
}

type PdinBody struct {
	Entries []PdinEntry
}

// IodsBody keeps the initial object descriptor as raw descriptor bytes.
type IodsBody struct {
	Data []byte
}

// Sample table payloads.

type SttsEntry struct {
	SampleDelta uint32
	SampleCount uint32
}

type SttsBody struct {
	Entries []SttsEntry
}

type CttsEntry struct {
	Offset      int32
	SampleCount uint32
}

type CttsBody struct {
	Entries []CttsEntry
}

type CslgBody struct {
	CompositionToDTSShift        int32
	LeastDecodeToDisplayDelta    int32
	GreatestDecodeToDisplayDelta int32
	CompositionStartTime         int32
	CompositionEndTime           int32
}

type StshEntry struct {
	ShadowedSample uint32
	SyncSample     uint32
}

type StshBody struct {
	Entries []StshEntry
}

type ElstEntry struct {
	Duration  uint64
	MediaTime int64
	MediaRate uint16
}

type ElstBody struct {
	Entries []ElstEntry
}

type StscEntry struct {
	FirstChunk             uint32
	SamplesPerChunk        uint32
	SampleDescriptionIndex uint32
}

type StscBody struct {
	Entries []StscEntry
}

// StszBody covers stsz and stz2. For stsz a non-zero SampleSize means all
// samples share it and Sizes is empty; for stz2 SampleSize carries the field
// bit width.
type StszBody struct {
	SampleSize  uint32
	SampleCount uint32
	Sizes       []uint32
}

type StcoBody struct {
	Offsets []uint32
}

type Co64Body struct {
	Offsets []uint64
}

type StssBody struct {
	SampleNumbers []uint32
}

type StdpBody struct {
	Priorities []uint16
}

type SdtpBody struct {
	SampleCount uint32
	SampleInfo  []byte
}

type PadbBody struct {
	SampleCount uint32
	PadBits     []uint8
}

// Sample description payloads.

type Mp4sBody struct {
	DataReferenceIndex uint16
	Esd                *Box
	Protections        []*Box
}

type Mp4vBody struct {
	DataReferenceIndex uint16
	Width              uint16
	Height             uint16
	HorizRes           uint32
	VertRes            uint32
	BitDepth           uint16
	CompressorName     string
	Esd                *Box
	AvcC               *Box
	SvcC               *Box
	Pasp               *Box
	Protections        []*Box
}

type Mp4aBody struct {
	DataReferenceIndex uint16
	SampleRate         uint32
	Channels           uint16
	BitsPerSample      uint16
	Esd                *Box
	Protections        []*Box
}

// GnrmBody is the fallback for sample entries whose coding type is not
// understood. EntryType preserves the wire identity for display.
type GnrmBody struct {
	EntryType          BoxType
	DataReferenceIndex uint16
	Data               []byte
}

type GnrvBody struct {
	EntryType          BoxType
	DataReferenceIndex uint16
	Version            uint16
	Revision           uint16
	Vendor             uint32
	TemporalQuality    uint32
	SpatialQuality     uint32
	Width              uint16
	Height             uint16
	HorizRes           uint32
	VertRes            uint32
	CompressorName     string
	BitDepth           uint16
}

type GnraBody struct {
	EntryType          BoxType
	DataReferenceIndex uint16
	Version            uint16
	Revision           uint16
	Vendor             uint32
	ChannelCount       uint16
	BitsPerSample      uint16
	SampleRate         uint32
}

// EsdsBody is the elementary stream descriptor, decoded from the nested
// MPEG-4 descriptor chain.
type EsdsBody struct {
	ESID                 uint16
	StreamType           uint8
	ObjectTypeIndication uint8
	BufferSizeDB         uint32
	MaxBitrate           uint32
	AvgBitrate           uint32
	DecoderSpecificInfo  []byte
}

// AvcCBody covers avcC and svcC decoder configuration records.
type AvcCBody struct {
	ConfigurationVersion   uint8
	AVCProfileIndication   uint8
	ProfileCompatibility   uint8
	AVCLevelIndication     uint8
	NALUnitSize            uint8
	CompleteRepresentation uint8 // svcC only
	ChromaFormat           uint8
	LumaBitDepth           uint8
	ChromaBitDepth         uint8
	SPS                    [][]byte
	PPS                    [][]byte
	SPSExt                 [][]byte
}

type BtrtBody struct {
	BufferSizeDB uint32
	MaxBitrate   uint32
	AvgBitrate   uint32
}

type PaspBody struct {
	HSpacing uint32
	VSpacing uint32
}

// Fragment payloads.

type MehdBody struct {
	FragmentDuration uint64
}

type TrexBody struct {
	TrackID                uint32
	SampleDescriptionIndex uint32
	SampleDuration         uint32
	SampleSize             uint32
	SampleFlags            uint32
}

type TrepBody struct {
	TrackID uint32
}

type LevaLevel struct {
	TrackID               uint32
	PaddingFlag           bool
	AssignmentType        uint8
	GroupingType          uint32
	GroupingTypeParameter uint32
	SubTrackID            uint32
}

type LevaBody struct {
	Levels []LevaLevel
}

type MfhdBody struct {
	SequenceNumber uint32
}

type TfhdBody struct {
	TrackID                uint32
	BaseDataOffset         uint64
	SampleDescriptionIndex uint32
	DefaultSampleDuration  uint32
	DefaultSampleSize      uint32
	DefaultSampleFlags     uint32
}

type TfdtBody struct {
	BaseMediaDecodeTime uint64
}

type TrunEntry struct {
	Duration  uint32
	Size      uint32
	CTSOffset uint32 // signed when the trun version is non-zero
	Flags     uint32
}

type TrunBody struct {
	SampleCount      uint32
	DataOffset       int32
	FirstSampleFlags uint32
	Entries          []TrunEntry
}

type TfraEntry struct {
	Time         uint64
	MoofOffset   uint64
	TrafNumber   uint32
	TrunNumber   uint32
	SampleNumber uint32
}

type TfraBody struct {
	TrackID uint32
	Entries []TfraEntry
}

type SidxRef struct {
	ReferenceType      uint8
	ReferenceSize      uint32
	SubsegmentDuration uint32
	StartsWithSAP      uint8
	SAPType            uint8
	SAPDeltaTime       uint32
}

type SidxBody struct {
	ReferenceID              uint32
	TimeScale                uint32
	EarliestPresentationTime uint64
	FirstOffset              uint64
	References               []SidxRef
}

type SsixRange struct {
	Level uint8
	Size  uint32
}

type SsixSubsegment struct {
	Ranges []SsixRange
}

type SsixBody struct {
	Subsegments []SsixSubsegment
}

type PcrbBody struct {
	PCRs []uint64
}

type PrftBody struct {
	RefTrackID uint32
	NTP        uint64
	Timestamp  uint64
}

// Sample group payloads.

type SbgpEntry struct {
	SampleCount           uint32
	GroupDescriptionIndex uint32
}

type SbgpBody struct {
	GroupingType          BoxType
	GroupingTypeParameter uint32
	Entries               []SbgpEntry
}

// SgpdBody holds sample group descriptions. Entries are typed per grouping:
// *RollRecoveryEntry, *VisualRandomAccessEntry, *SeigEntry, *OinfEntry,
// *LinfEntry or *RawGroupEntry for everything else.
type SgpdBody struct {
	GroupingType      BoxType
	DefaultLength     uint32
	DefaultGroupIndex uint32
	Entries           []any
}

type RollRecoveryEntry struct {
	RollDistance int16
}

type VisualRandomAccessEntry struct {
	NumLeadingSamplesKnown bool
	NumLeadingSamples      uint8
}

type SeigEntry struct {
	IsProtected     uint32
	PerSampleIVSize uint8
	KID             uuid.UUID
	ConstantIVSize  uint8
	ConstantIV      []byte
}

type ProfileTierLevel struct {
	GeneralProfileSpace              uint8
	GeneralTierFlag                  uint8
	GeneralProfileIDC                uint8
	GeneralProfileCompatibilityFlags uint32
	GeneralConstraintIndicatorFlags  uint64
}

type OperatingPoint struct {
	OutputLayerSetIdx uint16
	MaxTemporalID     uint8
	LayerCount        uint8
	MinPicWidth       uint16
	MinPicHeight      uint16
	MaxPicWidth       uint16
	MaxPicHeight      uint16
	MaxChromaFormat   uint8
	MaxBitDepth       uint8
	FrameRateInfoFlag bool
	BitRateInfoFlag   bool
	AvgFrameRate      uint16
	ConstantFrameRate uint8
	MaxBitRate        uint32
	AvgBitRate        uint32
}

type DependencyLayer struct {
	DependentLayerID     uint8
	DependentOnLayerIDs  []uint8
	DimensionIdentifiers [16]uint8
}

type OinfEntry struct {
	ScalabilityMask   uint16
	ProfileTierLevels []ProfileTierLevel
	OperatingPoints   []OperatingPoint
	DependencyLayers  []DependencyLayer
}

type LayerInfoItem struct {
	LayerID               uint8
	MinTemporalID         uint8
	MaxTemporalID         uint8
	SubLayerPresenceFlags uint8
}

type LinfEntry struct {
	Layers []LayerInfoItem
}

type RawGroupEntry struct {
	Data []byte
}

type SaizBody struct {
	AuxInfoType           uint32
	AuxInfoTypeParameter  uint32
	DefaultSampleInfoSize uint8
	SampleCount           uint32
	Sizes                 []uint8
}

type SaioBody struct {
	AuxInfoType          uint32
	AuxInfoTypeParameter uint32
	Offsets              []uint64
}

type Subsample struct {
	Size        uint32
	Priority    uint8
	Discardable uint8
	Reserved    uint32
}

type SubsEntry struct {
	SampleDelta uint32
	Subsamples  []Subsample
}

type SubsBody struct {
	Entries []SubsEntry
}

// Protection payloads.

type PsshBody struct {
	SystemID uuid.UUID
	KIDs     []uuid.UUID
	Data     []byte
}

type TencBody struct {
	IsProtected     uint32
	PerSampleIVSize uint8
	KID             uuid.UUID
	ConstantIVSize  uint8
	ConstantIV      []byte
	CryptByteBlock  uint8
	SkipByteBlock   uint8
}

type SencSubsample struct {
	ClearBytes     uint16
	EncryptedBytes uint32
}

type SencSample struct {
	IV         [16]byte
	Subsamples []SencSubsample
}

type SencBody struct {
	Samples []SencSample
}

type PiffTencBody struct {
	AlgorithmID uint32
	IVSize      uint8
	KID         uuid.UUID
}

type PiffPsecBody struct {
	AlgorithmID uint32
	IVSize      uint8
	KID         uuid.UUID
	Samples     []SencSample
}

type PiffPsshBody struct {
	SystemID uuid.UUID
	Data     []byte
}

type TfxdBody struct {
	AbsoluteTime uint64
	Duration     uint64
}

type FrmaBody struct {
	DataFormat BoxType
}

type SchmBody struct {
	SchemeType    BoxType
	SchemeVersion uint32
	SchemeURI     string
}

// Meta payloads.

type XmlBody struct {
	XML string
}

type BxmlBody struct {
	Data []byte
}

type IlocExtent struct {
	Offset uint64
	Length uint64
	Index  uint64
}

type IlocItem struct {
	ItemID             uint32
	DataReferenceIndex uint16
	BaseOffset         uint64
	ConstructionMethod uint8
	Extents            []IlocExtent
}

type IlocBody struct {
	OffsetSize     uint8
	LengthSize     uint8
	BaseOffsetSize uint8
	IndexSize      uint8
	Items          []IlocItem
}

type PitmBody struct {
	ItemID uint32
}

type InfeBody struct {
	ItemID              uint32
	ItemProtectionIndex uint16
	ItemType            uint32
	ItemName            string
	ContentType         string
	ContentEncoding     string
}

// Item property payloads.

type IprpBody struct {
	Ipco *Box
}

type IspeBody struct {
	ImageWidth  uint32
	ImageHeight uint32
}

type ColrBody struct {
	ColourType              BoxType
	ColourPrimaries         uint16
	TransferCharacteristics uint16
	MatrixCoefficients      uint16
	FullRangeFlag           uint8
}

// PixiBody holds the per-channel bit depths; the channel count is the
// slice length.
type PixiBody struct {
	BitsPerChannel []uint8
}

type RlocBody struct {
	HorizontalOffset uint32
	VerticalOffset   uint32
}

// IrotBody keeps the raw 2-bit angle; the dump scales it to degrees.
type IrotBody struct {
	Angle uint8
}

type IpmaAssociation struct {
	Essential uint8
	Index     uint16
}

type IpmaEntry struct {
	ItemID       uint32
	Associations []IpmaAssociation
}

type IpmaBody struct {
	Entries []IpmaEntry
}

// Reference payloads. The holder box type is reft, refi or trgt; Kind keeps
// the wire identity for display.

type TrackRefBody struct {
	Kind     BoxType
	TrackIDs []uint32
}

type ItemRefBody struct {
	Kind       BoxType
	FromItemID uint32
	ToItemIDs  []uint32
}

type TrackGroupBody struct {
	Kind    BoxType
	GroupID uint32
}

// Data payloads.

type MdatBody struct {
	DataSize uint64
}

// FreeBody covers free and skip.
type FreeBody struct {
	Data []byte
}

// UnknownBody preserves boxes whose type is not understood. Original keeps
// the wire identity; for unrecognized uuid boxes it is zero and the identity
// lives in Box.UserType.
type UnknownBody struct {
	Original BoxType
	Data     []byte
}
