// Package ifd implements the directory/value codec: encoding and
// decoding a single IFD entry, and locating, enumerating and
// resolving tags within an Image File Directory, for both Classic
// and BigTIFF files.
package ifd

// Tag is a 16-bit TIFF tag identifier. The constant table below is
// grounded on garyhouston-tiff66's Tag block, extended with nothing
// further since that source already carries the GeoTIFF/Exif/private
// tags a complete reader needs to pass through opaquely.
type Tag uint16

const (
	NewSubfileType              Tag = 0x0FE
	SubfileType                 Tag = 0x0FF
	ImageWidth                  Tag = 0x100
	ImageLength                 Tag = 0x101
	BitsPerSample                Tag = 0x102
	Compression                  Tag = 0x103
	PhotometricInterpretation    Tag = 0x106
	Threshholding                Tag = 0x107
	CellWidth                    Tag = 0x108
	CellLength                   Tag = 0x109
	FillOrder                    Tag = 0x10A
	DocumentName                 Tag = 0x10D
	ImageDescription             Tag = 0x10E
	Make                         Tag = 0x10F
	Model                        Tag = 0x110
	StripOffsets                 Tag = 0x111
	Orientation                  Tag = 0x112
	SamplesPerPixel              Tag = 0x115
	RowsPerStrip                 Tag = 0x116
	StripByteCounts               Tag = 0x117
	MinSampleValue                Tag = 0x118
	MaxSampleValue                Tag = 0x119
	XResolution                   Tag = 0x11A
	YResolution                   Tag = 0x11B
	PlanarConfiguration           Tag = 0x11C
	PageName                      Tag = 0x11D
	XPosition                     Tag = 0x11E
	YPosition                     Tag = 0x11F
	FreeOffsets                   Tag = 0x120
	FreeByteCounts                Tag = 0x121
	GrayResponseUnit              Tag = 0x122
	GrayResponseCurve             Tag = 0x123
	ResolutionUnit                Tag = 0x128
	PageNumber                    Tag = 0x129
	TransferFunction              Tag = 0x12D
	Software                      Tag = 0x131
	DateTime                      Tag = 0x132
	Artist                        Tag = 0x13B
	HostComputer                  Tag = 0x13C
	Predictor                     Tag = 0x13D
	WhitePoint                    Tag = 0x13E
	PrimaryChromaticities         Tag = 0x13F
	ColorMap                      Tag = 0x140
	HalftoneHints                 Tag = 0x141
	TileWidth                     Tag = 0x142
	TileLength                    Tag = 0x143
	TileOffsets                   Tag = 0x144
	TileByteCounts                Tag = 0x145
	SubIFDs                       Tag = 0x14A
	InkSet                        Tag = 0x14C
	InkNames                      Tag = 0x14D
	NumberOfInks                  Tag = 0x14E
	DotRange                      Tag = 0x150
	TargetPrinter                 Tag = 0x151
	ExtraSamples                  Tag = 0x152
	SampleFormat                  Tag = 0x153
	SMinSampleValue               Tag = 0x154
	SMaxSampleValue               Tag = 0x155
	TransferRange                 Tag = 0x156
	Indexed                       Tag = 0x15A
	JPEGTables                    Tag = 0x15B
	YCbCrCoefficients             Tag = 0x211
	YCbCrSubSampling              Tag = 0x212
	YCbCrPositioning              Tag = 0x213
	ReferenceBlackWhite           Tag = 0x214
	XMP                           Tag = 0x2BC
	ImageID                       Tag = 0x800
	Copyright                     Tag = 0x8298
	ModelPixelScaleTag            Tag = 0x830E
	ModelTiepointTag              Tag = 0x8482
	ModelTransformationTag        Tag = 0x85D8
	ExifIFD                       Tag = 0x8769
	ICCProfile                    Tag = 0x8773
	GeoKeyDirectoryTag            Tag = 0x87AF
	GeoDoubleParamsTag            Tag = 0x87B0
	GeoAsciiParamsTag             Tag = 0x87B1
	GPSIFD                        Tag = 0x8825
)

// FieldType is the TIFF field-type enumeration, extended for BigTIFF
// with Long8/SLong8/IFD8 (64-bit variants with no Classic equivalent).
type FieldType uint16

const (
	TypeByte      FieldType = 1
	TypeASCII     FieldType = 2
	TypeShort     FieldType = 3
	TypeLong      FieldType = 4
	TypeRational  FieldType = 5
	TypeSByte     FieldType = 6
	TypeUndefined FieldType = 7
	TypeSShort    FieldType = 8
	TypeSLong     FieldType = 9
	TypeSRational FieldType = 10
	TypeFloat     FieldType = 11
	TypeDouble    FieldType = 12
	TypeIFD       FieldType = 13
	TypeLong8     FieldType = 16
	TypeSLong8    FieldType = 17
	TypeIFD8      FieldType = 18
)

var typeSizes = map[FieldType]int{
	TypeByte:      1,
	TypeASCII:     1,
	TypeShort:     2,
	TypeLong:      4,
	TypeRational:  8,
	TypeSByte:     1,
	TypeUndefined: 1,
	TypeSShort:    2,
	TypeSLong:     4,
	TypeSRational: 8,
	TypeFloat:     4,
	TypeDouble:    8,
	TypeIFD:       4,
	TypeLong8:     8,
	TypeSLong8:    8,
	TypeIFD8:      8,
}

var typeNames = map[FieldType]string{
	TypeByte:      "Byte",
	TypeASCII:     "ASCII",
	TypeShort:     "Short",
	TypeLong:      "Long",
	TypeRational:  "Rational",
	TypeSByte:     "SByte",
	TypeUndefined: "Undefined",
	TypeSShort:    "SShort",
	TypeSLong:     "SLong",
	TypeSRational: "SRational",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeIFD:       "IFD",
	TypeLong8:     "Long8",
	TypeSLong8:    "SLong8",
	TypeIFD8:      "IFD8",
}

// Size returns the byte width of a single value of this type, or 0
// if the type is not one of the known TIFF/BigTIFF field types.
func (t FieldType) Size() int {
	return typeSizes[t]
}

// Known reports whether t is a recognized field type. Unknown types
// still round-trip opaquely (spec.md §4.D): the entry surfaces with
// Known() == false rather than aborting enumeration.
func (t FieldType) Known() bool {
	_, ok := typeSizes[t]
	return ok
}

// Name returns a human-readable name, or "Unknown" for an
// unrecognized field type.
func (t FieldType) Name() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Unknown"
}

func (t FieldType) IsIntegral() bool {
	switch t {
	case TypeByte, TypeShort, TypeLong, TypeSByte, TypeSShort, TypeSLong, TypeLong8, TypeSLong8:
		return true
	}
	return false
}

func (t FieldType) IsRational() bool {
	return t == TypeRational || t == TypeSRational
}

func (t FieldType) IsFloat() bool {
	return t == TypeFloat || t == TypeDouble
}

// Mode is the file's word/offset width regime.
type Mode uint8

const (
	Classic Mode = iota
	Big
)

// HeaderSize returns the on-disk header size for this mode: 8 bytes
// Classic, 16 bytes Big.
func (m Mode) HeaderSize() int64 {
	if m == Big {
		return 16
	}
	return 8
}

// InlineCap returns how many bytes of a value are stored inline in
// an entry before it must spill to an out-of-line offset: 4 Classic,
// 8 Big.
func (m Mode) InlineCap() int {
	if m == Big {
		return 8
	}
	return 4
}

// EntrySize returns the on-disk size of one IFD entry: 12 bytes
// Classic, 20 bytes Big.
func (m Mode) EntrySize() int64 {
	if m == Big {
		return 20
	}
	return 12
}

// CountWidth returns the width of the IFD entry-count field: 2 bytes
// Classic, 8 bytes Big.
func (m Mode) CountWidth() int64 {
	if m == Big {
		return 8
	}
	return 2
}

// OffsetWidth returns the width of a stream offset on disk: 4 bytes
// Classic, 8 bytes Big.
func (m Mode) OffsetWidth() int64 {
	if m == Big {
		return 8
	}
	return 4
}
