package ptf

// Known content types by numeric value. The hex-editor notation is in the
// trailing comment.
const (
	ContentProductInfo        ContentType = 0x0003 // 0x0300
	ContentProductInfoAlt     ContentType = 0x0030 // 0x3000
	ContentAudioFileMeta      ContentType = 0x1003 // 0x0310
	ContentAudioFormat        ContentType = 0x1001 // 0x0110
	ContentAudioFiles         ContentType = 0x1004 // 0x0410
	ContentRegionNameNumber   ContentType = 0x1007 // 0x0710
	ContentRegionNameV5       ContentType = 0x1008 // 0x0810
	ContentRegionListV5       ContentType = 0x100b // 0x0b10
	ContentRegionTrackEntry   ContentType = 0x100f // 0x0f10
	ContentRegionTrackEntries ContentType = 0x1011 // 0x1110
	ContentRegionTrackMap     ContentType = 0x1012 // 0x1210
	ContentTrackNameNumber    ContentType = 0x1014 // 0x1410
	ContentAudioTracks        ContentType = 0x1015 // 0x1510
	ContentPluginEntry        ContentType = 0x1017 // 0x1710
	ContentPluginList         ContentType = 0x1018 // 0x1810
	ContentInputEntry         ContentType = 0x1021 // 0x2110
	ContentInputList          ContentType = 0x1022 // 0x2210
	ContentSessionSettings    ContentType = 0x1028 // 0x2810
	ContentAudioFileList      ContentType = 0x103a // 0x3a10
	ContentTrackRegionEntry   ContentType = 0x104f // 0x4f10
	ContentTrackRegionList    ContentType = 0x1050 // 0x5010
	ContentRegionsPerTrack    ContentType = 0x1052 // 0x5210
	ContentMIDITrackInfo      ContentType = 0x1058 // 0x5810
	ContentMIDIEvents         ContentType = 0x2000 // 0x0020
	ContentMIDIRegionName     ContentType = 0x2001 // 0x0120
	ContentMIDIRegionMap      ContentType = 0x2002 // 0x0220
	ContentSessionInfo        ContentType = 0x2067 // 0x6720
	ContentSnaps              ContentType = 0x2511 // 0x1125
	ContentTrackList          ContentType = 0x2519 // 0x1925
	ContentTrackName          ContentType = 0x251a // 0x1a25
	ContentRegionNameV10      ContentType = 0x2629 // 0x2926
	ContentRegionListV10      ContentType = 0x262a // 0x2a26
	ContentMarkers            ContentType = 0x271a // 0x1a27
)

// Field names other code looks up in decoded results.
const (
	fieldProductName     = "Product name"
	fieldMajorVersion    = "Major version"
	fieldMinorVersion    = "Minor version"
	fieldPatchVersion    = "Patch version"
	fieldVersionText     = "Version text"
	fieldOperatingSystem = "Operating System"
	fieldSampleRate      = "sample rate"
	fieldBitness         = "bitness"
	fieldSessionPath     = "path to filename"
	fieldSessionFile     = "filename"
	fieldAudioFileCount  = "number of audio files"
	fieldAudioFile       = "audio file"
)

func u8(name string) FieldSpec     { return FieldSpec{Kind: KindU8, Name: name} }
func u16(name string) FieldSpec    { return FieldSpec{Kind: KindU16, Name: name} }
func u32(name string) FieldSpec    { return FieldSpec{Kind: KindU32, Name: name} }
func u64(name string) FieldSpec    { return FieldSpec{Kind: KindU64, Name: name} }
func str(name string) FieldSpec    { return FieldSpec{Kind: KindString, Name: name} }
func pathOf(name string) FieldSpec { return FieldSpec{Kind: KindPath, Name: name} }

// contentTypeField leads every layout: the content type is part of the
// content but already shown in the block heading.
var contentTypeField = FieldSpec{Kind: KindU16, Name: "content type", Omit: true}

func layout(fields ...FieldSpec) Layout {
	return append(Layout{contentTypeField}, fields...)
}

func defaultEntries() map[ContentType]Entry {
	return map[ContentType]Entry{
		ContentProductInfo: {
			Description: "product info, including version",
			Layout: layout(
				u8("unknown"),
				str(fieldProductName),
				u32("possible version depths?"),
				u32(fieldMajorVersion),
				u32(fieldMinorVersion),
				u32(fieldPatchVersion),
				str(fieldVersionText),
				u8("unknown"),
				str("Release"),
				u8("unknown"),
				str("File type name"),
				u8("unknown"),
				u8("unknown, possibly some OS indicator, as it differs per OS"),
				str(fieldOperatingSystem),
				u32("unknown"),
				u8("unknown"),
			),
		},
		ContentProductInfoAlt: {Description: "product info, including version"},
		ContentAudioFiles: {
			Description: "audio content list, always block type 2",
			Parser:      parseAudioFiles,
		},
		ContentAudioFileList: {Description: "audio file list"},
		ContentAudioFileMeta: {
			Description: "audio file meta data",
			Layout: layout(
				u32("file number, most likely in the order of file names"),
			),
		},
		ContentAudioFormat: {
			Description: "meta data block, file number is in the parent block",
			Layout: layout(
				u32(fieldSampleRate),
				u8("unknown, always 0x01"),
				u8(fieldBitness),
				u64("number of samples / frames"),
				u8("unknown, always 0x03"),
				u32("unknown (empty)"),
				u32("unknown, always 0x2a"),
				u32("unknown (format unsure)"),
				u32("unknown (format unsure)"),
			),
		},
		ContentSessionSettings: {
			Description: "session settings",
			Layout: layout(
				u8("unknown, always 0x03"),
				u8(fieldBitness),
				u32(fieldSampleRate),
				u8("unknown, format unclear"),
				u32("unknown, format unclear"),
				u8("unknown, 0x01"),
				pathOf("path to io settings file"),
				str("io settings filename"),
			),
		},
		ContentSessionInfo: {
			Description: "session info, path of session",
			Layout: layout(
				u32("unknown 32bit"),
				u32("unknown 32bit, 0x2a 00 00 00"),
				u16("unknown, unclear whether size is right"),
				u64("unknown 64bit, unclear whether size is right"),
				u32("unknown 32bit, 0x0a 00 00 00"),
				str("Info1"),
				str("Info2"),
				str("Info3"),
				str("Info4"),
				str("Info5"),
				u64("unknown 64bit, always empty"),
				u64("unknown 64bit, always empty"),
				u64("unknown 64bit, always empty"),
				pathOf(fieldSessionPath),
				str(fieldSessionFile),
				u32("unknown 32bit, 0x00 00 00 00"),
			),
		},
		ContentRegionListV5: {
			Description: "AUDIO region list (v5)",
			Layout: layout(
				u32("possible number of blocks to follow"),
			),
		},
		ContentRegionNameV5: {Description: "AUDIO region name, number (v5)"},
		ContentRegionNameNumber: {
			Description: "region name, number",
			Layout: layout(
				str("name"),
				u16("unknown, possibly empty"),
				u16("unknown, 0x1000 or 0x2000"),
				u8("unknown, always zero"),
				u16("unknown, possibly a length"),
			),
		},
		ContentRegionsPerTrack: {
			Description: "regions per track",
			Layout: layout(
				str("track name"),
				u32("regions per track"),
			),
		},
		ContentTrackRegionList: {Description: "track region entries"},
		ContentTrackRegionEntry: {
			Description: "track region entry",
			Layout: layout(
				u16("number"),
				u32("region index"),
				u32("region offset"),
			),
		},
		ContentRegionListV10:      {Description: "AUDIO region list (v10)"},
		ContentRegionNameV10:      {Description: "AUDIO region name, number (v10)"},
		ContentRegionTrackMap:     {Description: "AUDIO region->track full map"},
		ContentRegionTrackEntries: {Description: "AUDIO region->track map entries"},
		ContentRegionTrackEntry:   {Description: "AUDIO region->track entry"},
		ContentAudioTracks:        {Description: "AUDIO tracks"},
		ContentTrackNameNumber:    {Description: "AUDIO track name, number"},
		ContentPluginList:         {Description: "PLUGIN full list"},
		ContentPluginEntry:        {Description: "PLUGIN entry"},
		ContentInputList:          {Description: "I/O input list"},
		ContentInputEntry:         {Description: "I/O input entry"},
		ContentMIDIEvents:         {Description: "MIDI events block"},
		ContentMIDIRegionMap:      {Description: "MIDI regions map"},
		ContentMIDIRegionName:     {Description: "MIDI region name, number"},
		ContentMIDITrackInfo:      {Description: "MIDI track information"},
		ContentTrackList:          {Description: "TRACK full list"},
		ContentTrackName:          {Description: "TRACK name, number"},
		ContentMarkers:            {Description: "only occurs in 12, contains 'Markers'"},
		ContentSnaps:              {Description: "Snaps block"},
	}
}
