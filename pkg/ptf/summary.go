package ptf

import (
	"fmt"
	"strings"
)

// Summary collects the few facts about a session that the decoded content
// types expose. Fields stay empty when the session lacks the block.
type Summary struct {
	Product         string    `json:"product,omitempty" yaml:"product,omitempty"`
	Version         string    `json:"version,omitempty" yaml:"version,omitempty"`
	OperatingSystem string    `json:"operating_system,omitempty" yaml:"operating_system,omitempty"`
	SampleRate      uint32    `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	BitDepth        uint8     `json:"bit_depth,omitempty" yaml:"bit_depth,omitempty"`
	SessionPath     string    `json:"session_path,omitempty" yaml:"session_path,omitempty"`
	AudioFiles      []FileRef `json:"audio_files,omitempty" yaml:"audio_files,omitempty"`
}

// Empty reports whether nothing was found.
func (s Summary) Empty() bool {
	return s.Product == "" && s.Version == "" && s.SampleRate == 0 &&
		s.SessionPath == "" && len(s.AudioFiles) == 0
}

// Summarize reads the first product info, session settings, session info and
// audio file blocks of t. Partially decoded blocks contribute the fields
// that were read.
func Summarize(t *Tree, r *Registry) Summary {
	var (
		s    Summary
		seen = make(map[ContentType]bool)
	)
	t.Walk(func(b *Block) bool {
		kind := b.ContentType
		switch kind {
		case ContentProductInfoAlt:
			kind = ContentProductInfo
		case ContentProductInfo, ContentSessionSettings, ContentSessionInfo, ContentAudioFiles:
		default:
			return true
		}
		if seen[kind] {
			return true
		}
		seen[kind] = true
		fields := t.Decode(r, b).Fields
		switch kind {
		case ContentProductInfo:
			s.Product, _ = lookupField[string](fields, fieldProductName)
			s.OperatingSystem, _ = lookupField[string](fields, fieldOperatingSystem)
			s.Version = versionOf(fields)
		case ContentSessionSettings:
			s.SampleRate, _ = lookupField[uint32](fields, fieldSampleRate)
			s.BitDepth, _ = lookupField[uint8](fields, fieldBitness)
		case ContentSessionInfo:
			dir, _ := lookupField[string](fields, fieldSessionPath)
			name, _ := lookupField[string](fields, fieldSessionFile)
			s.SessionPath = joinPath(dir, name)
		case ContentAudioFiles:
			for _, f := range fields {
				if ref, ok := f.Value.(FileRef); ok {
					s.AudioFiles = append(s.AudioFiles, ref)
				}
			}
		}
		return true
	})
	return s
}

func lookupField[T any](fields []Field, name string) (T, bool) {
	for _, f := range fields {
		if f.Name != name {
			continue
		}
		v, ok := f.Value.(T)
		return v, ok
	}
	var zero T
	return zero, false
}

func versionOf(fields []Field) string {
	if text, ok := lookupField[string](fields, fieldVersionText); ok && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	major, ok := lookupField[uint32](fields, fieldMajorVersion)
	if !ok {
		return ""
	}
	minor, _ := lookupField[uint32](fields, fieldMinorVersion)
	patch, _ := lookupField[uint32](fields, fieldPatchVersion)
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

func joinPath(dir, name string) string {
	switch {
	case dir == "":
		return name
	case name == "":
		return dir
	default:
		return dir + PathSeparator + name
	}
}
