package ptf

import (
	"encoding/binary"
	"fmt"
	"unicode"
)

// PathSeparator joins path segments and directory entries.
const PathSeparator = "/"

// Kind is the primitive type of a layout field.
type Kind uint8

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	// KindString is a 32-bit length followed by the text.
	KindString
	// KindPath is a 32-bit segment count followed by that many strings.
	KindPath
	// KindFileList is a run of entries starting with 0x02: a 32-bit file
	// type code, a 32-bit name length and the name. It ends at the first
	// byte that is not 0x02.
	KindFileList
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindString:
		return "string"
	case KindPath:
		return "path"
	case KindFileList:
		return "filelist"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MinSize is the smallest number of bytes a field of this kind consumes.
func (k Kind) MinSize() int {
	switch k {
	case KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindString, KindPath:
		return 4
	case KindU64, KindI64:
		return 8
	default:
		return 0
	}
}

// FieldSpec describes one field of a layout. Omitted fields consume their
// bytes but are left out of the decoded result.
type FieldSpec struct {
	Kind Kind
	Name string
	Omit bool
}

// Layout is an ordered field schema for one content type.
type Layout []FieldSpec

// MinSize is the smallest content length the layout can decode.
func (l Layout) MinSize() int {
	n := 0
	for _, f := range l {
		n += f.Kind.MinSize()
	}
	return n
}

// Field is a decoded value. Offset is relative to the block content.
type Field struct {
	Name   string
	Kind   Kind
	Offset int
	Value  any
}

func (f Field) String() string {
	return fmt.Sprintf("%s: \t %s", f.Name, FormatValue(f.Value))
}

// FileRef is one entry of an audio file list.
type FileRef struct {
	Path     string `json:"path" yaml:"path"`
	FileType uint32 `json:"file_type" yaml:"file_type"`
}

// TypeTag renders the file type code as four characters when they are all
// printable, the way WAVE and AIFF codes are stored.
func (r FileRef) TypeTag() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], r.FileType)
	for _, c := range b {
		if c > unicode.MaxASCII || !unicode.IsPrint(rune(c)) {
			return ""
		}
	}
	return string(b[:])
}

func (r FileRef) String() string {
	if tag := r.TypeTag(); tag != "" {
		return fmt.Sprintf("path: %s, fileType: %d (%s)", r.Path, r.FileType, tag)
	}
	return fmt.Sprintf("path: %s, fileType: %d", r.Path, r.FileType)
}

// FormatValue renders a decoded value for text output.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []FileRef:
		if len(val) == 0 {
			return "(none)"
		}
		s := ""
		for i, r := range val {
			if i > 0 {
				s += "; "
			}
			s += r.String()
		}
		return s
	default:
		return fmt.Sprint(val)
	}
}

// DecodeLayout reads content strictly in layout order starting at offset 0.
// It returns the visible fields and the number of bytes consumed. On error the
// fields decoded before the failing one are returned together with the offset
// where decoding stopped; the caller must treat the result as incomplete.
func DecodeLayout(content []byte, layout Layout, order binary.ByteOrder) ([]Field, int, error) {
	c := newCursor(content, order)
	fields := make([]Field, 0, len(layout))
	for _, spec := range layout {
		start := c.off
		v, err := readField(c, spec.Kind)
		if err != nil {
			return fields, start, fmt.Errorf("field %q: %w", spec.Name, err)
		}
		if spec.Omit {
			continue
		}
		fields = append(fields, Field{
			Name:   spec.Name,
			Kind:   spec.Kind,
			Offset: start,
			Value:  v,
		})
	}
	return fields, c.off, nil
}

func readField(c *cursor, k Kind) (any, error) {
	switch k {
	case KindU8:
		return c.readU8()
	case KindI8:
		v, err := c.readU8()
		return int8(v), err
	case KindU16:
		return c.readU16()
	case KindI16:
		v, err := c.readU16()
		return int16(v), err
	case KindU32:
		return c.readU32()
	case KindI32:
		v, err := c.readU32()
		return int32(v), err
	case KindU64:
		return c.readU64()
	case KindI64:
		v, err := c.readU64()
		return int64(v), err
	case KindString:
		return c.readString()
	case KindPath:
		return c.readPath()
	case KindFileList:
		return readFileList(c)
	default:
		return nil, fmt.Errorf("unsupported field kind %s", k)
	}
}

const (
	entryDirectory byte = 0x01
	entryFile      byte = 0x02
)

func readFileList(c *cursor) ([]FileRef, error) {
	var refs []FileRef
	for {
		tag, ok := c.peekU8()
		if !ok || tag != entryFile {
			return refs, nil
		}
		c.off++
		ft, err := c.readU32()
		if err != nil {
			return refs, err
		}
		name, err := c.readString()
		if err != nil {
			return refs, err
		}
		refs = append(refs, FileRef{Path: name, FileType: ft})
	}
}
