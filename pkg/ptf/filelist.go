package ptf

import (
	"encoding/binary"
	"fmt"
)

// audioListPrefix skips the content type and an unknown 32-bit counter at the
// start of an audio file list.
const audioListPrefix = contentTypeSize + 4

// ParseAudioFileList decodes the interleaved directory/file list stored in
// ContentAudioFileList blocks.
//
// A directory entry is 0x01, an unknown 32-bit counter, a name and an empty
// string. A file entry is 0x02, a 32-bit file type, a name and four unknown
// bytes. Consecutive directory entries nest; a directory entry that follows
// anything else starts a new path. The list ends at the first byte that is
// neither 0x01 nor 0x02.
func ParseAudioFileList(content []byte, order binary.ByteOrder) ([]FileRef, error) {
	c := newCursor(content, order)
	if _, err := c.readN(audioListPrefix); err != nil {
		return nil, err
	}
	var (
		refs []FileRef
		dir  string
		prev byte
	)
	for {
		tag, ok := c.peekU8()
		if !ok {
			return refs, nil
		}
		switch tag {
		case entryDirectory:
			c.off++
			if _, err := c.readU32(); err != nil {
				return refs, fmt.Errorf("directory entry: %w", err)
			}
			name, err := c.readString()
			if err != nil {
				return refs, fmt.Errorf("directory entry: %w", err)
			}
			if prev == entryDirectory {
				dir += PathSeparator + name
			} else {
				dir = name
			}
			c.skip(4)
		case entryFile:
			c.off++
			ft, err := c.readU32()
			if err != nil {
				return refs, fmt.Errorf("file entry: %w", err)
			}
			name, err := c.readString()
			if err != nil {
				return refs, fmt.Errorf("file entry: %w", err)
			}
			refs = append(refs, FileRef{Path: dir + PathSeparator + name, FileType: ft})
			c.skip(4)
		default:
			return refs, nil
		}
		prev = tag
	}
}

// parseAudioFiles decodes ContentAudioFiles: a file count followed by a child
// block holding the actual list.
func parseAudioFiles(b *Block, order binary.ByteOrder) ([]Field, error) {
	c := newCursor(b.Content, order)
	c.off = contentTypeSize
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	fields := []Field{{
		Name:   fieldAudioFileCount,
		Kind:   KindU32,
		Offset: contentTypeSize,
		Value:  count,
	}}
	list := b.Child(ContentAudioFileList)
	if list == nil {
		return fields, nil
	}
	refs, err := ParseAudioFileList(list.Content, order)
	for _, r := range refs {
		fields = append(fields, Field{
			Name:   fieldAudioFile,
			Kind:   KindFileList,
			Offset: list.ContentStart() - b.ContentStart(),
			Value:  r,
		})
	}
	return fields, err
}
