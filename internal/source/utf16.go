package source

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// UTF16Index maps UTF-16 code unit offsets (as produced by JavaScript hosts)
// to byte offsets in a UTF-8 buffer.
type UTF16Index struct {
	ascii   bool
	byteOff []uint32 // byteOff[u16] = byte offset; only for non-ASCII content
	size    uint32
}

// NewUTF16Index builds the mapping for content.
func NewUTF16Index(content []byte) (*UTF16Index, error) {
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, fmt.Errorf("content too large: %w", err)
	}
	idx := &UTF16Index{size: size, ascii: true}
	for _, b := range content {
		if b >= utf8.RuneSelf {
			idx.ascii = false
			break
		}
	}
	if idx.ascii {
		return idx, nil
	}

	idx.byteOff = make([]uint32, 0, len(content)+1)
	for i := 0; i < len(content); {
		r, w := utf8.DecodeRune(content[i:])
		off := uint32(i) // #nosec G115 -- bounded by size
		idx.byteOff = append(idx.byteOff, off)
		if r >= 0x10000 {
			// суррогатная пара занимает две UTF-16 единицы
			idx.byteOff = append(idx.byteOff, off)
		}
		i += w
	}
	idx.byteOff = append(idx.byteOff, size)
	return idx, nil
}

// ByteOffset converts a UTF-16 offset into a byte offset.
func (idx *UTF16Index) ByteOffset(u16 uint32) (uint32, error) {
	if idx.ascii {
		if u16 > idx.size {
			return 0, fmt.Errorf("offset %d out of range (size %d)", u16, idx.size)
		}
		return u16, nil
	}
	if int(u16) >= len(idx.byteOff) {
		return 0, fmt.Errorf("offset %d out of range (size %d)", u16, len(idx.byteOff)-1)
	}
	return idx.byteOff[u16], nil
}
