package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encode writes c into dst, which must be at least RecordSize bytes long.
// Unused slot bytes are zeroed.
func Encode(dst []byte, c Customer) {
	_ = dst[RecordSize-1]
	binary.LittleEndian.PutUint32(dst[0:4], uint32(c.ID))
	off := 4
	for _, s := range slots {
		width := s.max + 1
		field := dst[off : off+width]
		n := copy(field, s.get(&c).s)
		clear(field[n:])
		off += width
	}
}

// Marshal returns a freshly allocated encoding of c.
func Marshal(c Customer) []byte {
	b := make([]byte, RecordSize)
	Encode(b, c)
	return b
}

// Decode parses one record. Each text slot is read up to its first zero byte.
func Decode(src []byte) (Customer, error) {
	if len(src) < RecordSize {
		return Customer{}, fmt.Errorf("short record: %d bytes, want %d", len(src), RecordSize)
	}
	var c Customer
	c.ID = int32(binary.LittleEndian.Uint32(src[0:4]))
	off := 4
	for _, s := range slots {
		width := s.max + 1
		field := src[off : off+width]
		if i := bytes.IndexByte(field, 0); i >= 0 {
			field = field[:i]
		} else {
			field = field[:s.max]
		}
		*s.get(&c) = Text{s: string(field)}
		off += width
	}
	return c, nil
}
