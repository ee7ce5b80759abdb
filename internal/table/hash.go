package table

import (
	"crypto/sha256"
	"encoding/binary"
)

// RowKey returns a stable digest of the row's full content, usable as a map key
// for exact-equality checks. Missing and empty cells produce different keys.
// Each present cell is length-prefixed, so cell boundaries cannot shift.
func RowKey(r Row) string {
	h := sha256.New()
	var lenBuf [binary.MaxVarintLen64 + 1]byte
	for _, v := range r {
		if v == nil {
			h.Write([]byte{1})
			continue
		}
		lenBuf[0] = 0
		n := binary.PutUvarint(lenBuf[1:], uint64(len(*v)))
		h.Write(lenBuf[:n+1])
		h.Write([]byte(*v))
	}
	return string(h.Sum(nil))
}
