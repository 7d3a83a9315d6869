package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/klartext/core"
)

// Key prefixes for different data types
const (
	sessionRecordPrefix  = "sesrec"
	sessionUpdatedPrefix = "sesrecu"
)

// makeSessionKey generates a key for a session record by ID.
func makeSessionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sessionRecordPrefix, id))
}

// makeSessionUpdatedKey generates a composite key for the updated-time index.
// Format: prefix:timestamp:id
func makeSessionUpdatedKey(timestamp time.Time, id core.ID) []byte {
	prefix := sessionUpdatedPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialSessionUpdatedKey generates a partial key for range scans over
// the updated-time index.
// Format: prefix:timestamp
func makePartialSessionUpdatedKey(timestamp time.Time) []byte {
	prefix := sessionUpdatedPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
