package ingest

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// ImportID computes the stable per-row identifier used to dedup CSV
// imports: a 64-bit hash of the row's logical identity. sequence is the
// row's position within its file (0-based), which breaks ties between
// same-day, same-amount, same-description duplicate transactions that
// would otherwise collide.
//
// The hash is deterministic across runs and processes: re-importing the
// same file produces the same import_id for the same row every time,
// which is the entire dedup mechanism (transaction.import_id is UNIQUE).
func ImportID(accountName, date, description string, amount float64, sequence int) int64 {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%.2f|%s|%d", accountName, date, amount, description, sequence)
	sum := h.Sum(nil)
	// Truncate to the low 8 bytes and mask off the sign bit so the result
	// fits a signed 64-bit column without triggering driver overflow
	// errors on values interpreted as negative by some sqlite bindings.
	v := int64(binary.BigEndian.Uint64(sum[:8]) & 0x7FFFFFFFFFFFFFFF)
	return v
}
