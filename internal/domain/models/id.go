package models

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const tempIDPrefix = "temp-"

var tempIDSeq atomic.Uint64

// NewTempID returns a client-side placeholder identifier. The prefix keeps it
// out of the server ID namespace and the sequence component keeps IDs unique
// even when several are minted within the same millisecond.
func NewTempID() string {
	return fmt.Sprintf("%s%d-%d", tempIDPrefix, time.Now().UnixMilli(), tempIDSeq.Add(1))
}

// IsTempID reports whether id is a client-side placeholder awaiting a
// server-assigned identifier.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
