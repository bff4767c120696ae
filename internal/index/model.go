package index

import (
	"sync"
	"sync/atomic"
)

// Index is the in-memory map from key to the global log offset of its
// most recent SET. It is authoritative only while the
// process is alive; the storage engine rebuilds it from the log on
// every startup and it is never itself persisted.
type Index struct {
	mu      sync.RWMutex
	offsets map[string]int64
	closed  atomic.Bool
}
