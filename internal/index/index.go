// Package index provides the in-memory offset index for the
// vaultlog storage engine: a hash map from key to the byte offset of
// that key's most recent SET record, rebuilt from the log on every
// startup.
package index

// New creates an empty Index, ready for concurrent use.
func New() *Index {
	return &Index{offsets: make(map[string]int64)}
}

// Has reports whether key currently has an entry in the index.
func (idx *Index) Has(key string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.offsets[key]
	return ok
}

// Get returns the stored offset for key, and whether it was present.
func (idx *Index) Get(key string) (int64, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	offset, ok := idx.offsets[key]
	return offset, ok
}

// Set inserts or overwrites key's offset. Last write wins.
func (idx *Index) Set(key string, offset int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.offsets[key] = offset
}

// Delete removes key's entry if present. Deleting an absent key is a
// no-op, matching the idempotent-delete invariant at the engine layer.
func (idx *Index) Delete(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.offsets, key)
}

// Len returns the number of keys currently indexed.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.offsets)
}

// Close releases the index's backing map. Close is idempotent: only
// the first call clears the map, later calls return immediately, and
// it never errors, since discarding an already-empty index is harmless.
func (idx *Index) Close() {
	if !idx.closed.CompareAndSwap(false, true) {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.offsets)
	idx.offsets = nil
}
