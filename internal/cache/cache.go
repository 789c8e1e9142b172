package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"sync"
)

// DefaultMaxEntries bounds a Memo created with a non-positive size.
const DefaultMaxEntries = 256

// Memo is a bounded in-memory cache of computed values. When full, the
// oldest entry is evicted.
type Memo[V any] struct {
	mu      sync.Mutex
	max     int
	entries map[string]V
	order   []string
	hits    int
	misses  int
}

// NewMemo creates a memo holding at most maxEntries values.
func NewMemo[V any](maxEntries int) *Memo[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memo[V]{
		max:     maxEntries,
		entries: make(map[string]V, maxEntries),
	}
}

// Get retrieves a value if it exists
func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.entries[key]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return v, ok
}

// Put stores a value, evicting the oldest entry when the memo is full.
func (m *Memo[V]) Put(key string, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok {
		if len(m.order) >= m.max {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = v
}

// Clear removes all cached values
func (m *Memo[V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]V, m.max)
	m.order = nil
}

// Len returns the number of cached values.
func (m *Memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats returns the hit and miss counts since creation.
func (m *Memo[V]) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Key builds cache keys from a sequence of fields. Every field is written
// with a delimiter so adjacent fields cannot collide.
type Key struct {
	h hash.Hash
}

// NewKey starts a new key.
func NewKey() *Key {
	return &Key{h: sha256.New()}
}

// Add adds a string field.
func (k *Key) Add(s string) *Key {
	writeString(k.h, s) //nolint:errcheck
	return k
}

// AddBool adds a boolean field.
func (k *Key) AddBool(b bool) *Key {
	if b {
		return k.Add("1")
	}
	return k.Add("0")
}

// AddSet adds a set of strings. Order does not affect the key.
func (k *Key) AddSet(members []string) *Key {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	writeInt(k.h, len(sorted)) //nolint:errcheck
	for _, s := range sorted {
		writeString(k.h, s) //nolint:errcheck
	}
	return k
}

// Sum returns the hex-encoded key.
func (k *Key) Sum() string {
	return hex.EncodeToString(k.h.Sum(nil))
}

func writeString(w io.Writer, s string) error {
	// Write string with null byte delimiter to prevent hash collisions
	_, err := w.Write([]byte(s + "\x00"))
	return err
}

func writeInt(w io.Writer, i int) error {
	// Write int with null byte delimiter to prevent hash collisions
	_, err := fmt.Fprintf(w, "%d\x00", i)
	return err
}
