package corpus

import (
	"bufio"
	"os"
	"sync"
)

// StringRegistry is a bidirectional mapping between textual sequence keys
// and dense integer ids. Ids are assigned in insertion order and never
// change once assigned, so every stream sharing a registry agrees on the
// id of a given key. Safe for concurrent use.
type StringRegistry struct {
	mu     sync.RWMutex
	ids    map[string]uint64
	values []string
}

func NewStringRegistry() *StringRegistry {
	return &StringRegistry{ids: map[string]uint64{}}
}

// TryGet returns the id assigned to key, if any.
func (r *StringRegistry) TryGet(key string) (id uint64, found bool) {
	r.mu.RLock()
	id, found = r.ids[key]
	r.mu.RUnlock()
	return
}

// AddValue returns the id for key, assigning the next id if the key is
// unseen. Get-or-create happens under one lock so concurrent streams can
// never assign two ids to the same key.
func (r *StringRegistry) AddValue(key string) (id uint64) {
	r.mu.Lock()
	id, found := r.ids[key]
	if !found {
		id = uint64(len(r.values))
		r.ids[key] = id
		r.values = append(r.values, key)
	}
	r.mu.Unlock()
	return
}

// Lookup is the reverse direction, id to key.
func (r *StringRegistry) Lookup(id uint64) (key string, found bool) {
	r.mu.RLock()
	if id < uint64(len(r.values)) {
		key = r.values[id]
		found = true
	}
	r.mu.RUnlock()
	return
}

func (r *StringRegistry) Count() (n int) {
	r.mu.RLock()
	n = len(r.values)
	r.mu.RUnlock()
	return
}

// Save writes the registered keys in id order, one per line. Keys never
// contain whitespace so the format is unambiguous.
func (r *StringRegistry) Save(path string) (err error) {
	tmpFilePath := path + ".tmp"

	f, err := os.Create(tmpFilePath)
	if err != nil {
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	r.mu.RLock()
	for _, key := range r.values {
		w.WriteString(key)
		w.WriteByte('\n')
	}
	r.mu.RUnlock()
	if err = w.Flush(); err != nil {
		return
	}
	err = os.Rename(tmpFilePath, path)

	return
}

// LoadRegistry reads a registry written by Save. Ids are reassigned in
// file order, which is id order, so they come back identical.
func LoadRegistry(path string) (r *StringRegistry, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	r = NewStringRegistry()
	s := bufio.NewScanner(f)
	for s.Scan() {
		r.AddValue(s.Text())
	}
	err = s.Err()

	return
}
