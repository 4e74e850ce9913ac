package corpus_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/MG-RAST/Strand/corpus"
)

func TestRegistryAssignsIdsInInsertionOrder(t *testing.T) {
	r := NewStringRegistry()
	for n, key := range []string{"gamma", "alpha", "beta"} {
		if id := r.AddValue(key); id != uint64(n) {
			t.Errorf("AddValue(%q): got id %d, want %d", key, id, n)
		}
	}
	if r.Count() != 3 {
		t.Errorf("Count: got %d, want 3", r.Count())
	}
	if id := r.AddValue("alpha"); id != 1 {
		t.Errorf("re-adding alpha: got id %d, want 1", id)
	}
	if id, found := r.TryGet("beta"); !found || id != 2 {
		t.Errorf("TryGet(beta): got %d %t, want 2 true", id, found)
	}
	if _, found := r.TryGet("delta"); found {
		t.Errorf("TryGet(delta): found unregistered key")
	}
	if key, found := r.Lookup(0); !found || key != "gamma" {
		t.Errorf("Lookup(0): got %q %t, want \"gamma\" true", key, found)
	}
	if _, found := r.Lookup(99); found {
		t.Errorf("Lookup(99): found unassigned id")
	}
}

// Concurrent get-or-create over an overlapping key set must end with one
// id per distinct key and a consistent reverse mapping.
func TestRegistryConcurrentAddValue(t *testing.T) {
	r := NewStringRegistry()
	var wg sync.WaitGroup
	ids := make([][]uint64, 16)
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids[w] = make([]uint64, 100)
			for n := 0; n < 100; n++ {
				ids[w][n] = r.AddValue(fmt.Sprintf("key-%d", n))
			}
		}(w)
	}
	wg.Wait()

	if r.Count() != 100 {
		t.Fatalf("Count: got %d, want 100", r.Count())
	}
	for w := 1; w < 16; w++ {
		for n := 0; n < 100; n++ {
			if ids[w][n] != ids[0][n] {
				t.Fatalf("key-%d: worker %d got id %d, worker 0 got %d", n, w, ids[w][n], ids[0][n])
			}
		}
	}
	for n := 0; n < 100; n++ {
		key := fmt.Sprintf("key-%d", n)
		id, found := r.TryGet(key)
		if !found {
			t.Fatalf("TryGet(%s): not found", key)
		}
		if back, _ := r.Lookup(id); back != key {
			t.Errorf("Lookup(%d): got %q, want %q", id, back, key)
		}
	}
}

func TestRegistrySaveLoad(t *testing.T) {
	r := NewStringRegistry()
	for _, key := range []string{"alpha", "beta", "gamma"} {
		r.AddValue(key)
	}

	path := filepath.Join(t.TempDir(), "registry.txt")
	if err := r.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Count() != r.Count() {
		t.Fatalf("Count: got %d, want %d", loaded.Count(), r.Count())
	}
	for _, key := range []string{"alpha", "beta", "gamma"} {
		want, _ := r.TryGet(key)
		if id, found := loaded.TryGet(key); !found || id != want {
			t.Errorf("TryGet(%s): got %d %t, want %d true", key, id, found, want)
		}
	}
}

func TestCorpusDescriptorIncludesEverythingByDefault(t *testing.T) {
	c := NewCorpusDescriptor()
	if !c.IsIncluded("anything") {
		t.Errorf("default corpus excluded a key")
	}
	if c.GetStringRegistry() == nil {
		t.Errorf("corpus has no registry")
	}
}

func TestCorpusDescriptorFilter(t *testing.T) {
	c := NewCorpusDescriptorWithFilter(func(key string) bool { return key == "train" })
	if !c.IsIncluded("train") || c.IsIncluded("validation") {
		t.Errorf("filter not applied")
	}
}
