package index_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	e "github.com/MG-RAST/Strand/errors"
	. "github.com/MG-RAST/Strand/index"
)

func add(idx *Index, offset, size int64, samples uint32, key uint64) {
	idx.AddSequence(SequenceDescriptor{
		FileOffsetBytes: offset,
		ByteSize:        size,
		NumberOfSamples: samples,
		Key:             Key{Sequence: key},
	})
}

func TestChunkGrouping(t *testing.T) {
	idx := New(10, true)
	if !idx.IsEmpty() {
		t.Errorf("new index is not empty")
	}
	idx.Reserve(18)

	add(idx, 0, 6, 1, 0)
	add(idx, 6, 6, 2, 1)
	add(idx, 12, 6, 1, 2)

	chunks := idx.Chunks()
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len(chunks[0].Sequences) != 2 || len(chunks[1].Sequences) != 1 {
		t.Errorf("chunk sizes: got %d and %d sequences, want 2 and 1", len(chunks[0].Sequences), len(chunks[1].Sequences))
	}
	if chunks[0].ByteSize != 12 || chunks[0].NumberOfSamples != 3 {
		t.Errorf("first chunk: got %d bytes %d samples, want 12 and 3", chunks[0].ByteSize, chunks[0].NumberOfSamples)
	}
	if idx.NumberOfSequences() != 3 || idx.NumberOfSamples() != 4 {
		t.Errorf("totals: got %d sequences %d samples, want 3 and 4", idx.NumberOfSequences(), idx.NumberOfSamples())
	}
}

func TestPart(t *testing.T) {
	idx := New(10, true)
	add(idx, 0, 6, 1, 0)
	add(idx, 6, 6, 1, 1)
	add(idx, 12, 6, 1, 2)

	if pos, length, err := idx.Part("2"); err != nil || pos != 6 || length != 6 {
		t.Errorf("Part(2): got %d %d %v, want 6 6 nil", pos, length, err)
	}
	if pos, length, err := idx.Part("1-3"); err != nil || pos != 0 || length != 18 {
		t.Errorf("Part(1-3): got %d %d %v, want 0 18 nil", pos, length, err)
	}
	if _, _, err := idx.Part("0"); err == nil || err.Error() != e.IndexOutBounds {
		t.Errorf("Part(0): got %v, want %q", err, e.IndexOutBounds)
	}
	if _, _, err := idx.Part("4"); err == nil || err.Error() != e.IndexOutBounds {
		t.Errorf("Part(4): got %v, want %q", err, e.IndexOutBounds)
	}
	if _, _, err := idx.Part("2-9"); err == nil || err.Error() != e.InvalidIndexRange {
		t.Errorf("Part(2-9): got %v, want %q", err, e.InvalidIndexRange)
	}
	if _, _, err := idx.Part("x"); err == nil {
		t.Errorf("Part(x): got nil error")
	}
}

// Filtered-out sequences leave holes in the file coverage; Range must
// merge only the byte-contiguous runs.
func TestRangeCoalescing(t *testing.T) {
	idx := New(100, true)
	add(idx, 0, 4, 1, 0)
	add(idx, 8, 4, 1, 1)
	add(idx, 12, 4, 1, 2)

	recs, err := idx.Range("1-3")
	if err != nil {
		t.Fatalf("Range(1-3): %v", err)
	}
	want := [][]int64{{0, 4}, {8, 8}}
	if !reflect.DeepEqual(recs, want) {
		t.Errorf("Range(1-3): got %v, want %v", recs, want)
	}

	recs, err = idx.Range("2")
	if err != nil || !reflect.DeepEqual(recs, [][]int64{{8, 4}}) {
		t.Errorf("Range(2): got %v %v, want [[8 4]] nil", recs, err)
	}
}

func TestSaveLoad(t *testing.T) {
	idx := New(10, true)
	add(idx, 0, 6, 1, 0)
	add(idx, 6, 6, 2, 1)
	add(idx, 12, 6, 1, 2)

	path := filepath.Join(t.TempDir(), "corpus.txt.idx")
	if err := idx.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Chunks(), idx.Chunks()) {
		t.Errorf("chunks do not round trip:\ngot %v\nwant %v", loaded.Chunks(), idx.Chunks())
	}
	if loaded.NumberOfSequences() != idx.NumberOfSequences() || loaded.NumberOfSamples() != idx.NumberOfSamples() {
		t.Errorf("totals do not round trip")
	}
	if !loaded.Primary() || loaded.ChunkSize() != 10 {
		t.Errorf("header does not round trip: primary %t chunk size %d", loaded.Primary(), loaded.ChunkSize())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.idx")); err == nil || err.Error() != e.IndexNoFile {
		t.Errorf("got %v, want %q", err, e.IndexNoFile)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.idx")
	if err := os.WriteFile(path, []byte("not an index file at all"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || err.Error() != e.InvalidIndexFile {
		t.Errorf("got %v, want %q", err, e.InvalidIndexFile)
	}
}
