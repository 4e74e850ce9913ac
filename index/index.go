// Package to assemble and query the sequence index of a corpus file
package index

import (
	"errors"
	"strconv"
	"strings"

	e "github.com/MG-RAST/Strand/errors"
)

// Default chunk byte budget when none is configured.
const DefaultChunkSize = 33554432

// Key addresses a sequence in the index. Sample is reserved for
// sub-sequence addressing by downstream readers and is always 0 here.
type Key struct {
	Sequence uint64
	Sample   uint32
}

// SequenceDescriptor locates one sequence in the source file.
type SequenceDescriptor struct {
	FileOffsetBytes int64
	ByteSize        int64
	NumberOfSamples uint32
	Key             Key
}

// ChunkDescriptor groups consecutive sequences for chunked parallel access.
type ChunkDescriptor struct {
	ByteSize        int64
	NumberOfSamples uint64
	Sequences       []SequenceDescriptor
}

// Index collects sequence descriptors for one file in discovery order and
// groups them into chunks of roughly maxChunkSize bytes.
type Index struct {
	chunks       []ChunkDescriptor
	maxChunkSize int64
	primary      bool
	numSequences int64
	numSamples   uint64
}

// New returns an empty index. The primary flag marks the authoritative
// stream of a multi-stream corpus; it is stored for consumers, never
// inspected here.
func New(chunkSize int64, primary bool) *Index {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Index{maxChunkSize: chunkSize, primary: primary}
}

func (i *Index) IsEmpty() bool {
	return len(i.chunks) == 0
}

// Reserve sizes the chunk table for a file of the given byte size.
func (i *Index) Reserve(estimatedByteSize int64) {
	n := estimatedByteSize/i.maxChunkSize + 1
	if int64(cap(i.chunks)) < n {
		chunks := make([]ChunkDescriptor, len(i.chunks), n)
		copy(chunks, i.chunks)
		i.chunks = chunks
	}
}

// AddSequence appends sd to the current chunk, opening a new chunk once
// the current one has reached the chunk byte budget.
func (i *Index) AddSequence(sd SequenceDescriptor) {
	if len(i.chunks) == 0 || i.chunks[len(i.chunks)-1].ByteSize >= i.maxChunkSize {
		i.chunks = append(i.chunks, ChunkDescriptor{})
	}
	c := &i.chunks[len(i.chunks)-1]
	c.ByteSize += sd.ByteSize
	c.NumberOfSamples += uint64(sd.NumberOfSamples)
	c.Sequences = append(c.Sequences, sd)
	i.numSequences += 1
	i.numSamples += uint64(sd.NumberOfSamples)
}

func (i *Index) Chunks() []ChunkDescriptor {
	return i.chunks
}

func (i *Index) NumberOfSequences() int64 {
	return i.numSequences
}

func (i *Index) NumberOfSamples() uint64 {
	return i.numSamples
}

func (i *Index) Primary() bool {
	return i.primary
}

func (i *Index) ChunkSize() int64 {
	return i.maxChunkSize
}

// sequence returns the descriptor at 1-based ordinal n.
func (i *Index) sequence(n int64) SequenceDescriptor {
	for _, c := range i.chunks {
		if n <= int64(len(c.Sequences)) {
			return c.Sequences[n-1]
		}
		n -= int64(len(c.Sequences))
	}
	// callers bound-check against numSequences first
	return SequenceDescriptor{}
}

// Part returns a single pos and length for a given part ("n" or "start-end").
// Used when the indexed records are contiguous in the data file.
func (i *Index) Part(part string) (pos int64, length int64, err error) {
	if strings.Contains(part, "-") {
		startend := strings.Split(part, "-")
		start, startEr := strconv.ParseInt(startend[0], 10, 64)
		end, endEr := strconv.ParseInt(startend[1], 10, 64)
		if startEr != nil || endEr != nil || start <= 0 || start > i.numSequences || end <= 0 || end > i.numSequences || end < start {
			err = errors.New(e.InvalidIndexRange)
			return
		}

		srec := i.sequence(start)
		erec := i.sequence(end)

		pos = srec.FileOffsetBytes
		length = (erec.FileOffsetBytes - srec.FileOffsetBytes) + erec.ByteSize
	} else {
		p, er := strconv.ParseInt(part, 10, 64)
		if er != nil || p <= 0 || p > i.numSequences {
			err = errors.New(e.IndexOutBounds)
			return
		}

		rec := i.sequence(p)
		pos = rec.FileOffsetBytes
		length = rec.ByteSize
	}
	return
}

// Range returns an array of [pos, length] for a given part ("n" or
// "start-end"), merging byte-contiguous records. Used when filtered
// sequences leave holes in the data file coverage.
func (i *Index) Range(part string) (recs [][]int64, err error) {
	if strings.Contains(part, "-") {
		startend := strings.Split(part, "-")
		start, startEr := strconv.ParseInt(startend[0], 10, 64)
		end, endEr := strconv.ParseInt(startend[1], 10, 64)
		if startEr != nil || endEr != nil || start <= 0 || start > i.numSequences || end <= 0 || end > i.numSequences || end < start {
			err = errors.New(e.InvalidIndexRange)
			return
		}

		rec := i.sequence(start)
		curPos := rec.FileOffsetBytes
		curLen := rec.ByteSize
		// we only have one record
		if start == end {
			recs = append(recs, []int64{curPos, curLen})
			return
		}
		for x := start + 1; x <= end; x++ {
			rec = i.sequence(x)
			nextPos := rec.FileOffsetBytes
			nextLen := rec.ByteSize
			if curLen == (nextPos - curPos) {
				curLen = curLen + nextLen
				continue
			}
			recs = append(recs, []int64{curPos, curLen})
			curPos = nextPos
			curLen = nextLen
		}
		recs = append(recs, []int64{curPos, curLen})
	} else {
		p, er := strconv.ParseInt(part, 10, 64)
		if er != nil || p <= 0 || p > i.numSequences {
			err = errors.New(e.IndexOutBounds)
			return
		}

		rec := i.sequence(p)
		recs = append(recs, []int64{rec.FileOffsetBytes, rec.ByteSize})
	}
	return
}
