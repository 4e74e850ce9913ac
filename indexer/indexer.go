// Package to scan corpus files once and build their sequence indexes
package indexer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/MG-RAST/Strand/corpus"
	e "github.com/MG-RAST/Strand/errors"
	"github.com/MG-RAST/Strand/index"
)

const rowDelimiter = '\n'

// ScanError is a fatal scan failure. Offset is the absolute file offset
// where the failure was detected, -1 when unknown.
type ScanError struct {
	Message string
	Offset  int64
}

func (err *ScanError) Error() string {
	if err.Offset < 0 {
		return err.Message
	}
	return fmt.Sprintf("%s at offset %d", err.Message, err.Offset)
}

// Opts fix the scan behavior for the life of one indexer.
type Opts struct {
	// SkipSequenceIds treats every line as its own sequence.
	SkipSequenceIds bool
	// NumericSequenceIds selects decimal ids over textual keys.
	NumericSequenceIds bool
	// StreamPrefix is the reserved marker byte: a file whose first byte
	// equals it carries no sequence ids.
	StreamPrefix byte
	// BufferSize is the scan window capacity in bytes.
	BufferSize int
}

// Indexer scans one file front to back and fills an index with one
// descriptor per discovered sequence. Single use: one Build per file.
type Indexer struct {
	c              *cursor
	fileSize       int64
	idx            *index.Index
	hasSequenceIds bool
	numericIds     bool
	streamPrefix   byte
}

// New returns an indexer over f. size is the file source's size hint,
// used to reserve the index and to close the final sequence.
func New(f io.Reader, size int64, idx *index.Index, opts Opts) *Indexer {
	return &Indexer{
		c:              newCursor(f, opts.BufferSize),
		fileSize:       size,
		idx:            idx,
		hasSequenceIds: !opts.SkipSequenceIds,
		numericIds:     opts.NumericSequenceIds,
		streamPrefix:   opts.StreamPrefix,
	}
}

// Build scans the file once and fills the index. Building into an index
// that already has entries is a no-op.
func (ix *Indexer) Build(corp *corpus.CorpusDescriptor) error {
	if !ix.idx.IsEmpty() {
		return nil
	}

	ix.idx.Reserve(ix.fileSize)

	if err := ix.c.refill(); err != nil {
		return err
	}
	if ix.c.done {
		return &ScanError{Message: e.EmptyInputFile, Offset: 0}
	}

	// a UTF-8 BOM is skipped and excluded from every offset
	if ix.c.remaining() >= 3 && ix.c.buf[0] == 0xEF && ix.c.buf[1] == 0xBB && ix.c.buf[2] == 0xBF {
		ix.c.advance(3)
		if ix.c.remaining() == 0 {
			if err := ix.c.refill(); err != nil {
				return err
			}
			if ix.c.done {
				return &ScanError{Message: e.EmptyInputFile, Offset: 3}
			}
		}
	}

	// check the first byte and decide which boundary policy applies
	if !ix.hasSequenceIds || ix.c.current() == ix.streamPrefix {
		return ix.buildFromLines(corp)
	}
	return ix.buildFromKeys(corp)
}

// buildFromLines emits every line as its own sequence, keyed by its line
// ordinal.
func (ix *Indexer) buildFromLines(corp *corpus.CorpusDescriptor) error {
	ix.hasSequenceIds = false
	var lines uint64
	offset := ix.c.offset()
	for !ix.c.done {
		if ix.c.findByte(rowDelimiter) {
			sd := index.SequenceDescriptor{
				FileOffsetBytes: offset,
				NumberOfSamples: 1,
			}
			offset = ix.c.offset() + 1
			sd.ByteSize = offset - sd.FileOffsetBytes
			ix.addSequenceIfIncluded(corp, lines, true, sd)
			ix.c.advance(1)
			lines += 1
		} else {
			if err := ix.c.refill(); err != nil {
				return err
			}
		}
	}

	if offset < ix.c.fileOffsetEnd {
		// trailing characters not terminated by a newline still form a
		// sequence, the content parser has to deal with it
		sd := index.SequenceDescriptor{
			FileOffsetBytes: offset,
			NumberOfSamples: 1,
			ByteSize:        ix.c.fileOffsetEnd - offset,
		}
		ix.addSequenceIfIncluded(corp, lines, true, sd)
	}
	return nil
}

// buildFromKeys merges consecutive lines sharing a leading sequence id
// into one sequence.
func (ix *Indexer) buildFromKeys(corp *corpus.CorpusDescriptor) error {
	registry := corp.GetStringRegistry()
	offset := ix.c.offset()

	// the very first line must carry a sequence id
	id, found, err := ix.tryGetSequenceId(registry)
	if err != nil {
		return err
	}
	if !found {
		return &ScanError{Message: e.MissingSequenceId, Offset: offset}
	}

	sd := index.SequenceDescriptor{FileOffsetBytes: offset}
	currentKey := id

	for !ix.c.done {
		// ignore whatever is left on this line
		if err = ix.skipLine(); err != nil {
			return err
		}
		offset = ix.c.offset() // a new line starts at this offset
		sd.NumberOfSamples += 1

		if ix.c.done {
			break
		}
		if id, found, err = ix.tryGetSequenceId(registry); err != nil {
			return err
		}
		if found && id != currentKey {
			// a new sequence starts offset bytes into the file
			sd.ByteSize = offset - sd.FileOffsetBytes
			ix.addSequenceIfIncluded(corp, currentKey, ix.numericIds, sd)

			sd = index.SequenceDescriptor{FileOffsetBytes: offset}
			currentKey = id
		}
	}

	// close the last sequence at end-of-file
	sd.ByteSize = ix.c.fileOffsetEnd - sd.FileOffsetBytes
	ix.addSequenceIfIncluded(corp, currentKey, ix.numericIds, sd)
	return nil
}

// addSequenceIfIncluded runs the discovered key through the corpus filter
// and, when included, interns it and appends the descriptor to the index.
// Both id flavors resolve one canonical key string, used for the filter
// check and the registry insert alike.
func (ix *Indexer) addSequenceIfIncluded(corp *corpus.CorpusDescriptor, sequenceId uint64, numeric bool, sd index.SequenceDescriptor) {
	registry := corp.GetStringRegistry()
	var key string
	if numeric {
		key = strconv.FormatUint(sequenceId, 10)
	} else {
		key, _ = registry.Lookup(sequenceId)
	}
	if !corp.IsIncluded(key) {
		return
	}
	sd.Key.Sequence = registry.AddValue(key)
	sd.Key.Sample = 0
	ix.idx.AddSequence(sd)
}

// skipLine consumes the rest of the current line including its delimiter.
func (ix *Indexer) skipLine() error {
	for !ix.c.done {
		if ix.c.findByte(rowDelimiter) {
			ix.c.advance(1)
			if ix.c.remaining() == 0 {
				return ix.c.refill()
			}
			return nil
		}
		if err := ix.c.refill(); err != nil {
			return err
		}
	}
	return nil
}

// tryGetSequenceId reads the sequence id at the cursor. Numeric ids
// accumulate decimal digits, textual keys accumulate up to the first
// whitespace and are interned through the registry. The terminating byte
// is not consumed. Reaching end-of-file before a terminator is not an
// error here, the content parser has to reject it.
func (ix *Indexer) tryGetSequenceId(registry *corpus.StringRegistry) (id uint64, found bool, err error) {
	var key []byte
	for !ix.c.done {
		for ix.c.remaining() > 0 {
			b := ix.c.current()
			if ix.numericIds {
				if b < '0' || b > '9' {
					// stop at the first non-digit
					return id, found, nil
				}
				id = id*10 + uint64(b-'0')
			} else {
				if isSpace(b) {
					if found {
						var ok bool
						if id, ok = registry.TryGet(string(key)); !ok {
							id = registry.AddValue(string(key))
						}
					}
					return id, found, nil
				}
				key = append(key, b)
			}
			found = true
			ix.c.advance(1)
		}
		if err = ix.c.refill(); err != nil {
			return 0, false, err
		}
	}
	return 0, false, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
