package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	e "github.com/MG-RAST/Strand/errors"
	"github.com/golang/snappy"
	uuid "github.com/nu7hatch/gouuid"
)

// On-disk layout: a raw header (magic, version, build uuid, primary flag,
// chunk size, chunk and sequence counts, payload length) followed by a
// snappy-compressed block of little-endian chunk and descriptor records.
// The header stays uncompressed so Load can validate before decompressing.
var indexMagic = [8]byte{'S', 'T', 'R', 'A', 'N', 'D', 'I', 'X'}

const indexVersion = uint32(1)

// Save writes the index to path. The write goes to a temp file in the
// same directory first and is renamed into place once complete.
func (i *Index) Save(path string) (err error) {
	u, err := uuid.NewV4()
	if err != nil {
		return
	}
	tmpFilePath := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s.idx.tmp", u.String()))

	f, err := os.Create(tmpFilePath)
	if err != nil {
		return
	}
	defer f.Close()

	var payload bytes.Buffer
	for _, c := range i.chunks {
		binary.Write(&payload, binary.LittleEndian, c.ByteSize)
		binary.Write(&payload, binary.LittleEndian, c.NumberOfSamples)
		binary.Write(&payload, binary.LittleEndian, uint64(len(c.Sequences)))
		for _, sd := range c.Sequences {
			binary.Write(&payload, binary.LittleEndian, sd.FileOffsetBytes)
			binary.Write(&payload, binary.LittleEndian, sd.ByteSize)
			binary.Write(&payload, binary.LittleEndian, sd.NumberOfSamples)
			binary.Write(&payload, binary.LittleEndian, sd.Key.Sequence)
			binary.Write(&payload, binary.LittleEndian, sd.Key.Sample)
		}
	}
	compressed := snappy.Encode(nil, payload.Bytes())

	var primary uint8
	if i.primary {
		primary = 1
	}
	f.Write(indexMagic[:])
	binary.Write(f, binary.LittleEndian, indexVersion)
	f.Write(u[:])
	binary.Write(f, binary.LittleEndian, primary)
	binary.Write(f, binary.LittleEndian, i.maxChunkSize)
	binary.Write(f, binary.LittleEndian, uint64(len(i.chunks)))
	binary.Write(f, binary.LittleEndian, uint64(i.numSequences))
	binary.Write(f, binary.LittleEndian, uint64(len(compressed)))
	if _, err = f.Write(compressed); err != nil {
		return
	}
	err = os.Rename(tmpFilePath, path)

	return
}

// Load reads an index written by Save.
func Load(path string) (idx *Index, err error) {
	f, err := os.Open(path)
	if err != nil {
		err = errors.New(e.IndexNoFile)
		return
	}
	defer f.Close()

	var magic [8]byte
	if _, err = io.ReadFull(f, magic[:]); err != nil || magic != indexMagic {
		err = errors.New(e.InvalidIndexFile)
		return
	}
	var version uint32
	var buildId [16]byte
	var primary uint8
	var chunkSize int64
	var chunkCount, seqCount, payloadLen uint64
	binary.Read(f, binary.LittleEndian, &version)
	io.ReadFull(f, buildId[:])
	binary.Read(f, binary.LittleEndian, &primary)
	binary.Read(f, binary.LittleEndian, &chunkSize)
	binary.Read(f, binary.LittleEndian, &chunkCount)
	binary.Read(f, binary.LittleEndian, &seqCount)
	if err = binary.Read(f, binary.LittleEndian, &payloadLen); err != nil || version != indexVersion {
		err = errors.New(e.InvalidIndexFile)
		return
	}

	compressed := make([]byte, payloadLen)
	if _, err = io.ReadFull(f, compressed); err != nil {
		err = errors.New(e.InvalidIndexFile)
		return
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		err = errors.New(e.InvalidIndexFile)
		return
	}

	idx = New(chunkSize, primary == 1)
	r := bytes.NewReader(payload)
	idx.chunks = make([]ChunkDescriptor, chunkCount)
	for x := range idx.chunks {
		c := &idx.chunks[x]
		var n uint64
		binary.Read(r, binary.LittleEndian, &c.ByteSize)
		binary.Read(r, binary.LittleEndian, &c.NumberOfSamples)
		if err = binary.Read(r, binary.LittleEndian, &n); err != nil {
			idx, err = nil, errors.New(e.InvalidIndexFile)
			return
		}
		c.Sequences = make([]SequenceDescriptor, n)
		for y := range c.Sequences {
			sd := &c.Sequences[y]
			binary.Read(r, binary.LittleEndian, &sd.FileOffsetBytes)
			binary.Read(r, binary.LittleEndian, &sd.ByteSize)
			binary.Read(r, binary.LittleEndian, &sd.NumberOfSamples)
			binary.Read(r, binary.LittleEndian, &sd.Key.Sequence)
			if err = binary.Read(r, binary.LittleEndian, &sd.Key.Sample); err != nil {
				idx, err = nil, errors.New(e.InvalidIndexFile)
				return
			}
		}
		idx.numSequences += int64(n)
		idx.numSamples += c.NumberOfSamples
	}
	if uint64(idx.numSequences) != seqCount {
		idx, err = nil, errors.New(e.InvalidIndexFile)
		return
	}

	return
}
