package psb

import (
	"encoding/binary"
	"testing"

	"github.com/shiroemons/go-psbfile/pkg/psb/psbtest"
)

type (
	kv      = psbtest.KV
	dict    = psbtest.Dict
	list    = psbtest.List
	numbers = psbtest.Numbers
	res     = psbtest.Res
	extra   = psbtest.Extra
	raw     = psbtest.Raw
)

var encodeNumbers = psbtest.EncodeNumbers

type fixture struct {
	version uint16
	encrypt uint16
	root    any
	chunks  [][]byte
	extras  [][]byte

	// entries が nil でなければ root の代わりにそのまま書き込みます
	entries []byte
	names   []string
	strs    []string

	// chunkOffsets が nil でなければ保存するチャンクオフセットを上書きします
	chunkOffsets []uint64
}

func (f fixture) bytes(t *testing.T) []byte {
	t.Helper()
	return psbtest.Document{
		Version:      f.version,
		Encrypt:      f.encrypt,
		Root:         f.root,
		Chunks:       f.chunks,
		Extras:       f.extras,
		Entries:      f.entries,
		Names:        f.names,
		Strings:      f.strs,
		ChunkOffsets: f.chunkOffsets,
	}.Bytes(t)
}

func (f fixture) load(t *testing.T, opts ...Option) *File {
	t.Helper()
	file, err := Load(f.bytes(t), opts...)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return file
}

func encodeHeader(h Header) []byte {
	b := make([]byte, headerSize(h.Version))
	copy(b, h.Signature[:])
	le := binary.LittleEndian
	le.PutUint16(b[4:], h.Version)
	le.PutUint16(b[6:], h.Encrypt)
	le.PutUint32(b[8:], h.HeaderLength)
	le.PutUint32(b[12:], h.OffsetNames)
	le.PutUint32(b[16:], h.OffsetStrings)
	le.PutUint32(b[20:], h.OffsetStringsData)
	le.PutUint32(b[24:], h.OffsetChunkOffsets)
	le.PutUint32(b[28:], h.OffsetChunkLengths)
	le.PutUint32(b[32:], h.OffsetChunkData)
	le.PutUint32(b[36:], h.OffsetEntries)
	if h.Version >= 3 {
		le.PutUint32(b[40:], h.Checksum)
	}
	if h.Version >= 4 {
		le.PutUint32(b[44:], h.OffsetExtraChunkOffsets)
		le.PutUint32(b[48:], h.OffsetExtraChunkLengths)
		le.PutUint32(b[52:], h.OffsetExtraChunkData)
	}
	return b
}
