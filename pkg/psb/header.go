package psb

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Signature はPSBファイル先頭の4バイト
var Signature = [4]byte{'P', 'S', 'B', 0}

const (
	// MinVersion はサポートする最小バージョン
	MinVersion = 1
	// MaxVersion はサポートする最大バージョン
	MaxVersion = 4
)

// バージョンごとのヘッダサイズ
const (
	headerSizeV1 = 40 // v1, v2
	headerSizeV3 = 44 // + checksum
	headerSizeV4 = 56 // + extra chunk tables
)

// Header はPSBファイルのヘッダ
//
// 全フィールドはリトルエンディアンで、オフセットはバッファ先頭からの絶対位置です。
type Header struct {
	Signature          [4]byte
	Version            uint16
	Encrypt            uint16
	HeaderLength       uint32
	OffsetNames        uint32
	OffsetStrings      uint32
	OffsetStringsData  uint32
	OffsetChunkOffsets uint32
	OffsetChunkLengths uint32
	OffsetChunkData    uint32
	OffsetEntries      uint32

	// v3以降
	Checksum uint32

	// v4以降 (0の場合は存在しない)
	OffsetExtraChunkOffsets uint32
	OffsetExtraChunkLengths uint32
	OffsetExtraChunkData    uint32
}

// Size はこのバージョンのヘッダのバイト数を返します
func (h Header) Size() int {
	return headerSize(h.Version)
}

// HasExtraChunks はv4の追加チャンクテーブルを持つかどうかを返します
func (h Header) HasExtraChunks() bool {
	return h.Version >= 4 && h.OffsetExtraChunkLengths != 0
}

// UsesNameTree は名前テーブルがトライ形式かどうかを返します
func (h Header) UsesNameTree() bool {
	return h.Version >= 2
}

func headerSize(version uint16) int {
	switch {
	case version >= 4:
		return headerSizeV4
	case version == 3:
		return headerSizeV3
	default:
		return headerSizeV1
	}
}

// ParseHeader はバッファ先頭のPSBヘッダを解析します
func ParseHeader(buf []byte) (*Header, error) {
	return parseHeader(buf, defaultOptions())
}

func parseHeader(buf []byte, opts Options) (*Header, error) {
	if len(buf) < 8 {
		return nil, &HeaderError{Field: "signature", Offset: int64(len(buf)), Err: fmt.Errorf("%w: バッファが短すぎます (%d バイト)", ErrMalformedHeader, len(buf))}
	}

	h := &Header{}
	copy(h.Signature[:], buf[0:4])
	if !bytes.Equal(h.Signature[:], Signature[:]) {
		return nil, &HeaderError{Field: "signature", Offset: 0, Err: fmt.Errorf("%w: シグネチャ % X が一致しません", ErrMalformedHeader, h.Signature[:])}
	}

	le := binary.LittleEndian
	h.Version = le.Uint16(buf[4:])
	h.Encrypt = le.Uint16(buf[6:])

	if h.Version < MinVersion || h.Version > MaxVersion {
		if !opts.AllowUnknownVersion || h.Version < MinVersion {
			return nil, &HeaderError{Field: "version", Offset: int64(h.Version), Err: ErrUnsupportedVersion}
		}
	}

	size := headerSize(h.Version)
	if len(buf) < size {
		return nil, &HeaderError{Field: "length", Offset: int64(len(buf)), Err: fmt.Errorf("%w: v%d のヘッダには %d バイト必要です", ErrMalformedHeader, h.Version, size)}
	}

	h.HeaderLength = le.Uint32(buf[8:])
	h.OffsetNames = le.Uint32(buf[12:])
	h.OffsetStrings = le.Uint32(buf[16:])
	h.OffsetStringsData = le.Uint32(buf[20:])
	h.OffsetChunkOffsets = le.Uint32(buf[24:])
	h.OffsetChunkLengths = le.Uint32(buf[28:])
	h.OffsetChunkData = le.Uint32(buf[32:])
	h.OffsetEntries = le.Uint32(buf[36:])
	if h.Version >= 3 {
		h.Checksum = le.Uint32(buf[40:])
	}
	if h.Version >= 4 {
		h.OffsetExtraChunkOffsets = le.Uint32(buf[44:])
		h.OffsetExtraChunkLengths = le.Uint32(buf[48:])
		h.OffsetExtraChunkData = le.Uint32(buf[52:])
	}

	// 暗号化されたヘッダのオフセットは意味を持たないため検証前に弾く
	if h.Encrypt != 0 {
		return nil, &HeaderError{Field: "encrypt", Offset: int64(h.Encrypt), Err: ErrEncrypted}
	}

	if uint64(h.HeaderLength) > uint64(len(buf)) {
		return nil, &HeaderError{Field: "length", Offset: int64(h.HeaderLength), Err: fmt.Errorf("%w: 宣言されたヘッダ長がバッファを超えています", ErrMalformedHeader)}
	}

	for _, f := range h.offsetFields() {
		if f.optional && f.value == 0 {
			continue
		}
		limit := uint64(len(buf))
		if f.endOK {
			limit++
		}
		if uint64(f.value) >= limit {
			return nil, &HeaderError{Field: f.name, Offset: int64(f.value), Err: fmt.Errorf("%w: オフセットがバッファ外です (%d バイト)", ErrMalformedHeader, len(buf))}
		}
	}

	return h, nil
}

type offsetField struct {
	name     string
	value    uint32
	optional bool
	// 空のプール (ファイル末尾) を指してよいフィールド
	endOK bool
}

func (h Header) offsetFields() []offsetField {
	fields := []offsetField{
		{name: "offsetNames", value: h.OffsetNames},
		{name: "offsetStrings", value: h.OffsetStrings},
		{name: "offsetStringsData", value: h.OffsetStringsData, endOK: true},
		{name: "offsetChunkOffsets", value: h.OffsetChunkOffsets},
		{name: "offsetChunkLengths", value: h.OffsetChunkLengths},
		{name: "offsetChunkData", value: h.OffsetChunkData, endOK: true},
		{name: "offsetEntries", value: h.OffsetEntries},
	}
	if h.Version >= 4 {
		fields = append(fields,
			offsetField{name: "offsetExtraChunkOffsets", value: h.OffsetExtraChunkOffsets, optional: true},
			offsetField{name: "offsetExtraChunkLengths", value: h.OffsetExtraChunkLengths, optional: true},
			offsetField{name: "offsetExtraChunkData", value: h.OffsetExtraChunkData, optional: true, endOK: true},
		)
	}
	return fields
}
