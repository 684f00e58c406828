// Package shell はPSBを包む圧縮シェル (MDF, LZ4, Zstandard) を取り除きます
package shell

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// Kind はシェルの種類
type Kind int

const (
	// KindNone はシェル無し (生のPSB)
	KindNone Kind = iota
	// KindMDF は "mdf\0" + 展開後サイズ + zlibストリーム
	KindMDF
	// KindLZ4 はLZ4フレーム
	KindLZ4
	// KindZstd はZstandardフレーム
	KindZstd
)

// String はシェル名を返します
func (k Kind) String() string {
	switch k {
	case KindMDF:
		return "mdf"
	case KindLZ4:
		return "lz4"
	case KindZstd:
		return "zstd"
	default:
		return "none"
	}
}

var (
	mdfMagic  = []byte{'m', 'd', 'f', 0}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
)

const mdfHeaderSize = 8

var (
	// ErrTruncated はシェルのヘッダが途切れている場合のエラー
	ErrTruncated = errors.New("シェルのヘッダが途切れています")

	// ErrSizeMismatch は展開後のサイズがヘッダと一致しない場合のエラー
	ErrSizeMismatch = errors.New("展開後のサイズが一致しません")
)

// MaxSize は展開後の最大サイズ
const MaxSize = 1 << 30

// ヘッダのサイズを信用して確保する上限
const initialCap = 16 << 20

// Detect は先頭のマジックからシェルの種類を判定します
func Detect(buf []byte) Kind {
	switch {
	case bytes.HasPrefix(buf, mdfMagic):
		return KindMDF
	case bytes.HasPrefix(buf, lz4Magic):
		return KindLZ4
	case bytes.HasPrefix(buf, zstdMagic):
		return KindZstd
	}
	return KindNone
}

// Unwrap はシェルを取り除いた中身を返します
//
// シェルが無い場合は buf をそのまま返します。
func Unwrap(buf []byte) ([]byte, Kind, error) {
	kind := Detect(buf)
	switch kind {
	case KindMDF:
		out, err := unwrapMDF(buf)
		return out, kind, err
	case KindLZ4:
		out, err := unwrapStream("lz4", lz4.NewReader(bytes.NewReader(buf)))
		return out, kind, err
	case KindZstd:
		zr := zstd.NewReader(bytes.NewReader(buf))
		defer zr.Close()
		out, err := unwrapStream("zstd", zr)
		return out, kind, err
	}
	return buf, KindNone, nil
}

func unwrapMDF(buf []byte) ([]byte, error) {
	if len(buf) < mdfHeaderSize {
		return nil, ErrTruncated
	}
	size := binary.LittleEndian.Uint32(buf[4:])
	if size > MaxSize {
		return nil, fmt.Errorf("mdf: 展開後のサイズ %d が大きすぎます", size)
	}

	zr, err := zlib.NewReader(bytes.NewReader(buf[mdfHeaderSize:]))
	if err != nil {
		return nil, fmt.Errorf("mdf: zlibストリームを開けません: %w", err)
	}
	defer zr.Close()

	w := bytes.NewBuffer(make([]byte, 0, min(int(size), initialCap)))
	// 宣言サイズより長いストリームを検出するため1バイト多く読む
	if _, err := io.Copy(w, io.LimitReader(zr, int64(size)+1)); err != nil {
		return nil, fmt.Errorf("mdf: 展開に失敗しました: %w", err)
	}
	if w.Len() != int(size) {
		return nil, fmt.Errorf("%w: mdf ヘッダ %d バイト, 展開後 %d バイト", ErrSizeMismatch, size, w.Len())
	}
	return w.Bytes(), nil
}

// unwrapStream はサイズを持たないフレーム形式を MaxSize まで展開します
func unwrapStream(name string, r io.Reader) ([]byte, error) {
	var w bytes.Buffer
	n, err := io.Copy(&w, io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: 展開に失敗しました: %w", name, err)
	}
	if n > MaxSize {
		return nil, fmt.Errorf("%s: 展開後のサイズが %d バイトを超えています", name, MaxSize)
	}
	return w.Bytes(), nil
}
