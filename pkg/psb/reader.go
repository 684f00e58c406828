package psb

import (
	"encoding/binary"
	"math"
)

// 型タグ
const (
	tagNone       byte = 0x00
	tagNull       byte = 0x01
	tagFalse      byte = 0x02
	tagTrue       byte = 0x03
	tagNumberN0   byte = 0x04
	tagNumberN1   byte = 0x05
	tagNumberN8   byte = 0x0C
	tagArrayN1    byte = 0x0D
	tagArrayN8    byte = 0x14
	tagStringN1   byte = 0x15
	tagStringN4   byte = 0x18
	tagResourceN1 byte = 0x19
	tagResourceN4 byte = 0x1C
	tagFloat0     byte = 0x1D
	tagFloat      byte = 0x1E
	tagDouble     byte = 0x1F
	tagList       byte = 0x20
	tagObjects    byte = 0x21
	tagExtraN1    byte = 0x22
	tagExtraN4    byte = 0x25
)

// reader はバッファ上の可変長整数と数値配列を読み込みます
//
// 位置は全てバッファ先頭からの絶対オフセットです。
type reader struct {
	buf   []byte
	table string
}

func newReader(buf []byte, table string) *reader {
	return &reader{buf: buf, table: table}
}

func (r *reader) byteAt(off int) (byte, error) {
	if off < 0 || off >= len(r.buf) {
		return 0, tableErr(r.table, off, "バッファ外の読み込み (%d バイト)", len(r.buf))
	}
	return r.buf[off], nil
}

// uintN は off から n バイト (0-8) のリトルエンディアン符号なし整数を読み込みます
func (r *reader) uintN(off, n int) (uint64, error) {
	if n < 0 || n > 8 {
		return 0, tableErr(r.table, off, "整数幅 %d は不正です", n)
	}
	if off < 0 || off+n > len(r.buf) {
		return 0, tableErr(r.table, off, "%d バイト整数が途切れています", n)
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(r.buf[off+i])
	}
	return v, nil
}

// intN は off から n バイトの符号付き整数を読み込み、符号拡張します
func (r *reader) intN(off, n int) (int64, error) {
	u, err := r.uintN(off, n)
	if err != nil {
		return 0, err
	}
	if n == 0 || n == 8 {
		return int64(u), nil
	}
	shift := uint(64 - 8*n)
	return int64(u<<shift) >> shift, nil
}

func (r *reader) float32At(off int) (float64, error) {
	if off < 0 || off+4 > len(r.buf) {
		return 0, tableErr(r.table, off, "float32 が途切れています")
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(r.buf[off:]))), nil
}

func (r *reader) float64At(off int) (float64, error) {
	if off < 0 || off+8 > len(r.buf) {
		return 0, tableErr(r.table, off, "float64 が途切れています")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(r.buf[off:])), nil
}

// numberArray は off にある数値配列を読み込み、配列の直後の位置を返します
//
// 形式: 型タグ (0x0D-0x14, 個数のバイト幅), 個数, 要素幅タグ, 要素...
func (r *reader) numberArray(off int) ([]uint64, int, error) {
	tag, err := r.byteAt(off)
	if err != nil {
		return nil, 0, err
	}
	if tag < tagArrayN1 || tag > tagArrayN8 {
		return nil, 0, tableErr(r.table, off, "数値配列ではない型タグ 0x%02X", tag)
	}
	return r.numberArrayBody(off+1, int(tag-tagArrayN1)+1)
}

func (r *reader) numberArrayBody(off, countWidth int) ([]uint64, int, error) {
	count, err := r.uintN(off, countWidth)
	if err != nil {
		return nil, 0, err
	}
	off += countWidth

	widthTag, err := r.byteAt(off)
	if err != nil {
		return nil, 0, err
	}
	off++

	remaining := uint64(len(r.buf) - off)
	if count == 0 {
		return []uint64{}, off, nil
	}
	if widthTag <= tagNumberN8 || widthTag > tagNumberN8+8 {
		return nil, 0, tableErr(r.table, off-1, "要素幅タグ 0x%02X は不正です", widthTag)
	}
	width := int(widthTag - tagNumberN8)
	if count > remaining/uint64(width) {
		return nil, 0, tableErr(r.table, off, "%d 個 x %d バイトの配列がバッファを超えています", count, width)
	}

	values := make([]uint64, count)
	for i := range values {
		v, err := r.uintN(off, width)
		if err != nil {
			return nil, 0, err
		}
		values[i] = v
		off += width
	}
	return values, off, nil
}

// cstring は off から NUL 終端までのバイト列を返します
func (r *reader) cstring(off int) ([]byte, error) {
	if off < 0 || off >= len(r.buf) {
		return nil, tableErr(r.table, off, "文字列がバッファ外です")
	}
	for i := off; i < len(r.buf); i++ {
		if r.buf[i] == 0 {
			return r.buf[off:i], nil
		}
	}
	return nil, tableErr(r.table, off, "文字列が NUL で終端していません")
}
