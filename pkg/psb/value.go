package psb

import (
	"fmt"
	"strconv"
)

// Kind は値の種類
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindResource
	KindNumberArray
	KindArray
	KindDictionary
)

var kindNames = [...]string{
	KindNull:        "null",
	KindBool:        "bool",
	KindInteger:     "integer",
	KindFloat:       "float",
	KindString:      "string",
	KindResource:    "resource",
	KindNumberArray: "numberArray",
	KindArray:       "array",
	KindDictionary:  "dictionary",
}

// String は種類名を返します
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value はPSB値ツリーのノード
//
// 値ツリーは構築後に変更されないため、複数のゴルーチンから同時に読み取れます。
type Value interface {
	Kind() Kind
}

// Null はnull値
type Null struct{}

// Kind は KindNull を返します
func (Null) Kind() Kind { return KindNull }

// Bool は真偽値
type Bool bool

// Kind は KindBool を返します
func (Bool) Kind() Kind { return KindBool }

// Integer は整数値
type Integer int64

// Kind は KindInteger を返します
func (Integer) Kind() Kind { return KindInteger }

// Float は浮動小数点数
type Float struct {
	Value float64
	// Double はファイル上で倍精度だったかどうか
	Double bool
}

// Kind は KindFloat を返します
func (Float) Kind() Kind { return KindFloat }

// String は文字列テーブルを参照する文字列値
type String struct {
	Index uint32
	Value string
}

// Kind は KindString を返します
func (String) Kind() Kind { return KindString }

// Resource はチャンクを参照するバイナリリソース
//
// バイト列は Data を呼ぶまで切り出されません。
type Resource struct {
	Index uint32
	// Extra はv4の追加チャンクを参照しているかどうか
	Extra bool
	table *ChunkTable
}

// Kind は KindResource を返します
func (*Resource) Kind() Kind { return KindResource }

// Data はリソースのバイト列を返します
//
// 返すスライスは入力バッファの一部なので、変更してはいけません。
func (r *Resource) Data() []byte {
	if r == nil {
		return nil
	}
	data, _ := r.table.Data(r.Index)
	return data
}

// Len はリソースのバイト数を返します
func (r *Resource) Len() int {
	if r == nil {
		return 0
	}
	start, end, _ := r.table.Range(r.Index)
	return int(end - start)
}

// Key は重複排除に使うチャンクの識別子を返します
func (r *Resource) Key() ResourceKey {
	return ResourceKey{Index: r.Index, Extra: r.Extra}
}

// ResourceKey はチャンクの識別子
type ResourceKey struct {
	Index uint32
	Extra bool
}

// String は "#index" 形式の表記を返します
func (k ResourceKey) String() string {
	if k.Extra {
		return fmt.Sprintf("extra#%d", k.Index)
	}
	return fmt.Sprintf("#%d", k.Index)
}

// NumberArray はツリー内に直接格納された数値配列
type NumberArray []uint64

// Kind は KindNumberArray を返します
func (NumberArray) Kind() Kind { return KindNumberArray }

// Array は値のリスト
type Array []Value

// Kind は KindArray を返します
func (Array) Kind() Kind { return KindArray }

// IntValue は数値系の値を int64 として返します
func IntValue(v Value) (int64, bool) {
	switch n := v.(type) {
	case Integer:
		return int64(n), true
	case Float:
		return int64(n.Value), true
	case Bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// FloatValue は数値系の値を float64 として返します
func FloatValue(v Value) (float64, bool) {
	switch n := v.(type) {
	case Float:
		return n.Value, true
	case Integer:
		return float64(n), true
	}
	return 0, false
}

// StringValue は文字列値の中身を返します
func StringValue(v Value) (string, bool) {
	if s, ok := v.(String); ok {
		return s.Value, true
	}
	return "", false
}

// AsResource は値がリソースの場合にそれを返します
func AsResource(v Value) (*Resource, bool) {
	r, ok := v.(*Resource)
	return r, ok && r != nil
}
