// Package psbtest はテスト用にPSBのバイト列を組み立てます
//
// 値は Go の値で表します:
//
//	nil, bool, int, float32, float64, string, Res(i), Extra(i),
//	Dict{...}, List{...}, Numbers{...}, Raw{...}
//
// 名前と文字列はバイト順に並べ、その順序がそのまま名前ID・文字列インデックスになります。
package psbtest

import (
	"encoding/binary"
	"math"
	"slices"
	"testing"
)

// 型タグ
const (
	tagNull       byte = 0x01
	tagFalse      byte = 0x02
	tagTrue       byte = 0x03
	tagNumberN0   byte = 0x04
	tagNumberN8   byte = 0x0C
	tagArrayN1    byte = 0x0D
	tagStringN1   byte = 0x15
	tagResourceN1 byte = 0x19
	tagFloat0     byte = 0x1D
	tagFloat      byte = 0x1E
	tagDouble     byte = 0x1F
	tagList       byte = 0x20
	tagObjects    byte = 0x21
	tagExtraN1    byte = 0x22
)

// KV は辞書の1要素
type KV struct {
	Key string
	Val any
}

type (
	// Dict は辞書 (書いた順に子を配置し、名前IDは名前のバイト順)
	Dict []KV
	// List は値のリスト
	List []any
	// Numbers は数値配列
	Numbers []uint64
	// Res はチャンクを参照するリソース
	Res uint32
	// Extra はv4の追加チャンクを参照するリソース
	Extra uint32
	// Raw は値としてそのまま書き込むバイト列
	Raw []byte
)

// Document はPSBファイル1つ分の内容
type Document struct {
	Version uint16 // 0 の場合は 3
	Encrypt uint16
	Root    any
	Chunks  [][]byte
	Extras  [][]byte

	// Entries が nil でなければ Root の代わりにそのまま書き込みます
	Entries []byte
	// Names と Strings はツリーに現れない名前・文字列を追加します
	Names   []string
	Strings []string

	// ChunkOffsets が nil でなければ保存するチャンクオフセットを上書きします
	ChunkOffsets []uint64
}

// HeaderSize はバージョンごとのヘッダのバイト数を返します
func HeaderSize(version uint16) int {
	switch {
	case version >= 4:
		return 56
	case version == 3:
		return 44
	default:
		return 40
	}
}

func uintWidth(v uint64) int {
	n := 1
	for v > 0xFF {
		v >>= 8
		n++
	}
	return n
}

func intWidth(v int64) int {
	for n := 1; n < 8; n++ {
		lim := int64(1) << (8*n - 1)
		if v >= -lim && v < lim {
			return n
		}
	}
	return 8
}

func putUint(dst []byte, v uint64, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// EncodeNumbers は最小幅の数値配列を返します
func EncodeNumbers(values []uint64) []byte {
	cw := uintWidth(uint64(len(values)))
	ew := 1
	for _, v := range values {
		ew = max(ew, uintWidth(v))
	}
	out := []byte{tagArrayN1 + byte(cw) - 1}
	out = putUint(out, uint64(len(values)), cw)
	out = append(out, tagNumberN8+byte(ew))
	for _, v := range values {
		out = putUint(out, v, ew)
	}
	return out
}

// EncodeNameTree は名前をダブル配列トライ (charset, tree, indexes) に変換します
func EncodeNameTree(names []string) (charset, tree, indexes []uint64) {
	type node struct {
		children map[byte]*node
		pos      int
		base     int
	}
	newNode := func() *node { return &node{children: map[byte]*node{}} }
	root := newNode()
	terminals := make([]*node, len(names))
	for i, name := range names {
		n := root
		for _, c := range append([]byte(name), 0) {
			child, ok := n.children[c]
			if !ok {
				child = newNode()
				n.children[c] = child
			}
			n = child
		}
		terminals[i] = n
	}

	type edge struct {
		parent *node
		child  *node
	}
	var edges []edge
	next := 1
	queue := []*node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if len(n.children) == 0 {
			continue
		}
		keys := make([]byte, 0, len(n.children))
		for c := range n.children {
			keys = append(keys, c)
		}
		slices.Sort(keys)
		n.base = max(next-int(keys[0]), 0)
		for _, c := range keys {
			child := n.children[c]
			child.pos = n.base + int(c)
			edges = append(edges, edge{n, child})
			queue = append(queue, child)
		}
		next = n.base + int(keys[len(keys)-1]) + 1
	}

	charset = make([]uint64, next)
	tree = make([]uint64, next)
	for _, e := range edges {
		charset[e.parent.pos] = uint64(e.parent.base)
		tree[e.child.pos] = uint64(e.parent.pos)
	}
	indexes = make([]uint64, len(names))
	for i, t := range terminals {
		indexes[i] = uint64(t.pos)
	}
	return charset, tree, indexes
}

func encodeFlatNames(names []string) []byte {
	var pool []byte
	offsets := make([]uint64, len(names))
	for i, name := range names {
		offsets[i] = uint64(len(pool))
		pool = append(pool, name...)
		pool = append(pool, 0)
	}
	return append(EncodeNumbers(offsets), pool...)
}

// gather は値ツリーに現れる名前と文字列を集めます
func gather(v any, names, strs map[string]struct{}) {
	switch n := v.(type) {
	case Dict:
		for _, e := range n {
			names[e.Key] = struct{}{}
			gather(e.Val, names, strs)
		}
	case List:
		for _, c := range n {
			gather(c, names, strs)
		}
	case string:
		strs[n] = struct{}{}
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type encoder struct {
	tb      testing.TB
	nameIDs map[string]int
	strIDs  map[string]int
}

func (e *encoder) value(v any) []byte {
	e.tb.Helper()
	switch n := v.(type) {
	case nil:
		return []byte{tagNull}
	case bool:
		if n {
			return []byte{tagTrue}
		}
		return []byte{tagFalse}
	case int:
		if n == 0 {
			return []byte{tagNumberN0}
		}
		w := intWidth(int64(n))
		return putUint([]byte{tagNumberN0 + byte(w)}, uint64(n), w)
	case float32:
		if n == 0 {
			return []byte{tagFloat0}
		}
		return binary.LittleEndian.AppendUint32([]byte{tagFloat}, math.Float32bits(n))
	case float64:
		return binary.LittleEndian.AppendUint64([]byte{tagDouble}, math.Float64bits(n))
	case string:
		idx := e.strIDs[n]
		w := uintWidth(uint64(idx))
		return putUint([]byte{tagStringN1 + byte(w) - 1}, uint64(idx), w)
	case Res:
		w := uintWidth(uint64(n))
		return putUint([]byte{tagResourceN1 + byte(w) - 1}, uint64(n), w)
	case Extra:
		w := uintWidth(uint64(n))
		return putUint([]byte{tagExtraN1 + byte(w) - 1}, uint64(n), w)
	case Numbers:
		return EncodeNumbers(n)
	case Raw:
		return n
	case List:
		head, body := e.children(n)
		return append(append([]byte{tagList}, head...), body...)
	case Dict:
		ids := make([]uint64, len(n))
		children := make([]any, len(n))
		for i, c := range n {
			id, ok := e.nameIDs[c.Key]
			if !ok {
				e.tb.Fatalf("名前 %q がテーブルにありません", c.Key)
			}
			ids[i] = uint64(id)
			children[i] = c.Val
		}
		head, body := e.children(children)
		out := append([]byte{tagObjects}, EncodeNumbers(ids)...)
		return append(append(out, head...), body...)
	}
	e.tb.Fatalf("エンコードできない値 %T", v)
	return nil
}

func (e *encoder) children(values []any) (head, body []byte) {
	offsets := make([]uint64, len(values))
	for i, v := range values {
		offsets[i] = uint64(len(body))
		body = append(body, e.value(v)...)
	}
	return EncodeNumbers(offsets), body
}

func chunkTables(chunks [][]byte, override []uint64) (offsets, lengths, data []byte) {
	offs := make([]uint64, len(chunks))
	lens := make([]uint64, len(chunks))
	for i, c := range chunks {
		offs[i] = uint64(len(data))
		lens[i] = uint64(len(c))
		data = append(data, c...)
	}
	if override != nil {
		offs = override
	}
	return EncodeNumbers(offs), EncodeNumbers(lens), data
}

func le32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// Bytes はドキュメントをPSBのバイト列にエンコードします
//
// 配置: ヘッダ, 名前, 文字列オフセット, 文字列データ, チャンクオフセット, チャンク長,
// 値ツリー, チャンクデータ, (v4) 追加チャンクオフセット, 追加チャンク長, 追加チャンクデータ
func (d Document) Bytes(tb testing.TB) []byte {
	tb.Helper()
	version := d.Version
	if version == 0 {
		version = 3
	}

	nameSet := map[string]struct{}{}
	strSet := map[string]struct{}{}
	for _, n := range d.Names {
		nameSet[n] = struct{}{}
	}
	for _, s := range d.Strings {
		strSet[s] = struct{}{}
	}
	if d.Entries == nil {
		gather(d.Root, nameSet, strSet)
	}
	names := sortedKeys(nameSet)
	strs := sortedKeys(strSet)

	enc := &encoder{tb: tb, nameIDs: map[string]int{}, strIDs: map[string]int{}}
	for i, n := range names {
		enc.nameIDs[n] = i
	}
	for i, s := range strs {
		enc.strIDs[s] = i
	}

	var nameTable []byte
	if version >= 2 {
		charset, tree, indexes := EncodeNameTree(names)
		nameTable = slices.Concat(EncodeNumbers(charset), EncodeNumbers(tree), EncodeNumbers(indexes))
	} else {
		nameTable = encodeFlatNames(names)
	}

	var strData []byte
	strOffsets := make([]uint64, len(strs))
	for i, s := range strs {
		strOffsets[i] = uint64(len(strData))
		strData = append(strData, s...)
		strData = append(strData, 0)
	}

	entries := d.Entries
	if entries == nil {
		entries = enc.value(d.Root)
	}

	chunkOffs, chunkLens, chunkData := chunkTables(d.Chunks, d.ChunkOffsets)

	size := HeaderSize(version)
	body := []byte{}
	place := func(b []byte) uint32 {
		off := uint32(size + len(body))
		body = append(body, b...)
		return off
	}

	head := make([]byte, size)
	copy(head, "PSB\x00")
	binary.LittleEndian.PutUint16(head[4:], version)
	binary.LittleEndian.PutUint16(head[6:], d.Encrypt)
	le32(head, 8, uint32(size))
	le32(head, 12, place(nameTable))
	le32(head, 16, place(EncodeNumbers(strOffsets)))
	le32(head, 20, place(strData))
	le32(head, 24, place(chunkOffs))
	le32(head, 28, place(chunkLens))
	le32(head, 36, place(entries))
	le32(head, 32, place(chunkData))
	if version >= 4 && d.Extras != nil {
		eo, el, ed := chunkTables(d.Extras, nil)
		le32(head, 44, place(eo))
		le32(head, 48, place(el))
		le32(head, 52, place(ed))
	}
	return append(head, body...)
}
