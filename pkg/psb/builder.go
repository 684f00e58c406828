package psb

import (
	"cmp"
	"errors"
	"math"
	"slices"
)

const tableEntries = "entries"

// builder はエントリ位置から値ツリーを再帰的に構築します
type builder struct {
	r      *reader
	tables *Tables
	opts   Options
	// 現在の再帰経路上にある値の位置
	onPath map[uint32]struct{}
	// 構築済みの値 (同じ位置を複数の親が参照する場合に共有)
	memo  map[uint32]built
	depth int
}

// built は構築済みの値と、共有部分を展開したときのノード数
type built struct {
	value Value
	nodes uint64
}

func buildTree(buf []byte, h *Header, tables *Tables, opts Options) (Value, error) {
	b := &builder{
		r:      newReader(buf, tableEntries),
		tables: tables,
		opts:   opts,
		onPath: make(map[uint32]struct{}),
		memo:   make(map[uint32]built),
	}
	v, err := b.build(h.OffsetEntries)
	return v.value, err
}

func (b *builder) build(off uint32) (built, error) {
	if uint64(off) >= uint64(len(b.r.buf)) {
		return built{}, treeErr(off, ErrCorruptTree, "値の位置がバッファ外です")
	}
	if _, ok := b.onPath[off]; ok {
		return built{}, treeErr(off, ErrCyclicReference, "祖先の値を参照しています")
	}
	if v, ok := b.memo[off]; ok {
		return v, nil
	}

	v, err := b.decode(off)
	if err != nil {
		return built{}, b.wrap(err)
	}
	b.memo[off] = v
	return v, nil
}

// addNodes は子のノード数を加算し、上限を超えたらエラーにします
func (b *builder) addNodes(off uint32, total, n uint64) (uint64, error) {
	if n > b.opts.MaxNodes || total > b.opts.MaxNodes-n {
		return 0, treeErr(off, ErrCorruptTree, "展開後のノード数が上限 %d を超えています", b.opts.MaxNodes)
	}
	return total + n, nil
}

// wrap は読み込み中のテーブルエラーを値ツリーのエラーに変換します
func (b *builder) wrap(err error) error {
	var te *TableError
	if errors.As(err, &te) {
		return treeErr(uint32(te.Offset), ErrCorruptTree, "%s", te.Error())
	}
	return err
}

func (b *builder) decode(off uint32) (built, error) {
	switch b.r.buf[off] {
	case tagList:
		return b.list(off)
	case tagObjects:
		return b.dictionary(off)
	}
	v, err := b.scalar(off)
	if err != nil {
		return built{}, err
	}
	return built{value: v, nodes: 1}, nil
}

func (b *builder) scalar(off uint32) (Value, error) {
	pos := int(off)
	tag := b.r.buf[pos]

	switch {
	case tag == tagNone || tag == tagNull:
		return Null{}, nil
	case tag == tagFalse:
		return Bool(false), nil
	case tag == tagTrue:
		return Bool(true), nil
	case tag == tagNumberN0:
		return Integer(0), nil
	case tag >= tagNumberN1 && tag <= tagNumberN8:
		n, err := b.r.intN(pos+1, int(tag-tagNumberN0))
		if err != nil {
			return nil, err
		}
		return Integer(n), nil
	case tag >= tagArrayN1 && tag <= tagArrayN8:
		values, _, err := b.r.numberArrayBody(pos+1, int(tag-tagArrayN1)+1)
		if err != nil {
			return nil, err
		}
		return NumberArray(values), nil
	case tag >= tagStringN1 && tag <= tagStringN4:
		idx, err := b.r.uintN(pos+1, int(tag-tagStringN1)+1)
		if err != nil {
			return nil, err
		}
		if idx >= uint64(len(b.tables.Strings)) {
			return nil, treeErr(off, ErrCorruptTree, "文字列インデックス %d が範囲外です (%d 個)", idx, len(b.tables.Strings))
		}
		return String{Index: uint32(idx), Value: b.tables.Strings[idx]}, nil
	case tag >= tagResourceN1 && tag <= tagResourceN4:
		return b.resource(off, int(tag-tagResourceN1)+1, b.tables.Chunks, false)
	case tag >= tagExtraN1 && tag <= tagExtraN4:
		return b.resource(off, int(tag-tagExtraN1)+1, b.tables.Extra, true)
	case tag == tagFloat0:
		return Float{}, nil
	case tag == tagFloat:
		f, err := b.r.float32At(pos + 1)
		if err != nil {
			return nil, err
		}
		return Float{Value: f}, nil
	case tag == tagDouble:
		f, err := b.r.float64At(pos + 1)
		if err != nil {
			return nil, err
		}
		return Float{Value: f, Double: true}, nil
	}
	return nil, treeErr(off, ErrCorruptTree, "未知の型タグ 0x%02X", tag)
}

func (b *builder) resource(off uint32, width int, table *ChunkTable, extra bool) (Value, error) {
	idx, err := b.r.uintN(int(off)+1, width)
	if err != nil {
		return nil, err
	}
	if idx >= uint64(table.Len()) {
		return nil, treeErr(off, ErrCorruptTree, "チャンクインデックス %d が範囲外です (%d 個)", idx, table.Len())
	}
	return &Resource{Index: uint32(idx), Extra: extra, table: table}, nil
}

// child は子の位置を求めます
//
// オフセットは32ビットなので、位置の計算も32ビットで折り返します。
func child(parent, base uint32, rel uint64) (uint32, error) {
	if rel > math.MaxUint32 {
		return 0, treeErr(parent, ErrCorruptTree, "子のオフセット 0x%X が32ビットを超えています", rel)
	}
	return base + uint32(rel), nil
}

func (b *builder) enter(off uint32) error {
	if b.depth >= b.opts.MaxDepth {
		return treeErr(off, ErrCorruptTree, "ネストが深すぎます (最大 %d)", b.opts.MaxDepth)
	}
	b.depth++
	b.onPath[off] = struct{}{}
	return nil
}

func (b *builder) leave(off uint32) {
	b.depth--
	delete(b.onPath, off)
}

func (b *builder) list(off uint32) (built, error) {
	offsets, base, err := b.r.numberArray(int(off) + 1)
	if err != nil {
		return built{}, err
	}
	if err := b.enter(off); err != nil {
		return built{}, err
	}
	defer b.leave(off)

	items := make(Array, len(offsets))
	nodes := uint64(1)
	for i, rel := range offsets {
		pos, err := child(off, uint32(base), rel)
		if err != nil {
			return built{}, err
		}
		v, err := b.build(pos)
		if err != nil {
			return built{}, err
		}
		if nodes, err = b.addNodes(off, nodes, v.nodes); err != nil {
			return built{}, err
		}
		items[i] = v.value
	}
	return built{value: items, nodes: nodes}, nil
}

func (b *builder) dictionary(off uint32) (built, error) {
	ids, next, err := b.r.numberArray(int(off) + 1)
	if err != nil {
		return built{}, err
	}
	offsets, base, err := b.r.numberArray(next)
	if err != nil {
		return built{}, err
	}
	if len(ids) != len(offsets) {
		return built{}, treeErr(off, ErrCorruptTree, "名前 %d 個に対してオフセットが %d 個です", len(ids), len(offsets))
	}
	if err := b.enter(off); err != nil {
		return built{}, err
	}
	defer b.leave(off)

	entries := make([]Entry, len(ids))
	nodes := uint64(1)
	for i, id := range ids {
		if id >= uint64(len(b.tables.Names)) {
			return built{}, treeErr(off, ErrCorruptTree, "名前ID %d が範囲外です (%d 個)", id, len(b.tables.Names))
		}
		pos, err := child(off, uint32(base), offsets[i])
		if err != nil {
			return built{}, err
		}
		v, err := b.build(pos)
		if err != nil {
			return built{}, err
		}
		if nodes, err = b.addNodes(off, nodes, v.nodes); err != nil {
			return built{}, err
		}
		entries[i] = Entry{NameID: uint32(id), Key: b.tables.Names[id], Value: v.value}
	}

	slices.SortStableFunc(entries, func(x, y Entry) int {
		return cmp.Compare(x.NameID, y.NameID)
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].NameID == entries[i-1].NameID {
			return built{}, treeErr(off, ErrCorruptTree, "名前ID %d (%q) が重複しています", entries[i].NameID, entries[i].Key)
		}
	}
	return built{value: newDictionary(entries), nodes: nodes}, nil
}
