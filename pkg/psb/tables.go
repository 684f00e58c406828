package psb

import "sort"

const (
	tableStrings           = "strings"
	tableChunkOffsets      = "chunkOffsets"
	tableChunkLengths      = "chunkLengths"
	tableExtraChunkOffsets = "extraChunkOffsets"
	tableExtraChunkLengths = "extraChunkLengths"
)

// Tables はヘッダから復号した名前・文字列・チャンクのテーブル
type Tables struct {
	Names   []string
	Strings []string
	Chunks  *ChunkTable
	// Extra はv4の追加チャンク (存在しない場合は空)
	Extra *ChunkTable
}

// ChunkTable はチャンク長とチャンクデータプール
//
// チャンクの範囲は保存されたオフセットではなく、長さの累積和から求めます。
type ChunkTable struct {
	pool    []byte
	lengths []uint64
	starts  []uint64
}

// Len はチャンク数を返します
func (c *ChunkTable) Len() int {
	if c == nil {
		return 0
	}
	return len(c.lengths)
}

// Range はチャンク index のプール内での [start, end) を返します
func (c *ChunkTable) Range(index uint32) (start, end uint64, ok bool) {
	if c == nil || uint64(index) >= uint64(len(c.lengths)) {
		return 0, 0, false
	}
	start = c.starts[index]
	return start, start + c.lengths[index], true
}

// Data はチャンク index のバイト列を返します (プールの部分スライス)
func (c *ChunkTable) Data(index uint32) ([]byte, bool) {
	start, end, ok := c.Range(index)
	if !ok {
		return nil, false
	}
	return c.pool[start:end:end], true
}

// decodeTables はヘッダの示す全テーブルを復号します
func decodeTables(buf []byte, h *Header, opts Options) (*Tables, error) {
	names, err := decodeNames(buf, h, opts.Encoding)
	if err != nil {
		return nil, err
	}

	strs, err := decodeStrings(buf, h, opts.Encoding)
	if err != nil {
		return nil, err
	}

	chunks, err := decodeChunks(buf, h, h.OffsetChunkOffsets, h.OffsetChunkLengths, h.OffsetChunkData, tableChunkOffsets, tableChunkLengths)
	if err != nil {
		return nil, err
	}

	extra := &ChunkTable{}
	if h.HasExtraChunks() {
		extra, err = decodeChunks(buf, h, h.OffsetExtraChunkOffsets, h.OffsetExtraChunkLengths, h.OffsetExtraChunkData, tableExtraChunkOffsets, tableExtraChunkLengths)
		if err != nil {
			return nil, err
		}
	}

	return &Tables{
		Names:   names,
		Strings: strs,
		Chunks:  chunks,
		Extra:   extra,
	}, nil
}

// decodeStrings は文字列テーブルを復号します
//
// 文字列テーブルは OffsetStringsData からの相対オフセットの配列です。
func decodeStrings(buf []byte, h *Header, enc Encoding) ([]string, error) {
	r := newReader(buf, tableStrings)
	offsets, _, err := r.numberArray(int(h.OffsetStrings))
	if err != nil {
		return nil, err
	}

	strs := make([]string, len(offsets))
	for i, o := range offsets {
		pos := uint64(h.OffsetStringsData) + o
		if pos >= uint64(len(buf)) {
			return nil, tableErr(tableStrings, int(h.OffsetStrings), "文字列 %d のオフセット 0x%X がプール外です", i, o)
		}
		raw, err := r.cstring(int(pos))
		if err != nil {
			return nil, err
		}
		s, err := decodeText(raw, enc)
		if err != nil {
			return nil, tableErr(tableStrings, int(pos), "文字列 %d の文字コード変換に失敗しました: %v", i, err)
		}
		strs[i] = s
	}
	return strs, nil
}

// decodeChunks はチャンク長テーブルとプールを読み込み、累積和を検証します
func decodeChunks(buf []byte, h *Header, offsetsAt, lengthsAt, dataAt uint32, offsetsTable, lengthsTable string) (*ChunkTable, error) {
	lengths, _, err := newReader(buf, lengthsTable).numberArray(int(lengthsAt))
	if err != nil {
		return nil, err
	}
	stored, _, err := newReader(buf, offsetsTable).numberArray(int(offsetsAt))
	if err != nil {
		return nil, err
	}
	if len(stored) != len(lengths) {
		return nil, tableErr(offsetsTable, int(offsetsAt), "チャンク数 %d が長さテーブルの %d と一致しません", len(stored), len(lengths))
	}

	pool := buf[dataAt:poolEnd(buf, h, dataAt)]
	starts := make([]uint64, len(lengths))
	var sum uint64
	for i, l := range lengths {
		starts[i] = sum
		if l > uint64(len(pool))-sum {
			return nil, tableErr(lengthsTable, int(lengthsAt), "チャンク %d (%d バイト) がプール (%d バイト) を超えています", i, l, len(pool))
		}
		if stored[i] != sum {
			return nil, tableErr(offsetsTable, int(offsetsAt), "チャンク %d のオフセット 0x%X が長さの累積 0x%X と一致しません", i, stored[i], sum)
		}
		sum += l
	}

	return &ChunkTable{pool: pool, lengths: lengths, starts: starts}, nil
}

// poolEnd はプール開始位置より後ろにある最初のテーブル位置、なければバッファ末尾を返します
func poolEnd(buf []byte, h *Header, start uint32) int {
	var after []int
	for _, f := range h.offsetFields() {
		if f.value > start {
			after = append(after, int(f.value))
		}
	}
	if len(after) == 0 {
		return len(buf)
	}
	sort.Ints(after)
	return after[0]
}
