package psb

const tableNames = "names"

// decodeNames は名前テーブルを id -> 文字列 の配列に展開します
func decodeNames(buf []byte, h *Header, enc Encoding) ([]string, error) {
	r := newReader(buf, tableNames)
	if h.UsesNameTree() {
		return decodeNameTree(r, int(h.OffsetNames), enc)
	}
	return decodeFlatNames(r, int(h.OffsetNames), enc)
}

// decodeFlatNames はv1の名前テーブルを読み込みます
//
// オフセット配列の直後に NUL 終端の名前が並び、各オフセットはその先頭からの相対位置です。
func decodeFlatNames(r *reader, off int, enc Encoding) ([]string, error) {
	offsets, base, err := r.numberArray(off)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(offsets))
	for i, o := range offsets {
		pos := uint64(base) + o
		if pos >= uint64(len(r.buf)) {
			return nil, tableErr(tableNames, base, "名前 %d のオフセット 0x%X がバッファ外です", i, o)
		}
		raw, err := r.cstring(int(pos))
		if err != nil {
			return nil, err
		}
		name, err := decodeText(raw, enc)
		if err != nil {
			return nil, tableErr(tableNames, int(pos), "名前 %d の文字コード変換に失敗しました: %v", i, err)
		}
		names[i] = name
	}
	return names, nil
}

// decodeNameTree はv2以降のトライ形式の名前テーブルを読み込みます
//
// charset, namesData, nameIndexes の3つの数値配列が連続して格納されています。
// 名前 i は namesData[nameIndexes[i]] から親へ辿り、得られたバイト列を反転したものです。
func decodeNameTree(r *reader, off int, enc Encoding) ([]string, error) {
	charset, next, err := r.numberArray(off)
	if err != nil {
		return nil, err
	}
	tree, next, err := r.numberArray(next)
	if err != nil {
		return nil, err
	}
	indexes, _, err := r.numberArray(next)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(indexes))
	buf := make([]byte, 0, 64)
	for i, index := range indexes {
		buf = buf[:0]
		if index >= uint64(len(tree)) {
			return nil, tableErr(tableNames, off, "名前 %d のインデックス %d がツリー外です", i, index)
		}
		chr := tree[index]
		// ツリーの深さは要素数を超えない
		for steps := 0; chr != 0; steps++ {
			if steps > len(tree) || chr >= uint64(len(tree)) {
				return nil, tableErr(tableNames, off, "名前 %d のツリーが壊れています (node %d)", i, chr)
			}
			code := tree[chr]
			if code >= uint64(len(charset)) {
				return nil, tableErr(tableNames, off, "名前 %d の文字コード %d が文字セット外です", i, code)
			}
			d := charset[code]
			if d > chr || chr-d > 0xFF {
				return nil, tableErr(tableNames, off, "名前 %d のノード %d が文字に変換できません", i, chr)
			}
			buf = append(buf, byte(chr-d))
			chr = code
		}
		for a, b := 0, len(buf)-1; a < b; a, b = a+1, b-1 {
			buf[a], buf[b] = buf[b], buf[a]
		}
		name, err := decodeText(buf, enc)
		if err != nil {
			return nil, tableErr(tableNames, off, "名前 %d の文字コード変換に失敗しました: %v", i, err)
		}
		names[i] = name
	}
	return names, nil
}
