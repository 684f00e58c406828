package psb

import (
	"errors"
	"slices"
	"testing"
)

func TestBuildTree_Values(t *testing.T) {
	f := fixture{
		root: dict{
			{"null", nil},
			{"t", true},
			{"f", false},
			{"zero", 0},
			{"neg", -300},
			{"big", 1 << 40},
			{"f32", float32(1.5)},
			{"f64", 2.25},
			{"fz", float32(0)},
			{"s", "hello"},
			{"r", res(0)},
			{"nums", numbers{1, 2, 300}},
			{"l", list{1, "x"}},
			{"d", dict{{"inner", 7}}},
		},
		chunks: [][]byte{[]byte("payload")},
	}.load(t)

	root := f.Objects()
	if root == nil {
		t.Fatal("ルートが辞書ではありません")
	}

	tests := []struct {
		key  string
		want Value
	}{
		{key: "null", want: Null{}},
		{key: "t", want: Bool(true)},
		{key: "f", want: Bool(false)},
		{key: "zero", want: Integer(0)},
		{key: "neg", want: Integer(-300)},
		{key: "big", want: Integer(1 << 40)},
		{key: "f32", want: Float{Value: 1.5}},
		{key: "f64", want: Float{Value: 2.25, Double: true}},
		{key: "fz", want: Float{}},
		{key: "s", want: String{Index: 0, Value: "hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := root.Get(tt.key)
			if !ok {
				t.Fatalf("Get(%q) が見つかりません", tt.key)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}

	t.Run("リソース", func(t *testing.T) {
		r, ok := root.Resource("r")
		if !ok {
			t.Fatal("Resource(r) が見つかりません")
		}
		if r.Index != 0 || r.Extra || string(r.Data()) != "payload" || r.Len() != 7 {
			t.Errorf("Resource(r) = %+v, data %q", r, r.Data())
		}
	})

	t.Run("数値配列", func(t *testing.T) {
		v, _ := root.Get("nums")
		nums, ok := v.(NumberArray)
		if !ok || !slices.Equal(nums, NumberArray{1, 2, 300}) {
			t.Errorf("nums = %#v", v)
		}
	})

	t.Run("リスト", func(t *testing.T) {
		v, _ := root.Get("l")
		l, ok := v.(Array)
		if !ok || len(l) != 2 {
			t.Fatalf("l = %#v", v)
		}
		if l[0] != Integer(1) {
			t.Errorf("l[0] = %#v", l[0])
		}
		if s, _ := StringValue(l[1]); s != "x" {
			t.Errorf("l[1] = %#v", l[1])
		}
	})

	t.Run("入れ子の辞書", func(t *testing.T) {
		d, ok := root.Dict("d")
		if !ok {
			t.Fatal("Dict(d) が見つかりません")
		}
		if n, _ := d.Int("inner"); n != 7 {
			t.Errorf("inner = %d, want 7", n)
		}
	})
}

func TestBuildTree_NameOrder(t *testing.T) {
	f := fixture{root: dict{{"c", 1}, {"a", 2}, {"b", 3}}}.load(t)

	root := f.Objects()
	if got, want := root.Keys(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %q, want %q", got, want)
	}
	entries := root.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].NameID >= entries[i].NameID {
			t.Errorf("名前IDが昇順ではありません: %d >= %d", entries[i-1].NameID, entries[i].NameID)
		}
	}
	var values []int64
	for _, v := range root.All() {
		n, _ := IntValue(v)
		values = append(values, n)
	}
	if !slices.Equal(values, []int64{2, 3, 1}) {
		t.Errorf("All() = %v, want [2 3 1]", values)
	}
}

func TestBuildTree_Errors(t *testing.T) {
	tests := []struct {
		name    string
		f       fixture
		opts    []Option
		wantErr error
	}{
		{
			name:    "名前IDの重複",
			f:       fixture{root: dict{{"a", 1}, {"a", 2}}},
			wantErr: ErrCorruptTree,
		},
		{
			name: "自分自身を指すリスト",
			// 子のオフセット 0xFFFFFFF8 は32ビットで折り返してリスト自身を指す
			f:       fixture{entries: []byte{tagList, 0x0D, 0x01, 0x10, 0xF8, 0xFF, 0xFF, 0xFF}},
			wantErr: ErrCyclicReference,
		},
		{
			name: "祖先の辞書を指す",
			f: fixture{
				names: []string{"self"},
				// 辞書 {self: [辞書自身]}
				entries: []byte{
					tagObjects, 0x0D, 0x01, 0x0D, 0x00, // 名前ID [0]
					0x0D, 0x01, 0x0D, 0x00, // オフセット [0]
					tagList, 0x0D, 0x01, 0x10, 0xEF, 0xFF, 0xFF, 0xFF,
				},
			},
			wantErr: ErrCyclicReference,
		},
		{
			name:    "未知の型タグ",
			f:       fixture{entries: []byte{0x30}},
			wantErr: ErrCorruptTree,
		},
		{
			name:    "文字列インデックスが範囲外",
			f:       fixture{entries: []byte{tagStringN1, 0x05}},
			wantErr: ErrCorruptTree,
		},
		{
			name:    "チャンクインデックスが範囲外",
			f:       fixture{entries: []byte{tagResourceN1, 0x00}},
			wantErr: ErrCorruptTree,
		},
		{
			name:    "整数が途切れている",
			f:       fixture{entries: []byte{tagNumberN4, 0x01}},
			wantErr: ErrCorruptTree,
		},
		{
			name:    "名前IDが範囲外",
			f:       fixture{entries: []byte{tagObjects, 0x0D, 0x01, 0x0D, 0x03, 0x0D, 0x01, 0x0D, 0x00, tagNull}},
			wantErr: ErrCorruptTree,
		},
		{
			name:    "ネストが深すぎる",
			f:       fixture{root: list{list{list{list{list{list{1}}}}}}},
			opts:    []Option{WithMaxDepth(5)},
			wantErr: ErrCorruptTree,
		},
		{
			name:    "共有された部分木の展開が大きすぎる",
			f:       fixture{names: []string{"a"}, entries: doublingLists(60)},
			wantErr: ErrCorruptTree,
		},
		{
			name:    "展開後のノード数が上限を超える",
			f:       fixture{names: []string{"a"}, entries: doublingLists(3)},
			opts:    []Option{WithMaxNodes(15)},
			wantErr: ErrCorruptTree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.f.bytes(t), tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			var te *TreeError
			if !errors.As(err, &te) {
				t.Errorf("TreeError ではありません: %T", err)
			}
		})
	}
}

// doublingLists は {a: L0} を返します。L_i は同じ L_{i+1} を2回参照するリストで、
// 最後の L_levels は整数 42 です。バイト数は段数に比例しますが、展開すると 2^levels 個の葉になります。
func doublingLists(levels int) []byte {
	b := []byte{
		tagObjects, 0x0D, 0x01, 0x0D, 0x00, // 名前ID [0]
		0x0D, 0x01, 0x0D, 0x00, // オフセット [0]
	}
	for range levels {
		b = append(b, tagList, 0x0D, 0x02, 0x0D, 0x00, 0x00)
	}
	return append(b, tagNumberN1, 0x2A)
}

func TestBuildTree_SharedSubtreeWithinLimit(t *testing.T) {
	// 辞書 1 + リスト 1+2+4 + 葉 8 = 16 ノード
	f := fixture{names: []string{"a"}, entries: doublingLists(3)}.load(t, WithMaxNodes(16))

	var leaves int
	var walk func(v Value)
	walk = func(v Value) {
		switch n := v.(type) {
		case Array:
			for _, c := range n {
				walk(c)
			}
		case *Dictionary:
			for _, c := range n.All() {
				walk(c)
			}
		case Integer:
			leaves++
		}
	}
	walk(f.Root())
	if leaves != 8 {
		t.Errorf("葉の数 = %d, want 8", leaves)
	}
}

func TestBuildTree_SharedSubtree(t *testing.T) {
	// 2つの要素が同じ位置を指す (循環ではない)
	f := fixture{entries: []byte{tagList, 0x0D, 0x02, 0x0D, 0x00, 0x00, tagNumberN1, 0x2A}}.load(t)

	l, ok := f.Root().(Array)
	if !ok || len(l) != 2 {
		t.Fatalf("Root() = %#v", f.Root())
	}
	for i, v := range l {
		if v != Integer(42) {
			t.Errorf("l[%d] = %#v, want 42", i, v)
		}
	}
}

func TestBuildTree_DepthWithinLimit(t *testing.T) {
	f := fixture{root: list{list{list{1}}}}.load(t, WithMaxDepth(3))
	if f.Root().Kind() != KindArray {
		t.Errorf("Root().Kind() = %v", f.Root().Kind())
	}
}
