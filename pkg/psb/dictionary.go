package psb

import "iter"

// Entry は辞書の1要素
type Entry struct {
	NameID uint32
	Key    string
	Value  Value
}

// Dictionary は名前IDの昇順に並んだキーと値の組
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

// Kind は KindDictionary を返します
func (*Dictionary) Kind() Kind { return KindDictionary }

// newDictionary は名前ID昇順に並べ済みの entries から辞書を作成します
func newDictionary(entries []Entry) *Dictionary {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	return &Dictionary{entries: entries, index: index}
}

// Len は要素数を返します
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Get はキーに対応する値を返します
func (d *Dictionary) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].Value, true
}

// Has はキーが存在するかどうかを返します
func (d *Dictionary) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys は名前ID順のキー一覧を返します
func (d *Dictionary) Keys() []string {
	keys := make([]string, d.Len())
	for i := range keys {
		keys[i] = d.entries[i].Key
	}
	return keys
}

// Entries は名前ID順の要素を返します (コピー)
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, d.Len())
	if d != nil {
		copy(out, d.entries)
	}
	return out
}

// All は名前ID順にキーと値を列挙します
func (d *Dictionary) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for _, e := range d.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Int はキーの値を整数として返します
func (d *Dictionary) Int(key string) (int64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	return IntValue(v)
}

// Float はキーの値を浮動小数点数として返します
func (d *Dictionary) Float(key string) (float64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	return FloatValue(v)
}

// Text はキーの値を文字列として返します
func (d *Dictionary) Text(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	return StringValue(v)
}

// Resource はキーの値をリソースとして返します
func (d *Dictionary) Resource(key string) (*Resource, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	return AsResource(v)
}

// Dict はキーの値を辞書として返します
func (d *Dictionary) Dict(key string) (*Dictionary, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	c, ok := v.(*Dictionary)
	return c, ok
}
