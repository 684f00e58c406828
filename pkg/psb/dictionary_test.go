package psb

import (
	"slices"
	"testing"
)

func TestDictionary_Accessors(t *testing.T) {
	f := fixture{
		root: dict{
			{"width", 640},
			{"scale", 1.5},
			{"label", "ラベル"},
			{"clip", dict{{"left", float32(2)}}},
			{"pixel", res(0)},
			{"flag", true},
		},
		chunks: [][]byte{{1, 2, 3}},
	}.load(t)
	d := f.Objects()

	if got := d.Keys(); !slices.Equal(got, []string{"clip", "flag", "label", "pixel", "scale", "width"}) {
		t.Errorf("Keys() = %v", got)
	}
	if n, ok := d.Int("width"); !ok || n != 640 {
		t.Errorf("Int(width) = %d, %v", n, ok)
	}
	if n, ok := d.Int("flag"); !ok || n != 1 {
		t.Errorf("Int(flag) = %d, %v", n, ok)
	}
	if v, ok := d.Float("width"); !ok || v != 640 {
		t.Errorf("Float(width) = %v, %v", v, ok)
	}
	if v, ok := d.Float("scale"); !ok || v != 1.5 {
		t.Errorf("Float(scale) = %v, %v", v, ok)
	}
	if s, ok := d.Text("label"); !ok || s != "ラベル" {
		t.Errorf("Text(label) = %q, %v", s, ok)
	}
	if _, ok := d.Text("width"); ok {
		t.Error("Text(width) は失敗するべきです")
	}
	if r, ok := d.Resource("pixel"); !ok || r.Len() != 3 {
		t.Errorf("Resource(pixel) = %v, %v", r, ok)
	}
	if c, ok := d.Dict("clip"); !ok || c.Len() != 1 {
		t.Errorf("Dict(clip) = %v, %v", c, ok)
	}
	if _, ok := d.Get("missing"); ok || d.Has("missing") {
		t.Error("存在しないキーが見つかりました")
	}

	// Entries はコピーを返す
	entries := d.Entries()
	entries[0].Key = "changed"
	if d.Keys()[0] != "clip" {
		t.Error("Entries() の変更が辞書に反映されています")
	}
}

func TestDictionary_Nil(t *testing.T) {
	var d *Dictionary
	if d.Len() != 0 || d.Has("a") || len(d.Keys()) != 0 || len(d.Entries()) != 0 {
		t.Error("nil の辞書が空として振る舞いません")
	}
	for range d.All() {
		t.Error("nil の辞書を列挙しました")
	}
}

func TestDictionary_AllStopsEarly(t *testing.T) {
	d := fixture{root: dict{{"a", 1}, {"b", 2}, {"c", 3}}}.load(t).Objects()
	var seen []string
	for k := range d.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	if !slices.Equal(seen, []string{"a", "b"}) {
		t.Errorf("列挙 = %v", seen)
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name   string
		want   Encoding
		wantOK bool
	}{
		{name: "", want: EncodingAuto, wantOK: true},
		{name: "auto", want: EncodingAuto, wantOK: true},
		{name: "utf-8", want: EncodingUTF8, wantOK: true},
		{name: "cp932", want: EncodingShiftJIS, wantOK: true},
		{name: "ebcdic", want: EncodingAuto, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEncoding(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseEncoding(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
