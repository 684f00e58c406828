package psb

import (
	"path"
	"strconv"
	"strings"
)

// PimgClassifier はレイヤー画像 (PIMG) を判定します
//
// ルートに layers / width / height が揃っているか、"123.tlg" のように
// 拡張子付きのキーがリソースを指している場合にPIMGとみなします。
type PimgClassifier struct{}

// Type は TypePimg を返します
func (*PimgClassifier) Type() Type { return TypePimg }

// Classify はルート辞書がPIMGの形をしているかを返します
func (*PimgClassifier) Classify(root *Dictionary) bool {
	if root.Has("layers") && root.Has("width") && root.Has("height") {
		return true
	}
	for k, v := range root.All() {
		if !strings.Contains(k, ".") {
			continue
		}
		if _, ok := AsResource(v); ok {
			return true
		}
	}
	return false
}

// CollectResources はルート直下の画像リソースを収集し、layers の情報で補完します
func (c *PimgClassifier) CollectResources(f *File, dedup bool) []ResourceMetadata {
	root := f.Objects()
	p := &pimgCollector{
		spec:    f.Spec(),
		byLayer: make(map[string]*ImageMetadata),
		out:     []ResourceMetadata{},
	}

	for k, v := range root.All() {
		res, ok := AsResource(v)
		if !ok {
			continue
		}
		m := p.newImage(k, "", res)
		p.out = append(p.out, m)
		base := strings.TrimSuffix(k, path.Ext(k))
		if _, exists := p.byLayer[base]; !exists {
			p.byLayer[base] = m
		}
	}

	if layers, ok := root.Get("layers"); ok {
		p.walkLayers(layers)
	}

	if dedup {
		return Dedup(p.out)
	}
	return p.out
}

type pimgCollector struct {
	spec Spec
	// layer_id (拡張子を除いたキー) からルート直下の画像への対応
	byLayer map[string]*ImageMetadata
	out     []ResourceMetadata
}

func (p *pimgCollector) newImage(name, part string, res *Resource) *ImageMetadata {
	return &ImageMetadata{
		ResourceInfo: ResourceInfo{
			Part:     part,
			Name:     name,
			PSBType:  TypePimg,
			Resource: res,
		},
		Compress: compressFromName(name),
		Spec:     p.spec,
	}
}

// walkLayers はレイヤー定義を再帰的に辿ります
func (p *pimgCollector) walkLayers(v Value) {
	switch n := v.(type) {
	case Array:
		for _, child := range n {
			p.walkLayers(child)
		}
	case *Dictionary:
		id, ok := n.Int("layer_id")
		if !ok {
			for _, child := range n.All() {
				p.walkLayers(child)
			}
			return
		}
		p.layer(n, strconv.FormatInt(id, 10))
	}
}

func (p *pimgCollector) layer(d *Dictionary, id string) {
	if m, ok := p.byLayer[id]; ok {
		fillImage(m, d)
		if n, ok := d.Int("opacity"); ok {
			m.Opacity = int(n)
		}
		if n, ok := d.Int("visible"); ok {
			m.Visible = n != 0
		}
		if n, ok := d.Int("layer_type"); ok {
			m.LayerType = int(n)
		}
		if name, ok := d.Text("name"); ok {
			m.Part = name
		}
	}
	for k, child := range d.All() {
		p.nested(child, k, id)
	}
}

// nested はレイヤー内部のリソースを layer_id をパートとして収集します
func (p *pimgCollector) nested(v Value, key, id string) {
	switch n := v.(type) {
	case *Resource:
		p.out = append(p.out, p.newImage(key, id, n))
	case Array:
		for i, child := range n {
			p.nested(child, strconv.Itoa(i), id)
		}
	case *Dictionary:
		if _, ok := n.Int("layer_id"); ok {
			p.walkLayers(n)
			return
		}
		for k, child := range n.All() {
			p.nested(child, k, id)
		}
	}
}
