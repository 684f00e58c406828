package psb

import "strconv"

// CollectOptions はリソース収集の設定
type CollectOptions struct {
	// Dedup は同じチャンクを参照するリソースを最初の1件にまとめるかどうか
	Dedup bool
	// Spec は画像メタデータに設定するプラットフォーム
	Spec Spec
	// PSBType はメタデータに設定するドキュメント種別
	PSBType Type
}

// Collect は値ツリーを前順 (辞書は名前ID順) に走査してリソースを収集します
//
// pixel リソースを持つ辞書は画像として1件にまとめ、それ以外のリソースは
// バイナリとして収集します。リソースが1つも無い場合は空のスライスを返します。
func Collect(root Value, opts CollectOptions) []ResourceMetadata {
	c := &collector{opts: opts, out: []ResourceMetadata{}}
	c.walk(root, "", "")
	if opts.Dedup {
		return Dedup(c.out)
	}
	return c.out
}

// Dedup はチャンク識別子ごとに最初の1件だけを残します (順序は保持)
func Dedup(list []ResourceMetadata) []ResourceMetadata {
	seen := make(map[ResourceKey]struct{}, len(list))
	out := make([]ResourceMetadata, 0, len(list))
	for _, m := range list {
		key := m.Info().Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

type collector struct {
	opts CollectOptions
	out  []ResourceMetadata
}

// walk は key を名前、parent を所属として v 以下を収集します
func (c *collector) walk(v Value, key, parent string) {
	switch n := v.(type) {
	case *Dictionary:
		if pixel, ok := n.Resource("pixel"); ok {
			c.out = append(c.out, c.image(n, pixel, key, parent))
			for k, child := range n.All() {
				if k == "pixel" || k == "pal" {
					continue
				}
				c.walk(child, k, key)
			}
			return
		}
		for k, child := range n.All() {
			c.walk(child, k, key)
		}
	case Array:
		for i, child := range n {
			c.walk(child, strconv.Itoa(i), key)
		}
	case *Resource:
		c.out = append(c.out, &BinaryMetadata{ResourceInfo: ResourceInfo{
			Part:     parent,
			Name:     key,
			PSBType:  c.opts.PSBType,
			Resource: n,
		}})
	}
}

func (c *collector) image(d *Dictionary, pixel *Resource, name, part string) *ImageMetadata {
	m := &ImageMetadata{
		ResourceInfo: ResourceInfo{
			Part:     part,
			Name:     name,
			PSBType:  c.opts.PSBType,
			Resource: pixel,
		},
		Spec: c.opts.Spec,
	}
	fillImage(m, d)
	if pal, ok := d.Resource("pal"); ok {
		m.Palette = pal
	}
	if s, ok := d.Text("compress"); ok {
		m.Compress = compressFromField(s)
	}
	if idx, ok := d.Int("index"); ok && idx >= 0 && idx <= int64(^uint32(0)) {
		i := uint32(idx)
		m.Index = &i
	}
	return m
}

// fillImage は辞書にある寸法や位置などの属性を m に設定します
func fillImage(m *ImageMetadata, d *Dictionary) {
	if n, ok := d.Int("width"); ok {
		m.Width = int(n)
	}
	if n, ok := d.Int("height"); ok {
		m.Height = int(n)
	}
	if n, ok := d.Int("top"); ok {
		m.Top = int(n)
	}
	if n, ok := d.Int("left"); ok {
		m.Left = int(n)
	}
	if f, ok := d.Float("originX"); ok {
		m.OriginX = f
	}
	if f, ok := d.Float("originY"); ok {
		m.OriginY = f
	}
	if s, ok := d.Text("type"); ok {
		m.TypeString = s
	}
	if s, ok := d.Text("palType"); ok {
		m.PalTypeString = s
	}
	if clip, ok := d.Dict("clip"); ok {
		r := &Rect{}
		r.Left, _ = clip.Float("left")
		r.Top, _ = clip.Float("top")
		r.Width, _ = clip.Float("width")
		r.Height, _ = clip.Float("height")
		m.Clip = r
	}
}
