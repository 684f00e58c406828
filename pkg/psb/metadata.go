package psb

import (
	"strconv"
	"strings"
)

// ResourceMetadata はドキュメント内のリソース1件を表します
//
// 具体的な型は *ImageMetadata か *BinaryMetadata です。型スイッチか AsImage で判別します。
type ResourceMetadata interface {
	// Info は共通の情報を返します
	Info() *ResourceInfo
}

// ResourceInfo は全リソースに共通する情報
type ResourceInfo struct {
	// Part はリソースが属するグループ (テクスチャ名やレイヤー名)
	Part string
	// Name はリソース名
	Name string
	// PSBType はリソースを収集したドキュメントの種別
	PSBType Type
	// Resource はペイロードのチャンク
	Resource *Resource
}

// Info は自身を返します
func (r *ResourceInfo) Info() *ResourceInfo { return r }

// Key はペイロードのチャンク識別子を返します
func (r *ResourceInfo) Key() ResourceKey {
	if r.Resource == nil {
		return ResourceKey{}
	}
	return r.Resource.Key()
}

// Data はペイロードのバイト列を返します
func (r *ResourceInfo) Data() []byte {
	return r.Resource.Data()
}

// FullName は "part/name" 形式の名前を返します (Part が空の場合は Name のみ)
func (r *ResourceInfo) FullName() string {
	if r.Part == "" {
		return r.Name
	}
	return r.Part + "/" + r.Name
}

// Rect は clip などの矩形
type Rect struct {
	Left, Top, Width, Height float64
}

// ImageMetadata は画像リソースのメタデータ
type ImageMetadata struct {
	ResourceInfo

	// Index は明示的な index フィールドの値 (無ければ nil)
	Index *uint32

	Width   int
	Height  int
	Top     int
	Left    int
	OriginX float64
	OriginY float64
	Clip    *Rect

	// PIMGのレイヤー属性
	Opacity   int
	Visible   bool
	LayerType int

	TypeString    string
	PalTypeString string
	Compress      CompressType
	Spec          Spec

	// Palette はパレットのチャンク (CI形式のみ)
	Palette *Resource
}

// PixelFormat は type 文字列とプラットフォームから求めたピクセル形式を返します
func (m *ImageMetadata) PixelFormat() PixelFormat {
	return ToPixelFormat(m.TypeString, m.Spec)
}

// PalettePixelFormat はパレットのピクセル形式を返します (パレットが無ければ PixelFormatNone)
func (m *ImageMetadata) PalettePixelFormat() PixelFormat {
	if m.Palette == nil {
		return PixelFormatNone
	}
	if m.PalTypeString == "" {
		return DefaultPalettePixelFormat(m.Spec)
	}
	return ToPixelFormat(m.PalTypeString, m.Spec)
}

// PaletteData はパレットのバイト列を返します
func (m *ImageMetadata) PaletteData() []byte {
	return m.Palette.Data()
}

// TextureIndex はテクスチャ番号を返します
//
// Part が "tex#001" のように "#数字" で終わる場合はその数値、そうでなければ
// 明示的な Index を返します。どちらも無ければ ok は false です。
func (m *ImageMetadata) TextureIndex() (uint32, bool) {
	if idx, ok := ParseTextureIndex(m.Part); ok {
		return idx, true
	}
	if m.Index != nil {
		return *m.Index, true
	}
	return 0, false
}

// BinaryMetadata は画像以外のバイナリリソースのメタデータ
type BinaryMetadata struct {
	ResourceInfo
}

// AsImage はメタデータが画像の場合にそれを返します
func AsImage(m ResourceMetadata) (*ImageMetadata, bool) {
	img, ok := m.(*ImageMetadata)
	return img, ok && img != nil
}

// ParseTextureIndex は "名前#数字" 形式の末尾の数字を取り出します
func ParseTextureIndex(name string) (uint32, bool) {
	i := strings.LastIndexByte(name, '#')
	if i < 0 || i == len(name)-1 {
		return 0, false
	}
	n, err := strconv.ParseUint(name[i+1:], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}
