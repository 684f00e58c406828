package psb

import "strings"

// Spec はPSBの対象プラットフォーム (ルートの spec キー)
type Spec int

const (
	SpecOther Spec = iota
	SpecCommon
	SpecKrkr
	SpecWin
	SpecEms
	SpecPs3
	SpecPsp
	SpecVita
	SpecPs4
	SpecNx
	SpecCitrus
	SpecAndroid
)

var specNames = map[string]Spec{
	"common":  SpecCommon,
	"krkr":    SpecKrkr,
	"win":     SpecWin,
	"ems":     SpecEms,
	"ps3":     SpecPs3,
	"psp":     SpecPsp,
	"vita":    SpecVita,
	"ps4":     SpecPs4,
	"nx":      SpecNx,
	"citrus":  SpecCitrus,
	"android": SpecAndroid,
}

// ParseSpec は spec 文字列を Spec に変換します (未知の場合は SpecOther)
func ParseSpec(s string) Spec {
	if spec, ok := specNames[strings.ToLower(s)]; ok {
		return spec
	}
	return SpecOther
}

// String は spec 文字列を返します
func (s Spec) String() string {
	for name, spec := range specNames {
		if spec == s {
			return name
		}
	}
	return "other"
}

// littleEndianColor はRGBAをバイト順 BGRA で格納するプラットフォームかどうか
func (s Spec) littleEndianColor() bool {
	switch s {
	case SpecKrkr, SpecWin, SpecAndroid, SpecOther:
		return true
	}
	return false
}

// CompressType はリソースの圧縮形式のヒント
type CompressType int

const (
	CompressNone CompressType = iota
	// CompressTlg はkrkrのTLG画像
	CompressTlg
	// CompressByName は拡張子 (.png など) から判別する画像
	CompressByName
	// CompressRL はランレングス圧縮されたピクセル列
	CompressRL
)

// String は圧縮形式名を返します
func (c CompressType) String() string {
	switch c {
	case CompressTlg:
		return "tlg"
	case CompressByName:
		return "byName"
	case CompressRL:
		return "RL"
	default:
		return "none"
	}
}

// SupportedImageExts は拡張子から形式が分かる画像の拡張子
var SupportedImageExts = []string{".png", ".bmp", ".jpg", ".jpeg"}

// compressFromName はリソース名から圧縮形式を推測します
func compressFromName(name string) CompressType {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".tlg") {
		return CompressTlg
	}
	return CompressByName
}

// compressFromField は compress フィールドから圧縮形式を求めます
func compressFromField(s string) CompressType {
	if strings.EqualFold(s, "RL") {
		return CompressRL
	}
	return CompressNone
}

// PixelFormat はピクセル形式
type PixelFormat int

const (
	PixelFormatNone PixelFormat = iota
	PixelFormatLeRGBA8
	PixelFormatBeRGBA8
	PixelFormatLeRGBA4444
	PixelFormatBeRGBA4444
	PixelFormatRGBA5650
	PixelFormatA8L8
	PixelFormatL8
	PixelFormatA8
	PixelFormatCI4
	PixelFormatCI8
	PixelFormatDXT5
	PixelFormatBC7
	PixelFormatASTC8BPP
	PixelFormatLeRGBA8SW
	PixelFormatBeRGBA8SW
	PixelFormatL8SW
	PixelFormatA8SW
	PixelFormatCI4SW
	PixelFormatCI8SW
)

var pixelFormatNames = [...]string{
	PixelFormatNone:       "None",
	PixelFormatLeRGBA8:    "LeRGBA8",
	PixelFormatBeRGBA8:    "BeRGBA8",
	PixelFormatLeRGBA4444: "LeRGBA4444",
	PixelFormatBeRGBA4444: "BeRGBA4444",
	PixelFormatRGBA5650:   "RGBA5650",
	PixelFormatA8L8:       "A8L8",
	PixelFormatL8:         "L8",
	PixelFormatA8:         "A8",
	PixelFormatCI4:        "CI4",
	PixelFormatCI8:        "CI8",
	PixelFormatDXT5:       "DXT5",
	PixelFormatBC7:        "BC7",
	PixelFormatASTC8BPP:   "ASTC_8BPP",
	PixelFormatLeRGBA8SW:  "LeRGBA8_SW",
	PixelFormatBeRGBA8SW:  "BeRGBA8_SW",
	PixelFormatL8SW:       "L8_SW",
	PixelFormatA8SW:       "A8_SW",
	PixelFormatCI4SW:      "CI4_SW",
	PixelFormatCI8SW:      "CI8_SW",
}

// String は形式名を返します
func (p PixelFormat) String() string {
	if p < 0 || int(p) >= len(pixelFormatNames) {
		return "None"
	}
	return pixelFormatNames[p]
}

// UsesPalette はパレットを参照する形式かどうかを返します
func (p PixelFormat) UsesPalette() bool {
	switch p {
	case PixelFormatCI4, PixelFormatCI8, PixelFormatCI4SW, PixelFormatCI8SW:
		return true
	}
	return false
}

// ToPixelFormat は type / palType 文字列とプラットフォームからピクセル形式を求めます
func ToPixelFormat(typeString string, spec Spec) PixelFormat {
	le := spec.littleEndianColor()
	switch strings.ToUpper(typeString) {
	case "RGBA8":
		if le {
			return PixelFormatLeRGBA8
		}
		return PixelFormatBeRGBA8
	case "RGBA8_SW":
		if le {
			return PixelFormatLeRGBA8SW
		}
		return PixelFormatBeRGBA8SW
	case "RGBA4444":
		if le {
			return PixelFormatLeRGBA4444
		}
		return PixelFormatBeRGBA4444
	case "RGBA5650", "RGB565":
		return PixelFormatRGBA5650
	case "A8L8":
		return PixelFormatA8L8
	case "L8":
		return PixelFormatL8
	case "L8_SW":
		return PixelFormatL8SW
	case "A8":
		return PixelFormatA8
	case "A8_SW":
		return PixelFormatA8SW
	case "CI4":
		return PixelFormatCI4
	case "CI4_SW":
		return PixelFormatCI4SW
	case "CI8":
		return PixelFormatCI8
	case "CI8_SW":
		return PixelFormatCI8SW
	case "DXT5":
		return PixelFormatDXT5
	case "BC7":
		return PixelFormatBC7
	case "ASTC_8BPP":
		return PixelFormatASTC8BPP
	}
	return PixelFormatNone
}

// DefaultPalettePixelFormat はパレット形式が指定されていない場合の形式を返します
func DefaultPalettePixelFormat(spec Spec) PixelFormat {
	if spec.littleEndianColor() {
		return PixelFormatLeRGBA8
	}
	return PixelFormatBeRGBA8
}
