package psb

// Encoding は名前・文字列テーブルの文字コードの扱い
type Encoding int

const (
	// EncodingAuto はUTF-8として不正なバイト列をShift-JISとして復号します
	EncodingAuto Encoding = iota
	// EncodingUTF8 はUTF-8のみとして扱います
	EncodingUTF8
	// EncodingShiftJIS は常にShift-JISとして復号します
	EncodingShiftJIS
)

// String は文字コード名を返します
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf8"
	case EncodingShiftJIS:
		return "sjis"
	default:
		return "auto"
	}
}

// ParseEncoding は文字コード名を Encoding に変換します
func ParseEncoding(name string) (Encoding, bool) {
	switch name {
	case "", "auto":
		return EncodingAuto, true
	case "utf8", "utf-8":
		return EncodingUTF8, true
	case "sjis", "shift-jis", "shift_jis", "cp932":
		return EncodingShiftJIS, true
	}
	return EncodingAuto, false
}

// DefaultMaxDepth は値ツリーの最大ネスト数のデフォルト値
const DefaultMaxDepth = 256

// DefaultMaxNodes は共有された部分木を展開したときの最大ノード数のデフォルト値
const DefaultMaxNodes = 1 << 24

// Options は読み込みの設定
type Options struct {
	// Encoding は名前・文字列の文字コード
	Encoding Encoding
	// MaxDepth は値ツリーの最大ネスト数
	MaxDepth int
	// MaxNodes は共有された部分木を展開して数えたノード数の上限
	//
	// ツリーを走査する処理は共有部分を毎回辿るため、展開後の大きさで制限します。
	MaxNodes uint64
	// AllowUnknownVersion が true の場合、未知の新しいバージョンをv4として読み込みます
	AllowUnknownVersion bool
	// Classifiers は種別判定の優先順リスト (nil の場合は DefaultClassifiers)
	Classifiers []Classifier
}

// Option は Options を変更する関数
type Option func(*Options)

// WithEncoding は文字コードを指定します
func WithEncoding(enc Encoding) Option {
	return func(o *Options) {
		o.Encoding = enc
	}
}

// WithMaxDepth は最大ネスト数を指定します
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithMaxNodes は展開後の最大ノード数を指定します
func WithMaxNodes(n uint64) Option {
	return func(o *Options) {
		o.MaxNodes = n
	}
}

// WithUnknownVersion は未知のバージョンのベストエフォート読み込みを許可します
func WithUnknownVersion() Option {
	return func(o *Options) {
		o.AllowUnknownVersion = true
	}
}

// WithClassifiers は種別判定の順序を指定します
func WithClassifiers(classifiers ...Classifier) Option {
	return func(o *Options) {
		o.Classifiers = classifiers
	}
}

func defaultOptions() Options {
	return Options{
		Encoding: EncodingAuto,
		MaxDepth: DefaultMaxDepth,
		MaxNodes: DefaultMaxNodes,
	}
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Classifiers == nil {
		o.Classifiers = DefaultClassifiers()
	}
	return o
}
