package psb

// Type はPSBドキュメントの種別
type Type int

const (
	// TypeOther はどの判定にも一致しなかったドキュメント
	TypeOther Type = iota
	// TypePSB は汎用のPSB (スクリプトデータなど)
	TypePSB
	// TypePimg はレイヤー画像 (PIMG)
	TypePimg
)

// String は種別名を返します
func (t Type) String() string {
	switch t {
	case TypePSB:
		return "PSB"
	case TypePimg:
		return "Pimg"
	default:
		return "Other"
	}
}

// Classifier はドキュメントの形から種別を判定し、リソースを収集します
type Classifier interface {
	// Type は判定する種別を返します
	Type() Type

	// Classify はルート辞書がこの種別の形をしているかを返します
	Classify(root *Dictionary) bool

	// CollectResources はドキュメントからリソースのメタデータを収集します
	CollectResources(f *File, dedup bool) []ResourceMetadata
}

// DefaultClassifiers はデフォルトの判定順 (具体的な形から順) を返します
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&PimgClassifier{},
		&GenericClassifier{},
	}
}

// classify は先頭から順に判定し、最初に一致した Classifier を返します
func classify(root Value, classifiers []Classifier) Classifier {
	dict, ok := root.(*Dictionary)
	if !ok {
		return nil
	}
	for _, c := range classifiers {
		if c.Classify(dict) {
			return c
		}
	}
	return nil
}
