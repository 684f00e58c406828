package psb

// GenericClassifier は辞書をルートに持つ汎用のPSBを判定します
type GenericClassifier struct{}

// Type は TypePSB を返します
func (*GenericClassifier) Type() Type { return TypePSB }

// Classify は常に true を返します (辞書ルートであれば汎用PSB)
func (*GenericClassifier) Classify(*Dictionary) bool { return true }

// CollectResources は値ツリー全体を走査してリソースを収集します
func (*GenericClassifier) CollectResources(f *File, dedup bool) []ResourceMetadata {
	return Collect(f.Root(), CollectOptions{
		Dedup:   dedup,
		Spec:    f.Spec(),
		PSBType: TypePSB,
	})
}
