// Package psb はE-moteやkrkrで使われるPSB/PIMGコンテナの読み込みを提供します
//
// Load はヘッダ、名前・文字列・チャンクテーブル、値ツリーを順に解析し、
// ドキュメントの形から種別 (PSB / Pimg / Other) を判定します。
// 読み込みは読み取り専用で、暗号化されたファイルは ErrEncrypted として報告します。
package psb

import (
	"fmt"
	"os"
)

// File は解析済みのPSBドキュメント
//
// 構築後は変更されないため、複数のゴルーチンから同時に読み取れます。
// リソースのバイト列は Load に渡したバッファを参照します。
type File struct {
	header     Header
	tables     *Tables
	root       Value
	spec       Spec
	classifier Classifier
}

// Load はバッファからPSBドキュメントを読み込みます
//
// buf は File が使われている間、変更してはいけません。
func Load(buf []byte, opts ...Option) (*File, error) {
	o := buildOptions(opts)

	h, err := parseHeader(buf, o)
	if err != nil {
		return nil, err
	}

	tables, err := decodeTables(buf, h, o)
	if err != nil {
		return nil, err
	}

	root, err := buildTree(buf, h, tables, o)
	if err != nil {
		return nil, err
	}

	f := &File{
		header: *h,
		tables: tables,
		root:   root,
	}
	if dict, ok := root.(*Dictionary); ok {
		if s, ok := dict.Text("spec"); ok {
			f.spec = ParseSpec(s)
		}
	}
	f.classifier = classify(root, o.Classifiers)
	return f, nil
}

// Open はファイルを読み込んで解析します
func Open(path string, opts ...Option) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}
	return Load(buf, opts...)
}

// Header はヘッダを返します
func (f *File) Header() Header {
	return f.header
}

// Version はフォーマットのバージョンを返します
func (f *File) Version() uint16 {
	return f.header.Version
}

// Tables はデコード済みのテーブルを返します
func (f *File) Tables() *Tables {
	return f.tables
}

// Root は値ツリーのルートを返します
func (f *File) Root() Value {
	return f.root
}

// Objects はルートの辞書を返します (ルートが辞書でない場合は nil)
func (f *File) Objects() *Dictionary {
	dict, _ := f.root.(*Dictionary)
	return dict
}

// Spec はルートの spec キーから求めたプラットフォームを返します
func (f *File) Spec() Spec {
	return f.spec
}

// Type はドキュメントの種別を返します
func (f *File) Type() Type {
	if f.classifier == nil {
		return TypeOther
	}
	return f.classifier.Type()
}

// Classifier は種別を判定した Classifier を返します (一致しなかった場合は nil)
func (f *File) Classifier() Classifier {
	return f.classifier
}

// Resources はドキュメントのリソースを収集します
//
// dedup が true の場合、同じチャンクを参照するリソースは最初の1件だけを返します。
// 種別が Other の場合は空のスライスを返します。
func (f *File) Resources(dedup bool) []ResourceMetadata {
	if f.classifier == nil {
		return []ResourceMetadata{}
	}
	return f.classifier.CollectResources(f, dedup)
}
