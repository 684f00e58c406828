// Package interfaces はpsbfileコマンドで使用するインターフェースを定義します
package interfaces

import "github.com/shiroemons/go-psbfile/pkg/psb"

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	FileExists(filename string) bool
	ReadFile(filename string) ([]byte, error)
	WriteFile(filename string, data []byte, perm uint32) error
	MkdirAll(path string, perm uint32) error
}

// Loader はバッファからPSBドキュメントを読み込むインターフェース
type Loader interface {
	Load(buf []byte) (*psb.File, error)
}
