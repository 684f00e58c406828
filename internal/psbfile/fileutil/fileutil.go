// Package fileutil はファイル操作のユーティリティ関数を提供します
package fileutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shiroemons/go-psbfile/internal/psbfile/interfaces"
)

// 出力ファイル名に使えない文字
var unsafeChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\x00", "_",
)

// BaseName は入力ファイル名から拡張子を除いた名前を返します
func BaseName(inputPath string) string {
	baseName := filepath.Base(inputPath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}

// GenerateTreeFilename は値ツリーのJSONファイル名を生成します
func GenerateTreeFilename(inputPath string) string {
	return BaseName(inputPath) + ".json"
}

// SanitizeName はリソース名をファイル名として安全な形に変換します
//
// パス区切りは "_" に置き換え、"." と ".." は親ディレクトリへの参照にならないようにします。
func SanitizeName(name string) string {
	name = unsafeChars.Replace(name)
	switch name {
	case "":
		return "_"
	case ".", "..":
		return strings.Repeat("_", len(name))
	}
	return name
}

// ResourcePath はリソースの出力先を <outDir>/<入力名>/<part>/<name> の形で返します
func ResourcePath(outDir, inputPath, part, name string) string {
	elems := []string{outDir, BaseName(inputPath)}
	if part != "" {
		elems = append(elems, SanitizeName(part))
	}
	elems = append(elems, SanitizeName(name))
	return filepath.Join(elems...)
}

// WriteFile は親ディレクトリを作成してからファイルを書き込みます
func WriteFile(fs interfaces.FileSystem, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateDirectory, err)
	}
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFile, path, err)
	}
	return nil
}
