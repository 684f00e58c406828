// Package errors はカスタムエラータイプを提供します
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNoInput は入力ファイルが指定されていない場合のエラー
	ErrNoInput = errors.New("入力ファイルが指定されていません")

	// ErrInvalidEncoding は文字コードの指定が不正な場合のエラー
	ErrInvalidEncoding = errors.New("文字コードの指定が不正です (auto, utf8, sjis)")

	// ErrFileNotFound は入力ファイルが存在しない場合のエラー
	ErrFileNotFound = errors.New("ファイルが見つかりません")

	// ErrFilesFailed は一部のファイルの処理に失敗した場合のエラー
	ErrFilesFailed = errors.New("処理に失敗したファイルがあります")
)

// FileError はファイル単位の処理のエラー
type FileError struct {
	Op   string // 実行していた操作
	Path string // ファイルパス
	Err  error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *FileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap は元のエラーを返します
func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError は新しいFileErrorを作成します
func NewFileError(op, path string, err error) *FileError {
	return &FileError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}
