package psb

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader はシグネチャ不一致またはヘッダが途切れている場合のエラー
	ErrMalformedHeader = errors.New("PSBヘッダが不正です")

	// ErrUnsupportedVersion は未知のヘッダバージョンの場合のエラー
	ErrUnsupportedVersion = errors.New("サポートされていないPSBバージョンです")

	// ErrEncrypted はヘッダの暗号化フラグが立っている場合のエラー
	ErrEncrypted = errors.New("暗号化されたPSBです")

	// ErrCorruptTable は名前・文字列・チャンクテーブルが壊れている場合のエラー
	ErrCorruptTable = errors.New("PSBテーブルが壊れています")

	// ErrCorruptTree は値ツリーが壊れている場合のエラー
	ErrCorruptTree = errors.New("PSB値ツリーが壊れています")

	// ErrCyclicReference は値ツリーのオフセットが祖先を指している場合のエラー
	ErrCyclicReference = errors.New("PSB値ツリーに循環参照があります")
)

// HeaderError はヘッダ解析のエラー
type HeaderError struct {
	Field  string // 問題のあったフィールド
	Offset int64  // フィールドの値またはバイト位置
	Err    error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *HeaderError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s (0x%X)", e.Err, e.Field, e.Offset)
}

// Unwrap は元のエラーを返します
func (e *HeaderError) Unwrap() error {
	return e.Err
}

// TableError はテーブル復号のエラー
type TableError struct {
	Table  string // テーブル名 (names, strings, chunkLengths など)
	Offset int64  // 失敗したバイト位置
	Err    error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *TableError) Error() string {
	return fmt.Sprintf("%sテーブル 0x%X: %v", e.Table, e.Offset, e.Err)
}

// Unwrap は元のエラーを返します
func (e *TableError) Unwrap() error {
	return e.Err
}

// TreeError は値ツリー構築のエラー
type TreeError struct {
	Offset int64 // 失敗した値のバイト位置
	Err    error // 元のエラー
}

// Error はエラーメッセージを返します
func (e *TreeError) Error() string {
	return fmt.Sprintf("値 0x%X: %v", e.Offset, e.Err)
}

// Unwrap は元のエラーを返します
func (e *TreeError) Unwrap() error {
	return e.Err
}

func tableErr(table string, off int, format string, a ...any) error {
	return &TableError{
		Table:  table,
		Offset: int64(off),
		Err:    fmt.Errorf("%w: %s", ErrCorruptTable, fmt.Sprintf(format, a...)),
	}
}

func treeErr(off uint32, sentinel error, format string, a ...any) error {
	return &TreeError{
		Offset: int64(off),
		Err:    fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, a...)),
	}
}
