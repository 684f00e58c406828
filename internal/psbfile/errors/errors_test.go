package errors

import (
	"errors"
	"testing"
)

func TestFileError(t *testing.T) {
	base := errors.New("壊れています")

	tests := []struct {
		name string
		err  *FileError
		want string
	}{
		{name: "パスあり", err: NewFileError("読み込み", "title.psb", base), want: "読み込み title.psb: 壊れています"},
		{name: "パスなし", err: NewFileError("読み込み", "", base), want: "読み込み: 壊れています"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, base) {
				t.Error("errors.Is で元のエラーを辿れません")
			}
		})
	}
}
