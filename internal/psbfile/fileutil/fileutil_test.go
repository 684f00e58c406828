package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shiroemons/go-psbfile/internal/psbfile/mocks"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"title.psb", "title"},
		{"/data/ev107a.pimg", "ev107a"},
		{"dir/motion.psb.m", "motion.psb"},
		{"noext", "noext"},
	}

	for _, test := range tests {
		if result := BaseName(test.input); result != test.expected {
			t.Errorf("BaseName(%s) = %s; want %s", test.input, result, test.expected)
		}
	}

	if got := GenerateTreeFilename("data/title.psb"); got != "title.json" {
		t.Errorf("GenerateTreeFilename() = %s; want title.json", got)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"100.tlg", "100.tlg"},
		{"tex#001", "tex#001"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"a\\b:c", "a_b_c"},
		{"..", "__"},
		{".", "_"},
		{"", "_"},
		{"背景", "背景"},
	}

	for _, test := range tests {
		if result := SanitizeName(test.input); result != test.expected {
			t.Errorf("SanitizeName(%q) = %q; want %q", test.input, result, test.expected)
		}
	}
}

func TestResourcePath(t *testing.T) {
	tests := []struct {
		name     string
		part     string
		res      string
		expected string
	}{
		{name: "パートあり", part: "tex#001", res: "texture", expected: filepath.Join("out", "motion", "tex#001", "texture")},
		{name: "パートなし", part: "", res: "100.tlg", expected: filepath.Join("out", "motion", "100.tlg")},
		{name: "親への参照", part: "..", res: "../x", expected: filepath.Join("out", "motion", "__", ".._x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResourcePath("out", "data/motion.psb", tt.part, tt.res); got != tt.expected {
				t.Errorf("ResourcePath() = %s; want %s", got, tt.expected)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	t.Run("ディレクトリを作成して書き込む", func(t *testing.T) {
		fs := mocks.NewMockFileSystem()
		path := filepath.Join("out", "title", "a.bin")
		if err := WriteFile(fs, path, []byte("data")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if !fs.Dirs[filepath.Dir(path)] {
			t.Error("親ディレクトリが作成されていません")
		}
		if string(fs.Files[path]) != "data" {
			t.Errorf("書き込まれた内容 = %q", fs.Files[path])
		}
	})

	t.Run("ディレクトリ作成に失敗", func(t *testing.T) {
		fs := mocks.NewMockFileSystem()
		fs.Error = errors.New("permission denied")
		err := WriteFile(fs, "out/a.bin", nil)
		if !errors.Is(err, ErrCreateDirectory) {
			t.Errorf("WriteFile() error = %v, want ErrCreateDirectory", err)
		}
	})

	t.Run("実際のファイルシステム", func(t *testing.T) {
		fs := NewOSFileSystem()
		path := filepath.Join(t.TempDir(), "nested", "dir", "a.bin")
		if err := WriteFile(fs, path, []byte("payload")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if !fs.FileExists(path) {
			t.Fatal("ファイルが作成されていません")
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "payload" {
			t.Errorf("ReadFile() = %q, %v", data, err)
		}
	})
}
