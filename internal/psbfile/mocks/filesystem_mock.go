// Package mocks はテスト用のモック実装を提供します
package mocks

import (
	"errors"
	"sync"
)

// MockFileSystem はテスト用のファイルシステムモック
//
// 並列に抽出するワーカーから呼ばれるため、操作はミューテックスで保護します。
type MockFileSystem struct {
	Files map[string][]byte
	Dirs  map[string]bool
	Error error
	// WriteError が設定されている場合、WriteFile のみが失敗します
	WriteError error

	mu sync.Mutex
}

// NewMockFileSystem は新しいMockFileSystemを作成します
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files: make(map[string][]byte),
		Dirs:  make(map[string]bool),
	}
}

// FileExists はファイルが存在するか確認します
func (fs *MockFileSystem) FileExists(filename string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, exists := fs.Files[filename]
	return exists
}

// ReadFile はファイルを読み込みます
func (fs *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return nil, fs.Error
	}
	data, exists := fs.Files[filename]
	if !exists {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// WriteFile はファイルを書き込みます
func (fs *MockFileSystem) WriteFile(filename string, data []byte, perm uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return fs.Error
	}
	if fs.WriteError != nil {
		return fs.WriteError
	}
	fs.Files[filename] = append([]byte(nil), data...)
	return nil
}

// MkdirAll はディレクトリを作成します
func (fs *MockFileSystem) MkdirAll(path string, perm uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return fs.Error
	}
	fs.Dirs[path] = true
	return nil
}

// Written は書き込まれたファイルの内容を返します
func (fs *MockFileSystem) Written(filename string) ([]byte, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, ok := fs.Files[filename]
	return data, ok
}
