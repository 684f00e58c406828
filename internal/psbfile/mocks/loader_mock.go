package mocks

import (
	"sync/atomic"

	"github.com/shiroemons/go-psbfile/pkg/psb"
)

// MockLoader はテスト用のLoaderモック
type MockLoader struct {
	File  *psb.File
	Error error
	// LoadFunc が設定されている場合はこちらを呼び出します
	LoadFunc func(buf []byte) (*psb.File, error)

	calls atomic.Int32
}

// Load はモックの結果を返します
func (m *MockLoader) Load(buf []byte) (*psb.File, error) {
	m.calls.Add(1)
	if m.LoadFunc != nil {
		return m.LoadFunc(buf)
	}
	return m.File, m.Error
}

// Calls は Load が呼ばれた回数を返します
func (m *MockLoader) Calls() int {
	return int(m.calls.Load())
}
