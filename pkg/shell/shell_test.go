package shell

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

var payload = bytes.Repeat([]byte("PSB\x00\x03\x00\x00\x00 resource tree "), 64)

func mdf(t *testing.T, data []byte, declared uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(mdfMagic)
	binary.Write(&buf, binary.LittleEndian, declared)
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func lz4Frame(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstdFrame(t *testing.T, data []byte) []byte {
	t.Helper()
	out, err := zstd.Compress(nil, data)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want Kind
	}{
		{name: "生のPSB", buf: []byte("PSB\x00"), want: KindNone},
		{name: "MDF", buf: []byte("mdf\x00\x10\x00\x00\x00"), want: KindMDF},
		{name: "LZ4", buf: []byte{0x04, 0x22, 0x4D, 0x18, 0x00}, want: KindLZ4},
		{name: "Zstandard", buf: []byte{0x28, 0xB5, 0x2F, 0xFD, 0x00}, want: KindZstd},
		{name: "空", buf: nil, want: KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.buf); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		buf  func(t *testing.T) []byte
		kind Kind
	}{
		{name: "シェル無し", buf: func(*testing.T) []byte { return payload }, kind: KindNone},
		{name: "MDF", buf: func(t *testing.T) []byte { return mdf(t, payload, uint32(len(payload))) }, kind: KindMDF},
		{name: "LZ4", buf: func(t *testing.T) []byte { return lz4Frame(t, payload) }, kind: KindLZ4},
		{name: "Zstandard", buf: func(t *testing.T) []byte { return zstdFrame(t, payload) }, kind: KindZstd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind, err := Unwrap(tt.buf(t))
			if err != nil {
				t.Fatalf("Unwrap() error = %v", err)
			}
			if kind != tt.kind {
				t.Errorf("kind = %v, want %v", kind, tt.kind)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("Unwrap() = %d バイト, want %d バイト", len(got), len(payload))
			}
		})
	}
}

func TestUnwrap_Errors(t *testing.T) {
	tests := []struct {
		name    string
		buf     func(t *testing.T) []byte
		wantErr error
	}{
		{
			name:    "MDFヘッダが途切れている",
			buf:     func(*testing.T) []byte { return []byte("mdf\x00\x01") },
			wantErr: ErrTruncated,
		},
		{
			name:    "宣言サイズより短い",
			buf:     func(t *testing.T) []byte { return mdf(t, payload, uint32(len(payload))+10) },
			wantErr: ErrSizeMismatch,
		},
		{
			name:    "宣言サイズより長い",
			buf:     func(t *testing.T) []byte { return mdf(t, payload, 16) },
			wantErr: ErrSizeMismatch,
		},
		{
			name: "zlibストリームが壊れている",
			buf: func(*testing.T) []byte {
				return append([]byte("mdf\x00\x10\x00\x00\x00"), 0xFF, 0xFF, 0xFF)
			},
		},
		{
			name: "LZ4フレームが壊れている",
			buf: func(*testing.T) []byte {
				return []byte{0x04, 0x22, 0x4D, 0x18, 0xFF, 0xFF, 0xFF}
			},
		},
		{
			name: "Zstandardフレームが壊れている",
			buf: func(*testing.T) []byte {
				return []byte{0x28, 0xB5, 0x2F, 0xFD, 0xFF, 0xFF, 0xFF}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Unwrap(tt.buf(t))
			if err == nil {
				t.Fatal("Unwrap() はエラーを返すべき")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Unwrap() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
