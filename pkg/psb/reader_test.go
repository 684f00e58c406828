package psb

import (
	"errors"
	"slices"
	"testing"
)

func TestReader_IntN(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		n    int
		want int64
	}{
		{name: "0バイト", data: []byte{}, n: 0, want: 0},
		{name: "1バイト正", data: []byte{0x7F}, n: 1, want: 127},
		{name: "1バイト負", data: []byte{0xFF}, n: 1, want: -1},
		{name: "2バイト負", data: []byte{0x00, 0x80}, n: 2, want: -32768},
		{name: "3バイト", data: []byte{0x01, 0x02, 0x03}, n: 3, want: 0x030201},
		{name: "8バイト", data: []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, n: 8, want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newReader(tt.data, "test").intN(0, tt.n)
			if err != nil {
				t.Fatalf("intN() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("intN() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReader_UintNTruncated(t *testing.T) {
	_, err := newReader([]byte{0x01, 0x02}, "test").uintN(1, 2)
	if !errors.Is(err, ErrCorruptTable) {
		t.Errorf("uintN() error = %v, want ErrCorruptTable", err)
	}
}

func TestReader_NumberArray(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		want     []uint64
		wantNext int
		wantErr  bool
	}{
		{
			name:     "1バイト要素",
			data:     []byte{0x0D, 0x03, 0x0D, 0x01, 0x02, 0x03},
			want:     []uint64{1, 2, 3},
			wantNext: 6,
		},
		{
			name:     "2バイト要素",
			data:     []byte{0x0D, 0x02, 0x0E, 0x34, 0x12, 0xFF, 0x00},
			want:     []uint64{0x1234, 0xFF},
			wantNext: 7,
		},
		{
			name:     "2バイトの個数",
			data:     []byte{0x0E, 0x01, 0x00, 0x0D, 0x2A},
			want:     []uint64{42},
			wantNext: 5,
		},
		{
			name:     "空の配列",
			data:     []byte{0x0D, 0x00, 0x0D},
			want:     []uint64{},
			wantNext: 3,
		},
		{
			name:    "数値配列ではないタグ",
			data:    []byte{0x04},
			wantErr: true,
		},
		{
			name:    "要素幅タグが不正",
			data:    []byte{0x0D, 0x01, 0x20, 0x00},
			wantErr: true,
		},
		{
			name:    "要素が途切れている",
			data:    []byte{0x0D, 0x04, 0x0D, 0x01},
			wantErr: true,
		},
		{
			name:    "巨大な個数",
			data:    []byte{0x10, 0xFF, 0xFF, 0xFF, 0xFF, 0x10, 0x00},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next, err := newReader(tt.data, "test").numberArray(0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("numberArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrCorruptTable) {
					t.Errorf("numberArray() error = %v, want ErrCorruptTable", err)
				}
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("numberArray() = %v, want %v", got, tt.want)
			}
			if next != tt.wantNext {
				t.Errorf("next = %d, want %d", next, tt.wantNext)
			}
		})
	}
}

func TestEncodeNumbers(t *testing.T) {
	values := []uint64{0, 1, 0x100, 0xFFFFFFFF}
	got, _, err := newReader(encodeNumbers(values), "test").numberArray(0)
	if err != nil {
		t.Fatalf("numberArray() error = %v", err)
	}
	if !slices.Equal(got, values) {
		t.Errorf("numberArray() = %v, want %v", got, values)
	}
}

func TestReader_CString(t *testing.T) {
	r := newReader([]byte("abc\x00de"), "test")
	got, err := r.cstring(0)
	if err != nil || string(got) != "abc" {
		t.Errorf("cstring(0) = %q, %v", got, err)
	}
	if _, err := r.cstring(4); !errors.Is(err, ErrCorruptTable) {
		t.Errorf("cstring(4) error = %v, want ErrCorruptTable", err)
	}
}
