package psb

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// decodeText は名前・文字列テーブルのバイト列を文字列に変換します
func decodeText(b []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingUTF8:
		return string(b), nil
	case EncodingShiftJIS:
		return fromShiftJIS(b)
	default:
		if utf8.Valid(b) {
			return string(b), nil
		}
		return fromShiftJIS(b)
	}
}

// fromShiftJIS はShift-JISのバイト列をUTF-8に変換します
func fromShiftJIS(b []byte) (string, error) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
