// Package dump は値ツリーをJSONに変換します
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/shiroemons/go-psbfile/pkg/psb"
)

// JSON は値ツリーをインデント付きのJSONに変換します
//
// 辞書のキーは名前ID順のまま出力します。リソースは中身の代わりに
// {"resource": "#index", "size": バイト数} として出力します。
func JSON(v psb.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func indent(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	for range depth {
		buf.WriteString("  ")
	}
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func write(buf *bytes.Buffer, v psb.Value, depth int) error {
	switch n := v.(type) {
	case nil, psb.Null:
		buf.WriteString("null")
	case psb.Bool:
		buf.WriteString(strconv.FormatBool(bool(n)))
	case psb.Integer:
		buf.WriteString(strconv.FormatInt(int64(n), 10))
	case psb.Float:
		// JSONで表現できない値は文字列にする
		if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
			return writeString(buf, strconv.FormatFloat(n.Value, 'g', -1, 64))
		}
		bits := 32
		if n.Double {
			bits = 64
		}
		buf.WriteString(strconv.FormatFloat(n.Value, 'g', -1, bits))
	case psb.String:
		return writeString(buf, n.Value)
	case *psb.Resource:
		buf.WriteString(`{"resource": `)
		if err := writeString(buf, n.Key().String()); err != nil {
			return err
		}
		fmt.Fprintf(buf, `, "size": %d}`, n.Len())
	case psb.NumberArray:
		buf.WriteByte('[')
		for i, x := range n {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(strconv.FormatUint(x, 10))
		}
		buf.WriteByte(']')
	case psb.Array:
		if len(n) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, child := range n {
			if i > 0 {
				buf.WriteByte(',')
			}
			indent(buf, depth+1)
			if err := write(buf, child, depth+1); err != nil {
				return err
			}
		}
		indent(buf, depth)
		buf.WriteByte(']')
	case *psb.Dictionary:
		if n.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		i := 0
		for k, child := range n.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			indent(buf, depth+1)
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := write(buf, child, depth+1); err != nil {
				return err
			}
		}
		indent(buf, depth)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("未知の値 %T", v)
	}
	return nil
}
