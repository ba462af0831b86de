package slippi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
)

// UBJSON 类型标记（Draft 12），主机端的 payload 全部使用这一编码
const (
	markerNull    byte = 'Z'
	markerNoop    byte = 'N'
	markerTrue    byte = 'T'
	markerFalse   byte = 'F'
	markerInt8    byte = 'i'
	markerUint8   byte = 'U'
	markerInt16   byte = 'I'
	markerInt32   byte = 'l'
	markerInt64   byte = 'L'
	markerFloat32 byte = 'd'
	markerFloat64 byte = 'D'
	markerHighNum byte = 'H'
	markerChar    byte = 'C'
	markerString  byte = 'S'
	markerArray   byte = '['
	markerArrayE  byte = ']'
	markerObject  byte = '{'
	markerObjectE byte = '}'
	markerType    byte = '$'
	markerCount   byte = '#'
)

// ErrUnsupportedType 表示编码器不支持的 Go 类型
var ErrUnsupportedType = errors.New("ubjson: unsupported type")

// Encoder 将 Go 值追加编码为 UBJSON 字节
type Encoder struct {
	buf []byte
}

// NewEncoder 创建编码器
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Bytes 返回已编码的字节（引用内部缓冲）
func (e *Encoder) Bytes() []byte { return e.buf }

// Reset 清空缓冲以便复用
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Marshal 编码单个值
func Marshal(v any) ([]byte, error) {
	e := NewEncoder()
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Encode 追加编码 v
// 支持 nil、bool、整数、浮点、string、[]byte、[]any、map[string]any
func (e *Encoder) Encode(v any) error {
	switch x := v.(type) {
	case nil:
		e.buf = append(e.buf, markerNull)
	case bool:
		if x {
			e.buf = append(e.buf, markerTrue)
		} else {
			e.buf = append(e.buf, markerFalse)
		}
	case int:
		e.writeInt(int64(x))
	case int8:
		e.writeInt(int64(x))
	case int16:
		e.writeInt(int64(x))
	case int32:
		e.writeInt(int64(x))
	case int64:
		e.writeInt(x)
	case uint:
		return e.writeUint(uint64(x))
	case uint8:
		e.writeInt(int64(x))
	case uint16:
		e.writeInt(int64(x))
	case uint32:
		e.writeInt(int64(x))
	case uint64:
		return e.writeUint(x)
	case float32:
		e.buf = append(e.buf, markerFloat32)
		e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(x))
	case float64:
		e.buf = append(e.buf, markerFloat64)
		e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(x))
	case string:
		e.buf = append(e.buf, markerString)
		e.writeString(x)
	case []byte:
		// 强类型 uint8 数组：[$U#<count><raw>
		e.buf = append(e.buf, markerArray, markerType, markerUint8, markerCount)
		e.writeInt(int64(len(x)))
		e.buf = append(e.buf, x...)
	case []any:
		e.buf = append(e.buf, markerArray)
		for _, item := range x {
			if err := e.Encode(item); err != nil {
				return err
			}
		}
		e.buf = append(e.buf, markerArrayE)
	case map[string]any:
		e.buf = append(e.buf, markerObject)
		// 按键排序，保证输出稳定
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			e.writeString(k)
			if err := e.Encode(x[k]); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		e.buf = append(e.buf, markerObjectE)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return nil
}

// writeInt 选择能容纳 v 的最小整数标记
func (e *Encoder) writeInt(v int64) {
	switch {
	case v >= 0 && v <= math.MaxUint8:
		e.buf = append(e.buf, markerUint8, byte(v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		e.buf = append(e.buf, markerInt8, byte(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		e.buf = append(e.buf, markerInt16)
		e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(int16(v)))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		e.buf = append(e.buf, markerInt32)
		e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(int32(v)))
	default:
		e.buf = append(e.buf, markerInt64)
		e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(v))
	}
}

func (e *Encoder) writeUint(v uint64) error {
	if v > math.MaxInt64 {
		return fmt.Errorf("%w: uint64 %d overflows int64", ErrUnsupportedType, v)
	}
	e.writeInt(int64(v))
	return nil
}

// writeString 写入长度与 UTF-8 字节（不含 'S' 标记，对象键也用它）
func (e *Encoder) writeString(s string) {
	e.writeInt(int64(len(s)))
	e.buf = append(e.buf, s...)
}
