package slippi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// 解码上限，防止恶意长度前缀导致的超大分配
const (
	MaxUBJSONLength     = 16 * 1024 * 1024
	MaxUBJSONCollection = 100_000
	MaxUBJSONDepth      = 64
	MaxUBJSONElements   = 1_000_000 // 整个文档内的元素总数（字节数组按一个值计）
)

// 解码错误
var (
	ErrUBJSONTruncated = errors.New("ubjson: unexpected end of data")
	ErrUBJSONMarker    = errors.New("ubjson: invalid marker")
	ErrUBJSONLength    = errors.New("ubjson: invalid length")
	ErrUBJSONDepth     = errors.New("ubjson: nesting too deep")
	ErrUBJSONTrailing  = errors.New("ubjson: trailing data after value")
	ErrUBJSONElements  = errors.New("ubjson: too many elements")
)

// Unmarshal 将一段完整的 UBJSON 解码为 Go 值
// 对象 -> map[string]any，数组 -> []any（[$U# 数组 -> []byte），整数 -> int64，浮点 -> float64
func Unmarshal(data []byte) (any, error) {
	d := &ubDecoder{buf: data}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		return nil, fmt.Errorf("%w: %d bytes", ErrUBJSONTrailing, len(d.buf)-d.pos)
	}
	return v, nil
}

type ubDecoder struct {
	buf      []byte
	pos      int
	depth    int
	elements int // 已解码的容器元素数
}

// spend 从元素预算中扣除 n 个元素
func (d *ubDecoder) spend(n int) error {
	d.elements += n
	if d.elements > MaxUBJSONElements {
		return fmt.Errorf("%w: more than %d", ErrUBJSONElements, MaxUBJSONElements)
	}
	return nil
}

// reserve 零宽元素（Z/T/F）不消耗输入，按计数一次性检查预算
func (d *ubDecoder) reserve(elem byte, count int) error {
	switch elem {
	case markerNull, markerTrue, markerFalse:
		if count > MaxUBJSONElements-d.elements {
			return fmt.Errorf("%w: %d zero-width elements", ErrUBJSONElements, count)
		}
	}
	return nil
}

func (d *ubDecoder) next() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrUBJSONTruncated
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *ubDecoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, ErrUBJSONTruncated
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// value 读取一个带标记的值，跳过前导 noop
func (d *ubDecoder) value() (any, error) {
	for {
		m, err := d.next()
		if err != nil {
			return nil, err
		}
		if m == markerNoop {
			continue
		}
		return d.typed(m)
	}
}

// typed 按给定标记读取值体
func (d *ubDecoder) typed(m byte) (any, error) {
	switch m {
	case markerNull:
		return nil, nil
	case markerTrue:
		return true, nil
	case markerFalse:
		return false, nil
	case markerInt8, markerUint8, markerInt16, markerInt32, markerInt64:
		return d.integer(m)
	case markerFloat32:
		b, err := d.take(4)
		if err != nil {
			return nil, err
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case markerFloat64:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case markerChar:
		b, err := d.take(1)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case markerString, markerHighNum:
		return d.str()
	case markerArray:
		return d.array()
	case markerObject:
		return d.object()
	default:
		return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrUBJSONMarker, m, d.pos-1)
	}
}

func (d *ubDecoder) integer(m byte) (int64, error) {
	switch m {
	case markerInt8:
		b, err := d.take(1)
		if err != nil {
			return 0, err
		}
		return int64(int8(b[0])), nil
	case markerUint8:
		b, err := d.take(1)
		if err != nil {
			return 0, err
		}
		return int64(b[0]), nil
	case markerInt16:
		b, err := d.take(2)
		if err != nil {
			return 0, err
		}
		return int64(int16(binary.BigEndian.Uint16(b))), nil
	case markerInt32:
		b, err := d.take(4)
		if err != nil {
			return 0, err
		}
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	case markerInt64:
		b, err := d.take(8)
		if err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint64(b)), nil
	}
	return 0, fmt.Errorf("%w: 0x%02x is not an integer marker", ErrUBJSONMarker, m)
}

// length 读取长度/计数：必须是非负整数且不超过上限
func (d *ubDecoder) length(limit int) (int, error) {
	m, err := d.next()
	if err != nil {
		return 0, err
	}
	n, err := d.integer(m)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > int64(limit) {
		return 0, fmt.Errorf("%w: %d", ErrUBJSONLength, n)
	}
	return int(n), nil
}

func (d *ubDecoder) str() (string, error) {
	n, err := d.length(MaxUBJSONLength)
	if err != nil {
		return "", err
	}
	b, err := d.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// header 解析优化容器头部（$type / #count），返回元素类型（0 表示无）与计数（-1 表示未知）
func (d *ubDecoder) header() (elem byte, count int, err error) {
	count = -1
	if d.pos < len(d.buf) && d.buf[d.pos] == markerType {
		d.pos++
		if elem, err = d.next(); err != nil {
			return 0, 0, err
		}
		if d.pos >= len(d.buf) || d.buf[d.pos] != markerCount {
			// 指定了类型就必须给出计数
			return 0, 0, fmt.Errorf("%w: typed container without count", ErrUBJSONMarker)
		}
	}
	if d.pos < len(d.buf) && d.buf[d.pos] == markerCount {
		d.pos++
		limit := MaxUBJSONCollection
		if elem == markerUint8 {
			// 字节数组按字节计，放宽到长度上限
			limit = MaxUBJSONLength
		}
		if count, err = d.length(limit); err != nil {
			return 0, 0, err
		}
	}
	return elem, count, nil
}

func (d *ubDecoder) enter() error {
	d.depth++
	if d.depth > MaxUBJSONDepth {
		return ErrUBJSONDepth
	}
	return nil
}

func (d *ubDecoder) array() (any, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	elem, count, err := d.header()
	if err != nil {
		return nil, err
	}
	if err := d.reserve(elem, count); err != nil {
		return nil, err
	}
	if elem == markerUint8 {
		b, err := d.take(count)
		if err != nil {
			return nil, err
		}
		out := make([]byte, count)
		copy(out, b)
		return out, nil
	}

	out := make([]any, 0)
	if count >= 0 {
		for i := 0; i < count; i++ {
			v, err := d.element(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	for {
		if d.pos >= len(d.buf) {
			return nil, ErrUBJSONTruncated
		}
		switch d.buf[d.pos] {
		case markerArrayE:
			d.pos++
			return out, nil
		case markerNoop:
			d.pos++
			continue
		}
		v, err := d.element(0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (d *ubDecoder) object() (any, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	elem, count, err := d.header()
	if err != nil {
		return nil, err
	}
	if err := d.reserve(elem, count); err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if count >= 0 {
		for i := 0; i < count; i++ {
			k, err := d.str()
			if err != nil {
				return nil, err
			}
			v, err := d.element(elem)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	for {
		if d.pos >= len(d.buf) {
			return nil, ErrUBJSONTruncated
		}
		switch d.buf[d.pos] {
		case markerObjectE:
			d.pos++
			return out, nil
		case markerNoop:
			d.pos++
			continue
		}
		k, err := d.str()
		if err != nil {
			return nil, err
		}
		v, err := d.element(0)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
}

// element 读取容器元素；elem 非 0 时元素不带自身标记
func (d *ubDecoder) element(elem byte) (any, error) {
	if err := d.spend(1); err != nil {
		return nil, err
	}
	if elem == 0 {
		return d.value()
	}
	return d.typed(elem)
}
