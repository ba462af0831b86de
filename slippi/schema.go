package slippi

import (
	"encoding/binary"
	"fmt"
)

// EventSchemaTable 操作码 -> 记录长度（含 1 字节操作码）
// 由 PAYLOADS 事件填充，归属单个连接，不在连接间共享
type EventSchemaTable struct {
	sizes [256]int
}

// NewEventSchemaTable 创建空表（全部为 0）
func NewEventSchemaTable() *EventSchemaTable {
	return &EventSchemaTable{}
}

// Declare 设置/覆盖某操作码的记录长度
func (t *EventSchemaTable) Declare(code EventType, length int) {
	t.sizes[code] = length
}

// Lookup 返回最近一次声明的长度；从未声明为 0
func (t *EventSchemaTable) Lookup(code EventType) int {
	return t.sizes[code]
}

// Reset 清空所有声明（新连接时调用）
func (t *EventSchemaTable) Reset() {
	t.sizes = [256]int{}
}

// DeclarePayloads 解析一条 PAYLOADS 记录并登记其中的全部 (操作码, 长度) 三元组
// record 从操作码字节开始；返回本记录占用的字节数（声明大小 + 1）
func (t *EventSchemaTable) DeclarePayloads(record []byte) (int, error) {
	if len(record) < 2 {
		return 0, fmt.Errorf("%w: payloads header needs 2 bytes, have %d", ErrInsufficientData, len(record))
	}
	size := int(record[1])
	if len(record) < size+1 {
		return 0, fmt.Errorf("%w: payloads record needs %d bytes, have %d", ErrInsufficientData, size+1, len(record))
	}
	// 三元组从偏移 2 开始：操作码 1 字节 + 长度 2 字节（大端）
	n := (size - 1) / 3
	for i := 0; i < n; i++ {
		off := 2 + 3*i
		code := EventType(record[off])
		length := int(binary.BigEndian.Uint16(record[off+1 : off+3]))
		t.Declare(code, length+1)
	}
	return size + 1, nil
}
