package emu

import (
	"github.com/sarchlab/akita/v4/mem/mem"
)

// MemorySize is the size of the flat address space in bytes.
const MemorySize = 1 << 16

// Memory is the 64 KiB byte-addressable data memory. It starts zeroed and
// does not hold the program being executed. Word accesses are little-endian
// and addresses wrap around the end of the address space.
type Memory struct {
	storage *mem.Storage
}

// NewMemory creates a zeroed memory.
func NewMemory() *Memory {
	return &Memory{storage: mem.NewStorage(MemorySize)}
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint16) uint8 {
	data, err := m.storage.Read(uint64(addr), 1)
	if err != nil {
		panic(err)
	}
	return data[0]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint16, value uint8) {
	err := m.storage.Write(uint64(addr), []byte{value})
	if err != nil {
		panic(err)
	}
}

// Read16 reads a little-endian word.
func (m *Memory) Read16(addr uint16) uint16 {
	lo := m.Read8(addr)
	hi := m.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian word.
func (m *Memory) Write16(addr uint16, value uint16) {
	m.Write8(addr, uint8(value))
	m.Write8(addr+1, uint8(value>>8))
}

// Load copies data into memory starting at addr.
func (m *Memory) Load(addr uint16, data []byte) {
	for i, b := range data {
		m.Write8(addr+uint16(i), b)
	}
}
