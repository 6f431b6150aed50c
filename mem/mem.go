// Package mem implements the 65536-word address space of the LC-3 machine.
//
// The address space is a flat array of 16-bit words with a registry of
// memory-mapped devices. Reading an address that is bound to a device
// activates the device before the cell value is taken, so status/data
// registers populated by the device are visible to the very read that
// triggered the activation. Writes never consult devices.
package mem

import (
	"encoding/binary"
	"io"
	"iter"
	"maps"
)

// Size is the number of addressable words.
const Size = 1 << 16

var _mem_defines = map[string]string{
	"MEM_SIZE": "0x10000",
}

// Device is the capability interface for a memory-mapped peripheral.
// Any component that can produce a side effect on the address space may
// be registered; no concrete device type is required.
type Device interface {
	// Activate is invoked by Memory.Read before the value of the bound
	// cell is taken. The device may write any cell, commonly its own
	// status and data registers.
	Activate(m *Memory)
}

// Memory is the word-addressed store of a single machine instance.
// The zero value is a zeroed address space with no devices bound.
type Memory struct {
	cells   [Size]uint16
	devices map[uint16]Device
}

// NewMemory creates a zeroed address space.
func NewMemory() *Memory {
	return &Memory{}
}

// Defines returns an iterator over the memory constants.
func (m *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_mem_defines)
}

// Read returns the word at addr. If a device is bound to addr it is
// activated first, and the activation completes before the value is taken.
func (m *Memory) Read(addr uint16) uint16 {
	if dev, ok := m.devices[addr]; ok {
		dev.Activate(m)
	}
	return m.cells[addr]
}

// Write stores value at addr. Devices are not consulted on writes.
func (m *Memory) Write(addr uint16, value uint16) {
	m.cells[addr] = value
}

// AddDevice binds a device to an address. Only one device may be bound
// per address.
func (m *Memory) AddDevice(addr uint16, dev Device) (err error) {
	if m.devices == nil {
		m.devices = map[uint16]Device{}
	}
	if _, bound := m.devices[addr]; bound {
		err = ErrDeviceBound
		return
	}
	m.devices[addr] = dev
	return
}

// Load stores a sequence of words starting at addr. The address wraps
// at the 16-bit boundary, matching ISA address arithmetic.
func (m *Memory) Load(addr uint16, words []uint16) {
	for _, word := range words {
		m.cells[addr] = word
		addr++
	}
}

// LoadImage reads a program image and loads it into the address space.
// The on-disk format is a sequence of big-endian 16-bit words; the first
// word is the load address, the rest is the program body. Returns the
// load address.
func (m *Memory) LoadImage(r io.Reader) (start uint16, err error) {
	var header [2]byte
	_, err = io.ReadFull(r, header[:])
	if err != nil {
		err = ErrImageTruncated
		return
	}
	start = binary.BigEndian.Uint16(header[:])

	body, err := io.ReadAll(r)
	if err != nil {
		return
	}
	if len(body) == 0 {
		err = ErrImageEmpty
		return
	}
	if len(body)%2 != 0 {
		err = ErrImageTruncated
		return
	}

	words := make([]uint16, len(body)/2)
	for n := range words {
		words[n] = binary.BigEndian.Uint16(body[n*2:])
	}
	m.Load(start, words)

	return
}
