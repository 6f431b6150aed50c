// Package device provides memory-mapped peripherals for the LC-3 machine.
package device

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/pcastellazzi/ulc3/mem"
)

// Keyboard register addresses.
const (
	KBSR = uint16(0xFE00) // Keyboard status register, bit 15 set when a key is ready.
	KBDR = uint16(0xFE02) // Keyboard data register.
)

// kbReady is the status bit reported in KBSR.
const kbReady = uint16(1 << 15)

var _device_defines = map[string]string{
	"KBSR": fmt.Sprintf("0x%04x", KBSR),
	"KBDR": fmt.Sprintf("0x%04x", KBDR),
}

// Defines returns an iterator over the device register addresses.
func Defines() iter.Seq2[string, string] {
	return maps.All(_device_defines)
}

// KeyBuffer adapts a byte stream to the two consumers of keyboard input:
// the blocking getc/in traps and the non-blocking status poll of the
// memory-mapped keyboard. Pump feeds it from a reader; a finished pump
// surfaces io.EOF to blocked readers.
type KeyBuffer struct {
	keys chan byte
}

// NewKeyBuffer creates an empty key buffer.
func NewKeyBuffer() *KeyBuffer {
	return &KeyBuffer{
		keys: make(chan byte, 8),
	}
}

// Pump copies bytes from r into the buffer until the reader is
// exhausted, then closes the buffer. Usually run as a goroutine over
// the host terminal stream.
func (kb *KeyBuffer) Pump(r io.Reader) {
	defer close(kb.keys)

	var one [1]byte
	for {
		n, err := r.Read(one[:])
		if n > 0 {
			kb.keys <- one[0]
		}
		if err != nil {
			return
		}
	}
}

// ReadByte blocks until a key arrives. Returns io.EOF once the buffer
// is closed and drained.
func (kb *KeyBuffer) ReadByte() (c byte, err error) {
	c, ok := <-kb.keys
	if !ok {
		err = io.EOF
	}
	return
}

// TryByte returns a pending key without blocking.
func (kb *KeyBuffer) TryByte() (c byte, ok bool) {
	select {
	case c, ok = <-kb.keys:
	default:
	}
	return
}

// Keyboard is the memory-mapped console input device. It is registered
// at KBSR; each activation polls the key buffer and deposits the status
// and data registers before the triggering read returns.
type Keyboard struct {
	Keys *KeyBuffer
}

var _ mem.Device = (*Keyboard)(nil)

// Activate latches a pending key into KBDR and raises the ready bit in
// KBSR, or clears KBSR when no key is pending.
func (kb *Keyboard) Activate(m *mem.Memory) {
	if c, ok := kb.Keys.TryByte(); ok {
		m.Write(KBSR, kbReady)
		m.Write(KBDR, uint16(c))
	} else {
		m.Write(KBSR, 0)
	}
}
