package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// FuzzSignExtend checks SignExtend against an independent two's
// complement interpretation of the low bits of the field.
func FuzzSignExtend(f *testing.F) {
	f.Add(uint16(0x0000), uint(5))
	f.Add(uint16(0x001F), uint(5))
	f.Add(uint16(0x0100), uint(9))
	f.Add(uint16(0xFFFF), uint(11))

	f.Fuzz(func(t *testing.T, value uint16, bits uint) {
		bits = bits%15 + 1

		masked := int(value) & ((1 << bits) - 1)
		expected := masked
		if masked >= 1<<(bits-1) {
			expected = masked - 1<<bits
		}

		assert.Equal(t, uint16(expected), SignExtend(value, bits))
	})
}

// FuzzFlags checks that every register write leaves exactly one flag
// set, matching the numeric sign of the stored value.
func FuzzFlags(f *testing.F) {
	f.Add(uint16(0x0000))
	f.Add(uint16(0x7FFF))
	f.Add(uint16(0x8000))
	f.Add(uint16(0xFFFF))

	f.Fuzz(func(t *testing.T, value uint16) {
		assert := assert.New(t)

		reg := NewRegisters()
		reg.Set(0, value)

		var expected Flag
		switch {
		case value == 0:
			expected = FL_ZERO
		case value>>15 != 0:
			expected = FL_NEGATIVE
		default:
			expected = FL_POSITIVE
		}

		assert.Equal(expected, reg.Cond())
		assert.Equal(expected, reg.Cond()&(FL_POSITIVE|FL_ZERO|FL_NEGATIVE))
	})
}
