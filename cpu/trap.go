package cpu

import (
	"errors"
	"log"
)

// inPrompt is written to the output stream by the in trap before blocking.
const inPrompt = "Waiting for input: "

// trap performs a host-service call. Exactly one service runs per
// vector, synchronously; getc and in block the machine until a
// character arrives. End of input is fatal, not a zero fill.
func (m *Machine) trap(vector TrapVector) (err error) {
	switch vector {
	case TRAP_GETC:
		var c byte
		c, err = m.Input.ReadByte()
		if err != nil {
			err = errors.Join(ErrInput, err)
			return
		}
		m.Registers.Deposit(0, uint16(c))

	case TRAP_OUT:
		err = m.emit(byte(m.Registers.Get(0)))

	case TRAP_PUTS:
		address := m.Registers.Get(0)
		for c := m.Memory.Read(address); c != 0; c = m.Memory.Read(address) {
			err = m.emit(byte(c))
			if err != nil {
				return
			}
			address++
		}

	case TRAP_IN:
		_, err = m.Output.Write([]byte(inPrompt))
		if err != nil {
			err = errors.Join(ErrOutput, err)
			return
		}
		var c byte
		c, err = m.Input.ReadByte()
		if err != nil {
			err = errors.Join(ErrInput, err)
			return
		}
		err = m.emit(c)
		if err != nil {
			return
		}
		m.Registers.Deposit(0, uint16(c))

	case TRAP_PUTSP:
		// Two characters per cell, low byte first; the first zero
		// byte ends the string.
		address := m.Registers.Get(0)
		for {
			c := m.Memory.Read(address)
			if c&0xFF == 0 {
				break
			}
			err = m.emit(byte(c))
			if err != nil {
				return
			}
			if c>>8 == 0 {
				break
			}
			err = m.emit(byte(c >> 8))
			if err != nil {
				return
			}
			address++
		}

	case TRAP_HALT:
		if m.Verbose {
			log.Printf("cpu: halt")
		}
		m.halted = true

	default:
		if !m.Permissive {
			err = ErrVector(vector)
		}
	}

	return
}

// emit writes a single character to the output stream.
func (m *Machine) emit(c byte) (err error) {
	_, err = m.Output.Write([]byte{c})
	if err != nil {
		err = errors.Join(ErrOutput, err)
	}
	return
}
