package cpu

import (
	"fmt"
)

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 8

// linkRegister receives the return address of JSR/JSRR and TRAP.
const linkRegister = 7

// Registers is the register file of a single machine instance: eight
// general-purpose 16-bit registers, the program counter, and the
// condition flag register.
//
// The backing array is not exposed. Every general-purpose write goes
// through Set, which recomputes the condition flags, or through the
// dedicated non-flag paths (Link, Deposit) used by the control-transfer
// and trap instructions.
type Registers struct {
	reg  [NumRegisters]uint16
	pc   uint16
	cond Flag
}

// NewRegisters creates a zeroed register file with the ZERO flag set.
func NewRegisters() (r *Registers) {
	r = &Registers{}
	r.Reset()
	return
}

// Reset clears all registers and sets the ZERO flag.
func (r *Registers) Reset() {
	clear(r.reg[:])
	r.pc = 0
	r.cond = FL_ZERO
}

// Get returns the value of general-purpose register n.
func (r *Registers) Get(n int) uint16 {
	return r.reg[n]
}

// Set stores value into general-purpose register n and recomputes the
// condition flags from the stored value.
func (r *Registers) Set(n int, value uint16) {
	r.reg[n] = value
	switch {
	case value == 0:
		r.cond = FL_ZERO
	case value>>15 != 0: // left-most bit indicates negative
		r.cond = FL_NEGATIVE
	default:
		r.cond = FL_POSITIVE
	}
}

// Link stores a return address in R7 without touching the condition
// flags. JSR, JSRR, and TRAP save their return address this way.
func (r *Registers) Link(value uint16) {
	r.reg[linkRegister] = value
}

// Deposit stores value into general-purpose register n without touching
// the condition flags. The input traps deposit characters this way.
func (r *Registers) Deposit(n int, value uint16) {
	r.reg[n] = value
}

// Pc returns the program counter.
func (r *Registers) Pc() uint16 {
	return r.pc
}

// SetPc sets the program counter. Flags are not affected.
func (r *Registers) SetPc(value uint16) {
	r.pc = value
}

// Cond returns the condition flag register.
func (r *Registers) Cond() Flag {
	return r.cond
}

// SetCond sets the condition flag register to a single flag value.
func (r *Registers) SetCond(flag Flag) {
	r.cond = flag
}

// State is a copy of the register file for inspection.
type State struct {
	R    [NumRegisters]uint16
	Pc   uint16
	Cond string
}

// State returns a copy of the register file.
func (r *Registers) State() State {
	return State{R: r.reg, Pc: r.pc, Cond: r.cond.String()}
}

// String returns the current register file as a string.
func (r *Registers) String() (text string) {
	for n, val := range r.reg {
		text += fmt.Sprintf("  r%d: %04X\n", n, val)
	}
	text += fmt.Sprintf("  pc: %04X\n", r.pc)
	text += fmt.Sprintf("cond: %v\n", r.cond)
	return
}
