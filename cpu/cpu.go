package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/pcastellazzi/ulc3/mem"
)

// ProgramStart is the default load address for user programs.
const ProgramStart = uint16(0x3000)

var _cpu_defines = map[string]string{
	"PROGRAM_START": fmt.Sprintf("0x%04x", ProgramStart),
	"TRAP_GETC":     fmt.Sprintf("0x%02x", int(TRAP_GETC)),
	"TRAP_OUT":      fmt.Sprintf("0x%02x", int(TRAP_OUT)),
	"TRAP_PUTS":     fmt.Sprintf("0x%02x", int(TRAP_PUTS)),
	"TRAP_IN":       fmt.Sprintf("0x%02x", int(TRAP_IN)),
	"TRAP_PUTSP":    fmt.Sprintf("0x%02x", int(TRAP_PUTSP)),
	"TRAP_HALT":     fmt.Sprintf("0x%02x", int(TRAP_HALT)),
}

// Machine is the decode/execute core of a single LC-3 instance. It is
// the sole owner and sole mutator of its register file and memory;
// execution is fully synchronous.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	// Permissive restores the historical behavior of treating the
	// reserved opcode and unknown trap vectors as no-ops instead of
	// fatal errors.
	Permissive bool

	Registers *Registers
	Memory    *mem.Memory

	Input  io.ByteReader // Character source for the getc/in traps.
	Output io.Writer     // Character sink for the out/puts/in/putsp traps.

	halted bool
}

// NewMachine creates a machine owning the given register file and memory.
func NewMachine(registers *Registers, memory *mem.Memory) (m *Machine) {
	m = &Machine{
		Registers: registers,
		Memory:    memory,
	}

	return
}

// Defines returns an iterator over the machine constants.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Halted reports whether the machine has reached the halted state.
func (m *Machine) Halted() bool {
	return m.halted
}

// Reset clears the register file and restarts execution at start.
func (m *Machine) Reset(start uint16) {
	if m.Verbose {
		log.Printf("cpu: reset, pc 0x%04x", start)
	}

	m.Registers.Reset()
	m.Registers.SetPc(start)
	m.halted = false
}

// Run steps the machine until it halts or an instruction fails.
func (m *Machine) Run() (err error) {
	for !m.halted {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

// Step executes a single fetch-decode-execute cycle: read the word at
// the program counter, advance the program counter, and execute. All
// PC-relative offsets are taken against the incremented program counter.
func (m *Machine) Step() (err error) {
	if m.halted {
		err = ErrHalted
		return
	}

	at := m.Registers.Pc()
	ins := Instruction(m.Memory.Read(at))
	m.Registers.SetPc(at + 1)

	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction(ins), err)
		}
	}()

	if m.Verbose {
		log.Printf("%04x: %v", at, ins)
	}

	err = m.execute(ins)

	return
}

// execute dispatches a fetched instruction. The switch is exhaustive
// over the 16 opcode values; the default arm is unreachable.
func (m *Machine) execute(ins Instruction) (err error) {
	reg := m.Registers

	switch ins.Op() {
	case OP_ADD:
		if ins.Immediate() {
			reg.Set(ins.Dr(), reg.Get(ins.Sr1())+ins.Imm5())
		} else {
			reg.Set(ins.Dr(), reg.Get(ins.Sr1())+reg.Get(ins.Sr2()))
		}

	case OP_AND:
		if ins.Immediate() {
			reg.Set(ins.Dr(), reg.Get(ins.Sr1())&ins.Imm5())
		} else {
			reg.Set(ins.Dr(), reg.Get(ins.Sr1())&reg.Get(ins.Sr2()))
		}

	case OP_NOT:
		reg.Set(ins.Dr(), ^reg.Get(ins.Sr1()))

	case OP_BR:
		if ins.CondMask()&reg.Cond() != 0 {
			reg.SetPc(reg.Pc() + ins.Offset9())
		}

	case OP_JMP:
		reg.SetPc(reg.Get(ins.Sr1()))

	case OP_JSR:
		reg.Link(reg.Pc())
		if ins.Long() {
			reg.SetPc(reg.Pc() + ins.Offset11())
		} else {
			reg.SetPc(reg.Get(ins.Sr1()))
		}

	case OP_LD:
		reg.Set(ins.Dr(), m.Memory.Read(reg.Pc()+ins.Offset9()))

	case OP_LDI:
		address := m.Memory.Read(reg.Pc() + ins.Offset9())
		reg.Set(ins.Dr(), m.Memory.Read(address))

	case OP_LDR:
		reg.Set(ins.Dr(), m.Memory.Read(reg.Get(ins.Sr1())+ins.Offset6()))

	case OP_LEA:
		reg.Set(ins.Dr(), reg.Pc()+ins.Offset9())

	case OP_ST:
		m.Memory.Write(reg.Pc()+ins.Offset9(), reg.Get(ins.Dr()))

	case OP_STI:
		address := m.Memory.Read(reg.Pc() + ins.Offset9())
		m.Memory.Write(address, reg.Get(ins.Dr()))

	case OP_STR:
		m.Memory.Write(reg.Get(ins.Sr1())+ins.Offset6(), reg.Get(ins.Dr()))

	case OP_TRAP:
		reg.Link(reg.Pc())
		err = m.trap(ins.Vector())

	case OP_RTI:
		// No interrupt model; defined as a no-op.

	case OP_RES:
		if !m.Permissive {
			err = ErrReserved
		}

	default:
		panic("opcode out of range")
	}

	return
}
