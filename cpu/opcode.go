package cpu

import (
	"fmt"
)

// OpCode is the 4-bit operation selector in the top bits of an instruction.
type OpCode int

//go:generate go tool stringer -linecomment -type=OpCode
const (
	OP_BR   = OpCode(0b0000) // br
	OP_ADD  = OpCode(0b0001) // add
	OP_LD   = OpCode(0b0010) // ld
	OP_ST   = OpCode(0b0011) // st
	OP_JSR  = OpCode(0b0100) // jsr
	OP_AND  = OpCode(0b0101) // and
	OP_LDR  = OpCode(0b0110) // ldr
	OP_STR  = OpCode(0b0111) // str
	OP_RTI  = OpCode(0b1000) // rti
	OP_NOT  = OpCode(0b1001) // not
	OP_LDI  = OpCode(0b1010) // ldi
	OP_STI  = OpCode(0b1011) // sti
	OP_JMP  = OpCode(0b1100) // jmp
	OP_RES  = OpCode(0b1101) // res
	OP_LEA  = OpCode(0b1110) // lea
	OP_TRAP = OpCode(0b1111) // trap
)

// Flag is a condition flag value. Exactly one flag is set after any
// flag-updating register write.
type Flag uint16

//go:generate go tool stringer -linecomment -type=Flag
const (
	FL_POSITIVE = Flag(1 << 0) // p
	FL_ZERO     = Flag(1 << 1) // z
	FL_NEGATIVE = Flag(1 << 2) // n
)

// TrapVector is the 8-bit host-service selector of a TRAP instruction.
type TrapVector int

//go:generate go tool stringer -linecomment -type=TrapVector
const (
	TRAP_GETC  = TrapVector(0x20) // getc
	TRAP_OUT   = TrapVector(0x21) // out
	TRAP_PUTS  = TrapVector(0x22) // puts
	TRAP_IN    = TrapVector(0x23) // in
	TRAP_PUTSP = TrapVector(0x24) // putsp
	TRAP_HALT  = TrapVector(0x25) // halt
)

// SignExtend widens the low bits of value from a two's-complement field
// of the given width to the full 16-bit word.
func SignExtend(value uint16, bits uint) uint16 {
	value &= (1 << bits) - 1
	if (value>>(bits-1))&1 != 0 {
		value |= 0xFFFF << bits
	}
	return value
}

// Instruction is a single 16-bit instruction word.
type Instruction uint16

// Op returns the operation selector from the top 4 bits.
func (ins Instruction) Op() OpCode {
	return OpCode(ins >> 12)
}

// Dr returns the destination register field (bits 11..9). The same field
// holds the source register of ST/STI/STR and the condition mask of BR.
func (ins Instruction) Dr() int {
	return int(ins>>9) & 0x7
}

// Sr1 returns the first source register field (bits 8..6). The same field
// holds the base register of JMP/JSRR/LDR/STR.
func (ins Instruction) Sr1() int {
	return int(ins>>6) & 0x7
}

// Sr2 returns the second source register field (bits 2..0).
func (ins Instruction) Sr2() int {
	return int(ins) & 0x7
}

// Immediate reports whether bit 5 selects the immediate form of ADD/AND.
func (ins Instruction) Immediate() bool {
	return (ins>>5)&1 != 0
}

// Long reports whether bit 11 selects the PC-relative form of JSR.
func (ins Instruction) Long() bool {
	return (ins>>11)&1 != 0
}

// CondMask returns the 3-bit condition mask of BR.
func (ins Instruction) CondMask() Flag {
	return Flag(int(ins>>9) & 0x7)
}

// Imm5 returns the sign-extended 5-bit immediate field.
func (ins Instruction) Imm5() uint16 {
	return SignExtend(uint16(ins), 5)
}

// Offset6 returns the sign-extended 6-bit base offset field.
func (ins Instruction) Offset6() uint16 {
	return SignExtend(uint16(ins), 6)
}

// Offset9 returns the sign-extended 9-bit PC offset field.
func (ins Instruction) Offset9() uint16 {
	return SignExtend(uint16(ins), 9)
}

// Offset11 returns the sign-extended 11-bit PC offset field.
func (ins Instruction) Offset11() uint16 {
	return SignExtend(uint16(ins), 11)
}

// Vector returns the trap vector field of TRAP.
func (ins Instruction) Vector() TrapVector {
	return TrapVector(ins & 0xFF)
}

// String returns an assembly language representation of the instruction.
func (ins Instruction) String() (out string) {
	op := ins.Op()

	switch op {
	case OP_ADD, OP_AND:
		if ins.Immediate() {
			out = fmt.Sprintf("%v r%d r%d #%d", op, ins.Dr(), ins.Sr1(), int16(ins.Imm5()))
		} else {
			out = fmt.Sprintf("%v r%d r%d r%d", op, ins.Dr(), ins.Sr1(), ins.Sr2())
		}
	case OP_NOT:
		out = fmt.Sprintf("%v r%d r%d", op, ins.Dr(), ins.Sr1())
	case OP_BR:
		nzp := ""
		for _, flag := range []Flag{FL_NEGATIVE, FL_ZERO, FL_POSITIVE} {
			if ins.CondMask()&flag != 0 {
				nzp += flag.String()
			}
		}
		out = fmt.Sprintf("%v%v #%d", op, nzp, int16(ins.Offset9()))
	case OP_JMP:
		out = fmt.Sprintf("%v r%d", op, ins.Sr1())
	case OP_JSR:
		if ins.Long() {
			out = fmt.Sprintf("%v #%d", op, int16(ins.Offset11()))
		} else {
			out = fmt.Sprintf("jsrr r%d", ins.Sr1())
		}
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		out = fmt.Sprintf("%v r%d #%d", op, ins.Dr(), int16(ins.Offset9()))
	case OP_LDR, OP_STR:
		out = fmt.Sprintf("%v r%d r%d #%d", op, ins.Dr(), ins.Sr1(), int16(ins.Offset6()))
	case OP_TRAP:
		out = fmt.Sprintf("%v %v", op, ins.Vector())
	default:
		out = op.String()
	}

	return
}
