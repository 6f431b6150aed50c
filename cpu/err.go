package cpu

import (
	"errors"

	"github.com/pcastellazzi/ulc3/translate"
)

var f = translate.From

var (
	ErrHalted   = errors.New(f("machine halted"))
	ErrReserved = errors.New(f("reserved opcode"))
	ErrInput    = errors.New(f("input exhausted"))
	ErrOutput   = errors.New(f("output failed"))
)

// ErrInstruction wraps every execution error with the offending
// instruction word.
type ErrInstruction Instruction

func (ei ErrInstruction) Error() string {
	return f("instruction 0x%04x %v", uint16(ei), Instruction(ei).String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

// ErrVector indicates an unsupported trap vector.
type ErrVector TrapVector

func (ev ErrVector) Error() string {
	return f("bad trap vector 0x%02x", int(ev))
}

func (ev ErrVector) Is(err error) (ok bool) {
	_, ok = err.(ErrVector)
	return
}
