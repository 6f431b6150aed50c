// Package emulator assembles a complete LC-3 virtual machine: the
// decode/execute core, its address space, and the console devices.
package emulator

import (
	"io"
	"iter"
	"log"

	"github.com/pcastellazzi/ulc3/cpu"
	"github.com/pcastellazzi/ulc3/device"
	"github.com/pcastellazzi/ulc3/internal"
	"github.com/pcastellazzi/ulc3/mem"
)

// Emulator state. Machine + memory + console devices.
//
// Instances are independent; any number of emulators can coexist in one
// process. Nothing is shared and nothing is global.
type Emulator struct {
	Verbose      bool // If set, enables verbose logging.
	*cpu.Machine      // The decode/execute core.

	Keys     *device.KeyBuffer // Key stream feeding the traps and the keyboard device.
	Keyboard *device.Keyboard  // Memory-mapped keyboard at KBSR/KBDR.

	start uint16
}

// NewEmulator creates a machine with the keyboard device bound at KBSR
// and the trap input wired to the same key buffer.
func NewEmulator() (emu *Emulator) {
	memory := mem.NewMemory()

	emu = &Emulator{
		Machine: cpu.NewMachine(cpu.NewRegisters(), memory),
		Keys:    device.NewKeyBuffer(),
		start:   cpu.ProgramStart,
	}
	emu.Keyboard = &device.Keyboard{Keys: emu.Keys}

	err := memory.AddDevice(device.KBSR, emu.Keyboard)
	if err != nil {
		panic(err) // fresh memory has no bindings
	}

	emu.Machine.Input = emu.Keys

	return
}

// Defines returns an iterator over all of the machine constants.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Machine.Defines(),
		emu.Memory.Defines(),
		device.Defines(),
	)
}

// SetOutput sets the character sink for the output traps.
func (emu *Emulator) SetOutput(w io.Writer) {
	emu.Machine.Output = w
}

// LoadImage loads a program image into memory and records its start
// address for the next Reset.
func (emu *Emulator) LoadImage(r io.Reader) (err error) {
	emu.start, err = emu.Memory.LoadImage(r)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: image loaded at 0x%04x", emu.start)
	}

	return
}

// Reset restarts execution at the loaded image's start address, or at
// the default program start when no image has been loaded.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset(emu.start)
}

// Step executes a single instruction, wrapping any failure with the
// program counter of the faulting instruction.
func (emu *Emulator) Step() (done bool, err error) {
	at := emu.Registers.Pc()

	err = emu.Machine.Step()
	if err != nil {
		err = &ErrRuntime{Pc: at, Err: err}
		return
	}

	done = emu.Machine.Halted()
	return
}

// Run executes instructions until the machine halts or fails.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Step()
		if err != nil {
			return
		}
	}

	return
}
