package device

import (
	"errors"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/pcastellazzi/ulc3/mem"
)

// Script is a memory-mapped device written in Starlark. The script body
// runs on every activation with read(addr) and write(addr, value)
// builtins bound to the activating memory, so peripherals can be
// prototyped without Go code. A script must not read its own bound
// address; the activation hook would recurse.
//
// The activation hook cannot fail; a script runtime error is recorded
// on the device and reported by Err.
type Script struct {
	name   string
	source string
	err    error
}

var _ mem.Device = (*Script)(nil)

// NewScript parses a device script. Syntax errors surface here, before
// the device is bound to an address.
func NewScript(name, source string) (s *Script, err error) {
	opts := syntax.FileOptions{}
	_, err = opts.Parse(name, source, 0)
	if err != nil {
		err = errors.Join(ErrScript, err)
		return
	}

	s = &Script{name: name, source: source}
	return
}

// Err returns the first runtime error raised by an activation.
func (s *Script) Err() error {
	return s.err
}

// Activate runs the script body against the activating memory.
func (s *Script) Activate(m *mem.Memory) {
	read := starlark.NewBuiltin("read", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr int
		err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &addr)
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt(int(m.Read(uint16(addr)))), nil
	})

	write := starlark.NewBuiltin("write", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr, value int
		err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &addr, &value)
		if err != nil {
			return nil, err
		}
		m.Write(uint16(addr), uint16(value))
		return starlark.None, nil
	})

	pred := starlark.StringDict{
		"read":  read,
		"write": write,
	}

	opts := syntax.FileOptions{}
	thread := starlark.Thread{Name: s.name}
	_, err := starlark.ExecFileOptions(&opts, &thread, s.name, s.source, pred)
	if err != nil && s.err == nil {
		s.err = errors.Join(ErrScript, err)
	}
}
