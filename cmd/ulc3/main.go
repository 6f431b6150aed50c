package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/pcastellazzi/ulc3/emulator"
)

func main() {
	var defines bool
	var dump bool
	var permissive bool
	var verbose bool

	flag.BoolVar(&defines, "defines", false, "List machine constants and exit")
	flag.BoolVar(&dump, "dump", false, "Dump the register file on exit")
	flag.BoolVar(&permissive, "permissive", false, "Ignore the reserved opcode and unknown trap vectors")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Machine.Permissive = permissive

	if defines {
		for key, value := range emu.Defines() {
			fmt.Printf("%v = %v\n", key, value)
		}
		return
	}

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [flags] <image>", os.Args[0])
	}

	err := run(emu, flag.Arg(0))

	if dump {
		pp.Println(emu.Registers.State())
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(emu *emulator.Emulator, image string) (err error) {
	inf, err := os.Open(image)
	if err != nil {
		return
	}
	defer inf.Close()

	err = emu.LoadImage(inf)
	if err != nil {
		return fmt.Errorf("%v: %w", image, err)
	}

	// The trap output is unbuffered so interactive programs see every
	// character as it is emitted.
	emu.SetOutput(os.Stdout)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		var restore func()
		restore, err = enableRawMode(os.Stdin.Fd())
		if err != nil {
			return
		}
		defer restore()
	}

	go emu.Keys.Pump(os.Stdin)

	emu.Reset()
	err = emu.Run()

	return
}

// enableRawMode puts the terminal into a byte-at-a-time input mode so
// the keyboard device and the input traps see unbuffered, unechoed
// keystrokes. The returned function restores the saved configuration.
func enableRawMode(fd uintptr) (restore func(), err error) {
	var saved unix.Termios
	err = termios.Tcgetattr(fd, &saved)
	if err != nil {
		return
	}

	raw := saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	err = termios.Tcsetattr(fd, termios.TCSANOW, &raw)
	if err != nil {
		return
	}

	restore = func() {
		termios.Tcsetattr(fd, termios.TCSANOW, &saved)
	}

	return
}
