// Package cpu implements the instruction set of the LC-3 teaching machine.
//
// The core is a fetch-decode-execute loop over a register file of eight
// 16-bit general-purpose registers, a program counter, and a condition
// flag register holding exactly one of the positive/zero/negative flags.
// The top four bits of each instruction word select one of sixteen
// opcodes; TRAP instructions delegate to host character streams for
// console input and output.
//
// All arithmetic wraps at the 16-bit boundary; there is no overflow
// trap. PC-relative offsets are taken against the program counter after
// the fetch increment.
package cpu
