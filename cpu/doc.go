// Package cpu implements the LS-8 microprocessor, its program loader, and its assembler.
//
// The CPU consists of 256 bytes of memory shared by program text and a descending
// stack, eight 8-bit general-purpose registers (R0-R7), a program counter (PC), a
// stack pointer (SP), and a flags register (FL) written by comparisons.
//
// Each instruction is a single byte whose upper two bits give the operand count,
// followed by that many operand bytes. The ALU bit routes arithmetic and comparison
// instructions; everything else is dispatched by exact opcode.
//
// The assembler accepts LS-8 mnemonics with labels, equates, and compile-time
// expression evaluation, producing a Program that can be loaded or saved in the
// LS-8 text format.
package cpu
