package cpu

const (
	RAM_SIZE       = 256  // Bytes of addressable memory.
	REGISTER_COUNT = 8    // General purpose registers.
	SP_INIT        = 0xf4 // Initial stack pointer; the stack grows down from here.
)

// Flags register bits. Exactly one is set after a CMP.
const (
	FL_EQUAL   = byte(0b001)
	FL_GREATER = byte(0b010)
	FL_LESS    = byte(0b100)
)
