package scd

// ConstantTable is the per-version opcode and symbol metadata. Implementations
// are immutable and safe for concurrent use. Lookups never panic; a false
// result means the caller should fall back to the raw number.
type ConstantTable interface {
	Version() Version

	// FindOpcode returns the opcode whose signature mnemonic is name.
	FindOpcode(name string) (byte, bool)
	// GetOpcodeSignature returns "mnemonic[:operands]", or "" for reserved
	// and out-of-range opcodes.
	GetOpcodeSignature(opcode byte) string
	// GetInstructionSize returns the full instruction length including the
	// opcode byte, or 0 when unknown.
	GetInstructionSize(opcode byte) int
	IsOpcodeCondition(opcode byte) bool

	// GetConstant names value when interpreted as an operand of the given
	// kind (a signature character).
	GetConstant(kind byte, value int) (string, bool)
	// GetInstructionConstant names the operand at index within an
	// instruction whose operand block starts at c. Only operands whose
	// meaning depends on sibling bytes resolve here. c is never advanced.
	GetInstructionConstant(opcode byte, index int, c *Cursor) (string, bool)
	// GetConstantValue is the reverse of the two lookups above.
	GetConstantValue(symbol string) (int, bool)
}
