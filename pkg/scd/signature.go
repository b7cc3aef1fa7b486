package scd

import "strings"

// Operand describes one operand of an instruction: its signature character,
// its offset from the start of the operand block and its encoding.
type Operand struct {
	Kind   byte
	Offset int
	Width  int
	Signed bool
}

// Signature is a parsed "mnemonic[:operands]" string.
type Signature struct {
	Mnemonic string
	Operands string
}

// ParseSignature splits a signature string. An empty string yields an empty
// Signature, which marks a reserved slot.
func ParseSignature(s string) Signature {
	name, ops, _ := strings.Cut(s, ":")
	return Signature{Mnemonic: name, Operands: ops}
}

// Reserved reports whether the slot has no mnemonic.
func (s Signature) Reserved() bool {
	return s.Mnemonic == ""
}

// OperandWidth returns the encoded size of an operand kind in bytes.
//
//	u v c o s a w g p f t e 0 1 2 3 '   one byte
//	U I L @ ~ T                         little endian word
func OperandWidth(kind byte) int {
	switch kind {
	case 'U', 'I', 'L', '@', '~', 'T':
		return 2
	}
	return 1
}

// OperandSigned reports whether the operand kind is two's complement.
func OperandSigned(kind byte) bool {
	return kind == 'I' || kind == '~'
}

// Width returns the number of operand bytes the signature describes.
func (s Signature) Width() int {
	n := 0
	for i := 0; i < len(s.Operands); i++ {
		n += OperandWidth(s.Operands[i])
	}
	return n
}

// Layout returns the operands of an instruction of the given total size.
// Bytes left over after the signature's operands are padding and appear as
// plain 'u' operands so that they survive a round trip.
func (s Signature) Layout(size int) []Operand {
	var ops []Operand
	offset := 0
	for i := 0; i < len(s.Operands); i++ {
		k := s.Operands[i]
		ops = append(ops, Operand{Kind: k, Offset: offset, Width: OperandWidth(k), Signed: OperandSigned(k)})
		offset += OperandWidth(k)
	}
	for ; offset < size-1; offset++ {
		ops = append(ops, Operand{Kind: 'u', Offset: offset, Width: 1})
	}
	return ops
}

// Range returns the accepted numeric range of an operand. Unsigned and
// signed spellings of the same bits are both allowed.
func (o Operand) Range() (lo, hi int) {
	if o.Width == 2 {
		return -0x8000, 0xFFFF
	}
	return -0x80, 0xFF
}

// Decode interprets raw little endian bytes as the operand's value.
func (o Operand) Decode(b []byte) int {
	if o.Width == 2 {
		v := uint16(b[0]) | uint16(b[1])<<8
		if o.Signed {
			return int(int16(v))
		}
		return int(v)
	}
	return int(b[0])
}

// Encode appends the operand's encoding of v.
func (o Operand) Encode(dst []byte, v int) []byte {
	if o.Width == 2 {
		return append(dst, byte(v), byte(v>>8))
	}
	return append(dst, byte(v))
}
