package disasm

// Mnemonics that open and close indented blocks.
var (
	blockOpeners = map[string]bool{
		"if": true, "for": true, "for2": true, "while": true, "do": true, "switch": true,
	}
	blockClosers = map[string]bool{
		"endif": true, "next": true, "ewhile": true, "edwhile": true,
	}
	// Openers whose following condition opcodes hang under them.
	conditionOpeners = map[string]bool{
		"if": true, "while": true, "edwhile": true,
	}
)

// blockStack tracks nesting while walking a procedure. It never fails: an
// unbalanced closer just leaves the depth at zero.
type blockStack struct {
	open      []string
	condition bool
	condDepth int
}

func (b *blockStack) depth() int {
	return len(b.open)
}

func (b *blockStack) top() string {
	if len(b.open) == 0 {
		return ""
	}
	return b.open[len(b.open)-1]
}

func (b *blockStack) pop() {
	if len(b.open) != 0 {
		b.open = b.open[:len(b.open)-1]
	}
}

// inCondition reports whether the previous instruction started or continued
// a condition list, and the depth of the instruction that started it.
func (b *blockStack) inCondition() (int, bool) {
	return b.condDepth, b.condition
}

// before adjusts the nesting for mnemonic and returns the indent to print it
// at.
func (b *blockStack) before(mnemonic string) int {
	switch {
	case blockClosers[mnemonic]:
		b.pop()
	case mnemonic == "else":
		b.pop()
	case mnemonic == "case" || mnemonic == "default":
		if t := b.top(); t == "case" || t == "default" {
			b.pop()
		}
	case mnemonic == "eswitch":
		if t := b.top(); t == "case" || t == "default" {
			b.pop()
		}
		b.pop()
	}
	return b.depth()
}

// after pushes blocks opened by mnemonic.
func (b *blockStack) after(mnemonic string, condition bool) {
	depth := b.depth()
	switch {
	case blockOpeners[mnemonic], mnemonic == "else", mnemonic == "case", mnemonic == "default":
		b.open = append(b.open, mnemonic)
	}
	switch {
	case conditionOpeners[mnemonic]:
		b.condition = true
		b.condDepth = depth
	case condition && b.condition:
	default:
		b.condition = false
	}
}
