package scd

// SymbolKinds are the operand kinds whose values can be named, in dump order.
const SymbolKinds = "0123etcoswgpfva"

// Symbol is one named operand value.
type Symbol struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value int    `json:"value" yaml:"value"`
	Name  string `json:"name" yaml:"name"`
	Group int    `json:"group,omitempty" yaml:"group,omitempty"`
}

// Symbols lists every byte-range name a table defines, followed by the named
// flags. Numbered identifiers (ID_AOT_n and friends) are skipped.
func Symbols(t ConstantTable) []Symbol {
	var out []Symbol
	for i := 0; i < len(SymbolKinds); i++ {
		kind := SymbolKinds[i]
		if kind >= '0' && kind <= '3' {
			continue
		}
		for v := 0; v < 256; v++ {
			if name, ok := t.GetConstant(kind, v); ok {
				out = append(out, Symbol{Kind: string(kind), Value: v, Name: name})
			}
		}
	}
	for group := 0; group < 32; group++ {
		for index := 0; index < 256; index++ {
			if name, ok := FlagName(group, index); ok {
				out = append(out, Symbol{Kind: string(kindFlag), Value: index, Name: name, Group: group})
			}
		}
	}
	return out
}
