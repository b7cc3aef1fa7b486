package scd

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the section of a room script a procedure belongs to.
type Kind int

const (
	Init Kind = iota
	Main
	Event
)

var kindNames = [...]string{"init", "main", "event"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, errors.Errorf("unknown script kind %q", s)
}

// Procedure is one contiguous bytecode buffer. Index is its position within
// its kind, which is what gosub operands refer to.
type Procedure struct {
	Kind  Kind
	Index int
	Name  string
	Data  []byte
}

// Script is every procedure of one room, grouped by kind.
type Script struct {
	Version    Version
	Procedures []*Procedure
}

// Of returns the procedures of one kind in index order.
func (s *Script) Of(kind Kind) []*Procedure {
	var out []*Procedure
	for _, p := range s.Procedures {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the procedure with the given kind and index.
func (s *Script) Find(kind Kind, index int) (*Procedure, bool) {
	for _, p := range s.Procedures {
		if p.Kind == kind && p.Index == index {
			return p, true
		}
	}
	return nil, false
}

// Add appends a procedure as the next index of its kind.
func (s *Script) Add(kind Kind, name string, data []byte) *Procedure {
	p := &Procedure{Kind: kind, Index: len(s.Of(kind)), Name: name, Data: data}
	s.Procedures = append(s.Procedures, p)
	return p
}

// SplitProcedures splits an SCD chunk into its procedures. The chunk starts
// with a table of little endian uint16 offsets; the first offset is also the
// size of the table.
func SplitProcedures(chunk []byte) ([][]byte, error) {
	if len(chunk) < 2 {
		return nil, errors.New("procedure table is truncated")
	}
	first := int(binary.LittleEndian.Uint16(chunk))
	if first == 0 || first%2 != 0 || first > len(chunk) {
		return nil, errors.Errorf("invalid procedure table size %d", first)
	}

	count := first / 2
	offsets := make([]int, count+1)
	for i := 0; i < count; i++ {
		offsets[i] = int(binary.LittleEndian.Uint16(chunk[i*2:]))
	}
	offsets[count] = len(chunk)

	procs := make([][]byte, count)
	for i := 0; i < count; i++ {
		start, end := offsets[i], offsets[i+1]
		if start < first || end < start || end > len(chunk) {
			return nil, errors.Errorf("procedure %d has invalid bounds %d..%d", i, start, end)
		}
		procs[i] = chunk[start:end]
	}
	return procs, nil
}

// JoinProcedures is the inverse of SplitProcedures.
func JoinProcedures(procs [][]byte) ([]byte, error) {
	if len(procs) == 0 {
		return nil, errors.New("no procedures to join")
	}
	offset := len(procs) * 2
	out := make([]byte, offset)
	for i, p := range procs {
		if offset > 0xFFFF {
			return nil, errors.Errorf("procedure %d starts past 64KiB", i)
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(offset))
		offset += len(p)
	}
	for _, p := range procs {
		out = append(out, p...)
	}
	return out, nil
}

// DefaultProcName is the name given to a procedure that was not declared
// with one. Main procedures use the same aliases as gosub operands.
func DefaultProcName(kind Kind, index int) string {
	switch kind {
	case Main:
		switch index {
		case 0:
			return "main"
		case 1:
			return "aot"
		}
		return fmt.Sprintf("main_%02X", index)
	case Init:
		if index == 0 {
			return "init"
		}
		return fmt.Sprintf("init_%02X", index)
	}
	return fmt.Sprintf("%s_%02X", kind, index)
}
