// Package asm assembles preprocessed SCD source into procedure buffers.
package asm

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"scdtool/pkg/compiler"
	"scdtool/pkg/diag"
	"scdtool/pkg/scd"
)

type Assembler struct {
	table scd.ConstantTable
	errs  *diag.ErrorList
	procs map[scd.Kind]map[string]int
}

type parsedLine struct {
	pos      compiler.Token
	mnemonic string
	operands [][]compiler.Token
}

func NewAssembler(table scd.ConstantTable, errs *diag.ErrorList) *Assembler {
	return &Assembler{
		table: table,
		errs:  errs,
		procs: make(map[scd.Kind]map[string]int),
	}
}

// Assemble reads src to EOF and encodes every procedure. Any diagnostic
// recorded during the run, including ones recorded earlier by the
// preprocessor sharing the list, makes the result nil.
func (a *Assembler) Assemble(src compiler.TokenSource) (*scd.Script, error) {
	a.procs = make(map[scd.Kind]map[string]int)
	lines := readLines(src)

	a.pass1(lines)
	script := a.pass2(lines)

	if err := a.errs.Err(); err != nil {
		return nil, err
	}
	return script, nil
}

// AssembleFile preprocesses and assembles one source file. defines are
// installed as object-like macros first.
func AssembleFile(includer compiler.FileIncluder, table scd.ConstantTable, path string, defines map[string]string) (*scd.Script, error) {
	errs := &diag.ErrorList{}
	pp := compiler.New(includer, errs)
	for name, body := range defines {
		pp.Define(name, body)
	}
	return NewAssembler(table, errs).Assemble(pp.Expand(path))
}

// readLines groups the significant tokens of src into lines. Layout tokens
// are dropped and blank lines are skipped.
func readLines(src compiler.TokenSource) []parsedLine {
	var lines []parsedLine
	var cur []compiler.Token
	flush := func() {
		if len(cur) != 0 {
			lines = append(lines, splitLine(cur))
		}
		cur = nil
	}
	for {
		t := src.Next()
		switch {
		case t.Type == compiler.EOF:
			flush()
			return lines
		case t.Type == compiler.NEWLINE:
			flush()
		case t.IsLayout():
		default:
			cur = append(cur, t)
		}
	}
}

func splitLine(tokens []compiler.Token) parsedLine {
	p := parsedLine{pos: tokens[0], mnemonic: tokens[0].Lexeme}
	if tokens[0].Type != compiler.SYMBOL {
		p.mnemonic = ""
	}
	rest := tokens[1:]
	if len(rest) == 0 {
		return p
	}
	var op []compiler.Token
	for _, t := range rest {
		if t.Type == compiler.COMMA {
			p.operands = append(p.operands, op)
			op = nil
			continue
		}
		op = append(op, t)
	}
	p.operands = append(p.operands, op)
	return p
}

// section tracks which procedure instructions are appended to.
type section struct {
	kind    scd.Kind
	current *scd.Procedure
	count   map[scd.Kind]int
}

func newSection() *section {
	return &section{kind: scd.Main, count: make(map[scd.Kind]int)}
}

func (s *section) switchTo(kind scd.Kind) {
	s.kind = kind
	s.current = nil
}

func sectionKind(directive string) (scd.Kind, bool) {
	switch directive {
	case ".init":
		return scd.Init, true
	case ".main":
		return scd.Main, true
	case ".event":
		return scd.Event, true
	}
	return 0, false
}

// pass1 assigns every procedure its index so gosub operands can refer to
// procedures declared later in the file.
func (a *Assembler) pass1(lines []parsedLine) {
	sec := newSection()
	open := false
	declare := func(kind scd.Kind, name string, pos compiler.Token) {
		index := sec.count[kind]
		sec.count[kind]++
		if name == "" {
			name = scd.DefaultProcName(kind, index)
		}
		names := a.procs[kind]
		if names == nil {
			names = make(map[string]int)
			a.procs[kind] = names
		}
		if _, exists := names[name]; exists {
			a.errorAt(pos, diag.DuplicateProcedure, name)
			return
		}
		names[name] = index
	}

	for _, p := range lines {
		if kind, ok := sectionKind(p.mnemonic); ok {
			sec.kind = kind
			open = false
			continue
		}
		switch p.mnemonic {
		case ".version", "":
			continue
		case ".proc":
			declare(sec.kind, procName(p), p.pos)
			open = true
			continue
		}
		if !open {
			declare(sec.kind, "", p.pos)
			open = true
		}
	}
}

func procName(p parsedLine) string {
	if len(p.operands) == 1 && len(p.operands[0]) == 1 && p.operands[0][0].Type == compiler.SYMBOL {
		return p.operands[0][0].Lexeme
	}
	return ""
}

func (a *Assembler) pass2(lines []parsedLine) *scd.Script {
	script := &scd.Script{Version: a.table.Version()}
	sec := newSection()

	begin := func(name string) *scd.Procedure {
		if name == "" {
			name = scd.DefaultProcName(sec.kind, len(script.Of(sec.kind)))
		}
		proc := script.Add(sec.kind, name, []byte{})
		sec.current = proc
		return proc
	}

	for _, p := range lines {
		if p.mnemonic == "" {
			a.errorAt(p.pos, diag.UnexpectedToken, p.pos.Lexeme)
			continue
		}

		if kind, ok := sectionKind(p.mnemonic); ok {
			if len(p.operands) != 0 {
				a.errorAt(p.pos, diag.IncorrectNumberOfOperands, 0, len(p.operands))
			}
			sec.switchTo(kind)
			continue
		}

		switch p.mnemonic {
		case ".version":
			a.version(p)
			continue
		case ".proc":
			if len(p.operands) != 1 {
				a.errorAt(p.pos, diag.IncorrectNumberOfOperands, 1, len(p.operands))
			} else if procName(p) == "" {
				a.errorAt(p.operands[0][0], diag.UnexpectedToken, p.operands[0][0].Lexeme)
			}
			begin(procName(p))
			continue
		}

		proc := sec.current
		if proc == nil {
			proc = begin("")
		}

		if p.mnemonic == ".db" {
			operand := scd.Operand{Kind: 'u', Width: 1}
			for _, op := range p.operands {
				v, ok := a.operandValue(p.pos, op, operand)
				if ok {
					proc.Data = operand.Encode(proc.Data, v)
				}
			}
			continue
		}

		if strings.HasPrefix(p.mnemonic, ".") {
			a.errorAt(p.pos, diag.UnknownDirective, p.mnemonic)
			continue
		}

		proc.Data = a.instruction(proc.Data, p)
	}

	for _, proc := range script.Procedures {
		logrus.Debugf("%s procedure %d (%s): %d bytes", proc.Kind, proc.Index, proc.Name, len(proc.Data))
	}
	return script
}

func (a *Assembler) version(p parsedLine) {
	if len(p.operands) != 1 || len(p.operands[0]) != 1 {
		a.errorAt(p.pos, diag.IncorrectNumberOfOperands, 1, len(p.operands))
		return
	}
	tok := p.operands[0][0]
	v, err := strconv.ParseInt(tok.Lexeme, 0, 32)
	if tok.Type != compiler.NUMBER || err != nil {
		a.errorAt(tok, diag.InvalidNumber, tok.Lexeme)
		return
	}
	if scd.Version(v) != a.table.Version() {
		a.errorAt(tok, diag.VersionMismatch, v, int(a.table.Version()))
	}
}

// instruction encodes one statement. On error nothing is appended, so the
// offsets of later instructions stay meaningful in diagnostics.
func (a *Assembler) instruction(dst []byte, p parsedLine) []byte {
	opcode, ok := a.table.FindOpcode(p.mnemonic)
	if !ok {
		a.errorAt(p.pos, diag.UnknownOpcode, p.mnemonic)
		return dst
	}

	size := a.table.GetInstructionSize(opcode)
	sig := scd.ParseSignature(a.table.GetOpcodeSignature(opcode))
	layout := sig.Layout(size)

	// Padding operands may be left out; they encode as zero.
	if len(p.operands) != len(layout) && len(p.operands) != len(sig.Operands) {
		a.errorAt(p.pos, diag.IncorrectNumberOfOperands, len(layout), len(p.operands))
		return dst
	}

	out := []byte{opcode}
	failed := false
	for i, operand := range layout {
		if i >= len(p.operands) {
			out = operand.Encode(out, 0)
			continue
		}
		v, ok := a.operandValue(p.pos, p.operands[i], operand)
		if !ok {
			failed = true
			continue
		}
		out = operand.Encode(out, v)
	}
	if failed {
		return dst
	}
	return append(dst, out...)
}

// operandValue evaluates term { "|" term } and checks the result fits the
// operand.
func (a *Assembler) operandValue(pos compiler.Token, tokens []compiler.Token, operand scd.Operand) (int, bool) {
	if len(tokens) == 0 {
		a.errorAt(pos, diag.ExpectedOperand)
		return 0, false
	}

	value := 0
	expectTerm := true
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !expectTerm {
			if t.Type != compiler.PUNCT || t.Lexeme != "|" {
				a.errorAt(t, diag.UnexpectedToken, t.Lexeme)
				return 0, false
			}
			expectTerm = true
			continue
		}

		negative := false
		if t.Type == compiler.PUNCT && t.Lexeme == "-" && i+1 < len(tokens) {
			negative = true
			i++
			t = tokens[i]
		}

		v, ok := a.term(t)
		if !ok {
			return 0, false
		}
		if negative {
			v = -v
		}
		value |= v
		expectTerm = false
	}
	if expectTerm {
		a.errorAt(tokens[len(tokens)-1], diag.ExpectedOperand)
		return 0, false
	}

	lo, hi := operand.Range()
	if value < lo || value > hi {
		a.errorAt(tokens[0], diag.OperandOutOfRange, value, operand.Kind)
		return 0, false
	}
	return value, true
}

func (a *Assembler) term(t compiler.Token) (int, bool) {
	switch t.Type {
	case compiler.NUMBER:
		v, err := strconv.ParseInt(t.Lexeme, 0, 32)
		if err != nil {
			a.errorAt(t, diag.InvalidNumber, t.Lexeme)
			return 0, false
		}
		return int(v), true
	case compiler.SYMBOL:
		if index, ok := a.procs[scd.Main][t.Lexeme]; ok {
			return index, true
		}
		if v, ok := a.table.GetConstantValue(t.Lexeme); ok {
			return v, true
		}
		a.errorAt(t, diag.UnknownSymbol, t.Lexeme)
		return 0, false
	}
	a.errorAt(t, diag.UnexpectedToken, t.Lexeme)
	return 0, false
}

func (a *Assembler) errorAt(t compiler.Token, code diag.Code, args ...any) {
	a.errs.Add(t.Path, t.Line, t.Column, code, args...)
}
