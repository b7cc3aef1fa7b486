// Package disasm renders SCD procedures as assembler source.
package disasm

import (
	"fmt"
	"strconv"
	"strings"

	"scdtool/pkg/diag"
	"scdtool/pkg/scd"
)

const (
	indentUnit  = "    "
	hangingUnit = "  "
	dbPerLine   = 16
)

// Options control cosmetic output only; every setting reassembles to the
// same bytes.
type Options struct {
	// Offsets appends "; 0x0000" with each instruction's offset.
	Offsets bool
	// Numeric disables symbolic operand names.
	Numeric bool
}

type Disassembler struct {
	table scd.ConstantTable
	errs  *diag.ErrorList
	opts  Options
}

func New(table scd.ConstantTable, errs *diag.ErrorList, opts Options) *Disassembler {
	return &Disassembler{table: table, errs: errs, opts: opts}
}

// Script renders every procedure of s grouped by kind.
func (d *Disassembler) Script(s *scd.Script) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ".version %d\n", int(s.Version))
	for _, kind := range []scd.Kind{scd.Init, scd.Main, scd.Event} {
		procs := s.Of(kind)
		if len(procs) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n.%s\n", kind)
		for _, p := range procs {
			sb.WriteString("\n")
			d.Procedure(&sb, p)
		}
	}
	return sb.String()
}

// Procedure writes one ".proc" block. Decoding stops at the first opcode with
// no known size; the rest of the buffer is written as raw bytes.
func (d *Disassembler) Procedure(sb *strings.Builder, p *scd.Procedure) {
	fmt.Fprintf(sb, ".proc %s\n", scd.DefaultProcName(p.Kind, p.Index))

	blocks := &blockStack{}
	data := p.Data
	pos := 0
	for pos < len(data) {
		opcode := data[pos]
		size := d.table.GetInstructionSize(opcode)
		if size == 0 {
			d.errs.Add("", 0, 0, diag.UnknownInstructionSize, opcode, pos)
			d.rawBytes(sb, blocks.depth(), pos, data[pos:])
			return
		}
		if pos+size > len(data) {
			d.errs.Add("", 0, 0, diag.TruncatedInstruction, opcode, pos, size, len(data)-pos)
			d.rawBytes(sb, blocks.depth(), pos, data[pos:])
			return
		}

		instr := data[pos : pos+size]
		sig := scd.ParseSignature(d.table.GetOpcodeSignature(opcode))
		if sig.Reserved() {
			d.rawBytes(sb, blocks.depth(), pos, instr)
			pos += size
			continue
		}

		indent := blocks.before(sig.Mnemonic)
		prefix := strings.Repeat(indentUnit, indent)
		if depth, ok := blocks.inCondition(); ok && d.table.IsOpcodeCondition(opcode) {
			prefix = strings.Repeat(indentUnit, depth) + hangingUnit
		}
		line := prefix + d.instruction(opcode, sig, instr)
		blocks.after(sig.Mnemonic, d.table.IsOpcodeCondition(opcode))

		d.writeLine(sb, line, pos)
		pos += size
	}
}

func (d *Disassembler) instruction(opcode byte, sig scd.Signature, instr []byte) string {
	operands := instr[1:]
	layout := sig.Layout(len(instr))
	if len(layout) == 0 {
		return sig.Mnemonic
	}

	parts := make([]string, len(layout))
	for i, op := range layout {
		parts[i] = d.operand(opcode, i, op, operands)
	}
	return sig.Mnemonic + " " + strings.Join(parts, ", ")
}

func (d *Disassembler) operand(opcode byte, index int, op scd.Operand, operands []byte) string {
	value := op.Decode(operands[op.Offset : op.Offset+op.Width])
	if !d.opts.Numeric {
		if name, ok := d.table.GetInstructionConstant(opcode, index, scd.NewCursor(operands)); ok {
			return name
		}
		if name, ok := d.table.GetConstant(op.Kind, value); ok {
			return name
		}
	}
	return strconv.Itoa(value)
}

func (d *Disassembler) rawBytes(sb *strings.Builder, indent, pos int, data []byte) {
	prefix := strings.Repeat(indentUnit, indent)
	for len(data) != 0 {
		n := min(len(data), dbPerLine)
		parts := make([]string, n)
		for i, b := range data[:n] {
			parts[i] = fmt.Sprintf("0x%02X", b)
		}
		d.writeLine(sb, prefix+".db "+strings.Join(parts, ", "), pos)
		data = data[n:]
		pos += n
	}
}

func (d *Disassembler) writeLine(sb *strings.Builder, line string, pos int) {
	sb.WriteString(line)
	if d.opts.Offsets {
		fmt.Fprintf(sb, " ; 0x%04X", pos)
	}
	sb.WriteString("\n")
}
