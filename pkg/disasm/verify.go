package disasm

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"scdtool/pkg/asm"
	"scdtool/pkg/diag"
	"scdtool/pkg/scd"
	"scdtool/pkg/vfs"
)

// Mismatch is a procedure that did not survive the round trip.
type Mismatch struct {
	Kind   scd.Kind
	Index  int
	Offset int // first differing byte; the shorter length when one is a prefix
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s procedure %d differs at offset 0x%04X", m.Kind, m.Index, m.Offset)
}

// Report is the outcome of Verify.
type Report struct {
	Source      string
	Procedures  int
	Mismatches  []Mismatch
	Diagnostics []diag.Error
}

// OK reports whether every procedure reassembled to identical bytes.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// CompareBytes returns the index of the first difference between a and b, or
// -1 when they are equal.
func CompareBytes(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// Verify disassembles s, reassembles the text from an in-memory disk and
// compares every procedure with the original. Disassembly diagnostics are
// part of the report; a failure to reassemble is returned as an error.
func Verify(table scd.ConstantTable, s *scd.Script) (*Report, error) {
	const name = "roundtrip.s"

	errs := &diag.ErrorList{}
	text := New(table, errs, Options{}).Script(s)
	report := &Report{Source: text, Procedures: len(s.Procedures), Diagnostics: errs.Errors}

	disk := vfs.NewVirtualDisk()
	if err := disk.Write(name, []byte(text)); err != nil {
		return report, err
	}

	out, err := asm.AssembleFile(disk, table, name, nil)
	if err != nil {
		return report, errors.Wrap(err, "reassembling disassembly")
	}

	for _, p := range s.Procedures {
		q, ok := out.Find(p.Kind, p.Index)
		if !ok {
			report.Mismatches = append(report.Mismatches, Mismatch{Kind: p.Kind, Index: p.Index})
			continue
		}
		if i := CompareBytes(p.Data, q.Data); i != -1 {
			report.Mismatches = append(report.Mismatches, Mismatch{Kind: p.Kind, Index: p.Index, Offset: i})
		}
	}
	if len(out.Procedures) != len(s.Procedures) {
		logrus.Warnf("round trip produced %d procedures, expected %d", len(out.Procedures), len(s.Procedures))
	}
	return report, nil
}
