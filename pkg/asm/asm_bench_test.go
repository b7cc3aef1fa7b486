package asm

import (
	"fmt"
	"strings"
	"testing"

	"scdtool/pkg/compiler"
	"scdtool/pkg/diag"
	"scdtool/pkg/scd"
	"scdtool/pkg/vfs"
)

// roomProgram is a typical main procedure: a few door triggers, flag checks
// and a gosub per event.
func roomProgram(events int) string {
	var sb strings.Builder
	sb.WriteString(".version 2\n.main\n.proc main\n")
	for i := 0; i < events; i++ {
		fmt.Fprintf(&sb, "    if 0, 6\n      ck FG_GAME, F_EASY, 1\n")
		fmt.Fprintf(&sb, "        aot_reset ID_AOT_%d, SCE_EVENT, SAT_PL | SAT_MANUAL, 0, 0, I_GOSUB, main_%02X, 0, 0\n", i%32, (i%200)+2)
		sb.WriteString("    endif\n")
	}
	sb.WriteString("    evt_end 0\n")
	return sb.String()
}

func benchmarkAssemble(b *testing.B, src string) {
	disk := vfs.NewVirtualDisk()
	if err := disk.Write("room.s", []byte(src)); err != nil {
		b.Fatal(err)
	}
	table, err := scd.TableFor(scd.Bio2)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		errs := &diag.ErrorList{}
		if _, err := NewAssembler(table, errs).Assemble(compiler.New(disk, errs).Expand("room.s")); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssembleSmall(b *testing.B)  { benchmarkAssemble(b, roomProgram(4)) }
func BenchmarkAssembleMedium(b *testing.B) { benchmarkAssemble(b, roomProgram(64)) }
func BenchmarkAssembleLarge(b *testing.B)  { benchmarkAssemble(b, roomProgram(512)) }
