package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scdtool/pkg/diag"
	"scdtool/pkg/scd"
)

// everyOpcode builds one instance of each sized opcode with operand bytes
// from a simple pattern, so that names, padding and signed words all appear.
func everyOpcode(table scd.ConstantTable, seed int) []byte {
	var out []byte
	for op := 0; op < 256; op++ {
		size := table.GetInstructionSize(byte(op))
		if size == 0 {
			continue
		}
		out = append(out, byte(op))
		for j := 1; j < size; j++ {
			out = append(out, byte(op*7+j*13+seed))
		}
	}
	return out
}

func TestVerifyEveryOpcode(t *testing.T) {
	table := bio2(t)
	for seed := 0; seed < 8; seed++ {
		s := &scd.Script{Version: scd.Bio2}
		s.Add(scd.Main, "", everyOpcode(table, seed))
		report, err := Verify(table, s)
		require.NoError(t, err, "seed %d", seed)
		assert.True(t, report.OK(), "seed %d: %v", seed, report.Mismatches)
		assert.Empty(t, report.Diagnostics)
	}
}

func TestVerifyContextOperands(t *testing.T) {
	table := bio2(t)

	aotSet := make([]byte, 20)
	aotSet[0] = 0x2C
	aotSet[2] = 6     // SCE_FLAG_CHG
	aotSet[16] = 0x18 // gosub marker
	aotSet[17] = 4
	aotSet[18] = 2

	aotSet4p := make([]byte, 28)
	aotSet4p[0] = 0x67
	aotSet4p[2] = 5
	aotSet4p[24] = 0x18
	aotSet4p[25] = 1

	s := &scd.Script{Version: scd.Bio2}
	s.Add(scd.Init, "", []byte{0x2E, 0x03, 0x07, 0x2E, 0x04, 0x02, 0x01, 0x00})
	s.Add(scd.Main, "", append(aotSet, 0x01, 0x00))
	s.Add(scd.Main, "", append(aotSet4p, 0x01, 0x00))
	s.Add(scd.Event, "", []byte{0x46, 0x00, 0x04, 0x00, 0x09, 0, 0, 0, 0, 0})

	report, err := Verify(table, s)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.Source)
	assert.Equal(t, 4, report.Procedures)
	assert.Contains(t, report.Source, "work_set WK_ENEMY, ID_EM_7")
	assert.Contains(t, report.Source, "ID_MSG_9")
}

func TestVerifyKeepsUndecodableTail(t *testing.T) {
	table := bio2(t)
	s := &scd.Script{Version: scd.Bio2}
	s.Add(scd.Main, "", []byte{0x00, 0xA0, 0x01, 0x02, 0x03})

	report, err := Verify(table, s)
	require.NoError(t, err)
	assert.True(t, report.OK())
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, diag.UnknownInstructionSize, report.Diagnostics[0].Code)
}

func TestVerifyEmptyProcedure(t *testing.T) {
	table := bio2(t)
	s := &scd.Script{Version: scd.Bio2}
	s.Add(scd.Main, "", nil)
	s.Add(scd.Main, "", []byte{0x01, 0x00})

	report, err := Verify(table, s)
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestCompareBytes(t *testing.T) {
	assert.Equal(t, -1, CompareBytes([]byte{1, 2}, []byte{1, 2}))
	assert.Equal(t, -1, CompareBytes(nil, []byte{}))
	assert.Equal(t, 1, CompareBytes([]byte{1, 2}, []byte{1, 3}))
	assert.Equal(t, 2, CompareBytes([]byte{1, 2}, []byte{1, 2, 3}))
	assert.Equal(t, "main procedure 1 differs at offset 0x0010", Mismatch{Kind: scd.Main, Index: 1, Offset: 16}.String())
}
