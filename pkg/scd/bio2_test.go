package scd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFor(t *testing.T) {
	table, err := TableFor(Bio2)
	require.NoError(t, err)
	assert.Equal(t, Bio2, table.Version())

	_, err = TableFor(Bio3)
	assert.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	for _, s := range []string{"2", "bio2", "RE2", " bio2 "} {
		v, err := ParseVersion(s)
		require.NoError(t, err, s)
		assert.Equal(t, Bio2, v)
	}
	_, err := ParseVersion("bio9")
	assert.Error(t, err)
}

func TestBio2TableShape(t *testing.T) {
	assert.Len(t, bio2Sizes, len(bio2Signatures))

	for i, s := range bio2Signatures {
		sig := ParseSignature(s)
		size := bio2Sizes[i]
		if sig.Reserved() {
			continue
		}
		assert.LessOrEqualf(t, sig.Width()+1, size, "opcode 0x%02X %q", i, s)
	}
}

func TestFindOpcode(t *testing.T) {
	table := newBio2Table()

	tests := []struct {
		name   string
		opcode byte
	}{
		{"nop", 0x00},
		{"evt_end", 0x01},
		{"gosub", 0x18},
		{"ck", 0x21},
		{"aot_set", 0x2C},
		{"aot_reset", 0x46},
		{"aot_set_4p", 0x67},
		{"sce_item_ck_lost", 0x88},
	}
	for _, tt := range tests {
		op, ok := table.FindOpcode(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.opcode, op, tt.name)
	}

	_, ok := table.FindOpcode("")
	assert.False(t, ok)
	_, ok = table.FindOpcode("bogus")
	assert.False(t, ok)
}

func TestInstructionSizeAndSignature(t *testing.T) {
	table := newBio2Table()

	assert.Equal(t, 4, table.GetInstructionSize(0x21))
	assert.Equal(t, "ck:fuu", table.GetOpcodeSignature(0x21))
	assert.Equal(t, 20, table.GetInstructionSize(0x2C))
	assert.Equal(t, "", table.GetOpcodeSignature(0x4D))
	assert.Equal(t, 22, table.GetInstructionSize(0x4D))

	assert.Equal(t, 0, table.GetInstructionSize(0x8F))
	assert.Equal(t, 0, table.GetInstructionSize(0xFF))
	assert.Equal(t, "", table.GetOpcodeSignature(0xFF))
}

func TestIsOpcodeCondition(t *testing.T) {
	table := newBio2Table()
	for _, op := range []byte{0x21, 0x23, 0x3E, 0x5E, 0x1D} {
		assert.True(t, table.IsOpcodeCondition(op), "0x%02X", op)
	}
	for _, op := range []byte{0x00, 0x06, 0x22, 0x2C} {
		assert.False(t, table.IsOpcodeCondition(op), "0x%02X", op)
	}
}

func TestGetConstant(t *testing.T) {
	table := newBio2Table()

	tests := []struct {
		kind  byte
		value int
		want  string
	}{
		{'0', 3, "ID_AOT_3"},
		{'1', 12, "ID_OBJ_12"},
		{'2', 0, "ID_EM_0"},
		{'3', 7, "ID_MSG_7"},
		{'e', 16, "ENEMY_ZOMBIE_COP"},
		{'e', 33, "ENEMY_CROW"},
		{'e', 69, "ENEMY_SHERRY_PENDANT"},
		{'t', 255, "LOCKED"},
		{'t', 254, "UNLOCK"},
		{'t', 0, "UNLOCKED"},
		{'t', 1, "ITEM_KNIFE"},
		{'T', 31, "ITEM_SMALLKEY"},
		{'c', 5, "CMP_NE"},
		{'o', 11, "OP_ASR"},
		{'s', 5, "SCE_EVENT"},
		{'w', 6, "WK_ALL"},
		{'g', 0x18, "I_GOSUB"},
		{'p', 0, "main"},
		{'p', 1, "aot"},
		{'p', 0x0C, "main_0C"},
		{'f', 1, "FG_GAME"},
		{'f', 29, "FG_LOCK"},
		{'v', 16, "V_TEMP"},
		{'v', 0x2A, "V_2A"},
	}
	for _, tt := range tests {
		got, ok := table.GetConstant(tt.kind, tt.value)
		require.True(t, ok, "%c %d", tt.kind, tt.value)
		assert.Equal(t, tt.want, got)
	}

	missing := []struct {
		kind  byte
		value int
	}{
		{'e', 0},
		{'e', 200},
		{'t', 150},
		{'T', 300},
		{'c', 6},
		{'g', 0x17},
		{'f', 12},
		{'f', 30},
		{'u', 1},
	}
	for _, tt := range missing {
		_, ok := table.GetConstant(tt.kind, tt.value)
		assert.False(t, ok, "%c %d", tt.kind, tt.value)
	}
}

func TestSatMask(t *testing.T) {
	table := newBio2Table()

	tests := []struct {
		value int
		want  string
	}{
		{0, "SAT_AUTO"},
		{1, "SAT_PL"},
		{2, "SAT_EM"},
		{0x10, "SAT_MANUAL"},
		{0x80, "0x80"},
		{3, "SAT_PL | SAT_EM"},
		{0x0B, "SAT_PL | SAT_EM | SAT_OB"},
		{0x81, "SAT_PL | 0x80"},
	}
	for _, tt := range tests {
		got, ok := table.GetConstant('a', tt.value)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestConstantBijection(t *testing.T) {
	table := newBio2Table()
	for _, kind := range []byte("0123etTcoswgpfva") {
		for v := 0; v < 256; v++ {
			name, ok := table.GetConstant(kind, v)
			if !ok {
				continue
			}
			got, ok := table.GetConstantValue(name)
			if assert.True(t, ok, "%c %d %q", kind, v, name) {
				assert.Equal(t, v, got, "%c %q", kind, name)
			}
		}
	}
}

func TestGetConstantValue(t *testing.T) {
	table := newBio2Table()

	tests := []struct {
		symbol string
		want   int
	}{
		{"LOCKED", 255},
		{"I_GOSUB", 0x18},
		{"main", 0},
		{"aot", 1},
		{"SAT_AUTO", 0},
		{"FG_INPUT", 11},
		{"F_DIFFICULT", 0x19},
		{"F_QUESTION", 0x1F},
		{"V_LAST_RDT", 27},
		{"0x80", 0x80},
	}
	for _, tt := range tests {
		got, ok := table.GetConstantValue(tt.symbol)
		require.True(t, ok, tt.symbol)
		assert.Equal(t, tt.want, got, tt.symbol)
	}

	for _, s := range []string{"F_NOPE", "ITEM_", "ENEMY_NOBODY", "whatever", "main_"} {
		_, ok := table.GetConstantValue(s)
		assert.False(t, ok, s)
	}
}

func TestInstructionConstant(t *testing.T) {
	table := newBio2Table()

	t.Run("ck flag", func(t *testing.T) {
		c := NewCursor([]byte{0x01, 0x05, 0x01})
		name, ok := table.GetInstructionConstant(opCk, 1, c)
		require.True(t, ok)
		assert.Equal(t, "F_EASY", name)
		assert.Equal(t, 0, c.Pos())

		_, ok = table.GetInstructionConstant(opCk, 1, NewCursor([]byte{0x02, 0x05, 0x01}))
		assert.False(t, ok)
	})

	t.Run("work_set", func(t *testing.T) {
		name, ok := table.GetInstructionConstant(opWorkSet, 1, NewCursor([]byte{3, 9}))
		require.True(t, ok)
		assert.Equal(t, "ID_EM_9", name)

		name, ok = table.GetInstructionConstant(opWorkSet, 1, NewCursor([]byte{4, 2}))
		require.True(t, ok)
		assert.Equal(t, "ID_OBJ_2", name)

		_, ok = table.GetInstructionConstant(opWorkSet, 1, NewCursor([]byte{1, 2}))
		assert.False(t, ok)
	})

	t.Run("aot_reset event gosub", func(t *testing.T) {
		ops := []byte{0, sceEvent, 1, 0, 0, opGosub, 3, 0, 0}
		name, ok := table.GetInstructionConstant(opAotReset, 5, NewCursor(ops))
		require.True(t, ok)
		assert.Equal(t, "I_GOSUB", name)

		name, ok = table.GetInstructionConstant(opAotReset, 6, NewCursor(ops))
		require.True(t, ok)
		assert.Equal(t, "main_03", name)

		_, ok = table.GetInstructionConstant(opAotReset, 7, NewCursor(ops))
		assert.False(t, ok)
	})

	t.Run("aot_reset message", func(t *testing.T) {
		ops := []byte{0, sceMessage, 1, 12, 0, 0, 0, 0, 0}
		name, ok := table.GetInstructionConstant(opAotReset, 3, NewCursor(ops))
		require.True(t, ok)
		assert.Equal(t, "ID_MSG_12", name)
	})

	t.Run("aot_set flag change", func(t *testing.T) {
		ops := make([]byte, 19)
		ops[1] = sceFlagChg
		ops[15] = 31
		ops[17] = 2
		name, ok := table.GetInstructionConstant(opAotSet, 11, NewCursor(ops))
		require.True(t, ok)
		assert.Equal(t, "ITEM_SMALLKEY", name)

		name, ok = table.GetInstructionConstant(opAotSet, 13, NewCursor(ops))
		require.True(t, ok)
		assert.Equal(t, "main_02", name)

		// byte 15 is not the gosub opcode
		_, ok = table.GetInstructionConstant(opAotSet, 12, NewCursor(ops))
		assert.False(t, ok)
	})

	t.Run("aot_set_4p event", func(t *testing.T) {
		ops := make([]byte, 27)
		ops[1] = sceEvent
		ops[23] = opGosub
		ops[24] = 0
		name, ok := table.GetInstructionConstant(opAotSet4p, 16, NewCursor(ops))
		require.True(t, ok)
		assert.Equal(t, "main", name)
	})

	t.Run("truncated operands", func(t *testing.T) {
		_, ok := table.GetInstructionConstant(opAotSet, 11, NewCursor([]byte{0, sceEvent}))
		assert.False(t, ok)
	})
}

func TestNamify(t *testing.T) {
	assert.Equal(t, "ENEMY_ZOMBIE_COP", namify("ENEMY_", "Zombie (Cop)"))
	assert.Equal(t, "ENEMY_LEON_KENNEDY_RPD", namify("ENEMY_", "Leon Kennedy (Rpd)"))
	assert.Equal(t, "", namify("ENEMY_", ""))
	assert.Equal(t, "ITEM_C4", namify("ITEM_", "C4"))
}
