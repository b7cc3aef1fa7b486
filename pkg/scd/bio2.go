package scd

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcodes the table logic refers to by name.
const (
	opGosub      byte = 0x18
	opWorkCopy   byte = 0x1D
	opCk         byte = 0x21
	opCmp        byte = 0x23
	opAotSet     byte = 0x2C
	opWorkSet    byte = 0x2E
	opMemberCmp  byte = 0x3E
	opAotReset   byte = 0x46
	opKeepItemCk byte = 0x5E
	opAotSet4p   byte = 0x67
)

// Scene event categories stored in the tag byte of aot instructions.
const (
	sceMessage byte = 4
	sceEvent   byte = 5
	sceFlagChg byte = 6
)

// kindFlag is not a signature character. It names a flag from the
// (group, index) pair formed by the tag byte and the value byte.
const kindFlag byte = 'F'

const noGosub = -1

// operandRule resolves one operand from sibling bytes. Offsets are relative
// to the start of the operand block. The rule applies when the byte at tagAt
// is one of tags (any value if tags is empty) and, if gosubAt is set, the
// byte there is the gosub opcode.
type operandRule struct {
	opcode  byte
	index   int
	tagAt   int
	tags    []byte
	gosubAt int
	valueAt int
	kind    byte
}

var bio2Rules = []operandRule{
	{opcode: opCk, index: 1, tagAt: 0, gosubAt: noGosub, valueAt: 1, kind: kindFlag},

	{opcode: opWorkSet, index: 1, tagAt: 0, tags: []byte{3}, gosubAt: noGosub, valueAt: 1, kind: '2'},
	{opcode: opWorkSet, index: 1, tagAt: 0, tags: []byte{4}, gosubAt: noGosub, valueAt: 1, kind: '1'},

	{opcode: opAotReset, index: 3, tagAt: 1, tags: []byte{sceMessage}, gosubAt: noGosub, valueAt: 3, kind: '3'},
	{opcode: opAotReset, index: 5, tagAt: 1, tags: []byte{sceEvent}, gosubAt: noGosub, valueAt: 5, kind: 'g'},
	{opcode: opAotReset, index: 5, tagAt: 1, tags: []byte{sceFlagChg}, gosubAt: noGosub, valueAt: 5, kind: 't'},
	{opcode: opAotReset, index: 6, tagAt: 1, tags: []byte{sceEvent}, gosubAt: 5, valueAt: 6, kind: 'p'},
	{opcode: opAotReset, index: 7, tagAt: 1, tags: []byte{sceFlagChg}, gosubAt: noGosub, valueAt: 7, kind: 'p'},

	{opcode: opAotSet, index: 9, tagAt: 1, tags: []byte{sceMessage}, gosubAt: noGosub, valueAt: 13, kind: '3'},
	{opcode: opAotSet, index: 11, tagAt: 1, tags: []byte{sceEvent}, gosubAt: noGosub, valueAt: 15, kind: 'g'},
	{opcode: opAotSet, index: 11, tagAt: 1, tags: []byte{sceFlagChg}, gosubAt: noGosub, valueAt: 15, kind: 't'},
	{opcode: opAotSet, index: 12, tagAt: 1, tags: []byte{sceEvent, sceFlagChg}, gosubAt: 15, valueAt: 16, kind: 'p'},
	{opcode: opAotSet, index: 13, tagAt: 1, tags: []byte{sceFlagChg}, gosubAt: noGosub, valueAt: 17, kind: 'p'},

	{opcode: opAotSet4p, index: 15, tagAt: 1, tags: []byte{sceEvent}, gosubAt: noGosub, valueAt: 23, kind: 'g'},
	{opcode: opAotSet4p, index: 16, tagAt: 1, tags: []byte{sceEvent}, gosubAt: 23, valueAt: 24, kind: 'p'},
}

func (r *operandRule) accepts(tag byte) bool {
	if len(r.tags) == 0 {
		return true
	}
	for _, t := range r.tags {
		if t == tag {
			return true
		}
	}
	return false
}

var bio2Comparators = []string{
	"CMP_EQ", "CMP_GT", "CMP_GE", "CMP_LT", "CMP_LE", "CMP_NE",
}

var bio2Operators = []string{
	"OP_ADD", "OP_SUB", "OP_MUL", "OP_DIV", "OP_MOD", "OP_OR",
	"OP_AND", "OP_XOR", "OP_NOT", "OP_LSL", "OP_LSR", "OP_ASR",
}

// Bit i of an actor mask. Bit 7 has no name and prints as a literal.
var bio2SatNames = [8]string{
	"SAT_PL", "SAT_EM", "SAT_SPL", "SAT_OB", "SAT_MANUAL", "SAT_FRONT", "SAT_UNDER", "0x80",
}

var bio2SceNames = []string{
	"SCE_AUTO", "SCE_DOOR", "SCE_ITEM", "SCE_NORMAL", "SCE_MESSAGE",
	"SCE_EVENT", "SCE_FLAG_CHG", "SCE_WATER", "SCE_MOVE", "SCE_SAVE",
	"SCE_ITEMBOX", "SCE_DAMAGE", "SCE_STATUS", "SCE_HIKIDASHI", "SCE_WINDOWS",
}

var bio2WorkKinds = []string{
	"WK_NONE", "WK_PLAYER", "WK_SPLAYER", "WK_ENEMY", "WK_OBJECT", "WK_DOOR", "WK_ALL",
}

// Empty entries are unnamed groups.
var bio2FlagGroups = [30]string{
	0: "FG_0", 1: "FG_GAME", 2: "FG_STATE", 3: "FG_3",
	4: "FG_GENERAL", 5: "FG_LOCAL", 6: "FG_ENEMY", 7: "FG_7",
	8: "FG_ITEM", 9: "FG_9", 10: "FG_A", 11: "FG_INPUT",
	29: "FG_LOCK",
}

type flagKey struct{ group, index int }

var bio2FlagNames = map[flagKey]string{
	{0, 0x19}:   "F_DIFFICULT",
	{1, 0}:      "F_PLAYER",
	{1, 1}:      "F_SCENARIO",
	{1, 5}:      "F_EASY",
	{1, 6}:      "F_BONUS",
	{1, 0x1B}:   "F_CUTSCENE",
	{0xB, 0x1F}: "F_QUESTION",
}

var bio2Variables = map[int]string{
	2:  "V_USED_ITEM",
	16: "V_TEMP",
	26: "V_CUT",
	27: "V_LAST_RDT",
}

// Bio2Table is the opcode table of Biohazard 2.
type Bio2Table struct {
	enemyNames []string
	itemNames  []string
}

func newBio2Table() *Bio2Table {
	t := &Bio2Table{
		enemyNames: make([]string, len(bio2EnemyNames)),
		itemNames:  make([]string, len(bio2ItemNames)),
	}
	for i, n := range bio2EnemyNames {
		t.enemyNames[i] = namify("ENEMY_", n)
	}
	for i, n := range bio2ItemNames {
		t.itemNames[i] = namify("ITEM_", n)
	}
	return t
}

func (t *Bio2Table) Version() Version { return Bio2 }

func (t *Bio2Table) FindOpcode(name string) (byte, bool) {
	for i, s := range bio2Signatures {
		if s == "" {
			continue
		}
		if ParseSignature(s).Mnemonic == name {
			return byte(i), true
		}
	}
	return 0, false
}

func (t *Bio2Table) GetOpcodeSignature(opcode byte) string {
	if int(opcode) < len(bio2Signatures) {
		return bio2Signatures[opcode]
	}
	return ""
}

func (t *Bio2Table) GetInstructionSize(opcode byte) int {
	if int(opcode) < len(bio2Sizes) {
		return bio2Sizes[opcode]
	}
	return 0
}

func (t *Bio2Table) IsOpcodeCondition(opcode byte) bool {
	switch opcode {
	case opCk, opCmp, opMemberCmp, opKeepItemCk, opWorkCopy:
		return true
	}
	return false
}

func (t *Bio2Table) GetInstructionConstant(opcode byte, index int, c *Cursor) (string, bool) {
	br := c.Fork()
	for i := range bio2Rules {
		r := &bio2Rules[i]
		if r.opcode != opcode || r.index != index {
			continue
		}
		tag, ok := br.PeekAt(r.tagAt)
		if !ok || !r.accepts(tag) {
			continue
		}
		if r.gosubAt != noGosub {
			if b, ok := br.PeekAt(r.gosubAt); !ok || b != opGosub {
				continue
			}
		}
		value, ok := br.PeekAt(r.valueAt)
		if !ok {
			return "", false
		}
		if r.kind == kindFlag {
			return FlagName(int(tag), int(value))
		}
		return t.GetConstant(r.kind, int(value))
	}
	return "", false
}

func (t *Bio2Table) GetConstant(kind byte, value int) (string, bool) {
	switch kind {
	case '0':
		return fmt.Sprintf("ID_AOT_%d", value), true
	case '1':
		return fmt.Sprintf("ID_OBJ_%d", value), true
	case '2':
		return fmt.Sprintf("ID_EM_%d", value), true
	case '3':
		return fmt.Sprintf("ID_MSG_%d", value), true
	case 'e':
		return lookup(t.enemyNames, value)
	case 't', 'T':
		switch value {
		case 255:
			return "LOCKED", true
		case 254:
			return "UNLOCK", true
		case 0:
			return "UNLOCKED", true
		}
		return lookup(t.itemNames, value)
	case 'c':
		return lookup(bio2Comparators, value)
	case 'o':
		return lookup(bio2Operators, value)
	case 's':
		return lookup(bio2SceNames, value)
	case 'a':
		return satMask(value)
	case 'w':
		return lookup(bio2WorkKinds, value)
	case 'g':
		if value == int(opGosub) {
			return "I_GOSUB", true
		}
	case 'p':
		switch value {
		case 0:
			return "main", true
		case 1:
			return "aot", true
		}
		if value > 0 && value < 256 {
			return fmt.Sprintf("main_%02X", value), true
		}
	case 'f':
		return lookup(bio2FlagGroups[:], value)
	case 'v':
		return variableName(value)
	}
	return "", false
}

func (t *Bio2Table) GetConstantValue(symbol string) (int, bool) {
	switch symbol {
	case "LOCKED":
		return 255, true
	case "UNLOCK":
		return 254, true
	case "UNLOCKED":
		return 0, true
	case "I_GOSUB":
		return int(opGosub), true
	case "main":
		return 0, true
	case "aot":
		return 1, true
	}

	// Bit 7 of an actor mask prints as a literal.
	if v, err := strconv.ParseInt(symbol, 0, 32); err == nil {
		return int(v), true
	}

	switch {
	case strings.HasPrefix(symbol, "ENEMY_"):
		return t.findConstantValue(symbol, 'e')
	case strings.HasPrefix(symbol, "ITEM_"):
		return t.findConstantValue(symbol, 't')
	case strings.HasPrefix(symbol, "CMP_"):
		return t.findConstantValue(symbol, 'c')
	case strings.HasPrefix(symbol, "OP_"):
		return t.findConstantValue(symbol, 'o')
	case strings.HasPrefix(symbol, "SCE_"):
		return t.findConstantValue(symbol, 's')
	case strings.HasPrefix(symbol, "SAT_"):
		return t.findConstantValue(symbol, 'a')
	case strings.HasPrefix(symbol, "WK_"):
		return t.findConstantValue(symbol, 'w')
	case strings.HasPrefix(symbol, "FG_"):
		return t.findConstantValue(symbol, 'f')
	case strings.HasPrefix(symbol, "F_"):
		for group := 0; group < 32; group++ {
			for index := 0; index < 256; index++ {
				if name, ok := FlagName(group, index); ok && name == symbol {
					return index, true
				}
			}
		}
	case strings.HasPrefix(symbol, "V_"):
		return t.findConstantValue(symbol, 'v')
	case strings.HasPrefix(symbol, "main_"):
		return t.findConstantValue(symbol, 'p')
	case strings.HasPrefix(symbol, "ID_AOT_"):
		return t.findConstantValue(symbol, '0')
	case strings.HasPrefix(symbol, "ID_OBJ_"):
		return t.findConstantValue(symbol, '1')
	case strings.HasPrefix(symbol, "ID_EM_"):
		return t.findConstantValue(symbol, '2')
	case strings.HasPrefix(symbol, "ID_MSG_"):
		return t.findConstantValue(symbol, '3')
	}
	return 0, false
}

func (t *Bio2Table) findConstantValue(symbol string, kind byte) (int, bool) {
	for i := 0; i < 256; i++ {
		if name, ok := t.GetConstant(kind, i); ok && name == symbol {
			return i, true
		}
	}
	return 0, false
}

// FlagName returns the name of a flag within a group, if it has one.
func FlagName(group, index int) (string, bool) {
	name, ok := bio2FlagNames[flagKey{group, index}]
	return name, ok
}

func variableName(index int) (string, bool) {
	if name, ok := bio2Variables[index]; ok {
		return name, true
	}
	if index < 0 || index > 0xFF {
		return "", false
	}
	return fmt.Sprintf("V_%02X", index), true
}

// satMask renders an actor mask: SAT_AUTO for zero, the bare name for a
// single bit, otherwise the set bits' names joined with " | ".
func satMask(value int) (string, bool) {
	if value == 0 {
		return "SAT_AUTO", true
	}
	if value < 0 || value > 0xFF {
		return "", false
	}
	var names []string
	for i := 0; i < 8; i++ {
		if value&(1<<i) != 0 {
			names = append(names, bio2SatNames[i])
		}
	}
	return strings.Join(names, " | "), true
}

func lookup(table []string, value int) (string, bool) {
	if value < 0 || value >= len(table) || table[value] == "" {
		return "", false
	}
	return table[value], true
}

// namify turns a display name into an identifier: upper case, every run of
// other characters collapsed to one underscore.
func namify(prefix, name string) string {
	var sb strings.Builder
	pending := false
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pending && sb.Len() != 0 {
				sb.WriteByte('_')
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	if sb.Len() == 0 {
		return ""
	}
	return prefix + sb.String()
}
