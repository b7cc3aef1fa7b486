package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorListAdd(t *testing.T) {
	var errs ErrorList
	assert.NoError(t, errs.Err())

	errs.Add("room.s", 3, 7, IncorrectNumberOfOperands, 2, 1)
	errs.Add("room.s", 9, 1, FoundHashEndifOutsideHashIf)

	require.Equal(t, 2, errs.Count())
	assert.Equal(t, "incorrect number of operands, expected 2 but got 1", errs.Errors[0].Message)
	assert.Equal(t, "room.s(3,7): error E211: incorrect number of operands, expected 2 but got 1", errs.Errors[0].Error())
	assert.True(t, errs.Has(FoundHashEndifOutsideHashIf))
	assert.False(t, errs.Has(RecursiveMacro))

	err := errs.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "#endif found outside of #if")
}

func TestErrorWithoutPath(t *testing.T) {
	e := Error{Code: UnknownInstructionSize, Message: "boom"}
	assert.Equal(t, "error E400: boom", e.Error())
}

func TestUnknownCodeMessage(t *testing.T) {
	assert.Equal(t, "unknown error", Code(999).Message())
	assert.Equal(t, "E999", Code(999).String())
}
