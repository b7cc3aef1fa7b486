// Package diag collects the diagnostics produced while preprocessing,
// assembling and disassembling scripts.
//
// Every stage appends to an ErrorList and keeps going where it can; the caller
// inspects the list afterwards and treats a non-empty list as failure.
package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Code identifies a class of diagnostic.
type Code int

const (
	// Lexical
	UnterminatedString Code = 100 + iota
	UnterminatedComment
	UnexpectedEndOfInput
)

const (
	// Preprocessor
	InvalidExpression Code = 200 + iota
	InvalidSyntax
	FoundHashElifOutsideHashIf
	FoundHashElseOutsideHashIf
	FoundHashEndifOutsideHashIf
	NoMatchingHashEndifForHashIf
	ExpectedPath
	ExpectedMacroName
	ExpectedOperand
	ExpectedOpenParen
	ExpectedCloseParen
	IncorrectNumberOfOperands
	RecursiveMacro
	IncludeNotFound
	RecursiveInclude
)

const (
	// Assembler
	UnknownOpcode Code = 300 + iota
	UnknownSymbol
	OperandOutOfRange
	UnexpectedToken
	UnknownDirective
	DuplicateProcedure
	VersionMismatch
	InvalidNumber
)

const (
	// Disassembler
	UnknownInstructionSize Code = 400 + iota
	TruncatedInstruction
)

var messages = map[Code]string{
	UnterminatedString:   "unterminated string literal",
	UnterminatedComment:  "unterminated block comment",
	UnexpectedEndOfInput: "unexpected end of input",

	InvalidExpression:            "invalid expression",
	InvalidSyntax:                "invalid syntax",
	FoundHashElifOutsideHashIf:   "#elif found outside of #if",
	FoundHashElseOutsideHashIf:   "#else found outside of #if",
	FoundHashEndifOutsideHashIf:  "#endif found outside of #if",
	NoMatchingHashEndifForHashIf: "no matching #endif for #if",
	ExpectedPath:                 "expected a quoted path",
	ExpectedMacroName:            "expected macro name",
	ExpectedOperand:              "expected operand",
	ExpectedOpenParen:            "expected '('",
	ExpectedCloseParen:           "expected ')'",
	IncorrectNumberOfOperands:    "incorrect number of operands, expected %d but got %d",
	RecursiveMacro:               "recursive expansion of macro '%s'",
	IncludeNotFound:              "unable to include '%s': %v",
	RecursiveInclude:             "'%s' includes itself",

	UnknownOpcode:      "unknown opcode '%s'",
	UnknownSymbol:      "unknown symbol '%s'",
	OperandOutOfRange:  "operand %d out of range for type '%c'",
	UnexpectedToken:    "unexpected '%s'",
	UnknownDirective:   "unknown directive '%s'",
	DuplicateProcedure: "procedure '%s' already defined",
	VersionMismatch:    "script targets version %d but table is version %d",
	InvalidNumber:      "invalid number '%s'",

	UnknownInstructionSize: "opcode 0x%02X at offset 0x%04X has no known size",
	TruncatedInstruction:   "instruction 0x%02X at offset 0x%04X needs %d bytes but only %d remain",
}

// Message returns the format string for a code.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "unknown error"
}

func (c Code) String() string {
	return fmt.Sprintf("E%03d", int(c))
}

// Error is a single diagnostic anchored to a source position.
type Error struct {
	Path    string
	Line    int
	Column  int
	Code    Code
	Message string
}

func (e Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s(%d,%d): error %s: %s", e.Path, e.Line, e.Column, e.Code, e.Message)
}

// ErrorList is an ordered, append-only diagnostic sink. It is not safe for
// concurrent use; every compilation owns its own list.
type ErrorList struct {
	Errors []Error
}

// Add records a diagnostic, formatting the code's message with args.
func (l *ErrorList) Add(path string, line, column int, code Code, args ...any) {
	msg := code.Message()
	if len(args) != 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.Errors = append(l.Errors, Error{
		Path:    path,
		Line:    line,
		Column:  column,
		Code:    code,
		Message: msg,
	})
}

// Count returns the number of recorded diagnostics.
func (l *ErrorList) Count() int {
	return len(l.Errors)
}

// Has reports whether any diagnostic with the given code was recorded.
func (l *ErrorList) Has(code Code) bool {
	for _, e := range l.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Err joins all diagnostics into one error, or returns nil when the list is
// empty.
func (l *ErrorList) Err() error {
	if len(l.Errors) == 0 {
		return nil
	}

	// `multierror` appends new lines which we need to remove to prevent
	// blank lines when printing the error.
	var multiE *multierror.Error
	for _, e := range l.Errors {
		multiE = multierror.Append(multiE, e)
	}
	return errors.New(strings.TrimSpace(multiE.ErrorOrNil().Error()))
}
