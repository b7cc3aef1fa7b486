package compiler

import "fmt"

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	DIRECTIVE // #if, #elif, #else, #endif, #include, #define
	SYMBOL    // mnemonic, macro or constant name
	NUMBER    // decimal or hex integer literal
	STRING    // string literal "...", quotes included

	// Punctuation the preprocessor cares about
	LPAREN // (
	RPAREN // )
	COMMA  // ,
	PUNCT  // any other single character: | - + : etc.

	// Layout
	WHITESPACE // run of spaces, tabs and carriage returns
	NEWLINE    // \n
	COMMENT    // ; ... // ... /* ... */
	BACKSLASH  // \ line continuation
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:        "EOF",
	DIRECTIVE:  "DIRECTIVE",
	SYMBOL:     "SYMBOL",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	COMMA:      "COMMA",
	PUNCT:      "PUNCT",
	WHITESPACE: "WHITESPACE",
	NEWLINE:    "NEWLINE",
	COMMENT:    "COMMENT",
	BACKSLASH:  "BACKSLASH",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Scanner. Tokens are values and
// are never modified once produced.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Path   string // file the token came from
	Line   int    // 1-based source line
	Column int    // 1-based source column
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  %s:%d:%d", t.Type, t.Lexeme, t.Path, t.Line, t.Column)
}

// IsLayout reports whether the token only carries layout (whitespace or a
// comment) and no meaning for the assembler.
func (t Token) IsLayout() bool {
	return t.Type == WHITESPACE || t.Type == COMMENT
}
