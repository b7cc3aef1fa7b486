package compiler

import "scdtool/pkg/diag"

// Scanner turns source text into tokens one at a time. It never looks further
// ahead than two runes and keeps all layout (whitespace, newlines, comments)
// as tokens so that the preprocessor can make line-sensitive decisions.
type Scanner struct {
	path string
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based source column
	done bool
	errs *diag.ErrorList
}

// NewScanner creates a scanner over src. path is only used to label tokens and
// diagnostics.
func NewScanner(path, src string, errs *diag.ErrorList) *Scanner {
	return &Scanner{path: path, src: []rune(src), line: 1, col: 1, errs: errs}
}

// peek returns the rune at the current position without advancing.
func (s *Scanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (s *Scanner) peek2() rune {
	if s.pos+1 >= len(s.src) {
		return 0
	}
	return s.src[s.pos+1]
}

// advance consumes one rune and returns it.
func (s *Scanner) advance() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	r := s.src[s.pos]
	s.pos++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) token(tt TokenType, start, line, col int) Token {
	return Token{
		Type:   tt,
		Lexeme: string(s.src[start:s.pos]),
		Path:   s.path,
		Line:   line,
		Column: col,
	}
}

func (s *Scanner) errorAt(line, col int, code diag.Code, args ...any) {
	if s.errs != nil {
		s.errs.Add(s.path, line, col, code, args...)
	}
}

// Next returns the next token. After the single EOF token has been returned,
// further calls keep returning EOF.
func (s *Scanner) Next() Token {
	start, line, col := s.pos, s.line, s.col
	if s.atEnd() {
		s.done = true
		return Token{Type: EOF, Path: s.path, Line: line, Column: col}
	}

	ch := s.peek()
	switch {
	case ch == '\n':
		s.advance()
		return s.token(NEWLINE, start, line, col)
	case ch == ' ' || ch == '\t' || ch == '\r':
		for !s.atEnd() {
			r := s.peek()
			if r != ' ' && r != '\t' && r != '\r' {
				break
			}
			s.advance()
		}
		return s.token(WHITESPACE, start, line, col)
	case ch == ';' || (ch == '/' && s.peek2() == '/'):
		s.skipLineComment()
		return s.token(COMMENT, start, line, col)
	case ch == '/' && s.peek2() == '*':
		s.skipBlockComment(line, col)
		return s.token(COMMENT, start, line, col)
	case ch == '#' && isIdentStart(s.peek2()):
		s.advance() // #
		s.scanIdentRest()
		return s.token(DIRECTIVE, start, line, col)
	case ch == '.' && isIdentStart(s.peek2()):
		s.advance() // .
		s.scanIdentRest()
		return s.token(SYMBOL, start, line, col)
	case isIdentStart(ch):
		s.scanIdentRest()
		return s.token(SYMBOL, start, line, col)
	case ch >= '0' && ch <= '9':
		s.scanNumber()
		return s.token(NUMBER, start, line, col)
	case ch == '"':
		s.scanString(line, col)
		return s.token(STRING, start, line, col)
	}

	s.advance()
	switch ch {
	case '(':
		return s.token(LPAREN, start, line, col)
	case ')':
		return s.token(RPAREN, start, line, col)
	case ',':
		return s.token(COMMA, start, line, col)
	case '\\':
		return s.token(BACKSLASH, start, line, col)
	default:
		return s.token(PUNCT, start, line, col)
	}
}

// Done reports whether the EOF token has been produced.
func (s *Scanner) Done() bool {
	return s.done
}

// skipLineComment consumes everything up to, but not including, end-of-line.
func (s *Scanner) skipLineComment() {
	for !s.atEnd() && s.peek() != '\n' {
		s.advance()
	}
}

// skipBlockComment consumes everything up to and including the closing "*/".
func (s *Scanner) skipBlockComment(line, col int) {
	s.advance() // /
	s.advance() // *
	for !s.atEnd() {
		if s.peek() == '*' && s.peek2() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
	s.errorAt(line, col, diag.UnterminatedComment)
}

func (s *Scanner) scanIdentRest() {
	for !s.atEnd() && isIdentPart(s.peek()) {
		s.advance()
	}
}

// scanNumber collects a decimal or 0x-prefixed hex literal. Trailing letters
// and digits are swallowed into the same token so that "12ab" is reported by
// the consumer as one bad literal instead of two tokens.
func (s *Scanner) scanNumber() {
	if s.peek() == '0' && (s.peek2() == 'x' || s.peek2() == 'X') {
		s.advance()
		s.advance()
	}
	for !s.atEnd() && isIdentPart(s.peek()) {
		s.advance()
	}
}

// scanString collects a string literal "...". Escapes are kept verbatim; the
// lexeme includes both quotes.
func (s *Scanner) scanString(line, col int) {
	s.advance() // opening "
	for !s.atEnd() {
		r := s.peek()
		if r == '\n' {
			break
		}
		s.advance()
		if r == '\\' && !s.atEnd() && s.peek() != '\n' {
			s.advance()
			continue
		}
		if r == '"' {
			return
		}
	}
	s.errorAt(line, col, diag.UnterminatedString)
}

// Scan tokenises src completely and returns all tokens including the final
// EOF token.
func Scan(path, src string, errs *diag.ErrorList) []Token {
	s := NewScanner(path, src, errs)
	var tokens []Token
	for {
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
