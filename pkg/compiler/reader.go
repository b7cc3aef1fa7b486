package compiler

// TokenSource is anything that can produce tokens on demand. Sources end with
// an EOF token and keep returning EOF afterwards.
type TokenSource interface {
	Next() Token
}

// sliceSource replays a fixed token list, then reports EOF.
type sliceSource struct {
	tokens []Token
	pos    int
	eof    Token
}

func newSliceSource(tokens []Token) *sliceSource {
	s := &sliceSource{tokens: tokens, eof: Token{Type: EOF}}
	if n := len(tokens); n != 0 {
		last := tokens[n-1]
		s.eof.Path, s.eof.Line, s.eof.Column = last.Path, last.Line, last.Column+len([]rune(last.Lexeme))
	}
	return s
}

func (s *sliceSource) Next() Token {
	if s.pos >= len(s.tokens) {
		return s.eof
	}
	t := s.tokens[s.pos]
	s.pos++
	return t
}

// TokenReader is a pull cursor over a TokenSource with explicit lookahead.
// Nothing is pulled from the source until it is peeked or read.
type TokenReader struct {
	src       TokenSource
	lookahead []Token
}

// NewTokenReader wraps src.
func NewTokenReader(src TokenSource) *TokenReader {
	return &TokenReader{src: src}
}

func newSliceReader(tokens []Token) *TokenReader {
	return NewTokenReader(newSliceSource(tokens))
}

func (r *TokenReader) fill(n int) {
	for len(r.lookahead) <= n {
		r.lookahead = append(r.lookahead, r.src.Next())
	}
}

// Peek returns the next token without consuming it.
func (r *TokenReader) Peek() Token {
	return r.PeekAt(0)
}

// PeekAt returns the token n positions ahead without consuming anything.
func (r *TokenReader) PeekAt(n int) Token {
	r.fill(n)
	return r.lookahead[n]
}

// Read consumes and returns the next token. Reading at EOF returns EOF again.
func (r *TokenReader) Read() Token {
	t := r.Peek()
	if t.Type != EOF {
		r.lookahead = r.lookahead[1:]
	}
	return t
}

// SkipWhitespace consumes whitespace tokens.
func (r *TokenReader) SkipWhitespace() {
	for r.Peek().Type == WHITESPACE {
		r.Read()
	}
}

// ReadNoWhitespace skips whitespace, then consumes and returns the next token.
func (r *TokenReader) ReadNoWhitespace() Token {
	r.SkipWhitespace()
	return r.Read()
}

// PeekNoWhitespace returns the first non-whitespace token ahead together with
// its lookahead distance, consuming nothing.
func (r *TokenReader) PeekNoWhitespace() (Token, int) {
	n := 0
	for r.PeekAt(n).Type == WHITESPACE {
		n++
	}
	return r.PeekAt(n), n
}

// SkipLine consumes tokens up to and including the next newline.
func (r *TokenReader) SkipLine() {
	for {
		t := r.Read()
		if t.Type == NEWLINE || t.Type == EOF {
			return
		}
	}
}
