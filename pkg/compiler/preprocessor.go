package compiler

import (
	"github.com/sirupsen/logrus"

	"scdtool/pkg/diag"
)

// Macro represents a defined macro, either simple or function-like.
type Macro struct {
	Name   string
	Params []string // Empty for simple macros
	Body   []Token
}

// substitute replaces every parameter occurrence in the body with the
// corresponding argument tokens. Arguments are not expanded here.
func (m *Macro) substitute(args [][]Token) []Token {
	var out []Token
	for _, t := range m.Body {
		if t.Type == SYMBOL {
			if i := m.paramIndex(t.Lexeme); i != -1 {
				out = append(out, args[i]...)
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (m *Macro) paramIndex(name string) int {
	for i, p := range m.Params {
		if p == name {
			return i
		}
	}
	return -1
}

// Preprocessor expands #if/#elif/#else/#endif, #include, #define and macro
// invocations. One instance owns one macro table and must not be shared
// between concurrent compilations.
type Preprocessor struct {
	includer  FileIncluder
	errs      *diag.ErrorList
	macros    map[string]*Macro
	including map[string]bool
}

// expansion is the state threaded through one expansion path: the macros
// currently being expanded and whether defined() is recognised.
type expansion struct {
	active    map[*Macro]bool
	condition bool
}

func newExpansion(condition bool) *expansion {
	return &expansion{active: make(map[*Macro]bool), condition: condition}
}

type handler func(path string, r *TokenReader, ctx *expansion) ([]Token, bool)

// New creates a preprocessor reading files through includer and reporting to
// errs.
func New(includer FileIncluder, errs *diag.ErrorList) *Preprocessor {
	return &Preprocessor{
		includer:  includer,
		errs:      errs,
		macros:    make(map[string]*Macro),
		including: make(map[string]bool),
	}
}

// Define adds an object-like macro whose body is the scanned text of body.
func (p *Preprocessor) Define(name, body string) {
	tokens := Scan("<define>", body, p.errs)
	tokens = trimLayout(tokens[:len(tokens)-1])
	p.macros[name] = &Macro{Name: name, Body: tokens}
}

// IsDefined reports whether name currently has a #define.
func (p *Preprocessor) IsDefined(name string) bool {
	_, ok := p.macros[name]
	return ok
}

// Macro returns the definition of name, if any.
func (p *Preprocessor) Macro(name string) (*Macro, bool) {
	m, ok := p.macros[name]
	return m, ok
}

// Stream is the one-shot, pull-based output of Expand. Each call to Next may
// trigger recursive expansion; nothing is computed ahead of demand beyond the
// tokens produced by the directive being processed.
type Stream struct {
	p       *Preprocessor
	path    string
	r       *TokenReader
	pending []Token
	eof     Token
	done    bool
}

// Next implements TokenSource.
func (s *Stream) Next() Token {
	for len(s.pending) == 0 {
		if s.done {
			return s.eof
		}
		tokens, stop := s.p.step(s.path, s.r, false)
		if stop {
			s.done = true
			for _, t := range tokens {
				if t.Type == EOF {
					s.eof = t
				}
			}
		}
		for _, t := range tokens {
			if t.Type != EOF {
				s.pending = append(s.pending, t)
			}
		}
	}
	t := s.pending[0]
	s.pending = s.pending[1:]
	return t
}

// Collect drains the stream, returning every token including the final EOF.
func (s *Stream) Collect() []Token {
	var out []Token
	for {
		t := s.Next()
		out = append(out, t)
		if t.Type == EOF {
			return out
		}
	}
}

// Expand preprocesses the file at path. The returned stream can be consumed
// once; expanding again requires another call.
func (p *Preprocessor) Expand(path string) *Stream {
	s := &Stream{p: p, path: path, eof: Token{Type: EOF, Path: path, Line: 1, Column: 1}}
	data, err := p.includer.ReadFile(path)
	if err != nil {
		p.errs.Add(path, 0, 0, diag.IncludeNotFound, path, err)
		s.r = newSliceReader(nil)
		s.done = true
		return s
	}
	s.r = NewTokenReader(NewScanner(path, string(data), p.errs))
	return s
}

// step processes the token at the reader's position. It returns the
// replacement tokens and whether production must stop: at EOF, and when
// nested inside a conditional, at the #elif/#else/#endif closing the body.
func (p *Preprocessor) step(path string, r *TokenReader, nested bool) ([]Token, bool) {
	tok := r.Peek()
	if tok.Type == EOF {
		if nested {
			return nil, true
		}
		return []Token{r.Read()}, true
	}

	if tok.Type == DIRECTIVE {
		var code diag.Code
		switch tok.Lexeme {
		case "#elif":
			code = diag.FoundHashElifOutsideHashIf
		case "#else":
			code = diag.FoundHashElseOutsideHashIf
		case "#endif":
			code = diag.FoundHashEndifOutsideHashIf
		}
		if code != 0 {
			if nested {
				return nil, true
			}
			p.errorAt(tok, code)
			skipToNewline(r)
			return nil, false
		}
	}

	ctx := newExpansion(false)
	handlers := []handler{
		p.processIf,
		p.processInclude,
		p.processDefine,
		p.processSymbol,
	}
	for _, h := range handlers {
		if out, ok := h(path, r, ctx); ok {
			return out, false
		}
	}
	return []Token{r.Read()}, false
}

// expand re-scans an already captured token list, replacing macro
// invocations (and defined() while evaluating a condition).
func (p *Preprocessor) expand(path string, tokens []Token, ctx *expansion) []Token {
	r := newSliceReader(tokens)
	var out []Token
	for r.Peek().Type != EOF {
		if ctx.condition {
			if toks, ok := p.processDefined(path, r, ctx); ok {
				out = append(out, toks...)
				continue
			}
		}
		if toks, ok := p.processSymbol(path, r, ctx); ok {
			out = append(out, toks...)
			continue
		}
		out = append(out, r.Read())
	}
	return out
}

// readAll produces tokens until EOF, dropping the EOF itself.
func (p *Preprocessor) readAll(path string, r *TokenReader) []Token {
	var out []Token
	for {
		tokens, stop := p.step(path, r, false)
		for _, t := range tokens {
			if t.Type != EOF {
				out = append(out, t)
			}
		}
		if stop {
			return out
		}
	}
}

// ── #if / #elif / #else / #endif ─────────────────────────────────────────

func (p *Preprocessor) processIf(path string, r *TokenReader, _ *expansion) ([]Token, bool) {
	ifTok := r.Peek()
	if ifTok.Type != DIRECTIVE || ifTok.Lexeme != "#if" {
		return nil, false
	}
	r.Read()

	body := []Token{}
	matched := p.readCondition(path, r, ifTok)
	if matched {
		body = p.readBody(path, r)
	} else {
		skipNested(r)
	}

	for {
		tok := r.Read()
		if tok.Type == DIRECTIVE {
			switch tok.Lexeme {
			case "#elif":
				if matched {
					r.SkipLine()
					skipNested(r)
				} else if p.readCondition(path, r, tok) {
					matched = true
					body = p.readBody(path, r)
				} else {
					skipNested(r)
				}
				continue
			case "#else":
				p.readEndOfDirective(r)
				if matched {
					skipNested(r)
				} else {
					matched = true
					body = p.readBody(path, r)
				}
				continue
			case "#endif":
				p.readEndOfDirective(r)
				return body, true
			}
		}
		p.errorAt(ifTok, diag.NoMatchingHashEndifForHashIf)
		return body, true
	}
}

// readCondition consumes the rest of the directive line and evaluates it. The
// condition must expand to exactly one token; anything but "0" is true.
func (p *Preprocessor) readCondition(path string, r *TokenReader, directive Token) bool {
	var tokens []Token
	for {
		t := r.Read()
		if t.Type == NEWLINE || t.Type == EOF {
			break
		}
		tokens = append(tokens, t)
	}

	var cond []Token
	for _, t := range p.expand(path, tokens, newExpansion(true)) {
		if !t.IsLayout() {
			cond = append(cond, t)
		}
	}

	switch len(cond) {
	case 0:
		p.errorAt(directive, diag.InvalidExpression)
		return false
	case 1:
		return cond[0].Lexeme != "0"
	default:
		p.errorAt(cond[0], diag.InvalidExpression)
		return false
	}
}

// readBody collects the tokens of a taken branch up to the #elif, #else or
// #endif that closes it at the same nesting depth.
func (p *Preprocessor) readBody(path string, r *TokenReader) []Token {
	var out []Token
	for {
		tokens, stop := p.step(path, r, true)
		out = append(out, tokens...)
		if stop {
			return out
		}
	}
}

// readEndOfDirective checks nothing but layout follows #else or #endif.
func (p *Preprocessor) readEndOfDirective(r *TokenReader) {
	for {
		t := r.Read()
		switch {
		case t.IsLayout():
			continue
		case t.Type == NEWLINE || t.Type == EOF:
			return
		default:
			p.errorAt(t, diag.InvalidSyntax)
			r.SkipLine()
			return
		}
	}
}

// skipNested discards a branch that was not taken. Inner #if/#endif pairs are
// counted so that their directives do not end the skip early.
func skipNested(r *TokenReader) {
	nestLevel := 0
	for {
		t := r.Peek()
		if t.Type == EOF {
			return
		}
		if t.Type == DIRECTIVE {
			switch t.Lexeme {
			case "#if":
				nestLevel++
			case "#elif", "#else":
				if nestLevel == 0 {
					return
				}
			case "#endif":
				if nestLevel == 0 {
					return
				}
				nestLevel--
			}
		}
		r.Read()
	}
}

// ── #include ─────────────────────────────────────────────────────────────

func (p *Preprocessor) processInclude(path string, r *TokenReader, _ *expansion) ([]Token, bool) {
	tok := r.Peek()
	if tok.Type != DIRECTIVE || tok.Lexeme != "#include" {
		return nil, false
	}
	r.Read()
	r.SkipWhitespace()

	pathTok := r.Peek()
	lexeme := pathTok.Lexeme
	if pathTok.Type != STRING || len(lexeme) < 2 || lexeme[len(lexeme)-1] != '"' {
		p.errorAt(pathTok, diag.ExpectedPath)
		return []Token{}, true
	}
	r.Read()

	quoted := lexeme[1 : len(lexeme)-1]
	fullPath := p.includer.ResolveInclude(path, quoted)
	if p.including[fullPath] || fullPath == path {
		p.errorAt(pathTok, diag.RecursiveInclude, quoted)
		return []Token{}, true
	}

	data, err := p.includer.ReadFile(fullPath)
	if err != nil {
		p.errorAt(pathTok, diag.IncludeNotFound, quoted, err)
		return []Token{}, true
	}
	logrus.Debugf("including %s from %s", fullPath, path)

	p.including[path] = true
	defer delete(p.including, path)
	return p.readAll(fullPath, NewTokenReader(NewScanner(fullPath, string(data), p.errs))), true
}

// ── #define ──────────────────────────────────────────────────────────────

func (p *Preprocessor) processDefine(_ string, r *TokenReader, _ *expansion) ([]Token, bool) {
	tok := r.Peek()
	if tok.Type != DIRECTIVE || tok.Lexeme != "#define" {
		return nil, false
	}
	r.Read()
	r.SkipWhitespace()

	nameTok := r.Peek()
	if nameTok.Type != SYMBOL {
		p.errorAt(nameTok, diag.ExpectedMacroName)
		skipToNewline(r)
		return []Token{}, true
	}
	r.Read()

	// A parameter list must follow the name immediately; "NAME (x)" is an
	// object-like macro with a parenthesised body.
	var params []string
	if r.Peek().Type == LPAREN {
		var ok bool
		if params, ok = p.readMacroParameters(r); !ok {
			skipToNewline(r)
			return []Token{}, true
		}
	}

	body := p.readMacroBody(r)
	p.macros[nameTok.Lexeme] = &Macro{Name: nameTok.Lexeme, Params: params, Body: body}
	return []Token{}, true
}

func (p *Preprocessor) readMacroParameters(r *TokenReader) ([]string, bool) {
	r.Read() // (
	params := []string{}
	for {
		t := r.ReadNoWhitespace()
		if t.Type == RPAREN && len(params) == 0 {
			return params, true
		}
		if t.Type != SYMBOL {
			p.errorAt(t, diag.ExpectedOperand)
			return nil, false
		}
		params = append(params, t.Lexeme)

		t = r.ReadNoWhitespace()
		switch t.Type {
		case COMMA:
		case RPAREN:
			return params, true
		default:
			p.errorAt(t, diag.ExpectedOperand)
			return nil, false
		}
	}
}

// readMacroBody captures the body up to the first unescaped newline. A
// trailing backslash continues the body on the next line; comments are
// dropped.
func (p *Preprocessor) readMacroBody(r *TokenReader) []Token {
	r.SkipWhitespace()
	var tokens []Token
	continueLine := false
	for {
		t := r.Peek()
		switch t.Type {
		case EOF:
			if continueLine {
				p.errorAt(t, diag.UnexpectedEndOfInput)
			}
			return trimLayout(tokens)
		case BACKSLASH:
			r.Read()
			continueLine = true
		case COMMENT:
			r.Read()
		case NEWLINE:
			if !continueLine {
				return trimLayout(tokens)
			}
			r.Read()
			continueLine = false
		case WHITESPACE:
			r.Read()
			tokens = append(tokens, t)
		default:
			r.Read()
			continueLine = false
			tokens = append(tokens, t)
		}
	}
}

// ── macro invocation ─────────────────────────────────────────────────────

func (p *Preprocessor) processSymbol(path string, r *TokenReader, ctx *expansion) ([]Token, bool) {
	tok := r.Peek()
	if tok.Type != SYMBOL {
		return nil, false
	}
	macro, ok := p.macros[tok.Lexeme]
	if !ok {
		return nil, false
	}
	r.Read()

	if ctx.active[macro] {
		p.errorAt(tok, diag.RecursiveMacro, macro.Name)
		if next, n := r.PeekNoWhitespace(); len(macro.Params) != 0 && next.Type == LPAREN {
			for i := 0; i <= n; i++ {
				r.Read()
			}
			readArguments(r)
		}
		return []Token{}, true
	}
	ctx.active[macro] = true
	defer delete(ctx.active, macro)

	next, n := r.PeekNoWhitespace()
	if next.Type != LPAREN {
		if len(macro.Params) == 0 {
			return p.expand(path, macro.Body, ctx), true
		}
		p.errorAt(next, diag.ExpectedOpenParen)
		return []Token{}, true
	}
	for i := 0; i <= n; i++ {
		r.Read()
	}

	args, ok := readArguments(r)
	if !ok {
		p.errorAt(tok, diag.ExpectedCloseParen)
		return []Token{}, true
	}
	if len(args) != len(macro.Params) {
		p.errorAt(tok, diag.IncorrectNumberOfOperands, len(macro.Params), len(args))
		return []Token{}, true
	}
	return p.expand(path, macro.substitute(args), ctx), true
}

// readArguments splits an invocation's argument list on top-level commas. The
// opening parenthesis has already been consumed. Newlines and comments inside
// the list become plain whitespace so an invocation spanning several lines
// still expands into one statement.
func readArguments(r *TokenReader) ([][]Token, bool) {
	var args [][]Token
	var arg []Token
	sawComma := false
	nestLevel := 1
	for {
		t := r.Read()
		switch {
		case t.Type == EOF:
			return nil, false
		case t.Type == LPAREN:
			nestLevel++
			arg = append(arg, t)
		case t.Type == RPAREN:
			nestLevel--
			if nestLevel == 0 {
				arg = trimLayout(arg)
				if len(arg) != 0 || sawComma {
					args = append(args, arg)
				}
				return args, true
			}
			arg = append(arg, t)
		case t.Type == COMMA && nestLevel == 1:
			args = append(args, trimLayout(arg))
			arg = nil
			sawComma = true
		case t.Type == NEWLINE || t.Type == COMMENT:
			t.Type, t.Lexeme = WHITESPACE, " "
			arg = append(arg, t)
		default:
			arg = append(arg, t)
		}
	}
}

func (p *Preprocessor) processDefined(_ string, r *TokenReader, _ *expansion) ([]Token, bool) {
	tok := r.Peek()
	if tok.Type != SYMBOL || tok.Lexeme != "defined" {
		return nil, false
	}
	r.Read()

	t := r.ReadNoWhitespace()
	if t.Type != LPAREN {
		p.errorAt(t, diag.ExpectedOpenParen)
		return []Token{}, true
	}
	name := r.ReadNoWhitespace()
	if name.Type != SYMBOL {
		p.errorAt(name, diag.ExpectedMacroName)
		return []Token{}, true
	}
	t = r.ReadNoWhitespace()
	if t.Type != RPAREN {
		p.errorAt(t, diag.ExpectedCloseParen)
		return []Token{}, true
	}

	value := "0"
	if p.IsDefined(name.Lexeme) {
		value = "1"
	}
	return []Token{{Type: NUMBER, Lexeme: value, Path: name.Path, Line: name.Line, Column: name.Column}}, true
}

func (p *Preprocessor) errorAt(t Token, code diag.Code, args ...any) {
	p.errs.Add(t.Path, t.Line, t.Column, code, args...)
}

// skipToNewline discards the rest of the line but leaves the newline itself
// in the stream.
func skipToNewline(r *TokenReader) {
	for {
		t := r.Peek()
		if t.Type == NEWLINE || t.Type == EOF {
			return
		}
		r.Read()
	}
}

// trimLayout strips leading and trailing whitespace tokens.
func trimLayout(tokens []Token) []Token {
	for len(tokens) != 0 && tokens[0].Type == WHITESPACE {
		tokens = tokens[1:]
	}
	for len(tokens) != 0 && tokens[len(tokens)-1].Type == WHITESPACE {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
