// Package lexer implements the lexical analysis (tokenization) for mint.
package lexer

import (
	"mint-lang/internal/diag"
	"mint-lang/internal/span"
	"mint-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// curPos returns the current position as a span.Pos.
func (l *Lexer) curPos() span.Pos {
	return span.Pos{Offset: l.pos, Line: l.line, Column: l.col}
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Pos) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

// skipWhitespace skips spaces and tabs (not newlines).
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

// skipLineComment skips from the comment marker to end of line.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
}

// addError records a diagnostic error.
func (l *Lexer) addError(code string, s span.Span, msg string) {
	l.diags = append(l.diags, diag.Errorf(code, s, "%s", msg))
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	l.skipWhitespace()

	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Lexeme: "", Span: span.At(l.curPos())}
	}

	start := l.curPos()
	ch := l.peek()

	// Newline: a statement separator, not whitespace.
	if ch == '\n' {
		l.advance()
		return token.Token{Kind: token.NEWLINE, Lexeme: "\\n", Span: l.makeSpan(start)}
	}

	// Line comment: //
	if ch == '/' && l.peekNext() == '/' {
		l.skipLineComment()
		return l.nextToken()
	}

	// Hash comment: #
	if ch == '#' {
		l.skipLineComment()
		return l.nextToken()
	}

	// String literal
	if ch == '"' {
		return l.readString(start)
	}

	// Number literal (possibly signed)
	if isDigit(ch) || (ch == '-' && isDigit(l.peekNext())) {
		return l.readNumber(start)
	}

	// Identifier or keyword
	if isIdentStart(ch) {
		return l.readIdentifier(start)
	}

	// Operators and delimiters
	return l.readOperator(start)
}

// readString reads a string literal (double-quoted).
func (l *Lexer) readString(start span.Pos) token.Token {
	l.advance() // skip opening "
	var value []byte

	for l.pos < len(l.source) {
		ch := l.peek()
		if ch == '"' {
			l.advance() // skip closing "
			return token.Token{
				Kind:   token.STRING,
				Lexeme: string(value),
				Span:   l.makeSpan(start),
			}
		}
		if ch == '\n' {
			l.addError("E1001", l.makeSpan(start), "unterminated string literal")
			return token.Token{Kind: token.STRING, Lexeme: string(value), Span: l.makeSpan(start)}
		}
		if ch == '\\' {
			l.advance()
			esc := l.peek()
			switch esc {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case '\\':
				value = append(value, '\\')
			case '"':
				value = append(value, '"')
			case '0':
				value = append(value, 0)
			default:
				l.addError("E1002", l.makeSpan(start), "unknown escape sequence '\\"+string(esc)+"'")
				value = append(value, esc)
			}
			l.advance()
			continue
		}
		value = append(value, l.advance())
	}

	l.addError("E1001", l.makeSpan(start), "unterminated string literal")
	return token.Token{Kind: token.STRING, Lexeme: string(value), Span: l.makeSpan(start)}
}

// readNumber reads a decimal integer literal.
func (l *Lexer) readNumber(start span.Pos) token.Token {
	startOffset := l.pos
	if l.peek() == '-' {
		l.advance()
	}
	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.advance()
	}
	return token.Token{
		Kind:   token.INT,
		Lexeme: l.source[startOffset:l.pos],
		Span:   l.makeSpan(start),
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Pos) token.Token {
	startOffset := l.pos
	for l.pos < len(l.source) && isIdentPart(l.source[l.pos]) {
		l.advance()
	}
	lexeme := l.source[startOffset:l.pos]
	return token.Token{
		Kind:   token.LookupIdent(lexeme),
		Lexeme: lexeme,
		Span:   l.makeSpan(start),
	}
}

// readOperator reads a single-character operator or delimiter.
func (l *Lexer) readOperator(start span.Pos) token.Token {
	ch := l.advance()

	var kind token.Kind
	switch ch {
	case '=':
		kind = token.ASSIGN
	case '.':
		kind = token.DOT
	case '(':
		kind = token.LPAREN
	case ')':
		kind = token.RPAREN
	case '{':
		kind = token.LBRACE
	case '}':
		kind = token.RBRACE
	case ';':
		kind = token.SEMICOLON
	default:
		s := l.makeSpan(start)
		l.addError("E1003", s, "unexpected character '"+string(ch)+"'")
		return token.Token{Kind: token.ILLEGAL, Lexeme: string(ch), Span: s}
	}

	return token.Token{Kind: kind, Lexeme: string(ch), Span: l.makeSpan(start)}
}

// ---- character classes ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
