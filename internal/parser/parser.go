// Package parser implements the syntax analysis for mint.
// mint is statement-oriented with no operator expressions, so a plain
// recursive descent over the token stream is enough.
package parser

import (
	"fmt"
	"strconv"

	"mint-lang/internal/ast"
	"mint-lang/internal/diag"
	"mint-lang/internal/span"
	"mint-lang/internal/token"
)

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseProgram parses the entire file and returns the AST root and diagnostics.
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	program := &ast.Program{}
	startPos := p.peek().Span.Start

	p.skipSep()
	for !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Body = append(program.Body, stmt)
		}
		p.skipSep()
	}

	endPos := p.peek().Span.End
	program.Span = span.Span{Start: startPos, End: endPos}
	return program, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

// peekAhead returns the token n positions ahead of current.
func (p *Parser) peekAhead(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error("E2001", tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// skipSep skips NEWLINE and SEMICOLON tokens (statement separators).
func (p *Parser) skipSep() {
	for p.match(token.NEWLINE, token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.match(token.NEWLINE, token.SEMICOLON) {
			p.advance()
			return
		}
		if p.check(token.RBRACE) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statements
// ============================================================

// parseStatement parses a single statement, or returns nil after recording
// a diagnostic and recovering.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.peekKind() {
	case token.LBRACE:
		return p.parseBlock()
	case token.IDENT:
		// ident '(' ... is an invocation; anything else starts a target.
		if p.peekAhead(1).Kind == token.LPAREN {
			return p.parseExprStmt()
		}
		return p.parseAssignment()
	default:
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("expected statement, got '%s'", tok.Kind))
		p.synchronize()
		return nil
	}
}

// parseBlock parses { stmt* }.
func (p *Parser) parseBlock() ast.Stmt {
	open, _ := p.expect(token.LBRACE)
	block := &ast.Block{}

	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.skipSep()
	}

	closing, ok := p.expect(token.RBRACE)
	end := closing.Span.End
	if !ok {
		end = p.peek().Span.End
	}
	block.Span = span.Span{Start: open.Span.Start, End: end}
	return block
}

// parseExprStmt parses an invocation used as a statement.
func (p *Parser) parseExprStmt() ast.Stmt {
	inv := p.parseInvocation()
	if inv == nil {
		return nil
	}
	return &ast.ExprStmt{
		StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: inv.Span}},
		Expr:     inv,
	}
}

// parseInvocation parses ident '(' value ')'.
func (p *Parser) parseInvocation() *ast.Invocation {
	callee, _ := p.expect(token.IDENT)
	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		return nil
	}
	arg := p.parseValue()
	closing, ok := p.expect(token.RPAREN)
	if arg == nil || !ok {
		p.synchronize()
		return nil
	}
	return &ast.Invocation{
		ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{
			Span: span.Span{Start: callee.Span.Start, End: closing.Span.End},
		}},
		Callee: callee.Lexeme,
		Arg:    arg,
	}
}

// parseAssignment parses the three target-led statement forms:
//
//	target = new ident     (type instantiation)
//	target = value         (value assignment)
//	target add/remove value (list mutation)
func (p *Parser) parseAssignment() ast.Stmt {
	target := p.parseTarget()
	if target == nil {
		p.synchronize()
		return nil
	}

	switch {
	case p.check(token.ASSIGN):
		p.advance()
		if p.check(token.KW_NEW) {
			p.advance()
			typeName, ok := p.expect(token.IDENT)
			if !ok {
				p.synchronize()
				return nil
			}
			return &ast.NewStmt{
				StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{
					Span: span.Span{Start: target.GetSpan().Start, End: typeName.Span.End},
				}},
				Target:   target,
				TypeName: typeName.Lexeme,
			}
		}
		value := p.parseValue()
		if value == nil {
			p.synchronize()
			return nil
		}
		return &ast.AssignStmt{
			StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{
				Span: span.Span{Start: target.GetSpan().Start, End: value.GetSpan().End},
			}},
			Target: target,
			Value:  value,
		}

	case p.peekKind().IsListOp():
		op := p.advance()
		operand := p.parseValue()
		if operand == nil {
			p.synchronize()
			return nil
		}
		return &ast.ListOpStmt{
			StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{
				Span: span.Span{Start: target.GetSpan().Start, End: operand.GetSpan().End},
			}},
			Target:  target,
			Op:      op.Lexeme,
			Operand: operand,
		}

	default:
		tok := p.peek()
		p.error("E2003", tok.Span,
			fmt.Sprintf("expected '=', 'add' or 'remove' after variable, got '%s'", tok.Kind))
		p.synchronize()
		return nil
	}
}

// parseTarget parses a scalar name or a two-part attribute path.
func (p *Parser) parseTarget() ast.Target {
	name, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}

	if !p.check(token.DOT) {
		return &ast.ScalarRef{
			ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: name.Span}},
			Name:     name.Lexeme,
		}
	}

	p.advance() // consume '.'
	attr, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	return &ast.AttrRef{
		ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{
			Span: span.Span{Start: name.Span.Start, End: attr.Span.End},
		}},
		Object: name.Lexeme,
		Attr:   attr.Lexeme,
	}
}

// parseValue parses a literal or variable read.
func (p *Parser) parseValue() ast.Expr {
	switch p.peekKind() {
	case token.INT:
		tok := p.advance()
		value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.error("E2004", tok.Span, fmt.Sprintf("invalid integer literal %q", tok.Lexeme))
			return nil
		}
		return &ast.IntLiteral{
			ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: tok.Span}},
			Value:    value,
		}
	case token.STRING:
		tok := p.advance()
		return &ast.StringLiteral{
			ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: tok.Span}},
			Value:    tok.Lexeme,
		}
	case token.IDENT:
		return p.parseTarget()
	default:
		tok := p.peek()
		p.error("E2005", tok.Span, fmt.Sprintf("expected value, got '%s'", tok.Kind))
		return nil
	}
}
