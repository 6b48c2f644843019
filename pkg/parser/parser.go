// Package parser implements the babu language parser.
package parser

import (
	"fmt"
	"strconv"

	"github.com/babushona/babu/pkg/ast"
	"github.com/babushona/babu/pkg/diagnostics"
	"github.com/babushona/babu/pkg/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse tokenizes source and parses it into a parse tree.
// A non-empty diagnostic slice means the program must not be executed.
func Parse(source, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			return nil, []diagnostics.Diagnostic{le.Diag}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.ELex, err.Error(), nil, "")}
	}

	p := &parser{tokens: tokens, pos: 0}
	prog := p.parseProgram()
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return prog, nil
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.TokenType {
	return p.current().Type
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ lexer.TokenType) (lexer.Token, bool) {
	tok := p.current()
	if tok.Type != typ {
		p.addError(fmt.Sprintf("expected %s, got %s", tokenName(typ), describe(tok)), &tok.Span)
		return tok, false
	}
	return p.advance(), true
}

func (p *parser) addError(msg string, span *ast.Span) {
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.EParse, msg, span, ""))
}

func (p *parser) spanFrom(start ast.Span) ast.Span {
	cur := p.current().Span
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   cur.StartLine,
		EndCol:    cur.StartCol,
	}
}

func (p *parser) spanFromTo(start, end ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.TokEOF {
		return "end of file"
	}
	return fmt.Sprintf("'%s'", tok.Value)
}

func tokenName(t lexer.TokenType) string {
	switch t {
	case lexer.TokLBrace:
		return "'{'"
	case lexer.TokRBrace:
		return "'}'"
	case lexer.TokLParen:
		return "'('"
	case lexer.TokRParen:
		return "')'"
	case lexer.TokEquals:
		return "'='"
	case lexer.TokTak:
		return "'tak'"
	case lexer.TokIdent:
		return "identifier"
	case lexer.TokStringLit:
		return "string"
	case lexer.TokIntLit:
		return "integer"
	case lexer.TokEOF:
		return "end of file"
	default:
		return fmt.Sprintf("token(%d)", t)
	}
}

// --- Program ---

func (p *parser) parseProgram() *ast.Program {
	startSpan := p.current().Span

	var stmts []ast.Stmt
	for p.peek() != lexer.TokEOF {
		stmt := p.parseStmt()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}

	return &ast.Program{
		Span:       p.spanFrom(startSpan),
		Statements: stmts,
	}
}

// --- Statements ---

func (p *parser) parseStmt() ast.Stmt {
	var stmt ast.Stmt
	switch p.peek() {
	case lexer.TokPrint:
		if s := p.parsePrintStmt(); s != nil {
			stmt = s
		}
	case lexer.TokDeclare:
		if s := p.parseVarDecl(); s != nil {
			stmt = s
		}
	case lexer.TokInput:
		if s := p.parseInputStmt(); s != nil {
			stmt = s
		}
	case lexer.TokIf:
		if s := p.parseIfStmt(); s != nil {
			stmt = s
		}
	case lexer.TokFor:
		if s := p.parseForLoopStmt(); s != nil {
			stmt = s
		}
	case lexer.TokLBrace:
		if s := p.parseBlock(); s != nil {
			stmt = s
		}
	case lexer.TokElseIf, lexer.TokElse:
		tok := p.current()
		p.addError(fmt.Sprintf("'%s' without a preceding 'agar babu'", tok.Value), &tok.Span)
		return nil
	default:
		tok := p.current()
		hint := ""
		if full := lexer.PhraseFor(tok.Value); tok.Type == lexer.TokIdent && full != "" {
			hint = fmt.Sprintf("keywords are two words; did you mean '%s'?", full)
		}
		p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.EParse,
			fmt.Sprintf("expected a statement, got %s", describe(tok)), &tok.Span, hint))
		return nil
	}
	if stmt == nil {
		return nil
	}
	// Optional statement terminator
	if p.peek() == lexer.TokSemicolon {
		p.advance()
	}
	return stmt
}

func (p *parser) parsePrintStmt() *ast.PrintStmt {
	start := p.advance() // consume 'dekho babu'
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	return &ast.PrintStmt{
		Span:  p.spanFromTo(start.Span, value.NodeSpan()),
		Value: value,
	}
}

func (p *parser) parseVarDecl() *ast.VarDecl {
	start := p.advance() // consume 'mela babu'
	nameTok, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.TokEquals); !ok {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	return &ast.VarDecl{
		Span:  p.spanFromTo(start.Span, value.NodeSpan()),
		Name:  nameTok.Value,
		Value: value,
	}
}

func (p *parser) parseInputStmt() *ast.InputStmt {
	start := p.advance() // consume 'bolo shona'
	nameTok, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}
	return &ast.InputStmt{
		Span: p.spanFromTo(start.Span, nameTok.Span),
		Name: nameTok.Value,
	}
}

func (p *parser) parseIfStmt() *ast.IfStmt {
	start := p.advance() // consume 'agar babu'
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}

	stmt := &ast.IfStmt{Cond: cond, Body: body}
	end := body.Span

	for p.peek() == lexer.TokElseIf {
		branchStart := p.advance() // consume 'lekin babu'
		branchCond := p.parseExpr()
		if branchCond == nil {
			return nil
		}
		branchBody := p.parseBlock()
		if branchBody == nil {
			return nil
		}
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIfBranch{
			Span: p.spanFromTo(branchStart.Span, branchBody.Span),
			Cond: branchCond,
			Body: branchBody,
		})
		end = branchBody.Span
	}

	if p.peek() == lexer.TokElse {
		p.advance() // consume 'magar shona'
		elseBody := p.parseBlock()
		if elseBody == nil {
			return nil
		}
		stmt.Else = elseBody
		end = elseBody.Span
	}

	stmt.Span = p.spanFromTo(start.Span, end)
	return stmt
}

func (p *parser) parseForLoopStmt() *ast.ForLoopStmt {
	start := p.advance() // consume 'chalo babu'
	nameTok, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.TokEquals); !ok {
		return nil
	}
	from := p.parseExpr()
	if from == nil {
		return nil
	}
	if _, ok := p.expect(lexer.TokTak); !ok {
		return nil
	}
	to := p.parseExpr()
	if to == nil {
		return nil
	}

	var step ast.Expr
	if p.peek() == lexer.TokStep {
		p.advance() // consume 'step'
		step = p.parseExpr()
		if step == nil {
			return nil
		}
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.ForLoopStmt{
		Span:  p.spanFromTo(start.Span, body.Span),
		Var:   nameTok.Value,
		Start: from,
		End:   to,
		Step:  step,
		Body:  body,
	}
}

// --- Block ---

func (p *parser) parseBlock() *ast.Block {
	open, ok := p.expect(lexer.TokLBrace)
	if !ok {
		return nil
	}
	stmts := []ast.Stmt{}
	for p.peek() != lexer.TokRBrace && p.peek() != lexer.TokEOF {
		stmt := p.parseStmt()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}
	closeTok, ok := p.expect(lexer.TokRBrace)
	if !ok {
		return nil
	}
	return &ast.Block{
		Span:       p.spanFromTo(open.Span, closeTok.Span),
		Statements: stmts,
	}
}

// --- Expressions ---

func (p *parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	if left == nil {
		return nil
	}
	for p.peek() == lexer.TokOr {
		p.advance()
		right := p.parseAnd()
		if right == nil {
			return nil
		}
		left = &ast.Logical{
			Span:  p.spanFromTo(left.NodeSpan(), right.NodeSpan()),
			Op:    ast.OpOr,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseNot()
	if left == nil {
		return nil
	}
	for p.peek() == lexer.TokAnd {
		p.advance()
		right := p.parseNot()
		if right == nil {
			return nil
		}
		left = &ast.Logical{
			Span:  p.spanFromTo(left.NodeSpan(), right.NodeSpan()),
			Op:    ast.OpAnd,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *parser) parseNot() ast.Expr {
	if p.peek() == lexer.TokNot {
		start := p.advance()
		operand := p.parseNot()
		if operand == nil {
			return nil
		}
		return &ast.UnaryNot{
			Span:    p.spanFromTo(start.Span, operand.NodeSpan()),
			Operand: operand,
		}
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	if left == nil {
		return nil
	}

	for {
		var op ast.CompareOp
		switch p.peek() {
		case lexer.TokGt:
			op = ast.OpGt
		case lexer.TokLt:
			op = ast.OpLt
		case lexer.TokGtEq:
			op = ast.OpGtEq
		case lexer.TokLtEq:
			op = ast.OpLtEq
		case lexer.TokEqEq:
			op = ast.OpEqEq
		case lexer.TokBangEq:
			op = ast.OpNeq
		default:
			return left
		}
		p.advance()
		right := p.parseAdditive()
		if right == nil {
			return nil
		}
		left = &ast.Comparison{
			Span:  p.spanFromTo(left.NodeSpan(), right.NodeSpan()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	if left == nil {
		return nil
	}

	for {
		var op ast.ArithOp
		switch p.peek() {
		case lexer.TokPlus:
			op = ast.OpAdd
		case lexer.TokMinus:
			op = ast.OpSub
		default:
			return left
		}
		p.advance()
		right := p.parseMultiplicative()
		if right == nil {
			return nil
		}
		left = &ast.Arithmetic{
			Span:  p.spanFromTo(left.NodeSpan(), right.NodeSpan()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) parseMultiplicative() ast.Expr {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	for {
		var op ast.ArithOp
		switch p.peek() {
		case lexer.TokStar:
			op = ast.OpMul
		case lexer.TokSlash:
			op = ast.OpDiv
		default:
			return left
		}
		p.advance()
		right := p.parsePrimary()
		if right == nil {
			return nil
		}
		left = &ast.Arithmetic{
			Span:  p.spanFromTo(left.NodeSpan(), right.NodeSpan()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.peek() {
	case lexer.TokLParen:
		open := p.advance()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		closeTok, ok := p.expect(lexer.TokRParen)
		if !ok {
			return nil
		}
		return &ast.Parenthesized{
			Span:  p.spanFromTo(open.Span, closeTok.Span),
			Inner: inner,
		}

	case lexer.TokIntLit:
		tok := p.advance()
		val, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.addError(fmt.Sprintf("integer literal out of range: %s", tok.Value), &tok.Span)
			return nil
		}
		return &ast.IntLiteral{Span: tok.Span, Value: val}

	case lexer.TokStringLit:
		tok := p.advance()
		return &ast.StringLiteral{Span: tok.Span, Value: tok.Value}

	case lexer.TokTrue:
		tok := p.advance()
		return &ast.BooleanLiteral{Span: tok.Span, Value: true}

	case lexer.TokFalse:
		tok := p.advance()
		return &ast.BooleanLiteral{Span: tok.Span, Value: false}

	case lexer.TokIdent:
		tok := p.advance()
		return &ast.VariableRef{Span: tok.Span, Name: tok.Value}

	default:
		tok := p.current()
		p.addError(fmt.Sprintf("unexpected token %s", describe(tok)), &tok.Span)
		return nil
	}
}
