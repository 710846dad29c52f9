// Package parser implements a recursive-descent parser for the JavaScript
// subset pkg/ast describes.
package parser

import (
	"fmt"
	"strconv"

	"github.com/klve/jstrace/pkg/ast"
	"github.com/klve/jstrace/pkg/errs"
	"github.com/klve/jstrace/pkg/lexer"
	"github.com/klve/jstrace/pkg/token"
)

// precedence levels for binary/logical operators, lowest to highest.
const (
	_ int = iota
	precLowest
	precAssign         // = += -= *= /=
	precConditional    // ?:
	precLogicalOr      // ||
	precLogicalAnd     // &&
	precEquality       // == != === !==
	precRelational     // < > <= >=
	precAdditive       // + -
	precMultiplicative // * / %
	precUnary
	precUpdate
	precCall // () [] . ?.
)

var precedences = map[token.Type]int{
	token.OR:            precLogicalOr,
	token.AND:           precLogicalAnd,
	token.EQ:            precEquality,
	token.STRICT_EQ:     precEquality,
	token.NOT_EQ:        precEquality,
	token.STRICT_NOT_EQ: precEquality,
	token.LT:            precRelational,
	token.GT:            precRelational,
	token.LT_EQ:         precRelational,
	token.GT_EQ:         precRelational,
	token.PLUS:          precAdditive,
	token.MINUS:         precAdditive,
	token.STAR:          precMultiplicative,
	token.SLASH:         precMultiplicative,
	token.PERCENT:       precMultiplicative,
	token.LPAREN:        precCall,
	token.LBRACKET:      precCall,
	token.DOT:           precCall,
	token.OPTCHAIN:      precCall,
}

// Parser parses JavaScript source into an *ast.Program.
type Parser struct {
	lex       *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	errors    []error
}

// New creates a parser for the given source text.
func New(input string) *Parser {
	p := &Parser{lex: lexer.New(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curToken.Type)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &errs.ParseError{
		Span:    ast.MakeSpan(p.curToken.Start, p.curToken.End),
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) span(start token.Position) ast.Span {
	return ast.MakeSpan(start, p.curToken.Start)
}

// Parse parses a complete program and returns the first accumulated parse
// error, if any, as an *errs.ParseError.
func Parse(input string) (*ast.Program, error) {
	p := New(input)
	prog := p.ParseProgram()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return prog, nil
}

// ParseProgram parses the whole input into a Program node.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.curToken.Start
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		} else {
			p.nextToken()
		}
	}
	prog.SpanVal = ast.MakeSpan(start, p.curToken.End)
	return prog
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.VAR, token.LET, token.CONST:
		return p.parseVariableDeclaration()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	case token.SEMI:
		p.nextToken()
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) consumeSemi() {
	if p.curIs(token.SEMI) {
		p.nextToken()
	}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	start := p.curToken.Start
	kind := p.curToken.Literal
	p.nextToken()

	decl := &ast.VariableDeclaration{Kind: kind}
	for {
		if !p.curIs(token.IDENT) {
			p.errorf("expected identifier in declaration, got %s", p.curToken.Type)
			break
		}
		name := p.curToken.Literal
		p.nextToken()
		var init ast.Expr
		if p.curIs(token.ASSIGN) {
			p.nextToken()
			init = p.parseExpression(precAssign)
		}
		decl.Declarations = append(decl.Declarations, ast.Declarator{Name: name, Init: init})
		if p.curIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	decl.SpanVal = p.span(start)
	p.consumeSemi()
	return decl
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	start := p.curToken.Start
	p.expect(token.LBRACE)
	blk := &ast.BlockStatement{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			blk.Body = append(blk.Body, stmt)
		}
	}
	blk.SpanVal = p.span(start)
	p.expect(token.RBRACE)
	return blk
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	start := p.curToken.Start
	p.nextToken()
	p.expect(token.LPAREN)
	test := p.parseExpression(precLowest)
	p.expect(token.RPAREN)
	cons := p.parseStatement()

	stmt := &ast.IfStatement{Test: test, Consequent: cons}
	if p.curIs(token.ELSE) {
		p.nextToken()
		stmt.Alternate = p.parseStatement()
	}
	stmt.SpanVal = p.span(start)
	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	start := p.curToken.Start
	p.nextToken()
	p.expect(token.LPAREN)

	stmt := &ast.ForStatement{}
	switch p.curToken.Type {
	case token.SEMI:
		p.nextToken()
	case token.VAR, token.LET, token.CONST:
		stmt.Init = p.parseVariableDeclaration()
	default:
		expr := p.parseExpression(precLowest)
		exprStmt := &ast.ExpressionStatement{Expression: expr}
		exprStmt.SpanVal = expr.Span()
		stmt.Init = exprStmt
		p.expect(token.SEMI)
	}

	if !p.curIs(token.SEMI) {
		stmt.Test = p.parseExpression(precLowest)
	}
	p.expect(token.SEMI)

	if !p.curIs(token.RPAREN) {
		stmt.Update = p.parseExpression(precLowest)
	}
	p.expect(token.RPAREN)

	stmt.Body = p.parseStatement()
	stmt.SpanVal = p.span(start)
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	start := p.curToken.Start
	p.nextToken()
	p.expect(token.LPAREN)
	test := p.parseExpression(precLowest)
	p.expect(token.RPAREN)
	body := p.parseStatement()
	stmt := &ast.WhileStatement{Test: test, Body: body}
	stmt.SpanVal = p.span(start)
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.ReturnStatement{}
	if !p.curIs(token.SEMI) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt.Argument = p.parseExpression(precLowest)
	}
	stmt.SpanVal = p.span(start)
	p.consumeSemi()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.BreakStatement{}
	stmt.SpanVal = p.span(start)
	p.consumeSemi()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.ContinueStatement{}
	stmt.SpanVal = p.span(start)
	p.consumeSemi()
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	start := p.curToken.Start
	p.nextToken()
	arg := p.parseExpression(precLowest)
	stmt := &ast.ThrowStatement{Argument: arg}
	stmt.SpanVal = p.span(start)
	p.consumeSemi()
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	start := p.curToken.Start
	p.nextToken()
	stmt := &ast.TryStatement{Block: p.parseBlockStatement()}

	if p.curIs(token.CATCH) {
		p.nextToken()
		handler := &ast.CatchClause{}
		if p.curIs(token.LPAREN) {
			p.nextToken()
			if p.curIs(token.IDENT) {
				handler.Param = p.curToken.Literal
				p.nextToken()
			}
			p.expect(token.RPAREN)
		}
		handler.Body = p.parseBlockStatement()
		stmt.Handler = handler
	}

	if p.curIs(token.FINALLY) {
		p.nextToken()
		stmt.Finalizer = p.parseBlockStatement()
	}

	stmt.SpanVal = p.span(start)
	return stmt
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	start := p.curToken.Start
	p.nextToken()
	decl := &ast.FunctionDeclaration{}
	if p.curIs(token.IDENT) {
		decl.Name = p.curToken.Literal
		p.nextToken()
	}
	decl.Params = p.parseParamList()
	decl.Body = p.parseBlockStatement()
	decl.SpanVal = p.span(start)
	return decl
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	start := p.curToken.Start
	expr := p.parseExpression(precLowest)
	stmt := &ast.ExpressionStatement{Expression: expr}
	stmt.SpanVal = p.span(start)
	p.consumeSemi()
	return stmt
}

func (p *Parser) parseParamList() []string {
	p.expect(token.LPAREN)
	var params []string
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.IDENT) {
			params = append(params, p.curToken.Literal)
			p.nextToken()
		}
		if p.curIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// ---------------------------------------------------------------------------
// Expressions — precedence climbing, grounded on compiler/parser.go's
// parseKeywordSend/parseBinarySend ladder, adapted to C-family operator
// precedence instead of Smalltalk message precedence.
// ---------------------------------------------------------------------------

func (p *Parser) parseExpression(prec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		if p.curIs(token.ASSIGN) || p.curIs(token.PLUS_ASSIGN) || p.curIs(token.MINUS_ASSIGN) ||
			p.curIs(token.STAR_ASSIGN) || p.curIs(token.SLASH_ASSIGN) {
			if prec > precAssign {
				break
			}
			left = p.parseAssignment(left)
			continue
		}

		if p.curIs(token.QUESTION) {
			if prec > precConditional {
				break
			}
			left = p.parseConditional(left)
			continue
		}

		if p.curIs(token.COMMA) && prec == precLowest {
			left = p.parseSequence(left)
			continue
		}

		nextPrec, ok := precedences[p.curToken.Type]
		if !ok || nextPrec < prec {
			break
		}

		switch p.curToken.Type {
		case token.LPAREN:
			left = p.parseCall(left, false)
		case token.LBRACKET:
			left = p.parseComputedMember(left, false)
		case token.DOT:
			left = p.parseDotMember(left, false)
		case token.OPTCHAIN:
			left = p.parseOptionalChain(left)
		case token.AND, token.OR:
			left = p.parseLogical(left, nextPrec)
		default:
			left = p.parseBinary(left, nextPrec)
		}
	}

	return left
}

func (p *Parser) parseSequence(first ast.Expr) ast.Expr {
	start := first.Span().Start
	seq := &ast.SequenceExpression{Expressions: []ast.Expr{first}}
	for p.curIs(token.COMMA) {
		p.nextToken()
		seq.Expressions = append(seq.Expressions, p.parseExpression(precAssign))
	}
	seq.SpanVal = p.span(start)
	return seq
}

func (p *Parser) parseAssignment(target ast.Expr) ast.Expr {
	start := target.Span().Start
	op := p.curToken.Literal
	p.nextToken()
	value := p.parseExpression(precAssign)
	expr := &ast.AssignmentExpression{Operator: op, Target: target, Value: value}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseConditional(test ast.Expr) ast.Expr {
	start := test.Span().Start
	p.nextToken() // consume ?
	cons := p.parseExpression(precAssign)
	p.expect(token.COLON)
	alt := p.parseExpression(precAssign)
	expr := &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseBinary(left ast.Expr, prec int) ast.Expr {
	start := left.Span().Start
	op := p.curToken.Literal
	p.nextToken()
	right := p.parseExpression(prec + 1)
	expr := &ast.BinaryExpression{Operator: op, Left: left, Right: right}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseLogical(left ast.Expr, prec int) ast.Expr {
	start := left.Span().Start
	op := p.curToken.Literal
	p.nextToken()
	right := p.parseExpression(prec + 1)
	expr := &ast.LogicalExpression{Operator: op, Left: left, Right: right}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseCall(callee ast.Expr, optional bool) ast.Expr {
	start := callee.Span().Start
	p.nextToken() // consume (
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(precAssign))
		if p.curIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.expect(token.RPAREN)
	expr := &ast.CallExpression{Callee: callee, Arguments: args, Optional: optional}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseComputedMember(obj ast.Expr, optional bool) ast.Expr {
	start := obj.Span().Start
	p.nextToken() // consume [
	prop := p.parseExpression(precLowest)
	p.expect(token.RBRACKET)
	expr := &ast.MemberExpression{Object: obj, Property: prop, Computed: true, Optional: optional}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseDotMember(obj ast.Expr, optional bool) ast.Expr {
	start := obj.Span().Start
	p.nextToken() // consume .
	if !p.curIs(token.IDENT) {
		p.errorf("expected property name after '.', got %s", p.curToken.Type)
		return obj
	}
	name := p.curToken.Literal
	namePos := p.curToken.Start
	p.nextToken()
	ident := &ast.Identifier{Name: name}
	ident.SpanVal = ast.MakeSpan(namePos, p.curToken.Start)
	expr := &ast.MemberExpression{Object: obj, Property: ident, Computed: false, Optional: optional}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseOptionalChain(obj ast.Expr) ast.Expr {
	p.nextToken() // consume ?.
	if p.curIs(token.LPAREN) {
		return p.parseCall(obj, true)
	}
	if p.curIs(token.LBRACKET) {
		return p.parseComputedMember(obj, true)
	}
	start := obj.Span().Start
	if !p.curIs(token.IDENT) {
		p.errorf("expected property name after '?.', got %s", p.curToken.Type)
		return obj
	}
	name := p.curToken.Literal
	namePos := p.curToken.Start
	p.nextToken()
	ident := &ast.Identifier{Name: name}
	ident.SpanVal = ast.MakeSpan(namePos, p.curToken.Start)
	expr := &ast.MemberExpression{Object: obj, Property: ident, Computed: false, Optional: true}
	expr.SpanVal = p.span(start)
	return expr
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.curToken.Type {
	case token.NOT, token.MINUS, token.PLUS, token.BIT_NOT, token.TYPEOF:
		start := p.curToken.Start
		op := p.curToken.Literal
		p.nextToken()
		arg := p.parseUnary()
		expr := &ast.UnaryExpression{Operator: op, Prefix: true, Argument: arg}
		expr.SpanVal = p.span(start)
		return expr

	case token.INC, token.DEC:
		start := p.curToken.Start
		op := p.curToken.Literal
		p.nextToken()
		target := p.parseUnary()
		expr := &ast.UpdateExpression{Operator: op, Prefix: true, Target: target}
		expr.SpanVal = p.span(start)
		return expr

	case token.NEW:
		return p.parseNew()

	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parseNew() ast.Expr {
	start := p.curToken.Start
	p.nextToken()
	callee := p.parsePostfixNoCall()
	expr := &ast.NewExpression{Callee: callee}
	if p.curIs(token.LPAREN) {
		p.nextToken()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			expr.Arguments = append(expr.Arguments, p.parseExpression(precAssign))
			if p.curIs(token.COMMA) {
				p.nextToken()
			}
		}
		p.expect(token.RPAREN)
	}
	expr.SpanVal = p.span(start)
	return expr
}

// parsePostfixNoCall parses a member-expression chain for a `new` callee
// without consuming a trailing call — the call belongs to `new`, not to the
// callee expression itself.
func (p *Parser) parsePostfixNoCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.curToken.Type {
		case token.DOT:
			expr = p.parseDotMember(expr, false)
		case token.LBRACKET:
			expr = p.parseComputedMember(expr, false)
		default:
			return expr
		}
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for p.curIs(token.LPAREN) || p.curIs(token.LBRACKET) || p.curIs(token.DOT) || p.curIs(token.OPTCHAIN) {
		switch p.curToken.Type {
		case token.LPAREN:
			expr = p.parseCall(expr, false)
		case token.LBRACKET:
			expr = p.parseComputedMember(expr, false)
		case token.DOT:
			expr = p.parseDotMember(expr, false)
		case token.OPTCHAIN:
			expr = p.parseOptionalChain(expr)
		}
	}
	for p.curIs(token.INC) || p.curIs(token.DEC) {
		start := expr.Span().Start
		op := p.curToken.Literal
		p.nextToken()
		up := &ast.UpdateExpression{Operator: op, Prefix: false, Target: expr}
		up.SpanVal = p.span(start)
		expr = up
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.curToken.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		return p.parseString()
	case token.TRUE, token.FALSE:
		return p.parseBoolean()
	case token.NULL:
		return p.parseNull()
	case token.UNDEFINED:
		return p.parseUndefined()
	case token.THIS:
		return p.parseThis()
	case token.IDENT:
		return p.parseIdentOrArrow()
	case token.LPAREN:
		return p.parseParenOrArrow()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.FUNCTION:
		return p.parseFunctionExpression()
	case token.ASYNC:
		return p.parseAsyncPrefixed()
	default:
		p.errorf("unexpected token: %s", p.curToken.Type)
		tok := p.curToken
		p.nextToken()
		lit := &ast.UndefinedLiteral{}
		lit.SpanVal = ast.MakeSpan(tok.Start, tok.End)
		return lit
	}
}

func (p *Parser) parseNumber() ast.Expr {
	start := p.curToken.Start
	raw := p.curToken.Literal
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errorf("invalid number literal: %s", raw)
	}
	p.nextToken()
	lit := &ast.NumericLiteral{Value: val, Raw: raw}
	lit.SpanVal = p.span(start)
	return lit
}

func (p *Parser) parseString() ast.Expr {
	start := p.curToken.Start
	val := p.curToken.Literal
	p.nextToken()
	lit := &ast.StringLiteral{Value: val, Raw: val}
	lit.SpanVal = p.span(start)
	return lit
}

func (p *Parser) parseBoolean() ast.Expr {
	start := p.curToken.Start
	val := p.curIs(token.TRUE)
	p.nextToken()
	lit := &ast.BooleanLiteral{Value: val}
	lit.SpanVal = p.span(start)
	return lit
}

func (p *Parser) parseNull() ast.Expr {
	start := p.curToken.Start
	p.nextToken()
	lit := &ast.NullLiteral{}
	lit.SpanVal = p.span(start)
	return lit
}

func (p *Parser) parseUndefined() ast.Expr {
	start := p.curToken.Start
	p.nextToken()
	lit := &ast.UndefinedLiteral{}
	lit.SpanVal = p.span(start)
	return lit
}

func (p *Parser) parseThis() ast.Expr {
	start := p.curToken.Start
	p.nextToken()
	lit := &ast.ThisExpression{}
	lit.SpanVal = p.span(start)
	return lit
}

func (p *Parser) parseIdentOrArrow() ast.Expr {
	// `x => ...` single-param arrow without parens.
	if p.peekIs(token.ARROW) {
		start := p.curToken.Start
		param := p.curToken.Literal
		p.nextToken() // consume ident
		p.nextToken() // consume =>
		return p.parseArrowBody(start, []string{param}, false)
	}
	start := p.curToken.Start
	name := p.curToken.Literal
	p.nextToken()
	ident := &ast.Identifier{Name: name}
	ident.SpanVal = p.span(start)
	return ident
}

// parseParenOrArrow disambiguates `(expr)` from `(params) => body`. The
// lexer gives only one token of lookahead, so disambiguation scans a cloned
// lexer forward to the matching close paren and checks what follows it.
func (p *Parser) parseParenOrArrow() ast.Expr {
	start := p.curToken.Start

	if p.looksLikeArrowParams() {
		params := p.parseParamList()
		p.expect(token.ARROW)
		return p.parseArrowBody(start, params, false)
	}

	p.nextToken() // consume (
	expr := p.parseExpression(precLowest)
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) looksLikeArrowParams() bool {
	if !p.curIs(token.LPAREN) {
		return false
	}
	if p.peekIs(token.RPAREN) {
		return true
	}

	save := *p.lex
	lx := &save
	depth := 0
	cur := p.curToken
	peek := p.peekToken

	advance := func() {
		cur = peek
		peek = lx.NextToken()
	}

	for {
		switch cur.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return peek.Type == token.ARROW
			}
		case token.EOF:
			return false
		}
		advance()
	}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.curToken.Start
	p.nextToken() // consume [
	arr := &ast.ArrayExpression{}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			p.nextToken()
			continue
		}
		arr.Elements = append(arr.Elements, p.parseExpression(precAssign))
		if p.curIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.expect(token.RBRACKET)
	arr.SpanVal = p.span(start)
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	start := p.curToken.Start
	p.nextToken() // consume {
	obj := &ast.ObjectExpression{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		prop := ast.ObjectProperty{}
		if p.curIs(token.LBRACKET) {
			p.nextToken()
			prop.Computed = true
			prop.KeyExpr = p.parseExpression(precAssign)
			p.expect(token.RBRACKET)
		} else {
			prop.Key = p.curToken.Literal
			p.nextToken()
		}
		p.expect(token.COLON)
		prop.Value = p.parseExpression(precAssign)
		obj.Properties = append(obj.Properties, prop)
		if p.curIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.expect(token.RBRACE)
	obj.SpanVal = p.span(start)
	return obj
}

func (p *Parser) parseFunctionExpression() ast.Expr {
	start := p.curToken.Start
	p.nextToken()
	fn := &ast.FunctionExpression{}
	if p.curIs(token.IDENT) {
		fn.Name = p.curToken.Literal
		p.nextToken()
	}
	fn.Params = p.parseParamList()
	fn.Body = p.parseBlockStatement()
	fn.SpanVal = p.span(start)
	return fn
}

func (p *Parser) parseAsyncPrefixed() ast.Expr {
	start := p.curToken.Start
	p.nextToken() // consume async
	if p.curIs(token.FUNCTION) {
		p.nextToken()
		fn := &ast.FunctionExpression{Async: true}
		if p.curIs(token.IDENT) {
			fn.Name = p.curToken.Literal
			p.nextToken()
		}
		fn.Params = p.parseParamList()
		fn.Body = p.parseBlockStatement()
		fn.SpanVal = p.span(start)
		return fn
	}
	if p.curIs(token.IDENT) && p.peekIs(token.ARROW) {
		param := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		return p.parseArrowBody(start, []string{param}, true)
	}
	if p.curIs(token.LPAREN) {
		params := p.parseParamList()
		p.expect(token.ARROW)
		return p.parseArrowBody(start, params, true)
	}
	p.errorf("expected function or arrow after 'async'")
	lit := &ast.UndefinedLiteral{}
	lit.SpanVal = p.span(start)
	return lit
}

func (p *Parser) parseArrowBody(start token.Position, params []string, async bool) ast.Expr {
	fn := &ast.ArrowFunctionExpression{Params: params, Async: async}
	if p.curIs(token.LBRACE) {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.ExpressionBody = p.parseExpression(precAssign)
	}
	fn.SpanVal = p.span(start)
	return fn
}
