package parser

import (
	"github.com/briarscript/briar/internal/ast"
	"github.com/briarscript/briar/internal/presult"
	"github.com/briarscript/briar/pkg/token"
)

// Statement ≔ assignment | assignment_null | block | expression | if |
// while | for | return. Assignment is tried first so `var x = …` and
// `a = b` are recognised before being misread as bare expressions.
func (p *Parser) Statement(pos int) presult.Result[ast.Statement] {
	p.trace("statement", pos)
	a := presult.StartAlt(pos, p.Assignment)
	a = a.Or(p.AssignmentNull)
	a = a.Or(func(pos int) presult.Result[ast.Statement] {
		return presult.Map(p.Block(pos), func(b *ast.Block) ast.Statement { return b })
	})
	a = a.Or(func(pos int) presult.Result[ast.Statement] {
		return presult.Map(p.Expression(pos), func(e ast.Expression) ast.Statement { return &ast.ExprStatement{Expr: e} })
	})
	a = a.Or(p.If)
	a = a.Or(p.While)
	a = a.Or(p.For)
	a = a.Or(p.Return)
	return a.Result()
}

// assignOpFor maps an assignment token to its semantic operator, exactly
// per the language's documented table — including the deliberately swapped
// -=/*= pair and the bare (not "="-suffixed) << / >> entries. See
// DESIGN.md "Open Question decisions" #1 and #3: this is preserved, not
// corrected.
func assignOpFor(kind token.Kind) (ast.AssignOp, bool) {
	switch kind {
	case token.ASSIGN:
		return ast.OpAssign, true
	case token.ADDASSIGN:
		return ast.OpAdd, true
	case token.SUBASSIGN:
		return ast.OpMul, true
	case token.MULTASSIGN:
		return ast.OpSub, true
	case token.DIVASSIGN:
		return ast.OpDiv, true
	case token.ANDASSIGN:
		return ast.OpAnd, true
	case token.ORASSIGN:
		return ast.OpOr, true
	case token.XORASSIGN:
		return ast.OpXor, true
	case token.MODASSIGN:
		return ast.OpMod, true
	case token.LSHIFT:
		return ast.OpLShift, true
	case token.RSHIFT:
		return ast.OpRShift, true
	case token.URSHIFTASSIGN:
		return ast.OpURShift, true
	default:
		return 0, false
	}
}

// Assignment ≔ [`var`] expression assign_op rhs, rhs ≔ expression |
// comma-separated expression list (single value → Assignment, more than
// one → Assignments). See DESIGN.md's Open Question decisions for why the
// comma-separated reading was chosen over a literal one_or_more(assignment).
func (p *Parser) Assignment(pos int) presult.Result[ast.Statement] {
	cursor := pos
	declare := false
	if t, ok := p.peek(cursor); ok && t.Kind == token.VAR {
		declare = true
		cursor++
	}

	targetR := p.Expression(cursor)
	if !targetR.IsSuccess() {
		return convertFail[ast.Statement](targetR)
	}

	opTok, ok := p.peek(targetR.Pos())
	if !ok {
		return presult.EOF[ast.Statement](targetR.Pos())
	}
	op, ok := assignOpFor(opTok.Kind)
	if !ok {
		return presult.Fail[ast.Statement](targetR.Pos())
	}

	rhsR := p.exprList(targetR.Pos() + 1)
	if !rhsR.IsSuccess() {
		return convertFail[ast.Statement](rhsR)
	}
	values := rhsR.Value()
	if len(values) == 1 {
		stmt := &ast.Assignment{Declare: declare, Target: targetR.Value(), Op: op, Value: values[0]}
		return presult.Succeed(ast.Statement(stmt), rhsR.Pos())
	}
	stmt := &ast.Assignments{Declare: declare, Target: targetR.Value(), Op: op, Values: values}
	return presult.Succeed(ast.Statement(stmt), rhsR.Pos())
}

// exprList ≔ expression { `,` expression }.
func (p *Parser) exprList(pos int) presult.Result[[]ast.Expression] {
	head := p.Expression(pos)
	if !head.IsSuccess() {
		return convertFail[[]ast.Expression](head)
	}
	tail := presult.ZeroOrMore(head.Pos(), func(pos int) presult.Result[ast.Expression] {
		comma := p.tok(token.COMMA)(pos)
		if !comma.IsSuccess() {
			return convertFail[ast.Expression](comma)
		}
		return p.Expression(comma.Pos())
	})
	vals := append([]ast.Expression{head.Value()}, tail.Value()...)
	return presult.Succeed(vals, tail.Pos())
}

// AssignmentNull ≔ `var` id (declaration without initializer).
func (p *Parser) AssignmentNull(pos int) presult.Result[ast.Statement] {
	kw := p.tok(token.VAR)(pos)
	if !kw.IsSuccess() {
		return convertFail[ast.Statement](kw)
	}
	id := p.ident(kw.Pos())
	if !id.IsSuccess() {
		return convertFail[ast.Statement](id)
	}
	return presult.Succeed(ast.Statement(&ast.AssignmentNull{Name: id.Value().Lexeme}), id.Pos())
}

// If ≔ `if` `(` expression `)` statement { `else` `if` `(` expression `)`
// statement } [ `else` statement ].
func (p *Parser) If(pos int) presult.Result[ast.Statement] {
	kw := p.tok(token.IF)(pos)
	if !kw.IsSuccess() {
		return convertFail[ast.Statement](kw)
	}
	head, ok := p.ifHead(kw.Pos())
	if !ok.IsSuccess() {
		return convertFail[ast.Statement](ok)
	}

	node := &ast.If{Cond: head.cond, Then: head.then}
	cursor := ok.Pos()

	for {
		save := cursor
		elseTok := p.tok(token.ELSE)(cursor)
		if !elseTok.IsSuccess() {
			break
		}
		ifTok := p.tok(token.IF)(elseTok.Pos())
		if !ifTok.IsSuccess() {
			cursor = save
			break
		}
		arm, armR := p.ifHead(ifTok.Pos())
		if !armR.IsSuccess() {
			return convertFail[ast.Statement](armR)
		}
		node.Others = append(node.Others, ast.ElseIf{Cond: arm.cond, Then: arm.then})
		cursor = armR.Pos()
	}

	elseTok := p.tok(token.ELSE)(cursor)
	if elseTok.IsSuccess() {
		body := p.Statement(elseTok.Pos())
		if body.IsSuccess() {
			node.Else = body.Value()
			node.HasElse = true
			cursor = body.Pos()
		} else if body.IsError() {
			return convertFail[ast.Statement](body)
		}
	}

	return presult.Succeed(ast.Statement(node), cursor)
}

type ifHeadResult struct {
	cond ast.Expression
	then ast.Statement
}

// ifHead parses `(` expression `)` statement, the shared tail of `if` and
// every `else if`.
func (p *Parser) ifHead(pos int) (ifHeadResult, presult.Result[ifHeadResult]) {
	lp := p.tok(token.LPAREN)(pos)
	if !lp.IsSuccess() {
		return ifHeadResult{}, convertFail[ifHeadResult](lp)
	}
	cond := p.Expression(lp.Pos())
	if !cond.IsSuccess() {
		return ifHeadResult{}, convertFail[ifHeadResult](cond)
	}
	rp := p.tok(token.RPAREN)(cond.Pos())
	if !rp.IsSuccess() {
		return ifHeadResult{}, convertFail[ifHeadResult](rp)
	}
	then := p.Statement(rp.Pos())
	if !then.IsSuccess() {
		return ifHeadResult{}, convertFail[ifHeadResult](then)
	}
	res := ifHeadResult{cond: cond.Value(), then: then.Value()}
	return res, presult.Succeed(res, then.Pos())
}

// While ≔ `while` `(` (expression | assignment) `)` statement.
func (p *Parser) While(pos int) presult.Result[ast.Statement] {
	kw := p.tok(token.WHILE)(pos)
	if !kw.IsSuccess() {
		return convertFail[ast.Statement](kw)
	}
	lp := p.tok(token.LPAREN)(kw.Pos())
	if !lp.IsSuccess() {
		return convertFail[ast.Statement](lp)
	}

	a := presult.StartAlt(lp.Pos(), func(pos int) presult.Result[ast.Node] {
		return presult.Map(p.Expression(pos), func(e ast.Expression) ast.Node { return e })
	})
	a = a.Or(func(pos int) presult.Result[ast.Node] {
		return presult.Map(p.Assignment(pos), func(s ast.Statement) ast.Node { return s.(ast.Node) })
	})
	condR := a.Result()
	if !condR.IsSuccess() {
		return convertFail[ast.Statement](condR)
	}

	rp := p.tok(token.RPAREN)(condR.Pos())
	if !rp.IsSuccess() {
		return convertFail[ast.Statement](rp)
	}
	body := p.Statement(rp.Pos())
	if !body.IsSuccess() {
		return convertFail[ast.Statement](body)
	}
	return presult.Succeed(ast.Statement(&ast.While{Cond: condR.Value(), Body: body.Value()}), body.Pos())
}

// For ≔ `for` `(` id `in` expression `)` statement.
func (p *Parser) For(pos int) presult.Result[ast.Statement] {
	kw := p.tok(token.FOR)(pos)
	if !kw.IsSuccess() {
		return convertFail[ast.Statement](kw)
	}
	lp := p.tok(token.LPAREN)(kw.Pos())
	if !lp.IsSuccess() {
		return convertFail[ast.Statement](lp)
	}
	id := p.ident(lp.Pos())
	if !id.IsSuccess() {
		return convertFail[ast.Statement](id)
	}
	inKw := p.tok(token.IN)(id.Pos())
	if !inKw.IsSuccess() {
		return convertFail[ast.Statement](inKw)
	}
	seq := p.Expression(inKw.Pos())
	if !seq.IsSuccess() {
		return convertFail[ast.Statement](seq)
	}
	rp := p.tok(token.RPAREN)(seq.Pos())
	if !rp.IsSuccess() {
		return convertFail[ast.Statement](rp)
	}
	body := p.Statement(rp.Pos())
	if !body.IsSuccess() {
		return convertFail[ast.Statement](body)
	}
	node := &ast.For{Var: id.Value().Lexeme, In: seq.Value(), Body: body.Value()}
	return presult.Succeed(ast.Statement(node), body.Pos())
}

// Return ≔ `return` expression.
func (p *Parser) Return(pos int) presult.Result[ast.Statement] {
	kw := p.tok(token.RETURN)(pos)
	if !kw.IsSuccess() {
		return convertFail[ast.Statement](kw)
	}
	val := p.Expression(kw.Pos())
	if !val.IsSuccess() {
		return convertFail[ast.Statement](val)
	}
	return presult.Succeed(ast.Statement(&ast.Return{Value: val.Value()}), val.Pos())
}
