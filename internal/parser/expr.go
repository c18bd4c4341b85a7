package parser

import (
	"github.com/briarscript/briar/internal/ast"
	"github.com/briarscript/briar/internal/presult"
	"github.com/briarscript/briar/pkg/token"
)

// Expression ≔ compound | `!` expression | `(` expression `)` | atom, where
// compound is (atom | negation | paren) followed by an optional
// compound_tail (logic chain, arithmetic chain, `is` test, or elvis). The
// dotted call tail is handled inside Call itself, not here.
func (p *Parser) Expression(pos int) presult.Result[ast.Expression] {
	p.trace("expression", pos)
	base := p.baseExpr(pos)
	if !base.IsSuccess() {
		return convertFail[ast.Expression](base)
	}
	return p.attachTail(base.Value(), base.Pos())
}

// baseExpr ≔ `!` expression | `(` expression `)` | atom.
func (p *Parser) baseExpr(pos int) presult.Result[ast.Expression] {
	a := presult.StartAlt(pos, func(pos int) presult.Result[ast.Expression] {
		bang := p.tok(token.BANG)(pos)
		if !bang.IsSuccess() {
			return convertFail[ast.Expression](bang)
		}
		inner := p.Expression(bang.Pos())
		if !inner.IsSuccess() {
			return convertFail[ast.Expression](inner)
		}
		return presult.Succeed(ast.Expression(&ast.Negation{Expr: inner.Value()}), inner.Pos())
	})
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		lp := p.tok(token.LPAREN)(pos)
		if !lp.IsSuccess() {
			return convertFail[ast.Expression](lp)
		}
		inner := p.Expression(lp.Pos())
		if !inner.IsSuccess() {
			return convertFail[ast.Expression](inner)
		}
		rp := p.tok(token.RPAREN)(inner.Pos())
		if !rp.IsSuccess() {
			return convertFail[ast.Expression](rp)
		}
		return presult.Succeed(ast.Expression(&ast.Paren{Expr: inner.Value()}), rp.Pos())
	})
	a = a.Or(p.Atom)
	return a.Result()
}

// attachTail tries each compound_tail kind at pos against base, falling
// back to the bare base expression when none applies.
func (p *Parser) attachTail(base ast.Expression, pos int) presult.Result[ast.Expression] {
	a := presult.StartAlt(pos, func(pos int) presult.Result[ast.Expression] { return p.logicTail(base, pos) })
	a = a.Or(func(pos int) presult.Result[ast.Expression] { return p.arithTail(base, pos) })
	a = a.Or(func(pos int) presult.Result[ast.Expression] { return p.isTail(base, pos) })
	a = a.Or(func(pos int) presult.Result[ast.Expression] { return p.elvisTail(base, pos) })
	return presult.OrVal(a.Result(), base)
}

// compareOp matches one of the comparison_op tokens (`||, >, >=, ==, !=,
// <, <=, &&` — note && and || are themselves valid comparison operators
// in this grammar).
func (p *Parser) compareOp(pos int) presult.Result[ast.CompareOp] {
	t, ok := p.peek(pos)
	if !ok {
		return presult.EOF[ast.CompareOp](pos)
	}
	m := map[token.Kind]ast.CompareOp{
		token.OR: ast.CmpOr, token.GT: ast.CmpGt, token.GE: ast.CmpGe,
		token.EQUAL: ast.CmpEq, token.NOTEQUAL: ast.CmpNe, token.LT: ast.CmpLt,
		token.LE: ast.CmpLe, token.AND: ast.CmpAnd,
	}
	if op, found := m[t.Kind]; found {
		return presult.Succeed(op, pos+1)
	}
	return presult.Fail[ast.CompareOp](pos)
}

// logicTail ≔ comparison_op expression { logic_group }. The groups are
// collected flat in source order; no AND-over-OR nesting is built.
func (p *Parser) logicTail(base ast.Expression, pos int) presult.Result[ast.Expression] {
	cmp := p.compareOp(pos)
	if !cmp.IsSuccess() {
		return convertFail[ast.Expression](cmp)
	}
	rhs := p.Expression(cmp.Pos())
	if !rhs.IsSuccess() {
		return convertFail[ast.Expression](rhs)
	}
	groups := presult.ZeroOrMore(rhs.Pos(), p.logicGroup)
	node := &ast.Logic{Base: base, CmpOp: cmp.Value(), CmpRhs: rhs.Value(), Groups: groups.Value()}
	return presult.Succeed(ast.Expression(node), groups.Pos())
}

// logicGroup ≔ (`&&` | `||`) comparison_op expression.
func (p *Parser) logicGroup(pos int) presult.Result[ast.LogicGroup] {
	a := presult.StartAlt(pos, func(pos int) presult.Result[ast.LogicGroup] {
		return p.logicGroupKind(ast.GroupAnd, token.AND, pos)
	})
	a = a.Or(func(pos int) presult.Result[ast.LogicGroup] {
		return p.logicGroupKind(ast.GroupOr, token.OR, pos)
	})
	return a.Result()
}

func (p *Parser) logicGroupKind(kind ast.LogicGroupKind, joiner token.Kind, pos int) presult.Result[ast.LogicGroup] {
	t := p.tok(joiner)(pos)
	if !t.IsSuccess() {
		return convertFail[ast.LogicGroup](t)
	}
	cmp := p.compareOp(t.Pos())
	if !cmp.IsSuccess() {
		return convertFail[ast.LogicGroup](cmp)
	}
	rhs := p.Expression(cmp.Pos())
	if !rhs.IsSuccess() {
		return convertFail[ast.LogicGroup](rhs)
	}
	return presult.Succeed(ast.LogicGroup{Kind: kind, Op: cmp.Value(), Rhs: rhs.Value()}, rhs.Pos())
}

// arithTail tries each arithmetic alternative (mul, add, range, shift, bit)
// in declared order, each consuming one operator then a full expression
// as its right-hand side (which may itself nest further arithmetic).
func (p *Parser) arithTail(base ast.Expression, pos int) presult.Result[ast.Expression] {
	a := presult.StartAlt(pos, func(pos int) presult.Result[ast.Expression] {
		return p.arithOf(ast.ArithMul, []token.Kind{token.MULT, token.DIV, token.MOD}, base, pos)
	})
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		return p.arithOf(ast.ArithAdd, []token.Kind{token.ADD, token.SUB}, base, pos)
	})
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		return p.arithOf(ast.ArithRange, []token.Kind{token.ELLIPSISIN, token.ELLIPSISOUT}, base, pos)
	})
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		return p.arithOf(ast.ArithShift, []token.Kind{token.LSHIFT, token.RSHIFT}, base, pos)
	})
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		return p.arithOf(ast.ArithBit, []token.Kind{token.BITAND, token.BITOR, token.CARET}, base, pos)
	})
	return a.Result()
}

func (p *Parser) arithOf(kind ast.ArithKind, ops []token.Kind, base ast.Expression, pos int) presult.Result[ast.Expression] {
	t, ok := p.peek(pos)
	if !ok {
		return presult.EOF[ast.Expression](pos)
	}
	matched := false
	for _, k := range ops {
		if t.Kind == k {
			matched = true
			break
		}
	}
	if !matched {
		return presult.Fail[ast.Expression](pos)
	}
	rhs := p.Expression(pos + 1)
	if !rhs.IsSuccess() {
		return convertFail[ast.Expression](rhs)
	}
	node := &ast.Arithmetic{Base: base, Kind: kind, Op: t.Kind, Rhs: rhs.Value()}
	return presult.Succeed(ast.Expression(node), rhs.Pos())
}

// isTail ≔ `is` expression.
func (p *Parser) isTail(base ast.Expression, pos int) presult.Result[ast.Expression] {
	isTok := p.tok(token.IS)(pos)
	if !isTok.IsSuccess() {
		return convertFail[ast.Expression](isTok)
	}
	typ := p.Expression(isTok.Pos())
	if !typ.IsSuccess() {
		return convertFail[ast.Expression](typ)
	}
	return presult.Succeed(ast.Expression(&ast.IsExpr{Base: base, Type: typ.Value()}), typ.Pos())
}

// elvisTail ≔ `?` expression `:` expression.
func (p *Parser) elvisTail(base ast.Expression, pos int) presult.Result[ast.Expression] {
	q := p.tok(token.QUESTION)(pos)
	if !q.IsSuccess() {
		return convertFail[ast.Expression](q)
	}
	then := p.Expression(q.Pos())
	if !then.IsSuccess() {
		return convertFail[ast.Expression](then)
	}
	colon := p.tok(token.COLON)(then.Pos())
	if !colon.IsSuccess() {
		return convertFail[ast.Expression](colon)
	}
	els := p.Expression(colon.Pos())
	if !els.IsSuccess() {
		return convertFail[ast.Expression](els)
	}
	return presult.Succeed(ast.Expression(&ast.Elvis{Cond: base, Then: then.Value(), Else: els.Value()}), els.Pos())
}

// Atom (ordered alternatives, first match wins): bool; import_module;
// range; char-lit; string-lit; number; null; list_init; map_init;
// collection_elem; call; break; continue; `-` atom.
func (p *Parser) Atom(pos int) presult.Result[ast.Expression] {
	p.trace("atom", pos)
	a := presult.StartAlt(pos, p.boolLit)
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		return presult.Map(p.ImportModule(pos), func(v *ast.ImportModule) ast.Expression { return v })
	})
	a = a.Or(p.rangeAtom)
	a = a.Or(p.charLit)
	a = a.Or(p.stringLit)
	a = a.Or(p.numberLit)
	a = a.Or(p.nullLit)
	a = a.Or(p.listInit)
	a = a.Or(p.mapInit)
	a = a.Or(p.collectionElem)
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		return presult.Map(p.Call(pos), func(v *ast.Call) ast.Expression { return v })
	})
	a = a.Or(p.breakAtom)
	a = a.Or(p.continueAtom)
	a = a.Or(p.unaryMinus)
	return a.Result()
}

func (p *Parser) boolLit(pos int) presult.Result[ast.Expression] {
	t, ok := p.peek(pos)
	if !ok {
		return presult.EOF[ast.Expression](pos)
	}
	switch t.Kind {
	case token.TRUE:
		return presult.Succeed(ast.Expression(&ast.BoolLit{Value: true}), pos+1)
	case token.FALSE:
		return presult.Succeed(ast.Expression(&ast.BoolLit{Value: false}), pos+1)
	default:
		return presult.Fail[ast.Expression](pos)
	}
}

func (p *Parser) nullLit(pos int) presult.Result[ast.Expression] {
	t := p.tok(token.NULL)(pos)
	return presult.Map(t, func(token.Token) ast.Expression { return &ast.NullLit{} })
}

func (p *Parser) charLit(pos int) presult.Result[ast.Expression] {
	t := p.tok(token.CHAR)(pos)
	return presult.Map(t, func(t token.Token) ast.Expression { return &ast.CharLit{Value: unquote(t.Lexeme)} })
}

func (p *Parser) stringLit(pos int) presult.Result[ast.Expression] {
	a := presult.StartAlt(pos, p.tok(token.STRING))
	a = a.Or(p.tok(token.TEXTBLOCK))
	r := a.Result()
	return presult.Map(r, func(t token.Token) ast.Expression {
		return &ast.StringLit{Value: unquote(t.Lexeme), TextBlock: t.Kind == token.TEXTBLOCK}
	})
}

func (p *Parser) numberLit(pos int) presult.Result[ast.Expression] {
	t := p.tok(token.NUMBER)(pos)
	return presult.Map(t, func(t token.Token) ast.Expression { return &ast.NumberLit{Value: t.Number} })
}

func (p *Parser) breakAtom(pos int) presult.Result[ast.Expression] {
	t := p.tok(token.BREAK)(pos)
	return presult.Map(t, func(token.Token) ast.Expression { return &ast.BreakExpr{} })
}

func (p *Parser) continueAtom(pos int) presult.Result[ast.Expression] {
	t := p.tok(token.CONTINUE)(pos)
	return presult.Map(t, func(token.Token) ast.Expression { return &ast.ContinueExpr{} })
}

func (p *Parser) unaryMinus(pos int) presult.Result[ast.Expression] {
	sub := p.tok(token.SUB)(pos)
	if !sub.IsSuccess() {
		return convertFail[ast.Expression](sub)
	}
	inner := p.Atom(sub.Pos())
	if !inner.IsSuccess() {
		return convertFail[ast.Expression](inner)
	}
	return presult.Succeed(ast.Expression(&ast.UnaryMinus{Expr: inner.Value()}), inner.Pos())
}

// listInit ≔ `[` [enumeration] `]`.
func (p *Parser) listInit(pos int) presult.Result[ast.Expression] {
	open := p.tok(token.LBRACK)(pos)
	if !open.IsSuccess() {
		return convertFail[ast.Expression](open)
	}
	elems := presult.OrVal(p.exprList(open.Pos()), []ast.Expression{})
	close_ := p.tok(token.RBRACK)(elems.Pos())
	if !close_.IsSuccess() {
		return convertFail[ast.Expression](close_)
	}
	return presult.Succeed(ast.Expression(&ast.ListInit{Elements: elems.Value()}), close_.Pos())
}

// mapInit ≔ `{` [ expression `:` expression { `,` expression `:` expression } ] `}`.
func (p *Parser) mapInit(pos int) presult.Result[ast.Expression] {
	open := p.tok(token.LBRACE)(pos)
	if !open.IsSuccess() {
		return convertFail[ast.Expression](open)
	}
	entries := presult.OrVal(p.mapEntryList(open.Pos()), []ast.MapEntry{})
	close_ := p.tok(token.RBRACE)(entries.Pos())
	if !close_.IsSuccess() {
		return convertFail[ast.Expression](close_)
	}
	return presult.Succeed(ast.Expression(&ast.MapInit{Entries: entries.Value()}), close_.Pos())
}

func (p *Parser) mapEntryList(pos int) presult.Result[[]ast.MapEntry] {
	head := p.mapEntry(pos)
	if !head.IsSuccess() {
		return convertFail[[]ast.MapEntry](head)
	}
	tail := presult.ZeroOrMore(head.Pos(), func(pos int) presult.Result[ast.MapEntry] {
		comma := p.tok(token.COMMA)(pos)
		if !comma.IsSuccess() {
			return convertFail[ast.MapEntry](comma)
		}
		return p.mapEntry(comma.Pos())
	})
	entries := append([]ast.MapEntry{head.Value()}, tail.Value()...)
	return presult.Succeed(entries, tail.Pos())
}

func (p *Parser) mapEntry(pos int) presult.Result[ast.MapEntry] {
	key := p.Expression(pos)
	if !key.IsSuccess() {
		return convertFail[ast.MapEntry](key)
	}
	colon := p.tok(token.COLON)(key.Pos())
	if !colon.IsSuccess() {
		return convertFail[ast.MapEntry](colon)
	}
	val := p.Expression(colon.Pos())
	if !val.IsSuccess() {
		return convertFail[ast.MapEntry](val)
	}
	return presult.Succeed(ast.MapEntry{Key: key.Value(), Value: val.Value()}, val.Pos())
}

// rangeAtom ≔ range_expr (`..` | `...`) range_expr; range_expr ≔ call | number.
func (p *Parser) rangeAtom(pos int) presult.Result[ast.Expression] {
	left := p.rangeExpr(pos)
	if !left.IsSuccess() {
		return convertFail[ast.Expression](left)
	}
	var isOut bool
	dots := p.tok(token.ELLIPSISOUT)(left.Pos())
	if dots.IsSuccess() {
		isOut = true
	} else {
		dots = p.tok(token.ELLIPSISIN)(left.Pos())
		if !dots.IsSuccess() {
			return convertFail[ast.Expression](dots)
		}
	}
	right := p.rangeExpr(dots.Pos())
	if !right.IsSuccess() {
		return convertFail[ast.Expression](right)
	}
	node := &ast.Range{Left: left.Value(), Right: right.Value(), IsOut: isOut}
	return presult.Succeed(ast.Expression(node), right.Pos())
}

func (p *Parser) rangeExpr(pos int) presult.Result[ast.Expression] {
	a := presult.StartAlt(pos, func(pos int) presult.Result[ast.Expression] {
		return presult.Map(p.Call(pos), func(v *ast.Call) ast.Expression { return v })
	})
	a = a.Or(p.numberLit)
	return a.Result()
}

// collectionElem ≔ (string-lit | call) list_init. A string-literal target
// is represented as a synthetic Call whose Name is the string's value.
func (p *Parser) collectionElem(pos int) presult.Result[ast.Expression] {
	a := presult.StartAlt(pos, func(pos int) presult.Result[ast.Expression] {
		s := p.tok(token.STRING)(pos)
		if !s.IsSuccess() {
			return convertFail[ast.Expression](s)
		}
		call := &ast.Call{Name: unquote(s.Value().Lexeme)}
		return presult.Succeed(ast.Expression(call), s.Pos())
	})
	a = a.Or(func(pos int) presult.Result[ast.Expression] {
		return presult.Map(p.Call(pos), func(v *ast.Call) ast.Expression { return v })
	})
	target := a.Result()
	if !target.IsSuccess() {
		return convertFail[ast.Expression](target)
	}
	idx := p.listInit(target.Pos())
	if !idx.IsSuccess() {
		return convertFail[ast.Expression](idx)
	}
	node := &ast.CollectionElem{Target: target.Value(), Index: idx.Value().(*ast.ListInit)}
	return presult.Succeed(ast.Expression(node), idx.Pos())
}

// Call ≔ id [ `{` block-body | `(` [enumeration] `)` ] [ `.` call ].
func (p *Parser) Call(pos int) presult.Result[*ast.Call] {
	p.trace("call", pos)
	idR := p.ident(pos)
	if !idR.IsSuccess() {
		return convertFail[*ast.Call](idR)
	}
	name := idR.Value().Lexeme
	cursor := idR.Pos()

	var body *ast.Block
	var args []ast.Expression
	hasArgs := false

	if t, ok := p.peek(cursor); ok && t.Kind == token.LBRACE {
		b := p.Block(cursor)
		if !b.IsSuccess() {
			return convertFail[*ast.Call](b)
		}
		body = b.Value()
		cursor = b.Pos()
	} else if ok && t.Kind == token.LPAREN {
		open := p.tok(token.LPAREN)(cursor)
		enumR := presult.OrVal(p.exprList(open.Pos()), []ast.Expression{})
		close_ := p.tok(token.RPAREN)(enumR.Pos())
		if !close_.IsSuccess() {
			return convertFail[*ast.Call](close_)
		}
		args = enumR.Value()
		hasArgs = true
		cursor = close_.Pos()
	}

	var tail *ast.Call
	if t, ok := p.peek(cursor); ok && t.Kind == token.DOT {
		tailR := p.Call(cursor + 1)
		if !tailR.IsSuccess() {
			return convertFail[*ast.Call](tailR)
		}
		tail = tailR.Value()
		cursor = tailR.Pos()
	}

	return presult.Succeed(&ast.Call{Name: name, Body: body, Args: args, HasArgs: hasArgs, Tail: tail}, cursor)
}
