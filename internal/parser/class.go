package parser

import (
	"github.com/briarscript/briar/internal/ast"
	"github.com/briarscript/briar/internal/presult"
	"github.com/briarscript/briar/pkg/token"
)

// ClassDef ≔ {attribute} [`foreign`] `class` id [ `is` id ] `{` {class_body} `}`.
func (p *Parser) ClassDef(pos int) presult.Result[*ast.ClassDef] {
	attrs := presult.ZeroOrMore(pos, p.Attribute)
	cursor := attrs.Pos()

	foreign := false
	if t, ok := p.peek(cursor); ok && t.Kind == token.FOREIGN {
		foreign = true
		cursor++
	}

	kw := p.tok(token.CLASS)(cursor)
	if !kw.IsSuccess() {
		return convertFail[*ast.ClassDef](kw)
	}
	name := p.ident(kw.Pos())
	if !name.IsSuccess() {
		return convertFail[*ast.ClassDef](name)
	}
	cursor = name.Pos()

	var parent string
	hasParent := false
	if t, ok := p.peek(cursor); ok && t.Kind == token.IS {
		pname := p.ident(cursor + 1)
		if !pname.IsSuccess() {
			return convertFail[*ast.ClassDef](pname)
		}
		parent = pname.Value().Lexeme
		hasParent = true
		cursor = pname.Pos()
	}

	open := p.tok(token.LBRACE)(cursor)
	if !open.IsSuccess() {
		return convertFail[*ast.ClassDef](open)
	}
	units := presult.ZeroOrMore(open.Pos(), p.ClassUnit)
	close_ := p.tok(token.RBRACE)(units.Pos())
	if !close_.IsSuccess() {
		return convertFail[*ast.ClassDef](close_)
	}

	node := &ast.ClassDef{
		Attributes: attrs.Value(), Foreign: foreign, Name: name.Value().Lexeme,
		Parent: parent, HasParent: hasParent, Units: units.Value(),
	}
	return presult.Succeed(node, close_.Pos())
}

// ClassUnit ≔ {attribute} [modifier] class_statement. modifier is any
// order-independent combination of `foreign` and `static`.
func (p *Parser) ClassUnit(pos int) presult.Result[ast.ClassUnit] {
	attrs := presult.ZeroOrMore(pos, p.Attribute)
	cursor := attrs.Pos()

	foreignSeen, staticSeen := false, false
	for {
		t, ok := p.peek(cursor)
		if !ok {
			break
		}
		if t.Kind == token.FOREIGN && !foreignSeen {
			foreignSeen = true
			cursor++
			continue
		}
		if t.Kind == token.STATIC && !staticSeen {
			staticSeen = true
			cursor++
			continue
		}
		break
	}

	mod := ast.ModNone
	switch {
	case foreignSeen && staticSeen:
		mod = ast.ModForeignStatic
	case foreignSeen:
		mod = ast.ModForeign
	case staticSeen:
		mod = ast.ModStatic
	}

	stmt := p.ClassStatement(cursor)
	if !stmt.IsSuccess() {
		return convertFail[ast.ClassUnit](stmt)
	}
	return presult.Succeed(ast.ClassUnit{Attributes: attrs.Value(), Modifier: mod, Stmt: stmt.Value()}, stmt.Pos())
}

// ClassStatement tries, in order: constructor, function, setter,
// subscript-set, subscript-get, operator-setter, operator-getter. Setter
// and function share the `id` prefix but diverge on the next token (`=`
// vs `(`); subscript-set is tried before subscript-get since both share
// the `(enumeration)` prefix.
func (p *Parser) ClassStatement(pos int) presult.Result[ast.ClassStatement] {
	a := presult.StartAlt(pos, p.constructor)
	a = a.Or(p.classFunction)
	a = a.Or(p.setter)
	a = a.Or(p.subscriptSet)
	a = a.Or(p.subscriptGet)
	a = a.Or(p.operatorSetter)
	a = a.Or(p.operatorGetter)
	return a.Result()
}

func (p *Parser) classFunction(pos int) presult.Result[ast.ClassStatement] {
	decl := p.functionDecl(pos)
	return presult.Map(decl, func(d *ast.FunctionDecl) ast.ClassStatement { return d })
}

// constructor ≔ `construct` id params block.
func (p *Parser) constructor(pos int) presult.Result[ast.ClassStatement] {
	kw := p.tok(token.CONSTRUCT)(pos)
	if !kw.IsSuccess() {
		return convertFail[ast.ClassStatement](kw)
	}
	id := p.ident(kw.Pos())
	if !id.IsSuccess() {
		return convertFail[ast.ClassStatement](id)
	}
	params := p.paramList(id.Pos())
	if !params.IsSuccess() {
		return convertFail[ast.ClassStatement](params)
	}
	body := p.Block(params.Pos())
	if !body.IsSuccess() {
		return convertFail[ast.ClassStatement](body)
	}
	node := &ast.Constructor{Name: id.Value().Lexeme, Params: params.Value(), Body: body.Value()}
	return presult.Succeed(ast.ClassStatement(node), body.Pos())
}

// setter ≔ id `=` `(` id `)` block.
func (p *Parser) setter(pos int) presult.Result[ast.ClassStatement] {
	id := p.ident(pos)
	if !id.IsSuccess() {
		return convertFail[ast.ClassStatement](id)
	}
	eq := p.tok(token.ASSIGN)(id.Pos())
	if !eq.IsSuccess() {
		return convertFail[ast.ClassStatement](eq)
	}
	lp := p.tok(token.LPAREN)(eq.Pos())
	if !lp.IsSuccess() {
		return convertFail[ast.ClassStatement](lp)
	}
	param := p.ident(lp.Pos())
	if !param.IsSuccess() {
		return convertFail[ast.ClassStatement](param)
	}
	rp := p.tok(token.RPAREN)(param.Pos())
	if !rp.IsSuccess() {
		return convertFail[ast.ClassStatement](rp)
	}
	body := p.Block(rp.Pos())
	if !body.IsSuccess() {
		return convertFail[ast.ClassStatement](body)
	}
	node := &ast.Setter{Name: id.Value().Lexeme, Param: param.Value().Lexeme, Body: body.Value()}
	return presult.Succeed(ast.ClassStatement(node), body.Pos())
}

// subscriptSet ≔ `(` enumeration `)` `=` `(` id `)` block.
func (p *Parser) subscriptSet(pos int) presult.Result[ast.ClassStatement] {
	lp := p.tok(token.LPAREN)(pos)
	if !lp.IsSuccess() {
		return convertFail[ast.ClassStatement](lp)
	}
	idx := p.exprList(lp.Pos())
	if !idx.IsSuccess() {
		return convertFail[ast.ClassStatement](idx)
	}
	rp := p.tok(token.RPAREN)(idx.Pos())
	if !rp.IsSuccess() {
		return convertFail[ast.ClassStatement](rp)
	}
	eq := p.tok(token.ASSIGN)(rp.Pos())
	if !eq.IsSuccess() {
		return convertFail[ast.ClassStatement](eq)
	}
	lp2 := p.tok(token.LPAREN)(eq.Pos())
	if !lp2.IsSuccess() {
		return convertFail[ast.ClassStatement](lp2)
	}
	param := p.ident(lp2.Pos())
	if !param.IsSuccess() {
		return convertFail[ast.ClassStatement](param)
	}
	rp2 := p.tok(token.RPAREN)(param.Pos())
	if !rp2.IsSuccess() {
		return convertFail[ast.ClassStatement](rp2)
	}
	body := p.Block(rp2.Pos())
	if !body.IsSuccess() {
		return convertFail[ast.ClassStatement](body)
	}
	node := &ast.SubscriptSet{Index: idx.Value(), Param: param.Value().Lexeme, Body: body.Value()}
	return presult.Succeed(ast.ClassStatement(node), body.Pos())
}

// subscriptGet ≔ `(` enumeration `)` block.
func (p *Parser) subscriptGet(pos int) presult.Result[ast.ClassStatement] {
	lp := p.tok(token.LPAREN)(pos)
	if !lp.IsSuccess() {
		return convertFail[ast.ClassStatement](lp)
	}
	idx := p.exprList(lp.Pos())
	if !idx.IsSuccess() {
		return convertFail[ast.ClassStatement](idx)
	}
	rp := p.tok(token.RPAREN)(idx.Pos())
	if !rp.IsSuccess() {
		return convertFail[ast.ClassStatement](rp)
	}
	body := p.Block(rp.Pos())
	if !body.IsSuccess() {
		return convertFail[ast.ClassStatement](body)
	}
	node := &ast.SubscriptGet{Index: idx.Value(), Body: body.Value()}
	return presult.Succeed(ast.ClassStatement(node), body.Pos())
}

// operatorSetterLabels is the fixed binary-operator-overload label set
// bound with `(id) block`.
var operatorSetterLabels = []struct {
	Kind  token.Kind
	Label string
}{
	{token.SUB, "-"}, {token.MULT, "*"}, {token.DIV, "/"}, {token.MOD, "%"},
	{token.ADD, "+"}, {token.ELLIPSISIN, ".."}, {token.ELLIPSISOUT, "..."},
	{token.LSHIFT, "<<"}, {token.BITAND, "&"}, {token.CARET, "^"}, {token.BITOR, "|"},
	{token.GT, ">"}, {token.LT, "<"}, {token.EQUAL, "=="}, {token.LE, "<="},
	{token.GE, ">="}, {token.NOTEQUAL, "!="}, {token.IS, "is"},
}

// operatorSetter ≔ operator-label `(` id `)` block.
func (p *Parser) operatorSetter(pos int) presult.Result[ast.ClassStatement] {
	for _, e := range operatorSetterLabels {
		t := p.tok(e.Kind)(pos)
		if !t.IsSuccess() {
			continue
		}
		lp := p.tok(token.LPAREN)(t.Pos())
		if !lp.IsSuccess() {
			return convertFail[ast.ClassStatement](lp)
		}
		param := p.ident(lp.Pos())
		if !param.IsSuccess() {
			return convertFail[ast.ClassStatement](param)
		}
		rp := p.tok(token.RPAREN)(param.Pos())
		if !rp.IsSuccess() {
			return convertFail[ast.ClassStatement](rp)
		}
		body := p.Block(rp.Pos())
		if !body.IsSuccess() {
			return convertFail[ast.ClassStatement](body)
		}
		node := &ast.OperatorSetter{Label: e.Label, Param: param.Value().Lexeme, Body: body.Value()}
		return presult.Succeed(ast.ClassStatement(node), body.Pos())
	}
	return presult.Fail[ast.ClassStatement](pos)
}

// operatorGetter ≔ (`-` | `~` | `!` | id) [block].
func (p *Parser) operatorGetter(pos int) presult.Result[ast.ClassStatement] {
	t, ok := p.peek(pos)
	if !ok {
		return presult.EOF[ast.ClassStatement](pos)
	}
	var label string
	switch t.Kind {
	case token.SUB:
		label = "-"
	case token.TILDE:
		label = "~"
	case token.BANG:
		label = "!"
	case token.IDENT:
		label = t.Lexeme
	default:
		return presult.Fail[ast.ClassStatement](pos)
	}
	cursor := pos + 1

	bodyR := p.Block(cursor)
	if bodyR.IsError() {
		return convertFail[ast.ClassStatement](bodyR)
	}
	if bodyR.IsSuccess() {
		node := &ast.OperatorGetter{Label: label, Body: bodyR.Value()}
		return presult.Succeed(ast.ClassStatement(node), bodyR.Pos())
	}
	node := &ast.OperatorGetter{Label: label, Body: nil}
	return presult.Succeed(ast.ClassStatement(node), cursor)
}

// Attribute ≔ `#` [`!`] (group | simple).
func (p *Parser) Attribute(pos int) presult.Result[ast.Attribute] {
	hash := p.tok(token.HASH)(pos)
	if !hash.IsSuccess() {
		return convertFail[ast.Attribute](hash)
	}
	cursor := hash.Pos()
	module := false
	if bang := p.tok(token.BANG)(cursor); bang.IsSuccess() {
		module = true
		cursor = bang.Pos()
	}

	a := presult.StartAlt(cursor, func(pos int) presult.Result[ast.Attribute] {
		return p.attributeGroup(module, pos)
	})
	a = a.Or(func(pos int) presult.Result[ast.Attribute] {
		return p.attributeSimple(module, pos)
	})
	return a.Result()
}

// group ≔ id `(` attr_val { `,` attr_val } `)`.
func (p *Parser) attributeGroup(module bool, pos int) presult.Result[ast.Attribute] {
	id := p.ident(pos)
	if !id.IsSuccess() {
		return convertFail[ast.Attribute](id)
	}
	open := p.tok(token.LPAREN)(id.Pos())
	if !open.IsSuccess() {
		return convertFail[ast.Attribute](open)
	}
	vals := p.attrValList(open.Pos())
	if !vals.IsSuccess() {
		return convertFail[ast.Attribute](vals)
	}
	close_ := p.tok(token.RPAREN)(vals.Pos())
	if !close_.IsSuccess() {
		return convertFail[ast.Attribute](close_)
	}
	node := ast.Attribute{Module: module, Group: true, ID: id.Value().Lexeme, Values: vals.Value()}
	return presult.Succeed(node, close_.Pos())
}

// simple ≔ attr_val.
func (p *Parser) attributeSimple(module bool, pos int) presult.Result[ast.Attribute] {
	v := p.attrVal(pos)
	if !v.IsSuccess() {
		return convertFail[ast.Attribute](v)
	}
	node := ast.Attribute{Module: module, Group: false, Values: []ast.AttrVal{v.Value()}}
	return presult.Succeed(node, v.Pos())
}

func (p *Parser) attrValList(pos int) presult.Result[[]ast.AttrVal] {
	head := p.attrVal(pos)
	if !head.IsSuccess() {
		return convertFail[[]ast.AttrVal](head)
	}
	tail := presult.ZeroOrMore(head.Pos(), func(pos int) presult.Result[ast.AttrVal] {
		comma := p.tok(token.COMMA)(pos)
		if !comma.IsSuccess() {
			return convertFail[ast.AttrVal](comma)
		}
		return p.attrVal(comma.Pos())
	})
	vals := append([]ast.AttrVal{head.Value()}, tail.Value()...)
	return presult.Succeed(vals, tail.Pos())
}

// attr_val ≔ id [ `=` atom ].
func (p *Parser) attrVal(pos int) presult.Result[ast.AttrVal] {
	id := p.ident(pos)
	if !id.IsSuccess() {
		return convertFail[ast.AttrVal](id)
	}
	cursor := id.Pos()
	var val ast.Expression
	hasVal := false
	if eq := p.tok(token.ASSIGN)(cursor); eq.IsSuccess() {
		atomR := p.Atom(eq.Pos())
		if !atomR.IsSuccess() {
			return convertFail[ast.AttrVal](atomR)
		}
		val = atomR.Value()
		hasVal = true
		cursor = atomR.Pos()
	}
	return presult.Succeed(ast.AttrVal{Key: id.Value().Lexeme, Value: val, HasValue: hasVal}, cursor)
}
