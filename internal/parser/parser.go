// Package parser implements the recursive-descent grammar over the token
// vector produced by internal/lexer, using internal/presult's ParseResult
// algebra to thread cursor positions and compose alternatives. Every rule
// is a pure function of (parser, position) to a Result — no rule mutates
// the token slice or parser state.
package parser

import (
	"strings"

	"github.com/briarscript/briar/internal/ast"
	"github.com/briarscript/briar/internal/presult"
	"github.com/briarscript/briar/pkg/token"
)

// Options configures a Parser. The zero value is the default configuration.
type Options struct {
	// Trace, when set, receives one line per grammar rule entered. Mirrors
	// internal/lexer.WithTrace.
	Trace func(format string, args ...any)
}

// Option configures a Parser.
type Option func(*Options)

// WithTrace installs a trace sink.
func WithTrace(fn func(format string, args ...any)) Option {
	return func(o *Options) { o.Trace = fn }
}

// Parser holds an immutable token vector and exposes the grammar as a
// family of rule methods, each taking a cursor index and returning a
// presult.Result.
type Parser struct {
	tokens []token.Token
	opts   Options
}

// New builds a Parser over a token vector. The vector is never mutated or
// copied defensively — callers must not mutate it after construction.
func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// ParseScript runs the root grammar rule and validates that it consumed
// every token, converting a terminal Fail into Error(FinishedOnFail) and an
// UnreachedEOF if anything was left over.
func (p *Parser) ParseScript() (*ast.Script, error) {
	r := presult.ValidateEOF(p.Script(0), len(p.tokens))
	return presult.Unwrap(r)
}

func (p *Parser) trace(rule string, pos int) {
	if p.opts.Trace != nil {
		p.opts.Trace("parser: %s at %d", rule, pos)
	}
}

// peek returns the token at pos, or ok=false at or past end of input.
func (p *Parser) peek(pos int) (token.Token, bool) {
	if pos < 0 || pos >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[pos], true
}

// tok matches a single token of the given kind, soft-failing on mismatch
// and on end of input.
func (p *Parser) tok(kind token.Kind) func(int) presult.Result[token.Token] {
	return func(pos int) presult.Result[token.Token] {
		t, ok := p.peek(pos)
		if !ok {
			return presult.EOF[token.Token](pos)
		}
		if t.Kind == kind {
			return presult.Succeed(t, pos+1)
		}
		return presult.Fail[token.Token](pos)
	}
}

func (p *Parser) ident(pos int) presult.Result[token.Token] { return p.tok(token.IDENT)(pos) }

// Script ≔ one_or_more(file_unit).
func (p *Parser) Script(pos int) presult.Result[*ast.Script] {
	p.trace("script", pos)
	r := presult.OneOrMore(pos, p.FileUnit)
	return presult.Map(r, func(units []ast.Unit) *ast.Script { return &ast.Script{Units: units} })
}

// FileUnit ≔ class_def | function | import_module | statement | block.
func (p *Parser) FileUnit(pos int) presult.Result[ast.Unit] {
	p.trace("file_unit", pos)
	a := presult.StartAlt(pos, func(pos int) presult.Result[ast.Unit] {
		return presult.Map(p.ClassDef(pos), func(v *ast.ClassDef) ast.Unit { return v })
	})
	a = a.Or(func(pos int) presult.Result[ast.Unit] {
		return presult.Map(p.FunctionUnit(pos), func(v *ast.FunctionUnit) ast.Unit { return v })
	})
	a = a.Or(func(pos int) presult.Result[ast.Unit] {
		return presult.Map(p.ImportModule(pos), func(v *ast.ImportModule) ast.Unit { return v })
	})
	a = a.Or(func(pos int) presult.Result[ast.Unit] {
		return presult.Map(p.Statement(pos), func(v ast.Statement) ast.Unit { return &ast.StatementUnit{Stmt: v} })
	})
	a = a.Or(func(pos int) presult.Result[ast.Unit] {
		return presult.Map(p.Block(pos), func(v *ast.Block) ast.Unit { return v })
	})
	return a.Result()
}

// FunctionUnit is the file_unit "function" alternative: a bare function
// declaration at file scope, sharing its shape with a class-scope
// FunctionDecl.
func (p *Parser) FunctionUnit(pos int) presult.Result[*ast.FunctionUnit] {
	decl := p.functionDecl(pos)
	return presult.Map(decl, func(d *ast.FunctionDecl) *ast.FunctionUnit {
		return &ast.FunctionUnit{Name: d.Name, Params: d.Params, Body: d.Body}
	})
}

// functionDecl ≔ id params block. Shared by file-scope functions and
// class-scope method declarations.
func (p *Parser) functionDecl(pos int) presult.Result[*ast.FunctionDecl] {
	nameR := p.ident(pos)
	if !nameR.IsSuccess() {
		return convertFail[*ast.FunctionDecl](nameR)
	}
	name := nameR.Value().Lexeme
	paramsR := p.paramList(nameR.Pos())
	if !paramsR.IsSuccess() {
		return convertFail[*ast.FunctionDecl](paramsR)
	}
	bodyR := p.Block(paramsR.Pos())
	if !bodyR.IsSuccess() {
		return convertFail[*ast.FunctionDecl](bodyR)
	}
	return presult.Succeed(&ast.FunctionDecl{Name: name, Params: paramsR.Value(), Body: bodyR.Value()}, bodyR.Pos())
}

// paramList is a parenthesized, possibly empty, comma-separated id list:
// `( [ id {, id} ] )`.
func (p *Parser) paramList(pos int) presult.Result[[]string] {
	open := p.tok(token.LPAREN)(pos)
	if !open.IsSuccess() {
		return convertFail[[]string](open)
	}
	names := presult.OrVal(p.Params(open.Pos()), []string{})
	close_ := p.tok(token.RPAREN)(names.Pos())
	if !close_.IsSuccess() {
		return convertFail[[]string](close_)
	}
	return presult.Succeed(names.Value(), close_.Pos())
}

// Params ≔ id { `,` id }.
func (p *Parser) Params(pos int) presult.Result[[]string] {
	head := p.ident(pos)
	if !head.IsSuccess() {
		return convertFail[[]string](head)
	}
	tail := presult.ZeroOrMore(head.Pos(), func(pos int) presult.Result[string] {
		comma := p.tok(token.COMMA)(pos)
		if !comma.IsSuccess() {
			return convertFail[string](comma)
		}
		id := p.ident(comma.Pos())
		return presult.Map(id, func(t token.Token) string { return t.Lexeme })
	})
	names := append([]string{head.Value().Lexeme}, tail.Value()...)
	return presult.Succeed(names, tail.Pos())
}

// Block ≔ `{` [ `|` params `|` ] { statement } `}`.
func (p *Parser) Block(pos int) presult.Result[*ast.Block] {
	open := p.tok(token.LBRACE)(pos)
	if !open.IsSuccess() {
		return convertFail[*ast.Block](open)
	}

	cursor := open.Pos()
	var params []string
	hasParams := false
	if bar, ok := p.peek(cursor); ok && bar.Kind == token.BITOR {
		paramsR := p.Params(cursor + 1)
		if !paramsR.IsSuccess() {
			return convertFail[*ast.Block](paramsR)
		}
		closeBar := p.tok(token.BITOR)(paramsR.Pos())
		if !closeBar.IsSuccess() {
			return convertFail[*ast.Block](closeBar)
		}
		params = paramsR.Value()
		hasParams = true
		cursor = closeBar.Pos()
	}

	stmts := presult.ZeroOrMore(cursor, p.Statement)
	closeBrace := p.tok(token.RBRACE)(stmts.Pos())
	if !closeBrace.IsSuccess() {
		return convertFail[*ast.Block](closeBrace)
	}
	return presult.Succeed(&ast.Block{Params: params, HasParams: hasParams, Statements: stmts.Value()}, closeBrace.Pos())
}

// ImportModule ≔ `import` string-lit [ `for` import_variable {`,` import_variable} ].
func (p *Parser) ImportModule(pos int) presult.Result[*ast.ImportModule] {
	kw := p.tok(token.IMPORT)(pos)
	if !kw.IsSuccess() {
		return convertFail[*ast.ImportModule](kw)
	}
	pathR := p.tok(token.STRING)(kw.Pos())
	if !pathR.IsSuccess() {
		return convertFail[*ast.ImportModule](pathR)
	}
	path := unquote(pathR.Value().Lexeme)

	cursor := pathR.Pos()
	var vars []ast.ImportVar
	if forTok, ok := p.peek(cursor); ok && forTok.Kind == token.FOR {
		varsR := p.importVarList(cursor + 1)
		if !varsR.IsSuccess() {
			return convertFail[*ast.ImportModule](varsR)
		}
		vars = varsR.Value()
		cursor = varsR.Pos()
	}
	return presult.Succeed(&ast.ImportModule{Path: path, Vars: vars}, cursor)
}

func (p *Parser) importVarList(pos int) presult.Result[[]ast.ImportVar] {
	head := p.importVar(pos)
	if !head.IsSuccess() {
		return convertFail[[]ast.ImportVar](head)
	}
	tail := presult.ZeroOrMore(head.Pos(), func(pos int) presult.Result[ast.ImportVar] {
		comma := p.tok(token.COMMA)(pos)
		if !comma.IsSuccess() {
			return convertFail[ast.ImportVar](comma)
		}
		return p.importVar(comma.Pos())
	})
	vars := append([]ast.ImportVar{head.Value()}, tail.Value()...)
	return presult.Succeed(vars, tail.Pos())
}

// importVariable ≔ id [ `as` id ].
func (p *Parser) importVar(pos int) presult.Result[ast.ImportVar] {
	name := p.ident(pos)
	if !name.IsSuccess() {
		return convertFail[ast.ImportVar](name)
	}
	cursor := name.Pos()
	alias := ""
	hasAlias := false
	if asTok, ok := p.peek(cursor); ok && asTok.Kind == token.AS {
		aliasR := p.ident(cursor + 1)
		if !aliasR.IsSuccess() {
			return convertFail[ast.ImportVar](aliasR)
		}
		alias = aliasR.Value().Lexeme
		hasAlias = true
		cursor = aliasR.Pos()
	}
	return presult.Succeed(ast.ImportVar{Name: name.Value().Lexeme, Alias: alias, HasAlias: hasAlias}, cursor)
}

// convertFail re-tags a non-Success Result[A] as a Result[B] of the same
// variant (Fail stays Fail at the same position, Error passes its payload
// through unchanged). It must never be called on a Success.
func convertFail[B, A any](r presult.Result[A]) presult.Result[B] {
	if r.IsError() {
		return presult.Err[B](r.Error())
	}
	return presult.Fail[B](r.Pos())
}

// unquote strips the lexer-preserved delimiter characters from a string,
// char, or text-block lexeme. Escape decoding is intentionally NOT
// performed here: the AST carries the literal body verbatim, matching the
// parser's job of classification rather than evaluation — nothing
// downstream consumes or requires a decoded escape sequence.
func unquote(lexeme string) string {
	switch {
	case strings.HasPrefix(lexeme, `"""`) && strings.HasSuffix(lexeme, `"""`) && len(lexeme) >= 6:
		return lexeme[3 : len(lexeme)-3]
	case len(lexeme) >= 2:
		return lexeme[1 : len(lexeme)-1]
	default:
		return lexeme
	}
}
