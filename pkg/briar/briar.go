// Package briar is the public facade over the lexer and parser: source
// text in, a typed AST out. It is a thin wrapper with no state beyond the
// functional options threaded down to internal/lexer and internal/parser.
package briar

import (
	"github.com/briarscript/briar/internal/ast"
	"github.com/briarscript/briar/internal/errors"
	"github.com/briarscript/briar/internal/lexer"
	"github.com/briarscript/briar/internal/parser"
	"github.com/briarscript/briar/internal/presult"
	"github.com/briarscript/briar/pkg/token"
)

// Options configures a Parse call.
type Options struct {
	Trace func(format string, args ...any)
}

// Option configures Parse.
type Option func(*Options)

// WithTrace installs a trace sink shared by the lexer and the parser.
func WithTrace(fn func(format string, args ...any)) Option {
	return func(o *Options) { o.Trace = fn }
}

// Parse tokenizes and parses source in full, returning the script AST or
// the first error encountered — a lexer BadToken, or a parser Error
// (FailedOnValidation, UnreachedEOF, FinishedOnFail) — resolved into an
// errors.SourceError carrying a line/column and a caret into source.
func Parse(source string, opts ...Option) (*ast.Script, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	var lexOpts []lexer.Option
	var parseOpts []parser.Option
	if o.Trace != nil {
		lexOpts = append(lexOpts, lexer.WithTrace(o.Trace))
		parseOpts = append(parseOpts, parser.WithTrace(o.Trace))
	}

	tokens, err := lexer.Lex(source, lexOpts...)
	if err != nil {
		return nil, resolveError(source, tokens, err)
	}

	p := parser.New(tokens, parseOpts...)
	script, err := p.ParseScript()
	if err != nil {
		return nil, resolveError(source, tokens, err)
	}
	return script, nil
}

// resolveError turns a raw presult.Error from the lexer or parser into a
// SourceError anchored at the offending token's span, or at the end of
// source when the error carries no in-range token index (a ReachedEOF past
// the last token, or any error on a source with no tokens). FinishedOnFail
// always carries Pos 0, so it resolves to the first token when there is one.
func resolveError(source string, tokens []token.Token, err error) error {
	pe, ok := err.(presult.Error)
	if !ok {
		return err
	}

	if pe.Kind == presult.BadToken {
		return errors.New(source, pe.Span, lexer.PositionAt(source, pe.Span.Start), pe.Error())
	}

	if pe.Pos >= 0 && pe.Pos < len(tokens) {
		tok := tokens[pe.Pos]
		return errors.New(source, tok.Span, tok.Pos, pe.Error())
	}

	eof := token.Span{Start: len(source), End: len(source)}
	return errors.New(source, eof, lexer.PositionAt(source, len(source)), pe.Error())
}
