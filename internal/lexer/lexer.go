// Package lexer turns source text into a flat token vector. It is a
// regex-driven scanner: every token class is described by an anchored
// regular expression, classification is longest-match-then-declaration-
// order, and on the first unmatched byte the whole run fails with a single
// BadToken error (no partial results, no error recovery).
package lexer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/briarscript/briar/internal/presult"
	"github.com/briarscript/briar/pkg/token"
)

// Options configures a Lex run. The zero value is the default
// configuration.
type Options struct {
	// Trace, when set, receives one line per token classified. It exists
	// for debugging a misbehaving grammar rule and is never required for
	// correct operation — the lexer performs no I/O of its own otherwise.
	Trace func(format string, args ...any)
}

// Option configures a Lex run.
type Option func(*Options)

// WithTrace installs a trace sink, mirroring how callers enable verbose
// diagnostics elsewhere in this module (see internal/parser.WithTrace).
func WithTrace(fn func(format string, args ...any)) Option {
	return func(o *Options) { o.Trace = fn }
}

var (
	reWhitespace  = regexp.MustCompile(`^[ \t\r\n\f\v]+`)
	reLineComment = regexp.MustCompile(`^//[^\r\n]*`)
	reBlockComment = regexp.MustCompile(`(?s)^/\*.*?\*/`)

	reTextBlock = regexp.MustCompile(`^"""(?:[^"\\]|\\[tun"])*"""`)
	reString    = regexp.MustCompile(`^"(?:[^"\\]|\\[tun"])*"`)
	reChar      = regexp.MustCompile(`^'(?:[^'\\]|\\[tun'])*'`)

	reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*`)

	reBinary = regexp.MustCompile(`^0[bB][01]+`)
	reHex    = regexp.MustCompile(`^-?0x[0-9a-f](?:[0-9a-f_]*[0-9a-f])?`)
	reFloatA = regexp.MustCompile(`^-?(?:[0-9](?:[0-9_]*[0-9])?)?\.[0-9](?:[0-9_]*[0-9])?(?:[eE][+-]?[0-9]+)?[fFdD]?`)
	reFloatB = regexp.MustCompile(`^-?[0-9](?:[0-9_]*[0-9])?[eE][+-]?[0-9]+[fFdD]?`)
	reInt    = regexp.MustCompile(`^-?[0-9](?:[0-9_]*[0-9])?`)
)

// punctuation is tried longest-match-first; ties are broken by this order,
// which always lists a multi-character token ahead of its own prefix
// (">>>=" before ">>=" before ">>" before ">", etc.).
var punctuation = []struct {
	lexeme string
	kind   token.Kind
}{
	{">>>=", token.URSHIFTASSIGN},
	{"...", token.ELLIPSISOUT},
	{"<<=", token.LSHIFTASSIGN},
	{">>=", token.RSHIFTASSIGN},
	{"==", token.EQUAL},
	{"!=", token.NOTEQUAL},
	{"&&", token.AND},
	{"||", token.OR},
	{"++", token.INC},
	{"--", token.DEC},
	{"+=", token.ADDASSIGN},
	{"-=", token.SUBASSIGN},
	{"*=", token.MULTASSIGN},
	{"&=", token.ANDASSIGN},
	{"|=", token.ORASSIGN},
	{"^=", token.XORASSIGN},
	{"%=", token.MODASSIGN},
	{"/=", token.DIVASSIGN},
	{">>", token.RSHIFT},
	{"<<", token.LSHIFT},
	{">=", token.GE},
	{"<=", token.LE},
	{"..", token.ELLIPSISIN},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACK},
	{"]", token.RBRACK},
	{":", token.COLON},
	{";", token.SEMI},
	{",", token.COMMA},
	{".", token.DOT},
	{"+", token.ADD},
	{"-", token.SUB},
	{"*", token.MULT},
	{"/", token.DIV},
	{"&", token.BITAND},
	{"|", token.BITOR},
	{"!", token.BANG},
	{"?", token.QUESTION},
	{"#", token.HASH},
	{">", token.GT},
	{"<", token.LT},
	{"~", token.TILDE},
	{"^", token.CARET},
	{"=", token.ASSIGN},
	{"%", token.MOD},
}

// PositionAt resolves the line/column for a byte offset into source by
// scanning from the start. It exists for callers reporting a diagnostic
// against a byte span after the fact (a BadToken's Span, say), where the
// incremental line/col tracking Lex does internally is no longer available.
func PositionAt(source string, offset int) token.Position {
	if offset > len(source) {
		offset = len(source)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return token.Position{Line: line, Column: col, Offset: offset}
}

// Lex tokenizes source in full and returns the resulting vector, or the
// first BadToken error encountered. There is no end-of-input sentinel — the
// parser uses len(tokens) to detect the end of the stream.
func Lex(source string, opts ...Option) ([]token.Token, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	var tokens []token.Token
	offset := 0
	line, col := 1, 1

	advance := func(n int) {
		for i := 0; i < n; i++ {
			if source[offset+i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		offset += n
	}

	for offset < len(source) {
		rest := source[offset:]

		if m := reWhitespace.FindString(rest); m != "" {
			advance(len(m))
			continue
		}
		if m := reLineComment.FindString(rest); m != "" {
			advance(len(m))
			continue
		}
		if m := reBlockComment.FindString(rest); m != "" {
			advance(len(m))
			continue
		}

		startPos := token.Position{Line: line, Column: col, Offset: offset}
		tok, n, ok := classify(rest, offset, startPos)
		if !ok {
			lexeme := string(rest[0])
			return nil, presult.Error{
				Kind:   presult.BadToken,
				Lexeme: lexeme,
				Span:   token.Span{Start: offset, End: offset + 1},
			}
		}

		if o.Trace != nil {
			o.Trace("lex: %s at %s", tok, startPos)
		}
		tokens = append(tokens, tok)
		advance(n)
	}

	return tokens, nil
}

// classify matches the single longest token at the start of rest,
// preferring the rule that appears first in declaration order among ties.
// It returns the built token and the number of bytes consumed.
func classify(rest string, offset int, pos token.Position) (token.Token, int, bool) {
	span := func(n int) token.Span { return token.Span{Start: offset, End: offset + n} }

	if m := reTextBlock.FindString(rest); m != "" {
		return token.Token{Kind: token.TEXTBLOCK, Lexeme: m, Span: span(len(m)), Pos: pos}, len(m), true
	}
	if m := reString.FindString(rest); m != "" {
		return token.Token{Kind: token.STRING, Lexeme: m, Span: span(len(m)), Pos: pos}, len(m), true
	}
	if m := reChar.FindString(rest); m != "" {
		return token.Token{Kind: token.CHAR, Lexeme: m, Span: span(len(m)), Pos: pos}, len(m), true
	}
	if m := reIdent.FindString(rest); m != "" {
		kind := token.IDENT
		if kw, isKeyword := token.Keywords[m]; isKeyword {
			kind = kw
		}
		return token.Token{Kind: kind, Lexeme: m, Span: span(len(m)), Pos: pos}, len(m), true
	}
	if m := reBinary.FindString(rest); m != "" {
		n, err := parseBinary(m)
		if err == nil {
			return token.Token{Kind: token.NUMBER, Lexeme: m, Span: span(len(m)), Pos: pos, Number: n}, len(m), true
		}
	}
	if m := reHex.FindString(rest); m != "" {
		n, err := parseHex(m)
		if err == nil {
			return token.Token{Kind: token.NUMBER, Lexeme: m, Span: span(len(m)), Pos: pos, Number: n}, len(m), true
		}
	}
	if m := longestOf(reFloatA, reFloatB, rest); m != "" {
		n, err := parseFloat(m)
		if err == nil {
			return token.Token{Kind: token.NUMBER, Lexeme: m, Span: span(len(m)), Pos: pos, Number: n}, len(m), true
		}
	}
	if m := reInt.FindString(rest); m != "" {
		n, err := parseInt(m)
		if err == nil {
			return token.Token{Kind: token.NUMBER, Lexeme: m, Span: span(len(m)), Pos: pos, Number: n}, len(m), true
		}
	}
	for _, p := range punctuation {
		if strings.HasPrefix(rest, p.lexeme) {
			return token.Token{Kind: p.kind, Lexeme: p.lexeme, Span: span(len(p.lexeme)), Pos: pos}, len(p.lexeme), true
		}
	}

	return token.Token{}, 0, false
}

// longestOf returns whichever of a, b matches the longer prefix of rest
// ("float" has two productions; the longer match wins).
func longestOf(a, b *regexp.Regexp, rest string) string {
	ma, mb := a.FindString(rest), b.FindString(rest)
	if len(ma) >= len(mb) {
		return ma
	}
	return mb
}

func stripUnderscores(s string) string { return strings.ReplaceAll(s, "_", "") }

func parseInt(lexeme string) (token.Number, error) {
	v, err := strconv.ParseInt(stripUnderscores(lexeme), 10, 64)
	if err != nil {
		return token.Number{}, err
	}
	return token.Number{Kind: token.NumInt, Int: v}, nil
}

func parseFloat(lexeme string) (token.Number, error) {
	clean := stripUnderscores(lexeme)
	clean = strings.TrimRight(clean, "fFdD")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return token.Number{}, err
	}
	return token.Number{Kind: token.NumFloat, Float: v}, nil
}

func parseHex(lexeme string) (token.Number, error) {
	clean := stripUnderscores(lexeme)
	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "0x")
	v, err := strconv.ParseInt(clean, 16, 64)
	if err != nil {
		return token.Number{}, err
	}
	if neg {
		v = -v
	}
	return token.Number{Kind: token.NumHex, Int: v}, nil
}

// parseBinary parses a "0b…"/"0B…" literal as a 64-bit signed integer,
// standardized on int64 regardless of host word size (see DESIGN.md).
func parseBinary(lexeme string) (token.Number, error) {
	v, err := strconv.ParseInt(lexeme[2:], 2, 64)
	if err != nil {
		return token.Number{}, err
	}
	return token.Number{Kind: token.NumBinary, Int: v}, nil
}
