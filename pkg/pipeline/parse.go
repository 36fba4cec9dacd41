package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrUnknownStage is returned by [Registry.Lookup] and [Parse] when an
	// expression names a stage that is not registered.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrSyntax is returned by [Parse] for malformed pipeline expressions.
	ErrSyntax = errors.New("syntax error")
)

// Registry maps stage names to leaf transformers for expression parsing.
type Registry map[string]Transformer

// Lookup resolves a stage name.
func (r Registry) Lookup(name string) (Transformer, error) {
	t, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	return t, nil
}

// Names returns the registered stage names in unspecified order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}

// Parse builds a pipeline from an expression such as
//
//	(bm25 % 10) >> qe >> bm25 ** dph
//
// Operators follow the conventional precedence: ** (feature union, right
// associative) binds tightest, then * (scalar product) and % (rank cutoff)
// with a numeric right operand, then >> (sequential composition). Leaf names
// are resolved against reg.
func Parse(expr string, reg Registry) (Transformer, error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, reg: reg}
	t, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.peek().text)
	}
	return t, nil
}

// =============================================================================
// Lexer
// =============================================================================

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokSeq    // >>
	tokUnion  // **
	tokStar   // *
	tokCutoff // %
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
}

func lex(expr string) ([]token, error) {
	var toks []token
	rs := []rune(expr)
	i := 0
	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '%':
			toks = append(toks, token{tokCutoff, "%"})
			i++
		case r == '*':
			if i+1 < len(rs) && rs[i+1] == '*' {
				toks = append(toks, token{tokUnion, "**"})
				i += 2
			} else {
				toks = append(toks, token{tokStar, "*"})
				i++
			}
		case r == '>':
			if i+1 < len(rs) && rs[i+1] == '>' {
				toks = append(toks, token{tokSeq, ">>"})
				i += 2
			} else {
				return nil, fmt.Errorf("%w: single '>' at offset %d", ErrSyntax, i)
			}
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, string(rs[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || strings.ContainsRune("_.-", rs[j])) {
				j++
			}
			toks = append(toks, token{tokIdent, string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, string(r), i)
		}
	}
	return append(toks, token{tokEOF, ""}), nil
}

// =============================================================================
// Parser - recursive descent over the operator precedence levels
// =============================================================================

type parser struct {
	toks []token
	pos  int
	reg  Registry
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// parsePipe handles >> (lowest precedence, left associative).
func (p *parser) parsePipe() (Transformer, error) {
	left, err := p.parseWrap()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokSeq {
		p.next()
		right, err := p.parseWrap()
		if err != nil {
			return nil, err
		}
		left = Then(left, right)
	}
	return left, nil
}

// parseWrap handles * and % with a numeric right operand (left associative).
func (p *parser) parseWrap() (Transformer, error) {
	left, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			f, err := p.number()
			if err != nil {
				return nil, err
			}
			left = &ScalarProduct{Model: left, Scalar: f}
		case tokCutoff:
			p.next()
			f, err := p.number()
			if err != nil {
				return nil, err
			}
			if f != float64(int(f)) {
				return nil, fmt.Errorf("%w: rank cutoff must be an integer, got %v", ErrSyntax, f)
			}
			left = &RankCutoff{Model: left, K: int(f)}
		default:
			return left, nil
		}
	}
}

// parseUnion handles ** (highest precedence, right associative).
func (p *parser) parseUnion() (Transformer, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokUnion {
		return left, nil
	}
	p.next()
	right, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	return Union(left, right), nil
}

func (p *parser) parsePrimary() (Transformer, error) {
	switch t := p.next(); t.kind {
	case tokIdent:
		return p.reg.Lookup(t.text)
	case tokLParen:
		inner, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')', got %q", ErrSyntax, closing.text)
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	default:
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
	}
}

func (p *parser) number() (float64, error) {
	t := p.next()
	if t.kind != tokNumber {
		return 0, fmt.Errorf("%w: expected number, got %q", ErrSyntax, t.text)
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, t.text)
	}
	return f, nil
}
