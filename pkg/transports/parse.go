package transports

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Expr is one parsed construction expression: a constructor name applied to
// literal arguments. The grammar is deliberately tiny so configuration
// strings can never smuggle code:
//
//	expr    = ident "(" [ arg { "," arg } ] ")"
//	arg     = string | integer | bool
//	string  = "'" ... "'" | `"` ... `"`
//	ident   = letter { letter | digit | "_" | "-" }
//
// Argument values are string, int64 or bool.
type Expr struct {
	Name string
	Args []any
}

type parser struct {
	in  string
	pos int
}

// Parse parses a single construction expression.
func Parse(spec string) (Expr, error) {
	p := &parser{in: spec}
	p.skipSpace()
	name, err := p.ident()
	if err != nil {
		return Expr{}, err
	}
	ex := Expr{Name: name}
	p.skipSpace()
	if !p.eat('(') {
		return Expr{}, p.errf("expected '(' after constructor name %q", name)
	}
	p.skipSpace()
	if p.eat(')') {
		return p.finish(ex)
	}
	for {
		arg, err := p.arg()
		if err != nil {
			return Expr{}, err
		}
		ex.Args = append(ex.Args, arg)
		p.skipSpace()
		if p.eat(',') {
			p.skipSpace()
			continue
		}
		if p.eat(')') {
			return p.finish(ex)
		}
		return Expr{}, p.errf("expected ',' or ')'")
	}
}

func (p *parser) finish(ex Expr) (Expr, error) {
	p.skipSpace()
	if p.pos != len(p.in) {
		return Expr{}, p.errf("trailing input after expression")
	}
	return ex, nil
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("parse %q at offset %d: %s", p.in, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.in) && unicode.IsSpace(rune(p.in[p.pos])) {
		p.pos++
	}
}

func (p *parser) eat(c byte) bool {
	if p.pos < len(p.in) && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) ident() (string, error) {
	start := p.pos
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		if c == '_' || c == '-' || unicode.IsLetter(rune(c)) || (p.pos > start && unicode.IsDigit(rune(c))) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errf("expected constructor name")
	}
	return strings.ToLower(p.in[start:p.pos]), nil
}

func (p *parser) arg() (any, error) {
	if p.pos >= len(p.in) {
		return nil, p.errf("expected argument")
	}
	switch c := p.in[p.pos]; {
	case c == '\'' || c == '"':
		return p.stringLit(c)
	case c == '-' || c == '+' || unicode.IsDigit(rune(c)):
		return p.intLit()
	default:
		word, err := p.ident()
		if err != nil {
			return nil, p.errf("expected string, integer or bool argument")
		}
		switch word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, p.errf("unknown literal %q", word)
	}
}

func (p *parser) stringLit(quote byte) (any, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		if c == quote {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.in) {
			p.pos++
			c = p.in[p.pos]
		}
		b.WriteByte(c)
		p.pos++
	}
	return nil, p.errf("unterminated string literal")
}

func (p *parser) intLit() (any, error) {
	start := p.pos
	if c := p.in[p.pos]; c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.in) && unicode.IsDigit(rune(p.in[p.pos])) {
		p.pos++
	}
	v, err := strconv.ParseInt(p.in[start:p.pos], 10, 64)
	if err != nil {
		return nil, p.errf("bad integer literal %q", p.in[start:p.pos])
	}
	return v, nil
}
