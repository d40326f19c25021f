package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/fmtshift/fmtshift/lex"
)

type Parser struct {
	lex *lex.Scanner
}

func New(scanner *lex.Scanner) *Parser {
	return &Parser{
		lex: scanner,
	}
}

// typeKeyword gates the cast-vs-paren ambiguity: `(int)x` starts with a
// type keyword, `(x)` does not.
var typeKeyword = map[string]bool{
	"int": true, "char": true, "unsigned": true, "signed": true,
	"long": true, "short": true, "void": true, "const": true,
	"float": true, "double": true, "size_t": true, "ssize_t": true,
	"wchar_t": true, "int8_t": true, "uint8_t": true, "int32_t": true,
	"uint32_t": true, "int64_t": true, "uint64_t": true,
}

// Parse reads call statements until end of input.
func (p *Parser) Parse() ([]*Stmt, error) {
	statements := []*Stmt{}
	c := 0
	for {
		switch p.lex.Token.Type {
		case lex.TokenEnd:
			return statements, nil
		case lex.TokenSemicolon:
			// stray terminator
			p.lex.NextToken()
		case lex.TokenBad:
			return nil, fmt.Errorf("[%v] lex error: %s: %+v", c, p.lex.Token.Value, p.lex.Token.Pos())
		case lex.TokenIdent:
			x, err := p.handleExpr()
			if err != nil {
				return nil, fmt.Errorf("[%v] failed to parse statement: %w", c, err)
			}
			if _, ok := x.(*CallExpr); !ok {
				return nil, fmt.Errorf("[%v] statement is not a call: %q", c, Source(x))
			}
			if p.lex.Token.Type != lex.TokenSemicolon {
				return nil, fmt.Errorf("[%v] expected ';' after statement, got %q: %+v", c, p.lex.Token.Value, p.lex.Token.Pos())
			}
			p.lex.NextToken() // eat ';'
			statements = append(statements, &Stmt{X: x})
		default:
			return nil, fmt.Errorf("[%v] failed to handle statement, unknown token %q: %+v", c, p.lex.Token.Value, p.lex.Token.Pos())
		}
		c++
	}
}

func (p *Parser) handleExpr() (Expr, error) {
	tok := p.lex.Token
	switch tok.Type {
	case lex.TokenIdent:
		p.lex.NextToken() // eat the identifier
		switch p.lex.Token.Type {
		case lex.TokenLeftParen:
			args, err := p.handleArgs()
			if err != nil {
				return nil, fmt.Errorf("failed to parse arguments of %q: %w", tok.Value, err)
			}
			return &CallExpr{Callee: tok.Value, Args: args, At: tok.Pos()}, nil
		case lex.TokenColon:
			p.lex.NextToken() // eat ':'
			x, err := p.handleExpr()
			if err != nil {
				return nil, fmt.Errorf("failed to parse %q-marked expression: %w", tok.Value, err)
			}
			return &MarkExpr{Label: tok.Value, X: x, At: tok.Pos()}, nil
		}
		return &Ident{Name: tok.Value, At: tok.Pos()}, nil
	case lex.TokenInt:
		return p.handleInt(false)
	case lex.TokenMinus:
		p.lex.NextToken() // eat '-'
		if p.lex.Token.Type != lex.TokenInt {
			return nil, fmt.Errorf("expected number after '-', got %q: %+v", p.lex.Token.Value, p.lex.Token.Pos())
		}
		return p.handleInt(true)
	case lex.TokenString:
		p.lex.NextToken()
		return &StrLit{Value: tok.Value, Flavor: tok.Flavor, At: tok.Pos()}, nil
	case lex.TokenChar:
		p.lex.NextToken()
		r, _ := utf8.DecodeRuneInString(tok.Value)
		return &CharLit{Value: r, At: tok.Pos()}, nil
	case lex.TokenLeftParen:
		return p.handleParen()
	case lex.TokenBad:
		return nil, fmt.Errorf("lex error: %s: %+v", tok.Value, tok.Pos())
	}
	return nil, fmt.Errorf("unexpected token %q in expression: %+v", tok.Value, tok.Pos())
}

func (p *Parser) handleInt(neg bool) (Expr, error) {
	tok := p.lex.Token
	p.lex.NextToken() // eat the number
	n, err := strconv.Atoi(tok.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse int %q at %+v: %w", tok.Value, tok.Pos(), err)
	}
	if neg {
		n = -n
	}
	v, err := safecast.Conv[int32](n)
	if err != nil {
		return nil, fmt.Errorf("integer literal %v does not fit an int at %+v: %w", n, tok.Pos(), err)
	}
	return &IntLit{Value: v, At: tok.Pos()}, nil
}

// handleParen resolves `(type)x` casts against `(x)` grouping.
func (p *Parser) handleParen() (Expr, error) {
	open := p.lex.Token
	p.lex.NextToken() // eat '('

	if p.lex.Token.Type == lex.TokenIdent && typeKeyword[p.lex.Token.Value] {
		var parts []string
		for {
			switch p.lex.Token.Type {
			case lex.TokenIdent:
				parts = append(parts, p.lex.Token.Value)
				p.lex.NextToken()
			case lex.TokenStar:
				parts = append(parts, "*")
				p.lex.NextToken()
			case lex.TokenRightParen:
				p.lex.NextToken() // eat ')'
				x, err := p.handleExpr()
				if err != nil {
					return nil, fmt.Errorf("failed to parse cast operand: %w", err)
				}
				return &CastExpr{Type: strings.Join(parts, " "), X: x, At: open.Pos()}, nil
			default:
				return nil, fmt.Errorf("unexpected token %q in cast type: %+v", p.lex.Token.Value, p.lex.Token.Pos())
			}
		}
	}

	x, err := p.handleExpr()
	if err != nil {
		return nil, fmt.Errorf("failed to parse parenthesized expression: %w", err)
	}
	if p.lex.Token.Type != lex.TokenRightParen {
		return nil, fmt.Errorf("expected ')', found %q: %+v", p.lex.Token.Value, p.lex.Token.Pos())
	}
	p.lex.NextToken() // eat ')'
	return &ParenExpr{X: x, At: open.Pos()}, nil
}

func (p *Parser) handleArgs() ([]Expr, error) {
	p.lex.NextToken() // eat '('
	var args []Expr

	if p.lex.Token.Type == lex.TokenRightParen {
		p.lex.NextToken() // eat ')'
		return args, nil
	}

	for {
		x, err := p.handleExpr()
		if err != nil {
			return nil, fmt.Errorf("failed to handle argument: %w", err)
		}
		args = append(args, x)

		switch p.lex.Token.Type {
		case lex.TokenComma:
			p.lex.NextToken() // eat ','
		case lex.TokenRightParen:
			p.lex.NextToken() // eat ')'
			return args, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')', found %q: %+v", p.lex.Token.Value, p.lex.Token.Pos())
		}
	}
}
