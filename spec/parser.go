package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedSpecError reports a conversion the parser does not
// recognize. Found is zero when the string ended mid-conversion.
type MalformedSpecError struct {
	Offset int
	Found  byte
}

func (e *MalformedSpecError) Error() string {
	if e.Found == 0 {
		return fmt.Sprintf("format string ends inside a conversion at byte %d", e.Offset)
	}
	return fmt.Sprintf("unrecognized conversion %q at byte %d", e.Found, e.Offset)
}

// Parser is a single forward pass over a format string. Pieces are
// handed to the callback in order; the pass cannot be restarted. On
// error the caller must discard whatever the callback accumulated,
// piece indices after the failure point are meaningless.
type Parser struct {
	s    string
	pos  int
	emit func(Piece)
}

func NewParser(s string, emit func(Piece)) *Parser {
	return &Parser{s: s, emit: emit}
}

func (p *Parser) peek() (byte, bool) {
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *Parser) skip() {
	p.pos++
}

// nextConv advances to the next `%`, emitting any text before it.
// Returns false when no conversion remains.
func (p *Parser) nextConv() bool {
	off := strings.IndexByte(p.s[p.pos:], '%')
	if off < 0 {
		return false
	}
	if off > 0 {
		p.emit(Text(p.s[p.pos : p.pos+off]))
		p.pos += off
	}
	return true
}

func (p *Parser) Parse() error {
	for p.nextConv() {
		p.skip() // eat the %
		c, ok := p.peek()
		if !ok {
			return &MalformedSpecError{Offset: p.pos}
		}
		if c == '%' {
			p.skip()
			p.emit(Text("%"))
			continue
		}

		conv := &Conv{}
		if '1' <= c && c <= '9' || c == '*' {
			amt, err := p.parseAmount()
			if err != nil {
				return err
			}
			conv.Width = amt
		}
		if c, ok = p.peek(); ok && c == '.' {
			p.skip()
			amt, err := p.parseAmount()
			if err != nil {
				return err
			}
			conv.Prec = amt
		}
		kind, err := p.parseKind()
		if err != nil {
			return err
		}
		conv.Kind = kind
		p.emit(conv)
	}

	if p.pos < len(p.s) {
		p.emit(Text(p.s[p.pos:]))
	}
	return nil
}

func (p *Parser) parseAmount() (*Amount, error) {
	if c, ok := p.peek(); ok && c == '*' {
		p.skip()
		return &Amount{NextArg: true}, nil
	}

	start := p.pos
	for {
		c, ok := p.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		p.skip()
	}
	if p.pos == start {
		c, _ := p.peek()
		return nil, &MalformedSpecError{Offset: p.pos, Found: c}
	}
	n, err := strconv.Atoi(p.s[start:p.pos])
	if err != nil {
		return nil, fmt.Errorf("bad amount %q at byte %d: %w", p.s[start:p.pos], start, err)
	}
	return &Amount{N: n}, nil
}

func (p *Parser) parseKind() (Kind, error) {
	c, ok := p.peek()
	if !ok {
		return 0, &MalformedSpecError{Offset: p.pos}
	}
	p.skip()

	switch c {
	case 'd':
		return Int, nil
	case 'u':
		return Uint, nil
	case 'x':
		return Hex, nil
	case 'X':
		return HexUpper, nil
	case 'c':
		return Char, nil
	case 's':
		return Str, nil
	}
	return 0, &MalformedSpecError{Offset: p.pos - 1, Found: c}
}
