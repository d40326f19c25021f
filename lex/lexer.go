// lex scans C-style call statements: identifiers, integer and string
// literals, casts and the punctuation between them. It is the frontend
// for the rewriter, not a full C lexer.
package lex

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/fmtshift/fmtshift/cstr"
	"github.com/fmtshift/fmtshift/reader"
)

type TokenType int

const (
	TokenEnd TokenType = iota
	TokenIdent
	TokenInt
	TokenString
	TokenChar
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenSemicolon
	TokenColon
	TokenStar
	TokenMinus
	TokenBad // lexing error, Value holds the message
	TokenUnknown
)

// StrFlavor records how a string literal was spelled in the source.
type StrFlavor int

const (
	StrNarrow StrFlavor = iota
	StrByte             // b"...", Value holds raw bytes
	StrWide             // L"...", Value holds the wchar_t memory layout
)

type Token struct {
	Type   TokenType
	Value  string
	Flavor StrFlavor
	pos    reader.Pos
}

// Pos is the position of the token's first rune.
func (t *Token) Pos() reader.Pos {
	return t.pos
}

type Scanner struct {
	Token  *Token
	Reader *reader.Reader
}

func New(r io.Reader, file string) *Scanner {
	rdr := reader.New(r, file)
	return &Scanner{
		Token:  nextToken(rdr),
		Reader: rdr,
	}
}

func (s *Scanner) NextToken() *Token {
	token := s.Token
	s.Token = nextToken(s.Reader)
	return token
}

func newToken(pos reader.Pos, typ TokenType, value string) *Token {
	log.Trace().Str("component", "lex").Int("type", int(typ)).Str("value", value).Int("offset", pos.Offset).Msg("token")
	return &Token{pos: pos, Type: typ, Value: value}
}

func nextToken(r *reader.Reader) *Token {
	c := r.ReadRune()

	// Skip whitespace, statements are terminated by `;`, not newlines.
	for c != reader.EOF && unicode.IsSpace(c) {
		c = r.ReadRune()
	}

	pos := r.PrevPos
	if c == reader.EOF {
		return newToken(pos, TokenEnd, "")
	}

	// Skip // and /* */ comments.
	if c == '/' {
		c = r.ReadRune()
		switch c {
		case '/':
			for c != '\n' && c != '\r' && c != reader.EOF {
				c = r.ReadRune()
			}
			return nextToken(r)
		case '*':
			prev := rune(0)
			for {
				c = r.ReadRune()
				if c == reader.EOF {
					return newToken(pos, TokenBad, "unterminated block comment")
				}
				if prev == '*' && c == '/' {
					break
				}
				prev = c
			}
			return nextToken(r)
		default:
			r.UnreadRune()
			return newToken(pos, TokenUnknown, "/")
		}
	}

	// Identifiers, and the L"..."/b"..." string prefixes.
	if unicode.IsLetter(c) || c == '_' {
		var id strings.Builder
		for unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			id.WriteRune(c)
			c = r.ReadRune()
		}
		if c == '"' {
			switch id.String() {
			case "L":
				return lexString(r, pos, StrWide)
			case "b":
				return lexString(r, pos, StrByte)
			case "u8":
				// u8"..." is an ordinary UTF-8 narrow string.
				return lexString(r, pos, StrNarrow)
			}
		}
		r.UnreadRune()
		return newToken(pos, TokenIdent, id.String())
	}

	// Numbers.
	if unicode.IsDigit(c) {
		var num strings.Builder
		for unicode.IsDigit(c) {
			num.WriteRune(c)
			c = r.ReadRune()
		}
		r.UnreadRune()
		return newToken(pos, TokenInt, num.String())
	}

	if c == '"' {
		return lexString(r, pos, StrNarrow)
	}
	if c == '\'' {
		return lexChar(r, pos)
	}

	switch c {
	case '(':
		return newToken(pos, TokenLeftParen, "(")
	case ')':
		return newToken(pos, TokenRightParen, ")")
	case ',':
		return newToken(pos, TokenComma, ",")
	case ';':
		return newToken(pos, TokenSemicolon, ";")
	case ':':
		return newToken(pos, TokenColon, ":")
	case '*':
		return newToken(pos, TokenStar, "*")
	case '-':
		return newToken(pos, TokenMinus, "-")
	}

	return newToken(pos, TokenUnknown, string(c))
}

// lexString is entered with the opening quote already consumed. The raw
// body is collected first so escape decoding happens in one place.
func lexString(r *reader.Reader, pos reader.Pos, flavor StrFlavor) *Token {
	var raw strings.Builder
	for {
		c := r.ReadRune()
		if c == reader.EOF {
			return newToken(pos, TokenBad, "missing closing quote")
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			raw.WriteRune(c)
			c = r.ReadRune()
			if c == reader.EOF {
				return newToken(pos, TokenBad, "missing closing quote")
			}
		}
		raw.WriteRune(c)
	}
	value, err := cstr.Unescape(raw.String())
	if err != nil {
		return newToken(pos, TokenBad, err.Error())
	}
	if flavor == StrWide {
		wb, werr := cstr.EncodeWide(value, cstr.WideWidth)
		if werr != nil {
			return newToken(pos, TokenBad, werr.Error())
		}
		value = string(wb)
	}
	tok := newToken(pos, TokenString, value)
	tok.Flavor = flavor
	return tok
}

func lexChar(r *reader.Reader, pos reader.Pos) *Token {
	var raw strings.Builder
	for {
		c := r.ReadRune()
		if c == reader.EOF {
			return newToken(pos, TokenBad, "missing closing quote")
		}
		if c == '\'' {
			break
		}
		if c == '\\' {
			raw.WriteRune(c)
			c = r.ReadRune()
			if c == reader.EOF {
				return newToken(pos, TokenBad, "missing closing quote")
			}
		}
		raw.WriteRune(c)
	}
	value, err := cstr.Unescape(raw.String())
	if err != nil {
		return newToken(pos, TokenBad, err.Error())
	}
	if utf8.RuneCountInString(value) != 1 {
		return newToken(pos, TokenBad, "char literal must hold exactly one character")
	}
	return newToken(pos, TokenChar, value)
}
