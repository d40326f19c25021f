// cstr holds the C string plumbing the rewriter needs: escape-sequence
// decoding for literals coming out of the lexer, NUL handling, and
// narrow/wide byte decoding for arguments that end up behind a %s.
package cstr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrInvalidText reports bytes that do not decode as UTF-8 text.
var ErrInvalidText = errors.New("not valid UTF-8 text")

// WideWidth is the wchar_t size the rewriter assumes, matching glibc.
const WideWidth = 4

// Unescape decodes C escape sequences in the body of a string or char
// literal (the text between the quotes). Unknown escapes are kept
// verbatim, matching what C compilers accept with a warning.
func Unescape(body string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++ // eat the backslash
		if i >= len(body) {
			return "", fmt.Errorf("trailing backslash in literal %q", body)
		}
		c = body[i]
		i++
		switch c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(c)
		case 'x':
			j := i
			for j < len(body) && j-i < 2 && isHex(body[j]) {
				j++
			}
			if j == i {
				return "", fmt.Errorf("\\x escape with no hex digits in literal %q", body)
			}
			n, err := strconv.ParseUint(body[i:j], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape in literal %q: %w", body, err)
			}
			b.WriteByte(byte(n))
			i = j
		default:
			// Keep as-is.
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// StripNUL removes trailing NUL bytes. C literals often carry an
// explicit terminator that the rewritten string must not reproduce.
func StripNUL(s string) string {
	for strings.HasSuffix(s, "\x00") {
		s = s[:len(s)-1]
	}
	return s
}

// Decode treats b as a NUL-terminated narrow string and decodes it as
// UTF-8 text. Bytes after the first NUL are ignored.
func Decode(b []byte) (string, error) {
	for i := range b {
		if b[i] == 0 {
			b = b[:i]
			break
		}
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidText
	}
	return string(b), nil
}

// DecodeWide decodes a little-endian wide string of the given element
// width (2 for UTF-16, 4 for UTF-32), stopping at the first NUL element.
func DecodeWide(b []byte, width int) (string, error) {
	if width != 2 && width != 4 {
		return "", fmt.Errorf("unsupported wide element width %d", width)
	}
	if len(b)%width != 0 {
		return "", fmt.Errorf("wide string length %d is not a multiple of %d", len(b), width)
	}
	switch width {
	case 2:
		units := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			u := uint16(b[i]) | uint16(b[i+1])<<8
			if u == 0 {
				break
			}
			units = append(units, u)
		}
		// Unpaired surrogates are the only way UTF-16 units fail to
		// decode; a literal U+FFFD unit is valid text.
		for i := 0; i < len(units); i++ {
			u := units[i]
			switch {
			case u >= 0xd800 && u < 0xdc00:
				if i+1 == len(units) || units[i+1] < 0xdc00 || units[i+1] >= 0xe000 {
					return "", ErrInvalidText
				}
				i++
			case u >= 0xdc00 && u < 0xe000:
				return "", ErrInvalidText
			}
		}
		return string(utf16.Decode(units)), nil
	default:
		var sb strings.Builder
		for i := 0; i+3 < len(b); i += 4 {
			u := uint32(b[i]) | uint32(b[i+1])<<8 | uint32(b[i+2])<<16 | uint32(b[i+3])<<24
			if u == 0 {
				break
			}
			if u > utf8.MaxRune || (u >= 0xD800 && u <= 0xDFFF) {
				return "", ErrInvalidText
			}
			sb.WriteRune(rune(u))
		}
		return sb.String(), nil
	}
}

// EncodeWide lays s out as a little-endian wide string of the given
// element width. Stray bytes that are not valid UTF-8 keep their byte
// value, matching how \x escapes land in wide literal bodies.
func EncodeWide(s string, width int) ([]byte, error) {
	if width != 2 && width != 4 {
		return nil, fmt.Errorf("unsupported wide element width %d", width)
	}
	var units []uint32
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			units = append(units, uint32(s[i]))
		case width == 2 && r > 0xffff:
			u1, u2 := utf16.EncodeRune(r)
			units = append(units, uint32(u1), uint32(u2))
		default:
			units = append(units, uint32(r))
		}
		i += size
	}
	out := make([]byte, 0, len(units)*width)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
		if width == 4 {
			out = append(out, byte(u>>16), byte(u>>24))
		}
	}
	return out, nil
}
