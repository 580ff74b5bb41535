package pdf

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tomecat/tomecat"
)

// parseContent scans a decoded PDF content stream for text-showing
// operators (Tj, TJ, ' and ") and returns their strings as tokens. Text
// positioning operators (Tm, Td, TD) are tracked so each token carries an
// approximate position. Anything the scanner does not understand is
// skipped.
func parseContent(content []byte) []tomecat.Token {
	s := &scanner{data: content}

	var tokens []tomecat.Token
	var x, y float64
	var numbers []float64
	var pending []string

	emit := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" || !mostlyPrintable(text) {
			return
		}
		tokens = append(tokens, tomecat.Token{Text: text, X: x, Y: y})
	}

	for {
		item, ok := s.next()
		if !ok {
			break
		}

		switch item.kind {
		case itemNumber:
			numbers = append(numbers, item.number)
		case itemString:
			pending = append(pending, item.text)
		case itemOperator:
			switch item.text {
			case "Tm":
				if len(numbers) >= 6 {
					x = numbers[len(numbers)-2]
					y = numbers[len(numbers)-1]
				}
			case "Td", "TD":
				if len(numbers) >= 2 {
					x += numbers[len(numbers)-2]
					y += numbers[len(numbers)-1]
				}
			case "Tj", "'", "\"", "TJ":
				for _, text := range pending {
					emit(text)
				}
			}
			numbers = numbers[:0]
			pending = pending[:0]
		}
	}
	return tokens
}

type itemKind int

const (
	itemNumber itemKind = iota
	itemString
	itemOperator
)

type item struct {
	kind   itemKind
	number float64
	text   string
}

type scanner struct {
	data []byte
	pos  int
}

// next returns the next meaningful item in the stream. Arrays and
// dictionaries are not modeled: their elements surface as plain items,
// which is enough for TJ handling.
func (s *scanner) next() (item, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isWhitespace(c) || c == '[' || c == ']':
			s.pos++
		case c == '(':
			return item{kind: itemString, text: s.literalString()}, true
		case c == '<':
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
				s.skipDict()
				continue
			}
			return item{kind: itemString, text: s.hexString()}, true
		case c == '%':
			s.skipLine()
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			return s.number()
		case c == '/':
			s.pos++
			s.skipRegular()
		default:
			start := s.pos
			s.pos++
			if c == '\'' || c == '"' {
				return item{kind: itemOperator, text: string(c)}, true
			}
			s.skipRegular()
			return item{kind: itemOperator, text: string(s.data[start:s.pos])}, true
		}
	}
	return item{}, false
}

// literalString decodes a parenthesized string, handling nested parens
// and backslash escapes.
func (s *scanner) literalString() string {
	s.pos++ // consume '('
	var b strings.Builder
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return b.String()
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '(', ')', '\\':
				b.WriteByte(e)
			default:
				// Octal escapes and anything else contribute nothing.
			}
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return b.String()
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// hexString decodes a <...> hex string.
func (s *scanner) hexString() string {
	s.pos++ // consume '<'
	var hex strings.Builder
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if !isWhitespace(c) {
			hex.WriteByte(c)
		}
		s.pos++
	}
	if s.pos < len(s.data) {
		s.pos++ // consume '>'
	}

	digits := hex.String()
	if len(digits)%2 == 1 {
		digits += "0"
	}
	var b strings.Builder
	for i := 0; i+1 < len(digits); i += 2 {
		n, err := strconv.ParseUint(digits[i:i+2], 16, 8)
		if err != nil {
			return ""
		}
		b.WriteByte(byte(n))
	}
	return b.String()
}

func (s *scanner) number() (item, bool) {
	start := s.pos
	s.pos++
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			s.pos++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(string(s.data[start:s.pos]), 64)
	if err != nil {
		return s.next()
	}
	return item{kind: itemNumber, number: n}, true
}

func (s *scanner) skipDict() {
	depth := 0
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == '<' && s.data[s.pos+1] == '<' {
			depth++
			s.pos += 2
			continue
		}
		if s.data[s.pos] == '>' && s.data[s.pos+1] == '>' {
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		s.pos++
	}
	s.pos = len(s.data)
}

func (s *scanner) skipLine() {
	for s.pos < len(s.data) && s.data[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipRegular() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isWhitespace(c) || isDelimiter(c) {
			return
		}
		s.pos++
	}
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// mostlyPrintable reports whether at least half of the runes in text are
// printable. Tokens from CID-encoded fonts decode to binary noise and are
// dropped.
func mostlyPrintable(text string) bool {
	printable, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) {
			printable++
		}
	}
	return total > 0 && printable*2 >= total
}
