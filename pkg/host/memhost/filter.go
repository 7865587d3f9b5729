package memhost

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matzehuels/featexport/pkg/errors"
)

type clause struct {
	field string
	value string
}

// predicate is a parsed filter. The zero value matches everything.
type predicate []clause

func (p predicate) match(value func(field string) string) bool {
	for _, c := range p {
		if value(c.field) != c.value {
			return false
		}
	}
	return true
}

// parseFilter parses `field = 'value' [AND field = 'value' ...]`.
func parseFilter(s string) (predicate, error) {
	sc := &scanner{src: s}
	sc.skipSpace()
	if sc.eof() {
		return nil, nil
	}

	var p predicate
	for {
		c, err := sc.clause()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFilter, err, "parse filter %q", s)
		}
		p = append(p, c)

		sc.skipSpace()
		if sc.eof() {
			return p, nil
		}
		if !sc.keyword("AND") {
			return nil, errors.New(errors.ErrCodeInvalidFilter, "parse filter %q: expected AND at offset %d", s, sc.pos)
		}
	}
}

type scanner struct {
	src string
	pos int
}

type syntaxError struct {
	msg string
	pos int
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.msg, e.pos)
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) skipSpace() {
	for !s.eof() && unicode.IsSpace(rune(s.src[s.pos])) {
		s.pos++
	}
}

func (s *scanner) clause() (clause, error) {
	s.skipSpace()
	start := s.pos
	for !s.eof() && isIdent(s.src[s.pos], s.pos == start) {
		s.pos++
	}
	if s.pos == start {
		return clause{}, &syntaxError{"expected field name", s.pos}
	}
	field := s.src[start:s.pos]

	s.skipSpace()
	if s.eof() || s.src[s.pos] != '=' {
		return clause{}, &syntaxError{"expected '='", s.pos}
	}
	s.pos++
	s.skipSpace()

	value, err := s.quoted()
	if err != nil {
		return clause{}, err
	}
	return clause{field: field, value: value}, nil
}

// quoted reads a single-quoted literal; '' inside it is a literal quote.
func (s *scanner) quoted() (string, error) {
	if s.eof() || s.src[s.pos] != '\'' {
		return "", &syntaxError{"expected quoted value", s.pos}
	}
	open := s.pos
	s.pos++
	var b strings.Builder
	for !s.eof() {
		c := s.src[s.pos]
		if c != '\'' {
			b.WriteByte(c)
			s.pos++
			continue
		}
		if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\'' {
			b.WriteByte('\'')
			s.pos += 2
			continue
		}
		s.pos++
		return b.String(), nil
	}
	return "", &syntaxError{"unterminated string", open}
}

// keyword consumes kw case-insensitively when it stands alone.
func (s *scanner) keyword(kw string) bool {
	end := s.pos + len(kw)
	if end > len(s.src) || !strings.EqualFold(s.src[s.pos:end], kw) {
		return false
	}
	if end < len(s.src) && !unicode.IsSpace(rune(s.src[end])) {
		return false
	}
	s.pos = end
	return true
}

func isIdent(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}
