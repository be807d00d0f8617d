package testkit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"airtight/internal/source"
)

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokWord        // identifiers and keywords
	tokString
	tokNumber
	tokTemplate
	tokPunct
)

type token struct {
	kind  tokKind
	text  string // raw source text
	value string // cooked value for strings
	start uint32
	end   uint32
}

// punctuators, longest first
var punctuators = []string{
	"...", "===", "!==",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--", "+=", "-=", "*=", "/=",
	"{", "}", "(", ")", "[", "]", ";", ",", ".", ":", "?", "=", "<", ">",
	"+", "-", "*", "/", "%", "!", "&", "|", "^", "~", "@",
}

type lexer struct {
	src      []byte
	pos      int
	comments []source.Span
	file     source.FileID
}

func lex(file source.FileID, src []byte) ([]token, []source.Span, error) {
	lx := &lexer{src: src, file: file}
	var toks []token
	for {
		if err := lx.skipTrivia(); err != nil {
			return nil, nil, err
		}
		tok, err := lx.next()
		if err != nil {
			return nil, nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, lx.comments, nil
		}
	}
}

func (lx *lexer) off(i int) uint32 {
	return offset(i)
}

func offset(i int) uint32 {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

// skipTrivia пропускает пробелы и комментарии, запоминая последние.
func (lx *lexer) skipTrivia() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.pos++
		case c == '/' && lx.peek(1) == '/':
			start := lx.pos
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
			lx.comments = append(lx.comments, source.Span{File: lx.file, Start: lx.off(start), End: lx.off(lx.pos)})
		case c == '/' && lx.peek(1) == '*':
			start := lx.pos
			end := strings.Index(string(lx.src[lx.pos+2:]), "*/")
			if end < 0 {
				return fmt.Errorf("offset %d: unterminated comment", start)
			}
			lx.pos += end + 4
			lx.comments = append(lx.comments, source.Span{File: lx.file, Start: lx.off(start), End: lx.off(lx.pos)})
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) peek(n int) byte {
	if lx.pos+n < len(lx.src) {
		return lx.src[lx.pos+n]
	}
	return 0
}

func (lx *lexer) tok(kind tokKind, start int) token {
	return token{kind: kind, text: string(lx.src[start:lx.pos]), start: lx.off(start), end: lx.off(lx.pos)}
}

func (lx *lexer) next() (token, error) {
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return lx.tok(tokEOF, start), nil
	}
	c := lx.src[lx.pos]
	switch {
	case isWordStart(c):
		for lx.pos < len(lx.src) && isWordPart(lx.src[lx.pos]) {
			if lx.src[lx.pos] >= utf8.RuneSelf {
				_, size := utf8.DecodeRune(lx.src[lx.pos:])
				lx.pos += size
				continue
			}
			lx.pos++
		}
		return lx.tok(tokWord, start), nil
	case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
		for lx.pos < len(lx.src) && (isWordPart(lx.src[lx.pos]) || lx.src[lx.pos] == '.') {
			lx.pos++
		}
		return lx.tok(tokNumber, start), nil
	case c == '\'' || c == '"':
		return lx.scanString(c)
	case c == '`':
		return lx.scanTemplate()
	}
	for _, p := range punctuators {
		if strings.HasPrefix(string(lx.src[lx.pos:min(lx.pos+len(p), len(lx.src))]), p) {
			lx.pos += len(p)
			return lx.tok(tokPunct, start), nil
		}
	}
	return token{}, fmt.Errorf("offset %d: unexpected character %q", start, c)
}

func (lx *lexer) scanString(quote byte) (token, error) {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
			continue
		case '\n':
			return token{}, fmt.Errorf("offset %d: newline in string", start)
		case quote:
			lx.pos++
			tok := lx.tok(tokString, start)
			tok.value = unquote(tok.text)
			return tok, nil
		}
		lx.pos++
	}
	return token{}, fmt.Errorf("offset %d: unterminated string", start)
}

// scanTemplate keeps the whole template literal as one token; nested
// templates inside substitutions are not supported.
func (lx *lexer) scanTemplate() (token, error) {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
			continue
		case '`':
			lx.pos++
			return lx.tok(tokTemplate, start), nil
		}
		lx.pos++
	}
	return token{}, fmt.Errorf("offset %d: unterminated template", start)
}

// unquote cooks a single- or double-quoted string literal.
func unquote(raw string) string {
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	if raw[0] == '\'' {
		body = strings.ReplaceAll(body, `\'`, `'`)
		body = strings.ReplaceAll(body, `"`, `\"`)
	}
	if s, err := strconv.Unquote(`"` + body + `"`); err == nil {
		return s
	}
	return body
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return c == '_' || c == '$' || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= utf8.RuneSelf
}

func isWordPart(c byte) bool { return isWordStart(c) || isDigit(c) }
