package testkit

import (
	"bytes"
	"fmt"
	"strings"

	"airtight/internal/ast"
	"airtight/internal/source"
)

type parser struct {
	file    source.FileID
	src     []byte
	toks    []token
	pos     int
	prevEnd uint32
	tree    *ast.Tree
}

type parseError struct{ err error }

// Parse builds a tree for a file of fs. The tree is validated before it is
// returned.
func Parse(fs *source.FileSet, id source.FileID) (*ast.Tree, error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("testkit: unknown file %d", id)
	}
	tree, err := parse(id, f.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return tree, nil
}

func parse(id source.FileID, src []byte) (tree *ast.Tree, err error) {
	toks, comments, err := lex(id, src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		file: id,
		src:  src,
		toks: toks,
		tree: ast.NewTree(id, ast.Hints{Nodes: uint(len(toks))}),
	}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			tree, err = nil, pe.err
		}
	}()

	var body []ast.NodeID
	for !p.at(tokEOF) {
		body = append(body, p.statement())
	}
	start := p.toks[0].start
	p.tree.NewProgram(source.Span{File: id, Start: start, End: offset(len(src))}, body, comments)
	if err := p.tree.Validate(); err != nil {
		return nil, err
	}
	return p.tree, nil
}

// --- token helpers ---

func (p *parser) peek() token { return p.peekAt(0) }

func (p *parser) peekAt(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) at(kind tokKind) bool { return p.peek().kind == kind }

// is reports whether the next token is the punctuator or word text.
func (p *parser) is(text string) bool { return isTok(p.peek(), text) }

func isTok(tok token, text string) bool {
	return (tok.kind == tokPunct || tok.kind == tokWord) && tok.text == text
}

func (p *parser) advance() token {
	tok := p.peek()
	if tok.kind != tokEOF {
		p.pos++
		p.prevEnd = tok.end
	}
	return tok
}

func (p *parser) eat(text string) bool {
	if p.is(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if !p.is(text) {
		p.fail("expected %q, found %q", text, p.peek().text)
	}
	return p.advance()
}

func (p *parser) word() token {
	if !p.at(tokWord) {
		p.fail("expected identifier, found %q", p.peek().text)
	}
	return p.advance()
}

// semicolon consumes an optional statement terminator.
func (p *parser) semicolon() {
	p.eat(";")
}

// newlineBefore reports whether a line break separates the next token from
// the previous one.
func (p *parser) newlineBefore() bool {
	next := p.peek().start
	if next < p.prevEnd {
		return false
	}
	return bytes.IndexByte(p.src[p.prevEnd:next], '\n') >= 0
}

func (p *parser) span(start uint32) source.Span {
	return source.Span{File: p.file, Start: start, End: p.prevEnd}
}

func (p *parser) fail(format string, args ...any) {
	at := p.peek().start
	line := 1 + bytes.Count(p.src[:at], []byte("\n"))
	col := int(at) - bytes.LastIndexByte(p.src[:at], '\n')
	panic(parseError{fmt.Errorf("%d:%d: %s", line, col, fmt.Sprintf(format, args...))})
}

// matching returns the index of the token closing the bracket at i.
func (p *parser) matching(i int) int {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		tok := p.toks[j]
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// arrowAt reports whether an arrow function (or function type) starts at
// token i: `x =>`, `(...) =>` or `(...): T =>`.
func (p *parser) arrowAt(i int) bool {
	if i >= len(p.toks) {
		return false
	}
	tok := p.toks[i]
	if tok.kind == tokWord {
		return i+1 < len(p.toks) && isTok(p.toks[i+1], "=>")
	}
	if !isTok(tok, "(") {
		return false
	}
	j := p.matching(i)
	if j < 0 || j+1 >= len(p.toks) {
		return false
	}
	next := p.toks[j+1]
	if isTok(next, "=>") {
		return true
	}
	if !isTok(next, ":") {
		return false
	}
	depth := 0
	for k := j + 2; k < len(p.toks); k++ {
		t := p.toks[k]
		if t.kind == tokEOF {
			return false
		}
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth == 0 {
				return false
			}
			depth--
		case ",", ";":
			if depth == 0 {
				return false
			}
		case "=>":
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// skipTypeParams drops `<...>` after a declaration name.
func (p *parser) skipTypeParams() {
	if !p.is("<") {
		return
	}
	depth := 0
	for !p.at(tokEOF) {
		tok := p.advance()
		switch {
		case isTok(tok, "<"):
			depth++
		case isTok(tok, ">"):
			depth--
			if depth == 0 {
				return
			}
		}
	}
	p.fail("unterminated type parameters")
}

func nodes(list ...ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(list))
	for _, id := range list {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

// --- leaves ---

func (p *parser) identifier() ast.NodeID {
	tok := p.word()
	return p.tree.NewIdent(p.span(tok.start), tok.text, ast.NoNodeID, false)
}

func (p *parser) literal() ast.NodeID {
	tok := p.advance()
	lit := ast.Literal{Raw: tok.text, Value: tok.text}
	switch {
	case tok.kind == tokString:
		lit.Kind, lit.Value = ast.LitString, tok.value
	case tok.kind == tokNumber && strings.HasSuffix(tok.text, "n"):
		lit.Kind = ast.LitBigInt
	case tok.kind == tokNumber:
		lit.Kind = ast.LitNumber
	case isTok(tok, "true"), isTok(tok, "false"):
		lit.Kind = ast.LitBoolean
	case isTok(tok, "null"):
		lit.Kind = ast.LitNull
	default:
		p.pos--
		p.fail("expected literal, found %q", tok.text)
	}
	return p.tree.NewLiteral(p.span(tok.start), lit)
}

func (p *parser) stringLiteral() ast.NodeID {
	if !p.at(tokString) {
		p.fail("expected string, found %q", p.peek().text)
	}
	return p.literal()
}

// entityName parses `a` or `a.b.c` as Identifier / TSQualifiedName.
func (p *parser) entityName() ast.NodeID {
	start := p.peek().start
	name := p.identifier()
	for p.is(".") {
		p.advance()
		right := p.identifier()
		name = p.tree.NewPair(ast.KindTSQualifiedName, p.span(start), name, right)
	}
	return name
}

// propertyKey parses an identifier, string, number or `[computed]` key.
func (p *parser) propertyKey() (ast.NodeID, bool) {
	tok := p.peek()
	switch {
	case tok.kind == tokString || tok.kind == tokNumber:
		return p.literal(), false
	case isTok(tok, "["):
		p.advance()
		key := p.assignment()
		p.expect("]")
		return key, true
	case tok.kind == tokWord:
		return p.identifier(), false
	}
	p.fail("expected property name, found %q", tok.text)
	return ast.NoNodeID, false
}

func startsMemberName(tok token) bool {
	return tok.kind == tokWord || tok.kind == tokString || tok.kind == tokNumber || isTok(tok, "[")
}
