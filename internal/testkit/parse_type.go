package testkit

import "airtight/internal/ast"

var typeKeywords = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true, "unknown": true, "void": true,
	"never": true, "undefined": true, "object": true, "symbol": true, "bigint": true, "null": true,
}

func (p *parser) typeNode() ast.NodeID {
	start := p.peek().start
	p.eat("|")
	first := p.intersectionType()
	if !p.is("|") {
		return first
	}
	items := []ast.NodeID{first}
	for p.eat("|") {
		items = append(items, p.intersectionType())
	}
	return p.tree.NewList(ast.KindTSUnionType, p.span(start), items)
}

func (p *parser) intersectionType() ast.NodeID {
	start := p.peek().start
	p.eat("&")
	first := p.postfixType()
	if !p.is("&") {
		return first
	}
	items := []ast.NodeID{first}
	for p.eat("&") {
		items = append(items, p.postfixType())
	}
	return p.tree.NewList(ast.KindTSIntersectionType, p.span(start), items)
}

func (p *parser) postfixType() ast.NodeID {
	start := p.peek().start
	typ := p.primaryType()
	for p.is("[") && !p.newlineBefore() {
		p.advance()
		if p.eat("]") {
			typ = p.tree.NewWrap(ast.KindTSArrayType, p.span(start), typ)
			continue
		}
		index := p.typeNode()
		p.expect("]")
		typ = p.tree.NewOther(p.span(start), "TSIndexedAccessType", []ast.NodeID{typ, index})
	}
	return typ
}

func (p *parser) primaryType() ast.NodeID {
	tok := p.peek()
	start := tok.start
	switch {
	case tok.kind == tokString || tok.kind == tokNumber || isTok(tok, "true") || isTok(tok, "false"):
		lit := p.literal()
		return p.tree.NewWrap(ast.KindTSLiteralType, p.span(start), lit)
	case isTok(tok, "{"):
		return p.typeMembers(ast.KindTSTypeLiteral)
	case isTok(tok, "["):
		p.advance()
		var items []ast.NodeID
		for !p.is("]") {
			items = append(items, p.typeNode())
			if !p.eat(",") {
				break
			}
		}
		p.expect("]")
		return p.tree.NewOther(p.span(start), "TSTupleType", items)
	case isTok(tok, "("):
		if p.arrowAt(p.pos) {
			params := p.params()
			p.expect("=>")
			ret := p.typeNode()
			return p.tree.NewOther(p.span(start), "TSFunctionType", append(params, ret))
		}
		p.advance()
		typ := p.typeNode()
		p.expect(")")
		return typ
	case isTok(tok, "typeof"):
		p.advance()
		name := p.entityName()
		return p.tree.NewOther(p.span(start), "TSTypeQuery", []ast.NodeID{name})
	case isTok(tok, "keyof"):
		p.advance()
		typ := p.postfixType()
		return p.tree.NewOther(p.span(start), "TSTypeOperator", []ast.NodeID{typ})
	case tok.kind == tokWord && typeKeywords[tok.text]:
		p.advance()
		return p.tree.NewKeyword(p.span(start), tok.text)
	case tok.kind == tokWord:
		name := p.entityName()
		args := p.typeArgs()
		return p.tree.NewTypeRef(p.span(start), name, args)
	}
	p.fail("expected type, found %q", tok.text)
	return ast.NoNodeID
}

func (p *parser) typeArgs() []ast.NodeID {
	if !p.eat("<") {
		return nil
	}
	var args []ast.NodeID
	for !p.is(">") {
		args = append(args, p.typeNode())
		if !p.eat(",") {
			break
		}
	}
	p.expect(">")
	return args
}

// typeMembers parses `{ ... }` of an interface body or a type literal.
func (p *parser) typeMembers(kind ast.Kind) ast.NodeID {
	start := p.expect("{").start
	var members []ast.NodeID
	for !p.is("}") {
		if p.at(tokEOF) {
			p.fail("unterminated type members")
		}
		members = append(members, p.typeMember())
	}
	p.expect("}")
	return p.tree.NewList(kind, p.span(start), members)
}

func (p *parser) memberSeparator() {
	if !p.eat(";") {
		p.eat(",")
	}
}

func (p *parser) typeMember() ast.NodeID {
	start := p.peek().start
	readonly := false
	if p.is("readonly") && startsMemberName(p.peekAt(1)) {
		p.advance()
		readonly = true
	}
	if p.is("[") && p.peekAt(1).kind == tokWord && isTok(p.peekAt(2), ":") {
		p.advance()
		param := p.bindingTarget()
		p.expect("]")
		ann := p.returnType()
		p.memberSeparator()
		return p.tree.NewOther(p.span(start), "TSIndexSignature", nodes(param, ann))
	}
	if p.is("(") || p.is("<") {
		p.skipTypeParams()
		params := p.params()
		ret := p.returnType()
		p.memberSeparator()
		return p.tree.NewOther(p.span(start), "TSCallSignatureDeclaration", append(params, nodes(ret)...))
	}
	key, computed := p.propertyKey()
	optional := p.eat("?")
	if p.is("(") || p.is("<") {
		p.skipTypeParams()
		params := p.params()
		ret := p.returnType()
		p.memberSeparator()
		return p.tree.NewOther(p.span(start), "TSMethodSignature", append(append([]ast.NodeID{key}, params...), nodes(ret)...))
	}
	var ann ast.NodeID
	if p.eat(":") {
		ann = p.typeNode()
	}
	p.memberSeparator()
	return p.tree.NewPropertySignature(p.span(start), ast.PropertySignature{
		Key:            key,
		TypeAnnotation: ann,
		Computed:       computed,
		Optional:       optional,
		Readonly:       readonly,
	})
}
