package testkit

import "airtight/internal/ast"

func (p *parser) statement() ast.NodeID {
	tok := p.peek()
	start := tok.start
	if tok.kind == tokWord {
		next := p.peekAt(1)
		switch tok.text {
		case "import":
			if !isTok(next, "(") && !isTok(next, ".") {
				return p.importDecl(start, false)
			}
		case "export":
			return p.exportDecl()
		case "function":
			return p.function(ast.KindFunctionDeclaration, start, false)
		case "async":
			if isTok(next, "function") {
				p.advance()
				return p.function(ast.KindFunctionDeclaration, start, true)
			}
		case "class":
			return p.class(ast.KindClassDeclaration, start, false)
		case "abstract":
			if isTok(next, "class") {
				p.advance()
				return p.class(ast.KindClassDeclaration, start, true)
			}
		case "interface":
			if next.kind == tokWord {
				return p.interfaceDecl(start)
			}
		case "type":
			if next.kind == tokWord && (isTok(p.peekAt(2), "=") || isTok(p.peekAt(2), "<")) {
				return p.typeAlias(start)
			}
		case "const", "let", "var":
			if next.kind == tokWord || isTok(next, "{") || isTok(next, "[") {
				return p.varDecl(start)
			}
		case "if":
			return p.ifStmt()
		case "try":
			return p.tryStmt()
		case "return":
			return p.returnStmt()
		case "throw":
			p.advance()
			arg := p.expression()
			p.semicolon()
			return p.tree.NewOther(p.span(start), "ThrowStatement", []ast.NodeID{arg})
		case "while":
			p.advance()
			p.expect("(")
			test := p.expression()
			p.expect(")")
			body := p.statement()
			return p.tree.NewOther(p.span(start), "WhileStatement", []ast.NodeID{test, body})
		}
	}
	if isTok(tok, "{") {
		return p.block()
	}
	if isTok(tok, ";") {
		p.advance()
		return p.tree.NewOther(p.span(start), "EmptyStatement", nil)
	}
	expr := p.expression()
	p.semicolon()
	return p.tree.NewWrap(ast.KindExpressionStatement, p.span(start), expr)
}

func (p *parser) block() ast.NodeID {
	start := p.expect("{").start
	var body []ast.NodeID
	for !p.is("}") {
		if p.at(tokEOF) {
			p.fail("unterminated block")
		}
		body = append(body, p.statement())
	}
	p.expect("}")
	return p.tree.NewList(ast.KindBlockStatement, p.span(start), body)
}

func (p *parser) importDecl(start uint32, exported bool) ast.NodeID {
	p.expect("import")
	typeOnly := false
	if p.is("type") {
		next := p.peekAt(1)
		if isTok(next, "{") || isTok(next, "*") || (next.kind == tokWord && next.text != "from" && !isTok(p.peekAt(2), ",")) {
			p.advance()
			typeOnly = true
		}
	}

	if p.at(tokString) {
		src := p.literal()
		p.semicolon()
		return p.tree.NewImportDecl(p.span(start), nil, src, false)
	}

	if p.at(tokWord) && isTok(p.peekAt(1), "=") {
		name := p.identifier()
		p.expect("=")
		var ref ast.NodeID
		if p.is("require") && isTok(p.peekAt(1), "(") {
			refStart := p.advance().start
			p.expect("(")
			lit := p.stringLiteral()
			p.expect(")")
			ref = p.tree.NewWrap(ast.KindTSExternalModuleReference, p.span(refStart), lit)
		} else {
			ref = p.entityName()
		}
		p.semicolon()
		return p.tree.NewImportEquals(p.span(start), name, ref, typeOnly, exported)
	}
	if exported {
		p.fail("expected import equals declaration")
	}

	var specs []ast.NodeID
	if p.at(tokWord) && !p.is("from") {
		local := p.identifier()
		specs = append(specs, p.tree.NewImportSpec(ast.KindImportDefaultSpecifier, p.tree.Span(local), ast.NoNodeID, local, false))
		if !p.eat(",") {
			return p.importFrom(start, specs, typeOnly)
		}
	}
	switch {
	case p.is("*"):
		nsStart := p.advance().start
		p.expect("as")
		local := p.identifier()
		specs = append(specs, p.tree.NewImportSpec(ast.KindImportNamespaceSpecifier, p.span(nsStart), ast.NoNodeID, local, false))
	case p.is("{"):
		p.advance()
		for !p.is("}") {
			specStart := p.peek().start
			specType := false
			if p.is("type") && p.peekAt(1).kind == tokWord && !isTok(p.peekAt(1), "as") {
				p.advance()
				specType = true
			}
			imported := p.identifier()
			local := imported
			if p.eat("as") {
				local = p.identifier()
			}
			specs = append(specs, p.tree.NewImportSpec(ast.KindImportSpecifier, p.span(specStart), imported, local, specType))
			if !p.eat(",") {
				break
			}
		}
		p.expect("}")
	}
	return p.importFrom(start, specs, typeOnly)
}

func (p *parser) importFrom(start uint32, specs []ast.NodeID, typeOnly bool) ast.NodeID {
	p.expect("from")
	src := p.stringLiteral()
	p.semicolon()
	return p.tree.NewImportDecl(p.span(start), specs, src, typeOnly)
}

func (p *parser) exportDecl() ast.NodeID {
	start := p.expect("export").start
	switch {
	case p.is("import"):
		return p.importDecl(start, true)

	case p.is("default"):
		p.advance()
		declStart := p.peek().start
		var target ast.NodeID
		switch {
		case p.is("function"):
			target = p.function(ast.KindFunctionDeclaration, declStart, false)
		case p.is("async") && isTok(p.peekAt(1), "function"):
			p.advance()
			target = p.function(ast.KindFunctionDeclaration, declStart, true)
		case p.is("class"):
			target = p.class(ast.KindClassDeclaration, declStart, false)
		default:
			target = p.assignment()
			p.semicolon()
		}
		return p.tree.NewWrap(ast.KindExportDefaultDeclaration, p.span(start), target)

	case p.is("*"):
		p.advance()
		var children []ast.NodeID
		if p.eat("as") {
			children = append(children, p.identifier())
		}
		p.expect("from")
		children = append(children, p.stringLiteral())
		p.semicolon()
		return p.tree.NewOther(p.span(start), "ExportAllDeclaration", children)

	case p.is("{"), p.is("type") && isTok(p.peekAt(1), "{"):
		typeOnly := p.eat("type")
		p.expect("{")
		var specs []ast.NodeID
		for !p.is("}") {
			specStart := p.peek().start
			local := p.identifier()
			exported := local
			if p.eat("as") {
				exported = p.identifier()
			}
			specs = append(specs, p.tree.NewExportSpec(p.span(specStart), local, exported))
			if !p.eat(",") {
				break
			}
		}
		p.expect("}")
		var src ast.NodeID
		if p.eat("from") {
			src = p.stringLiteral()
		}
		p.semicolon()
		return p.tree.NewExportNamed(p.span(start), ast.NoNodeID, specs, src, typeOnly)
	}

	decl := p.statement()
	switch p.tree.Kind(decl) {
	case ast.KindFunctionDeclaration, ast.KindClassDeclaration, ast.KindVariableDeclaration,
		ast.KindTSInterfaceDeclaration, ast.KindTSTypeAliasDeclaration:
	default:
		p.fail("expected declaration after export")
	}
	return p.tree.NewExportNamed(p.span(start), decl, nil, ast.NoNodeID, false)
}

func (p *parser) function(kind ast.Kind, start uint32, async bool) ast.NodeID {
	p.expect("function")
	generator := p.eat("*")
	var name ast.NodeID
	if p.at(tokWord) {
		name = p.identifier()
	}
	p.skipTypeParams()
	params := p.params()
	ret := p.returnType()
	body := p.block()
	return p.tree.NewFunction(kind, p.span(start), ast.Function{
		ID:         name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Async:      async,
		Generator:  generator,
	})
}

// methodFunction parses the `(params): T { ... }` part of a method; the
// FunctionExpression starts at the parameter list.
func (p *parser) methodFunction(async bool) ast.NodeID {
	start := p.peek().start
	p.skipTypeParams()
	params := p.params()
	ret := p.returnType()
	body := p.block()
	return p.tree.NewFunction(ast.KindFunctionExpression, p.span(start), ast.Function{
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Async:      async,
	})
}

var paramModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

func (p *parser) params() []ast.NodeID {
	p.expect("(")
	var out []ast.NodeID
	for !p.is(")") {
		for p.at(tokWord) && paramModifiers[p.peek().text] && p.peekAt(1).kind == tokWord {
			p.advance()
		}
		if p.is("...") {
			start := p.advance().start
			arg := p.bindingTarget()
			out = append(out, p.tree.NewWrap(ast.KindRestElement, p.span(start), arg))
		} else {
			out = append(out, p.bindingElement())
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return out
}

func (p *parser) returnType() ast.NodeID {
	if !p.eat(":") {
		return ast.NoNodeID
	}
	return p.typeNode()
}

// bindingElement parses a binding target with an optional default.
func (p *parser) bindingElement() ast.NodeID {
	start := p.peek().start
	target := p.bindingTarget()
	if p.eat("=") {
		def := p.assignment()
		return p.tree.NewPair(ast.KindAssignmentPattern, p.span(start), target, def)
	}
	return target
}

// bindingTarget parses an identifier (with `?` and type annotation) or a
// destructuring pattern. Annotations on patterns are parsed but not kept.
func (p *parser) bindingTarget() ast.NodeID {
	start := p.peek().start
	switch {
	case p.is("{"):
		items := p.objectPatternItems()
		p.skipAnnotation()
		return p.tree.NewList(ast.KindObjectPattern, p.span(start), items)
	case p.is("["):
		items := p.arrayPatternItems()
		p.skipAnnotation()
		return p.tree.NewList(ast.KindArrayPattern, p.span(start), items)
	}
	name := p.word()
	optional := p.eat("?")
	var ann ast.NodeID
	if p.eat(":") {
		ann = p.typeNode()
	}
	return p.tree.NewIdent(p.span(start), name.text, ann, optional)
}

func (p *parser) skipAnnotation() {
	if p.eat(":") {
		p.typeNode()
	}
}

func (p *parser) objectPatternItems() []ast.NodeID {
	p.expect("{")
	var items []ast.NodeID
	for !p.is("}") {
		start := p.peek().start
		if p.is("...") {
			p.advance()
			arg := p.identifier()
			items = append(items, p.tree.NewWrap(ast.KindRestElement, p.span(start), arg))
		} else {
			key, computed := p.propertyKey()
			prop := ast.Property{Key: key, Value: key, Kind: "init", Computed: computed, Shorthand: true}
			if p.eat(":") {
				prop.Value, prop.Shorthand = p.bindingElement(), false
			} else if p.is("=") || p.tree.Kind(key) != ast.KindIdentifier {
				p.fail("unsupported object pattern member")
			}
			items = append(items, p.tree.NewProperty(p.span(start), prop))
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return items
}

func (p *parser) arrayPatternItems() []ast.NodeID {
	p.expect("[")
	var items []ast.NodeID
	for !p.is("]") {
		if p.eat(",") {
			items = append(items, ast.NoNodeID)
			continue
		}
		start := p.peek().start
		if p.eat("...") {
			arg := p.bindingTarget()
			items = append(items, p.tree.NewWrap(ast.KindRestElement, p.span(start), arg))
		} else {
			items = append(items, p.bindingElement())
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect("]")
	return items
}

func (p *parser) class(kind ast.Kind, start uint32, abstract bool) ast.NodeID {
	p.expect("class")
	var name ast.NodeID
	if p.at(tokWord) && !p.is("extends") && !p.is("implements") {
		name = p.identifier()
	}
	p.skipTypeParams()
	var super ast.NodeID
	if p.eat("extends") {
		superStart := p.peek().start
		super = p.chain(superStart, p.primary(), false)
		p.skipTypeParams()
	}
	var impls []ast.NodeID
	if p.eat("implements") {
		for {
			implStart := p.peek().start
			expr := p.entityName()
			p.skipTypeParams()
			impls = append(impls, p.tree.NewWrap(ast.KindTSClassImplements, p.span(implStart), expr))
			if !p.eat(",") {
				break
			}
		}
	}
	body := p.classBody()
	return p.tree.NewClass(kind, p.span(start), ast.Class{
		ID:         name,
		SuperClass: super,
		Implements: impls,
		Body:       body,
		Abstract:   abstract,
	})
}

func (p *parser) classBody() ast.NodeID {
	start := p.expect("{").start
	var members []ast.NodeID
	for !p.is("}") {
		if p.at(tokEOF) {
			p.fail("unterminated class body")
		}
		if p.eat(";") {
			continue
		}
		members = append(members, p.classMember())
	}
	p.expect("}")
	return p.tree.NewList(ast.KindClassBody, p.span(start), members)
}

var memberModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "static": true, "readonly": true,
	"abstract": true, "declare": true, "override": true, "async": true, "get": true, "set": true,
}

func (p *parser) classMember() ast.NodeID {
	start := p.peek().start
	var static, readonly, async bool
	kind := "method"
	for p.at(tokWord) && memberModifiers[p.peek().text] && startsMemberName(p.peekAt(1)) {
		switch p.advance().text {
		case "static":
			static = true
		case "readonly":
			readonly = true
		case "async":
			async = true
		case "get", "set":
			kind = p.toks[p.pos-1].text
		}
	}
	key, computed := p.propertyKey()
	if !p.eat("?") {
		p.eat("!")
	}
	if p.is("(") || p.is("<") {
		if name, ok := p.tree.KeyName(key); ok && name == "constructor" && kind == "method" {
			kind = "constructor"
		}
		value := p.methodFunction(async)
		return p.tree.NewMethodDef(p.span(start), ast.MethodDef{
			Key:      key,
			Value:    value,
			Kind:     kind,
			Computed: computed,
			Static:   static,
		})
	}
	def := ast.PropertyDef{Key: key, Computed: computed, Static: static, Readonly: readonly}
	if p.eat(":") {
		def.TypeAnnotation = p.typeNode()
	}
	if p.eat("=") {
		def.Value = p.assignment()
	}
	p.semicolon()
	return p.tree.NewPropertyDef(p.span(start), def)
}

func (p *parser) interfaceDecl(start uint32) ast.NodeID {
	p.expect("interface")
	name := p.identifier()
	p.skipTypeParams()
	var extends []ast.NodeID
	if p.eat("extends") {
		for {
			hStart := p.peek().start
			expr := p.entityName()
			args := p.typeArgs()
			extends = append(extends, p.tree.NewOther(p.span(hStart), "TSInterfaceHeritage", append([]ast.NodeID{expr}, args...)))
			if !p.eat(",") {
				break
			}
		}
	}
	body := p.typeMembers(ast.KindTSInterfaceBody)
	return p.tree.NewInterface(p.span(start), name, extends, body)
}

func (p *parser) typeAlias(start uint32) ast.NodeID {
	p.expect("type")
	name := p.identifier()
	p.skipTypeParams()
	p.expect("=")
	typ := p.typeNode()
	p.semicolon()
	return p.tree.NewTypeAlias(p.span(start), name, typ)
}

func (p *parser) varDecl(start uint32) ast.NodeID {
	kind := p.advance().text
	var decls []ast.NodeID
	for {
		declStart := p.peek().start
		id := p.bindingTarget()
		var init ast.NodeID
		if p.eat("=") {
			init = p.assignment()
		}
		decls = append(decls, p.tree.NewDeclarator(p.span(declStart), id, init))
		if !p.eat(",") {
			break
		}
	}
	p.semicolon()
	return p.tree.NewVarDecl(p.span(start), kind, decls, false)
}

func (p *parser) ifStmt() ast.NodeID {
	start := p.expect("if").start
	p.expect("(")
	test := p.expression()
	p.expect(")")
	cons := p.statement()
	var alt ast.NodeID
	if p.eat("else") {
		alt = p.statement()
	}
	return p.tree.NewIf(p.span(start), test, cons, alt)
}

func (p *parser) tryStmt() ast.NodeID {
	start := p.expect("try").start
	block := p.block()
	var handler, finalizer ast.NodeID
	if p.is("catch") {
		catchStart := p.advance().start
		var param ast.NodeID
		if p.eat("(") {
			param = p.bindingTarget()
			p.expect(")")
		}
		body := p.block()
		handler = p.tree.NewCatch(p.span(catchStart), param, body)
	}
	if p.eat("finally") {
		finalizer = p.block()
	}
	if !handler.IsValid() && !finalizer.IsValid() {
		p.fail("try without catch or finally")
	}
	return p.tree.NewTry(p.span(start), block, handler, finalizer)
}

func (p *parser) returnStmt() ast.NodeID {
	start := p.expect("return").start
	var arg ast.NodeID
	if !p.is(";") && !p.is("}") && !p.at(tokEOF) && !p.newlineBefore() {
		arg = p.expression()
	}
	p.semicolon()
	return p.tree.NewWrap(ast.KindReturnStatement, p.span(start), arg)
}
