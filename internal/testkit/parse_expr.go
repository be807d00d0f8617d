package testkit

import "airtight/internal/ast"

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true}

// binding power of binary operators; `as` and `satisfies` bind like
// relational operators and take a type on the right.
var binaryPrec = map[string]int{
	"??": 1, "||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7, "in": 7, "as": 7, "satisfies": 7,
	"+": 8, "-": 8, "*": 9, "/": 9, "%": 9,
}

func (p *parser) expression() ast.NodeID {
	start := p.peek().start
	expr := p.assignment()
	if !p.is(",") {
		return expr
	}
	items := []ast.NodeID{expr}
	for p.eat(",") {
		items = append(items, p.assignment())
	}
	return p.tree.NewOther(p.span(start), "SequenceExpression", items)
}

func (p *parser) assignment() ast.NodeID {
	if arrow, ok := p.arrow(); ok {
		return arrow
	}
	start := p.peek().start
	left := p.conditional()
	if tok := p.peek(); tok.kind == tokPunct && assignOps[tok.text] {
		p.advance()
		right := p.assignment()
		return p.tree.NewOther(p.span(start), "AssignmentExpression", []ast.NodeID{left, right})
	}
	return left
}

func (p *parser) arrow() (ast.NodeID, bool) {
	start := p.peek().start
	async := false
	if p.is("async") && !isTok(p.peekAt(1), "=>") && p.arrowAt(p.pos+1) {
		async = true
	} else if !p.arrowAt(p.pos) {
		return ast.NoNodeID, false
	}
	if async {
		p.advance()
	}
	var params []ast.NodeID
	if p.is("(") {
		params = p.params()
	} else {
		params = []ast.NodeID{p.identifier()}
	}
	ret := p.returnType()
	p.expect("=>")
	fn := ast.Function{Params: params, ReturnType: ret, Async: async}
	if p.is("{") {
		fn.Body = p.block()
	} else {
		fn.Body, fn.Expression = p.assignment(), true
	}
	return p.tree.NewFunction(ast.KindArrowFunctionExpression, p.span(start), fn), true
}

func (p *parser) conditional() ast.NodeID {
	start := p.peek().start
	test := p.binary(0)
	if !p.eat("?") {
		return test
	}
	cons := p.assignment()
	p.expect(":")
	alt := p.assignment()
	return p.tree.NewOther(p.span(start), "ConditionalExpression", []ast.NodeID{test, cons, alt})
}

func (p *parser) binary(minPrec int) ast.NodeID {
	start := p.peek().start
	left := p.unary()
	for {
		tok := p.peek()
		prec, ok := binaryPrec[tok.text]
		if !ok || (tok.kind != tokPunct && tok.kind != tokWord) || prec <= minPrec {
			return left
		}
		p.advance()
		if tok.text == "as" || tok.text == "satisfies" {
			typ := p.typeNode()
			left = p.tree.NewOther(p.span(start), "TSAsExpression", []ast.NodeID{left, typ})
			continue
		}
		right := p.binary(prec)
		typ := "BinaryExpression"
		switch tok.text {
		case "&&", "||", "??":
			typ = "LogicalExpression"
		}
		left = p.tree.NewOther(p.span(start), typ, []ast.NodeID{left, right})
	}
}

func (p *parser) unary() ast.NodeID {
	tok := p.peek()
	start := tok.start
	switch {
	case tok.kind == tokPunct && (tok.text == "!" || tok.text == "-" || tok.text == "+" || tok.text == "~"):
		p.advance()
		arg := p.unary()
		return p.tree.NewOther(p.span(start), "UnaryExpression", []ast.NodeID{arg})
	case tok.kind == tokPunct && (tok.text == "++" || tok.text == "--"):
		p.advance()
		arg := p.unary()
		return p.tree.NewOther(p.span(start), "UpdateExpression", []ast.NodeID{arg})
	case tok.kind == tokWord && (tok.text == "typeof" || tok.text == "void" || tok.text == "delete"):
		p.advance()
		arg := p.unary()
		return p.tree.NewOther(p.span(start), "UnaryExpression", []ast.NodeID{arg})
	case tok.kind == tokWord && tok.text == "await" && startsExpression(p.peekAt(1)):
		p.advance()
		arg := p.unary()
		return p.tree.NewWrap(ast.KindAwaitExpression, p.span(start), arg)
	}
	expr := p.leftHandSide()
	if (p.is("++") || p.is("--")) && !p.newlineBefore() {
		p.advance()
		expr = p.tree.NewOther(p.span(start), "UpdateExpression", []ast.NodeID{expr})
	}
	return expr
}

func startsExpression(tok token) bool {
	switch tok.kind {
	case tokWord, tokString, tokNumber, tokTemplate:
		return true
	case tokPunct:
		switch tok.text {
		case "(", "[", "{", "!", "-", "+", "~", "++", "--":
			return true
		}
	}
	return false
}

func (p *parser) leftHandSide() ast.NodeID {
	start := p.peek().start
	var expr ast.NodeID
	if p.is("new") {
		expr = p.newExpr()
	} else {
		expr = p.primary()
	}
	return p.chain(start, expr, true)
}

func (p *parser) newExpr() ast.NodeID {
	start := p.expect("new").start
	calleeStart := p.peek().start
	var callee ast.NodeID
	if p.is("new") {
		callee = p.newExpr()
	} else {
		callee = p.primary()
	}
	callee = p.chain(calleeStart, callee, false)
	var args []ast.NodeID
	if p.is("(") {
		args = p.arguments()
	}
	return p.tree.NewCall(ast.KindNewExpression, p.span(start), callee, args, false)
}

// chain parses member accesses and, when calls is set, call suffixes.
func (p *parser) chain(start uint32, expr ast.NodeID, calls bool) ast.NodeID {
	for {
		switch {
		case p.is("."):
			p.advance()
			prop := p.identifier()
			expr = p.tree.NewMember(p.span(start), expr, prop, false, false)
		case p.is("?."):
			p.advance()
			switch {
			case p.is("(") && calls:
				args := p.arguments()
				expr = p.tree.NewCall(ast.KindCallExpression, p.span(start), expr, args, true)
			case p.is("["):
				p.advance()
				prop := p.expression()
				p.expect("]")
				expr = p.tree.NewMember(p.span(start), expr, prop, true, true)
			default:
				prop := p.identifier()
				expr = p.tree.NewMember(p.span(start), expr, prop, false, true)
			}
		case p.is("["):
			p.advance()
			prop := p.expression()
			p.expect("]")
			expr = p.tree.NewMember(p.span(start), expr, prop, true, false)
		case p.is("(") && calls:
			args := p.arguments()
			expr = p.tree.NewCall(ast.KindCallExpression, p.span(start), expr, args, false)
		case p.is("!") && !p.newlineBefore():
			p.advance()
			expr = p.tree.NewOther(p.span(start), "TSNonNullExpression", []ast.NodeID{expr})
		default:
			return expr
		}
	}
}

func (p *parser) arguments() []ast.NodeID {
	p.expect("(")
	var args []ast.NodeID
	for !p.is(")") {
		args = append(args, p.spreadOr())
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return args
}

func (p *parser) spreadOr() ast.NodeID {
	if !p.is("...") {
		return p.assignment()
	}
	start := p.advance().start
	arg := p.assignment()
	return p.tree.NewWrap(ast.KindSpreadElement, p.span(start), arg)
}

func (p *parser) primary() ast.NodeID {
	tok := p.peek()
	start := tok.start
	switch tok.kind {
	case tokString, tokNumber:
		return p.literal()
	case tokTemplate:
		p.advance()
		return p.tree.NewOther(p.span(start), "TemplateLiteral", nil)
	case tokWord:
		switch tok.text {
		case "true", "false", "null":
			return p.literal()
		case "this":
			p.advance()
			return p.tree.NewOther(p.span(start), "ThisExpression", nil)
		case "super":
			p.advance()
			return p.tree.NewOther(p.span(start), "Super", nil)
		case "function":
			return p.function(ast.KindFunctionExpression, start, false)
		case "async":
			if isTok(p.peekAt(1), "function") {
				p.advance()
				return p.function(ast.KindFunctionExpression, start, true)
			}
		case "class":
			return p.class(ast.KindClassExpression, start, false)
		}
		return p.identifier()
	case tokPunct:
		switch tok.text {
		case "(":
			p.advance()
			expr := p.expression()
			p.expect(")")
			return expr
		case "[":
			return p.arrayLiteral()
		case "{":
			return p.objectLiteral()
		}
	}
	p.fail("unexpected %q", tok.text)
	return ast.NoNodeID
}

func (p *parser) arrayLiteral() ast.NodeID {
	start := p.expect("[").start
	var items []ast.NodeID
	for !p.is("]") {
		if p.eat(",") {
			items = append(items, ast.NoNodeID)
			continue
		}
		items = append(items, p.spreadOr())
		if !p.eat(",") {
			break
		}
	}
	p.expect("]")
	return p.tree.NewList(ast.KindArrayExpression, p.span(start), items)
}

func (p *parser) objectLiteral() ast.NodeID {
	start := p.expect("{").start
	var props []ast.NodeID
	for !p.is("}") {
		props = append(props, p.objectMember())
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return p.tree.NewList(ast.KindObjectExpression, p.span(start), props)
}

func (p *parser) objectMember() ast.NodeID {
	start := p.peek().start
	if p.is("...") {
		return p.spreadOr()
	}
	kind, async := "init", false
	if (p.is("get") || p.is("set") || p.is("async")) && startsMemberName(p.peekAt(1)) {
		switch word := p.advance().text; word {
		case "async":
			async = true
		default:
			kind = word
		}
	}
	key, computed := p.propertyKey()
	prop := ast.Property{Key: key, Kind: kind, Computed: computed}
	switch {
	case p.is("(") || p.is("<"):
		prop.Value = p.methodFunction(async)
		prop.Method = kind == "init"
	case p.eat(":"):
		prop.Value = p.assignment()
	default:
		if p.tree.Kind(key) != ast.KindIdentifier || computed {
			p.fail("expected ':' after property key")
		}
		prop.Value, prop.Shorthand = key, true
	}
	return p.tree.NewProperty(p.span(start), prop)
}
