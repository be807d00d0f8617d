package ast

// Kind tags a node. The set is closed: every ESTree node type the rules
// inspect has its own kind and everything else decodes as KindOther.
type Kind uint8

const (
	KindInvalid Kind = iota

	// module
	KindProgram
	KindImportDeclaration
	KindImportSpecifier
	KindImportDefaultSpecifier
	KindImportNamespaceSpecifier
	KindTSImportEqualsDeclaration
	KindTSExternalModuleReference
	KindExportNamedDeclaration
	KindExportDefaultDeclaration
	KindExportSpecifier

	// declarations
	KindClassDeclaration
	KindClassExpression
	KindClassBody
	KindTSClassImplements
	KindPropertyDefinition
	KindMethodDefinition
	KindFunctionDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindTSInterfaceDeclaration
	KindTSInterfaceBody
	KindTSTypeAliasDeclaration

	// statements
	KindBlockStatement
	KindExpressionStatement
	KindReturnStatement
	KindIfStatement
	KindTryStatement
	KindCatchClause

	// expressions
	KindIdentifier
	KindLiteral
	KindFunctionExpression
	KindArrowFunctionExpression
	KindObjectExpression
	KindProperty
	KindSpreadElement
	KindArrayExpression
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindAwaitExpression

	// patterns
	KindObjectPattern
	KindArrayPattern
	KindAssignmentPattern
	KindRestElement

	// types
	KindTSTypeReference
	KindTSQualifiedName
	KindTSTypeLiteral
	KindTSPropertySignature
	KindTSIntersectionType
	KindTSUnionType
	KindTSArrayType
	KindTSLiteralType
	KindTSKeyword

	KindOther

	kindCount
)

// Category groups kinds the way the syntax categories split them.
type Category uint8

const (
	CategoryInvalid Category = iota
	CategoryModule
	CategoryDeclaration
	CategoryStatement
	CategoryExpression
	CategoryPattern
	CategoryType
	CategoryOther
)

var kindNames = [kindCount]string{
	KindInvalid:                   "Invalid",
	KindProgram:                   "Program",
	KindImportDeclaration:         "ImportDeclaration",
	KindImportSpecifier:           "ImportSpecifier",
	KindImportDefaultSpecifier:    "ImportDefaultSpecifier",
	KindImportNamespaceSpecifier:  "ImportNamespaceSpecifier",
	KindTSImportEqualsDeclaration: "TSImportEqualsDeclaration",
	KindTSExternalModuleReference: "TSExternalModuleReference",
	KindExportNamedDeclaration:    "ExportNamedDeclaration",
	KindExportDefaultDeclaration:  "ExportDefaultDeclaration",
	KindExportSpecifier:           "ExportSpecifier",
	KindClassDeclaration:          "ClassDeclaration",
	KindClassExpression:           "ClassExpression",
	KindClassBody:                 "ClassBody",
	KindTSClassImplements:         "TSClassImplements",
	KindPropertyDefinition:        "PropertyDefinition",
	KindMethodDefinition:          "MethodDefinition",
	KindFunctionDeclaration:       "FunctionDeclaration",
	KindVariableDeclaration:       "VariableDeclaration",
	KindVariableDeclarator:        "VariableDeclarator",
	KindTSInterfaceDeclaration:    "TSInterfaceDeclaration",
	KindTSInterfaceBody:           "TSInterfaceBody",
	KindTSTypeAliasDeclaration:    "TSTypeAliasDeclaration",
	KindBlockStatement:            "BlockStatement",
	KindExpressionStatement:       "ExpressionStatement",
	KindReturnStatement:           "ReturnStatement",
	KindIfStatement:               "IfStatement",
	KindTryStatement:              "TryStatement",
	KindCatchClause:               "CatchClause",
	KindIdentifier:                "Identifier",
	KindLiteral:                   "Literal",
	KindFunctionExpression:        "FunctionExpression",
	KindArrowFunctionExpression:   "ArrowFunctionExpression",
	KindObjectExpression:          "ObjectExpression",
	KindProperty:                  "Property",
	KindSpreadElement:             "SpreadElement",
	KindArrayExpression:           "ArrayExpression",
	KindCallExpression:            "CallExpression",
	KindNewExpression:             "NewExpression",
	KindMemberExpression:          "MemberExpression",
	KindAwaitExpression:           "AwaitExpression",
	KindObjectPattern:             "ObjectPattern",
	KindArrayPattern:              "ArrayPattern",
	KindAssignmentPattern:         "AssignmentPattern",
	KindRestElement:               "RestElement",
	KindTSTypeReference:           "TSTypeReference",
	KindTSQualifiedName:           "TSQualifiedName",
	KindTSTypeLiteral:             "TSTypeLiteral",
	KindTSPropertySignature:       "TSPropertySignature",
	KindTSIntersectionType:        "TSIntersectionType",
	KindTSUnionType:               "TSUnionType",
	KindTSArrayType:               "TSArrayType",
	KindTSLiteralType:             "TSLiteralType",
	KindTSKeyword:                 "TSKeyword",
	KindOther:                     "Other",
}

var kindByName map[string]Kind

func init() {
	kindByName = make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if name == "" || Kind(k) == KindInvalid || Kind(k) == KindOther || Kind(k) == KindTSKeyword {
			continue
		}
		kindByName[name] = Kind(k)
	}
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Invalid"
}

// KindFromName maps an ESTree node type to its kind. Unknown types map to
// KindOther; keyword types (TSStringKeyword, ...) map to KindTSKeyword.
func KindFromName(name string) Kind {
	if k, ok := kindByName[name]; ok {
		return k
	}
	if IsKeywordTypeName(name) {
		return KindTSKeyword
	}
	return KindOther
}

// IsKeywordTypeName reports whether name is one of the TS*Keyword node types.
func IsKeywordTypeName(name string) bool {
	return len(name) > len("TSKeyword") && name[:2] == "TS" && name[len(name)-len("Keyword"):] == "Keyword"
}

func (k Kind) Category() Category {
	switch {
	case k == KindInvalid || k >= kindCount:
		return CategoryInvalid
	case k <= KindExportSpecifier:
		return CategoryModule
	case k <= KindTSTypeAliasDeclaration:
		return CategoryDeclaration
	case k <= KindCatchClause:
		return CategoryStatement
	case k <= KindAwaitExpression:
		return CategoryExpression
	case k <= KindRestElement:
		return CategoryPattern
	case k <= KindTSKeyword:
		return CategoryType
	default:
		return CategoryOther
	}
}

// IsFunction reports whether k is one of the three function-like kinds
// sharing the Function payload.
func (k Kind) IsFunction() bool {
	return k == KindFunctionDeclaration || k == KindFunctionExpression || k == KindArrowFunctionExpression
}

// IsClass reports whether k carries the Class payload.
func (k Kind) IsClass() bool {
	return k == KindClassDeclaration || k == KindClassExpression
}

func (c Category) String() string {
	switch c {
	case CategoryModule:
		return "module"
	case CategoryDeclaration:
		return "declaration"
	case CategoryStatement:
		return "statement"
	case CategoryExpression:
		return "expression"
	case CategoryPattern:
		return "pattern"
	case CategoryType:
		return "type"
	case CategoryOther:
		return "other"
	default:
		return "invalid"
	}
}
