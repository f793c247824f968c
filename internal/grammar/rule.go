package grammar

// Rule is the syntactic category of a parse tree node. The set is closed:
// consumers may rely on every node carrying one of the values below.
type Rule int

const (
	RuleDocument Rule = iota
	RuleQuery
	RuleMutation
	RuleFragmentDef
	RuleSelectionSet
	RuleField
	RuleAlias
	RuleArgs
	RuleArg
	RuleName
	RuleValue
	RuleVariable
	RuleInt
	RuleFloat
	RuleString
	RuleBoolean
	RuleNull
	RuleEnumVal
	RuleList
	RuleObject
	RuleDirective
	RuleFragmentSpread
	RuleFragmentInline
	RuleVariableDef
	RuleTypes
	// RuleEOI terminates every document. It never represents a definition.
	RuleEOI
)

var ruleNames = [...]string{
	RuleDocument:       "document",
	RuleQuery:          "query",
	RuleMutation:       "mutation",
	RuleFragmentDef:    "fragment_def",
	RuleSelectionSet:   "selection_set",
	RuleField:          "field",
	RuleAlias:          "alias",
	RuleArgs:           "args",
	RuleArg:            "arg",
	RuleName:           "name",
	RuleValue:          "value",
	RuleVariable:       "variable",
	RuleInt:            "int",
	RuleFloat:          "float",
	RuleString:         "string",
	RuleBoolean:        "boolean",
	RuleNull:           "null",
	RuleEnumVal:        "enum_val",
	RuleList:           "list",
	RuleObject:         "object",
	RuleDirective:      "directive",
	RuleFragmentSpread: "fragment_spread",
	RuleFragmentInline: "fragment_inline",
	RuleVariableDef:    "variable_def",
	RuleTypes:          "types",
	RuleEOI:            "EOI",
}

func (r Rule) String() string {
	if r >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "unknown"
}
