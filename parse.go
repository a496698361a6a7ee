package expressivo

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// ============================================================
// Grammar
// ============================================================
//
//	root      ::= sum
//	sum       ::= product ('+' product)*
//	product   ::= primitive ('*' primitive)*
//	primitive ::= number | variable | '(' sum ')'
//
// A sum with a single product, or a product with a single primitive, is the
// primitive itself. Whitespace is skipped between tokens.

var (
	exprLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Number", Pattern: `[0-9]+\.?[0-9]*|\.[0-9]+`},
		{Name: "Variable", Pattern: `[a-zA-Z]+`},
		{Name: "Punct", Pattern: `[+*()]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	})

	exprParser = participle.MustBuild[rootNode](
		participle.Lexer(exprLexer),
		participle.Elide("Whitespace"),
	)
)

type rootNode struct {
	Pos lexer.Position

	Expression *sumNode `@@`
}

type sumNode struct {
	Pos lexer.Position

	Terms []*productNode `@@ ( "+" @@ )*`
}

type productNode struct {
	Pos lexer.Position

	Factors []*primitiveNode `@@ ( "*" @@ )*`
}

type primitiveNode struct {
	Pos lexer.Position

	Number   *string  `  @Number`
	Variable *string  `| @Variable`
	Group    *sumNode `| "(" @@ ")"`
}

// Grammar returns the EBNF of the accepted language.
func Grammar() string { return exprParser.String() }

// Parse parses input into its flattened expression tree. Sums and products
// are grouped left to right, so "(a+b)+c" and "a+(b+c)" give equal results.
func Parse(input string) (Expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.Wrap(ErrInvalidInput, "empty input")
	}
	tree, err := exprParser.ParseString("", input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	e, err := buildAST(tree)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	return e, nil
}

// ============================================================
// AST builder
// ============================================================

var errMalformedTree = errors.New("malformed parse tree")

func buildAST(root *rootNode) (Expr, error) {
	if root == nil || root.Expression == nil {
		return nil, errors.Wrap(errMalformedTree, "root without expression")
	}
	return buildSum(root.Expression)
}

func buildSum(node *sumNode) (Expr, error) {
	if len(node.Terms) == 0 {
		return nil, errors.Wrapf(errMalformedTree, "%s: sum without terms", node.Pos)
	}
	result, err := buildProduct(node.Terms[0])
	if err != nil {
		return nil, err
	}
	for _, child := range node.Terms[1:] {
		term, err := buildProduct(child)
		if err != nil {
			return nil, err
		}
		result = MakeSum(result, term)
	}
	return result, nil
}

func buildProduct(node *productNode) (Expr, error) {
	if len(node.Factors) == 0 {
		return nil, errors.Wrapf(errMalformedTree, "%s: product without factors", node.Pos)
	}
	result, err := buildPrimitive(node.Factors[0])
	if err != nil {
		return nil, err
	}
	for _, child := range node.Factors[1:] {
		factor, err := buildPrimitive(child)
		if err != nil {
			return nil, err
		}
		result = MakeProduct(result, factor)
	}
	return result, nil
}

func buildPrimitive(node *primitiveNode) (Expr, error) {
	switch {
	case node.Group != nil:
		return buildSum(node.Group)
	case node.Number != nil:
		n, err := NumFromString(*node.Number)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", node.Pos)
		}
		return n, nil
	case node.Variable != nil:
		v, err := MakeVar(*node.Variable)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", node.Pos)
		}
		return v, nil
	}
	return nil, errors.Wrapf(errMalformedTree, "%s: empty primitive", node.Pos)
}
