package compiler

import (
	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// Statement is a compilable query unit.
type Statement interface {
	// Compile serializes the statement to SQL text.
	Compile() (string, error)
}

// QueryAST is the result of building a compilation: the context holding
// alias decisions, the result statements, and any setup or teardown
// statements that must run around them.
type QueryAST struct {
	Context  *Context
	Queries  []Statement
	Setup    []string
	Teardown []string
}

// BuildAST builds the statement objects for an expression in the given
// context. Set operations at the root flatten into a single set statement;
// everything else goes through the select builder.
func BuildAST(n sql.Node, ctx *Context) (*QueryAST, error) {
	var query Statement
	var err error

	switch t := n.(type) {
	case *plan.Union:
		query, err = newUnion(ctx, t)
	case *plan.Intersection:
		query, err = newIntersection(ctx, t)
	case *plan.Difference:
		query, err = newDifference(ctx, t)
	default:
		var builder *SelectBuilder
		builder, err = NewSelectBuilder(n, ctx)
		if err == nil {
			query, err = builder.Statement()
		}
	}
	if err != nil {
		return nil, err
	}

	return &QueryAST{
		Context: ctx,
		Queries: []Statement{query},
	}, nil
}

// ToSQL compiles an expression to SQL text in the given dialect.
func ToSQL(n sql.Node, d sql.Dialect) (string, error) {
	ast, err := BuildAST(n, NewContext(d))
	if err != nil {
		return "", err
	}
	return ast.Queries[0].Compile()
}
