package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// ExprList groups several value expressions under one node, used for
// compound select items that expand to multiple columns.
type ExprList struct {
	sql.BaseNode
	Exprs []sql.ValueNode
	As    string
}

var _ sql.ValueNode = (*ExprList)(nil)

// NewExprList creates a new ExprList of the given expressions.
func NewExprList(exprs ...sql.ValueNode) *ExprList {
	return &ExprList{BaseNode: sql.NewBase(), Exprs: exprs}
}

// Children implements the Node interface.
func (l *ExprList) Children() []sql.Node {
	out := make([]sql.Node, len(l.Exprs))
	for i, e := range l.Exprs {
		out[i] = e
	}
	return out
}

// Blocks implements the Node interface.
func (l *ExprList) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (l *ExprList) Name() string { return l.As }

// WithName implements the ValueNode interface.
func (l *ExprList) WithName(name string) sql.ValueNode {
	nl := *l
	nl.BaseNode = sql.NewBase()
	nl.As = name
	return &nl
}

// WithChildren implements the ValueNode interface.
func (l *ExprList) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != len(l.Exprs) {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), len(l.Exprs))
	}
	exprs := make([]sql.ValueNode, len(children))
	for i, c := range children {
		e, ok := c.(sql.ValueNode)
		if !ok {
			return nil, sql.ErrInvalidChildType.New(l, c)
		}
		exprs[i] = e
	}
	nl := *l
	nl.BaseNode = sql.NewBase()
	nl.Exprs = exprs
	return &nl, nil
}
