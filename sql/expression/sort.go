package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// SortKey orders by an expression, ascending or descending.
type SortKey struct {
	sql.BaseNode
	Expr      sql.ValueNode
	Ascending bool
	As        string
}

var _ sql.ValueNode = (*SortKey)(nil)

// NewSortKey creates a new SortKey over expr.
func NewSortKey(expr sql.ValueNode, ascending bool) *SortKey {
	return &SortKey{BaseNode: sql.NewBase(), Expr: expr, Ascending: ascending}
}

// Children implements the Node interface.
func (s *SortKey) Children() []sql.Node { return []sql.Node{s.Expr} }

// Blocks implements the Node interface.
func (s *SortKey) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (s *SortKey) Name() string {
	if s.As != "" {
		return s.As
	}
	return s.Expr.Name()
}

// WithName implements the ValueNode interface.
func (s *SortKey) WithName(name string) sql.ValueNode {
	ns := *s
	ns.BaseNode = sql.NewBase()
	ns.As = name
	return &ns
}

// WithChildren implements the ValueNode interface.
func (s *SortKey) WithChildren(children ...sql.Node) (sql.Node, error) {
	expr, err := unaryValue(s, children)
	if err != nil {
		return nil, err
	}
	ns := *s
	ns.BaseNode = sql.NewBase()
	ns.Expr = expr
	return &ns, nil
}
