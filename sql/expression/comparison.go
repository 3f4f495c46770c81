package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Comparison operator symbols.
const (
	EqualsOp         = "="
	NotEqualsOp      = "!="
	LessThanOp       = "<"
	LessOrEqualOp    = "<="
	GreaterThanOp    = ">"
	GreaterOrEqualOp = ">="
)

// Comparison compares two value expressions with an infix operator.
type Comparison struct {
	sql.BaseNode
	Operator string
	Left     sql.ValueNode
	Right    sql.ValueNode
	As       string
}

var _ sql.ValueNode = (*Comparison)(nil)

// NewComparison creates a new Comparison with the given operator.
func NewComparison(operator string, left, right sql.ValueNode) *Comparison {
	return &Comparison{BaseNode: sql.NewBase(), Operator: operator, Left: left, Right: right}
}

// NewEquals creates an equality comparison of left and right.
func NewEquals(left, right sql.ValueNode) *Comparison {
	return NewComparison(EqualsOp, left, right)
}

// NewNotEquals creates an inequality comparison of left and right.
func NewNotEquals(left, right sql.ValueNode) *Comparison {
	return NewComparison(NotEqualsOp, left, right)
}

// NewLessThan creates a less-than comparison of left and right.
func NewLessThan(left, right sql.ValueNode) *Comparison {
	return NewComparison(LessThanOp, left, right)
}

// NewLessOrEqual creates a less-or-equal comparison of left and right.
func NewLessOrEqual(left, right sql.ValueNode) *Comparison {
	return NewComparison(LessOrEqualOp, left, right)
}

// NewGreaterThan creates a greater-than comparison of left and right.
func NewGreaterThan(left, right sql.ValueNode) *Comparison {
	return NewComparison(GreaterThanOp, left, right)
}

// NewGreaterOrEqual creates a greater-or-equal comparison of left and right.
func NewGreaterOrEqual(left, right sql.ValueNode) *Comparison {
	return NewComparison(GreaterOrEqualOp, left, right)
}

// IsEquality reports whether the comparison is a plain equality, the only
// form accepted as a join predicate by dialects without non-equijoin
// support.
func (c *Comparison) IsEquality() bool { return c.Operator == EqualsOp }

// Children implements the Node interface.
func (c *Comparison) Children() []sql.Node { return []sql.Node{c.Left, c.Right} }

// Blocks implements the Node interface.
func (c *Comparison) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (c *Comparison) Name() string { return c.As }

// WithName implements the ValueNode interface.
func (c *Comparison) WithName(name string) sql.ValueNode {
	nc := *c
	nc.BaseNode = sql.NewBase()
	nc.As = name
	return &nc
}

// WithChildren implements the ValueNode interface.
func (c *Comparison) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 2)
	}
	left, ok := children[0].(sql.ValueNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(c, children[0])
	}
	right, ok := children[1].(sql.ValueNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(c, children[1])
	}
	nc := *c
	nc.BaseNode = sql.NewBase()
	nc.Left = left
	nc.Right = right
	return &nc, nil
}
