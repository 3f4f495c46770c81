package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// ValueOp is a generic scalar operation identified by name. Binary infix
// operators such as "add" and named functions such as "floor" both use it;
// the dialect translator decides how each name is rendered.
type ValueOp struct {
	sql.BaseNode
	Op   string
	Args []sql.Node
	As   string
}

var _ sql.ValueNode = (*ValueOp)(nil)

// NewValueOp creates a new ValueOp with the given operation name and
// arguments.
func NewValueOp(op string, args ...sql.Node) *ValueOp {
	return &ValueOp{BaseNode: sql.NewBase(), Op: op, Args: args}
}

// Children implements the Node interface.
func (v *ValueOp) Children() []sql.Node { return v.Args }

// Blocks implements the Node interface.
func (v *ValueOp) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (v *ValueOp) Name() string { return v.As }

// WithName implements the ValueNode interface.
func (v *ValueOp) WithName(name string) sql.ValueNode {
	nv := *v
	nv.BaseNode = sql.NewBase()
	nv.As = name
	return &nv
}

// WithChildren implements the ValueNode interface.
func (v *ValueOp) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != len(v.Args) {
		return nil, sql.ErrInvalidChildrenNumber.New(v, len(children), len(v.Args))
	}
	nv := *v
	nv.BaseNode = sql.NewBase()
	nv.Args = children
	return &nv, nil
}
