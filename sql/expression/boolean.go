package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// And is the boolean conjunction of two predicates.
type And struct {
	sql.BaseNode
	Left  sql.ValueNode
	Right sql.ValueNode
	As    string
}

var _ sql.ValueNode = (*And)(nil)

// NewAnd creates a new And of left and right.
func NewAnd(left, right sql.ValueNode) *And {
	return &And{BaseNode: sql.NewBase(), Left: left, Right: right}
}

// JoinAnd folds the given predicates into a single right-leaning
// conjunction. It returns nil when called with no predicates.
func JoinAnd(preds ...sql.ValueNode) sql.ValueNode {
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return NewAnd(preds[0], JoinAnd(preds[1:]...))
	}
}

// Children implements the Node interface.
func (a *And) Children() []sql.Node { return []sql.Node{a.Left, a.Right} }

// Blocks implements the Node interface.
func (a *And) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (a *And) Name() string { return a.As }

// WithName implements the ValueNode interface.
func (a *And) WithName(name string) sql.ValueNode {
	na := *a
	na.BaseNode = sql.NewBase()
	na.As = name
	return &na
}

// WithChildren implements the ValueNode interface.
func (a *And) WithChildren(children ...sql.Node) (sql.Node, error) {
	left, right, err := binaryValues(a, children)
	if err != nil {
		return nil, err
	}
	na := *a
	na.BaseNode = sql.NewBase()
	na.Left = left
	na.Right = right
	return &na, nil
}

// Or is the boolean disjunction of two predicates.
type Or struct {
	sql.BaseNode
	Left  sql.ValueNode
	Right sql.ValueNode
	As    string
}

var _ sql.ValueNode = (*Or)(nil)

// NewOr creates a new Or of left and right.
func NewOr(left, right sql.ValueNode) *Or {
	return &Or{BaseNode: sql.NewBase(), Left: left, Right: right}
}

// Children implements the Node interface.
func (o *Or) Children() []sql.Node { return []sql.Node{o.Left, o.Right} }

// Blocks implements the Node interface.
func (o *Or) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (o *Or) Name() string { return o.As }

// WithName implements the ValueNode interface.
func (o *Or) WithName(name string) sql.ValueNode {
	no := *o
	no.BaseNode = sql.NewBase()
	no.As = name
	return &no
}

// WithChildren implements the ValueNode interface.
func (o *Or) WithChildren(children ...sql.Node) (sql.Node, error) {
	left, right, err := binaryValues(o, children)
	if err != nil {
		return nil, err
	}
	no := *o
	no.BaseNode = sql.NewBase()
	no.Left = left
	no.Right = right
	return &no, nil
}

// Not is the boolean negation of a predicate.
type Not struct {
	sql.BaseNode
	Child sql.ValueNode
	As    string
}

var _ sql.ValueNode = (*Not)(nil)

// NewNot creates a new Not of child.
func NewNot(child sql.ValueNode) *Not {
	return &Not{BaseNode: sql.NewBase(), Child: child}
}

// Children implements the Node interface.
func (n *Not) Children() []sql.Node { return []sql.Node{n.Child} }

// Blocks implements the Node interface.
func (n *Not) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (n *Not) Name() string { return n.As }

// WithName implements the ValueNode interface.
func (n *Not) WithName(name string) sql.ValueNode {
	nn := *n
	nn.BaseNode = sql.NewBase()
	nn.As = name
	return &nn
}

// WithChildren implements the ValueNode interface.
func (n *Not) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(n, len(children), 1)
	}
	child, ok := children[0].(sql.ValueNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(n, children[0])
	}
	nn := *n
	nn.BaseNode = sql.NewBase()
	nn.Child = child
	return &nn, nil
}

// FlattenPredicate splits nested conjunctions into a flat predicate list,
// so each conjunct can be rendered as its own WHERE line.
func FlattenPredicate(pred sql.ValueNode) []sql.ValueNode {
	if a, ok := pred.(*And); ok {
		return append(FlattenPredicate(a.Left), FlattenPredicate(a.Right)...)
	}
	return []sql.ValueNode{pred}
}

func binaryValues(parent sql.Node, children []sql.Node) (sql.ValueNode, sql.ValueNode, error) {
	if len(children) != 2 {
		return nil, nil, sql.ErrInvalidChildrenNumber.New(parent, len(children), 2)
	}
	left, ok := children[0].(sql.ValueNode)
	if !ok {
		return nil, nil, sql.ErrInvalidChildType.New(parent, children[0])
	}
	right, ok := children[1].(sql.ValueNode)
	if !ok {
		return nil, nil, sql.ErrInvalidChildType.New(parent, children[1])
	}
	return left, right, nil
}
