package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Literal is a constant value.
type Literal struct {
	sql.BaseNode
	Value interface{}
	As    string
}

var _ sql.ValueNode = (*Literal)(nil)

// NewLiteral creates a new Literal with the given value.
func NewLiteral(value interface{}) *Literal {
	return &Literal{BaseNode: sql.NewBase(), Value: value}
}

// Children implements the Node interface.
func (l *Literal) Children() []sql.Node { return nil }

// Blocks implements the Node interface.
func (l *Literal) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (l *Literal) Name() string { return l.As }

// WithName implements the ValueNode interface.
func (l *Literal) WithName(name string) sql.ValueNode {
	nl := *l
	nl.BaseNode = sql.NewBase()
	nl.As = name
	return &nl
}

// WithChildren implements the ValueNode interface.
func (l *Literal) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 0)
	}
	return l, nil
}

// ScalarParameter is a named placeholder bound at execution time.
type ScalarParameter struct {
	sql.BaseNode
	ParamName string
	As        string
}

var _ sql.ValueNode = (*ScalarParameter)(nil)

// NewScalarParameter creates a new named ScalarParameter.
func NewScalarParameter(name string) *ScalarParameter {
	return &ScalarParameter{BaseNode: sql.NewBase(), ParamName: name}
}

// Children implements the Node interface.
func (p *ScalarParameter) Children() []sql.Node { return nil }

// Blocks implements the Node interface.
func (p *ScalarParameter) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (p *ScalarParameter) Name() string {
	if p.As != "" {
		return p.As
	}
	return p.ParamName
}

// WithName implements the ValueNode interface.
func (p *ScalarParameter) WithName(name string) sql.ValueNode {
	np := *p
	np.BaseNode = sql.NewBase()
	np.As = name
	return &np
}

// WithChildren implements the ValueNode interface.
func (p *ScalarParameter) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}
	return p, nil
}
