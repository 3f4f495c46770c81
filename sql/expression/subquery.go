package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Any is an existential predicate: it holds when its comparison holds for
// any row of the foreign table referenced inside it. The compiler lowers
// it to an EXISTS subquery before rendering.
type Any struct {
	sql.BaseNode
	Predicate sql.ValueNode
	As        string
}

var _ sql.ValueNode = (*Any)(nil)

// NewAny creates a new Any over the given comparison.
func NewAny(predicate sql.ValueNode) *Any {
	return &Any{BaseNode: sql.NewBase(), Predicate: predicate}
}

// Children implements the Node interface.
func (a *Any) Children() []sql.Node { return []sql.Node{a.Predicate} }

// Blocks implements the Node interface.
func (a *Any) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (a *Any) Name() string { return a.As }

// WithName implements the ValueNode interface.
func (a *Any) WithName(name string) sql.ValueNode {
	na := *a
	na.BaseNode = sql.NewBase()
	na.As = name
	return &na
}

// WithChildren implements the ValueNode interface.
func (a *Any) WithChildren(children ...sql.Node) (sql.Node, error) {
	pred, err := unaryValue(a, children)
	if err != nil {
		return nil, err
	}
	na := *a
	na.BaseNode = sql.NewBase()
	na.Predicate = pred
	return &na, nil
}

// NotAny is the negation of Any. The compiler lowers it to a NOT EXISTS
// subquery before rendering.
type NotAny struct {
	sql.BaseNode
	Predicate sql.ValueNode
	As        string
}

var _ sql.ValueNode = (*NotAny)(nil)

// NewNotAny creates a new NotAny over the given comparison.
func NewNotAny(predicate sql.ValueNode) *NotAny {
	return &NotAny{BaseNode: sql.NewBase(), Predicate: predicate}
}

// Children implements the Node interface.
func (a *NotAny) Children() []sql.Node { return []sql.Node{a.Predicate} }

// Blocks implements the Node interface.
func (a *NotAny) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (a *NotAny) Name() string { return a.As }

// WithName implements the ValueNode interface.
func (a *NotAny) WithName(name string) sql.ValueNode {
	na := *a
	na.BaseNode = sql.NewBase()
	na.As = name
	return &na
}

// WithChildren implements the ValueNode interface.
func (a *NotAny) WithChildren(children ...sql.Node) (sql.Node, error) {
	pred, err := unaryValue(a, children)
	if err != nil {
		return nil, err
	}
	na := *a
	na.BaseNode = sql.NewBase()
	na.Predicate = pred
	return &na, nil
}

// ExistsSubquery renders as EXISTS over a filtered foreign table. It is
// produced by lowering Any predicates, never constructed by front ends
// directly.
type ExistsSubquery struct {
	sql.BaseNode
	Foreign    sql.TableNode
	Predicates []sql.ValueNode
	As         string
}

var _ sql.ValueNode = (*ExistsSubquery)(nil)

// NewExistsSubquery creates a new ExistsSubquery.
func NewExistsSubquery(foreign sql.TableNode, predicates []sql.ValueNode) *ExistsSubquery {
	return &ExistsSubquery{BaseNode: sql.NewBase(), Foreign: foreign, Predicates: predicates}
}

// Children implements the Node interface.
func (e *ExistsSubquery) Children() []sql.Node {
	out := []sql.Node{e.Foreign}
	for _, p := range e.Predicates {
		out = append(out, p)
	}
	return out
}

// Blocks implements the Node interface.
func (e *ExistsSubquery) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (e *ExistsSubquery) Name() string { return e.As }

// WithName implements the ValueNode interface.
func (e *ExistsSubquery) WithName(name string) sql.ValueNode {
	ne := *e
	ne.BaseNode = sql.NewBase()
	ne.As = name
	return &ne
}

// WithChildren implements the ValueNode interface.
func (e *ExistsSubquery) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1+len(e.Predicates) {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1+len(e.Predicates))
	}
	foreign, ok := children[0].(sql.TableNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(e, children[0])
	}
	preds := make([]sql.ValueNode, len(children)-1)
	for i, c := range children[1:] {
		p, ok := c.(sql.ValueNode)
		if !ok {
			return nil, sql.ErrInvalidChildType.New(e, c)
		}
		preds[i] = p
	}
	ne := *e
	ne.BaseNode = sql.NewBase()
	ne.Foreign = foreign
	ne.Predicates = preds
	return &ne, nil
}

// NotExistsSubquery renders as NOT EXISTS over a filtered foreign table.
type NotExistsSubquery struct {
	sql.BaseNode
	Foreign    sql.TableNode
	Predicates []sql.ValueNode
	As         string
}

var _ sql.ValueNode = (*NotExistsSubquery)(nil)

// NewNotExistsSubquery creates a new NotExistsSubquery.
func NewNotExistsSubquery(foreign sql.TableNode, predicates []sql.ValueNode) *NotExistsSubquery {
	return &NotExistsSubquery{BaseNode: sql.NewBase(), Foreign: foreign, Predicates: predicates}
}

// Children implements the Node interface.
func (e *NotExistsSubquery) Children() []sql.Node {
	out := []sql.Node{e.Foreign}
	for _, p := range e.Predicates {
		out = append(out, p)
	}
	return out
}

// Blocks implements the Node interface.
func (e *NotExistsSubquery) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (e *NotExistsSubquery) Name() string { return e.As }

// WithName implements the ValueNode interface.
func (e *NotExistsSubquery) WithName(name string) sql.ValueNode {
	ne := *e
	ne.BaseNode = sql.NewBase()
	ne.As = name
	return &ne
}

// WithChildren implements the ValueNode interface.
func (e *NotExistsSubquery) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1+len(e.Predicates) {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1+len(e.Predicates))
	}
	foreign, ok := children[0].(sql.TableNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(e, children[0])
	}
	preds := make([]sql.ValueNode, len(children)-1)
	for i, c := range children[1:] {
		p, ok := c.(sql.ValueNode)
		if !ok {
			return nil, sql.ErrInvalidChildType.New(e, c)
		}
		preds[i] = p
	}
	ne := *e
	ne.BaseNode = sql.NewBase()
	ne.Foreign = foreign
	ne.Predicates = preds
	return &ne, nil
}

// TableArrayView wraps a one-column table so it can appear where a value
// expression is expected, rendering as a parenthesized scalar subquery.
type TableArrayView struct {
	sql.BaseNode
	Table sql.TableNode
	As    string
}

var _ sql.ValueNode = (*TableArrayView)(nil)

// NewTableArrayView creates a new TableArrayView of table.
func NewTableArrayView(table sql.TableNode) *TableArrayView {
	return &TableArrayView{BaseNode: sql.NewBase(), Table: table}
}

// Children implements the Node interface.
func (t *TableArrayView) Children() []sql.Node { return []sql.Node{t.Table} }

// Blocks implements the Node interface.
func (t *TableArrayView) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (t *TableArrayView) Name() string {
	if t.As != "" {
		return t.As
	}
	if schema := t.Table.Schema(); len(schema) == 1 {
		return schema[0]
	}
	return ""
}

// WithName implements the ValueNode interface.
func (t *TableArrayView) WithName(name string) sql.ValueNode {
	nt := *t
	nt.BaseNode = sql.NewBase()
	nt.As = name
	return &nt
}

// WithChildren implements the ValueNode interface.
func (t *TableArrayView) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 1)
	}
	table, ok := children[0].(sql.TableNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(t, children[0])
	}
	nt := *t
	nt.BaseNode = sql.NewBase()
	nt.Table = table
	return &nt, nil
}

func unaryValue(parent sql.Node, children []sql.Node) (sql.ValueNode, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(parent, len(children), 1)
	}
	v, ok := children[0].(sql.ValueNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(parent, children[0])
	}
	return v, nil
}
