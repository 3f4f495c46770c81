package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// TableColumn is a reference to a named column of a table.
type TableColumn struct {
	sql.BaseNode
	Table  sql.TableNode
	Column string
	As     string
}

var _ sql.ValueNode = (*TableColumn)(nil)

// NewTableColumn creates a reference to the given column of table.
func NewTableColumn(table sql.TableNode, column string) *TableColumn {
	return &TableColumn{BaseNode: sql.NewBase(), Table: table, Column: column}
}

// Children implements the Node interface.
func (c *TableColumn) Children() []sql.Node { return []sql.Node{c.Table} }

// Blocks implements the Node interface.
func (c *TableColumn) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (c *TableColumn) Name() string {
	if c.As != "" {
		return c.As
	}
	return c.Column
}

// WithName implements the ValueNode interface.
func (c *TableColumn) WithName(name string) sql.ValueNode {
	nc := *c
	nc.BaseNode = sql.NewBase()
	nc.As = name
	return &nc
}

// WithChildren implements the ValueNode interface.
func (c *TableColumn) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 1)
	}
	table, ok := children[0].(sql.TableNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(c, children[0])
	}
	nc := *c
	nc.BaseNode = sql.NewBase()
	nc.Table = table
	return &nc, nil
}

// DistinctColumn is a column reference whose values are deduplicated before
// any enclosing reduction is applied.
type DistinctColumn struct {
	sql.BaseNode
	Arg sql.ValueNode
	As  string
}

var _ sql.ValueNode = (*DistinctColumn)(nil)

// NewDistinctColumn creates a new DistinctColumn over arg.
func NewDistinctColumn(arg sql.ValueNode) *DistinctColumn {
	return &DistinctColumn{BaseNode: sql.NewBase(), Arg: arg}
}

// Children implements the Node interface.
func (d *DistinctColumn) Children() []sql.Node { return []sql.Node{d.Arg} }

// Blocks implements the Node interface.
func (d *DistinctColumn) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (d *DistinctColumn) Name() string {
	if d.As != "" {
		return d.As
	}
	return d.Arg.Name()
}

// WithName implements the ValueNode interface.
func (d *DistinctColumn) WithName(name string) sql.ValueNode {
	nd := *d
	nd.BaseNode = sql.NewBase()
	nd.As = name
	return &nd
}

// WithChildren implements the ValueNode interface.
func (d *DistinctColumn) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(d, len(children), 1)
	}
	arg, ok := children[0].(sql.ValueNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(d, children[0])
	}
	nd := *d
	nd.BaseNode = sql.NewBase()
	nd.Arg = arg
	return &nd, nil
}
