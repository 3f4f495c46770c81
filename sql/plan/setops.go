package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Union is the set union of two tables. When Distinct is true duplicate
// rows are removed, otherwise all rows of both sides are kept.
type Union struct {
	sql.BaseNode
	Left     sql.TableNode
	Right    sql.TableNode
	Distinct bool
}

var _ sql.TableNode = (*Union)(nil)

// NewUnion creates a new Union node.
func NewUnion(left, right sql.TableNode, distinct bool) *Union {
	return &Union{BaseNode: sql.NewBase(), Left: left, Right: right, Distinct: distinct}
}

// Children implements the Node interface.
func (u *Union) Children() []sql.Node { return []sql.Node{u.Left, u.Right} }

// Blocks implements the Node interface.
func (u *Union) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (u *Union) Schema() []string { return u.Left.Schema() }

// Intersection is the set intersection of two tables.
type Intersection struct {
	sql.BaseNode
	Left  sql.TableNode
	Right sql.TableNode
}

var _ sql.TableNode = (*Intersection)(nil)

// NewIntersection creates a new Intersection node.
func NewIntersection(left, right sql.TableNode) *Intersection {
	return &Intersection{BaseNode: sql.NewBase(), Left: left, Right: right}
}

// Children implements the Node interface.
func (i *Intersection) Children() []sql.Node { return []sql.Node{i.Left, i.Right} }

// Blocks implements the Node interface.
func (i *Intersection) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (i *Intersection) Schema() []string { return i.Left.Schema() }

// Difference is the set difference of two tables, rows of Left that do not
// appear in Right.
type Difference struct {
	sql.BaseNode
	Left  sql.TableNode
	Right sql.TableNode
}

var _ sql.TableNode = (*Difference)(nil)

// NewDifference creates a new Difference node.
func NewDifference(left, right sql.TableNode) *Difference {
	return &Difference{BaseNode: sql.NewBase(), Left: left, Right: right}
}

// Children implements the Node interface.
func (d *Difference) Children() []sql.Node { return []sql.Node{d.Left, d.Right} }

// Blocks implements the Node interface.
func (d *Difference) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (d *Difference) Schema() []string { return d.Left.Schema() }
