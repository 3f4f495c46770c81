package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Limit restricts its child table to Count rows, skipping Offset rows first.
type Limit struct {
	sql.BaseNode
	Count  int64
	Offset int64
	Child  sql.TableNode
}

var _ sql.TableNode = (*Limit)(nil)

// NewLimit creates a new Limit node.
func NewLimit(count, offset int64, child sql.TableNode) *Limit {
	return &Limit{BaseNode: sql.NewBase(), Count: count, Offset: offset, Child: child}
}

// Children implements the Node interface.
func (l *Limit) Children() []sql.Node { return []sql.Node{l.Child} }

// Blocks implements the Node interface. Limit folds into the enclosing
// statement's LIMIT clause, so it never forces a subquery on its own.
func (l *Limit) Blocks() bool { return false }

// Schema implements the TableNode interface.
func (l *Limit) Schema() []string { return l.Child.Schema() }
