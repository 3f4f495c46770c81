package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Distinct removes duplicate rows from its child table.
type Distinct struct {
	sql.BaseNode
	Child sql.TableNode
}

var _ sql.TableNode = (*Distinct)(nil)

// NewDistinct creates a new Distinct node.
func NewDistinct(child sql.TableNode) *Distinct {
	return &Distinct{BaseNode: sql.NewBase(), Child: child}
}

// Children implements the Node interface.
func (d *Distinct) Children() []sql.Node { return []sql.Node{d.Child} }

// Blocks implements the Node interface.
func (d *Distinct) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (d *Distinct) Schema() []string { return d.Child.Schema() }
