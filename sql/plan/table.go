package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// PhysicalTable is a named base table.
type PhysicalTable struct {
	sql.BaseNode
	Name    string
	Columns []string
}

var _ sql.TableNode = (*PhysicalTable)(nil)

// NewPhysicalTable creates a new physical table reference.
func NewPhysicalTable(name string, columns []string) *PhysicalTable {
	return &PhysicalTable{BaseNode: sql.NewBase(), Name: name, Columns: columns}
}

// Children implements the Node interface.
func (*PhysicalTable) Children() []sql.Node { return nil }

// Blocks implements the Node interface.
func (*PhysicalTable) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (t *PhysicalTable) Schema() []string { return t.Columns }

// SelfReference is an aliased re-reference to another table expression, used
// to disambiguate the two sides of a self-join.
type SelfReference struct {
	sql.BaseNode
	Table sql.TableNode
}

var _ sql.TableNode = (*SelfReference)(nil)

// NewSelfReference creates a new self reference of the given table.
func NewSelfReference(table sql.TableNode) *SelfReference {
	return &SelfReference{BaseNode: sql.NewBase(), Table: table}
}

// Children implements the Node interface.
func (r *SelfReference) Children() []sql.Node { return []sql.Node{r.Table} }

// Blocks implements the Node interface.
func (*SelfReference) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (r *SelfReference) Schema() []string { return r.Table.Schema() }
