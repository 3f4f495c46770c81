package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Selection is a projection with optional filter predicates and sort keys
// over a table. An empty projection list selects every column of the table.
type Selection struct {
	sql.BaseNode
	Table       sql.TableNode
	Projections []sql.ValueNode
	Filters     []sql.ValueNode
	SortKeys    []sql.ValueNode
}

var _ sql.TableNode = (*Selection)(nil)

// NewSelection creates a new selection over the given table.
func NewSelection(table sql.TableNode, projections, filters, sortKeys []sql.ValueNode) *Selection {
	return &Selection{
		BaseNode:    sql.NewBase(),
		Table:       table,
		Projections: projections,
		Filters:     filters,
		SortKeys:    sortKeys,
	}
}

// Children implements the Node interface.
func (s *Selection) Children() []sql.Node {
	out := []sql.Node{s.Table}
	out = valuesToNodes(out, s.Projections...)
	out = valuesToNodes(out, s.Filters...)
	return valuesToNodes(out, s.SortKeys...)
}

// Blocks implements the Node interface. A bare filter, with no projections,
// does not block: its table can still be fused into an enclosing statement.
func (s *Selection) Blocks() bool { return len(s.Projections) > 0 }

// Schema implements the TableNode interface.
func (s *Selection) Schema() []string {
	if len(s.Projections) == 0 {
		return s.Table.Schema()
	}
	out := make([]string, len(s.Projections))
	for i, p := range s.Projections {
		out[i] = p.Name()
	}
	return out
}
