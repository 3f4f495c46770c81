package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Aggregation groups a table by a set of key expressions and computes
// aggregate metrics per group. Having predicates apply after grouping,
// Predicates before.
type Aggregation struct {
	sql.BaseNode
	Table      sql.TableNode
	By         []sql.ValueNode
	Metrics    []sql.ValueNode
	Having     []sql.ValueNode
	Predicates []sql.ValueNode
	SortKeys   []sql.ValueNode
}

var _ sql.TableNode = (*Aggregation)(nil)

// NewAggregation creates a new aggregation of the given table.
func NewAggregation(table sql.TableNode, by, metrics []sql.ValueNode) *Aggregation {
	return &Aggregation{
		BaseNode: sql.NewBase(),
		Table:    table,
		By:       by,
		Metrics:  metrics,
	}
}

// Children implements the Node interface.
func (a *Aggregation) Children() []sql.Node {
	out := []sql.Node{a.Table}
	out = valuesToNodes(out, a.By...)
	out = valuesToNodes(out, a.Metrics...)
	out = valuesToNodes(out, a.Having...)
	out = valuesToNodes(out, a.Predicates...)
	return valuesToNodes(out, a.SortKeys...)
}

// Blocks implements the Node interface.
func (a *Aggregation) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (a *Aggregation) Schema() []string {
	out := make([]string, 0, len(a.By)+len(a.Metrics))
	for _, b := range a.By {
		out = append(out, b.Name())
	}
	for _, m := range a.Metrics {
		out = append(out, m.Name())
	}
	return out
}
