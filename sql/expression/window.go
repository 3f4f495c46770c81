package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// WindowOp evaluates an aggregate metric over partitions of a table
// without collapsing its rows, rendering as <metric> OVER (PARTITION BY
// ...).
type WindowOp struct {
	sql.BaseNode
	Table  sql.TableNode
	By     []sql.ValueNode
	Metric sql.ValueNode
	As     string
}

var _ sql.ValueNode = (*WindowOp)(nil)

// NewWindowOp creates a new WindowOp computing metric over partitions of
// table keyed by the given expressions.
func NewWindowOp(table sql.TableNode, by []sql.ValueNode, metric sql.ValueNode) *WindowOp {
	return &WindowOp{BaseNode: sql.NewBase(), Table: table, By: by, Metric: metric}
}

// Children implements the Node interface.
func (w *WindowOp) Children() []sql.Node {
	out := []sql.Node{w.Table}
	for _, b := range w.By {
		out = append(out, b)
	}
	return append(out, w.Metric)
}

// Blocks implements the Node interface.
func (w *WindowOp) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (w *WindowOp) Name() string {
	if w.As != "" {
		return w.As
	}
	return w.Metric.Name()
}

// WithName implements the ValueNode interface.
func (w *WindowOp) WithName(name string) sql.ValueNode {
	nw := *w
	nw.BaseNode = sql.NewBase()
	nw.As = name
	return &nw
}

// WithChildren implements the ValueNode interface.
func (w *WindowOp) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2+len(w.By) {
		return nil, sql.ErrInvalidChildrenNumber.New(w, len(children), 2+len(w.By))
	}
	table, ok := children[0].(sql.TableNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(w, children[0])
	}
	by := make([]sql.ValueNode, len(w.By))
	for i, c := range children[1 : len(children)-1] {
		b, ok := c.(sql.ValueNode)
		if !ok {
			return nil, sql.ErrInvalidChildType.New(w, c)
		}
		by[i] = b
	}
	metric, ok := children[len(children)-1].(sql.ValueNode)
	if !ok {
		return nil, sql.ErrInvalidChildType.New(w, children[len(children)-1])
	}
	nw := *w
	nw.BaseNode = sql.NewBase()
	nw.Table = table
	nw.By = by
	nw.Metric = metric
	return &nw, nil
}
