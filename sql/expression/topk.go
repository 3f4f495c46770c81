package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// TopK selects the K largest groups of its argument, ranked by the By
// metric. It only has meaning wrapped in a SummaryFilter used as a filter
// predicate, where the compiler rewrites it into a left semi join.
type TopK struct {
	sql.BaseNode
	Arg sql.ValueNode
	K   int64
	By  sql.ValueNode
	As  string
}

var _ sql.ValueNode = (*TopK)(nil)

// NewTopK creates a new TopK of arg ranked by the given metric.
func NewTopK(arg sql.ValueNode, k int64, by sql.ValueNode) *TopK {
	return &TopK{BaseNode: sql.NewBase(), Arg: arg, K: k, By: by}
}

// Children implements the Node interface.
func (t *TopK) Children() []sql.Node { return []sql.Node{t.Arg, t.By} }

// Blocks implements the Node interface.
func (t *TopK) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (t *TopK) Name() string { return t.As }

// WithName implements the ValueNode interface.
func (t *TopK) WithName(name string) sql.ValueNode {
	nt := *t
	nt.BaseNode = sql.NewBase()
	nt.As = name
	return &nt
}

// WithChildren implements the ValueNode interface.
func (t *TopK) WithChildren(children ...sql.Node) (sql.Node, error) {
	left, right, err := binaryValues(t, children)
	if err != nil {
		return nil, err
	}
	nt := *t
	nt.BaseNode = sql.NewBase()
	nt.Arg = left
	nt.By = right
	return &nt, nil
}

// SummaryFilter marks a summary expression, such as TopK, used in filter
// position. The compiler replaces the enclosing statement's table set
// rather than rendering the filter itself.
type SummaryFilter struct {
	sql.BaseNode
	Arg sql.ValueNode
	As  string
}

var _ sql.ValueNode = (*SummaryFilter)(nil)

// NewSummaryFilter creates a new SummaryFilter over arg.
func NewSummaryFilter(arg sql.ValueNode) *SummaryFilter {
	return &SummaryFilter{BaseNode: sql.NewBase(), Arg: arg}
}

// Children implements the Node interface.
func (s *SummaryFilter) Children() []sql.Node { return []sql.Node{s.Arg} }

// Blocks implements the Node interface.
func (s *SummaryFilter) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (s *SummaryFilter) Name() string { return s.As }

// WithName implements the ValueNode interface.
func (s *SummaryFilter) WithName(name string) sql.ValueNode {
	ns := *s
	ns.BaseNode = sql.NewBase()
	ns.As = name
	return &ns
}

// WithChildren implements the ValueNode interface.
func (s *SummaryFilter) WithChildren(children ...sql.Node) (sql.Node, error) {
	arg, err := unaryValue(s, children)
	if err != nil {
		return nil, err
	}
	ns := *s
	ns.BaseNode = sql.NewBase()
	ns.Arg = arg
	return &ns, nil
}
