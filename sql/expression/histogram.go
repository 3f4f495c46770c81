package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Histogram buckets a numeric column into bins. Exactly one of Nbins or
// BinWidth must be set; Base, when nil, defaults to the column minimum.
// AuxHash carries the unique suffix used to name the helper columns of
// the min/max scan the compiler generates for it.
type Histogram struct {
	sql.BaseNode
	Arg      sql.ValueNode
	Nbins    int64
	BinWidth *float64
	Base     *float64
	AuxHash  string
	As       string
}

var _ sql.ValueNode = (*Histogram)(nil)

// NewHistogram creates a new Histogram of arg with a fixed bin count.
func NewHistogram(arg sql.ValueNode, nbins int64) *Histogram {
	return &Histogram{BaseNode: sql.NewBase(), Arg: arg, Nbins: nbins}
}

// Children implements the Node interface.
func (h *Histogram) Children() []sql.Node { return []sql.Node{h.Arg} }

// Blocks implements the Node interface.
func (h *Histogram) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (h *Histogram) Name() string { return h.As }

// WithName implements the ValueNode interface.
func (h *Histogram) WithName(name string) sql.ValueNode {
	nh := *h
	nh.BaseNode = sql.NewBase()
	nh.As = name
	return &nh
}

// WithChildren implements the ValueNode interface.
func (h *Histogram) WithChildren(children ...sql.Node) (sql.Node, error) {
	arg, err := unaryValue(h, children)
	if err != nil {
		return nil, err
	}
	nh := *h
	nh.BaseNode = sql.NewBase()
	nh.Arg = arg
	return &nh, nil
}
