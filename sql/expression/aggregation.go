package expression

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Reduction function names.
const (
	CountFn = "count"
	SumFn   = "sum"
	MeanFn  = "mean"
	MinFn   = "min"
	MaxFn   = "max"
)

// Reduction collapses a column, or a whole table for count, into a single
// scalar value. Arg is a ValueNode for column reductions and a TableNode
// for table counts.
type Reduction struct {
	sql.BaseNode
	Fn  string
	Arg sql.Node
	As  string
}

var _ sql.ValueNode = (*Reduction)(nil)

// NewReduction creates a new Reduction applying fn to arg.
func NewReduction(fn string, arg sql.Node) *Reduction {
	return &Reduction{BaseNode: sql.NewBase(), Fn: fn, Arg: arg}
}

// NewCount creates a count reduction of arg.
func NewCount(arg sql.Node) *Reduction { return NewReduction(CountFn, arg) }

// NewSum creates a sum reduction of arg.
func NewSum(arg sql.Node) *Reduction { return NewReduction(SumFn, arg) }

// NewMean creates a mean reduction of arg.
func NewMean(arg sql.Node) *Reduction { return NewReduction(MeanFn, arg) }

// NewMin creates a min reduction of arg.
func NewMin(arg sql.Node) *Reduction { return NewReduction(MinFn, arg) }

// NewMax creates a max reduction of arg.
func NewMax(arg sql.Node) *Reduction { return NewReduction(MaxFn, arg) }

// Children implements the Node interface.
func (r *Reduction) Children() []sql.Node { return []sql.Node{r.Arg} }

// Blocks implements the Node interface.
func (r *Reduction) Blocks() bool { return false }

// Name implements the ValueNode interface.
func (r *Reduction) Name() string { return r.As }

// WithName implements the ValueNode interface.
func (r *Reduction) WithName(name string) sql.ValueNode {
	nr := *r
	nr.BaseNode = sql.NewBase()
	nr.As = name
	return &nr
}

// WithChildren implements the ValueNode interface.
func (r *Reduction) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(r, len(children), 1)
	}
	nr := *r
	nr.BaseNode = sql.NewBase()
	nr.Arg = children[0]
	return &nr, nil
}

// ContainsReduction reports whether any reduction appears in the value
// expression.
func ContainsReduction(e sql.Node) bool {
	if _, ok := e.(*Reduction); ok {
		return true
	}
	if _, ok := e.(sql.TableNode); ok {
		return false
	}
	for _, c := range e.Children() {
		if ContainsReduction(c) {
			return true
		}
	}
	return false
}

// IsScalarReduction reports whether the expression collapses to a single
// scalar: it contains at least one reduction and every column reference
// sits beneath one.
func IsScalarReduction(e sql.ValueNode) bool {
	return ContainsReduction(e) && !hasBareColumn(e)
}

func hasBareColumn(e sql.Node) bool {
	switch e.(type) {
	case *Reduction, sql.TableNode:
		return false
	case *TableColumn:
		return true
	}
	for _, c := range e.Children() {
		if hasBareColumn(c) {
			return true
		}
	}
	return false
}
