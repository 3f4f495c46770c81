package compiler

import (
	"fmt"
	"os"

	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
)

const debugCompilerKey = "DEBUG_COMPILER"

const histogramEps = 1e-13

// SelectBuilder transforms one expression tree into a Select statement:
// it adapts non-table expressions to a well formed table query, collects
// the statement elements from the tree, rewrites select and filter
// expressions that have no direct SQL rendering, extracts repeated
// subqueries and populates the context's alias registry.
type SelectBuilder struct {
	ctx     *Context
	node    sql.Node
	handler sql.ResultHandler

	tableSet  sql.TableNode
	selectSet []sql.Node
	groupBy   []int
	having    []sql.ValueNode
	filters   []sql.ValueNode
	limit     *LimitSpec
	sortBy    []sql.ValueNode
	distinct  bool

	subqueries []sql.TableNode

	collected map[sql.NodeID]bool
	queries   []*Select

	// Debug prints the analysis steps. It is activated by setting the
	// DEBUG_COMPILER environment variable.
	Debug bool
}

// NewSelectBuilder creates a builder for the given expression in the given
// context.
func NewSelectBuilder(node sql.Node, ctx *Context) (*SelectBuilder, error) {
	adapted, handler, err := adaptNode(node)
	if err != nil {
		return nil, err
	}
	return &SelectBuilder{
		ctx:       ctx,
		node:      adapted,
		handler:   handler,
		collected: map[sql.NodeID]bool{},
		Debug:     os.Getenv(debugCompilerKey) != "",
	}, nil
}

// Log prints an INFO message to the log if the builder is in debug mode.
func (b *SelectBuilder) Log(msg string, args ...interface{}) {
	if b.Debug {
		logrus.Infof(msg, args...)
	}
}

// Statement runs the analysis passes and returns the resulting Select.
// Repeated calls return the same statement.
func (b *SelectBuilder) Statement() (*Select, error) {
	if len(b.queries) > 0 {
		return b.queries[0], nil
	}

	if err := b.collectElements(); err != nil {
		return nil, err
	}
	if err := b.analyzeSelectExprs(); err != nil {
		return nil, err
	}
	if err := b.analyzeFilterExprs(); err != nil {
		return nil, err
	}
	b.analyzeSubqueries()
	b.populateContext()

	s := &Select{
		ctx:           b.ctx,
		TableSet:      b.tableSet,
		SelectSet:     b.selectSet,
		Subqueries:    b.subqueries,
		Where:         b.filters,
		GroupBy:       b.groupBy,
		Having:        b.having,
		OrderBy:       b.sortBy,
		Limit:         b.limit,
		Distinct:      b.distinct,
		ResultHandler: b.handler,
		indent:        b.ctx.indent,
	}
	b.queries = append(b.queries, s)
	return s, nil
}

// --------------------------------------------------------------------
// Element collection

func (b *SelectBuilder) collectElements() error {
	if t, ok := b.node.(sql.TableNode); ok {
		if err := b.collect(t, true); err != nil {
			return err
		}
		if b.tableSet == nil {
			return sql.ErrInternal.New("no table set found")
		}
		return nil
	}
	// Value expressions with no table dependency.
	if list, ok := b.node.(*expression.ExprList); ok {
		for _, e := range list.Exprs {
			b.selectSet = append(b.selectSet, e)
		}
		return nil
	}
	b.selectSet = []sql.Node{b.node}
	return nil
}

func (b *SelectBuilder) collect(t sql.TableNode, toplevel bool) error {
	if b.collected[t.ID()] {
		return nil
	}

	switch n := t.(type) {
	case *plan.Distinct:
		if toplevel {
			b.distinct = true
		}
		if err := b.collect(n.Child, toplevel); err != nil {
			return err
		}
	case *plan.Limit:
		if !toplevel {
			return nil
		}
		// Inner limits are overridden by the outermost one.
		if b.limit == nil {
			b.limit = &LimitSpec{Count: n.Count, Offset: n.Offset}
		}
		if err := b.collect(n.Child, toplevel); err != nil {
			return err
		}
	case *plan.Union, *plan.Intersection, *plan.Difference:
		if toplevel {
			return sql.ErrUnsupportedShape.New("set operation inside a select")
		}
	case *plan.Aggregation:
		if toplevel {
			b.groupBy = make([]int, len(n.By))
			for i := range n.By {
				b.groupBy[i] = i
			}
			b.having = n.Having
			b.selectSet = nil
			b.selectSet = valuesToSelect(b.selectSet, n.By)
			b.selectSet = valuesToSelect(b.selectSet, n.Metrics)
			b.tableSet = n.Table
			b.filters = n.Predicates
			b.sortBy = append([]sql.ValueNode(nil), n.SortKeys...)
			if err := b.collect(n.Table, false); err != nil {
				return err
			}
		}
	case *plan.Selection:
		if toplevel {
			b.Log("collecting selection over %T", n.Table)
			if join, ok := n.Table.(*plan.Join); ok {
				if _, err := b.collectJoin(join, false); err != nil {
					return err
				}
			} else {
				if err := b.collect(n.Table, false); err != nil {
					return err
				}
			}

			selections := valuesToSelect(nil, n.Projections)
			if len(selections) == 0 {
				selections = []sql.Node{n.Table}
			}
			b.sortBy = append([]sql.ValueNode(nil), n.SortKeys...)
			b.selectSet = selections
			b.tableSet = n.Table
			b.filters = append([]sql.ValueNode(nil), n.Filters...)
		}
	case *plan.Join:
		if _, err := b.collectJoin(n, toplevel); err != nil {
			return err
		}
	case *plan.PhysicalTable:
		if toplevel {
			b.selectSet = []sql.Node{n}
			b.tableSet = n
		}
	case *plan.SelfReference:
		if toplevel {
			if err := b.collect(n.Table, toplevel); err != nil {
				return err
			}
		}
	default:
		return sql.ErrUnsupportedShape.New(fmt.Sprintf("cannot collect %T", t))
	}

	b.collected[t.ID()] = true
	return nil
}

// collectJoin records the join as the table set and walks its member
// tables. When any two members are non-blocking variants of the same
// relation, fusing them into one statement would conflate their columns,
// so the walk stops and each member renders as an inline view instead.
func (b *SelectBuilder) collectJoin(j *plan.Join, toplevel bool) (bool, error) {
	if toplevel {
		b.tableSet = j
		b.selectSet = []sql.Node{j}
	}

	subtables := joinSubtables(j)
	canSubstitute := allDistinctRoots(subtables)
	if canSubstitute {
		for _, t := range subtables {
			if err := b.collect(t, false); err != nil {
				return false, err
			}
		}
	}
	return canSubstitute, nil
}

// joinSubtables flattens a join tree into its member tables, left to
// right in depth-first order.
func joinSubtables(j *plan.Join) []sql.TableNode {
	var out []sql.TableNode
	seen := map[sql.NodeID]bool{}

	stack := []sql.TableNode{j}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[t.ID()] {
			continue
		}
		seen[t.ID()] = true

		if join, ok := t.(*plan.Join); ok {
			stack = append(stack, join.Right, join.Left)
		} else {
			out = append(out, t)
		}
	}
	return out
}

func blockingBase(t sql.TableNode) sql.TableNode {
	if t.Blocks() {
		return t
	}
	for _, c := range t.Children() {
		if ct, ok := c.(sql.TableNode); ok {
			return blockingBase(ct)
		}
	}
	return nil
}

func allDistinctRoots(subtables []sql.TableNode) bool {
	var bases []sql.TableNode
	for _, t := range subtables {
		base := blockingBase(t)
		for _, other := range bases {
			if sql.NodesEqual(base, other) {
				return false
			}
		}
		bases = append(bases, base)
	}
	return true
}

// --------------------------------------------------------------------
// Select expression analysis

func (b *SelectBuilder) analyzeSelectExprs() error {
	for i, e := range b.selectSet {
		v, ok := e.(sql.ValueNode)
		if !ok {
			continue
		}
		rewritten, err := b.visitSelectExpr(v)
		if err != nil {
			return err
		}
		b.selectSet[i] = rewritten
	}
	return nil
}

func (b *SelectBuilder) visitSelectExpr(e sql.ValueNode) (sql.ValueNode, error) {
	if h, ok := e.(*expression.Histogram); ok {
		return b.rewriteHistogram(h)
	}

	children := e.Children()
	newChildren := make([]sql.Node, len(children))
	changed := false
	for i, c := range children {
		v, ok := c.(sql.ValueNode)
		if !ok {
			newChildren[i] = c
			continue
		}
		rewritten, err := b.visitSelectExpr(v)
		if err != nil {
			return nil, err
		}
		if rewritten != v {
			changed = true
		}
		newChildren[i] = rewritten
	}
	if !changed {
		return e, nil
	}
	rebuilt, err := e.WithChildren(newChildren...)
	if err != nil {
		return nil, err
	}
	return rebuilt.(sql.ValueNode), nil
}

// rewriteHistogram turns a histogram into a bucket index expression. When
// the bin width or base is unknown a min/max scan of the table set is
// cross joined in, and the bucket bounds are computed from its columns.
func (b *SelectBuilder) rewriteHistogram(h *expression.Histogram) (sql.ValueNode, error) {
	var base, binWidth sql.ValueNode

	if h.BinWidth == nil || h.Base == nil {
		auxHash := h.AuxHash
		if auxHash == "" {
			auxHash = uuid.NewV4().String()[:6]
		}
		minName := "min_" + auxHash
		maxName := "max_" + auxHash

		minmax := plan.NewAggregation(b.tableSet, nil, []sql.ValueNode{
			expression.NewMin(h.Arg).WithName(minName),
			expression.NewMax(h.Arg).WithName(maxName),
		})
		b.Log("histogram rewrite: cross joining min/max scan %s", auxHash)
		b.tableSet = plan.NewJoin(sql.CrossJoin, b.tableSet, minmax, nil)

		if h.Base != nil {
			base = expression.NewLiteral(*h.Base)
		} else {
			// Subtracting a tiny epsilon keeps the minimum value out of
			// bucket -1.
			base = expression.NewValueOp("subtract",
				expression.NewTableColumn(minmax, minName),
				expression.NewLiteral(histogramEps),
			)
		}
		binWidth = expression.NewValueOp("divide",
			expression.NewValueOp("subtract",
				expression.NewTableColumn(minmax, maxName), base),
			expression.NewLiteral(h.Nbins-1),
		)
	} else {
		base = expression.NewLiteral(*h.Base)
		binWidth = expression.NewLiteral(*h.BinWidth)
	}

	bucket := expression.NewValueOp("floor",
		expression.NewValueOp("divide",
			expression.NewValueOp("subtract", h.Arg, base),
			binWidth,
		),
	)
	if h.As == "" {
		return bucket, nil
	}
	return bucket.WithName(h.As), nil
}

// --------------------------------------------------------------------
// Filter analysis

func (b *SelectBuilder) analyzeFilterExprs() error {
	var newWhere []sql.ValueNode
	for _, e := range b.filters {
		rewritten, err := b.visitFilter(e)
		if err != nil {
			return err
		}
		// A rewrite may consume the predicate entirely, e.g. a summary
		// filter that became a semi join.
		if rewritten != nil {
			newWhere = append(newWhere, rewritten)
		}
	}
	b.filters = newWhere
	return nil
}

func (b *SelectBuilder) visitFilter(e sql.ValueNode) (sql.ValueNode, error) {
	switch e := e.(type) {
	case *expression.Any, *expression.NotAny:
		return lowerAnyToExists(e, b.tableSet)
	case *expression.SummaryFilter:
		return nil, b.rewriteSummaryFilter(e)
	case *expression.TableColumn, *expression.Literal,
		*expression.ExistsSubquery, *expression.NotExistsSubquery:
		return e, nil
	}

	if expression.IsScalarReduction(e) {
		return b.rewriteReductionFilter(e)
	}

	children := e.Children()
	newChildren := make([]sql.Node, len(children))
	changed := false
	for i, c := range children {
		v, ok := c.(sql.ValueNode)
		if !ok {
			newChildren[i] = c
			continue
		}
		rewritten, err := b.visitFilter(v)
		if err != nil {
			return nil, err
		}
		if rewritten == nil {
			return nil, sql.ErrUnsupportedShape.New(
				fmt.Sprintf("summary filter nested inside %T", e))
		}
		if rewritten != v {
			changed = true
		}
		newChildren[i] = rewritten
	}
	if !changed {
		return e, nil
	}
	rebuilt, err := e.WithChildren(newChildren...)
	if err != nil {
		return nil, err
	}
	return rebuilt.(sql.ValueNode), nil
}

// rewriteReductionFilter wraps a scalar reduction in a one-row aggregation
// subquery so it can appear where SQL expects a scalar.
func (b *SelectBuilder) rewriteReductionFilter(e sql.ValueNode) (sql.ValueNode, error) {
	agg, _, err := reductionToAggregation(e)
	if err != nil {
		return nil, err
	}
	return expression.NewTableArrayView(agg), nil
}

// rewriteSummaryFilter replaces the table set with a left semi join
// against the top ranked groups of the summary's argument.
func (b *SelectBuilder) rewriteSummaryFilter(sf *expression.SummaryFilter) error {
	topk, ok := sf.Arg.(*expression.TopK)
	if !ok {
		return sql.ErrUnsupportedShape.New(
			fmt.Sprintf("summary filter over %T", sf.Arg))
	}

	arg := topk.Arg
	metric := topk.By
	if metric == nil {
		base := sql.FindBaseTable(arg)
		if base == nil {
			return sql.ErrInternal.New("top-k argument references no table")
		}
		metric = expression.NewCount(base).WithName("__tmp__")
	} else if metric.Name() == "" {
		metric = metric.WithName("__tmp__")
	}

	rank := plan.NewAggregation(b.tableSet, []sql.ValueNode{arg}, []sql.ValueNode{metric})
	rank.SortKeys = []sql.ValueNode{expression.NewSortKey(metric, false)}
	rankSet := plan.NewLimit(topk.K, 0, rank)

	pred := expression.NewEquals(arg, expression.NewTableColumn(rankSet, arg.Name()))
	b.Log("summary filter rewrite: semi joining top %d of %s", topk.K, arg.Name())
	b.tableSet = plan.NewJoin(sql.LeftSemiJoin, b.tableSet, rankSet, []sql.ValueNode{pred})
	return nil
}

// --------------------------------------------------------------------
// Subquery extraction and aliasing

func (b *SelectBuilder) analyzeSubqueries() {
	b.subqueries = nil
	for _, sub := range extractSubqueries(b.tableSet, b.filters) {
		// May have been extracted already by an enclosing compilation.
		if !b.ctx.IsExtracted(sub) {
			b.subqueries = append(b.subqueries, sub)
			b.ctx.SetExtracted(sub)
		}
	}
}

func (b *SelectBuilder) populateContext() {
	if b.tableSet != nil {
		b.makeTableAliases(b.tableSet)
	}

	// Correlated subqueries inside the filters require an explicit alias
	// on every table reference of the statement.
	for _, f := range b.filters {
		if checkCorrelated(b.ctx, b.tableSet, f) {
			b.Log("correlated predicate found, forcing aliases")
			b.ctx.SetAlwaysAlias()
		}
	}
}

func (b *SelectBuilder) makeTableAliases(t sql.TableNode) {
	if j, ok := t.(*plan.Join); ok {
		b.makeTableAliases(j.Left)
		b.makeTableAliases(j.Right)
		return
	}
	if !b.ctx.IsExtracted(t) {
		b.ctx.MakeAlias(t)
		return
	}
	// An extracted subquery keeps the alias of its WITH entry, propagated
	// from the top context so child scopes see it too.
	b.ctx.SetRef(t, b.ctx.top().tableRefs[sql.KeyOf(t)])
}

func valuesToSelect(dst []sql.Node, vs []sql.ValueNode) []sql.Node {
	for _, v := range vs {
		dst = append(dst, v)
	}
	return dst
}
