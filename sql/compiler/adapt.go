package compiler

import (
	"fmt"

	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// adaptNode turns an arbitrary expression into something a select
// statement can be built from, together with a handler that maps the raw
// result set back to the shape the caller asked for: a table stays a
// table, a column becomes a projection with a column handler, a scalar
// reduction becomes a whole-table aggregation with a scalar handler.
func adaptNode(n sql.Node) (sql.Node, sql.ResultHandler, error) {
	if t, ok := n.(sql.TableNode); ok {
		return t, identityHandler, nil
	}

	v, ok := n.(sql.ValueNode)
	if !ok {
		return nil, nil, sql.ErrTranslation.New(fmt.Sprintf("cannot compile %T", n))
	}

	switch e := v.(type) {
	case *expression.ExprList:
		return adaptExprList(e)
	case *expression.TableColumn:
		table := plan.NewSelection(e.Table, []sql.ValueNode{e}, nil, nil)
		return table, columnHandler(e.Name()), nil
	case *expression.DistinctColumn:
		name := e.Name()
		if name == "" {
			name = "tmp"
		}
		base := sql.FindBaseTable(e)
		if base == nil {
			return nil, nil, sql.ErrTranslation.New("distinct column references no table")
		}
		proj := plan.NewSelection(base, []sql.ValueNode{e.Arg.WithName(name)}, nil, nil)
		return plan.NewDistinct(proj), columnHandler(name), nil
	case *expression.ScalarParameter:
		return e, scalarHandler(e.Name()), nil
	case *expression.WindowOp:
		metric := e.Metric
		if e.As != "" {
			metric = metric.WithName(e.As)
		}
		return plan.NewAggregation(e.Table, e.By, []sql.ValueNode{metric}), identityHandler, nil
	case *expression.TopK:
		return adaptTopK(e)
	}

	if expression.IsScalarReduction(v) {
		agg, name, err := reductionToAggregation(v)
		if err != nil {
			return nil, nil, err
		}
		return agg, scalarHandler(name), nil
	}

	base := sql.FindBaseTable(v)
	if base == nil {
		// A constant expression; selected with no FROM clause.
		if v.Name() != "" {
			return v, scalarHandler(v.Name()), nil
		}
		return v.WithName("tmp"), scalarHandler("tmp"), nil
	}

	name := v.Name()
	if name == "" {
		name = "tmp"
		v = v.WithName(name)
	}
	return plan.NewSelection(base, []sql.ValueNode{v}, nil, nil), columnHandler(name), nil
}

// adaptTopK turns a standalone top-k into the ranked aggregation that the
// summary filter rewrite joins against: group by the argument, order by the
// metric descending, keep the first k groups.
func adaptTopK(t *expression.TopK) (sql.Node, sql.ResultHandler, error) {
	base := sql.FindBaseTable(t.Arg)
	if base == nil {
		return nil, nil, sql.ErrTranslation.New("top-k argument references no table")
	}
	metric := t.By
	if metric == nil {
		metric = expression.NewCount(base).WithName("count")
	}
	rank := plan.NewAggregation(base, []sql.ValueNode{t.Arg}, []sql.ValueNode{metric})
	rank.SortKeys = []sql.ValueNode{expression.NewSortKey(metric, false)}
	return plan.NewLimit(t.K, 0, rank), identityHandler, nil
}

func adaptExprList(list *expression.ExprList) (sql.Node, sql.ResultHandler, error) {
	allReductions := true
	anyReduction := false
	for _, e := range list.Exprs {
		if expression.IsScalarReduction(e) {
			anyReduction = true
		} else {
			allReductions = false
		}
	}

	switch {
	case len(list.Exprs) > 0 && allReductions:
		base := sql.FindBaseTable(list)
		if base == nil {
			return nil, nil, sql.ErrTranslation.New("reduction list references no table")
		}
		return plan.NewAggregation(base, nil, list.Exprs), identityHandler, nil
	case !anyReduction:
		return list, identityHandler, nil
	default:
		return nil, nil, sql.ErrTranslation.New(
			"expression list mixes reductions and non-reductions")
	}
}

// reductionToAggregation wraps a scalar reduction in a whole-table
// aggregation over its base table, naming it "tmp" if it is unnamed.
func reductionToAggregation(e sql.ValueNode) (sql.TableNode, string, error) {
	name := e.Name()
	if name == "" {
		name = "tmp"
		e = e.WithName(name)
	}
	base := sql.FindBaseTable(e)
	if base == nil {
		return nil, "", sql.ErrInternal.New("reduction references no table")
	}
	return plan.NewAggregation(base, nil, []sql.ValueNode{e}), name, nil
}

func identityHandler(r sql.Result) (interface{}, error) {
	return r, nil
}

func columnHandler(name string) sql.ResultHandler {
	return func(r sql.Result) (interface{}, error) {
		return r.Column(name)
	}
}

func scalarHandler(name string) sql.ResultHandler {
	return func(r sql.Result) (interface{}, error) {
		col, err := r.Column(name)
		if err != nil {
			return nil, err
		}
		if len(col) == 0 {
			return nil, sql.ErrInternal.New("empty result for scalar query")
		}
		return col[0], nil
	}
}
