package compiler

import (
	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// extractSubqueries finds derived tables that occur more than once in the
// statement, structurally, and returns them as candidates for promotion to
// a WITH clause. The walk observes tables in post-order, so candidates come
// back innermost-first and each entry only references ones defined before
// it.
func extractSubqueries(tableSet sql.TableNode, filters []sql.ValueNode) []sql.TableNode {
	x := &subqueryExtractor{
		counts: map[uint64]int{},
		first:  map[uint64]sql.TableNode{},
	}
	if tableSet != nil {
		x.visitTable(tableSet)
	}
	for _, f := range filters {
		x.visitValue(f)
	}

	var out []sql.TableNode
	for _, key := range x.order {
		if x.counts[key] > 1 {
			out = append(out, x.first[key])
		}
	}
	return out
}

type subqueryExtractor struct {
	counts map[uint64]int
	order  []uint64
	first  map[uint64]sql.TableNode
}

func (x *subqueryExtractor) observe(t sql.TableNode) {
	key := sql.KeyOf(t)
	if x.counts[key] == 0 {
		x.order = append(x.order, key)
		x.first[key] = t
	}
	x.counts[key]++
}

func (x *subqueryExtractor) visitTable(t sql.TableNode) {
	switch t := t.(type) {
	case *plan.PhysicalTable:
		// Base tables are never extracted.
	case *plan.Join:
		x.visitTable(t.Left)
		x.visitTable(t.Right)
	default:
		for _, c := range t.Children() {
			if ct, ok := c.(sql.TableNode); ok {
				x.visitTable(ct)
			}
		}
		x.observe(t)
	}
}

func (x *subqueryExtractor) visitValue(v sql.Node) {
	switch e := v.(type) {
	case *expression.TableColumn:
		// The column's table is the statement's own table set, not a
		// distinct subquery occurrence.
	case *expression.TableArrayView:
		x.visitTable(e.Table)
	case *expression.ExistsSubquery:
		x.visitTable(e.Foreign)
		for _, p := range e.Predicates {
			x.visitValue(p)
		}
	case *expression.NotExistsSubquery:
		x.visitTable(e.Foreign)
		for _, p := range e.Predicates {
			x.visitValue(p)
		}
	default:
		for _, c := range v.Children() {
			if _, ok := c.(sql.TableNode); ok {
				continue
			}
			x.visitValue(c)
		}
	}
}
