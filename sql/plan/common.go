package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// RootTables returns the distinct query roots of a table expression: joins
// are walked transitively, blocking nodes are roots of themselves, and
// non-blocking nodes (bare filters, limits) resolve to the roots of their
// underlying table.
func RootTables(n sql.TableNode) []sql.TableNode {
	var out []sql.TableNode
	seen := map[sql.NodeID]bool{}
	var walk func(t sql.TableNode)
	walk = func(t sql.TableNode) {
		if j, ok := t.(*Join); ok {
			walk(j.Left)
			walk(j.Right)
			return
		}
		if t.Blocks() {
			if !seen[t.ID()] {
				seen[t.ID()] = true
				out = append(out, t)
			}
			return
		}
		for _, c := range t.Children() {
			if ct, ok := c.(sql.TableNode); ok {
				walk(ct)
				return
			}
		}
	}
	walk(n)
	return out
}

// valuesToNodes widens a slice of value nodes for a Children result.
func valuesToNodes(dst []sql.Node, vs ...sql.ValueNode) []sql.Node {
	for _, v := range vs {
		dst = append(dst, v)
	}
	return dst
}
