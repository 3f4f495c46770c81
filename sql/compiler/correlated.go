package compiler

import (
	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// lowerAnyToExists rewrites an Any or NotAny predicate into an explicit
// EXISTS or NOT EXISTS subquery node. Boolean sub-expressions are split
// into conjuncts, and the first table whose blocking base is not a root of
// the enclosing statement becomes the subquery's foreign table.
func lowerAnyToExists(e sql.ValueNode, parentTable sql.TableNode) (sql.ValueNode, error) {
	tr := &anyToExistsTransform{roots: rootSet(parentTable)}
	tr.visit(e)
	if tr.foreign == nil {
		return nil, sql.ErrInternal.New("no foreign table found in exists predicate")
	}
	if _, ok := e.(*expression.NotAny); ok {
		return expression.NewNotExistsSubquery(tr.foreign, tr.predicates), nil
	}
	return expression.NewExistsSubquery(tr.foreign, tr.predicates), nil
}

type anyToExistsTransform struct {
	roots      map[uint64]bool
	foreign    sql.TableNode
	predicates []sql.ValueNode
}

func (t *anyToExistsTransform) visit(e sql.Node) {
	for _, arg := range e.Children() {
		switch a := arg.(type) {
		case sql.TableNode:
			t.visitTable(a)
		case sql.ValueNode:
			if isBooleanValue(a) {
				for _, pred := range expression.FlattenPredicate(a) {
					t.predicates = append(t.predicates, pred)
					t.visit(pred)
				}
			} else {
				t.visit(a)
			}
		}
	}
}

func (t *anyToExistsTransform) visitTable(table sql.TableNode) {
	base := findBlockingTable(table)
	if base != nil && !t.roots[sql.KeyOf(base)] {
		t.foreign = table
	}
}

func isBooleanValue(e sql.ValueNode) bool {
	switch e.(type) {
	case *expression.Comparison, *expression.And, *expression.Or,
		*expression.Not, *expression.Any, *expression.NotAny,
		*expression.ExistsSubquery, *expression.NotExistsSubquery:
		return true
	}
	return false
}

func findBlockingTable(n sql.Node) sql.TableNode {
	if t, ok := n.(sql.TableNode); ok && t.Blocks() {
		return t
	}
	for _, c := range n.Children() {
		if t := findBlockingTable(c); t != nil {
			return t
		}
	}
	return nil
}

func rootSet(t sql.TableNode) map[uint64]bool {
	roots := map[uint64]bool{}
	for _, r := range plan.RootTables(t) {
		roots[sql.KeyOf(r)] = true
	}
	return roots
}

// correlatedRefCheck detects predicates that reference both a root of the
// enclosing statement and a foreign table from inside a subquery. Such a
// predicate forces every table reference in the statement to carry an
// alias. As a side effect, foreign tables already aliased in an ancestor
// scope get the ancestor's alias registered locally.
type correlatedRefCheck struct {
	ctx   *Context
	roots map[uint64]bool

	hasQueryRoot   bool
	hasForeignRoot bool

	visited      map[visitKey]bool
	visitedTable map[visitKey]bool
}

type visitKey struct {
	id         sql.NodeID
	inSubquery bool
}

func checkCorrelated(ctx *Context, tableSet sql.TableNode, e sql.ValueNode) bool {
	c := &correlatedRefCheck{
		ctx:          ctx,
		roots:        rootSet(tableSet),
		visited:      map[visitKey]bool{},
		visitedTable: map[visitKey]bool{},
	}
	c.visit(e, false)
	return c.hasQueryRoot && c.hasForeignRoot
}

func (c *correlatedRefCheck) visit(e sql.Node, inSubquery bool) {
	key := visitKey{e.ID(), inSubquery}
	if c.visited[key] {
		return
	}
	c.visited[key] = true

	inSubquery = inSubquery || c.isSubquery(e)

	for _, arg := range e.Children() {
		if t, ok := arg.(sql.TableNode); ok {
			c.visitTable(t, inSubquery)
		} else {
			c.visit(arg, inSubquery)
		}
	}
}

func (c *correlatedRefCheck) isSubquery(e sql.Node) bool {
	switch e := e.(type) {
	case *expression.TableArrayView, *expression.ExistsSubquery,
		*expression.NotExistsSubquery:
		return true
	case *expression.TableColumn:
		return !c.roots[sql.KeyOf(e.Table)]
	}
	return false
}

func (c *correlatedRefCheck) visitTable(t sql.TableNode, inSubquery bool) {
	key := visitKey{t.ID(), inSubquery}
	if c.visitedTable[key] {
		return
	}
	c.visitedTable[key] = true

	switch t.(type) {
	case *plan.PhysicalTable, *plan.SelfReference:
		c.refCheck(t, inSubquery)
	}

	for _, arg := range t.Children() {
		c.visit(arg, inSubquery)
	}
}

func (c *correlatedRefCheck) refCheck(t sql.TableNode, inSubquery bool) {
	isAliased := c.ctx.HasRef(t, false)
	if c.roots[sql.KeyOf(t)] {
		if inSubquery {
			c.hasQueryRoot = true
		}
		return
	}
	if inSubquery {
		c.hasForeignRoot = true
		if !isAliased && c.ctx.HasRef(t, true) {
			c.ctx.MakeAlias(t)
		}
	} else if !isAliased {
		c.ctx.MakeAlias(t)
	}
}
