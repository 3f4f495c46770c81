// Package compiler turns relational expression trees into SQL text. The
// entry point is ToSQL; BuildAST exposes the intermediate statement objects
// for callers that need the result handler or multi-statement plumbing.
package compiler

import (
	"fmt"

	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// Context tracks the state of one compilation: the alias registry, the set
// of expressions promoted to WITH entries, and the memo of compiled
// subquery text. Nested scopes get a child context whose alias numbering
// continues from the whole ancestor chain.
type Context struct {
	dialect sql.Dialect
	parent  *Context
	indent  int

	tableRefs map[uint64]string

	// Extraction state and the subquery memo are shared per compilation
	// and always live on the top context.
	extracted    map[uint64]bool
	subqueryMemo map[uint64]string

	alwaysAlias bool
	query       *Select
}

var _ sql.Scope = (*Context)(nil)

// NewContext creates the root context for one compilation.
func NewContext(d sql.Dialect) *Context {
	return &Context{
		dialect:      d,
		indent:       2,
		tableRefs:    map[uint64]string{},
		extracted:    map[uint64]bool{},
		subqueryMemo: map[uint64]string{},
	}
}

// Subcontext derives a child context for a nested scope.
func (c *Context) Subcontext() *Context {
	return &Context{
		dialect:   c.dialect,
		parent:    c,
		indent:    c.indent,
		tableRefs: map[uint64]string{},
	}
}

// Dialect returns the dialect this compilation renders for.
func (c *Context) Dialect() sql.Dialect { return c.dialect }

func (c *Context) top() *Context {
	t := c
	for t.parent != nil {
		t = t.parent
	}
	return t
}

// MakeAlias assigns the next alias to the node. If an ancestor context has
// already aliased the node the ancestor's alias is reused, so correlated
// references render against the outer name. Numbering counts every alias up
// the parent chain, keeping aliases unique across nested scopes.
func (c *Context) MakeAlias(n sql.Node) {
	i := len(c.tableRefs)
	key := sql.KeyOf(n)
	for p := c.parent; p != nil; p = p.parent {
		if alias, ok := p.tableRefs[key]; ok {
			c.SetRef(n, alias)
			return
		}
		i += len(p.tableRefs)
	}
	c.SetRef(n, fmt.Sprintf("t%d", i))
}

// SetRef records an alias for the node in this context.
func (c *Context) SetRef(n sql.Node, alias string) {
	c.tableRefs[sql.KeyOf(n)] = alias
}

// Alias implements the sql.Scope interface. Extracted expressions resolve
// against the top context, where SetExtracted registered them.
func (c *Context) Alias(n sql.Node) string {
	key := sql.KeyOf(n)
	if c.IsExtracted(n) {
		return c.top().tableRefs[key]
	}
	return c.tableRefs[key]
}

// HasRef reports whether the node has an alias in this context, optionally
// searching ancestor contexts as well.
func (c *Context) HasRef(n sql.Node, searchParents bool) bool {
	key := sql.KeyOf(n)
	if _, ok := c.tableRefs[key]; ok {
		return true
	}
	if !searchParents {
		return false
	}
	for p := c.parent; p != nil; p = p.parent {
		if _, ok := p.tableRefs[key]; ok {
			return true
		}
	}
	return false
}

// NeedAliases implements the sql.Scope interface.
func (c *Context) NeedAliases(sql.Node) bool {
	return c.alwaysAlias || len(c.tableRefs) > 1
}

// SetAlwaysAlias forces an alias onto every table reference of the current
// statement. Set once a correlated subquery is found; never cleared.
func (c *Context) SetAlwaysAlias() { c.alwaysAlias = true }

// IsExtracted implements the sql.Scope interface.
func (c *Context) IsExtracted(n sql.Node) bool {
	return c.top().extracted[sql.KeyOf(n)]
}

// SetExtracted marks the node as promoted to a WITH entry and aliases it.
func (c *Context) SetExtracted(n sql.Node) {
	c.top().extracted[sql.KeyOf(n)] = true
	c.MakeAlias(n)
}

// CompiledText implements the sql.Scope interface. The node is compiled as
// a standalone statement in a child scope; results are memoized on the top
// context so repeated references compile once.
func (c *Context) CompiledText(n sql.Node) (string, error) {
	top := c.top()
	key := sql.KeyOf(n)
	if text, ok := top.subqueryMemo[key]; ok {
		return text, nil
	}
	ast, err := BuildAST(n, c.Subcontext())
	if err != nil {
		return "", err
	}
	text, err := ast.Queries[0].Compile()
	if err != nil {
		return "", err
	}
	top.subqueryMemo[key] = text
	return text, nil
}

// IsForeign implements the sql.Scope interface. A table is foreign when no
// context up the chain knows it and its roots are not all roots of the
// statement being rendered.
func (c *Context) IsForeign(n sql.Node) bool {
	if c.HasRef(n, true) {
		return false
	}
	if c.query == nil {
		return false
	}
	allowed := map[uint64]bool{}
	if c.query.TableSet != nil {
		for _, r := range plan.RootTables(c.query.TableSet) {
			allowed[sql.KeyOf(r)] = true
		}
	}
	for _, e := range c.query.SelectSet {
		for _, r := range nodeRoots(e) {
			allowed[sql.KeyOf(r)] = true
		}
	}
	for _, r := range nodeRoots(n) {
		if !allowed[sql.KeyOf(r)] {
			return true
		}
	}
	return false
}

func (c *Context) setQuery(s *Select) { c.query = s }

// nodeRoots returns the distinct query roots referenced by a node: the
// node's own roots if it is a table, otherwise the roots of every table
// reachable through its value arguments.
func nodeRoots(n sql.Node) []sql.TableNode {
	if t, ok := n.(sql.TableNode); ok {
		return plan.RootTables(t)
	}
	var out []sql.TableNode
	seen := map[sql.NodeID]bool{}
	var walk func(sql.Node)
	walk = func(m sql.Node) {
		for _, c := range m.Children() {
			if t, ok := c.(sql.TableNode); ok {
				for _, r := range plan.RootTables(t) {
					if !seen[r.ID()] {
						seen[r.ID()] = true
						out = append(out, r)
					}
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}
