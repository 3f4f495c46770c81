package sql

// JoinType is the kind of a join node.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullOuterJoin
	LeftSemiJoin
	LeftAntiJoin
	CrossJoin
)

// Scope is the view a translator has of the query context it is rendering
// into: alias lookups, extraction state and nested compilation.
type Scope interface {
	// Alias returns the alias assigned to the node, or the empty string.
	Alias(n Node) string
	// NeedAliases reports whether table references in the current
	// statement must carry an alias.
	NeedAliases(n Node) bool
	// IsExtracted reports whether the node has been promoted to a WITH
	// entry in this compilation.
	IsExtracted(n Node) bool
	// CompiledText compiles the node as a standalone statement in a child
	// scope, memoizing the result.
	CompiledText(n Node) (string, error)
	// IsForeign reports whether the table node belongs to a scope other
	// than the statement currently being rendered.
	IsForeign(n Node) bool
}

// Dialect supplies the per-dialect pieces of SQL generation: identifier
// quoting, join keywords, and the operator translator. The core invokes it
// and surfaces any translation failure verbatim.
type Dialect interface {
	// Name identifies the dialect.
	Name() string
	// QuoteIdentifier quotes the name if required by the dialect.
	QuoteIdentifier(name string) string
	// JoinName returns the keyword for the join type, and whether the
	// dialect can render it.
	JoinName(jt JoinType) (string, bool)
	// SupportsNonEquijoin reports whether non-equality join predicates are
	// allowed.
	SupportsNonEquijoin() bool
	// Translate renders a value expression as a SQL fragment. When named
	// is set the projection name is appended as an AS clause; when
	// permitSubquery is set foreign column references may be rendered as
	// scalar subqueries.
	Translate(e ValueNode, scope Scope, named, permitSubquery bool) (string, error)
}
