package sql

import (
	"strings"
	"sync/atomic"
)

// NodeID identifies an expression node within a process. Every node is
// assigned one at construction time, and all memoization caches key on it
// instead of pointer identity.
type NodeID uint64

var nodeCounter uint64

// Node is a single node of a relational expression tree. Nodes are immutable
// once constructed.
type Node interface {
	// ID returns the stable identity minted when the node was constructed.
	ID() NodeID
	// Children returns the direct expression arguments of the node,
	// flattened into a single slice.
	Children() []Node
	// Blocks reports whether the node is a relational boundary: tree
	// walking for table-set purposes stops here and treats the node as an
	// opaque unit.
	Blocks() bool
}

// TableNode is a node producing a relation.
type TableNode interface {
	Node
	// Schema returns the output column names of the relation.
	Schema() []string
}

// ValueNode is a node producing a scalar or column value.
type ValueNode interface {
	Node
	// Name returns the projection name of the value, or the empty string
	// if it is unnamed.
	Name() string
	// WithName returns a copy of the node carrying the given projection
	// name.
	WithName(name string) ValueNode
	// WithChildren returns a copy of the node with the given children. The
	// number and positions of the children must match Children.
	WithChildren(children ...Node) (Node, error)
}

// BaseNode carries the identity shared by every node implementation.
type BaseNode struct {
	id NodeID
}

// NewBase mints a BaseNode with a fresh identity.
func NewBase() BaseNode {
	return BaseNode{id: NodeID(atomic.AddUint64(&nodeCounter, 1))}
}

// ID implements the Node interface.
func (b BaseNode) ID() NodeID { return b.id }

// FindBaseTable returns the first table node reachable from the given node in
// depth-first order, or nil if the expression references no table.
func FindBaseTable(n Node) TableNode {
	if t, ok := n.(TableNode); ok {
		return t
	}
	for _, c := range n.Children() {
		if t := FindBaseTable(c); t != nil {
			return t
		}
	}
	return nil
}

// Indent prefixes every non-empty line of s with the given number of spaces.
func Indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
