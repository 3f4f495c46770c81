package sql

import (
	"fmt"
	"hash/fnv"

	"github.com/mitchellh/hashstructure"
)

// KeyOf returns a structural key for the node: two nodes have the same key
// iff they are structurally identical trees. hashstructure walks the exported
// fields of the whole tree but ignores the concrete type of each node, so a
// recursive type walk is mixed in to keep shape-identical kinds apart.
func KeyOf(n Node) uint64 {
	h, err := hashstructure.Hash(n, nil)
	if err != nil {
		return uint64(n.ID())
	}
	return h ^ typeKey(n)
}

func typeKey(n Node) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%T", n)
	k := h.Sum64()
	for _, c := range n.Children() {
		k = k*31 + typeKey(c)
	}
	return k
}

// NodesEqual reports whether two nodes are the same node or structurally
// identical trees.
func NodesEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ID() == b.ID() {
		return true
	}
	return KeyOf(a) == KeyOf(b)
}
