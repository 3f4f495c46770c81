package plan

import (
	"github.com/sqlrel/sqlrel/sql"
)

// Join is a typed join between two tables with a list of join predicates.
// Cross joins carry no predicates.
type Join struct {
	sql.BaseNode
	Type       sql.JoinType
	Left       sql.TableNode
	Right      sql.TableNode
	Predicates []sql.ValueNode
}

var _ sql.TableNode = (*Join)(nil)

// NewJoin creates a new join node.
func NewJoin(jt sql.JoinType, left, right sql.TableNode, predicates []sql.ValueNode) *Join {
	return &Join{
		BaseNode:   sql.NewBase(),
		Type:       jt,
		Left:       left,
		Right:      right,
		Predicates: predicates,
	}
}

// Children implements the Node interface.
func (j *Join) Children() []sql.Node {
	out := []sql.Node{j.Left, j.Right}
	return valuesToNodes(out, j.Predicates...)
}

// Blocks implements the Node interface.
func (*Join) Blocks() bool { return true }

// Schema implements the TableNode interface.
func (j *Join) Schema() []string {
	return append(append([]string{}, j.Left.Schema()...), j.Right.Schema()...)
}
