package expression

import (
	"testing"

	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/plan"
	"github.com/stretchr/testify/require"
)

func testTable() sql.TableNode {
	return plan.NewPhysicalTable("t", []string{"a", "b", "c"})
}

func TestFlattenPredicate(t *testing.T) {
	require := require.New(t)
	table := testTable()
	a := NewTableColumn(table, "a")
	b := NewTableColumn(table, "b")
	c := NewTableColumn(table, "c")

	p1 := NewEquals(a, NewLiteral(1))
	p2 := NewGreaterThan(b, NewLiteral(2))
	p3 := NewLessThan(c, NewLiteral(3))

	flat := FlattenPredicate(NewAnd(NewAnd(p1, p2), p3))
	require.Len(flat, 3)
	require.Equal(sql.ValueNode(p1), flat[0])
	require.Equal(sql.ValueNode(p2), flat[1])
	require.Equal(sql.ValueNode(p3), flat[2])

	// Disjunctions are opaque, they stay one predicate.
	or := NewOr(p1, p2)
	flat = FlattenPredicate(NewAnd(or, p3))
	require.Len(flat, 2)
	require.Equal(sql.ValueNode(or), flat[0])
}

func TestJoinAnd(t *testing.T) {
	require := require.New(t)
	table := testTable()
	p1 := NewEquals(NewTableColumn(table, "a"), NewLiteral(1))
	p2 := NewEquals(NewTableColumn(table, "b"), NewLiteral(2))

	require.Nil(JoinAnd())
	require.Equal(sql.ValueNode(p1), JoinAnd(p1))

	joined := JoinAnd(p1, p2)
	and, ok := joined.(*And)
	require.True(ok)
	require.Equal(sql.ValueNode(p1), and.Left)
	require.Equal(sql.ValueNode(p2), and.Right)
}

func TestContainsReduction(t *testing.T) {
	require := require.New(t)
	table := testTable()
	a := NewTableColumn(table, "a")

	require.False(ContainsReduction(a))
	require.True(ContainsReduction(NewSum(a)))
	require.True(ContainsReduction(NewValueOp("add", NewSum(a), NewLiteral(1))))

	// Reductions inside a table argument do not count.
	view := NewTableArrayView(plan.NewAggregation(table, nil, []sql.ValueNode{NewSum(a)}))
	require.False(ContainsReduction(view))
}

func TestIsScalarReduction(t *testing.T) {
	require := require.New(t)
	table := testTable()
	a := NewTableColumn(table, "a")
	b := NewTableColumn(table, "b")

	require.True(IsScalarReduction(NewSum(a)))
	require.True(IsScalarReduction(NewValueOp("divide", NewSum(a), NewCount(table))))
	require.False(IsScalarReduction(a))
	// A bare column next to a reduction keeps the expression column-shaped.
	require.False(IsScalarReduction(NewValueOp("subtract", b, NewMean(b))))
}

func TestWithNameMintsNewIdentity(t *testing.T) {
	require := require.New(t)
	table := testTable()
	a := NewTableColumn(table, "a")

	named := a.WithName("x")
	require.Equal("x", named.Name())
	require.Equal("a", a.Name())
	require.NotEqual(a.ID(), named.ID())
}

func TestWithChildren(t *testing.T) {
	require := require.New(t)
	table := testTable()
	a := NewTableColumn(table, "a")
	b := NewTableColumn(table, "b")

	cmp := NewEquals(a, NewLiteral(1))
	rebuilt, err := cmp.WithChildren(a, b)
	require.NoError(err)
	require.Equal(sql.ValueNode(b), rebuilt.(*Comparison).Right)

	_, err = cmp.WithChildren(a)
	require.Error(err)
	require.True(sql.ErrInvalidChildrenNumber.Is(err))

	_, err = cmp.WithChildren(table, a)
	require.Error(err)
	require.True(sql.ErrInvalidChildType.Is(err))

	_, err = NewLiteral(1).WithChildren(a)
	require.Error(err)
	require.True(sql.ErrInvalidChildrenNumber.Is(err))
}

func TestSortKeyName(t *testing.T) {
	require := require.New(t)
	table := testTable()
	key := NewSortKey(NewTableColumn(table, "a"), false)

	require.Equal("a", key.Name())
	require.False(key.Ascending)
}
