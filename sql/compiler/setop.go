package compiler

import (
	"strings"

	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// SetOp is a flattened set operation statement: an ordered list of arms
// with one keyword between each pair. Arms promoted to a WITH entry render
// as a select over their alias; the rest render as full statements.
type SetOp struct {
	ctx      *Context
	table    sql.TableNode
	arms     []sql.TableNode
	keywords []string

	subqueries []sql.TableNode
}

var _ Statement = (*SetOp)(nil)

func newUnion(ctx *Context, table sql.TableNode) (*SetOp, error) {
	arms, distincts := flattenUnion(table)
	if len(arms) < 2 || len(arms) != len(distincts)+1 {
		return nil, sql.ErrInvalidSetOp.New("malformed union expression")
	}
	keywords := make([]string, len(distincts))
	for i, d := range distincts {
		if d {
			keywords[i] = "UNION"
		} else {
			keywords[i] = "UNION ALL"
		}
	}
	return &SetOp{ctx: ctx, table: table, arms: arms, keywords: keywords}, nil
}

func newIntersection(ctx *Context, table sql.TableNode) (*SetOp, error) {
	arms := flattenIntersection(table)
	if len(arms) < 2 {
		return nil, sql.ErrInvalidSetOp.New("malformed intersection expression")
	}
	keywords := make([]string, len(arms)-1)
	for i := range keywords {
		keywords[i] = "INTERSECT"
	}
	return &SetOp{ctx: ctx, table: table, arms: arms, keywords: keywords}, nil
}

func newDifference(ctx *Context, table sql.TableNode) (*SetOp, error) {
	arms := flattenDifference(table)
	if len(arms) < 2 {
		return nil, sql.ErrInvalidSetOp.New("malformed difference expression")
	}
	keywords := make([]string, len(arms)-1)
	for i := range keywords {
		keywords[i] = "EXCEPT"
	}
	return &SetOp{ctx: ctx, table: table, arms: arms, keywords: keywords}, nil
}

// Compile implements the Statement interface.
func (s *SetOp) Compile() (string, error) {
	s.extractSubqueries()

	var parts []string
	with, err := s.formatSubqueries()
	if err != nil {
		return "", err
	}
	if with != "" {
		parts = append(parts, with)
	}
	for i, arm := range s.arms {
		if i > 0 {
			parts = append(parts, s.keywords[i-1])
		}
		rel, err := s.formatRelation(arm)
		if err != nil {
			return "", err
		}
		parts = append(parts, rel)
	}
	return strings.Join(parts, "\n"), nil
}

func (s *SetOp) extractSubqueries() {
	s.subqueries = extractSubqueries(s.table, nil)
	for _, sub := range s.subqueries {
		s.ctx.SetExtracted(sub)
	}
}

func (s *SetOp) formatSubqueries() (string, error) {
	if len(s.subqueries) == 0 {
		return "", nil
	}
	entries := make([]string, len(s.subqueries))
	for i, sub := range s.subqueries {
		compiled, err := s.ctx.CompiledText(sub)
		if err != nil {
			return "", err
		}
		entries[i] = s.ctx.Alias(sub) + " AS (\n" + sql.Indent(compiled, 2) + "\n)"
	}
	return "WITH " + strings.Join(entries, ",\n"), nil
}

func (s *SetOp) formatRelation(arm sql.TableNode) (string, error) {
	if alias := s.ctx.Alias(arm); alias != "" {
		return "SELECT *\nFROM " + alias, nil
	}
	return s.ctx.CompiledText(arm)
}

// flattenUnion splits a union tree into its arms and the distinct flag of
// each union in left to right order.
func flattenUnion(t sql.TableNode) ([]sql.TableNode, []bool) {
	if u, ok := t.(*plan.Union); ok {
		leftArms, leftDistincts := flattenUnion(u.Left)
		rightArms, rightDistincts := flattenUnion(u.Right)
		arms := append(leftArms, rightArms...)
		distincts := append(append(leftDistincts, u.Distinct), rightDistincts...)
		return arms, distincts
	}
	return []sql.TableNode{t}, nil
}

// flattenIntersection splits only the top intersection node; nested set
// operations in the arms stay intact and render as subqueries.
func flattenIntersection(t sql.TableNode) []sql.TableNode {
	if i, ok := t.(*plan.Intersection); ok {
		return []sql.TableNode{i.Left, i.Right}
	}
	return []sql.TableNode{t}
}

// flattenDifference splits only the top difference node: difference is not
// associative, so deeper flattening would change its meaning.
func flattenDifference(t sql.TableNode) []sql.TableNode {
	if d, ok := t.(*plan.Difference); ok {
		return []sql.TableNode{d.Left, d.Right}
	}
	return []sql.TableNode{t}
}
