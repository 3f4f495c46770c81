package compiler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// tableSetFormatter renders the FROM clause of a statement. Join trees are
// linearized left to right in depth-first order; only left-deep trees are
// supported, a join nested on the right side is rejected.
type tableSetFormatter struct {
	parent *Select
	ctx    *Context
	indent int

	tables     []string
	joinTypes  []string
	predicates [][]sql.ValueNode
}

func newTableSetFormatter(parent *Select) *tableSetFormatter {
	return &tableSetFormatter{
		parent: parent,
		ctx:    parent.ctx,
		indent: 2,
	}
}

func (f *tableSetFormatter) format(tableSet sql.TableNode) (string, error) {
	if j, ok := tableSet.(*plan.Join); ok {
		if err := f.walkJoinTree(j); err != nil {
			return "", err
		}
	} else {
		t, err := f.formatTable(tableSet)
		if err != nil {
			return "", err
		}
		f.tables = append(f.tables, t)
	}

	var buf bytes.Buffer
	buf.WriteString(f.tables[0])
	for i, jtype := range f.joinTypes {
		buf.WriteString("\n")
		buf.WriteString(sql.Indent(jtype+" "+f.tables[i+1], f.indent))

		preds := f.predicates[i]
		formatted := make([]string, len(preds))
		for j, pred := range preds {
			text, err := f.parent.translate(pred, false, false)
			if err != nil {
				return "", err
			}
			if len(preds) > 1 {
				text = "(" + text + ")"
			}
			formatted[j] = text
		}

		if len(formatted) > 0 {
			buf.WriteString("\n")
			conj := " AND\n" + "   "
			buf.WriteString(sql.Indent("ON "+strings.Join(formatted, conj), f.indent*2))
		}
	}
	return buf.String(), nil
}

func (f *tableSetFormatter) walkJoinTree(j *plan.Join) error {
	_, leftJoin := j.Left.(*plan.Join)
	_, rightJoin := j.Right.(*plan.Join)
	if leftJoin && rightJoin {
		return sql.ErrUnsupportedShape.New("joins with joins on both sides")
	}

	if err := f.validatePredicates(j.Predicates); err != nil {
		return err
	}

	jname, ok := f.ctx.dialect.JoinName(j.Type)
	if !ok {
		return sql.ErrUnsupportedShape.New(
			fmt.Sprintf("join type %d not supported by dialect %s", j.Type, f.ctx.dialect.Name()),
		)
	}

	if leftJoin {
		if err := f.walkJoinTree(j.Left.(*plan.Join)); err != nil {
			return err
		}
		right, err := f.formatTable(j.Right)
		if err != nil {
			return err
		}
		f.tables = append(f.tables, right)
	} else if rightJoin {
		return sql.ErrUnsupportedShape.New("joins nested on the right side")
	} else {
		left, err := f.formatTable(j.Left)
		if err != nil {
			return err
		}
		right, err := f.formatTable(j.Right)
		if err != nil {
			return err
		}
		f.tables = append(f.tables, left, right)
	}
	f.joinTypes = append(f.joinTypes, jname)
	f.predicates = append(f.predicates, j.Predicates)
	return nil
}

func (f *tableSetFormatter) validatePredicates(preds []sql.ValueNode) error {
	if f.ctx.dialect.SupportsNonEquijoin() {
		return nil
	}
	for _, pred := range preds {
		cmp, ok := pred.(*expression.Comparison)
		if !ok || !cmp.IsEquality() {
			return sql.ErrNonEquijoin.New(f.ctx.dialect.Name())
		}
	}
	return nil
}

func (f *tableSetFormatter) formatTable(t sql.TableNode) (string, error) {
	ctx := f.ctx

	refTable := t
	if ref, ok := t.(*plan.SelfReference); ok {
		refTable = ref.Table
	}

	var result string
	var isSubquery bool
	if pt, ok := refTable.(*plan.PhysicalTable); ok {
		if pt.Name == "" {
			return "", sql.ErrMissingTableName.New(pt.ID())
		}
		result = ctx.dialect.QuoteIdentifier(pt.Name)
	} else {
		if ctx.IsExtracted(refTable) {
			alias := ctx.Alias(t)
			// Self-references need the referenced table's own alias as a
			// prefix so the two sides of the self-join stay distinct.
			if _, ok := t.(*plan.SelfReference); ok {
				return ctx.Alias(refTable) + " " + alias, nil
			}
			return alias, nil
		}
		subquery, err := ctx.CompiledText(t)
		if err != nil {
			return "", err
		}
		result = "(\n" + sql.Indent(subquery, f.indent) + "\n)"
		isSubquery = true
	}

	if isSubquery || ctx.NeedAliases(t) {
		if alias := ctx.Alias(t); alias != "" {
			result += " " + alias
		}
	}
	return result, nil
}
