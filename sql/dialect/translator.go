package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
)

// Infix binary operator symbols by ValueOp name.
var infixOps = map[string]string{
	"add":      "+",
	"subtract": "-",
	"multiply": "*",
	"divide":   "/",
	"mod":      "%",
}

// Translate implements the sql.Dialect interface.
func (d *Dialect) Translate(e sql.ValueNode, scope sql.Scope, named, permitSubquery bool) (string, error) {
	t := &translator{dialect: d, scope: scope, permitSubquery: permitSubquery}
	text, err := t.translate(e)
	if err != nil {
		return "", err
	}
	if named && needsName(e) {
		text += " AS " + d.forceQuote(e.Name())
	}
	return text, nil
}

func needsName(e sql.ValueNode) bool {
	if c, ok := e.(*expression.TableColumn); ok {
		return c.As != "" && c.As != c.Column
	}
	return e.Name() != ""
}

type translator struct {
	dialect        *Dialect
	scope          sql.Scope
	permitSubquery bool
}

func (t *translator) translate(e sql.ValueNode) (string, error) {
	switch e := e.(type) {
	case *expression.TableColumn:
		return t.tableColumn(e)
	case *expression.Literal:
		return formatLiteral(e.Value)
	case *expression.ScalarParameter:
		return ":" + e.ParamName, nil
	case *expression.ValueOp:
		return t.valueOp(e)
	case *expression.Comparison:
		return t.binaryInfix(e.Operator, e.Left, e.Right)
	case *expression.And:
		return t.binaryInfix("AND", e.Left, e.Right)
	case *expression.Or:
		return t.binaryInfix("OR", e.Left, e.Right)
	case *expression.Not:
		child, err := t.operand(e.Child)
		if err != nil {
			return "", err
		}
		return "NOT " + child, nil
	case *expression.Reduction:
		return t.reduction(e)
	case *expression.DistinctColumn:
		arg, err := t.translate(e.Arg)
		if err != nil {
			return "", err
		}
		return "DISTINCT " + arg, nil
	case *expression.ExistsSubquery:
		return t.existsSubquery(e.Foreign, e.Predicates, false)
	case *expression.NotExistsSubquery:
		return t.existsSubquery(e.Foreign, e.Predicates, true)
	case *expression.TableArrayView:
		return t.subqueryText(e.Table)
	case *expression.SortKey:
		child, err := t.translate(e.Expr)
		if err != nil {
			return "", err
		}
		if !e.Ascending {
			child += " DESC"
		}
		return child, nil
	case *expression.WindowOp:
		return t.windowOp(e)
	case *expression.ExprList:
		parts := make([]string, len(e.Exprs))
		for i, expr := range e.Exprs {
			text, err := t.translate(expr)
			if err != nil {
				return "", err
			}
			parts[i] = text
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", sql.ErrTranslation.New(fmt.Sprintf("%T", e))
	}
}

func (t *translator) tableColumn(c *expression.TableColumn) (string, error) {
	if t.permitSubquery && t.scope.IsForeign(c.Table) {
		// A column of a foreign table in filter position becomes a scalar
		// subquery projecting just that column.
		proxy := plan.NewSelection(
			c.Table,
			[]sql.ValueNode{expression.NewTableColumn(c.Table, c.Column)},
			nil, nil,
		)
		return t.subqueryText(proxy)
	}
	quoted := t.dialect.QuoteIdentifier(c.Column)
	if t.scope.NeedAliases(c.Table) {
		if alias := t.scope.Alias(c.Table); alias != "" {
			quoted = alias + "." + quoted
		}
	}
	return quoted, nil
}

func (t *translator) valueOp(v *expression.ValueOp) (string, error) {
	if op, ok := infixOps[v.Op]; ok && len(v.Args) == 2 {
		left, lok := v.Args[0].(sql.ValueNode)
		right, rok := v.Args[1].(sql.ValueNode)
		if !lok || !rok {
			return "", sql.ErrTranslation.New(v.Op)
		}
		return t.binaryInfix(op, left, right)
	}
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		value, ok := a.(sql.ValueNode)
		if !ok {
			return "", sql.ErrTranslation.New(v.Op)
		}
		text, err := t.translate(value)
		if err != nil {
			return "", err
		}
		args[i] = text
	}
	return v.Op + "(" + strings.Join(args, ", ") + ")", nil
}

func (t *translator) binaryInfix(op string, left, right sql.ValueNode) (string, error) {
	lhs, err := t.operand(left)
	if err != nil {
		return "", err
	}
	rhs, err := t.operand(right)
	if err != nil {
		return "", err
	}
	return lhs + " " + op + " " + rhs, nil
}

// operand translates a sub-expression, parenthesizing compound operands so
// the emitted text never depends on operator precedence.
func (t *translator) operand(e sql.ValueNode) (string, error) {
	text, err := t.translate(e)
	if err != nil {
		return "", err
	}
	if needsParens(e) {
		text = "(" + text + ")"
	}
	return text, nil
}

func needsParens(e sql.ValueNode) bool {
	switch e := e.(type) {
	case *expression.Comparison, *expression.And, *expression.Or:
		return true
	case *expression.ValueOp:
		_, infix := infixOps[e.Op]
		return infix && len(e.Args) == 2
	}
	return false
}

func (t *translator) reduction(r *expression.Reduction) (string, error) {
	fn := strings.ToLower(r.Fn)
	if fn == expression.MeanFn {
		fn = "avg"
	}
	var arg string
	switch a := r.Arg.(type) {
	case sql.TableNode:
		arg = "*"
	case *expression.DistinctColumn:
		text, err := t.translate(a.Arg)
		if err != nil {
			return "", err
		}
		arg = "DISTINCT " + text
	case sql.ValueNode:
		text, err := t.translate(a)
		if err != nil {
			return "", err
		}
		arg = text
	default:
		return "", sql.ErrTranslation.New(fmt.Sprintf("%T", r.Arg))
	}
	return fn + "(" + arg + ")", nil
}

func (t *translator) existsSubquery(foreign sql.TableNode, predicates []sql.ValueNode, negated bool) (string, error) {
	filtered := plan.NewSelection(
		foreign,
		[]sql.ValueNode{expression.NewLiteral(int64(1))},
		predicates, nil,
	)
	text, err := t.subqueryText(filtered)
	if err != nil {
		return "", err
	}
	if negated {
		return "NOT EXISTS " + text, nil
	}
	return "EXISTS " + text, nil
}

func (t *translator) subqueryText(table sql.TableNode) (string, error) {
	compiled, err := t.scope.CompiledText(table)
	if err != nil {
		return "", err
	}
	return "(\n" + sql.Indent(compiled, 2) + "\n)", nil
}

func (t *translator) windowOp(w *expression.WindowOp) (string, error) {
	metric, err := t.translate(w.Metric)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(w.By))
	for i, b := range w.By {
		text, err := t.translate(b)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return metric + " OVER (PARTITION BY " + strings.Join(parts, ", ") + ")", nil
}

func formatLiteral(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case string:
		return "'" + strings.Replace(x, "'", "''", -1) + "'", nil
	case float64:
		return formatFloat(x), nil
	case float32:
		return formatFloat(float64(x)), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", sql.ErrTranslation.New(fmt.Sprintf("literal %v", v))
		}
		return s, nil
	}
}

// formatFloat keeps a decimal point in the output so an exact float still
// reads as a float in SQL.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
