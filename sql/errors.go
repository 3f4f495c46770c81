package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrUnsupportedShape is returned when the expression tree has a shape
	// this compiler cannot render, such as a join whose right operand is
	// itself a join. It indicates the producing front end emitted a tree
	// outside the supported subset, never a transient condition.
	ErrUnsupportedShape = errors.NewKind("unsupported expression shape: %s")

	// ErrNonEquijoin is returned when a join predicate is not an equality
	// comparison and the active dialect does not support non-equijoins.
	ErrNonEquijoin = errors.NewKind("non-equality join predicates, i.e. non-equijoins, are not supported by dialect %s")

	// ErrMissingTableName is returned when a physical table reference has
	// no name at the point a FROM fragment must be rendered.
	ErrMissingTableName = errors.NewKind("table did not have a name: %v")

	// ErrInternal is returned when the compiler reaches an inconsistent
	// state, e.g. a table-bound expression with no table set populated.
	ErrInternal = errors.NewKind("internal error: %s")

	// ErrTranslation is returned when an expression cannot be rendered by
	// the active translator. Callers may probe for this kind to implement
	// a "can this expression be compiled" check.
	ErrTranslation = errors.NewKind("cannot translate expression: %s")

	// ErrInvalidSetOp is returned when a union, intersection or difference
	// chain flattens to a malformed operand list.
	ErrInvalidSetOp = errors.NewKind("invalid set operation: %s")

	// ErrInvalidChildrenNumber is returned when the WithChildren method of
	// a node is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrInvalidChildType is returned when the WithChildren method of a
	// node is called with an invalid child type.
	ErrInvalidChildType = errors.NewKind("%T: invalid child type, got %T")

	// ErrColumnNotFound is returned when a result handler asks for a
	// column the result set does not contain.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in the result")
)
