package syntax

// NotAnOperator is the precedence reported for tokens which are not infix
// operators.
const NotAnOperator = -1

// OperatorTable maps operator token kinds to their binary precedence.  All
// binary operators are left-associative.  The table is mutated as programs
// define their own binary operators so the grammar accepted by the parser grows
// over the course of a session.
type OperatorTable struct {
	precs map[int]int
}

// NewOperatorTable creates a new operator table seeded with the built-in
// operators.  Division and the comparison operators other than `<` are valid
// operator tokens but have no built-in precedence: they must be defined as
// binary operators before they can be used infix.
func NewOperatorTable() *OperatorTable {
	return &OperatorTable{
		precs: map[int]int{
			TOK_LT:    10,
			TOK_PLUS:  20,
			TOK_MINUS: 20,
			TOK_STAR:  40,
		},
	}
}

// PrecedenceOf returns the precedence of the token kind or NotAnOperator if the
// token kind has no positive precedence.
func (ot *OperatorTable) PrecedenceOf(kind int) int {
	if prec, ok := ot.precs[kind]; ok && prec > 0 {
		return prec
	}

	return NotAnOperator
}

// Lookup returns the raw table entry for the token kind.
func (ot *OperatorTable) Lookup(kind int) (int, bool) {
	prec, ok := ot.precs[kind]
	return prec, ok
}

// SetPrecedence sets the precedence of the token kind.
func (ot *OperatorTable) SetPrecedence(kind, prec int) {
	ot.precs[kind] = prec
}

// Remove removes the token kind from the table.
func (ot *OperatorTable) Remove(kind int) {
	delete(ot.precs, kind)
}

// -----------------------------------------------------------------------------

// IsUnaryOperator returns whether the token kind may be defined as a unary
// operator.
func IsUnaryOperator(kind int) bool {
	switch kind {
	case TOK_NOT, TOK_MINUS:
		return true
	}

	return false
}

// IsBinaryOperator returns whether the token kind may be defined as a binary
// operator.
func IsBinaryOperator(kind int) bool {
	switch kind {
	case TOK_ASSIGN, TOK_EQ, TOK_NEQ, TOK_LT, TOK_GT, TOK_LTEQ, TOK_GTEQ,
		TOK_COLON, TOK_LAND, TOK_LOR, TOK_PLUS, TOK_MINUS, TOK_STAR, TOK_DIV:
		return true
	}

	return false
}
