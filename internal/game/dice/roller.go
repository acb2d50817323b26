package dice

// Roll evaluates an Expression using the given Source. Every call draws
// fresh values.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and
// result.Total() is in [expr.Min(), expr.Max()].
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Operator:   expr.Operator,
		Operand:    expr.Operand,
	}
}

// RollExpr parses formula and rolls it using src in a single call.
//
// Postcondition: Returns a RollResult or an error matching ErrFormat.
func RollExpr(formula string, src Source) (RollResult, error) {
	e, err := Parse(formula)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// Evaluate parses and rolls formula, returning only the total.
func Evaluate(formula string, src Source) (int, error) {
	r, err := RollExpr(formula, src)
	if err != nil {
		return 0, err
	}
	return r.Total(), nil
}
