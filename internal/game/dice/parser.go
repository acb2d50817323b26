package dice

import (
	"regexp"
	"strconv"
)

// Formula bounds. MaxCount*MaxSides stays below math.MaxInt32 and the largest
// result, MaxCount*MaxSides*MaxOperand, fits in a 64-bit int.
const (
	MaxCount   = 1000
	MaxSides   = 1_000_000
	MaxOperand = 1_000_000
)

var formulaRe = regexp.MustCompile(`^(\d*)[dD](\d+)(\+|-|\*|//|/)?(\d*)$`)

// Expression represents a parsed dice formula ready to be rolled.
// Invariant: Count >= 1, Sides >= 1, Operand != 0 when Operator is OpFloorDiv.
type Expression struct {
	Raw      string   // original input string
	Count    int      // number of dice
	Sides    int      // faces per die
	Operator Operator // OpAdd when the formula has no operator
	Operand  int      // 0 when the formula has no operator
}

// Min returns the smallest value the expression can produce.
func (e Expression) Min() int {
	return e.Operator.Apply(e.Count, e.Operand)
}

// Max returns the largest value the expression can produce.
func (e Expression) Max() int {
	return e.Operator.Apply(e.Count*e.Sides, e.Operand)
}

// Parse parses a dice formula into an Expression.
// Supported forms: "d6", "3d6", "3d6+2", "2d4-1", "d4*10", "2d6//2".
// "/" is accepted as floor division. An operator without an operand is a
// passthrough: "3d6+" and "3d6*" both roll plain 3d6. The whole string must
// match; surrounding whitespace is rejected with a *FormatError.
//
// Postcondition: Returns a valid Expression or an error matching ErrFormat.
func Parse(formula string) (Expression, error) {
	if formula == "" {
		return Expression{}, &FormatError{Formula: formula, Reason: "empty formula"}
	}

	m := formulaRe.FindStringSubmatch(formula)
	if m == nil {
		return Expression{}, &FormatError{Formula: formula, Reason: "does not match [count]d<sides>[op operand]"}
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Expression{}, &FormatError{Formula: formula, Reason: "invalid die count: " + err.Error()}
		}
		count = n
	}
	if count < 1 || count > MaxCount {
		return Expression{}, &FormatError{Formula: formula, Reason: "die count must be in [1, " + strconv.Itoa(MaxCount) + "]"}
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Expression{}, &FormatError{Formula: formula, Reason: "invalid die sides: " + err.Error()}
	}
	if sides < 1 || sides > MaxSides {
		return Expression{}, &FormatError{Formula: formula, Reason: "die sides must be in [1, " + strconv.Itoa(MaxSides) + "]"}
	}

	op := OpAdd
	operand := 0
	if m[3] != "" && m[4] != "" {
		op = Operator(m[3])
		if op == "/" {
			op = OpFloorDiv
		}
		operand, err = strconv.Atoi(m[4])
		if err != nil || operand > MaxOperand {
			return Expression{}, &FormatError{Formula: formula, Reason: "operand must be in [0, " + strconv.Itoa(MaxOperand) + "]"}
		}
		if op == OpFloorDiv && operand == 0 {
			return Expression{}, &FormatError{Formula: formula, Reason: "division by zero"}
		}
	}

	return Expression{
		Raw:      formula,
		Count:    count,
		Sides:    sides,
		Operator: op,
		Operand:  operand,
	}, nil
}

// Valid reports whether formula parses.
func Valid(formula string) bool {
	_, err := Parse(formula)
	return err == nil
}

// MustParse parses formula and panics on error. Useful for package-level constants.
//
// Precondition: formula must be a valid dice formula.
func MustParse(formula string) Expression {
	e, err := Parse(formula)
	if err != nil {
		panic("dice: MustParse failed for formula " + formula + ": " + err.Error())
	}
	return e
}
