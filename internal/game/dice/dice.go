// Package dice parses and evaluates the dice formulas stored on class,
// armor and weapon records, e.g. "3d6+2" or "d4*10".
package dice

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every error reporting a formula that does not fit
// the dice grammar.
var ErrFormat = errors.New("dice: malformed formula")

// FormatError describes why a formula was rejected.
type FormatError struct {
	Formula string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dice: malformed formula %q: %s", e.Formula, e.Reason)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Operator is the arithmetic applied between the dice sum and the operand.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSub      Operator = "-"
	OpMul      Operator = "*"
	OpFloorDiv Operator = "//"
)

// Apply evaluates roll <op> operand. An unknown or empty operator adds.
//
// Precondition: operand != 0 when o is OpFloorDiv.
func (o Operator) Apply(roll, operand int) int {
	switch o {
	case OpSub:
		return roll - operand
	case OpMul:
		return roll * operand
	case OpFloorDiv:
		return floorDiv(roll, operand)
	default:
		return roll + operand
	}
}

// floorDiv rounds toward negative infinity, unlike Go's truncating division.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// RollResult holds the full audit trail for a single formula evaluation.
//
// Postcondition: Total() == Operator.Apply(sum(Dice), Operand).
type RollResult struct {
	Expression string // original formula, e.g. "2d6+3"
	Dice       []int  // individual die results
	Operator   Operator
	Operand    int
}

// Sum returns the sum of all die results before the operator is applied.
func (r RollResult) Sum() int {
	sum := 0
	for _, d := range r.Dice {
		sum += d
	}
	return sum
}

// Total returns the dice sum combined with the operand.
func (r RollResult) Total() int {
	return r.Operator.Apply(r.Sum(), r.Operand)
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	op := r.Operator
	if op == "" {
		op = OpAdd
	}
	return fmt.Sprintf("%s → %v %s%d = %d", r.Expression, r.Dice, op, r.Operand, r.Total())
}

// Source is the randomness provider for dice rolls and catalogue picks.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
