package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with formula, dice values, operator,
// operand and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the randomness provider the Roller draws from.
func (r *Roller) Source() Source {
	return r.src
}

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.String("operator", string(result.Operator)),
		zap.Int("operand", result.Operand),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses formula and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or an error matching ErrFormat.
func (r *Roller) RollExpr(formula string) (RollResult, error) {
	e, err := Parse(formula)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// Evaluate parses and rolls formula, logging the roll and returning its total.
func (r *Roller) Evaluate(formula string) (int, error) {
	res, err := r.RollExpr(formula)
	if err != nil {
		return 0, err
	}
	return res.Total(), nil
}
