package rule

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"colmto/internal/vehicle"
)

// exprEnv declares the vehicle attributes a condition may reference. Compiling
// against it makes unknown identifiers and type mismatches construction-time
// errors.
type exprEnv struct {
	Speed           float64 `expr:"speed"`
	SpeedMax        float64 `expr:"speed_max"`
	Dissatisfaction float64 `expr:"dissatisfaction"`
	PosX            float64 `expr:"pos_x"`
	PosY            float64 `expr:"pos_y"`
	VType           string  `expr:"vtype"`
}

// Expression is a rule whose predicate is a condition string over a fixed
// vehicle attribute environment: speed, speed_max, dissatisfaction, pos_x,
// pos_y, vtype. The condition is compiled and type-checked against that
// environment at construction, so malformed conditions and unknown attribute
// names are configuration errors, not evaluation errors.
//
// Two Expression rules compare equal only when built from the same
// construction call; identical source compiled twice yields distinct rules.
type Expression struct {
	Source  string
	program *vm.Program
}

// NewExpression compiles source into an expression rule. The condition must
// evaluate to a boolean and may only reference declared attributes.
func NewExpression(source string) (Expression, error) {
	if source == "" {
		return Expression{}, fmt.Errorf("expression rule: empty condition")
	}
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return Expression{}, fmt.Errorf("expression rule: invalid condition %q: %w", source, err)
	}
	return Expression{Source: source, program: program}, nil
}

func (r Expression) AppliesTo(v *vehicle.Vehicle) bool {
	out, err := expr.Run(r.program, exprEnv{
		Speed:           v.Speed,
		SpeedMax:        v.SpeedMax,
		Dissatisfaction: v.Dissatisfaction,
		PosX:            v.Position.X,
		PosY:            v.Position.Y,
		VType:           string(v.Type),
	})
	if err != nil {
		// unreachable for a compiled bool program over the typed environment
		return false
	}
	b, ok := out.(bool)
	return ok && b
}

func (r Expression) String() string {
	return fmt.Sprintf("expression: %s", r.Source)
}
