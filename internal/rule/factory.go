package rule

import (
	"fmt"

	"colmto/internal/vehicle"
)

// Config is the declarative record the factory resolves into a rule tree.
// Sub-rule records must describe leaf rules: a sub-rule carrying its own
// subrules or operator is rejected.
type Config struct {
	Type     string         `yaml:"type"`
	Args     map[string]any `yaml:"args"`
	Operator string         `yaml:"subrule_operator,omitempty"`
	Subrules []Config       `yaml:"subrules,omitempty"`
}

type constructor func(args map[string]any) (Rule, error)

// registry maps registered rule type names to their constructors. Populated
// once at startup; concrete variants register below.
var registry = map[string]constructor{}

func register(name string, ctor constructor) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("rule: duplicate registration of %q", name))
	}
	registry[name] = ctor
}

func init() {
	register("universal", func(map[string]any) (Rule, error) { return Universal{}, nil })
	register("null", func(map[string]any) (Rule, error) { return Null{}, nil })
	register("vehicle_type", newVTypeFromArgs)
	register("minimal_speed", newMinimalSpeedFromArgs)
	register("speed", newSpeedFromArgs)
	register("position", newPositionFromArgs)
	register("dissatisfaction", newDissatisfactionFromArgs)
	register("expression", newExpressionFromArgs)
}

// New resolves cfg to a rule. When cfg carries sub-rules or an operator the
// base rule is wrapped in an Extendable composite. All malformed records fail
// here, never at evaluation time.
func New(cfg Config) (Rule, error) {
	ctor, ok := registry[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown rule type %q", cfg.Type)
	}
	base, err := ctor(cfg.Args)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", cfg.Type, err)
	}

	if len(cfg.Subrules) == 0 && cfg.Operator == "" {
		return base, nil
	}

	operator := Any
	if cfg.Operator != "" {
		operator, err = ParseOperator(cfg.Operator)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", cfg.Type, err)
		}
	}

	ext, err := NewExtendable(base, operator)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", cfg.Type, err)
	}
	for _, sub := range cfg.Subrules {
		if len(sub.Subrules) > 0 || sub.Operator != "" {
			return nil, fmt.Errorf("rule %q: sub-rule %q: %w", cfg.Type, sub.Type, ErrCompositeSubrule)
		}
		r, err := New(sub)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", cfg.Type, err)
		}
		if err := ext.AddSubrule(r); err != nil {
			return nil, fmt.Errorf("rule %q: sub-rule %q: %w", cfg.Type, sub.Type, err)
		}
	}
	return ext, nil
}

func newVTypeFromArgs(args map[string]any) (Rule, error) {
	s, err := stringArg(args, "vehicle_type")
	if err != nil {
		return nil, err
	}
	vtype, err := vehicle.ParseVehicleType(s)
	if err != nil {
		return nil, err
	}
	return VType{Type: vtype}, nil
}

func newMinimalSpeedFromArgs(args map[string]any) (Rule, error) {
	threshold, err := floatArg(args, "threshold")
	if err != nil {
		return nil, err
	}
	return MinimalSpeed{Threshold: threshold}, nil
}

func newSpeedFromArgs(args map[string]any) (Rule, error) {
	min, max, err := rangeArg(args, "range")
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, fmt.Errorf("speed range minimum %g is larger than maximum %g", min, max)
	}
	outside, err := optionalBoolArg(args, "outside")
	if err != nil {
		return nil, err
	}
	return Speed{Range: SpeedRange{Min: min, Max: max}, Outside: outside}, nil
}

func newPositionFromArgs(args map[string]any) (Rule, error) {
	p1, p2, err := bboxArg(args, "bounding_box")
	if err != nil {
		return nil, err
	}
	outside, err := optionalBoolArg(args, "outside")
	if err != nil {
		return nil, err
	}
	return Position{BBox: BoundingBox{P1: p1, P2: p2}, Outside: outside}, nil
}

func newDissatisfactionFromArgs(args map[string]any) (Rule, error) {
	min, max, err := rangeArg(args, "range")
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, fmt.Errorf("dissatisfaction range minimum %g is larger than maximum %g", min, max)
	}
	outside, err := optionalBoolArg(args, "outside")
	if err != nil {
		return nil, err
	}
	return Dissatisfaction{Range: DissatisfactionRange{Min: min, Max: max}, Outside: outside}, nil
}

func newExpressionFromArgs(args map[string]any) (Rule, error) {
	source, err := stringArg(args, "condition")
	if err != nil {
		return nil, err
	}
	return NewExpression(source)
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing %q argument", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string (got %T)", key, raw)
	}
	return s, nil
}

func floatArg(args map[string]any, key string) (float64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing %q argument", key)
	}
	f, err := asFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", key, err)
	}
	return f, nil
}

func optionalBoolArg(args map[string]any, key string) (bool, error) {
	raw, ok := args[key]
	if !ok {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("argument %q must be a boolean (got %T)", key, raw)
	}
	return b, nil
}

// rangeArg decodes a two-element [min, max] list.
func rangeArg(args map[string]any, key string) (float64, float64, error) {
	raw, ok := args[key]
	if !ok {
		return 0, 0, fmt.Errorf("missing %q argument", key)
	}
	pair, err := asFloatPair(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("argument %q: %w", key, err)
	}
	return pair[0], pair[1], nil
}

// bboxArg decodes a [[x1, y1], [x2, y2]] bounding box.
func bboxArg(args map[string]any, key string) (vehicle.Position, vehicle.Position, error) {
	raw, ok := args[key]
	if !ok {
		return vehicle.Position{}, vehicle.Position{}, fmt.Errorf("missing %q argument", key)
	}
	list, ok := raw.([]any)
	if !ok || len(list) != 2 {
		return vehicle.Position{}, vehicle.Position{}, fmt.Errorf("argument %q must be a pair of positions", key)
	}
	p1, err := asFloatPair(list[0])
	if err != nil {
		return vehicle.Position{}, vehicle.Position{}, fmt.Errorf("argument %q: %w", key, err)
	}
	p2, err := asFloatPair(list[1])
	if err != nil {
		return vehicle.Position{}, vehicle.Position{}, fmt.Errorf("argument %q: %w", key, err)
	}
	return vehicle.Position{X: p1[0], Y: p1[1]}, vehicle.Position{X: p2[0], Y: p2[1]}, nil
}

func asFloatPair(raw any) ([2]float64, error) {
	list, ok := raw.([]any)
	if !ok || len(list) != 2 {
		return [2]float64{}, fmt.Errorf("expected a pair of numbers (got %T)", raw)
	}
	var out [2]float64
	for i, item := range list {
		f, err := asFloat(item)
		if err != nil {
			return [2]float64{}, err
		}
		out[i] = f
	}
	return out, nil
}

func asFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected a number (got %T)", raw)
}
