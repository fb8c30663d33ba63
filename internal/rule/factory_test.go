package rule

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"colmto/internal/vehicle"
)

func TestNew_LeafVariants(t *testing.T) {
	for _, tc := range []struct {
		cfg  Config
		want Rule
	}{
		{Config{Type: "universal"}, Universal{}},
		{Config{Type: "null"}, Null{}},
		{Config{Type: "vehicle_type", Args: map[string]any{"vehicle_type": "truck"}}, VType{Type: vehicle.Truck}},
		{Config{Type: "minimal_speed", Args: map[string]any{"threshold": 60}}, MinimalSpeed{Threshold: 60}},
		{
			Config{Type: "speed", Args: map[string]any{"range": []any{0, 60}, "outside": true}},
			Speed{Range: SpeedRange{Min: 0, Max: 60}, Outside: true},
		},
		{
			Config{Type: "position", Args: map[string]any{"bounding_box": []any{[]any{0.0, -1.0}, []any{100.0, 1.0}}}},
			Position{BBox: BoundingBox{P1: vehicle.Position{X: 0, Y: -1}, P2: vehicle.Position{X: 100, Y: 1}}},
		},
		{
			Config{Type: "dissatisfaction", Args: map[string]any{"range": []any{0.5, 1.0}, "outside": false}},
			Dissatisfaction{Range: DissatisfactionRange{Min: 0.5, Max: 1.0}},
		},
	} {
		got, err := New(tc.cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.cfg.Type, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %#v, got %#v", tc.cfg.Type, tc.want, got)
		}
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(Config{Type: "weather"})
	if err == nil || !strings.Contains(err.Error(), "unknown rule type") {
		t.Fatalf("expected unknown rule type error, got %v", err)
	}
}

func TestNew_MissingArgs(t *testing.T) {
	_, err := New(Config{Type: "minimal_speed"})
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected missing argument error, got %v", err)
	}
}

func TestNew_WrongArgType(t *testing.T) {
	_, err := New(Config{Type: "minimal_speed", Args: map[string]any{"threshold": "fast"}})
	if err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestNew_InvalidRanges(t *testing.T) {
	if _, err := New(Config{Type: "speed", Args: map[string]any{"range": []any{60, 0}}}); err == nil {
		t.Fatalf("expected error for inverted speed range")
	}
	if _, err := New(Config{Type: "dissatisfaction", Args: map[string]any{"range": []any{0.9, 0.1}}}); err == nil {
		t.Fatalf("expected error for inverted dissatisfaction range")
	}
}

func TestNew_CompositeFromConfig(t *testing.T) {
	r, err := New(Config{
		Type:     "position",
		Args:     map[string]any{"bounding_box": []any{[]any{0.0, -1.0}, []any{100.0, 1.0}}},
		Operator: "all",
		Subrules: []Config{
			{Type: "vehicle_type", Args: map[string]any{"vehicle_type": "tractor"}},
			{Type: "dissatisfaction", Args: map[string]any{"range": []any{0.0, 0.5}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ext, ok := r.(*Extendable)
	if !ok {
		t.Fatalf("expected an extendable rule, got %T", r)
	}
	if ext.Operator() != All {
		t.Fatalf("expected operator all, got %s", ext.Operator())
	}
	if got := len(ext.Subrules()); got != 2 {
		t.Fatalf("expected 2 sub-rules, got %d", got)
	}
	if _, ok := ext.Base().(Position); !ok {
		t.Fatalf("expected position base, got %T", ext.Base())
	}
}

func TestNew_OperatorAloneWrapsComposite(t *testing.T) {
	r, err := New(Config{Type: "universal", Operator: "any"})
	if err != nil {
		t.Fatal(err)
	}
	ext, ok := r.(*Extendable)
	if !ok {
		t.Fatalf("expected an extendable rule, got %T", r)
	}
	// empty sub-rule set: must be extended before it fires
	if ext.AppliesTo(testVehicle(vehicle.Passenger, 34)) {
		t.Fatalf("expected empty composite not to apply")
	}
}

func TestNew_RejectsNestedComposites(t *testing.T) {
	_, err := New(Config{
		Type:     "universal",
		Operator: "any",
		Subrules: []Config{
			{
				Type:     "null",
				Operator: "all",
				Subrules: []Config{{Type: "universal"}},
			},
		},
	})
	if !errors.Is(err, ErrCompositeSubrule) {
		t.Fatalf("expected ErrCompositeSubrule, got %v", err)
	}
}

func TestNew_RejectsInvalidOperatorString(t *testing.T) {
	_, err := New(Config{Type: "universal", Operator: "most"})
	if err == nil {
		t.Fatalf("expected error for invalid operator")
	}
}

func TestNew_ExpressionRule(t *testing.T) {
	r, err := New(Config{Type: "expression", Args: map[string]any{"condition": `vtype == "van" && speed_max < 30.0`}})
	if err != nil {
		t.Fatal(err)
	}

	if !r.AppliesTo(testVehicle(vehicle.Van, 25)) {
		t.Fatalf("expected expression to apply to a slow van")
	}
	if r.AppliesTo(testVehicle(vehicle.Van, 35)) {
		t.Fatalf("expected expression not to apply to a fast van")
	}
	if r.AppliesTo(testVehicle(vehicle.Passenger, 25)) {
		t.Fatalf("expected expression not to apply to a passenger car")
	}
}

func TestNew_ExpressionCompileErrors(t *testing.T) {
	if _, err := New(Config{Type: "expression", Args: map[string]any{"condition": "(("}}); err == nil {
		t.Fatalf("expected compile error for malformed condition")
	}
	if _, err := New(Config{Type: "expression", Args: map[string]any{"condition": ""}}); err == nil {
		t.Fatalf("expected error for empty condition")
	}
}

func TestNew_ExpressionRejectsUnknownAttribute(t *testing.T) {
	// a misspelled attribute must fail at construction, not degrade into a
	// never-firing rule
	_, err := New(Config{Type: "expression", Args: map[string]any{"condition": "speedmax < 30.0"}})
	if err == nil {
		t.Fatalf("expected construction error for unknown attribute")
	}

	if _, err := NewExpression(`vtype < 3`); err == nil {
		t.Fatalf("expected construction error for attribute type mismatch")
	}
}

func TestNew_FromYAMLDocument(t *testing.T) {
	doc := `
- type: minimal_speed
  args:
    threshold: 60
- type: position
  args:
    bounding_box: [[0.0, -1.0], [100.0, 1.0]]
    outside: true
  subrule_operator: any
  subrules:
    - type: vehicle_type
      args:
        vehicle_type: truck
`
	var cfgs []Config
	if err := yaml.Unmarshal([]byte(doc), &cfgs); err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(cfgs))
	}

	first, err := New(cfgs[0])
	if err != nil {
		t.Fatal(err)
	}
	if first != (MinimalSpeed{Threshold: 60}) {
		t.Fatalf("expected minimal speed rule, got %#v", first)
	}

	second, err := New(cfgs[1])
	if err != nil {
		t.Fatal(err)
	}
	ext, ok := second.(*Extendable)
	if !ok {
		t.Fatalf("expected an extendable rule, got %T", second)
	}
	pos, ok := ext.Base().(Position)
	if !ok || !pos.Outside {
		t.Fatalf("expected outside position base, got %#v", ext.Base())
	}
}
