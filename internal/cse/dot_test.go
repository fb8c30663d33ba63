package cse

import (
	"strings"
	"testing"

	"colmto/internal/rule"
	"colmto/internal/vehicle"
)

func TestDOT_RendersRuleSet(t *testing.T) {
	engine := New()
	if err := engine.AddRule(rule.VType{Type: vehicle.Truck}); err != nil {
		t.Fatal(err)
	}

	ext, err := rule.NewExtendable(rule.Universal{}, rule.All)
	if err != nil {
		t.Fatal(err)
	}
	if err := ext.AddSubrule(rule.MinimalSpeed{Threshold: 60}); err != nil {
		t.Fatal(err)
	}
	if err := engine.AddRule(ext); err != nil {
		t.Fatal(err)
	}

	dot, err := engine.DOT()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"digraph cse",
		"cse->rule_0",
		"cse->rule_1",
		"rule_1->rule_1_sub_0",
		"vehicle_type: truck",
		"minimal_speed",
		`"all"`,
	} {
		if !strings.Contains(dot, want) {
			t.Fatalf("expected DOT output to contain %q, got:\n%s", want, dot)
		}
	}
}

func TestDOT_EmptyRuleSet(t *testing.T) {
	dot, err := New().DOT()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "cse") {
		t.Fatalf("expected the CSE root node, got:\n%s", dot)
	}
}
