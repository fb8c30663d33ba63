package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"colmto/internal/rule"
)

// Scenario is the rule section of a run configuration document. The
// surrounding scenario (network, demand, SUMO settings) belongs to the
// driver and is not parsed here.
type Scenario struct {
	Rules []rule.Config `yaml:"rules"`
}

// ParseScenario decodes a YAML scenario document.
func ParseScenario(doc []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(doc, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return s, nil
}

// LoadScenario reads and decodes a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario %q: %w", path, err)
	}
	return ParseScenario(doc)
}
