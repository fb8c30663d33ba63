package app

import (
	"fmt"

	"colmto/internal/config"
	"colmto/internal/cse"
	"colmto/internal/rule"
	"colmto/internal/vehicle"
)

// Cache memoises parsed rule records per scenario document.
type Cache interface {
	GetOrCompute(doc string, fn func() ([]rule.Config, error)) ([]rule.Config, error)
}

// Service ties scenario parsing, the rule factory and the CSE together: one
// scenario document in, a ready decision engine out. Parsing is cached per
// document; the rules themselves are built fresh for every engine, so
// extending one engine's composites never leaks into engines built later
// from the same document.
type Service struct {
	cache Cache
	opts  []cse.Option
}

func NewService(cache Cache, opts ...cse.Option) *Service {
	return &Service{cache: cache, opts: opts}
}

// Engine returns a CSE holding a freshly built rule set for the given
// scenario document.
func (s *Service) Engine(scenarioDoc string) (*cse.CSE, error) {
	if scenarioDoc == "" {
		return nil, fmt.Errorf("scenario document is required")
	}

	cfgs, err := s.cache.GetOrCompute(scenarioDoc, func() ([]rule.Config, error) {
		scenario, err := config.ParseScenario([]byte(scenarioDoc))
		if err != nil {
			return nil, err
		}
		return scenario.Rules, nil
	})
	if err != nil {
		return nil, err
	}

	engine := cse.New(s.opts...)
	if err := engine.AddRulesFromConfig(cfgs); err != nil {
		return nil, err
	}
	return engine, nil
}

// Decide evaluates all vehicles against the scenario's rule set, mutating
// each vehicle's access class.
func (s *Service) Decide(scenarioDoc string, vehicles []*vehicle.Vehicle) error {
	engine, err := s.Engine(scenarioDoc)
	if err != nil {
		return err
	}
	engine.Apply(vehicles)
	return nil
}
