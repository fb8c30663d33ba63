// Package cse implements the central control entity: the decision engine
// that holds the top-level rule set and grants or denies each vehicle access
// to the overtaking lane.
package cse

import (
	"time"

	"colmto/internal/rule"
	"colmto/internal/vehicle"
)

// DecisionObserver receives one event per evaluated vehicle.
type DecisionObserver interface {
	ObserveDecision(vehicleID string, class vehicle.AccessClass, duration time.Duration)
}

// CSE holds the rule set and applies it to vehicles. Rules are kept in
// insertion order and evaluated in that order; the first applying rule
// determines the outcome, which makes ties between overlapping rules
// deterministic. The rule set must be fully assembled before evaluation
// starts and is read-only during Apply calls.
type CSE struct {
	rules    []rule.Rule
	index    map[rule.Rule]struct{}
	observer DecisionObserver
}

type Option func(*CSE)

func WithDecisionObserver(observer DecisionObserver) Option {
	return func(c *CSE) {
		c.observer = observer
	}
}

func New(opts ...Option) *CSE {
	c := &CSE{index: map[rule.Rule]struct{}{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddRule appends r to the rule set. Adding an equal rule twice is a no-op
// (set semantics); nil rules are rejected.
func (c *CSE) AddRule(r rule.Rule) error {
	if r == nil {
		return rule.ErrNilRule
	}
	if _, ok := c.index[r]; ok {
		return nil
	}
	c.index[r] = struct{}{}
	c.rules = append(c.rules, r)
	return nil
}

// AddRules appends rules in order, stopping at the first failure.
func (c *CSE) AddRules(rules []rule.Rule) error {
	for _, r := range rules {
		if err := c.AddRule(r); err != nil {
			return err
		}
	}
	return nil
}

// AddRulesFromConfig resolves declarative records through the rule factory
// and appends the resulting rules in document order.
func (c *CSE) AddRulesFromConfig(cfgs []rule.Config) error {
	for _, cfg := range cfgs {
		r, err := rule.New(cfg)
		if err != nil {
			return err
		}
		if err := c.AddRule(r); err != nil {
			return err
		}
	}
	return nil
}

// Rules returns the rule set in insertion order.
func (c *CSE) Rules() []rule.Rule {
	out := make([]rule.Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// ApplyOne evaluates the rule set against v and overwrites its access class:
// the first rule that applies denies access to the overtaking lane, and a
// vehicle no rule applies to is allowed. Only the vehicle's access class is
// mutated.
func (c *CSE) ApplyOne(v *vehicle.Vehicle) *CSE {
	start := time.Now()
	class := vehicle.Allow
	for _, r := range c.rules {
		if r.AppliesTo(v) {
			class = vehicle.Deny
			break
		}
	}
	v.AccessClass = class
	if c.observer != nil {
		c.observer.ObserveDecision(v.ID, class, time.Since(start))
	}
	return c
}

// Apply evaluates every vehicle in the slice. Decisions are independent per
// vehicle; no ordering between vehicles is guaranteed or needed.
func (c *CSE) Apply(vehicles []*vehicle.Vehicle) *CSE {
	for _, v := range vehicles {
		c.ApplyOne(v)
	}
	return c
}

// ApplyMap evaluates every vehicle in an id-keyed map.
func (c *CSE) ApplyMap(vehicles map[string]*vehicle.Vehicle) *CSE {
	for _, v := range vehicles {
		c.ApplyOne(v)
	}
	return c
}
