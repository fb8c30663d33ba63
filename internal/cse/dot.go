package cse

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"colmto/internal/rule"
)

// DOT renders the rule set as a Graphviz digraph for inspection: the CSE at
// the root, one node per top-level rule, sub-rules attached to their
// composite with the operator on the edge.
func (c *CSE) DOT() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("cse"); err != nil {
		return "", fmt.Errorf("failed to build DOT graph: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", fmt.Errorf("failed to build DOT graph: %w", err)
	}
	if err := g.AddNode("cse", "cse", map[string]string{"shape": "box", "label": strconv.Quote("CSE")}); err != nil {
		return "", fmt.Errorf("failed to build DOT graph: %w", err)
	}

	for i, r := range c.rules {
		id := fmt.Sprintf("rule_%d", i)
		if err := g.AddNode("cse", id, map[string]string{"label": strconv.Quote(rule.Label(r))}); err != nil {
			return "", fmt.Errorf("failed to build DOT graph: %w", err)
		}
		if err := g.AddEdge("cse", id, true, nil); err != nil {
			return "", fmt.Errorf("failed to build DOT graph: %w", err)
		}

		ext, ok := r.(*rule.Extendable)
		if !ok {
			continue
		}
		operator := strconv.Quote(ext.Operator().String())
		for j, sub := range ext.Subrules() {
			subID := fmt.Sprintf("%s_sub_%d", id, j)
			if err := g.AddNode("cse", subID, map[string]string{"label": strconv.Quote(rule.Label(sub))}); err != nil {
				return "", fmt.Errorf("failed to build DOT graph: %w", err)
			}
			if err := g.AddEdge(id, subID, true, map[string]string{"label": operator}); err != nil {
				return "", fmt.Errorf("failed to build DOT graph: %w", err)
			}
		}
	}

	return g.String(), nil
}
