package graph

import (
	"fmt"

	"github.com/psychgraph/dsmviz/pkg/dataset"
	"github.com/psychgraph/dsmviz/pkg/logging"
)

// CategoryPolicy decides what happens when two rows assign different
// categories to the same node name.
type CategoryPolicy string

const (
	// PolicyFirstWins keeps the first category seen for a node. This matches
	// the source data's intent that categories are consistent per name.
	PolicyFirstWins CategoryPolicy = "first"
	// PolicyStrict fails the build on a conflicting category assignment.
	PolicyStrict CategoryPolicy = "strict"
)

// ParsePolicy converts a config string into a CategoryPolicy
func ParsePolicy(s string) (CategoryPolicy, error) {
	switch CategoryPolicy(s) {
	case PolicyFirstWins, PolicyStrict:
		return CategoryPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown category policy %q", s)
	}
}

// CategoryConflictError reports a row that assigns a different category to
// an already-known node under the strict policy.
type CategoryConflictError struct {
	Row      int
	Name     string
	Existing string
	New      string
}

func (e *CategoryConflictError) Error() string {
	return fmt.Sprintf("row %d: node %q already has category %q, got %q",
		e.Row, e.Name, e.Existing, e.New)
}

// Build constructs the multigraph from an ordered sequence of relationship
// records. All-or-nothing: any conflict under the strict policy aborts.
func Build(records []dataset.Record, policy CategoryPolicy) (*Graph, error) {
	g := New()

	for _, rec := range records {
		source := NormalizeName(rec.SourceName, rec.SourceType)
		target := NormalizeName(rec.TargetName, rec.TargetType)

		if err := resolve(g, source, rec.SourceType, rec.SourceCategory, rec.Row, policy); err != nil {
			return nil, err
		}
		if err := resolve(g, target, rec.TargetType, rec.TargetCategory, rec.Row, policy); err != nil {
			return nil, err
		}

		g.addEdge(source, target, rec.Relationship)
	}

	logging.Debug("built graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// resolve creates the node on first sight or applies the category policy on
// collision. The node's type and category never change after creation.
func resolve(g *Graph, name string, t dataset.NodeType, category string, row int, policy CategoryPolicy) error {
	existing, exists := g.Lookup(name)
	if !exists {
		g.addNode(name, t, category)
		return nil
	}

	if existing.Category == category {
		return nil
	}

	switch policy {
	case PolicyStrict:
		return &CategoryConflictError{
			Row:      row,
			Name:     name,
			Existing: existing.Category,
			New:      category,
		}
	default:
		logging.Debug("keeping first-seen category",
			"node", name, "kept", existing.Category, "ignored", category, "row", row)
		return nil
	}
}
