package style

import (
	"fmt"

	"github.com/psychgraph/dsmviz/pkg/dataset"
	"github.com/psychgraph/dsmviz/pkg/graph"
)

// Node shapes are a fixed mapping, not configurable per run.
const (
	ShapeDisorder = "dot"
	ShapeSymptom  = "triangle"
)

// Edge colors and arrow styles per relationship type.
const (
	ColorHasSymptom   = "#0000FF"
	ColorComorbidWith = "#FF0000"

	ArrowsSingle = "to"
	ArrowsDouble = "to;from"
)

// Border colors distinguish node types independently of category color.
const (
	borderDisorder = "#2B7CE9"
	borderSymptom  = "#008000"
)

// NodeStyle is a fully annotated node ready for the document generator
type NodeStyle struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Type     dataset.NodeType `json:"type"`
	Category string           `json:"category"`
	Color    string           `json:"color"`
	Border   string           `json:"borderColor"`
	Shape    string           `json:"shape"`
	Size     int              `json:"size"`
	Title    string           `json:"title"`
	Hidden   bool             `json:"hidden"`
}

// EdgeStyle is a fully annotated edge ready for the document generator
type EdgeStyle struct {
	ID           string                   `json:"id"`
	From         string                   `json:"from"`
	To           string                   `json:"to"`
	Relationship dataset.RelationshipType `json:"relationship"`
	Color        string                   `json:"color"`
	Width        int                      `json:"width"`
	Arrows       string                   `json:"arrows"`
	Title        string                   `json:"title"`
	Hidden       bool                     `json:"hidden"`
}

// CategoryInfo lists the members of one category for the legend
type CategoryInfo struct {
	Disorders []string `json:"disorders"`
	Symptoms  []string `json:"symptoms"`
	Count     int      `json:"count"`
}

// Summary holds the counts reported to the console and embedded in the
// document overview.
type Summary struct {
	Nodes      int
	Edges      int
	Categories map[string]*CategoryCount
	Relations  map[dataset.RelationshipType]int
}

// CategoryCount breaks a category's node count down by type
type CategoryCount struct {
	Disorders int
	Symptoms  int
}

// Total returns the combined node count for a category
func (c *CategoryCount) Total() int { return c.Disorders + c.Symptoms }

// Annotated is the styled, frozen snapshot handed to the document generator
type Annotated struct {
	Nodes        []NodeStyle
	Edges        []EdgeStyle
	Palette      map[string]string
	CategoryInfo map[string]*CategoryInfo
	Summary      *Summary
}

// Annotate assigns colors, shapes, and tooltips to every node and edge of
// the built graph and computes the summary counts. The graph itself is not
// mutated; annotation is a pure derivation.
func Annotate(g *graph.Graph) *Annotated {
	palette := Palette(g.Categories())

	summary := &Summary{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Categories: make(map[string]*CategoryCount),
		Relations:  make(map[dataset.RelationshipType]int),
	}
	categoryInfo := make(map[string]*CategoryInfo)

	nodes := make([]NodeStyle, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		nodes = append(nodes, styleNode(n, palette[n.Category]))

		count := summary.Categories[n.Category]
		if count == nil {
			count = &CategoryCount{}
			summary.Categories[n.Category] = count
		}
		info := categoryInfo[n.Category]
		if info == nil {
			info = &CategoryInfo{}
			categoryInfo[n.Category] = info
		}
		info.Count++
		if n.Type == dataset.NodeTypeSymptom {
			count.Symptoms++
			info.Symptoms = append(info.Symptoms, n.Name)
		} else {
			count.Disorders++
			info.Disorders = append(info.Disorders, n.Name)
		}
	}

	edges := make([]EdgeStyle, 0, g.EdgeCount())
	for i, e := range g.Edges() {
		edges = append(edges, styleEdge(e, i))
		summary.Relations[e.Relationship]++
	}

	return &Annotated{
		Nodes:        nodes,
		Edges:        edges,
		Palette:      palette,
		CategoryInfo: categoryInfo,
		Summary:      summary,
	}
}

func styleNode(n *graph.Node, color string) NodeStyle {
	s := NodeStyle{
		ID:       n.Name,
		Label:    n.Name,
		Type:     n.Type,
		Category: n.Category,
		Color:    color,
		Title:    fmt.Sprintf("Category: %s (%s)", n.Category, n.Type),
	}
	if n.Type == dataset.NodeTypeSymptom {
		s.Shape = ShapeSymptom
		s.Size = 75
		s.Border = borderSymptom
	} else {
		s.Shape = ShapeDisorder
		s.Size = 80
		s.Border = borderDisorder
	}
	return s
}

// styleEdge derives the edge style. The index keeps parallel edges between
// the same pair distinguishable in the generated document.
func styleEdge(e graph.Edge, index int) EdgeStyle {
	s := EdgeStyle{
		ID:           fmt.Sprintf("%s|%s|%d", e.Source, e.Target, index),
		From:         e.Source,
		To:           e.Target,
		Relationship: e.Relationship,
		Title:        string(e.Relationship),
	}
	if e.Relationship == dataset.RelationshipComorbidWith {
		s.Color = ColorComorbidWith
		s.Width = 2
		s.Arrows = ArrowsDouble
	} else {
		s.Color = ColorHasSymptom
		s.Width = 1
		s.Arrows = ArrowsSingle
	}
	return s
}
