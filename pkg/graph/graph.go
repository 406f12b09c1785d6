package graph

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/multi"

	"github.com/psychgraph/dsmviz/pkg/dataset"
)

// SymptomPrefix is the literal prefix stripped from symptom names. The
// stripped form is the node's identity everywhere downstream.
const SymptomPrefix = "SYM_"

// Node represents a disorder or symptom in the network
type Node struct {
	Name     string // normalized identity (symptom prefix stripped)
	Type     dataset.NodeType
	Category string
}

// Edge represents one relationship between two nodes. Duplicate rows yield
// parallel edges; they are never merged.
type Edge struct {
	Source       string
	Target       string
	Relationship dataset.RelationshipType
}

// Graph is the disorder/symptom multigraph. It wraps a gonum undirected
// multigraph for structural queries and keeps string-identity maps plus
// insertion order so output is deterministic across runs.
type Graph struct {
	g     *multi.UndirectedGraph
	nodes map[string]*Node
	ids   map[string]int64
	names map[int64]string
	order []string
	edges []Edge
}

// New creates a new empty graph
func New() *Graph {
	return &Graph{
		g:     multi.NewUndirectedGraph(),
		nodes: make(map[string]*Node),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
}

// NormalizeName strips the symptom prefix for symptom nodes. Disorder names
// pass through untouched even if they happen to start with the prefix.
func NormalizeName(name string, t dataset.NodeType) string {
	if t == dataset.NodeTypeSymptom {
		return strings.TrimPrefix(name, SymptomPrefix)
	}
	return name
}

// addNode registers a node if its identity is new and returns the stored
// node. The category decision on collision is the builder's job; addNode
// never overwrites.
func (g *Graph) addNode(name string, t dataset.NodeType, category string) *Node {
	if n, exists := g.nodes[name]; exists {
		return n
	}

	gn := g.g.NewNode()
	g.g.AddNode(gn)

	n := &Node{Name: name, Type: t, Category: category}
	g.nodes[name] = n
	g.ids[name] = gn.ID()
	g.names[gn.ID()] = name
	g.order = append(g.order, name)
	return n
}

// addEdge appends one relationship as a parallel line in the multigraph
func (g *Graph) addEdge(source, target string, rel dataset.RelationshipType) {
	line := g.g.NewLine(g.g.Node(g.ids[source]), g.g.Node(g.ids[target]))
	g.g.SetLine(line)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Relationship: rel})
}

// Lookup returns a node by normalized identity
func (g *Graph) Lookup(name string) (*Node, bool) {
	n, exists := g.nodes[name]
	return n, exists
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		nodes = append(nodes, g.nodes[name])
	}
	return nodes
}

// Edges returns all edges in input order, duplicates included
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// NodeCount returns the number of distinct node identities
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting parallels
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the number of edge endpoints touching the named node,
// counting parallel edges and treating all relationships as undirected.
func (g *Graph) Degree(name string) int {
	degree := 0
	for _, e := range g.edges {
		if e.Source == name {
			degree++
		}
		if e.Target == name {
			degree++
		}
	}
	return degree
}

// Neighbors returns the distinct nodes adjacent to name, in a stable order
func (g *Graph) Neighbors(name string) []string {
	id, exists := g.ids[name]
	if !exists {
		return nil
	}

	var neighbors []string
	it := g.g.From(id)
	for it.Next() {
		neighbors = append(neighbors, g.names[it.Node().ID()])
	}
	sort.Strings(neighbors)
	return neighbors
}

// Categories returns the distinct category labels in sorted order
func (g *Graph) Categories() []string {
	seen := make(map[string]bool)
	for _, n := range g.nodes {
		seen[n.Category] = true
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Multigraph exposes the underlying gonum graph for structural analysis
func (g *Graph) Multigraph() *multi.UndirectedGraph { return g.g }

// NameByID maps a gonum node ID back to the node identity
func (g *Graph) NameByID(id int64) string { return g.names[id] }

// ID maps a node identity to its gonum node ID
func (g *Graph) ID(name string) (int64, bool) {
	id, exists := g.ids[name]
	return id, exists
}
