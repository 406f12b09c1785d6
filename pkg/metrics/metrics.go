package metrics

import (
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/psychgraph/dsmviz/pkg/graph"
)

// Metrics holds whole-network statistics for the console report and the
// document's overview panel. Structural measures (density, clustering,
// paths) treat the multigraph as a simple undirected graph, parallel edges
// collapsed, matching how the network is laid out.
type Metrics struct {
	AvgDegree        float64        `json:"avgDegree"`
	Density          float64        `json:"density"`
	Clustering       float64        `json:"clustering"`
	Components       int            `json:"components"`
	LargestComponent int            `json:"largestComponent"`
	Connected        bool           `json:"connected"`
	AvgShortestPath  float64        `json:"avgShortestPath"` // 0 when the graph is disconnected or trivial
	CategoryEdges    map[string]int `json:"categoryEdges"`   // edges whose endpoints share a category
}

// Compute derives network metrics from the built graph. Pure read.
func Compute(g *graph.Graph) *Metrics {
	m := &Metrics{
		CategoryEdges: make(map[string]int),
	}

	n := g.NodeCount()
	if n == 0 {
		return m
	}

	// Average degree counts parallel edges; each edge contributes two endpoints.
	m.AvgDegree = float64(2*g.EdgeCount()) / float64(n)

	ug := g.Multigraph()
	simpleEdges := countDistinctEdges(ug)
	if n > 1 {
		m.Density = float64(2*simpleEdges) / float64(n*(n-1))
	}

	m.Clustering = averageClustering(g)

	components := topo.ConnectedComponents(ug)
	m.Components = len(components)
	var largest []gonumgraph.Node
	for _, c := range components {
		if len(c) > len(largest) {
			largest = c
		}
	}
	m.LargestComponent = len(largest)
	m.Connected = m.Components == 1 && n > 0

	if m.Connected && n > 1 {
		m.AvgShortestPath = averageShortestPath(ug, largest)
	}

	for _, e := range g.Edges() {
		src, _ := g.Lookup(e.Source)
		tgt, _ := g.Lookup(e.Target)
		if src != nil && tgt != nil && src.Category == tgt.Category {
			m.CategoryEdges[src.Category]++
		}
	}

	return m
}

// countDistinctEdges counts node pairs with at least one line between them
func countDistinctEdges(ug *multi.UndirectedGraph) int {
	count := 0
	it := ug.Edges()
	for it.Next() {
		count++
	}
	return count
}

// averageClustering computes the mean local clustering coefficient over all
// nodes: for each node, the fraction of neighbor pairs that are themselves
// connected. Nodes with fewer than two neighbors contribute zero.
func averageClustering(g *graph.Graph) float64 {
	ug := g.Multigraph()
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	var total float64
	for _, n := range nodes {
		id, _ := g.ID(n.Name)

		var neighbors []int64
		it := ug.From(id)
		for it.Next() {
			neighbors = append(neighbors, it.Node().ID())
		}
		k := len(neighbors)
		if k < 2 {
			continue
		}

		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if ug.HasEdgeBetween(neighbors[i], neighbors[j]) {
					links++
				}
			}
		}
		total += float64(2*links) / float64(k*(k-1))
	}

	return total / float64(len(nodes))
}

// averageShortestPath runs a BFS from every node of the component and
// averages pairwise hop distances. Quadratic, fine at this network's scale.
func averageShortestPath(ug gonumgraph.Undirected, component []gonumgraph.Node) float64 {
	n := len(component)
	if n < 2 {
		return 0
	}

	var sum, pairs float64
	for _, from := range component {
		bfs := traverse.BreadthFirst{}
		bfs.Walk(ug, from, func(node gonumgraph.Node, depth int) bool {
			if node.ID() != from.ID() {
				sum += float64(depth)
				pairs++
			}
			return false
		})
	}

	if pairs == 0 {
		return 0
	}
	return sum / pairs
}
