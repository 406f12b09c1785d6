package output

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/psychgraph/dsmviz/pkg/dataset"
	"github.com/psychgraph/dsmviz/pkg/metrics"
	"github.com/psychgraph/dsmviz/pkg/style"
)

// PrintNetworkReport prints a nicely formatted network summary with colors
func PrintNetworkReport(input string, summary *style.Summary, m *metrics.Metrics) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	blue := color.New(color.FgBlue)
	red := color.New(color.FgRed)

	bold.Println("DSM-5-TR Network Visualizer - Summary")
	bold.Println("=====================================")
	fmt.Printf("Input: %s\n", input)
	fmt.Printf("Total nodes: %d\n", summary.Nodes)
	fmt.Printf("Total edges: %d\n", summary.Edges)
	fmt.Println()

	bold.Println("CATEGORIES:")
	for _, category := range sortedCategories(summary) {
		count := summary.Categories[category]
		cyan.Printf("  %s\n", category)
		fmt.Printf("    Disorders: %d\n", count.Disorders)
		fmt.Printf("    Symptoms: %d\n", count.Symptoms)
		if intra := m.CategoryEdges[category]; intra > 0 {
			fmt.Printf("    Internal edges: %d\n", intra)
		}
	}
	fmt.Println()

	bold.Println("RELATIONSHIPS:")
	blue.Printf("  HAS_SYMPTOM: %d\n", summary.Relations[dataset.RelationshipHasSymptom])
	red.Printf("  COMORBID_WITH: %d\n", summary.Relations[dataset.RelationshipComorbidWith])
	fmt.Println()

	bold.Println("NETWORK ANALYSIS:")
	fmt.Printf("  Average degree: %.2f\n", m.AvgDegree)
	fmt.Printf("  Density: %.2f\n", m.Density)
	fmt.Printf("  Clustering coefficient: %.2f\n", m.Clustering)
	fmt.Printf("  Connected components: %d\n", m.Components)
	fmt.Printf("  Largest component: %d nodes\n", m.LargestComponent)
	if m.Connected {
		fmt.Printf("  Average shortest path: %.2f\n", m.AvgShortestPath)
	} else {
		yellow.Println("  Average shortest path: N/A (network is disconnected)")
	}

	if summary.Nodes > 0 {
		green.Printf("\n✓ Network built: %d categories across %d nodes\n",
			len(summary.Categories), summary.Nodes)
	}
}

func sortedCategories(summary *style.Summary) []string {
	categories := make([]string, 0, len(summary.Categories))
	for c := range summary.Categories {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
