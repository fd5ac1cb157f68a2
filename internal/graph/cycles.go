package graph

import "strings"

// DFS colors. White = unvisited, gray = on the current path, black = fully
// explored.
const (
	colorWhite = iota
	colorGray
	colorBlack
)

type dfsFrame struct {
	node string
	next int // index of the next outgoing edge to follow
}

// FindCircularReferences detects cycles in the directed relationship graph.
//
// Nodes are visited in model insertion order and outgoing edges in index
// insertion order, so the result is stable for a given model. An edge whose
// target is currently gray closes a cycle; the reported cycle is the path
// segment from that target back to the closing node, which is the minimal
// cycle for that back edge. Disjoint cycles are all reported; a cycle
// reachable through several entry points is reported once.
//
// Returns nil for any DAG. Implemented with an explicit frame stack so deep
// graphs cannot overflow the call stack.
func (idx *Index) FindCircularReferences() [][]string {
	color := make(map[string]int, idx.model.NodeCount())
	seen := make(map[string]bool)
	var cycles [][]string

	for _, root := range idx.model.Nodes() {
		if color[root.ID] != colorWhite {
			continue
		}
		color[root.ID] = colorGray
		stack := []dfsFrame{{node: root.ID}}
		path := []string{root.ID}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			out := idx.bySource[f.node]
			if f.next >= len(out) {
				color[f.node] = colorBlack
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}
			target := idx.edgeByID[out[f.next]].TargetID
			f.next++

			switch color[target] {
			case colorWhite:
				color[target] = colorGray
				stack = append(stack, dfsFrame{node: target})
				path = append(path, target)
			case colorGray:
				cycle := extractCycle(path, target)
				sig := cycleSignature(cycle)
				if !seen[sig] {
					seen[sig] = true
					cycles = append(cycles, cycle)
				}
			}
		}
	}
	return cycles
}

// extractCycle returns the path segment from the first occurrence of start
// through the end of the path.
func extractCycle(path []string, start string) []string {
	for i, id := range path {
		if id == start {
			cycle := make([]string, len(path)-i)
			copy(cycle, path[i:])
			return cycle
		}
	}
	// start is always on the path when its color is gray
	return []string{start}
}

// cycleSignature produces a rotation-invariant key so the same cycle found
// via different entry points dedupes to one report.
func cycleSignature(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	min := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i] < cycle[min] {
			min = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[min:]...)
	rotated = append(rotated, cycle[:min]...)
	return strings.Join(rotated, "\x00")
}
