package graph

// Tracker answers derived dependency queries over a relationship index:
// direct and transitive dependencies, reverse impact sets, shortest paths,
// and chain depth. It holds no state of its own beyond the index, so a
// tracker is valid for as long as its index is.
type Tracker struct {
	index *Index
}

// NewTracker wraps an index in a dependency-query view.
func NewTracker(idx *Index) *Tracker {
	return &Tracker{index: idx}
}

// Dependencies returns the distinct direct successors of id, in edge
// insertion order.
func (t *Tracker) Dependencies(id string) []string {
	return distinctTargets(t.index.Outgoing(id), func(e Relationship) string { return e.TargetID })
}

// Dependents returns the distinct direct predecessors of id, in edge
// insertion order.
func (t *Tracker) Dependents(id string) []string {
	return distinctTargets(t.index.Incoming(id), func(e Relationship) string { return e.SourceID })
}

func distinctTargets(edges []Relationship, pick func(Relationship) string) []string {
	if len(edges) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(edges))
	var out []string
	for _, e := range edges {
		id := pick(e)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// AllDependencies returns the transitive forward closure of id via BFS,
// excluding id itself, in traversal order. maxDepth <= 0 means unbounded;
// cycles terminate through the visited set either way.
func (t *Tracker) AllDependencies(id string, maxDepth int) []string {
	return t.closure(id, maxDepth, t.Dependencies)
}

// ImpactedBy returns the transitive reverse closure of id: every node that
// directly or indirectly depends on it. Same traversal rules as
// AllDependencies.
func (t *Tracker) ImpactedBy(id string, maxDepth int) []string {
	return t.closure(id, maxDepth, t.Dependents)
}

func (t *Tracker) closure(id string, maxDepth int, step func(string) []string) []string {
	type item struct {
		id    string
		depth int
	}
	visited := map[string]bool{id: true}
	queue := []item{{id: id, depth: 0}}
	var out []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}
		for _, next := range step(cur.id) {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, item{id: next, depth: cur.depth + 1})
		}
	}
	return out
}

// Path returns the shortest path from a to b by edge count, ties broken by
// edge insertion order. Returns nil if b is unreachable from a. A path from
// a node to itself is the single-element path.
func (t *Tracker) Path(a, b string) []string {
	if a == b {
		return []string{a}
	}
	parent := map[string]string{a: ""}
	queue := []string{a}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range t.index.Outgoing(cur) {
			next := e.TargetID
			if _, visited := parent[next]; visited {
				continue
			}
			parent[next] = cur
			if next == b {
				return buildPath(parent, a, b)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func buildPath(parent map[string]string, a, b string) []string {
	var rev []string
	for cur := b; cur != ""; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == a {
			break
		}
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// Depth returns the longest forward chain length from id, counted in edges.
// A node with no outgoing edges has depth 0. Edges that would re-enter the
// current chain are skipped, so cyclic graphs get the longest acyclic chain
// instead of diverging.
//
// Memoized iterative DFS: each node's depth is computed once, then reused
// by every chain passing through it.
func (t *Tracker) Depth(id string) int {
	memo := make(map[string]int)
	onPath := make(map[string]bool)

	var stack []dfsFrame
	push := func(node string) {
		onPath[node] = true
		stack = append(stack, dfsFrame{node: node})
	}
	push(id)

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		out := t.index.Outgoing(f.node)
		if f.next < len(out) {
			next := out[f.next].TargetID
			f.next++
			if _, done := memo[next]; done || onPath[next] {
				continue
			}
			push(next)
			continue
		}
		// All non-cycle successors are memoized by now. Back edges into
		// the current chain are skipped: they cannot extend an acyclic
		// chain.
		best := 0
		for _, e := range out {
			if d, ok := memo[e.TargetID]; ok && d+1 > best {
				best = d + 1
			}
		}
		memo[f.node] = best
		delete(onPath, f.node)
		stack = stack[:len(stack)-1]
	}
	return memo[id]
}
