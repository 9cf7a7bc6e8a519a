// Package dag holds the dependency-graph topology used by the builder:
// module ids as vertices, "must be computed before" relations as edges.
// Primary-input wiring and auxiliary links both contribute edges.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph over integer module ids.
type Graph struct {
	nodes      map[int]bool
	dependents map[int][]int
	indegree   map[int]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[int]bool),
		dependents: make(map[int][]int),
		indegree:   make(map[int]int),
	}
}

// AddNode registers id as a vertex. Adding an existing id does nothing.
func (g *Graph) AddNode(id int) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
}

// AddEdge records that `to` must be computed after `from`. Self-referential
// edges and edges touching unknown ids are rejected.
func (g *Graph) AddEdge(from, to int) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %d -> %d", from, to)
	}
	if !g.nodes[from] {
		return fmt.Errorf("source node not found: %d", from)
	}
	if !g.nodes[to] {
		return fmt.Errorf("destination node not found: %d", to)
	}
	g.dependents[from] = append(g.dependents[from], to)
	g.indegree[to]++
	return nil
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.nodes) }

// TopoSort returns a topological order of all vertices using Kahn's
// algorithm, breaking ties by ascending id so identical graphs always order
// identically. When no complete order exists the graph is cyclic and the
// error names the ids stuck on the cycle.
func (g *Graph) TopoSort() ([]int, error) {
	indegree := make(map[int]int, len(g.nodes))
	var ready []int
	for id := range g.nodes {
		indegree[id] = g.indegree[id]
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Ints(ready)

	order := make([]int, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		released := make([]int, 0, len(g.dependents[id]))
		for _, dep := range g.dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				released = append(released, dep)
			}
		}
		// Keep the candidate list sorted so ties always resolve to the
		// smallest id.
		sort.Ints(released)
		ready = merge(ready, released)
	}

	if len(order) != len(g.nodes) {
		var stuck []int
		for id := range g.nodes {
			if indegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Ints(stuck)
		return nil, fmt.Errorf("cycle detected involving modules %v", stuck)
	}
	return order, nil
}

// merge combines two ascending id lists into one.
func merge(a, b []int) []int {
	if len(b) == 0 {
		return a
	}
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
