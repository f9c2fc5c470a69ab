// Where: internal/domain/dag/dag.go
// What: Directed acyclic graph with order-stable topological sorting.
// Why: Template resources must be created dependencies-first, and output must not depend on map order.
package dag

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Vertex is a node of the graph. Order is the insertion rank used to break ties.
type Vertex[T cmp.Ordered] struct {
	ID        T
	Order     int
	DependsOn map[T]struct{}
}

// DirectedAcyclicGraph keeps vertices keyed by ID.
type DirectedAcyclicGraph[T cmp.Ordered] struct {
	Vertices map[T]*Vertex[T]
}

func NewDirectedAcyclicGraph[T cmp.Ordered]() *DirectedAcyclicGraph[T] {
	return &DirectedAcyclicGraph[T]{Vertices: make(map[T]*Vertex[T])}
}

func (d *DirectedAcyclicGraph[T]) AddVertex(id T, order int) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("vertex %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{ID: id, Order: order, DependsOn: make(map[T]struct{})}
	return nil
}

// AddDependencies records that from depends on every vertex in deps.
// Adding an edge that closes a cycle returns a *CycleError.
func (d *DirectedAcyclicGraph[T]) AddDependencies(from T, deps []T) error {
	vertex, ok := d.Vertices[from]
	if !ok {
		return fmt.Errorf("vertex %v does not exist", from)
	}
	for _, dep := range deps {
		if _, ok := d.Vertices[dep]; !ok {
			return fmt.Errorf("dependency %v of %v does not exist", dep, from)
		}
		if dep == from {
			return fmt.Errorf("vertex %v cannot depend on itself", from)
		}
		vertex.DependsOn[dep] = struct{}{}
	}
	if cyclic, cycle := d.hasCycle(); cyclic {
		return &CycleError[T]{Cycle: cycle}
	}
	return nil
}

// TopologicalSort returns vertices dependencies-first, keeping insertion order
// wherever the dependencies allow it.
func (d *DirectedAcyclicGraph[T]) TopologicalSort() ([]T, error) {
	levels, err := d.TopologicalSortLevels()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(d.Vertices))
	for _, level := range levels {
		out = append(out, level...)
	}
	return out, nil
}

// TopologicalSortLevels groups vertices into levels. Every vertex of a level only
// depends on vertices of earlier levels; within a level insertion order is kept.
func (d *DirectedAcyclicGraph[T]) TopologicalSortLevels() ([][]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}
	pending := d.ordered()
	done := make(map[T]struct{}, len(pending))
	var levels [][]T
	for len(pending) > 0 {
		var level []T
		var rest []*Vertex[T]
		for _, vertex := range pending {
			if dependenciesMet(vertex, done) {
				level = append(level, vertex.ID)
			} else {
				rest = append(rest, vertex)
			}
		}
		for _, id := range level {
			done[id] = struct{}{}
		}
		levels = append(levels, level)
		pending = rest
	}
	return levels, nil
}

func dependenciesMet[T cmp.Ordered](vertex *Vertex[T], done map[T]struct{}) bool {
	for dep := range vertex.DependsOn {
		if _, ok := done[dep]; !ok {
			return false
		}
	}
	return true
}

func (d *DirectedAcyclicGraph[T]) ordered() []*Vertex[T] {
	out := make([]*Vertex[T], 0, len(d.Vertices))
	for _, vertex := range d.Vertices {
		out = append(out, vertex)
	}
	slices.SortFunc(out, func(a, b *Vertex[T]) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (d *DirectedAcyclicGraph[T]) hasCycle() (bool, []T) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[T]int, len(d.Vertices))
	var stack []T
	var cycle []T

	var visit func(id T) bool
	visit = func(id T) bool {
		state[id] = visiting
		stack = append(stack, id)
		deps := make([]T, 0, len(d.Vertices[id].DependsOn))
		for dep := range d.Vertices[id].DependsOn {
			deps = append(deps, dep)
		}
		slices.Sort(deps)
		for _, dep := range deps {
			switch state[dep] {
			case visiting:
				start := slices.Index(stack, dep)
				cycle = append(append([]T{}, stack[start:]...), dep)
				return true
			case unvisited:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = visited
		return false
	}

	for _, vertex := range d.ordered() {
		if state[vertex.ID] == unvisited && visit(vertex.ID) {
			return true, cycle
		}
	}
	return false, nil
}

// CycleError reports a dependency cycle as the path that closes it.
type CycleError[T cmp.Ordered] struct {
	Cycle []T
}

func (e *CycleError[T]) Error() string {
	parts := make([]string, 0, len(e.Cycle))
	for _, id := range e.Cycle {
		parts = append(parts, fmt.Sprint(id))
	}
	return "graph contains a cycle: " + strings.Join(parts, " -> ")
}

// AsCycleError returns the *CycleError wrapped in err, or nil.
func AsCycleError[T cmp.Ordered](err error) *CycleError[T] {
	var cycleErr *CycleError[T]
	if errors.As(err, &cycleErr) {
		return cycleErr
	}
	return nil
}
