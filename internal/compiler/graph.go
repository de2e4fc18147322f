package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/relplan/internal/schema"
)

// Warning levels reported by AnalyzeTypeGraph.
const (
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// TypeWarning describes a notable shape in the object type graph.
//
// Recursive relations are reported as info, not errors, because they are
// normal (users following users); the query's nesting depth bounds the
// joins a plan can contain. Types unreachable from the query root are
// reported as warnings since no plan can ever use them.
type TypeWarning struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Level   string   `json:"level"`
}

// AnalyzeTypeGraph inspects relations between object types.
//
// The algorithm:
//  1. Build type → referenced object types from field return types
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or self-loops as a recursive relation
//  4. Report object types not reachable from the query root
//
// Output order follows type registration order.
func AnalyzeTypeGraph(s *schema.Schema) []TypeWarning {
	graph, order := buildTypeGraph(s)

	var warnings []TypeWarning
	for _, scc := range tarjanSCC(graph, order) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, recursionWarning(scc, graph))
		}
	}

	reached := reachable(graph, s.QueryType())
	for _, name := range order {
		if name == s.QueryType() || reached[name] {
			continue
		}
		warnings = append(warnings, TypeWarning{
			Path:    []string{name},
			Message: fmt.Sprintf("type %s is not reachable from %s", name, s.QueryType()),
			Level:   LevelWarning,
		})
	}

	return warnings
}

// typeGraph maps object type → object types its fields return.
type typeGraph map[string][]string

func buildTypeGraph(s *schema.Schema) (typeGraph, []string) {
	graph := make(typeGraph)
	var order []string
	for _, obj := range s.Objects() {
		order = append(order, obj.Name)
		seen := make(map[string]bool)
		graph[obj.Name] = []string{}
		for _, f := range obj.Fields() {
			target := f.Type.NamedType()
			if _, ok := s.Object(target); !ok || seen[target] {
				continue
			}
			seen[target] = true
			graph[obj.Name] = append(graph[obj.Name], target)
		}
	}
	return graph, order
}

func reachable(graph typeGraph, root string) map[string]bool {
	seen := map[string]bool{}
	if _, ok := graph[root]; !ok {
		return seen
	}
	queue := []string{root}
	seen[root] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range graph[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph typeGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in the given order so results are deterministic.
func tarjanSCC(graph typeGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack into an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func recursionWarning(scc []string, graph typeGraph) TypeWarning {
	if len(scc) == 1 {
		name := scc[0]
		return TypeWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("Self-referencing type: %s → %s", name, name),
			Level:   LevelInfo,
		}
	}

	path := reconstructCyclePath(scc, graph)
	return TypeWarning{
		Path:    path,
		Message: fmt.Sprintf("Recursive relation: %s", strings.Join(path, " → ")),
		Level:   LevelInfo,
	}
}

// reconstructCyclePath builds a cycle path from an SCC by following edges
// between members until it returns to the first one.
func reconstructCyclePath(scc []string, graph typeGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	members := make(map[string]bool)
	for _, node := range scc {
		members[node] = true
	}

	start := scc[len(scc)-1]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
