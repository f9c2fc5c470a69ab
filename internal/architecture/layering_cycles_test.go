// Where: internal/architecture/layering_cycles_test.go
// What: Import cycle guard over the akm internal package graph.
// Why: Workflows, provisioner ports and stack builders must stay a one-way chain.
package architecture

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestNoInternalImportCycles(t *testing.T) {
	t.Parallel()

	graph := internalImportGraph(t)
	for _, pkg := range []string{"usecase/deploy", "provisioner", "domain/attr"} {
		if _, ok := graph[internalImportPrefix+pkg]; !ok {
			t.Fatalf("import graph is missing %s", pkg)
		}
	}

	cycles := detectCycles(graph)
	if len(cycles) > 0 {
		sort.Strings(cycles)
		t.Fatalf("internal import cycles detected:\n%s", strings.Join(cycles, "\n"))
	}
}

func TestDetectCyclesReportsEachLoopOnce(t *testing.T) {
	deploy := internalImportPrefix + "usecase/deploy"
	prov := internalImportPrefix + "provisioner"
	attr := internalImportPrefix + "domain/attr"
	graph := map[string]map[string]struct{}{
		deploy: {prov: {}, attr: {}},
		prov:   {attr: {}, deploy: {}},
		attr:   {},
	}

	cycles := detectCycles(graph)
	want := prov + " -> " + deploy + " -> " + prov
	if len(cycles) != 1 || cycles[0] != want {
		t.Fatalf("cycles = %v, want [%s]", cycles, want)
	}

	delete(graph[prov], deploy)
	if cycles := detectCycles(graph); len(cycles) != 0 {
		t.Fatalf("unexpected cycles %v", cycles)
	}
}

// internalImportGraph maps every non-test internal package to the internal packages it imports.
func internalImportGraph(t *testing.T) map[string]map[string]struct{} {
	t.Helper()
	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()
	graph := map[string]map[string]struct{}{}

	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		relDir := filepath.ToSlash(filepath.Dir(rel))
		if relDir == "." {
			return nil
		}
		sourcePkg := internalImportPrefix + relDir
		if _, ok := graph[sourcePkg]; !ok {
			graph[sourcePkg] = map[string]struct{}{}
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range file.Imports {
			importPath := strings.Trim(imp.Path.Value, "\"")
			if !strings.HasPrefix(importPath, internalImportPrefix) {
				continue
			}
			graph[sourcePkg][importPath] = struct{}{}
			if _, ok := graph[importPath]; !ok {
				graph[importPath] = map[string]struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
	return graph
}

func detectCycles(graph map[string]map[string]struct{}) []string {
	const (
		stateUnvisited = 0
		stateVisiting  = 1
		stateDone      = 2
	)

	state := map[string]int{}
	stack := []string{}
	seenCycles := map[string]struct{}{}
	cycles := []string{}

	var walk func(string)
	walk = func(node string) {
		state[node] = stateVisiting
		stack = append(stack, node)

		neighbors := make([]string, 0, len(graph[node]))
		for next := range graph[node] {
			neighbors = append(neighbors, next)
		}
		sort.Strings(neighbors)

		for _, next := range neighbors {
			switch state[next] {
			case stateUnvisited:
				walk(next)
			case stateVisiting:
				start := -1
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						start = i
						break
					}
				}
				if start >= 0 {
					path := append(append([]string{}, stack[start:]...), next)
					cycle := strings.Join(path, " -> ")
					if _, ok := seenCycles[cycle]; !ok {
						seenCycles[cycle] = struct{}{}
						cycles = append(cycles, cycle)
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = stateDone
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if state[node] == stateUnvisited {
			walk(node)
		}
	}

	return cycles
}
