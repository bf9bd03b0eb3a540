package task

import (
	"errors"
	"fmt"
	"strings"
)

// maxTraversalDepth bounds the DFS recursion during cycle detection so a
// pathologically deep (or corrupted) graph fails cleanly instead of
// exhausting the call stack.
const maxTraversalDepth = 10000

// ErrGraphTooDeep indicates the dependency graph exceeded the traversal
// depth bound during cycle detection.
var ErrGraphTooDeep = errors.New("dependency graph exceeds maximum traversal depth")

// CycleError reports a dependency cycle with its full path for
// diagnostics. The path is closed: the first ID appears again at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Path, " -> ")
}

// DetectCycles finds all dependency cycles reachable in the task set.
// Each cycle is returned as a closed path of task IDs. Dependencies on
// tasks absent from the set are ignored; they cannot form a cycle.
func DetectCycles(tasks []Task) ([][]string, error) {
	graph := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		graph[t.ID] = t.Dependencies
	}

	var cycles [][]string
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make([]string, 0, len(tasks))

	var depthErr error
	var dfs func(node string)
	dfs = func(node string) {
		if depthErr != nil {
			return
		}
		if len(path) >= maxTraversalDepth {
			depthErr = fmt.Errorf("%w (depth %d at %s)", ErrGraphTooDeep, len(path), node)
			return
		}

		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, dep := range graph[node] {
			if _, known := graph[dep]; !known {
				continue
			}
			if !visited[dep] {
				dfs(dep)
			} else if recStack[dep] {
				// Back edge: extract the cycle from the current path.
				for i, n := range path {
					if n == dep {
						cycle := append(append([]string{}, path[i:]...), dep)
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		path = path[:len(path)-1]
		recStack[node] = false
	}

	for _, t := range tasks {
		if !visited[t.ID] {
			dfs(t.ID)
		}
		if depthErr != nil {
			return nil, depthErr
		}
	}

	return cycles, nil
}

// ValidateAcyclic returns a CycleError describing the first cycle found,
// or nil if the task set's dependency graph is acyclic.
func ValidateAcyclic(tasks []Task) error {
	cycles, err := DetectCycles(tasks)
	if err != nil {
		return err
	}
	if len(cycles) > 0 {
		return &CycleError{Path: cycles[0]}
	}
	return nil
}
