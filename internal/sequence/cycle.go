package sequence

import "sort"

// detectCycle runs a DFS over the before/after edges implied by a handler
// set's symbolic names and returns the first cycle found, or nil if the
// constraint graph is acyclic. It is the optional StrictOrdering precheck
// (an addition the original does not have — it relies entirely on the
// 400-iteration bound in buildSequence's fixed-point loop to catch
// unsatisfiable constraints) that turns an eventual 400-iteration BuildError
// into an immediate, readable cycle report.
func detectCycle(nodes []string, edges map[string][]string) []string {
	visiting := make(map[string]bool, len(nodes))
	visited := make(map[string]bool, len(nodes))
	var stack []string
	var cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		visiting[node] = true
		stack = append(stack, node)

		deps := append([]string(nil), edges[node]...)
		sort.Strings(deps)
		for _, dep := range deps {
			if visited[dep] {
				continue
			}
			if visiting[dep] {
				idx := indexOf(stack, dep)
				if idx >= 0 {
					cycle = append([]string{}, stack[idx:]...)
					cycle = append(cycle, dep)
				}
				return true
			}
			if dfs(dep) {
				return true
			}
		}

		visiting[node] = false
		visited[node] = true
		stack = stack[:len(stack)-1]
		return false
	}

	ordered := append([]string(nil), nodes...)
	sort.Strings(ordered)
	for _, n := range ordered {
		if visited[n] {
			continue
		}
		if dfs(n) {
			break
		}
	}
	return cycle
}

func indexOf(slice []string, target string) int {
	for i, v := range slice {
		if v == target {
			return i
		}
	}
	return -1
}
