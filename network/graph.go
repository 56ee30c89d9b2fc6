package network

import "sort"

// ConnectedComponents partitions the components into independent
// subnetworks: groups connected through regulations, ignoring edge
// direction. Updates of components in different groups never share a
// regulator, so each group can be analyzed on its own. Groups are sorted
// by their smallest member, members ascending.
func (m *Model) ConnectedComponents() [][]ComponentID {
	n := m.NumComponents()
	adj := make([][]ComponentID, n)
	for _, reg := range m.regulations {
		if reg.Regulator == reg.Target {
			continue
		}
		adj[reg.Regulator] = append(adj[reg.Regulator], reg.Target)
		adj[reg.Target] = append(adj[reg.Target], reg.Regulator)
	}

	visited := make([]bool, n)
	var group []ComponentID
	var dfs func(ComponentID)
	dfs = func(v ComponentID) {
		visited[v] = true
		group = append(group, v)
		for _, w := range adj[v] {
			if !visited[w] {
				dfs(w)
			}
		}
	}

	var groups [][]ComponentID
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		group = nil
		dfs(ComponentID(i))
		sort.Slice(group, func(a, b int) bool { return group[a] < group[b] })
		groups = append(groups, group)
	}
	return groups
}
