package analyze

import "github.com/jssimporter/spruce/internal/model"

// Cycle is one cycle found in the group nesting graph, listed in edge order.
// The last element nests the first.
type Cycle []model.Identity

// ResolveNesting reclassifies groups that are only indirectly scoped.
//
// A smart group can name other groups through "member of" criteria. A group
// nested inside a used group is itself effectively in use even when no
// container scopes it directly, so the resolver computes the closure of all
// groups transitively reachable from the used set over nesting edges and
// moves them from Unused to Used.
//
// The expansion is an explicit worklist with a visited set rather than
// recursion, which guarantees termination on cyclic inputs: a cycle of
// groups reachable from a used group is simply marked used in its entirety.
// Cycles are still a data defect worth surfacing, so the whole graph is
// scanned for them independently and any found are returned for the caller
// to log loudly. The closure itself is never aborted by a cycle.
//
// Criteria reference groups by name. Names are resolved against the supplied
// group list; a nested name matching no group is skipped, and when several
// groups share a name the first in list order wins.
//
// The input partition is not modified. Running the resolver on its own
// output is a no-op, since the closure is already complete.
func ResolveNesting(p UsagePartition, groups []model.Group) (UsagePartition, []Cycle) {
	byName := make(map[string]*model.Group, len(groups))
	for i := range groups {
		if _, ok := byName[groups[i].Name]; !ok {
			byName[groups[i].Name] = &groups[i]
		}
	}

	// Seed the worklist with everything already classified as used.
	usedIDs := make(map[int]bool, len(p.Used))
	queue := make([]*model.Group, 0, len(p.Used))
	for _, id := range p.Used {
		usedIDs[id.ID] = true
		if g, ok := byName[id.Name]; ok && g.ID == id.ID {
			queue = append(queue, g)
		} else {
			// Name lookup missed (renamed or duplicate name); fall back
			// to an id scan so a used group is never silently dropped.
			for i := range groups {
				if groups[i].ID == id.ID {
					queue = append(queue, &groups[i])
					break
				}
			}
		}
	}

	visited := make(map[int]bool, len(groups))
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		if visited[g.ID] {
			continue
		}
		visited[g.ID] = true
		for _, name := range g.NestedGroupNames {
			nested, ok := byName[name]
			if !ok || visited[nested.ID] {
				continue
			}
			usedIDs[nested.ID] = true
			queue = append(queue, nested)
		}
	}

	// Rebuild the partition from All so ordering and dedup invariants hold.
	resolved := UsagePartition{Kind: p.Kind, All: p.All}
	for _, id := range p.All {
		if usedIDs[id.ID] {
			resolved.Used = append(resolved.Used, id)
		} else {
			resolved.Unused = append(resolved.Unused, id)
		}
	}
	return resolved, detectCycles(groups, byName)
}

// detectCycles finds cycles in the nesting graph with a three-color
// depth-first search. The coloring bounds recursion at one frame per group,
// so the scan terminates on any input. Each cycle is reported once, from its
// first-discovered member.
func detectCycles(groups []model.Group, byName map[string]*model.Group) []Cycle {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[int]int, len(groups))
	var cycles []Cycle

	var visit func(g *model.Group, path []*model.Group)
	visit = func(g *model.Group, path []*model.Group) {
		color[g.ID] = gray
		path = append(path, g)
		for _, name := range g.NestedGroupNames {
			nested, ok := byName[name]
			if !ok {
				continue
			}
			switch color[nested.ID] {
			case white:
				visit(nested, path)
			case gray:
				// Found a back edge; slice the cycle out of the path.
				var cycle Cycle
				for i := len(path) - 1; i >= 0; i-- {
					cycle = append(Cycle{path[i].Identity}, cycle...)
					if path[i].ID == nested.ID {
						break
					}
				}
				cycles = append(cycles, cycle)
			}
		}
		color[g.ID] = black
	}

	for i := range groups {
		if color[groups[i].ID] == white {
			visit(&groups[i], nil)
		}
	}
	return cycles
}
