package skillgraph

import (
	"fmt"
	"slices"
	"sort"
)

// graph holds the skill DAG with precomputed indices.
type graph struct {
	skills     []Skill
	byID       map[string]*Skill
	byStrand   map[Strand][]Skill
	roots      []Skill
	dependents map[string][]string
	topoOrder  []Skill
}

// g is the package-level graph, set by init() in seed.go.
var g *graph

// buildGraph indexes skills and computes a deterministic topological order
// (Kahn's algorithm, ties broken by ID).
func buildGraph(skills []Skill) *graph {
	gr := &graph{
		skills:     skills,
		byID:       make(map[string]*Skill, len(skills)),
		byStrand:   make(map[Strand][]Skill),
		dependents: make(map[string][]string),
	}

	for i := range gr.skills {
		gr.byID[gr.skills[i].ID] = &gr.skills[i]
	}
	for i := range gr.skills {
		for _, prereqID := range gr.skills[i].Prerequisites {
			gr.dependents[prereqID] = append(gr.dependents[prereqID], gr.skills[i].ID)
		}
	}

	inDegree := make(map[string]int, len(skills))
	for i := range skills {
		inDegree[skills[i].ID] = len(skills[i].Prerequisites)
	}
	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		gr.topoOrder = append(gr.topoOrder, *gr.byID[id])

		deps := slices.Clone(gr.dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	for i := range gr.skills {
		s := gr.skills[i]
		if len(s.Prerequisites) == 0 {
			gr.roots = append(gr.roots, s)
		}
		gr.byStrand[s.Strand] = append(gr.byStrand[s.Strand], s)
	}
	for strand, group := range gr.byStrand {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Difficulty < group[j].Difficulty
		})
		gr.byStrand[strand] = group
	}

	return gr
}

// GetSkill returns a skill by ID, or error if not found.
func GetSkill(id string) (Skill, error) {
	s, ok := g.byID[id]
	if !ok {
		return Skill{}, fmt.Errorf("skill not found: %q", id)
	}
	return *s, nil
}

// Lookup returns the skill with the given ID and whether it exists.
func Lookup(id string) (Skill, bool) {
	s, ok := g.byID[id]
	if !ok {
		return Skill{}, false
	}
	return *s, true
}

// DisplayName returns the skill's name, or the tag itself for tags the graph
// does not know.
func DisplayName(id string) string {
	if s, ok := g.byID[id]; ok {
		return s.Name
	}
	return id
}

// ByStrand returns the skills of a strand ordered by difficulty.
func ByStrand(strand Strand) []Skill {
	return slices.Clone(g.byStrand[strand])
}

// RootSkills returns all skills with no prerequisites.
func RootSkills() []Skill {
	return slices.Clone(g.roots)
}

// Prerequisites returns the direct prerequisite skills for a given skill ID.
// Unknown IDs have none.
func Prerequisites(id string) []Skill {
	s, ok := g.byID[id]
	if !ok {
		return nil
	}
	result := make([]Skill, 0, len(s.Prerequisites))
	for _, prereqID := range s.Prerequisites {
		if p, ok := g.byID[prereqID]; ok {
			result = append(result, *p)
		}
	}
	return result
}

// Dependents returns skills that directly depend on the given skill ID.
func Dependents(id string) []Skill {
	depIDs := g.dependents[id]
	result := make([]Skill, 0, len(depIDs))
	for _, depID := range depIDs {
		if s, ok := g.byID[depID]; ok {
			result = append(result, *s)
		}
	}
	return result
}

// TopologicalOrder returns all skills in a valid topological order.
func TopologicalOrder() []Skill {
	return slices.Clone(g.topoOrder)
}
