// Package agenda validates and resolves the hierarchical research-agenda
// classification reviewers attach to approved topics.
package agenda

import "gradus/internal/domain"

// OptionsAtDepth walks path[0..depth) through nested SubAgenda children
// and returns the names selectable at that depth. Any segment that fails
// to resolve yields an empty result, which caps how many selector levels
// a caller renders. The result is never nil.
func OptionsAtDepth(roots []domain.AgendaNode, path []string, depth int) []string {
	level := roots
	for i := 0; i < depth; i++ {
		if i >= len(path) {
			return []string{}
		}
		child, ok := findChild(level, path[i])
		if !ok {
			return []string{}
		}
		level = child.SubAgenda
	}
	names := make([]string, 0, len(level))
	for _, n := range level {
		names = append(names, n.Name)
	}
	return names
}

// PathResolves reports whether every segment of path resolves in order
// starting from the roots.
func PathResolves(roots []domain.AgendaNode, path []string) bool {
	level := roots
	for _, seg := range path {
		child, ok := findChild(level, seg)
		if !ok {
			return false
		}
		level = child.SubAgenda
	}
	return true
}

func findChild(nodes []domain.AgendaNode, name string) (domain.AgendaNode, bool) {
	for _, n := range nodes {
		if n.Name == name {
			return n, true
		}
	}
	return domain.AgendaNode{}, false
}
