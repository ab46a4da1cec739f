// Package tree implements cycle-safe traversal of the category forest. All
// functions operate on an immutable snapshot taken by the caller; nothing here
// reads the store.
package tree

import (
	"sort"

	"github.com/kotoba-study/kotoba-api/internal/models"
)

// MaxDepth is the traversal safety cap. Category depth is unbounded in
// principle; the cap only guarantees termination if the parent pointers are
// ever corrupted into a cycle deeper than the visited-set guard can explain.
const MaxDepth = 10

// Snapshot is an immutable view of all categories, keyed by category key.
type Snapshot map[string]*models.Category

// BuildSnapshot indexes a category list by key.
func BuildSnapshot(categories []*models.Category) Snapshot {
	s := make(Snapshot, len(categories))
	for _, c := range categories {
		s[c.Key] = c
	}
	return s
}

// Contains reports whether the snapshot has a category with the given key.
func (s Snapshot) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Children returns the direct children of key, ordered by display order then
// key for determinism.
func (s Snapshot) Children(key string) []*models.Category {
	var children []*models.Category
	for _, c := range s {
		if c.ParentKey != nil && *c.ParentKey == key {
			children = append(children, c)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].DisplayOrder != children[j].DisplayOrder {
			return children[i].DisplayOrder < children[j].DisplayOrder
		}
		return children[i].Key < children[j].Key
	})
	return children
}

// Roots returns the root categories in display order.
func (s Snapshot) Roots() []*models.Category {
	var roots []*models.Category
	for _, c := range s {
		if c.IsRoot() || !s.Contains(*c.ParentKey) {
			roots = append(roots, c)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if roots[i].DisplayOrder != roots[j].DisplayOrder {
			return roots[i].DisplayOrder < roots[j].DisplayOrder
		}
		return roots[i].Key < roots[j].Key
	})
	return roots
}

// Descendants walks the subtree below key breadth-first and returns every
// descendant key, excluding key itself. A visited set makes the walk immune to
// cycles in the parent pointers, and levels beyond MaxDepth are truncated.
func Descendants(s Snapshot, key string) []string {
	visited := map[string]bool{key: true}
	var result []string

	frontier := []string{key}
	for depth := 0; depth < MaxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, parent := range frontier {
			for _, child := range s.Children(parent) {
				if visited[child.Key] {
					continue
				}
				visited[child.Key] = true
				result = append(result, child.Key)
				next = append(next, child.Key)
			}
		}
		frontier = next
	}
	return result
}

// Path walks parent pointers upward from key and returns the ancestor chain
// from root to the category itself. The walk shares the Descendants defenses:
// a visited set stops upward cycles and the chain is truncated at MaxDepth
// entries, keeping the nearest ancestors.
func Path(s Snapshot, key string) []*models.Category {
	category, ok := s[key]
	if !ok {
		return nil
	}

	visited := map[string]bool{key: true}
	path := []*models.Category{category}

	current := category
	for len(path) < MaxDepth {
		if current.IsRoot() {
			break
		}
		parent, ok := s[*current.ParentKey]
		if !ok || visited[parent.Key] {
			break
		}
		visited[parent.Key] = true
		path = append([]*models.Category{parent}, path...)
		current = parent
	}
	return path
}

// WouldCreateCycle reports whether reparenting key under newParentKey would
// make key its own ancestor. It walks upward from the proposed parent with the
// same cycle and depth guards as Path.
func WouldCreateCycle(s Snapshot, key, newParentKey string) bool {
	if key == newParentKey {
		return true
	}

	visited := map[string]bool{}
	current, ok := s[newParentKey]
	for depth := 0; ok && depth < MaxDepth; depth++ {
		if current.Key == key {
			return true
		}
		if visited[current.Key] {
			return false
		}
		visited[current.Key] = true
		if current.IsRoot() {
			return false
		}
		current, ok = s[*current.ParentKey]
	}
	return false
}
