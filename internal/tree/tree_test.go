package tree

import (
	"fmt"
	"testing"

	"github.com/kotoba-study/kotoba-api/internal/models"
)

func strPtr(s string) *string { return &s }

func category(key string, parent *string, order int) *models.Category {
	return &models.Category{Key: key, Name: key, ParentKey: parent, DisplayOrder: order}
}

// forest builds:
//
//	a            x
//	├── b        └── y
//	│   └── d
//	└── c
func forest() Snapshot {
	return BuildSnapshot([]*models.Category{
		category("a", nil, 0),
		category("b", strPtr("a"), 0),
		category("c", strPtr("a"), 1),
		category("d", strPtr("b"), 0),
		category("x", nil, 1),
		category("y", strPtr("x"), 0),
	})
}

func TestChildrenOrdering(t *testing.T) {
	t.Parallel()

	s := BuildSnapshot([]*models.Category{
		category("root", nil, 0),
		category("late", strPtr("root"), 5),
		category("early", strPtr("root"), 1),
		category("tie_b", strPtr("root"), 3),
		category("tie_a", strPtr("root"), 3),
	})

	got := s.Children("root")
	want := []string{"early", "tie_a", "tie_b", "late"}
	if len(got) != len(want) {
		t.Fatalf("Children returned %d categories, want %d", len(got), len(want))
	}
	for i, key := range want {
		if got[i].Key != key {
			t.Errorf("Children[%d] = %q, want %q", i, got[i].Key, key)
		}
	}
}

func TestRoots(t *testing.T) {
	t.Parallel()

	s := forest()
	roots := s.Roots()
	if len(roots) != 2 {
		t.Fatalf("Roots returned %d categories, want 2", len(roots))
	}
	if roots[0].Key != "a" || roots[1].Key != "x" {
		t.Errorf("Roots = [%s, %s], want [a, x]", roots[0].Key, roots[1].Key)
	}
}

func TestRootsTreatsDanglingParentAsRoot(t *testing.T) {
	t.Parallel()

	s := BuildSnapshot([]*models.Category{
		category("orphan", strPtr("gone"), 0),
	})
	roots := s.Roots()
	if len(roots) != 1 || roots[0].Key != "orphan" {
		t.Fatalf("Roots = %v, want the orphan promoted to root", roots)
	}
}

func TestDescendants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want []string
	}{
		{name: "full subtree excludes start", key: "a", want: []string{"b", "c", "d"}},
		{name: "middle node", key: "b", want: []string{"d"}},
		{name: "leaf has none", key: "d", want: nil},
		{name: "other tree untouched", key: "x", want: []string{"y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Descendants(forest(), tt.key)
			if len(got) != len(tt.want) {
				t.Fatalf("Descendants(%q) = %v, want %v", tt.key, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Descendants(%q)[%d] = %q, want %q", tt.key, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDescendantsTerminatesOnCycle(t *testing.T) {
	t.Parallel()

	// Corrupted parent pointers: a → b → a.
	s := BuildSnapshot([]*models.Category{
		category("a", strPtr("b"), 0),
		category("b", strPtr("a"), 0),
	})

	got := Descendants(s, "a")
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("Descendants on a two-node cycle = %v, want [b]", got)
	}
}

func TestDescendantsDepthCap(t *testing.T) {
	t.Parallel()

	// A 15-deep chain: c0 → c1 → ... → c15. Only MaxDepth levels below the
	// start are collected.
	var categories []*models.Category
	categories = append(categories, category("c0", nil, 0))
	for i := 1; i <= 15; i++ {
		categories = append(categories, category(
			fmt.Sprintf("c%d", i), strPtr(fmt.Sprintf("c%d", i-1)), 0,
		))
	}

	got := Descendants(BuildSnapshot(categories), "c0")
	if len(got) != MaxDepth {
		t.Fatalf("deep chain returned %d descendants, want %d", len(got), MaxDepth)
	}
	if got[len(got)-1] != fmt.Sprintf("c%d", MaxDepth) {
		t.Errorf("deepest collected = %q, want c%d", got[len(got)-1], MaxDepth)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	s := forest()
	path := Path(s, "d")
	want := []string{"a", "b", "d"}
	if len(path) != len(want) {
		t.Fatalf("Path(d) has %d entries, want %d", len(path), len(want))
	}
	for i, key := range want {
		if path[i].Key != key {
			t.Errorf("Path(d)[%d] = %q, want %q", i, path[i].Key, key)
		}
	}
}

func TestPathUnknownKey(t *testing.T) {
	t.Parallel()

	if got := Path(forest(), "missing"); got != nil {
		t.Fatalf("Path on unknown key = %v, want nil", got)
	}
}

func TestPathTerminatesOnCycle(t *testing.T) {
	t.Parallel()

	s := BuildSnapshot([]*models.Category{
		category("a", strPtr("b"), 0),
		category("b", strPtr("a"), 0),
	})

	path := Path(s, "a")
	if len(path) != 2 {
		t.Fatalf("Path on a two-node cycle has %d entries, want 2", len(path))
	}
	if path[0].Key != "b" || path[1].Key != "a" {
		t.Errorf("Path = [%s, %s], want [b, a]", path[0].Key, path[1].Key)
	}
}

func TestPathDeepChainKeepsNearestAncestors(t *testing.T) {
	t.Parallel()

	var categories []*models.Category
	categories = append(categories, category("c0", nil, 0))
	for i := 1; i <= 15; i++ {
		categories = append(categories, category(
			fmt.Sprintf("c%d", i), strPtr(fmt.Sprintf("c%d", i-1)), 0,
		))
	}

	path := Path(BuildSnapshot(categories), "c15")
	if len(path) != MaxDepth {
		t.Fatalf("deep path has %d entries, want %d", len(path), MaxDepth)
	}
	if path[len(path)-1].Key != "c15" {
		t.Errorf("path must end at the category itself, got %q", path[len(path)-1].Key)
	}
	if path[0].Key != fmt.Sprintf("c%d", 15-MaxDepth+1) {
		t.Errorf("truncation must keep the nearest ancestors, first = %q", path[0].Key)
	}
}

func TestWouldCreateCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		key       string
		newParent string
		want      bool
	}{
		{name: "self parent", key: "a", newParent: "a", want: true},
		{name: "direct child", key: "a", newParent: "b", want: true},
		{name: "grandchild", key: "a", newParent: "d", want: true},
		{name: "sibling subtree ok", key: "b", newParent: "c", want: false},
		{name: "other tree ok", key: "a", newParent: "y", want: false},
		{name: "unknown parent ok", key: "a", newParent: "missing", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := WouldCreateCycle(forest(), tt.key, tt.newParent); got != tt.want {
				t.Errorf("WouldCreateCycle(%q, %q) = %v, want %v", tt.key, tt.newParent, got, tt.want)
			}
		})
	}
}

func TestWouldCreateCycleTerminatesOnExistingCycle(t *testing.T) {
	t.Parallel()

	s := BuildSnapshot([]*models.Category{
		category("a", strPtr("b"), 0),
		category("b", strPtr("a"), 0),
		category("z", nil, 0),
	})

	if WouldCreateCycle(s, "z", "a") {
		t.Fatal("walk through a pre-existing cycle must not implicate an unrelated key")
	}
}
