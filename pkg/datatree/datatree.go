// Package datatree holds batch results keyed by integer paths such as {0;2}.
// A tree keeps paths in insertion order and each path owns an ordered list
// of items, so parallel trees built by the same loop stay aligned.
package datatree

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path is an ordered integer tuple.
type Path []int

// NewPath returns a path from indices.
func NewPath(indices ...int) Path {
	return append(Path(nil), indices...)
}

// String formats the path as {i;j;...}.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(parts, ";") + "}"
}

// ParsePath parses the {i;j;...} form.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("datatree: path %q must be wrapped in braces", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return Path{}, nil
	}
	var p Path
	for _, f := range strings.Split(body, ";") {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("datatree: path %q: %w", s, err)
		}
		p = append(p, v)
	}
	return p, nil
}

// Append returns a new path with indices added.
func (p Path) Append(indices ...int) Path {
	out := make(Path, 0, len(p)+len(indices))
	return append(append(out, p...), indices...)
}

// Compare orders paths element-wise, shorter prefixes first.
func (p Path) Compare(o Path) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		if p[i] != o[i] {
			if p[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// Branch is one path and its items.
type Branch[T any] struct {
	Path  Path `json:"path"`
	Items []T  `json:"items"`
}

// Tree maps paths to ordered item lists.
type Tree[T any] struct {
	branches []Branch[T]
	index    map[string]int
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{index: make(map[string]int)}
}

func (t *Tree[T]) branch(p Path) *Branch[T] {
	key := p.String()
	i, ok := t.index[key]
	if !ok {
		i = len(t.branches)
		t.index[key] = i
		t.branches = append(t.branches, Branch[T]{Path: NewPath(p...), Items: []T{}})
	}
	return &t.branches[i]
}

// Append adds items under p, creating the branch when needed.
func (t *Tree[T]) Append(p Path, items ...T) {
	b := t.branch(p)
	b.Items = append(b.Items, items...)
}

// EnsurePath creates an empty branch for p if it does not exist.
func (t *Tree[T]) EnsurePath(p Path) {
	t.branch(p)
}

// Items returns the items under p.
func (t *Tree[T]) Items(p Path) []T {
	if i, ok := t.index[p.String()]; ok {
		return t.branches[i].Items
	}
	return nil
}

// Paths returns the paths in insertion order.
func (t *Tree[T]) Paths() []Path {
	out := make([]Path, len(t.branches))
	for i, b := range t.branches {
		out[i] = b.Path
	}
	return out
}

// Branches returns the branches in insertion order.
func (t *Tree[T]) Branches() []Branch[T] {
	return t.branches
}

// Len returns the number of branches.
func (t *Tree[T]) Len() int { return len(t.branches) }

// ItemCount returns the total number of items.
func (t *Tree[T]) ItemCount() int {
	n := 0
	for _, b := range t.branches {
		n += len(b.Items)
	}
	return n
}

// Flatten returns every item in path order.
func (t *Tree[T]) Flatten() []T {
	out := make([]T, 0, t.ItemCount())
	for _, b := range t.branches {
		out = append(out, b.Items...)
	}
	return out
}

// MarshalJSON encodes the tree as an ordered branch list.
func (t *Tree[T]) MarshalJSON() ([]byte, error) {
	if t == nil || t.branches == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.branches)
}
