package topomap

import (
	"fmt"
	"sort"
)

// TreeNode ties a level line to its place in the inclusion tree. Links are
// indices into Tree.Nodes (same indexing as Tree.Lines); Parent is -1 for
// roots.
type TreeNode struct {
	Line     int
	Parent   int
	Children []int
}

// Tree is the inclusion tree of a set of level lines: a line is the parent
// of the lines its region strictly encloses, with no intermediate line in
// between. The node arena is index-linked, so the structure is acyclic by
// construction.
type Tree struct {
	Lines []LevelLine
	Nodes []TreeNode
	Roots []int
}

// BuildTree recovers the inclusion hierarchy of lines from the
// row-intersection log produced by ExtractCrossings. On each row the
// crossings, sorted by abscissa, nest like parentheses: scanning left to
// right with a stack of currently open lines, a line opening under another
// is its child. The first row where a line appears fixes its parent.
//
// BuildTree fails with ErrInvalidInput if the log is inconsistent (a row
// with an odd number of crossings for some line), which indicates the log
// does not come from an ExtractCrossings run on the same lines.
func BuildTree(lines []LevelLine, rows [][]Crossing) (*Tree, error) {
	t := &Tree{Lines: lines, Nodes: make([]TreeNode, len(lines))}
	for i := range t.Nodes {
		t.Nodes[i] = TreeNode{Line: i, Parent: -1}
	}
	seen := make([]bool, len(lines))
	var stack []int
	for y, row := range rows {
		sorted := make([]Crossing, len(row))
		copy(sorted, row)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].X != sorted[j].X {
				return sorted[i].X < sorted[j].X
			}
			return sorted[i].Line < sorted[j].Line
		})
		stack = stack[:0]
		for _, c := range sorted {
			if len(stack) > 0 && stack[len(stack)-1] == c.Line {
				stack = stack[:len(stack)-1] // closing crossing
				continue
			}
			if !seen[c.Line] {
				seen[c.Line] = true
				if len(stack) > 0 {
					p := stack[len(stack)-1]
					t.Nodes[c.Line].Parent = p
					t.Nodes[p].Children = append(t.Nodes[p].Children, c.Line)
				}
			}
			stack = append(stack, c.Line)
		}
		if len(stack) != 0 {
			return nil, fmt.Errorf("%w: unbalanced crossings on row %d", ErrInvalidInput, y)
		}
	}
	for i := range t.Nodes {
		if t.Nodes[i].Parent < 0 {
			t.Roots = append(t.Roots, i)
		}
	}
	return t, nil
}

// ExtractTree extracts the level lines of im and their inclusion tree in
// one call. See Extract for the meaning of the parameters.
func ExtractTree(im []uint8, w, h, ptsPerPixel int) (*Tree, error) {
	lines, rows, err := ExtractCrossings(im, w, h, ptsPerPixel)
	if err != nil {
		return nil, err
	}
	return BuildTree(lines, rows)
}

// Preorder returns the node indices in depth-first preorder: every parent
// before its children, roots in extraction order. This is the iteration
// order for drawing nested lines outside-in.
func (t *Tree) Preorder() []int {
	order := make([]int, 0, len(t.Nodes))
	stack := make([]int, 0, len(t.Roots))
	for i := len(t.Roots) - 1; i >= 0; i-- {
		stack = append(stack, t.Roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		for i := len(t.Nodes[n].Children) - 1; i >= 0; i-- {
			stack = append(stack, t.Nodes[n].Children[i])
		}
	}
	return order
}
