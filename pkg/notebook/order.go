package notebook

import (
	"container/heap"
	"slices"
)

// Symbols lists the names a cell may read without a cell defining them.
//
// Defined names are provided by the page or the runtime (document, window,
// the md and html template tags). Skipped names are host features that
// have no standalone equivalent: they only count as satisfiable when some
// cell in the notebook defines them. Skipped takes precedence over Defined.
type Symbols struct {
	Defined []string
	Skipped []string
}

// DefaultSymbols returns the symbols assumed present in a browser page.
func DefaultSymbols() Symbols {
	return Symbols{
		Defined: []string{"md", "html", "document", "window", "Node", "NodeList", "StyleSheetList"},
		Skipped: []string{"html"},
	}
}

// Satisfies reports whether input is satisfiable given the set of cell names.
func (s Symbols) Satisfies(input string, cells map[string]*Cell) bool {
	if _, ok := cells[input]; ok {
		return true
	}
	if slices.Contains(s.Skipped, input) {
		return false
	}
	return slices.Contains(s.Defined, input)
}

// Normalize orders cells by dependency and classifies them as resolved or not.
//
// Normalize builds a name index over cells (a later cell shadows an earlier
// one with the same name) and returns the indexed cells in topological order:
// every cell comes after the cells named by its inputs, and cells without a
// relative constraint keep their original Index order. Order is set to the
// position in the returned slice, Depth to the longest input chain below the
// cell, and Resolved according to s.
//
// Inputs naming unknown cells are not edges. Self-references are ignored.
// Cells on a cycle are appended after the rest in Index order.
//
// Normalize is idempotent: it only reads Name, Inputs and Index, so running
// it again on its own output yields the same order and flags.
//
// # Algorithm
//
// Kahn's algorithm with a min-heap on Index as the ready set:
//  1. Count, for each cell, the distinct inputs that are other cells
//  2. Push all cells with no such inputs
//  3. Pop the lowest Index, emit it, decrement its dependents
//  4. Push dependents reaching zero; repeat until the heap is empty
func Normalize(cells []*Cell, s Symbols) []*Cell {
	byName := make(map[string]*Cell, len(cells))
	for _, c := range cells {
		byName[c.Name] = c
	}
	nodes := make([]*Cell, 0, len(byName))
	for _, c := range cells {
		if byName[c.Name] == c {
			nodes = append(nodes, c)
		}
	}

	inDegree := make(map[*Cell]int, len(nodes))
	dependents := make(map[*Cell][]*Cell, len(nodes))
	for _, c := range nodes {
		seen := make(map[string]bool, len(c.Inputs))
		for _, in := range c.Inputs {
			dep, ok := byName[in]
			if !ok || dep == c || seen[in] {
				continue
			}
			seen[in] = true
			inDegree[c]++
			dependents[dep] = append(dependents[dep], c)
		}
	}

	ready := &cellHeap{}
	for _, c := range nodes {
		c.Depth = 0
		if inDegree[c] == 0 {
			heap.Push(ready, c)
		}
	}

	ordered := make([]*Cell, 0, len(nodes))
	visited := make(map[*Cell]bool, len(nodes))
	for ready.Len() > 0 {
		curr := heap.Pop(ready).(*Cell)
		visited[curr] = true
		ordered = append(ordered, curr)
		for _, child := range dependents[curr] {
			if d := curr.Depth + 1; d > child.Depth {
				child.Depth = d
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				heap.Push(ready, child)
			}
		}
	}

	if len(ordered) < len(nodes) {
		for _, c := range nodes {
			if !visited[c] {
				ordered = append(ordered, c)
			}
		}
	}

	for i, c := range ordered {
		c.Order = i
		c.Resolved = true
		for _, in := range c.Inputs {
			if !s.Satisfies(in, byName) {
				c.Resolved = false
				break
			}
		}
	}
	return ordered
}

// cellHeap is a min-heap of cells keyed by Index.
type cellHeap []*Cell

func (h cellHeap) Len() int           { return len(h) }
func (h cellHeap) Less(i, j int) bool { return h[i].Index < h[j].Index }
func (h cellHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *cellHeap) Push(x any)        { *h = append(*h, x.(*Cell)) }
func (h *cellHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
