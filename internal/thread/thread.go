// Package thread rebuilds threaded review discussions from the flat,
// reply-linked records stored on a paper.
package thread

import (
	"fmt"
	"sort"

	"github.com/openscholar/papergraph/internal/model"
)

// Node wraps a review with its computed position in the discussion tree.
// Depth is 0 for roots and parent depth + 1 otherwise.
type Node struct {
	Review   model.Review `json:"review"`
	Depth    int          `json:"depth"`
	Children []*Node      `json:"children,omitempty"`
}

// Forest is the ordered list of discussion roots for one paper.
type Forest []*Node

// Data-quality condition kinds reported by BuildForest.
const (
	QualityDuplicateID    = "duplicate_id"
	QualityDanglingParent = "dangling_parent"
	QualitySelfReference  = "self_reference"
	QualityCycle          = "cycle"
)

// DataQuality describes one malformed input condition that was healed. The
// forest is always usable; these exist so callers can log what was fixed up.
type DataQuality struct {
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
	Detail   string `json:"detail,omitempty"`
}

// BuildForest reconstructs the discussion forest from a flat record set.
// It never fails: duplicate ids keep the last-seen record, dangling or
// self-referencing parents become roots, and cyclic reply chains are broken
// at their first member in input order. Children and roots are ordered by
// creation timestamp ascending, input order breaking ties.
func BuildForest(records []model.Review) (Forest, []DataQuality) {
	if len(records) == 0 {
		return Forest{}, nil
	}

	var notes []DataQuality

	// Arena: id -> node, last-seen record wins on duplicates.
	nodes := make(map[string]*Node, len(records))
	order := make([]string, 0, len(records))
	inputIndex := make(map[string]int, len(records))

	for i, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, seen := nodes[rec.ID]; seen {
			notes = append(notes, DataQuality{
				Kind:     QualityDuplicateID,
				RecordID: rec.ID,
				Detail:   "keeping last-seen record",
			})
			nodes[rec.ID] = &Node{Review: rec}
			continue
		}
		nodes[rec.ID] = &Node{Review: rec}
		order = append(order, rec.ID)
		inputIndex[rec.ID] = i
	}

	// Link by id. A parent reference is usable only if it is non-empty,
	// not the record itself, and resolves in the arena.
	parentOf := make(map[string]string, len(nodes))
	var roots []*Node

	for _, id := range order {
		node := nodes[id]
		parentID := node.Review.ReplyTo

		switch {
		case parentID == "":
			roots = append(roots, node)
		case parentID == id:
			notes = append(notes, DataQuality{
				Kind:     QualitySelfReference,
				RecordID: id,
				Detail:   "record replies to itself, treating as root",
			})
			roots = append(roots, node)
		default:
			parent, ok := nodes[parentID]
			if !ok {
				notes = append(notes, DataQuality{
					Kind:     QualityDanglingParent,
					RecordID: id,
					Detail:   fmt.Sprintf("parent %q not found, treating as root", parentID),
				})
				roots = append(roots, node)
				break
			}
			parent.Children = append(parent.Children, node)
			parentOf[id] = parentID
		}
	}

	// Assign depths breadth-first from the roots. Nodes left unvisited sit
	// on a reply cycle; promote the first such node (input order) to root,
	// detach it from its parent, and continue until everything is reachable.
	visited := make(map[string]bool, len(nodes))
	assignDepths(roots, visited)

	for {
		broke := false
		for _, id := range order {
			if visited[id] {
				continue
			}
			node := nodes[id]
			if parentID, ok := parentOf[id]; ok {
				detachChild(nodes[parentID], node)
			}
			notes = append(notes, DataQuality{
				Kind:     QualityCycle,
				RecordID: id,
				Detail:   "reply cycle broken, treating as root",
			})
			node.Depth = 0
			roots = append(roots, node)
			assignDepths([]*Node{node}, visited)
			broke = true
			break
		}
		if !broke {
			break
		}
	}

	sortForest(roots, inputIndex)
	return roots, notes
}

// MaxDepth returns the deepest node depth in the forest, or 0 when empty.
func MaxDepth(forest Forest) int {
	max := 0
	Walk(forest, func(n *Node) {
		if n.Depth > max {
			max = n.Depth
		}
	})
	return max
}

// Count returns the total number of nodes in the forest.
func Count(forest Forest) int {
	total := 0
	Walk(forest, func(*Node) { total++ })
	return total
}

// Walk visits every node in the forest, parents before children. The
// traversal is iterative so arbitrarily deep reply chains cannot overflow
// the stack.
func Walk(forest Forest, fn func(*Node)) {
	stack := make([]*Node, len(forest))
	copy(stack, forest)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

func assignDepths(roots []*Node, visited map[string]bool) {
	queue := make([]*Node, 0, len(roots))
	for _, r := range roots {
		if !visited[r.Review.ID] {
			r.Depth = 0
			visited[r.Review.ID] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, child := range n.Children {
			if visited[child.Review.ID] {
				continue
			}
			child.Depth = n.Depth + 1
			visited[child.Review.ID] = true
			queue = append(queue, child)
		}
	}
}

func detachChild(parent, child *Node) {
	if parent == nil {
		return
	}
	for i, c := range parent.Children {
		if c == child {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}

// sortForest orders roots and every children list by creation timestamp
// ascending. Missing timestamps are zero and therefore sort first; ties keep
// input order so output is deterministic.
func sortForest(roots []*Node, inputIndex map[string]int) {
	byTime := func(list []*Node) {
		sort.SliceStable(list, func(i, j int) bool {
			ti, tj := list[i].Review.CDate, list[j].Review.CDate
			if ti != tj {
				return ti < tj
			}
			return inputIndex[list[i].Review.ID] < inputIndex[list[j].Review.ID]
		})
	}

	byTime(roots)
	Walk(roots, func(n *Node) {
		if len(n.Children) > 1 {
			byTime(n.Children)
		}
	})
}
