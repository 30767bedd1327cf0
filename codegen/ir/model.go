package ir

import (
	"slices"
)

// Model is an insertion ordered set of uniquely named nodes. It is not safe
// for concurrent mutation.
type Model struct {
	order []string
	nodes map[string]*Node
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{nodes: make(map[string]*Node)}
}

// AddNode inserts n under its effective name. Adding a node whose effective
// name is already present replaces the previous node in place: the new node
// takes the position the name was first inserted at. Nodes with a negative
// vector index are rejected with an error wrapping ErrInvalidIndex.
func (m *Model) AddNode(n *Node) error {
	if err := n.validate(); err != nil {
		return err
	}
	name := n.Name()
	if _, ok := m.nodes[name]; !ok {
		m.order = append(m.order, name)
	}
	m.nodes[name] = n
	return nil
}

// Node returns the node with the given effective name.
func (m *Model) Node(name string) (*Node, bool) {
	n, ok := m.nodes[name]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (m *Model) Nodes() []*Node {
	out := make([]*Node, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.nodes[name])
	}
	return out
}

// Len returns the number of nodes.
func (m *Model) Len() int {
	return len(m.order)
}

// NodesWithRole returns the nodes having one of roles, in insertion order.
func (m *Model) NodesWithRole(roles ...Role) []*Node {
	var out []*Node
	for _, name := range m.order {
		n := m.nodes[name]
		if slices.Contains(roles, n.Role) {
			out = append(out, n)
		}
	}
	return out
}

// VectorNames returns the distinct base names of vector nodes having one of
// roles, ordered by first appearance.
func (m *Model) VectorNames(roles ...Role) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, n := range m.NodesWithRole(roles...) {
		if !n.IsVector() {
			continue
		}
		if _, ok := seen[n.Base]; ok {
			continue
		}
		seen[n.Base] = struct{}{}
		names = append(names, n.Base)
	}
	return names
}
