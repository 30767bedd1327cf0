package ir

import (
	"slices"
	"strings"

	"github.com/dnest4/modelgen/codegen/prior"
)

const declIndent = "        "

// Declarations assembles the member declarations of the generated class:
// scalar unknowns, vector unknowns, then scalar and vector knowns as static
// constants. Each group ends with a blank line except the unknowns, whose
// scalar and vector parts share one.
func (m *Model) Declarations() string {
	var b strings.Builder
	for _, n := range m.Nodes() {
		if !n.IsVector() && n.Role.Unknown() {
			b.WriteString(declIndent + "double " + n.Name() + ";\n")
		}
	}
	for _, v := range m.VectorNames(RoleCoordinate, RoleDerived) {
		b.WriteString(declIndent + "std::vector<double> " + v + ";\n")
	}
	b.WriteString("\n")

	for _, n := range m.Nodes() {
		if !n.IsVector() && !n.Role.Unknown() {
			b.WriteString(declIndent + "static const double " + n.Name() + ";\n")
		}
	}
	b.WriteString("\n")

	for _, v := range m.VectorNames(RoleData, RolePriorInfo) {
		b.WriteString(declIndent + "static const std::vector<double> " + v + ";\n")
	}
	b.WriteString("\n")
	return b.String()
}

// Definitions assembles out of class definitions for the known nodes carrying
// a value. Vector elements are listed by index with missing elements set to
// 0.0; vectors without any valued element are skipped.
func (m *Model) Definitions(class string) (string, error) {
	var b strings.Builder
	for _, n := range m.NodesWithRole(RoleData, RolePriorInfo) {
		if n.IsVector() || n.Value == nil {
			continue
		}
		b.WriteString("const double " + class + "::" + n.Name() + " = " + prior.FormatFloat(*n.Value) + ";\n")
	}
	for _, v := range m.VectorNames(RoleData, RolePriorInfo) {
		elems, err := m.vectorValues(v)
		if err != nil {
			return "", err
		}
		if elems == nil {
			continue
		}
		b.WriteString("const std::vector<double> " + class + "::" + v + "{" + strings.Join(elems, ", ") + "};\n")
	}
	return b.String(), nil
}

// vectorValues returns the textual elements of the known vector base, or nil
// when none of its elements has a value.
func (m *Model) vectorValues(base string) ([]string, error) {
	values := make(map[int]*float64)
	size, valued := 0, false
	for _, n := range m.NodesWithRole(RoleData, RolePriorInfo) {
		if n.Base != base || !n.IsVector() {
			continue
		}
		if err := n.validate(); err != nil {
			return nil, err
		}
		values[*n.Index] = n.Value
		size = max(size, *n.Index+1)
		valued = valued || n.Value != nil
	}
	if !valued {
		return nil, nil
	}
	elems := slices.Repeat([]string{"0.0"}, size)
	for i, v := range values {
		if v != nil {
			elems[i] = prior.FormatFloat(*v)
		}
	}
	return elems, nil
}
