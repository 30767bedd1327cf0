package ir

import (
	"strconv"
	"strings"
)

const indent = "    "

// FromPrior assembles the body of from_prior: coordinate draws first, then
// derived quantities, each group in insertion order.
func (m *Model) FromPrior() (string, error) {
	var b strings.Builder
	for _, role := range []Role{RoleCoordinate, RoleDerived} {
		for _, n := range m.NodesWithRole(role) {
			s, err := n.FromPrior()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

// Perturb assembles the body of perturb. A single coordinate, chosen
// uniformly, is moved per call: guard k selects the k-th coordinate in
// insertion order.
func (m *Model) Perturb() (string, error) {
	coords := m.NodesWithRole(RoleCoordinate)

	var b strings.Builder
	b.WriteString("double log_H = 0.0;\n")
	b.WriteString("int which = rng.rand_int(" + strconv.Itoa(len(coords)) + ");\n")
	for k, n := range coords {
		s, err := n.Perturb()
		if err != nil {
			return "", err
		}
		b.WriteString("if(which == " + strconv.Itoa(k) + ")\n{\n")
		b.WriteString(IndentLines(s, indent))
		b.WriteString("\n}\n")
	}
	b.WriteString("return log_H;\n")
	return b.String(), nil
}

// LogLikelihood assembles the body of log_likelihood from the log densities
// of the data nodes.
func (m *Model) LogLikelihood() (string, error) {
	var b strings.Builder
	b.WriteString("double logp = 0.0;\n\n")
	for _, n := range m.NodesWithRole(RoleData) {
		s, err := n.LogDensity()
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteString("\nreturn logp;")
	return b.String(), nil
}

// Print assembles the body of print: one space separated output statement per
// coordinate.
func (m *Model) Print() string {
	var b strings.Builder
	for _, n := range m.NodesWithRole(RoleCoordinate) {
		b.WriteString("out<<" + n.Name() + "<<\" \";\n")
	}
	return b.String()
}

// Description assembles the body of description, returning the comma
// separated coordinate names.
func (m *Model) Description() string {
	coords := m.NodesWithRole(RoleCoordinate)
	var b strings.Builder
	b.WriteString("string s;\n")
	for i, n := range coords {
		if i < len(coords)-1 {
			b.WriteString("s += \"" + n.Name() + ", \";\n")
			continue
		}
		b.WriteString("s += \"" + n.Name() + "\";\n")
	}
	b.WriteString("return s;")
	return b.String()
}

// IndentLines prefixes every line of s with prefix and joins the lines with
// newlines. The trailing newline of s, if any, is dropped.
func IndentLines(s, prefix string) string {
	lines := splitLines(s)
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
