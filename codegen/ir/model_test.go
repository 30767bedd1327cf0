package ir_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnest4/modelgen/codegen/ir"
	"github.com/dnest4/modelgen/codegen/prior"
)

// linearRegression builds the straight line fit used throughout the tests.
func linearRegression() *ir.Model {
	m := ir.NewModel()
	m.AddNode(ir.NewNode("m", prior.NewUniform(prior.Const(-10), prior.Const(10))))
	m.AddNode(ir.NewNode("b", prior.NewUniform(prior.Const(-10), prior.Const(10))))
	sigma := ir.NewNode("sigma", prior.NewUniform(prior.Const(0), prior.Const(10)))
	m.AddNode(sigma)
	for i := range 5 {
		m.AddNode(ir.NewNode("x", nil, ir.WithRole(ir.RolePriorInfo), ir.WithIndex(i), ir.WithValue(3.2)))
		mu := prior.Expr(fmt.Sprintf("m*x[%d] + b", i))
		m.AddNode(ir.NewNode("y", prior.NewNormal(mu, prior.Ref(sigma)), ir.WithRole(ir.RoleData), ir.WithIndex(i)))
	}
	m.AddNode(ir.NewNode("C", nil, ir.WithRole(ir.RolePriorInfo), ir.WithValue(5.4)))
	return m
}

func TestNodeNames(t *testing.T) {
	scalar := ir.NewNode("sigma", nil)
	assert.Equal(t, "sigma", scalar.Name())
	assert.Equal(t, ir.RoleCoordinate, scalar.Role)
	assert.False(t, scalar.IsVector())

	elem := ir.NewNode("y", nil, ir.WithIndex(3), ir.WithRole(ir.RoleData))
	assert.Equal(t, "y[3]", elem.Name())
	assert.Equal(t, "y[3]", elem.String())
	assert.Equal(t, "y", elem.Base)
	assert.True(t, elem.IsVector())
}

func TestNodeBindsFragments(t *testing.T) {
	n := ir.NewNode("y", prior.NewNormal("0.0", "s"), ir.WithIndex(2))

	fp, err := n.FromPrior()
	require.NoError(t, err)
	assert.Equal(t, "y[2] = 0.0 + s*rng.randn();\n", fp)

	ld, err := n.LogDensity()
	require.NoError(t, err)
	assert.NotContains(t, ld, prior.Placeholder)
	assert.Contains(t, ld, "((y[2]) - (0.0))")
}

func TestNodeWithoutPrior(t *testing.T) {
	n := ir.NewNode("C", nil, ir.WithRole(ir.RolePriorInfo))
	_, err := n.FromPrior()
	require.ErrorIs(t, err, ir.ErrNoPrior)
	assert.Contains(t, err.Error(), "C")

	m := ir.NewModel()
	m.AddNode(ir.NewNode("a", nil))
	_, err = m.FromPrior()
	require.ErrorIs(t, err, ir.ErrNoPrior)
	_, err = m.Perturb()
	require.ErrorIs(t, err, ir.ErrNoPrior)

	// Knowns without priors do not take part in prior dependent passes.
	m = ir.NewModel()
	m.AddNode(ir.NewNode("C", nil, ir.WithRole(ir.RolePriorInfo)))
	_, err = m.FromPrior()
	require.NoError(t, err)
	_, err = m.LogLikelihood()
	require.NoError(t, err)
}

func TestParseRole(t *testing.T) {
	for _, r := range []ir.Role{ir.RoleCoordinate, ir.RoleDerived, ir.RoleData, ir.RolePriorInfo} {
		got, err := ir.ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := ir.ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, ir.RoleCoordinate, got)
	got, err = ir.ParseRole("Prior_Info")
	require.NoError(t, err)
	assert.Equal(t, ir.RolePriorInfo, got)

	_, err = ir.ParseRole("latent")
	require.Error(t, err)
	assert.Equal(t, "role(9)", ir.Role(9).String())
}

func TestAddNodeOverwritesInPlace(t *testing.T) {
	m := ir.NewModel()
	m.AddNode(ir.NewNode("a", prior.NewUniform("0.0", "1.0")))
	m.AddNode(ir.NewNode("b", prior.NewUniform("0.0", "1.0")))
	replacement := ir.NewNode("a", prior.NewNormal("0.0", "1.0"))
	m.AddNode(replacement)

	require.Equal(t, 2, m.Len())
	got, ok := m.Node("a")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, []string{"a", "b"}, names(m.Nodes()))
}

func TestVectorNamesReflectCurrentNodes(t *testing.T) {
	m := ir.NewModel()
	m.AddNode(ir.NewNode("v", nil, ir.WithIndex(0)))
	m.AddNode(ir.NewNode("w", nil, ir.WithIndex(0), ir.WithRole(ir.RoleDerived)))
	m.AddNode(ir.NewNode("u", nil, ir.WithIndex(1)))
	m.AddNode(ir.NewNode("v", nil, ir.WithIndex(1)))
	assert.Equal(t, []string{"v", "w", "u"}, m.VectorNames(ir.RoleCoordinate, ir.RoleDerived))
	assert.Equal(t, []string{"w"}, m.VectorNames(ir.RoleDerived))

	// Replacing the only element of w by a data node removes it from the derived vectors.
	m.AddNode(ir.NewNode("w", nil, ir.WithIndex(0), ir.WithRole(ir.RoleData)))
	assert.Empty(t, m.VectorNames(ir.RoleDerived))
	assert.Equal(t, []string{"w"}, m.VectorNames(ir.RoleData))
}

func TestLinearRegressionBlocks(t *testing.T) {
	m := linearRegression()

	fp, err := m.FromPrior()
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(fp, "rng.rand()"))
	assert.Equal(t,
		"m = -10.0 + (10.0 - (-10.0))*rng.rand();\n"+
			"b = -10.0 + (10.0 - (-10.0))*rng.rand();\n"+
			"sigma = 0.0 + (10.0 - (0.0))*rng.rand();\n",
		fp)

	pt, err := m.Perturb()
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(pt, "if(which == "))
	assert.Contains(t, pt, "int which = rng.rand_int(3);\n")
	assert.True(t, strings.HasPrefix(pt, "double log_H = 0.0;\n"))
	assert.True(t, strings.HasSuffix(pt, "return log_H;\n"))
	assert.Contains(t, pt,
		"if(which == 2)\n{\n"+
			"    sigma += (10.0 - (0.0))*rng.randh();\n"+
			"    wrap(sigma, 0.0, 10.0);\n"+
			"}\n")

	ll, err := m.LogLikelihood()
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(ll, "logp += "))
	assert.True(t, strings.HasPrefix(ll, "double logp = 0.0;\n\n"))
	assert.True(t, strings.HasSuffix(ll, "\nreturn logp;"))
	assert.Contains(t, ll, "logp += -0.5*log(2*M_PI) - log(sigma) - 0.5*pow(((y[4]) - (m*x[4] + b))/(sigma), 2);\n")

	assert.Equal(t, "out<<m<<\" \";\nout<<b<<\" \";\nout<<sigma<<\" \";\n", m.Print())
	assert.Equal(t,
		"string s;\n"+
			"s += \"m, \";\n"+
			"s += \"b, \";\n"+
			"s += \"sigma\";\n"+
			"return s;",
		m.Description())
}

func TestLinearRegressionDeclarations(t *testing.T) {
	m := linearRegression()
	assert.Equal(t,
		"        double m;\n"+
			"        double b;\n"+
			"        double sigma;\n"+
			"\n"+
			"        static const double C;\n"+
			"\n"+
			"        static const std::vector<double> x;\n"+
			"        static const std::vector<double> y;\n"+
			"\n",
		m.Declarations())
}

func TestDeclarationsOfVectorUnknowns(t *testing.T) {
	m := ir.NewModel()
	m.AddNode(ir.NewNode("z", nil, ir.WithIndex(0), ir.WithRole(ir.RoleDerived)))
	m.AddNode(ir.NewNode("a", nil, ir.WithIndex(0)))
	m.AddNode(ir.NewNode("z", nil, ir.WithIndex(1), ir.WithRole(ir.RoleDerived)))
	m.AddNode(ir.NewNode("k", nil))
	assert.Equal(t,
		"        double k;\n"+
			"        std::vector<double> z;\n"+
			"        std::vector<double> a;\n"+
			"\n\n\n",
		m.Declarations())
}

func TestDefinitions(t *testing.T) {
	m := linearRegression()
	defs, err := m.Definitions("MyModel")
	require.NoError(t, err)
	assert.Equal(t,
		"const double MyModel::C = 5.4;\n"+
			"const std::vector<double> MyModel::x{3.2, 3.2, 3.2, 3.2, 3.2};\n",
		defs)

	gaps := ir.NewModel()
	require.NoError(t, gaps.AddNode(ir.NewNode("d", nil, ir.WithRole(ir.RoleData), ir.WithIndex(2), ir.WithValue(1))))
	require.NoError(t, gaps.AddNode(ir.NewNode("d", nil, ir.WithRole(ir.RoleData), ir.WithIndex(0), ir.WithValue(-4.5))))
	defs, err = gaps.Definitions("M")
	require.NoError(t, err)
	assert.Equal(t, "const std::vector<double> M::d{-4.5, 0.0, 1.0};\n", defs)
}

func TestAddNodeRejectsNegativeIndex(t *testing.T) {
	m := ir.NewModel()
	err := m.AddNode(ir.NewNode("d", nil, ir.WithRole(ir.RoleData), ir.WithIndex(-1), ir.WithValue(1)))
	require.ErrorIs(t, err, ir.ErrInvalidIndex)
	assert.Equal(t, 0, m.Len())
}

func TestDefinitionsRejectsNegativeIndex(t *testing.T) {
	m := ir.NewModel()
	n := ir.NewNode("d", nil, ir.WithRole(ir.RoleData), ir.WithIndex(0), ir.WithValue(1))
	require.NoError(t, m.AddNode(n))
	*n.Index = -1

	var defs string
	var err error
	require.NotPanics(t, func() { defs, err = m.Definitions("M") })
	require.ErrorIs(t, err, ir.ErrInvalidIndex)
	assert.Empty(t, defs)
}

func TestDescriptionWithoutCoordinates(t *testing.T) {
	m := ir.NewModel()
	m.AddNode(ir.NewNode("C", nil, ir.WithRole(ir.RolePriorInfo)))
	assert.Equal(t, "string s;\nreturn s;", m.Description())
	assert.Empty(t, m.Print())

	pt, err := m.Perturb()
	require.NoError(t, err)
	assert.Equal(t, "double log_H = 0.0;\nint which = rng.rand_int(0);\nreturn log_H;\n", pt)
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "    a\n    \n    b", ir.IndentLines("a\n\nb\n", "    "))
	assert.Equal(t, "", ir.IndentLines("", "    "))
	assert.Equal(t, "  x", ir.IndentLines("x", "  "))
}

func names(nodes []*ir.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
