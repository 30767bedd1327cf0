package prior_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnest4/modelgen/codegen/prior"
)

type named string

func (n named) String() string { return string(n) }

func TestConstFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{-10, "-10.0"},
		{0, "0.0"},
		{3.2, "3.2"},
		{10, "10.0"},
		{1e-7, "1e-07"},
		{2.5e21, "2.5e+21"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, prior.Const(c.in).String(), "Const(%v)", c.in)
	}
}

func TestRefUsesNodeName(t *testing.T) {
	assert.Equal(t, prior.Param("sigma"), prior.Ref(named("sigma")))
}

func TestUniformFragments(t *testing.T) {
	u := prior.NewUniform(prior.Const(-10), prior.Const(10))

	assert.Equal(t, "{x} = -10.0 + (10.0 - (-10.0))*rng.rand();\n", u.FromPrior())
	assert.Equal(t,
		"{x} += (10.0 - (-10.0))*rng.randh();\n"+
			"wrap({x}, -10.0, 10.0);\n",
		u.Perturb())
	assert.Equal(t,
		"if({x} < (-10.0) || {x} > (10.0))\n"+
			"    logp = -numeric_limits<double>::max();\n"+
			"logp += -log(10.0 - (-10.0));\n",
		u.LogDensity())
}

func TestUniformSupportBoundaryIsInclusive(t *testing.T) {
	u := prior.NewUniform(prior.Const(0), prior.Const(1))
	ld := u.LogDensity()

	// Only values strictly outside [a, b] reach the sentinel.
	assert.Contains(t, ld, "{x} < (0.0)")
	assert.Contains(t, ld, "{x} > (1.0)")
	assert.NotContains(t, ld, "<=")
	assert.NotContains(t, ld, ">=")
	assert.Contains(t, ld, "logp += -log(1.0 - (0.0));")
}

func TestNormalFragments(t *testing.T) {
	n := prior.NewNormal(prior.Expr("m*x[0] + b"), prior.Ref(named("sigma")))

	assert.Equal(t, "{x} = m*x[0] + b + sigma*rng.randn();\n", n.FromPrior())
	assert.Equal(t,
		"log_H -= -0.5*pow((({x}) - (m*x[0] + b))/(sigma), 2);\n"+
			"{x} += (sigma)*rng.randh();\n"+
			"log_H += -0.5*pow((({x}) - (m*x[0] + b))/(sigma), 2);\n",
		n.Perturb())
	assert.Equal(t,
		"logp += -0.5*log(2*M_PI) - log(sigma) - 0.5*pow((({x}) - (m*x[0] + b))/(sigma), 2);\n",
		n.LogDensity())
}

func TestFragmentsHaveBalancedParentheses(t *testing.T) {
	families := []prior.Family{
		prior.NewUniform(prior.Const(-1), prior.Const(1)),
		prior.NewNormal(prior.Const(0), prior.Const(1)),
		prior.NewLogUniform(prior.Const(0.1), prior.Const(10)),
		prior.NewCauchy(prior.Const(0), prior.Const(2)),
	}
	for _, f := range families {
		for _, frag := range []string{f.FromPrior(), f.Perturb(), f.LogDensity()} {
			assert.Equal(t, strings.Count(frag, "("), strings.Count(frag, ")"), "%s: %q", f.Name(), frag)
			assert.Contains(t, frag, prior.Placeholder, "%s: %q", f.Name(), frag)
			assert.True(t, strings.HasSuffix(frag, "\n"), "%s: %q", f.Name(), frag)
		}
	}
}

func TestFlatFamiliesHaveNoHastingsTerm(t *testing.T) {
	assert.NotContains(t, prior.NewUniform("0.0", "1.0").Perturb(), "log_H")
	assert.NotContains(t, prior.NewLogUniform("1.0", "2.0").Perturb(), "log_H")
	assert.Contains(t, prior.NewCauchy("0.0", "1.0").Perturb(), "log_H -=")
}

func TestFragmentsArePure(t *testing.T) {
	n := prior.NewNormal("0.0", "1.0")
	require.Equal(t, n.Perturb(), n.Perturb())
	require.Equal(t, n.LogDensity(), n.LogDensity())
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"cauchy", "loguniform", "normal", "uniform"}, prior.Names())

	ctor, ok := prior.Lookup("Normal")
	require.True(t, ok)
	f, err := ctor("0.0", "1.0")
	require.NoError(t, err)
	assert.Equal(t, "normal", f.Name())

	_, err = ctor("0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes 2 parameters")

	_, ok = prior.Lookup("gamma")
	assert.False(t, ok)
}
