package prior

// Cauchy is the heavy tailed prior with location Loc and scale Scale.
type Cauchy struct {
	Loc, Scale Param
}

const (
	cauchyFromPrior = "{x} = {loc} + ({scale})*tan(M_PI*(rng.rand() - 0.5));\n"
	cauchyPerturb   = "log_H -= -log(1.0 + pow((({x}) - ({loc}))/({scale}), 2));\n" +
		"{x} += ({scale})*rng.randh();\n" +
		"log_H += -log(1.0 + pow((({x}) - ({loc}))/({scale}), 2));\n"
	cauchyLogDensity = "logp += -log(M_PI*({scale})) " +
		"- log(1.0 + pow((({x}) - ({loc}))/({scale}), 2));\n"
)

// NewCauchy returns the Cauchy prior centered on loc.
func NewCauchy(loc, scale Param) *Cauchy {
	return &Cauchy{Loc: loc, Scale: scale}
}

func newCauchy(params ...Param) (Family, error) {
	if err := checkArity("cauchy", params, 2); err != nil {
		return nil, err
	}
	return NewCauchy(params[0], params[1]), nil
}

// Name implements Family.
func (*Cauchy) Name() string { return "cauchy" }

// FromPrior implements Family.
func (c *Cauchy) FromPrior() string { return c.insert(cauchyFromPrior) }

// Perturb implements Family.
func (c *Cauchy) Perturb() string { return c.insert(cauchyPerturb) }

// LogDensity implements Family.
func (c *Cauchy) LogDensity() string { return c.insert(cauchyLogDensity) }

func (c *Cauchy) insert(s string) string {
	return render(s, binding{"{loc}", c.Loc}, binding{"{scale}", c.Scale})
}
