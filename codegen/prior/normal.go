package prior

// Normal is the Gaussian prior with mean Mu and standard deviation Sigma.
// Either parameter may reference other nodes, which makes hierarchical models
// expressible.
type Normal struct {
	Mu, Sigma Param
}

const (
	normalFromPrior = "{x} = {mu} + {sigma}*rng.randn();\n"
	normalPerturb   = "log_H -= -0.5*pow((({x}) - ({mu}))/({sigma}), 2);\n" +
		"{x} += ({sigma})*rng.randh();\n" +
		"log_H += -0.5*pow((({x}) - ({mu}))/({sigma}), 2);\n"
	normalLogDensity = "logp += -0.5*log(2*M_PI) - log({sigma}) " +
		"- 0.5*pow((({x}) - ({mu}))/({sigma}), 2);\n"
)

// NewNormal returns the normal prior N(mu, sigma^2).
func NewNormal(mu, sigma Param) *Normal {
	return &Normal{Mu: mu, Sigma: sigma}
}

func newNormal(params ...Param) (Family, error) {
	if err := checkArity("normal", params, 2); err != nil {
		return nil, err
	}
	return NewNormal(params[0], params[1]), nil
}

// Name implements Family.
func (*Normal) Name() string { return "normal" }

// FromPrior implements Family.
func (n *Normal) FromPrior() string { return n.insert(normalFromPrior) }

// Perturb implements Family.
func (n *Normal) Perturb() string { return n.insert(normalPerturb) }

// LogDensity implements Family.
func (n *Normal) LogDensity() string { return n.insert(normalLogDensity) }

func (n *Normal) insert(s string) string {
	return render(s, binding{"{mu}", n.Mu}, binding{"{sigma}", n.Sigma})
}
