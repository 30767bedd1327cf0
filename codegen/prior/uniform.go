package prior

// Uniform is the flat prior on [A, B]. Perturbations wrap around the
// boundaries instead of being rejected.
type Uniform struct {
	A, B Param
}

const (
	uniformFromPrior = "{x} = {a} + ({b} - ({a}))*rng.rand();\n"
	uniformPerturb   = "{x} += ({b} - ({a}))*rng.randh();\n" +
		"wrap({x}, {a}, {b});\n"
	// The sentinel assignment is followed by the unconditional density term,
	// so an out of support value leaves logp at -max + -log(b - a).
	uniformLogDensity = "if({x} < ({a}) || {x} > ({b}))\n" +
		"    logp = -numeric_limits<double>::max();\n" +
		"logp += -log({b} - ({a}));\n"
)

// NewUniform returns the uniform prior on [a, b].
func NewUniform(a, b Param) *Uniform {
	return &Uniform{A: a, B: b}
}

func newUniform(params ...Param) (Family, error) {
	if err := checkArity("uniform", params, 2); err != nil {
		return nil, err
	}
	return NewUniform(params[0], params[1]), nil
}

// Name implements Family.
func (*Uniform) Name() string { return "uniform" }

// FromPrior implements Family.
func (u *Uniform) FromPrior() string { return u.insert(uniformFromPrior) }

// Perturb implements Family.
func (u *Uniform) Perturb() string { return u.insert(uniformPerturb) }

// LogDensity implements Family.
func (u *Uniform) LogDensity() string { return u.insert(uniformLogDensity) }

func (u *Uniform) insert(s string) string {
	return render(s, binding{"{a}", u.A}, binding{"{b}", u.B})
}
