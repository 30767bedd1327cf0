package prior

// LogUniform is the prior with density proportional to 1/x on [A, B], A > 0.
// Moves are made in log space where the prior is flat, so no Hastings term is
// needed.
type LogUniform struct {
	A, B Param
}

const (
	logUniformFromPrior = "{x} = exp(log({a}) + log(({b})/({a}))*rng.rand());\n"
	logUniformPerturb   = "{x} = log({x});\n" +
		"{x} += log(({b})/({a}))*rng.randh();\n" +
		"wrap({x}, log({a}), log({b}));\n" +
		"{x} = exp({x});\n"
	logUniformLogDensity = "if({x} < ({a}) || {x} > ({b}))\n" +
		"    logp = -numeric_limits<double>::max();\n" +
		"logp += -log({x}) - log(log(({b})/({a})));\n"
)

// NewLogUniform returns the log-uniform prior on [a, b].
func NewLogUniform(a, b Param) *LogUniform {
	return &LogUniform{A: a, B: b}
}

func newLogUniform(params ...Param) (Family, error) {
	if err := checkArity("loguniform", params, 2); err != nil {
		return nil, err
	}
	return NewLogUniform(params[0], params[1]), nil
}

// Name implements Family.
func (*LogUniform) Name() string { return "loguniform" }

// FromPrior implements Family.
func (l *LogUniform) FromPrior() string { return l.insert(logUniformFromPrior) }

// Perturb implements Family.
func (l *LogUniform) Perturb() string { return l.insert(logUniformPerturb) }

// LogDensity implements Family.
func (l *LogUniform) LogDensity() string { return l.insert(logUniformLogDensity) }

func (l *LogUniform) insert(s string) string {
	return render(s, binding{"{a}", l.A}, binding{"{b}", l.B})
}
