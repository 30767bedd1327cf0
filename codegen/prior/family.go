package prior

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Placeholder is the token standing for the bound variable in fragments.
const Placeholder = "{x}"

type (
	// Family is a prior distribution able to render its code fragments.
	// Implementations are immutable and every method is a pure function of the
	// family parameters.
	Family interface {
		// Name returns the registry name of the family (e.g. "uniform").
		Name() string
		// FromPrior returns the fragment initializing {x} with a prior draw.
		FromPrior() string
		// Perturb returns the fragment proposing a new value for {x} and
		// accumulating the log Hastings contribution into log_H.
		Perturb() string
		// LogDensity returns the fragment adding the log density of {x} to logp.
		LogDensity() string
	}

	// Param is the textual value of a family parameter. It may be a numeric
	// literal, an arbitrary expression or the name of another node.
	Param string

	// Constructor builds a family from its parameters.
	Constructor func(params ...Param) (Family, error)

	// binding maps a fragment token such as "{a}" to the parameter spliced in.
	binding struct {
		token string
		value Param
	}
)

// Const returns the parameter for a numeric constant. Integral values keep a
// trailing ".0" so that the generated C++ stays in floating point arithmetic.
func Const(v float64) Param {
	return Param(FormatFloat(v))
}

// Expr returns the parameter for an arbitrary expression.
func Expr(s string) Param {
	return Param(s)
}

// Ref returns the parameter referencing another node by its name.
func Ref(s fmt.Stringer) Param {
	return Param(s.String())
}

// String returns the parameter text.
func (p Param) String() string {
	return string(p)
}

// FormatFloat renders v as a floating point literal.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}

// render replaces each binding token in order.
func render(tmpl string, bindings ...binding) string {
	for _, b := range bindings {
		tmpl = strings.ReplaceAll(tmpl, b.token, string(b.value))
	}
	return tmpl
}

var registry = map[string]Constructor{
	"uniform":    newUniform,
	"normal":     newNormal,
	"loguniform": newLogUniform,
	"cauchy":     newCauchy,
}

// Lookup returns the constructor registered under name.
func Lookup(name string) (Constructor, bool) {
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// Names returns the registered family names in lexicographic order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func checkArity(family string, params []Param, want int) error {
	if len(params) != want {
		return fmt.Errorf("%s prior takes %d parameters, got %d", family, want, len(params))
	}
	return nil
}
