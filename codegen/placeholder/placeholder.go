// Package placeholder substitutes named placeholder tokens in template text.
//
// Substitution is literal: every occurrence of a token is replaced by its
// value, with no escaping and no template language. A token absent from the
// template is a no-op for the output. Apply still reports it as a
// MissingError so callers can warn about, or reject, templates that silently
// drop generated content.
//
//	out, missing := placeholder.Apply(src, "MyModel.cpp.template", []placeholder.Binding{
//	    {Token: placeholder.FromPrior, Value: body},
//	})
//	for _, err := range missing {
//	    logger.Warn(ctx, "placeholder not found", "err", err)
//	}
package placeholder

import (
	"fmt"
	"strings"
)

// Token is a literal placeholder searched for in template text.
type Token string

const (
	// Declarations receives the member declarations of the header. The token
	// carries its indentation, which the generated block supplies per line.
	Declarations Token = "        {DECLARATIONS}"
	// FromPrior receives the from_prior body.
	FromPrior Token = "{FROM_PRIOR}"
	// Perturb receives the perturb body.
	Perturb Token = "{PERTURB}"
	// LogLikelihood receives the log_likelihood body.
	LogLikelihood Token = "{LOG_LIKELIHOOD}"
	// Print receives the print body.
	Print Token = "{PRINT}"
	// Description receives the description body.
	Description Token = "{DESCRIPTION}"
	// Constants receives the definitions of known values.
	Constants Token = "{CONSTANTS}"
	// Class receives the generated class name.
	Class Token = "{CLASS}"
	// Guard receives the header include guard.
	Guard Token = "{GUARD}"
)

// Binding pairs a token with its replacement.
type Binding struct {
	Token Token
	Value string
}

// MissingError reports a token that does not occur in a template.
type MissingError struct {
	// Template names the template being substituted.
	Template string
	// Token is the placeholder that was not found.
	Token Token
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("placeholder %q not found in %s", strings.TrimSpace(string(e.Token)), e.Template)
}

// Apply replaces the bindings in order and returns the result together with
// one MissingError per token absent from src at the time it was applied.
func Apply(src, template string, bindings []Binding) (string, []error) {
	var missing []error
	for _, b := range bindings {
		if !strings.Contains(src, string(b.Token)) {
			missing = append(missing, &MissingError{Template: template, Token: b.Token})
			continue
		}
		src = strings.ReplaceAll(src, string(b.Token), b.Value)
	}
	return src, missing
}

// Tokens returns the tokens of bindings that occur in src.
func Tokens(src string, bindings []Binding) []Token {
	var found []Token
	for _, b := range bindings {
		if strings.Contains(src, string(b.Token)) {
			found = append(found, b.Token)
		}
	}
	return found
}
