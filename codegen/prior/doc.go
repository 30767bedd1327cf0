// Package prior defines the prior families understood by the model generator.
//
// A Family produces three C++ fragments for a single variable: drawing it from
// the prior, perturbing it (accumulating a log Hastings term into log_H), and
// accumulating its log density into logp. Fragments reference the variable
// through the Placeholder token which Nodes replace with their effective name.
//
// Parameter values are spliced into fragments textually. No escaping is done:
// a parameter whose text contains a {token} used by the same family corrupts
// the output.
package prior
