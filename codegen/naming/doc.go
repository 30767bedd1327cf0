// Package naming contains the naming helpers used by the model generator.
//
// The functions in this package derive the generated class identifier, its
// include guard and the artifact file names from a user supplied model name so
// that header and source always agree.
package naming
