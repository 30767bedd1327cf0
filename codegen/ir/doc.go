// Package ir provides the deterministic intermediate representation used as
// the sole input to model code generation.
//
// A Model is an insertion ordered collection of Nodes. Each aggregation pass
// walks the nodes in insertion order, filtered by role, and concatenates the
// fragments produced by the nodes' prior families. The ordering is part of
// the output contract: coordinates are initialized before derived quantities
// and perturb dispatch index k selects the k-th coordinate.
package ir
