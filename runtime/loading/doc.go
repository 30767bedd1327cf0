// Package loading reads the numeric text files consumed alongside generated
// models: sampler output and observed data stored one row per line.
//
// LoadRows extracts selected rows without parsing the rest of the file;
// LoadTable parses a whole file into a rectangular table. Both accept float32
// or float64 element types.
package loading
