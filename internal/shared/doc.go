// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler for asserting on
// log output and fixture writers that lay out cleaned country CSV files in a
// temporary data directory.
package shared
