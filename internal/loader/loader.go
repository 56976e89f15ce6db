// Package loader defines the contract every format-specific reader
// (legacy, cfn, wcnf, opb, uai, qpbo) consumes to build a problem: the
// same wcsp.Builder interface internal/wcsp.WCSP implements directly, so
// no format-specific package needs to know anything about reversibility,
// EPTs, or propagation (spec.md §6.1, SPEC_FULL.md §6.1).
package loader

import "fmt"

// ErrWrongFormat is returned by a format-specific reader when its input
// does not match the format it was asked to parse — the single fatal-at-
// load error class spec.md §7 names.
type ErrWrongFormat struct {
	Format string
	Reason string
}

func (e *ErrWrongFormat) Error() string {
	return fmt.Sprintf("loader: invalid %s input: %s", e.Format, e.Reason)
}
