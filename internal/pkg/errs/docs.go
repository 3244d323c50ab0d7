// Package errs provides the error types shared by every layer of the dispatch service.
//
// Validation errors follow one pattern: a sentinel (ErrValueIsRequired, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrObjectNotFound), a struct carrying the details, constructors with
// and without a cause, and an Unwrap method returning the sentinel so errors.Is works.
//
// The dispatch taxonomy classifies failures by how the caller must react:
//   - ErrNoEligibleDriver: routine, the order is retried on the next matching tick
//   - DataIntegrityError (ErrDataIntegrity): fatal for one order until an operator repairs it
//   - ErrConcurrencyConflict: a lost assignment race, retried with another candidate
//   - ErrSettlementConflict: a duplicate settlement, skipped silently
//   - ErrStoreUnavailable: the live registry is down, callers degrade to "no match"
package errs
