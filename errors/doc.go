// Package errors provides structured error types for the gtid-sets library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type and format names, and
// a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOverflow).
//		Path("gtid", "seqno").
//		GoType("int64").
//		Format("Text").
//		Detail("sequence number exceeds 2^63-2").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Malformed("Expected number", 17)
//	err := errors.AllocationFailed(errors.PhaseStore, 4096)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
