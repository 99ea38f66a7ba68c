// Package preflight checks that the storefront can start and keep client
// state before a command relies on it.
//
// The package validates:
//   - Configuration values
//   - The catalog source parses and validates
//   - The storage directory is writable
//   - The storage backend opens and accepts a write
//   - Free disk space next to the storage file
//
// Use the Checker type to run all validations:
//
//	checker := preflight.New()
//	results := checker.RunAll(ctx, cfg)
//	if checker.HasCriticalFailures(results) {
//	    // Handle failures
//	}
package preflight
