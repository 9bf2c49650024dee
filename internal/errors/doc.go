// Package errors provides the coded, human-readable errors printed by
// signalctl.
//
// Library packages return plain sentinel and typed errors. The CLI
// converts them at the edge with FromError, which picks a registered code
// for known causes (unknown signal, type mismatch, failed mutation, store
// failures) and keeps the original error reachable through Unwrap.
//
// # Error Codes
//
// Each code maps to a category, a short message and a longer detail:
//
//	S0xx  signal registry and writes
//	C0xx  configuration
//	P0xx  persistence
//	N0xx  serving and telemetry
//
// # Usage
//
//	err := errors.New("C001").
//	    WithLocation("signalctl.json", 4, 17).
//	    WithSuggestion("Remove the trailing comma")
//
//	fmt.Fprint(os.Stderr, err.Format())
package errors
