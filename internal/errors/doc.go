// Package errors provides structured, actionable error messages for the
// dhframe command line.
//
// Library packages return plain sentinel errors. The CLI maps them to
// coded errors with FromError and prints them with Format, FormatCompact
// or FormatJSON:
//
//	err := errors.FromError(serveErr)
//	errors.Fprint(os.Stderr, err)
//	// Output:
//	// ERROR E110: Backend failed to start
//	//
//	//   The widget backend could not listen on the configured address.
//	//
//	//   Hint: Pick a free port with --port or DHFRAME_SERVER_PORT.
//
// # Error Codes
//
//   - E100-E109: widget errors (unsupported type, missing session, unknown kind)
//   - E110-E119: backend errors
//   - E120-E129: configuration errors
//   - E130-E139: host errors
package errors
