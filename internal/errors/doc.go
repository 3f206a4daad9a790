// Package errors provides structured, actionable errors for searchroute.
//
// Each error carries a code (e.g., "E101") that maps to a short message,
// a longer explanation and a documentation link:
//
//	err := errors.New("E101").
//	    WithDetail("href must be absolute").
//	    WithSuggestion("Send location.href, not location.pathname")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Invalid location
//	//
//	//   href must be absolute
//	//
//	//   Hint: Send location.href, not location.pathname
//	//
//	//   Learn more: https://searchroute.dev/docs/errors/E101
//
// # Error Categories
//
//   - request: a client sent an unusable location, state or message
//   - config: searchroute.json / searchroute.yaml problems
//   - cli: command-line usage problems
//
// The URL translation itself never fails; these errors come from the
// layers around it.
package errors
