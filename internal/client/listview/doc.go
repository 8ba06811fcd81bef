// Package listview implements the controller behind every paginated list
// screen: it owns the query state, issues fetches against a remote Source,
// drops responses that arrive after a newer request was issued, and runs
// validated mutations followed by a single refetch.
//
// # State machine
//
//	Idle -> Loading -> {Ready, Error}
//	Ready -> Loading   on a query change or a successful mutation
//	Error -> Loading   on Retry
//
// # Sessions
//
// Every call checks the Guard first. Without a credential nothing reaches
// the network and client.ErrUnauthorized is returned. An unauthorized
// answer from the server logs the Guard out; callers must re-authenticate
// rather than retry.
//
// A View is safe for concurrent use.
package listview
