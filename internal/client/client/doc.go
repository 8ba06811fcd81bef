// Package client contains the transport layer of gymadmin.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk to
//     the gym back office: Login, VerifyToken and JSON verbs (Get, Post, Put,
//     Delete) used by the resource services.
//  2. A REST implementation (see HTTPClient) that injects the bearer token
//     through a RoundTripper, tags every request with an X-Request-ID and maps
//     HTTP failures onto the error taxonomy below.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite store that keeps the credential between runs.
//
// # Error Handling
//
// Failures are exposed as sentinel errors that callers match with errors.Is:
// ErrUnauthorized (401/403), ErrUnavailable (connection problems) and
// ErrTimeout (deadline expiry, always together with ErrUnavailable). Any other
// non-2xx response is a *ServerError carrying the server's message verbatim.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every operation accepts a
// context.Context and honours its cancellation and deadline.
package client
