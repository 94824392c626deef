// Package client implements the business logic of the breaker-pause and
// breaker-unpause binaries: detect the actor, push the transition, retry
// while the server is unreachable, and stop immediately on a precondition
// rejection.
package client
