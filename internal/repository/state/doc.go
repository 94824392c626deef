// Package state persists the breaker snapshot so a restarted server resumes
// in the pause state it was left in. The snapshot stores the packed state
// word; unpacking and validation happen in the domain package when the word
// is restored.
package state
