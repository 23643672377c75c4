// Package state routes text updates to the handler of the user's current
// dialogue step. Where the state lives is up to the caller.
package state
