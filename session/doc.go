// Package session tracks the authentication-state collaborator: the current
// session token, a readiness predicate derived from it, and transition
// notifications that drive pending-link replay. It also persists
// "recently verified" flags, the key-value collaborator state surrounding
// confirmation challenges.
package session
