// Package link decouples the arrival of a deep link from the moment the
// application can act on it. A one-slot Buffer holds the most recent
// unconsumed link; a Dispatcher watches readiness signals (authentication,
// navigation mounted) and replays the buffered link to a Router exactly once.
// Replay is best-effort: a link consumed but not routed is lost, never
// re-buffered.
package link
