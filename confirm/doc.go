// Package confirm serializes user-facing confirmation challenges (PIN entry,
// re-authentication) so that at most one challenge is outstanding at a time.
//
// A caller opens a challenge with Service.Request and suspends until the
// presentation layer resolves it through Submit, Cancel or Fail. Concurrent
// Request calls fail immediately with ErrAlreadyInProgress; they never queue
// and never disturb the outstanding challenge. Presentation layers observe
// visibility changes through Service.Subscribe.
//
// Failure to verify a credential is data, not an error: the caller receives a
// Result with OutcomeFailed and decides about retries itself.
package confirm
