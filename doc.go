// Package intent coordinates deferred user intents in an application client:
// single-flight confirmation challenges and pending deep-link replay.
//
// It is an umbrella package gluing the core packages together behind two
// entry points:
//  1. New – returns a fully wired coordination Service and
//  2. bridge.Run – serves the coordination core over a stdio JSON-RPC bridge.
//
// The constructor accepts an option structure that can be populated from CLI
// flags or configuration files. Everything is explicitly constructed and
// injected; the module keeps no global mutable state, so tests get isolation
// through fresh instances.
//
// Example:
//
//	svc, _ := intent.New(&intent.Options{FlagsURL: "file:///tmp/flags.json"},
//		intent.WithVerifier(confirm.NewStaticVerifier("1234")))
//	result, _ := svc.RequireConfirmation(ctx, "transfer", &confirm.Options{Title: "Verify"})
package intent
