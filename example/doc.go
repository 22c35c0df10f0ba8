// Package example contains runnable integrations of the coordination core:
// a terminal presentation handler and a confirmation-guarded shell action.
package example
