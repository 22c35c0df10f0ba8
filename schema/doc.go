// Package schema defines the wire vocabulary exchanged between the
// coordination core and presentation/navigation transports: JSON-RPC method
// names, request/notification payloads and error helpers.
package schema
