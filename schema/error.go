package schema

import "github.com/viant/jsonrpc"

const (
	// AlreadyInProgress signals a confirmation request was rejected because
	// another challenge is outstanding.
	AlreadyInProgress = -32010
	// UnknownLink signals a deep link that matched no registered route.
	UnknownLink = -32011
)

// NewAlreadyInProgress creates the wire form of confirm.ErrAlreadyInProgress.
func NewAlreadyInProgress() *jsonrpc.Error {
	return jsonrpc.NewError(AlreadyInProgress, "confirmation already in progress", nil)
}

// NewUnknownLink creates an error for an unroutable deep link URL.
func NewUnknownLink(URL string) *jsonrpc.Error {
	return jsonrpc.NewError(UnknownLink, "unknown link", map[string]interface{}{"url": URL})
}
