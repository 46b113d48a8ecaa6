package service

import "errors"

// Local validation failures. These are resolved synchronously, before any
// storage call, and never trigger a reload.
var (
	ErrInvalidInput = errors.New("name must not be empty")
	ErrBusy         = errors.New("a mutation for this node is already in flight")
	ErrClosed       = errors.New("session is closed")
)

// StorageError wraps a storage adapter failure. The adapter's message is
// carried verbatim; nothing is added or rephrased on the way up.
type StorageError struct {
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

// AsStorageError unwraps err to a StorageError if one is in the chain.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
