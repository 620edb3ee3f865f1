package chat

import "errors"

// Typed error set of the gateway. Transport and API failures outside this
// set surface as generic errors and trigger saga compensation; the not-found
// variants are treated as already-satisfied on cleanup paths.
var (
	ErrAuthFailed     = errors.New("chat backend: authentication failed")
	ErrRoomNotFound   = errors.New("chat backend: room not found")
	ErrMemberNotFound = errors.New("chat backend: member not found")
)
