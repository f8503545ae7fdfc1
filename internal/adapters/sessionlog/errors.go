package sessionlog

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrClosed = errors.New("session store closed")
	ErrEncode = errors.New("session record not encodable")
	ErrOpen   = errors.New("session log not openable")
	ErrWrite  = errors.New("session log write failed")
)
