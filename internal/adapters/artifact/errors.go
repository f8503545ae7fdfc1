package artifact

import (
	"errors"
)

// Sentinel kinds for artifact errors.
var (
	ErrModelUnreadable    = errors.New("model artifact unreadable")
	ErrModelMalformed     = errors.New("model artifact malformed")
	ErrManifestUnreadable = errors.New("manifest unreadable")
	ErrManifestMalformed  = errors.New("manifest malformed")
	ErrInputWidth         = errors.New("input width mismatch")
)
