package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrPredict             = errors.New("prediction failed")
	ErrSave                = errors.New("session save failed")
	ErrManifestUnavailable = errors.New("model manifest not available; model may not be loaded")
)
