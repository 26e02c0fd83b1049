package serverutils

import "errors"

// Sentinel errors services wrap so the error middleware can pick the right
// HTTP status without the service layer knowing about HTTP.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)
