package staff

import "errors"

// Sentinel errors for the staff service layer.
var (
	ErrNotFound = errors.New("staff member not found")
	ErrConflict = errors.New("staff e_mail already registered")
	ErrInvalid  = errors.New("invalid staff data")
)
