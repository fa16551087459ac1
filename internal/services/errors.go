package services

import "errors"

// Sentinel errors shared across the service layer. Handlers map these to
// HTTP status codes; callers should compare with errors.Is.
var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicate            = errors.New("record already exists")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrAmountExceedsBalance = errors.New("amount exceeds remaining invoice balance")
	ErrAlreadyRefunded      = errors.New("payment has already been refunded")
	ErrInvalidState         = errors.New("operation not allowed in current state")
	ErrCardDeclined         = errors.New("card was declined")
	ErrInvalidCard          = errors.New("card details are invalid")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidPassword      = errors.New("invalid credentials")
	ErrInvalidRecoveryCode  = errors.New("invalid or expired recovery code")
	ErrNoteLocked           = errors.New("note is locked and cannot be modified")
	ErrScheduleConflict     = errors.New("appointment conflicts with an existing booking")
)
