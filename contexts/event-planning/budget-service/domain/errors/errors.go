package errors

import "errors"

var (
	ErrInvalidInput           = errors.New("budget input is invalid")
	ErrEventNotFound          = errors.New("event not found")
	ErrPackageNotFound        = errors.New("package deal not found")
	ErrPackageInactive        = errors.New("package deal is no longer active")
	ErrPackageIncompatible    = errors.New("package event type does not match event")
	ErrNotOwner               = errors.New("actor does not own this event")
	ErrPartialApply           = errors.New("package recorded but budget update incomplete")
	ErrIdempotencyKeyConflict = errors.New("idempotency key already used with different payload")
	ErrStorageUnavailable     = errors.New("budget storage unavailable")
)
