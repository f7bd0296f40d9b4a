package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("pricing input is invalid")
	ErrNoBasePricing      = errors.New("no base pricing for service type")
	ErrPricingUnavailable = errors.New("pricing collaborator unavailable")
)
