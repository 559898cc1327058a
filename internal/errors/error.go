// Package errors provides custom error types for product-related operations.
package errors

import "errors"

// ErrProductNotFound is returned by the store when the referenced product id does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrUserNotFound is returned by the user store when no user has the requested login.
var ErrUserNotFound = errors.New("user not found")

// ErrLoginTaken is returned when registering a login that already exists.
var ErrLoginTaken = errors.New("login already taken")

// ErrPasswordTooLong is returned when a password exceeds the bytes bcrypt can hash.
var ErrPasswordTooLong = errors.New("password is too long")

// ErrInvalidCredentials is returned when a login/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// BusinessRuleError is a recoverable violation of an inventory rule.
// Message is meant to be shown to the API caller as is.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// PreconditionError signals caller misuse of the service, e.g. deleting a draft.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

var (
	ErrInvalidQuantity   = &BusinessRuleError{Message: "Passed quantity should be equal or higher than 1"}
	ErrInsufficientStock = &BusinessRuleError{Message: "Product's current quantity is less than passed quantity"}
	ErrStockOverflow     = &BusinessRuleError{Message: "Product's quantity would exceed the storage limit"}
	ErrInvalidValue      = &BusinessRuleError{Message: "Product's value must have at most 2 decimal places and 10 integer digits"}
	ErrUnsavedProduct    = &PreconditionError{Message: "Can't delete an unsaved product"}
	ErrUnsavedUpdate     = &PreconditionError{Message: "Can't update an unsaved product"}
)
