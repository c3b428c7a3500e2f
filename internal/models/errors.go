package models

import "errors"

var (
	// ErrInvalidProduct is returned when a product is missing required fields.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrDuplicateProduct is returned when a product name is already in the catalog.
	ErrDuplicateProduct = errors.New("duplicate product")
	// ErrNotFound is returned when a product or resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrItemNotInCart is returned when updating a cart item that is not present.
	ErrItemNotInCart = errors.New("item not in cart")
	// ErrInvalidQuery is returned for unsupported sort modes or malformed listing requests.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrMissingCredentials is returned by the demo login when email or password is empty.
	ErrMissingCredentials = errors.New("missing email or password")
)
