// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrUserNotFound signals that a referenced user row does not
// exist, while ErrProductNameExists signals a uniqueness violation that
// handlers translate into an HTTP 409 response.
package repository

import "errors"

// ErrUserNotFound is returned when a user id or username resolves to no
// row. Handlers should translate this into an HTTP 404 response (or 401
// during login, where the two credential failures must look identical).
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when registration collides with an
// existing username. Handlers should translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrProductNotFound is returned when a product id resolves to no row.
var ErrProductNotFound = errors.New("product not found")

// ErrProductNameExists is returned when a create or update would give two
// products the same name.
var ErrProductNameExists = errors.New("product name already exists")

// ErrEmptyCart is returned when order placement finds nothing in the
// user's cart. Handlers should translate this into HTTP 400.
var ErrEmptyCart = errors.New("cart is empty")
