// Package service implements the business logic over the relational
// store. Failures are reported through the sentinel errors below so
// handlers can translate them into HTTP responses with errors.Is,
// without inspecting driver-specific error text.
package service

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on uniqueness violations: a duplicate
// favorite or cart entry, a duplicate follow, or removing a
// membership row that is not there.
var ErrConflict = errors.New("conflict")

// ErrValidation is returned for malformed or missing fields in an
// otherwise well-formed request, e.g. duplicate tags within one
// recipe submission.
var ErrValidation = errors.New("validation error")

// ErrSelfFollow is returned when a user attempts to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

// ErrPermission is returned when an authenticated caller is neither
// the owner of the resource nor an admin.
var ErrPermission = errors.New("permission denied")

// ErrUnauthenticated is returned when the operation requires a
// session and the caller is anonymous.
var ErrUnauthenticated = errors.New("authentication required")

// ErrEmptyCart is returned by the shopping list builder when the
// user's cart holds no recipes; callers render it as "no content".
var ErrEmptyCart = errors.New("shopping cart is empty")
