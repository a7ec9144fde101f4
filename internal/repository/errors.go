// Package repository defines sentinel error values reused across the data
// access layer. Handlers use these to pick response codes: ErrInvalidState
// maps to 422 and ErrConflict to 409. Absence of a row is reported with
// sql.ErrNoRows, as returned by the driver; ownership checks happen in the
// handlers, where the acting user is known.
package repository

import "errors"

// ErrInvalidState is returned when a state machine rule rejects the
// operation: re-deciding a resolved change request, closing a job twice,
// or a job status transition not valid from the current status.
var ErrInvalidState = errors.New("invalid state")

// ErrConflict is returned when an insert collides with existing state,
// such as registering a phone number that already has an account.
var ErrConflict = errors.New("conflict")
