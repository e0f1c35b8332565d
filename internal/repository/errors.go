// Package repository implements the data access layer on top of MySQL.
// Sentinel errors let handlers map failures to HTTP codes without string
// matching: ErrNotFound becomes 404, ErrEmailExists 409 and so on.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert collides with the unique email
// index on users or agencies.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot proceed because of
// dependent state.
var ErrConflict = errors.New("conflict")
