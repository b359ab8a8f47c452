/*
errors.go - Centralized error types for the economy package

PURPOSE:
  All sentinel errors in one place. Packages above (logistics, journal,
  api) wrap these with additional context rather than defining their own
  variants of the same failure.

USAGE:
  if errors.Is(err, economy.ErrUnknownKind) { ... }
*/
package economy

import "errors"

var (
	// ErrUnknownKind is returned when a resource kind name does not match
	// any declared kind.
	ErrUnknownKind = errors.New("unknown resource kind")

	// ErrFacilityExists is returned when registering a facility whose ID
	// is already registered.
	ErrFacilityExists = errors.New("facility already registered")

	// ErrFacilityNotFound is returned when a facility ID is not registered.
	ErrFacilityNotFound = errors.New("facility not found")
)
