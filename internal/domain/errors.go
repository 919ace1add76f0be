package domain

import "errors"

var (
	// ErrSessionNotFound is returned when an assessment session has not been opened.
	ErrSessionNotFound = errors.New("assessment session not found")
	// ErrScaleNotFound indicates the scale definition could not be loaded.
	ErrScaleNotFound = errors.New("scale not found")
	// ErrItemNotFound indicates a submitted item ID is not part of the scale.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidOption indicates a value that is not one of the item's options.
	ErrInvalidOption = errors.New("value is not an option of the item")
	// ErrIncomplete is returned when scoring is requested before every item is answered.
	ErrIncomplete = errors.New("assessment incomplete")
	// ErrInvalidTransition is returned when a trigger is not allowed on the current screen.
	ErrInvalidTransition = errors.New("invalid transition for current screen")
	// ErrSessionInUse is returned when a session is already attached to another connection.
	ErrSessionInUse = errors.New("assessment session already in use")
	// ErrInvalidDefinition wraps scale definition validation failures.
	ErrInvalidDefinition = errors.New("invalid scale definition")
)
