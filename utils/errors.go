package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error taxonomy for the approval workflow. Controllers wrap these with %w
// and map them to HTTP statuses at the boundary.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotUndoable  = errors.New("not undoable")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusForError maps a taxonomy error onto an HTTP status. Anything outside
// the taxonomy is a 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNotUndoable):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
