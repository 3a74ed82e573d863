package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrAIUnavailable      = errors.New("AI service unavailable")
	ErrStorageUnavailable = errors.New("image storage unavailable")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("%s must be a valid UUID", field)
	}
	return id, nil
}
