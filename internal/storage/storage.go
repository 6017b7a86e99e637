// Package storage persists user feedback submissions.
package storage

import (
	"context"
	"errors"

	"vetremind/internal/model"
)

var (
	// ErrEmptyMessage is returned when a submission has no message text.
	ErrEmptyMessage = errors.New("feedback message is empty")
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("feedback not found")
)

// Feedback is an append-only log of user submissions.
type Feedback interface {
	Insert(ctx context.Context, f *model.Feedback) error
	List(ctx context.Context, limit int) ([]model.Feedback, error)
	Delete(ctx context.Context, id int64) error

	Close() error
}
