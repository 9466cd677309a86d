package template

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no template exists for the requested id.
var ErrNotFound = errors.New("template not found")

// ErrMissingFields is returned by Validate when the name or the content is empty.
// Whitespace counts as content.
var ErrMissingFields = errors.New("name and content are required")

// Template represents a stored text template
type Template struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Validate checks the fields a template must carry before it is stored.
func Validate(name, content string) error {
	if name == "" || content == "" {
		return ErrMissingFields
	}
	return nil
}

type Database interface {
	GetTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id int64) (*Template, error)
	AddTemplate(ctx context.Context, name, content string) (int64, error)
	UpdateTemplate(ctx context.Context, id int64, name, content string) error
	DeleteTemplate(ctx context.Context, id int64) error
}
