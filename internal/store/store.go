package store

import (
	"context"
	"errors"

	"codesync/internal/models"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrDisabled = errors.New("document store disabled")
)

// DocumentStore persists project snapshots and individual files. Backends
// return ErrNotFound for absent documents and wrap every other cause.
type DocumentStore interface {
	SaveProject(ctx context.Context, p *models.Project) error
	LoadProject(ctx context.Context, id string) (*models.Project, error)
	SaveFile(ctx context.Context, projectID, path, content string) error
	LoadFile(ctx context.Context, projectID, path string) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Disabled is the store used when no backend is configured.
type Disabled struct{}

func (Disabled) SaveProject(context.Context, *models.Project) error { return ErrDisabled }

func (Disabled) LoadProject(context.Context, string) (*models.Project, error) {
	return nil, ErrDisabled
}

func (Disabled) SaveFile(context.Context, string, string, string) error { return ErrDisabled }

func (Disabled) LoadFile(context.Context, string, string) (string, error) { return "", ErrDisabled }

func (Disabled) Ping(context.Context) error  { return nil }
func (Disabled) Close(context.Context) error { return nil }
