package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"codesync/internal/metrics"
	"codesync/internal/models"
)

const DefaultTimeout = 5 * time.Second

// Persistence is the boolean-result face of a DocumentStore. Failures are
// logged and counted here and reported to callers only as false or absent.
type Persistence struct {
	store   DocumentStore
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewPersistence(s DocumentStore, log *zap.Logger) *Persistence {
	if s == nil {
		s = Disabled{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Persistence{store: s, log: log, timeout: DefaultTimeout, now: time.Now}
}

// Enabled reports whether a real backend is configured.
func (p *Persistence) Enabled() bool {
	_, disabled := p.store.(Disabled)
	return !disabled
}

// SaveProject stores a copy of project stamped with the save time. The
// caller's value is left untouched.
func (p *Persistence) SaveProject(ctx context.Context, project *models.Project) bool {
	if project == nil || project.ID == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stamped := *project
	stamped.UpdatedAt = p.now().UTC()
	err := p.store.SaveProject(ctx, &stamped)
	p.observe("save_project", err, zap.String("project_id", project.ID))
	return err == nil
}

func (p *Persistence) LoadProject(ctx context.Context, id string) (*models.Project, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	project, err := p.store.LoadProject(ctx, id)
	if errors.Is(err, ErrNotFound) {
		metrics.StoreOperations.WithLabelValues("load_project", "not_found").Inc()
		return nil, false
	}
	p.observe("load_project", err, zap.String("project_id", id))
	if err != nil {
		return nil, false
	}
	return project, true
}

func (p *Persistence) SaveFile(ctx context.Context, projectID, path, content string) bool {
	if projectID == "" || path == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.store.SaveFile(ctx, projectID, path, content)
	p.observe("save_file", err, zap.String("project_id", projectID), zap.String("file_path", path))
	return err == nil
}

func (p *Persistence) LoadFile(ctx context.Context, projectID, path string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	content, err := p.store.LoadFile(ctx, projectID, path)
	if errors.Is(err, ErrNotFound) {
		metrics.StoreOperations.WithLabelValues("load_file", "not_found").Inc()
		return "", false
	}
	p.observe("load_file", err, zap.String("project_id", projectID), zap.String("file_path", path))
	if err != nil {
		return "", false
	}
	return content, true
}

// Archive saves a project document followed by one file record per file.
// It reports true only when every write succeeded.
func (p *Persistence) Archive(ctx context.Context, project *models.Project) bool {
	ok := p.SaveProject(ctx, project)
	if !ok {
		return false
	}
	for path, content := range project.Files {
		if !p.SaveFile(ctx, project.ID, path, content) {
			ok = false
		}
	}
	return ok
}

// Ready pings the backend. A disabled store is always ready.
func (p *Persistence) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.store.Ping(ctx)
}

func (p *Persistence) Close(ctx context.Context) error {
	return p.store.Close(ctx)
}

func (p *Persistence) observe(op string, err error, fields ...zap.Field) {
	if errors.Is(err, ErrDisabled) {
		metrics.StoreOperations.WithLabelValues(op, "disabled").Inc()
		return
	}
	metrics.StoreOperations.WithLabelValues(op, metrics.Outcome(err)).Inc()
	if err != nil {
		p.log.Warn("document store operation failed",
			append(fields, zap.String("operation", op), zap.Error(err))...)
	}
}
