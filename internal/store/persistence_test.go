package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"codesync/internal/models"
)

type memoryStore struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	files    map[string]string
	failWith error
	closed   bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{projects: map[string]*models.Project{}, files: map[string]string{}}
}

func (m *memoryStore) SaveProject(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *memoryStore) LoadProject(_ context.Context, id string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *memoryStore) SaveFile(_ context.Context, projectID, path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.files[projectID+"/"+path] = content
	return nil
}

func (m *memoryStore) LoadFile(_ context.Context, projectID, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[projectID+"/"+path]
	if !ok {
		return "", ErrNotFound
	}
	return c, nil
}

func (m *memoryStore) Ping(context.Context) error { return m.failWith }

func (m *memoryStore) Close(context.Context) error {
	m.closed = true
	return nil
}

func TestDisabledPersistenceReportsFalse(t *testing.T) {
	p := NewPersistence(nil, nil)
	ctx := context.Background()

	if p.Enabled() {
		t.Fatal("expected disabled persistence")
	}
	if p.SaveProject(ctx, &models.Project{ID: "p1"}) {
		t.Fatal("expected save to report false")
	}
	if _, ok := p.LoadProject(ctx, "p1"); ok {
		t.Fatal("expected load to report absent")
	}
	if p.SaveFile(ctx, "p1", "a.js", "x") {
		t.Fatal("expected save file to report false")
	}
	if err := p.Ready(ctx); err != nil {
		t.Fatalf("disabled store should be ready, got %v", err)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	mem := newMemoryStore()
	p := NewPersistence(mem, nil)
	ctx := context.Background()

	if !p.Enabled() {
		t.Fatal("expected enabled persistence")
	}

	current := "a.js"
	project := &models.Project{ID: "p1", Files: map[string]string{"a.js": "1", "b.js": "2"}, CurrentFile: &current}
	if !p.Archive(ctx, project) {
		t.Fatal("expected archive to succeed")
	}
	if !project.UpdatedAt.IsZero() {
		t.Fatal("expected the caller's project to be left unchanged")
	}

	loaded, ok := p.LoadProject(ctx, "p1")
	if !ok || loaded.Files["b.js"] != "2" {
		t.Fatalf("unexpected project %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatal("expected the stored project to be stamped")
	}
	if content, ok := p.LoadFile(ctx, "p1", "a.js"); !ok || content != "1" {
		t.Fatalf("expected archived file, got %q %v", content, ok)
	}

	if _, ok := p.LoadProject(ctx, "missing"); ok {
		t.Fatal("expected missing project to be absent")
	}
	if _, ok := p.LoadFile(ctx, "p1", "missing.js"); ok {
		t.Fatal("expected missing file to be absent")
	}

	if err := p.Close(ctx); err != nil || !mem.closed {
		t.Fatalf("expected store to be closed, err=%v", err)
	}
}

func TestPersistenceSwallowsBackendErrors(t *testing.T) {
	mem := newMemoryStore()
	mem.failWith = errors.New("connection reset")
	p := NewPersistence(mem, nil)
	ctx := context.Background()

	if p.SaveProject(ctx, &models.Project{ID: "p1"}) {
		t.Fatal("expected failure to collapse to false")
	}
	if _, ok := p.LoadProject(ctx, "p1"); ok {
		t.Fatal("expected failure to collapse to absent")
	}
	if p.SaveFile(ctx, "p1", "a.js", "x") {
		t.Fatal("expected failure to collapse to false")
	}
	if err := p.Ready(ctx); err == nil {
		t.Fatal("expected ready to surface ping error")
	}
}

func TestPersistenceRejectsEmptyIdentifiers(t *testing.T) {
	p := NewPersistence(newMemoryStore(), nil)
	ctx := context.Background()

	if p.SaveProject(ctx, nil) || p.SaveProject(ctx, &models.Project{}) {
		t.Fatal("expected empty project to be rejected")
	}
	if p.SaveFile(ctx, "", "a.js", "x") || p.SaveFile(ctx, "p1", "", "x") {
		t.Fatal("expected empty ids to be rejected")
	}
}
