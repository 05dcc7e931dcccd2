package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"codesync/internal/models"
	"codesync/internal/store"
)

// Store keeps each project as a JSON string under project:{id} and its files
// in a hash under project:{id}:files keyed by path.
type Store struct {
	rdb *redis.Client
}

func New(addr string) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func projectKey(id string) string { return "project:" + id }
func filesKey(id string) string { return "project:" + id + ":files" }

func (s *Store) SaveProject(ctx context.Context, p *models.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.ID, err)
	}
	if err := s.rdb.Set(ctx, projectKey(p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	data, err := s.rdb.Get(ctx, projectKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}
	var p models.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) SaveFile(ctx context.Context, projectID, path, content string) error {
	if err := s.rdb.HSet(ctx, filesKey(projectID), path, content).Err(); err != nil {
		return fmt.Errorf("save file %s/%s: %w", projectID, path, err)
	}
	return nil
}

func (s *Store) LoadFile(ctx context.Context, projectID, path string) (string, error) {
	content, err := s.rdb.HGet(ctx, filesKey(projectID), path).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load file %s/%s: %w", projectID, path, err)
	}
	return content, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close(context.Context) error {
	return s.rdb.Close()
}

var _ store.DocumentStore = (*Store)(nil)
