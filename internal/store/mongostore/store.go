package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codesync/internal/models"
	"codesync/internal/store"
)

const (
	projectsCollection = "projects"
	filesCollection    = "files"
)

type fileDoc struct {
	ID        string    `bson:"_id"`
	ProjectID string    `bson:"project_id"`
	Path      string    `bson:"path"`
	Content   string    `bson:"content"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store keeps projects and files in two collections of one database.
type Store struct {
	client   *mongo.Client
	projects *mongo.Collection
	files    *mongo.Collection
}

// Connect dials uri and returns a store over database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := New(client.Database(dbName))
	s.client = client
	return s, nil
}

// New wraps an existing database handle.
func New(db *mongo.Database) *Store {
	return &Store{
		projects: db.Collection(projectsCollection),
		files:    db.Collection(filesCollection),
	}
}

func fileID(projectID, path string) string {
	return projectID + ":" + path
}

func (s *Store) SaveProject(ctx context.Context, p *models.Project) error {
	_, err := s.projects.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) SaveFile(ctx context.Context, projectID, path, content string) error {
	doc := fileDoc{
		ID:        fileID(projectID, path),
		ProjectID: projectID,
		Path:      path,
		Content:   content,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.files.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save file %s: %w", doc.ID, err)
	}
	return nil
}

func (s *Store) LoadFile(ctx context.Context, projectID, path string) (string, error) {
	var doc fileDoc
	if err := s.files.FindOne(ctx, bson.M{"_id": fileID(projectID, path)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("load file %s: %w", fileID(projectID, path), err)
	}
	return doc.Content, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ store.DocumentStore = (*Store)(nil)
