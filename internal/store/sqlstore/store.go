package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"codesync/internal/models"
	"codesync/internal/store"
)

type projectRow struct {
	ID          string            `gorm:"primaryKey"`
	Files       map[string]string `gorm:"serializer:json"`
	CurrentFile *string
	UpdatedAt   time.Time
}

func (projectRow) TableName() string { return "projects" }

type fileRow struct {
	ProjectID string `gorm:"primaryKey"`
	Path      string `gorm:"primaryKey"`
	Content   string
	UpdatedAt time.Time
}

func (fileRow) TableName() string { return "project_files" }

// Store persists projects through gorm; the same schema serves sqlite and
// postgres.
type Store struct {
	db *gorm.DB
}

func OpenSQLite(path string) (*Store, error) {
	return Open(sqlite.Open(path))
}

func OpenPostgres(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("POSTGRES_DSN is empty")
	}
	return Open(postgres.Open(dsn))
}

func Open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&projectRow{}, &fileRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveProject(ctx context.Context, p *models.Project) error {
	row := projectRow{ID: p.ID, Files: p.Files, CurrentFile: p.CurrentFile, UpdatedAt: p.UpdatedAt}
	if row.Files == nil {
		row.Files = map[string]string{}
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	var row projectRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}
	return &models.Project{
		ID:          row.ID,
		Files:       row.Files,
		CurrentFile: row.CurrentFile,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (s *Store) SaveFile(ctx context.Context, projectID, path, content string) error {
	row := fileRow{ProjectID: projectID, Path: path, Content: content}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save file %s/%s: %w", projectID, path, err)
	}
	return nil
}

func (s *Store) LoadFile(ctx context.Context, projectID, path string) (string, error) {
	var row fileRow
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND path = ?", projectID, path).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load file %s/%s: %w", projectID, path, err)
	}
	return row.Content, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ store.DocumentStore = (*Store)(nil)
