package mongostore

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"codesync/internal/models"
	"codesync/internal/store"
)

func TestStoreAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save project upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))
		s := New(mt.DB)
		if err := s.SaveProject(context.Background(), &models.Project{ID: "p1", Files: map[string]string{"a.js": "1"}}); err != nil {
			t.Fatalf("SaveProject returned error: %v", err)
		}
	})

	mt.Run("load project decodes document", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + projectsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "files", Value: bson.D{{Key: "a.js", Value: "1"}}},
		}))
		s := New(mt.DB)
		p, err := s.LoadProject(context.Background(), "p1")
		if err != nil {
			t.Fatalf("LoadProject returned error: %v", err)
		}
		if p.ID != "p1" || p.Files["a.js"] != "1" {
			t.Fatalf("unexpected project %+v", p)
		}
	})

	mt.Run("load project missing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + projectsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		s := New(mt.DB)
		if _, err := s.LoadProject(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("save file surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		s := New(mt.DB)
		if err := s.SaveFile(context.Background(), "p1", "a.js", "x"); err == nil {
			t.Fatal("expected write error")
		}
	})

	mt.Run("load file", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + filesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: fileID("p1", "a.js")},
			{Key: "project_id", Value: "p1"},
			{Key: "path", Value: "a.js"},
			{Key: "content", Value: "hello"},
		}))
		s := New(mt.DB)
		content, err := s.LoadFile(context.Background(), "p1", "a.js")
		if err != nil || content != "hello" {
			t.Fatalf("unexpected file %q, %v", content, err)
		}
	})
}

func TestConnectRequiresURI(t *testing.T) {
	if _, err := Connect(context.Background(), "", "codesync"); err == nil {
		t.Fatal("expected error for empty uri")
	}
}
