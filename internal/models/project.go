package models

import "time"

// Project is the persisted form of a room's file tree.
type Project struct {
	ID          string            `json:"id" bson:"_id"`
	Files       map[string]string `json:"files" bson:"files"`
	CurrentFile *string           `json:"current_file" bson:"current_file,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

// ProjectFromState copies a room snapshot into a project document.
func ProjectFromState(id string, state RoomState) *Project {
	files := make(map[string]string, len(state.Files))
	for path, content := range state.Files {
		files[path] = content
	}
	var current *string
	if state.CurrentFile != nil {
		c := *state.CurrentFile
		current = &c
	}
	return &Project{ID: id, Files: files, CurrentFile: current}
}
