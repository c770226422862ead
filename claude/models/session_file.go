package models

import "time"

// SessionFile is one todo file snapshot as shown in the session list.
// It is rebuilt from disk on every scan.
type SessionFile struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Mtime       time.Time `json:"mtime"`
	TodoCount   int       `json:"todoCount"`
	Preview     string    `json:"preview"`
	ProjectName *string   `json:"projectName"`
	ProjectPath *string   `json:"projectPath"`
}

// SetProject fills the project fields from a resolved record.
// ProjectName stays nil for a nameless project.
func (f *SessionFile) SetProject(p ProjectRecord) {
	path := p.Path
	f.ProjectPath = &path
	if p.Name != "" {
		name := p.Name
		f.ProjectName = &name
	}
}
