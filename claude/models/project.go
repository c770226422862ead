package models

// ProjectRecord identifies the project directory a session ran in
type ProjectRecord struct {
	Path string `json:"path"`
	Name string `json:"name"`
}
