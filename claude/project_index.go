package claude

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude/models"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// ProjectDirMarker prefixes every encoded project directory name and stands
// in for each path separator of the encoded path.
const ProjectDirMarker = "-"

// sessionIDPattern accepts any 36 hex-or-hyphen characters. Hyphen
// positions are not checked.
var sessionIDPattern = regexp.MustCompile(`(?i)^[0-9a-f-]{36}$`)

// SessionIndex maps session ids to the project they ran in
type SessionIndex map[string]models.ProjectRecord

// IsSessionID reports whether name looks like a session id
func IsSessionID(name string) bool {
	return sessionIDPattern.MatchString(name)
}

// DecodeProjectDirName converts an encoded project directory name back to
// the path it was derived from: -Users-foo-bar -> /Users/foo/bar.
// Hyphens that were part of the original path come back as separators too.
func DecodeProjectDirName(name string) string {
	return strings.ReplaceAll(name, ProjectDirMarker, "/")
}

// NewProjectRecord builds the record for an encoded project directory name.
// A project rooted at "/" has no name.
func NewProjectRecord(dirName string) models.ProjectRecord {
	projectPath := DecodeProjectDirName(dirName)
	name := filepath.Base(projectPath)
	if name == "/" || name == "." {
		name = ""
	}
	return models.ProjectRecord{
		Path: projectPath,
		Name: name,
	}
}

// BuildSessionIndex scans projectsDir and indexes every session id found in
// its project directories. A missing or unreadable root yields an empty index.
func BuildSessionIndex(projectsDir string) SessionIndex {
	index, err := buildSessionIndex(projectsDir)
	if err != nil {
		log.Warn().Err(err).Str("projectsDir", projectsDir).Msg("failed to build session index")
	}
	return index
}

// buildSessionIndex returns whatever it managed to index along with the
// error that stopped it, if any. Per-project failures are logged and skipped.
func buildSessionIndex(projectsDir string) (SessionIndex, error) {
	index := make(SessionIndex)

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return index, fmt.Errorf("read projects dir: %w", err)
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ProjectDirMarker) {
			continue
		}

		projectDir := filepath.Join(projectsDir, entry.Name())

		// Stat follows symlinks so linked project dirs are included
		info, err := os.Stat(projectDir)
		if err != nil {
			log.Debug().Err(err).Str("dir", projectDir).Msg("skipping unreadable project entry")
			continue
		}
		if !info.IsDir() {
			continue
		}

		if err := indexProjectDir(index, projectDir, NewProjectRecord(entry.Name())); err != nil {
			log.Warn().Err(err).Str("dir", projectDir).Msg("failed to index project directory")
		}
	}

	return index, nil
}

// indexProjectDir records every session id entry (bare directory or
// <id>.jsonl file) in projectDir
func indexProjectDir(index SessionIndex, projectDir string, record models.ProjectRecord) error {
	items, err := os.ReadDir(projectDir)
	if err != nil {
		return fmt.Errorf("read project dir: %w", err)
	}

	for _, item := range items {
		sessionID := strings.TrimSuffix(item.Name(), ".jsonl")
		if IsSessionID(sessionID) {
			index[sessionID] = record
		}
	}
	return nil
}

// ProjectIndex holds the current SessionIndex for a projects root.
// The index is replaced wholesale on Rebuild, never patched.
type ProjectIndex struct {
	projectsDir string

	mu    sync.RWMutex
	index SessionIndex
}

// NewProjectIndex creates an index for projectsDir. Call Rebuild to scan.
func NewProjectIndex(projectsDir string) *ProjectIndex {
	return &ProjectIndex{
		projectsDir: projectsDir,
		index:       make(SessionIndex),
	}
}

// Rebuild rescans the projects root and swaps in the new index.
// Returns the number of indexed sessions.
func (p *ProjectIndex) Rebuild() int {
	index := BuildSessionIndex(p.projectsDir)

	p.mu.Lock()
	p.index = index
	p.mu.Unlock()

	log.Info().
		Str("projectsDir", p.projectsDir).
		Int("sessionCount", len(index)).
		Msg("session index built")
	return len(index)
}

// Resolve looks up the project for a todo file name
func (p *ProjectIndex) Resolve(sessionFileName string) (models.ProjectRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.index.Resolve(sessionFileName)
}

// Len returns the number of indexed sessions
func (p *ProjectIndex) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.index)
}

// ProjectsDir returns the scanned root
func (p *ProjectIndex) ProjectsDir() string {
	return p.projectsDir
}

// ProjectSummary is one distinct project in the index
type ProjectSummary struct {
	models.ProjectRecord
	SessionCount int `json:"sessionCount"`
}

// Projects returns the distinct projects in the index, sorted by path
func (p *ProjectIndex) Projects() []ProjectSummary {
	p.mu.RLock()
	counts := make(map[models.ProjectRecord]int)
	for _, record := range p.index {
		counts[record]++
	}
	p.mu.RUnlock()

	result := make([]ProjectSummary, 0, len(counts))
	for record, count := range counts {
		result = append(result, ProjectSummary{ProjectRecord: record, SessionCount: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}
