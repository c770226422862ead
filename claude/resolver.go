package claude

import (
	"strings"

	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude/models"
)

// AgentDelimiter separates the main session id from a sub-agent id in todo
// file names: <session>-agent-<agent>.json
const AgentDelimiter = "-agent-"

// sessionIDLength is the length of a full session id
const sessionIDLength = 36

// Resolve finds the project for a todo file name such as "<id>.json" or
// "<id>-agent-<agent>.json". Matching tiers, first hit wins:
//
//  1. exact id
//  2. main session id before "-agent-"
//  3. prefix match in either direction
//
// Tier 3 walks the map in Go's random order; when several keys qualify,
// any one of them may be returned.
func (idx SessionIndex) Resolve(sessionFileName string) (models.ProjectRecord, bool) {
	baseName := strings.TrimSuffix(sessionFileName, ".json")

	if record, ok := idx[baseName]; ok {
		return record, true
	}

	if mainSessionID, _, found := strings.Cut(baseName, AgentDelimiter); found {
		if record, ok := idx[mainSessionID]; ok {
			return record, true
		}
	}

	head := baseName
	if len(head) > sessionIDLength {
		head = head[:sessionIDLength]
	}
	for sessionID, record := range idx {
		if strings.HasPrefix(baseName, sessionID) || strings.HasPrefix(sessionID, head) {
			return record, true
		}
	}

	return models.ProjectRecord{}, false
}
