package sessionstore

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

const (
	defaultPlanCacheSize = 4096
	defaultPlanCacheTTL  = 24 * time.Hour
)

// PlanEntry is a cached planning outcome for one session. A cached entry is
// reused only when the trimmed task text matches exactly.
type PlanEntry struct {
	Task          string
	Plan          []string
	SelectedRefs  []spec.SkillRef
	SelectedAgent *spec.AgentPersona
}

// PlanCache memoizes planner results keyed by session id, so repeated
// invocations of the same task in one session skip planning entirely.
type PlanCache struct {
	lru *expirable.LRU[string, PlanEntry]
}

func NewPlanCache() *PlanCache {
	return &PlanCache{
		lru: expirable.NewLRU[string, PlanEntry](defaultPlanCacheSize, nil, defaultPlanCacheTTL),
	}
}

// Get returns the cached entry when session and trimmed task both match.
func (c *PlanCache) Get(sessionID, task string) (PlanEntry, bool) {
	if sessionID == "" || task == "" {
		return PlanEntry{}, false
	}
	entry, ok := c.lru.Get(sessionID)
	if !ok || entry.Task != strings.TrimSpace(task) {
		return PlanEntry{}, false
	}
	return entry, true
}

// Set overwrites the session's cached plan. Empty session ids are ignored.
func (c *PlanCache) Set(sessionID, task string, plan []string, refs []spec.SkillRef, agent *spec.AgentPersona) {
	if sessionID == "" {
		return
	}
	c.lru.Add(sessionID, PlanEntry{
		Task:          strings.TrimSpace(task),
		Plan:          append([]string(nil), plan...),
		SelectedRefs:  append([]spec.SkillRef(nil), refs...),
		SelectedAgent: agent,
	})
}

// Remove drops a session's cached plan, typically on disconnect.
func (c *PlanCache) Remove(sessionID string) {
	c.lru.Remove(sessionID)
}
