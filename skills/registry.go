// Package skills provides the built-in skill capabilities, the explicit
// registry they are served from, and the generic interpreter for user-defined
// skills. User-defined skills are never registered here: they are per-device
// data and travel with the task payload.
package skills

import (
	"sort"
	"strings"
	"sync"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// Registry holds built-in skill implementations keyed by id. It is
// constructed at startup and passed by reference into the orchestrator; there
// is no process-wide singleton.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]spec.Skill
}

func NewRegistry() *Registry {
	return &Registry{skills: map[string]spec.Skill{}}
}

// DefaultRegistry returns a registry populated with the four built-in skills.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []spec.Skill{
		NewAntiScam(),
		NewTranslator(),
		NewPhotoComposition(),
		NewDoudizhu(),
	} {
		// Built-ins have unique ids; Register cannot fail here.
		_ = r.Register(s)
	}
	return r
}

func (r *Registry) Register(s spec.Skill) error {
	id := strings.TrimSpace(s.ID())
	if id == "" {
		return spec.ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.skills[id]; ok {
		return spec.ErrSkillAlreadyExists
	}
	r.skills[id] = s
	return nil
}

func (r *Registry) Get(id string) (spec.Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.skills[id]
	return s, ok
}

// All returns the registered skills sorted by id.
func (r *Registry) All() []spec.Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]spec.Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// IDs returns the registered skill ids sorted ascending.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID()
	}
	return ids
}
