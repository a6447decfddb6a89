package phoneagent

import "github.com/jieyou-io/phone-agent-xiaozhi/spec"

// runState is the working state of one Run invocation. It lives on the
// engine's stack, never in shared storage. Merge rules per field group:
//
//   - task, screenshot, translationRegion, sessionID, model configs, user
//     agents and user skills are fixed at entry and never rewritten.
//   - plan, selected, selectedAgent are overwritten by each planning pass
//     (and seeded from the plan cache when it hits).
//   - pending is the dispatch queue: refilled by planning, drained front to
//     back by dispatch.
//   - actions is replaced wholesale by each acting pass.
//   - effects and timings are append-only across all passes.
//   - systemPromptOverride is set when a persona is applied and kept until
//     a later pass applies a different persona.
//   - skipPlanner is set at entry on a plan-cache hit and never cleared, so
//     every iteration of that run reuses the cached selection.
type runState struct {
	task              string
	screenshot        string
	translationRegion *spec.Region
	sessionID         string

	defaultModel   *spec.ModelConfig
	managerModel   *spec.ModelConfig
	executionModel *spec.ModelConfig
	builtinModels  map[string]*spec.ModelConfig
	userAgents     []spec.AgentPersona
	userSkills     []spec.SkillDefinition

	plan                 []string
	selected             []spec.SkillRef
	pending              []spec.SkillRef
	selectedAgent        *spec.AgentPersona
	systemPromptOverride string
	skipPlanner          bool

	actions []spec.Action
	effects []spec.Effect
	timings []spec.SkillTiming
	done    bool
}

func newRunState(payload spec.TaskPayload) *runState {
	execModel := payload.DefaultModel
	if execModel == nil {
		execModel = payload.ManagerModel
	}
	return &runState{
		task:              payload.Task,
		screenshot:        payload.Screenshot,
		translationRegion: payload.TranslationRegion,
		sessionID:         payload.SessionID,
		defaultModel:      payload.DefaultModel,
		managerModel:      payload.ManagerModel,
		executionModel:    execModel,
		builtinModels:     payload.BuiltinModels,
		userAgents:        payload.UserAgents,
		userSkills:        payload.UserSkills,
	}
}

func (s *runState) result() spec.RunResult {
	return spec.RunResult{
		Actions:      s.actions,
		Effects:      s.effects,
		SkillTimings: s.timings,
		Done:         s.done,
	}
}

// selectedBuiltin reports whether the current selection includes the builtin
// skill with the given id.
func (s *runState) selectedBuiltin(id string) bool {
	for _, ref := range s.selected {
		if ref.Kind == spec.KindBuiltin && ref.ID == id {
			return true
		}
	}
	return false
}

func (s *runState) findUserSkill(id string) (spec.SkillDefinition, bool) {
	for _, def := range s.userSkills {
		if def.ID == id {
			return def, true
		}
	}
	return spec.SkillDefinition{}, false
}
