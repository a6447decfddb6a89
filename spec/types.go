// Package spec holds the shared data types, collaborator contracts, and
// sentinel errors of the phone-agent orchestration core. The engine, the
// planner/executor, and every skill speak in terms of these types; transport
// and persistence layers construct them and consume the results.
package spec

import "strings"

// ModelConfig is an opaque credential bundle for one chat-completion endpoint.
// It is resolved per call site (skill override, agent model, device default)
// and never interpreted beyond Usable.
type ModelConfig struct {
	BaseURL string         `yaml:"base_url" json:"base_url,omitempty"`
	APIKey  string         `yaml:"api_key"  json:"api_key,omitempty"`
	Model   string         `yaml:"model"    json:"model,omitempty"`
	Config  map[string]any `yaml:"config"   json:"config,omitempty"`
}

// Usable reports whether the config carries everything a call needs.
// Unusable configs are treated as absent at every call site.
func (m *ModelConfig) Usable() bool {
	if m == nil {
		return false
	}
	return strings.TrimSpace(m.BaseURL) != "" &&
		strings.TrimSpace(m.APIKey) != "" &&
		strings.TrimSpace(m.Model) != ""
}

// Effect is a typed, schema-validated auxiliary outcome produced by a skill
// (alert, translation, composition hint, ...). Effects are append-only: once
// added to a run they are never mutated.
type Effect struct {
	Type    string         `yaml:"type"    json:"type"`
	Payload map[string]any `yaml:"payload" json:"payload"`
}

// Action is the single primary device action produced by the executor.
// It keeps the original wire shape: "_metadata" is "do" or "finish", the
// remaining keys are free-form keyword fields ("action", "text", "message",
// coordinates, ...).
type Action map[string]any

// SkillResult is what a skill's Analyze returns.
type SkillResult struct {
	Message string   `json:"message"`
	Effects []Effect `json:"effects"`
}

// Region is a screenshot sub-rectangle in screen coordinates, used to crop
// before translation. ScreenWidth/ScreenHeight describe the coordinate space;
// zero values fall back to the image dimensions.
type Region struct {
	X            int `json:"x"`
	Y            int `json:"y"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	ScreenWidth  int `json:"screen_width,omitempty"`
	ScreenHeight int `json:"screen_height,omitempty"`
}

// SkillContext is the per-dispatch context handed to Analyze. ModelConfig may
// be nil or unusable; skills must fall back to deterministic answers then.
type SkillContext struct {
	Screenshot        string
	ModelConfig       *ModelConfig
	TranslationRegion *Region
	Client            ChatCompleter
}

// AgentPersona is a user-defined persona: if selected, its system prompt and
// model override supersede the default prompting for the primary action.
type AgentPersona struct {
	ID           string       `yaml:"id"            json:"id"`
	Name         string       `yaml:"name"          json:"name"`
	SystemPrompt string       `yaml:"system_prompt" json:"system_prompt"`
	Model        *ModelConfig `yaml:"model"         json:"model,omitempty"`
}

// SubSkillDefinition is one nested prompt inside a user-defined skill.
// Sub-skills may nest further; execution is capped globally by depth and
// total call count.
type SubSkillDefinition struct {
	ID           string               `yaml:"id"            json:"id"`
	SystemPrompt string               `yaml:"system_prompt" json:"system_prompt"`
	Model        *ModelConfig         `yaml:"model"         json:"model,omitempty"`
	Effects      []Effect             `yaml:"effects"       json:"effects,omitempty"`
	SubSkills    []SubSkillDefinition `yaml:"sub_skills"    json:"sub_skills,omitempty"`
}

// SkillDefinition is a stored user-authored skill. Definitions are per-device
// data: they travel with the task payload and are never registered globally.
// IDs carry the UserSkillIDPrefix.
type SkillDefinition struct {
	ID           string               `yaml:"id"            json:"id"`
	Name         string               `yaml:"name"          json:"name"`
	Description  string               `yaml:"description"   json:"description"`
	Icon         string               `yaml:"icon"          json:"icon,omitempty"`
	SystemPrompt string               `yaml:"system_prompt" json:"system_prompt"`
	Model        *ModelConfig         `yaml:"model"         json:"model,omitempty"`
	Effects      []Effect             `yaml:"effects"       json:"effects,omitempty"`
	SubSkills    []SubSkillDefinition `yaml:"sub_skills"    json:"sub_skills,omitempty"`
}

// UserSkillIDPrefix marks user-authored skill identifiers ("user:<id>").
const UserSkillIDPrefix = "user:"

// SkillKind distinguishes built-in from user-defined skills. Refs are tagged
// once at selection time; dispatch never inspects id prefixes.
type SkillKind int

const (
	KindBuiltin SkillKind = iota
	KindUser
)

// SkillRef identifies one selected skill awaiting dispatch.
type SkillRef struct {
	Kind SkillKind
	ID   string
}

// ResolveSkillRef tags a selected identifier.
func ResolveSkillRef(id string) SkillRef {
	if strings.HasPrefix(id, UserSkillIDPrefix) {
		return SkillRef{Kind: KindUser, ID: id}
	}
	return SkillRef{Kind: KindBuiltin, ID: id}
}

// SkillTiming records one dispatch. Status is 1 on success, 0 on failure,
// matching the original wire format.
type SkillTiming struct {
	SkillID     string `json:"skill_id"`
	ExecutionMS int64  `json:"execution_ms"`
	Status      int    `json:"status"`
}

// TaskPayload is the run invocation input, supplied fully parsed by the
// surrounding service.
type TaskPayload struct {
	Task              string                  `json:"task"`
	Screenshot        string                  `json:"screenshot,omitempty"`
	TranslationRegion *Region                 `json:"translation_region,omitempty"`
	SessionID         string                  `json:"session_id,omitempty"`
	DefaultModel      *ModelConfig            `json:"default_model,omitempty"`
	ManagerModel      *ModelConfig            `json:"manager_model,omitempty"`
	BuiltinModels     map[string]*ModelConfig `json:"builtin_models,omitempty"`
	UserAgents        []AgentPersona          `json:"user_agents,omitempty"`
	UserSkills        []SkillDefinition       `json:"user_skills,omitempty"`
}

// RunResult is the aggregated outcome of one completed run.
type RunResult struct {
	Actions      []Action      `json:"actions"`
	Effects      []Effect      `json:"effects"`
	SkillTimings []SkillTiming `json:"skill_timings"`
	Done         bool          `json:"done"`
}

// MessageRole values for conversation history entries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn. ImageB64 optionally inlines a JPEG screenshot
// into a user turn.
type Message struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ImageB64 string `json:"-"`
}
