// Package planner selects the skills and optional user agent for a task,
// preferring a manager-model decision and falling back to keyword matching.
package planner

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/jieyou-io/phone-agent-xiaozhi/modelapi"
	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// Inputs carries everything one planning pass may consult.
type Inputs struct {
	Task         string
	Builtins     []spec.Skill
	UserSkills   []spec.SkillDefinition
	UserAgents   []spec.AgentPersona
	ManagerModel *spec.ModelConfig
}

// Result is the planning outcome. Skills preserve selection order and are
// already tagged builtin or user; Agent is nil when no persona matched.
type Result struct {
	Plan   []string
	Skills []spec.SkillRef
	Agent  *spec.AgentPersona
}

type Planner struct {
	client spec.ChatCompleter
	logger *slog.Logger
}

func New(client spec.ChatCompleter, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{client: client, logger: logger}
}

// Run plans the task. A usable manager model is tried first; any failure in
// that path (call error, unparseable output) falls back to keyword matching
// rather than surfacing an error.
func (p *Planner) Run(ctx context.Context, in Inputs) Result {
	if p.client != nil && in.ManagerModel.Usable() {
		if res, ok := p.runWithModel(ctx, in); ok {
			p.logger.Info("planner model selection",
				"skills", refIDs(res.Skills), "agent", agentID(res.Agent))
			return res
		}
		p.logger.Warn("planner model selection failed, falling back to keywords")
	}

	res := Result{
		Plan:   fixedPlan(in.Task),
		Skills: p.selectByKeywords(in.Task, in.UserSkills),
		Agent:  selectUserAgent(in.Task, in.UserAgents),
	}
	p.logger.Info("planner keyword selection",
		"skills", refIDs(res.Skills), "agent", agentID(res.Agent))
	return res
}

// fixedPlan is the three-step outline every run follows.
func fixedPlan(task string) []string {
	return []string{"分析任务: " + task, "执行已选技能", "汇报动作"}
}

func (p *Planner) selectByKeywords(task string, userSkills []spec.SkillDefinition) []spec.SkillRef {
	lowered := strings.ToLower(task)
	normalized := normalizeText(task)

	var selected []spec.SkillRef
	add := func(id string) {
		selected = append(selected, spec.SkillRef{Kind: spec.KindBuiltin, ID: id})
	}

	if hasAny(normalized, translatorKeywords) {
		add("translator")
	}
	if hasAny(normalized, antiScamKeywords) || strings.Contains(lowered, "scam") {
		add("anti_scam")
	}
	if hasAny(normalized, doudizhuKeywords) || strings.Contains(lowered, "doudizhu") {
		add("doudizhu")
	}
	if hasAny(normalized, photoCompositionKeywords) {
		add("photo_composition")
	}

	seen := map[string]struct{}{}
	for _, ref := range selected {
		seen[ref.ID] = struct{}{}
	}
	for _, def := range userSkills {
		if _, dup := seen[def.ID]; dup {
			continue
		}
		name := normalizeText(def.Name)
		if name != "" && strings.Contains(normalized, name) {
			selected = append(selected, spec.ResolveSkillRef(def.ID))
			seen[def.ID] = struct{}{}
		}
	}
	return selected
}

// selectUserAgent returns the first persona whose name or id appears in the
// task text, in declaration order.
func selectUserAgent(task string, agents []spec.AgentPersona) *spec.AgentPersona {
	lowered := strings.ToLower(task)
	for i := range agents {
		name := strings.ToLower(agents[i].Name)
		if name != "" && strings.Contains(lowered, name) {
			return &agents[i]
		}
		id := strings.ToLower(agents[i].ID)
		if id != "" && strings.Contains(lowered, id) {
			return &agents[i]
		}
	}
	return nil
}

type skillChoice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type agentChoice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *Planner) runWithModel(ctx context.Context, in Inputs) (Result, bool) {
	known := map[string]spec.SkillRef{}
	var choices []skillChoice
	for _, s := range in.Builtins {
		known[s.ID()] = spec.SkillRef{Kind: spec.KindBuiltin, ID: s.ID()}
		choices = append(choices, skillChoice{ID: s.ID(), Name: s.Name(), Description: s.Description()})
	}
	for _, def := range in.UserSkills {
		known[def.ID] = spec.ResolveSkillRef(def.ID)
		choices = append(choices, skillChoice{ID: def.ID, Name: def.Name, Description: def.Description})
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].ID < choices[j].ID })

	var agents []agentChoice
	for _, a := range in.UserAgents {
		agents = append(agents, agentChoice{ID: a.ID, Name: a.Name})
	}

	skillsJSON, err := json.Marshal(choices)
	if err != nil {
		return Result{}, false
	}
	agentsJSON, err := json.Marshal(agents)
	if err != nil {
		return Result{}, false
	}

	systemPrompt := "你是一个规划器。选择相关技能（内置或用户自定义），并可选选择一个用户智能体。" +
		"请根据技能描述做出判断。" +
		"如果没有适用技能，请返回空的 skills 数组。" +
		`仅返回 JSON：{"skills": ["skill_id"]}。` +
		"可用技能：" + string(skillsJSON) + "。" +
		"用户智能体：" + string(agentsJSON) + "。"

	messages := []spec.Message{
		{Role: spec.RoleSystem, Content: systemPrompt},
		{Role: spec.RoleUser, Content: in.Task},
	}
	raw, err := p.client.Complete(ctx, *in.ManagerModel, messages)
	if err != nil {
		p.logger.Warn("planner model call failed", "error", err)
		return Result{}, false
	}
	parsed, ok := modelapi.ExtractJSONObject(raw)
	if !ok {
		p.logger.Warn("planner model output is not a JSON object", "length", len(raw))
		return Result{}, false
	}

	var refs []spec.SkillRef
	if rawSkills, isList := parsed["skills"].([]any); isList {
		for _, item := range rawSkills {
			id, isStr := item.(string)
			if !isStr {
				continue
			}
			ref, found := known[id]
			if !found {
				p.logger.Warn("planner model returned unknown skill id", "skill_id", id)
				continue
			}
			refs = append(refs, ref)
		}
	}

	return Result{
		Plan:   fixedPlan(in.Task),
		Skills: refs,
		Agent:  matchAgent(parsed, in.UserAgents),
	}, true
}

func matchAgent(parsed map[string]any, agents []spec.AgentPersona) *spec.AgentPersona {
	wanted, _ := parsed["agent_id"].(string)
	if wanted == "" {
		wanted, _ = parsed["agent_name"].(string)
	}
	if wanted == "" {
		return nil
	}
	lowered := strings.ToLower(wanted)
	for i := range agents {
		if strings.ToLower(agents[i].ID) == lowered || strings.ToLower(agents[i].Name) == lowered {
			return &agents[i]
		}
	}
	return nil
}

// normalizeText lowercases and drops whitespace plus common CJK and ASCII
// sentence punctuation, so keyword containment survives spacing and
// punctuation variants.
func normalizeText(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case ',', '。', '、', '!', '?', '！', '？', ';', '；', ':', '：':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hasAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(normalized, normalizeText(kw)) {
			return true
		}
	}
	return false
}

func refIDs(refs []spec.SkillRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

func agentID(agent *spec.AgentPersona) string {
	if agent == nil {
		return ""
	}
	return agent.ID
}
