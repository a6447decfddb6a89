package skills

import (
	"context"
	"strings"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// Caps shared across one Analyze invocation's whole sub-skill call tree.
const (
	MaxSubSkillDepth      = 3
	MaxTotalSubSkillCalls = 10
)

const defaultGenericMessage = "已执行用户技能。"

// Generic is the runtime interpreter for a user-authored skill definition:
// a primary prompt plus default effects, optionally followed by nested
// sub-skill prompts. Instances are constructed per resolved definition and
// travel with the run payload; they are never registered globally.
type Generic struct {
	def spec.SkillDefinition
}

func NewGeneric(def spec.SkillDefinition) *Generic {
	return &Generic{def: def}
}

func (g *Generic) ID() string          { return g.def.ID }
func (g *Generic) Name() string        { return g.def.Name }
func (g *Generic) Description() string { return g.def.Description }

// ModelOverride exposes the definition's embedded model config for routing.
func (g *Generic) ModelOverride() *spec.ModelConfig { return g.def.Model }

func (g *Generic) Analyze(ctx context.Context, task string, sc spec.SkillContext) (spec.SkillResult, error) {
	message := defaultGenericMessage
	effects := append([]spec.Effect(nil), g.def.Effects...)

	parsed, ok := queryModel(ctx, task, sc, g.def.SystemPrompt)
	if ok {
		if text := firstTextField(parsed); text != "" {
			message = text
		}
		effects = append(effects, coerceEffects(parsed["effects"])...)
	}

	if len(g.def.SubSkills) > 0 {
		budget := MaxTotalSubSkillCalls
		subEffects, subMessages := runSubSkills(ctx, task, sc, g.def.SubSkills, 0, &budget)
		effects = append(effects, subEffects...)
		if len(subMessages) > 0 {
			if message == defaultGenericMessage {
				message = subMessages[0]
			} else {
				message = message + " " + strings.Join(subMessages, " ")
			}
		}
	}

	return spec.SkillResult{Message: message, Effects: effects}, nil
}

// runSubSkills executes a definition list depth-first under the shared depth
// and call-count caps. Exceeding a cap stops silently; a failing sub-skill is
// skipped without affecting siblings or the parent's result.
func runSubSkills(
	ctx context.Context,
	task string,
	sc spec.SkillContext,
	subs []spec.SubSkillDefinition,
	depth int,
	budget *int,
) (effects []spec.Effect, messages []string) {
	if depth >= MaxSubSkillDepth {
		return nil, nil
	}

	for _, sub := range subs {
		if *budget <= 0 {
			break
		}
		if strings.TrimSpace(sub.SystemPrompt) == "" {
			continue
		}

		subCtx := sc
		subCtx.ModelConfig = resolveSubModel(sub.Model, sc.ModelConfig)

		*budget--
		parsed, ok := queryModel(ctx, task, subCtx, sub.SystemPrompt)
		if ok {
			if text := firstTextField(parsed); text != "" {
				messages = append(messages, text)
			}
			effects = append(effects, coerceEffects(parsed["effects"])...)
		}

		if len(sub.SubSkills) > 0 {
			nestedEffects, nestedMessages := runSubSkills(ctx, task, subCtx, sub.SubSkills, depth+1, budget)
			effects = append(effects, nestedEffects...)
			messages = append(messages, nestedMessages...)
		}
	}
	return effects, messages
}

// resolveSubModel picks the sub-skill override when usable, else the parent's
// context config when usable, else nil.
func resolveSubModel(override, fallback *spec.ModelConfig) *spec.ModelConfig {
	if override.Usable() {
		return override
	}
	if fallback.Usable() {
		return fallback
	}
	return nil
}

// firstTextField returns the first available of text/message/response.
func firstTextField(obj map[string]any) string {
	for _, key := range []string{"text", "message", "response"} {
		if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// coerceEffects converts raw model-supplied effect data, dropping entries
// without a type. A single object is accepted in place of a list.
func coerceEffects(raw any) []spec.Effect {
	if raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		items = []any{raw}
	}
	var out []spec.Effect
	for _, item := range items {
		obj, isObj := item.(map[string]any)
		if !isObj {
			continue
		}
		effectType, _ := obj["type"].(string)
		if effectType == "" {
			continue
		}
		payload, isMap := obj["payload"].(map[string]any)
		if !isMap {
			payload = map[string]any{}
		}
		out = append(out, spec.Effect{Type: effectType, Payload: payload})
	}
	return out
}
