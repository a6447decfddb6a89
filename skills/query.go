package skills

import (
	"context"

	"github.com/jieyou-io/phone-agent-xiaozhi/modelapi"
	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// queryModel runs one model-augmentation call for a skill: system prompt plus
// a user turn carrying the task and, when present, the screenshot. The result
// is the extracted JSON object, or ok=false whenever the configuration is
// unusable, the call fails, or the output holds no JSON object. Skills treat
// ok=false as "use the deterministic fallback", never as an error.
func queryModel(
	ctx context.Context,
	task string,
	sc spec.SkillContext,
	systemPrompt string,
) (map[string]any, bool) {
	if sc.Client == nil || !sc.ModelConfig.Usable() {
		return nil, false
	}

	messages := []spec.Message{
		{Role: spec.RoleSystem, Content: systemPrompt},
		{Role: spec.RoleUser, Content: task, ImageB64: sc.Screenshot},
	}

	raw, err := sc.Client.Complete(ctx, *sc.ModelConfig, messages)
	if err != nil {
		return nil, false
	}
	return modelapi.ExtractJSONObject(raw)
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key].(string)
	return v, ok
}

func numberField(obj map[string]any, key string) (float64, bool) {
	switch n := obj[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
