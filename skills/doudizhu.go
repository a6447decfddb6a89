package skills

import (
	"context"
	"strings"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

var validPlayTypes = map[string]struct{}{
	"single": {}, "pair": {}, "triple": {}, "sequence": {},
	"bomb": {}, "rocket": {}, "control": {}, "support": {},
}

// Doudizhu analyzes a card-game position and suggests the next play. The
// deterministic fallback branches on which role the task text mentions.
type Doudizhu struct{}

func NewDoudizhu() *Doudizhu { return &Doudizhu{} }

func (s *Doudizhu) ID() string   { return "doudizhu" }
func (s *Doudizhu) Name() string { return "斗地主大师" }
func (s *Doudizhu) Description() string {
	return "分析斗地主牌局并给出出牌建议。适用于对局过程中的牌型判断、出牌时机、" +
		"控牌与风险评估（地主/农民策略不同）。"
}

func (s *Doudizhu) Analyze(ctx context.Context, task string, sc spec.SkillContext) (spec.SkillResult, error) {
	suggestion := "建议出最小单牌。"
	playType := "single"
	risk := "medium"

	parsed, ok := queryModel(ctx, task, sc, doudizhuPrompt)
	if ok {
		if v, has := stringField(parsed, "text"); has && strings.TrimSpace(v) != "" {
			suggestion = strings.TrimSpace(v)
		}
		if v, has := stringField(parsed, "play_type"); has && strings.TrimSpace(v) != "" {
			normalized := strings.ToLower(strings.TrimSpace(v))
			if _, valid := validPlayTypes[normalized]; valid {
				playType = normalized
			}
		}
		if v, has := stringField(parsed, "risk"); has {
			normalized := strings.ToLower(v)
			if _, valid := riskRank[normalized]; valid {
				risk = normalized
			}
		}
	} else {
		switch {
		case strings.Contains(task, "地主"):
			suggestion = "建议稳住牌权，优先处理对手可能的连牌。"
			playType = "control"
		case strings.Contains(task, "农民"):
			suggestion = "建议配合队友压制地主，优先消耗高牌。"
			playType = "support"
		}
	}

	effects := []spec.Effect{{
		Type:    "doudizhu_suggestion",
		Payload: map[string]any{"text": suggestion, "play_type": playType, "risk": risk},
	}}
	return spec.SkillResult{Message: "已生成出牌建议。", Effects: effects}, nil
}
