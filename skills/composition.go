package skills

import (
	"context"
	"strings"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// confidenceThreshold gates auto-tap: coordinate suggestions below it fall
// through to the static-hint path.
const confidenceThreshold = 0.7

var (
	validRegions    = map[string]struct{}{"center": {}, "left": {}, "right": {}, "top": {}, "bottom": {}}
	validDirections = map[string]struct{}{"up": {}, "down": {}, "left": {}, "right": {}, "none": {}}
)

// PhotoComposition provides camera-preview framing guidance: a tappable
// subject-placement point when the model is confident, a static hint
// otherwise.
type PhotoComposition struct{}

func NewPhotoComposition() *PhotoComposition { return &PhotoComposition{} }

func (s *PhotoComposition) ID() string   { return "photo_composition" }
func (s *PhotoComposition) Name() string { return "构图大师" }
func (s *PhotoComposition) Description() string {
	return "提供拍摄构图指导。适用于相机预览时的主体摆放、画面平衡、三分法/留白、" +
		"横平竖直等构图优化建议。"
}

func (s *PhotoComposition) Analyze(ctx context.Context, task string, sc spec.SkillContext) (spec.SkillResult, error) {
	if sc.Screenshot != "" {
		if result, ok := s.tryCoordinate(ctx, task, sc); ok {
			return result, nil
		}
	}
	return s.staticHint(ctx, task, sc), nil
}

func (s *PhotoComposition) tryCoordinate(ctx context.Context, task string, sc spec.SkillContext) (spec.SkillResult, bool) {
	parsed, ok := queryModel(ctx, task, sc, photoCompositionCoordinatePrompt)
	if !ok {
		return spec.SkillResult{}, false
	}

	x, hasX := numberField(parsed, "x_norm")
	y, hasY := numberField(parsed, "y_norm")
	confidence, hasC := numberField(parsed, "confidence")
	if !hasX || !hasY || !hasC {
		return spec.SkillResult{}, false
	}
	if x < 0 || x > 1 || y < 0 || y > 1 || confidence < 0 || confidence > 1 {
		return spec.SkillResult{}, false
	}
	if confidence < confidenceThreshold {
		return spec.SkillResult{}, false
	}

	rule := "rule_of_thirds"
	if v, has := stringField(parsed, "rule"); has && v != "" {
		rule = v
	}
	note := "已识别出最佳主体位置"
	if v, has := stringField(parsed, "note"); has && v != "" {
		note = v
	}

	effects := []spec.Effect{{
		Type: "composition_tap",
		Payload: map[string]any{
			"x_norm":     x,
			"y_norm":     y,
			"confidence": confidence,
			"rule":       rule,
			"note":       note,
		},
	}}
	return spec.SkillResult{Message: "自动选点已准备就绪。", Effects: effects}, true
}

func (s *PhotoComposition) staticHint(ctx context.Context, task string, sc spec.SkillContext) spec.SkillResult {
	region := "center"
	direction := "none"
	hint := "保持主体居中并保持画面水平。"

	parsed, ok := queryModel(ctx, task, sc, photoCompositionPrompt)
	if ok {
		if v, has := stringField(parsed, "region"); has {
			v = strings.ToLower(v)
			if _, valid := validRegions[v]; valid {
				region = v
			}
		}
		if v, has := stringField(parsed, "direction"); has {
			v = strings.ToLower(v)
			if _, valid := validDirections[v]; valid {
				direction = v
			}
		}
		if v, has := stringField(parsed, "hint"); has && strings.TrimSpace(v) != "" {
			hint = strings.TrimSpace(v)
		}
	}

	effects := []spec.Effect{{
		Type:    "composition_hint",
		Payload: map[string]any{"region": region, "direction": direction, "hint": hint},
	}}
	return spec.SkillResult{Message: "构图指导已准备就绪。", Effects: effects}
}
