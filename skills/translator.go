package skills

import (
	"context"
	"strings"

	"github.com/jieyou-io/phone-agent-xiaozhi/internal/imageutil"
	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// genericTranslateRequests are task phrasings that name no text at all. With a
// screenshot and no chosen region, the skill asks the caller for a region
// instead of guessing what to translate.
var genericTranslateRequests = map[string]struct{}{
	"翻译":   {},
	"请翻译":  {},
	"帮我翻译": {},
}

// Translator recognizes and translates on-screen text or user input.
// It operates model-optionally: without a usable model it still emits a
// translation effect flagged as a fallback.
type Translator struct{}

func NewTranslator() *Translator { return &Translator{} }

func (s *Translator) ID() string   { return "translator" }
func (s *Translator) Name() string { return "翻译" }
func (s *Translator) Description() string {
	return "识别并翻译屏幕文字或用户输入。适用场景：外语应用界面、菜单/路牌/文档截图、" +
		"跨语言沟通、学习翻译。支持中英互译及常见语种互译。"
}

func (s *Translator) Analyze(ctx context.Context, task string, sc spec.SkillContext) (spec.SkillResult, error) {
	if sc.Screenshot != "" && sc.TranslationRegion == nil && isGenericRequest(task) {
		return spec.SkillResult{
			Message: "请选择要翻译的区域。",
			Effects: []spec.Effect{{Type: "translation_request", Payload: map[string]any{}}},
		}, nil
	}

	if sc.Screenshot != "" && sc.TranslationRegion != nil {
		if cropped, ok := imageutil.CropBase64(sc.Screenshot, *sc.TranslationRegion); ok {
			sc.Screenshot = cropped
		}
	}

	var text, sourceLang, targetLang string
	parsed, ok := queryModel(ctx, task, sc, translatorPrompt)
	if ok {
		if v, has := stringField(parsed, "text"); has {
			text = strings.TrimSpace(v)
		}
		if v, has := stringField(parsed, "source_language"); has {
			sourceLang = strings.TrimSpace(v)
		}
		if v, has := stringField(parsed, "target_language"); has {
			targetLang = strings.TrimSpace(v)
		}
	}

	if text == "" {
		sourceText := strings.TrimSpace(task)
		if sourceText == "" {
			sourceText = "未提供需要翻译的文本。"
		}
		if sourceLang == "" {
			sourceLang = detectLanguage(sourceText)
		}
		if targetLang == "" {
			targetLang = inferTargetLanguage(task, sourceLang)
		}
		text = sourceText
	}

	effects := []spec.Effect{{
		Type: "translation",
		Payload: map[string]any{
			"text":            text,
			"source_language": sourceLang,
			"target_language": targetLang,
			"fallback":        !ok,
		},
	}}
	return spec.SkillResult{Message: "翻译结果已准备好。", Effects: effects}, nil
}

func isGenericRequest(task string) bool {
	_, ok := genericTranslateRequests[strings.TrimSpace(task)]
	return ok
}

// detectLanguage applies character-script heuristics: any CJK ideograph means
// Chinese, any Latin letter means English.
func detectLanguage(text string) string {
	for _, r := range text {
		if r >= 0x4e00 && r <= 0x9fff {
			return "Chinese"
		}
	}
	for _, r := range text {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return "English"
		}
	}
	return "Unknown"
}

func inferTargetLanguage(task, sourceLang string) string {
	lowered := strings.ToLower(task)
	switch {
	case strings.Contains(task, "英文"), strings.Contains(task, "英语"), strings.Contains(lowered, "english"):
		return "English"
	case strings.Contains(task, "中文"), strings.Contains(task, "汉语"), strings.Contains(lowered, "chinese"):
		return "Chinese"
	case sourceLang == "Chinese":
		return "English"
	case sourceLang == "English":
		return "Chinese"
	}
	return "Chinese"
}
