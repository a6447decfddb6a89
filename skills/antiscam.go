package skills

import (
	"context"
	"strings"
	"unicode"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

var highRiskKeywords = []string{
	"转账", "汇款", "打款", "验证码", "otp", "verification code",
	"安全账户", "账号异常", "冻结", "解冻", "刷流水", "贷款",
	"中奖", "返利", "刷单", "客服", "链接", "二维码", "扫码",
	"公安", "检察院", "法院", "警察", "通缉", "退税", "退款",
	"返现", "投资", "博彩", "裸聊", "网贷", "征信", "银行卡",
	"信用卡", "密码", "remote control", "anydesk", "teamviewer",
}

var mediumRiskKeywords = []string{
	"借钱", "朋友", "熟人", "兼职", "招聘", "群", "红包",
	"快递", "包裹", "补贴", "理赔", "客服热线", "异常登录", "钓鱼",
}

var riskRank = map[string]int{"low": 0, "medium": 1, "high": 2}

// AntiScam detects fraud risk in messages, notifications, and chats. The
// keyword-derived risk is authoritative downward: a model-reported level only
// ever escalates it.
type AntiScam struct{}

func NewAntiScam() *AntiScam { return &AntiScam{} }

func (s *AntiScam) ID() string   { return "anti_scam" }
func (s *AntiScam) Name() string { return "防诈骗" }
func (s *AntiScam) Description() string {
	return "检测短信、通知、聊天中诈骗风险。关键场景：转账/汇款/验证码、账号异常/冻结、" +
		"中奖/退税/退款、冒充客服/公安/法院、刷单兼职、可疑链接/二维码、" +
		"远程控制软件诱导等。任何涉及资金与账号安全的可疑内容都适用。"
}

func (s *AntiScam) Analyze(ctx context.Context, task string, sc spec.SkillContext) (spec.SkillResult, error) {
	normalized := normalizeSkillText(task)

	var signals []string
	signals = append(signals, collectHits(normalized, highRiskKeywords)...)
	signals = append(signals, collectHits(normalized, mediumRiskKeywords)...)

	risk := "low"
	if len(collectHits(normalized, highRiskKeywords)) > 0 {
		risk = "high"
	} else if len(signals) > 0 {
		risk = "medium"
	}

	message := ""
	parsed, ok := queryModel(ctx, task, sc, antiScamPrompt)
	if ok {
		if level, has := stringField(parsed, "risk_level"); has {
			level = strings.ToLower(level)
			if _, known := riskRank[level]; known && riskRank[level] > riskRank[risk] {
				risk = level
			}
		}
		if msg, has := stringField(parsed, "message"); has && strings.TrimSpace(msg) != "" {
			message = strings.TrimSpace(msg)
		}
		if raw, has := parsed["signals"].([]any); has {
			for _, item := range raw {
				if str, isStr := item.(string); isStr && strings.TrimSpace(str) != "" {
					signals = append(signals, strings.TrimSpace(str))
				}
			}
		}
	}

	if message == "" {
		switch risk {
		case "high":
			message = "检测到高诈骗风险，请勿提供验证码或转账。"
		case "medium":
			message = "检测到疑似诈骗信号，操作前请先核实。"
		default:
			message = "未发现明显的诈骗信号。"
		}
	}

	unique := dedupe(signals)
	if len(unique) > 0 {
		shown := unique
		if len(shown) > 4 {
			shown = shown[:4]
		}
		message = message + " 信号: " + strings.Join(shown, ", ") + "。"
	}

	var effects []spec.Effect
	if risk == "medium" || risk == "high" {
		intensity := "medium"
		duration := 1000
		if risk == "high" {
			intensity = "high"
			duration = 1600
		}
		effects = append(effects, spec.Effect{
			Type: "alert",
			Payload: map[string]any{
				"level":       risk,
				"intensity":   intensity,
				"color":       "#FF3B30",
				"duration_ms": duration,
			},
		})
	}

	return spec.SkillResult{Message: message, Effects: effects}, nil
}

// normalizeSkillText lowercases and removes all whitespace, so keyword
// containment works across spacing variants.
func normalizeSkillText(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collectHits(normalized string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(normalized, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func dedupe(items []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
