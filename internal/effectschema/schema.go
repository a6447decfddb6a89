// Package effectschema validates skill effects against a fixed declarative
// schema table. Validation is reporting-only: callers decide whether invalid
// effects are kept (the lenient default) or fail the run.
package effectschema

import (
	"fmt"
	"regexp"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindInteger
	kindBool
)

type fieldRule struct {
	kind    fieldKind
	enum    []string
	pattern *regexp.Regexp
	// Numeric bounds, honored when hasMin/hasMax.
	min, max       float64
	hasMin, hasMax bool
}

type schema struct {
	required []string
	fields   map[string]fieldRule
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var levels = []string{"low", "medium", "high"}

var registry = map[string]schema{
	"alert": {
		required: []string{"level", "intensity", "color", "duration_ms"},
		fields: map[string]fieldRule{
			"level":       {kind: kindString, enum: levels},
			"intensity":   {kind: kindString, enum: levels},
			"color":       {kind: kindString, pattern: colorPattern},
			"duration_ms": {kind: kindInteger, min: 0, hasMin: true},
		},
	},
	"translation": {
		required: []string{"text", "source_language", "target_language"},
		fields: map[string]fieldRule{
			"text":            {kind: kindString},
			"source_language": {kind: kindString},
			"target_language": {kind: kindString},
			"fallback":        {kind: kindBool},
		},
	},
	"translation_request": {
		fields: map[string]fieldRule{},
	},
	"composition_hint": {
		required: []string{"region", "direction", "hint"},
		fields: map[string]fieldRule{
			"region":    {kind: kindString, enum: []string{"center", "left", "right", "top", "bottom"}},
			"direction": {kind: kindString, enum: []string{"up", "down", "left", "right", "none"}},
			"hint":      {kind: kindString},
		},
	},
	"doudizhu_suggestion": {
		required: []string{"text", "play_type", "risk"},
		fields: map[string]fieldRule{
			"text": {kind: kindString},
			"play_type": {kind: kindString, enum: []string{
				"single", "pair", "triple", "sequence", "bomb", "rocket", "control", "support",
			}},
			"risk": {kind: kindString, enum: levels},
		},
	},
	"composition_tap": {
		required: []string{"x_norm", "y_norm", "confidence"},
		fields: map[string]fieldRule{
			"x_norm":     {kind: kindNumber, min: 0, max: 1, hasMin: true, hasMax: true},
			"y_norm":     {kind: kindNumber, min: 0, max: 1, hasMin: true, hasMax: true},
			"confidence": {kind: kindNumber, min: 0, max: 1, hasMin: true, hasMax: true},
			"rule":       {kind: kindString},
			"note":       {kind: kindString},
		},
	},
}

// KnownType reports whether effectType has a registered schema.
func KnownType(effectType string) bool {
	_, ok := registry[effectType]
	return ok
}

// ValidateEffect checks one payload against the schema for effectType.
// It returns every violation found, not just the first.
func ValidateEffect(effectType string, payload map[string]any) []string {
	sch, ok := registry[effectType]
	if !ok {
		return []string{fmt.Sprintf("unknown effect type: %s", effectType)}
	}

	var violations []string
	for _, name := range sch.required {
		if _, present := payload[name]; !present {
			violations = append(violations, fmt.Sprintf("missing required field: %s", name))
		}
	}
	for name, value := range payload {
		rule, known := sch.fields[name]
		if !known {
			violations = append(violations, fmt.Sprintf("unexpected field: %s", name))
			continue
		}
		if msg := checkField(name, value, rule); msg != "" {
			violations = append(violations, msg)
		}
	}
	return violations
}

// Validate checks a whole effect list. Each violation is prefixed with the
// effect's index and type.
func Validate(effects []spec.Effect) []string {
	var all []string
	for i, e := range effects {
		if e.Type == "" {
			all = append(all, fmt.Sprintf("effect %d: missing type", i))
			continue
		}
		for _, v := range ValidateEffect(e.Type, e.Payload) {
			all = append(all, fmt.Sprintf("effect %d (%s): %s", i, e.Type, v))
		}
	}
	return all
}

func checkField(name string, value any, rule fieldRule) string {
	switch rule.kind {
	case kindString:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("field %s: expected string", name)
		}
		if len(rule.enum) > 0 && !containsString(rule.enum, s) {
			return fmt.Sprintf("field %s: %q not in %v", name, s, rule.enum)
		}
		if rule.pattern != nil && !rule.pattern.MatchString(s) {
			return fmt.Sprintf("field %s: %q does not match %s", name, s, rule.pattern)
		}
	case kindNumber, kindInteger:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Sprintf("field %s: expected number", name)
		}
		if rule.kind == kindInteger && f != float64(int64(f)) {
			return fmt.Sprintf("field %s: expected integer", name)
		}
		if rule.hasMin && f < rule.min {
			return fmt.Sprintf("field %s: %v below minimum %v", name, f, rule.min)
		}
		if rule.hasMax && f > rule.max {
			return fmt.Sprintf("field %s: %v above maximum %v", name, f, rule.max)
		}
	case kindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("field %s: expected boolean", name)
		}
	}
	return ""
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
