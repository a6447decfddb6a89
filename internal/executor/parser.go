package executor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// ParseResponse splits a model reply into thinking text and the action text.
// Three envelopes are recognized, tried in order: an inline finish(message=
// call, an inline do(action= call, and an <answer> block. Anything else is
// treated as action text with empty thinking.
func ParseResponse(content string) (thinking, action string) {
	if i := strings.Index(content, "finish(message="); i >= 0 {
		return strings.TrimSpace(content[:i]), content[i:]
	}
	if i := strings.Index(content, "do(action="); i >= 0 {
		return strings.TrimSpace(content[:i]), content[i:]
	}
	if i := strings.Index(content, "<answer>"); i >= 0 {
		thinking = content[:i]
		thinking = strings.ReplaceAll(thinking, "<think>", "")
		thinking = strings.ReplaceAll(thinking, "</think>", "")
		action = strings.ReplaceAll(content[i+len("<answer>"):], "</answer>", "")
		return strings.TrimSpace(thinking), strings.TrimSpace(action)
	}
	return "", content
}

// ParseAction converts action text into a structured action. Type actions get
// a fast path that slices the raw text argument without interpreting escapes,
// so typed text containing quotes or commas survives.
func ParseAction(response string) (spec.Action, error) {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, `do(action="Type"`) ||
		strings.HasPrefix(response, `do(action="Type_Name"`) {
		_, rest, found := strings.Cut(response, "text=")
		if !found {
			return nil, errors.Join(spec.ErrActionParse, fmt.Errorf("type action without text: %s", response))
		}
		return spec.Action{"_metadata": "do", "action": "Type", "text": sliceArg(rest)}, nil
	}

	if strings.HasPrefix(response, "do") {
		kwargs, err := parseCallKwargs(response)
		if err != nil {
			return nil, errors.Join(spec.ErrActionParse, err)
		}
		action := spec.Action{"_metadata": "do"}
		for key, value := range kwargs {
			action[key] = value
		}
		return action, nil
	}

	if strings.HasPrefix(response, "finish") {
		message := strings.Replace(response, "finish(message=", "", 1)
		return spec.Action{"_metadata": "finish", "message": sliceArg(message)}, nil
	}

	return nil, errors.Join(spec.ErrActionParse, fmt.Errorf("unrecognized action: %s", response))
}

// ValidateAction checks the minimal action contract: a known _metadata, and a
// non-empty action name for do.
func ValidateAction(action spec.Action) error {
	metadata, _ := action["_metadata"].(string)
	switch metadata {
	case "finish":
		return nil
	case "do":
		if name, _ := action["action"].(string); name == "" {
			return errors.Join(spec.ErrInvalidAction, errors.New("do action missing action name"))
		}
		return nil
	}
	return errors.Join(spec.ErrInvalidAction, fmt.Errorf("invalid _metadata: %q", metadata))
}

// sliceArg strips the opening quote and the trailing quote-plus-parenthesis
// from a raw argument tail, mirroring a [1:-2] slice.
func sliceArg(s string) string {
	if len(s) < 3 {
		return ""
	}
	return s[1 : len(s)-2]
}

// parseCallKwargs parses a call of the form name(key=value, ...) with
// Python-literal values: quoted strings, numbers, booleans, None, and lists
// of those.
func parseCallKwargs(s string) (map[string]any, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return nil, errors.New("expected a call")
	}
	p := &literalParser{input: s, pos: open + 1}

	kwargs := map[string]any{}
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
	} else {
		for {
			key, err := p.identifier()
			if err != nil {
				return nil, err
			}
			p.skipSpace()
			if p.peek() != '=' {
				return nil, fmt.Errorf("expected '=' after %q", key)
			}
			p.pos++
			value, err := p.value()
			if err != nil {
				return nil, err
			}
			kwargs[key] = value

			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case ')':
				p.pos++
			default:
				return nil, errors.New("expected ',' or ')'")
			}
			break
		}
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, errors.New("trailing content after call")
	}
	return kwargs, nil
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) identifier() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", errors.New("expected identifier")
	}
	return p.input[start:p.pos], nil
}

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		return p.stringLiteral(c)
	case c == '[' || c == '(':
		return p.listLiteral(c)
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.numberLiteral()
	default:
		word, err := p.identifier()
		if err != nil {
			return nil, errors.New("expected a literal value")
		}
		switch word {
		case "True", "true":
			return true, nil
		case "False", "false":
			return false, nil
		case "None", "null":
			return nil, nil
		}
		return nil, fmt.Errorf("unknown literal %q", word)
	}
}

func (p *literalParser) stringLiteral(quote byte) (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return "", errors.New("unterminated escape")
			}
			switch esc := p.input[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", errors.New("unterminated string")
}

func (p *literalParser) listLiteral(open byte) ([]any, error) {
	closing := byte(']')
	if open == '(' {
		closing = ')'
	}
	p.pos++
	var items []any
	p.skipSpace()
	if p.peek() == closing {
		p.pos++
		return items, nil
	}
	for {
		item, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == closing {
				p.pos++
				return items, nil
			}
		case closing:
			p.pos++
			return items, nil
		default:
			return nil, errors.New("expected ',' or list end")
		}
	}
}

func (p *literalParser) numberLiteral() (any, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			if (c == 'e' || c == 'E') && (p.peek() == '-' || p.peek() == '+') {
				p.pos++
			}
			continue
		}
		break
	}
	text := p.input[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", text)
		}
		return f, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", text)
	}
	return n, nil
}
