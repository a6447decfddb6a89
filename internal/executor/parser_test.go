package executor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

func mustParseAction(t *testing.T, text string) spec.Action {
	t.Helper()
	action, err := ParseAction(text)
	if err != nil {
		t.Fatalf("ParseAction(%q): %v", text, err)
	}
	return action
}

func TestParseResponseFinishEnvelope(t *testing.T) {
	thinking, action := ParseResponse(`任务已经完成了。finish(message="已打开设置")`)
	if thinking != "任务已经完成了。" {
		t.Fatalf("thinking = %q", thinking)
	}
	if action != `finish(message="已打开设置")` {
		t.Fatalf("action = %q", action)
	}
}

func TestParseResponseDoEnvelope(t *testing.T) {
	thinking, action := ParseResponse("需要点击按钮。do(action=\"Tap\", element=[0.5, 0.3])")
	if thinking != "需要点击按钮。" {
		t.Fatalf("thinking = %q", thinking)
	}
	if action != `do(action="Tap", element=[0.5, 0.3])` {
		t.Fatalf("action = %q", action)
	}
}

func TestParseResponseAnswerBlock(t *testing.T) {
	raw := "<think>先分析屏幕</think><answer>do(action=\"Swipe\", direction=\"up\")</answer>"
	thinking, action := ParseResponse(raw)
	if thinking != "先分析屏幕" {
		t.Fatalf("thinking = %q", thinking)
	}
	if action != `do(action="Swipe", direction="up")` {
		t.Fatalf("action = %q", action)
	}
}

func TestParseResponsePlainText(t *testing.T) {
	thinking, action := ParseResponse("raw content")
	if thinking != "" || action != "raw content" {
		t.Fatalf("thinking = %q, action = %q", thinking, action)
	}
}

func TestParseActionTypeFastPath(t *testing.T) {
	action := mustParseAction(t, `do(action="Type", text="hello, "world"")`)
	want := spec.Action{"_metadata": "do", "action": "Type", "text": `hello, "world"`}
	if !reflect.DeepEqual(action, want) {
		t.Fatalf("action = %v, want %v", action, want)
	}
}

func TestParseActionTypeNameNormalizes(t *testing.T) {
	action := mustParseAction(t, `do(action="Type_Name", text="张三")`)
	if action["action"] != "Type" || action["text"] != "张三" {
		t.Fatalf("action = %v", action)
	}
}

func TestParseActionDoKwargs(t *testing.T) {
	action := mustParseAction(t, `do(action="Tap", element=[0.52, 0.31], instruction="确定")`)
	if action["_metadata"] != "do" || action["action"] != "Tap" {
		t.Fatalf("action = %v", action)
	}
	element, ok := action["element"].([]any)
	if !ok || len(element) != 2 || element[0] != 0.52 || element[1] != 0.31 {
		t.Fatalf("element = %v", action["element"])
	}
	if action["instruction"] != "确定" {
		t.Fatalf("instruction = %v", action["instruction"])
	}
}

func TestParseActionDoLiteralKinds(t *testing.T) {
	action := mustParseAction(t, `do(action="Swipe", distance=300, fast=True, anchor=None)`)
	if action["distance"] != 300 {
		t.Fatalf("distance = %v (%T)", action["distance"], action["distance"])
	}
	if action["fast"] != true {
		t.Fatalf("fast = %v", action["fast"])
	}
	if anchor, present := action["anchor"]; !present || anchor != nil {
		t.Fatalf("anchor = %v present=%v", anchor, present)
	}
}

func TestParseActionDoEmbeddedNewline(t *testing.T) {
	action := mustParseAction(t, "do(action=\"Note\", content=\"line one\nline two\")")
	if action["content"] != "line one\nline two" {
		t.Fatalf("content = %q", action["content"])
	}
}

func TestParseActionFinish(t *testing.T) {
	action := mustParseAction(t, `finish(message="任务完成")`)
	want := spec.Action{"_metadata": "finish", "message": "任务完成"}
	if !reflect.DeepEqual(action, want) {
		t.Fatalf("action = %v, want %v", action, want)
	}
}

func TestParseActionUnrecognized(t *testing.T) {
	if _, err := ParseAction("sorry, I cannot help"); !errors.Is(err, spec.ErrActionParse) {
		t.Fatalf("err = %v, want ErrActionParse", err)
	}
}

func TestParseActionMalformedDo(t *testing.T) {
	if _, err := ParseAction(`do(action="Tap", element=`); !errors.Is(err, spec.ErrActionParse) {
		t.Fatalf("err = %v, want ErrActionParse", err)
	}
	if _, err := ParseAction(`do(action="Tap") trailing junk`); !errors.Is(err, spec.ErrActionParse) {
		t.Fatalf("err = %v, want ErrActionParse", err)
	}
}

func TestValidateAction(t *testing.T) {
	if err := ValidateAction(spec.Action{"_metadata": "finish"}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := ValidateAction(spec.Action{"_metadata": "do", "action": "Tap"}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if err := ValidateAction(spec.Action{"_metadata": "do"}); !errors.Is(err, spec.ErrInvalidAction) {
		t.Fatalf("do without name: %v", err)
	}
	if err := ValidateAction(spec.Action{"_metadata": "other"}); !errors.Is(err, spec.ErrInvalidAction) {
		t.Fatalf("unknown metadata: %v", err)
	}
}
