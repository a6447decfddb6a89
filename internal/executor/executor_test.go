package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/jieyou-io/phone-agent-xiaozhi/internal/sessionstore"
	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
	lastMsgs []spec.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, cfg spec.ModelConfig, messages []spec.Message) (string, error) {
	f.calls++
	f.lastMsgs = messages
	return f.response, f.err
}

func usableModel() *spec.ModelConfig {
	return &spec.ModelConfig{BaseURL: "https://api.example.com", APIKey: "k", Model: "m"}
}

func TestRunNilModelIsNoOp(t *testing.T) {
	fake := &fakeCompleter{}
	e := New(fake, sessionstore.NewHistory(), nil)
	actions, effects, err := e.Run(context.Background(), Inputs{Task: "打开设置"})
	if err != nil || actions != nil || effects != nil {
		t.Fatalf("got %v %v %v, want empty no-op", actions, effects, err)
	}
	if fake.calls != 0 {
		t.Fatalf("calls = %d, want 0", fake.calls)
	}
}

func TestRunIncompleteModelIsError(t *testing.T) {
	e := New(&fakeCompleter{}, sessionstore.NewHistory(), nil)
	_, _, err := e.Run(context.Background(), Inputs{
		Task:  "打开设置",
		Model: &spec.ModelConfig{BaseURL: "https://api.example.com"},
	})
	if !errors.Is(err, spec.ErrInvalidModelConfig) {
		t.Fatalf("err = %v, want ErrInvalidModelConfig", err)
	}
}

func TestRunParsesActionAndRecordsHistory(t *testing.T) {
	fake := &fakeCompleter{response: `点击设置图标。do(action="Tap", element=[0.5, 0.3])`}
	history := sessionstore.NewHistory()
	e := New(fake, history, nil)

	actions, effects, err := e.Run(context.Background(), Inputs{
		Task:      "打开设置",
		SessionID: "s1",
		Model:     usableModel(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(actions) != 1 || actions[0]["action"] != "Tap" {
		t.Fatalf("actions = %v", actions)
	}
	if len(effects) != 0 {
		t.Fatalf("effects = %v", effects)
	}

	msgs := history.Get("s1")
	if len(msgs) != 2 {
		t.Fatalf("history = %v", msgs)
	}
	if msgs[0].Role != spec.RoleUser || msgs[0].Content != "打开设置" {
		t.Fatalf("user turn = %v", msgs[0])
	}
	if msgs[1].Role != spec.RoleAssistant || msgs[1].Content != fake.response {
		t.Fatalf("assistant turn = %v", msgs[1])
	}
}

func TestRunPrependsHistoryAndSystemPrompt(t *testing.T) {
	fake := &fakeCompleter{response: `finish(message="完成")`}
	history := sessionstore.NewHistory()
	history.AppendUser("s1", "上一个任务")
	history.AppendAssistant("s1", "上一个回复")
	e := New(fake, history, nil)

	_, _, err := e.Run(context.Background(), Inputs{
		Task:       "继续",
		Screenshot: "aW1n",
		SessionID:  "s1",
		Model:      usableModel(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs := fake.lastMsgs
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want system+2 history+user", len(msgs))
	}
	if msgs[0].Role != spec.RoleSystem || msgs[0].Content != defaultSystemPrompt {
		t.Fatalf("system turn = %v", msgs[0])
	}
	if msgs[1].Content != "上一个任务" || msgs[2].Content != "上一个回复" {
		t.Fatalf("history turns = %v", msgs[1:3])
	}
	last := msgs[len(msgs)-1]
	if last.Role != spec.RoleUser || last.Content != "继续" || last.ImageB64 != "aW1n" {
		t.Fatalf("user turn = %v", last)
	}
}

func TestRunSystemPromptOverride(t *testing.T) {
	fake := &fakeCompleter{response: `finish(message="完成")`}
	e := New(fake, sessionstore.NewHistory(), nil)
	_, _, err := e.Run(context.Background(), Inputs{
		Task:                 "做饭",
		Model:                usableModel(),
		SystemPromptOverride: "你是大厨",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fake.lastMsgs[0].Content != "你是大厨" {
		t.Fatalf("system turn = %v", fake.lastMsgs[0])
	}
}

func TestRunUnparseableReplyStillRecorded(t *testing.T) {
	fake := &fakeCompleter{response: "I refuse to answer in the protocol"}
	history := sessionstore.NewHistory()
	e := New(fake, history, nil)

	_, _, err := e.Run(context.Background(), Inputs{
		Task:      "打开设置",
		SessionID: "s1",
		Model:     usableModel(),
	})
	if !errors.Is(err, spec.ErrActionParse) {
		t.Fatalf("err = %v, want ErrActionParse", err)
	}
	if got := history.Get("s1"); len(got) != 2 {
		t.Fatalf("history = %v, want recorded turns", got)
	}
}

func TestRunModelErrorSkipsHistory(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("timeout")}
	history := sessionstore.NewHistory()
	e := New(fake, history, nil)

	_, _, err := e.Run(context.Background(), Inputs{
		Task:      "打开设置",
		SessionID: "s1",
		Model:     usableModel(),
	})
	if err == nil {
		t.Fatal("want error")
	}
	if got := history.Get("s1"); len(got) != 0 {
		t.Fatalf("history = %v, want empty", got)
	}
}
