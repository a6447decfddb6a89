// Package executor turns a task plus conversation history into one parsed
// device action via the configured execution model.
package executor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jieyou-io/phone-agent-xiaozhi/internal/sessionstore"
	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

// Inputs is one execution request. A nil Model makes the run a no-op; a
// non-nil but incomplete Model is an error.
type Inputs struct {
	Task                 string
	Screenshot           string
	SessionID            string
	Model                *spec.ModelConfig
	SystemPromptOverride string
}

type Executor struct {
	client  spec.ChatCompleter
	history *sessionstore.History
	logger  *slog.Logger
}

func New(client spec.ChatCompleter, history *sessionstore.History, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{client: client, history: history, logger: logger}
}

// Run performs one model call and parses its reply into a single action.
// The user turn and the raw assistant reply are recorded in the session
// history after a successful call, before parsing, so a malformed reply still
// becomes context for the next attempt.
func (e *Executor) Run(ctx context.Context, in Inputs) ([]spec.Action, []spec.Effect, error) {
	if in.Model == nil {
		return nil, nil, nil
	}
	if !in.Model.Usable() {
		return nil, nil, errors.Join(spec.ErrInvalidModelConfig, errors.New("execution model incomplete"))
	}
	if e.client == nil {
		return nil, nil, errors.Join(spec.ErrInvalidModelConfig, errors.New("no chat client configured"))
	}

	systemPrompt := in.SystemPromptOverride
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	messages := []spec.Message{{Role: spec.RoleSystem, Content: systemPrompt}}
	messages = append(messages, e.history.Get(in.SessionID)...)
	messages = append(messages, spec.Message{
		Role:     spec.RoleUser,
		Content:  in.Task,
		ImageB64: in.Screenshot,
	})

	raw, err := e.client.Complete(ctx, *in.Model, messages)
	if err != nil {
		return nil, nil, err
	}
	e.history.AppendUser(in.SessionID, in.Task)
	e.history.AppendAssistant(in.SessionID, raw)

	thinking, actionText := ParseResponse(raw)
	if thinking != "" {
		e.logger.Debug("executor thinking", "session_id", in.SessionID, "thinking", thinking)
	}
	action, err := ParseAction(actionText)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateAction(action); err != nil {
		return nil, nil, err
	}
	return []spec.Action{action}, nil, nil
}
