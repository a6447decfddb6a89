package phoneagent

import (
	"log/slog"
	"time"

	"github.com/jieyou-io/phone-agent-xiaozhi/skills"
	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

type Option func(*Engine) error

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithRegistry replaces the default builtin-skill registry.
func WithRegistry(r *skills.Registry) Option {
	return func(e *Engine) error {
		e.registry = r
		return nil
	}
}

// WithChatClient replaces the chat-completion client shared by the planner,
// the executor, and all skill dispatches.
func WithChatClient(c spec.ChatCompleter) Option {
	return func(e *Engine) error {
		e.client = c
		return nil
	}
}

// WithCompletionChecker replaces the default checker, which declares every
// run done after its first cycle.
func WithCompletionChecker(c spec.CompletionChecker) Option {
	return func(e *Engine) error {
		e.checker = c
		return nil
	}
}

// WithHistoryLimit caps the per-session conversation window.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) error {
		e.history.SetLimit(n)
		return nil
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(e *Engine) error {
		e.history.SetTTL(ttl)
		return nil
	}
}

func WithMaxSessions(maxSessions int) Option {
	return func(e *Engine) error {
		e.history.SetMaxSessions(maxSessions)
		return nil
	}
}

// WithStrictEffects makes schema violations in skill effects fail the run
// instead of being logged and kept.
func WithStrictEffects() Option {
	return func(e *Engine) error {
		e.strictEffects = true
		return nil
	}
}

// WithMaxIterations bounds plan/act/check cycles per run. Runs that exhaust
// the bound return with Done set to false.
func WithMaxIterations(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			n = 1
		}
		e.maxIterations = n
		return nil
	}
}
