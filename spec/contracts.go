package spec

import "context"

// Skill is the capability contract every skill satisfies, built-in or
// user-defined. Analyze inspects the task and the per-dispatch context and
// returns a message and zero or more effects. An error aborts the enclosing
// run.
type Skill interface {
	ID() string
	Name() string
	Description() string
	Analyze(ctx context.Context, task string, sc SkillContext) (SkillResult, error)
}

// ChatCompleter is the chat-completion collaborator. Given a usable model
// config and a message sequence it returns the assistant's textual content.
// Failure modes beyond "no usable content" are opaque to the core.
type ChatCompleter interface {
	Complete(ctx context.Context, cfg ModelConfig, messages []Message) (string, error)
}

// CompletionChecker decides whether a run's task is finished or the loop must
// re-plan.
type CompletionChecker interface {
	Evaluate(ctx context.Context, task string, plan []string) (bool, error)
}
