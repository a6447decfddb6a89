package phoneagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jieyou-io/phone-agent-xiaozhi/internal/effectschema"
	"github.com/jieyou-io/phone-agent-xiaozhi/internal/executor"
	"github.com/jieyou-io/phone-agent-xiaozhi/internal/modelrouter"
	"github.com/jieyou-io/phone-agent-xiaozhi/internal/planner"
	"github.com/jieyou-io/phone-agent-xiaozhi/internal/sessionstore"
	"github.com/jieyou-io/phone-agent-xiaozhi/modelapi"
	"github.com/jieyou-io/phone-agent-xiaozhi/skills"
	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

const defaultMaxIterations = 5

// Engine runs the plan, act, dispatch, check cycle for phone-agent tasks.
// One Engine serves many sessions concurrently; per-run state stays on the
// Run stack, cross-run state lives in the bounded session stores.
type Engine struct {
	logger   *slog.Logger
	registry *skills.Registry
	client   spec.ChatCompleter
	checker  spec.CompletionChecker

	history   *sessionstore.History
	planCache *sessionstore.PlanCache

	planner  *planner.Planner
	executor *executor.Executor

	strictEffects bool
	maxIterations int
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:        slog.Default(),
		history:       sessionstore.NewHistory(),
		planCache:     sessionstore.NewPlanCache(),
		maxIterations: defaultMaxIterations,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.registry == nil {
		e.registry = skills.DefaultRegistry()
	}
	if e.client == nil {
		e.client = modelapi.New(modelapi.WithLogger(e.logger))
	}
	if e.checker == nil {
		e.checker = singleCycleChecker{}
	}
	e.planner = planner.New(e.client, e.logger)
	e.executor = executor.New(e.client, e.history, e.logger)
	return e, nil
}

// singleCycleChecker is the default completion verdict: one full cycle
// completes the task.
type singleCycleChecker struct{}

func (singleCycleChecker) Evaluate(ctx context.Context, task string, plan []string) (bool, error) {
	return true, nil
}

// Run executes one task to completion or to the iteration bound. A run that
// errors returns nothing but the error: timings recorded before the failure
// stay internal bookkeeping.
func (e *Engine) Run(ctx context.Context, payload spec.TaskPayload) (spec.RunResult, error) {
	if strings.TrimSpace(payload.Task) == "" {
		return spec.RunResult{}, errors.Join(spec.ErrInvalidArgument, errors.New("empty task"))
	}

	runID := uuid.Must(uuid.NewV7()).String()
	logger := e.logger.With("run_id", runID, "session_id", payload.SessionID)

	s := newRunState(payload)
	if entry, ok := e.planCache.Get(s.sessionID, s.task); ok {
		s.plan = entry.Plan
		s.selected = entry.SelectedRefs
		s.pending = append([]spec.SkillRef(nil), entry.SelectedRefs...)
		s.selectedAgent = entry.SelectedAgent
		s.skipPlanner = true
		logger.Info("plan cache hit", "skills", len(s.selected))
	}

	logger.Info("run started", "has_screenshot", s.screenshot != "", "cached_plan", s.skipPlanner)

	for iteration := 0; iteration < e.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return spec.RunResult{}, err
		}

		e.planPhase(ctx, s, logger)

		if err := e.actPhase(ctx, s); err != nil {
			return spec.RunResult{}, err
		}

		if err := e.dispatchPhase(ctx, s, logger); err != nil {
			return spec.RunResult{}, err
		}

		done, err := e.checker.Evaluate(ctx, s.task, s.plan)
		if err != nil {
			return spec.RunResult{}, err
		}
		s.done = done
		if done {
			logger.Info("run done",
				"iterations", iteration+1,
				"actions", len(s.actions),
				"effects", len(s.effects))
			return s.result(), nil
		}
	}

	logger.Warn("run stopped at iteration bound", "max_iterations", e.maxIterations)
	return s.result(), nil
}

func (e *Engine) planPhase(ctx context.Context, s *runState, logger *slog.Logger) {
	if s.skipPlanner {
		logger.Info("planning skipped, cached selection in use")
		return
	}

	managerModel := s.managerModel
	if managerModel == nil {
		managerModel = s.defaultModel
	}
	res := e.planner.Run(ctx, planner.Inputs{
		Task:         s.task,
		Builtins:     e.registry.All(),
		UserSkills:   s.userSkills,
		UserAgents:   s.userAgents,
		ManagerModel: managerModel,
	})
	s.plan = res.Plan
	s.selected = res.Skills
	s.selectedAgent = res.Agent
	s.pending = append([]spec.SkillRef(nil), res.Skills...)

	if s.sessionID != "" {
		e.planCache.Set(s.sessionID, s.task, s.plan, s.selected, s.selectedAgent)
	}
}

// actPhase produces the primary device action. A selected persona supplies
// its model and system prompt; a translator-only selection without a persona
// suppresses the execution model so translation stays the sole outcome.
func (e *Engine) actPhase(ctx context.Context, s *runState) error {
	model := s.executionModel
	if s.selectedAgent != nil {
		if s.selectedAgent.Model != nil {
			model = s.selectedAgent.Model
		}
		s.systemPromptOverride = s.selectedAgent.SystemPrompt
	}
	if s.selectedBuiltin("translator") && s.selectedAgent == nil {
		model = nil
	}

	actions, effects, err := e.executor.Run(ctx, executor.Inputs{
		Task:                 s.task,
		Screenshot:           s.screenshot,
		SessionID:            s.sessionID,
		Model:                model,
		SystemPromptOverride: s.systemPromptOverride,
	})
	if err != nil {
		return err
	}
	s.actions = actions
	s.effects = append(s.effects, effects...)
	return nil
}

// dispatchPhase drains the pending queue front to back. Every attempted
// dispatch records a timing; a failing skill aborts the run after its timing
// is recorded.
func (e *Engine) dispatchPhase(ctx context.Context, s *runState, logger *slog.Logger) error {
	for len(s.pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		ref := s.pending[0]
		s.pending = s.pending[1:]

		var (
			skill spec.Skill
			model *spec.ModelConfig
		)
		switch ref.Kind {
		case spec.KindUser:
			def, found := s.findUserSkill(ref.ID)
			if !found {
				logger.Warn("selected user skill not in payload, skipping", "skill_id", ref.ID)
				continue
			}
			var agentModel *spec.ModelConfig
			if s.selectedAgent != nil {
				agentModel = s.selectedAgent.Model
			}
			skill = skills.NewGeneric(def)
			model = modelrouter.ResolveUserSkill(def.Model, agentModel, s.defaultModel)
		default:
			builtin, found := e.registry.Get(ref.ID)
			if !found {
				logger.Warn("selected skill not registered, skipping", "skill_id", ref.ID)
				continue
			}
			skill = builtin
			model = modelrouter.ResolveBuiltin(ref.ID, s.builtinModels, s.defaultModel)
		}

		sc := spec.SkillContext{
			Screenshot:        s.screenshot,
			ModelConfig:       model,
			TranslationRegion: s.translationRegion,
			Client:            e.client,
		}

		start := time.Now()
		result, err := skill.Analyze(ctx, s.task, sc)
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			s.timings = append(s.timings, spec.SkillTiming{
				SkillID: ref.ID, ExecutionMS: elapsed, Status: 0,
			})
			return fmt.Errorf("skill %s: %w", ref.ID, err)
		}
		s.timings = append(s.timings, spec.SkillTiming{
			SkillID: ref.ID, ExecutionMS: elapsed, Status: 1,
		})

		if violations := effectschema.Validate(result.Effects); len(violations) > 0 {
			if e.strictEffects {
				return errors.Join(spec.ErrInvalidEffect,
					fmt.Errorf("skill %s: %s", ref.ID, strings.Join(violations, "; ")))
			}
			logger.Warn("skill produced invalid effects",
				"skill_id", ref.ID, "violations", violations)
		}
		s.effects = append(s.effects, result.Effects...)
	}
	return nil
}

// CloseSession drops all state kept for a session: conversation history and
// the cached plan. Call it when the device disconnects.
func (e *Engine) CloseSession(sessionID string) {
	e.history.Delete(sessionID)
	e.planCache.Remove(sessionID)
}
