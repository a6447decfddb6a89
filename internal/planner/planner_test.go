package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, cfg spec.ModelConfig, messages []spec.Message) (string, error) {
	f.calls++
	return f.response, f.err
}

type stubSkill struct{ id, name, desc string }

func (s stubSkill) ID() string          { return s.id }
func (s stubSkill) Name() string        { return s.name }
func (s stubSkill) Description() string { return s.desc }
func (s stubSkill) Analyze(ctx context.Context, task string, sc spec.SkillContext) (spec.SkillResult, error) {
	return spec.SkillResult{}, nil
}

func managerModel() *spec.ModelConfig {
	return &spec.ModelConfig{BaseURL: "https://api.example.com", APIKey: "k", Model: "manager"}
}

func builtins() []spec.Skill {
	return []spec.Skill{
		stubSkill{id: "anti_scam", name: "防诈骗", desc: "诈骗检测"},
		stubSkill{id: "doudizhu", name: "斗地主大师", desc: "出牌建议"},
		stubSkill{id: "photo_composition", name: "构图大师", desc: "构图指导"},
		stubSkill{id: "translator", name: "翻译", desc: "翻译"},
	}
}

func wantIDs(t *testing.T, refs []spec.SkillRef, want ...string) {
	t.Helper()
	if len(refs) != len(want) {
		t.Fatalf("skills = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i].ID != want[i] {
			t.Fatalf("skills = %v, want %v", refs, want)
		}
	}
}

func TestKeywordSelectionTranslator(t *testing.T) {
	p := New(nil, nil)
	res := p.Run(context.Background(), Inputs{Task: "请翻译这段话"})
	wantIDs(t, res.Skills, "translator")
	if res.Skills[0].Kind != spec.KindBuiltin {
		t.Fatalf("kind = %v, want builtin", res.Skills[0].Kind)
	}
	if len(res.Plan) != 3 || res.Plan[0] != "分析任务: 请翻译这段话" {
		t.Fatalf("plan = %v", res.Plan)
	}
}

func TestKeywordSelectionSurvivesPunctuationAndSpacing(t *testing.T) {
	p := New(nil, nil)
	res := p.Run(context.Background(), Inputs{Task: "帮我 翻 译：这句话"})
	wantIDs(t, res.Skills, "translator")
}

func TestKeywordSelectionOrderIsStable(t *testing.T) {
	p := New(nil, nil)
	res := p.Run(context.Background(), Inputs{Task: "翻译这条疑似诈骗的短信"})
	wantIDs(t, res.Skills, "translator", "anti_scam")
}

func TestKeywordEnglishLiterals(t *testing.T) {
	p := New(nil, nil)
	res := p.Run(context.Background(), Inputs{Task: "is this a SCAM message"})
	wantIDs(t, res.Skills, "anti_scam")

	res = p.Run(context.Background(), Inputs{Task: "help me with doudizhu"})
	wantIDs(t, res.Skills, "doudizhu")
}

func TestUserSkillNameMatch(t *testing.T) {
	p := New(nil, nil)
	userSkills := []spec.SkillDefinition{
		{ID: "user:recipe", Name: "菜谱助手", Description: "做菜"},
	}
	res := p.Run(context.Background(), Inputs{Task: "用菜谱助手查红烧肉", UserSkills: userSkills})
	wantIDs(t, res.Skills, "user:recipe")
	if res.Skills[0].Kind != spec.KindUser {
		t.Fatalf("kind = %v, want user", res.Skills[0].Kind)
	}
}

func TestUserAgentSubstringMatchFirstWins(t *testing.T) {
	p := New(nil, nil)
	agents := []spec.AgentPersona{
		{ID: "chef", Name: "大厨"},
		{ID: "tutor", Name: "老师"},
	}
	res := p.Run(context.Background(), Inputs{Task: "让大厨和老师一起帮我", UserAgents: agents})
	if res.Agent == nil || res.Agent.ID != "chef" {
		t.Fatalf("agent = %v, want chef", res.Agent)
	}
}

func TestNoMatchEmptySelection(t *testing.T) {
	p := New(nil, nil)
	res := p.Run(context.Background(), Inputs{Task: "今天天气怎么样"})
	if len(res.Skills) != 0 || res.Agent != nil {
		t.Fatalf("skills = %v, agent = %v, want empty", res.Skills, res.Agent)
	}
	if len(res.Plan) != 3 {
		t.Fatalf("plan = %v", res.Plan)
	}
}

func TestModelSelectionFiltersUnknownIDs(t *testing.T) {
	fake := &fakeCompleter{response: `{"skills": ["translator", "made_up", "user:recipe"]}`}
	p := New(fake, nil)
	res := p.Run(context.Background(), Inputs{
		Task:         "随便什么任务",
		Builtins:     builtins(),
		UserSkills:   []spec.SkillDefinition{{ID: "user:recipe", Name: "菜谱助手"}},
		ManagerModel: managerModel(),
	})
	wantIDs(t, res.Skills, "translator", "user:recipe")
	if res.Skills[1].Kind != spec.KindUser {
		t.Fatalf("kind = %v, want user", res.Skills[1].Kind)
	}
}

func TestModelSelectionAgentMatchCaseInsensitive(t *testing.T) {
	fake := &fakeCompleter{response: `{"skills": [], "agent_id": "CHEF"}`}
	p := New(fake, nil)
	res := p.Run(context.Background(), Inputs{
		Task:         "做饭",
		Builtins:     builtins(),
		UserAgents:   []spec.AgentPersona{{ID: "chef", Name: "大厨"}},
		ManagerModel: managerModel(),
	})
	if res.Agent == nil || res.Agent.ID != "chef" {
		t.Fatalf("agent = %v, want chef", res.Agent)
	}
	if len(res.Skills) != 0 {
		t.Fatalf("skills = %v, want empty", res.Skills)
	}
}

func TestModelFailureFallsBackToKeywords(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("unreachable")}
	p := New(fake, nil)
	res := p.Run(context.Background(), Inputs{
		Task:         "请翻译这段话",
		Builtins:     builtins(),
		ManagerModel: managerModel(),
	})
	if fake.calls != 1 {
		t.Fatalf("calls = %d, want 1", fake.calls)
	}
	wantIDs(t, res.Skills, "translator")
}

func TestModelGarbageFallsBackToKeywords(t *testing.T) {
	fake := &fakeCompleter{response: "I cannot answer in JSON"}
	p := New(fake, nil)
	res := p.Run(context.Background(), Inputs{
		Task:         "帮我构图",
		Builtins:     builtins(),
		ManagerModel: managerModel(),
	})
	wantIDs(t, res.Skills, "photo_composition")
}

func TestUnusableManagerModelSkipsModelPath(t *testing.T) {
	fake := &fakeCompleter{response: `{"skills": ["doudizhu"]}`}
	p := New(fake, nil)
	res := p.Run(context.Background(), Inputs{
		Task:         "请翻译",
		Builtins:     builtins(),
		ManagerModel: &spec.ModelConfig{BaseURL: "https://api.example.com"},
	})
	if fake.calls != 0 {
		t.Fatalf("calls = %d, want 0", fake.calls)
	}
	wantIDs(t, res.Skills, "translator")
}
