package sessionstore

import (
	"testing"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

func TestPlanCacheRoundTrip(t *testing.T) {
	c := NewPlanCache()
	refs := []spec.SkillRef{{Kind: spec.KindBuiltin, ID: "translator"}}
	c.Set("s1", "  请翻译  ", []string{"a", "b", "c"}, refs, nil)

	entry, ok := c.Get("s1", "请翻译")
	if !ok {
		t.Fatalf("expected hit")
	}
	if len(entry.SelectedRefs) != 1 || entry.SelectedRefs[0].ID != "translator" {
		t.Fatalf("refs = %v", entry.SelectedRefs)
	}
	if entry.Task != "请翻译" {
		t.Fatalf("task not trimmed: %q", entry.Task)
	}
}

func TestPlanCacheTaskMismatch(t *testing.T) {
	c := NewPlanCache()
	c.Set("s1", "请翻译", nil, nil, nil)
	if _, ok := c.Get("s1", "打开微信"); ok {
		t.Fatalf("different task must miss")
	}
}

func TestPlanCacheEmptyKeys(t *testing.T) {
	c := NewPlanCache()
	c.Set("", "task", nil, nil, nil)
	if _, ok := c.Get("", "task"); ok {
		t.Fatalf("empty session id must miss")
	}
	if _, ok := c.Get("s1", ""); ok {
		t.Fatalf("empty task must miss")
	}
}

func TestPlanCacheOverwriteAndRemove(t *testing.T) {
	c := NewPlanCache()
	c.Set("s1", "one", nil, []spec.SkillRef{{ID: "a"}}, nil)
	c.Set("s1", "two", nil, []spec.SkillRef{{ID: "b"}}, nil)

	if _, ok := c.Get("s1", "one"); ok {
		t.Fatalf("stale entry must be gone")
	}
	entry, ok := c.Get("s1", "two")
	if !ok || entry.SelectedRefs[0].ID != "b" {
		t.Fatalf("overwrite failed: %v ok=%v", entry, ok)
	}

	c.Remove("s1")
	if _, ok := c.Get("s1", "two"); ok {
		t.Fatalf("removed entry must miss")
	}
}
