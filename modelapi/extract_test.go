package modelapi

import "testing"

func TestExtractJSONObjectRaw(t *testing.T) {
	obj, ok := ExtractJSONObject(`{"skills": ["translator"]}`)
	if !ok {
		t.Fatalf("expected object")
	}
	if _, exists := obj["skills"]; !exists {
		t.Fatalf("missing skills key: %v", obj)
	}
}

func TestExtractJSONObjectEmbedded(t *testing.T) {
	raw := "Sure! Here is the selection:\n```json\n{\"skills\": [], \"agent_id\": \"a1\"}\n```\nDone."
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatalf("expected embedded object to parse")
	}
	if obj["agent_id"] != "a1" {
		t.Fatalf("agent_id = %v", obj["agent_id"])
	}
}

func TestExtractJSONObjectRejectsNonObject(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json at all", `["a", "b"]`, "{broken"} {
		if _, ok := ExtractJSONObject(raw); ok {
			t.Fatalf("expected failure for %q", raw)
		}
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"https://api.example.com":        "https://api.example.com/v1/",
		"https://api.example.com/":       "https://api.example.com/v1/",
		"https://api.example.com/v1":     "https://api.example.com/v1/",
		"https://open.bigmodel.cn/api/paas/v4/": "https://open.bigmodel.cn/api/paas/v4/",
		"https://open.bigmodel.cn/api/paas/v4":  "https://open.bigmodel.cn/api/paas/v4/",
	}
	for in, want := range cases {
		if got := NormalizeBaseURL(in); got != want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}
