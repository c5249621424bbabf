package judge

import (
	"strings"
	"testing"

	"github.com/ppiankov/adjury/internal/model"
)

func TestDefault_ContainsDefaultPanel(t *testing.T) {
	r := Default()
	if missing := r.Unknown(model.DefaultJudgePanel); len(missing) != 0 {
		t.Fatalf("default panel references unknown judges: %v", missing)
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Judge{{ID: "a"}, {ID: "a"}})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if _, err := NewRegistry([]Judge{{ID: ""}}); err == nil {
		t.Fatal("expected empty id error")
	}
}

func TestList_OrderedByCategoryThenID(t *testing.T) {
	list := Default().List()
	if len(list) != Default().Len() {
		t.Fatalf("list length %d != registry length %d", len(list), Default().Len())
	}

	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		po, co := categoryOrder(prev.Category), categoryOrder(cur.Category)
		if po > co || (po == co && prev.ID >= cur.ID) {
			t.Errorf("list out of order at %d: %s/%s before %s/%s", i, prev.Category, prev.ID, cur.Category, cur.ID)
		}
	}
	if list[0].Category != CategoryPlatform {
		t.Errorf("expected platform judges first, got %s", list[0].Category)
	}
}

func TestUnknown(t *testing.T) {
	r := Default()
	got := r.Unknown([]string{"meta", "nope", "x_twitter", "also_nope"})
	if len(got) != 2 || got[0] != "nope" || got[1] != "also_nope" {
		t.Errorf("unexpected unknown ids: %v", got)
	}
}

func TestSystemPrompt(t *testing.T) {
	j, ok := Default().Lookup("meta_ads_integrity")
	if !ok {
		t.Fatal("expected meta_ads_integrity judge")
	}
	prompt := SystemPrompt(j)

	for _, want := range []string{"CRITICAL SAFETY RULES", `"judge_id": "meta_ads_integrity"`, "VERDICT TIER DEFINITIONS", j.Name} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestContentPrompt(t *testing.T) {
	plain := ContentPrompt("Buy now", "")
	if strings.Contains(plain, "PROVIDED CONTEXT") {
		t.Error("expected no context block without a hint")
	}
	if !strings.HasPrefix(plain, "CONTENT TO ANALYZE:\n---\nBuy now\n---\n") {
		t.Errorf("unexpected prompt prefix: %q", plain)
	}

	hinted := ContentPrompt("Buy now", "Advertiser: Shop")
	if !strings.Contains(hinted, "PROVIDED CONTEXT:\nAdvertiser: Shop\n---\n") {
		t.Errorf("expected context block, got %q", hinted)
	}
	if !strings.HasSuffix(hinted, "provide your verdict as a JSON object.") {
		t.Errorf("unexpected prompt suffix: %q", hinted)
	}
}
