package di

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/dig"

	"github.com/ppiankov/adjury/internal/consensus"
	"github.com/ppiankov/adjury/internal/llm"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/panel"
	"github.com/ppiankov/adjury/internal/source"
	"github.com/ppiankov/adjury/internal/util"
)

type fakeProvider struct {
	calls int32
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *fakeProvider) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	return `{"verdict_tier":"REMOVE","confidence_score":0.9,"primary_policy_axis":"Fraud","reasoning_bullets":["guaranteed returns"]}`, nil
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.1:8b"
	return cfg
}

func TestBuildContainer_ResolvesPipeline(t *testing.T) {
	c, err := BuildContainer(context.Background(), testConfig(), nil)
	if err != nil {
		t.Fatalf("BuildContainer failed: %v", err)
	}

	fake := &fakeProvider{}
	if err := c.Decorate(func(llm.Provider) llm.Provider { return fake }); err != nil {
		t.Fatalf("Decorate failed: %v", err)
	}

	p, err := Pipeline(c)
	if err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	result, err := p.RunScan(context.Background(), model.ScanRequest{
		JudgeIDs: []string{"meta_ads_integrity", "ftc_consumer_protection"},
		Items: []model.ContentItem{
			{ID: "a1", Text: "Guaranteed 300% crypto returns, act now", Advertiser: "Quick Wealth"},
		},
	})
	if err != nil {
		t.Fatalf("RunScan failed: %v", err)
	}
	if len(result.Violating) != 1 {
		t.Fatalf("expected 1 violating item, got %d (failures %v)", len(result.Violating), result.Failures)
	}
	if got := atomic.LoadInt32(&fake.calls); got != 2 {
		t.Errorf("expected 2 judge calls, got %d", got)
	}
}

func TestBuildContainer_NoProvider(t *testing.T) {
	cfg := model.DefaultConfig()
	c, err := BuildContainer(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("BuildContainer failed: %v", err)
	}

	_, err = Pipeline(c)
	if err == nil {
		t.Fatal("expected an error without an LLM provider")
	}
	if !errors.Is(dig.RootCause(err), llm.ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}

func TestBuildContainer_OptionalParts(t *testing.T) {
	tests := []struct {
		name          string
		narrate       bool
		respectRobots bool
	}{
		{"defaults", false, false},
		{"narration and robots", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Narrator.Enabled = tt.narrate
			cfg.HTTP.RespectRobots = tt.respectRobots

			c, err := BuildContainer(context.Background(), cfg, nil)
			if err != nil {
				t.Fatal(err)
			}

			err = c.Invoke(func(in struct {
				dig.In
				Narrator consensus.Narrator `optional:"true"`
				Robots   *util.RobotsChecker
				Source   source.Source
			}) {
				if (in.Narrator != nil) != tt.narrate {
					t.Errorf("narrator present = %v, want %v", in.Narrator != nil, tt.narrate)
				}
				if (in.Robots != nil) != tt.respectRobots {
					t.Errorf("robots checker present = %v, want %v", in.Robots != nil, tt.respectRobots)
				}
				if in.Source.Name() != "apify" {
					t.Errorf("source = %q, want apify with sample fallback", in.Source.Name())
				}
			})
			if err != nil {
				t.Fatalf("Invoke failed: %v", err)
			}
		})
	}
}

func TestBuildContainer_CrossModelFamilies(t *testing.T) {
	tests := []struct {
		name      string
		openaiKey string
		want      []string
	}{
		{"judge backend only", "", []string{"ollama"}},
		{"openai key in env", "sk-test", []string{"ollama", "openai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
				t.Setenv(k, "")
			}
			t.Setenv("OPENAI_API_KEY", tt.openaiKey)

			cfg := testConfig()
			cfg.CrossModel.Providers = []string{"ollama", "openai", "anthropic"}
			c, err := BuildContainer(context.Background(), cfg, nil)
			if err != nil {
				t.Fatal(err)
			}

			err = c.Invoke(func(cm *panel.CrossModel) {
				got := cm.Families()
				if len(got) != len(tt.want) {
					t.Fatalf("families = %v, want %v", got, tt.want)
				}
				for i := range got {
					if got[i] != tt.want[i] {
						t.Errorf("families = %v, want %v", got, tt.want)
					}
				}
			})
			if err != nil {
				t.Fatalf("Invoke failed: %v", err)
			}
		})
	}
}
