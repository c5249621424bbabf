// Package judge holds the policy personas that evaluate content.
package judge

import (
	"fmt"
	"sort"
	"strings"
)

// Category groups related judges
type Category string

const (
	CategoryPlatform Category = "platform"
	CategoryScams    Category = "scams"
)

// CategoryInfo describes a judge category for listings
type CategoryInfo struct {
	ID          Category `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Order       int      `json:"order"`
}

var categories = []CategoryInfo{
	{ID: CategoryPlatform, Name: "Platform Policies", Description: "Major social media platform content policies", Order: 1},
	{ID: CategoryScams, Name: "Scams & Fraud Experts", Description: "Platform-specific scam policies and fraud prevention specialists", Order: 2},
}

// Judge is one policy persona
type Judge struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Focus       string   `json:"-"`
}

// Registry is an immutable set of judges keyed by id
type Registry struct {
	judges map[string]Judge
}

// NewRegistry builds a registry; ids must be unique
func NewRegistry(judges []Judge) (*Registry, error) {
	m := make(map[string]Judge, len(judges))
	for _, j := range judges {
		if j.ID == "" {
			return nil, fmt.Errorf("judge with empty id")
		}
		if _, dup := m[j.ID]; dup {
			return nil, fmt.Errorf("duplicate judge id %q", j.ID)
		}
		m[j.ID] = j
	}
	return &Registry{judges: m}, nil
}

// Default returns the built-in platform and scams panel
func Default() *Registry {
	r, err := NewRegistry(builtin)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the judge with the given id
func (r *Registry) Lookup(id string) (Judge, bool) {
	j, ok := r.judges[id]
	return j, ok
}

// Unknown returns the ids not present in the registry, in input order
func (r *Registry) Unknown(ids []string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := r.judges[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// List returns all judges ordered by category then id
func (r *Registry) List() []Judge {
	out := make([]Judge, 0, len(r.judges))
	for _, j := range r.judges {
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool {
		oa, ob := categoryOrder(out[a].Category), categoryOrder(out[b].Category)
		if oa != ob {
			return oa < ob
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// Categories returns the category descriptions in display order
func (r *Registry) Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), categories...)
}

// Len returns the number of judges
func (r *Registry) Len() int {
	return len(r.judges)
}

func categoryOrder(c Category) int {
	for _, info := range categories {
		if info.ID == c {
			return info.Order
		}
	}
	return len(categories) + 1
}

// SystemPrompt composes the persona with the shared rules and output schema
func SystemPrompt(j Judge) string {
	var b strings.Builder
	b.WriteString(safetyPreamble)
	b.WriteString("\nYou are the ")
	b.WriteString(j.Name)
	b.WriteString(" judge (")
	b.WriteString(j.Description)
	b.WriteString(").\n\n")
	if j.Focus != "" {
		b.WriteString(j.Focus)
		b.WriteString("\n")
	}
	b.WriteString(strings.ReplaceAll(outputFormat, "<your_judge_id>", j.ID))
	return b.String()
}

// ContentPrompt builds the user message for one evaluation
func ContentPrompt(text, hint string) string {
	var b strings.Builder
	b.WriteString("CONTENT TO ANALYZE:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n")
	if hint != "" {
		b.WriteString("\nPROVIDED CONTEXT:\n")
		b.WriteString(hint)
		b.WriteString("\n---\n")
	}
	b.WriteString("\nAnalyze this content and provide your verdict as a JSON object.")
	return b.String()
}
