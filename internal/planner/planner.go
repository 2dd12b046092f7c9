// Package planner parses and repairs the structural documentation plan
// returned by the generation service.
package planner

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/superdocs/superdocs/internal/llm"
	"github.com/superdocs/superdocs/internal/schemas"
	"github.com/superdocs/superdocs/internal/types"
)

//go:embed plan_schema.json
var planSchema []byte

// badCategories are catch-all names the plan is not allowed to use.
var badCategories = map[string]bool{
	"":              true,
	"project docs":  true,
	"general":       true,
	"documentation": true,
	"docs":          true,
	"misc":          true,
}

// categoryRules maps title keywords to repaired categories, in priority
// order: the first rule with any matching keyword wins.
var categoryRules = []struct {
	keywords []string
	category string
}{
	{[]string{"intro", "start", "install", "setup", "getting started", "overview"}, "Getting Started"},
	{[]string{"api", "reference", "interface", "type", "schema", "sdk"}, "API Reference"},
	{[]string{"architect", "system", "design", "structure", "pattern", "flow"}, "Architecture"},
	{[]string{"component", "ui", "view", "page", "screen"}, "Components"},
	{[]string{"util", "lib", "helper", "shared", "common"}, "Utilities"},
	{[]string{"hook", "state", "store", "context", "provider"}, "State Management"},
	{[]string{"config", "env", "setting", "option"}, "Configuration"},
	{[]string{"deploy", "ci", "cd", "build", "release", "docker"}, "Deployment & DevOps"},
	{[]string{"test", "spec", "e2e", "coverage"}, "Testing"},
	{[]string{"auth", "service", "controller", "backend", "server", "database", "model"}, "Backend & Services"},
	{[]string{"guide", "tutorial", "how", "example", "walkthrough"}, "Guides"},
	{[]string{"advanced", "deep", "internal", "core", "engine", "optimization"}, "Advanced Topics"},
}

// fallbackCategory is used when no keyword rule matches.
const fallbackCategory = "General Documentation"

// plannedSection is the wire shape of one planned page.
type plannedSection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ParsePlan extracts, validates, and repairs a documentation plan from a raw
// model response. The JSON array is validated against an embedded schema
// before unmarshalling; a response with no valid array is an error, never a
// partial plan.
func ParsePlan(raw string) ([]types.GenerationUnit, error) {
	cleaned := llm.ExtractJSONArray(raw)

	if err := schemas.ValidateJSONString(string(planSchema), cleaned); err != nil {
		return nil, fmt.Errorf("plan failed schema validation: %w", err)
	}

	var sections []plannedSection
	if err := json.Unmarshal([]byte(cleaned), &sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("plan contains no sections")
	}

	units := make([]types.GenerationUnit, 0, len(sections))
	for _, s := range sections {
		units = append(units, types.GenerationUnit{
			ID:          s.ID,
			Title:       s.Title,
			Category:    s.Category,
			Description: s.Description,
			Status:      types.StatusPlanned,
		})
	}
	return RepairCategories(units), nil
}

// RepairCategories re-categorizes units whose category is missing or generic,
// or every unit when the whole plan has fewer than two distinct categories,
// using the keyword rules over the unit title.
func RepairCategories(units []types.GenerationUnit) []types.GenerationUnit {
	distinct := make(map[string]bool)
	for _, u := range units {
		distinct[u.Category] = true
	}
	lowDiversity := len(distinct) < 2

	out := make([]types.GenerationUnit, len(units))
	for i, u := range units {
		if badCategories[strings.ToLower(u.Category)] || lowDiversity {
			u.Category = categorizeByTitle(u.Title)
		}
		out[i] = u
	}
	return out
}

func categorizeByTitle(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return fallbackCategory
}
