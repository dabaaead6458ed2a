// Package catalog holds the read-only PlanTemplate reference data. The
// catalog is constructor-injected wherever template lookup is needed so tests
// can substitute their own templates.
package catalog

import (
	"fmt"
	"os"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"

	"gopkg.in/yaml.v3"
)

// Catalog is an immutable, ordered set of plan templates keyed by template key.
type Catalog struct {
	byKey map[string]domain.PlanTemplate
	order []string
}

// New builds a catalog from the given templates. Later duplicates of a key
// replace earlier ones.
func New(templates []domain.PlanTemplate) *Catalog {
	c := &Catalog{byKey: make(map[string]domain.PlanTemplate, len(templates))}
	for _, t := range templates {
		if _, exists := c.byKey[t.Key]; !exists {
			c.order = append(c.order, t.Key)
		}
		c.byKey[t.Key] = t
	}
	return c
}

// LoadFile reads a YAML template catalog from disk.
//
// Expected shape:
//
//	templates:
//	  - key: sugar_reduction
//	    name: Sugar Reduction
//	    suggested_duration_days: 21
//	    risk_notes: [...]
//	    guidelines: [...]
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	var doc struct {
		Templates []domain.PlanTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("template catalog %s contains no templates", path)
	}
	for _, t := range doc.Templates {
		if t.Key == "" || t.SuggestedDurationDays <= 0 {
			return nil, fmt.Errorf("template catalog %s: template %q needs a key and a positive suggested duration", path, t.Name)
		}
	}
	return New(doc.Templates), nil
}

// Get looks up a template by key.
func (c *Catalog) Get(key string) (domain.PlanTemplate, bool) {
	t, ok := c.byKey[key]
	return t, ok
}

// List returns all templates in catalog order.
func (c *Catalog) List() []domain.PlanTemplate {
	out := make([]domain.PlanTemplate, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.byKey[key])
	}
	return out
}

// Default returns the built-in recovery plan templates used when no catalog
// file is configured.
func Default() *Catalog {
	return New([]domain.PlanTemplate{
		{
			Key:                   "sugar_reduction",
			Name:                  "Sugar Reduction",
			SuggestedDurationDays: 21,
			RiskNotes: []string{
				"Energy crashes and mood swings are common in the first week",
				"Hidden sugars in sauces and drinks undermine progress",
			},
			Guidelines: []string{
				"Replace sugary drinks with water or unsweetened tea",
				"Read labels; anything ending in -ose counts",
				"Keep fruit on hand for cravings",
			},
		},
		{
			Key:                   "alcohol_free",
			Name:                  "Alcohol-Free Reset",
			SuggestedDurationDays: 30,
			RiskNotes: []string{
				"Social settings are the most common relapse trigger",
				"Sleep may worsen before it improves",
			},
			Guidelines: []string{
				"Plan a non-alcoholic order before social events",
				"Tell one person about your plan for accountability",
				"Track how you sleep and feel each morning",
			},
		},
		{
			Key:                   "smoking_cessation",
			Name:                  "Smoking Cessation",
			SuggestedDurationDays: 45,
			RiskNotes: []string{
				"Cravings peak around day three and fade over weeks",
				"Stress and coffee breaks are strong cue triggers",
			},
			Guidelines: []string{
				"Remove lighters and ashtrays from your environment",
				"Use a short walk to ride out a craving",
				"Pair the plan with a set quit date, not a taper",
			},
		},
		{
			Key:                   "caffeine_cut",
			Name:                  "Caffeine Cutback",
			SuggestedDurationDays: 14,
			RiskNotes: []string{
				"Abrupt stops commonly cause headaches for a few days",
			},
			Guidelines: []string{
				"Halve your usual intake before cutting fully",
				"No caffeine after 2pm",
				"Swap the afternoon cup for a glass of water",
			},
		},
		{
			Key:                   "screen_time",
			Name:                  "Screen Time Detox",
			SuggestedDurationDays: 21,
			RiskNotes: []string{
				"Phantom checking persists for the first two weeks",
			},
			Guidelines: []string{
				"No screens in the bedroom",
				"Set app timers before the day starts",
				"Replace scroll time with a queued book or podcast",
			},
		},
	})
}
