package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRules reads and validates the category rule table.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	setRuleDefaults(&rules)

	if err := validateRules(&rules); err != nil {
		return nil, fmt.Errorf("invalid rules %s: %w", path, err)
	}

	return &rules, nil
}

// LoadSources reads and validates the collector source list.
func LoadSources(path string) (*SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources SourcesConfig
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources YAML: %w", err)
	}

	if err := validateSources(&sources); err != nil {
		return nil, fmt.Errorf("invalid sources %s: %w", path, err)
	}

	return &sources, nil
}

func setRuleDefaults(rules *Rules) {
	if len(rules.DisplayOrder) == 0 {
		rules.DisplayOrder = Categories()
	}
}

func validateRules(rules *Rules) error {
	valid := make(map[string]bool)
	for _, c := range Categories() {
		valid[c] = true
	}

	if len(rules.Categories) == 0 {
		return fmt.Errorf("at least one category rule is required")
	}

	seen := make(map[string]bool)
	for i, rule := range rules.Categories {
		if !valid[rule.Category] {
			return fmt.Errorf("unknown category at index %d: %s", i, rule.Category)
		}
		if seen[rule.Category] {
			return fmt.Errorf("duplicate category rule at index %d: %s", i, rule.Category)
		}
		seen[rule.Category] = true
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("category %s must have at least one keyword", rule.Category)
		}
	}

	for i, c := range rules.DisplayOrder {
		if !valid[c] {
			return fmt.Errorf("unknown category in display_order at index %d: %s", i, c)
		}
	}

	return nil
}

func validateSources(sources *SourcesConfig) error {
	seen := make(map[string]bool)
	for i, src := range sources.Sources {
		if src.Name == "" {
			return fmt.Errorf("source at index %d is missing a name", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("duplicate source name at index %d: %s", i, src.Name)
		}
		seen[src.Name] = true

		switch src.Kind {
		case KindFeed, KindAcademic, KindHTML:
		default:
			return fmt.Errorf("source %s has unknown kind: %s", src.Name, src.Kind)
		}

		if src.URL == "" {
			return fmt.Errorf("source %s is missing a URL", src.Name)
		}
		if src.Kind == KindHTML && src.Selector == "" {
			return fmt.Errorf("html source %s is missing a selector", src.Name)
		}
		if src.Trust < 0 {
			return fmt.Errorf("source %s has negative trust rank", src.Name)
		}
	}

	return nil
}
