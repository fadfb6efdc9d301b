package intent

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var defaultPhrases []byte

type phraseRule struct {
	Intent  string   `yaml:"intent"`
	IsVeg   *bool    `yaml:"is_veg"`
	Phrases []string `yaml:"phrases"`

	intent  Intent
	phrases [][]string
}

type phraseTable struct {
	ActionWords []string     `yaml:"action_words"`
	Rules       []phraseRule `yaml:"rules"`

	actions map[string]struct{}
}

// loadPhrases parses a phrase table in the phrases.yaml format.
func loadPhrases(data []byte) (*phraseTable, error) {
	var table phraseTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse phrase table: %w", err)
	}

	table.actions = make(map[string]struct{}, len(table.ActionWords))
	for _, w := range table.ActionWords {
		for _, tok := range Tokens(w) {
			table.actions[tok] = struct{}{}
		}
	}

	for i := range table.Rules {
		rule := &table.Rules[i]
		in, ok := Parse(rule.Intent)
		if !ok {
			return nil, fmt.Errorf("phrase rule %d: unknown intent %q", i, rule.Intent)
		}
		rule.intent = in
		for _, phrase := range rule.Phrases {
			if toks := Tokens(phrase); len(toks) > 0 {
				rule.phrases = append(rule.phrases, toks)
			}
		}
	}
	return &table, nil
}

func (t *phraseTable) match(tokens []string) (Result, bool) {
	for _, tok := range tokens {
		if _, ok := t.actions[tok]; ok || isNumber(tok) {
			return Result{}, false
		}
	}

	for _, rule := range t.Rules {
		for _, phrase := range rule.phrases {
			if containsRun(tokens, phrase) {
				res := Result{Intent: rule.intent, Source: SourcePhrase}
				if rule.IsVeg != nil {
					veg := *rule.IsVeg
					res.Entities.IsVeg = &veg
				}
				return res, true
			}
		}
	}
	return Result{}, false
}

// containsRun reports whether phrase occurs in tokens as a contiguous run.
func containsRun(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		for j, p := range phrase {
			if tokens[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}
