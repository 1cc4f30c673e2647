// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the YAML form of a RuleSet:
//
//	rules:
//	  - field: Average
//	    family: latency
//	    kind: float
//	    label: Average
//	    exclude: [Index, Memory]
type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Field   string   `yaml:"field"`
	Family  string   `yaml:"family"`
	Kind    string   `yaml:"kind,omitempty"`
	Label   string   `yaml:"label"`
	Require []string `yaml:"require,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoadRules reads a YAML rule table from r.
func LoadRules(r io.Reader) (*RuleSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rf ruleFile
	if err := dec.Decode(&rf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("rule file is empty")
		}
		return nil, err
	}
	if len(rf.Rules) == 0 {
		return nil, errors.New("rule file has no rules")
	}
	rules := make([]Rule, 0, len(rf.Rules))
	for i, spec := range rf.Rules {
		kind, err := ParseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, Rule{
			Field:   spec.Field,
			Family:  Family(spec.Family),
			Kind:    kind,
			Label:   spec.Label,
			Require: spec.Require,
			Exclude: spec.Exclude,
		})
	}
	return NewRuleSet(rules...)
}

// LoadRulesFile reads a YAML rule table from the named file.
func LoadRulesFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rs, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// WriteRules writes rs to w in the form LoadRules reads.
func WriteRules(w io.Writer, rs *RuleSet) error {
	var rf ruleFile
	for _, r := range rs.rules {
		rf.Rules = append(rf.Rules, ruleSpec{
			Field:   r.Field,
			Family:  string(r.Family),
			Kind:    r.Kind.String(),
			Label:   r.Label,
			Require: r.Require,
			Exclude: r.Exclude,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&rf); err != nil {
		return err
	}
	return enc.Close()
}
