// Package canonical classifies free-text SOF event labels into a fixed
// maritime-event taxonomy via an ordered regex rule table.
package canonical

import (
	_ "embed"
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule is one entry of the ordered mapping table. Rules are tried in
// declared order; the first rule with any matching pattern wins and its
// static confidence is reported, not a match-quality score.
type Rule struct {
	Tag        string   `yaml:"tag"`
	Confidence float64  `yaml:"confidence"`
	Patterns   []string `yaml:"patterns"`

	compiled []*regexp.Regexp
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Mapper holds a compiled rule table.
type Mapper struct {
	rules []Rule
}

// NewMapper compiles a rule table. Pattern compilation is
// case-insensitive.
func NewMapper(rules []Rule) (*Mapper, error) {
	for i := range rules {
		rules[i].compiled = make([]*regexp.Regexp, 0, len(rules[i].Patterns))
		for _, p := range rules[i].Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, eris.Wrapf(err, "canonical: compile pattern %q for %s", p, rules[i].Tag)
			}
			rules[i].compiled = append(rules[i].compiled, re)
		}
	}
	return &Mapper{rules: rules}, nil
}

// LoadMapper reads a rule table from a YAML file, for deployments that
// override the built-in taxonomy.
func LoadMapper(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "canonical: read rules %s", path)
	}
	return parseMapper(data)
}

func parseMapper(data []byte) (*Mapper, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "canonical: unmarshal rules")
	}
	if len(f.Rules) == 0 {
		return nil, eris.New("canonical: rule table is empty")
	}
	return NewMapper(f.Rules)
}

// Map classifies a label against this mapper's table.
func (m *Mapper) Map(label string) (tag string, confidence float64, ok bool) {
	if label == "" {
		return "", 0, false
	}
	for _, r := range m.rules {
		for _, re := range r.compiled {
			if re.MatchString(label) {
				return r.Tag, r.Confidence, true
			}
		}
	}
	return "", 0, false
}

// Rules exposes the table for diagnostics.
func (m *Mapper) Rules() []Rule { return m.rules }

var defaultMapper = mustDefault()

func mustDefault() *Mapper {
	m, err := parseMapper(defaultRulesYAML)
	if err != nil {
		panic(err)
	}
	return m
}

// ReplaceDefault swaps the active taxonomy and returns the previous one.
// Call during startup, before any concurrent Map use.
func ReplaceDefault(m *Mapper) *Mapper {
	prev := defaultMapper
	defaultMapper = m
	return prev
}

// Map classifies a label against the active taxonomy — the built-in
// table unless ReplaceDefault installed an override.
func Map(label string) (tag string, confidence float64, ok bool) {
	return defaultMapper.Map(label)
}
