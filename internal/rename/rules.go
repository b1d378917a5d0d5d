package rename

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one user-supplied regex rewrite: titles matching Pattern have every
// match replaced with Replacement. Replacement may reference capture groups
// ($1, ${name}) and may contain a numbering placeholder.
type Rule struct {
	Pattern     string
	Replacement string
}

// Diagnostic reports a rule that could not be applied. Rules with invalid
// regexes are skipped, never fatal; callers surface diagnostics to the user.
type Diagnostic struct {
	Rule    int
	Pattern string
	Detail  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("rule %d (%q): %s", d.Rule+1, d.Pattern, d.Detail)
}

// Pipeline applies an ordered set of rules to chapter titles.
type Pipeline struct {
	rules []compiledRule
	diags []Diagnostic
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
	spec        Spec
	hasSpec     bool
}

// NewPipeline compiles the given rules. Invalid regexes and empty patterns
// are recorded as diagnostics and excluded from application.
func NewPipeline(rules []Rule) *Pipeline {
	p := &Pipeline{}
	for i, rule := range rules {
		pattern := rule.Pattern
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			p.diags = append(p.diags, Diagnostic{Rule: i, Pattern: pattern, Detail: err.Error()})
			continue
		}
		cr := compiledRule{re: re, replacement: rule.Replacement}
		cr.spec, cr.hasSpec = Parse(rule.Replacement)
		p.rules = append(p.rules, cr)
	}
	return p
}

// Diagnostics returns compile problems encountered by NewPipeline.
func (p *Pipeline) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(p.diags))
	copy(out, p.diags)
	return out
}

// Apply runs every rule against title in order. index is the zero-based
// chapter position used to expand numbering placeholders inside replacement
// text. The placeholder is expanded before regex substitution so capture
// group references in the replacement keep working.
func (p *Pipeline) Apply(title string, index int) string {
	for _, rule := range p.rules {
		if !rule.re.MatchString(title) {
			continue
		}
		replacement := rule.replacement
		if rule.hasSpec {
			replacement = rule.spec.render(rule.replacement, index)
		}
		title = rule.re.ReplaceAllString(title, replacement)
	}
	return title
}
