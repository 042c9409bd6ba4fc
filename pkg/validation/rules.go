package validation

import (
	"fmt"
	"strings"
)

// Rule is one parsed entry of a pipe separated rule string, for example
// "max:255" parses into {Name: "max", Params: ["255"]}.
type Rule struct {
	Name   string
	Params []string
}

// String renders the rule back into its source form.
func (r Rule) String() string {
	if len(r.Params) == 0 {
		return r.Name
	}
	return r.Name + ":" + strings.Join(r.Params, ",")
}

// ParseRules splits "required|max:255|in:a,b" into rules. Empty segments are
// skipped.
func ParseRules(raw string) []Rule {
	var rules []Rule
	for _, segment := range strings.Split(raw, "|") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, params, _ := strings.Cut(segment, ":")
		rule := Rule{Name: strings.ToLower(strings.TrimSpace(name))}
		if strings.TrimSpace(params) != "" {
			for _, param := range strings.Split(params, ",") {
				rule.Params = append(rule.Params, strings.TrimSpace(param))
			}
		}
		rules = append(rules, rule)
	}
	return rules
}

// MergeRules joins rule strings, dropping duplicates by rule name. Later
// occurrences replace earlier ones in place.
func MergeRules(sets ...string) string {
	var ordered []Rule
	index := make(map[string]int)
	for _, set := range sets {
		for _, rule := range ParseRules(set) {
			if at, ok := index[rule.Name]; ok {
				ordered[at] = rule
				continue
			}
			index[rule.Name] = len(ordered)
			ordered = append(ordered, rule)
		}
	}
	parts := make([]string, 0, len(ordered))
	for _, rule := range ordered {
		parts = append(parts, rule.String())
	}
	return strings.Join(parts, "|")
}

// HasRule reports whether raw contains a rule called name.
func HasRule(raw, name string) bool {
	for _, rule := range ParseRules(raw) {
		if rule.Name == name {
			return true
		}
	}
	return false
}

// check pairs a validator tag with the rule it was derived from so failures
// can be reported under the rule name callers wrote.
type check struct {
	rule string
	tag  string
	// numeric compares the value as a number instead of by length.
	numeric bool
}

// aliases maps rule names onto validator tags with identical semantics.
var aliases = map[string]string{
	"integer":   "number",
	"alpha_num": "alphanum",
	"boolean":   "boolean",
	"string":    "",
	"nullable":  "",
	"sometimes": "",
}

// compile turns parsed rules into validator checks. The second return value
// reports whether the field may be left empty.
func compile(rules []Rule) ([]check, bool, error) {
	optional := true
	numeric := false
	for _, rule := range rules {
		if rule.Name == "numeric" || rule.Name == "integer" {
			numeric = true
		}
	}
	var checks []check
	for _, rule := range rules {
		switch rule.Name {
		case "required":
			optional = false
			checks = append(checks, check{rule: "required", tag: "required"})
		case "in":
			if len(rule.Params) == 0 {
				return nil, false, fmt.Errorf("validation: rule %q needs values", rule.Name)
			}
			checks = append(checks, check{rule: "in", tag: "oneof=" + strings.Join(quoteOneOf(rule.Params), " ")})
		case "between":
			if len(rule.Params) != 2 {
				return nil, false, fmt.Errorf("validation: rule %q needs two bounds", rule.Name)
			}
			checks = append(checks,
				check{rule: "between", tag: "min=" + rule.Params[0], numeric: numeric},
				check{rule: "between", tag: "max=" + rule.Params[1], numeric: numeric},
			)
		case "size":
			if len(rule.Params) != 1 {
				return nil, false, fmt.Errorf("validation: rule %q needs a length", rule.Name)
			}
			checks = append(checks, check{rule: "size", tag: "len=" + rule.Params[0]})
		case "max", "min":
			if len(rule.Params) != 1 {
				return nil, false, fmt.Errorf("validation: rule %q needs one bound", rule.Name)
			}
			checks = append(checks, check{rule: rule.Name, tag: rule.Name + "=" + rule.Params[0], numeric: numeric})
		default:
			tag, aliased := aliases[rule.Name]
			if !aliased {
				tag = rule.Name
				if len(rule.Params) > 0 {
					tag += "=" + strings.Join(rule.Params, " ")
				}
			}
			if tag == "" {
				continue
			}
			checks = append(checks, check{rule: rule.Name, tag: tag})
		}
	}
	return checks, optional, nil
}

func quoteOneOf(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.ContainsAny(value, " ") {
			value = "'" + value + "'"
		}
		out = append(out, value)
	}
	return out
}
