// Package uritemplate implements the RFC 6570 level-1 subset MCP resource
// templates use: simple {name} expansions, each matching one path segment
// ([^/]+), with case-sensitive literal text around them.
package uritemplate

import (
	"fmt"
	"regexp"
	"strings"
)

var varPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Template is a compiled RFC-6570 level-1 template: an original string, the
// ordered variable names it declares, and the regexp used to match and
// capture them.
type Template struct {
	Raw     string
	Vars    []string
	matcher *regexp.Regexp
}

// Compile parses a template string such as "file:///{path}" into a
// Template ready for matching.
func Compile(raw string) (*Template, error) {
	var vars []string
	var b strings.Builder
	b.WriteString("^")

	last := 0
	for _, loc := range varPattern.FindAllStringSubmatchIndex(raw, -1) {
		start, end := loc[0], loc[1]
		nameStart, nameEnd := loc[2], loc[3]

		b.WriteString(regexp.QuoteMeta(raw[last:start]))
		b.WriteString("([^/]+)")
		vars = append(vars, raw[nameStart:nameEnd])
		last = end
	}
	b.WriteString(regexp.QuoteMeta(raw[last:]))
	b.WriteString("$")

	if len(vars) == 0 {
		return nil, fmt.Errorf("uritemplate: %q declares no {variables}", raw)
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("uritemplate: compile %q: %w", raw, err)
	}
	return &Template{Raw: raw, Vars: vars, matcher: re}, nil
}

// Match reports whether uri matches the template and, if so, the bound
// variable values in declaration order.
func (t *Template) Match(uri string) (map[string]string, bool) {
	m := t.matcher.FindStringSubmatch(uri)
	if m == nil {
		return nil, false
	}
	bindings := make(map[string]string, len(t.Vars))
	for i, name := range t.Vars {
		bindings[name] = m[i+1]
	}
	return bindings, true
}
