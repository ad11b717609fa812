// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package runtimeparam substitutes language runtime version placeholders in
// template file content.
//
// Java templates carry {{javaVersion}} and TypeScript templates carry
// {{nodeVersion}}; Python and C# templates define no runtime placeholder.
// Other placeholders, such as {{triggerType}}, are left untouched.
package runtimeparam

import (
	"slices"
	"strings"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/catalog"
)

// legacyJavaVersion is written by Maven as 1.8, not 8.
const legacyJavaVersion = "8"

// Parameter describes the runtime placeholder of one language.
type Parameter struct {
	Name        string   `json:"name"`
	Placeholder string   `json:"placeholder"`
	Default     string   `json:"default"`
	Accepted    []string `json:"accepted"`
	// Source is the configuration key that overrides Default.
	Source string `json:"source"`
}

// For returns the runtime parameter of l, or false if l defines none.
func For(l catalog.Language) (Parameter, bool) {
	switch l {
	case catalog.Java:
		return Parameter{
			Name:        "javaVersion",
			Placeholder: "{{javaVersion}}",
			Default:     "17",
			Accepted:    []string{"8", "11", "17", "21"},
			Source:      "runtime.javaVersion",
		}, true
	case catalog.TypeScript:
		return Parameter{
			Name:        "nodeVersion",
			Placeholder: "{{nodeVersion}}",
			Default:     "20",
			Accepted:    []string{"18", "20", "22"},
			Source:      "runtime.nodeVersion",
		}, true
	case catalog.Python, catalog.CSharp:
		return Parameter{}, false
	default:
		return Parameter{}, false
	}
}

// IsAccepted reports whether v is one of the documented versions. Substitute
// does not call it; it is for callers that want to warn.
func (p Parameter) IsAccepted(v string) bool { return slices.Contains(p.Accepted, v) }

// Pick returns the first non-empty candidate, or Default.
func (p Parameter) Pick(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return p.Default
}

// Substitute replaces every occurrence of the runtime placeholder of l in
// content with rawVersion. It returns content unchanged for languages without
// a placeholder. rawVersion is not validated, except that Java "8" is written
// as "1.8".
//
// Applying Substitute twice with the same arguments gives the same result as
// applying it once.
func Substitute(content string, l catalog.Language, rawVersion string) string {
	p, ok := For(l)
	if !ok {
		return content
	}
	value := rawVersion
	if l == catalog.Java && rawVersion == legacyJavaVersion {
		value = "1.8"
	}
	return strings.ReplaceAll(content, p.Placeholder, value)
}
