// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import "fmt"

// Language is the closed set of template languages.
//
// Any per-language behavior elsewhere in the module switches over every value
// declared here; adding a language means visiting each of those switches.
type Language int

const (
	languageUnknown Language = iota
	// Python templates (Azure Functions Python v2 programming model).
	Python
	// TypeScript templates (Node.js v4 programming model).
	TypeScript
	// Java templates (Maven based).
	Java
	// CSharp templates (.NET isolated worker).
	CSharp
)

// allLanguages is ordered as declared; Languages returns a copy.
var allLanguages = []Language{Python, TypeScript, Java, CSharp}

// Languages returns every supported language in declaration order.
func Languages() []Language {
	out := make([]Language, len(allLanguages))
	copy(out, allLanguages)
	return out
}

// String returns the wire name of the language.
func (l Language) String() string {
	switch l {
	case Python:
		return "python"
	case TypeScript:
		return "typescript"
	case Java:
		return "java"
	case CSharp:
		return "csharp"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// Valid reports whether l is one of the declared languages.
func (l Language) Valid() bool {
	switch l {
	case Python, TypeScript, Java, CSharp:
		return true
	default:
		return false
	}
}

// ParseLanguage maps a wire name to a Language. Matching is exact and
// case-sensitive: "Python" and " python" are not valid.
func ParseLanguage(s string) (Language, bool) {
	for _, l := range allLanguages {
		if l.String() == s {
			return l, true
		}
	}
	return languageUnknown, false
}

// IsValidLanguage reports whether s is exactly one of the language wire names.
func IsValidLanguage(s string) bool {
	_, ok := ParseLanguage(s)
	return ok
}

// LanguageNames returns the wire names of every language in declaration order.
func LanguageNames() []string {
	names := make([]string, len(allLanguages))
	for i, l := range allLanguages {
		names[i] = l.String()
	}
	return names
}

// MarshalText implements [encoding.TextMarshaler].
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid language %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Language) UnmarshalText(text []byte) error {
	parsed, ok := ParseLanguage(string(text))
	if !ok {
		return fmt.Errorf("invalid language %q", string(text))
	}
	*l = parsed
	return nil
}
