// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Violation is one structural problem found in a catalog document.
type Violation struct {
	Language string `json:"language,omitempty"`
	Template string `json:"template,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

// Location returns the dotted "language.template.field" path of the violation,
// omitting the parts that do not apply.
func (v Violation) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{v.Language, v.Template, v.Field} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "(catalog)"
	}
	return strings.Join(parts, ".")
}

// String implements [fmt.Stringer].
func (v Violation) String() string { return v.Location() + ": " + v.Message }

// Report is the outcome of structural validation. Every violation found is
// listed, not only the first.
type Report struct {
	Valid      bool        `json:"valid"`
	Errors     []string    `json:"errors"`
	Violations []Violation `json:"violations,omitempty"`
}

func newReport(violations []Violation) Report {
	slices.SortFunc(violations, func(a, b Violation) int {
		if c := strings.Compare(a.Location(), b.Location()); c != 0 {
			return c
		}
		return strings.Compare(a.Message, b.Message)
	})
	errs := make([]string, len(violations))
	for i, v := range violations {
		errs[i] = v.String()
	}
	return Report{Valid: len(violations) == 0, Errors: errs, Violations: violations}
}

// Validate checks every metadata record: required fields, minimum lengths and
// binding type membership. It never fails; problems are returned in the Report.
func (c *Catalog) Validate() Report {
	doc := make(map[string]any, len(c.entries))
	for l, templates := range c.entries {
		doc[l.String()] = templates
	}
	return validateDocument(doc)
}

// compiledSchema is built from the language and binding enums so the schema
// cannot drift from the Go types.
var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(catalogSchema()))
})

func catalogSchema() map[string]any {
	bindings := make([]any, 0, 3)
	for _, b := range BindingTypes() {
		bindings = append(bindings, string(b))
	}

	metadata := map[string]any{
		"type":     "object",
		"required": []any{"description", "category", "useCase"},
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": MinDescriptionLength},
			"category":    map[string]any{"type": "string", "minLength": MinCategoryLength},
			"useCase":     map[string]any{"type": "string", "minLength": MinUseCaseLength},
			"bindingType": map[string]any{"type": "string", "enum": bindings},
			"resource":    map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}

	languages := make(map[string]any, len(allLanguages))
	for _, l := range allLanguages {
		languages[l.String()] = map[string]any{
			"type":                 "object",
			"propertyNames":        map[string]any{"pattern": TemplateNamePattern},
			"additionalProperties": metadata,
		}
	}

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           languages,
		"additionalProperties": false,
	}
}

// validateDocument runs the schema against a generic catalog document, as
// produced by decoding YAML or by [Catalog.Validate].
func validateDocument(doc any) Report {
	schema, err := compiledSchema()
	if err != nil {
		return newReport([]Violation{{Message: fmt.Sprintf("catalog schema: %v", err)}})
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return newReport([]Violation{{Message: fmt.Sprintf("catalog document: %v", err)}})
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, violationFrom(e))
	}
	return newReport(violations)
}

// schemaRootContext is how gojsonschema names the document root in contexts.
const schemaRootContext = "(root)"

// violationFrom maps a schema error onto language/template/field. Errors about
// a named property (missing or unexpected) are reported at that property.
// Field names never contain dots; template names may, when they are invalid.
func violationFrom(e gojsonschema.ResultError) Violation {
	path := strings.TrimPrefix(e.Context().String(), schemaRootContext)
	path = strings.TrimPrefix(path, ".")
	prop, _ := e.Details()["property"].(string)

	lang, rest, _ := strings.Cut(path, ".")
	v := Violation{Language: lang, Message: e.Description()}

	switch e.Type() {
	case "required", "additional_property_not_allowed":
		switch {
		case lang == "":
			v.Language = prop
		case rest == "":
			v.Template = prop
		default:
			v.Template, v.Field = rest, prop
		}
		return v
	case "invalid_property_name":
		v.Template = prop
		return v
	case "pattern":
		// Only template names are constrained by a pattern.
		if name, ok := e.Value().(string); ok && fmt.Sprint(e.Details()["pattern"]) == TemplateNamePattern {
			v.Template = name
			return v
		}
	}

	if i := strings.LastIndex(rest, "."); i >= 0 {
		v.Template, v.Field = rest[:i], rest[i+1:]
	} else {
		v.Template = rest
	}
	return v
}
