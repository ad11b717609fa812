// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import "regexp"

// BindingType classifies how a template's function binds to its resource.
type BindingType string

const (
	// BindingTrigger starts the function.
	BindingTrigger BindingType = "trigger"
	// BindingInput reads from a resource during execution.
	BindingInput BindingType = "input"
	// BindingOutput writes to a resource during execution.
	BindingOutput BindingType = "output"
)

// BindingTypes returns the accepted binding types.
func BindingTypes() []BindingType {
	return []BindingType{BindingTrigger, BindingInput, BindingOutput}
}

// Valid reports whether b is one of the accepted binding types.
func (b BindingType) Valid() bool {
	switch b {
	case BindingTrigger, BindingInput, BindingOutput:
		return true
	default:
		return false
	}
}

// Minimum lengths enforced by [Catalog.Validate].
const (
	MinDescriptionLength = 10
	MinCategoryLength    = 3
	MinUseCaseLength     = 10
)

// TemplateNamePattern is the shape every template name must have. A name is
// a directory under the language directory, so separators and dots are out.
const TemplateNamePattern = `^[A-Za-z0-9_-]+$`

var templateNameRE = regexp.MustCompile(TemplateNamePattern)

// ValidTemplateName reports whether name matches [TemplateNamePattern].
func ValidTemplateName(name string) bool { return templateNameRE.MatchString(name) }

// Metadata describes one template. All fields are optional in the Go type so
// that a missing field surfaces as a validation violation rather than a zero
// value that silently passes.
type Metadata struct {
	Description string      `json:"description,omitempty" yaml:"description"`
	Category    string      `json:"category,omitempty" yaml:"category"`
	UseCase     string      `json:"useCase,omitempty" yaml:"useCase"`
	BindingType BindingType `json:"bindingType,omitempty" yaml:"bindingType,omitempty"`
	Resource    string      `json:"resource,omitempty" yaml:"resource,omitempty"`
}

// TemplateIdentity names one template.
type TemplateIdentity struct {
	Language Language `json:"language"`
	Name     string   `json:"template"`
}

// String renders the identity as "language/name".
func (id TemplateIdentity) String() string {
	return id.Language.String() + "/" + id.Name
}
