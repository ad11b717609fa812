// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	"maps"
	"slices"
)

// Catalog is an immutable mapping of language to template name to metadata.
//
// A Catalog is safe for concurrent use by multiple goroutines because nothing
// mutates it after [New] returns.
type Catalog struct {
	entries map[Language]map[string]Metadata
}

// New builds a Catalog from entries. The input is deep-copied, so later changes
// to entries do not affect the returned Catalog. Entries keyed by an invalid
// Language are dropped.
func New(entries map[Language]map[string]Metadata) *Catalog {
	c := &Catalog{entries: make(map[Language]map[string]Metadata, len(allLanguages))}
	for _, l := range allLanguages {
		c.entries[l] = make(map[string]Metadata, len(entries[l]))
		maps.Copy(c.entries[l], entries[l])
	}
	return c
}

// IsValidLanguage reports whether s names a supported language.
func (c *Catalog) IsValidLanguage(s string) bool { return IsValidLanguage(s) }

// IsValidTemplate reports whether name is declared for language. It is false
// for an invalid language.
func (c *Catalog) IsValidTemplate(language, name string) bool {
	l, ok := ParseLanguage(language)
	if !ok {
		return false
	}
	_, ok = c.entries[l][name]
	return ok
}

// TemplatesFor returns the sorted template names declared for language, or
// false if the language is not valid. The list is derived from the catalog's
// keys on every call.
func (c *Catalog) TemplatesFor(language string) ([]string, bool) {
	l, ok := ParseLanguage(language)
	if !ok {
		return nil, false
	}
	return c.Templates(l), true
}

// Templates is the typed form of TemplatesFor.
func (c *Catalog) Templates(l Language) []string {
	return slices.Sorted(maps.Keys(c.entries[l]))
}

// MetadataFor returns the metadata of one template.
func (c *Catalog) MetadataFor(language, name string) (Metadata, bool) {
	l, ok := ParseLanguage(language)
	if !ok {
		return Metadata{}, false
	}
	md, ok := c.entries[l][name]
	return md, ok
}

// Identities returns every declared template identity, ordered by language
// declaration order and then by name.
func (c *Catalog) Identities() []TemplateIdentity {
	var ids []TemplateIdentity
	for _, l := range allLanguages {
		for _, name := range c.Templates(l) {
			ids = append(ids, TemplateIdentity{Language: l, Name: name})
		}
	}
	return ids
}

// Size returns the total number of declared identities.
func (c *Catalog) Size() int {
	n := 0
	for _, templates := range c.entries {
		n += len(templates)
	}
	return n
}

// Entries returns a deep copy of the underlying mapping.
func (c *Catalog) Entries() map[Language]map[string]Metadata {
	out := make(map[Language]map[string]Metadata, len(c.entries))
	for l, templates := range c.entries {
		out[l] = maps.Clone(templates)
	}
	return out
}

// Pruned returns a Catalog without the templates that have at least one
// validation violation. It returns c itself when everything validates.
func (c *Catalog) Pruned() *Catalog {
	report := c.Validate()
	if report.Valid {
		return c
	}

	bad := make(map[TemplateIdentity]bool)
	for _, v := range report.Violations {
		if l, ok := ParseLanguage(v.Language); ok && v.Template != "" {
			bad[TemplateIdentity{Language: l, Name: v.Template}] = true
		}
	}

	entries := c.Entries()
	for id := range bad {
		delete(entries[id.Language], id.Name)
	}
	return New(entries)
}
